package middleware

import (
	"net/http"
	"strconv"
)

// StaticCache marks responses cacheable for maxAge seconds. Applied to the
// embedded console assets, which only change with a new binary.
func StaticCache(maxAge int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(maxAge))
			next.ServeHTTP(w, r)
		})
	}
}
