// Package middleware provides HTTP middleware for authentication,
// request protection, and request context handling.
package middleware

import (
	"context"
	"net/http"

	"memberdesk/internal/model"
	"memberdesk/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request-scoped data.
const (
	ContextKeyIdentity    ContextKey = "identity"
	ContextKeyRequestPath ContextKey = "request_path"
)

// Auth creates the route gate. Every request resolves its session identity
// first; unauthenticated requests are sent to the login page and never reach
// the protected handler. Authenticated requests carry the identity in the
// request context.
func Auth(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := store.Initialize(r.Context())
			if !state.IsAuthenticated {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyIdentity, state.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoadIdentity creates middleware that resolves the session identity into the
// request context without gating. Use this on routes like the login page where
// authentication is optional but identity context is useful.
func LoadIdentity(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := store.Initialize(r.Context())
			if !state.IsAuthenticated {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyIdentity, state.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity retrieves the admin identity from the request context.
// Returns nil if the request is unauthenticated.
func GetIdentity(r *http.Request) *model.AdminIdentity {
	identity, ok := r.Context().Value(ContextKeyIdentity).(model.AdminIdentity)
	if !ok {
		return nil
	}
	return &identity
}

// GetActor returns the current admin's username for audit logging, or ""
// if the request is unauthenticated.
func GetActor(r *http.Request) string {
	if identity := GetIdentity(r); identity != nil {
		return identity.Username
	}
	return ""
}

// RequestPath creates middleware that stores the request path in the context.
// This is used by the logging handler to include the URL in error logs.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}
