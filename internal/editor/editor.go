// Package editor validates entity editor submissions before any request
// reaches the backend. Text fields are sanitized to plain text; a form
// that fails validation never produces a backend call.
package editor

import (
	"fmt"
	"io"
	"mime/multipart"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"memberdesk/internal/backend"
)

// MaxUploadSize is the per-request limit for multipart form memory.
const MaxUploadSize = 32 << 20 // 32 MB

// textPolicy strips all HTML from submitted text fields.
var textPolicy = bluemonday.StrictPolicy()

// FieldErrors maps form field names to validation messages.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", f, e[f])
	}
	return b.String()
}

// cleanText sanitizes and trims a submitted text field.
func cleanText(s string) string {
	return strings.TrimSpace(textPolicy.Sanitize(s))
}

// readImage reads a multipart file into an ImageFile. The declared
// content type is carried along; the imaging layer re-checks the bytes.
func readImage(header *multipart.FileHeader) (backend.ImageFile, error) {
	file, err := header.Open()
	if err != nil {
		return backend.ImageFile{}, fmt.Errorf("opening upload %q: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return backend.ImageFile{}, fmt.Errorf("reading upload %q: %w", header.Filename, err)
	}

	return backend.ImageFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
