package backend

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// ImageFile is a file ready to travel in a multipart payload.
type ImageFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// multipartBody is an assembled multipart payload.
type multipartBody struct {
	data        []byte
	contentType string
}

// multipartBuilder assembles multipart payloads field by field. Build errors
// stick and surface once at the end.
type multipartBuilder struct {
	buf    bytes.Buffer
	writer *multipart.Writer
	err    error
}

func newMultipartBuilder() *multipartBuilder {
	b := &multipartBuilder{}
	b.writer = multipart.NewWriter(&b.buf)
	return b
}

func (b *multipartBuilder) field(name, value string) {
	if b.err != nil {
		return
	}
	b.err = b.writer.WriteField(name, value)
}

func (b *multipartBuilder) file(name string, f ImageFile) {
	if b.err != nil {
		return
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, name, escapeQuotes(f.Filename)))
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := b.writer.CreatePart(h)
	if err != nil {
		b.err = err
		return
	}
	_, b.err = part.Write(f.Data)
}

func (b *multipartBuilder) build() (*multipartBody, error) {
	if b.err != nil {
		return nil, &RequestError{Err: fmt.Errorf("building multipart body: %w", b.err)}
	}
	if err := b.writer.Close(); err != nil {
		return nil, &RequestError{Err: fmt.Errorf("closing multipart body: %w", err)}
	}
	return &multipartBody{
		data:        b.buf.Bytes(),
		contentType: b.writer.FormDataContentType(),
	}, nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
