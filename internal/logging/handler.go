// Package logging provides a slog handler that forwards WARN and above
// to the audit log, so application warnings show up next to admin actions.
package logging

import (
	"context"
	"log/slog"
	"strings"

	"memberdesk/internal/audit"
	"memberdesk/internal/middleware"
)

// AuditLogHandler is a slog.Handler that wraps another handler and also
// writes WARN and ERROR level records to the audit log.
type AuditLogHandler struct {
	inner    slog.Handler
	recorder *audit.Recorder
	level    slog.Level
}

// NewAuditLogHandler creates a handler forwarding WARN and above.
func NewAuditLogHandler(inner slog.Handler, recorder *audit.Recorder) *AuditLogHandler {
	return &AuditLogHandler{
		inner:    inner,
		recorder: recorder,
		level:    slog.LevelWarn,
	}
}

// Enabled implements slog.Handler.
func (h *AuditLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *AuditLogHandler) Handle(ctx context.Context, r slog.Record) error {
	// Always forward to the inner handler first
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.writeToAuditLog(ctx, r)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *AuditLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AuditLogHandler{
		inner:    h.inner.WithAttrs(attrs),
		recorder: h.recorder,
		level:    h.level,
	}
}

// WithGroup implements slog.Handler.
func (h *AuditLogHandler) WithGroup(name string) slog.Handler {
	return &AuditLogHandler{
		inner:    h.inner.WithGroup(name),
		recorder: h.recorder,
		level:    h.level,
	}
}

// writeToAuditLog stores the record as an audit entry. A background context
// is used so the entry survives request cancellation.
func (h *AuditLogHandler) writeToAuditLog(ctx context.Context, r slog.Record) {
	level := audit.LevelWarning
	if r.Level >= slog.LevelError {
		level = audit.LevelError
	}

	_ = h.recorder.Record(context.Background(), audit.Entry{
		Level:   level,
		Action:  "app." + strings.ToLower(r.Level.String()),
		Subject: middleware.GetRequestPath(ctx),
		Detail:  r.Message + formatAttrs(r),
	})
}

// formatAttrs renders record attributes as " key=value" pairs.
func formatAttrs(r slog.Record) string {
	var b strings.Builder
	r.Attrs(func(a slog.Attr) bool {
		b.WriteString(" ")
		b.WriteString(a.Key)
		b.WriteString("=")
		b.WriteString(a.Value.String())
		return true
	})
	return b.String()
}
