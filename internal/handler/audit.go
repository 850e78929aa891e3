package handler

import (
	"net/http"

	"memberdesk/internal/audit"
	"memberdesk/internal/render"
)

// Audit renders the recent audit entries.
func (h *Handler) Audit(w http.ResponseWriter, r *http.Request) {
	entries, err := h.audit.Recent(r.Context(), 100)
	if err != nil {
		logAndInternalError(w, "audit query error", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "audit", render.TemplateData{
		Title: "Audit Log",
		Data:  struct{ Entries []audit.Entry }{entries},
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}
