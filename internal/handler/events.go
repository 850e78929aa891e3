package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"memberdesk/internal/audit"
	"memberdesk/internal/backend"
	"memberdesk/internal/editor"
	"memberdesk/internal/imaging"
	"memberdesk/internal/model"
	"memberdesk/internal/render"
)

// eventFormData feeds the event editor template.
type eventFormData struct {
	Event  *model.Event
	Errors editor.FieldErrors
}

// Events renders the event list.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.client.ListEvents(r.Context())
	if err != nil {
		flashError(w, r, h.renderer, "/", backend.Normalize(err))
		return
	}

	if err := h.renderer.Render(w, r, "events", render.TemplateData{
		Title: "Events",
		Data:  struct{ Events []model.Event }{events},
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// EventCreateForm renders the empty event editor.
func (h *Handler) EventCreateForm(w http.ResponseWriter, r *http.Request) {
	h.renderEventForm(w, r, eventFormData{})
}

// EventCreate validates the submission, normalizes both images and creates
// the event. Validation failures re-render the form without a backend call.
func (h *Handler) EventCreate(w http.ResponseWriter, r *http.Request) {
	req, err := editor.ParseEventCreate(r)
	if err != nil {
		var fieldErrs editor.FieldErrors
		if errors.As(err, &fieldErrs) {
			h.renderEventForm(w, r, eventFormData{Errors: fieldErrs})
			return
		}
		flashError(w, r, h.renderer, RouteEventsCreate, "Invalid form data")
		return
	}

	if req.BannerImage, err = imaging.Normalize(req.BannerImage); err != nil {
		h.renderEventForm(w, r, eventFormData{Errors: editor.FieldErrors{"banner_image": err.Error()}})
		return
	}
	if req.BlogImage, err = imaging.Normalize(req.BlogImage); err != nil {
		h.renderEventForm(w, r, eventFormData{Errors: editor.FieldErrors{"blog_image": err.Error()}})
		return
	}

	if err := h.client.CreateEvent(r.Context(), req); err != nil {
		flashError(w, r, h.renderer, RouteEventsCreate, backend.Normalize(err))
		return
	}

	h.record(r, audit.ActionEventCreate, req.Title, "")
	flashSuccess(w, r, h.renderer, redirectEvents, "Event created")
}

// EventEditForm loads the event and renders the editor with its fields.
func (h *Handler) EventEditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	event, err := h.client.GetEvent(r.Context(), id)
	if err != nil {
		flashError(w, r, h.renderer, redirectEvents, backend.Normalize(err))
		return
	}

	h.renderEventForm(w, r, eventFormData{Event: &event})
}

// EventUpdate applies a text-only update to an existing event.
func (h *Handler) EventUpdate(w http.ResponseWriter, r *http.Request) {
	req, err := editor.ParseEventUpdate(r)
	if err != nil {
		var fieldErrs editor.FieldErrors
		if errors.As(err, &fieldErrs) {
			event := formEvent(r)
			h.renderEventForm(w, r, eventFormData{Event: &event, Errors: fieldErrs})
			return
		}
		flashError(w, r, h.renderer, redirectEvents, "Invalid form data")
		return
	}

	if err := h.client.UpdateEvent(r.Context(), req); err != nil {
		flashError(w, r, h.renderer, redirectEvents, backend.Normalize(err))
		return
	}

	h.record(r, audit.ActionEventUpdate, req.ID, req.Title)
	flashSuccess(w, r, h.renderer, redirectEvents, "Event updated")
}

// EventDelete removes an event.
func (h *Handler) EventDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.client.DeleteEvent(r.Context(), id); err != nil {
		flashError(w, r, h.renderer, redirectEvents, backend.Normalize(err))
		return
	}

	h.record(r, audit.ActionEventDelete, id, "")
	flashSuccess(w, r, h.renderer, redirectEvents, "Event deleted")
}

func (h *Handler) renderEventForm(w http.ResponseWriter, r *http.Request, data eventFormData) {
	title := "New Event"
	if data.Event != nil {
		title = "Edit Event"
	}
	if err := h.renderer.Render(w, r, "event_form", render.TemplateData{
		Title: title,
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// formEvent rebuilds an event from submitted values so a failed update
// re-renders with the admin's edits instead of the stored record.
func formEvent(r *http.Request) model.Event {
	event := model.Event{
		ID:          r.FormValue("id"),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}
	event.Blog.Heading = r.FormValue("blog_heading")
	event.Blog.Body = r.FormValue("blog_body")
	event.Blog.Image = r.FormValue("blog_image_path")
	return event
}
