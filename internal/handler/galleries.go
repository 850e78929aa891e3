package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"memberdesk/internal/audit"
	"memberdesk/internal/backend"
	"memberdesk/internal/editor"
	"memberdesk/internal/imaging"
	"memberdesk/internal/model"
	"memberdesk/internal/render"
)

// galleryFormData feeds the gallery editor template.
type galleryFormData struct {
	Gallery *model.Gallery
	Errors  editor.FieldErrors
}

// Galleries renders the gallery list.
func (h *Handler) Galleries(w http.ResponseWriter, r *http.Request) {
	galleries, err := h.client.ListGalleries(r.Context())
	if err != nil {
		flashError(w, r, h.renderer, "/", backend.Normalize(err))
		return
	}

	if err := h.renderer.Render(w, r, "galleries", render.TemplateData{
		Title: "Galleries",
		Data:  struct{ Galleries []model.Gallery }{galleries},
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// GalleryCreateForm renders the empty gallery editor.
func (h *Handler) GalleryCreateForm(w http.ResponseWriter, r *http.Request) {
	h.renderGalleryForm(w, r, galleryFormData{})
}

// GalleryCreate validates the submission, normalizes every image and creates
// the gallery.
func (h *Handler) GalleryCreate(w http.ResponseWriter, r *http.Request) {
	req, err := editor.ParseGalleryCreate(r)
	if err != nil {
		var fieldErrs editor.FieldErrors
		if errors.As(err, &fieldErrs) {
			h.renderGalleryForm(w, r, galleryFormData{Errors: fieldErrs})
			return
		}
		flashError(w, r, h.renderer, RouteGalleryCreate, "Invalid form data")
		return
	}

	for i := range req.Images {
		if req.Images[i], err = imaging.Normalize(req.Images[i]); err != nil {
			h.renderGalleryForm(w, r, galleryFormData{Errors: editor.FieldErrors{"images": err.Error()}})
			return
		}
	}

	if err := h.client.CreateGallery(r.Context(), req); err != nil {
		flashError(w, r, h.renderer, RouteGalleryCreate, backend.Normalize(err))
		return
	}

	h.record(r, audit.ActionGalleryCreate, req.Title, fmt.Sprintf("%d images", len(req.Images)))
	flashSuccess(w, r, h.renderer, redirectGalleries, "Gallery created")
}

// GalleryEditForm loads the gallery and renders the editor.
func (h *Handler) GalleryEditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	gallery, err := h.client.GetGallery(r.Context(), id)
	if err != nil {
		flashError(w, r, h.renderer, redirectGalleries, backend.Normalize(err))
		return
	}

	h.renderGalleryForm(w, r, galleryFormData{Gallery: &gallery})
}

// GalleryUpdate applies a text-only rename to an existing gallery.
func (h *Handler) GalleryUpdate(w http.ResponseWriter, r *http.Request) {
	req, err := editor.ParseGalleryUpdate(r)
	if err != nil {
		var fieldErrs editor.FieldErrors
		if errors.As(err, &fieldErrs) {
			gallery := formGallery(r)
			h.renderGalleryForm(w, r, galleryFormData{Gallery: &gallery, Errors: fieldErrs})
			return
		}
		flashError(w, r, h.renderer, redirectGalleries, "Invalid form data")
		return
	}

	if err := h.client.UpdateGallery(r.Context(), req); err != nil {
		flashError(w, r, h.renderer, redirectGalleries, backend.Normalize(err))
		return
	}

	h.record(r, audit.ActionGalleryUpdate, req.ID, req.Title)
	flashSuccess(w, r, h.renderer, redirectGalleries, "Gallery updated")
}

// GalleryAddImages uploads additional images to an existing gallery.
func (h *Handler) GalleryAddImages(w http.ResponseWriter, r *http.Request) {
	req, err := editor.ParseGalleryAddImages(r)
	if err != nil {
		var fieldErrs editor.FieldErrors
		if errors.As(err, &fieldErrs) {
			// Re-render the edit page with the stored record when possible.
			if id := r.FormValue("id"); id != "" {
				if gallery, gerr := h.client.GetGallery(r.Context(), id); gerr == nil {
					h.renderGalleryForm(w, r, galleryFormData{Gallery: &gallery, Errors: fieldErrs})
					return
				}
			}
			flashError(w, r, h.renderer, redirectGalleries, fieldErrs.Error())
			return
		}
		flashError(w, r, h.renderer, redirectGalleries, "Invalid form data")
		return
	}

	// The backend expects the full gallery record alongside the new images.
	gallery, err := h.client.GetGallery(r.Context(), req.Gallery.ID)
	if err != nil {
		flashError(w, r, h.renderer, redirectGalleries, backend.Normalize(err))
		return
	}
	req.Gallery.Title = gallery.Title
	req.Gallery.Images = gallery.Images

	for i := range req.Images {
		if req.Images[i], err = imaging.Normalize(req.Images[i]); err != nil {
			h.renderGalleryForm(w, r, galleryFormData{Gallery: &gallery, Errors: editor.FieldErrors{"images": err.Error()}})
			return
		}
	}

	if err := h.client.AddGalleryImages(r.Context(), req); err != nil {
		flashError(w, r, h.renderer, redirectGalleries, backend.Normalize(err))
		return
	}

	h.record(r, audit.ActionGalleryUpdate, req.Gallery.ID, fmt.Sprintf("added %d images", len(req.Images)))
	flashSuccess(w, r, h.renderer, redirectGalleries, "Images added")
}

// GalleryDelete removes a gallery.
func (h *Handler) GalleryDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.client.DeleteGallery(r.Context(), id); err != nil {
		flashError(w, r, h.renderer, redirectGalleries, backend.Normalize(err))
		return
	}

	h.record(r, audit.ActionGalleryDelete, id, "")
	flashSuccess(w, r, h.renderer, redirectGalleries, "Gallery deleted")
}

// formGallery rebuilds a gallery from submitted values so a failed rename
// re-renders with the admin's edits instead of the stored record.
func formGallery(r *http.Request) model.Gallery {
	return model.Gallery{
		ID:    r.FormValue("id"),
		Title: r.FormValue("title"),
	}
}

func (h *Handler) renderGalleryForm(w http.ResponseWriter, r *http.Request, data galleryFormData) {
	title := "New Gallery"
	if data.Gallery != nil {
		title = "Edit Gallery"
	}
	if err := h.renderer.Render(w, r, "gallery_form", render.TemplateData{
		Title: title,
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}
