package editor

import (
	"net/http"

	"memberdesk/internal/backend"
)

// ParseGalleryCreate validates a new-gallery submission. A gallery needs a
// title and at least one image.
func ParseGalleryCreate(r *http.Request) (backend.GalleryCreateRequest, error) {
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		return backend.GalleryCreateRequest{}, FieldErrors{"form": "invalid or oversized form submission"}
	}

	req := backend.GalleryCreateRequest{
		Title: cleanText(r.FormValue("title")),
	}

	errs := FieldErrors{}
	if req.Title == "" {
		errs["title"] = "title is required"
	}
	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		errs["images"] = "at least one image is required"
	}
	if len(errs) > 0 {
		return backend.GalleryCreateRequest{}, errs
	}

	for _, header := range headers {
		img, err := readImage(header)
		if err != nil {
			return backend.GalleryCreateRequest{}, FieldErrors{"images": err.Error()}
		}
		req.Images = append(req.Images, img)
	}

	return req, nil
}

// ParseGalleryUpdate validates a gallery rename. The update is text only;
// the stored image list is carried through unchanged.
func ParseGalleryUpdate(r *http.Request) (backend.GalleryUpdateRequest, error) {
	if err := r.ParseForm(); err != nil {
		return backend.GalleryUpdateRequest{}, FieldErrors{"form": "invalid form submission"}
	}

	req := backend.GalleryUpdateRequest{
		ID:    r.FormValue("id"),
		Title: cleanText(r.FormValue("title")),
	}

	errs := FieldErrors{}
	if req.ID == "" {
		errs["id"] = "gallery id is required"
	}
	if req.Title == "" {
		errs["title"] = "title is required"
	}
	if len(errs) > 0 {
		return backend.GalleryUpdateRequest{}, errs
	}

	return req, nil
}

// ParseGalleryAddImages validates adding images to an existing gallery.
func ParseGalleryAddImages(r *http.Request) (backend.AddGalleryImagesRequest, error) {
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		return backend.AddGalleryImagesRequest{}, FieldErrors{"form": "invalid or oversized form submission"}
	}

	req := backend.AddGalleryImagesRequest{
		Gallery: backend.GalleryUpdateRequest{ID: r.FormValue("id")},
	}

	errs := FieldErrors{}
	if req.Gallery.ID == "" {
		errs["id"] = "gallery id is required"
	}
	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		errs["images"] = "at least one image is required"
	}
	if len(errs) > 0 {
		return backend.AddGalleryImagesRequest{}, errs
	}

	for _, header := range headers {
		img, err := readImage(header)
		if err != nil {
			return backend.AddGalleryImagesRequest{}, FieldErrors{"images": err.Error()}
		}
		req.Images = append(req.Images, img)
	}

	return req, nil
}
