package editor

import (
	"net/http"

	"memberdesk/internal/backend"
)

// ParseEventCreate validates a new-event submission. Creation requires all
// text fields plus both images, since the backend stores the banner and the
// blog illustration at creation time only.
func ParseEventCreate(r *http.Request) (backend.EventCreateRequest, error) {
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		return backend.EventCreateRequest{}, FieldErrors{"form": "invalid or oversized form submission"}
	}

	req := backend.EventCreateRequest{
		Title:       cleanText(r.FormValue("title")),
		Description: cleanText(r.FormValue("description")),
		BlogHeading: cleanText(r.FormValue("blog_heading")),
		BlogBody:    cleanText(r.FormValue("blog_body")),
	}

	errs := FieldErrors{}
	if req.Title == "" {
		errs["title"] = "title is required"
	}
	if req.Description == "" {
		errs["description"] = "description is required"
	}
	if req.BlogHeading == "" {
		errs["blog_heading"] = "blog heading is required"
	}
	if req.BlogBody == "" {
		errs["blog_body"] = "blog body is required"
	}

	banner := r.MultipartForm.File["banner_image"]
	if len(banner) == 0 {
		errs["banner_image"] = "banner image is required"
	}
	blogImage := r.MultipartForm.File["blog_image"]
	if len(blogImage) == 0 {
		errs["blog_image"] = "blog image is required"
	}
	if len(errs) > 0 {
		return backend.EventCreateRequest{}, errs
	}

	var err error
	if req.BannerImage, err = readImage(banner[0]); err != nil {
		return backend.EventCreateRequest{}, FieldErrors{"banner_image": err.Error()}
	}
	if req.BlogImage, err = readImage(blogImage[0]); err != nil {
		return backend.EventCreateRequest{}, FieldErrors{"blog_image": err.Error()}
	}

	return req, nil
}

// ParseEventUpdate validates an edit-event submission. Updates are text
// only; stored image paths are carried through unchanged.
func ParseEventUpdate(r *http.Request) (backend.EventUpdateRequest, error) {
	if err := r.ParseForm(); err != nil {
		return backend.EventUpdateRequest{}, FieldErrors{"form": "invalid form submission"}
	}

	req := backend.EventUpdateRequest{
		ID:          r.FormValue("id"),
		Title:       cleanText(r.FormValue("title")),
		Description: cleanText(r.FormValue("description")),
	}
	req.Blog.Heading = cleanText(r.FormValue("blog_heading"))
	req.Blog.Body = cleanText(r.FormValue("blog_body"))
	req.Blog.Image = r.FormValue("blog_image_path")

	errs := FieldErrors{}
	if req.ID == "" {
		errs["id"] = "event id is required"
	}
	if req.Title == "" {
		errs["title"] = "title is required"
	}
	if req.Description == "" {
		errs["description"] = "description is required"
	}
	if req.Blog.Heading == "" {
		errs["blog_heading"] = "blog heading is required"
	}
	if req.Blog.Body == "" {
		errs["blog_body"] = "blog body is required"
	}
	if len(errs) > 0 {
		return backend.EventUpdateRequest{}, errs
	}

	return req, nil
}
