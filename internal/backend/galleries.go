package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"memberdesk/internal/model"
)

// GalleryCreateRequest is the multipart payload for creating a gallery.
type GalleryCreateRequest struct {
	Title  string
	Images []ImageFile
}

// GalleryUpdateRequest is the JSON payload for a text-only gallery update.
// Existing image URLs are carried over by reference.
type GalleryUpdateRequest struct {
	ID     string   `json:"_id"`
	Title  string   `json:"title"`
	Images []string `json:"images,omitempty"`
}

// AddGalleryImagesRequest appends images to an existing gallery. The gallery
// record travels as a JSON form field alongside the raw image parts.
type AddGalleryImagesRequest struct {
	Gallery GalleryUpdateRequest
	Images  []ImageFile
}

// CreateGallery submits a new gallery with its images.
func (c *Client) CreateGallery(ctx context.Context, req GalleryCreateRequest) error {
	b := newMultipartBuilder()
	b.field("title", req.Title)
	for _, img := range req.Images {
		b.file("images", img)
	}
	form, err := b.build()
	if err != nil {
		return err
	}
	return c.doMultipart(ctx, http.MethodPost, "/api/v1/gallery", form, nil)
}

// ListGalleries fetches all galleries.
func (c *Client) ListGalleries(ctx context.Context) ([]model.Gallery, error) {
	var galleries []model.Gallery
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/get-gallery", nil, &galleries)
	return galleries, err
}

// GetGallery fetches one gallery by ID.
func (c *Client) GetGallery(ctx context.Context, id string) (model.Gallery, error) {
	var gallery model.Gallery
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/get-gallery/"+url.PathEscape(id), nil, &gallery)
	return gallery, err
}

// UpdateGallery submits a text-only update, wrapped under a "gallery" key.
func (c *Client) UpdateGallery(ctx context.Context, req GalleryUpdateRequest) error {
	payload := map[string]GalleryUpdateRequest{"gallery": req}
	return c.doJSON(ctx, http.MethodPut, "/api/v1/update-gallery", payload, nil)
}

// AddGalleryImages appends images to an existing gallery.
func (c *Client) AddGalleryImages(ctx context.Context, req AddGalleryImagesRequest) error {
	meta, err := json.Marshal(req.Gallery)
	if err != nil {
		return &RequestError{Err: fmt.Errorf("encoding gallery field: %w", err)}
	}

	b := newMultipartBuilder()
	b.field("gallery", string(meta))
	for _, img := range req.Images {
		b.file("images", img)
	}
	form, err := b.build()
	if err != nil {
		return err
	}
	return c.doMultipart(ctx, http.MethodPost, "/api/v1/add-images-in-gallery", form, nil)
}

// DeleteGallery removes a gallery.
func (c *Client) DeleteGallery(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/v1/gallery/"+url.PathEscape(id), nil, nil)
}
