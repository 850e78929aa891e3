package backend

import (
	"context"
	"net/http"
	"net/url"

	"memberdesk/internal/model"
)

// EventCreateRequest is the multipart payload for creating an event. All
// fields are required; validation happens in the editor before this type is
// ever constructed.
type EventCreateRequest struct {
	Title       string
	Description string
	BlogHeading string
	BlogBody    string
	BannerImage ImageFile
	BlogImage   ImageFile
}

// EventUpdateRequest is the JSON payload for a text-only event update.
// BlogImage carries the existing stored URL unchanged; no file travels here.
type EventUpdateRequest struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"desc"`
	Blog        struct {
		Heading string `json:"bhead"`
		Body    string `json:"blogPara1"`
		Image   string `json:"bImage1"`
	} `json:"blog"`
}

// CreateEvent submits a new event with its banner and blog images.
func (c *Client) CreateEvent(ctx context.Context, req EventCreateRequest) error {
	b := newMultipartBuilder()
	b.field("title", req.Title)
	b.field("desc", req.Description)
	b.field("bhead", req.BlogHeading)
	b.field("blogPara1", req.BlogBody)
	b.file("bannerImage", req.BannerImage)
	b.file("bImage1", req.BlogImage)
	form, err := b.build()
	if err != nil {
		return err
	}
	return c.doMultipart(ctx, http.MethodPost, "/api/v1/event-gallery", form, nil)
}

// ListEvents fetches all events.
func (c *Client) ListEvents(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/get-event-gallery", nil, &events)
	return events, err
}

// GetEvent fetches one event by ID.
func (c *Client) GetEvent(ctx context.Context, id string) (model.Event, error) {
	var event model.Event
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/get-event-gallery/"+url.PathEscape(id), nil, &event)
	return event, err
}

// UpdateEvent submits a text-only update. The backend expects the payload
// wrapped under a "blog" key.
func (c *Client) UpdateEvent(ctx context.Context, req EventUpdateRequest) error {
	payload := map[string]EventUpdateRequest{"blog": req}
	return c.doJSON(ctx, http.MethodPut, "/api/v1/update-event-gallery", payload, nil)
}

// DeleteEvent removes an event.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/v1/event-gallery/"+url.PathEscape(id), nil, nil)
}
