package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memberdesk/internal/model"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login-user", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "admin", creds.Username)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(model.AdminIdentity{ID: "abc123", Username: "admin", Role: "admin"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	identity, err := c.Login(context.Background(), Credentials{Username: "admin", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "abc123", identity.ID)
	assert.True(t, identity.IsAdmin())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Login(context.Background(), Credentials{Username: "admin", Password: "wrong"})
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Equal(t, "invalid credentials", se.Message)
	assert.Equal(t, "invalid credentials", Normalize(err))
}

func TestListMembers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/user/get-users", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"_id":"m1","name":{"firstname":"Ada","lastname":"Lovelace"},"approve":true,
			 "email":{"primary":"ada@example.org"},"phone":{"primary":"111"}},
			{"_id":"m2","name":{"firstname":"Alan","lastname":"Turing"},"approve":false,
			 "email":{"primary":"alan@example.org"},"phone":{"primary":"222"}}
		]`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	members, err := c.ListMembers(context.Background(), 2, 10)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "m1", members[0].ID)
	assert.Equal(t, "Ada Lovelace", members[0].Name.Full())
	assert.True(t, members[0].Approve)
	assert.False(t, members[1].Approve)
}

func TestApproveAndRejectMember(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL)

	require.NoError(t, c.ApproveMember(context.Background(), "m1"))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/user/approveuser/m1", gotPath)

	require.NoError(t, c.RejectMember(context.Background(), "m1"))
	assert.Equal(t, "/api/user/rejectuser/m1", gotPath)

	require.NoError(t, c.ApproveAllMembers(context.Background()))
	assert.Equal(t, "/api/user/approve-all", gotPath)

	require.NoError(t, c.RejectAllMembers(context.Background()))
	assert.Equal(t, "/api/user/reject-all", gotPath)
}

func TestCreateEvent_Multipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/event-gallery", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(32<<20))

		assert.Equal(t, "Annual Meetup", r.FormValue("title"))
		assert.Equal(t, "A description", r.FormValue("desc"))
		assert.Equal(t, "Heading", r.FormValue("bhead"))
		assert.Equal(t, "Body text", r.FormValue("blogPara1"))

		banner, hdr, err := r.FormFile("bannerImage")
		require.NoError(t, err)
		defer func() { _ = banner.Close() }()
		assert.Equal(t, "banner.jpg", hdr.Filename)
		assert.Equal(t, "image/jpeg", hdr.Header.Get("Content-Type"))

		blog, _, err := r.FormFile("bImage1")
		require.NoError(t, err)
		defer func() { _ = blog.Close() }()

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.CreateEvent(context.Background(), EventCreateRequest{
		Title:       "Annual Meetup",
		Description: "A description",
		BlogHeading: "Heading",
		BlogBody:    "Body text",
		BannerImage: ImageFile{Filename: "banner.jpg", ContentType: "image/jpeg", Data: []byte("jpegdata")},
		BlogImage:   ImageFile{Filename: "blog.png", ContentType: "image/png", Data: []byte("pngdata")},
	})
	require.NoError(t, err)
}

func TestUpdateEvent_WrappedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/v1/update-event-gallery", r.URL.Path)

		var payload map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Contains(t, payload, "blog")

		var req EventUpdateRequest
		require.NoError(t, json.Unmarshal(payload["blog"], &req))
		assert.Equal(t, "e1", req.ID)
		assert.Equal(t, "https://cdn.example.org/old.jpg", req.Blog.Image)

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL)
	req := EventUpdateRequest{ID: "e1", Title: "New title", Description: "New desc"}
	req.Blog.Heading = "h"
	req.Blog.Body = "b"
	req.Blog.Image = "https://cdn.example.org/old.jpg"
	require.NoError(t, c.UpdateEvent(context.Background(), req))
}

func TestAddGalleryImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/add-images-in-gallery", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(32<<20))

		var gallery GalleryUpdateRequest
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("gallery")), &gallery))
		assert.Equal(t, "g1", gallery.ID)

		require.Len(t, r.MultipartForm.File["images"], 2)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.AddGalleryImages(context.Background(), AddGalleryImagesRequest{
		Gallery: GalleryUpdateRequest{ID: "g1", Title: "Trip"},
		Images: []ImageFile{
			{Filename: "a.jpg", ContentType: "image/jpeg", Data: []byte("a")},
			{Filename: "b.jpg", ContentType: "image/jpeg", Data: []byte("b")},
		},
	})
	require.NoError(t, err)
}

func TestDo_TransportError(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL)
	_, err := c.ListEvents(context.Background())
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, MsgNoResponse, Normalize(err))
}

func TestDo_RequestIDHeader(t *testing.T) {
	var gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListGalleries(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, gotID)
}
