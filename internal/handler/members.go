package handler

import (
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"memberdesk/internal/audit"
	"memberdesk/internal/backend"
	"memberdesk/internal/editor"
	"memberdesk/internal/imaging"
	"memberdesk/internal/model"
	"memberdesk/internal/render"
)

// Members renders the moderation list for the requested page.
func (h *Handler) Members(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	// Fetch errors surface in the view; the previous page stays visible.
	if err := h.moderation.FetchPage(r.Context(), page); err != nil {
		slog.Warn("member page fetch failed", "page", page, "error", err)
	}

	if err := h.renderer.Render(w, r, "members", render.TemplateData{
		Title: "Members",
		Data:  h.moderation.Snapshot(),
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// ToggleMember approves a pending member or rejects an approved one.
func (h *Handler) ToggleMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	approved, err := h.moderation.ToggleApproval(r.Context(), id)
	if err != nil {
		flashError(w, r, h.renderer, redirectMembers, backend.Normalize(err))
		return
	}

	if approved {
		h.record(r, audit.ActionMemberApprove, id, "")
		flashSuccess(w, r, h.renderer, redirectMembers, "Member approved")
	} else {
		h.record(r, audit.ActionMemberReject, id, "")
		flashSuccess(w, r, h.renderer, redirectMembers, "Member rejected")
	}
}

// ToggleAllMembers applies the bulk approval action.
func (h *Handler) ToggleAllMembers(w http.ResponseWriter, r *http.Request) {
	approved, err := h.moderation.ToggleBulk(r.Context())
	if err != nil {
		flashError(w, r, h.renderer, redirectMembers, backend.Normalize(err))
		return
	}

	if approved {
		h.record(r, audit.ActionBulkApprove, "", "")
		flashSuccess(w, r, h.renderer, redirectMembers, "All members approved")
	} else {
		h.record(r, audit.ActionBulkReject, "", "")
		flashSuccess(w, r, h.renderer, redirectMembers, "All members rejected")
	}
}

// MemberDetail renders the full member record, including alternate contacts
// and structured addresses.
func (h *Handler) MemberDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	member, err := h.findMember(r.Context(), id)
	if err != nil {
		flashError(w, r, h.renderer, redirectMembers, backend.Normalize(err))
		return
	}

	if err := h.renderer.Render(w, r, "member", render.TemplateData{
		Title: member.Name.Full(),
		Data:  struct{ Member model.Member }{member},
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// MemberImage replaces an existing member's photo from the detail view.
func (h *Handler) MemberImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	detail := "/members/" + id

	if err := r.ParseMultipartForm(editor.MaxUploadSize); err != nil {
		flashError(w, r, h.renderer, detail, "Invalid form data")
		return
	}
	headers := r.MultipartForm.File["image"]
	if len(headers) == 0 {
		flashError(w, r, h.renderer, detail, "Choose an image to upload")
		return
	}

	if err := h.uploadMemberImage(r, id, headers[0]); err != nil {
		slog.Warn("member photo upload failed", "member_id", id, "error", err)
		flashError(w, r, h.renderer, detail, backend.Normalize(err))
		return
	}

	h.record(r, audit.ActionImageUpload, id, "")
	flashSuccess(w, r, h.renderer, detail, "Photo updated")
}

// findMember resolves a member by id, preferring the page currently held by
// the moderation controller before asking the backend for the full list.
func (h *Handler) findMember(ctx context.Context, id string) (model.Member, error) {
	for _, m := range h.moderation.Snapshot().Members {
		if m.ID == id {
			return m, nil
		}
	}

	members, err := h.client.ListAllMembers(ctx)
	if err != nil {
		return model.Member{}, err
	}
	for _, m := range members {
		if m.ID == id {
			return m, nil
		}
	}
	return model.Member{}, &backend.StatusError{StatusCode: http.StatusNotFound, Message: "Member not found"}
}

// RegisterForm renders the member registration page.
func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "register", render.TemplateData{Title: "Register Member"}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// Register creates a member account on the backend. An optional photo is
// normalized and uploaded after the account exists.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(editor.MaxUploadSize); err != nil {
		flashError(w, r, h.renderer, RouteMembersRegister, "Invalid form data")
		return
	}

	req := backend.RegisterRequest{
		Name: model.MemberName{
			First:  r.FormValue("firstname"),
			Middle: r.FormValue("middlename"),
			Last:   r.FormValue("lastname"),
		},
		Profession: r.FormValue("profession"),
		Phone:      model.ContactPair{Primary: r.FormValue("phone")},
		Email:      model.ContactPair{Primary: r.FormValue("email")},
		Address: model.MemberAddress{
			Residential: parseAddress(r, "residential"),
			Office:      parseAddress(r, "office"),
		},
		Password: r.FormValue("password"),
	}

	if req.Name.First == "" || req.Name.Last == "" || req.Email.Primary == "" ||
		req.Phone.Primary == "" || req.Password == "" {
		flashError(w, r, h.renderer, RouteMembersRegister, "Name, email, phone and password are required")
		return
	}

	member, err := h.client.Register(r.Context(), req)
	if err != nil {
		flashError(w, r, h.renderer, RouteMembersRegister, backend.Normalize(err))
		return
	}

	h.record(r, audit.ActionRegister, member.ID, req.Email.Primary)

	// Photo upload happens after the account exists; a failure here leaves
	// a valid account without a photo rather than rolling back.
	if headers := r.MultipartForm.File["image"]; len(headers) > 0 && member.ID != "" {
		if err := h.uploadMemberImage(r, member.ID, headers[0]); err != nil {
			slog.Warn("member photo upload failed", "member_id", member.ID, "error", err)
			flashAndRedirect(w, r, h.renderer, redirectMembers,
				"Member registered, but the photo upload failed: "+backend.Normalize(err), "info")
			return
		}
		h.record(r, audit.ActionImageUpload, member.ID, "")
	}

	flashSuccess(w, r, h.renderer, redirectMembers, "Member registered")
}

// parseAddress builds one structured address from prefixed form fields.
// Returns nil when every field is empty so absent addresses stay absent.
func parseAddress(r *http.Request, prefix string) *model.AddressDetail {
	a := model.AddressDetail{
		AddressLine: r.FormValue(prefix + "_address_line"),
		City:        r.FormValue(prefix + "_city"),
		State:       r.FormValue(prefix + "_state"),
		Pincode:     r.FormValue(prefix + "_pincode"),
		Phone:       r.FormValue(prefix + "_phone"),
	}
	if a.IsZero() {
		return nil
	}
	return &a
}

// uploadMemberImage reads, normalizes and uploads a member photo.
func (h *Handler) uploadMemberImage(r *http.Request, memberID string, header *multipart.FileHeader) error {
	file, err := header.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	image, err := imaging.Normalize(backend.ImageFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		return err
	}

	return h.client.UploadMemberImage(r.Context(), memberID, image)
}
