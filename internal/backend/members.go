package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"memberdesk/internal/model"
)

// Credentials is the login payload. The backend keys on username even though
// member records are email-centric.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for registering a new member account.
type RegisterRequest struct {
	Name       model.MemberName    `json:"name"`
	Profession string              `json:"profession,omitempty"`
	Phone      model.ContactPair   `json:"phone"`
	Email      model.ContactPair   `json:"email"`
	Address    model.MemberAddress `json:"address,omitempty"`
	Password   string              `json:"password"`
}

// Login authenticates against the backend and returns the identity blob. The
// caller hands the result to the session store; Login itself never touches
// session state.
func (c *Client) Login(ctx context.Context, creds Credentials) (model.AdminIdentity, error) {
	var identity model.AdminIdentity
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login-user", creds, &identity)
	return identity, err
}

// Register creates a new member account and returns the stored record.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (model.Member, error) {
	var member model.Member
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register-user", req, &member)
	return member, err
}

// ListAllMembers fetches every member record without pagination.
func (c *Client) ListAllMembers(ctx context.Context) ([]model.Member, error) {
	var members []model.Member
	err := c.doJSON(ctx, http.MethodGet, "/api/auth/users", nil, &members)
	return members, err
}

// ListMembers fetches one page of member records.
func (c *Client) ListMembers(ctx context.Context, page, limit int) ([]model.Member, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var members []model.Member
	err := c.doJSON(ctx, http.MethodGet, "/api/user/get-users?"+q.Encode(), nil, &members)
	return members, err
}

// ApproveMember marks one member approved.
func (c *Client) ApproveMember(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodPut, "/api/user/approveuser/"+url.PathEscape(id), nil, nil)
}

// RejectMember marks one member rejected.
func (c *Client) RejectMember(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodPut, "/api/user/rejectuser/"+url.PathEscape(id), nil, nil)
}

// ApproveAllMembers marks every member approved.
func (c *Client) ApproveAllMembers(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPut, "/api/user/approve-all", nil, nil)
}

// RejectAllMembers marks every member rejected.
func (c *Client) RejectAllMembers(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPut, "/api/user/reject-all", nil, nil)
}

// UploadMemberImage replaces a member's profile image.
func (c *Client) UploadMemberImage(ctx context.Context, id string, image ImageFile) error {
	b := newMultipartBuilder()
	b.file("image", image)
	form, err := b.build()
	if err != nil {
		return err
	}
	return c.doMultipart(ctx, http.MethodPost, "/api/auth/upload-image/"+url.PathEscape(id), form, nil)
}
