// Package moderation maintains the member approval view state. It mirrors
// what the backend last confirmed: remote mutations are applied to the local
// list only after the backend reports success, and a failed page fetch keeps
// the previous page on screen alongside the error message.
package moderation

import (
	"context"
	"fmt"
	"sync"

	"memberdesk/internal/backend"
	"memberdesk/internal/model"
)

// Controller owns the paged member list shown on the moderation screen.
// All methods are safe for concurrent use.
type Controller struct {
	client *backend.Client
	limit  int

	mu        sync.Mutex
	members   []model.Member
	page      int
	lastError string
}

// View is an immutable snapshot of the moderation state for rendering.
type View struct {
	Members     []model.Member
	Page        int
	Limit       int
	Error       string
	HasNext     bool
	HasPrev     bool
	AllApproved bool
}

// NewController creates a moderation controller with the given page size.
func NewController(client *backend.Client, limit int) *Controller {
	if limit <= 0 {
		limit = 10
	}
	return &Controller{
		client: client,
		limit:  limit,
		page:   1,
	}
}

// FetchPage loads the given page from the backend. On success the visible
// list is replaced; on failure the previous list stays and the normalized
// error message is recorded for display.
func (c *Controller) FetchPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}

	members, err := c.client.ListMembers(ctx, page, c.limit)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.lastError = backend.Normalize(err)
		return err
	}

	c.members = members
	c.page = page
	c.lastError = ""
	return nil
}

// Refresh reloads the current page.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	page := c.page
	c.mu.Unlock()
	return c.FetchPage(ctx, page)
}

// ToggleApproval flips a member's approval. An approved member is rejected
// and a pending member is approved. The local flag changes only after the
// backend confirms. Returns the member's new approval state.
func (c *Controller) ToggleApproval(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	idx := -1
	for i := range c.members {
		if c.members[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return false, fmt.Errorf("member %q is not on the current page", id)
	}
	approved := c.members[idx].Approve
	c.mu.Unlock()

	var err error
	if approved {
		err = c.client.RejectMember(ctx, id)
	} else {
		err = c.client.ApproveMember(ctx, id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.lastError = backend.Normalize(err)
		return approved, err
	}

	// The list may have been replaced while the request was in flight;
	// find the member again before mutating.
	for i := range c.members {
		if c.members[i].ID == id {
			c.members[i].Approve = !approved
			break
		}
	}
	c.lastError = ""
	return !approved, nil
}

// ToggleBulk approves or rejects every member. When all visible members are
// already approved the bulk action rejects; otherwise it approves, which
// includes the empty-list case. Returns the new approval state applied.
func (c *Controller) ToggleBulk(ctx context.Context) (bool, error) {
	c.mu.Lock()
	approve := !c.allApprovedLocked()
	c.mu.Unlock()

	var err error
	if approve {
		err = c.client.ApproveAllMembers(ctx)
	} else {
		err = c.client.RejectAllMembers(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.lastError = backend.Normalize(err)
		return !approve, err
	}

	for i := range c.members {
		c.members[i].Approve = approve
	}
	c.lastError = ""
	return approve, nil
}

// Snapshot returns the current view state for rendering.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	members := make([]model.Member, len(c.members))
	copy(members, c.members)

	return View{
		Members:     members,
		Page:        c.page,
		Limit:       c.limit,
		Error:       c.lastError,
		HasNext:     len(c.members) == c.limit,
		HasPrev:     c.page > 1,
		AllApproved: c.allApprovedLocked(),
	}
}

// allApprovedLocked reports whether every visible member is approved.
// An empty list is never "all approved", so the bulk action on an empty
// page is approve-all. Callers must hold c.mu.
func (c *Controller) allApprovedLocked() bool {
	if len(c.members) == 0 {
		return false
	}
	for i := range c.members {
		if !c.members[i].Approve {
			return false
		}
	}
	return true
}
