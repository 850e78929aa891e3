package moderation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memberdesk/internal/backend"
	"memberdesk/internal/model"
)

// fakeBackend serves the member moderation endpoints against an in-memory list.
type fakeBackend struct {
	mu      sync.Mutex
	members []model.Member
	fail    bool
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/user/get-users", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.fail {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"database unavailable"}`))
			return
		}
		page := 1
		limit := 10
		_, _ = fmt.Sscan(r.URL.Query().Get("page"), &page)
		_, _ = fmt.Sscan(r.URL.Query().Get("limit"), &limit)

		start := (page - 1) * limit
		if start > len(f.members) {
			start = len(f.members)
		}
		end := start + limit
		if end > len(f.members) {
			end = len(f.members)
		}
		_ = json.NewEncoder(w).Encode(f.members[start:end])
	})

	mux.HandleFunc("PUT /api/user/approveuser/", func(w http.ResponseWriter, r *http.Request) {
		f.setApprove(w, strings.TrimPrefix(r.URL.Path, "/api/user/approveuser/"), true)
	})
	mux.HandleFunc("PUT /api/user/rejectuser/", func(w http.ResponseWriter, r *http.Request) {
		f.setApprove(w, strings.TrimPrefix(r.URL.Path, "/api/user/rejectuser/"), false)
	})
	mux.HandleFunc("PUT /api/user/approve-all", func(w http.ResponseWriter, r *http.Request) {
		f.setAll(w, true)
	})
	mux.HandleFunc("PUT /api/user/reject-all", func(w http.ResponseWriter, r *http.Request) {
		f.setAll(w, false)
	})

	return mux
}

func (f *fakeBackend) setApprove(w http.ResponseWriter, id string, approve bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"database unavailable"}`))
		return
	}
	for i := range f.members {
		if f.members[i].ID == id {
			f.members[i].Approve = approve
			_, _ = w.Write([]byte(`{}`))
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(`{"message":"user not found"}`))
}

func (f *fakeBackend) setAll(w http.ResponseWriter, approve bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"database unavailable"}`))
		return
	}
	for i := range f.members {
		f.members[i].Approve = approve
	}
	_, _ = w.Write([]byte(`{}`))
}

func (f *fakeBackend) setFail(fail bool) {
	f.mu.Lock()
	f.fail = fail
	f.mu.Unlock()
}

func member(id string, approved bool) model.Member {
	return model.Member{
		ID:      id,
		Name:    model.MemberName{First: "Member", Last: id},
		Email:   model.ContactPair{Primary: id + "@example.org"},
		Approve: approved,
	}
}

func newTestController(t *testing.T, members []model.Member, limit int) (*Controller, *fakeBackend) {
	t.Helper()
	fake := &fakeBackend{members: members}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	return NewController(backend.New(srv.URL), limit), fake
}

func TestFetchPage_ReplacesList(t *testing.T) {
	ctrl, _ := newTestController(t, []model.Member{
		member("a1", false),
		member("a2", true),
	}, 10)

	require.NoError(t, ctrl.FetchPage(context.Background(), 1))

	view := ctrl.Snapshot()
	assert.Len(t, view.Members, 2)
	assert.Equal(t, 1, view.Page)
	assert.Empty(t, view.Error)
	assert.False(t, view.HasNext, "partial page means no next page")
	assert.False(t, view.HasPrev)
}

func TestFetchPage_FailureKeepsPreviousList(t *testing.T) {
	ctrl, fake := newTestController(t, []model.Member{
		member("a1", false),
	}, 10)

	require.NoError(t, ctrl.FetchPage(context.Background(), 1))

	fake.setFail(true)
	err := ctrl.FetchPage(context.Background(), 2)
	require.Error(t, err)

	view := ctrl.Snapshot()
	assert.Len(t, view.Members, 1, "previous page stays visible on failure")
	assert.Equal(t, 1, view.Page, "page does not advance on failure")
	assert.Equal(t, "database unavailable", view.Error)
}

func TestFetchPage_TransportErrorMessage(t *testing.T) {
	fake := &fakeBackend{}
	srv := httptest.NewServer(fake.handler())
	url := srv.URL
	srv.Close()

	ctrl := NewController(backend.New(url), 10)

	require.Error(t, ctrl.FetchPage(context.Background(), 1))
	assert.Equal(t, backend.MsgNoResponse, ctrl.Snapshot().Error)
}

func TestPagination_FullPageHasNext(t *testing.T) {
	members := make([]model.Member, 7)
	for i := range members {
		members[i] = member(fmt.Sprintf("m%d", i), false)
	}
	ctrl, _ := newTestController(t, members, 5)

	require.NoError(t, ctrl.FetchPage(context.Background(), 1))
	view := ctrl.Snapshot()
	assert.True(t, view.HasNext, "full page implies a next page")
	assert.False(t, view.HasPrev)

	require.NoError(t, ctrl.FetchPage(context.Background(), 2))
	view = ctrl.Snapshot()
	assert.Len(t, view.Members, 2)
	assert.False(t, view.HasNext)
	assert.True(t, view.HasPrev)
}

func TestToggleApproval(t *testing.T) {
	ctrl, _ := newTestController(t, []model.Member{
		member("a1", false),
		member("a2", true),
	}, 10)
	require.NoError(t, ctrl.FetchPage(context.Background(), 1))

	approved, err := ctrl.ToggleApproval(context.Background(), "a1")
	require.NoError(t, err)
	assert.True(t, approved, "pending member becomes approved")

	rejected, err := ctrl.ToggleApproval(context.Background(), "a2")
	require.NoError(t, err)
	assert.False(t, rejected, "approved member becomes rejected")

	view := ctrl.Snapshot()
	assert.True(t, view.Members[0].Approve)
	assert.False(t, view.Members[1].Approve)
}

func TestToggleApproval_FailureKeepsFlag(t *testing.T) {
	ctrl, fake := newTestController(t, []model.Member{
		member("a1", false),
	}, 10)
	require.NoError(t, ctrl.FetchPage(context.Background(), 1))

	fake.setFail(true)
	_, err := ctrl.ToggleApproval(context.Background(), "a1")
	require.Error(t, err)

	view := ctrl.Snapshot()
	assert.False(t, view.Members[0].Approve, "flag must not flip without backend confirmation")
	assert.Equal(t, "database unavailable", view.Error)
}

func TestToggleApproval_UnknownMember(t *testing.T) {
	ctrl, _ := newTestController(t, []model.Member{
		member("a1", false),
	}, 10)
	require.NoError(t, ctrl.FetchPage(context.Background(), 1))

	_, err := ctrl.ToggleApproval(context.Background(), "missing")
	require.Error(t, err)
}

func TestToggleBulk(t *testing.T) {
	ctrl, _ := newTestController(t, []model.Member{
		member("a1", false),
		member("a2", true),
	}, 10)
	require.NoError(t, ctrl.FetchPage(context.Background(), 1))

	// Mixed list: bulk action approves everyone
	approved, err := ctrl.ToggleBulk(context.Background())
	require.NoError(t, err)
	assert.True(t, approved)

	view := ctrl.Snapshot()
	assert.True(t, view.AllApproved)
	for _, m := range view.Members {
		assert.True(t, m.Approve)
	}

	// All approved: bulk action rejects everyone
	approved, err = ctrl.ToggleBulk(context.Background())
	require.NoError(t, err)
	assert.False(t, approved)
	assert.False(t, ctrl.Snapshot().AllApproved)
}

func TestToggleBulk_EmptyListApproves(t *testing.T) {
	ctrl, _ := newTestController(t, nil, 10)
	require.NoError(t, ctrl.FetchPage(context.Background(), 1))

	view := ctrl.Snapshot()
	assert.False(t, view.AllApproved, "empty list is never all-approved")

	approved, err := ctrl.ToggleBulk(context.Background())
	require.NoError(t, err)
	assert.True(t, approved, "empty list bulk action is approve-all")
}

func TestToggleBulk_FailureKeepsFlags(t *testing.T) {
	ctrl, fake := newTestController(t, []model.Member{
		member("a1", false),
		member("a2", false),
	}, 10)
	require.NoError(t, ctrl.FetchPage(context.Background(), 1))

	fake.setFail(true)
	_, err := ctrl.ToggleBulk(context.Background())
	require.Error(t, err)

	for _, m := range ctrl.Snapshot().Members {
		assert.False(t, m.Approve, "flags must not change without backend confirmation")
	}
}

func TestSnapshot_CopyIsIndependent(t *testing.T) {
	ctrl, _ := newTestController(t, []model.Member{
		member("a1", false),
	}, 10)
	require.NoError(t, ctrl.FetchPage(context.Background(), 1))

	view := ctrl.Snapshot()
	view.Members[0].Approve = true

	assert.False(t, ctrl.Snapshot().Members[0].Approve, "snapshot mutation must not leak into controller state")
}
