package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	_ "modernc.org/sqlite"

	"memberdesk/internal/audit"
	"memberdesk/internal/backend"
	"memberdesk/internal/middleware"
	"memberdesk/internal/model"
	"memberdesk/internal/moderation"
	"memberdesk/internal/render"
	"memberdesk/internal/session"
	"memberdesk/web"
)

// testDB creates an in-memory SQLite database with the required schema.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);
		CREATE INDEX sessions_expiry_idx ON sessions(expiry);

		CREATE TABLE audit_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			level TEXT NOT NULL DEFAULT 'INFO',
			actor TEXT NOT NULL DEFAULT '',
			action TEXT NOT NULL,
			subject TEXT NOT NULL DEFAULT '',
			detail TEXT NOT NULL DEFAULT '',
			ip TEXT NOT NULL DEFAULT '',
			user_agent TEXT NOT NULL DEFAULT ''
		);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fakeMembership is an in-memory stand-in for the membership backend.
type fakeMembership struct {
	mu           sync.Mutex
	members      []model.Member
	events       []model.Event
	galleries    []model.Gallery
	admin        model.AdminIdentity
	password     string
	imageUploads []string
}

func newFakeMembership() *fakeMembership {
	return &fakeMembership{
		admin: model.AdminIdentity{
			ID:       "64b0c8a2f1d2e3a4b5c6d7e8",
			Username: "admin@example.org",
			Name:     "Console Admin",
			Role:     model.RoleAdmin,
		},
		password: "correct-horse",
	}
}

func (f *fakeMembership) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login-user", func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&creds)

		f.mu.Lock()
		defer f.mu.Unlock()
		if creds.Username != f.admin.Username || creds.Password != f.password {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(f.admin)
	})

	mux.HandleFunc("GET /api/user/get-users", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(f.members)
	})

	mux.HandleFunc("GET /api/auth/users", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(f.members)
	})

	mux.HandleFunc("POST /api/auth/upload-image/", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/api/auth/upload-image/")
		f.mu.Lock()
		defer f.mu.Unlock()
		f.imageUploads = append(f.imageUploads, id)
		_, _ = w.Write([]byte(`{}`))
	})

	mux.HandleFunc("PUT /api/user/approveuser/", func(w http.ResponseWriter, r *http.Request) {
		f.setApprove(w, strings.TrimPrefix(r.URL.Path, "/api/user/approveuser/"), true)
	})
	mux.HandleFunc("PUT /api/user/rejectuser/", func(w http.ResponseWriter, r *http.Request) {
		f.setApprove(w, strings.TrimPrefix(r.URL.Path, "/api/user/rejectuser/"), false)
	})
	mux.HandleFunc("PUT /api/user/approve-all", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.members {
			f.members[i].Approve = true
		}
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("PUT /api/user/reject-all", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.members {
			f.members[i].Approve = false
		}
		_, _ = w.Write([]byte(`{}`))
	})

	mux.HandleFunc("GET /api/v1/get-event-gallery", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(f.events)
	})
	mux.HandleFunc("POST /api/v1/event-gallery", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		event := model.Event{ID: "evt1", Title: r.FormValue("title"), Description: r.FormValue("desc")}
		event.Blog.Heading = r.FormValue("bhead")
		event.Blog.Body = r.FormValue("blogPara1")
		f.events = append(f.events, event)
		_, _ = w.Write([]byte(`{}`))
	})

	mux.HandleFunc("GET /api/v1/get-gallery", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(f.galleries)
	})
	mux.HandleFunc("GET /api/v1/get-gallery/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/v1/get-gallery/")
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, g := range f.galleries {
			if g.ID == id {
				_ = json.NewEncoder(w).Encode(g)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"gallery not found"}`))
	})

	return mux
}

func (f *fakeMembership) setApprove(w http.ResponseWriter, id string, approve bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
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

// testConsole wires a full handler stack against the fake backend.
type testConsole struct {
	handler http.Handler
	fake    *fakeMembership
	store   *session.Store
}

func newTestConsole(t *testing.T) *testConsole {
	t.Helper()

	fake := newFakeMembership()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	client := backend.New(srv.URL)

	db := testDB(t)
	store := session.NewStore(session.New(db, true))

	renderer, err := render.New(render.Config{
		TemplatesFS: web.Templates(),
		Store:       store,
		IsDev:       true,
	})
	if err != nil {
		t.Fatalf("render.New() error = %v", err)
	}

	h := New(
		client,
		store,
		renderer,
		moderation.NewController(client, 10),
		audit.NewRecorder(db),
		middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig()),
	)

	return &testConsole{
		handler: store.Manager().LoadAndSave(h.Routes()),
		fake:    fake,
		store:   store,
	}
}

// do runs a request through the console, carrying cookies between calls.
func (c *testConsole) do(t *testing.T, req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

// login authenticates and returns the session cookies.
func (c *testConsole) login(t *testing.T) []*http.Cookie {
	t.Helper()
	form := strings.NewReader("username=admin@example.org&password=correct-horse")
	req := httptest.NewRequest(http.MethodPost, RouteLogin, form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := c.do(t, req, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d, want 303", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected session cookie after login")
	}
	return cookies
}
