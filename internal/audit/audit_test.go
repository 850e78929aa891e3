package audit

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	_, err = db.Exec(`
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
	`)
	if err != nil {
		t.Fatalf("failed to create audit_log table: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRecorder_RecordAndRecent(t *testing.T) {
	rec := NewRecorder(setupTestDB(t))
	ctx := context.Background()

	err := rec.Record(ctx, Entry{
		Actor:   "admin@example.org",
		Action:  ActionMemberApprove,
		Subject: "64b0c8a2f1d2e3a4b5c6d7e8",
		IP:      "203.0.113.1",
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	entries, err := rec.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Action != ActionMemberApprove {
		t.Errorf("Action = %q", e.Action)
	}
	if e.Level != LevelInfo {
		t.Errorf("Level = %q, want default INFO", e.Level)
	}
	if e.Actor != "admin@example.org" {
		t.Errorf("Actor = %q", e.Actor)
	}
}

func TestRecorder_RecentOrder(t *testing.T) {
	rec := NewRecorder(setupTestDB(t))
	ctx := context.Background()

	for _, action := range []string{ActionLogin, ActionMemberApprove, ActionLogout} {
		if err := rec.Record(ctx, Entry{Action: action}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	entries, err := rec.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Action != ActionLogout {
		t.Errorf("newest entry = %q, want %q", entries[0].Action, ActionLogout)
	}
}

func TestRecorder_Prune(t *testing.T) {
	db := setupTestDB(t)
	rec := NewRecorder(db)
	ctx := context.Background()

	// One stale entry and one fresh entry
	_, err := db.Exec(`INSERT INTO audit_log (created_at, action) VALUES (?, ?)`,
		time.Now().Add(-48*time.Hour).UTC().Format("2006-01-02 15:04:05"), ActionLogin)
	if err != nil {
		t.Fatalf("inserting stale entry: %v", err)
	}
	if err := rec.Record(ctx, Entry{Action: ActionLogout}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	deleted, err := rec.PruneOlderThan(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("PruneOlderThan() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	entries, err := rec.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Action != ActionLogout {
		t.Errorf("expected only the fresh entry to remain, got %+v", entries)
	}
}

func TestSummarizeUserAgent(t *testing.T) {
	raw := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	got := summarizeUserAgent(raw)
	if got == "" || got == raw {
		t.Errorf("summarizeUserAgent() = %q, want condensed summary", got)
	}

	if got := summarizeUserAgent(""); got != "" {
		t.Errorf("summarizeUserAgent(\"\") = %q, want empty", got)
	}
}
