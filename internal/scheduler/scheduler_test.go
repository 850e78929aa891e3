package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"memberdesk/internal/audit"
)

func setupRecorder(t *testing.T) *audit.Recorder {
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
	return audit.NewRecorder(db)
}

func TestNew(t *testing.T) {
	s := New(setupRecorder(t), 24*time.Hour, slog.Default())
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cron == nil {
		t.Error("New() scheduler has nil cron")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(setupRecorder(t), 24*time.Hour, slog.Default())

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	s.Stop()
}

func TestScheduler_PruneAuditLog(t *testing.T) {
	recorder := setupRecorder(t)
	s := New(recorder, time.Hour, slog.Default())

	if err := recorder.Record(context.Background(), audit.Entry{Action: audit.ActionLogin}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if err := s.pruneAuditLog(); err != nil {
		t.Fatalf("pruneAuditLog() error = %v", err)
	}

	// Fresh entries survive pruning
	entries, err := recorder.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("len(entries) = %d, want 1", len(entries))
	}
}
