// Package audit records console actions and warnings in the local database.
// The membership backend keeps no history of who approved or rejected whom,
// so the console keeps its own trail.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mileusna/useragent"
)

// Event levels stored in the audit log.
const (
	LevelInfo    = "INFO"
	LevelWarning = "WARNING"
	LevelError   = "ERROR"
)

// Actions recorded by the console handlers.
const (
	ActionLogin         = "auth.login"
	ActionLoginFailed   = "auth.login_failed"
	ActionLogout        = "auth.logout"
	ActionMemberApprove = "member.approve"
	ActionMemberReject  = "member.reject"
	ActionBulkApprove   = "member.approve_all"
	ActionBulkReject    = "member.reject_all"
	ActionRegister      = "member.register"
	ActionImageUpload   = "member.image_upload"
	ActionEventCreate   = "event.create"
	ActionEventUpdate   = "event.update"
	ActionEventDelete   = "event.delete"
	ActionGalleryCreate = "gallery.create"
	ActionGalleryUpdate = "gallery.update"
	ActionGalleryDelete = "gallery.delete"
)

// Entry is a single audit record.
type Entry struct {
	ID        int64
	CreatedAt time.Time
	Level     string
	Actor     string
	Action    string
	Subject   string
	Detail    string
	IP        string
	UserAgent string
}

// Recorder writes and reads audit entries.
type Recorder struct {
	db *sql.DB
}

// NewRecorder creates an audit recorder on the local database.
func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{db: db}
}

// Record stores an entry. The raw User-Agent header is condensed to a
// browser and OS summary before storage.
func (r *Recorder) Record(ctx context.Context, e Entry) error {
	if e.Level == "" {
		e.Level = LevelInfo
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (level, actor, action, subject, detail, ip, user_agent)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Level, e.Actor, e.Action, e.Subject, e.Detail, e.IP, summarizeUserAgent(e.UserAgent),
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, created_at, level, actor, action, subject, detail, ip, user_agent
		FROM audit_log
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.Level, &e.Actor, &e.Action, &e.Subject, &e.Detail, &e.IP, &e.UserAgent); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PruneOlderThan deletes entries past the retention window.
// Returns the number of deleted rows.
func (r *Recorder) PruneOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).UTC()

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM audit_log WHERE created_at < ?`, cutoff.Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, fmt.Errorf("pruning audit log: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned rows: %w", err)
	}
	return deleted, nil
}

// summarizeUserAgent condenses a raw User-Agent header to "Browser x.y (OS)".
func summarizeUserAgent(raw string) string {
	if raw == "" {
		return ""
	}

	ua := useragent.Parse(raw)
	if ua.Name == "" {
		return raw
	}

	summary := ua.Name
	if ua.Version != "" {
		summary += " " + ua.Version
	}
	if ua.OS != "" {
		summary += " (" + ua.OS + ")"
	}
	return summary
}
