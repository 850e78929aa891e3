// Package scheduler runs the console's periodic maintenance jobs.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"memberdesk/internal/audit"
)

// Scheduler handles periodic maintenance, currently audit log pruning.
type Scheduler struct {
	recorder  *audit.Recorder
	retention time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// New creates a scheduler that prunes audit entries older than retention.
func New(recorder *audit.Recorder, retention time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		recorder:  recorder,
		retention: retention,
		cron:      cron.New(),
		logger:    logger,
	}
}

// Start begins the scheduler with a daily pruning job.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("30 3 * * *", func() {
		if err := s.pruneAuditLog(); err != nil {
			s.logger.Error("failed to prune audit log", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// pruneAuditLog deletes audit entries past the retention window.
func (s *Scheduler) pruneAuditLog() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := s.recorder.PruneOlderThan(ctx, s.retention)
	if err != nil {
		return err
	}

	if deleted > 0 {
		s.logger.Info("pruned audit log", "deleted", deleted, "retention", s.retention)
	}
	return nil
}
