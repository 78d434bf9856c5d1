// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/FACorreiaa/remit-engine/internal/ingest"
)

// Scheduler runs the report directory sync on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	syncer   *ingest.Syncer
	schedule string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler. schedule is a standard 5-field cron
// expression; timeout bounds each sweep.
func NewScheduler(syncer *ingest.Syncer, schedule string, timeout time.Duration, logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:     c,
		syncer:   syncer,
		schedule: schedule,
		timeout:  timeout,
		logger:   logger,
	}
}

// Start begins the scheduled sync job.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.runSync)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.String("schedule", s.schedule),
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers a sync sweep (for testing/admin).
func (s *Scheduler) RunNow() {
	go s.runSync()
}

func (s *Scheduler) runSync() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.logger.Info("starting scheduled report sync")

	summary, err := s.syncer.Sync(ctx)
	if err != nil {
		s.logger.Error("scheduled report sync failed", slog.Any("error", err))
		return
	}

	s.logger.Info("scheduled report sync completed",
		slog.Int("processed", summary.Processed),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
	)
}
