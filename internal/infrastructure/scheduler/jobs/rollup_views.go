// Package jobs contains the scheduled jobs for the ERIO dashboard.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/erio-hub/erio-dashboard/internal/domain/views"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROLLUP VIEWS JOB
// ══════════════════════════════════════════════════════════════════════════════

// RollupViewsJob copies the live Redis view counters into the durable
// Postgres rollup. The Redis day sets expire after two days, so the rollup
// is the only long-term record of daily visitor counts.
type RollupViewsJob struct {
	tracker views.Tracker
	store   views.RollupStore
	logger  *slog.Logger
	timeout time.Duration
}

// NewRollupViewsJob creates the rollup job.
func NewRollupViewsJob(tracker views.Tracker, store views.RollupStore, logger *slog.Logger) *RollupViewsJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &RollupViewsJob{
		tracker: tracker,
		store:   store,
		logger:  logger,
		timeout: 30 * time.Second,
	}
}

// Name returns the job name.
func (j *RollupViewsJob) Name() string {
	return "rollup_views"
}

// Description returns a human-readable description.
func (j *RollupViewsJob) Description() string {
	return "Persists the Redis view counters into the Postgres daily rollup"
}

// Run reads the counters for the day that just ended and upserts the rollup
// row. The job is scheduled shortly after midnight, so "yesterday" is the
// completed day.
func (j *RollupViewsJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	day := timeutil.Today().AddDays(-1)

	sessions, err := j.tracker.CountOn(ctx, day)
	if err != nil {
		return fmt.Errorf("failed to read daily session count: %w", err)
	}

	total, err := j.tracker.Total(ctx)
	if err != nil {
		return fmt.Errorf("failed to read view total: %w", err)
	}

	rollup := views.Rollup{
		Day:            day,
		UniqueSessions: sessions,
		RunningTotal:   total,
	}
	if err := j.store.Save(ctx, rollup); err != nil {
		return fmt.Errorf("failed to save view rollup: %w", err)
	}

	j.logger.Info("view rollup saved",
		"day", day.String(),
		"unique_sessions", sessions,
		"running_total", total,
	)
	return nil
}
