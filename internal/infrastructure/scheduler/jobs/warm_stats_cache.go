package jobs

import (
	"context"
	"log/slog"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// WARM STATS CACHE JOB
// ══════════════════════════════════════════════════════════════════════════════

// DashboardWarmer rebuilds the cached dashboard stats payload.
type DashboardWarmer interface {
	Warm(ctx context.Context) error
}

// WarmStatsCacheJob keeps the dashboard payload cached so the first visitor
// after an invalidation or TTL expiry never waits on the full derivation.
type WarmStatsCacheJob struct {
	warmer  DashboardWarmer
	logger  *slog.Logger
	timeout time.Duration
}

// NewWarmStatsCacheJob creates the cache warming job.
func NewWarmStatsCacheJob(warmer DashboardWarmer, logger *slog.Logger) *WarmStatsCacheJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &WarmStatsCacheJob{
		warmer:  warmer,
		logger:  logger,
		timeout: 30 * time.Second,
	}
}

// Name returns the job name.
func (j *WarmStatsCacheJob) Name() string {
	return "warm_stats_cache"
}

// Description returns a human-readable description.
func (j *WarmStatsCacheJob) Description() string {
	return "Recomputes and caches the dashboard stats payload"
}

// Run rebuilds the cached payload.
func (j *WarmStatsCacheJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	if err := j.warmer.Warm(ctx); err != nil {
		return err
	}

	j.logger.Debug("dashboard stats cache warmed")
	return nil
}
