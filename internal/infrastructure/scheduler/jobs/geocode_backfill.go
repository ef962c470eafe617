package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/erio-hub/erio-dashboard/internal/domain/partner"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GEOCODE BACKFILL JOB
// ══════════════════════════════════════════════════════════════════════════════

// Geocoder resolves a city and country to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, city, country string) (shared.Coordinates, error)
}

// GeocodeBackfillJob fills in coordinates for partners that were saved
// without them, so every partner eventually appears on the world map.
// Partners end up without coordinates when the geocoding service was down
// or disabled at save time.
type GeocodeBackfillJob struct {
	partners partner.Repository
	geocoder Geocoder
	logger   *slog.Logger
	config   GeocodeBackfillConfig
}

// GeocodeBackfillConfig contains configuration for the backfill job.
type GeocodeBackfillConfig struct {
	// MaxPerRun caps the lookups per run; the public Nominatim instance
	// allows one request per second.
	MaxPerRun int

	// Timeout is the maximum duration for one run.
	Timeout time.Duration
}

// DefaultGeocodeBackfillConfig returns sensible defaults.
func DefaultGeocodeBackfillConfig() GeocodeBackfillConfig {
	return GeocodeBackfillConfig{
		MaxPerRun: 25,
		Timeout:   2 * time.Minute,
	}
}

// NewGeocodeBackfillJob creates the backfill job.
func NewGeocodeBackfillJob(
	partners partner.Repository,
	geocoder Geocoder,
	logger *slog.Logger,
	config GeocodeBackfillConfig,
) *GeocodeBackfillJob {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxPerRun <= 0 {
		config.MaxPerRun = 25
	}
	if config.Timeout <= 0 {
		config.Timeout = 2 * time.Minute
	}
	return &GeocodeBackfillJob{
		partners: partners,
		geocoder: geocoder,
		logger:   logger,
		config:   config,
	}
}

// Name returns the job name.
func (j *GeocodeBackfillJob) Name() string {
	return "geocode_backfill"
}

// Description returns a human-readable description.
func (j *GeocodeBackfillJob) Description() string {
	return "Resolves coordinates for partners missing them on the world map"
}

// Run geocodes up to MaxPerRun partners without coordinates. Lookup
// failures for individual partners are logged and skipped; a partner with
// an unresolvable location is retried on the next run.
func (j *GeocodeBackfillJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	all, err := j.partners.List(ctx, partner.Filter{})
	if err != nil {
		return err
	}

	resolved, failed := 0, 0
	for _, p := range all {
		if resolved >= j.config.MaxPerRun {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !p.Coordinates.IsZero() || p.City == "" {
			continue
		}

		coords, err := j.geocoder.Geocode(ctx, p.City, p.Country)
		if err != nil {
			failed++
			j.logger.Warn("geocode backfill lookup failed",
				"partner_id", p.ID.String(),
				"city", p.City,
				"country", p.Country,
				"error", err,
			)
			continue
		}

		p.Coordinates = coords
		if err := j.partners.Update(ctx, p); err != nil {
			failed++
			j.logger.Warn("geocode backfill update failed",
				"partner_id", p.ID.String(),
				"error", err,
			)
			continue
		}
		resolved++
	}

	if resolved > 0 || failed > 0 {
		j.logger.Info("geocode backfill completed",
			"resolved", resolved,
			"failed", failed,
		)
	}
	return nil
}
