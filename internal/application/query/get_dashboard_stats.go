package query

import (
	"context"
	"time"

	"github.com/erio-hub/erio-dashboard/internal/domain/event"
	"github.com/erio-hub/erio-dashboard/internal/domain/partner"
	"github.com/erio-hub/erio-dashboard/internal/domain/programme"
	"github.com/erio-hub/erio-dashboard/internal/domain/region"
	"github.com/erio-hub/erio-dashboard/internal/domain/stats"
	"github.com/erio-hub/erio-dashboard/pkg/logger"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET DASHBOARD STATS QUERY
// Derives the landing-page figures from live partner, event and programme
// data, falling back field by field to the stored snapshot, and finally to
// the built-in defaults. The query never fails: a dashboard with stale
// figures beats an error page.
// ══════════════════════════════════════════════════════════════════════════════

// GetDashboardStatsQuery contains the parameters for a stats request.
type GetDashboardStatsQuery struct {
	// Today overrides the reference date, for deterministic derivation.
	// Zero means the current Davao date.
	Today timeutil.ISODate

	// Year overrides the calendar year for the events figure. Zero means
	// the year of Today.
	Year int
}

// DashboardStatsResult is the figure set the landing page renders.
type DashboardStatsResult struct {
	PartnerUniversities  int                   `json:"partnerUniversities"`
	ActiveAgreements     int                   `json:"activeAgreements"`
	StudentExchanges     int                   `json:"studentExchanges"`
	EventsThisYear       int                   `json:"eventsThisYear"`
	RegionalDistribution stats.Distribution    `json:"regionalDistribution"`
	ProgramsOffered      stats.ProgrammeCounts `json:"programsOffered"`
	EngagementScore      float64               `json:"engagementScore"`
	GeneratedAt          time.Time             `json:"generatedAt"`

	// Derived marks which figures came from live data rather than the
	// snapshot or the defaults.
	Derived map[string]bool `json:"derived,omitempty"`
}

// ActivityCounter is the slice of the activity repository this query needs.
type ActivityCounter interface {
	Count(ctx context.Context) (int, error)
}

// GetDashboardStatsHandler derives the dashboard figures.
type GetDashboardStatsHandler struct {
	partnerRepo   partner.Repository
	eventRepo     event.Repository
	programmeRepo programme.Repository
	activityRepo  ActivityCounter
	statsRepo     stats.Repository
	log           *logger.Logger
}

// NewGetDashboardStatsHandler creates the stats query handler.
func NewGetDashboardStatsHandler(
	partnerRepo partner.Repository,
	eventRepo event.Repository,
	programmeRepo programme.Repository,
	activityRepo ActivityCounter,
	statsRepo stats.Repository,
	log *logger.Logger,
) *GetDashboardStatsHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetDashboardStatsHandler{
		partnerRepo:   partnerRepo,
		eventRepo:     eventRepo,
		programmeRepo: programmeRepo,
		activityRepo:  activityRepo,
		statsRepo:     statsRepo,
		log:           log,
	}
}

// Handle derives the dashboard figures. It always returns a result; the
// error return exists only for context cancellation.
func (h *GetDashboardStatsHandler) Handle(ctx context.Context, query GetDashboardStatsQuery) (*DashboardStatsResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	today := query.Today
	if today.IsZero() {
		today = timeutil.Today()
	}
	year := query.Year
	if year == 0 {
		if t, err := today.Time(); err == nil {
			year = t.Year()
		} else {
			year = timeutil.Now().Year()
		}
	}

	snapshot := h.loadSnapshot(ctx)
	result := &DashboardStatsResult{
		PartnerUniversities:  snapshot.PartnerUniversities,
		ActiveAgreements:     snapshot.ActiveAgreements,
		StudentExchanges:     snapshot.StudentExchanges,
		EventsThisYear:       snapshot.EventsThisYear,
		RegionalDistribution: snapshot.RegionalDistribution,
		ProgramsOffered:      snapshot.ProgramsOffered,
		EngagementScore:      snapshot.EngagementScore,
		GeneratedAt:          timeutil.Now(),
		Derived:              make(map[string]bool),
	}

	partners := h.loadPartners(ctx)
	if partners != nil {
		result.PartnerUniversities = len(partners)
		result.Derived["partnerUniversities"] = true

		result.ActiveAgreements = len(partner.ActiveOn(partners, today))
		result.Derived["activeAgreements"] = true

		regions := make([]region.Region, len(partners))
		for i, p := range partners {
			regions[i] = p.Region()
		}
		result.RegionalDistribution = stats.DistributionOf(regions)
		result.Derived["regionalDistribution"] = true
	}

	if h.eventRepo != nil {
		if n, err := h.eventRepo.CountInYear(ctx, year); err == nil {
			result.EventsThisYear = n
			result.Derived["eventsThisYear"] = true
		} else {
			h.log.Warn("falling back to stored events figure", logger.Err(err))
		}
	}

	// An empty catalogue is a real answer; only a failed fetch falls back
	// to the stored figures.
	if h.programmeRepo != nil {
		if counts, countsErr := h.programmeRepo.CountByCategory(ctx); countsErr == nil {
			result.ProgramsOffered = stats.ProgrammeCounts{
				Exchange: counts.Exchange,
				Research: counts.Research,
				Summer:   counts.Summer,
			}
			result.Derived["programsOffered"] = true
		} else {
			h.log.Warn("falling back to stored programme counts", logger.Err(countsErr))
		}
	}

	// Recompute the score only when at least one live figure came through.
	// A snapshot-only response keeps the stored score.
	if len(result.Derived) > 0 {
		activities := 0
		if h.activityRepo != nil {
			n, actErr := h.activityRepo.Count(ctx)
			if actErr != nil {
				h.log.Warn("activity count unavailable for engagement score", logger.Err(actErr))
			} else {
				activities = n
			}
		}

		result.EngagementScore = stats.EngagementScore(
			result.PartnerUniversities,
			result.ActiveAgreements,
			result.StudentExchanges,
			result.EventsThisYear,
			activities,
		)
		result.Derived["engagementScore"] = true
	}

	return result, nil
}

// loadSnapshot returns the stored snapshot, or the built-in defaults when
// none is stored or the read fails.
func (h *GetDashboardStatsHandler) loadSnapshot(ctx context.Context) stats.Snapshot {
	if h.statsRepo == nil {
		return stats.Defaults()
	}
	s, err := h.statsRepo.Get(ctx)
	if err != nil || s == nil {
		if err != nil {
			h.log.Warn("stored snapshot unavailable, using defaults", logger.Err(err))
		}
		return stats.Defaults()
	}
	return *s
}

// loadPartners returns all partners, or nil when the read fails.
func (h *GetDashboardStatsHandler) loadPartners(ctx context.Context) []*partner.Partner {
	if h.partnerRepo == nil {
		return nil
	}
	partners, err := h.partnerRepo.List(ctx, partner.Filter{})
	if err != nil {
		h.log.Warn("partner list unavailable, using stored figures", logger.Err(err))
		return nil
	}
	return partners
}
