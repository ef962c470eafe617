// Package stats contains the dashboard-statistics aggregate: the figures
// shown on the public landing page. Figures are derived live from partner,
// event and programme data where possible, with a stored snapshot and
// built-in defaults as fallbacks so the dashboard always renders.
// This is a pure domain layer with zero external dependencies.
package stats

import (
	"math"
	"time"

	"github.com/erio-hub/erio-dashboard/internal/domain/region"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
)

// Distribution is the percentage split of partners across the three regions.
// The percentages come from rounding and need not sum to exactly 100.
type Distribution struct {
	AsiaPacific int `json:"asiaPacific"`
	Europe      int `json:"europe"`
	Americas    int `json:"americas"`
}

// ProgrammeCounts is how many offerings each category has.
type ProgrammeCounts struct {
	Exchange int `json:"exchange"`
	Research int `json:"research"`
	Summer   int `json:"summer"`
}

// Snapshot is one stored row of dashboard figures. The office edits it by
// hand for figures that cannot be derived, and the derivation pipeline
// falls back to it field by field when live data is missing.
type Snapshot struct {
	PartnerUniversities  int             `json:"partnerUniversities"`
	ActiveAgreements     int             `json:"activeAgreements"`
	StudentExchanges     int             `json:"studentExchanges"`
	EventsThisYear       int             `json:"eventsThisYear"`
	RegionalDistribution Distribution    `json:"regionalDistribution"`
	ProgramsOffered      ProgrammeCounts `json:"programsOffered"`
	EngagementScore      float64         `json:"engagementScore"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// Defaults returns the built-in figures used when neither live data nor a
// stored snapshot is available. They match the office's last published
// annual report.
func Defaults() Snapshot {
	return Snapshot{
		PartnerUniversities:  76,
		ActiveAgreements:     65,
		StudentExchanges:     892,
		EventsThisYear:       32,
		RegionalDistribution: DefaultDistribution(),
		ProgramsOffered:      ProgrammeCounts{Exchange: 68, Research: 24, Summer: 18},
		EngagementScore:      9.2,
	}
}

// DefaultDistribution is the fallback regional split.
func DefaultDistribution() Distribution {
	return Distribution{AsiaPacific: 88, Europe: 7, Americas: 5}
}

// Validate checks the invariants a stored snapshot must satisfy.
func (s *Snapshot) Validate() error {
	if s.PartnerUniversities < 0 || s.ActiveAgreements < 0 ||
		s.StudentExchanges < 0 || s.EventsThisYear < 0 {
		return shared.NewDomainError("stats", "validate", shared.ErrNegativeValue, "dashboard counts cannot be negative")
	}
	if s.EngagementScore < 0 || s.EngagementScore > 10 {
		return shared.ErrInvalidScore
	}
	for _, pct := range []int{
		s.RegionalDistribution.AsiaPacific,
		s.RegionalDistribution.Europe,
		s.RegionalDistribution.Americas,
	} {
		if pct < 0 || pct > 100 {
			return shared.NewDomainError("stats", "validate", shared.ErrValueOutOfRange, "regional percentage outside [0,100]")
		}
	}
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Regional Distribution
// ═══════════════════════════════════════════════════════════════════════════

// DistributionOf computes the percentage split of the given regions.
// Unclassified entries (region.RegionNone) are excluded from both numerator
// and denominator. When nothing classifies, the default split is returned so
// the map never renders empty.
func DistributionOf(regions []region.Region) Distribution {
	var asiaPacific, europe, americas int
	for _, r := range regions {
		switch r {
		case region.RegionAsiaPacific:
			asiaPacific++
		case region.RegionEurope:
			europe++
		case region.RegionAmericas:
			americas++
		}
	}

	matched := asiaPacific + europe + americas
	if matched == 0 {
		return DefaultDistribution()
	}

	return Distribution{
		AsiaPacific: roundPercent(asiaPacific, matched),
		Europe:      roundPercent(europe, matched),
		Americas:    roundPercent(americas, matched),
	}
}

func roundPercent(count, total int) int {
	return int(math.Round(float64(count) / float64(total) * 100))
}

// ═══════════════════════════════════════════════════════════════════════════
// Engagement Score
// ═══════════════════════════════════════════════════════════════════════════

// Weighting of the engagement score components. Each component contributes
// its share of the maximum proportionally to a reference volume, without a
// per-component cap; only the final score is capped at 10.
const (
	partnersReference   = 100.0
	partnersWeight      = 2.0
	agreementsReference = 80.0
	agreementsWeight    = 2.5
	exchangesReference  = 1000.0
	exchangesWeight     = 3.0
	eventsReference     = 40.0
	eventsWeight        = 1.5
	activitiesReference = 15.0
	activitiesWeight    = 1.0

	maxScore = 10.0
)

// EngagementScore folds the office's headline volumes into a single 0–10
// figure, rounded to one decimal after capping.
func EngagementScore(partners, agreements, exchanges, events, activities int) float64 {
	score := float64(partners)/partnersReference*partnersWeight +
		float64(agreements)/agreementsReference*agreementsWeight +
		float64(exchanges)/exchangesReference*exchangesWeight +
		float64(events)/eventsReference*eventsWeight +
		float64(activities)/activitiesReference*activitiesWeight

	if score > maxScore {
		score = maxScore
	}
	return math.Round(score*10) / 10
}
