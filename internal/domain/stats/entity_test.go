package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erio-hub/erio-dashboard/internal/domain/region"
)

func TestDistributionOf(t *testing.T) {
	t.Run("even thirds round to 33", func(t *testing.T) {
		d := DistributionOf([]region.Region{
			region.RegionAsiaPacific,
			region.RegionEurope,
			region.RegionAmericas,
		})
		assert.Equal(t, Distribution{AsiaPacific: 33, Europe: 33, Americas: 33}, d)
	})

	t.Run("unclassified entries excluded from denominator", func(t *testing.T) {
		d := DistributionOf([]region.Region{
			region.RegionAsiaPacific,
			region.RegionAsiaPacific,
			region.RegionEurope,
			region.RegionNone,
			region.RegionNone,
		})
		assert.Equal(t, Distribution{AsiaPacific: 67, Europe: 33, Americas: 0}, d)
	})

	t.Run("no classified partners falls back to default", func(t *testing.T) {
		assert.Equal(t, DefaultDistribution(), DistributionOf(nil))
		assert.Equal(t, DefaultDistribution(), DistributionOf([]region.Region{region.RegionNone}))
	})

	t.Run("single region takes 100", func(t *testing.T) {
		d := DistributionOf([]region.Region{region.RegionEurope})
		assert.Equal(t, Distribution{AsiaPacific: 0, Europe: 100, Americas: 0}, d)
	})
}

func TestEngagementScore(t *testing.T) {
	t.Run("zero inputs", func(t *testing.T) {
		assert.Equal(t, 0.0, EngagementScore(0, 0, 0, 0, 0))
	})

	t.Run("reference volumes give full weights", func(t *testing.T) {
		// 2.0 + 2.5 + 3.0 + 1.5 + 1.0 = 10, exactly the cap.
		assert.Equal(t, 10.0, EngagementScore(100, 80, 1000, 40, 15))
	})

	t.Run("capped before rounding", func(t *testing.T) {
		assert.Equal(t, 10.0, EngagementScore(500, 400, 5000, 200, 75))
	})

	t.Run("no per-component cap", func(t *testing.T) {
		// Partners alone over reference volume can still contribute more
		// than its weight.
		assert.Equal(t, 4.0, EngagementScore(200, 0, 0, 0, 0))
	})

	t.Run("rounds to one decimal", func(t *testing.T) {
		// 76/100*2 + 65/80*2.5 + 892/1000*3 + 32/40*1.5 + 10/15*1
		// = 1.52 + 2.03125 + 2.676 + 1.2 + 0.6667 = 8.094 -> 8.1
		assert.Equal(t, 8.1, EngagementScore(76, 65, 892, 32, 10))
	})
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.Equal(t, 76, d.PartnerUniversities)
	assert.Equal(t, 65, d.ActiveAgreements)
	assert.Equal(t, 892, d.StudentExchanges)
	assert.Equal(t, 32, d.EventsThisYear)
	assert.Equal(t, Distribution{AsiaPacific: 88, Europe: 7, Americas: 5}, d.RegionalDistribution)
	assert.Equal(t, ProgrammeCounts{Exchange: 68, Research: 24, Summer: 18}, d.ProgramsOffered)
	assert.Equal(t, 9.2, d.EngagementScore)
	assert.NoError(t, d.Validate())
}

func TestSnapshot_Validate(t *testing.T) {
	t.Run("negative count", func(t *testing.T) {
		s := Defaults()
		s.StudentExchanges = -1
		assert.Error(t, s.Validate())
	})

	t.Run("score out of range", func(t *testing.T) {
		s := Defaults()
		s.EngagementScore = 10.1
		assert.Error(t, s.Validate())
	})

	t.Run("percentage out of range", func(t *testing.T) {
		s := Defaults()
		s.RegionalDistribution.Europe = 101
		assert.Error(t, s.Validate())
	})
}
