package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erio-hub/erio-dashboard/internal/domain/event"
	"github.com/erio-hub/erio-dashboard/internal/domain/partner"
	"github.com/erio-hub/erio-dashboard/internal/domain/programme"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/internal/domain/stats"
)

// ─────────────────────────────────────────────────────────────────────────────
// Stubs
// ─────────────────────────────────────────────────────────────────────────────

type stubPartnerRepo struct {
	partners []*partner.Partner
	err      error
}

func (s *stubPartnerRepo) Create(context.Context, *partner.Partner) error { return nil }
func (s *stubPartnerRepo) GetByID(context.Context, shared.EntityID) (*partner.Partner, error) {
	return nil, shared.ErrPartnerNotFound
}
func (s *stubPartnerRepo) List(context.Context, partner.Filter) ([]*partner.Partner, error) {
	return s.partners, s.err
}
func (s *stubPartnerRepo) Update(context.Context, *partner.Partner) error { return nil }
func (s *stubPartnerRepo) Delete(context.Context, shared.EntityID) error  { return nil }
func (s *stubPartnerRepo) Count(context.Context) (int, error)             { return len(s.partners), s.err }

type stubEventRepo struct {
	count int
	err   error
}

func (s *stubEventRepo) Create(context.Context, *event.Event) error { return nil }
func (s *stubEventRepo) GetByID(context.Context, shared.EntityID) (*event.Event, error) {
	return nil, shared.ErrEventNotFound
}
func (s *stubEventRepo) List(context.Context, event.Filter) ([]*event.Event, error) {
	return nil, s.err
}
func (s *stubEventRepo) Update(context.Context, *event.Event) error { return nil }
func (s *stubEventRepo) Delete(context.Context, shared.EntityID) error {
	return nil
}
func (s *stubEventRepo) CountInYear(context.Context, int) (int, error) { return s.count, s.err }

type stubProgrammeRepo struct {
	counts programme.Counts
	err    error
}

func (s *stubProgrammeRepo) Create(context.Context, *programme.Offering) error { return nil }
func (s *stubProgrammeRepo) GetByID(context.Context, shared.EntityID) (*programme.Offering, error) {
	return nil, shared.ErrOfferingNotFound
}
func (s *stubProgrammeRepo) List(context.Context, programme.Filter) ([]*programme.Offering, error) {
	return nil, s.err
}
func (s *stubProgrammeRepo) Update(context.Context, *programme.Offering) error { return nil }
func (s *stubProgrammeRepo) Delete(context.Context, shared.EntityID) error     { return nil }
func (s *stubProgrammeRepo) CountByCategory(context.Context) (programme.Counts, error) {
	return s.counts, s.err
}

type stubActivityCounter struct {
	count int
	err   error
}

func (s *stubActivityCounter) Count(context.Context) (int, error) { return s.count, s.err }

type stubStatsRepo struct {
	snapshot *stats.Snapshot
	err      error
}

func (s *stubStatsRepo) Get(context.Context) (*stats.Snapshot, error) { return s.snapshot, s.err }
func (s *stubStatsRepo) Save(context.Context, *stats.Snapshot) error  { return nil }

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestGetDashboardStats_DerivesFromLiveData(t *testing.T) {
	partners := []*partner.Partner{
		{Name: "A", Country: "Japan", SignDate: "2020-01-01"},
		{Name: "B", Country: "Thailand", SignDate: "2020-01-01", ExpiryDate: "2024-01-01"},
		{Name: "C", Country: "Germany"},
		{Name: "D", Country: "USA", SignDate: "2026-01-01"},
	}

	h := NewGetDashboardStatsHandler(
		&stubPartnerRepo{partners: partners},
		&stubEventRepo{count: 12},
		&stubProgrammeRepo{counts: programme.Counts{Exchange: 5, Research: 2, Summer: 1}},
		&stubActivityCounter{count: 9},
		&stubStatsRepo{err: shared.ErrSnapshotNotFound},
		nil,
	)

	result, err := h.Handle(context.Background(), GetDashboardStatsQuery{Today: "2026-06-15"})
	require.NoError(t, err)

	assert.Equal(t, 4, result.PartnerUniversities)
	// A is open-ended, B expired, C never signed, D starts in the future.
	assert.Equal(t, 2, result.ActiveAgreements)
	assert.Equal(t, 12, result.EventsThisYear)
	assert.Equal(t, stats.ProgrammeCounts{Exchange: 5, Research: 2, Summer: 1}, result.ProgramsOffered)
	// 2 Asia Pacific, 1 Europe, 1 Americas out of 4 matched.
	assert.Equal(t, stats.Distribution{AsiaPacific: 50, Europe: 25, Americas: 25}, result.RegionalDistribution)
	// 4/100*2 + 2/80*2.5 + 892/1000*3 + 12/40*1.5 + 9/15*1
	// = 0.08 + 0.0625 + 2.676 + 0.45 + 0.6 = 3.8685 -> 3.9
	assert.Equal(t, 3.9, result.EngagementScore)
	assert.True(t, result.Derived["partnerUniversities"])
}

func TestGetDashboardStats_FallsBackToSnapshot(t *testing.T) {
	stored := stats.Snapshot{
		PartnerUniversities:  50,
		ActiveAgreements:     40,
		StudentExchanges:     500,
		EventsThisYear:       20,
		RegionalDistribution: stats.Distribution{AsiaPacific: 70, Europe: 20, Americas: 10},
		ProgramsOffered:      stats.ProgrammeCounts{Exchange: 30, Research: 10, Summer: 5},
		EngagementScore:      7.0,
	}

	dbDown := errors.New("connection refused")
	h := NewGetDashboardStatsHandler(
		&stubPartnerRepo{err: dbDown},
		&stubEventRepo{err: dbDown},
		&stubProgrammeRepo{err: dbDown},
		&stubActivityCounter{err: dbDown},
		&stubStatsRepo{snapshot: &stored},
		nil,
	)

	result, err := h.Handle(context.Background(), GetDashboardStatsQuery{Today: "2026-06-15"})
	require.NoError(t, err)

	assert.Equal(t, 50, result.PartnerUniversities)
	assert.Equal(t, 40, result.ActiveAgreements)
	assert.Equal(t, 500, result.StudentExchanges)
	assert.Equal(t, 20, result.EventsThisYear)
	assert.Equal(t, stored.RegionalDistribution, result.RegionalDistribution)
	assert.Equal(t, stored.ProgramsOffered, result.ProgramsOffered)
	assert.Equal(t, 7.0, result.EngagementScore)
	assert.False(t, result.Derived["partnerUniversities"])
}

// With no live repositories wired the handler serves the stored snapshot
// untouched, stored engagement score included.
func TestGetDashboardStats_SnapshotOnlyMode(t *testing.T) {
	stored := stats.Snapshot{
		PartnerUniversities: 50,
		ActiveAgreements:    40,
		StudentExchanges:    500,
		EventsThisYear:      20,
		EngagementScore:     7.5,
	}

	h := NewGetDashboardStatsHandler(nil, nil, nil, nil, &stubStatsRepo{snapshot: &stored}, nil)

	result, err := h.Handle(context.Background(), GetDashboardStatsQuery{Today: "2026-06-15"})
	require.NoError(t, err)

	assert.Equal(t, 50, result.PartnerUniversities)
	assert.Equal(t, 20, result.EventsThisYear)
	assert.Equal(t, 7.5, result.EngagementScore)
	assert.Empty(t, result.Derived)
}

func TestGetDashboardStats_EverythingDownUsesDefaults(t *testing.T) {
	dbDown := errors.New("connection refused")
	h := NewGetDashboardStatsHandler(
		&stubPartnerRepo{err: dbDown},
		&stubEventRepo{err: dbDown},
		&stubProgrammeRepo{err: dbDown},
		&stubActivityCounter{err: dbDown},
		&stubStatsRepo{err: dbDown},
		nil,
	)

	result, err := h.Handle(context.Background(), GetDashboardStatsQuery{Today: "2026-06-15"})
	require.NoError(t, err)

	defaults := stats.Defaults()
	assert.Equal(t, defaults.PartnerUniversities, result.PartnerUniversities)
	assert.Equal(t, defaults.StudentExchanges, result.StudentExchanges)
	assert.Equal(t, defaults.RegionalDistribution, result.RegionalDistribution)
	assert.Equal(t, defaults.ProgramsOffered, result.ProgramsOffered)
}

func TestGetDashboardStats_EmptyDatabaseDerivesZeros(t *testing.T) {
	h := NewGetDashboardStatsHandler(
		&stubPartnerRepo{partners: []*partner.Partner{}},
		&stubEventRepo{count: 0},
		&stubProgrammeRepo{},
		&stubActivityCounter{},
		&stubStatsRepo{err: shared.ErrSnapshotNotFound},
		nil,
	)

	result, err := h.Handle(context.Background(), GetDashboardStatsQuery{Today: "2026-06-15"})
	require.NoError(t, err)

	// Empty list is real data: counts derive to zero, not to defaults.
	assert.Equal(t, 0, result.PartnerUniversities)
	assert.Equal(t, 0, result.ActiveAgreements)
	assert.Equal(t, 0, result.EventsThisYear)
	assert.Equal(t, stats.ProgrammeCounts{}, result.ProgramsOffered)
	// But no classified partner means the map keeps the default split.
	assert.Equal(t, stats.DefaultDistribution(), result.RegionalDistribution)
}

func TestGetDashboardStats_EmptyCatalogueIsNotAFallback(t *testing.T) {
	stored := stats.Snapshot{
		ProgramsOffered: stats.ProgrammeCounts{Exchange: 30, Research: 10, Summer: 5},
	}

	h := NewGetDashboardStatsHandler(
		&stubPartnerRepo{},
		&stubEventRepo{},
		&stubProgrammeRepo{}, // fetch succeeds, catalogue is empty
		&stubActivityCounter{},
		&stubStatsRepo{snapshot: &stored},
		nil,
	)

	result, err := h.Handle(context.Background(), GetDashboardStatsQuery{Today: "2026-06-15"})
	require.NoError(t, err)

	// A healthy read of an empty catalogue reports zero offerings; the
	// stored tallies are reserved for failed fetches.
	assert.Equal(t, stats.ProgrammeCounts{}, result.ProgramsOffered)
	assert.True(t, result.Derived["programsOffered"])
}
