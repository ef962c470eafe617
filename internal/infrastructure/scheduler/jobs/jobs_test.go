package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erio-hub/erio-dashboard/internal/domain/partner"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/internal/domain/views"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeTracker struct {
	total    int
	daily    int
	totalErr error
}

func (f *fakeTracker) Record(ctx context.Context, sessionID string, day timeutil.ISODate) (bool, error) {
	return false, nil
}

func (f *fakeTracker) Total(ctx context.Context) (int, error) {
	return f.total, f.totalErr
}

func (f *fakeTracker) CountOn(ctx context.Context, day timeutil.ISODate) (int, error) {
	return f.daily, nil
}

type fakeRollupStore struct {
	saved []views.Rollup
}

func (f *fakeRollupStore) Save(ctx context.Context, r views.Rollup) error {
	f.saved = append(f.saved, r)
	return nil
}

func (f *fakeRollupStore) Latest(ctx context.Context) (*views.Rollup, error) {
	if len(f.saved) == 0 {
		return nil, nil
	}
	last := f.saved[len(f.saved)-1]
	return &last, nil
}

type fakePartnerRepo struct {
	partners []*partner.Partner
	updated  []*partner.Partner
}

func (f *fakePartnerRepo) Create(ctx context.Context, p *partner.Partner) error { return nil }

func (f *fakePartnerRepo) GetByID(ctx context.Context, id shared.EntityID) (*partner.Partner, error) {
	return nil, shared.ErrPartnerNotFound
}

func (f *fakePartnerRepo) List(ctx context.Context, filter partner.Filter) ([]*partner.Partner, error) {
	return f.partners, nil
}

func (f *fakePartnerRepo) Update(ctx context.Context, p *partner.Partner) error {
	f.updated = append(f.updated, p)
	return nil
}

func (f *fakePartnerRepo) Delete(ctx context.Context, id shared.EntityID) error { return nil }

func (f *fakePartnerRepo) Count(ctx context.Context) (int, error) { return len(f.partners), nil }

type fakeGeocoder struct {
	coords shared.Coordinates
	err    error
	calls  int
}

func (f *fakeGeocoder) Geocode(ctx context.Context, city, country string) (shared.Coordinates, error) {
	f.calls++
	return f.coords, f.err
}

// ─────────────────────────────────────────────────────────────────────────────
// Rollup views job
// ─────────────────────────────────────────────────────────────────────────────

func TestRollupViewsJob_SavesDailyRollup(t *testing.T) {
	tracker := &fakeTracker{total: 1542, daily: 37}
	store := &fakeRollupStore{}
	job := NewRollupViewsJob(tracker, store, nil)

	err := job.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, store.saved, 1)
	rollup := store.saved[0]
	// The job runs just after midnight and records the completed day.
	assert.Equal(t, timeutil.Today().AddDays(-1), rollup.Day)
	assert.Equal(t, 37, rollup.UniqueSessions)
	assert.Equal(t, 1542, rollup.RunningTotal)
}

func TestRollupViewsJob_TrackerFailure(t *testing.T) {
	tracker := &fakeTracker{totalErr: errors.New("redis down")}
	store := &fakeRollupStore{}
	job := NewRollupViewsJob(tracker, store, nil)

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, store.saved)
}

// ─────────────────────────────────────────────────────────────────────────────
// Geocode backfill job
// ─────────────────────────────────────────────────────────────────────────────

func testPartner(t *testing.T, name, country, city string) *partner.Partner {
	t.Helper()
	p, err := partner.New(name, country)
	require.NoError(t, err)
	p.City = city
	return p
}

func TestGeocodeBackfillJob_FillsMissingCoordinates(t *testing.T) {
	missing := testPartner(t, "Kyoto University", "Japan", "Kyoto")
	located := testPartner(t, "Mahidol University", "Thailand", "Bangkok")
	located.Coordinates = shared.Coordinates{Lat: 13.79, Lng: 100.32}
	noCity := testPartner(t, "Open University", "Philippines", "")

	repo := &fakePartnerRepo{partners: []*partner.Partner{missing, located, noCity}}
	geo := &fakeGeocoder{coords: shared.Coordinates{Lat: 35.02, Lng: 135.78}}
	job := NewGeocodeBackfillJob(repo, geo, nil, DefaultGeocodeBackfillConfig())

	err := job.Run(context.Background())
	require.NoError(t, err)

	// Only the partner with a city and no coordinates is looked up.
	assert.Equal(t, 1, geo.calls)
	require.Len(t, repo.updated, 1)
	assert.Equal(t, missing.ID, repo.updated[0].ID)
	assert.InDelta(t, 35.02, repo.updated[0].Coordinates.Lat, 0.001)
}

func TestGeocodeBackfillJob_SkipsFailedLookups(t *testing.T) {
	repo := &fakePartnerRepo{partners: []*partner.Partner{
		testPartner(t, "Atlantis University", "Atlantis", "Atlantis City"),
	}}
	geo := &fakeGeocoder{err: shared.ErrGeocodeNoResult}
	job := NewGeocodeBackfillJob(repo, geo, nil, DefaultGeocodeBackfillConfig())

	err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, repo.updated)
}

func TestGeocodeBackfillJob_RespectsMaxPerRun(t *testing.T) {
	repo := &fakePartnerRepo{}
	for i := 0; i < 5; i++ {
		repo.partners = append(repo.partners, testPartner(t, "University", "Japan", "Tokyo"))
	}
	geo := &fakeGeocoder{coords: shared.Coordinates{Lat: 35.68, Lng: 139.69}}

	cfg := DefaultGeocodeBackfillConfig()
	cfg.MaxPerRun = 2
	job := NewGeocodeBackfillJob(repo, geo, nil, cfg)

	err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, repo.updated, 2)
}

// ─────────────────────────────────────────────────────────────────────────────
// Warm stats cache job
// ─────────────────────────────────────────────────────────────────────────────

type fakeWarmer struct {
	calls int
	err   error
}

func (f *fakeWarmer) Warm(ctx context.Context) error {
	f.calls++
	return f.err
}

func TestWarmStatsCacheJob(t *testing.T) {
	warmer := &fakeWarmer{}
	job := NewWarmStatsCacheJob(warmer, nil)

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, warmer.calls)

	warmer.err = errors.New("cache write failed")
	assert.Error(t, job.Run(context.Background()))
}
