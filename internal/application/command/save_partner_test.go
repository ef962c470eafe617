package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erio-hub/erio-dashboard/internal/domain/partner"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
)

type memPartnerRepo struct {
	byID map[shared.EntityID]*partner.Partner
}

func newMemPartnerRepo() *memPartnerRepo {
	return &memPartnerRepo{byID: make(map[shared.EntityID]*partner.Partner)}
}

func (m *memPartnerRepo) Create(_ context.Context, p *partner.Partner) error {
	if _, ok := m.byID[p.ID]; ok {
		return shared.ErrPartnerAlreadyExists
	}
	m.byID[p.ID] = p
	return nil
}

func (m *memPartnerRepo) GetByID(_ context.Context, id shared.EntityID) (*partner.Partner, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrPartnerNotFound
	}
	return p, nil
}

func (m *memPartnerRepo) List(context.Context, partner.Filter) ([]*partner.Partner, error) {
	out := make([]*partner.Partner, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, p)
	}
	return out, nil
}

func (m *memPartnerRepo) Update(_ context.Context, p *partner.Partner) error {
	if _, ok := m.byID[p.ID]; !ok {
		return shared.ErrPartnerNotFound
	}
	m.byID[p.ID] = p
	return nil
}

func (m *memPartnerRepo) Delete(_ context.Context, id shared.EntityID) error {
	if _, ok := m.byID[id]; !ok {
		return shared.ErrPartnerNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memPartnerRepo) Count(context.Context) (int, error) { return len(m.byID), nil }

type stubGeocoder struct {
	coords shared.Coordinates
	err    error
	calls  int
}

func (s *stubGeocoder) Geocode(context.Context, string, string) (shared.Coordinates, error) {
	s.calls++
	return s.coords, s.err
}

func TestSavePartner_Create(t *testing.T) {
	repo := newMemPartnerRepo()
	h := NewSavePartnerHandler(repo, nil, nil, nil)

	result, err := h.Handle(context.Background(), SavePartnerCommand{
		Name:     "Sophia University",
		Country:  "Japan",
		SignDate: "2020-04-01",
	})
	require.NoError(t, err)
	assert.True(t, result.Created)

	saved, err := repo.GetByID(context.Background(), shared.EntityID(result.ID))
	require.NoError(t, err)
	assert.Equal(t, "Sophia University", saved.Name)
	assert.True(t, saved.HasActiveAgreement())
}

func TestSavePartner_Update(t *testing.T) {
	repo := newMemPartnerRepo()
	h := NewSavePartnerHandler(repo, nil, nil, nil)

	created, err := h.Handle(context.Background(), SavePartnerCommand{Name: "Old Name", Country: "Japan"})
	require.NoError(t, err)

	updated, err := h.Handle(context.Background(), SavePartnerCommand{
		ID:      created.ID,
		Name:    "New Name",
		Country: "Japan",
	})
	require.NoError(t, err)
	assert.False(t, updated.Created)
	assert.Equal(t, created.ID, updated.ID)

	saved, _ := repo.GetByID(context.Background(), shared.EntityID(created.ID))
	assert.Equal(t, "New Name", saved.Name)
}

func TestSavePartner_GeocodesMissingPin(t *testing.T) {
	repo := newMemPartnerRepo()
	geo := &stubGeocoder{coords: shared.Coordinates{Lat: 7.07, Lng: 125.61}}
	h := NewSavePartnerHandler(repo, geo, nil, nil)

	result, err := h.Handle(context.Background(), SavePartnerCommand{
		Name:    "Ateneo de Davao",
		Country: "Philippines",
		City:    "Davao City",
	})
	require.NoError(t, err)
	assert.True(t, result.Geocoded)
	assert.Equal(t, 1, geo.calls)

	saved, _ := repo.GetByID(context.Background(), shared.EntityID(result.ID))
	assert.True(t, saved.HasCoordinates())
}

func TestSavePartner_GeocodeFailureDoesNotBlockSave(t *testing.T) {
	repo := newMemPartnerRepo()
	geo := &stubGeocoder{err: errors.New("timeout")}
	h := NewSavePartnerHandler(repo, geo, nil, nil)

	result, err := h.Handle(context.Background(), SavePartnerCommand{
		Name:    "Ateneo de Davao",
		Country: "Philippines",
		City:    "Davao City",
	})
	require.NoError(t, err)
	assert.False(t, result.Geocoded)
}

func TestSavePartner_ExplicitPinSkipsGeocoder(t *testing.T) {
	repo := newMemPartnerRepo()
	geo := &stubGeocoder{}
	h := NewSavePartnerHandler(repo, geo, nil, nil)

	_, err := h.Handle(context.Background(), SavePartnerCommand{
		Name:    "Keio University",
		Country: "Japan",
		City:    "Tokyo",
		Lat:     35.65,
		Lng:     139.74,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, geo.calls)
}

func TestSavePartner_RejectsBadAgreement(t *testing.T) {
	h := NewSavePartnerHandler(newMemPartnerRepo(), nil, nil, nil)

	_, err := h.Handle(context.Background(), SavePartnerCommand{
		Name:     "X University",
		Country:  "Japan",
		SignDate: "April 2020",
	})
	assert.Error(t, err)
}

func TestDeletePartner(t *testing.T) {
	repo := newMemPartnerRepo()
	save := NewSavePartnerHandler(repo, nil, nil, nil)
	del := NewDeletePartnerHandler(repo, nil, nil)

	created, err := save.Handle(context.Background(), SavePartnerCommand{Name: "X", Country: "Japan"})
	require.NoError(t, err)

	require.NoError(t, del.Handle(context.Background(), created.ID, "admin-1"))

	_, err = repo.GetByID(context.Background(), shared.EntityID(created.ID))
	assert.ErrorIs(t, err, shared.ErrPartnerNotFound)
}
