package mobility

import (
	"context"

	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
)

// Filter narrows programme listings. Zero values mean "no constraint".
type Filter struct {
	Type      Type
	Direction Direction
	Limit     int
	Offset    int
}

// Repository is the persistence port for mobility programmes.
type Repository interface {
	// Create stores a new programme.
	Create(ctx context.Context, p *Programme) error

	// GetByID fetches one programme. Returns shared.ErrProgrammeNotFound
	// when no programme has the ID.
	GetByID(ctx context.Context, id shared.EntityID) (*Programme, error)

	// List returns programmes matching the filter, newest first.
	List(ctx context.Context, filter Filter) ([]*Programme, error)

	// Update overwrites the stored programme. Returns
	// shared.ErrProgrammeNotFound when it does not exist.
	Update(ctx context.Context, p *Programme) error

	// Delete removes a programme. Returns shared.ErrProgrammeNotFound when
	// it does not exist.
	Delete(ctx context.Context, id shared.EntityID) error

	// Count returns the total number of programmes.
	Count(ctx context.Context) (int, error)
}
