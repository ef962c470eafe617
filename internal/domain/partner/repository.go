package partner

import (
	"context"

	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
)

// Filter narrows partner listings. Zero values mean "no constraint".
type Filter struct {
	Country    string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// Repository is the persistence port for partner universities.
type Repository interface {
	// Create stores a new partner. Returns shared.ErrPartnerAlreadyExists
	// when the ID is taken.
	Create(ctx context.Context, p *Partner) error

	// GetByID fetches one partner. Returns shared.ErrPartnerNotFound when
	// no partner has the ID.
	GetByID(ctx context.Context, id shared.EntityID) (*Partner, error)

	// List returns partners matching the filter, newest first.
	List(ctx context.Context, filter Filter) ([]*Partner, error)

	// Update overwrites the stored partner. Returns
	// shared.ErrPartnerNotFound when it does not exist.
	Update(ctx context.Context, p *Partner) error

	// Delete removes a partner. Returns shared.ErrPartnerNotFound when it
	// does not exist.
	Delete(ctx context.Context, id shared.EntityID) error

	// Count returns the total number of partners.
	Count(ctx context.Context) (int, error)
}
