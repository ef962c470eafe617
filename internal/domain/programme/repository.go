package programme

import (
	"context"

	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
)

// Filter narrows offering listings. Zero values mean "no constraint".
type Filter struct {
	Category Category
	Limit    int
	Offset   int
}

// Repository is the persistence port for programme offerings.
type Repository interface {
	// Create stores a new offering.
	Create(ctx context.Context, o *Offering) error

	// GetByID fetches one offering. Returns shared.ErrOfferingNotFound
	// when no offering has the ID.
	GetByID(ctx context.Context, id shared.EntityID) (*Offering, error)

	// List returns offerings matching the filter, start date ascending,
	// undated entries last.
	List(ctx context.Context, filter Filter) ([]*Offering, error)

	// Update overwrites the stored offering. Returns
	// shared.ErrOfferingNotFound when it does not exist.
	Update(ctx context.Context, o *Offering) error

	// Delete removes an offering. Returns shared.ErrOfferingNotFound when
	// it does not exist.
	Delete(ctx context.Context, id shared.EntityID) error

	// CountByCategory tallies stored offerings per category.
	CountByCategory(ctx context.Context) (Counts, error)
}
