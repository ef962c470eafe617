package activity

import (
	"context"

	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
)

// Filter narrows activity listings. Zero values mean "no constraint".
type Filter struct {
	UpcomingOnly bool
	Limit        int
	Offset       int
}

// Repository is the persistence port for office activities.
type Repository interface {
	// Create stores a new activity.
	Create(ctx context.Context, a *Activity) error

	// GetByID fetches one activity. Returns shared.ErrActivityNotFound
	// when no activity has the ID.
	GetByID(ctx context.Context, id shared.EntityID) (*Activity, error)

	// List returns activities matching the filter, most recent activity
	// date first, undated entries last.
	List(ctx context.Context, filter Filter) ([]*Activity, error)

	// Update overwrites the stored activity. Returns
	// shared.ErrActivityNotFound when it does not exist.
	Update(ctx context.Context, a *Activity) error

	// Delete removes an activity. Returns shared.ErrActivityNotFound when
	// it does not exist.
	Delete(ctx context.Context, id shared.EntityID) error

	// Count returns the total number of activities.
	Count(ctx context.Context) (int, error)
}
