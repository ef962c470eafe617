package event

import (
	"context"

	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
)

// Filter narrows event listings. Zero values mean "no constraint".
type Filter struct {
	Year         int
	UpcomingOnly bool
	Limit        int
	Offset       int
}

// Repository is the persistence port for campus events.
type Repository interface {
	// Create stores a new event.
	Create(ctx context.Context, e *Event) error

	// GetByID fetches one event. Returns shared.ErrEventNotFound when no
	// event has the ID.
	GetByID(ctx context.Context, id shared.EntityID) (*Event, error)

	// List returns events matching the filter, soonest event date first,
	// undated entries last.
	List(ctx context.Context, filter Filter) ([]*Event, error)

	// Update overwrites the stored event. Returns shared.ErrEventNotFound
	// when it does not exist.
	Update(ctx context.Context, e *Event) error

	// Delete removes an event. Returns shared.ErrEventNotFound when it
	// does not exist.
	Delete(ctx context.Context, id shared.EntityID) error

	// CountInYear returns how many events fall in the given calendar year.
	CountInYear(ctx context.Context, year int) (int, error)
}
