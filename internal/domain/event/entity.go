// Package event contains the campus-event aggregate: international events
// the office hosts or joins, shown on the public events page and counted
// into the "events this year" dashboard figure.
// This is a pure domain layer with zero external dependencies.
package event

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// Event is one entry on the events page.
type Event struct {
	ID               shared.EntityID
	Title            string
	Place            string
	EventDate        timeutil.ISODate
	ShortDescription string
	ImageURL         string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// New creates an event with a fresh ID and validates it.
func New(title, place string, date timeutil.ISODate) (*Event, error) {
	e := &Event{
		ID:        shared.EntityID(uuid.NewString()),
		Title:     strings.TrimSpace(title),
		Place:     strings.TrimSpace(place),
		EventDate: date,
		CreatedAt: timeutil.Now(),
		UpdatedAt: timeutil.Now(),
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks the invariants every stored event must satisfy.
func (e *Event) Validate() error {
	if !e.ID.IsValid() {
		return shared.NewDomainError("event", "validate", shared.ErrInvalidID, "event id is not a valid uuid")
	}
	if strings.TrimSpace(e.Title) == "" {
		return shared.NewDomainError("event", "validate", shared.ErrEmptyValue, "event title is required")
	}
	if !e.EventDate.IsZero() && !e.EventDate.IsValid() {
		return shared.NewDomainError("event", "validate", shared.ErrInvalidFormat, "event date is not an ISO date")
	}
	return nil
}

// IsUpcoming reports whether the event is dated on or after the given date.
func (e *Event) IsUpcoming(today timeutil.ISODate) bool {
	if e.EventDate.IsZero() {
		return false
	}
	return e.EventDate.OnOrAfter(today)
}

// InYear reports whether the event falls in the given calendar year.
// Undated events belong to no year.
func (e *Event) InYear(year int) bool {
	t, err := e.EventDate.Time()
	if err != nil {
		return false
	}
	return t.Year() == year
}

// Touch bumps the update timestamp.
func (e *Event) Touch() {
	e.UpdatedAt = timeutil.Now()
}

// CountInYear returns how many of the events fall in the given year.
func CountInYear(events []*Event, year int) int {
	n := 0
	for _, e := range events {
		if e.InYear(year) {
			n++
		}
	}
	return n
}
