// Package activity contains the office-activity aggregate: the feed of
// international-relations activities (MOU signings, delegation visits,
// orientations) the office publishes on the public site.
// This is a pure domain layer with zero external dependencies.
package activity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// Activity is one published entry in the office activity feed.
type Activity struct {
	ID           shared.EntityID
	Title        string
	Description  string
	ActivityDate timeutil.ISODate
	ImageURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// New creates an activity with a fresh ID and validates it.
func New(title, description string, date timeutil.ISODate) (*Activity, error) {
	a := &Activity{
		ID:           shared.EntityID(uuid.NewString()),
		Title:        strings.TrimSpace(title),
		Description:  strings.TrimSpace(description),
		ActivityDate: date,
		CreatedAt:    timeutil.Now(),
		UpdatedAt:    timeutil.Now(),
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the invariants every stored activity must satisfy.
func (a *Activity) Validate() error {
	if !a.ID.IsValid() {
		return shared.NewDomainError("activity", "validate", shared.ErrInvalidID, "activity id is not a valid uuid")
	}
	if strings.TrimSpace(a.Title) == "" {
		return shared.ErrEmptyTitle
	}
	if !a.ActivityDate.IsZero() && !a.ActivityDate.IsValid() {
		return shared.NewDomainError("activity", "validate", shared.ErrInvalidFormat, "activity date is not an ISO date")
	}
	return nil
}

// IsUpcoming reports whether the activity is dated on or after the given
// date. Undated activities are never upcoming.
func (a *Activity) IsUpcoming(today timeutil.ISODate) bool {
	if a.ActivityDate.IsZero() {
		return false
	}
	return a.ActivityDate.OnOrAfter(today)
}

// DisplayDate returns the activity date formatted for the public site,
// e.g. "June 15, 2026". Empty when undated.
func (a *Activity) DisplayDate() string {
	t, err := a.ActivityDate.Time()
	if err != nil {
		return ""
	}
	return timeutil.FormatDisplayDate(t)
}

// Touch bumps the update timestamp.
func (a *Activity) Touch() {
	a.UpdatedAt = timeutil.Now()
}
