// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"fmt"
	"regexp"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// UUID validation regex (simple version).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// EntityID represents a unique entity identifier (UUID format).
type EntityID string

// IsValid checks if the ID is a valid UUID.
func (id EntityID) IsValid() bool {
	return uuidRegex.MatchString(string(id))
}

// String returns the string representation.
func (id EntityID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty.
func (id EntityID) IsEmpty() bool {
	return id == ""
}

// NewEntityID creates a new EntityID with validation.
func NewEntityID(id string) (EntityID, error) {
	eid := EntityID(strings.ToLower(strings.TrimSpace(id)))
	if !eid.IsValid() {
		return "", NewDomainError("shared", "NewEntityID", ErrInvalidID, "invalid entity ID format")
	}
	return eid, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Email Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Simple email shape check; real validation happens on delivery.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Email represents an email address.
type Email string

// IsValid checks if the email has a plausible shape.
func (e Email) IsValid() bool {
	return emailRegex.MatchString(string(e))
}

// String returns the string representation.
func (e Email) String() string {
	return string(e)
}

// Normalize returns a normalized (lowercase, trimmed) email.
func (e Email) Normalize() Email {
	return Email(strings.ToLower(strings.TrimSpace(string(e))))
}

// NewEmail creates a new Email with validation.
func NewEmail(raw string) (Email, error) {
	e := Email(raw).Normalize()
	if !e.IsValid() {
		return "", NewDomainError("shared", "NewEmail", ErrInvalidFormat, "invalid email address")
	}
	return e, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Coordinates Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Coordinates is a WGS84 latitude/longitude pair used to place partner
// universities on the world map. The zero value means "not geocoded yet".
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsZero reports whether the coordinates are unset.
func (c Coordinates) IsZero() bool {
	return c.Lat == 0 && c.Lng == 0
}

// IsValid checks that the coordinates are within world bounds.
func (c Coordinates) IsValid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// String returns "lat,lng" for logging.
func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}

// NewCoordinates creates Coordinates with bounds validation.
func NewCoordinates(lat, lng float64) (Coordinates, error) {
	c := Coordinates{Lat: lat, Lng: lng}
	if !c.IsValid() {
		return Coordinates{}, NewDomainError("shared", "NewCoordinates", ErrValueOutOfRange, "coordinates out of world bounds")
	}
	return c, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Percentage Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Percentage is an integer percentage in [0, 100], used for the regional
// distribution breakdown.
type Percentage int

// IsValid checks the percentage is within [0, 100].
func (p Percentage) IsValid() bool {
	return p >= 0 && p <= 100
}

// Int returns the underlying int value.
func (p Percentage) Int() int {
	return int(p)
}
