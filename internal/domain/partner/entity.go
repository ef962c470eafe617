// Package partner holds the partner-university aggregate: the institutions
// ERIO maintains linkage agreements with, their map coordinates and their
// agreement windows.
package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erio-hub/erio-dashboard/internal/domain/region"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ═══════════════════════════════════════════════════════════════════════════
// Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// Type distinguishes the institutional nature of a partner.
type Type string

const (
	TypeUniversity Type = "University"
	TypeInstitute  Type = "Institute"
	TypeCollege    Type = "College"
	TypeNGO        Type = "NGO"
)

// IsValid reports whether the partner type is a known value. The empty
// string is allowed because legacy records carry no type.
func (t Type) IsValid() bool {
	switch t {
	case "", TypeUniversity, TypeInstitute, TypeCollege, TypeNGO:
		return true
	default:
		return false
	}
}

func (t Type) String() string { return string(t) }

// ═══════════════════════════════════════════════════════════════════════════
// Entity
// ═══════════════════════════════════════════════════════════════════════════

// Partner is a partner university with its location and agreement window.
// Latitude and Longitude position the pin on the public partner map;
// SignDate and ExpiryDate bound the linkage agreement.
type Partner struct {
	ID          shared.EntityID
	Name        string
	Country     string
	City        string
	Coordinates shared.Coordinates
	Students    int
	Programs    []string
	Established int
	Type        Type
	SignDate    timeutil.ISODate
	ExpiryDate  timeutil.ISODate
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// New creates a partner with a fresh ID and validates it.
func New(name, country string) (*Partner, error) {
	p := &Partner{
		ID:        shared.EntityID(uuid.NewString()),
		Name:      strings.TrimSpace(name),
		Country:   strings.TrimSpace(country),
		CreatedAt: timeutil.Now(),
		UpdatedAt: timeutil.Now(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the invariants every stored partner must satisfy.
func (p *Partner) Validate() error {
	if !p.ID.IsValid() {
		return shared.NewDomainError("partner", "validate", shared.ErrInvalidID, "partner id is not a valid uuid")
	}
	if strings.TrimSpace(p.Name) == "" {
		return shared.NewDomainError("partner", "validate", shared.ErrEmptyValue, "partner name is required")
	}
	if !p.Type.IsValid() {
		return shared.NewDomainError("partner", "validate", shared.ErrInvalidInput, "unknown partner type: "+string(p.Type))
	}
	if p.Students < 0 {
		return shared.NewDomainError("partner", "validate", shared.ErrNegativeValue, "student count cannot be negative")
	}
	if !p.Coordinates.IsZero() && !p.Coordinates.IsValid() {
		return shared.NewDomainError("partner", "validate", shared.ErrValueOutOfRange, "coordinates outside valid range")
	}
	if err := p.validateAgreement(); err != nil {
		return err
	}
	return nil
}

func (p *Partner) validateAgreement() error {
	if !p.SignDate.IsZero() && !p.SignDate.IsValid() {
		return shared.ErrInvalidAgreement
	}
	if !p.ExpiryDate.IsZero() && !p.ExpiryDate.IsValid() {
		return shared.ErrInvalidAgreement
	}
	if !p.SignDate.IsZero() && !p.ExpiryDate.IsZero() && p.ExpiryDate.Before(p.SignDate) {
		return shared.NewDomainError("partner", "validate", shared.ErrInvalidState, "agreement expires before it is signed")
	}
	return nil
}

// Region returns the coarse region the partner's country falls in, or
// region.RegionNone for countries outside the tables.
func (p *Partner) Region() region.Region {
	return region.ForCountry(p.Country)
}

// SubRegion returns the finer sub-region for the partner's country.
func (p *Partner) SubRegion() region.SubRegion {
	return region.SubRegionForCountry(p.Country)
}

// HasActiveAgreementOn reports whether the linkage agreement is in force on
// the given date: signed on or before it, and either open-ended or expiring
// on or after it. A partner with no sign date is never active.
func (p *Partner) HasActiveAgreementOn(date timeutil.ISODate) bool {
	if p.SignDate.IsZero() {
		return false
	}
	if !p.SignDate.OnOrBefore(date) {
		return false
	}
	if p.ExpiryDate.IsZero() {
		return true
	}
	return p.ExpiryDate.OnOrAfter(date)
}

// HasActiveAgreement reports whether the agreement is in force today.
func (p *Partner) HasActiveAgreement() bool {
	return p.HasActiveAgreementOn(timeutil.Today())
}

// HasCoordinates reports whether the partner can be pinned on the map.
func (p *Partner) HasCoordinates() bool {
	return !p.Coordinates.IsZero()
}

// Touch bumps the update timestamp.
func (p *Partner) Touch() {
	p.UpdatedAt = timeutil.Now()
}

// ═══════════════════════════════════════════════════════════════════════════
// Collection Helpers
// ═══════════════════════════════════════════════════════════════════════════

// ActiveOn filters partners down to those whose agreement is in force on the
// given date, preserving input order.
func ActiveOn(partners []*Partner, date timeutil.ISODate) []*Partner {
	active := make([]*Partner, 0, len(partners))
	for _, p := range partners {
		if p.HasActiveAgreementOn(date) {
			active = append(active, p)
		}
	}
	return active
}

// CountriesOf returns the distinct countries across the partners, in first
// appearance order.
func CountriesOf(partners []*Partner) []string {
	seen := make(map[string]struct{}, len(partners))
	out := make([]string, 0, len(partners))
	for _, p := range partners {
		c := strings.TrimSpace(p.Country)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
