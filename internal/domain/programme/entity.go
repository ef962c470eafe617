// Package programme contains the programme-offering aggregate: the exchange,
// research and summer programmes the office offers, grouped per category on
// the public programmes page and counted into the dashboard figures.
// This is a pure domain layer with zero external dependencies.
package programme

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// Category groups offerings on the programmes page.
type Category string

const (
	CategoryExchange Category = "exchange"
	CategoryResearch Category = "research"
	CategorySummer   Category = "summer"
)

// IsValid reports whether the category is a known value.
func (c Category) IsValid() bool {
	switch c {
	case CategoryExchange, CategoryResearch, CategorySummer:
		return true
	default:
		return false
	}
}

func (c Category) String() string { return string(c) }

// Categories returns the known categories in display order.
func Categories() []Category {
	return []Category{CategoryExchange, CategoryResearch, CategorySummer}
}

// Offering is one programme the office offers.
type Offering struct {
	ID          shared.EntityID
	Name        string
	Category    Category
	Description string
	PartnerName string
	StartDate   timeutil.ISODate
	DurationWks int
	Slots       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// New creates an offering with a fresh ID and validates it.
func New(name string, category Category) (*Offering, error) {
	o := &Offering{
		ID:        shared.EntityID(uuid.NewString()),
		Name:      strings.TrimSpace(name),
		Category:  category,
		CreatedAt: timeutil.Now(),
		UpdatedAt: timeutil.Now(),
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate checks the invariants every stored offering must satisfy.
func (o *Offering) Validate() error {
	if !o.ID.IsValid() {
		return shared.NewDomainError("programme", "validate", shared.ErrInvalidID, "offering id is not a valid uuid")
	}
	if strings.TrimSpace(o.Name) == "" {
		return shared.NewDomainError("programme", "validate", shared.ErrEmptyValue, "offering name is required")
	}
	if !o.Category.IsValid() {
		return shared.ErrInvalidProgramType
	}
	if !o.StartDate.IsZero() && !o.StartDate.IsValid() {
		return shared.NewDomainError("programme", "validate", shared.ErrInvalidFormat, "start date is not an ISO date")
	}
	if o.Slots < 0 {
		return shared.NewDomainError("programme", "validate", shared.ErrNegativeValue, "slot count cannot be negative")
	}
	return nil
}

// Touch bumps the update timestamp.
func (o *Offering) Touch() {
	o.UpdatedAt = timeutil.Now()
}

// ═══════════════════════════════════════════════════════════════════════════
// Grouping
// ═══════════════════════════════════════════════════════════════════════════

// Counts is how many offerings each category has. Offerings with an unknown
// category are not counted anywhere.
type Counts struct {
	Exchange int
	Research int
	Summer   int
}

// Total returns the overall number of counted offerings.
func (c Counts) Total() int {
	return c.Exchange + c.Research + c.Summer
}

// CountByCategory tallies offerings per category, dropping unknown
// categories.
func CountByCategory(offerings []*Offering) Counts {
	var c Counts
	for _, o := range offerings {
		switch o.Category {
		case CategoryExchange:
			c.Exchange++
		case CategoryResearch:
			c.Research++
		case CategorySummer:
			c.Summer++
		}
	}
	return c
}

// GroupByCategory splits offerings into per-category lists, each sorted by
// start date ascending with undated offerings last. The sort is stable, so
// offerings sharing a start date keep their input order. Offerings with an
// unknown category are dropped.
func GroupByCategory(offerings []*Offering) map[Category][]*Offering {
	groups := make(map[Category][]*Offering, 3)
	for _, o := range offerings {
		if !o.Category.IsValid() {
			continue
		}
		groups[o.Category] = append(groups[o.Category], o)
	}
	for _, group := range groups {
		sortByStartDate(group)
	}
	return groups
}

func sortByStartDate(offerings []*Offering) {
	sort.SliceStable(offerings, func(i, j int) bool {
		a, b := offerings[i].StartDate, offerings[j].StartDate
		if a.IsZero() {
			return false
		}
		if b.IsZero() {
			return true
		}
		return a.Before(b)
	})
}
