// Package mobility contains the mobility-programme aggregate: individual
// student and faculty exchange placements, inbound and outbound, as the
// office records them.
// This is a pure domain layer with zero external dependencies.
package mobility

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ═══════════════════════════════════════════════════════════════════════════
// Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// Type distinguishes who is mobile in a programme.
type Type string

const (
	TypeStudentExchange Type = "student_exchange"
	TypeFacultyExchange Type = "faculty_exchange"
)

// IsValid reports whether the mobility type is a known value.
func (t Type) IsValid() bool {
	return t == TypeStudentExchange || t == TypeFacultyExchange
}

func (t Type) String() string { return string(t) }

// Direction tells whether the participant comes to campus or goes abroad.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// IsValid reports whether the direction is a known value.
func (d Direction) IsValid() bool {
	return d == DirectionInbound || d == DirectionOutbound
}

func (d Direction) String() string { return string(d) }

// ═══════════════════════════════════════════════════════════════════════════
// Entity
// ═══════════════════════════════════════════════════════════════════════════

// Programme is one mobility placement. Institution is the counterpart
// university: the host for outbound placements, the home for inbound ones.
type Programme struct {
	ID              shared.EntityID
	Type            Type
	Direction       Direction
	ParticipantName string
	Institution     string
	Country         string
	AcademicYear    string
	StartDate       timeutil.ISODate
	EndDate         timeutil.ISODate
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// New creates a programme with a fresh ID and validates it.
func New(typ Type, direction Direction, participant string) (*Programme, error) {
	p := &Programme{
		ID:              shared.EntityID(uuid.NewString()),
		Type:            typ,
		Direction:       direction,
		ParticipantName: strings.TrimSpace(participant),
		CreatedAt:       timeutil.Now(),
		UpdatedAt:       timeutil.Now(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the invariants every stored programme must satisfy.
func (p *Programme) Validate() error {
	if !p.ID.IsValid() {
		return shared.NewDomainError("mobility", "validate", shared.ErrInvalidID, "programme id is not a valid uuid")
	}
	if !p.Type.IsValid() {
		return shared.ErrInvalidProgrammeType
	}
	if !p.Direction.IsValid() {
		return shared.ErrInvalidDirection
	}
	if !p.StartDate.IsZero() && !p.StartDate.IsValid() {
		return shared.NewDomainError("mobility", "validate", shared.ErrInvalidFormat, "start date is not an ISO date")
	}
	if !p.EndDate.IsZero() && !p.EndDate.IsValid() {
		return shared.NewDomainError("mobility", "validate", shared.ErrInvalidFormat, "end date is not an ISO date")
	}
	if !p.StartDate.IsZero() && !p.EndDate.IsZero() && p.EndDate.Before(p.StartDate) {
		return shared.NewDomainError("mobility", "validate", shared.ErrInvalidState, "placement ends before it starts")
	}
	return nil
}

// IsOngoingOn reports whether the placement spans the given date. Placements
// without a start date are never ongoing.
func (p *Programme) IsOngoingOn(date timeutil.ISODate) bool {
	if p.StartDate.IsZero() {
		return false
	}
	if !p.StartDate.OnOrBefore(date) {
		return false
	}
	if p.EndDate.IsZero() {
		return true
	}
	return p.EndDate.OnOrAfter(date)
}

// Touch bumps the update timestamp.
func (p *Programme) Touch() {
	p.UpdatedAt = timeutil.Now()
}

// ═══════════════════════════════════════════════════════════════════════════
// Collection Helpers
// ═══════════════════════════════════════════════════════════════════════════

// Tally is the breakdown of placements by type and direction.
type Tally struct {
	StudentInbound  int
	StudentOutbound int
	FacultyInbound  int
	FacultyOutbound int
}

// Total returns the overall number of tallied placements.
func (t Tally) Total() int {
	return t.StudentInbound + t.StudentOutbound + t.FacultyInbound + t.FacultyOutbound
}

// Students returns the student placements, inbound plus outbound.
func (t Tally) Students() int {
	return t.StudentInbound + t.StudentOutbound
}

// TallyOf breaks the programmes down by type and direction. Programmes with
// an unknown type or direction are dropped.
func TallyOf(programmes []*Programme) Tally {
	var t Tally
	for _, p := range programmes {
		switch {
		case p.Type == TypeStudentExchange && p.Direction == DirectionInbound:
			t.StudentInbound++
		case p.Type == TypeStudentExchange && p.Direction == DirectionOutbound:
			t.StudentOutbound++
		case p.Type == TypeFacultyExchange && p.Direction == DirectionInbound:
			t.FacultyInbound++
		case p.Type == TypeFacultyExchange && p.Direction == DirectionOutbound:
			t.FacultyOutbound++
		}
	}
	return t
}
