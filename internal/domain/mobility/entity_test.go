package mobility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

func TestNew(t *testing.T) {
	p, err := New(TypeStudentExchange, DirectionOutbound, " Maria Santos ")
	require.NoError(t, err)
	assert.Equal(t, "Maria Santos", p.ParticipantName)
	assert.True(t, p.ID.IsValid())
}

func TestNew_InvalidType(t *testing.T) {
	_, err := New("staff_exchange", DirectionInbound, "X")
	assert.Error(t, err)
}

func TestNew_InvalidDirection(t *testing.T) {
	_, err := New(TypeFacultyExchange, "sideways", "X")
	assert.Error(t, err)
}

func TestProgramme_Validate_Dates(t *testing.T) {
	p, err := New(TypeStudentExchange, DirectionInbound, "Kenji Watanabe")
	require.NoError(t, err)

	p.StartDate = "2026-09-01"
	p.EndDate = "2026-08-01"
	assert.Error(t, p.Validate())

	p.EndDate = "2027-01-31"
	assert.NoError(t, p.Validate())
}

func TestProgramme_IsOngoingOn(t *testing.T) {
	today := timeutil.ISODate("2026-06-15")

	tests := []struct {
		name  string
		start timeutil.ISODate
		end   timeutil.ISODate
		want  bool
	}{
		{"no start", "", "", false},
		{"spans today", "2026-01-01", "2026-12-31", true},
		{"open ended", "2026-01-01", "", true},
		{"ends today", "2026-01-01", "2026-06-15", true},
		{"already ended", "2026-01-01", "2026-06-14", false},
		{"not yet started", "2026-07-01", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Programme{StartDate: tt.start, EndDate: tt.end}
			assert.Equal(t, tt.want, p.IsOngoingOn(today))
		})
	}
}

func TestTallyOf(t *testing.T) {
	programmes := []*Programme{
		{Type: TypeStudentExchange, Direction: DirectionInbound},
		{Type: TypeStudentExchange, Direction: DirectionOutbound},
		{Type: TypeStudentExchange, Direction: DirectionOutbound},
		{Type: TypeFacultyExchange, Direction: DirectionInbound},
		{Type: "unknown", Direction: DirectionInbound},
	}

	tally := TallyOf(programmes)
	assert.Equal(t, 1, tally.StudentInbound)
	assert.Equal(t, 2, tally.StudentOutbound)
	assert.Equal(t, 1, tally.FacultyInbound)
	assert.Equal(t, 0, tally.FacultyOutbound)
	assert.Equal(t, 4, tally.Total())
	assert.Equal(t, 3, tally.Students())
}
