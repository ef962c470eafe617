package partner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erio-hub/erio-dashboard/internal/domain/region"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

func TestNew(t *testing.T) {
	p, err := New("  Sophia University  ", " Japan ")
	require.NoError(t, err)
	assert.Equal(t, "Sophia University", p.Name)
	assert.Equal(t, "Japan", p.Country)
	assert.True(t, p.ID.IsValid())
	assert.False(t, p.CreatedAt.IsZero())
}

func TestNew_EmptyName(t *testing.T) {
	_, err := New("   ", "Japan")
	assert.Error(t, err)
}

func TestPartner_Validate(t *testing.T) {
	base := func() *Partner {
		p, err := New("Chulalongkorn University", "Thailand")
		if err != nil {
			t.Fatal(err)
		}
		return p
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("negative students", func(t *testing.T) {
		p := base()
		p.Students = -1
		assert.Error(t, p.Validate())
	})

	t.Run("unknown type", func(t *testing.T) {
		p := base()
		p.Type = "Consortium"
		assert.Error(t, p.Validate())
	})

	t.Run("malformed sign date", func(t *testing.T) {
		p := base()
		p.SignDate = "June 2020"
		assert.Error(t, p.Validate())
	})

	t.Run("expiry before sign", func(t *testing.T) {
		p := base()
		p.SignDate = "2022-01-01"
		p.ExpiryDate = "2021-12-31"
		assert.Error(t, p.Validate())
	})

	t.Run("out of range coordinates", func(t *testing.T) {
		p := base()
		p.Coordinates.Lat = 91
		p.Coordinates.Lng = 10
		assert.Error(t, p.Validate())
	})
}

func TestPartner_HasActiveAgreementOn(t *testing.T) {
	today := timeutil.ISODate("2026-06-15")

	tests := []struct {
		name   string
		sign   timeutil.ISODate
		expiry timeutil.ISODate
		want   bool
	}{
		{"no sign date", "", "", false},
		{"no sign date with expiry", "", "2030-01-01", false},
		{"signed in past, open ended", "2020-01-01", "", true},
		{"signed today", "2026-06-15", "", true},
		{"signed in future", "2026-06-16", "", false},
		{"expires today", "2020-01-01", "2026-06-15", true},
		{"expired yesterday", "2020-01-01", "2026-06-14", false},
		{"expires in future", "2020-01-01", "2030-12-31", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Partner{SignDate: tt.sign, ExpiryDate: tt.expiry}
			assert.Equal(t, tt.want, p.HasActiveAgreementOn(today))
		})
	}
}

func TestPartner_Region(t *testing.T) {
	p := &Partner{Country: "Philippines"}
	assert.Equal(t, region.RegionAsiaPacific, p.Region())
	assert.Equal(t, region.SubRegionASEAN, p.SubRegion())

	unknown := &Partner{Country: "Wakanda"}
	assert.Equal(t, region.RegionNone, unknown.Region())
}

func TestActiveOn(t *testing.T) {
	today := timeutil.ISODate("2026-06-15")
	active := &Partner{Name: "A", SignDate: "2020-01-01"}
	expired := &Partner{Name: "B", SignDate: "2020-01-01", ExpiryDate: "2025-01-01"}
	unsigned := &Partner{Name: "C"}

	got := ActiveOn([]*Partner{expired, active, unsigned}, today)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)
}

func TestCountriesOf(t *testing.T) {
	partners := []*Partner{
		{Country: "Japan"},
		{Country: " japan "},
		{Country: "Thailand"},
		{Country: ""},
	}
	assert.Equal(t, []string{"Japan", "Thailand"}, CountriesOf(partners))
}
