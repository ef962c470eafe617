package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForCountry(t *testing.T) {
	tests := []struct {
		name    string
		country string
		want    Region
	}{
		{"asean member", "Philippines", RegionAsiaPacific},
		{"east asia member", "Japan", RegionAsiaPacific},
		{"south asia member", "India", RegionAsiaPacific},
		{"oceania member", "Australia", RegionAsiaPacific},
		{"western europe member", "Germany", RegionEurope},
		{"northern europe member", "Finland", RegionEurope},
		{"eastern europe member", "Poland", RegionEurope},
		{"southern europe member", "Italy", RegionEurope},
		{"north america member", "Canada", RegionAmericas},
		{"caribbean member", "Jamaica", RegionAmericas},
		{"south america member", "Brazil", RegionAmericas},
		{"unknown country", "Atlantis", RegionNone},
		{"empty", "", RegionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ForCountry(tt.country))
		})
	}
}

func TestForCountry_Normalization(t *testing.T) {
	assert.Equal(t, RegionAsiaPacific, ForCountry("  philippines  "))
	assert.Equal(t, RegionEurope, ForCountry("UNITED KINGDOM"))
	assert.Equal(t, RegionAmericas, ForCountry("usa"))
}

func TestForCountry_NameVariants(t *testing.T) {
	// Variants of the same country classify identically.
	assert.Equal(t, ForCountry("Laos"), ForCountry("Lao PDR"))
	assert.Equal(t, ForCountry("UK"), ForCountry("United Kingdom"))
	assert.Equal(t, ForCountry("USA"), ForCountry("United States"))
	assert.Equal(t, ForCountry("Korea"), ForCountry("South Korea"))
}

func TestSubRegionForCountry(t *testing.T) {
	assert.Equal(t, SubRegionASEAN, SubRegionForCountry("Vietnam"))
	assert.Equal(t, SubRegionEastAsia, SubRegionForCountry("Taiwan"))
	assert.Equal(t, SubRegionWesternEurope, SubRegionForCountry("Spain"))
	assert.Equal(t, SubRegionSouthAmerica, SubRegionForCountry("Chile"))
	assert.Equal(t, SubRegionNone, SubRegionForCountry("Mars"))
}

func TestSubRegion_Parent(t *testing.T) {
	for _, r := range Regions() {
		for _, sub := range SubRegionsOf(r) {
			assert.Equal(t, r, sub.Parent(), "sub-region %s", sub)
		}
	}
}

func TestSubRegion_Label(t *testing.T) {
	assert.Equal(t, "ASEAN", SubRegionASEAN.Label())
	assert.Equal(t, "Central America & Caribbean", SubRegionCentralAmericaCaribbean.Label())
	assert.Equal(t, "", SubRegionNone.Label())
}

func TestRegion_IsValid(t *testing.T) {
	assert.True(t, RegionAsiaPacific.IsValid())
	assert.True(t, RegionEurope.IsValid())
	assert.True(t, RegionAmericas.IsValid())
	assert.False(t, RegionNone.IsValid())
	assert.False(t, Region("Antarctica").IsValid())
}
