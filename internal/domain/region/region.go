// Package region classifies partner-university countries into the coarse
// regions and finer sub-regions the dashboard reports on. The lookup tables
// are static and mirror the country names as they appear in the database,
// including common variants ("UK", "South Korea").
// This is a pure domain layer with zero external dependencies.
package region

import "strings"

// Region is one of the three coarse regions the dashboard breaks partners
// down by. The zero value RegionNone means the country is not in the tables.
type Region string

const (
	RegionNone        Region = ""
	RegionAsiaPacific Region = "Asia Pacific"
	RegionEurope      Region = "Europe"
	RegionAmericas    Region = "Americas"
)

// IsValid reports whether the region is one of the three known regions.
func (r Region) IsValid() bool {
	switch r {
	case RegionAsiaPacific, RegionEurope, RegionAmericas:
		return true
	default:
		return false
	}
}

// String returns the display name of the region.
func (r Region) String() string {
	return string(r)
}

// SubRegion is a finer geographic grouping. Sub-regions partition into
// exactly one parent region each.
type SubRegion string

const (
	SubRegionNone SubRegion = ""

	// Asia Pacific
	SubRegionASEAN     SubRegion = "asean"
	SubRegionEastAsia  SubRegion = "east_asia"
	SubRegionSouthAsia SubRegion = "south_asia"
	SubRegionOceania   SubRegion = "oceania"

	// Europe
	SubRegionWesternEurope  SubRegion = "western_europe"
	SubRegionNorthernEurope SubRegion = "northern_europe"
	SubRegionEasternEurope  SubRegion = "eastern_europe"
	SubRegionSouthernEurope SubRegion = "southern_europe"

	// Americas
	SubRegionNorthAmerica            SubRegion = "north_america"
	SubRegionCentralAmericaCaribbean SubRegion = "central_america_caribbean"
	SubRegionSouthAmerica            SubRegion = "south_america"
)

// Label returns the display label for the sub-region.
func (s SubRegion) Label() string {
	if l, ok := subRegionLabels[s]; ok {
		return l
	}
	return ""
}

// Parent returns the parent region of the sub-region.
func (s SubRegion) Parent() Region {
	if r, ok := subRegionParents[s]; ok {
		return r
	}
	return RegionNone
}

var subRegionLabels = map[SubRegion]string{
	SubRegionASEAN:                   "ASEAN",
	SubRegionEastAsia:                "East Asia",
	SubRegionSouthAsia:               "South Asia",
	SubRegionOceania:                 "Oceania",
	SubRegionWesternEurope:           "Western Europe",
	SubRegionNorthernEurope:          "Northern Europe",
	SubRegionEasternEurope:           "Eastern Europe",
	SubRegionSouthernEurope:          "Southern Europe",
	SubRegionNorthAmerica:            "North America",
	SubRegionCentralAmericaCaribbean: "Central America & Caribbean",
	SubRegionSouthAmerica:            "South America",
}

var subRegionParents = map[SubRegion]Region{
	SubRegionASEAN:                   RegionAsiaPacific,
	SubRegionEastAsia:                RegionAsiaPacific,
	SubRegionSouthAsia:               RegionAsiaPacific,
	SubRegionOceania:                 RegionAsiaPacific,
	SubRegionWesternEurope:           RegionEurope,
	SubRegionNorthernEurope:          RegionEurope,
	SubRegionEasternEurope:           RegionEurope,
	SubRegionSouthernEurope:          RegionEurope,
	SubRegionNorthAmerica:            RegionAmericas,
	SubRegionCentralAmericaCaribbean: RegionAmericas,
	SubRegionSouthAmerica:            RegionAmericas,
}

// SubRegionsOf returns the sub-regions of a region in display order.
func SubRegionsOf(r Region) []SubRegion {
	switch r {
	case RegionAsiaPacific:
		return []SubRegion{SubRegionASEAN, SubRegionEastAsia, SubRegionSouthAsia, SubRegionOceania}
	case RegionEurope:
		return []SubRegion{SubRegionWesternEurope, SubRegionNorthernEurope, SubRegionEasternEurope, SubRegionSouthernEurope}
	case RegionAmericas:
		return []SubRegion{SubRegionNorthAmerica, SubRegionCentralAmericaCaribbean, SubRegionSouthAmerica}
	default:
		return nil
	}
}

// Regions returns the three regions in display order.
func Regions() []Region {
	return []Region{RegionAsiaPacific, RegionEurope, RegionAmericas}
}

// ═══════════════════════════════════════════════════════════════════════════
// Country Tables
// ═══════════════════════════════════════════════════════════════════════════

// Country lists per sub-region, as the names appear in the partner records.
// Variants of the same country ("Laos"/"Lao PDR", "UK"/"United Kingdom")
// are listed individually so free-text entries still classify.
var subRegionCountries = map[SubRegion][]string{
	SubRegionASEAN: {
		"Brunei", "Cambodia", "Indonesia", "Lao PDR", "Laos", "Malaysia", "Myanmar",
		"Philippines", "Singapore", "Thailand", "Vietnam",
	},
	SubRegionEastAsia: {
		"Japan", "Korea", "South Korea", "Taiwan", "Hong Kong", "Macau", "China",
	},
	SubRegionSouthAsia: {
		"India", "Pakistan", "Bangladesh", "Sri Lanka", "Nepal", "Bhutan", "Maldives",
	},
	SubRegionOceania: {
		"Australia", "New Zealand", "Fiji", "Papua New Guinea", "Samoa", "Solomon Islands",
	},
	SubRegionWesternEurope: {
		"United Kingdom", "UK", "France", "Germany", "Belgium", "Netherlands", "Ireland",
		"Switzerland", "Austria", "Spain", "Portugal",
	},
	SubRegionNorthernEurope: {
		"Finland", "Sweden", "Norway", "Denmark", "Iceland", "Estonia", "Latvia", "Lithuania",
	},
	SubRegionEasternEurope: {
		"Georgia", "Poland", "Czech Republic", "Hungary", "Romania", "Bulgaria", "Ukraine", "Russia",
	},
	SubRegionSouthernEurope: {
		"Italy", "Greece", "Croatia", "Serbia", "Slovenia", "Malta", "Cyprus",
	},
	SubRegionNorthAmerica: {
		"USA", "United States", "Canada", "Mexico",
	},
	SubRegionCentralAmericaCaribbean: {
		"Jamaica", "Cuba", "Costa Rica", "Panama", "Guatemala", "Honduras", "El Salvador",
		"Nicaragua", "Belize", "Bahamas", "Dominican Republic", "Trinidad and Tobago",
		"Haiti", "Barbados",
	},
	SubRegionSouthAmerica: {
		"Brazil", "Argentina", "Chile", "Colombia", "Peru", "Venezuela", "Ecuador",
		"Bolivia", "Paraguay", "Uruguay", "Suriname", "Guyana",
	},
}

var (
	regionByCountry    = map[string]Region{}
	subRegionByCountry = map[string]SubRegion{}
)

func init() {
	for sub, countries := range subRegionCountries {
		parent := sub.Parent()
		for _, c := range countries {
			key := normalize(c)
			// First registration wins; a duplicated country must not
			// re-map or double-count.
			if _, exists := subRegionByCountry[key]; exists {
				continue
			}
			regionByCountry[key] = parent
			subRegionByCountry[key] = sub
		}
	}
}

func normalize(country string) string {
	return strings.ToLower(strings.TrimSpace(country))
}

// ═══════════════════════════════════════════════════════════════════════════
// Classification
// ═══════════════════════════════════════════════════════════════════════════

// ForCountry returns the region for a country name, or RegionNone when the
// country is not in the tables. Lookup trims and case-folds the input.
func ForCountry(country string) Region {
	if country == "" {
		return RegionNone
	}
	return regionByCountry[normalize(country)]
}

// SubRegionForCountry returns the sub-region for a country name, or
// SubRegionNone when the country is not in the tables.
func SubRegionForCountry(country string) SubRegion {
	if country == "" {
		return SubRegionNone
	}
	return subRegionByCountry[normalize(country)]
}

// CountriesIn returns the table's country names for a sub-region.
func CountriesIn(sub SubRegion) []string {
	countries := subRegionCountries[sub]
	out := make([]string, len(countries))
	copy(out, countries)
	return out
}
