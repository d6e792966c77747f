package gazetteer

import (
	"fmt"
	"strings"
)

// Category is the closed set of place classes kept in the gazetteer.
// The numeric order of the constants is the relevance rank: lower is more relevant.
type Category uint8

// Category values, most relevant first.
const (
	CategoryUnknown Category = iota
	// CategoryCountry is an independent political entity (A.PCL*).
	CategoryCountry
	// CategoryPopulatedPlace is a city, town or village (P.*).
	CategoryPopulatedPlace
	// CategoryAdminDivision is any other administrative division (A.*).
	CategoryAdminDivision
	CategoryAdminFacility
	CategoryBuilding
	CategoryChurch
	CategoryCemetery
	CategoryHistoricalSite
	CategoryMonument
	CategoryMuseum
	CategoryPrison
	CategoryRuin
	CategoryHydrographic
	CategoryArea
	CategoryRoad
	CategoryTerrain
	CategoryUndersea
	CategoryVegetation
)

// FeaturePrefix is prepended to feature codes in the GeoNames ontology.
const FeaturePrefix = "http://www.geonames.org/ontology#"

type categoryInfo struct {
	code string
	slug string
	rank int
}

// categoryTable is the rank table. Countries outrank populated places when
// population and distance are equal.
var categoryTable = [...]categoryInfo{
	CategoryUnknown:        {"", "unknown", 0},
	CategoryCountry:        {"A.PCL", "country", 1},
	CategoryPopulatedPlace: {"P", "populated-place", 2},
	CategoryAdminDivision:  {"A", "admin-division", 3},
	CategoryAdminFacility:  {"S.ADMF", "admin-facility", 4},
	CategoryBuilding:       {"S.BDG", "building", 5},
	CategoryChurch:         {"S.CH", "church", 6},
	CategoryCemetery:       {"S.CMTY", "cemetery", 7},
	CategoryHistoricalSite: {"S.HSTS", "historical-site", 8},
	CategoryMonument:       {"S.MNMT", "monument", 9},
	CategoryMuseum:         {"S.MUS", "museum", 10},
	CategoryPrison:         {"S.PRN", "prison", 11},
	CategoryRuin:           {"S.RUIN", "ruin", 12},
	CategoryHydrographic:   {"H", "hydrographic", 13},
	CategoryArea:           {"L", "area", 14},
	CategoryRoad:           {"R", "road", 15},
	CategoryTerrain:        {"T", "terrain", 16},
	CategoryUndersea:       {"U", "undersea", 17},
	CategoryVegetation:     {"V", "vegetation", 18},
}

// specificFeatures are matched before the feature classes, in this order.
var specificFeatures = []Category{
	CategoryCountry,
	CategoryAdminFacility,
	CategoryBuilding,
	CategoryChurch,
	CategoryCemetery,
	CategoryHistoricalSite,
	CategoryMonument,
	CategoryMuseum,
	CategoryPrison,
	CategoryRuin,
}

var featureClasses = []Category{
	CategoryAdminDivision,
	CategoryHydrographic,
	CategoryArea,
	CategoryPopulatedPlace,
	CategoryRoad,
	CategoryTerrain,
	CategoryUndersea,
	CategoryVegetation,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c > CategoryUnknown && int(c) < len(categoryTable)
}

// Rank returns the relevance rank of c; lower ranks are more relevant.
// Unknown categories rank after every known one.
func (c Category) Rank() int {
	if !c.Valid() {
		return len(categoryTable)
	}
	return categoryTable[c].rank
}

// String returns the GeoNames feature code (or class) of the category.
func (c Category) String() string {
	if !c.Valid() {
		return "unknown"
	}
	return categoryTable[c].code
}

// Slug returns a readable lowercase name for the category.
func (c Category) Slug() string {
	if !c.Valid() {
		return "unknown"
	}
	return categoryTable[c].slug
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory accepts a category code ("A.PCL", "S.CH", "H") or slug ("country").
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for i := range categoryTable {
		c := Category(i)
		if !c.Valid() {
			continue
		}
		if strings.EqualFold(s, categoryTable[i].code) || strings.EqualFold(s, categoryTable[i].slug) {
			return c, nil
		}
	}
	return CategoryUnknown, fmt.Errorf("unknown category %q", s)
}

// ClassifyFeature maps a GeoNames feature code such as "A.PCLI" or "P.PPLA2",
// optionally carrying the ontology prefix, to a Category.
// Codes outside the kept classes return CategoryUnknown.
func ClassifyFeature(feature string) Category {
	feature = strings.TrimPrefix(strings.TrimSpace(feature), FeaturePrefix)

	for _, c := range specificFeatures {
		if strings.HasPrefix(feature, categoryTable[c].code) {
			return c
		}
	}
	for _, c := range featureClasses {
		if strings.HasPrefix(feature, categoryTable[c].code+".") {
			return c
		}
	}
	return CategoryUnknown
}
