// Package gazetteertest provides small gazetteer fixtures for tests.
package gazetteertest

import (
	"testing"

	"georecon/core/gazetteer"

	"github.com/stretchr/testify/require"
)

// Fixture ids.
const (
	EarthID        int64 = 6295630
	EuropeID       int64 = 6255148
	NetherlandsID  int64 = 2750405
	NoordHollandID int64 = 2749879
	AmsterdamID    int64 = 2759794
	UtrechtID      int64 = 2745912
	GroningenID    int64 = 2755251
	GermanyID      int64 = 2921044
	BerlinStateID  int64 = 2950157
	BerlinID       int64 = 2950159
	LimburgNLID    int64 = 2751596
	LimburgBEID    int64 = 2792348
	BelgiumID      int64 = 2802361
	AmstelID       int64 = 2759799
	NieuweKerkID   int64 = 6942066
)

func parent(id int64) *int64 {
	return &id
}

// Netherlands returns a small tree:
//
//	Earth
//	  Europe
//	    Netherlands (country)
//	      Noord-Holland (division)
//	        Amsterdam (city)
//	          Nieuwe Kerk (church)
//	        Amstel (stream)
//	      Utrecht (division)
//	      Groningen (division)
//	      Limburg (division)
//	    Belgium (country)
//	      Limburg (division)
//	    Germany (country)
//	      Berlin (division)
//	        Berlin (city)
//
// Utrecht and Groningen carry a city-sized population so that they win name ties.
func Netherlands() []gazetteer.Record {
	return []gazetteer.Record{
		{ID: EarthID, PrimaryName: "Earth", Category: gazetteer.CategoryArea, Population: 6814400000, Lat: 0, Lon: 0},
		{ID: EuropeID, PrimaryName: "Europe", Category: gazetteer.CategoryArea, Population: 741000000,
			Lat: 48.69096, Lon: 9.14062, ParentID: parent(EarthID)},

		{ID: NetherlandsID, PrimaryName: "Netherlands", OfficialNames: []string{"Nederland", "Koninkrijk der Nederlanden"},
			AlternateNames: []string{"Holland", "Pays-Bas"}, Category: gazetteer.CategoryCountry,
			Population: 17231017, Lat: 52.25, Lon: 5.75, ParentID: parent(EuropeID)},
		{ID: NoordHollandID, PrimaryName: "Noord-Holland", AlternateNames: []string{"North Holland", "Holland"},
			Category: gazetteer.CategoryAdminDivision, Population: 2853359, Lat: 52.58333, Lon: 4.91667,
			ParentID: parent(NetherlandsID)},
		{ID: AmsterdamID, PrimaryName: "Amsterdam", AlternateNames: []string{"Amsterdão", "Ámsterdam"},
			Category: gazetteer.CategoryPopulatedPlace, Population: 741636, Lat: 52.37403, Lon: 4.88969,
			ParentID: parent(NoordHollandID)},
		{ID: NieuweKerkID, PrimaryName: "Nieuwe Kerk", Category: gazetteer.CategoryChurch,
			Lat: 52.37417, Lon: 4.89111, ParentID: parent(AmsterdamID)},
		{ID: AmstelID, PrimaryName: "Amstel", Category: gazetteer.CategoryHydrographic,
			Lat: 52.36667, Lon: 4.9, ParentID: parent(NoordHollandID)},
		{ID: UtrechtID, PrimaryName: "Utrecht", Category: gazetteer.CategoryAdminDivision,
			Population: 1302451, Lat: 52.08333, Lon: 5.16667, ParentID: parent(NetherlandsID)},
		{ID: GroningenID, PrimaryName: "Groningen", Category: gazetteer.CategoryAdminDivision,
			Population: 583990, Lat: 53.25, Lon: 6.75, ParentID: parent(NetherlandsID)},
		{ID: LimburgNLID, PrimaryName: "Limburg", Category: gazetteer.CategoryAdminDivision,
			Population: 1117201, Lat: 51.25, Lon: 6, ParentID: parent(NetherlandsID)},

		{ID: BelgiumID, PrimaryName: "Belgium", OfficialNames: []string{"België", "Belgique"},
			Category: gazetteer.CategoryCountry, Population: 11589623, Lat: 50.75, Lon: 4.5, ParentID: parent(EuropeID)},
		{ID: LimburgBEID, PrimaryName: "Limburg", Category: gazetteer.CategoryAdminDivision,
			Population: 860204, Lat: 51, Lon: 5.5, ParentID: parent(BelgiumID)},

		{ID: GermanyID, PrimaryName: "Germany", OfficialNames: []string{"Deutschland"},
			Category: gazetteer.CategoryCountry, Population: 82927922, Lat: 51.5, Lon: 10.5, ParentID: parent(EuropeID)},
		{ID: BerlinStateID, PrimaryName: "Berlin", AlternateNames: []string{"Land Berlin"},
			Category: gazetteer.CategoryAdminDivision, Population: 3426354, Lat: 52.5, Lon: 13.41667,
			ParentID: parent(GermanyID)},
		{ID: BerlinID, PrimaryName: "Berlin", Category: gazetteer.CategoryPopulatedPlace,
			Population: 3426354, Lat: 52.52437, Lon: 13.41053, ParentID: parent(BerlinStateID)},
	}
}

// NewIndex builds the Netherlands fixture and fails the test on any error.
func NewIndex(t testing.TB) *gazetteer.Index {
	t.Helper()
	index, report, err := gazetteer.Build(Netherlands(), gazetteer.BuildOptions{})
	require.NoError(t, err)
	require.Empty(t, report.Skipped)
	return index
}

// MustNode returns the node with the given id.
func MustNode(t testing.TB, index *gazetteer.Index, id int64) *gazetteer.Node {
	t.Helper()
	n, ok := index.Tree().Node(id)
	require.True(t, ok, "node %d not in fixture", id)
	return n
}
