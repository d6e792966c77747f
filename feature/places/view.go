package places

import (
	"georecon/core/gazetteer"
)

// PlaceView is the JSON form of a place.
type PlaceView struct {
	ID         int64   `json:"id"`
	URI        string  `json:"uri"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Kind       string  `json:"kind"`
	Population uint64  `json:"population"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	// Lineage lists the primary names from the root down to the place.
	Lineage []string `json:"lineage"`
	// Names are the normalized names the place is indexed under (detail view only).
	Names []string `json:"names,omitempty"`
}

// NewPlaceView renders n.
func NewPlaceView(n *gazetteer.Node) PlaceView {
	chain := n.AncestorChain()
	lineage := make([]string, len(chain))
	for i, p := range chain {
		lineage[i] = p.Name
	}
	return PlaceView{
		ID:         n.ID,
		URI:        n.URI(),
		Name:       n.Name,
		Category:   n.Category.String(),
		Kind:       n.Category.Slug(),
		Population: n.Population,
		Latitude:   n.Lat,
		Longitude:  n.Lon,
		Lineage:    lineage,
	}
}

// NewPlaceViews renders nodes; the result is never nil.
func NewPlaceViews(nodes []*gazetteer.Node) []PlaceView {
	views := make([]PlaceView, len(nodes))
	for i, n := range nodes {
		views[i] = NewPlaceView(n)
	}
	return views
}

// TraceView is the JSON form of one explained atom.
type TraceView struct {
	Raw        string      `json:"raw"`
	Text       string      `json:"text"`
	Dropped    string      `json:"dropped,omitempty"`
	Filtered   int         `json:"filtered"`
	Candidates []PlaceView `json:"candidates"`
}
