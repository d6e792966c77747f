// Package gazetteer holds the place tree and the name index built over it.
//
// Places come from a geographic ontology (GeoNames) and form a strict tree: every
// place has exactly one parent except the root. Nodes live in an append-only arena
// owned by Tree and refer to their parent by arena slot, so the parent graph cannot
// form a cycle as long as records arrive parent-before-child.
//
// # Relevance
//
// Every candidate set handed out by the package is ranked with Compare, a strict
// total order over nodes:
//  1. Category rank (country, populated place, admin division, structures, landmarks)
//  2. Population, larger first
//  3. Haversine distance to the reference point, closer first
//  4. ID, ascending
//
// # Building
//
// A Builder consumes Records in parent-before-child order. Records that cannot be
// placed (unknown category, bad coordinates, unresolved parent) are skipped and
// reported; structural violations such as duplicate ids abort the build.
//
//	b := gazetteer.NewBuilder(gazetteer.BuildOptions{Logger: log})
//	for _, rec := range records {
//	    if err := b.Add(rec); err != nil {
//	        return err
//	    }
//	}
//	idx, report, err := b.Finish()
//
// Once built, an Index and its Tree are read-only and safe for concurrent use.
package gazetteer
