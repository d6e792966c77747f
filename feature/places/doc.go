// Package places is the HTTP feature serving the gazetteer: name lookup, place
// detail, single and batch reconciliation of access points, and hot reload.
//
// # Routes
//
//	POST /reconcile          {"atoms": [...]} or {"field": "...", "type": "placeAccess"}
//	POST /reconcile/batch    {"items": [{"id": "...", "field": "..."}], "strategy": "deep"}
//	GET  /places/lookup      ?name=Limburg
//	GET  /places/:id         GeoNames id
//	POST /places/reload      rebuild from the configured Source
//
// The Service keeps the loaded index behind an atomic pointer. A reload builds
// the replacement completely before swapping it in, so in-flight requests finish
// on the index they started with.
package places
