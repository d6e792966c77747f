// Package integrity provides health checks of the infrastructure the gazetteer
// depends on.
//
// # Checks Provided
//
//   - Snapshot: the snapshot bucket exists and holds at least one snapshot; with
//     verify, the newest snapshot decodes and matches its metadata.
//   - Feed: the feed database carries the places and names tables with the
//     columns (and column types) the ingester reads.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/snapshot : Snapshot check (supports ?verify=true and ?fix=true).
//   - GET /integrity/feed : Feed schema check.
package integrity
