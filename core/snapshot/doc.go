// Package snapshot persists a built name index so that a service can load it
// wholesale instead of re-ingesting the gazetteer.
//
// # Format
//
// A snapshot is a 4-byte magic ("GZIX"), a big-endian uint16 format version and a
// zstd frame holding a gob payload: the Meta block followed by one record per node
// in parent-before-child order, each carrying every normalized name the node is
// registered under. Decoding feeds the records back through gazetteer.Builder, so
// a loaded index passes the same checks as a freshly built one.
//
// # Storage
//
// Store keeps versioned snapshots in a MinIO/S3 bucket. Load always picks the newest
// object; Prune removes superseded versions.
//
//	store := snapshot.NewStore(client, cfg.Storage.Bucket, cfg.Snapshot.Prefix)
//	name, err := store.Save(ctx, index, snapshot.Meta{Generation: gen})
//	index, meta, err := store.Load(ctx)
package snapshot
