// Package ingest streams gazetteer records into gazetteer.Builder.
//
// DBFeed reads a relational dump of the gazetteer through GORM (MySQL in
// production, SQLite for local files and tests). The expected schema is
//
//	places(id, parent_id, name, feature_code, population, latitude, longitude)
//	place_names(place_id, name, kind)   -- kind "official" or anything else for alternate
//
// with exactly one row whose parent_id is NULL. Feature codes may carry the
// GeoNames ontology prefix. Migrate creates the tables from the Place and
// PlaceName models.
//
//	feed := ingest.NewDBFeed(db, cfg.Ingest, log)
//	index, report, err := ingest.Load(ctx, feed, gazetteer.BuildOptions{Logger: log})
package ingest
