// Package database handles the connection to the gazetteer feed database and
// schema inspection.
//
// It wraps GORM to configure MySQL connections (production feed) and SQLite
// databases (local extracts, tests) from the application's configuration.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns back the feed integrity check: they verify
// that the tables named by the ingestion profile carry the expected columns
// before a build is attempted.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "places", []string{"id", "parent_id"})
package database
