// Package config provides configuration management for georecon.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of each
// section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, limits)
//   - Database: feed database connection (mysql or sqlite)
//   - Ingest: feed tables and the minimum population of kept villages
//   - Snapshot: snapshot prefix, retention and optional local file
//   - Storage: S3/MinIO credentials and bucket settings
//   - Recon: rules file and result cache
//   - Log: Logging level and format
//
// # Reconciliation Rules
//
// LoadRules reads a YAML (or JSON/TOML) rules file: stop words, stop categories,
// patterns and their exception lists. Keys absent from the file keep the built-in
// values of reconcile.DefaultRulesConfig.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rules, err := config.LoadRules(cfg.Recon.RulesFile)
package config
