package cmd

import (
	"context"
	"errors"
	"fmt"

	"georecon/core/config"
	"georecon/core/database"
	"georecon/core/ingest"
	"georecon/core/logger"
	"georecon/core/snapshot"
	"georecon/core/storage"
	"georecon/feature/places"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Index sources accepted by --from.
const (
	fromAuto     = "auto"
	fromFile     = "file"
	fromSnapshot = "snapshot"
	fromFeed     = "feed"
)

// env is the configuration and logger shared by every command.
type env struct {
	cfg *config.Config
	log *zap.Logger
}

func setup() (*env, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return &env{cfg: cfg, log: logg}, nil
}

func (e *env) store() (*snapshot.Store, error) {
	client, err := storage.NewClient(e.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return snapshot.NewStore(client, e.cfg.Storage.Bucket, e.cfg.Snapshot.Prefix), nil
}

func (e *env) database() (*gorm.DB, error) {
	db, err := database.Connect(e.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database connection required: %w", err)
	}
	return db, nil
}

func (e *env) feed() (*ingest.DBFeed, error) {
	db, err := e.database()
	if err != nil {
		return nil, err
	}
	return ingest.NewDBFeed(db, e.cfg.Ingest, e.log), nil
}

// source resolves --from and --file into an index source. Auto prefers a local
// snapshot file and otherwise reads the newest snapshot from storage.
func (e *env) source(from, file string) (places.Source, error) {
	if file == "" {
		file = e.cfg.Snapshot.File
	}
	if from == fromAuto || from == "" {
		from = fromSnapshot
		if file != "" {
			from = fromFile
		}
	}

	switch from {
	case fromFile:
		if file == "" {
			return nil, errors.New("file source needs --file or SNAPSHOT_FILE")
		}
		return places.FileSource{Path: file}, nil
	case fromSnapshot:
		store, err := e.store()
		if err != nil {
			return nil, err
		}
		return places.StoreSource{Store: store}, nil
	case fromFeed:
		feed, err := e.feed()
		if err != nil {
			return nil, err
		}
		return places.FeedSource{Feed: feed, Logger: e.log}, nil
	}
	return nil, fmt.Errorf("unknown index source %q (want auto, file, snapshot or feed)", from)
}

// openService loads the index once and returns a service over it.
func (e *env) openService(ctx context.Context, from, file string) (*places.Service, error) {
	src, err := e.source(from, file)
	if err != nil {
		return nil, err
	}
	rules, err := config.LoadRules(e.cfg.Recon.RulesFile)
	if err != nil {
		return nil, err
	}

	service := places.NewService(src, rules, nil, e.log)
	if _, err := service.Reload(ctx); err != nil {
		return nil, err
	}
	return service, nil
}
