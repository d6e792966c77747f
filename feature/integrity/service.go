package integrity

import (
	"context"
	"errors"

	"georecon/core/ingest"
	"georecon/core/snapshot"
	"georecon/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoDatabase is returned by feed checks when no feed database is connected.
var ErrNoDatabase = errors.New("integrity: feed database not connected")

// Service handles integrity checks.
type Service struct {
	store  *snapshot.Store
	db     *gorm.DB
	ingest ingest.Config
	logger *zap.Logger
}

// NewService creates a new integrity service. db may be nil when the feed is not used.
func NewService(store *snapshot.Store, db *gorm.DB, cfg ingest.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		db:     db,
		ingest: cfg,
		logger: logger,
	}
}

// CheckSnapshot inspects the snapshot store.
func (s *Service) CheckSnapshot(ctx context.Context, verify bool) (*checks.SnapshotReport, error) {
	return checks.CheckSnapshot(ctx, s.store, verify)
}

// FixSnapshot creates the snapshot bucket.
func (s *Service) FixSnapshot(ctx context.Context) error {
	return checks.FixSnapshot(ctx, s.store, s.logger)
}

// CheckFeed verifies the feed schema.
func (s *Service) CheckFeed() (*checks.FeedReport, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	return checks.CheckFeed(s.db, s.ingest)
}

// FixFeed creates missing feed tables and columns.
func (s *Service) FixFeed() error {
	if s.db == nil {
		return ErrNoDatabase
	}
	return checks.FixFeed(s.db, s.ingest, s.logger)
}
