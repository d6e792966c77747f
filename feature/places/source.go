package places

import (
	"context"
	"fmt"
	"time"

	"georecon/core/gazetteer"
	"georecon/core/ingest"
	"georecon/core/snapshot"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Source produces a complete index on demand.
type Source interface {
	// Name describes the source in logs and reload responses.
	Name() string
	// Load returns a freshly built index and its metadata.
	Load(ctx context.Context) (*gazetteer.Index, snapshot.Meta, error)
}

// StoreSource loads the newest snapshot from object storage.
type StoreSource struct {
	Store *snapshot.Store
}

// Name implements Source.
func (s StoreSource) Name() string {
	return "snapshot:" + s.Store.Bucket()
}

// Load implements Source.
func (s StoreSource) Load(ctx context.Context) (*gazetteer.Index, snapshot.Meta, error) {
	index, meta, err := s.Store.Load(ctx)
	if err != nil {
		return nil, snapshot.Meta{}, err
	}
	return index, *meta, nil
}

// FileSource loads a snapshot file from local disk.
type FileSource struct {
	Path string
}

// Name implements Source.
func (s FileSource) Name() string {
	return "file:" + s.Path
}

// Load implements Source.
func (s FileSource) Load(ctx context.Context) (*gazetteer.Index, snapshot.Meta, error) {
	index, meta, err := snapshot.LoadFile(s.Path)
	if err != nil {
		return nil, snapshot.Meta{}, err
	}
	return index, *meta, nil
}

// FeedSource builds the index from an ingestion feed. Every load gets a new generation.
type FeedSource struct {
	Feed   ingest.Feed
	Logger *zap.Logger
}

// Name implements Source.
func (s FeedSource) Name() string {
	return "feed"
}

// Load implements Source.
func (s FeedSource) Load(ctx context.Context) (*gazetteer.Index, snapshot.Meta, error) {
	index, report, err := ingest.Load(ctx, s.Feed, gazetteer.BuildOptions{Logger: s.Logger})
	if err != nil {
		return nil, snapshot.Meta{}, fmt.Errorf("build index from feed: %w", err)
	}
	return index, snapshot.Meta{
		Generation: uuid.NewString(),
		Built:      time.Now().UTC(),
		Nodes:      report.Nodes,
		Names:      report.Names,
	}, nil
}
