package checks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"georecon/core/snapshot"

	"go.uber.org/zap"
)

// SnapshotReport describes the snapshots held in object storage.
type SnapshotReport struct {
	Bucket       string    `json:"bucket"`
	BucketExists bool      `json:"bucket_exists"`
	Snapshots    int       `json:"snapshots"`
	Latest       string    `json:"latest,omitempty"`
	LatestSize   int64     `json:"latest_size,omitempty"`
	LatestAt     time.Time `json:"latest_at,omitempty"`
	// Verified is set when the latest snapshot was downloaded and decoded.
	Verified   bool   `json:"verified"`
	Generation string `json:"generation,omitempty"`
	Nodes      int    `json:"nodes,omitempty"`
	Status     string `json:"status"` // "ok", "empty", "missing_bucket", "corrupt"
	Error      string `json:"error,omitempty"`
}

// CheckSnapshot inspects the snapshot store. With verify set, the latest snapshot
// is decoded and its node count compared with its metadata.
func CheckSnapshot(ctx context.Context, store *snapshot.Store, verify bool) (*SnapshotReport, error) {
	report := &SnapshotReport{Bucket: store.Bucket(), Status: "ok"}

	exists, err := store.BucketExists(ctx)
	if err != nil {
		return nil, err
	}
	report.BucketExists = exists
	if !exists {
		report.Status = "missing_bucket"
		return report, nil
	}

	names, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	report.Snapshots = len(names)
	if len(names) == 0 {
		report.Status = "empty"
		return report, nil
	}

	report.Latest = names[len(names)-1]
	info, err := store.Stat(ctx, report.Latest)
	if err != nil {
		return nil, err
	}
	report.LatestSize = info.Size
	report.LatestAt = info.LastModified

	if !verify {
		return report, nil
	}

	index, meta, err := store.LoadObject(ctx, report.Latest)
	if err != nil {
		if errors.Is(err, snapshot.ErrCorrupt) || errors.Is(err, snapshot.ErrBadMagic) || errors.Is(err, snapshot.ErrUnsupportedVersion) {
			report.Status = "corrupt"
			report.Error = err.Error()
			return report, nil
		}
		return nil, err
	}

	report.Verified = true
	report.Generation = meta.Generation
	report.Nodes = index.Tree().Len()
	if meta.Nodes != report.Nodes {
		report.Status = "corrupt"
		report.Error = fmt.Sprintf("metadata lists %d nodes, payload holds %d", meta.Nodes, report.Nodes)
	}
	return report, nil
}

// FixSnapshot creates the snapshot bucket when it is missing.
func FixSnapshot(ctx context.Context, store *snapshot.Store, logger *zap.Logger) error {
	if err := store.EnsureBucket(ctx); err != nil {
		logger.Error("Failed to create snapshot bucket", zap.String("bucket", store.Bucket()), zap.Error(err))
		return err
	}
	logger.Info("Snapshot bucket ready", zap.String("bucket", store.Bucket()))
	return nil
}
