package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"georecon/core/gazetteer"
	"georecon/core/storage"

	"github.com/minio/minio-go/v7"
)

// Extension is appended to every snapshot object name.
const Extension = ".gzix"

// ErrNotFound is returned when the store holds no snapshot.
var ErrNotFound = errors.New("snapshot: not found")

// Store keeps versioned snapshots in object storage under one prefix.
// Object names sort chronologically, so the greatest name is the latest snapshot.
type Store struct {
	client storage.Client
	bucket string
	prefix string
}

// NewStore returns a Store writing to bucket under prefix.
func NewStore(client storage.Client, bucket, prefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Bucket returns the target bucket.
func (s *Store) Bucket() string {
	return s.bucket
}

// ObjectName returns the object name of the snapshot described by meta.
func (s *Store) ObjectName(meta Meta) string {
	name := meta.Built.UTC().Format("20060102T150405.000000000Z") + "-" + meta.Generation + Extension
	return path.Join(s.prefix, name)
}

// BucketExists reports whether the target bucket exists.
func (s *Store) BucketExists(ctx context.Context) (bool, error) {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return false, fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	return exists, nil
}

// EnsureBucket creates the bucket if it does not exist.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.BucketExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Save uploads index as a new snapshot and returns its object name.
func (s *Store) Save(ctx context.Context, index *gazetteer.Index, meta Meta) (string, error) {
	if meta.Built.IsZero() {
		meta.Built = time.Now()
	}

	var buf bytes.Buffer
	if err := Encode(&buf, index, meta); err != nil {
		return "", err
	}

	name := s.ObjectName(meta)
	_, err := s.client.PutObject(ctx, s.bucket, name, &buf, int64(buf.Len()), minio.PutObjectOptions{
		ContentType: "application/zstd",
	})
	if err != nil {
		return "", fmt.Errorf("upload snapshot %s: %w", name, err)
	}
	return name, nil
}

// List returns the snapshot object names, oldest first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	prefix := s.prefix
	if prefix != "" {
		prefix += "/"
	}

	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list snapshots: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, Extension) {
			names = append(names, obj.Key)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Latest returns the name of the newest snapshot.
func (s *Store) Latest(ctx context.Context) (string, error) {
	names, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", ErrNotFound
	}
	return names[len(names)-1], nil
}

// Stat returns the metadata of the named snapshot object.
func (s *Store) Stat(ctx context.Context, name string) (minio.ObjectInfo, error) {
	info, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		return minio.ObjectInfo{}, fmt.Errorf("stat snapshot %s: %w", name, err)
	}
	return info, nil
}

// Load downloads and decodes the newest snapshot.
func (s *Store) Load(ctx context.Context) (*gazetteer.Index, *Meta, error) {
	name, err := s.Latest(ctx)
	if err != nil {
		return nil, nil, err
	}
	return s.LoadObject(ctx, name)
}

// LoadObject downloads and decodes the named snapshot.
func (s *Store) LoadObject(ctx context.Context, name string) (*gazetteer.Index, *Meta, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("download snapshot %s: %w", name, err)
	}
	defer obj.Close()

	index, meta, err := Decode(obj)
	if err != nil {
		return nil, nil, fmt.Errorf("decode snapshot %s: %w", name, err)
	}
	return index, meta, nil
}

// Prune removes all but the newest keep snapshots and returns how many were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	names, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if keep < 1 {
		keep = 1
	}
	if len(names) <= keep {
		return 0, nil
	}
	stale := names[:len(names)-keep]

	objectsCh := make(chan minio.ObjectInfo, len(stale))
	for _, name := range stale {
		objectsCh <- minio.ObjectInfo{Key: name}
	}
	close(objectsCh)

	var errs []error
	for rerr := range s.client.RemoveObjects(ctx, s.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		errs = append(errs, fmt.Errorf("remove %s: %w", rerr.ObjectName, rerr.Err))
	}
	if len(errs) > 0 {
		return len(stale) - len(errs), errors.Join(errs...)
	}
	return len(stale), nil
}
