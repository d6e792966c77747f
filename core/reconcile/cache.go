package reconcile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"sync"
	"time"

	"georecon/core/gazetteer"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ResultCache stores reconciliation results as node ids.
type ResultCache interface {
	// Get returns the cached ids for key and whether the key was present.
	Get(ctx context.Context, key string) ([]int64, bool, error)
	// Set stores ids under key.
	Set(ctx context.Context, key string, ids []int64) error
}

// cacheEntry is one cached result.
type cacheEntry struct {
	ids   []int64
	built time.Time
}

// MemoryCache is an in-process ResultCache with a fixed TTL.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache returns an empty cache. A zero TTL disables caching.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// isExpired returns true if the entry has outlived ttl.
func (c *MemoryCache) isExpired(e cacheEntry) bool {
	if c.ttl == 0 {
		return true // No caching
	}
	return c.now().Sub(e.built) > c.ttl
}

// Get implements ResultCache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]int64, bool, error) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists || c.isExpired(entry) {
		return nil, false, nil
	}
	return entry.ids, true, nil
}

// Set implements ResultCache.
func (c *MemoryCache) Set(_ context.Context, key string, ids []int64) error {
	if c.ttl == 0 {
		return nil
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{ids: ids, built: c.now()}
	c.mu.Unlock()
	return nil
}

// Purge removes expired entries and returns how many were removed.
func (c *MemoryCache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if c.isExpired(entry) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Cached wraps a Reconciler with a ResultCache. Concurrent misses for the same
// key are collapsed into one computation.
type Cached struct {
	rec        *Reconciler
	cache      ResultCache
	generation string
	log        *zap.Logger
	sf         singleflight.Group
}

// NewCached returns a caching Reconciler. generation identifies the index build
// so that results of an older index are never served after a reload.
func NewCached(rec *Reconciler, cache ResultCache, generation string, log *zap.Logger) *Cached {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cached{rec: rec, cache: cache, generation: generation, log: log}
}

// Reconciler returns the wrapped Reconciler.
func (c *Cached) Reconciler() *Reconciler {
	return c.rec
}

// Generation returns the index generation used in cache keys.
func (c *Cached) Generation() string {
	return c.generation
}

// Reconcile behaves like Reconciler.Reconcile and reports whether the result came
// from the cache. Cache failures are logged and the result is computed directly.
func (c *Cached) Reconcile(ctx context.Context, atoms []string, opts Options) ([]*gazetteer.Node, bool) {
	key := c.CacheKey(atoms, opts)

	// Fast path: cached ids
	ids, hit, err := c.cache.Get(ctx, key)
	if err != nil {
		c.log.Warn("Result cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		if nodes, ok := c.resolve(ids); ok {
			return nodes, true
		}
	}

	// Slow path: compute once per key
	result, _, _ := c.sf.Do(key, func() (interface{}, error) {
		nodes := c.rec.Reconcile(atoms, opts)
		if err := c.cache.Set(ctx, key, nodeIDs(nodes)); err != nil {
			c.log.Warn("Result cache write failed", zap.String("key", key), zap.Error(err))
		}
		return nodes, nil
	})
	return result.([]*gazetteer.Node), false
}

// CacheKey derives the cache key from the generation, the rules fingerprint, the
// options and the surviving atoms in normalized form.
func (c *Cached) CacheKey(atoms []string, opts Options) string {
	var b strings.Builder
	b.WriteString(c.generation)
	b.WriteByte('|')
	b.WriteString(c.rec.rules.Fingerprint())
	b.WriteByte('|')
	b.WriteString(string(opts.Strategy))
	b.WriteByte('|')
	b.WriteString(strconv.FormatBool(opts.KeepAncestors))
	for _, atom := range c.rec.rules.PreprocessAll(atoms) {
		if atom.Dropped != DropNone {
			continue
		}
		b.WriteByte('|')
		b.WriteString(gazetteer.Normalize(atom.Text))
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// resolve maps ids back to nodes; it fails if any id is unknown to the index.
func (c *Cached) resolve(ids []int64) ([]*gazetteer.Node, bool) {
	if len(ids) == 0 {
		return nil, true
	}
	nodes := make([]*gazetteer.Node, 0, len(ids))
	for _, id := range ids {
		n, ok := c.rec.index.Tree().Node(id)
		if !ok {
			return nil, false
		}
		nodes = append(nodes, n)
	}
	return nodes, true
}

func nodeIDs(nodes []*gazetteer.Node) []int64 {
	ids := make([]int64, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
