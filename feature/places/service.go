package places

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"georecon/core/gazetteer"
	"georecon/core/metrics"
	"georecon/core/reconcile"
	"georecon/core/snapshot"

	"go.uber.org/zap"
)

var (
	// ErrNotLoaded is returned while no index has been loaded yet.
	ErrNotLoaded = errors.New("places: index not loaded")
	// ErrPlaceNotFound is returned for ids absent from the index.
	ErrPlaceNotFound = errors.New("places: place not found")
)

// State is one loaded index together with its reconciler.
type State struct {
	Index      *gazetteer.Index
	Reconciler *reconcile.Cached
	Meta       snapshot.Meta
	Source     string
	Loaded     time.Time
}

// Service serves lookups and reconciliation over the current index.
// Reload swaps the whole State in one store; readers never see a partial index.
type Service struct {
	source Source
	rules  *reconcile.Rules
	cache  reconcile.ResultCache
	logger *zap.Logger

	state    atomic.Pointer[State]
	reloadMu sync.Mutex
}

// NewService creates a places service. A nil cache disables result caching.
func NewService(source Source, rules *reconcile.Rules, cache reconcile.ResultCache, logger *zap.Logger) *Service {
	if rules == nil {
		rules = reconcile.DefaultRules()
	}
	if cache == nil {
		cache = reconcile.NewMemoryCache(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, rules: rules, cache: cache, logger: logger}
}

// Rules returns the reconciliation rules.
func (s *Service) Rules() *reconcile.Rules {
	return s.rules
}

// State returns the current state, or nil before the first load.
func (s *Service) State() *State {
	return s.state.Load()
}

// Reload builds a new index from the source and swaps it in.
// On failure the current index stays in service.
func (s *Service) Reload(ctx context.Context) (*State, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	index, meta, err := s.source.Load(ctx)
	if err != nil {
		metrics.IndexReloadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("reload from %s: %w", s.source.Name(), err)
	}

	st := s.Install(index, meta)
	metrics.IndexReloadsTotal.WithLabelValues("ok").Inc()
	s.logger.Info("Index loaded",
		zap.String("source", st.Source),
		zap.String("generation", meta.Generation),
		zap.Int("nodes", index.Tree().Len()),
		zap.Int("names", index.Len()),
		zap.Duration("took", time.Since(start)),
	)
	return st, nil
}

// Install puts an already built index in service.
func (s *Service) Install(index *gazetteer.Index, meta snapshot.Meta) *State {
	rec := reconcile.New(index, s.rules)
	st := &State{
		Index:      index,
		Reconciler: reconcile.NewCached(rec, s.cache, meta.Generation, s.logger),
		Meta:       meta,
		Source:     s.source.Name(),
		Loaded:     time.Now(),
	}
	s.state.Store(st)

	metrics.IndexNodes.Set(float64(index.Tree().Len()))
	metrics.IndexNames.Set(float64(index.Len()))
	return st
}

// Current returns the state in service, or ErrNotLoaded before the first load.
// A request that needs several reads should take one State and use it throughout,
// so that a concurrent reload cannot split it across two indexes.
func (s *Service) Current() (*State, error) {
	st := s.state.Load()
	if st == nil {
		return nil, ErrNotLoaded
	}
	return st, nil
}

// Reconcile resolves atoms against the current index. The bool reports a cache hit.
func (s *Service) Reconcile(ctx context.Context, atoms []string, opts reconcile.Options) ([]*gazetteer.Node, bool, error) {
	st, err := s.Current()
	if err != nil {
		return nil, false, err
	}
	nodes, hit := st.Reconcile(ctx, atoms, opts)
	return nodes, hit, nil
}

// ReconcileBatch resolves many access points concurrently.
func (s *Service) ReconcileBatch(ctx context.Context, items []reconcile.BatchItem, opts reconcile.Options) (*reconcile.BatchResult, error) {
	st, err := s.Current()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := reconcile.ReconcileBatch(ctx, st.Reconciler, items, opts)
	if err != nil {
		return nil, err
	}

	strategy := string(opts.Strategy)
	metrics.ReconcileRequestsTotal.WithLabelValues(strategy).Add(float64(len(items)))
	metrics.ReconcileDurationMs.WithLabelValues(strategy).Observe(float64(time.Since(start).Microseconds()) / 1000)
	metrics.ReconcileOutcomesTotal.WithLabelValues(metrics.OutcomeMatched).Add(float64(result.Summary.Matched))
	metrics.ReconcileOutcomesTotal.WithLabelValues(metrics.OutcomeAmbiguous).Add(float64(result.Summary.Ambiguous))
	metrics.ReconcileOutcomesTotal.WithLabelValues(metrics.OutcomeUnmatched).Add(float64(result.Summary.Unmatched))
	metrics.CacheHitsTotal.Add(float64(result.Summary.CacheHits))
	metrics.CacheMissesTotal.Add(float64(result.Summary.Total - result.Summary.Skipped - result.Summary.CacheHits))
	return result, nil
}

// Explain reports how each atom was preprocessed and which places it matched.
func (s *Service) Explain(atoms []string) ([]reconcile.AtomTrace, error) {
	st, err := s.Current()
	if err != nil {
		return nil, err
	}
	return st.Explain(atoms), nil
}

// Lookup returns every place registered under name, most relevant first.
func (s *Service) Lookup(name string) ([]*gazetteer.Node, error) {
	st, err := s.Current()
	if err != nil {
		return nil, err
	}
	return st.Lookup(name), nil
}

// Place returns the place with the given id.
func (s *Service) Place(id int64) (*gazetteer.Node, error) {
	st, err := s.Current()
	if err != nil {
		return nil, err
	}
	return st.Place(id)
}

// Reconcile resolves atoms against this state's index. The bool reports a cache hit.
func (st *State) Reconcile(ctx context.Context, atoms []string, opts reconcile.Options) ([]*gazetteer.Node, bool) {
	start := time.Now()
	nodes, hit := st.Reconciler.Reconcile(ctx, atoms, opts)
	observe(opts, start, len(nodes), hit)
	return nodes, hit
}

func (st *State) Explain(atoms []string) []reconcile.AtomTrace {
	return st.Reconciler.Reconciler().Explain(atoms)
}

func (st *State) Lookup(name string) []*gazetteer.Node {
	metrics.LookupsTotal.Inc()
	return st.Index.Lookup(name)
}

// Place returns the place with the given id, or ErrPlaceNotFound.
func (st *State) Place(id int64) (*gazetteer.Node, error) {
	n, ok := st.Index.Tree().Node(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrPlaceNotFound, id)
	}
	return n, nil
}

// NamesOf returns the normalized names of n in this state's index.
func (st *State) NamesOf(n *gazetteer.Node) []string {
	return st.Index.NamesOf(n)
}

func observe(opts reconcile.Options, start time.Time, places int, hit bool) {
	strategy := string(opts.Strategy)
	metrics.ReconcileRequestsTotal.WithLabelValues(strategy).Inc()
	metrics.ReconcileDurationMs.WithLabelValues(strategy).Observe(float64(time.Since(start).Microseconds()) / 1000)
	metrics.ReconcileOutcomesTotal.WithLabelValues(metrics.Outcome(places)).Inc()
	metrics.ObserveCache(hit)
}
