package reconcile

import (
	"context"
	"runtime"

	"georecon/core/gazetteer"

	"golang.org/x/sync/errgroup"
)

// BatchItem is one access point of a batch request.
type BatchItem struct {
	// ID is a caller-chosen identifier echoed in the result.
	ID string `json:"id"`

	// Field is the raw delimited access-point field. Ignored when Atoms is set.
	Field string `json:"field,omitempty"`

	// Atoms are already split fragments.
	Atoms []string `json:"atoms,omitempty"`

	// Type is the access-point type, checked against the allowed types.
	Type string `json:"type,omitempty"`
}

// ItemResult is the outcome for one BatchItem.
type ItemResult struct {
	// ID echoes BatchItem.ID.
	ID string `json:"id"`

	// Places are the canonical URIs of the matched nodes.
	Places []string `json:"places"`

	// Skipped is set when the access-point type is not allowed.
	Skipped bool `json:"skipped,omitempty"`

	nodes []*gazetteer.Node
}

// Nodes returns the matched nodes.
func (r ItemResult) Nodes() []*gazetteer.Node {
	return r.nodes
}

// BatchSummary provides aggregate counts for a batch.
type BatchSummary struct {
	// Total is the number of items.
	Total int `json:"total"`

	// Matched counts items with exactly one result.
	Matched int `json:"matched"`

	// Ambiguous counts items with more than one result.
	Ambiguous int `json:"ambiguous"`

	// Unmatched counts reconciled items without a result.
	Unmatched int `json:"unmatched"`

	// Skipped counts items of a disallowed type.
	Skipped int `json:"skipped"`

	// CacheHits counts results served from the cache.
	CacheHits int `json:"cache_hits"`
}

// BatchResult contains per-item results and the summary.
type BatchResult struct {
	Results []ItemResult `json:"results"`
	Summary BatchSummary `json:"summary"`
}

// ReconcileBatch resolves every item concurrently. Results keep item order.
// It only fails when ctx is cancelled.
func ReconcileBatch(ctx context.Context, c *Cached, items []BatchItem, opts Options) (*BatchResult, error) {
	results := make([]ItemResult, len(items))
	hits := make([]bool, len(items))
	rules := c.Reconciler().Rules()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range items {
		item := items[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res := ItemResult{ID: item.ID, Places: []string{}}
			if !rules.TypeAllowed(item.Type) {
				res.Skipped = true
				results[i] = res
				return nil
			}

			atoms := item.Atoms
			if len(atoms) == 0 {
				if rules.IsPerson(item.Field) {
					results[i] = res
					return nil
				}
				atoms = SplitField(item.Field)
			}

			res.nodes, hits[i] = c.Reconcile(gctx, atoms, opts)
			for _, n := range res.nodes {
				res.Places = append(res.Places, n.URI())
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &BatchResult{Results: results, Summary: summarize(results, hits)}, nil
}

func summarize(results []ItemResult, hits []bool) BatchSummary {
	summary := BatchSummary{Total: len(results)}
	for i, res := range results {
		switch {
		case res.Skipped:
			summary.Skipped++
		case len(res.nodes) == 0:
			summary.Unmatched++
		case len(res.nodes) == 1:
			summary.Matched++
		default:
			summary.Ambiguous++
		}
		if hits[i] {
			summary.CacheHits++
		}
	}
	return summary
}
