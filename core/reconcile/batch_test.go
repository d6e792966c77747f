package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileBatch(t *testing.T) {
	rec := newFixtureReconciler(t)
	cached := NewCached(rec, NewMemoryCache(time.Hour), "gen-1", nil)

	items := []BatchItem{
		{ID: "a", Field: "Amsterdam, Netherlands", Type: "placeAccess"},
		{ID: "b", Atoms: []string{"Amsterdam", "Netherlands"}},
		{ID: "c", Field: "Smith, John", Type: "subjectAccess"},
		{ID: "d", Field: "Amsterdam", Type: "persName"},
		{ID: "e", Atoms: []string{"Utrecht", "Berlin"}},
	}

	result, err := ReconcileBatch(context.Background(), cached, items, Options{Strategy: StrategyAncestorCount})
	require.NoError(t, err)
	require.Len(t, result.Results, len(items))

	for i, item := range items {
		assert.Equal(t, item.ID, result.Results[i].ID)
	}

	assert.Equal(t, []string{"http://sws.geonames.org/2759794/"}, result.Results[0].Places)
	assert.Equal(t, result.Results[0].Places, result.Results[1].Places)
	assert.Empty(t, result.Results[2].Places)
	assert.NotNil(t, result.Results[2].Places)
	assert.True(t, result.Results[3].Skipped)
	assert.Len(t, result.Results[4].Places, 2)

	assert.Equal(t, BatchSummary{
		Total:     5,
		Matched:   2,
		Ambiguous: 1,
		Unmatched: 1,
		Skipped:   1,
		CacheHits: result.Summary.CacheHits,
	}, result.Summary)
}

func TestReconcileBatch_Cancelled(t *testing.T) {
	rec := newFixtureReconciler(t)
	cached := NewCached(rec, NewMemoryCache(time.Hour), "gen-1", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReconcileBatch(ctx, cached, []BatchItem{{ID: "a", Atoms: []string{"Amsterdam"}}}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
