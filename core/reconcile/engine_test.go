package reconcile

import (
	"math/rand"
	"testing"

	"georecon/core/gazetteer"
	"georecon/core/gazetteer/gazetteertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixtureReconciler(t *testing.T) *Reconciler {
	t.Helper()
	return New(gazetteertest.NewIndex(t), DefaultRules())
}

func ids(nodes []*gazetteer.Node) []int64 {
	out := make([]int64, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestReconcile_EmptyInput(t *testing.T) {
	rec := newFixtureReconciler(t)

	for _, s := range Strategies {
		t.Run(string(s), func(t *testing.T) {
			assert.Empty(t, rec.Reconcile(nil, Options{Strategy: s}))
			assert.Empty(t, rec.Reconcile([]string{}, Options{Strategy: s}))
			// everything filtered
			assert.Empty(t, rec.Reconcile([]string{"EHRI", "unknown", "Smith, John", " -- "}, Options{Strategy: s}))
			// nothing in the index
			assert.Empty(t, rec.Reconcile([]string{"Atlantis", "El Dorado"}, Options{Strategy: s}))
		})
	}
}

func TestReconcile_Shallow(t *testing.T) {
	rec := newFixtureReconciler(t)
	opts := Options{Strategy: StrategyShallow}

	tests := []struct {
		name     string
		atoms    []string
		expected []int64
	}{
		{
			name:     "Siblings diverge below the country",
			atoms:    []string{"Amsterdam", "Utrecht", "Groningen"},
			expected: []int64{gazetteertest.NetherlandsID},
		},
		{
			name:     "Single atom",
			atoms:    []string{"Amsterdam"},
			expected: []int64{gazetteertest.AmsterdamID},
		},
		{
			name:     "Lineage prefix yields the shared ancestor",
			atoms:    []string{"Amsterdam", "Netherlands"},
			expected: []int64{gazetteertest.NetherlandsID},
		},
		{
			name:     "Same branch",
			atoms:    []string{"Amsterdam", "Amstel"},
			expected: []int64{gazetteertest.NoordHollandID},
		},
		{
			name:     "Different countries meet at the continent",
			atoms:    []string{"Amsterdam", "Berlin"},
			expected: []int64{gazetteertest.EuropeID},
		},
		{
			name:     "Unknown atoms are ignored",
			atoms:    []string{"Atlantis", "Utrecht"},
			expected: []int64{gazetteertest.UtrechtID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(rec.Reconcile(tt.atoms, opts)))
		})
	}
}

func TestReconcile_ShallowNeverReturnsRoot(t *testing.T) {
	records := []gazetteer.Record{
		{ID: 1, PrimaryName: "Earth", Category: gazetteer.CategoryArea},
		{ID: 2, PrimaryName: "Ruritania", Category: gazetteer.CategoryCountry, ParentID: ptr(1)},
		{ID: 3, PrimaryName: "Freedonia", Category: gazetteer.CategoryCountry, ParentID: ptr(1)},
	}
	index, _, err := gazetteer.Build(records, gazetteer.BuildOptions{})
	require.NoError(t, err)
	rec := New(index, DefaultRules())

	assert.Empty(t, rec.Reconcile([]string{"Ruritania", "Freedonia"}, Options{Strategy: StrategyShallow}))
	assert.Empty(t, rec.Reconcile([]string{"Ruritania", "Freedonia"}, Options{Strategy: StrategyDeep}))
}

func TestReconcile_AncestorCount(t *testing.T) {
	rec := newFixtureReconciler(t)

	tests := []struct {
		name     string
		atoms    []string
		keep     bool
		expected []int64
	}{
		{
			name:     "Most specific node",
			atoms:    []string{"Amsterdam", "Noord-Holland", "Netherlands"},
			expected: []int64{gazetteertest.AmsterdamID},
		},
		{
			name:  "Keep ancestors",
			atoms: []string{"Amsterdam", "Noord-Holland", "Netherlands"},
			keep:  true,
			expected: []int64{
				gazetteertest.NetherlandsID,
				gazetteertest.AmsterdamID,
				gazetteertest.NoordHollandID,
			},
		},
		{
			name:     "Context disambiguates",
			atoms:    []string{"Limburg", "Belgium"},
			expected: []int64{gazetteertest.LimburgBEID},
		},
		{
			name:     "Without context the most relevant wins",
			atoms:    []string{"Limburg"},
			expected: []int64{gazetteertest.LimburgNLID},
		},
		{
			name:     "Unrelated atoms both contribute",
			atoms:    []string{"Utrecht", "Berlin"},
			expected: []int64{gazetteertest.BerlinID, gazetteertest.UtrechtID},
		},
		{
			name:     "Duplicate atoms",
			atoms:    []string{"Amsterdam", "amsterdam"},
			expected: []int64{gazetteertest.AmsterdamID},
		},
		{
			name:     "Country beats division on a shared name",
			atoms:    []string{"Holland"},
			expected: []int64{gazetteertest.NetherlandsID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rec.Reconcile(tt.atoms, Options{Strategy: StrategyAncestorCount, KeepAncestors: tt.keep})
			assert.Equal(t, tt.expected, ids(got))
		})
	}
}

func TestReconcile_AncestorCountPrunesAncestors(t *testing.T) {
	rec := newFixtureReconciler(t)
	inputs := [][]string{
		{"Amsterdam", "Noord-Holland", "Netherlands", "Utrecht"},
		{"Nieuwe Kerk", "Amsterdam", "Amstel", "Holland"},
		{"Berlin", "Germany", "Land Berlin", "Limburg", "Belgium"},
	}

	for _, atoms := range inputs {
		result := rec.Reconcile(atoms, Options{Strategy: StrategyAncestorCount})
		require.NotEmpty(t, result)
		for _, a := range result {
			for _, b := range result {
				assert.False(t, a.IsDescendantOf(b), "%v contains %d and its ancestor %d", atoms, a.ID, b.ID)
			}
		}
	}
}

func TestReconcile_Deep(t *testing.T) {
	rec := newFixtureReconciler(t)
	opts := Options{Strategy: StrategyDeep}

	tests := []struct {
		name     string
		atoms    []string
		expected []int64
	}{
		{
			name:     "Narrows to the most specific node",
			atoms:    []string{"Netherlands", "Noord-Holland", "Amsterdam"},
			expected: []int64{gazetteertest.AmsterdamID},
		},
		{
			name:     "Skips inconsistent anchor candidates",
			atoms:    []string{"Limburg", "Belgium"},
			expected: []int64{gazetteertest.LimburgBEID},
		},
		{
			name:     "Searches past the best match of other groups",
			atoms:    []string{"Belgium", "Limburg"},
			expected: []int64{gazetteertest.LimburgBEID},
		},
		{
			name:     "Picks the first comparable member",
			atoms:    []string{"Germany", "Berlin"},
			expected: []int64{gazetteertest.BerlinID},
		},
		{
			name:     "Falls back to shallow",
			atoms:    []string{"Amsterdam", "Limburg"},
			expected: []int64{gazetteertest.NetherlandsID},
		},
		{
			name:     "Single atom",
			atoms:    []string{"Amstel"},
			expected: []int64{gazetteertest.AmstelID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(rec.Reconcile(tt.atoms, opts)))
		})
	}
}

// deepWithinShallow reports whether deep's answer is at or below shallow's.
// It holds vacuously when either strategy finds nothing.
func deepWithinShallow(rec *Reconciler, atoms []string) (bool, []*gazetteer.Node, []*gazetteer.Node) {
	d := rec.Reconcile(atoms, Options{Strategy: StrategyDeep})
	s := rec.Reconcile(atoms, Options{Strategy: StrategyShallow})
	if len(d) == 0 || len(s) == 0 {
		return true, d, s
	}
	return d[0].ID == s[0].ID || d[0].IsDescendantOf(s[0]), d, s
}

func TestReconcile_DeepAtLeastAsSpecificAsShallow(t *testing.T) {
	rec := newFixtureReconciler(t)
	inputs := [][]string{
		{"Limburg", "Belgium"},
		{"Amsterdam", "Utrecht", "Groningen"},
		{"Netherlands", "Amsterdam"},
		{"Berlin", "Germany"},
		{"Amsterdam", "Limburg"},
		{"Nieuwe Kerk", "Holland"},
	}

	for _, atoms := range inputs {
		ok, d, s := deepWithinShallow(rec, atoms)
		require.NotEmpty(t, s, "%v", atoms)
		require.NotEmpty(t, d, "%v", atoms)
		assert.True(t, ok, "%v: deep %v is outside shallow %v", atoms, ids(d), ids(s))
	}
}

// twoCountryIndex holds Alpha and Beta as siblings in Yland and as a nested pair in Zland:
//
//	Earth
//	├── Yland: Alpha (P), Beta (P)
//	└── Zland: Alpha (A) ── Beta (P)
func twoCountryIndex(t *testing.T) *gazetteer.Index {
	t.Helper()
	id := func(v int64) *int64 { return &v }
	index, report, err := gazetteer.Build([]gazetteer.Record{
		{ID: 1, PrimaryName: "Earth", Category: gazetteer.CategoryArea},
		{ID: 10, PrimaryName: "Yland", Category: gazetteer.CategoryCountry, Population: 1000000, ParentID: id(1)},
		{ID: 11, PrimaryName: "Alpha", Category: gazetteer.CategoryPopulatedPlace, Population: 5000, ParentID: id(10)},
		{ID: 12, PrimaryName: "Beta", Category: gazetteer.CategoryPopulatedPlace, Population: 9000, ParentID: id(10)},
		{ID: 20, PrimaryName: "Zland", Category: gazetteer.CategoryCountry, Population: 500000, ParentID: id(1)},
		{ID: 21, PrimaryName: "Alpha", Category: gazetteer.CategoryAdminDivision, Population: 80000, ParentID: id(20)},
		{ID: 22, PrimaryName: "Beta", Category: gazetteer.CategoryPopulatedPlace, Population: 300, ParentID: id(21)},
	}, gazetteer.BuildOptions{})
	require.NoError(t, err)
	require.Empty(t, report.Skipped)
	return index
}

func TestReconcile_DeepStaysInsideShallowAnswer(t *testing.T) {
	rec := New(twoCountryIndex(t), DefaultRules())
	atoms := []string{"Alpha", "Beta"}

	assert.Equal(t, []int64{10}, ids(rec.Reconcile(atoms, Options{Strategy: StrategyShallow})))
	// The Zland chain Alpha > Beta is consistent but leaves Yland
	assert.Equal(t, []int64{10}, ids(rec.Reconcile(atoms, Options{Strategy: StrategyDeep})))

	// Once Zland is the shallow answer, the nested chain is accepted
	assert.Equal(t, []int64{22}, ids(rec.Reconcile([]string{"Zland", "Alpha", "Beta"}, Options{Strategy: StrategyDeep})))
}

// randomIndex builds a random tree of n nodes whose names come from a small pool,
// so that every name is ambiguous.
func randomIndex(t *testing.T, rnd *rand.Rand, n int, names []string) *gazetteer.Index {
	t.Helper()
	categories := []gazetteer.Category{
		gazetteer.CategoryCountry, gazetteer.CategoryPopulatedPlace,
		gazetteer.CategoryAdminDivision, gazetteer.CategoryChurch,
	}
	records := []gazetteer.Record{{ID: 1, PrimaryName: "Earth", Category: gazetteer.CategoryArea}}
	for i := 2; i <= n; i++ {
		parent := int64(rnd.Intn(i-1) + 1)
		records = append(records, gazetteer.Record{
			ID:          int64(i),
			PrimaryName: names[rnd.Intn(len(names))],
			Category:    categories[rnd.Intn(len(categories))],
			Population:  uint64(rnd.Intn(4)) * 1000,
			Lat:         rnd.Float64()*180 - 90,
			Lon:         rnd.Float64()*360 - 180,
			ParentID:    &parent,
		})
	}
	index, _, err := gazetteer.Build(records, gazetteer.BuildOptions{})
	require.NoError(t, err)
	return index
}

func TestReconcile_DeepWithinShallowOnRandomTrees(t *testing.T) {
	names := []string{"Alpha", "Beta", "Gamma", "Delta", "Omega"}
	rnd := rand.New(rand.NewSource(42))

	for round := 0; round < 500; round++ {
		rec := New(randomIndex(t, rnd, 30, names), DefaultRules())
		for q := 0; q < 5; q++ {
			atoms := make([]string, 2+rnd.Intn(2))
			for i := range atoms {
				atoms[i] = names[rnd.Intn(len(names))]
			}
			ok, d, s := deepWithinShallow(rec, atoms)
			if !assert.True(t, ok, "round %d %v: deep %v is outside shallow %v", round, atoms, ids(d), ids(s)) {
				return
			}
		}
	}
}

func TestReconcileField(t *testing.T) {
	rec := newFixtureReconciler(t)
	opts := Options{Strategy: StrategyAncestorCount}

	assert.Equal(t, []int64{gazetteertest.AmsterdamID}, ids(rec.ReconcileField("Amsterdam, Netherlands", opts)))
	assert.Empty(t, rec.ReconcileField("Smith, John", opts))
	assert.Empty(t, rec.ReconcileField("", opts))
	// exception word keeps the field out of the person filter
	assert.Equal(t, []int64{gazetteertest.GroningenID}, ids(rec.ReconcileField("Groningen, Jan", opts)))
}

func TestExplain(t *testing.T) {
	rec := newFixtureReconciler(t)
	traces := rec.Explain([]string{"USA", "EHRI", "Europe", "- Amsterdam", "various", "Kohn, Alfred"})
	require.Len(t, traces, 6)

	assert.Equal(t, DropNone, traces[0].Dropped)
	assert.Empty(t, traces[0].Candidates)

	assert.Equal(t, DropAcronym, traces[1].Dropped)

	assert.Equal(t, DropNone, traces[2].Dropped)
	assert.Empty(t, traces[2].Candidates)
	assert.Equal(t, 1, traces[2].Filtered)

	assert.Equal(t, "Amsterdam", traces[3].Text)
	assert.Equal(t, []int64{gazetteertest.AmsterdamID}, ids(traces[3].Candidates))

	assert.Equal(t, DropStopWord, traces[4].Dropped)
	assert.Equal(t, DropPerson, traces[5].Dropped)
}

func ptr(v int64) *int64 {
	return &v
}
