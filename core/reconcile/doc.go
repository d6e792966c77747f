// Package reconcile resolves noisy place-name mentions to gazetteer nodes.
//
// An access point such as "Amsterdam, Noord-Holland, Netherlands" is split into
// atoms. Every atom runs through one filtering pipeline before it reaches the
// name index:
//   - atoms matching the acronym pattern are dropped, except configured exceptions
//   - atoms whose normalized form is a stop word are dropped
//   - atoms shaped like "Surname, Given-name" are dropped
//   - the junk prefix is stripped
//
// Matches whose category is in the stop-category set never become candidates.
//
// # Strategies
//
// Three strategies share that pipeline:
//
//  1. Ancestor-count (default): each atom contributes its most relevant candidate
//     among those with the most ancestors named by other atoms. Contributions are
//     unioned; with KeepAncestors false only the most specific node of each branch
//     survives.
//
//  2. Shallow: the lineages of every atom's best match are merged and the most
//     specific node common to all of them is returned. The root is never returned.
//
//  3. Deep: the first atom's candidates are tried as anchors; every other atom must
//     offer a candidate on the same root path. The most specific node of such a
//     chain wins, provided it lies at or below the shallow answer. Without such a
//     chain, deep falls back to shallow.
//
// No match is always an empty result, never an error.
//
// # Caching
//
// Cached wraps a Reconciler with a ResultCache (MemoryCache or RedisCache). Keys
// include the index generation, so a reload never serves stale nodes, and
// concurrent misses for the same key are computed once.
//
// # Usage Example
//
//	rules, err := reconcile.NewRules(cfg)
//	rec := reconcile.New(index, rules)
//	nodes := rec.Reconcile([]string{"Amsterdam", "Netherlands"}, reconcile.Options{
//	    Strategy: reconcile.StrategyAncestorCount,
//	})
package reconcile
