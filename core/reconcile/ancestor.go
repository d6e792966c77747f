package reconcile

import "georecon/core/gazetteer"

// ancestorCount picks, per atom, the most relevant candidate among those with the
// most ancestors named by other atoms, and unions the picks.
func ancestorCount(groups [][]*gazetteer.Node, keepAncestors bool) []*gazetteer.Node {
	seen := make(map[int64]struct{}, len(groups))
	var result []*gazetteer.Node

	for i, cands := range groups {
		var best *gazetteer.Node
		bestCount := -1
		for _, cand := range cands {
			count := 0
			for j, other := range groups {
				if j != i && hasAncestorIn(cand, other) {
					count++
				}
			}
			// cands are relevance ordered, so only a strictly greater count replaces
			if count > bestCount {
				best, bestCount = cand, count
			}
		}
		if best == nil {
			continue
		}
		if _, dup := seen[best.ID]; dup {
			continue
		}
		seen[best.ID] = struct{}{}
		result = append(result, best)
	}

	if !keepAncestors {
		result = pruneAncestors(result)
	}
	sortByRelevance(result)
	return result
}

func hasAncestorIn(n *gazetteer.Node, group []*gazetteer.Node) bool {
	for _, g := range group {
		if n.IsDescendantOf(g) {
			return true
		}
	}
	return false
}

// pruneAncestors drops every member that is a strict ancestor of another member.
func pruneAncestors(nodes []*gazetteer.Node) []*gazetteer.Node {
	kept := nodes[:0:0]
	for _, n := range nodes {
		ancestor := false
		for _, m := range nodes {
			if m.IsDescendantOf(n) {
				ancestor = true
				break
			}
		}
		if !ancestor {
			kept = append(kept, n)
		}
	}
	return kept
}
