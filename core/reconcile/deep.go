package reconcile

import "georecon/core/gazetteer"

// deep anchors on the first group and looks for a candidate that every other group
// can extend with a comparable member, narrowing to the most specific node on the
// way. A chain must end at or below the shallow answer when there is one; anchors
// whose chain leaves that subtree are skipped. Without such a chain deep returns
// the shallow answer.
func deep(groups [][]*gazetteer.Node) []*gazetteer.Node {
	if len(groups) == 0 {
		return nil
	}

	fallback := shallow(groups)
	anchor, rest := groups[0], groups[1:]
	for _, cand := range anchor {
		chosen, ok := chain(cand, rest)
		if !ok {
			continue
		}
		if len(fallback) > 0 && chosen.ID != fallback[0].ID && !chosen.IsDescendantOf(fallback[0]) {
			continue
		}
		if chosen.IsRoot() {
			return nil
		}
		return []*gazetteer.Node{chosen}
	}
	return fallback
}

// chain walks groups in order, narrowing chosen to the first comparable member of
// each group when that member is more specific.
func chain(chosen *gazetteer.Node, groups [][]*gazetteer.Node) (*gazetteer.Node, bool) {
	for _, group := range groups {
		var match *gazetteer.Node
		for _, m := range group {
			if m.Comparable(chosen) {
				match = m
				break
			}
		}
		if match == nil {
			return nil, false
		}
		if match.IsDescendantOf(chosen) {
			chosen = match
		}
	}
	return chosen, true
}
