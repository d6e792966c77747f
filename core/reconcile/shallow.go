package reconcile

import "georecon/core/gazetteer"

// shallow merges the lineages of every group's best match and returns the most
// specific node common to all of them. The root is too generic to be an answer.
func shallow(groups [][]*gazetteer.Node) []*gazetteer.Node {
	if len(groups) == 0 {
		return nil
	}

	lineages := make([][]*gazetteer.Node, len(groups))
	for i, cands := range groups {
		lineages[i] = cands[0].AncestorChain()
	}

	var answer *gazetteer.Node
	for depth := 0; ; depth++ {
		var atDepth *gazetteer.Node
		agreed := true
		for _, lineage := range lineages {
			if depth >= len(lineage) {
				agreed = false
				break
			}
			if atDepth == nil {
				atDepth = lineage[depth]
			} else if atDepth.ID != lineage[depth].ID {
				agreed = false
				break
			}
		}
		if !agreed {
			break
		}
		answer = atDepth
	}

	if answer == nil || answer.IsRoot() {
		return nil
	}
	return []*gazetteer.Node{answer}
}
