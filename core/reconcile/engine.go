package reconcile

import (
	"sort"

	"georecon/core/gazetteer"
)

// Reconciler resolves text atoms to gazetteer nodes. It holds no mutable state and
// is safe for concurrent use once constructed.
type Reconciler struct {
	index *gazetteer.Index
	rules *Rules
}

// New returns a Reconciler over index. A nil rules value selects DefaultRules.
func New(index *gazetteer.Index, rules *Rules) *Reconciler {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Reconciler{index: index, rules: rules}
}

// Index returns the underlying name index.
func (r *Reconciler) Index() *gazetteer.Index {
	return r.index
}

// Rules returns the reconciliation configuration.
func (r *Reconciler) Rules() *Rules {
	return r.rules
}

// Reconcile resolves atoms to zero or more nodes, most relevant first.
// No match is an empty result, never an error.
func (r *Reconciler) Reconcile(atoms []string, opts Options) []*gazetteer.Node {
	groups := r.candidateGroups(atoms)
	if len(groups) == 0 {
		return nil
	}

	switch opts.Strategy {
	case StrategyShallow:
		return shallow(groups)
	case StrategyDeep:
		return deep(groups)
	default:
		return ancestorCount(groups, opts.KeepAncestors)
	}
}

// ReconcileField resolves a raw access-point field. A field shaped like a person
// name yields nothing; otherwise the field is split on ListSeparator.
func (r *Reconciler) ReconcileField(field string, opts Options) []*gazetteer.Node {
	if r.rules.IsPerson(field) {
		return nil
	}
	return r.Reconcile(SplitField(field), opts)
}

// Explain reports the preprocessing outcome and the candidates of each atom.
func (r *Reconciler) Explain(atoms []string) []AtomTrace {
	traces := make([]AtomTrace, len(atoms))
	for i, raw := range atoms {
		atom := r.rules.Preprocess(raw)
		traces[i].Atom = atom
		if atom.Dropped != DropNone {
			continue
		}
		traces[i].Candidates, traces[i].Filtered = r.candidates(atom.Text)
	}
	return traces
}

// candidates returns the index matches for text minus stop categories, and the
// number of matches removed.
func (r *Reconciler) candidates(text string) ([]*gazetteer.Node, int) {
	matches := r.index.Lookup(text)
	kept := matches[:0:0]
	for _, m := range matches {
		if r.rules.IsStopCategory(m.Category) {
			continue
		}
		kept = append(kept, m)
	}
	return kept, len(matches) - len(kept)
}

// candidateGroups returns one relevance-ordered candidate list per surviving atom
// that has at least one candidate, in input order.
func (r *Reconciler) candidateGroups(atoms []string) [][]*gazetteer.Node {
	var groups [][]*gazetteer.Node
	for _, raw := range atoms {
		atom := r.rules.Preprocess(raw)
		if atom.Dropped != DropNone {
			continue
		}
		if cands, _ := r.candidates(atom.Text); len(cands) > 0 {
			groups = append(groups, cands)
		}
	}
	return groups
}

// sortByRelevance sorts nodes in place, most relevant first.
func sortByRelevance(nodes []*gazetteer.Node) {
	sort.Slice(nodes, func(i, j int) bool {
		return gazetteer.Compare(nodes[i], nodes[j]) < 0
	})
}
