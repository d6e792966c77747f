package reconcile

import (
	"fmt"
	"strings"

	"georecon/core/gazetteer"
)

// Strategy selects the disambiguation algorithm.
type Strategy string

const (
	// StrategyAncestorCount ranks each atom's candidates by how many other atoms
	// name one of their ancestors.
	StrategyAncestorCount Strategy = "ancestor-count"
	// StrategyShallow merges the lineages of every atom's best match.
	StrategyShallow Strategy = "shallow"
	// StrategyDeep searches for a chain of mutually comparable candidates,
	// falling back to StrategyShallow.
	StrategyDeep Strategy = "deep"
)

// Strategies lists every supported strategy.
var Strategies = []Strategy{StrategyAncestorCount, StrategyShallow, StrategyDeep}

// String returns the strategy name.
func (s Strategy) String() string {
	return string(s)
}

// ParseStrategy accepts a strategy name. The empty string selects StrategyAncestorCount.
func ParseStrategy(s string) (Strategy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return StrategyAncestorCount, nil
	case "ancestor-count", "ancestorcount", "ancestor_count":
		return StrategyAncestorCount, nil
	case string(StrategyShallow):
		return StrategyShallow, nil
	case string(StrategyDeep):
		return StrategyDeep, nil
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}

// Options controls a single reconciliation call.
type Options struct {
	// Strategy is the disambiguation algorithm. Empty means StrategyAncestorCount.
	Strategy Strategy `json:"strategy"`

	// KeepAncestors keeps result members that are ancestors of other members.
	// Only the ancestor-count strategy can return more than one node.
	KeepAncestors bool `json:"keep_ancestors"`
}

// DropReason explains why an atom never reached the index.
type DropReason string

const (
	// DropNone marks a surviving atom.
	DropNone DropReason = ""
	// DropAcronym marks an all-uppercase or digit token.
	DropAcronym DropReason = "acronym"
	// DropStopWord marks an atom whose normalized form is a stop word.
	DropStopWord DropReason = "stop_word"
	// DropPerson marks an atom shaped like "Surname, Given-name".
	DropPerson DropReason = "person"
	// DropEmpty marks an atom with nothing left after junk stripping.
	DropEmpty DropReason = "empty"
)

// Atom is one preprocessed text fragment.
type Atom struct {
	// Raw is the fragment as given.
	Raw string `json:"raw"`

	// Text is the fragment after trimming and junk-prefix stripping.
	Text string `json:"text"`

	// Dropped is set when the atom was filtered out.
	Dropped DropReason `json:"dropped,omitempty"`
}

// AtomTrace reports how a single atom was processed.
type AtomTrace struct {
	Atom

	// Candidates are the atom's index matches after stop-category filtering,
	// most relevant first.
	Candidates []*gazetteer.Node `json:"-"`

	// Filtered counts matches removed by the stop-category set.
	Filtered int `json:"filtered"`
}
