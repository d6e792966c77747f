package reconcile

import "strings"

// Preprocess runs one atom through the filtering pipeline: acronym, stop word,
// person name, then junk-prefix stripping.
func (r *Rules) Preprocess(raw string) Atom {
	atom := Atom{Raw: raw, Text: strings.TrimSpace(raw)}

	switch {
	case atom.Text == "":
		atom.Dropped = DropEmpty
	case r.IsAcronym(atom.Text):
		atom.Dropped = DropAcronym
	case r.IsStopWord(atom.Text):
		atom.Dropped = DropStopWord
	case r.IsPerson(atom.Text):
		atom.Dropped = DropPerson
	default:
		atom.Text = r.StripJunk(atom.Text)
		if atom.Text == "" {
			atom.Dropped = DropEmpty
		}
	}
	return atom
}

// PreprocessAll preprocesses every atom, keeping input order.
func (r *Rules) PreprocessAll(raw []string) []Atom {
	atoms := make([]Atom, len(raw))
	for i, s := range raw {
		atoms[i] = r.Preprocess(s)
	}
	return atoms
}

// SplitField splits a delimited access-point field into atoms.
func SplitField(field string) []string {
	if strings.TrimSpace(field) == "" {
		return nil
	}
	return strings.Split(field, ListSeparator)
}
