package gazetteer

import "sort"

// Index maps normalized names to the ranked nodes registered under them.
// It is read-only once returned by Builder.Finish.
type Index struct {
	tree  *Tree
	names map[string][]int32
}

// Tree returns the tree the index was built over.
func (x *Index) Tree() *Tree {
	return x.tree
}

// Len returns the number of distinct normalized names.
func (x *Index) Len() int {
	return len(x.names)
}

// Lookup returns every node registered under the normalized form of name, most
// relevant first. It returns nil when the name is unknown.
func (x *Index) Lookup(name string) []*Node {
	slots := x.names[Normalize(name)]
	if len(slots) == 0 {
		return nil
	}
	nodes := make([]*Node, len(slots))
	for i, slot := range slots {
		nodes[i] = x.tree.node(slot)
	}
	return nodes
}

// BestMatch returns the most relevant node for name, or nil.
func (x *Index) BestMatch(name string) *Node {
	slots := x.names[Normalize(name)]
	if len(slots) == 0 {
		return nil
	}
	return x.tree.node(slots[0])
}

// NamesOf returns the normalized names a node is registered under, sorted.
func (x *Index) NamesOf(n *Node) []string {
	var names []string
	for name, slots := range x.names {
		for _, slot := range slots {
			if x.tree.node(slot).ID == n.ID {
				names = append(names, name)
				break
			}
		}
	}
	sort.Strings(names)
	return names
}

// Records exports the index as build records in parent-before-child order.
// Feeding them to a new Builder reproduces the same tree and name associations.
func (x *Index) Records() []Record {
	perSlot := make([][]string, x.tree.Len())
	for name, slots := range x.names {
		for _, slot := range slots {
			perSlot[slot] = append(perSlot[slot], name)
		}
	}

	records := make([]Record, 0, x.tree.Len())
	for i := range x.tree.nodes {
		n := &x.tree.nodes[i]
		names := perSlot[i]
		sort.Strings(names)

		rec := Record{
			ID:             n.ID,
			PrimaryName:    n.Name,
			AlternateNames: names,
			Category:       n.Category,
			Population:     n.Population,
			Lat:            n.Lat,
			Lon:            n.Lon,
		}
		if p := n.Parent(); p != nil {
			parentID := p.ID
			rec.ParentID = &parentID
		}
		records = append(records, rec)
	}
	return records
}

// register adds slot under the normalized name, ignoring empty names.
func (x *Index) register(slot int32, name string) {
	key := Normalize(name)
	if key == "" {
		return
	}
	x.names[key] = append(x.names[key], slot)
}

// rank sorts every name's slots by relevance and drops duplicates.
func (x *Index) rank() {
	for key, slots := range x.names {
		sort.Slice(slots, func(i, j int) bool {
			return Compare(x.tree.node(slots[i]), x.tree.node(slots[j])) < 0
		})
		out := slots[:0]
		for i, slot := range slots {
			if i > 0 && slots[i-1] == slot {
				continue
			}
			out = append(out, slot)
		}
		x.names[key] = out
	}
}
