package gazetteer

// Tree is the arena that owns every node of one gazetteer build.
// Slots are assigned in insertion order, so a parent always precedes its children.
type Tree struct {
	nodes []Node
	byID  map[int64]int32
}

func newTree() *Tree {
	return &Tree{byID: make(map[int64]int32)}
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Root returns the root node, or nil for an empty tree.
func (t *Tree) Root() *Node {
	if len(t.nodes) == 0 {
		return nil
	}
	return &t.nodes[0]
}

// Node returns the node with the given id.
func (t *Tree) Node(id int64) (*Node, bool) {
	slot, ok := t.byID[id]
	if !ok {
		return nil, false
	}
	return &t.nodes[slot], true
}

// Each calls fn for every node in parent-before-child order until fn returns false.
func (t *Tree) Each(fn func(*Node) bool) {
	for i := range t.nodes {
		if !fn(&t.nodes[i]) {
			return
		}
	}
}

// Children returns the direct children of n in slot order.
func (t *Tree) Children(n *Node) []*Node {
	slot, ok := t.byID[n.ID]
	if !ok {
		return nil
	}
	var children []*Node
	for i := int(slot) + 1; i < len(t.nodes); i++ {
		if t.nodes[i].parent == slot {
			children = append(children, &t.nodes[i])
		}
	}
	return children
}

func (t *Tree) node(slot int32) *Node {
	return &t.nodes[slot]
}
