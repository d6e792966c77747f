package gazetteer

import (
	"fmt"
	"strconv"
	"strings"
)

// URIPrefix and URISuffix frame the canonical identifier of a node.
const (
	URIPrefix = "http://sws.geonames.org/"
	URISuffix = "/"
)

// noParent marks the root slot.
const noParent int32 = -1

// Node is one place of the gazetteer. Nodes are created by a Builder and are
// immutable afterwards; the parent is held as an arena slot of the owning Tree.
type Node struct {
	// ID is the stable GeoNames identifier.
	ID int64
	// Name is the primary name, kept for display.
	Name string
	// Lat and Lon are WGS84 coordinates in degrees.
	Lat float64
	Lon float64
	// Population is 0 when unknown.
	Population uint64
	// Category is the ranked place class.
	Category Category

	parent  int32
	depth   int32
	refDist float64
	tree    *Tree
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node {
	if n.parent == noParent {
		return nil
	}
	return &n.tree.nodes[n.parent]
}

// IsRoot reports whether n is the root of its tree.
func (n *Node) IsRoot() bool {
	return n.parent == noParent
}

// Depth returns the number of hops from the root; the root has depth 0.
func (n *Node) Depth() int {
	return int(n.depth)
}

// IsDescendantOf reports whether other is a strict ancestor of n.
// A node is never its own descendant.
func (n *Node) IsDescendantOf(other *Node) bool {
	if other == nil || other.depth >= n.depth {
		return false
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.ID == other.ID {
			return true
		}
		if p.depth <= other.depth {
			return false
		}
	}
	return false
}

// Comparable reports whether n and other lie on one root path: equal, ancestor or descendant.
func (n *Node) Comparable(other *Node) bool {
	if other == nil {
		return false
	}
	return n.ID == other.ID || n.IsDescendantOf(other) || other.IsDescendantOf(n)
}

// AncestorChain returns the lineage of n: the nodes from the root down to n inclusive.
// Each call returns a fresh slice.
func (n *Node) AncestorChain() []*Node {
	chain := make([]*Node, n.depth+1)
	i := len(chain) - 1
	for p := n; p != nil; p = p.Parent() {
		chain[i] = p
		i--
	}
	return chain
}

// ClosestCommonAncestor returns the deepest node on both lineages. When one node is
// an ancestor of the other, that ancestor is returned. It returns nil for nodes of
// different trees.
func (n *Node) ClosestCommonAncestor(other *Node) *Node {
	if other == nil {
		return nil
	}
	mine := n.AncestorChain()
	theirs := other.AncestorChain()

	var common *Node
	for i := 0; i < len(mine) && i < len(theirs); i++ {
		if mine[i].ID != theirs[i].ID {
			break
		}
		common = mine[i]
	}
	return common
}

// DistanceTo returns the haversine distance in kilometers to the given point.
func (n *Node) DistanceTo(lat, lon float64) float64 {
	return Haversine(n.Lat, n.Lon, lat, lon)
}

// URI returns the canonical external identifier of the node.
func (n *Node) URI() string {
	return URIPrefix + strconv.FormatInt(n.ID, 10) + URISuffix
}

// LineageString renders the lineage one URI per line, indented by depth.
func (n *Node) LineageString() string {
	var b strings.Builder
	for i, p := range n.AncestorChain() {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat("  ", i))
		b.WriteString(p.URI())
	}
	return b.String()
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	return fmt.Sprintf("%s (%s, %s)", n.URI(), n.Name, n.Category)
}

// ParseURI extracts the id from a canonical node URI.
func ParseURI(uri string) (int64, error) {
	if !strings.HasPrefix(uri, URIPrefix) {
		return 0, fmt.Errorf("not a gazetteer uri: %q", uri)
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(uri, URIPrefix), URISuffix)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id in uri %q: %w", uri, err)
	}
	return id, nil
}

// Compare orders nodes by relevance and returns a negative number when a is more
// relevant than b. It is a strict total order: only nodes with equal ids compare 0.
func Compare(a, b *Node) int {
	if a.ID == b.ID {
		return 0
	}

	// Category rank first
	if ra, rb := a.Category.Rank(), b.Category.Rank(); ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	// Prefer more populated places
	if a.Population != b.Population {
		if a.Population > b.Population {
			return -1
		}
		return 1
	}

	// Prefer places closer to the reference point
	if a.refDist != b.refDist {
		if a.refDist < b.refDist {
			return -1
		}
		return 1
	}

	if a.ID < b.ID {
		return -1
	}
	return 1
}
