// Package catalog defines the two node shapes scopick selects over: product
// categories and geographies. Both hierarchies share one read-only Node view
// so the selection engine and the UI never branch on the concrete shape.
package catalog

import "strconv"

// Kind names one of the two catalog hierarchies.
type Kind string

const (
	KindCategory  Kind = "category"
	KindGeography Kind = "geography"
)

// String returns the kind's wire/display form.
func (k Kind) String() string { return string(k) }

// Match carries transient search annotations. The search filter writes these
// on its own pruned copies of a tree; everything else only reads them.
type Match struct {
	Query      string // active query at annotation time, empty when not searching
	Direct     bool   // node's own name matched
	Descendant bool   // some descendant's name matched
}

// Node is the read-only view shared by the selection engine and the UI.
// It is sealed: Category and Geography are the only implementations, so
// switching on the concrete type is exhaustive. Adding a third hierarchy
// means adding a third record here and nothing else.
type Node interface {
	// Key returns the node's identity, unique within one tree. Collisions
	// are a data-quality problem in the catalog and merge selection state
	// between the colliding nodes; the builder warns about them at load.
	Key() string
	// DisplayName returns the human-readable name. The externally-owned
	// selected-names lists carry these names, not keys.
	DisplayName() string
	// ChildNodes returns the ordered children. Empty means leaf.
	ChildNodes() []Node
	// CanSelectBranch reports whether the "select whole branch" operation
	// is offered for this node.
	CanSelectBranch() bool
	// MatchInfo returns the node's search annotations.
	MatchInfo() Match

	sealed()
}

// Category is one node of the product-category hierarchy. Identity is the
// first present of ProductID, CategoryID, else the display name.
type Category struct {
	ProductID         *int64
	CategoryID        *int64
	Name              string
	AllowBranchSelect bool
	Note              string // descriptive metadata, not consulted by the engine
	Children          []*Category

	Match Match
}

// Key implements Node.
func (c *Category) Key() string {
	switch {
	case c.ProductID != nil:
		return strconv.FormatInt(*c.ProductID, 10)
	case c.CategoryID != nil:
		return strconv.FormatInt(*c.CategoryID, 10)
	default:
		return c.Name
	}
}

// DisplayName implements Node.
func (c *Category) DisplayName() string { return c.Name }

// ChildNodes implements Node.
func (c *Category) ChildNodes() []Node {
	if len(c.Children) == 0 {
		return nil
	}
	out := make([]Node, len(c.Children))
	for i, ch := range c.Children {
		out[i] = ch
	}
	return out
}

// CanSelectBranch implements Node.
func (c *Category) CanSelectBranch() bool { return c.AllowBranchSelect }

// MatchInfo implements Node.
func (c *Category) MatchInfo() Match { return c.Match }

func (c *Category) sealed() {}

// Geography is one node of the geography hierarchy. Identity is GeoID when
// present, else the display name.
type Geography struct {
	GeoID             *int64
	Name              string
	AllowBranchSelect bool
	Note              string
	Children          []*Geography

	Match Match
}

// Key implements Node.
func (g *Geography) Key() string {
	if g.GeoID != nil {
		return strconv.FormatInt(*g.GeoID, 10)
	}
	return g.Name
}

// DisplayName implements Node.
func (g *Geography) DisplayName() string { return g.Name }

// ChildNodes implements Node.
func (g *Geography) ChildNodes() []Node {
	if len(g.Children) == 0 {
		return nil
	}
	out := make([]Node, len(g.Children))
	for i, ch := range g.Children {
		out[i] = ch
	}
	return out
}

// CanSelectBranch implements Node.
func (g *Geography) CanSelectBranch() bool { return g.AllowBranchSelect }

// MatchInfo implements Node.
func (g *Geography) MatchInfo() Match { return g.Match }

func (g *Geography) sealed() {}

// Catalog holds both hierarchies loaded from one source.
type Catalog struct {
	Source      string
	Categories  []*Category
	Geographies []*Geography
}

// CategoryNodes returns the category roots as Node values.
func (c *Catalog) CategoryNodes() []Node {
	out := make([]Node, len(c.Categories))
	for i, root := range c.Categories {
		out[i] = root
	}
	return out
}

// GeographyNodes returns the geography roots as Node values.
func (c *Catalog) GeographyNodes() []Node {
	out := make([]Node, len(c.Geographies))
	for i, root := range c.Geographies {
		out[i] = root
	}
	return out
}

// Roots returns the root nodes for the given kind.
func (c *Catalog) Roots(kind Kind) []Node {
	if kind == KindGeography {
		return c.GeographyNodes()
	}
	return c.CategoryNodes()
}

// Walk visits every node depth-first, parents before children, siblings in
// their original order. This is the traversal order the selection engine's
// list appends follow.
func Walk(roots []Node, visit func(Node)) {
	for _, n := range roots {
		walkNode(n, visit)
	}
}

func walkNode(n Node, visit func(Node)) {
	visit(n)
	for _, ch := range n.ChildNodes() {
		walkNode(ch, visit)
	}
}

// FindByName returns the first node whose display name equals name, in Walk
// order, or nil. With duplicate names "first encountered" is all callers get.
func FindByName(roots []Node, name string) Node {
	for _, n := range roots {
		if hit := findByName(n, name); hit != nil {
			return hit
		}
	}
	return nil
}

func findByName(n Node, name string) Node {
	if n.DisplayName() == name {
		return n
	}
	for _, ch := range n.ChildNodes() {
		if hit := findByName(ch, name); hit != nil {
			return hit
		}
	}
	return nil
}

// Names collects every display name in Walk order.
func Names(roots []Node) []string {
	var out []string
	Walk(roots, func(n Node) { out = append(out, n.DisplayName()) })
	return out
}

// CountNodes returns the number of nodes reachable from roots.
func CountNodes(roots []Node) int {
	count := 0
	Walk(roots, func(Node) { count++ })
	return count
}
