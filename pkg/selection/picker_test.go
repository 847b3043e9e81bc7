package selection

import (
	"strings"
	"testing"

	"github.com/veldhuizen/scopick/pkg/bus"
	"github.com/veldhuizen/scopick/pkg/catalog"
)

func i64(v int64) *int64 { return &v }

// demoTree builds a small category hierarchy with keys distinct from names:
//
//	Beverages(1)
//	├── Coffee(2)
//	│   ├── Espresso Beans(1001)
//	│   └── Filter Roast(1002)
//	└── Tea(3)
func demoTree() []catalog.Node {
	return []catalog.Node{
		&catalog.Category{CategoryID: i64(1), Name: "Beverages", AllowBranchSelect: true, Children: []*catalog.Category{
			{CategoryID: i64(2), Name: "Coffee", AllowBranchSelect: true, Children: []*catalog.Category{
				{ProductID: i64(1001), Name: "Espresso Beans"},
				{ProductID: i64(1002), Name: "Filter Roast"},
			}},
			{CategoryID: i64(3), Name: "Tea"},
		}},
	}
}

// nodeByName is a test convenience over the production first-match lookup.
func nodeByName(roots []catalog.Node, name string) catalog.Node {
	n := catalog.FindByName(roots, name)
	if n == nil {
		panic("test tree is missing " + name)
	}
	return n
}

// host stands in for the wizard model that owns a selected-names list.
type host struct {
	names []string
}

func (h *host) bind(p *Picker) {
	p.Bind(func(names []string) { h.names = names })
}

func newBoundPicker(roots []catalog.Node, names []string) (*Picker, *host) {
	p := New(Config{Kind: catalog.KindCategory, InitiallyExpanded: false})
	h := &host{names: names}
	h.bind(p)
	p.SetTree(roots, names)
	return p, h
}

func joined(names []string) string { return strings.Join(names, "|") }

// TestInboundSyncRebuildsMap verifies that list membership alone decides
// every node's checked state, keyed by display name.
func TestInboundSyncRebuildsMap(t *testing.T) {
	roots := demoTree()
	p, _ := newBoundPicker(roots, []string{"Coffee", "Tea", "Not In Tree"})

	wantSelected := map[string]bool{
		"Beverages":      false,
		"Coffee":         true,
		"Espresso Beans": false,
		"Filter Roast":   false,
		"Tea":            true,
	}
	for name, want := range wantSelected {
		if got := p.IsSelected(nodeByName(roots, name)); got != want {
			t.Errorf("IsSelected(%s) = %v, want %v", name, got, want)
		}
	}
	if p.AllSelected() {
		t.Error("AllSelected() = true with a partially selected tree")
	}
}

// TestSyncDropsStaleEntries rebuilds from scratch so entries from a previous
// list cannot survive.
func TestSyncDropsStaleEntries(t *testing.T) {
	roots := demoTree()
	p, _ := newBoundPicker(roots, []string{"Tea"})

	p.SyncNames([]string{"Coffee"})

	if p.IsSelected(nodeByName(roots, "Tea")) {
		t.Error("Tea stayed selected after a sync that dropped it")
	}
	if !p.IsSelected(nodeByName(roots, "Coffee")) {
		t.Error("Coffee not selected after sync")
	}
}

// TestToggleAppendsAndRemoves covers the outbound path: map write plus
// idempotent list add/remove in one step.
func TestToggleAppendsAndRemoves(t *testing.T) {
	roots := demoTree()
	p, h := newBoundPicker(roots, nil)
	tea := nodeByName(roots, "Tea")

	p.Toggle(tea)
	if !p.IsSelected(tea) {
		t.Error("Toggle did not select the node")
	}
	if joined(h.names) != "Tea" {
		t.Errorf("host list = %v, want [Tea]", h.names)
	}

	p.Toggle(tea)
	if p.IsSelected(tea) {
		t.Error("second Toggle did not deselect the node")
	}
	if len(h.names) != 0 {
		t.Errorf("host list = %v, want empty after deselect", h.names)
	}
}

// TestToggleIdempotence double-toggles against a busy list and expects the
// exact pre-toggle contents back.
func TestToggleIdempotence(t *testing.T) {
	roots := demoTree()
	start := []string{"Coffee", "Tea"}
	p, h := newBoundPicker(roots, start)

	esp := nodeByName(roots, "Espresso Beans")
	p.Toggle(esp)
	p.Toggle(esp)

	if joined(h.names) != joined(start) {
		t.Errorf("host list = %v, want %v restored", h.names, start)
	}
	if p.IsSelected(esp) {
		t.Error("map entry not restored by double toggle")
	}
}

// TestToggleWithoutMutatorIsVisualOnly: no bound setter means map-only
// updates and no propagation.
func TestToggleWithoutMutatorIsVisualOnly(t *testing.T) {
	roots := demoTree()
	p := New(Config{Kind: catalog.KindCategory})
	p.SetTree(roots, []string{"Tea"})

	coffee := nodeByName(roots, "Coffee")
	p.Toggle(coffee)

	if !p.IsSelected(coffee) {
		t.Error("local map update missing in visual-only mode")
	}
	// A re-sync from the unchanged external list wins over the local flip.
	p.SyncNames([]string{"Tea"})
	if p.IsSelected(coffee) {
		t.Error("visual-only toggle survived an inbound sync")
	}
}

// TestSelectAllRoundTrip exercises the aggregate toggle from empty: full
// traversal-order list, then back to empty.
func TestSelectAllRoundTrip(t *testing.T) {
	roots := demoTree()
	p, h := newBoundPicker(roots, nil)

	p.ToggleAll()
	want := []string{"Beverages", "Coffee", "Espresso Beans", "Filter Roast", "Tea"}
	if joined(h.names) != joined(want) {
		t.Errorf("host list = %v, want traversal order %v", h.names, want)
	}
	if !p.AllSelected() {
		t.Error("AllSelected() = false right after select-all")
	}

	p.ToggleAll()
	if len(h.names) != 0 {
		t.Errorf("host list = %v, want empty after clear-all", h.names)
	}
	if p.AllSelected() {
		t.Error("AllSelected() = true after clear-all")
	}
	for _, name := range want {
		if p.IsSelected(nodeByName(roots, name)) {
			t.Errorf("%s still selected after clear-all", name)
		}
	}
}

// TestSelectAllReplacesPartialList: turning the aggregate on replaces the
// list wholesale, including names the tree no longer contains.
func TestSelectAllReplacesPartialList(t *testing.T) {
	roots := demoTree()
	p, h := newBoundPicker(roots, []string{"Tea", "Ghost Name"})

	p.ToggleAll()

	if strings.Contains(joined(h.names), "Ghost") {
		t.Errorf("stale name survived select-all replace: %v", h.names)
	}
	if len(h.names) != 5 {
		t.Errorf("host list has %d names, want 5", len(h.names))
	}
}

// TestEmptyTreeAggregatesFalse: an empty tree must never read as fully
// selected.
func TestEmptyTreeAggregatesFalse(t *testing.T) {
	p, h := newBoundPicker(nil, []string{"Anything"})

	if p.AllSelected() {
		t.Error("AllSelected() = true for an empty tree")
	}
	p.ToggleAll()
	if p.AllSelected() {
		t.Error("AllSelected() = true after toggling an empty tree")
	}
	if len(h.names) != 0 {
		t.Errorf("select-all on an empty tree produced names: %v", h.names)
	}
}

// TestToggleLeavesMixedDepths selects exactly the leaves under a node and
// leaves every non-leaf map entry alone.
func TestToggleLeavesMixedDepths(t *testing.T) {
	roots := demoTree()
	p, h := newBoundPicker(roots, nil)
	bev := nodeByName(roots, "Beverages")

	p.ToggleLeaves(bev)

	for _, leaf := range []string{"Espresso Beans", "Filter Roast", "Tea"} {
		if !p.IsSelected(nodeByName(roots, leaf)) {
			t.Errorf("leaf %s not selected", leaf)
		}
	}
	for _, branch := range []string{"Beverages", "Coffee"} {
		if p.IsSelected(nodeByName(roots, branch)) {
			t.Errorf("non-leaf %s was selected by the leaves toggle", branch)
		}
	}
	want := []string{"Espresso Beans", "Filter Roast", "Tea"}
	if joined(h.names) != joined(want) {
		t.Errorf("host list = %v, want %v", h.names, want)
	}
	if !p.LeavesSelected(bev) {
		t.Error("LeavesSelected() = false after selecting all leaves")
	}
}

// TestToggleLeavesOnLeaf degenerates to a plain toggle.
func TestToggleLeavesOnLeaf(t *testing.T) {
	roots := demoTree()
	p, h := newBoundPicker(roots, nil)
	tea := nodeByName(roots, "Tea")

	p.ToggleLeaves(tea)

	if !p.IsSelected(tea) || joined(h.names) != "Tea" {
		t.Errorf("leaf toggle: selected=%v names=%v", p.IsSelected(tea), h.names)
	}
}

// TestToggleBranchSelectsWholeSubtree covers the branch toggle both ways
// and the BranchSelected predicate driving it.
func TestToggleBranchSelectsWholeSubtree(t *testing.T) {
	roots := demoTree()
	p, h := newBoundPicker(roots, nil)
	coffee := nodeByName(roots, "Coffee")

	p.ToggleBranch(coffee)

	if !p.BranchSelected(coffee) {
		t.Error("BranchSelected() = false after branch select")
	}
	want := []string{"Coffee", "Espresso Beans", "Filter Roast"}
	if joined(h.names) != joined(want) {
		t.Errorf("host list = %v, want %v", h.names, want)
	}
	if p.IsSelected(nodeByName(roots, "Tea")) {
		t.Error("branch toggle leaked outside the subtree")
	}

	p.ToggleBranch(coffee)
	if p.BranchSelected(coffee) {
		t.Error("BranchSelected() = true after branch deselect")
	}
	if len(h.names) != 0 {
		t.Errorf("host list = %v, want empty", h.names)
	}
}

// TestBranchThenLeavesInteraction pins the observed asymmetry: the leaves
// toggle removes only leaf names, so branch-selected ancestors stay in the
// list with their map entries untouched.
func TestBranchThenLeavesInteraction(t *testing.T) {
	a2a := &catalog.Category{Name: "A2a"}
	a2 := &catalog.Category{Name: "A2", Children: []*catalog.Category{a2a}}
	a1 := &catalog.Category{Name: "A1"}
	a := &catalog.Category{Name: "A", Children: []*catalog.Category{a1, a2}}
	roots := []catalog.Node{a}

	p, h := newBoundPicker(roots, nil)

	p.ToggleBranch(a)
	if joined(h.names) != joined([]string{"A", "A1", "A2", "A2a"}) {
		t.Fatalf("after branch select, host list = %v", h.names)
	}

	p.ToggleLeaves(a)
	if joined(h.names) != joined([]string{"A", "A2"}) {
		t.Errorf("after leaves toggle, host list = %v, want [A A2]", h.names)
	}
	if !p.IsSelected(a) || !p.IsSelected(a2) {
		t.Error("non-leaf map entries were disturbed by the leaves toggle")
	}
	if p.IsSelected(a1) || p.IsSelected(a2a) {
		t.Error("leaves were not deselected")
	}
}

// TestBridgeDeselectIsMapOnly: the item event patches the map and never
// writes the host list, even when the name is not in the list at all.
func TestBridgeDeselectIsMapOnly(t *testing.T) {
	roots := demoTree()
	b := bus.New()
	p, h := newBoundPicker(roots, []string{"Coffee"})
	p.Attach(b)

	b.PublishItemToggled(bus.ItemToggled{Kind: catalog.KindCategory, Name: "Coffee", Selected: false})

	if p.IsSelected(nodeByName(roots, "Coffee")) {
		t.Error("bridge deselect did not clear the map entry")
	}
	if joined(h.names) != "Coffee" {
		t.Errorf("bridge event wrote the host list: %v", h.names)
	}

	// Name absent from the host list: still a map-only clear.
	p.SyncNames([]string{})
	p.Toggle(nodeByName(roots, "Tea"))
	h.names = nil // host forgets without telling the picker
	b.PublishItemToggled(bus.ItemToggled{Kind: catalog.KindCategory, Name: "Tea", Selected: false})
	if p.IsSelected(nodeByName(roots, "Tea")) {
		t.Error("bridge deselect of a list-absent item left the map entry set")
	}
}

// TestBridgeIgnoresOtherKinds: a geography event must not touch a category
// picker.
func TestBridgeIgnoresOtherKinds(t *testing.T) {
	roots := demoTree()
	b := bus.New()
	p, _ := newBoundPicker(roots, []string{"Coffee"})
	p.Attach(b)

	b.PublishItemToggled(bus.ItemToggled{Kind: catalog.KindGeography, Name: "Coffee", Selected: false})

	if !p.IsSelected(nodeByName(roots, "Coffee")) {
		t.Error("picker applied an event addressed to another kind")
	}
}

// TestBridgeUnknownNameIsNoop: names filtered out of the current tree are
// silently ignored.
func TestBridgeUnknownNameIsNoop(t *testing.T) {
	roots := demoTree()
	b := bus.New()
	p, _ := newBoundPicker(roots, []string{"Coffee"})
	p.Attach(b)

	b.PublishItemToggled(bus.ItemToggled{Kind: catalog.KindCategory, Name: "No Such Node", Selected: false})

	if !p.IsSelected(nodeByName(roots, "Coffee")) {
		t.Error("unknown-name event disturbed unrelated state")
	}
}

// TestBridgeClearAllResetsMapOnly empties the selection map and aggregate
// but leaves expansion state alone.
func TestBridgeClearAllResetsMapOnly(t *testing.T) {
	roots := demoTree()
	b := bus.New()
	p, _ := newBoundPicker(roots, nil)
	p.Attach(b)

	p.ToggleAll()
	bev := nodeByName(roots, "Beverages")
	p.ToggleExpand(bev) // expansion state that must survive
	wasExpanded := p.IsExpanded(bev)

	b.PublishSelectionCleared(bus.SelectionCleared{Kind: catalog.KindCategory})

	if p.AllSelected() {
		t.Error("aggregate flag survived a bridge clear")
	}
	for _, name := range []string{"Beverages", "Coffee", "Tea"} {
		if p.IsSelected(nodeByName(roots, name)) {
			t.Errorf("%s still selected after bridge clear", name)
		}
	}
	if p.IsExpanded(bev) != wasExpanded {
		t.Error("bridge clear disturbed expansion state")
	}
}

// TestExpansionDefaults: roots come up expanded or collapsed per the
// configured default, before any interaction, and deep nodes inherit the
// default lazily.
func TestExpansionDefaults(t *testing.T) {
	for _, initially := range []bool{true, false} {
		roots := demoTree()
		p := New(Config{Kind: catalog.KindCategory, InitiallyExpanded: initially})
		p.SetTree(roots, nil)

		if got := p.IsExpanded(nodeByName(roots, "Beverages")); got != initially {
			t.Errorf("initiallyExpanded=%v: root IsExpanded() = %v", initially, got)
		}
		if got := p.IsExpanded(nodeByName(roots, "Coffee")); got != initially {
			t.Errorf("initiallyExpanded=%v: deep node IsExpanded() = %v", initially, got)
		}
	}
}

// TestSearchForcesExpansion: during a search every node with children is
// open regardless of the default; leaves are not touched.
func TestSearchForcesExpansion(t *testing.T) {
	roots := demoTree()
	p := New(Config{Kind: catalog.KindCategory, InitiallyExpanded: false})
	p.SetTree(roots, nil)

	p.SetSearching(true)

	for _, name := range []string{"Beverages", "Coffee"} {
		if !p.IsExpanded(nodeByName(roots, name)) {
			t.Errorf("%s not forced open during search", name)
		}
	}
	if p.IsExpanded(nodeByName(roots, "Tea")) {
		t.Error("leaf picked up a forced-expansion entry")
	}
	if !p.Searching() {
		t.Error("Searching() = false after SetSearching(true)")
	}
}

// TestResetRebuildsExpansionForAllNodes drops manual and search-forced
// entries for every node, not just roots.
func TestResetRebuildsExpansionForAllNodes(t *testing.T) {
	roots := demoTree()
	p := New(Config{Kind: catalog.KindCategory, InitiallyExpanded: false})
	p.SetTree(roots, nil)

	p.SetSearching(true)
	p.SetSearching(false)
	p.ToggleExpand(nodeByName(roots, "Tea"))

	p.Reset()

	for _, name := range []string{"Beverages", "Coffee", "Tea"} {
		if p.IsExpanded(nodeByName(roots, name)) {
			t.Errorf("%s expanded after reset with a false default", name)
		}
	}
}

// TestSetTreeSeedsRootsWithoutDisturbing: re-installing a tree must not
// undo an explicit collapse on a root.
func TestSetTreeSeedsRootsWithoutDisturbing(t *testing.T) {
	roots := demoTree()
	p := New(Config{Kind: catalog.KindCategory, InitiallyExpanded: true})
	p.SetTree(roots, nil)

	bev := nodeByName(roots, "Beverages")
	p.ToggleExpand(bev) // user collapses the root

	p.SetTree(roots, nil) // e.g. a reload with the same content

	if p.IsExpanded(bev) {
		t.Error("SetTree reseeded an existing expansion entry")
	}
}

// TestToggleExpandFlipsFromDefault writes the negation of the lazy default
// on first use.
func TestToggleExpandFlipsFromDefault(t *testing.T) {
	roots := demoTree()
	p := New(Config{Kind: catalog.KindCategory, InitiallyExpanded: true})
	p.SetTree(roots, nil)

	coffee := nodeByName(roots, "Coffee") // no explicit entry yet
	p.ToggleExpand(coffee)
	if p.IsExpanded(coffee) {
		t.Error("ToggleExpand did not flip from the true default")
	}
	p.ToggleExpand(coffee)
	if !p.IsExpanded(coffee) {
		t.Error("second ToggleExpand did not flip back")
	}
}

// TestInboundSyncIdempotentAfterOutbound: re-running the sync against the
// list a toggle just produced must change nothing.
func TestInboundSyncIdempotentAfterOutbound(t *testing.T) {
	roots := demoTree()
	p, h := newBoundPicker(roots, []string{"Tea"})

	p.Toggle(nodeByName(roots, "Coffee"))
	listAfterToggle := append([]string(nil), h.names...)

	p.SyncNames(h.names)

	if joined(h.names) != joined(listAfterToggle) {
		t.Errorf("sync disturbed the host list: %v", h.names)
	}
	if !p.IsSelected(nodeByName(roots, "Coffee")) || !p.IsSelected(nodeByName(roots, "Tea")) {
		t.Error("sync disagreed with the outbound write it followed")
	}
}

// TestSetTreeWithFilteredRoots models a search handoff: a pruned tree keeps
// selection for surviving nodes and loses nothing in the host list.
func TestSetTreeWithFilteredRoots(t *testing.T) {
	roots := demoTree()
	p, h := newBoundPicker(roots, nil)
	p.Toggle(nodeByName(roots, "Tea"))
	p.Toggle(nodeByName(roots, "Coffee"))

	// Pruned copy containing only the Coffee branch.
	pruned := []catalog.Node{
		&catalog.Category{CategoryID: i64(1), Name: "Beverages", Children: []*catalog.Category{
			{CategoryID: i64(2), Name: "Coffee"},
		}},
	}
	p.SetSearching(true)
	p.SetTree(pruned, h.names)

	if !p.IsSelected(nodeByName(pruned, "Coffee")) {
		t.Error("selection lost for a node surviving the filter")
	}
	if joined(h.names) != joined([]string{"Tea", "Coffee"}) {
		t.Errorf("host list changed by a tree swap: %v", h.names)
	}
	if !p.IsExpanded(nodeByName(pruned, "Beverages")) {
		t.Error("filtered tree not force-expanded while searching")
	}
}
