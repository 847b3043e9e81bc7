// Package selection implements the headless engine behind scopick's tree
// pickers. One Picker instance owns the checked/expanded state for one
// catalog kind and keeps it reconciled with the host-owned list of selected
// display names: list membership drives the per-node booleans on every
// inbound sync, and every toggle writes the map and the list together on the
// way out.
//
// A Picker is not safe for concurrent use. It is designed to live inside a
// single Bubble Tea update loop, where every transition is synchronous with
// the triggering key press or bus event.
package selection

import (
	"github.com/veldhuizen/scopick/pkg/bus"
	"github.com/veldhuizen/scopick/pkg/catalog"
	"github.com/veldhuizen/scopick/pkg/metrics"
)

// Config is the static per-picker setup.
type Config struct {
	// Kind selects which bus events this picker applies.
	Kind catalog.Kind
	// InitiallyExpanded is the expansion default for keys that have never
	// been toggled: true renders the tree opened up, false collapsed.
	InitiallyExpanded bool
}

// Picker tracks selection and expansion for one tree.
//
// The selection map is authoritative for checkbox rendering; the host's
// names list is authoritative across re-syncs. The two stay consistent
// because outbound writes touch both in one step and inbound syncs rebuild
// the map wholesale from the list, so re-running a sync right after a toggle
// is a no-op.
type Picker struct {
	cfg   Config
	roots []catalog.Node

	selected map[string]bool
	expanded map[string]bool

	// names mirrors the host-owned list as of the last sync or outbound
	// write. apply pushes new list values back to the host; when nil the
	// picker is visual-only and list state never changes.
	names       []string
	apply       func(names []string)
	allSelected bool
	searching   bool
}

// New returns an empty picker. Call SetTree before using it.
func New(cfg Config) *Picker {
	return &Picker{
		cfg:      cfg,
		selected: make(map[string]bool),
		expanded: make(map[string]bool),
	}
}

// Kind returns the catalog kind this picker serves.
func (p *Picker) Kind() catalog.Kind { return p.cfg.Kind }

// Roots returns the current tree roots.
func (p *Picker) Roots() []catalog.Node { return p.roots }

// Bind supplies the mutator that writes the selected-names list back to the
// host. Without it the picker still updates its own maps but nothing
// propagates out.
func (p *Picker) Bind(apply func(names []string)) {
	p.apply = apply
}

// SetTree installs a new tree. Call it whenever the root slice identity
// changes: initial load, search filtering, catalog reload. Expansion
// defaults are seeded for the new roots without disturbing entries that
// already exist, then selection is rebuilt from names.
func (p *Picker) SetTree(roots []catalog.Node, names []string) {
	p.roots = roots
	for _, root := range roots {
		key := root.Key()
		if _, ok := p.expanded[key]; !ok {
			p.expanded[key] = p.cfg.InitiallyExpanded
		}
	}
	if p.searching {
		p.forceExpand()
	}
	p.SyncNames(names)
}

// SyncNames rebuilds the selection map from the host list: every node's
// entry becomes "is my display name in the list". Names with no matching
// node are ignored but stay in the list; map entries always get rewritten,
// so state from a previous list cannot linger. Costs O(tree size) every
// call; there is no incremental inbound path.
func (p *Picker) SyncNames(names []string) {
	defer metrics.Timer(metrics.SelectionSync)()

	p.names = append([]string(nil), names...)

	inList := make(map[string]bool, len(names))
	for _, name := range names {
		inList[name] = true
	}

	p.selected = make(map[string]bool)
	all := true
	count := 0
	catalog.Walk(p.roots, func(n catalog.Node) {
		sel := inList[n.DisplayName()]
		p.selected[n.Key()] = sel
		if !sel {
			all = false
		}
		count++
	})
	p.allSelected = all && count > 0
}

// SetSearching flags an active search. While on, every node that has
// children is forced open so no match hides inside a collapsed branch; the
// forced entries persist after the search ends until the next Reset.
func (p *Picker) SetSearching(active bool) {
	p.searching = active
	if active {
		p.forceExpand()
	}
}

// Searching reports whether search mode is on.
func (p *Picker) Searching() bool { return p.searching }

func (p *Picker) forceExpand() {
	catalog.Walk(p.roots, func(n catalog.Node) {
		if len(n.ChildNodes()) > 0 {
			p.expanded[n.Key()] = true
		}
	})
}

// Reset rebuilds the expansion map from the configured default for every
// node in the current tree, dropping all manual and search-forced state.
// Hosts call it when a search is cleared.
func (p *Picker) Reset() {
	p.expanded = make(map[string]bool)
	catalog.Walk(p.roots, func(n catalog.Node) {
		p.expanded[n.Key()] = p.cfg.InitiallyExpanded
	})
}

// IsExpanded reports whether the node is open. Keys never seen default to
// the configured initial state.
func (p *Picker) IsExpanded(n catalog.Node) bool {
	if v, ok := p.expanded[n.Key()]; ok {
		return v
	}
	return p.cfg.InitiallyExpanded
}

// ToggleExpand flips the node's open state.
func (p *Picker) ToggleExpand(n catalog.Node) {
	p.expanded[n.Key()] = !p.IsExpanded(n)
}

// IsSelected reports the node's own checked state.
func (p *Picker) IsSelected(n catalog.Node) bool {
	return p.selected[n.Key()]
}

// BranchSelected reports whether the node and every descendant are checked.
// Drives the branch-toggle state.
func (p *Picker) BranchSelected(n catalog.Node) bool {
	if !p.selected[n.Key()] {
		return false
	}
	for _, ch := range n.ChildNodes() {
		if !p.BranchSelected(ch) {
			return false
		}
	}
	return true
}

// LeavesSelected reports whether every leaf under the node is checked. For
// a leaf it is the node's own state. Drives the leaves-toggle state.
func (p *Picker) LeavesSelected(n catalog.Node) bool {
	kids := n.ChildNodes()
	if len(kids) == 0 {
		return p.selected[n.Key()]
	}
	for _, ch := range kids {
		if !p.LeavesSelected(ch) {
			return false
		}
	}
	return true
}

// AllSelected reports the aggregate flag: every node in the current tree is
// in the host list. Always false for an empty tree.
func (p *Picker) AllSelected() bool { return p.allSelected }

// Toggle flips one node's checked state and reconciles the host list:
// checked appends the name if absent, unchecked removes every occurrence.
func (p *Picker) Toggle(n catalog.Node) {
	key := n.Key()
	next := !p.selected[key]
	p.selected[key] = next
	if next {
		p.pushNames(addName(p.names, n.DisplayName()))
	} else {
		p.pushNames(removeName(p.names, n.DisplayName()))
	}
}

// ToggleAll selects every node in the tree, or clears everything when the
// aggregate flag is already on. Selecting replaces the host list with every
// display name in traversal order; clearing replaces it with an empty list
// and turns off only entries that already exist in the map.
func (p *Picker) ToggleAll() {
	if p.allSelected {
		for k := range p.selected {
			p.selected[k] = false
		}
		p.pushNames(nil)
		return
	}

	var names []string
	seen := make(map[string]bool)
	catalog.Walk(p.roots, func(n catalog.Node) {
		p.selected[n.Key()] = true
		name := n.DisplayName()
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	})
	p.pushNames(names)
}

// ToggleLeaves flips the checked state of every leaf under the node, leaving
// the map entries of the node itself and other non-leaf descendants alone.
// The new state is the negation of LeavesSelected. On a leaf it degenerates
// to a plain Toggle.
func (p *Picker) ToggleLeaves(n catalog.Node) {
	if len(n.ChildNodes()) == 0 {
		p.Toggle(n)
		return
	}

	next := !p.LeavesSelected(n)
	names := p.names
	catalog.Walk([]catalog.Node{n}, func(m catalog.Node) {
		if len(m.ChildNodes()) > 0 {
			return
		}
		p.selected[m.Key()] = next
		if next {
			names = addName(names, m.DisplayName())
		} else {
			names = removeName(names, m.DisplayName())
		}
	})
	p.pushNames(names)
}

// ToggleBranch flips the node and its entire subtree to the negation of
// BranchSelected, reconciling every affected name in traversal order.
func (p *Picker) ToggleBranch(n catalog.Node) {
	next := !p.BranchSelected(n)
	names := p.names
	catalog.Walk([]catalog.Node{n}, func(m catalog.Node) {
		p.selected[m.Key()] = next
		if next {
			names = addName(names, m.DisplayName())
		} else {
			names = removeName(names, m.DisplayName())
		}
	})
	p.pushNames(names)
}

// Attach subscribes the picker to the session bus. Events carrying another
// kind are ignored. Item events touch only the selection map: their sender
// owns the host list and has already updated it.
func (p *Picker) Attach(b *bus.Bus) {
	b.SubscribeItemToggled(func(ev bus.ItemToggled) {
		if ev.Kind != p.cfg.Kind {
			return
		}
		p.ApplyItemToggled(ev.Name, ev.Selected)
	})
	b.SubscribeSelectionCleared(func(ev bus.SelectionCleared) {
		if ev.Kind != p.cfg.Kind {
			return
		}
		p.ApplyCleared()
	})
}

// ApplyItemToggled sets the map entry of the first node whose display name
// matches, to the given state. Unknown names (typically filtered out by an
// active search) are a silent no-op. The host list is never written here;
// the mirror only follows the change the sender already made to it.
func (p *Picker) ApplyItemToggled(name string, selected bool) {
	if selected {
		p.names = addName(p.names, name)
	} else {
		p.names = removeName(p.names, name)
	}
	n := catalog.FindByName(p.roots, name)
	if n == nil {
		return
	}
	p.selected[n.Key()] = selected
}

// ApplyCleared empties the selection map and drops the aggregate flag.
// Expansion state is left alone and the host list is not written; the
// sender already cleared it, so the mirror follows.
func (p *Picker) ApplyCleared() {
	p.selected = make(map[string]bool)
	p.allSelected = false
	p.names = nil
}

// pushNames installs a new list value: mirror first, aggregate recompute,
// then the host mutator. Without a bound mutator the list logically never
// changed, so the mirror and aggregate stay as they were.
func (p *Picker) pushNames(names []string) {
	if p.apply == nil {
		return
	}
	p.names = names
	p.recomputeAllSelected()
	p.apply(append([]string(nil), names...))
}

func (p *Picker) recomputeAllSelected() {
	inList := make(map[string]bool, len(p.names))
	for _, name := range p.names {
		inList[name] = true
	}
	all := true
	count := 0
	catalog.Walk(p.roots, func(n catalog.Node) {
		if !inList[n.DisplayName()] {
			all = false
		}
		count++
	})
	p.allSelected = all && count > 0
}

// addName appends name unless it is already present.
func addName(names []string, name string) []string {
	for _, n := range names {
		if n == name {
			return names
		}
	}
	out := make([]string, 0, len(names)+1)
	out = append(out, names...)
	return append(out, name)
}

// removeName drops every occurrence of name.
func removeName(names []string, name string) []string {
	var out []string
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}
