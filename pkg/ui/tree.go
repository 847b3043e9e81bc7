package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/veldhuizen/scopick/pkg/catalog"
	"github.com/veldhuizen/scopick/pkg/selection"
)

// treeRow is one visible line of the tree pane: a catalog node plus the
// ancestry info needed to draw branch characters without parent pointers.
type treeRow struct {
	Node  catalog.Node
	Depth int
	// Lasts records, per ancestor level including the node itself, whether
	// that level's node is the last among its siblings. Drives │ vs blank
	// continuation and ├── vs └── connectors.
	Lasts []bool
}

// TreeModel renders one catalog tree as a windowed, navigable pane. All
// selection and expansion state lives in the picker; the model only owns the
// cursor, the flattened row list, and the viewport window. Rebuild must be
// called after any picker mutation that can change which rows are visible.
type TreeModel struct {
	theme  Theme
	kind   catalog.Kind
	picker *selection.Picker

	roots          []catalog.Node
	flat           []treeRow
	cursor         int
	viewportOffset int
	width          int
	height         int
}

// NewTreeModel creates a tree pane bound to a picker. Call SetRoots before
// the first View.
func NewTreeModel(kind catalog.Kind, picker *selection.Picker, theme Theme) TreeModel {
	return TreeModel{
		theme:  theme,
		kind:   kind,
		picker: picker,
	}
}

// Kind returns the catalog kind this pane renders.
func (t *TreeModel) Kind() catalog.Kind { return t.kind }

// SetRoots installs the display roots (the full tree or a search-filtered
// subset) and rebuilds the visible rows. The cursor is clamped, not reset,
// so a reload keeps the user roughly where they were.
func (t *TreeModel) SetRoots(roots []catalog.Node) {
	t.roots = roots
	t.Rebuild()
}

// Roots returns the current display roots.
func (t *TreeModel) Roots() []catalog.Node { return t.roots }

// Rebuild re-flattens the tree from the picker's expansion state. Collapsed
// branches contribute only their head row.
func (t *TreeModel) Rebuild() {
	t.flat = t.flat[:0]
	for i, root := range t.roots {
		t.flatten(root, 0, nil, i == len(t.roots)-1)
	}
	if t.cursor >= len(t.flat) {
		t.cursor = len(t.flat) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.ensureCursorVisible()
}

func (t *TreeModel) flatten(n catalog.Node, depth int, lasts []bool, isLast bool) {
	rowLasts := make([]bool, len(lasts)+1)
	copy(rowLasts, lasts)
	rowLasts[len(lasts)] = isLast

	t.flat = append(t.flat, treeRow{Node: n, Depth: depth, Lasts: rowLasts})

	kids := n.ChildNodes()
	if len(kids) == 0 || !t.picker.IsExpanded(n) {
		return
	}
	for i, child := range kids {
		t.flatten(child, depth+1, rowLasts, i == len(kids)-1)
	}
}

// VisibleCount returns the number of flattened rows.
func (t *TreeModel) VisibleCount() int { return len(t.flat) }

// Cursor returns the current cursor index into the flattened rows.
func (t *TreeModel) Cursor() int { return t.cursor }

// CursorNode returns the node under the cursor, or nil when the tree is
// empty.
func (t *TreeModel) CursorNode() catalog.Node {
	if t.cursor < 0 || t.cursor >= len(t.flat) {
		return nil
	}
	return t.flat[t.cursor].Node
}

// SelectByKey moves the cursor to the row with the given node key, if that
// row is currently visible. Returns whether the key was found.
func (t *TreeModel) SelectByKey(key string) bool {
	for i, row := range t.flat {
		if row.Node.Key() == key {
			t.cursor = i
			t.ensureCursorVisible()
			return true
		}
	}
	return false
}

// ── Navigation ──

// MoveUp moves the cursor one row up.
func (t *TreeModel) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
		t.ensureCursorVisible()
	}
}

// MoveDown moves the cursor one row down.
func (t *TreeModel) MoveDown() {
	if t.cursor < len(t.flat)-1 {
		t.cursor++
		t.ensureCursorVisible()
	}
}

// GotoTop jumps to the first row.
func (t *TreeModel) GotoTop() {
	t.cursor = 0
	t.ensureCursorVisible()
}

// GotoBottom jumps to the last row.
func (t *TreeModel) GotoBottom() {
	if len(t.flat) > 0 {
		t.cursor = len(t.flat) - 1
	}
	t.ensureCursorVisible()
}

// HalfPageDown moves the cursor half a window down.
func (t *TreeModel) HalfPageDown() {
	step := t.rowWindow() / 2
	if step < 1 {
		step = 1
	}
	t.cursor += step
	if t.cursor > len(t.flat)-1 {
		t.cursor = len(t.flat) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.ensureCursorVisible()
}

// HalfPageUp moves the cursor half a window up.
func (t *TreeModel) HalfPageUp() {
	step := t.rowWindow() / 2
	if step < 1 {
		step = 1
	}
	t.cursor -= step
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.ensureCursorVisible()
}

// ExpandOrToggle handles enter/→ on the cursor node: parents flip their
// open state, leaves are a no-op (toggling selection is the space key's
// job).
func (t *TreeModel) ExpandOrToggle() {
	n := t.CursorNode()
	if n == nil || len(n.ChildNodes()) == 0 {
		return
	}
	t.picker.ToggleExpand(n)
	t.Rebuild()
}

// CollapseOrParent handles h/← on the cursor node: an open parent collapses;
// anything else jumps the cursor to its parent row.
func (t *TreeModel) CollapseOrParent() {
	n := t.CursorNode()
	if n == nil {
		return
	}
	if len(n.ChildNodes()) > 0 && t.picker.IsExpanded(n) {
		t.picker.ToggleExpand(n)
		t.Rebuild()
		return
	}
	t.gotoParent()
}

// gotoParent scans upward for the nearest row one level shallower.
func (t *TreeModel) gotoParent() {
	if t.cursor <= 0 || t.cursor >= len(t.flat) {
		return
	}
	depth := t.flat[t.cursor].Depth
	if depth == 0 {
		return
	}
	for i := t.cursor - 1; i >= 0; i-- {
		if t.flat[i].Depth < depth {
			t.cursor = i
			t.ensureCursorVisible()
			return
		}
	}
}

// ── Sizing and windowing ──

// SetSize updates the pane dimensions in cells.
func (t *TreeModel) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.ensureCursorVisible()
}

// rowWindow returns how many node rows fit in the pane, leaving one line for
// the position indicator when the tree overflows.
func (t *TreeModel) rowWindow() int {
	h := t.height
	if h <= 0 {
		h = 20
	}
	if len(t.flat) > h {
		h-- // position indicator line
	}
	if h < 1 {
		h = 1
	}
	return h
}

// visibleRange returns the half-open row window [start, end) for rendering.
func (t *TreeModel) visibleRange() (int, int) {
	window := t.rowWindow()
	start := t.viewportOffset
	if start > len(t.flat)-window {
		start = len(t.flat) - window
	}
	if start < 0 {
		start = 0
	}
	end := start + window
	if end > len(t.flat) {
		end = len(t.flat)
	}
	return start, end
}

// ensureCursorVisible scrolls the window so the cursor row stays inside it.
func (t *TreeModel) ensureCursorVisible() {
	window := t.rowWindow()
	if t.cursor < t.viewportOffset {
		t.viewportOffset = t.cursor
	}
	if t.cursor >= t.viewportOffset+window {
		t.viewportOffset = t.cursor - window + 1
	}
	if t.viewportOffset < 0 {
		t.viewportOffset = 0
	}
}

// ── Rendering ──

// View renders the windowed tree pane.
func (t *TreeModel) View() string {
	if len(t.flat) == 0 {
		return t.renderEmptyState()
	}

	start, end := t.visibleRange()

	var sb strings.Builder
	for i := start; i < end; i++ {
		sb.WriteString(t.renderRow(t.flat[i], i == t.cursor))
		sb.WriteString("\n")
	}

	if len(t.flat) > t.rowWindow() {
		sb.WriteString(t.renderPositionIndicator(start, end))
		sb.WriteString("\n")
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// renderRow renders a single node line:
// [tree-prefix] [expand] [checkbox] [name] [branch marker]
func (t *TreeModel) renderRow(row treeRow, isCursor bool) string {
	r := t.theme.Renderer
	width := t.width
	if width <= 0 {
		width = 80
	}
	// Reduce width by 1 to prevent terminal wrapping on the exact edge
	width = width - 1

	var left strings.Builder

	prefix := t.buildTreePrefix(row)
	left.WriteString(t.theme.MutedText.Render(prefix))
	prefixWidth := lipgloss.Width(prefix)

	indicator := t.expandIndicator(row.Node)
	left.WriteString(t.theme.SecondaryText.Render(indicator))
	left.WriteString(" ")

	box := "[ ]"
	boxStyle := t.theme.UncheckedBox
	if t.picker.IsSelected(row.Node) {
		box = "[x]"
		boxStyle = t.theme.CheckedBox
	}
	left.WriteString(boxStyle.Render(box))
	left.WriteString(" ")

	marker := ""
	markerWidth := 0
	if row.Node.CanSelectBranch() {
		marker = t.theme.BranchBadge.Render("≡")
		markerWidth = 2 // marker plus the joining space
	}

	// prefix + indicator(1) + space(1) + box(3) + space(1)
	fixedWidth := prefixWidth + 1 + 1 + 3 + 1

	nameWidth := width - fixedWidth - markerWidth
	if nameWidth < 5 {
		nameWidth = 5
	}
	name := truncateRunesHelper(row.Node.DisplayName(), nameWidth, "…")

	match := row.Node.MatchInfo()
	var nameStyle lipgloss.Style
	switch {
	case isCursor:
		nameStyle = t.theme.PrimaryBold
	case match.Direct:
		nameStyle = t.theme.HitText
	case match.Descendant:
		nameStyle = t.theme.PathText
	default:
		nameStyle = t.theme.Base
	}
	left.WriteString(nameStyle.Render(name))

	if marker != "" {
		left.WriteString(" ")
		left.WriteString(marker)
	}

	line := left.String()
	if isCursor {
		lineWidth := lipgloss.Width(line)
		if lineWidth < width {
			line += strings.Repeat(" ", width-lineWidth)
		}
	}

	rowStyle := r.NewStyle().MaxWidth(width)
	return rowStyle.Render(line)
}

// buildTreePrefix builds the indentation and branch characters for a row.
func (t *TreeModel) buildTreePrefix(row treeRow) string {
	if row.Depth == 0 {
		return ""
	}

	var parts []string
	// Continuation columns for every ancestor level above the immediate one.
	for i := 0; i < len(row.Lasts)-1; i++ {
		if row.Lasts[i] {
			parts = append(parts, "    ")
		} else {
			parts = append(parts, "│   ")
		}
	}
	if row.Lasts[len(row.Lasts)-1] {
		parts = append(parts, "└── ")
	} else {
		parts = append(parts, "├── ")
	}
	return strings.Join(parts, "")
}

// expandIndicator returns the expand/collapse indicator for a node.
func (t *TreeModel) expandIndicator(n catalog.Node) string {
	if len(n.ChildNodes()) == 0 {
		return "•"
	}
	if t.picker.IsExpanded(n) {
		return "▾"
	}
	return "▸"
}

// renderPositionIndicator renders the "Page X/Y (start-end of total)" line.
func (t *TreeModel) renderPositionIndicator(start, end int) string {
	window := t.rowWindow()
	page := start/window + 1
	pages := (len(t.flat) + window - 1) / window
	if pages < 1 {
		pages = 1
	}

	info := fmt.Sprintf("Page %d/%d (%d-%d of %d)", page, pages, start+1, end, len(t.flat))
	return t.theme.MutedText.Render(info)
}

func (t *TreeModel) renderEmptyState() string {
	var sb strings.Builder
	sb.WriteString("\n\n")
	sb.WriteString(t.theme.MutedText.Render(fmt.Sprintf("No %s entries to display.", t.kind)))
	sb.WriteString("\n\n")
	sb.WriteString(t.theme.MutedText.Render("The catalog may be empty, or the search filter matched nothing."))
	return sb.String()
}
