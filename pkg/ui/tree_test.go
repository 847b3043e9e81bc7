package ui

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/veldhuizen/scopick/pkg/catalog"
	"github.com/veldhuizen/scopick/pkg/selection"
	"github.com/veldhuizen/scopick/pkg/testutil"
)

// newCategoryTree builds a tree pane over the demo categories with the given
// expansion default and selected names.
func newCategoryTree(t *testing.T, expanded bool, names ...string) (TreeModel, *selection.Picker) {
	t.Helper()

	roots := testutil.DemoCatalog().CategoryNodes()
	picker := selection.New(selection.Config{
		Kind:              catalog.KindCategory,
		InitiallyExpanded: expanded,
	})
	picker.SetTree(roots, names)

	tree := NewTreeModel(catalog.KindCategory, picker, TestTheme())
	tree.SetRoots(roots)
	tree.SetSize(60, 24)
	return tree, picker
}

func cursorName(t *testing.T, tree *TreeModel) string {
	t.Helper()
	n := tree.CursorNode()
	if n == nil {
		t.Fatal("cursor has no node")
	}
	return n.DisplayName()
}

// TestFlattenRespectsExpansion verifies collapsed branches contribute only
// their head row and expanding reveals exactly one more level.
func TestFlattenRespectsExpansion(t *testing.T) {
	tree, _ := newCategoryTree(t, false)

	if tree.VisibleCount() != 3 {
		t.Fatalf("Collapsed tree shows %d rows, want 3 roots", tree.VisibleCount())
	}

	// Expand Beverages: its three departments appear, grandchildren stay
	// hidden behind their own collapsed heads.
	tree.ExpandOrToggle()
	if tree.VisibleCount() != 6 {
		t.Errorf("After expanding one root, %d rows visible, want 6", tree.VisibleCount())
	}

	tree.ExpandOrToggle()
	if tree.VisibleCount() != 3 {
		t.Errorf("Collapsing again leaves %d rows, want 3", tree.VisibleCount())
	}
}

// TestFullyExpandedRowCount verifies the expanded demo category tree
// flattens to every node.
func TestFullyExpandedRowCount(t *testing.T) {
	tree, _ := newCategoryTree(t, true)

	if tree.VisibleCount() != 20 {
		t.Errorf("Expanded tree shows %d rows, want 20", tree.VisibleCount())
	}
}

// TestTreeNavigation verifies cursor movement and clamping at both ends.
func TestTreeNavigation(t *testing.T) {
	tree, _ := newCategoryTree(t, true)

	if got := cursorName(t, &tree); got != "Beverages" {
		t.Fatalf("Initial cursor on %q, want 'Beverages'", got)
	}

	tree.MoveUp()
	if tree.Cursor() != 0 {
		t.Error("MoveUp at the top should stay put")
	}

	tree.MoveDown()
	if got := cursorName(t, &tree); got != "Coffee" {
		t.Errorf("After MoveDown, cursor on %q, want 'Coffee'", got)
	}

	tree.GotoBottom()
	if got := cursorName(t, &tree); got != "Cheese" {
		t.Errorf("GotoBottom lands on %q, want 'Cheese'", got)
	}

	tree.MoveDown()
	if got := cursorName(t, &tree); got != "Cheese" {
		t.Errorf("MoveDown at the bottom moved to %q", got)
	}

	tree.GotoTop()
	if tree.Cursor() != 0 {
		t.Errorf("GotoTop lands on row %d, want 0", tree.Cursor())
	}
}

// TestHalfPageMovement verifies ctrl+d/ctrl+u step by half the row window
// and clamp.
func TestHalfPageMovement(t *testing.T) {
	tree, _ := newCategoryTree(t, true)
	tree.SetSize(60, 8) // 20 rows overflow: window is 7, half step 3

	tree.HalfPageDown()
	if tree.Cursor() != 3 {
		t.Errorf("HalfPageDown moved to row %d, want 3", tree.Cursor())
	}

	for i := 0; i < 10; i++ {
		tree.HalfPageDown()
	}
	if got := cursorName(t, &tree); got != "Cheese" {
		t.Errorf("Repeated HalfPageDown should clamp at 'Cheese', got %q", got)
	}

	for i := 0; i < 10; i++ {
		tree.HalfPageUp()
	}
	if tree.Cursor() != 0 {
		t.Errorf("Repeated HalfPageUp should clamp at row 0, got %d", tree.Cursor())
	}
}

// TestCollapseOrParent verifies h collapses an open branch and jumps leaves
// to their parent.
func TestCollapseOrParent(t *testing.T) {
	tree, _ := newCategoryTree(t, true)

	// Move to the leaf Whole Bean Coffee (row 2).
	tree.MoveDown()
	tree.MoveDown()
	if got := cursorName(t, &tree); got != "Whole Bean Coffee" {
		t.Fatalf("Setup cursor on %q, want 'Whole Bean Coffee'", got)
	}

	tree.CollapseOrParent()
	if got := cursorName(t, &tree); got != "Coffee" {
		t.Errorf("Leaf collapse should jump to parent %q, got %q", "Coffee", got)
	}

	tree.CollapseOrParent()
	if got := cursorName(t, &tree); got != "Coffee" {
		t.Errorf("Collapsing Coffee should keep the cursor on it, got %q", got)
	}
	if tree.VisibleCount() != 17 {
		t.Errorf("Collapsing Coffee leaves %d rows, want 17", tree.VisibleCount())
	}

	tree.CollapseOrParent()
	if got := cursorName(t, &tree); got != "Beverages" {
		t.Errorf("Closed branch collapse should jump to root, got %q", got)
	}
}

// TestSelectByKey verifies jumping the cursor to a visible node key.
func TestSelectByKey(t *testing.T) {
	tree, _ := newCategoryTree(t, true)

	roots := tree.Roots()
	target := testutil.MustFindNode(t, roots, "Lemonade")
	if !tree.SelectByKey(target.Key()) {
		t.Fatal("SelectByKey should find a visible node")
	}
	if got := cursorName(t, &tree); got != "Lemonade" {
		t.Errorf("Cursor on %q after SelectByKey, want 'Lemonade'", got)
	}

	if tree.SelectByKey("no-such-key") {
		t.Error("SelectByKey should report a miss for unknown keys")
	}
}

// TestWindowingOverflow verifies the position indicator and the visible
// window track the cursor through an overflowing tree.
func TestWindowingOverflow(t *testing.T) {
	tree, _ := newCategoryTree(t, true)
	tree.SetSize(60, 8)

	view := tree.View()
	if !strings.Contains(view, "Page 1/3 (1-7 of 20)") {
		t.Errorf("Initial window indicator missing, view:\n%s", view)
	}
	if !strings.Contains(view, "Beverages") {
		t.Error("First window should contain the first root")
	}
	if strings.Contains(view, "Cheese") {
		t.Error("First window should not contain the last row")
	}

	tree.GotoBottom()
	view = tree.View()
	if !strings.Contains(view, "Page 2/3 (14-20 of 20)") {
		t.Errorf("Bottom window indicator missing, view:\n%s", view)
	}
	if !strings.Contains(view, "Cheese") {
		t.Error("Bottom window should contain the last row")
	}
}

// TestEmptyTreeView verifies the empty-state message names the kind.
func TestEmptyTreeView(t *testing.T) {
	picker := selection.New(selection.Config{Kind: catalog.KindCategory})
	picker.SetTree(nil, nil)

	tree := NewTreeModel(catalog.KindCategory, picker, TestTheme())
	tree.SetRoots(nil)
	tree.SetSize(60, 24)

	view := tree.View()
	if !strings.Contains(view, "No category entries to display.") {
		t.Errorf("Empty state missing, view:\n%s", view)
	}
	if tree.CursorNode() != nil {
		t.Error("Empty tree should have no cursor node")
	}
}

// TestTreeViewGolden locks the expanded demo category rendering, including
// branch characters, checkboxes, and cursor padding.
func TestTreeViewGolden(t *testing.T) {
	roots := testutil.DemoCatalog().CategoryNodes()
	picker := selection.New(selection.Config{
		Kind:              catalog.KindCategory,
		InitiallyExpanded: true,
	})
	picker.SetTree(roots, []string{"Coffee", "Cola"})

	// Use deterministic renderer with forced settings
	renderer := lipgloss.NewRenderer(io.Discard)
	renderer.SetHasDarkBackground(true)
	theme := DefaultTheme(renderer)

	tree := NewTreeModel(catalog.KindCategory, picker, theme)
	tree.SetRoots(roots)
	tree.SetSize(60, 24)

	out := tree.View()

	golden := testutil.NewGoldenFile(t, filepath.Join("..", "..", "testdata", "golden", "tree_render"), "demo_categories.golden")
	golden.Assert(out)
}
