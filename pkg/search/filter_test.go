package search

import (
	"testing"

	"github.com/veldhuizen/scopick/pkg/catalog"
)

func i64(v int64) *int64 { return &v }

func testTree() []catalog.Node {
	return []catalog.Node{
		&catalog.Category{CategoryID: i64(1), Name: "Beverages", Children: []*catalog.Category{
			{CategoryID: i64(2), Name: "Coffee", Children: []*catalog.Category{
				{ProductID: i64(1001), Name: "Espresso Beans"},
				{ProductID: i64(1002), Name: "Filter Roast"},
			}},
			{CategoryID: i64(3), Name: "Tea"},
		}},
		&catalog.Category{CategoryID: i64(4), Name: "Snacks"},
	}
}

// TestFilterEmptyQueryReturnsSameRoots: a blank query must hand back the
// identical slice so callers skip the tree-change path.
func TestFilterEmptyQueryReturnsSameRoots(t *testing.T) {
	roots := testTree()
	for _, q := range []string{"", "   "} {
		got := Filter(roots, q)
		if len(got) != len(roots) || got[0] != roots[0] {
			t.Errorf("Filter(%q) did not return the original roots", q)
		}
	}
}

// TestFilterPrunesNonMatchingBranches keeps matched leaves with their
// ancestor chain and drops everything else.
func TestFilterPrunesNonMatchingBranches(t *testing.T) {
	got := Filter(testTree(), "espresso")

	if len(got) != 1 {
		t.Fatalf("roots after filter = %d, want 1", len(got))
	}
	bev := got[0]
	if bev.DisplayName() != "Beverages" {
		t.Fatalf("surviving root = %s, want Beverages", bev.DisplayName())
	}
	kids := bev.ChildNodes()
	if len(kids) != 1 || kids[0].DisplayName() != "Coffee" {
		t.Fatalf("Beverages children = %v, want only Coffee", kids)
	}
	grandkids := kids[0].ChildNodes()
	if len(grandkids) != 1 || grandkids[0].DisplayName() != "Espresso Beans" {
		t.Fatalf("Coffee children wrong after filter")
	}
}

// TestFilterAnnotations: direct matches and ancestor chains get the right
// flags and the query is echoed for highlighting.
func TestFilterAnnotations(t *testing.T) {
	got := Filter(testTree(), "Espresso")

	bev := got[0]
	if m := bev.MatchInfo(); m.Direct || !m.Descendant || m.Query != "Espresso" {
		t.Errorf("ancestor annotations = %+v, want indirect-only with query", m)
	}
	leaf := bev.ChildNodes()[0].ChildNodes()[0]
	if m := leaf.MatchInfo(); !m.Direct || m.Descendant {
		t.Errorf("leaf annotations = %+v, want direct-only", m)
	}
}

// TestFilterMatchedBranchKeepsOnlyMatchingChildren: a direct match on a
// branch does not drag its non-matching children along.
func TestFilterMatchedBranchKeepsOnlyMatchingChildren(t *testing.T) {
	got := Filter(testTree(), "coffee")

	coffee := got[0].ChildNodes()[0]
	if coffee.DisplayName() != "Coffee" {
		t.Fatalf("expected Coffee to survive, got %s", coffee.DisplayName())
	}
	if len(coffee.ChildNodes()) != 0 {
		t.Errorf("non-matching children kept under a matched branch: %v", coffee.ChildNodes())
	}
	if m := coffee.MatchInfo(); !m.Direct || m.Descendant {
		t.Errorf("Coffee annotations = %+v, want direct without descendants", m)
	}
}

// TestFilterCaseInsensitive matches regardless of case on both sides.
func TestFilterCaseInsensitive(t *testing.T) {
	if got := Filter(testTree(), "TeA"); len(got) != 1 {
		t.Errorf("case-insensitive match failed: %d roots", len(got))
	}
}

// TestFilterNoMatches returns an empty forest.
func TestFilterNoMatches(t *testing.T) {
	if got := Filter(testTree(), "zzz"); len(got) != 0 {
		t.Errorf("Filter with no matches = %d roots, want 0", len(got))
	}
}

// TestFilterDoesNotMutateOriginals: the catalog stays annotation-free and
// fully populated after filtering.
func TestFilterDoesNotMutateOriginals(t *testing.T) {
	roots := testTree()
	Filter(roots, "espresso")

	if m := roots[0].MatchInfo(); m.Direct || m.Descendant || m.Query != "" {
		t.Errorf("original root annotated: %+v", m)
	}
	if len(roots[0].ChildNodes()) != 2 {
		t.Errorf("original tree pruned: %d children", len(roots[0].ChildNodes()))
	}
}

// TestFilterKeysSurviveCloning: clones must keep identity so selection
// state carries across the filtered view.
func TestFilterKeysSurviveCloning(t *testing.T) {
	got := Filter(testTree(), "espresso")
	leaf := got[0].ChildNodes()[0].ChildNodes()[0]
	if leaf.Key() != "1001" {
		t.Errorf("clone key = %s, want 1001", leaf.Key())
	}
}

// TestFilterGeographyVariant exercises the second clone branch.
func TestFilterGeographyVariant(t *testing.T) {
	roots := []catalog.Node{
		&catalog.Geography{GeoID: i64(150), Name: "Europe", Children: []*catalog.Geography{
			{GeoID: i64(528), Name: "Netherlands"},
			{GeoID: i64(276), Name: "Germany"},
		}},
	}

	got := Filter(roots, "nether")
	if len(got) != 1 || len(got[0].ChildNodes()) != 1 {
		t.Fatalf("geography filter shape wrong")
	}
	if got[0].ChildNodes()[0].Key() != "528" {
		t.Errorf("geography clone lost its key")
	}
}
