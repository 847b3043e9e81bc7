package testutil

import (
	"reflect"
	"strings"
	"testing"

	"github.com/veldhuizen/scopick/pkg/catalog"
)

func TestFlat(t *testing.T) {
	gen := NewDefault()

	tests := []struct {
		name string
		kind catalog.Kind
		size int
	}{
		{"flat_1_category", catalog.KindCategory, 1},
		{"flat_5_category", catalog.KindCategory, 5},
		{"flat_5_geography", catalog.KindGeography, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := gen.Flat(tt.kind, tt.size)

			AssertRecordCount(t, records, tt.size)
			for i, rec := range records {
				if rec.Parent != "" {
					t.Errorf("record %d: Flat records must be roots, got parent %q", i, rec.Parent)
				}
				if rec.Kind != tt.kind {
					t.Errorf("record %d: kind = %q, want %q", i, rec.Kind, tt.kind)
				}
				if rec.BranchSelect {
					t.Errorf("record %d: Flat records should not allow branch select", i)
				}
			}
		})
	}
}

func TestChain(t *testing.T) {
	gen := NewDefault()

	tests := []struct {
		name string
		size int
	}{
		{"chain_1", 1},
		{"chain_2", 2},
		{"chain_5", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := gen.Chain(catalog.KindCategory, tt.size)

			AssertRecordCount(t, records, tt.size)
			for i := 1; i < len(records); i++ {
				if records[i].Parent != records[i-1].Key() {
					t.Errorf("record %d: parent = %q, want %q", i, records[i].Parent, records[i-1].Key())
				}
			}

			last := records[len(records)-1]
			if tt.size > 1 && last.ProductID == nil {
				t.Error("chain leaf should be keyed as a product")
			}
			for i := 0; i < len(records)-1; i++ {
				if tt.size > 1 && records[i].CategoryID == nil {
					t.Errorf("record %d: interior chain record should be keyed as a category", i)
				}
			}
		})
	}
}

func TestTree(t *testing.T) {
	gen := NewDefault()

	tests := []struct {
		name      string
		depth     int
		breadth   int
		wantNodes int
	}{
		{"tree_1x2", 1, 2, 3},
		{"tree_2x2", 2, 2, 7},
		{"tree_2x3", 2, 3, 13},
		{"tree_3x2", 3, 2, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := gen.Tree(catalog.KindCategory, tt.depth, tt.breadth)

			AssertRecordCount(t, records, tt.wantNodes)
			AssertNoDuplicateKeys(t, records)

			cat := MustBuild(records)
			if got := catalog.CountNodes(cat.CategoryNodes()); got != tt.wantNodes {
				t.Errorf("built tree has %d nodes, want %d", got, tt.wantNodes)
			}
			if len(cat.Categories) != 1 {
				t.Fatalf("expected a single root, got %d", len(cat.Categories))
			}
			if !cat.Categories[0].AllowBranchSelect {
				t.Error("root should allow branch select with the default config")
			}

			depth := treeDepth(cat.CategoryNodes()[0])
			if depth != tt.depth {
				t.Errorf("tree depth = %d, want %d", depth, tt.depth)
			}
		})
	}
}

func treeDepth(n catalog.Node) int {
	max := 0
	for _, ch := range n.ChildNodes() {
		if d := treeDepth(ch) + 1; d > max {
			max = d
		}
	}
	return max
}

func TestTree_ProductLeaves(t *testing.T) {
	gen := NewDefault()
	records := gen.Tree(catalog.KindCategory, 2, 2)

	cat := MustBuild(records)
	catalog.Walk(cat.CategoryNodes(), func(n catalog.Node) {
		c := n.(*catalog.Category)
		if len(c.Children) == 0 {
			if c.ProductID == nil {
				t.Errorf("leaf %q should be keyed as a product", c.Name)
			}
		} else if c.CategoryID == nil {
			t.Errorf("interior node %q should be keyed as a category", c.Name)
		}
	})
}

func TestTree_GeographyKeys(t *testing.T) {
	gen := NewDefault()
	records := gen.Tree(catalog.KindGeography, 2, 2)

	for i, rec := range records {
		if rec.GeoID == nil {
			t.Errorf("record %d: geography records must carry geo_id", i)
		}
		if rec.ProductID != nil || rec.CategoryID != nil {
			t.Errorf("record %d: geography records must not carry category keys", i)
		}
		if !strings.HasPrefix(rec.Name, "g") {
			t.Errorf("record %d: name = %q, want g-stem", i, rec.Name)
		}
	}
}

func TestRagged_Deterministic(t *testing.T) {
	a := New(GeneratorConfig{Seed: 7}).Ragged(catalog.KindCategory, 30)
	b := New(GeneratorConfig{Seed: 7}).Ragged(catalog.KindCategory, 30)

	if !reflect.DeepEqual(a, b) {
		t.Error("same seed should produce identical records")
	}

	AssertNoDuplicateKeys(t, a)
	cat := MustBuild(a)
	if got := catalog.CountNodes(cat.CategoryNodes()); got != 30 {
		t.Errorf("built forest has %d nodes, want 30", got)
	}
}

func TestGenerator_CombinedCallsKeepKeysUnique(t *testing.T) {
	gen := NewDefault()

	var records []catalog.Record
	records = append(records, gen.Tree(catalog.KindCategory, 2, 2)...)
	records = append(records, gen.Tree(catalog.KindCategory, 1, 3)...)
	records = append(records, gen.Tree(catalog.KindGeography, 2, 2)...)

	AssertNoDuplicateKeys(t, records)
}

func TestDemoRecords(t *testing.T) {
	records := DemoRecords()

	AssertNoDuplicateKeys(t, records)

	counts := CountByKind(records)
	if counts[catalog.KindCategory] != 20 {
		t.Errorf("demo catalog has %d category records, want 20", counts[catalog.KindCategory])
	}
	if counts[catalog.KindGeography] != 12 {
		t.Errorf("demo catalog has %d geography records, want 12", counts[catalog.KindGeography])
	}

	pods := FindRecord(records, "Coffee Pods")
	if pods == nil {
		t.Fatal("Coffee Pods missing from demo catalog")
	}
	if pods.Note != "single serve" {
		t.Errorf("Coffee Pods note = %q, want %q", pods.Note, "single serve")
	}
	if pods.ProductID == nil {
		t.Error("Coffee Pods should be keyed as a product")
	}

	coffee := FindRecord(records, "Coffee")
	beverages := FindRecord(records, "Beverages")
	if coffee == nil || beverages == nil {
		t.Fatal("Coffee or Beverages missing from demo catalog")
	}
	if coffee.Parent != beverages.Key() {
		t.Errorf("Coffee parent = %q, want %q", coffee.Parent, beverages.Key())
	}
	if !beverages.BranchSelect {
		t.Error("Beverages should allow branch select")
	}
}

func TestDemoCatalog_BuildsClean(t *testing.T) {
	cat, report, err := catalog.Build("demo", DemoRecords())
	if err != nil {
		t.Fatalf("building demo catalog: %v", err)
	}
	if !report.Clean() {
		t.Errorf("demo catalog should build clean, got: %s", report.Summary())
	}

	if len(cat.Categories) != 3 {
		t.Errorf("expected 3 category departments, got %d", len(cat.Categories))
	}
	if len(cat.Geographies) != 3 {
		t.Errorf("expected 3 regions, got %d", len(cat.Geographies))
	}

	europe := MustFindNode(t, cat.GeographyNodes(), "Europe")
	if len(europe.ChildNodes()) != 4 {
		t.Errorf("Europe should have 4 countries, got %d", len(europe.ChildNodes()))
	}
}

func TestMustBuild_PanicsOnCycle(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on a parent cycle")
		}
	}()

	a := int64(1)
	b := int64(2)
	MustBuild([]catalog.Record{
		{Kind: catalog.KindCategory, CategoryID: &a, Name: "a", Parent: "2"},
		{Kind: catalog.KindCategory, CategoryID: &b, Name: "b", Parent: "1"},
	})
}

func TestQuickTrees(t *testing.T) {
	cats := QuickCategoryTree(2, 2)
	if got := catalog.CountNodes(cats); got != 7 {
		t.Errorf("QuickCategoryTree(2, 2) has %d nodes, want 7", got)
	}

	geos := QuickGeographyTree(1, 3)
	if got := catalog.CountNodes(geos); got != 4 {
		t.Errorf("QuickGeographyTree(1, 3) has %d nodes, want 4", got)
	}
}

func TestSingleAndEmpty(t *testing.T) {
	if got := len(Empty()); got != 0 {
		t.Errorf("Empty() returned %d records", got)
	}

	single := Single(catalog.KindCategory)
	AssertRecordCount(t, single, 1)
	if single[0].ProductID == nil {
		t.Error("Single category record should be keyed as a product")
	}

	geo := Single(catalog.KindGeography)
	if geo[0].GeoID == nil {
		t.Error("Single geography record should carry geo_id")
	}
}

func TestBuilders(t *testing.T) {
	roots := CatNodes(
		Cat("A", Cat("A1"), Cat("A2", Cat("A2a"))),
		Cat("B"),
	)

	if got := catalog.CountNodes(roots); got != 5 {
		t.Errorf("built tree has %d nodes, want 5", got)
	}

	a2 := MustFindNode(t, roots, "A2")
	if len(a2.ChildNodes()) != 1 {
		t.Errorf("A2 should have one child, got %d", len(a2.ChildNodes()))
	}

	AssertNamesEqual(t, catalog.Names(roots), "A", "A1", "A2", "A2a", "B")
}
