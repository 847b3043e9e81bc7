// Package testutil provides deterministic catalog fixtures for tests and the
// demo-data generator. All generators produce the same records for the same
// seed so failures reproduce.
package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/veldhuizen/scopick/pkg/catalog"
)

// GeneratorConfig controls record generation.
type GeneratorConfig struct {
	Seed              int64 // Random seed for determinism (0 = use current time)
	FirstCategoryID   int64 // starting category_id (default: 100)
	FirstGeoID        int64 // starting geo_id (default: 500)
	FirstProductID    int64 // starting product_id for category leaves (default: 1000)
	BranchSelectRoots bool  // mark root records as branch-selectable
	IncludeNotes      bool  // attach a note to roughly a third of the records
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:              42, // Deterministic
		FirstCategoryID:   100,
		FirstGeoID:        500,
		FirstProductID:    1000,
		BranchSelectRoots: true,
	}
}

// Generator creates catalog record fixtures with various tree shapes. ID
// counters carry across calls, so records from several calls on one
// Generator combine without key collisions.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand

	nextCategoryID int64
	nextGeoID      int64
	nextProductID  int64
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.FirstCategoryID == 0 {
		cfg.FirstCategoryID = 100
	}
	if cfg.FirstGeoID == 0 {
		cfg.FirstGeoID = 500
	}
	if cfg.FirstProductID == 0 {
		cfg.FirstProductID = 1000
	}
	return &Generator{
		cfg:            cfg,
		rng:            rand.New(rand.NewSource(seed)),
		nextCategoryID: cfg.FirstCategoryID,
		nextGeoID:      cfg.FirstGeoID,
		nextProductID:  cfg.FirstProductID,
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// record builds one record and assigns it the next free ID. Geography nodes
// are keyed by geo_id; category nodes by category_id, except leaves which are
// keyed as products.
func (g *Generator) record(kind catalog.Kind, name, parent string, leaf bool) catalog.Record {
	rec := catalog.Record{Kind: kind, Name: name, Parent: parent}
	switch {
	case kind == catalog.KindGeography:
		id := g.nextGeoID
		g.nextGeoID++
		rec.GeoID = &id
	case leaf:
		id := g.nextProductID
		g.nextProductID++
		rec.ProductID = &id
	default:
		id := g.nextCategoryID
		g.nextCategoryID++
		rec.CategoryID = &id
	}
	if g.cfg.IncludeNotes && g.rng.Intn(3) == 0 {
		rec.Note = sampleNotes[g.rng.Intn(len(sampleNotes))]
	}
	return rec
}

func nameStem(kind catalog.Kind) string {
	if kind == catalog.KindGeography {
		return "g"
	}
	return "c"
}

var sampleNotes = []string{"seasonal", "house brands only", "imported", "bulk pack", "pilot range", "under review"}

// ============================================================================
// Tree Shape Generators
// ============================================================================

// Flat creates `size` root records with no nesting.
// Properties: every node a root, every node a leaf, no branch select.
func (g *Generator) Flat(kind catalog.Kind, size int) []catalog.Record {
	stem := nameStem(kind)
	records := make([]catalog.Record, 0, size)
	for i := 0; i < size; i++ {
		records = append(records, g.record(kind, fmt.Sprintf("%s%d", stem, i), "", false))
	}
	return records
}

// Chain creates a linear nesting: c0 contains c1 contains c2 ...
// The last record is the only leaf.
func (g *Generator) Chain(kind catalog.Kind, size int) []catalog.Record {
	if size < 1 {
		size = 1
	}
	stem := nameStem(kind)
	records := make([]catalog.Record, 0, size)
	parent := ""
	for i := 0; i < size; i++ {
		rec := g.record(kind, fmt.Sprintf("%s%d", stem, i), parent, i == size-1)
		if i == 0 {
			rec.BranchSelect = g.cfg.BranchSelectRoots
		}
		records = append(records, rec)
		parent = rec.Key()
	}
	return records
}

// Tree creates a uniform tree: one root, `breadth` children per node, `depth`
// levels below the root. Category records on the bottom level are keyed as
// products, everything above as categories.
func (g *Generator) Tree(kind catalog.Kind, depth, breadth int) []catalog.Record {
	if depth < 1 {
		depth = 1
	}
	if breadth < 1 {
		breadth = 1
	}

	stem := nameStem(kind)
	idx := 0

	root := g.record(kind, fmt.Sprintf("%s%d", stem, idx), "", false)
	root.BranchSelect = g.cfg.BranchSelectRoots
	idx++

	records := []catalog.Record{root}
	level := []catalog.Record{root}
	for d := 1; d <= depth; d++ {
		var next []catalog.Record
		for _, parent := range level {
			for b := 0; b < breadth; b++ {
				child := g.record(kind, fmt.Sprintf("%s%d", stem, idx), parent.Key(), d == depth)
				records = append(records, child)
				next = append(next, child)
				idx++
			}
		}
		level = next
	}
	return records
}

// Ragged creates a randomly shaped forest: each record picks its parent
// uniformly from the records before it, or becomes a root. Roughly a quarter
// of the nodes allow branch select. All category records are keyed as
// categories since leaf positions are not known up front.
func (g *Generator) Ragged(kind catalog.Kind, size int) []catalog.Record {
	stem := nameStem(kind)
	records := make([]catalog.Record, 0, size)
	for i := 0; i < size; i++ {
		parent := ""
		if p := g.rng.Intn(i+1) - 1; p >= 0 {
			parent = records[p].Key()
		}
		rec := g.record(kind, fmt.Sprintf("%s%d", stem, i), parent, false)
		rec.BranchSelect = g.rng.Intn(4) == 0
		records = append(records, rec)
	}
	return records
}

// ============================================================================
// Demo Catalog
// ============================================================================

func catRec(categoryID int64, name, parent string, branch bool, note string) catalog.Record {
	id := categoryID
	return catalog.Record{Kind: catalog.KindCategory, CategoryID: &id, Name: name, Parent: parent, BranchSelect: branch, Note: note}
}

func prodRec(productID int64, name, parent, note string) catalog.Record {
	id := productID
	return catalog.Record{Kind: catalog.KindCategory, ProductID: &id, Name: name, Parent: parent, Note: note}
}

func geoRec(geoID int64, name, parent string, branch bool, note string) catalog.Record {
	id := geoID
	return catalog.Record{Kind: catalog.KindGeography, GeoID: &id, Name: name, Parent: parent, BranchSelect: branch, Note: note}
}

// DemoRecords returns the hand-written demo catalog: a small grocery market
// with three category departments and three regions. Content is fixed, so
// tests and the generated demo data stay in sync. Record IDs double as
// parent keys.
func DemoRecords() []catalog.Record {
	return []catalog.Record{
		catRec(100, "Beverages", "", true, "chilled and ambient"),
		catRec(101, "Coffee", "100", false, ""),
		prodRec(1001, "Whole Bean Coffee", "101", ""),
		prodRec(1002, "Ground Coffee", "101", ""),
		prodRec(1003, "Coffee Pods", "101", "single serve"),
		catRec(102, "Tea", "100", false, ""),
		prodRec(1004, "Black Tea", "102", ""),
		prodRec(1005, "Green Tea", "102", ""),
		prodRec(1006, "Herbal Infusions", "102", ""),
		catRec(103, "Soft Drinks", "100", false, ""),
		prodRec(1007, "Cola", "103", ""),
		prodRec(1008, "Lemonade", "103", ""),
		catRec(110, "Snacks", "", true, ""),
		prodRec(1010, "Crisps", "110", ""),
		prodRec(1011, "Nuts & Seeds", "110", ""),
		prodRec(1012, "Chocolate Bars", "110", "house brands only"),
		catRec(120, "Dairy", "", false, ""),
		prodRec(1020, "Milk", "120", ""),
		prodRec(1021, "Yogurt", "120", ""),
		prodRec(1022, "Cheese", "120", ""),

		geoRec(500, "Europe", "", true, ""),
		geoRec(501, "Netherlands", "500", false, ""),
		geoRec(502, "Germany", "500", false, ""),
		geoRec(503, "France", "500", false, ""),
		geoRec(504, "United Kingdom", "500", false, ""),
		geoRec(510, "North America", "", true, ""),
		geoRec(511, "United States", "510", false, ""),
		geoRec(512, "Canada", "510", false, ""),
		geoRec(520, "Asia Pacific", "", true, "pilot region"),
		geoRec(521, "Australia", "520", false, ""),
		geoRec(522, "Japan", "520", false, ""),
		geoRec(523, "South Korea", "520", false, ""),
	}
}

// DemoCatalog returns the demo records built into trees.
func DemoCatalog() *catalog.Catalog {
	return MustBuild(DemoRecords())
}

// ============================================================================
// Convenience Functions
// ============================================================================

// MustBuild turns records into trees, panicking on failure. Generated
// fixtures cannot contain parent cycles, so a failure here means a broken
// fixture rather than a condition worth a test assertion.
func MustBuild(records []catalog.Record) *catalog.Catalog {
	cat, _, err := catalog.Build("testutil", records)
	if err != nil {
		panic(fmt.Sprintf("testutil: building fixture: %v", err))
	}
	return cat
}

// QuickCategoryTree builds a uniform category tree with default settings and
// returns its roots.
func QuickCategoryTree(depth, breadth int) []catalog.Node {
	gen := NewDefault()
	return MustBuild(gen.Tree(catalog.KindCategory, depth, breadth)).CategoryNodes()
}

// QuickGeographyTree builds a uniform geography tree with default settings
// and returns its roots.
func QuickGeographyTree(depth, breadth int) []catalog.Node {
	gen := NewDefault()
	return MustBuild(gen.Tree(catalog.KindGeography, depth, breadth)).GeographyNodes()
}

// Empty returns an empty record slice for edge case testing.
func Empty() []catalog.Record {
	return []catalog.Record{}
}

// Single returns a single root-level leaf record of the given kind.
func Single(kind catalog.Kind) []catalog.Record {
	gen := NewDefault()
	return []catalog.Record{gen.record(kind, nameStem(kind)+"0", "", true)}
}
