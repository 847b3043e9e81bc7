package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/veldhuizen/scopick/pkg/metrics"
)

// Record is one flat catalog entry as stored in catalog files. Parent holds
// the parent record's key, empty for roots. Sibling order is file order.
type Record struct {
	Kind         Kind   `json:"kind"`
	ProductID    *int64 `json:"product_id,omitempty"`
	CategoryID   *int64 `json:"category_id,omitempty"`
	GeoID        *int64 `json:"geo_id,omitempty"`
	Name         string `json:"name"`
	Parent       string `json:"parent,omitempty"`
	BranchSelect bool   `json:"branch_select,omitempty"`
	Note         string `json:"note,omitempty"`
}

// Key derives the record's identity the same way the built node will.
func (r Record) Key() string {
	if r.Kind == KindGeography {
		if r.GeoID != nil {
			return strconv.FormatInt(*r.GeoID, 10)
		}
		return r.Name
	}
	switch {
	case r.ProductID != nil:
		return strconv.FormatInt(*r.ProductID, 10)
	case r.CategoryID != nil:
		return strconv.FormatInt(*r.CategoryID, 10)
	default:
		return r.Name
	}
}

// BuildReport collects non-fatal data-quality findings from a build.
// Duplicate keys merge selection state between distinct nodes and duplicate
// names break the selected-names contract, so both are worth surfacing even
// though the build still succeeds.
type BuildReport struct {
	DuplicateKeys  []string
	DuplicateNames []string
	MissingParents []string // record keys whose parent was absent; promoted to roots
	SkippedRecords int      // records with no name or an unknown kind
	CategoryCount  int
	GeographyCount int
}

// Clean reports whether the build found nothing to complain about.
func (r *BuildReport) Clean() bool {
	return len(r.DuplicateKeys) == 0 && len(r.DuplicateNames) == 0 &&
		len(r.MissingParents) == 0 && r.SkippedRecords == 0
}

// Summary renders a one-line description suitable for logging.
func (r *BuildReport) Summary() string {
	parts := []string{
		fmt.Sprintf("%d categories", r.CategoryCount),
		fmt.Sprintf("%d geographies", r.GeographyCount),
	}
	if len(r.DuplicateKeys) > 0 {
		parts = append(parts, fmt.Sprintf("%d duplicate keys", len(r.DuplicateKeys)))
	}
	if len(r.DuplicateNames) > 0 {
		parts = append(parts, fmt.Sprintf("%d duplicate names", len(r.DuplicateNames)))
	}
	if len(r.MissingParents) > 0 {
		parts = append(parts, fmt.Sprintf("%d orphaned records", len(r.MissingParents)))
	}
	if r.SkippedRecords > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped records", r.SkippedRecords))
	}
	return strings.Join(parts, ", ")
}

// Build turns flat records into the two trees. Records with an empty name or
// an unrecognized kind are skipped. A parent reference cycle is a hard error:
// its members are unreachable from any root, so silently dropping them would
// make parts of the catalog vanish.
func Build(source string, records []Record) (*Catalog, *BuildReport, error) {
	defer metrics.Timer(metrics.CatalogBuild)()

	report := &BuildReport{}

	var catRecs, geoRecs []Record
	for _, rec := range records {
		if rec.Name == "" {
			report.SkippedRecords++
			continue
		}
		switch rec.Kind {
		case KindCategory:
			catRecs = append(catRecs, rec)
		case KindGeography:
			geoRecs = append(geoRecs, rec)
		default:
			report.SkippedRecords++
		}
	}

	catIdx, err := linkRecords(KindCategory, catRecs, report)
	if err != nil {
		return nil, report, err
	}
	geoIdx, err := linkRecords(KindGeography, geoRecs, report)
	if err != nil {
		return nil, report, err
	}

	cat := &Catalog{
		Source:      source,
		Categories:  materializeCategories(catRecs, catIdx),
		Geographies: materializeGeographies(geoRecs, geoIdx),
	}
	report.CategoryCount = len(catRecs)
	report.GeographyCount = len(geoRecs)
	return cat, report, nil
}

// recordIndex is the linked form of one kind's records: root record indices
// in file order, plus each record's child indices in file order.
type recordIndex struct {
	roots    []int
	children map[int][]int
}

// linkRecords resolves parent references, records duplicate keys/names, and
// rejects parent cycles. Indices refer into the records slice.
func linkRecords(kind Kind, records []Record, report *BuildReport) (recordIndex, error) {
	idx := recordIndex{children: make(map[int][]int, len(records))}

	byKey := make(map[string]int, len(records))
	seenName := make(map[string]bool, len(records))
	for i, rec := range records {
		key := rec.Key()
		if _, dup := byKey[key]; dup {
			report.DuplicateKeys = append(report.DuplicateKeys, key)
		} else {
			byKey[key] = i
		}
		if seenName[rec.Name] {
			report.DuplicateNames = append(report.DuplicateNames, rec.Name)
		}
		seenName[rec.Name] = true
	}

	// Parent cycles cannot hang the link pass (it never follows chains), but
	// their members end up reachable from no root. Model parent->child edges
	// and let the topological sort call them out.
	g := simple.NewDirectedGraph()
	gids := make([]int64, len(records))
	for i := range records {
		n := g.NewNode()
		g.AddNode(n)
		gids[i] = n.ID()
	}

	for i, rec := range records {
		if rec.Parent == "" {
			idx.roots = append(idx.roots, i)
			continue
		}
		parent, ok := byKey[rec.Parent]
		if !ok {
			report.MissingParents = append(report.MissingParents, rec.Key())
			idx.roots = append(idx.roots, i)
			continue
		}
		if parent == i {
			// Self-parenting is the degenerate cycle.
			return idx, fmt.Errorf("%s record %q lists itself as parent", kind, rec.Key())
		}
		idx.children[parent] = append(idx.children[parent], i)
		g.SetEdge(g.NewEdge(g.Node(gids[parent]), g.Node(gids[i])))
	}

	if _, err := topo.Sort(g); err != nil {
		var cycles topo.Unorderable
		if errors.As(err, &cycles) && len(cycles) > 0 {
			keys := make([]string, 0, len(cycles[0]))
			for _, gn := range cycles[0] {
				for i, id := range gids {
					if id == gn.ID() {
						keys = append(keys, records[i].Key())
					}
				}
			}
			return idx, fmt.Errorf("%s records contain a parent cycle: %s", kind, strings.Join(keys, " -> "))
		}
		return idx, fmt.Errorf("ordering %s records: %w", kind, err)
	}

	return idx, nil
}

func materializeCategories(records []Record, idx recordIndex) []*Category {
	var build func(i int) *Category
	build = func(i int) *Category {
		rec := records[i]
		node := &Category{
			ProductID:         rec.ProductID,
			CategoryID:        rec.CategoryID,
			Name:              rec.Name,
			AllowBranchSelect: rec.BranchSelect,
			Note:              rec.Note,
		}
		for _, ch := range idx.children[i] {
			node.Children = append(node.Children, build(ch))
		}
		return node
	}

	out := make([]*Category, 0, len(idx.roots))
	for _, i := range idx.roots {
		out = append(out, build(i))
	}
	return out
}

func materializeGeographies(records []Record, idx recordIndex) []*Geography {
	var build func(i int) *Geography
	build = func(i int) *Geography {
		rec := records[i]
		node := &Geography{
			GeoID:             rec.GeoID,
			Name:              rec.Name,
			AllowBranchSelect: rec.BranchSelect,
			Note:              rec.Note,
		}
		for _, ch := range idx.children[i] {
			node.Children = append(node.Children, build(ch))
		}
		return node
	}

	out := make([]*Geography, 0, len(idx.roots))
	for _, i := range idx.roots {
		out = append(out, build(i))
	}
	return out
}
