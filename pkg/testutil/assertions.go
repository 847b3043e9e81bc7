package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/veldhuizen/scopick/pkg/catalog"
)

// AssertRecordCount verifies the expected number of records.
func AssertRecordCount(t *testing.T, records []catalog.Record, expected int) {
	t.Helper()
	if len(records) != expected {
		t.Errorf("expected %d records, got %d", expected, len(records))
	}
}

// AssertNoDuplicateKeys verifies record keys are unique within each kind.
// Duplicate keys merge selection state between distinct nodes, so fixtures
// must never contain them unless the test is about that failure mode.
func AssertNoDuplicateKeys(t *testing.T, records []catalog.Record) {
	t.Helper()
	seen := make(map[string]bool)
	for _, rec := range records {
		k := string(rec.Kind) + "/" + rec.Key()
		if seen[k] {
			t.Errorf("duplicate record key: %s", k)
		}
		seen[k] = true
	}
}

// AssertNamesEqual verifies got holds exactly the wanted names in order.
func AssertNamesEqual(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("expected %d names %v, got %d: %v", len(want), want, len(got), got)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("name %d: expected %q, got %q (full: %v)", i, want[i], got[i], got)
			return
		}
	}
}

// AssertSameNames verifies got and want hold the same names, order aside.
func AssertSameNames(t *testing.T, got []string, want ...string) {
	t.Helper()
	g := append([]string(nil), got...)
	w := append([]string(nil), want...)
	sort.Strings(g)
	sort.Strings(w)
	if len(g) != len(w) {
		t.Errorf("expected names %v, got %v", want, got)
		return
	}
	for i := range w {
		if g[i] != w[i] {
			t.Errorf("expected names %v, got %v", want, got)
			return
		}
	}
}

// AssertJSONEqual compares two values after JSON round-tripping.
// Useful for comparing structs that may have different Go representations
// but equivalent JSON forms.
func AssertJSONEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}

	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}

	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// Golden file helpers

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
// If GENERATE_GOLDEN env var is set, golden files will be updated.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file.
// If GENERATE_GOLDEN is set, updates the golden file instead.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	path := g.Path()

	if g.update {
		// Update golden file
		if err := os.MkdirAll(g.dir, 0755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	// Compare against golden file
	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with GENERATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}

	if string(expected) != actual {
		// Find first difference for helpful error message
		expectedLines := strings.Split(string(expected), "\n")
		actualLines := strings.Split(actual, "\n")

		for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
			var expLine, actLine string
			if i < len(expectedLines) {
				expLine = expectedLines[i]
			}
			if i < len(actualLines) {
				actLine = actualLines[i]
			}
			if expLine != actLine {
				g.t.Errorf("golden file mismatch at line %d:\nexpected: %s\nactual:   %s\n\nFull diff (expected vs actual):\n%s\nvs\n%s",
					i+1, expLine, actLine, string(expected), actual)
				return
			}
		}
		g.t.Errorf("golden file mismatch (length differs)")
	}
}

// AssertJSON compares actual value as JSON against the golden file.
func (g *GoldenFile) AssertJSON(actual interface{}) {
	g.t.Helper()

	data, err := json.MarshalIndent(actual, "", "  ")
	if err != nil {
		g.t.Fatalf("failed to marshal actual value: %v", err)
	}

	g.Assert(string(data))
}

// Tree builders

// Cat builds a name-keyed category node. Tests that need IDs or branch
// select set the fields on the returned value.
func Cat(name string, children ...*catalog.Category) *catalog.Category {
	return &catalog.Category{Name: name, Children: children}
}

// Geo builds a name-keyed geography node.
func Geo(name string, children ...*catalog.Geography) *catalog.Geography {
	return &catalog.Geography{Name: name, Children: children}
}

// CatNodes converts category roots to the shared Node view.
func CatNodes(roots ...*catalog.Category) []catalog.Node {
	c := catalog.Catalog{Categories: roots}
	return c.CategoryNodes()
}

// GeoNodes converts geography roots to the shared Node view.
func GeoNodes(roots ...*catalog.Geography) []catalog.Node {
	c := catalog.Catalog{Geographies: roots}
	return c.GeographyNodes()
}

// MustFindNode returns the node with the given display name, failing the
// test when the tree does not contain it.
func MustFindNode(t *testing.T, roots []catalog.Node, name string) catalog.Node {
	t.Helper()
	n := catalog.FindByName(roots, name)
	if n == nil {
		t.Fatalf("node %q not found in tree", name)
	}
	return n
}

// Record helpers

// RecordNames returns every record name in file order.
func RecordNames(records []catalog.Record) []string {
	names := make([]string, len(records))
	for i, rec := range records {
		names[i] = rec.Name
	}
	return names
}

// FindRecord returns the record with the given name, or nil if not found.
func FindRecord(records []catalog.Record, name string) *catalog.Record {
	for i := range records {
		if records[i].Name == name {
			return &records[i]
		}
	}
	return nil
}

// CountByKind returns a map of kind -> record count.
func CountByKind(records []catalog.Record) map[catalog.Kind]int {
	counts := make(map[catalog.Kind]int)
	for _, rec := range records {
		counts[rec.Kind]++
	}
	return counts
}
