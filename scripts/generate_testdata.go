// +build ignore

// generate_testdata.go creates the demo catalog in every supported source
// format plus generated datasets for benchmarking.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//   testdata/demo/catalog.json            (demo grocery catalog)
//   testdata/demo/catalog.db              (same catalog as SQLite)
//   testdata/demo/pair/categories.json    (split catalog, category half)
//   testdata/demo/pair/geographies.json   (split catalog, geography half)
//   testdata/benchmark/small.json         (~130 records)
//   testdata/benchmark/medium.json        (~1100 records)
//   testdata/benchmark/large.json         (~5300 records)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/veldhuizen/scopick/internal/datasource"
	"github.com/veldhuizen/scopick/pkg/catalog"
	"github.com/veldhuizen/scopick/pkg/testutil"
)

type datasetSpec struct {
	name       string
	categories int
	desc       string
}

var datasets = []datasetSpec{
	{"small", 100, "100 ragged categories plus a uniform geography tree"},
	{"medium", 1000, "1000 ragged categories plus a uniform geography tree"},
	{"large", 5000, "5000 ragged categories plus a uniform geography tree"},
}

func main() {
	if err := writeDemo("testdata/demo"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write demo catalog: %v\n", err)
		os.Exit(1)
	}

	benchDir := "testdata/benchmark"
	if err := os.MkdirAll(benchDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		fmt.Printf("Generating %s dataset (%s)...\n", ds.name, ds.desc)

		cfg := testutil.DefaultConfig()
		cfg.Seed = int64(ds.categories) // Reproducible per-size
		cfg.IncludeNotes = true

		gen := testutil.New(cfg)
		records := gen.Ragged(catalog.KindCategory, ds.categories)
		// Geography trees stay small in practice even when catalogs grow.
		records = append(records, gen.Tree(catalog.KindGeography, 2, 5)...)

		outputPath := filepath.Join(benchDir, ds.name+".json")
		if err := datasource.WriteRecordsJSON(outputPath, records); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", outputPath, err)
			os.Exit(1)
		}

		fmt.Printf("  Written %s (%d records)\n", outputPath, len(records))
	}

	fmt.Println("\nDone! Demo catalog in testdata/demo, benchmark datasets in", benchDir)
}

// writeDemo emits the demo catalog in all three source formats so the format
// readers can be exercised against identical content.
func writeDemo(dir string) error {
	if err := os.MkdirAll(filepath.Join(dir, "pair"), 0755); err != nil {
		return err
	}

	records := testutil.DemoRecords()

	if err := datasource.WriteRecordsJSON(filepath.Join(dir, "catalog.json"), records); err != nil {
		return err
	}
	if err := datasource.WriteCatalogSQLite(filepath.Join(dir, "catalog.db"), records); err != nil {
		return err
	}

	var cats, geos []catalog.Record
	for _, rec := range records {
		if rec.Kind == catalog.KindGeography {
			geos = append(geos, rec)
		} else {
			cats = append(cats, rec)
		}
	}
	if err := datasource.WriteRecordsJSON(filepath.Join(dir, "pair", "categories.json"), cats); err != nil {
		return err
	}
	if err := datasource.WriteRecordsJSON(filepath.Join(dir, "pair", "geographies.json"), geos); err != nil {
		return err
	}

	fmt.Printf("Written demo catalog to %s (%d records, json + sqlite + pair)\n", dir, len(records))
	return nil
}
