package datasource

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/veldhuizen/scopick/pkg/catalog"
)

// catalogSchema is the schema marker required in JSON catalog files. It is
// what separates a catalog from any other JSON lying in the data directory.
const catalogSchema = "scopick/catalog@1"

// Conventional file names for a split catalog pair.
const (
	pairCategoriesFile  = "categories.json"
	pairGeographiesFile = "geographies.json"
)

// catalogFile is the on-disk JSON layout.
type catalogFile struct {
	Schema string           `json:"schema"`
	Items  []catalog.Record `json:"items"`
}

// LoadRecordsFromJSON reads flat catalog records from a JSON catalog file.
func LoadRecordsFromJSON(path string) ([]catalog.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog file %s: %w", path, err)
	}
	if file.Schema != catalogSchema {
		return nil, fmt.Errorf("%s: unsupported schema %q (want %q)", path, file.Schema, catalogSchema)
	}

	return file.Items, nil
}

// WriteRecordsJSON writes records as a JSON catalog file. Used by the
// test-data generator and kept here so the format lives in one place.
func WriteRecordsJSON(path string, records []catalog.Record) error {
	data, err := json.MarshalIndent(catalogFile{
		Schema: catalogSchema,
		Items:  records,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing catalog file: %w", err)
	}
	return nil
}

// LoadRecordsFromJSONPair reads a split catalog: categories.json and
// geographies.json side by side in dir. The halves load concurrently and the
// category file's records come first in the combined slice. Record kinds come
// from the records themselves; the file names are a discovery convention.
func LoadRecordsFromJSONPair(dir string) ([]catalog.Record, error) {
	var cats, geos []catalog.Record

	var g errgroup.Group
	g.Go(func() error {
		var err error
		cats, err = LoadRecordsFromJSON(filepath.Join(dir, pairCategoriesFile))
		return err
	})
	g.Go(func() error {
		var err error
		geos, err = LoadRecordsFromJSON(filepath.Join(dir, pairGeographiesFile))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return append(cats, geos...), nil
}

// validateJSONSource checks the schema marker and counts items.
func validateJSONSource(path string) (int, error) {
	records, err := LoadRecordsFromJSON(path)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("catalog is empty")
	}
	return len(records), nil
}

// validateJSONPairSource checks both halves of a split catalog.
func validateJSONPairSource(dir string) (int, error) {
	records, err := LoadRecordsFromJSONPair(dir)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("catalog is empty")
	}
	return len(records), nil
}
