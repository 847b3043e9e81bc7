package datasource

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/veldhuizen/scopick/pkg/catalog"
	"github.com/veldhuizen/scopick/pkg/metrics"
)

// LoadFromSource loads flat catalog records from a specific DataSource,
// dispatching to the appropriate reader based on source type.
func LoadFromSource(source DataSource) ([]catalog.Record, error) {
	defer metrics.Timer(metrics.RecordLoad)()

	switch source.Type {
	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite source %s: %w", source.Path, err)
		}
		defer reader.Close()
		return reader.LoadRecords()

	case SourceTypeJSON:
		return LoadRecordsFromJSON(source.Path)

	case SourceTypeJSONPair:
		return LoadRecordsFromJSONPair(source.Path)

	default:
		return nil, fmt.Errorf("unknown source type: %s", source.Type)
	}
}

// BuildFromSource loads a source and assembles the two catalog trees.
func BuildFromSource(source DataSource) (*catalog.Catalog, *catalog.BuildReport, error) {
	records, err := LoadFromSource(source)
	if err != nil {
		return nil, nil, err
	}
	return catalog.Build(source.Path, records)
}

// SourceForFile wraps an explicit catalog path in a DataSource, picking the
// type from the file extension. Used when the user names a file directly.
func SourceForFile(path string) (DataSource, error) {
	var srcType SourceType
	switch {
	case strings.HasSuffix(path, ".db"):
		srcType = SourceTypeSQLite
	case strings.HasSuffix(path, ".json"):
		srcType = SourceTypeJSON
	default:
		return DataSource{}, fmt.Errorf("unsupported catalog file %s (want .db or .json)", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	source := DataSource{Type: srcType, Path: abs}
	switch srcType {
	case SourceTypeSQLite:
		source.Priority = PrioritySQLite
	case SourceTypeJSON:
		source.Priority = PriorityJSON
	}
	return source, nil
}

// LoadCatalogFromFile builds the catalog from an explicitly named file.
func LoadCatalogFromFile(path string) (*catalog.Catalog, *catalog.BuildReport, error) {
	source, err := SourceForFile(path)
	if err != nil {
		return nil, nil, err
	}
	return BuildFromSource(source)
}
