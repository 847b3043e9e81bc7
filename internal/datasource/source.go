// Package datasource provides multi-source catalog detection and selection
// for scopick. It discovers, validates, and selects the freshest valid source
// from SQLite databases and JSON catalog files.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SourceType identifies the type of catalog source
type SourceType string

const (
	// SourceTypeSQLite is a SQLite database (catalog.db)
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeJSON is a JSON catalog file
	SourceTypeJSON SourceType = "json"
	// SourceTypeJSONPair is a categories.json + geographies.json pair in one
	// directory; Path holds the directory
	SourceTypeJSONPair SourceType = "json_pair"
)

// Priority values for source types (higher = more authoritative)
const (
	PrioritySQLite   = 100
	PriorityJSON     = 80
	PriorityJSONPair = 60
)

// DataSource represents a potential source of catalog data
type DataSource struct {
	// Type identifies the source type
	Type SourceType `json:"type"`
	// Path is the absolute path to the source file
	Path string `json:"path"`
	// Priority determines preference when timestamps are equal (higher = preferred)
	Priority int `json:"priority"`
	// ModTime is the last modification time of the source
	ModTime time.Time `json:"mod_time"`
	// Valid indicates whether the source passed validation
	Valid bool `json:"valid"`
	// ValidationError describes why validation failed (if Valid is false)
	ValidationError string `json:"validation_error,omitempty"`
	// ItemCount is the number of catalog records in the source (set during validation)
	ItemCount int `json:"item_count"`
	// Size is the file size in bytes
	Size int64 `json:"size"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	status := "valid"
	if !s.Valid {
		status = fmt.Sprintf("invalid: %s", s.ValidationError)
	}
	return fmt.Sprintf("%s (%s, priority=%d, mod=%s, items=%d, %s)",
		s.Path, s.Type, s.Priority, s.ModTime.Format(time.RFC3339), s.ItemCount, status)
}

// DiscoveryOptions configures source discovery behavior
type DiscoveryOptions struct {
	// DataDir is the catalog directory to search (optional, auto-detected if empty)
	DataDir string
	// ExtraDirs are additional directories to search after DataDir
	ExtraDirs []string
	// ValidateAfterDiscovery runs validation on each discovered source
	ValidateAfterDiscovery bool
	// IncludeInvalid includes sources that failed validation in results
	IncludeInvalid bool
	// Verbose enables detailed logging during discovery
	Verbose bool
	// Logger receives log messages when Verbose is true
	Logger func(msg string)
}

// DiscoverSources finds all potential catalog sources in the data directories
func DiscoverSources(opts DiscoveryOptions) ([]DataSource, error) {
	if opts.Logger == nil {
		opts.Logger = func(string) {}
	}

	// Determine the primary data directory
	dataDir := opts.DataDir
	if dataDir == "" {
		// Check SCOPICK_DATA_DIR environment variable
		if envDir := os.Getenv("SCOPICK_DATA_DIR"); envDir != "" {
			dataDir = envDir
		} else {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			dataDir = cwd
		}
	}

	dirs := append([]string{dataDir}, opts.ExtraDirs...)

	var sources []DataSource
	seen := make(map[string]bool)
	for _, dir := range dirs {
		if dir == "" || seen[dir] {
			continue
		}
		seen[dir] = true

		if opts.Verbose {
			opts.Logger(fmt.Sprintf("Discovering sources in: %s", dir))
		}

		found, err := discoverDirSources(dir, opts)
		if err != nil && opts.Verbose {
			opts.Logger(fmt.Sprintf("Discovery warning for %s: %v", dir, err))
		}
		sources = append(sources, found...)
	}

	// Validate sources if requested
	if opts.ValidateAfterDiscovery {
		for i := range sources {
			if err := ValidateSource(&sources[i]); err != nil && opts.Verbose {
				opts.Logger(fmt.Sprintf("Validation failed for %s: %v", sources[i].Path, err))
			}
		}
	}

	// Filter out invalid sources if not including them
	if opts.ValidateAfterDiscovery && !opts.IncludeInvalid {
		var validSources []DataSource
		for _, s := range sources {
			if s.Valid {
				validSources = append(validSources, s)
			}
		}
		sources = validSources
	}

	// Sort by mod time, breaking ties by priority
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].ModTime.Equal(sources[j].ModTime) {
			return sources[i].Priority > sources[j].Priority
		}
		return sources[i].ModTime.After(sources[j].ModTime)
	})

	if opts.Verbose {
		opts.Logger(fmt.Sprintf("Discovered %d sources", len(sources)))
	}

	return sources, nil
}

// discoverDirSources finds catalog files in a single directory (non-recursive)
func discoverDirSources(dir string, opts DiscoveryOptions) ([]DataSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var sources []DataSource
	pair := detectJSONPair(dir, entries)
	if pair != nil {
		sources = append(sources, *pair)
		if opts.Verbose {
			opts.Logger(fmt.Sprintf("Found %s: %s (mod=%s)", pair.Type, pair.Path, pair.ModTime.Format(time.RFC3339)))
		}
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()

		// Pair members never double as standalone sources
		if pair != nil && (name == pairCategoriesFile || name == pairGeographiesFile) {
			continue
		}

		var srcType SourceType
		var priority int
		switch {
		case strings.HasSuffix(name, ".db"):
			srcType = SourceTypeSQLite
			priority = PrioritySQLite
		case strings.HasSuffix(name, ".json"):
			srcType = SourceTypeJSON
			priority = PriorityJSON
		default:
			continue
		}

		// Skip backups, temp files, and exported scopes
		if strings.Contains(name, ".backup") ||
			strings.Contains(name, ".orig") ||
			strings.Contains(name, ".tmp") ||
			strings.HasPrefix(name, "scope.") ||
			strings.HasPrefix(name, "scope-") {
			continue
		}

		path := filepath.Join(dir, name)
		info, err := e.Info()
		if err != nil {
			continue
		}

		sources = append(sources, DataSource{
			Type:     srcType,
			Path:     path,
			Priority: priority,
			ModTime:  info.ModTime(),
			Size:     info.Size(),
		})

		if opts.Verbose {
			opts.Logger(fmt.Sprintf("Found %s: %s (mod=%s)", srcType, path, info.ModTime().Format(time.RFC3339)))
		}
	}

	return sources, nil
}

// detectJSONPair reports a split categories.json + geographies.json catalog
// in dir. The returned source carries the directory as its path and the
// fresher of the two file mtimes.
func detectJSONPair(dir string, entries []os.DirEntry) *DataSource {
	var catInfo, geoInfo os.FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch e.Name() {
		case pairCategoriesFile:
			catInfo, _ = e.Info()
		case pairGeographiesFile:
			geoInfo, _ = e.Info()
		}
	}
	if catInfo == nil || geoInfo == nil {
		return nil
	}

	mod := catInfo.ModTime()
	if geoInfo.ModTime().After(mod) {
		mod = geoInfo.ModTime()
	}
	return &DataSource{
		Type:     SourceTypeJSONPair,
		Path:     dir,
		Priority: PriorityJSONPair,
		ModTime:  mod,
		Size:     catInfo.Size() + geoInfo.Size(),
	}
}

// ValidateSource checks that a source is readable and holds catalog data,
// updating Valid, ValidationError, and ItemCount in place.
func ValidateSource(s *DataSource) error {
	var count int
	var err error

	switch s.Type {
	case SourceTypeSQLite:
		count, err = validateSQLiteSource(s.Path)
	case SourceTypeJSON:
		count, err = validateJSONSource(s.Path)
	case SourceTypeJSONPair:
		count, err = validateJSONPairSource(s.Path)
	default:
		err = fmt.Errorf("unknown source type: %s", s.Type)
	}

	if err != nil {
		s.Valid = false
		s.ValidationError = err.Error()
		return err
	}

	s.Valid = true
	s.ValidationError = ""
	s.ItemCount = count
	return nil
}

// SelectBestSource returns the preferred source from a discovery result.
// The slice is already sorted freshest-first; the first valid entry wins.
// Unvalidated sources (discovery without validation) count as candidates.
func SelectBestSource(sources []DataSource) (DataSource, error) {
	for _, s := range sources {
		if s.Valid || s.ValidationError == "" {
			return s, nil
		}
	}
	return DataSource{}, fmt.Errorf("no valid sources available")
}
