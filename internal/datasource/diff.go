package datasource

import (
	"fmt"

	"github.com/veldhuizen/scopick/pkg/catalog"
)

// SourceDiff represents differences between two catalog sources
type SourceDiff struct {
	// SourceA is the path of the first source
	SourceA string
	// SourceB is the path of the second source
	SourceB string
	// MissingInA contains record keys present in B but not in A
	MissingInA []string
	// MissingInB contains record keys present in A but not in B
	MissingInB []string
	// NameMismatch contains records whose display name differs between sources.
	// Selections travel by name, so these are the dangerous ones.
	NameMismatch []NameDifference
	// CountA is the number of records in source A
	CountA int
	// CountB is the number of records in source B
	CountB int
}

// NameDifference represents a name mismatch for a single record key
type NameDifference struct {
	Key   string `json:"key"`
	NameA string `json:"name_a"`
	NameB string `json:"name_b"`
}

// HasInconsistencies returns true if there are any differences between sources
func (d SourceDiff) HasInconsistencies() bool {
	return len(d.MissingInA) > 0 || len(d.MissingInB) > 0 || len(d.NameMismatch) > 0
}

// Summary returns a human-readable summary of the differences
func (d SourceDiff) Summary() string {
	if !d.HasInconsistencies() {
		return fmt.Sprintf("Sources match (%d records each)", d.CountA)
	}

	summary := fmt.Sprintf("Inconsistencies found between %s and %s:\n", d.SourceA, d.SourceB)

	if d.CountA != d.CountB {
		summary += fmt.Sprintf("  - Count mismatch: %d vs %d\n", d.CountA, d.CountB)
	}

	if len(d.MissingInA) > 0 {
		summary += fmt.Sprintf("  - %d records in %s but not %s\n", len(d.MissingInA), d.SourceB, d.SourceA)
		if len(d.MissingInA) <= 5 {
			for _, key := range d.MissingInA {
				summary += fmt.Sprintf("    - %s\n", key)
			}
		}
	}

	if len(d.MissingInB) > 0 {
		summary += fmt.Sprintf("  - %d records in %s but not %s\n", len(d.MissingInB), d.SourceA, d.SourceB)
		if len(d.MissingInB) <= 5 {
			for _, key := range d.MissingInB {
				summary += fmt.Sprintf("    - %s\n", key)
			}
		}
	}

	if len(d.NameMismatch) > 0 {
		summary += fmt.Sprintf("  - %d records with different names\n", len(d.NameMismatch))
		if len(d.NameMismatch) <= 5 {
			for _, m := range d.NameMismatch {
				summary += fmt.Sprintf("    - %s: %q vs %q\n", m.Key, m.NameA, m.NameB)
			}
		}
	}

	return summary
}

// DiffOptions configures the diff operation
type DiffOptions struct {
	// MaxDifferences limits the number of differences tracked (0 = unlimited)
	MaxDifferences int
}

// DefaultDiffOptions returns sensible default diff options
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{
		MaxDifferences: 100,
	}
}

// qualifiedKey namespaces a record key by kind, since category and geography
// keys live in separate spaces and may collide numerically.
func qualifiedKey(rec catalog.Record) string {
	return string(rec.Kind) + "/" + rec.Key()
}

// DetectInconsistencies compares two sets of records and returns differences
func DetectInconsistencies(recordsA, recordsB []catalog.Record, sourceA, sourceB string, opts DiffOptions) SourceDiff {
	diff := SourceDiff{
		SourceA: sourceA,
		SourceB: sourceB,
	}

	// Build maps for fast lookup
	mapA := make(map[string]catalog.Record)
	for _, rec := range recordsA {
		mapA[qualifiedKey(rec)] = rec
	}

	mapB := make(map[string]catalog.Record)
	for _, rec := range recordsB {
		mapB[qualifiedKey(rec)] = rec
	}

	diff.CountA = len(mapA)
	diff.CountB = len(mapB)

	// Find records in A but not in B
	for key := range mapA {
		if _, exists := mapB[key]; !exists {
			if opts.MaxDifferences == 0 || len(diff.MissingInB) < opts.MaxDifferences {
				diff.MissingInB = append(diff.MissingInB, key)
			}
		}
	}

	// Find records in B but not in A, and name mismatches
	for key, recB := range mapB {
		recA, exists := mapA[key]
		if !exists {
			if opts.MaxDifferences == 0 || len(diff.MissingInA) < opts.MaxDifferences {
				diff.MissingInA = append(diff.MissingInA, key)
			}
		} else {
			if recA.Name != recB.Name {
				if opts.MaxDifferences == 0 || len(diff.NameMismatch) < opts.MaxDifferences {
					diff.NameMismatch = append(diff.NameMismatch, NameDifference{
						Key:   key,
						NameA: recA.Name,
						NameB: recB.Name,
					})
				}
			}
		}
	}

	return diff
}

// CompareSources loads and compares two catalog sources
func CompareSources(sourceA, sourceB DataSource, opts DiffOptions) (*SourceDiff, error) {
	recordsA, err := LoadFromSource(sourceA)
	if err != nil {
		return nil, fmt.Errorf("failed to load source A (%s): %w", sourceA.Path, err)
	}

	recordsB, err := LoadFromSource(sourceB)
	if err != nil {
		return nil, fmt.Errorf("failed to load source B (%s): %w", sourceB.Path, err)
	}

	diff := DetectInconsistencies(recordsA, recordsB, sourceA.Path, sourceB.Path, opts)
	return &diff, nil
}

// CheckAllSourcesConsistent compares all valid sources pairwise and reports
// any inconsistencies. Used by the --check flag before a session starts.
func CheckAllSourcesConsistent(sources []DataSource, opts DiffOptions) ([]SourceDiff, error) {
	var diffs []SourceDiff

	for i := 0; i < len(sources); i++ {
		if !sources[i].Valid {
			continue
		}
		for j := i + 1; j < len(sources); j++ {
			if !sources[j].Valid {
				continue
			}

			diff, err := CompareSources(sources[i], sources[j], opts)
			if err != nil {
				continue
			}

			if diff.HasInconsistencies() {
				diffs = append(diffs, *diff)
			}
		}
	}

	return diffs, nil
}
