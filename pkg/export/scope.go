// Package export writes finished market scopes to disk: a machine-readable
// JSON file, a markdown summary, and a rendered card in SVG or PNG.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// Scope is the durable result of a picking session: the selected names per
// tree, plus enough context to read the file a year later.
type Scope struct {
	Title          string    `json:"title,omitempty"`
	Source         string    `json:"source,omitempty"`
	GeneratedAt    time.Time `json:"generated_at"`
	AllCategories  bool      `json:"all_categories"`
	AllGeographies bool      `json:"all_geographies"`
	CategoryTotal  int       `json:"category_total,omitempty"`
	GeographyTotal int       `json:"geography_total,omitempty"`
	Categories     []string  `json:"categories"`
	Geographies    []string  `json:"geographies"`
}

// Empty reports whether the scope selects nothing at all.
func (s *Scope) Empty() bool {
	return len(s.Categories) == 0 && len(s.Geographies) == 0
}

// DefaultBasename returns a timestamped basename (no extension) for exports.
func (s *Scope) DefaultBasename() string {
	at := s.GeneratedAt
	if at.IsZero() {
		at = time.Now()
	}
	return "scope-" + at.Format("20060102-150405")
}

// WriteJSON writes the scope as indented JSON.
func (s *Scope) WriteJSON(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling scope: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing scope: %w", err)
	}
	return nil
}

// ReadScope loads a previously exported scope, e.g. to resume a session.
func ReadScope(path string) (*Scope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scope: %w", err)
	}
	var s Scope
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scope %s: %w", path, err)
	}
	return &s, nil
}

// Markdown renders the scope as a human-readable markdown summary.
func (s *Scope) Markdown() string {
	var sb strings.Builder

	title := strings.TrimSpace(s.Title)
	if title == "" {
		title = "Market Scope"
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))

	at := s.GeneratedAt
	if at.IsZero() {
		at = time.Now()
	}
	sb.WriteString(fmt.Sprintf("*Generated: %s*\n\n", at.Format(time.RFC1123)))
	if s.Source != "" {
		sb.WriteString(fmt.Sprintf("*Catalog: %s*\n\n", s.Source))
	}

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Tree | Selected |\n|------|----------|\n")
	sb.WriteString(fmt.Sprintf("| Categories | %s |\n", countCell(len(s.Categories), s.CategoryTotal, s.AllCategories)))
	sb.WriteString(fmt.Sprintf("| Geographies | %s |\n\n", countCell(len(s.Geographies), s.GeographyTotal, s.AllGeographies)))

	writeNameSection(&sb, "Categories", s.Categories)
	writeNameSection(&sb, "Geographies", s.Geographies)

	return sb.String()
}

// WriteMarkdown writes the markdown summary to path.
func (s *Scope) WriteMarkdown(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(s.Markdown()), 0o644); err != nil {
		return fmt.Errorf("writing markdown: %w", err)
	}
	return nil
}

func countCell(selected, total int, all bool) string {
	cell := fmt.Sprintf("%d", selected)
	if total > 0 {
		cell = fmt.Sprintf("%d of %d", selected, total)
	}
	if all {
		cell += " (all)"
	}
	return cell
}

func writeNameSection(sb *strings.Builder, heading string, names []string) {
	sb.WriteString(fmt.Sprintf("## %s\n\n", heading))
	if len(names) == 0 {
		sb.WriteString("*none selected*\n\n")
		return
	}
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("- %s\n", name))
	}
	sb.WriteString("\n")
}
