package ui

import (
	"fmt"
	"strings"

	"github.com/veldhuizen/scopick/pkg/catalog"
)

// reviewEntry is one selectable line on the review step: a name from one of
// the two host lists.
type reviewEntry struct {
	Kind catalog.Kind
	Name string
}

// ReviewModel is the final wizard step: both selected-name lists in one
// scrollable pane with a cursor, so single items can be deselected without
// going back to a tree.
type ReviewModel struct {
	theme   Theme
	entries []reviewEntry
	// section sizes, kept so headers render between the right rows
	categoryCount  int
	geographyCount int

	cursor         int
	viewportOffset int
	width          int
	height         int
}

// NewReviewModel creates an empty review pane.
func NewReviewModel(theme Theme) ReviewModel {
	return ReviewModel{theme: theme}
}

// SetNames rebuilds the entry list from the two host lists. The cursor is
// clamped so deleting the last entry keeps it valid.
func (rv *ReviewModel) SetNames(categories, geographies []string) {
	rv.entries = rv.entries[:0]
	for _, name := range categories {
		rv.entries = append(rv.entries, reviewEntry{Kind: catalog.KindCategory, Name: name})
	}
	for _, name := range geographies {
		rv.entries = append(rv.entries, reviewEntry{Kind: catalog.KindGeography, Name: name})
	}
	rv.categoryCount = len(categories)
	rv.geographyCount = len(geographies)

	if rv.cursor >= len(rv.entries) {
		rv.cursor = len(rv.entries) - 1
	}
	if rv.cursor < 0 {
		rv.cursor = 0
	}
	rv.ensureCursorVisible()
}

// SetSize updates the pane dimensions in cells.
func (rv *ReviewModel) SetSize(width, height int) {
	rv.width = width
	rv.height = height
	rv.ensureCursorVisible()
}

// Empty reports whether nothing is selected in either list.
func (rv *ReviewModel) Empty() bool { return len(rv.entries) == 0 }

// Cursor returns the cursor index into the combined entries.
func (rv *ReviewModel) Cursor() int { return rv.cursor }

// CursorEntry returns the highlighted entry, or false when the pane is
// empty.
func (rv *ReviewModel) CursorEntry() (reviewEntry, bool) {
	if rv.cursor < 0 || rv.cursor >= len(rv.entries) {
		return reviewEntry{}, false
	}
	return rv.entries[rv.cursor], true
}

// MoveUp moves the cursor one entry up.
func (rv *ReviewModel) MoveUp() {
	if rv.cursor > 0 {
		rv.cursor--
		rv.ensureCursorVisible()
	}
}

// MoveDown moves the cursor one entry down.
func (rv *ReviewModel) MoveDown() {
	if rv.cursor < len(rv.entries)-1 {
		rv.cursor++
		rv.ensureCursorVisible()
	}
}

// GotoTop jumps to the first entry.
func (rv *ReviewModel) GotoTop() {
	rv.cursor = 0
	rv.ensureCursorVisible()
}

// GotoBottom jumps to the last entry.
func (rv *ReviewModel) GotoBottom() {
	if len(rv.entries) > 0 {
		rv.cursor = len(rv.entries) - 1
	}
	rv.ensureCursorVisible()
}

// lineFor maps an entry index to its display line. Layout per buildLines:
// categories header, category entries (or one filler), blank, geographies
// header, geography entries (or one filler).
func (rv *ReviewModel) lineFor(idx int) int {
	if idx < rv.categoryCount {
		return 1 + idx // categories header on line 0
	}
	catBlock := rv.categoryCount
	if catBlock == 0 {
		catBlock = 1 // "none selected" filler
	}
	return 1 + catBlock + 2 + (idx - rv.categoryCount)
}

func (rv *ReviewModel) totalLines() int {
	catBlock := rv.categoryCount
	if catBlock == 0 {
		catBlock = 1
	}
	geoBlock := rv.geographyCount
	if geoBlock == 0 {
		geoBlock = 1
	}
	return 1 + catBlock + 2 + geoBlock
}

func (rv *ReviewModel) rowWindow() int {
	h := rv.height
	if h <= 0 {
		h = 20
	}
	if rv.totalLines() > h {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (rv *ReviewModel) ensureCursorVisible() {
	if len(rv.entries) == 0 {
		rv.viewportOffset = 0
		return
	}
	window := rv.rowWindow()
	line := rv.lineFor(rv.cursor)
	if line < rv.viewportOffset {
		rv.viewportOffset = line
	}
	if line >= rv.viewportOffset+window {
		rv.viewportOffset = line - window + 1
	}
	if rv.viewportOffset < 0 {
		rv.viewportOffset = 0
	}
}

// View renders the combined list with section headers and the cursor row
// highlighted.
func (rv *ReviewModel) View() string {
	width := rv.width
	if width <= 0 {
		width = 80
	}
	width = width - 1

	lines := rv.buildLines(width)

	window := rv.rowWindow()
	start := rv.viewportOffset
	if start > len(lines)-window {
		start = len(lines) - window
	}
	if start < 0 {
		start = 0
	}
	end := start + window
	if end > len(lines) {
		end = len(lines)
	}

	var sb strings.Builder
	for i := start; i < end; i++ {
		sb.WriteString(lines[i])
		sb.WriteString("\n")
	}
	if len(lines) > window {
		sb.WriteString(rv.theme.MutedText.Render(
			fmt.Sprintf("(%d-%d of %d lines)", start+1, end, len(lines))))
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func (rv *ReviewModel) buildLines(width int) []string {
	var lines []string

	lines = append(lines, rv.sectionHeader(catalog.KindCategory, rv.categoryCount))
	if rv.categoryCount == 0 {
		lines = append(lines, rv.theme.MutedText.Render("  none selected"))
	} else {
		for i := 0; i < rv.categoryCount; i++ {
			lines = append(lines, rv.renderEntry(i, width))
		}
	}

	lines = append(lines, "")
	lines = append(lines, rv.sectionHeader(catalog.KindGeography, rv.geographyCount))
	if rv.geographyCount == 0 {
		lines = append(lines, rv.theme.MutedText.Render("  none selected"))
	} else {
		for i := rv.categoryCount; i < len(rv.entries); i++ {
			lines = append(lines, rv.renderEntry(i, width))
		}
	}

	return lines
}

func (rv *ReviewModel) sectionHeader(kind catalog.Kind, count int) string {
	return fmt.Sprintf("%s %s (%d)", RenderKindBadge(kind.String()), kindPlural(kind), count)
}

func (rv *ReviewModel) renderEntry(idx int, width int) string {
	entry := rv.entries[idx]
	isCursor := idx == rv.cursor

	prefix := "  "
	style := rv.theme.Base
	if isCursor {
		prefix = "❯ "
		style = rv.theme.PrimaryBold
	}

	name := truncateRunesHelper(entry.Name, width-4, "…")
	return rv.theme.SecondaryText.Render(prefix) + style.Render(name)
}
