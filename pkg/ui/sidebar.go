package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/veldhuizen/scopick/pkg/catalog"
)

// SidebarModel is the selected-names panel shown next to a picking tree. It
// is read-only during picking (editing happens on the review step); the
// viewport only gives it scrolling when the list outgrows the pane.
type SidebarModel struct {
	theme    Theme
	kind     catalog.Kind
	names    []string
	total    int
	all      bool
	viewport viewport.Model
	width    int
	height   int
}

// NewSidebarModel creates the panel for one catalog kind.
func NewSidebarModel(kind catalog.Kind, theme Theme) SidebarModel {
	vp := viewport.New(30, 20)
	return SidebarModel{
		theme:    theme,
		kind:     kind,
		viewport: vp,
	}
}

// SetNames installs the current selection: the host-owned names list, the
// node count of the tree, and whether the everything-selected flag is on.
func (s *SidebarModel) SetNames(names []string, total int, all bool) {
	s.names = names
	s.total = total
	s.all = all
	s.viewport.SetContent(s.renderList())
}

// SetSize updates the panel dimensions in cells.
func (s *SidebarModel) SetSize(width, height int) {
	s.width = width
	s.height = height
	// Header and divider take two lines above the scrolling list.
	vpHeight := height - 2
	if vpHeight < 1 {
		vpHeight = 1
	}
	s.viewport.Width = width
	s.viewport.Height = vpHeight
	s.viewport.SetContent(s.renderList())
}

// ScrollDown scrolls the name list down.
func (s *SidebarModel) ScrollDown(lines int) { s.viewport.LineDown(lines) }

// ScrollUp scrolls the name list up.
func (s *SidebarModel) ScrollUp(lines int) { s.viewport.LineUp(lines) }

// View renders the panel: a kind-colored header with the tally, a divider,
// and the scrollable name list.
func (s *SidebarModel) View() string {
	width := s.width
	if width <= 0 {
		width = 30
	}

	badge := RenderKindBadge(s.kind.String())
	tally := RenderCountBadge(len(s.names), s.total)
	header := fmt.Sprintf("%s %s %s", badge, kindPlural(s.kind), tally)
	if s.all {
		header += " " + s.theme.CheckedBox.Render("all")
	}

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")
	sb.WriteString(RenderDivider(width))
	sb.WriteString("\n")
	sb.WriteString(s.viewport.View())
	return sb.String()
}

func (s *SidebarModel) renderList() string {
	if len(s.names) == 0 {
		return s.theme.MutedText.Render("nothing selected")
	}

	width := s.viewport.Width
	if width <= 0 {
		width = 30
	}

	var sb strings.Builder
	for _, name := range s.names {
		sb.WriteString(s.theme.SecondaryText.Render("· "))
		sb.WriteString(s.theme.Base.Render(truncateRunesHelper(name, width-3, "…")))
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// kindPlural returns the display heading for a catalog kind.
func kindPlural(kind catalog.Kind) string {
	switch kind {
	case catalog.KindCategory:
		return "Categories"
	case catalog.KindGeography:
		return "Geographies"
	default:
		return string(kind)
	}
}

// renderPanelFrame wraps content in the shared rounded-border panel style,
// highlighted when focused.
func renderPanelFrame(content string, width, height int, focused bool) string {
	style := PanelStyle
	if focused {
		style = FocusedPanelStyle
	}
	return style.
		Width(width).
		Height(height).
		MaxHeight(height + 2).
		Render(content)
}

// joinPanes places two panes side by side, top-aligned.
func joinPanes(left, right string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}
