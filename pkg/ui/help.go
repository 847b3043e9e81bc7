package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// helpMarkdown is the help overlay source, rendered through glamour so the
// overlay picks up the terminal's markdown styling.
const helpMarkdown = `# scopick keys

## Navigation

| Key | Action |
|-----|--------|
| j / ↓, k / ↑ | move cursor |
| g / G | first / last row |
| ctrl+d / ctrl+u | half page down / up |
| enter / → | expand or collapse branch |
| h / ← | collapse, or jump to parent |
| tab | focus sidebar (scroll with j/k) |
| ] / [ | next / previous step |

## Selecting

| Key | Action |
|-----|--------|
| space | toggle item |
| a | select all / clear all |
| b | toggle whole branch (marked ≡) |
| o | toggle leaves only |

## Search

| Key | Action |
|-----|--------|
| / | start typing a filter |
| enter | keep filter, back to tree |
| esc | clear filter and expansion |

## Review step

| Key | Action |
|-----|--------|
| x | deselect highlighted item |
| C | clear highlighted list |
| Z | clear both lists |
| y | copy names to clipboard |
| e / m / s / p | export JSON / markdown / SVG / PNG |
| enter | write scope and quit |

Press ? or esc to close this help. q quits scopick.
`

// renderHelpOverlay renders the glamour help screen centered in the window,
// scrolled by helpScroll lines.
func (m *Model) renderHelpOverlay() string {
	contentWidth := m.width - 8
	if contentWidth > 86 {
		contentWidth = 86
	}
	if contentWidth < 30 {
		contentWidth = 30
	}

	rendered := renderMarkdown(m.renderer, helpMarkdown)
	lines := strings.Split(strings.TrimRight(rendered, "\n"), "\n")

	maxVisible := m.height - 4
	if maxVisible < 5 {
		maxVisible = 5
	}

	start := m.helpScroll
	if start > len(lines)-maxVisible {
		start = len(lines) - maxVisible
	}
	if start < 0 {
		start = 0
	}
	end := start + maxVisible
	if end > len(lines) {
		end = len(lines)
	}

	body := strings.Join(lines[start:end], "\n")
	if len(lines) > maxVisible {
		body += "\n" + m.theme.MutedText.Render("(j/k to scroll)")
	}

	box := m.theme.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Primary).
		Padding(0, 2).
		MaxWidth(contentWidth + 6).
		Render(body)

	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, box)
}

// helpLineCount returns how many lines the rendered help occupies, for
// clamping scroll input.
func (m *Model) helpLineCount() int {
	rendered := renderMarkdown(m.renderer, helpMarkdown)
	return len(strings.Split(strings.TrimRight(rendered, "\n"), "\n"))
}
