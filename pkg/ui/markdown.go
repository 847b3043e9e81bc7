package ui

import (
	"github.com/charmbracelet/glamour"
)

// NewMarkdownRenderer builds the glamour renderer used for the help overlay
// and markdown previews. WithAutoStyle follows the terminal background, so
// the output matches the adaptive lipgloss palette without a custom style
// map.
func NewMarkdownRenderer(wrapWidth int) *glamour.TermRenderer {
	if wrapWidth <= 0 {
		wrapWidth = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		// Renderer construction only fails on invalid options; fall back to
		// a plain renderer rather than making every caller error-check.
		r, _ = glamour.NewTermRenderer(glamour.WithWordWrap(wrapWidth))
	}
	return r
}

// renderMarkdown renders markdown through the given renderer, returning the
// raw source when rendering fails so content is never silently dropped.
func renderMarkdown(r *glamour.TermRenderer, src string) string {
	if r == nil {
		return src
	}
	out, err := r.Render(src)
	if err != nil {
		return src
	}
	return out
}
