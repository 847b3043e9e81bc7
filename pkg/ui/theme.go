package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals use the
// terminal's own background instead of a down-converted approximation
// that may clash with palettes like Solarized.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Selection states
	Checked   lipgloss.AdaptiveColor
	Unchecked lipgloss.AdaptiveColor
	Branch    lipgloss.AdaptiveColor
	MatchHit  lipgloss.AdaptiveColor
	MatchPath lipgloss.AdaptiveColor

	// Tree kinds
	Category  lipgloss.AdaptiveColor
	Geography lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style

	// Pre-computed row styles, created once at startup instead of per-frame
	MutedText     lipgloss.Style // tree prefix, position indicator
	SecondaryText lipgloss.Style // expand indicators, hints
	PrimaryBold   lipgloss.Style // cursor row name
	CheckedBox    lipgloss.Style // [x]
	UncheckedBox  lipgloss.Style // [ ]
	BranchBadge   lipgloss.Style // subtree-selectable marker
	HitText       lipgloss.Style // direct search match
	PathText      lipgloss.Style // ancestor of a search match
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}, // Dim

		Checked:   lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}, // Green
		Unchecked: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Branch:    lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}, // Cyan
		MatchHit:  lipgloss.AdaptiveColor{Light: "#7A5600", Dark: "#F1FA8C"}, // Yellow
		MatchPath: lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}, // Orange

		Category:  lipgloss.AdaptiveColor{Light: "#36B37E", Dark: "#57D9A3"}, // Green
		Geography: lipgloss.AdaptiveColor{Light: "#2684FF", Dark: "#4C9AFF"}, // Blue

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.SecondaryText = r.NewStyle().Foreground(t.Secondary)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.CheckedBox = r.NewStyle().Foreground(t.Checked).Bold(true)
	t.UncheckedBox = r.NewStyle().Foreground(t.Muted)
	t.BranchBadge = r.NewStyle().Foreground(t.Branch)
	t.HitText = r.NewStyle().Foreground(t.MatchHit).Bold(true)
	t.PathText = r.NewStyle().Foreground(t.MatchPath)

	return t
}

// KindColor returns the accent color for a tree kind name ("category" or
// "geography"). Unknown kinds fall back to the subtext color.
func (t Theme) KindColor(kind string) lipgloss.AdaptiveColor {
	switch kind {
	case "category":
		return t.Category
	case "geography":
		return t.Geography
	default:
		return t.Subtext
	}
}

// TestTheme returns a theme suitable for use in tests (uses nil renderer).
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
