package ui

import (
	"testing"
	"time"
)

func TestTruncateRunesHelper(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		suffix   string
		want     string
	}{
		{"fits exactly", "hello", 5, "…", "hello"},
		{"shorter than max", "hi", 10, "…", "hi"},
		{"needs truncation", "hello world", 8, "…", "hello w…"},
		{"zero width", "hello", 0, "…", ""},
		{"negative width", "hello", -1, "…", ""},
		{"width one", "hello", 1, "…", "…"},
		{"empty string", "", 5, "…", ""},
		{"multibyte names survive", "Köln Region", 20, "…", "Köln Region"},
		{"multibyte truncation", "Köln Region", 6, "…", "Köln …"},
		{"wide runes counted as cells", "東京都区部", 5, "…", "東京…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateRunesHelper(tt.input, tt.maxWidth, tt.suffix)
			if got != tt.want {
				t.Errorf("truncateRunesHelper(%q, %d, %q) = %q, want %q",
					tt.input, tt.maxWidth, tt.suffix, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abc", 3, "abc"},
		{"abc", 2, "abc"},
		{"", 3, "   "},
	}

	for _, tt := range tests {
		if got := padRight(tt.input, tt.width); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
		}
	}
}

func TestPluralize(t *testing.T) {
	if got := pluralize(1, "match", "matches"); got != "match" {
		t.Errorf("pluralize(1) = %q, want 'match'", got)
	}
	if got := pluralize(0, "match", "matches"); got != "matches" {
		t.Errorf("pluralize(0) = %q, want 'matches'", got)
	}
	if got := pluralize(7, "match", "matches"); got != "matches" {
		t.Errorf("pluralize(7) = %q, want 'matches'", got)
	}
}

func TestFormatTimeRel(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero time", time.Time{}, "unknown"},
		{"future", now.Add(time.Hour), "now"},
		{"seconds ago", now.Add(-30 * time.Second), "now"},
		{"minutes ago", now.Add(-5 * time.Minute), "5m ago"},
		{"hours ago", now.Add(-3 * time.Hour), "3h ago"},
		{"days ago", now.Add(-49 * time.Hour), "2d ago"},
		{"weeks ago", now.Add(-8 * 24 * time.Hour), "1w ago"},
		{"months ago", now.Add(-65 * 24 * time.Hour), "2mo ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimeRel(tt.t); got != tt.want {
				t.Errorf("FormatTimeRel = %q, want %q", got, tt.want)
			}
		})
	}
}
