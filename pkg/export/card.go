package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"
)

// CardOptions controls scope card export behaviour.
type CardOptions struct {
	Path   string // Output path; format inferred from extension when Format empty
	Format string // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Scope  *Scope // Scope to render
}

// SaveScopeCard renders the scope as a static card (SVG or PNG): a header
// with the session facts and one column per tree listing the selected names.
func SaveScopeCard(opts CardOptions) error {
	if opts.Scope == nil || opts.Scope.Empty() {
		return fmt.Errorf("scope is empty, nothing to render")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg" // safe default
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout := buildCardLayout(opts.Scope)

	switch format {
	case "svg":
		return renderCardSVG(opts.Path, layout)
	case "png":
		return renderCardPNG(opts.Path, layout)
	default:
		return fmt.Errorf("unhandled format %q", format)
	}
}

// --- layout computation ----------------------------------------------------

// maxCardRows caps each column; longer selections get a "+N more" row.
const maxCardRows = 24

type cardColumn struct {
	Heading string
	Rows    []string
	X       float64
}

type cardLayout struct {
	Title     string
	Source    string
	Generated string
	Counts    string
	Columns   []cardColumn
	Width     int
	Height    int
	Header    float64
	RowH      float64
	ColW      float64
}

func buildCardLayout(s *Scope) cardLayout {
	const (
		padding      = 32.0
		headerHeight = 96.0
		rowHeight    = 18.0
		columnWidth  = 280.0
		columnGap    = 40.0
	)

	title := strings.TrimSpace(s.Title)
	if title == "" {
		title = "Market Scope"
	}

	at := s.GeneratedAt
	generated := ""
	if !at.IsZero() {
		generated = "generated: " + at.Format("2006-01-02 15:04")
	}

	counts := fmt.Sprintf("categories: %s   geographies: %s",
		countCell(len(s.Categories), s.CategoryTotal, s.AllCategories),
		countCell(len(s.Geographies), s.GeographyTotal, s.AllGeographies))

	columns := []cardColumn{
		{
			Heading: fmt.Sprintf("Categories (%d)", len(s.Categories)),
			Rows:    capRows(s.Categories),
			X:       padding,
		},
		{
			Heading: fmt.Sprintf("Geographies (%d)", len(s.Geographies)),
			Rows:    capRows(s.Geographies),
			X:       padding + columnWidth + columnGap,
		},
	}

	maxRows := 0
	for _, col := range columns {
		if len(col.Rows) > maxRows {
			maxRows = len(col.Rows)
		}
	}

	width := int(padding*2 + columnWidth*2 + columnGap)
	if width < 640 {
		width = 640
	}
	// heading row + names + breathing room below
	height := int(padding*2 + headerHeight + rowHeight*float64(maxRows+2))
	if height < 360 {
		height = 360
	}

	return cardLayout{
		Title:     title,
		Source:    s.Source,
		Generated: generated,
		Counts:    counts,
		Columns:   columns,
		Width:     width,
		Height:    height,
		Header:    headerHeight,
		RowH:      rowHeight,
		ColW:      columnWidth,
	}
}

func capRows(names []string) []string {
	if len(names) == 0 {
		return []string{"(none)"}
	}
	if len(names) <= maxCardRows {
		return names
	}
	rows := make([]string, 0, maxCardRows+1)
	rows = append(rows, names[:maxCardRows]...)
	rows = append(rows, fmt.Sprintf("+ %d more", len(names)-maxCardRows))
	return rows
}

// --- rendering -------------------------------------------------------------

var (
	colorStroke   = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorColumnBG = color.RGBA{0xee, 0xee, 0xee, 0xff}
	colorBullet   = color.RGBA{0x6b, 0x80, 0xbf, 0xff}
)

func renderCardPNG(path string, layout cardLayout) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	// header
	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(layout.Width)-32, layout.Header-24, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(colorText)
	dc.DrawStringAnchored(layout.Title, 32, 38, 0, 0.5)
	dc.SetColor(colorSubtle)
	if layout.Source != "" {
		dc.DrawStringAnchored("catalog: "+truncate(layout.Source, 70), 32, 56, 0, 0.5)
	}
	if layout.Generated != "" {
		dc.DrawStringAnchored(layout.Generated, 32, 72, 0, 0.5)
	}
	dc.DrawStringAnchored(layout.Counts, 32, layout.Header+8, 0, 0.5)

	for _, col := range layout.Columns {
		top := layout.Header + 28
		colH := layout.RowH*float64(len(col.Rows)+1) + 16

		dc.SetColor(colorColumnBG)
		dc.DrawRoundedRectangle(col.X-8, top-12, layout.ColW, colH, 8)
		dc.Fill()
		dc.SetColor(colorStroke)
		dc.SetLineWidth(1)
		dc.DrawRoundedRectangle(col.X-8, top-12, layout.ColW, colH, 8)
		dc.Stroke()

		dc.SetColor(colorText)
		dc.DrawStringAnchored(col.Heading, col.X, top, 0, 0.5)
		for i, row := range col.Rows {
			y := top + layout.RowH*float64(i+1)
			dc.SetColor(colorBullet)
			dc.DrawRectangle(col.X, y-4, 6, 6)
			dc.Fill()
			dc.SetColor(colorSubtle)
			dc.DrawStringAnchored(truncate(row, 36), col.X+12, y, 0, 0.5)
		}
	}

	return dc.SavePNG(path)
}

func renderCardSVG(path string, layout cardLayout) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return renderCardSVGToWriter(file, layout)
}

func renderCardSVGToWriter(w io.Writer, layout cardLayout) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(16, 16, layout.Width-32, int(layout.Header-24), 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))

	canvas.Text(32, 42, layout.Title, fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))
	if layout.Source != "" {
		canvas.Text(32, 60, "catalog: "+truncate(layout.Source, 70), fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
	}
	if layout.Generated != "" {
		canvas.Text(32, 76, layout.Generated, fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
	}
	canvas.Text(32, int(layout.Header)+12, layout.Counts, fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))

	for _, col := range layout.Columns {
		top := int(layout.Header) + 28
		colH := int(layout.RowH*float64(len(col.Rows)+1)) + 16

		canvas.Roundrect(int(col.X)-8, top-12, int(layout.ColW), colH, 8, 8,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(colorColumnBG), css(colorStroke)))
		canvas.Text(int(col.X), top+4, col.Heading,
			fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(colorText)))
		for i, row := range col.Rows {
			y := top + int(layout.RowH)*(i+1)
			canvas.Rect(int(col.X), y-4, 6, 6, fmt.Sprintf("fill:%s", css(colorBullet)))
			canvas.Text(int(col.X)+12, y+4, truncate(row, 36),
				fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
		}
	}

	canvas.End()
	return nil
}

// --- helpers ---------------------------------------------------------------

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
