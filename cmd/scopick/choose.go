package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/veldhuizen/scopick/internal/datasource"
)

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// chooseSource asks the user which of several valid catalog sources to open.
// Falls back to the freshest source when stdin is not a terminal.
func chooseSource(sources []datasource.DataSource) (datasource.DataSource, error) {
	if len(sources) == 0 {
		return datasource.DataSource{}, fmt.Errorf("no catalog sources to choose from")
	}
	if len(sources) == 1 || !isTerminal() {
		return datasource.SelectBestSource(sources)
	}

	options := make([]huh.Option[int], len(sources))
	for i, s := range sources {
		label := fmt.Sprintf("%s  (%s, %d items, %s)",
			filepath.Base(s.Path), s.Type, s.ItemCount, s.ModTime.Format("2006-01-02 15:04"))
		options[i] = huh.NewOption(label, i)
	}

	var choice int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Multiple catalog sources found").
				Description("Pick the one to open; the freshest is listed first").
				Options(options...).
				Value(&choice),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		return datasource.DataSource{}, fmt.Errorf("source selection cancelled: %w", err)
	}
	return sources[choice], nil
}
