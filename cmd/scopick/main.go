package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/veldhuizen/scopick/internal/datasource"
	"github.com/veldhuizen/scopick/pkg/catalog"
	"github.com/veldhuizen/scopick/pkg/config"
	"github.com/veldhuizen/scopick/pkg/export"
	"github.com/veldhuizen/scopick/pkg/logutils"
	"github.com/veldhuizen/scopick/pkg/metrics"
	"github.com/veldhuizen/scopick/pkg/ui"
	"github.com/veldhuizen/scopick/pkg/version"
)

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	dataFlag := flag.String("data", "", "Catalog file, directory, or registered catalog name")
	configFlag := flag.String("config", "", "Config file path (default: XDG config dir)")
	exportDirFlag := flag.String("export-dir", "", "Directory for exported scopes (default: working directory)")
	logFileFlag := flag.String("log-file", "", "Session log file (default: XDG state dir)")
	logLevelFlag := flag.String("log-level", "", "Log level: debug, info, warn, error")
	checkFlag := flag.Bool("check", false, "Compare discovered catalog sources for consistency and exit")
	lintScopeFlag := flag.String("lint-scope", "", "Check an exported scope file against the catalog and exit")
	flag.Parse()

	// CPU profiling support
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: scopick [options]")
		fmt.Println("\nA terminal wizard for picking market scopes from a product catalog.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("scopick %s\n", version.Version)
		os.Exit(0)
	}

	// An explicitly named config file must exist; the implicit XDG one is
	// optional and falls back to defaults.
	var cfg config.Config
	if *configFlag != "" {
		if _, err := os.Stat(*configFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		var err error
		cfg, err = config.LoadFrom(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	} else {
		var err error
		cfg, err = config.Load()
		if err != nil {
			// Non-fatal: continue with defaults
			cfg = config.DefaultConfig()
		}
	}

	// Flags override the config file
	if *exportDirFlag != "" {
		cfg.Export.Dir = *exportDirFlag
	}
	if *logFileFlag != "" {
		cfg.Log.File = *logFileFlag
	}
	if *logLevelFlag != "" {
		cfg.Log.Level = *logLevelFlag
	}

	logger, closeLogs := setupLogger(cfg)
	defer closeLogs()

	if *checkFlag {
		os.Exit(runCheck(*dataFlag, cfg, logger))
	}

	source, err := resolveSource(*dataFlag, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cat, report, err := datasource.BuildFromSource(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading catalog %s: %v\n", source.Path, err)
		os.Exit(1)
	}

	logger.Info().
		Str("source", source.Path).
		Str("type", string(source.Type)).
		Str("catalog", report.Summary()).
		Msg("catalog loaded")
	if !report.Clean() {
		logger.Warn().Str("issues", report.Summary()).Msg("catalog has data issues")
	}

	if *lintScopeFlag != "" {
		os.Exit(runLintScope(*lintScopeFlag, cat))
	}

	m := ui.NewModel(cat, report, source, cfg, logger)
	defer m.Close()

	final, err := runTUIProgram(m)
	if err != nil {
		fmt.Printf("Error running scopick: %v\n", err)
		os.Exit(1)
	}
	if stats := metrics.AllTimingStats(); len(stats) > 0 {
		logger.Info().Interface("timings", stats).Msg("session timings")
	}
	if final.Finished() {
		fmt.Printf("Scope written to %s\n", final.ExportedScopePath())
	}
}

// setupLogger opens the session log file. Logging never blocks startup; on
// failure the session simply runs without a log.
func setupLogger(cfg config.Config) (zerolog.Logger, func()) {
	level := cfg.Log.Level
	if level == "" {
		level = "info"
	}
	file := cfg.Log.File
	if file == "" {
		file = config.DefaultLogPath()
	}
	if file == "" {
		// No resolvable state dir and no explicit file. Logging to stdout
		// would corrupt the TUI, so drop the log instead.
		return zerolog.Nop(), func() {}
	}

	logger, closer, err := logutils.New(level, file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: session log unavailable: %v\n", err)
		return zerolog.Nop(), func() {}
	}
	return logger, closer
}

// resolveSource turns the --data flag into a concrete catalog source. The
// flag may name a file, a directory, or a catalog registered in the config;
// empty means discover in the configured data directories.
func resolveSource(dataFlag string, cfg config.Config, logger zerolog.Logger) (datasource.DataSource, error) {
	if dataFlag != "" {
		if info, err := os.Stat(dataFlag); err == nil {
			if info.IsDir() {
				return discoverIn(datasource.DiscoveryOptions{
					DataDir:                dataFlag,
					ValidateAfterDiscovery: true,
				}, logger)
			}
			return datasource.SourceForFile(dataFlag)
		}

		if ref := cfg.FindCatalog(dataFlag); ref != nil {
			path := ref.ResolvedPath()
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				return discoverIn(datasource.DiscoveryOptions{
					DataDir:                path,
					ValidateAfterDiscovery: true,
				}, logger)
			}
			return datasource.SourceForFile(path)
		}

		return datasource.DataSource{}, fmt.Errorf("no such catalog file or registered name: %s", dataFlag)
	}

	return discoverIn(datasource.DiscoveryOptions{
		DataDir:                cfg.DataDir,
		ExtraDirs:              []string{config.DataDir()},
		ValidateAfterDiscovery: true,
	}, logger)
}

// discoverIn runs source discovery and narrows the result to one source,
// prompting when several valid candidates remain.
func discoverIn(opts datasource.DiscoveryOptions, logger zerolog.Logger) (datasource.DataSource, error) {
	opts.Verbose = true
	opts.Logger = func(msg string) { logger.Debug().Msg(msg) }

	sources, err := datasource.DiscoverSources(opts)
	if err != nil {
		return datasource.DataSource{}, err
	}
	switch len(sources) {
	case 0:
		return datasource.DataSource{}, fmt.Errorf("no catalog found; pass --data or put a catalog.db/.json in the working directory")
	case 1:
		return sources[0], nil
	}
	return chooseSource(sources)
}

// runCheck discovers every source and compares them pairwise. Exit code 1
// means at least one pair disagrees.
func runCheck(dataFlag string, cfg config.Config, logger zerolog.Logger) int {
	opts := datasource.DiscoveryOptions{
		DataDir:                cfg.DataDir,
		ExtraDirs:              []string{config.DataDir()},
		ValidateAfterDiscovery: true,
		IncludeInvalid:         true,
		Verbose:                true,
		Logger:                 func(msg string) { logger.Debug().Msg(msg) },
	}
	if dataFlag != "" {
		dir := dataFlag
		if info, err := os.Stat(dir); err == nil && !info.IsDir() {
			dir = filepath.Dir(dir)
		}
		opts.DataDir = dir
		opts.ExtraDirs = nil
	}

	sources, err := datasource.DiscoverSources(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error discovering sources: %v\n", err)
		return 1
	}

	valid := 0
	for _, s := range sources {
		fmt.Println(s.String())
		if s.Valid {
			valid++
		}
	}
	if valid < 2 {
		fmt.Println("Nothing to compare: fewer than two valid sources.")
		return 0
	}

	diffs, err := datasource.CheckAllSourcesConsistent(sources, datasource.DefaultDiffOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error comparing sources: %v\n", err)
		return 1
	}
	if len(diffs) == 0 {
		fmt.Printf("All %d valid sources are consistent.\n", valid)
		return 0
	}
	for _, d := range diffs {
		fmt.Println(d.Summary())
	}
	return 1
}

// runLintScope verifies that every name in an exported scope still resolves
// in the current catalog. Selections travel by name, so a renamed or removed
// entry silently drops out of a re-imported scope; this makes that visible.
func runLintScope(scopePath string, cat *catalog.Catalog) int {
	scope, err := export.ReadScope(scopePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	missing := 0
	missing += reportMissingNames("category", scope.Categories, cat.CategoryNodes())
	missing += reportMissingNames("geography", scope.Geographies, cat.GeographyNodes())

	if missing > 0 {
		fmt.Printf("%d selected names no longer resolve in the catalog.\n", missing)
		return 1
	}
	fmt.Printf("Scope %s is consistent with the catalog (%d categories, %d geographies).\n",
		filepath.Base(scopePath), len(scope.Categories), len(scope.Geographies))
	return 0
}

func reportMissingNames(kind string, names []string, roots []catalog.Node) int {
	missing := 0
	for _, name := range names {
		if catalog.FindByName(roots, name) == nil {
			fmt.Printf("  missing %s: %s\n", kind, name)
			missing++
		}
	}
	return missing
}

func runTUIProgram(m ui.Model) (ui.Model, error) {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set SCOPICK_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("SCOPICK_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	final, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		err = nil
	}
	if out, ok := final.(ui.Model); ok {
		return out, err
	}
	return m, err
}
