package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/veldhuizen/scopick/internal/datasource"
	"github.com/veldhuizen/scopick/pkg/bus"
	"github.com/veldhuizen/scopick/pkg/catalog"
	"github.com/veldhuizen/scopick/pkg/config"
	"github.com/veldhuizen/scopick/pkg/debug"
	"github.com/veldhuizen/scopick/pkg/export"
	"github.com/veldhuizen/scopick/pkg/logutils"
	"github.com/veldhuizen/scopick/pkg/metrics"
	"github.com/veldhuizen/scopick/pkg/search"
	"github.com/veldhuizen/scopick/pkg/selection"
	"github.com/veldhuizen/scopick/pkg/version"
	"github.com/veldhuizen/scopick/pkg/watcher"
)

// focus identifies which pane receives navigation keys.
type focus int

const (
	focusTree focus = iota
	focusSidebar
	focusSearch
	focusReview
	focusHelp
)

// step is the wizard position: pick categories, pick geographies, review.
type step int

const (
	stepCategories step = iota
	stepGeographies
	stepReview
)

func (s step) String() string {
	switch s {
	case stepCategories:
		return "Categories"
	case stepGeographies:
		return "Geographies"
	case stepReview:
		return "Review"
	default:
		return "?"
	}
}

// kind returns the catalog kind a picking step operates on. Review has no
// kind of its own.
func (s step) kind() catalog.Kind {
	if s == stepGeographies {
		return catalog.KindGeography
	}
	return catalog.KindCategory
}

// FileChangedMsg signals that the catalog source changed on disk.
type FileChangedMsg struct{}

// WatchFileCmd returns a command that blocks on the watcher's change channel
// and converts the next event into a FileChangedMsg. Re-issue it after every
// message to keep listening.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// scopeState holds the two host-owned selected-name lists. It lives behind a
// pointer so picker Bind closures and every copy of the Bubble Tea model see
// the same lists.
type scopeState struct {
	Categories  []string
	Geographies []string
}

func (st *scopeState) names(kind catalog.Kind) []string {
	if kind == catalog.KindGeography {
		return st.Geographies
	}
	return st.Categories
}

func (st *scopeState) setNames(kind catalog.Kind, names []string) {
	if kind == catalog.KindGeography {
		st.Geographies = names
		return
	}
	st.Categories = names
}

// Model is the Bubble Tea model for the scope wizard.
type Model struct {
	// Data
	source   datasource.DataSource
	cat      *catalog.Catalog
	catTotal int
	geoTotal int

	// Selection plumbing
	state     *scopeState
	bus       *bus.Bus
	catPicker *selection.Picker
	geoPicker *selection.Picker

	// Panes
	catTree    TreeModel
	geoTree    TreeModel
	catSidebar SidebarModel
	geoSidebar SidebarModel
	review     ReviewModel

	// Search
	searchInput  textinput.Model
	searchActive bool
	matchCount   int

	// View state
	step          step
	focused       focus
	showHelp      bool
	helpScroll    int
	width         int
	height        int
	ready         bool
	statusMsg     string
	statusIsError bool

	// Ambient
	theme     Theme
	renderer  *glamour.TermRenderer
	watcher   *watcher.Watcher
	logger    zerolog.Logger
	appConfig config.Config
	exportDir string

	// Result of the session, read by the caller after the program exits.
	exportedPath string
	finished     bool
}

// NewModel builds the wizard for a loaded catalog. The source is watched for
// changes when it has a path; cfg supplies expansion defaults, the sidebar
// ratio, and the export directory.
func NewModel(cat *catalog.Catalog, report *catalog.BuildReport, source datasource.DataSource, cfg config.Config, logger zerolog.Logger) Model {
	theme := DefaultTheme(themedRenderer(cfg))

	state := &scopeState{}
	b := bus.NewWithLogger(logutils.Component(logger, "bus"))

	catPicker := selection.New(selection.Config{
		Kind:              catalog.KindCategory,
		InitiallyExpanded: cfg.ExpandCategories(),
	})
	geoPicker := selection.New(selection.Config{
		Kind:              catalog.KindGeography,
		InitiallyExpanded: cfg.ExpandGeographies(),
	})
	catPicker.Bind(func(names []string) { state.Categories = names })
	geoPicker.Bind(func(names []string) { state.Geographies = names })
	catPicker.Attach(b)
	geoPicker.Attach(b)

	catRoots := cat.CategoryNodes()
	geoRoots := cat.GeographyNodes()
	catPicker.SetTree(catRoots, state.Categories)
	geoPicker.SetTree(geoRoots, state.Geographies)

	catTree := NewTreeModel(catalog.KindCategory, catPicker, theme)
	catTree.SetRoots(catRoots)
	geoTree := NewTreeModel(catalog.KindGeography, geoPicker, theme)
	geoTree.SetRoots(geoRoots)

	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.CharLimit = 60
	ti.Width = 30

	// Watch the source for live reload. Failure is not fatal; the wizard
	// still works, just without refresh.
	var fileWatcher *watcher.Watcher
	var watcherErr error
	if source.Path != "" {
		w, err := watcher.NewWatcher(source.Path,
			watcher.WithDebounceDuration(200*time.Millisecond),
		)
		if err != nil {
			watcherErr = err
		} else if err := w.Start(); err != nil {
			watcherErr = err
		} else {
			fileWatcher = w
		}
	}

	var initialStatus string
	var initialStatusErr bool
	switch {
	case watcherErr != nil:
		initialStatus = fmt.Sprintf("Live reload unavailable: %v", watcherErr)
		initialStatusErr = true
	case report != nil && !report.Clean():
		initialStatus = "Loaded with data issues: " + report.Summary()
	}

	exportDir := cfg.Export.Dir
	if exportDir == "" {
		exportDir = "."
	}

	// Default dimensions for immediate ready state (updated when
	// WindowSizeMsg arrives), so slow terminals never sit on a blank
	// "Initializing" frame.
	const defaultWidth = 120
	const defaultHeight = 40

	m := Model{
		source:      source,
		cat:         cat,
		catTotal:    catalog.CountNodes(catRoots),
		geoTotal:    catalog.CountNodes(geoRoots),
		state:       state,
		bus:         b,
		catPicker:   catPicker,
		geoPicker:   geoPicker,
		catTree:     catTree,
		geoTree:     geoTree,
		catSidebar:  NewSidebarModel(catalog.KindCategory, theme),
		geoSidebar:  NewSidebarModel(catalog.KindGeography, theme),
		review:      NewReviewModel(theme),
		searchInput: ti,
		step:        stepCategories,
		focused:     focusTree,
		theme:       theme,
		renderer:    NewMarkdownRenderer(80),
		watcher:     fileWatcher,
		logger:      logutils.Component(logger, "ui"),
		appConfig:   cfg,
		exportDir:   exportDir,

		ready:         true,
		width:         defaultWidth,
		height:        defaultHeight,
		statusMsg:     initialStatus,
		statusIsError: initialStatusErr,
	}
	m.recalcSizes()
	m.refreshPanes()
	return m
}

// themedRenderer maps the configured theme name onto the lipgloss renderer's
// background assumption; adaptive colors resolve from it.
func themedRenderer(cfg config.Config) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(os.Stdout)
	switch strings.ToLower(cfg.UI.Theme) {
	case "light":
		r.SetHasDarkBackground(false)
	case "dark":
		r.SetHasDarkBackground(true)
	}
	return r
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.watcher != nil {
		cmds = append(cmds, WatchFileCmd(m.watcher))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Close stops the file watcher. Call after the program exits.
func (m Model) Close() {
	if m.watcher != nil {
		m.watcher.Stop()
	}
}

// ── Accessors for the caller and for tests ──

// SelectedCategories returns a copy of the selected category names.
func (m Model) SelectedCategories() []string {
	return append([]string(nil), m.state.Categories...)
}

// SelectedGeographies returns a copy of the selected geography names.
func (m Model) SelectedGeographies() []string {
	return append([]string(nil), m.state.Geographies...)
}

// ExportedScopePath returns the path of the scope file written on finish, or
// empty when the session quit without exporting.
func (m Model) ExportedScopePath() string { return m.exportedPath }

// Finished reports whether the session ended by writing the scope (rather
// than plain quit).
func (m Model) Finished() bool { return m.finished }

// StepName returns the current wizard step for status surfaces.
func (m Model) StepName() string { return m.step.String() }

// FocusState returns the focus name, for tests.
func (m Model) FocusState() string {
	switch m.focused {
	case focusTree:
		return "tree"
	case focusSidebar:
		return "sidebar"
	case focusSearch:
		return "search"
	case focusReview:
		return "review"
	case focusHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ── Active-step helpers ──

func (m *Model) activePicker() *selection.Picker {
	if m.step == stepGeographies {
		return m.geoPicker
	}
	return m.catPicker
}

func (m *Model) activeTree() *TreeModel {
	if m.step == stepGeographies {
		return &m.geoTree
	}
	return &m.catTree
}

func (m *Model) activeSidebar() *SidebarModel {
	if m.step == stepGeographies {
		return &m.geoSidebar
	}
	return &m.catSidebar
}

func (m *Model) fullRoots(kind catalog.Kind) []catalog.Node {
	return m.cat.Roots(kind)
}

// refreshPanes re-derives every derived pane from the host lists and picker
// state. Cheap enough to run after each mutation.
func (m *Model) refreshPanes() {
	m.catSidebar.SetNames(m.state.Categories, m.catTotal, m.catPicker.AllSelected())
	m.geoSidebar.SetNames(m.state.Geographies, m.geoTotal, m.geoPicker.AllSelected())
	m.review.SetNames(m.state.Categories, m.state.Geographies)
}

func (m *Model) recalcSizes() {
	bodyH := m.bodyHeight()

	sbWidth := m.sidebarWidth()
	// Each pane's rounded border eats two columns beyond its content width.
	treeWidth := m.width - sbWidth - 2*SpaceSM
	if treeWidth < 20 {
		treeWidth = 20
	}

	m.catTree.SetSize(treeWidth, bodyH)
	m.geoTree.SetSize(treeWidth, bodyH)
	m.catSidebar.SetSize(sbWidth, bodyH)
	m.geoSidebar.SetSize(sbWidth, bodyH)
	m.review.SetSize(m.width-2, bodyH)
}

// bodyHeight returns the pane content rows left after the header, the
// footer, and the panel border rows.
func (m Model) bodyHeight() int {
	h := m.height - 4
	if h < 5 {
		h = 5
	}
	return h
}

func (m Model) sidebarWidth() int {
	ratio := m.appConfig.UI.SidebarRatio
	if ratio < 0.2 || ratio > 0.5 {
		ratio = 0.35
	}
	w := int(float64(m.width) * ratio)
	if w < 24 {
		w = 24
	}
	if w > 48 {
		w = 48
	}
	return w
}

// ── Update ──

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.recalcSizes()
		return m, nil

	case FileChangedMsg:
		m.reloadCatalog()
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		// Clear status message on any keypress
		m.statusMsg = ""
		m.statusIsError = false

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.focused == focusHelp {
			m = m.handleHelpKeys(msg)
			return m, nil
		}

		// Help overlay toggle (not while typing a search)
		if msg.String() == "?" && m.focused != focusSearch {
			m.showHelp = true
			m.helpScroll = 0
			m.focused = focusHelp
			return m, nil
		}

		if m.focused == focusSearch {
			return m.handleSearchKeys(msg)
		}

		// Step switching works from every non-overlay pane.
		switch msg.String() {
		case "]":
			return m.nextStep(), nil
		case "[":
			return m.prevStep(), nil
		}

		if m.step == stepReview {
			return m.handleReviewKeys(msg)
		}
		return m.handleTreeKeys(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleHelpKeys(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "j", "down":
		max := m.helpLineCount() - (m.height - 4)
		if max < 0 {
			max = 0
		}
		if m.helpScroll < max {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		// Any other key closes the overlay.
		m.showHelp = false
		if m.step == stepReview {
			m.focused = focusReview
		} else {
			m.focused = focusTree
		}
	}
	return m
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.clearSearch()
		return m, nil
	case "enter":
		// Accept the filter and hand focus back to the tree. An empty
		// query is the same as clearing.
		if strings.TrimSpace(m.searchInput.Value()) == "" {
			m.clearSearch()
			return m, nil
		}
		m.searchInput.Blur()
		m.activePicker().SetSearching(false)
		m.focused = focusTree
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.applyFilter(m.searchInput.Value())
	return m, cmd
}

func (m Model) handleTreeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tree := m.activeTree()
	picker := m.activePicker()

	// Sidebar focus only consumes scrolling keys; everything else falls
	// through to the shared handling below.
	if m.focused == focusSidebar {
		switch msg.String() {
		case "j", "down":
			m.activeSidebar().ScrollDown(1)
			return m, nil
		case "k", "up":
			m.activeSidebar().ScrollUp(1)
			return m, nil
		case "tab":
			m.focused = focusTree
			return m, nil
		case "esc":
			m.focused = focusTree
			return m, nil
		case "q":
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "esc":
		if m.searchActive {
			m.clearSearch()
		}
		return m, nil

	case "tab":
		m.focused = focusSidebar
		return m, nil

	case "/":
		m.focused = focusSearch
		m.searchActive = true
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		picker.SetSearching(true)
		m.applyFilter("")
		return m, textinput.Blink

	case "j", "down":
		tree.MoveDown()
	case "k", "up":
		tree.MoveUp()
	case "g", "home":
		tree.GotoTop()
	case "G", "end":
		tree.GotoBottom()
	case "ctrl+d":
		tree.HalfPageDown()
	case "ctrl+u":
		tree.HalfPageUp()

	case "enter", "right", "l":
		tree.ExpandOrToggle()
	case "h", "left":
		tree.CollapseOrParent()

	case " ", "space":
		if n := tree.CursorNode(); n != nil {
			picker.Toggle(n)
			m.refreshPanes()
		}

	case "a":
		picker.ToggleAll()
		m.refreshPanes()
		if picker.AllSelected() {
			m.statusMsg = fmt.Sprintf("Selected all %s", strings.ToLower(kindPlural(picker.Kind())))
		} else {
			m.statusMsg = fmt.Sprintf("Cleared %s", strings.ToLower(kindPlural(picker.Kind())))
		}

	case "b":
		n := tree.CursorNode()
		if n == nil {
			return m, nil
		}
		if !n.CanSelectBranch() {
			m.statusMsg = "This entry has no branch selection"
			m.statusIsError = true
			return m, nil
		}
		picker.ToggleBranch(n)
		m.refreshPanes()

	case "o":
		if n := tree.CursorNode(); n != nil {
			picker.ToggleLeaves(n)
			m.refreshPanes()
		}
	}

	return m, nil
}

func (m Model) handleReviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "j", "down":
		m.review.MoveDown()
	case "k", "up":
		m.review.MoveUp()
	case "g", "home":
		m.review.GotoTop()
	case "G", "end":
		m.review.GotoBottom()

	case "x":
		entry, ok := m.review.CursorEntry()
		if !ok {
			return m, nil
		}
		m.state.setNames(entry.Kind, deleteName(m.state.names(entry.Kind), entry.Name))
		m.bus.PublishItemToggled(bus.ItemToggled{Kind: entry.Kind, Name: entry.Name, Selected: false})
		m.refreshPanes()
		m.activeTreeFor(entry.Kind).Rebuild()
		m.statusMsg = fmt.Sprintf("Deselected %s", entry.Name)

	case "C":
		entry, ok := m.review.CursorEntry()
		if !ok {
			return m, nil
		}
		m.state.setNames(entry.Kind, nil)
		m.bus.PublishSelectionCleared(bus.SelectionCleared{Kind: entry.Kind})
		m.refreshPanes()
		m.statusMsg = fmt.Sprintf("Cleared %s", strings.ToLower(kindPlural(entry.Kind)))

	case "Z":
		m.state.Categories = nil
		m.state.Geographies = nil
		m.bus.PublishSelectionCleared(bus.SelectionCleared{Kind: catalog.KindCategory})
		m.bus.PublishSelectionCleared(bus.SelectionCleared{Kind: catalog.KindGeography})
		m.refreshPanes()
		m.statusMsg = "Cleared both selections"

	case "y":
		text := m.yankText()
		if err := clipboard.WriteAll(text); err != nil {
			m.statusMsg = fmt.Sprintf("Clipboard error: %v", err)
			m.statusIsError = true
		} else {
			n := len(m.state.Categories) + len(m.state.Geographies)
			m.statusMsg = fmt.Sprintf("Copied %d %s to clipboard", n, pluralize(n, "name", "names"))
		}

	case "e":
		m.exportScope("json")
	case "m":
		m.exportScope("md")
	case "s":
		m.exportScope("svg")
	case "p":
		m.exportScope("png")

	case "enter":
		scope := m.buildScope()
		path := filepath.Join(m.exportDir, "scope.json")
		if err := scope.WriteJSON(path); err != nil {
			m.statusMsg = fmt.Sprintf("Write failed: %v", err)
			m.statusIsError = true
			return m, nil
		}
		m.exportedPath = path
		m.finished = true
		m.logger.Info().Str("path", path).
			Int("categories", len(scope.Categories)).
			Int("geographies", len(scope.Geographies)).
			Msg("scope written")
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) activeTreeFor(kind catalog.Kind) *TreeModel {
	if kind == catalog.KindGeography {
		return &m.geoTree
	}
	return &m.catTree
}

// ── Step switching ──

func (m Model) nextStep() Model {
	if m.step == stepReview {
		return m
	}
	m.leaveSearch()
	m.step++
	if m.step == stepReview {
		m.focused = focusReview
		m.refreshPanes()
	} else {
		m.focused = focusTree
	}
	return m
}

func (m Model) prevStep() Model {
	if m.step == stepCategories {
		return m
	}
	m.leaveSearch()
	m.step--
	m.focused = focusTree
	return m
}

// leaveSearch drops any active filter before the step changes, so each step
// starts from its full tree.
func (m *Model) leaveSearch() {
	if !m.searchActive {
		return
	}
	m.clearSearch()
}

// ── Search ──

// applyFilter replaces the active tree with the subset matching the query.
// An empty query restores the full tree without losing selection.
func (m *Model) applyFilter(query string) {
	kind := m.step.kind()
	picker := m.activePicker()
	tree := m.activeTree()
	full := m.fullRoots(kind)

	q := strings.TrimSpace(query)
	if q == "" {
		picker.SetTree(full, m.state.names(kind))
		tree.SetRoots(full)
		m.matchCount = 0
		return
	}

	filtered := search.Filter(full, q)
	picker.SetTree(filtered, m.state.names(kind))
	tree.SetRoots(filtered)

	count := 0
	catalog.Walk(filtered, func(n catalog.Node) {
		if n.MatchInfo().Direct {
			count++
		}
	})
	m.matchCount = count
}

// clearSearch exits search mode entirely: full tree back, expansion reset to
// the configured default, input cleared.
func (m *Model) clearSearch() {
	kind := m.step.kind()
	picker := m.activePicker()
	tree := m.activeTree()

	picker.SetSearching(false)
	full := m.fullRoots(kind)
	picker.SetTree(full, m.state.names(kind))
	picker.Reset()
	tree.SetRoots(full)

	m.searchInput.SetValue("")
	m.searchInput.Blur()
	m.searchActive = false
	m.matchCount = 0
	m.focused = focusTree
}

// ── Reload ──

// reloadCatalog re-reads the source and swaps the catalog in. The host name
// lists survive untouched; each picker resyncs from them, so selections keep
// following display names across the reload.
func (m *Model) reloadCatalog() {
	if debug.Enabled() {
		debug.Log("reload: file change detected path=%s", m.source.Path)
	}
	reloadStart := time.Now()

	cat, report, err := datasource.BuildFromSource(m.source)
	if err != nil {
		m.statusMsg = fmt.Sprintf("Reload error: %v", err)
		m.statusIsError = true
		m.logger.Error().Err(err).Str("path", m.source.Path).Msg("catalog reload failed")
		return
	}

	m.cat = cat
	catRoots := cat.CategoryNodes()
	geoRoots := cat.GeographyNodes()
	m.catTotal = catalog.CountNodes(catRoots)
	m.geoTotal = catalog.CountNodes(geoRoots)

	m.catPicker.SetTree(catRoots, m.state.Categories)
	m.geoPicker.SetTree(geoRoots, m.state.Geographies)
	m.catTree.SetRoots(catRoots)
	m.geoTree.SetRoots(geoRoots)

	// Re-apply an in-flight filter against the fresh tree.
	if m.searchActive {
		m.applyFilter(m.searchInput.Value())
	}

	total := m.catTotal + m.geoTotal
	if report != nil && !report.Clean() {
		m.statusMsg = fmt.Sprintf("Reloaded %d entries (%s)", total, report.Summary())
	} else {
		m.statusMsg = fmt.Sprintf("Reloaded %d entries", total)
	}
	m.statusIsError = false
	m.refreshPanes()
	debug.LogTiming("reload", time.Since(reloadStart))
	m.logger.Info().Int("entries", total).Msg("catalog reloaded")
}

// ── Scope building and export ──

func (m *Model) buildScope() *export.Scope {
	return &export.Scope{
		Title:          "Market scope",
		Source:         filepath.Base(m.source.Path),
		GeneratedAt:    time.Now(),
		AllCategories:  m.catPicker.AllSelected(),
		AllGeographies: m.geoPicker.AllSelected(),
		CategoryTotal:  m.catTotal,
		GeographyTotal: m.geoTotal,
		Categories:     append([]string(nil), m.state.Categories...),
		Geographies:    append([]string(nil), m.state.Geographies...),
	}
}

func (m *Model) exportScope(format string) {
	defer metrics.Timer(metrics.ScopeExport)()

	scope := m.buildScope()
	path := filepath.Join(m.exportDir, scope.DefaultBasename()+"."+format)

	var err error
	switch format {
	case "json":
		err = scope.WriteJSON(path)
	case "md":
		err = scope.WriteMarkdown(path)
	case "svg", "png":
		err = export.SaveScopeCard(export.CardOptions{Path: path, Scope: scope})
	default:
		err = fmt.Errorf("unknown format %q", format)
	}

	if err != nil {
		m.statusMsg = fmt.Sprintf("Export failed: %v", err)
		m.statusIsError = true
		return
	}
	m.statusMsg = fmt.Sprintf("Exported %s", path)
	m.logger.Info().Str("path", path).Str("format", format).Msg("scope exported")
}

func (m *Model) yankText() string {
	var sb strings.Builder
	for _, name := range m.state.Categories {
		sb.WriteString(name)
		sb.WriteString("\n")
	}
	for _, name := range m.state.Geographies {
		sb.WriteString(name)
		sb.WriteString("\n")
	}
	return sb.String()
}

// deleteName drops every occurrence of name from the list.
func deleteName(names []string, name string) []string {
	var out []string
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

// ── View ──

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	defer metrics.Timer(metrics.UIRender)()

	finalStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		MaxHeight(m.height)

	if m.showHelp {
		return finalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			m.renderHelpOverlay(), m.renderFooter()))
	}

	header := m.renderGlobalHeader()
	var body string
	if m.step == stepReview {
		body = renderPanelFrame(m.review.View(), m.width-2, m.bodyHeight(), true)
	} else {
		tree := m.activeTree()
		sidebar := m.activeSidebar()
		body = joinPanes(
			renderPanelFrame(tree.View(), tree.width, m.bodyHeight(), m.focused == focusTree || m.focused == focusSearch),
			renderPanelFrame(sidebar.View(), sidebar.width, m.bodyHeight(), m.focused == focusSidebar),
		)
	}

	footer := m.renderFooter()
	return finalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, body, footer))
}

// renderGlobalHeader renders the top bar: app and step breadcrumb on the
// left, source and freshness on the right.
func (m Model) renderGlobalHeader() string {
	t := m.theme

	left := t.Header.Render("scopick " + version.Version)

	var crumbs []string
	for s := stepCategories; s <= stepReview; s++ {
		label := fmt.Sprintf("%d %s", int(s)+1, s)
		if s == m.step {
			crumbs = append(crumbs, t.PrimaryBold.Render(label))
		} else {
			crumbs = append(crumbs, t.MutedText.Render(label))
		}
	}
	breadcrumb := " " + strings.Join(crumbs, t.MutedText.Render(" ▸ "))

	right := ""
	if m.source.Path != "" {
		right = t.MutedText.Render(fmt.Sprintf("%s · %s ", filepath.Base(m.source.Path), FormatTimeRel(m.source.ModTime)))
	}

	used := lipgloss.Width(left) + lipgloss.Width(breadcrumb) + lipgloss.Width(right)
	fillerWidth := m.width - used
	if fillerWidth < 0 {
		fillerWidth = 0
	}
	filler := strings.Repeat(" ", fillerWidth)

	return left + breadcrumb + filler + right
}

// renderFooter renders the status flash or the context-sensitive shortcut
// bar.
func (m Model) renderFooter() string {
	if m.statusMsg != "" {
		var msgStyle lipgloss.Style
		prefix := "✓ "
		if m.statusIsError {
			prefix = "✗ "
			msgStyle = lipgloss.NewStyle().
				Background(ColorDangerBg).
				Foreground(ColorDanger).
				Bold(true).
				Padding(0, 2)
		} else {
			msgStyle = lipgloss.NewStyle().
				Background(ColorSuccessBg).
				Foreground(ColorSuccess).
				Bold(true).
				Padding(0, 2)
		}
		msgSection := msgStyle.Render(prefix + m.statusMsg)
		remaining := m.width - lipgloss.Width(msgSection)
		if remaining < 0 {
			remaining = 0
		}
		filler := lipgloss.NewStyle().Width(remaining).Render("")
		return lipgloss.JoinHorizontal(lipgloss.Bottom, msgSection, filler)
	}

	if m.focused == focusSearch {
		matchInfo := ""
		if m.matchCount > 0 {
			matchInfo = fmt.Sprintf(" [%d %s]", m.matchCount, pluralize(m.matchCount, "match", "matches"))
		} else if strings.TrimSpace(m.searchInput.Value()) != "" {
			matchInfo = " [no matches]"
		}
		return " " + m.theme.PrimaryBold.Render("/") + m.searchInput.View() + m.theme.MutedText.Render(matchInfo)
	}

	keyStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	labelStyle := lipgloss.NewStyle().Foreground(ColorText)

	type hint struct {
		key   string
		label string
	}
	var hints []hint

	if m.step == stepReview {
		hints = []hint{
			{"j/k", "nav"},
			{"x", "deselect"},
			{"C", "clear list"},
			{"Z", "clear all"},
			{"y", "yank"},
			{"e/m/s/p", "export"},
			{"enter", "finish"},
			{"[", "back"},
			{"?", "help"},
			{"q", "quit"},
		}
	} else {
		hints = []hint{
			{"j/k", "nav"},
			{"space", "toggle"},
			{"a", "all"},
			{"b", "branch"},
			{"o", "leaves"},
			{"/", "search"},
			{"]", "next"},
			{"tab", "sidebar"},
			{"?", "help"},
			{"q", "quit"},
		}
	}

	var hintParts []string
	for _, h := range hints {
		hintParts = append(hintParts, keyStyle.Render(h.key)+":"+labelStyle.Render(h.label))
	}
	shortcutBar := " " + strings.Join(hintParts, "  ")

	barWidth := lipgloss.Width(shortcutBar)
	remaining := m.width - barWidth
	if remaining < 0 {
		remaining = 0
	}
	filler := lipgloss.NewStyle().Width(remaining).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, shortcutBar, filler)
}
