package tui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/dochop/internal/config"
	"github.com/csheth/dochop/internal/doc"
	"github.com/csheth/dochop/internal/hint"
	"github.com/csheth/dochop/internal/history"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Settings    *config.Config
	HistoryPath string
	InitialPath string
}

// New returns a tea.Model ready to be mounted into a Program.
func New(cfg Config) tea.Model {
	if cfg.Settings == nil {
		cfg.Settings = config.Default()
	}

	pathInput := textinput.New()
	pathInput.Placeholder = pathPlaceholder
	pathInput.Focus()
	pathInput.CharLimit = 250
	pathInput.Width = 70

	searchInput := textinput.New()
	searchInput.Placeholder = "Search within the current document…"
	searchInput.CharLimit = 120
	searchInput.Width = 60

	paletteInput := textinput.New()
	paletteInput.Placeholder = "Type to filter commands…"
	paletteInput.CharLimit = 60
	paletteInput.Width = 50

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	return &model{
		config:        cfg,
		stage:         stageHome,
		pathInput:     pathInput,
		searchInput:   searchInput,
		paletteInput:  paletteInput,
		spinner:       spin,
		viewport:      vp,
		jobs:          newJobBus(),
		markerStyle:   newMarkerStyles(cfg.Settings.Markers),
		paletteAll:    paletteCommands(),
		searchIdx:     -1,
		pendingOffset: -1,
		viewportDirty: true,
		infoMessage:   "Open a document to start hopping.",
	}
}

type backEntry struct {
	source string
	offset int
}

type model struct {
	config Config
	stage  stage

	pathInput    textinput.Model
	searchInput  textinput.Model
	paletteInput textinput.Model
	spinner      spinner.Model
	viewport     viewport.Model

	jobs       *jobBus
	activeJobs int

	document *doc.Document
	recent   []history.Entry

	hintSession *hint.Session
	markers     []marker
	markerStyle markerStyles

	searchQuery   string
	searchMatches []int
	searchIdx     int

	paletteAll     []paletteCommand
	paletteMatches []paletteCommand
	paletteCursor  int
	paletteReturn  stage

	backStack     []backEntry
	pendingOffset int

	infoMessage   string
	errorMessage  string
	helpVisible   bool
	viewportDirty bool
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.jobs.Start(jobKindHistory, loadHistoryJob(m.config.HistoryPath))}
	if m.config.InitialPath != "" {
		m.stage = stageLoading
		m.infoMessage = fmt.Sprintf("Loading %s…", m.config.InitialPath)
		cmds = append(cmds, m.spinner.Tick, m.jobs.Start(jobKindLoad, loadDocumentJob(m.config.InitialPath, "")))
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.stage == stageLoading || m.activeJobs > 0 {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.hintSession != nil {
			return m.handleHintKey(msg)
		}
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.stage == stageDisplay {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.applyWindowSize(msg.Width, msg.Height)
		return m, nil
	case jobSignalMsg:
		if msg.Snapshot.Status == jobStatusRunning {
			m.activeJobs++
		}
		return m, nil
	case jobResultEnvelope:
		if m.activeJobs > 0 {
			m.activeJobs--
		}
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case docResultMsg:
		return m.handleDocResult(msg)
	case openResultMsg:
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			m.infoMessage = "Could not hand the link to your browser."
		} else {
			m.errorMessage = ""
			m.infoMessage = fmt.Sprintf("Opened %s in your browser.", msg.target)
		}
		return m, nil
	case historyLoadedMsg:
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			return m, nil
		}
		m.recent = msg.entries
		return m, nil
	case historySavedMsg:
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			return m, nil
		}
		return m, m.jobs.Start(jobKindHistory, loadHistoryJob(m.config.HistoryPath))
	}
	return m, nil
}

func (m *model) applyWindowSize(width, height int) {
	newWidth := width - viewportHorizontalPadding
	if newWidth < minViewportWidth {
		newWidth = minViewportWidth
	}
	m.viewport.Width = newWidth
	vpHeight := height - 7
	if vpHeight < 5 {
		vpHeight = 5
	}
	m.viewport.Height = vpHeight
	// A resize reflows the document, so captured marker geometry is stale.
	if m.hintSession != nil {
		m.applyDirectives(m.hintSession.Cancel())
		m.hintSession = nil
		m.infoMessage = "Hints cancelled by resize."
	}
	m.renderDocument()
}

func (m *model) handleDocResult(msg docResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if m.document != nil {
			m.stage = stageDisplay
		} else {
			m.stage = stageHome
		}
		m.errorMessage = msg.err.Error()
		m.infoMessage = fmt.Sprintf("Could not open %s. Try another path or URL.", msg.source)
		return m, nil
	}
	m.document = msg.document
	m.stage = stageDisplay
	m.clearSearch()
	m.helpVisible = false
	m.errorMessage = ""
	m.renderDocument()
	m.viewport.SetYOffset(0)
	if msg.fragment != "" {
		m.jumpToFragment(msg.fragment)
	} else if m.pendingOffset >= 0 {
		m.viewport.SetYOffset(m.pendingOffset)
	}
	m.pendingOffset = -1
	m.infoMessage = fmt.Sprintf("Loaded %s. Press f to hop to a link.", m.document.Title)
	return m, m.jobs.Start(jobKindHistory, recordHistoryJob(m.config.HistoryPath, m.document.Path, m.document.Title))
}

func (m *model) handleEsc() (tea.Model, tea.Cmd) {
	switch m.stage {
	case stageSearch:
		m.stage = stageDisplay
		m.searchInput.Blur()
		return m, nil
	case stagePalette:
		m.stage = m.paletteReturn
		m.paletteInput.Blur()
		return m, nil
	case stageDisplay:
		if m.helpVisible {
			m.helpVisible = false
			return m, nil
		}
		return m, tea.Quit
	default:
		return m, tea.Quit
	}
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.stage {
	case stageHome:
		return m.handleHomeKey(key)
	case stageLoading:
		return m, nil
	case stageDisplay:
		return m.handleDisplayKey(key)
	case stageSearch:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(key)
		if key.Type == tea.KeyEnter {
			value := strings.TrimSpace(m.searchInput.Value())
			m.stage = stageDisplay
			m.searchInput.Blur()
			m.applySearch(value)
			return m, cmd
		}
		return m, cmd
	case stagePalette:
		return m.handlePaletteKey(key)
	default:
		return m, nil
	}
}

func (m *model) handleHomeKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pathInput.Value() == "" && len(key.Runes) == 1 {
		if idx := int(key.Runes[0] - '1'); idx >= 0 && idx < len(m.recent) && idx < maxRecentShown {
			return m, m.openSource(m.recent[idx].Path, "")
		}
	}
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(key)
	if key.Type == tea.KeyEnter {
		value := strings.TrimSpace(m.pathInput.Value())
		m.pathInput.SetValue("")
		if value == "" {
			return m, m.openWelcome()
		}
		return m, tea.Batch(cmd, m.openSource(value, ""))
	}
	return m, cmd
}

func (m *model) handleDisplayKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	handled := true
	switch key.String() {
	case "f":
		return m, m.actionStartHintsCmd()
	case "/":
		return m, m.actionOpenSearchCmd()
	case "n":
		m.advanceSearch(1)
	case "N":
		m.advanceSearch(-1)
	case "g":
		m.scrollToTop()
	case "G":
		m.scrollToBottom()
	case "]":
		m.jumpToRelativeHeading(1)
	case "[":
		m.jumpToRelativeHeading(-1)
	case "b":
		return m, m.goBack()
	case "r":
		return m, m.actionGoHomeCmd()
	case "w":
		return m, m.openWelcome()
	case "ctrl+k":
		m.openPalette()
	case "?":
		m.helpVisible = !m.helpVisible
	default:
		handled = false
	}
	if handled {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(key)
	return m, cmd
}

func (m *model) handlePaletteKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "up":
		if m.paletteCursor > 0 {
			m.paletteCursor--
		}
		return m, nil
	case "down":
		if m.paletteCursor < len(m.paletteMatches)-1 {
			m.paletteCursor++
		}
		return m, nil
	}
	if key.Type == tea.KeyEnter {
		if m.paletteCursor >= 0 && m.paletteCursor < len(m.paletteMatches) {
			chosen := m.paletteMatches[m.paletteCursor]
			m.stage = m.paletteReturn
			m.paletteInput.Blur()
			return m, chosen.action(m)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.paletteInput, cmd = m.paletteInput.Update(key)
	m.paletteMatches = filterPalette(m.paletteAll, m.paletteInput.Value())
	if m.paletteCursor >= len(m.paletteMatches) {
		m.paletteCursor = 0
	}
	return m, cmd
}

// handleHintKey routes every keystroke to the live hint session. Escape
// cancels; anything without a single rune is ignored so arrow keys cannot
// eliminate labels by accident.
func (m *model) handleHintKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type == tea.KeyEsc {
		cmd := m.applyDirectives(m.hintSession.Cancel())
		m.infoMessage = "Hints cancelled."
		return m, cmd
	}
	if len(key.Runes) != 1 {
		return m, nil
	}
	directives := m.hintSession.Key(key.Runes[0])
	activated := false
	for _, directive := range directives {
		if _, ok := directive.(hint.Activate); ok {
			activated = true
		}
	}
	cmd := m.applyDirectives(directives)
	if m.hintSession == nil && !activated {
		m.infoMessage = "No link matches those letters."
	}
	return m, cmd
}

func (m *model) actionStartHintsCmd() tea.Cmd {
	if m.document == nil || m.stage != stageDisplay {
		return nil
	}
	// One session at a time; a second request is a no-op until it ends.
	if m.hintSession != nil {
		return nil
	}
	top := m.viewport.YOffset
	bottom := top + m.viewport.Height
	visible := m.document.LinksWhere(func(l doc.Link) bool {
		return l.Line >= top && l.Line < bottom
	})
	if len(visible) == 0 {
		m.infoMessage = "No links visible. Scroll to a link and press f again."
		return nil
	}
	candidates := make([]hint.Candidate, 0, len(visible))
	for _, link := range visible {
		candidates = append(candidates, hint.Candidate{
			Ref:  link,
			Rect: hint.Rect{Left: link.Col, Top: link.Line, Width: len([]rune(link.Text)), Height: 1},
		})
	}
	session, directives, err := hint.StartSession(candidates, m.config.Settings.HintAlphabet())
	if err != nil {
		m.errorMessage = err.Error()
		return nil
	}
	m.hintSession = session
	m.errorMessage = ""
	m.infoMessage = "Type a label to hop. Esc cancels."
	return m.applyDirectives(directives)
}

// applyDirectives folds a directive batch into the marker overlay and turns
// an activation into the matching navigation command.
func (m *model) applyDirectives(directives []hint.Directive) tea.Cmd {
	var cmd tea.Cmd
	for _, directive := range directives {
		switch d := directive.(type) {
		case hint.CreateMarker:
			m.markers = append(m.markers, marker{label: d.Label, line: d.At.Top, col: d.At.Left})
		case hint.UpdateMarker:
			for i := range m.markers {
				if m.markers[i].label == d.Label {
					m.markers[i].matchedLen = d.MatchedLen
				}
			}
		case hint.RemoveMarker:
			for i := range m.markers {
				if m.markers[i].label == d.Label {
					m.markers = append(m.markers[:i], m.markers[i+1:]...)
					break
				}
			}
		case hint.RemoveAllMarkers:
			m.markers = nil
		case hint.Activate:
			cmd = m.activate(d.Candidate)
		}
	}
	if m.hintSession != nil && m.hintSession.Done() {
		m.hintSession = nil
	}
	m.markViewportDirty()
	return cmd
}

func (m *model) activate(candidate hint.Candidate) tea.Cmd {
	link, ok := candidate.Ref.(doc.Link)
	if !ok {
		return nil
	}
	switch link.Kind {
	case doc.LinkInternal:
		path, fragment := doc.ResolveInternal(m.document, link.Target)
		if path == "" {
			m.jumpToFragment(fragment)
			return nil
		}
		m.backStack = append(m.backStack, backEntry{source: m.document.Path, offset: m.viewport.YOffset})
		return m.openSource(path, fragment)
	case doc.LinkExternal:
		m.infoMessage = fmt.Sprintf("Handing %s to your browser…", link.Target)
		return m.jobs.Start(jobKindOpen, openExternalJob(link.Target))
	default:
		m.infoMessage = fmt.Sprintf("Link target: %s", link.Target)
		return nil
	}
}

func (m *model) openSource(source, fragment string) tea.Cmd {
	m.stage = stageLoading
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Loading %s…", source)
	return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindLoad, loadDocumentJob(source, fragment)))
}

func (m *model) openWelcome() tea.Cmd {
	m.document = doc.Welcome()
	m.stage = stageDisplay
	m.clearSearch()
	m.errorMessage = ""
	m.renderDocument()
	m.viewport.SetYOffset(0)
	m.infoMessage = "Welcome aboard. Press f to hop to a link."
	return nil
}

func (m *model) goBack() tea.Cmd {
	if len(m.backStack) == 0 {
		m.infoMessage = "No document to go back to."
		return nil
	}
	last := m.backStack[len(m.backStack)-1]
	m.backStack = m.backStack[:len(m.backStack)-1]
	if last.source == doc.Welcome().Path {
		cmd := m.openWelcome()
		m.viewport.SetYOffset(last.offset)
		return cmd
	}
	m.pendingOffset = last.offset
	return m.openSource(last.source, "")
}

func (m *model) actionOpenSearchCmd() tea.Cmd {
	if m.document == nil {
		return nil
	}
	m.stage = stageSearch
	m.searchInput.SetValue(m.searchQuery)
	m.searchInput.Focus()
	return textinput.Blink
}

func (m *model) actionGoHomeCmd() tea.Cmd {
	m.stage = stageHome
	m.document = nil
	m.backStack = nil
	m.markers = nil
	m.hintSession = nil
	m.clearSearch()
	m.helpVisible = false
	m.viewport.SetContent("")
	m.pathInput.SetValue("")
	m.pathInput.Focus()
	m.infoMessage = "Open a document to start hopping."
	return tea.Batch(textinput.Blink, m.jobs.Start(jobKindHistory, loadHistoryJob(m.config.HistoryPath)))
}

func (m *model) openPalette() {
	m.paletteReturn = m.stage
	m.stage = stagePalette
	m.paletteInput.SetValue("")
	m.paletteInput.Focus()
	m.paletteMatches = filterPalette(m.paletteAll, "")
	m.paletteCursor = 0
}

func (m *model) jumpToFragment(fragment string) {
	if m.document == nil || fragment == "" {
		return
	}
	line, ok := m.document.HeadingLine(fragment)
	if !ok {
		m.infoMessage = fmt.Sprintf("No heading matches #%s.", fragment)
		return
	}
	m.viewport.SetYOffset(line)
	m.infoMessage = fmt.Sprintf("Jumped to #%s.", fragment)
}

func (m *model) jumpToRelativeHeading(delta int) {
	if m.document == nil {
		return
	}
	headings := m.document.HeadingLines()
	if len(headings) == 0 {
		m.infoMessage = "This document has no headings."
		return
	}
	offset := m.viewport.YOffset
	target := -1
	if delta > 0 {
		for _, line := range headings {
			if line > offset {
				target = line
				break
			}
		}
	} else {
		for _, line := range headings {
			if line < offset {
				target = line
			}
		}
	}
	if target < 0 {
		m.infoMessage = "No more headings in that direction."
		return
	}
	m.viewport.SetYOffset(target)
	m.markViewportDirty()
}

func (m *model) applySearch(query string) {
	m.searchQuery = query
	m.searchMatches = nil
	m.searchIdx = -1
	m.markViewportDirty()
	if query == "" {
		m.infoMessage = "Search cleared."
		return
	}
	if m.document == nil {
		return
	}
	needle := strings.ToLower(query)
	for i, line := range m.document.Lines {
		if strings.Contains(strings.ToLower(line), needle) {
			m.searchMatches = append(m.searchMatches, i)
		}
	}
	if len(m.searchMatches) == 0 {
		m.infoMessage = fmt.Sprintf("No match for %q.", query)
		return
	}
	m.searchIdx = 0
	m.viewport.SetYOffset(m.searchMatches[0])
	m.infoMessage = fmt.Sprintf("%d matching line(s). n/N cycles.", len(m.searchMatches))
}

func (m *model) advanceSearch(delta int) {
	if len(m.searchMatches) == 0 {
		m.infoMessage = "No active search. Press / first."
		return
	}
	m.searchIdx = (m.searchIdx + delta + len(m.searchMatches)) % len(m.searchMatches)
	m.viewport.SetYOffset(m.searchMatches[m.searchIdx])
	m.infoMessage = fmt.Sprintf("Match %d of %d.", m.searchIdx+1, len(m.searchMatches))
	m.markViewportDirty()
}

func (m *model) clearSearch() {
	m.searchQuery = ""
	m.searchMatches = nil
	m.searchIdx = -1
	m.markViewportDirty()
}

func (m *model) scrollToTop() {
	m.viewport.SetYOffset(0)
	m.markViewportDirty()
}

func (m *model) scrollToBottom() {
	m.viewport.GotoBottom()
	m.markViewportDirty()
}

func (m *model) renderDocument() {
	if m.document == nil {
		return
	}
	width := m.viewport.Width
	if limit := m.config.Settings.Viewer.WrapWidth; limit > 0 && width > limit {
		width = limit
	}
	m.document.Render(width)
	m.markViewportDirty()
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	if !m.viewportDirty || m.document == nil {
		return
	}
	m.viewportDirty = false
	lines := m.document.Lines
	// Marker splicing counts plain runes, so styled search highlights are
	// suppressed while hint labels are on screen.
	if len(m.markers) > 0 {
		lines = overlayMarkers(lines, m.markers, m.markerStyle)
	} else if m.searchQuery != "" && len(m.searchMatches) > 0 {
		lines = highlightSearch(lines, m.searchQuery, m.currentSearchLine())
	}
	offset := m.viewport.YOffset
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.SetYOffset(offset)
}

func (m *model) currentSearchLine() int {
	if m.searchIdx < 0 || m.searchIdx >= len(m.searchMatches) {
		return -1
	}
	return m.searchMatches[m.searchIdx]
}

// highlightSearch repaints case-insensitive query hits line by line; the
// line holding the current match gets the stronger background. Match offsets
// are found in the case-folded text and mapped back to the original line,
// since folding can change a rune's byte width.
func highlightSearch(lines []string, query string, currentLine int) []string {
	needle := strings.ToLower(query)
	out := make([]string, len(lines))
	copy(out, lines)
	for i, line := range out {
		lower, back := foldLine(line)
		if !strings.Contains(lower, needle) {
			continue
		}
		style := searchHighlightStyle
		if i == currentLine {
			style = currentLineStyle
		}
		var b strings.Builder
		pos := 0
		for {
			idx := strings.Index(lower[pos:], needle)
			if idx < 0 {
				b.WriteString(line[back[pos]:])
				break
			}
			start := pos + idx
			end := start + len(needle)
			b.WriteString(line[back[pos]:back[start]])
			b.WriteString(style.Render(line[back[start]:back[end]]))
			pos = end
		}
		out[i] = b.String()
	}
	return out
}

// foldLine lowercases a line and records, for every byte of the folded text,
// the offset of the original rune it came from. A trailing entry anchors
// slices that end at the last rune.
func foldLine(line string) (string, []int) {
	var b strings.Builder
	back := make([]int, 0, len(line)+1)
	for i, r := range line {
		n := b.Len()
		b.WriteRune(unicode.ToLower(r))
		for ; n < b.Len(); n++ {
			back = append(back, i)
		}
	}
	back = append(back, len(line))
	return b.String(), back
}
