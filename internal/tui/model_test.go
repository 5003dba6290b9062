package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/dochop/internal/config"
	"github.com/csheth/dochop/internal/doc"
)

func newTestModel(t *testing.T) *model {
	t.Helper()
	m, ok := New(Config{
		Settings:    config.Default(),
		HistoryPath: filepath.Join(t.TempDir(), "history.json"),
	}).(*model)
	if !ok {
		t.Fatal("New should return the concrete model")
	}
	m.applyWindowSize(100, 32)
	return m
}

func loadTestDocument(t *testing.T, m *model, raw string) {
	t.Helper()
	m.document = &doc.Document{Path: "/tmp/fixture.md", Title: "Fixture", Raw: raw}
	m.stage = stageDisplay
	m.renderDocument()
	m.refreshViewportIfDirty()
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

const twoLinkFixture = "# Fixture\n\nRead the [intro](intro.md) or visit [the site](https://example.com).\n"

func TestHintModeLabelsEveryVisibleLink(t *testing.T) {
	m := newTestModel(t)
	loadTestDocument(t, m, twoLinkFixture)

	if cmd := m.actionStartHintsCmd(); cmd != nil {
		t.Fatalf("starting hints should not trigger a command, got %T", cmd)
	}
	if m.hintSession == nil {
		t.Fatal("hint session should be live after pressing f")
	}
	if len(m.markers) != 2 {
		t.Fatalf("expected one marker per link, got %d", len(m.markers))
	}
	if m.markers[0].label != "a" || m.markers[1].label != "b" {
		t.Fatalf("two candidates should get single letters, got %q and %q", m.markers[0].label, m.markers[1].label)
	}
}

func TestHintModeSecondStartIsNoOp(t *testing.T) {
	m := newTestModel(t)
	loadTestDocument(t, m, twoLinkFixture)

	if cmd := m.actionStartHintsCmd(); cmd != nil {
		t.Fatalf("starting hints should not trigger a command, got %T", cmd)
	}
	first := m.hintSession
	if cmd := m.actionStartHintsCmd(); cmd != nil {
		t.Fatalf("second start should be a no-op, got %T", cmd)
	}
	if m.hintSession != first {
		t.Fatal("second start must not replace the live session")
	}
	if len(m.markers) != 2 {
		t.Fatalf("second start must not duplicate markers, got %d", len(m.markers))
	}
}

func TestHintModeRequiresVisibleLinks(t *testing.T) {
	m := newTestModel(t)
	loadTestDocument(t, m, "# Fixture\n\nNo links at all here.\n")

	if cmd := m.actionStartHintsCmd(); cmd != nil {
		t.Fatalf("expected no command, got %T", cmd)
	}
	if m.hintSession != nil {
		t.Fatal("session should not start without visible links")
	}
	if !strings.Contains(m.infoMessage, "No links visible") {
		t.Fatalf("info message should explain the refusal, got %q", m.infoMessage)
	}
}

func TestHintKeyActivatesExternalLink(t *testing.T) {
	m := newTestModel(t)
	loadTestDocument(t, m, twoLinkFixture)
	if cmd := m.actionStartHintsCmd(); cmd != nil {
		t.Fatalf("starting hints should not trigger a command, got %T", cmd)
	}

	_, cmd := m.handleHintKey(runeKey('b'))
	if cmd == nil {
		t.Fatal("activating an external link should return a browser command")
	}
	if m.hintSession != nil {
		t.Fatal("session should end after a full match")
	}
	if len(m.markers) != 0 {
		t.Fatalf("all markers should tear down on activation, got %d", len(m.markers))
	}
}

func TestHintKeyUppercaseActivates(t *testing.T) {
	m := newTestModel(t)
	loadTestDocument(t, m, twoLinkFixture)
	if cmd := m.actionStartHintsCmd(); cmd != nil {
		t.Fatalf("starting hints should not trigger a command, got %T", cmd)
	}

	_, cmd := m.handleHintKey(runeKey('B'))
	if cmd == nil {
		t.Fatal("labels should match case-insensitively")
	}
	if m.hintSession != nil {
		t.Fatal("session should end after a full match")
	}
}

func TestHintDeadEndTearsDown(t *testing.T) {
	m := newTestModel(t)
	loadTestDocument(t, m, twoLinkFixture)
	if cmd := m.actionStartHintsCmd(); cmd != nil {
		t.Fatalf("starting hints should not trigger a command, got %T", cmd)
	}

	_, cmd := m.handleHintKey(runeKey('z'))
	if cmd != nil {
		t.Fatalf("a dead-end keystroke must not navigate, got %T", cmd)
	}
	if m.hintSession != nil {
		t.Fatal("session should end on a dead end")
	}
	if len(m.markers) != 0 {
		t.Fatalf("markers should clear on a dead end, got %d", len(m.markers))
	}
	if !strings.Contains(m.infoMessage, "No link matches") {
		t.Fatalf("dead end should surface a message, got %q", m.infoMessage)
	}
}

func TestHintEscCancels(t *testing.T) {
	m := newTestModel(t)
	loadTestDocument(t, m, twoLinkFixture)
	if cmd := m.actionStartHintsCmd(); cmd != nil {
		t.Fatalf("starting hints should not trigger a command, got %T", cmd)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil {
		t.Fatalf("cancel should not navigate or quit, got %T", cmd)
	}
	if m.hintSession != nil || len(m.markers) != 0 {
		t.Fatal("esc should tear the session down")
	}
	if m.stage != stageDisplay {
		t.Fatalf("cancel should keep the display stage, got %v", m.stage)
	}
}

func TestHintResizeCancelsSession(t *testing.T) {
	m := newTestModel(t)
	loadTestDocument(t, m, twoLinkFixture)
	if cmd := m.actionStartHintsCmd(); cmd != nil {
		t.Fatalf("starting hints should not trigger a command, got %T", cmd)
	}

	m.applyWindowSize(120, 40)
	if m.hintSession != nil || len(m.markers) != 0 {
		t.Fatal("resize invalidates marker geometry, so the session must cancel")
	}
}

func TestHintInternalFragmentJumpsToHeading(t *testing.T) {
	m := newTestModel(t)
	var b strings.Builder
	b.WriteString("# Fixture\n\nJump to [part two](#part-two).\n")
	for i := 0; i < 40; i++ {
		b.WriteString("filler\n")
	}
	b.WriteString("## Part Two\n\nBody.\n")
	loadTestDocument(t, m, b.String())

	if cmd := m.actionStartHintsCmd(); cmd != nil {
		t.Fatalf("starting hints should not trigger a command, got %T", cmd)
	}
	_, cmd := m.handleHintKey(runeKey('a'))
	if cmd != nil {
		t.Fatalf("a same-document jump should not spawn a job, got %T", cmd)
	}
	if m.viewport.YOffset == 0 {
		t.Fatal("viewport should scroll to the target heading")
	}
	if m.hintSession != nil {
		t.Fatal("session should end after activation")
	}
}

func TestNarrowedPrefixKeepsSurvivors(t *testing.T) {
	m := newTestModel(t)
	var b strings.Builder
	b.WriteString("# Fixture\n")
	for i := 0; i < 30; i++ {
		b.WriteString("See [one](https://example.com/a) and [two](https://example.com/b) here.\n")
	}
	loadTestDocument(t, m, b.String())

	if cmd := m.actionStartHintsCmd(); cmd != nil {
		t.Fatalf("starting hints should not trigger a command, got %T", cmd)
	}
	total := len(m.markers)
	if total <= 26 {
		t.Fatalf("expected more candidates than single letters can cover, got %d", total)
	}

	_, cmd := m.handleHintKey(runeKey('z'))
	if cmd != nil {
		t.Fatalf("a narrowing keystroke must not navigate, got %T", cmd)
	}
	if m.hintSession == nil {
		t.Fatal("session should stay live while labels still match")
	}
	if len(m.markers) >= total || len(m.markers) == 0 {
		t.Fatalf("markers should narrow to the z-prefixed labels, got %d of %d", len(m.markers), total)
	}
	for _, mk := range m.markers {
		if !strings.HasPrefix(mk.label, "z") {
			t.Fatalf("surviving marker %q does not match the typed prefix", mk.label)
		}
		if mk.matchedLen != 1 {
			t.Fatalf("survivors should show one matched character, got %d", mk.matchedLen)
		}
	}
}

func TestDocResultSwitchesToDisplayAndRecordsHistory(t *testing.T) {
	m := newTestModel(t)
	document := &doc.Document{Path: "/tmp/loaded.md", Title: "Loaded", Raw: "# Loaded\n\nHello.\n"}

	_, cmd := m.Update(docResultMsg{document: document, source: "/tmp/loaded.md"})
	if m.stage != stageDisplay {
		t.Fatalf("stage should move to display, got %v", m.stage)
	}
	if cmd == nil {
		t.Fatal("a loaded document should enqueue a history record job")
	}
	if m.document == nil || m.document.Title != "Loaded" {
		t.Fatalf("document not stored: %+v", m.document)
	}
}

func TestDocResultErrorReturnsHome(t *testing.T) {
	m := newTestModel(t)

	_, _ = m.Update(docResultMsg{source: "/tmp/missing.md", err: errFixture("no such file")})
	if m.stage != stageHome {
		t.Fatalf("a failed initial load should land on home, got %v", m.stage)
	}
	if m.errorMessage == "" {
		t.Fatal("load failures should surface an error message")
	}
}

func TestSearchCyclesMatches(t *testing.T) {
	m := newTestModel(t)
	var b strings.Builder
	b.WriteString("# Fixture\n")
	for i := 0; i < 40; i++ {
		if i%10 == 0 {
			b.WriteString("needle line\n")
		} else {
			b.WriteString("filler\n")
		}
	}
	loadTestDocument(t, m, b.String())

	m.applySearch("needle")
	if len(m.searchMatches) != 4 {
		t.Fatalf("expected 4 matching lines, got %d", len(m.searchMatches))
	}
	first := m.viewport.YOffset
	m.advanceSearch(1)
	if m.viewport.YOffset <= first {
		t.Fatalf("advancing should scroll forward, offsets %d then %d", first, m.viewport.YOffset)
	}
	m.advanceSearch(-1)
	if m.viewport.YOffset != first {
		t.Fatalf("stepping back should return to the first match, got offset %d", m.viewport.YOffset)
	}
}

func TestHighlightSearchHandlesCaseWidthChanges(t *testing.T) {
	// Lowercasing Ⱥ grows it from two bytes to three, so folded offsets
	// cannot be used to slice the original line.
	out := highlightSearch([]string{"Ⱥ needle here"}, "needle", 0)
	if !utf8.ValidString(out[0]) {
		t.Fatalf("highlight produced invalid UTF-8: %q", out[0])
	}
	if !strings.Contains(out[0], "Ⱥ") || !strings.Contains(out[0], "needle") || !strings.Contains(out[0], "here") {
		t.Fatalf("highlight mangled the line: %q", out[0])
	}

	// İ shrinks when folded; the highlight must still land on the word.
	out = highlightSearch([]string{"notes on İstanbul"}, "istanbul", -1)
	if !utf8.ValidString(out[0]) {
		t.Fatalf("highlight produced invalid UTF-8: %q", out[0])
	}
	if !strings.Contains(out[0], "İ") || !strings.Contains(out[0], "notes on ") {
		t.Fatalf("shrinking fold misplaced the highlight: %q", out[0])
	}
}

func TestPaletteFilterNarrowsCommands(t *testing.T) {
	m := newTestModel(t)
	m.openPalette()
	if len(m.paletteMatches) != len(m.paletteAll) {
		t.Fatalf("an empty filter should list every command, got %d", len(m.paletteMatches))
	}

	m.paletteMatches = filterPalette(m.paletteAll, "search")
	if len(m.paletteMatches) == 0 {
		t.Fatal("filtering for search should keep at least one command")
	}
	found := false
	for _, cmd := range m.paletteMatches {
		if cmd.title == "Search document" {
			found = true
		}
	}
	if !found {
		t.Fatal("search command missing from filtered palette")
	}
}

func TestGoHomeResetsDocumentState(t *testing.T) {
	m := newTestModel(t)
	loadTestDocument(t, m, twoLinkFixture)
	if cmd := m.actionStartHintsCmd(); cmd != nil {
		t.Fatalf("starting hints should not trigger a command, got %T", cmd)
	}

	if cmd := m.actionGoHomeCmd(); cmd == nil {
		t.Fatal("going home should reload the recent history")
	}
	if m.stage != stageHome {
		t.Fatalf("stage should be home, got %v", m.stage)
	}
	if m.document != nil || m.hintSession != nil || len(m.markers) != 0 {
		t.Fatal("home should discard the document and any live hints")
	}
}

type errFixture string

func (e errFixture) Error() string { return string(e) }
