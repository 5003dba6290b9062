package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *model) View() string {
	switch m.stage {
	case stageHome:
		return m.viewHome()
	case stageLoading:
		return m.viewLoading()
	case stageDisplay:
		return m.viewDisplay()
	case stageSearch:
		return m.viewSearch()
	case stagePalette:
		return m.viewPalette()
	default:
		return ""
	}
}

func (m *model) viewHome() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Open a Document"))
	b.WriteRune('\n')
	b.WriteString(m.pathInput.View())
	b.WriteRune('\n')
	b.WriteString(helperStyle.Render("Press Enter to open. An empty path opens the welcome tour."))

	if len(m.recent) > 0 {
		b.WriteString("\n\n")
		b.WriteString(sectionHeaderStyle.Render("Recent Documents"))
		b.WriteRune('\n')
		for i, entry := range m.recent {
			if i >= maxRecentShown {
				break
			}
			b.WriteString(fmt.Sprintf("%s %s", recentIndexStyle.Render(fmt.Sprintf("%d", i+1)), entry.Title))
			b.WriteRune('\n')
			b.WriteString(helperStyle.Render(fmt.Sprintf("   %s · %d visit(s)", entry.Path, entry.Visits)))
			b.WriteRune('\n')
		}
		b.WriteString(helperStyle.Render("Type a number to reopen an entry."))
	}

	parts := []string{m.heroView(), b.String()}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	return joinNonEmpty(parts)
}

func (m *model) viewLoading() string {
	body := fmt.Sprintf("%s %s", m.spinner.View(), m.infoMessage)
	return joinNonEmpty([]string{m.heroView(), body})
}

func (m *model) viewDisplay() string {
	if m.document == nil {
		return m.viewHome()
	}
	m.refreshViewportIfDirty()
	parts := []string{m.heroView(), m.viewport.View(), m.statusLine()}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	if m.helpVisible {
		parts = append(parts, m.keyLegendView())
	}
	return joinNonEmpty(parts)
}

func (m *model) viewSearch() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Search Document"))
	b.WriteRune('\n')
	b.WriteString(m.searchInput.View())
	b.WriteRune('\n')
	b.WriteString(helperStyle.Render("Press Enter to search, Esc to cancel."))
	return joinNonEmpty([]string{m.heroView(), b.String()})
}

func (m *model) viewPalette() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Command Palette"))
	b.WriteRune('\n')
	b.WriteString(m.paletteInput.View())
	b.WriteRune('\n')
	b.WriteString(helperStyle.Render("Enter to run, Esc to cancel."))
	b.WriteString("\n\n")
	if len(m.paletteMatches) == 0 {
		b.WriteString(helperStyle.Render("No commands match this filter."))
	} else {
		for idx, cmd := range m.paletteMatches {
			label := fmt.Sprintf("  %s  [%s]", cmd.title, cmd.shortcut)
			if idx == m.paletteCursor {
				label = currentLineStyle.Render("▸ " + cmd.title + "  [" + cmd.shortcut + "]")
			}
			b.WriteString(label)
			b.WriteRune('\n')
			b.WriteString(helperStyle.Render("   " + cmd.description))
			b.WriteRune('\n')
		}
	}
	return joinNonEmpty([]string{m.heroView(), b.String()})
}

func (m *model) heroView() string {
	title := heroTitleStyle.Render("DocHop")
	if m.document == nil {
		return lipgloss.JoinVertical(lipgloss.Left, title, taglineStyle.Render(heroTagline))
	}
	meta := helperStyle.Render(m.document.Path)
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, title, helperStyle.Render("  ·  "), heroTitleStyle.Render(m.document.Title)),
		meta,
	)
}

func (m *model) statusLine() string {
	stats := []string{fmt.Sprintf("Line %d/%d", m.viewport.YOffset+1, len(m.document.Lines))}
	stats = append(stats, fmt.Sprintf("Links %d", len(m.document.Links)))
	if m.hintSession != nil {
		typed := m.hintSession.Input()
		if typed == "" {
			stats = append(stats, fmt.Sprintf("Hints %d", len(m.markers)))
		} else {
			stats = append(stats, fmt.Sprintf("Hints %d (typed %q)", len(m.markers), typed))
		}
	}
	if m.searchQuery != "" && len(m.searchMatches) > 0 {
		stats = append(stats, fmt.Sprintf("Search %d/%d", m.searchIdx+1, len(m.searchMatches)))
	}
	if m.activeJobs > 0 {
		stats = append(stats, fmt.Sprintf("%s working…", m.spinner.View()))
	}
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"f", "Hop to link"},
		{"↑/↓", "Scroll"},
		{"[/]", "Jump headings"},
		{"/", "Search"},
		{"n/N", "Next/prev match"},
		{"g/G", "Top or bottom"},
		{"b", "Back"},
		{"w", "Welcome tour"},
		{"r", "Go home"},
		{"Ctrl+K", "Command palette"},
		{"?", "Toggle cheatsheet"},
	}
	rows := []string{sectionHeaderStyle.Render("Navigation Cheatsheet")}
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, h := range hints[i:end] {
			key := keyStyle.Render(h.Key)
			desc := keyDescStyle.Render(" " + h.Description)
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}
