package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/dochop/internal/config"
)

var (
	sectionHeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	searchHighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("190"))
	currentLineStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))
	statusBarStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle             = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2)
	recentIndexStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd166"))

	heroAccentColor        = lipgloss.Color("#2ec4b6")
	heroTextColor          = lipgloss.Color("#f1faee")
	heroSecondaryTextColor = lipgloss.Color("#8ecae6")

	heroTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	taglineStyle   = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
)

// markerStyles renders hint labels per the configured palette. The matched
// prefix is styled separately so typed progress stays visible.
type markerStyles struct {
	pending lipgloss.Style
	matched lipgloss.Style
}

func newMarkerStyles(cfg config.MarkersConfig) markerStyles {
	return markerStyles{
		pending: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(cfg.Foreground)).
			Background(lipgloss.Color(cfg.Background)),
		matched: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(cfg.MatchedForeground)).
			Background(lipgloss.Color(cfg.Background)),
	}
}
