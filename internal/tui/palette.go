package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

type paletteCommand struct {
	title       string
	shortcut    string
	description string
	action      func(m *model) tea.Cmd
}

func paletteCommands() []paletteCommand {
	return []paletteCommand{
		{
			title:       "Hop to link",
			shortcut:    "f",
			description: "Label every visible link and jump by typing its letters.",
			action:      func(m *model) tea.Cmd { return m.actionStartHintsCmd() },
		},
		{
			title:       "Search document",
			shortcut:    "/",
			description: "Find text in the current document.",
			action:      func(m *model) tea.Cmd { return m.actionOpenSearchCmd() },
		},
		{
			title:       "Scroll to top",
			shortcut:    "g",
			description: "Jump to the first line.",
			action:      func(m *model) tea.Cmd { m.scrollToTop(); return nil },
		},
		{
			title:       "Scroll to bottom",
			shortcut:    "G",
			description: "Jump to the last line.",
			action:      func(m *model) tea.Cmd { m.scrollToBottom(); return nil },
		},
		{
			title:       "Go home",
			shortcut:    "r",
			description: "Return to the recent documents screen.",
			action:      func(m *model) tea.Cmd { return m.actionGoHomeCmd() },
		},
		{
			title:       "Toggle cheatsheet",
			shortcut:    "?",
			description: "Show or hide the key legend.",
			action:      func(m *model) tea.Cmd { m.helpVisible = !m.helpVisible; return nil },
		},
		{
			title:       "Quit",
			shortcut:    "Ctrl+C",
			description: "Leave DocHop.",
			action:      func(m *model) tea.Cmd { return tea.Quit },
		},
	}
}

func filterPalette(commands []paletteCommand, query string) []paletteCommand {
	query = strings.TrimSpace(query)
	if query == "" {
		return commands
	}
	titles := make([]string, len(commands))
	for i, cmd := range commands {
		titles[i] = cmd.title + " " + cmd.description
	}
	matches := fuzzy.Find(query, titles)
	result := make([]paletteCommand, 0, len(matches))
	for _, match := range matches {
		result = append(result, commands[match.Index])
	}
	return result
}
