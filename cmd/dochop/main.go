package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/csheth/dochop/internal/config"
	"github.com/csheth/dochop/internal/tui"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to the TOML settings file")
	historyPath := flag.String("history", defaultHistoryPath(), "path to the recent documents JSON file")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	verbose := flag.Bool("verbose", false, "log debug detail to stderr")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("failed to load settings:", err)
		os.Exit(1)
	}

	initialPath := flag.Arg(0)
	if initialPath != "" && !isRemote(initialPath) {
		abs, err := filepath.Abs(initialPath)
		if err != nil {
			fmt.Println("failed to resolve document path:", err)
			os.Exit(1)
		}
		initialPath = abs
	}

	opts := []tea.ProgramOption{}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Settings:    settings,
			HistoryPath: *historyPath,
			InitialPath: initialPath,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}

func defaultHistoryPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "dochop_history.json")
	}
	return filepath.Join(homeDir, ".config", "dochop", "history.json")
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
