package tui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/dochop/internal/doc"
	"github.com/csheth/dochop/internal/history"
)

type docResultMsg struct {
	document *doc.Document
	source   string
	fragment string
	err      error
}

type openResultMsg struct {
	target string
	err    error
}

type historyLoadedMsg struct {
	entries []history.Entry
	err     error
}

type historySavedMsg struct {
	err error
}

func loadDocumentJob(source, fragment string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 35*time.Second)
		defer cancel()
		document, err := doc.Load(ctx, source)
		if err != nil {
			return docResultMsg{source: source, err: err}, err
		}
		return docResultMsg{document: document, source: source, fragment: fragment}, nil
	}
}

func openExternalJob(target string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 10*time.Second)
		defer cancel()
		if err := openInBrowser(ctx, target); err != nil {
			return openResultMsg{target: target, err: err}, err
		}
		return openResultMsg{target: target}, nil
	}
}

func loadHistoryJob(path string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		entries, err := history.Load(path)
		if err != nil {
			return historyLoadedMsg{err: err}, err
		}
		return historyLoadedMsg{entries: entries}, nil
	}
}

func recordHistoryJob(path, docPath, title string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		if err := history.Record(path, docPath, title); err != nil {
			return historySavedMsg{err: err}, err
		}
		return historySavedMsg{}, nil
	}
}

func openInBrowser(ctx context.Context, target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", target)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", target)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", target)
	}
	// The opener hands the URL off and exits quickly. Waiting for it keeps
	// the job's context alive through the handoff; returning early would
	// cancel the context and kill the opener before it dispatches.
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	return nil
}
