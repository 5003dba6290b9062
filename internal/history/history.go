// Package history persists the list of recently opened documents.
package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const maxEntries = 20

// Entry records one document the user has opened.
type Entry struct {
	Path       string    `json:"path"`
	Title      string    `json:"title"`
	Visits     int       `json:"visits"`
	LastOpened time.Time `json:"lastOpened"`
}

// Load returns the stored entries, most recent first. A missing file is an
// empty history, not an error.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	sortEntries(entries)
	return entries, nil
}

// Record bumps the entry for docPath, inserting it if new, and writes the
// file back. The list is capped; the least recently opened entries fall off.
func Record(path, docPath, title string) error {
	if path == "" || docPath == "" {
		return nil
	}
	entries, err := Load(path)
	if err != nil {
		return err
	}

	now := time.Now()
	updated := false
	for i := range entries {
		if entries[i].Path == docPath {
			entries[i].Visits++
			entries[i].LastOpened = now
			if title != "" {
				entries[i].Title = title
			}
			updated = true
			break
		}
	}
	if !updated {
		entries = append(entries, Entry{
			Path:       docPath,
			Title:      title,
			Visits:     1,
			LastOpened: now,
		})
	}
	sortEntries(entries)
	if len(entries) > maxEntries {
		entries = entries[:maxEntries]
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LastOpened.After(entries[j].LastOpened)
	})
}
