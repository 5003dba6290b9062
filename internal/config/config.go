// Package config manages the persisted DocHop settings blob.
package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/csheth/dochop/internal/hint"
)

// Config is the on-disk TOML structure. Marker colors are presentation
// only; they never influence label matching.
type Config struct {
	Hints   HintsConfig   `toml:"hints"`
	Markers MarkersConfig `toml:"markers"`
	Viewer  ViewerConfig  `toml:"viewer"`
}

// HintsConfig selects the hint alphabet. Chars wins over Alphabet when both
// are set; an unusable value falls back to the default Latin letters.
type HintsConfig struct {
	Chars    string `toml:"chars"`
	Alphabet string `toml:"alphabet"`
}

// MarkersConfig holds the marker palette as lipgloss-compatible colors.
type MarkersConfig struct {
	Foreground        string `toml:"foreground"`
	Background        string `toml:"background"`
	MatchedForeground string `toml:"matched_foreground"`
}

// ViewerConfig holds document rendering options.
type ViewerConfig struct {
	WrapWidth int `toml:"wrap_width"`
}

// Default returns the built-in settings used when no file exists.
func Default() *Config {
	return &Config{
		Hints: HintsConfig{
			Chars: hint.DefaultChars,
		},
		Markers: MarkersConfig{
			Foreground:        "#0f0f0f",
			Background:        "#ffd166",
			MatchedForeground: "#9d0208",
		},
		Viewer: ViewerConfig{
			WrapWidth: 100,
		},
	}
}

// DefaultPath returns ~/.config/dochop/config.toml, or a path beside the
// working directory when the home directory cannot be resolved.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("home directory unavailable: %v", err)
		return filepath.Join(".", "dochop.toml")
	}
	return filepath.Join(homeDir, ".config", "dochop", "config.toml")
}

// Load reads settings from path. A missing or empty file yields the
// defaults without an error; a malformed file yields the defaults with a
// logged warning so a bad edit never locks the user out.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		log.Warnf("config %s is malformed, using defaults: %v", path, err)
		return Default(), nil
	}
	return cfg, nil
}

// Save writes the settings back to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// HintAlphabet resolves the configured alphabet, falling back to the
// default Latin letters when the configuration is unusable.
func (c *Config) HintAlphabet() *hint.Alphabet {
	if c.Hints.Chars != "" {
		alphabet, err := hint.NewAlphabet(c.Hints.Chars)
		if err == nil && alphabet.Len() > 1 {
			return alphabet
		}
		log.Warnf("hint chars %q unusable, falling back to default", c.Hints.Chars)
	}
	if c.Hints.Alphabet != "" {
		alphabet, err := hint.BuiltinAlphabet(c.Hints.Alphabet)
		if err == nil {
			return alphabet
		}
		log.Warnf("hint alphabet %q unknown, falling back to default", c.Hints.Alphabet)
	}
	return hint.DefaultAlphabet()
}
