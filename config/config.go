package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the configuration file inside the data directory.
const FileName = "inkblog.config"

type Config struct {
	DataDir               string        `json:"data_dir"`
	ListenAddr            string        `json:"listen_addr"`
	ContentDir            string        `json:"content_dir"`
	ThemesDir             string        `json:"themes_dir,omitempty"`
	MarkdownThemesDir     string        `json:"markdown_themes_dir,omitempty"`
	MarkdownSelector      string        `json:"markdown_selector"`
	DefaultMarkdownTheme  string        `json:"default_markdown_theme"`
	DefaultPageTheme      string        `json:"default_page_theme"`
	DefaultHighlightTheme string        `json:"default_highlight_theme"`
	HighlightCDN          bool          `json:"highlight_cdn"`
	DarkMode              bool          `json:"dark_mode"`
	Logging               LoggingConfig `json:"logging"`
}

func Default() Config {
	return Config{
		DataDir:               ".",
		ListenAddr:            ":8080",
		ContentDir:            "content",
		ThemesDir:             "themes",
		MarkdownThemesDir:     "markdown-themes",
		MarkdownSelector:      ".markdown-content",
		DefaultMarkdownTheme:  "gitbook",
		DefaultPageTheme:      "gitbook",
		DefaultHighlightTheme: "github",
		HighlightCDN:          true,
		DarkMode:              false,
		Logging:               LoggingConfig{Level: "normal"},
	}
}

// Load reads the configuration from dataDir. A missing file yields the
// defaults; fields left empty in the file are filled from the defaults.
func Load(dataDir string) (Config, error) {
	cfgPath := filepath.Join(dataDir, FileName)

	f, err := os.Open(cfgPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.DataDir = dataDir
			return cfg, nil
		}
		return Config{}, err
	}
	defer f.Close()

	// Booleans absent from the file keep their defaults.
	cfg := Default()
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", cfgPath, err)
	}

	def := Default()
	if cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = def.ListenAddr
	}
	if cfg.ContentDir == "" {
		cfg.ContentDir = def.ContentDir
	}
	if cfg.MarkdownSelector == "" {
		cfg.MarkdownSelector = def.MarkdownSelector
	}
	if cfg.DefaultMarkdownTheme == "" {
		cfg.DefaultMarkdownTheme = def.DefaultMarkdownTheme
	}
	if cfg.DefaultPageTheme == "" {
		cfg.DefaultPageTheme = def.DefaultPageTheme
	}
	if cfg.DefaultHighlightTheme == "" {
		cfg.DefaultHighlightTheme = def.DefaultHighlightTheme
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}

	return cfg, cfg.Validate()
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	switch c.Logging.Level {
	case "none", "debug", "normal":
	default:
		return fmt.Errorf("logging level must be none, debug or normal, got %q", c.Logging.Level)
	}
	sel := c.MarkdownSelector
	if len(sel) < 2 || (sel[0] != '.' && sel[0] != '#') || strings.ContainsAny(sel[1:], " .#>+~[]:,") {
		return fmt.Errorf("markdown_selector must be a single class or id selector, got %q", sel)
	}
	return nil
}

// Resolve returns p relative to the data directory unless it is absolute.
// An empty p stays empty.
func (c Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}

func Save(cfg Config) error {
	cfgPath := filepath.Join(cfg.DataDir, FileName)

	// Create directory if it doesn't exist
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}

	tmp := cfgPath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, cfgPath); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
