// Package config handles configuration loading and validation for lumen.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wk-j/lumen/internal/core/diff"
	"github.com/wk-j/lumen/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	Theme       string      `yaml:"theme"`
	GitPath     string      `yaml:"git_path"`
	Editor      string      `yaml:"editor"`       // falls back to $VISUAL, $EDITOR, then vi
	CopyCommand string      `yaml:"copy_command"` // used when the system clipboard is unavailable
	Diff        DiffConfig  `yaml:"diff"`
	View        ViewConfig  `yaml:"view"`
	Watch       WatchConfig `yaml:"watch"`
	DataDir     string      `yaml:"-"` // set by caller, not from config file
}

// DiffConfig tunes the diff engine and the file list.
type DiffConfig struct {
	TabWidth          int           `yaml:"tab_width"`
	MinUnchangedRatio float64       `yaml:"min_unchanged_ratio"`
	Timeout           time.Duration `yaml:"timeout"`
	Exclude           []string      `yaml:"exclude"` // doublestar patterns
}

// ViewConfig holds layout and scrolling settings.
type ViewConfig struct {
	ShowSidebar      bool          `yaml:"show_sidebar"`
	SidebarMinWidth  int           `yaml:"sidebar_min_width"`
	SidebarMaxWidth  int           `yaml:"sidebar_max_width"`
	HunkTopMargin    int           `yaml:"hunk_top_margin"`
	HunkBottomMargin int           `yaml:"hunk_bottom_margin"`
	ScrollMargin     int           `yaml:"scroll_margin"`
	Context          ContextConfig `yaml:"context"`
}

// ContextConfig controls the sticky scope lines above the diff.
type ContextConfig struct {
	Enabled  bool `yaml:"enabled"`
	MaxLines int  `yaml:"max_lines"`
}

// WatchConfig configures the working tree watcher.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
	Ignore   []string      `yaml:"ignore"` // doublestar patterns relative to the repo root
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Theme:   styles.DefaultTheme,
		GitPath: "git",
		Diff: DiffConfig{
			TabWidth:          4,
			MinUnchangedRatio: diff.DefaultMinUnchangedRatio,
			Exclude:           []string{},
		},
		View: ViewConfig{
			ShowSidebar:      true,
			SidebarMinWidth:  20,
			SidebarMaxWidth:  35,
			HunkTopMargin:    5,
			HunkBottomMargin: 25,
			ScrollMargin:     10,
			Context: ContextConfig{
				Enabled:  true,
				MaxLines: 3,
			},
		},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
			Ignore:   []string{".git/**", "node_modules/**"},
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for options where zero is never meaningful.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.GitPath == "" {
		c.GitPath = defaults.GitPath
	}
	if c.View.SidebarMinWidth == 0 {
		c.View.SidebarMinWidth = defaults.View.SidebarMinWidth
	}
	if c.View.SidebarMaxWidth == 0 {
		c.View.SidebarMaxWidth = defaults.View.SidebarMaxWidth
	}
	if c.View.Context.MaxLines == 0 {
		c.View.Context.MaxLines = defaults.View.Context.MaxLines
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = defaults.Watch.Debounce
	}
}

// DiffOptions converts the diff section into engine options.
func (c *Config) DiffOptions() diff.Options {
	return diff.Options{
		TabWidth:          c.Diff.TabWidth,
		MinUnchangedRatio: c.Diff.MinUnchangedRatio,
		Timeout:           c.Diff.Timeout,
	}
}

// LogFile returns the default log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "lumen.log")
}

// ResolveEditor returns the configured editor, then $VISUAL, then $EDITOR,
// then vi.
func (c *Config) ResolveEditor(getenv func(string) string) string {
	if c.Editor != "" {
		return c.Editor
	}
	for _, key := range []string{"VISUAL", "EDITOR"} {
		if v := getenv(key); v != "" {
			return v
		}
	}
	return "vi"
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return out, nil
}
