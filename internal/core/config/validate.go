package config

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/wk-j/lumen/internal/core/styles"
)

const maxTabWidth = 16

// Validate checks that the configuration is structurally valid. It performs
// no I/O.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("theme", c.Theme, themeExists),
		criterio.Run("git_path", c.GitPath, notEmpty),
		criterio.Run("data_dir", c.DataDir, notEmpty),
		c.Diff.validate(),
		c.View.validate(),
		c.Watch.validate(),
	)
}

func (d DiffConfig) validate() error {
	var errs criterio.FieldErrorsBuilder
	if d.TabWidth < 0 || d.TabWidth > maxTabWidth {
		errs = errs.Append("diff.tab_width", fmt.Errorf("must be between 0 and %d", maxTabWidth))
	}
	if d.MinUnchangedRatio < 0 || d.MinUnchangedRatio > 1 {
		errs = errs.Append("diff.min_unchanged_ratio", fmt.Errorf("must be between 0 and 1"))
	}
	if d.Timeout < 0 {
		errs = errs.Append("diff.timeout", fmt.Errorf("cannot be negative"))
	}
	for i, p := range d.Exclude {
		if !doublestar.ValidatePattern(p) {
			errs = errs.Append(fmt.Sprintf("diff.exclude[%d]", i), fmt.Errorf("invalid glob %q", p))
		}
	}
	return errs.ToError()
}

func (v ViewConfig) validate() error {
	var errs criterio.FieldErrorsBuilder
	for field, n := range map[string]int{
		"view.hunk_top_margin":    v.HunkTopMargin,
		"view.hunk_bottom_margin": v.HunkBottomMargin,
		"view.scroll_margin":      v.ScrollMargin,
		"view.context.max_lines":  v.Context.MaxLines,
	} {
		if n < 0 {
			errs = errs.Append(field, fmt.Errorf("cannot be negative"))
		}
	}
	if v.SidebarMinWidth < 1 {
		errs = errs.Append("view.sidebar_min_width", fmt.Errorf("must be at least 1"))
	}
	if v.SidebarMinWidth > v.SidebarMaxWidth {
		errs = errs.Append("view.sidebar_max_width", fmt.Errorf("must not be less than sidebar_min_width"))
	}
	return errs.ToError()
}

func (w WatchConfig) validate() error {
	var errs criterio.FieldErrorsBuilder
	if w.Debounce < 0 {
		errs = errs.Append("watch.debounce", fmt.Errorf("cannot be negative"))
	}
	for i, p := range w.Ignore {
		if !doublestar.ValidatePattern(p) {
			errs = errs.Append(fmt.Sprintf("watch.ignore[%d]", i), fmt.Errorf("invalid glob %q", p))
		}
	}
	return errs.ToError()
}

func themeExists(name string) error {
	if _, ok := styles.Get(name); !ok {
		return fmt.Errorf("unknown theme %q, available: %v", name, styles.ThemeNames())
	}
	return nil
}

func notEmpty(s string) error {
	if s == "" {
		return fmt.Errorf("cannot be empty")
	}
	return nil
}

// ValidateDeep runs Validate and then checks the files the configuration
// points at: the config file itself, the git executable and the data
// directory. An empty configPath skips the config file check.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("git_path", c.GitPath, gitExecutableExists),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// gitExecutableExists validates that the git path is executable.
func gitExecutableExists(path string) error {
	if path == "" {
		return nil
	}
	if _, err := exec.LookPath(path); err != nil {
		return fmt.Errorf("executable not found: %s", path)
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
