package doctor

import (
	"context"
	"errors"
	"os"

	"github.com/hay-kot/criterio"

	"github.com/wk-j/lumen/internal/core/config"
)

// ConfigCheck validates the loaded configuration and the paths it names.
type ConfigCheck struct {
	cfg  *config.Config
	path string
}

func NewConfigCheck(cfg *config.Config, path string) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, path: path}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if _, err := os.Stat(c.path); err == nil {
		result.Items = append(result.Items, pass("config file", c.path))
	} else {
		result.Items = append(result.Items, pass("config file", "not found, using defaults"))
	}

	err := c.cfg.ValidateDeep(c.path)
	if err == nil {
		result.Items = append(result.Items, pass("settings", "valid (theme "+c.cfg.Theme+")"))
		return result
	}

	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			result.Items = append(result.Items, fail(fe.Field, fe.Err.Error()))
		}
		return result
	}

	result.Items = append(result.Items, fail("settings", err.Error()))
	return result
}
