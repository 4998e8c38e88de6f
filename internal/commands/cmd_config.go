package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/wk-j/lumen/internal/core/styles"
	"github.com/wk-j/lumen/pkg/iojson"
)

type ConfigCmd struct {
	flags  *Flags
	format string
}

// NewConfigCmd creates the config command.
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config command and its validate subcommand.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "config",
		Usage:     "Print the effective configuration",
		UsageText: "lumen config [command]",
		Action:    cmd.show,
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "lumen config validate [options]",
				Description: "Validates the configuration file, checking value ranges, glob patterns, the git executable and the data directory.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.validate,
			},
		},
	})

	return app
}

func (cmd *ConfigCmd) show(_ context.Context, c *cli.Command) error {
	out, err := cmd.flags.Config.YAML()
	if err != nil {
		return err
	}
	_, err = c.Root().Writer.Write(out)
	return err
}

type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (cmd *ConfigCmd) validate(_ context.Context, c *cli.Command) error {
	w := c.Root().Writer
	err := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath)

	var errs []validationError
	if err != nil {
		var fieldErrs criterio.FieldErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				errs = append(errs, validationError{Field: fe.Field, Message: fe.Err.Error()})
			}
		} else {
			errs = append(errs, validationError{Field: "config", Message: err.Error()})
		}
	}

	if cmd.format == "json" {
		out := struct {
			Valid  bool              `json:"valid"`
			Path   string            `json:"path"`
			Errors []validationError `json:"errors,omitempty"`
		}{
			Valid:  len(errs) == 0,
			Path:   cmd.flags.ConfigPath,
			Errors: errs,
		}
		if err := iojson.WriteWith(w, os.Stderr, out); err != nil {
			return err
		}
	} else {
		for _, e := range errs {
			_, _ = fmt.Fprintf(w, "%s %s: %s\n", styles.TextErrorStyle.Render("✘"), e.Field, e.Message)
		}
		if len(errs) == 0 {
			_, _ = fmt.Fprintf(w, "%s Configuration is valid\n", styles.TextSuccessStyle.Render("✔"))
		} else {
			_, _ = fmt.Fprintf(w, "\n%d error(s) found\n", len(errs))
		}
	}

	if len(errs) > 0 {
		return cli.Exit("", 1)
	}
	return nil
}
