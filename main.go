package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wk-j/lumen/internal/commands"
	"github.com/wk-j/lumen/internal/core/config"
	"github.com/wk-j/lumen/internal/core/logging"
	"github.com/wk-j/lumen/internal/core/styles"
	"github.com/wk-j/lumen/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var logCloser func()

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "lumen",
		Usage:     "Review git changes side by side in the terminal",
		UsageText: "lumen [global options] [REF] [-- PATH...]\n   lumen [global options] command [command options]",
		Description: `Lumen shows each changed file as two aligned panels with word-level
highlighting, lets you select and copy text with the mouse, and collects
per-hunk annotations you can export as Markdown.

Run 'lumen' to review the working tree, 'lumen HEAD~3..HEAD' for a range,
or 'lumen --stacked main..feature' to step through a branch commit by commit.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("LUMEN_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/lumen.log, - for stderr)",
				Sources:     cli.EnvVars("LUMEN_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "log format (json, console)",
				Sources:     cli.EnvVars("LUMEN_LOG_FORMAT"),
				Value:       logutils.FormatJSON,
				Destination: &flags.LogFormat,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("LUMEN_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("LUMEN_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "theme",
				Usage:       "color theme (see 'lumen themes')",
				Sources:     cli.EnvVars("LUMEN_THEME"),
				Destination: &flags.Theme,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Log to a file unless told otherwise; "-" selects stderr
			logFile := flags.LogFile
			switch logFile {
			case "":
				logFile = filepath.Join(flags.DataDir, "lumen.log")
			case "-":
				logFile = ""
			}

			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFormat, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			if flags.Theme != "" {
				if _, ok := styles.Get(flags.Theme); !ok {
					return ctx, fmt.Errorf("unknown theme %q (run 'lumen themes')", flags.Theme)
				}
				cfg.Theme = flags.Theme
			}

			// Apply configured theme (validation ensures name is valid)
			theme, _ := styles.Get(cfg.Theme)
			styles.SetTheme(theme)

			flags.Config = cfg
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	diffCmd := commands.NewDiffCmd(flags, commands.OpenRepository)

	app = diffCmd.Register(app)
	app = commands.NewThemesCmd(flags).Register(app)
	app = commands.NewConfigCmd(flags).Register(app)
	app = commands.NewDoctorCmd(flags, commands.OpenRepository).Register(app)

	// Register diff flags on root command
	app.Flags = append(app.Flags, diffCmd.Flags()...)

	// Review as the default action; positional args are the reference and paths
	app.Action = diffCmd.Run

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
