// Command docgen generates CLI reference documentation from the lumen command
// definitions. Output is written to docs/cli-reference.md.
package main

import (
	"fmt"
	"os"

	docs "github.com/urfave/cli-docs/v3"
	"github.com/urfave/cli/v3"

	"github.com/wk-j/lumen/internal/commands"
)

func main() {
	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "lumen",
		Usage:     "Review git changes side by side in the terminal",
		UsageText: "lumen [global options] [REF] [-- PATH...]\n   lumen [global options] command [command options]",
		Description: `Lumen shows each changed file as two aligned panels with word-level
highlighting, lets you select and copy text with the mouse, and collects
per-hunk annotations you can export as Markdown.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("LUMEN_LOG_LEVEL"),
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "path to log file (defaults to <data-dir>/lumen.log, - for stderr)",
				Sources: cli.EnvVars("LUMEN_LOG_FILE"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "log format (json, console)",
				Sources: cli.EnvVars("LUMEN_LOG_FORMAT"),
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Sources: cli.EnvVars("LUMEN_CONFIG"),
				Value:   "$XDG_CONFIG_HOME/lumen/config.yaml",
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "path to data directory",
				Sources: cli.EnvVars("LUMEN_DATA_DIR"),
				Value:   "$XDG_DATA_HOME/lumen",
			},
			&cli.StringFlag{
				Name:    "theme",
				Usage:   "color theme (see 'lumen themes')",
				Sources: cli.EnvVars("LUMEN_THEME"),
			},
		},
	}

	diffCmd := commands.NewDiffCmd(flags, commands.OpenRepository)
	root.Flags = append(root.Flags, diffCmd.Flags()...)

	root = diffCmd.Register(root)
	root = commands.NewThemesCmd(flags).Register(root)
	root = commands.NewConfigCmd(flags).Register(root)
	root = commands.NewDoctorCmd(flags, commands.OpenRepository).Register(root)

	md, err := docs.ToMarkdown(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating docs: %v\n", err)
		os.Exit(1)
	}

	outPath := "docs/cli-reference.md"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outPath)
}
