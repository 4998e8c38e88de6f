package commands

import (
	"context"
	"fmt"
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/urfave/cli/v3"

	"github.com/wk-j/lumen/internal/core/styles"
)

type ThemesCmd struct {
	flags *Flags
}

func NewThemesCmd(flags *Flags) *ThemesCmd {
	return &ThemesCmd{flags: flags}
}

func (cmd *ThemesCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "themes",
		Usage:     "List the available themes",
		UsageText: "lumen themes",
		Action:    cmd.run,
	})
	return app
}

// run prints one theme per line with a colour swatch. The active theme is
// marked with an asterisk.
func (cmd *ThemesCmd) run(_ context.Context, c *cli.Command) error {
	w := c.Root().Writer
	active := ""
	if cmd.flags.Config != nil {
		active = cmd.flags.Config.Theme
	}

	for _, name := range styles.ThemeNames() {
		t, ok := styles.Get(name)
		if !ok {
			continue
		}

		marker := " "
		if name == active {
			marker = "*"
		}

		var swatch string
		for _, col := range []color.Color{t.UI.StatusAdded, t.UI.StatusModified, t.UI.StatusDeleted, t.UI.BorderFocused} {
			swatch += lipgloss.NewStyle().Foreground(col).Render("■")
		}
		_, _ = fmt.Fprintf(w, "%s %-20s %s\n", marker, name, swatch)
	}
	return nil
}
