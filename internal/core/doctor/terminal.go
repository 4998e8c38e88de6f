package doctor

import (
	"context"
	"strings"
)

// TerminalCheck reports whether the review program can draw in this terminal.
type TerminalCheck struct {
	isTTY  func() bool
	getenv func(string) string
}

func NewTerminalCheck(isTTY func() bool, getenv func(string) string) *TerminalCheck {
	return &TerminalCheck{isTTY: isTTY, getenv: getenv}
}

func (c *TerminalCheck) Name() string {
	return "Terminal"
}

func (c *TerminalCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if c.isTTY() {
		result.Items = append(result.Items, pass("interactive", "stdin and stdout are a terminal"))
	} else {
		result.Items = append(result.Items, warn("interactive", "not a terminal; only --export works"))
	}

	term := c.getenv("TERM")
	switch {
	case term == "" || term == "dumb":
		result.Items = append(result.Items, warn("TERM", "unset or dumb; colours and mouse may not work"))
	default:
		result.Items = append(result.Items, pass("TERM", term))
	}

	switch ct := strings.ToLower(c.getenv("COLORTERM")); ct {
	case "truecolor", "24bit":
		result.Items = append(result.Items, pass("colour", ct))
	default:
		result.Items = append(result.Items, warn("colour", "COLORTERM does not advertise truecolor; themes are approximated"))
	}

	return result
}
