package doctor

import (
	"context"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
)

// lookPathFunc is the function used to find executables on PATH.
// Package-level variable to allow test overrides.
var lookPathFunc = exec.LookPath

// clipboardUnsupported reports whether the system clipboard has no backend.
var clipboardUnsupported = func() bool { return clipboard.Unsupported }

// ToolsCheck verifies that the external programs lumen runs are available.
type ToolsCheck struct {
	gitPath     string
	editor      string
	copyCommand string
}

// NewToolsCheck creates a tools check for the configured git binary, the
// resolved editor command and the clipboard fallback.
func NewToolsCheck(gitPath, editor, copyCommand string) *ToolsCheck {
	return &ToolsCheck{gitPath: gitPath, editor: editor, copyCommand: copyCommand}
}

func (c *ToolsCheck) Name() string {
	return "Tools"
}

func (c *ToolsCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	// git is required
	if path, err := lookPathFunc(c.gitPath); err != nil {
		result.Items = append(result.Items, fail("git", c.gitPath+" not found on PATH"))
	} else {
		result.Items = append(result.Items, pass("git", path))
	}

	// The editor may carry arguments ("code --wait")
	if fields := strings.Fields(c.editor); len(fields) > 0 {
		if path, err := lookPathFunc(fields[0]); err != nil {
			result.Items = append(result.Items, warn("editor", fields[0]+" not found on PATH (e opens files)"))
		} else {
			result.Items = append(result.Items, pass("editor", path))
		}
	}

	switch {
	case !clipboardUnsupported():
		result.Items = append(result.Items, pass("clipboard", "system clipboard"))
	case c.copyCommand != "":
		result.Items = append(result.Items, pass("clipboard", "copy_command: "+c.copyCommand))
	default:
		result.Items = append(result.Items, warn("clipboard", "no clipboard utility found; set copy_command to enable yank"))
	}

	return result
}
