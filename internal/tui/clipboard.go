package tui

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"

	"github.com/wk-j/lumen/pkg/executil"
)

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the OS clipboard and falls back to a shell
// command that reads the text from stdin.
type SystemClipboard struct {
	Fallback string
}

// WriteAll implements Clipboard.
func (c SystemClipboard) WriteAll(text string) error {
	err := clipboard.WriteAll(text)
	if err == nil {
		return nil
	}
	if c.Fallback == "" {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	if ferr := executil.RunShInput(context.Background(), "", c.Fallback, text); ferr != nil {
		return fmt.Errorf("copy command: %w", ferr)
	}
	return nil
}

// editorFinishedMsg is sent when the external editor exits.
type editorFinishedMsg struct {
	err error
}

// editorCommand builds the editor invocation. The editor setting may carry
// arguments ("code --wait"); a line number is passed as +N.
func editorCommand(editor, path string, line int) *exec.Cmd {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		fields = []string{"vi"}
	}
	args := append([]string{}, fields[1:]...)
	if line > 0 {
		args = append(args, "+"+strconv.Itoa(line))
	}
	args = append(args, path)
	return exec.Command(fields[0], args...)
}

// openEditor suspends the TUI and runs the editor.
func openEditor(editor, path string, line int) tea.Cmd {
	c := editorCommand(editor, path, line)

	// ExecProcess suspends the TUI, runs the command, then resumes
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}
