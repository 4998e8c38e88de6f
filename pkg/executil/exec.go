// Package executil runs external programs: git for the review backend and the
// user's shell for clipboard fallbacks.
package executil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// maxStderrLen caps the stderr attached to errors so that large or ANSI
// output cannot reach the TUI status line.
const maxStderrLen = 500

// limitedWriter keeps at most max bytes and silently drops the rest.
type limitedWriter struct {
	buf *bytes.Buffer
	n   int64
	max int64
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.n >= w.max {
		return len(p), nil
	}
	origLen := len(p)
	if remaining := w.max - w.n; int64(origLen) > remaining {
		p = p[:remaining]
	}
	n, err := w.buf.Write(p)
	w.n += int64(n)
	if err != nil {
		return n, err
	}
	return origLen, nil
}

// wrapStderr attaches captured stderr to err. The *exec.ExitError stays
// reachable through errors.As.
func wrapStderr(prefix string, stderr *bytes.Buffer, err error) error {
	msg := strings.TrimSpace(stderr.String())
	switch {
	case prefix != "" && msg != "":
		return fmt.Errorf("%s: %s: %w", prefix, msg, err)
	case prefix != "":
		return fmt.Errorf("%s: %w", prefix, err)
	case msg != "":
		return fmt.Errorf("%s: %w", msg, err)
	default:
		return err
	}
}

// RunShInput runs cmd through sh with input on stdin, in dir (empty means the
// current directory). Stdout is discarded.
func RunShInput(ctx context.Context, dir, cmd, input string) error {
	c := exec.CommandContext(ctx, "sh", "-c", cmd)
	c.Dir = dir

	var stderr bytes.Buffer
	c.Stdin = strings.NewReader(input)
	c.Stdout = io.Discard
	c.Stderr = &limitedWriter{buf: &stderr, max: maxStderrLen}
	if err := c.Run(); err != nil {
		return wrapStderr("", &stderr, err)
	}
	return nil
}

// Executor runs a program and returns its standard output.
type Executor interface {
	// RunDir executes cmd in dir (empty means the current directory).
	RunDir(ctx context.Context, dir, cmd string, args ...string) ([]byte, error)
}

// RealExecutor starts real processes.
type RealExecutor struct{}

// RunDir keeps stderr out of the returned output so parsers never see
// warnings; on failure it is attached to the error.
func (e *RealExecutor) RunDir(ctx context.Context, dir, cmd string, args ...string) ([]byte, error) {
	c := exec.CommandContext(ctx, cmd, args...)
	c.Dir = dir

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &limitedWriter{buf: &stderr, max: maxStderrLen}

	if err := c.Run(); err != nil {
		where := "exec " + cmd
		if dir != "" {
			where += " in " + dir
		}
		return stdout.Bytes(), wrapStderr(where, &stderr, err)
	}
	return stdout.Bytes(), nil
}
