package executil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunShInput_PipesStdin(t *testing.T) {
	dir := t.TempDir()

	err := RunShInput(context.Background(), dir, "cat > out.txt", "copied text")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "copied text", string(data))
}

func TestRunShInput_Failure(t *testing.T) {
	err := RunShInput(context.Background(), "", "echo nope >&2; exit 3", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.ExitCode())
}

func TestRunShInput_StderrCapped(t *testing.T) {
	long := strings.Repeat("A", maxStderrLen*2)
	err := RunShInput(context.Background(), "", fmt.Sprintf("printf '%%s' '%s' >&2; exit 1", long), "")
	require.Error(t, err)

	msg := err.Error()
	assert.LessOrEqual(t, len(msg), maxStderrLen+20)
	assert.Equal(t, strings.Repeat("A", maxStderrLen), msg[:maxStderrLen])
}

func TestRealExecutor_RunDir(t *testing.T) {
	e := &RealExecutor{}
	ctx := context.Background()

	t.Run("stdout only", func(t *testing.T) {
		out, err := e.RunDir(ctx, "", "sh", "-c", "echo out; echo warn >&2")
		require.NoError(t, err)
		assert.Equal(t, "out\n", string(out))
	})

	t.Run("runs in directory", func(t *testing.T) {
		dir := t.TempDir()
		out, err := e.RunDir(ctx, dir, "pwd")
		require.NoError(t, err)

		want, _ := filepath.EvalSymlinks(dir)
		got, _ := filepath.EvalSymlinks(strings.TrimSpace(string(out)))
		assert.Equal(t, want, got)
	})

	t.Run("failure carries stderr", func(t *testing.T) {
		_, err := e.RunDir(ctx, "", "sh", "-c", "echo fatal: bad revision >&2; exit 128")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exec sh: fatal: bad revision")

		var exitErr *exec.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 128, exitErr.ExitCode())
	})

	t.Run("invalid directory", func(t *testing.T) {
		_, err := e.RunDir(ctx, "/nonexistent-dir-12345", "pwd")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "in /nonexistent-dir-12345")
	})
}

func TestRecordingExecutor(t *testing.T) {
	ctx := context.Background()

	t.Run("records commands", func(t *testing.T) {
		e := &RecordingExecutor{}

		_, _ = e.RunDir(ctx, "/repo", "git", "diff", "--raw")
		_, _ = e.RunDir(ctx, "/repo", "sh", "-c", "true")

		require.Len(t, e.Commands, 2)
		assert.Equal(t, RecordedCommand{Dir: "/repo", Cmd: "git", Args: []string{"diff", "--raw"}}, e.Commands[0])
		assert.Len(t, e.Calls("git"), 1)
	})

	t.Run("configured output and error", func(t *testing.T) {
		failed := errors.New("command failed")
		e := &RecordingExecutor{
			Outputs: map[string][]byte{"git": []byte("output")},
			Errors:  map[string]error{"sh": failed},
		}

		out, err := e.RunDir(ctx, "", "git", "status")
		require.NoError(t, err)
		assert.Equal(t, []byte("output"), out)

		_, err = e.RunDir(ctx, "", "sh")
		assert.Equal(t, failed, err)
	})

	t.Run("responder sees arguments", func(t *testing.T) {
		e := &RecordingExecutor{
			Outputs: map[string][]byte{"git": []byte("ignored")},
			Respond: func(dir, cmd string, args []string) ([]byte, error) {
				return []byte(dir + ":" + strings.Join(args, " ")), nil
			},
		}

		out, err := e.RunDir(ctx, "/repo", "git", "show", "HEAD:a.go")
		require.NoError(t, err)
		assert.Equal(t, "/repo:show HEAD:a.go", string(out))
	})

	t.Run("reset clears commands", func(t *testing.T) {
		e := &RecordingExecutor{}
		_, _ = e.RunDir(ctx, "", "echo", "hello")

		e.Reset()
		assert.Empty(t, e.Commands)
	})
}
