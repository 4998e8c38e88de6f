package executil

import (
	"context"
	"sync"
)

// RecordedCommand captures a command that was executed.
type RecordedCommand struct {
	Dir  string
	Cmd  string
	Args []string
}

// ResponderFunc computes the result of a single recorded invocation.
type ResponderFunc func(dir, cmd string, args []string) ([]byte, error)

// RecordingExecutor captures commands for testing. Outputs and Errors answer
// by command name; Respond answers each invocation from its arguments.
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []RecordedCommand

	Outputs map[string][]byte
	Errors  map[string]error

	// Respond takes precedence over Outputs and Errors when set.
	Respond ResponderFunc
}

// RunDir records the command with directory and returns configured output/error.
func (e *RecordingExecutor) RunDir(_ context.Context, dir, cmd string, args ...string) ([]byte, error) {
	return e.record(dir, cmd, args...)
}

// Calls returns the recorded invocations of cmd.
func (e *RecordingExecutor) Calls(cmd string) []RecordedCommand {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []RecordedCommand
	for _, c := range e.Commands {
		if c.Cmd == cmd {
			out = append(out, c)
		}
	}
	return out
}

func (e *RecordingExecutor) record(dir, cmd string, args ...string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Commands = append(e.Commands, RecordedCommand{
		Dir:  dir,
		Cmd:  cmd,
		Args: args,
	})

	if e.Respond != nil {
		return e.Respond(dir, cmd, args)
	}

	var out []byte
	var err error

	if e.Outputs != nil {
		out = e.Outputs[cmd]
	}
	if e.Errors != nil {
		err = e.Errors[cmd]
	}

	return out, err
}

// Reset clears recorded commands.
func (e *RecordingExecutor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Commands = nil
}

var _ Executor = (*RecordingExecutor)(nil)
