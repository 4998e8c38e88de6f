package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts the diff reference and stacked commit from the event
// context and adds them as "ref" and "commit".
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if ref := GetDiffRef(ctx); ref != "" {
		e.Str("ref", ref)
	}

	if commit := GetCommit(ctx); commit != "" {
		e.Str("commit", commit)
	}
}
