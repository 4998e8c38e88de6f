package logging

import "context"

type contextKey string

const (
	diffRefKey contextKey = "diff_ref"
	commitKey  contextKey = "commit"
)

// WithDiffRef adds the diff reference being reviewed to the context.
func WithDiffRef(ctx context.Context, ref string) context.Context {
	return context.WithValue(ctx, diffRefKey, ref)
}

// WithCommit adds the commit currently shown in stacked mode to the context.
func WithCommit(ctx context.Context, commit string) context.Context {
	return context.WithValue(ctx, commitKey, commit)
}

// GetDiffRef retrieves the diff reference from the context.
// Returns empty string if not present.
func GetDiffRef(ctx context.Context) string {
	if ref, ok := ctx.Value(diffRefKey).(string); ok {
		return ref
	}
	return ""
}

// GetCommit retrieves the stacked commit from the context.
// Returns empty string if not present.
func GetCommit(ctx context.Context) string {
	if c, ok := ctx.Value(commitKey).(string); ok {
		return c
	}
	return ""
}
