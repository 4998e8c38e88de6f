// Package git loads the files to review from a git repository.
package git

import (
	"context"
	"errors"
	"strings"

	"github.com/wk-j/lumen/internal/core/diff"
)

// ErrNotRepository is returned when the working directory is not inside a
// git repository.
var ErrNotRepository = errors.New("not a git repository")

// Backend produces the changed files for a reference.
type Backend interface {
	// ChangedFiles returns every file that differs for ref, with both full
	// blobs loaded. A non-empty paths restricts the result to those paths.
	ChangedFiles(ctx context.Context, ref Ref, paths []string) ([]diff.FileDiff, error)
	// Commits lists the commits covered by ref, oldest first.
	Commits(ctx context.Context, ref Ref) ([]Commit, error)
	// Branch returns the current branch name, or short commit SHA if in detached HEAD state.
	Branch(ctx context.Context) (string, error)
	Name() string
}

// Commit is one entry of a stacked review.
type Commit struct {
	ID      string
	ShortID string
	Summary string
}

// RefKind selects which two trees are compared.
type RefKind int

const (
	// RefWorkingTree compares HEAD to the files on disk.
	RefWorkingTree RefKind = iota
	// RefSingle compares a commit to its first parent.
	RefSingle
	// RefRange compares two revisions directly (A..B).
	RefRange
	// RefMergeBase compares the merge base of two revisions to the second (A...B).
	RefMergeBase
)

// Ref is a parsed diff reference.
type Ref struct {
	Kind RefKind
	From string
	To   string
}

// ParseRef interprets a user supplied reference. An empty string selects the
// working tree, "A...B" a merge base comparison, "A..B" a plain range and
// anything else a single commit. Omitted range ends default to HEAD.
func ParseRef(s string) Ref {
	s = strings.TrimSpace(s)
	if s == "" {
		return Ref{Kind: RefWorkingTree}
	}

	if from, to, ok := strings.Cut(s, "..."); ok {
		return Ref{Kind: RefMergeBase, From: orHead(from), To: orHead(to)}
	}
	if from, to, ok := strings.Cut(s, ".."); ok {
		return Ref{Kind: RefRange, From: orHead(from), To: orHead(to)}
	}
	return Ref{Kind: RefSingle, To: s}
}

func orHead(s string) string {
	if s == "" {
		return "HEAD"
	}
	return s
}

// String renders the reference the way ParseRef accepts it.
func (r Ref) String() string {
	switch r.Kind {
	case RefSingle:
		return r.To
	case RefRange:
		return r.From + ".." + r.To
	case RefMergeBase:
		return r.From + "..." + r.To
	default:
		return ""
	}
}

// IsWorkingTree reports whether the new side is read from disk.
func (r Ref) IsWorkingTree() bool {
	return r.Kind == RefWorkingTree
}
