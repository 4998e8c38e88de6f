package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/rs/zerolog/log"

	"github.com/wk-j/lumen/internal/core/diff"
	"github.com/wk-j/lumen/pkg/executil"
)

// Executor implements Backend using the git command-line tool.
type Executor struct {
	gitPath string
	exec    executil.Executor
	root    string
}

var _ Backend = (*Executor)(nil)

// Open verifies that dir is inside a work tree and returns an executor rooted
// at its top level.
func Open(ctx context.Context, gitPath, dir string, exec executil.Executor) (*Executor, error) {
	out, err := exec.RunDir(ctx, dir, gitPath, "rev-parse", "--git-dir", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, dir)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	root := strings.TrimSpace(lines[len(lines)-1])
	if len(lines) < 2 || root == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, dir)
	}

	return &Executor{gitPath: gitPath, exec: exec, root: root}, nil
}

// NewExecutor creates an executor for an already known repository root.
func NewExecutor(gitPath, root string, exec executil.Executor) *Executor {
	return &Executor{gitPath: gitPath, exec: exec, root: root}
}

func (e *Executor) Name() string { return "git" }

// Root is the top level of the work tree.
func (e *Executor) Root() string { return e.root }

func (e *Executor) git(ctx context.Context, args ...string) ([]byte, error) {
	return e.exec.RunDir(ctx, e.root, e.gitPath, args...)
}

// sides resolves which revisions hold the old and new blobs. An empty base
// means the old side is empty (root commit); an empty target means the work
// tree.
func (e *Executor) sides(ctx context.Context, ref Ref) (base, target string, err error) {
	switch ref.Kind {
	case RefWorkingTree:
		return "HEAD", "", nil
	case RefSingle:
		parent, err := e.parent(ctx, ref.To)
		if err != nil {
			return "", "", err
		}
		return parent, ref.To, nil
	case RefRange:
		return ref.From, ref.To, nil
	case RefMergeBase:
		return e.mergeBase(ctx, ref.From, ref.To), ref.To, nil
	default:
		return "", "", fmt.Errorf("unknown ref kind %d", ref.Kind)
	}
}

// parent returns the first parent of sha, or "" for a root commit.
func (e *Executor) parent(ctx context.Context, sha string) (string, error) {
	if _, err := e.git(ctx, "rev-parse", "--verify", "--quiet", sha); err != nil {
		return "", fmt.Errorf("unknown revision %q: %w", sha, err)
	}

	out, err := e.git(ctx, "rev-parse", "--verify", "--quiet", sha+"^")
	if err != nil {
		return "", nil
	}
	return strings.TrimSpace(string(out)), nil
}

// mergeBase falls back to from when git cannot find a common ancestor.
func (e *Executor) mergeBase(ctx context.Context, from, to string) string {
	out, err := e.git(ctx, "merge-base", from, to)
	base := strings.TrimSpace(string(out))
	if err != nil || base == "" {
		log.Warn().Err(err).Str("from", from).Str("to", to).Msg("no merge base, comparing against from")
		return from
	}
	return base
}

func (e *Executor) ChangedFiles(ctx context.Context, ref Ref, paths []string) ([]diff.FileDiff, error) {
	base, target, err := e.sides(ctx, ref)
	if err != nil {
		return nil, err
	}

	args := []string{"diff", "--no-color", "--no-ext-diff", "-M"}
	switch {
	case base == "":
		// Root commit: compare against the empty tree.
		args = []string{"show", "--format=", "--no-color", "--no-ext-diff", "-M", target}
	case target == "":
		args = append(args, base)
	default:
		args = append(args, base, target)
	}
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}

	out, err := e.git(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("git diff: %w", err)
	}

	files, _, err := gitdiff.Parse(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("parse diff: %w", err)
	}

	result := make([]diff.FileDiff, 0, len(files))
	for _, f := range files {
		fd, err := e.load(ctx, f, base, target)
		if err != nil {
			return nil, err
		}
		result = append(result, fd)
	}

	if target == "" {
		untracked, err := e.untracked(ctx, paths)
		if err != nil {
			return nil, err
		}
		result = append(result, untracked...)
	}

	return result, nil
}

func (e *Executor) load(ctx context.Context, f *gitdiff.File, base, target string) (diff.FileDiff, error) {
	name := f.NewName
	if f.IsDelete || name == "" {
		name = f.OldName
	}

	var oldContent, newContent string
	if !f.IsNew && base != "" {
		content, err := e.show(ctx, base, f.OldName)
		if err != nil {
			return diff.FileDiff{}, err
		}
		oldContent = content
	}
	if !f.IsDelete {
		content, err := e.newContent(ctx, target, name)
		if err != nil {
			return diff.FileDiff{}, err
		}
		newContent = content
	}

	status := diff.StatusFor(oldContent, newContent)
	switch {
	case f.IsNew:
		status = diff.StatusAdded
	case f.IsDelete:
		status = diff.StatusDeleted
	case f.IsRename || f.IsCopy:
		status = diff.StatusModified
	}

	return diff.FileDiff{
		Filename:   name,
		OldContent: oldContent,
		NewContent: newContent,
		Status:     status,
		IsBinary:   f.IsBinary || diff.IsBinary(oldContent) || diff.IsBinary(newContent),
	}, nil
}

func (e *Executor) show(ctx context.Context, rev, path string) (string, error) {
	out, err := e.git(ctx, "show", rev+":"+path)
	if err != nil {
		return "", fmt.Errorf("git show %s:%s: %w", rev, path, err)
	}
	return string(out), nil
}

func (e *Executor) newContent(ctx context.Context, target, path string) (string, error) {
	if target != "" {
		return e.show(ctx, target, path)
	}

	data, err := os.ReadFile(filepath.Join(e.root, filepath.FromSlash(path)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// untracked lists files git does not know about yet as additions.
func (e *Executor) untracked(ctx context.Context, paths []string) ([]diff.FileDiff, error) {
	args := []string{"ls-files", "--others", "--exclude-standard"}
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}

	out, err := e.git(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	var files []diff.FileDiff
	for _, name := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if name == "" {
			continue
		}
		content, err := e.newContent(ctx, "", name)
		if err != nil {
			return nil, err
		}
		files = append(files, diff.FileDiff{
			Filename:   name,
			NewContent: content,
			Status:     diff.StatusAdded,
			IsBinary:   diff.IsBinary(content),
		})
	}
	return files, nil
}

func (e *Executor) Commits(ctx context.Context, ref Ref) ([]Commit, error) {
	var rangeArg string
	switch ref.Kind {
	case RefRange:
		rangeArg = ref.From + ".." + ref.To
	case RefMergeBase:
		rangeArg = e.mergeBase(ctx, ref.From, ref.To) + ".." + ref.To
	case RefSingle:
		rangeArg = ref.To + "^!"
	default:
		return nil, nil
	}

	out, err := e.git(ctx, "log", "--reverse", "--format=%H%x00%h%x00%s", rangeArg)
	if err != nil {
		return nil, fmt.Errorf("git log: %w", err)
	}

	return parseLog(string(out)), nil
}

func parseLog(out string) []Commit {
	var commits []Commit
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\x00", 3)
		if len(parts) != 3 {
			continue
		}
		commits = append(commits, Commit{ID: parts[0], ShortID: parts[1], Summary: parts[2]})
	}
	return commits
}

func (e *Executor) Branch(ctx context.Context) (string, error) {
	// Try to get branch name first
	out, err := e.git(ctx, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("git branch: %w", err)
	}

	branch := strings.TrimSpace(string(out))
	if branch != "" {
		return branch, nil
	}

	// Empty branch name means detached HEAD - get short commit SHA
	out, err = e.git(ctx, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}

	return strings.TrimSpace(string(out)), nil
}
