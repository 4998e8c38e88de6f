package annotation

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/wk-j/lumen/internal/core/diff"
)

// maxInlineDiffLines caps how many diff lines are embedded next to a note.
// Larger hunks are referenced by line range only.
const maxInlineDiffLines = 5

var (
	ErrEmptyPath     = errors.New("path cannot be empty")
	ErrPathTraversal = errors.New("path cannot contain '..'")
)

// HunkSource resolves the current content of an annotated hunk.
type HunkSource interface {
	HunkContent(fileIndex, hunkIndex int) (diff.HunkContent, bool)
}

// HunkSourceFunc adapts a function to HunkSource.
type HunkSourceFunc func(fileIndex, hunkIndex int) (diff.HunkContent, bool)

func (f HunkSourceFunc) HunkContent(fileIndex, hunkIndex int) (diff.HunkContent, bool) {
	return f(fileIndex, hunkIndex)
}

// Format renders annotations as plain text suitable for pasting into a chat
// or a review tool. When ref is empty no header is written.
//
//	Annotations for diff: main..feature
//
//	- src/app.go:L12-14
//	```diff
//	- old
//	+ new
//	```
//	comment: looks wrong
func Format(ref string, anns []Annotation, src HunkSource) string {
	var sb strings.Builder

	if ref != "" {
		fmt.Fprintf(&sb, "Annotations for diff: %s\n\n", ref)
	}

	entries := make([]string, 0, len(anns))
	for _, a := range anns {
		entries = append(entries, formatEntry(ref, a, src))
	}
	sb.WriteString(strings.Join(entries, "\n"))

	return sb.String()
}

func formatEntry(ref string, a Annotation, src HunkSource) string {
	var sb strings.Builder
	sb.WriteString("- ")
	sb.WriteString(a.Filename)

	var (
		content diff.HunkContent
		ok      bool
	)
	if src != nil {
		content, ok = src.HunkContent(a.FileIndex, a.HunkIndex)
	}

	switch {
	case !ok:
		fmt.Fprintf(&sb, ":L%d-%d", a.LineRange.Start, a.LineRange.End)
	case content.New != nil:
		sb.WriteString(lineSuffix(*content.New))
	case content.Old != nil:
		old := *content.Old
		if old.Start == old.End {
			fmt.Fprintf(&sb, " (deleted from %s:L%d)", baseRef(ref), old.Start)
		} else {
			fmt.Fprintf(&sb, " (deleted from %s:L%d-%d)", baseRef(ref), old.Start, old.End)
		}
	default:
		fmt.Fprintf(&sb, ":L%d-%d", a.LineRange.Start, a.LineRange.End)
	}
	sb.WriteByte('\n')

	if ok && len(content.Lines) > 0 && len(content.Lines) <= maxInlineDiffLines {
		sb.WriteString("```diff\n")
		sb.WriteString(content.Text())
		sb.WriteString("```\n")
	}

	fmt.Fprintf(&sb, "comment: %s\n", a.Content)
	return sb.String()
}

func lineSuffix(r diff.LineRange) string {
	if r.Start == r.End {
		return fmt.Sprintf(":L%d", r.Start)
	}
	return fmt.Sprintf(":L%d-%d", r.Start, r.End)
}

// baseRef is the left side of a range reference, the reference itself for a
// single revision, or "base" when there is none.
func baseRef(ref string) string {
	if ref == "" {
		return "base"
	}
	if base, _, ok := strings.Cut(ref, "..."); ok {
		return base
	}
	if base, _, ok := strings.Cut(ref, ".."); ok {
		return base
	}
	return ref
}

// ValidateExportPath checks a user supplied export destination and returns
// the trimmed path.
func ValidateExportPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", ErrEmptyPath
	}
	if strings.Contains(path, "..") {
		return "", ErrPathTraversal
	}
	return path, nil
}

// WriteFile validates path and writes the export text to it.
func WriteFile(path, content string) (string, error) {
	path, err := ValidateExportPath(path)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write annotations: %w", err)
	}
	return path, nil
}
