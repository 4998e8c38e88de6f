// Package annotation holds review notes attached to diff hunks and formats
// them for export.
package annotation

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wk-j/lumen/internal/core/diff"
	"github.com/wk-j/lumen/pkg/utils"
)

const (
	previewLength     = 40
	previewPathLength = 30
)

// Annotation is a note on one hunk of one file. At most one annotation exists
// per (FileIndex, HunkIndex) pair.
type Annotation struct {
	ID        uuid.UUID
	FileIndex int
	HunkIndex int
	Content   string
	// LineRange is the range recorded when the note was written. Export
	// recomputes ranges from the current diff and only falls back to this.
	LineRange diff.LineRange
	Filename  string
	CreatedAt time.Time
}

// FormatTime renders the creation time as local HH:MM.
func (a Annotation) FormatTime() string {
	return a.CreatedAt.Local().Format("15:04")
}

// Preview is the one-line summary shown in the annotation list:
//
//	internal/app.go:12-18 | first line of the note | 14:03
func (a Annotation) Preview() string {
	first, _, _ := strings.Cut(a.Content, "\n")
	if len(first) > previewLength {
		first = cutBytes(first, previewLength) + "..."
	}

	return fmt.Sprintf("%s:%d-%d | %s | %s",
		utils.TruncatePath(a.Filename, previewPathLength),
		a.LineRange.Start,
		a.LineRange.End,
		first,
		a.FormatTime(),
	)
}

func cutBytes(s string, n int) string {
	end := 0
	for i, r := range s {
		if i+len(string(r)) > n {
			break
		}
		end = i + len(string(r))
	}
	return s[:end]
}

// Store keeps annotations in insertion order.
type Store struct {
	items []Annotation
	now   func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Set adds a or replaces the annotation on the same hunk. A replacement keeps
// the existing ID and creation time when a does not carry its own.
func (s *Store) Set(a Annotation) Annotation {
	for i, existing := range s.items {
		if existing.FileIndex == a.FileIndex && existing.HunkIndex == a.HunkIndex {
			if a.ID == uuid.Nil {
				a.ID = existing.ID
			}
			if a.CreatedAt.IsZero() {
				a.CreatedAt = existing.CreatedAt
			}
			s.items[i] = a
			return a
		}
	}

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	s.items = append(s.items, a)
	return a
}

// Get returns the annotation on the given hunk.
func (s *Store) Get(fileIndex, hunkIndex int) (Annotation, bool) {
	for _, a := range s.items {
		if a.FileIndex == fileIndex && a.HunkIndex == hunkIndex {
			return a, true
		}
	}
	return Annotation{}, false
}

// ByID finds an annotation by its ID.
func (s *Store) ByID(id uuid.UUID) (Annotation, bool) {
	for _, a := range s.items {
		if a.ID == id {
			return a, true
		}
	}
	return Annotation{}, false
}

// Remove deletes the annotation on the given hunk and reports whether one
// existed.
func (s *Store) Remove(fileIndex, hunkIndex int) bool {
	n := len(s.items)
	s.items = slices.DeleteFunc(s.items, func(a Annotation) bool {
		return a.FileIndex == fileIndex && a.HunkIndex == hunkIndex
	})
	return len(s.items) != n
}

// Len returns the number of annotations.
func (s *Store) Len() int { return len(s.items) }

// All returns a copy of the annotations ordered by creation time.
func (s *Store) All() []Annotation {
	out := slices.Clone(s.items)
	slices.SortStableFunc(out, func(a, b Annotation) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out
}

// FileInfo describes a file after a reload.
type FileInfo struct {
	Index     int
	HunkCount int
}

// Remap rewrites file indices after the file list changed. Annotations whose
// file disappeared, or whose hunk index is no longer below the new hunk
// count, are dropped. It returns the number of dropped annotations.
func (s *Store) Remap(files map[string]FileInfo) int {
	kept := s.items[:0]
	for _, a := range s.items {
		info, ok := files[a.Filename]
		if !ok || a.HunkIndex >= info.HunkCount {
			continue
		}
		a.FileIndex = info.Index
		kept = append(kept, a)
	}

	dropped := len(s.items) - len(kept)
	clear(s.items[len(kept):])
	s.items = kept
	return dropped
}
