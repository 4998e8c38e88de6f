package review

import (
	"github.com/wk-j/lumen/internal/core/annotation"
	"github.com/wk-j/lumen/internal/core/diff"
)

var _ annotation.HunkSource = (*State)(nil)

// SetAnnotation adds or replaces the note on a hunk.
func (s *State) SetAnnotation(a annotation.Annotation) annotation.Annotation {
	return s.annotations.Set(a)
}

// Annotation returns the note on a hunk.
func (s *State) Annotation(fileIndex, hunkIndex int) (annotation.Annotation, bool) {
	return s.annotations.Get(fileIndex, hunkIndex)
}

// RemoveAnnotation deletes the note on a hunk.
func (s *State) RemoveAnnotation(fileIndex, hunkIndex int) bool {
	return s.annotations.Remove(fileIndex, hunkIndex)
}

// Annotations returns all notes ordered by creation time.
func (s *State) Annotations() []annotation.Annotation {
	return s.annotations.All()
}

// AnnotationCount is the number of notes.
func (s *State) AnnotationCount() int { return s.annotations.Len() }

// AnnotationDraft prepares a note for hunk idx of the current file. When the
// hunk is already annotated the existing note is returned so it can be
// edited.
func (s *State) AnnotationDraft(idx int) (annotation.Annotation, bool) {
	f, ok := s.Current()
	if !ok {
		return annotation.Annotation{}, false
	}
	rows, hunks := s.SideBySide(), s.Hunks()
	if idx < 0 || idx >= len(hunks) {
		return annotation.Annotation{}, false
	}

	if existing, ok := s.annotations.Get(s.current, idx); ok {
		existing.LineRange = diff.HunkLineRange(rows, hunks, idx)
		return existing, true
	}

	return annotation.Annotation{
		FileIndex: s.current,
		HunkIndex: idx,
		Filename:  f.Filename,
		LineRange: diff.HunkLineRange(rows, hunks, idx),
	}, true
}

// HunkContent computes the changed lines of a hunk in any loaded file. The
// current file is served from the cache.
func (s *State) HunkContent(fileIndex, hunkIndex int) (diff.HunkContent, bool) {
	if fileIndex < 0 || fileIndex >= len(s.files) {
		return diff.HunkContent{}, false
	}

	var rows []diff.DiffLine
	var hunks []int
	if fileIndex == s.current {
		rows, hunks = s.SideBySide(), s.Hunks()
	} else {
		f := s.files[fileIndex]
		rows = diff.ComputeSideBySide(f.OldContent, f.NewContent, s.opts.Diff)
		hunks = diff.HunkStarts(rows)
	}
	return diff.HunkContentAt(rows, hunks, hunkIndex)
}

// ExportAnnotations renders every note with line ranges taken from the
// current diff.
func (s *State) ExportAnnotations() string {
	return annotation.Format(s.opts.Reference, s.annotations.All(), s)
}

// JumpToAnnotation opens the file of a note and focuses its hunk.
func (s *State) JumpToAnnotation(a annotation.Annotation) {
	if a.FileIndex < 0 || a.FileIndex >= len(s.files) {
		return
	}
	if a.FileIndex != s.current {
		s.SelectFile(a.FileIndex)
	} else {
		s.RevealFile(a.FileIndex)
	}
	s.FocusHunk(a.HunkIndex)
}
