// Package diff computes side-by-side, hunk-aware line diffs with word-level
// emphasis for paired rows. Everything in this package is pure: it never
// fails and never touches the filesystem.
package diff

// FileStatus describes how a file changed between the two sides of a diff.
type FileStatus int

const (
	StatusModified FileStatus = iota
	StatusAdded
	StatusDeleted
)

// Symbol returns the single letter shown in the sidebar.
func (s FileStatus) Symbol() string {
	switch s {
	case StatusAdded:
		return "A"
	case StatusDeleted:
		return "D"
	default:
		return "M"
	}
}

func (s FileStatus) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusDeleted:
		return "deleted"
	default:
		return "modified"
	}
}

// FileDiff is one changed file with both full blobs. Values are replaced
// wholesale on reload and never mutated once loaded.
type FileDiff struct {
	Filename   string
	OldContent string
	NewContent string
	Status     FileStatus
	IsBinary   bool
}

// StatusFor derives a status from the presence of content on each side.
func StatusFor(oldContent, newContent string) FileStatus {
	switch {
	case oldContent == "" && newContent != "":
		return StatusAdded
	case oldContent != "" && newContent == "":
		return StatusDeleted
	default:
		return StatusModified
	}
}

// ChangeKind classifies a row of the side-by-side diff.
type ChangeKind int

const (
	Equal ChangeKind = iota
	Delete
	Insert
	// Modified is a deletion paired with an insertion on the same row.
	Modified
)

func (k ChangeKind) String() string {
	switch k {
	case Delete:
		return "delete"
	case Insert:
		return "insert"
	case Modified:
		return "modified"
	default:
		return "equal"
	}
}

// Side is one half of a row: a 1-based line number and its display text.
type Side struct {
	Number int
	Text   string
}

// InlineSegment is a fragment of a line's text. Concatenating all segments of
// a side reproduces that side's text exactly.
type InlineSegment struct {
	Text       string
	Emphasized bool
}

// DiffLine is one visual row of the side-by-side view.
//
//   - Equal rows carry both sides with identical text.
//   - Delete rows carry only Old, Insert rows only New.
//   - Modified rows carry at least one side and may carry segments.
type DiffLine struct {
	Old         *Side
	New         *Side
	Kind        ChangeKind
	OldSegments []InlineSegment
	NewSegments []InlineSegment
}

// IsChange reports whether the row is part of a hunk.
func (l DiffLine) IsChange() bool {
	return l.Kind != Equal
}

// SideFor returns the old side when old is true, the new side otherwise.
func (l DiffLine) SideFor(old bool) *Side {
	if old {
		return l.Old
	}
	return l.New
}

// SegmentsFor returns the emphasis segments for one side.
func (l DiffLine) SegmentsFor(old bool) []InlineSegment {
	if old {
		return l.OldSegments
	}
	return l.NewSegments
}

// DisplayNumber prefers the new line number and falls back to the old one.
func (l DiffLine) DisplayNumber() (int, bool) {
	if l.New != nil {
		return l.New.Number, true
	}
	if l.Old != nil {
		return l.Old.Number, true
	}
	return 0, false
}
