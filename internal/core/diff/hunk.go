package diff

import "strings"

// LineRange is an inclusive range of 1-based line numbers.
type LineRange struct {
	Start int
	End   int
}

// HunkContent describes the changed lines of a single hunk.
type HunkContent struct {
	// Old is nil when the hunk removes nothing.
	Old *LineRange
	// New is nil when the hunk adds nothing.
	New *LineRange
	// Lines holds "- text" and "+ text" entries, one per changed side.
	Lines []string
}

// Text renders Lines with a trailing newline after each entry.
func (h HunkContent) Text() string {
	if len(h.Lines) == 0 {
		return ""
	}
	return strings.Join(h.Lines, "\n") + "\n"
}

// hunkBounds returns the half-open row range [start, next) for hunk idx.
func hunkBounds(rows []DiffLine, hunks []int, idx int) (int, int, bool) {
	if idx < 0 || idx >= len(hunks) {
		return 0, 0, false
	}
	start := hunks[idx]
	next := len(rows)
	if idx+1 < len(hunks) {
		next = hunks[idx+1]
	}
	return start, next, true
}

// HunkContentAt collects the changed lines of hunk idx, walking from its first
// row up to the start of the next hunk and skipping equal rows.
func HunkContentAt(rows []DiffLine, hunks []int, idx int) (HunkContent, bool) {
	start, next, ok := hunkBounds(rows, hunks, idx)
	if !ok {
		return HunkContent{}, false
	}

	var content HunkContent
	extend := func(r **LineRange, n int) {
		if *r == nil {
			*r = &LineRange{Start: n, End: n}
			return
		}
		(*r).End = n
	}

	for _, row := range rows[start:next] {
		if !row.IsChange() {
			continue
		}
		if row.Old != nil && row.Kind != Insert {
			content.Lines = append(content.Lines, "- "+row.Old.Text)
			extend(&content.Old, row.Old.Number)
		}
		if row.New != nil && row.Kind != Delete {
			content.Lines = append(content.Lines, "+ "+row.New.Text)
			extend(&content.New, row.New.Number)
		}
	}

	return content, true
}

// HunkEnd returns the index of the last changed row of hunk idx.
func HunkEnd(rows []DiffLine, hunks []int, idx int) int {
	start, next, ok := hunkBounds(rows, hunks, idx)
	if !ok {
		return 0
	}
	end := start
	for i := start; i < next; i++ {
		if rows[i].IsChange() {
			end = i
		}
	}
	return end
}

// HunkLineRange returns the display range of hunk idx, preferring new line
// numbers and falling back to old ones for pure deletions.
func HunkLineRange(rows []DiffLine, hunks []int, idx int) LineRange {
	start, _, ok := hunkBounds(rows, hunks, idx)
	if !ok || start >= len(rows) {
		return LineRange{Start: 1, End: 1}
	}

	first, ok := rows[start].DisplayNumber()
	if !ok {
		first = 1
	}
	last, ok := rows[HunkEnd(rows, hunks, idx)].DisplayNumber()
	if !ok {
		last = first
	}
	return LineRange{Start: first, End: last}
}

// HunkIndexAt returns the hunk containing row, or the closest hunk that starts
// at or before it.
func HunkIndexAt(hunks []int, row int) (int, bool) {
	found := -1
	for i, start := range hunks {
		if start > row {
			break
		}
		found = i
	}
	return found, found >= 0
}
