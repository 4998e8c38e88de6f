package review

import "github.com/wk-j/lumen/internal/core/diff"

// AdjustScrollToLine returns a scroll offset that keeps line at least margin
// rows away from the top and bottom of a viewport visible rows tall. The
// scroll only moves when the line falls inside a margin.
func AdjustScrollToLine(line, scroll, visible, maxScroll, margin int) int {
	content := max(visible-2, 0)
	bottom := max(content-margin, 0)

	next := scroll
	switch {
	case line < scroll+margin:
		next = max(line-margin, 0)
	case line >= scroll+bottom:
		next = max(line-max(bottom-1, 0), 0)
	}
	return min(next, max(maxScroll, 0))
}

// AdjustScrollForHunk scrolls so a hunk starting at line has top rows above
// it and bottom rows reserved below it. A hunk already inside that window
// leaves the scroll unchanged.
func AdjustScrollForHunk(line, scroll, visible, maxScroll, top, bottom int) int {
	content := max(visible-2, 0)
	limit := max(maxScroll, 0)

	if line < scroll+top {
		return min(max(line-top, 0), limit)
	}

	window := max(content-bottom, 0)
	if line >= scroll+window {
		return min(max(line-max(window-1, 0), 0), limit)
	}
	return scroll
}

// ViewHeight is the number of diff rows on screen.
func (s *State) ViewHeight() int { return s.viewHeight }

// SetViewHeight records the height of the diff area after a resize.
func (s *State) SetViewHeight(h int) {
	s.viewHeight = max(h, 1)
	s.scroll = min(s.scroll, s.MaxScroll())
}

// Scroll is the index of the first visible row.
func (s *State) Scroll() int { return s.scroll }

// HScroll is the horizontal offset in characters.
func (s *State) HScroll() int { return s.hscroll }

// MaxScroll allows scrolling a few rows past the last one.
func (s *State) MaxScroll() int {
	return max(len(s.SideBySide())-max(s.viewHeight-bottomPadding, 0), 0)
}

// ScrollBy moves the viewport by delta rows, clamped to [0, MaxScroll].
func (s *State) ScrollBy(delta int) {
	s.scroll = min(max(s.scroll+delta, 0), s.MaxScroll())
}

// HalfPage is the distance moved by ctrl+d and ctrl+u.
func (s *State) HalfPage() int { return max(s.viewHeight/2, 1) }

// HScrollBy moves the viewport horizontally, never left of column 0.
func (s *State) HScrollBy(delta int) {
	s.hscroll = max(s.hscroll+delta, 0)
}

// ScrollTop jumps to the first row.
func (s *State) ScrollTop() { s.scroll = 0 }

// ScrollBottom jumps to the last scroll position.
func (s *State) ScrollBottom() { s.scroll = s.MaxScroll() }

// ScrollToLine brings row into view using the line margin.
func (s *State) ScrollToLine(row int) {
	s.scroll = AdjustScrollToLine(row, s.scroll, s.viewHeight, s.MaxScroll(), s.opts.Scroll.LineMargin)
}

func (s *State) scrollToHunk(row int) {
	o := s.opts.Scroll
	s.scroll = AdjustScrollForHunk(row, s.scroll, s.viewHeight, s.MaxScroll(), o.TopMargin, o.BottomMargin)
}

// FocusedHunk returns the focused hunk index.
func (s *State) FocusedHunk() (int, bool) {
	if s.focusedHunk < 0 || s.focusedHunk >= len(s.Hunks()) {
		return 0, false
	}
	return s.focusedHunk, true
}

// NextHunk focuses the following hunk. With no focused hunk it picks the
// first hunk below the top margin.
func (s *State) NextHunk() {
	s.ClearSelection()
	hunks := s.Hunks()
	if len(hunks) == 0 {
		return
	}

	next := 0
	if s.focusedHunk < 0 {
		for i, h := range hunks {
			if h > s.scroll+s.opts.Scroll.TopMargin {
				next = i
				break
			}
		}
	} else {
		next = min(s.focusedHunk+1, len(hunks)-1)
	}

	s.focusedHunk = next
	s.scrollToHunk(hunks[next])
}

// PrevHunk focuses the preceding hunk. With no focused hunk it picks the
// last hunk above the top margin.
func (s *State) PrevHunk() {
	s.ClearSelection()
	hunks := s.Hunks()
	if len(hunks) == 0 {
		return
	}

	prev := len(hunks) - 1
	if s.focusedHunk < 0 {
		limit := max(s.scroll-s.opts.Scroll.TopMargin, 0)
		for i := len(hunks) - 1; i >= 0; i-- {
			if hunks[i] < limit {
				prev = i
				break
			}
		}
	} else {
		prev = max(s.focusedHunk-1, 0)
	}

	s.focusedHunk = prev
	s.scrollToHunk(hunks[prev])
}

// FocusHunk focuses hunk idx of the current file and scrolls to it.
func (s *State) FocusHunk(idx int) {
	hunks := s.Hunks()
	if idx < 0 || idx >= len(hunks) {
		return
	}
	s.focusedHunk = idx
	s.scrollToHunk(hunks[idx])
}

// FocusedHunkRows returns the first row and the last changed row of the
// focused hunk.
func (s *State) FocusedHunkRows() (start, end int, ok bool) {
	idx, ok := s.FocusedHunk()
	if !ok {
		return 0, 0, false
	}
	rows, hunks := s.SideBySide(), s.Hunks()
	return hunks[idx], diff.HunkEnd(rows, hunks, idx), true
}

// EditorLine is the line to open an editor at: the first line of the focused
// hunk, preferring the new side.
func (s *State) EditorLine() (int, bool) {
	idx, ok := s.FocusedHunk()
	if !ok {
		return 0, false
	}
	rows := s.SideBySide()
	start := s.Hunks()[idx]
	if start >= len(rows) {
		return 0, false
	}
	return rows[start].DisplayNumber()
}
