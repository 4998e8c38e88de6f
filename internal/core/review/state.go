// Package review holds the mutable state of a review session: the loaded
// files, the sidebar tree, scroll and hunk focus, the viewed set, search,
// annotations and stacked commit navigation.
//
// State is owned by a single goroutine. Nothing here blocks or locks.
package review

import (
	"github.com/bmatcuk/doublestar/v4"

	"github.com/wk-j/lumen/internal/core/annotation"
	"github.com/wk-j/lumen/internal/core/diff"
	"github.com/wk-j/lumen/internal/core/layout"
	"github.com/wk-j/lumen/internal/core/logging"
	"github.com/wk-j/lumen/internal/core/selection"
)

// Focus is the panel that receives navigation keys.
type Focus int

const (
	FocusDiff Focus = iota
	FocusSidebar
)

// ScrollOptions are the margins used when scrolling to hunks and lines.
type ScrollOptions struct {
	// TopMargin is the number of rows kept above a focused hunk.
	TopMargin int
	// BottomMargin is the number of rows reserved below a focused hunk.
	BottomMargin int
	// LineMargin keeps search matches away from the viewport edges.
	LineMargin int
}

// DefaultScrollOptions returns the stock margins.
func DefaultScrollOptions() ScrollOptions {
	return ScrollOptions{TopMargin: 5, BottomMargin: 25, LineMargin: 10}
}

// ContextOptions controls the sticky scope rows above the diff.
type ContextOptions struct {
	Enabled  bool
	MaxLines int
}

// Options configure a new State.
type Options struct {
	// FocusFile selects the initial file by name.
	FocusFile string
	// Reference is the diff reference shown in headers and exports.
	Reference string
	// Diff and Scroll fall back to diff.DefaultOptions and
	// DefaultScrollOptions only when left entirely zero. A struct with any
	// field set is used as given, so a zero tab width or margin is kept.
	Diff    diff.Options
	Scroll  ScrollOptions
	Context ContextOptions
	// Exclude lists doublestar patterns removed from the file list.
	Exclude []string
	// ViewHeight is the initial height of the diff area in rows.
	ViewHeight int
}

// defaultViewHeight is used until the first resize.
const defaultViewHeight = 40

// bottomPadding is the number of rows that may be scrolled past the end.
const bottomPadding = 5

type cache struct {
	valid bool
	file  int
	rows  []diff.DiffLine
	hunks []int
}

// State is the review session.
type State struct {
	opts  Options
	files []diff.FileDiff

	current    int
	scroll     int
	hscroll    int
	viewHeight int

	focus       Focus
	showSidebar bool
	fullscreen  layout.Fullscreen
	sidebar     sidebar

	// focusedHunk is -1 when no hunk is focused.
	focusedHunk int
	pendingG    bool

	viewed      map[int]bool
	search      Search
	annotations *annotation.Store
	stacked     stacked

	selection selection.Selection
	dragging  bool

	cache        cache
	computeCount int
}

// New builds a state for files. The current file is FocusFile when present,
// otherwise the first file in sidebar order.
func New(files []diff.FileDiff, opts Options) *State {
	if opts.Diff == (diff.Options{}) {
		opts.Diff = diff.DefaultOptions()
	}
	if opts.Scroll == (ScrollOptions{}) {
		opts.Scroll = DefaultScrollOptions()
	}
	if opts.ViewHeight <= 0 {
		opts.ViewHeight = defaultViewHeight
	}

	s := &State{
		opts:        opts,
		files:       filterExcluded(files, opts.Exclude),
		viewHeight:  opts.ViewHeight,
		focus:       FocusDiff,
		showSidebar: true,
		focusedHunk: -1,
		viewed:      make(map[int]bool),
		annotations: annotation.NewStore(),
	}
	s.sidebar.items = buildTree(s.files)
	s.rebuildVisible()

	s.current = s.initialFile()
	s.selectInSidebar(s.current)
	s.resetScrollToFirstHunk()

	return s
}

func (s *State) initialFile() int {
	if name := s.opts.FocusFile; name != "" {
		for i, f := range s.files {
			if f.Filename == name {
				return i
			}
		}
		l := logging.Component("review")
		l.Warn().
			Str("file", name).
			Msg("focus file not found in diff, using first file")
	}

	for _, idx := range s.sidebar.visible {
		if item := s.sidebar.items[idx]; item.Kind == ItemFile {
			return item.FileIndex
		}
	}
	return 0
}

func filterExcluded(files []diff.FileDiff, patterns []string) []diff.FileDiff {
	if len(patterns) == 0 {
		return files
	}

	kept := make([]diff.FileDiff, 0, len(files))
outer:
	for _, f := range files {
		for _, p := range patterns {
			if ok, _ := doublestar.Match(p, f.Filename); ok {
				continue outer
			}
		}
		kept = append(kept, f)
	}
	return kept
}

// Files returns the loaded files. The slice must not be modified.
func (s *State) Files() []diff.FileDiff { return s.files }

// Empty reports whether there is nothing to review.
func (s *State) Empty() bool { return len(s.files) == 0 }

// CurrentIndex is the index of the displayed file.
func (s *State) CurrentIndex() int { return s.current }

// Current returns the displayed file.
func (s *State) Current() (diff.FileDiff, bool) {
	if s.current < 0 || s.current >= len(s.files) {
		return diff.FileDiff{}, false
	}
	return s.files[s.current], true
}

// Reference is the diff reference the session was opened with.
func (s *State) Reference() string { return s.opts.Reference }

// DiffOptions returns the engine settings in use.
func (s *State) DiffOptions() diff.Options { return s.opts.Diff }

// ContextOptions returns the sticky context settings.
func (s *State) ContextOptions() ContextOptions { return s.opts.Context }

// SideBySide returns the rows of the current file, computing them at most
// once per file until the cache is invalidated.
func (s *State) SideBySide() []diff.DiffLine {
	s.ensureCache()
	return s.cache.rows
}

// Hunks returns the hunk start rows of the current file.
func (s *State) Hunks() []int {
	s.ensureCache()
	return s.cache.hunks
}

func (s *State) ensureCache() {
	if len(s.files) == 0 {
		s.cache = cache{}
		return
	}
	if s.cache.valid && s.cache.file == s.current {
		return
	}

	f := s.files[s.current]
	rows := diff.ComputeSideBySide(f.OldContent, f.NewContent, s.opts.Diff)
	s.cache = cache{
		valid: true,
		file:  s.current,
		rows:  rows,
		hunks: diff.HunkStarts(rows),
	}
	s.computeCount++

	if s.search.HasQuery() {
		s.search.run(rows)
	}
}

// Invalidate drops the cached rows.
func (s *State) Invalidate() {
	s.cache = cache{}
}

// ComputeCount is the number of times rows were computed.
func (s *State) ComputeCount() int { return s.computeCount }

// SetTabWidth changes the tab stop and recomputes rows on next access.
func (s *State) SetTabWidth(n int) {
	if n == s.opts.Diff.TabWidth {
		return
	}
	s.opts.Diff.TabWidth = n
	s.Invalidate()
}

// TabWidth is the current tab stop.
func (s *State) TabWidth() int { return s.opts.Diff.TabWidth }

// SelectFile displays file i, scrolled to its first hunk.
func (s *State) SelectFile(i int) {
	if i < 0 || i >= len(s.files) {
		return
	}
	s.current = i
	s.fullscreen = layout.FullscreenNone
	s.ClearSelection()
	s.Invalidate()
	s.resetScrollToFirstHunk()
	s.RevealFile(i)
}

func (s *State) resetScrollToFirstHunk() {
	s.hscroll = 0
	s.scroll = 0
	s.focusedHunk = -1

	hunks := s.Hunks()
	if len(hunks) > 0 {
		s.scroll = max(hunks[0]-s.opts.Scroll.TopMargin, 0)
		s.focusedHunk = 0
	}
}

// Focus returns the focused panel.
func (s *State) Focus() Focus { return s.focus }

// FocusSidebar moves keyboard focus to the sidebar, showing it if hidden.
func (s *State) FocusSidebar() {
	s.showSidebar = true
	s.focus = FocusSidebar
}

// FocusDiff moves keyboard focus to the diff.
func (s *State) FocusDiff() { s.focus = FocusDiff }

// ToggleFocus switches between the sidebar and the diff.
func (s *State) ToggleFocus() {
	if s.focus == FocusSidebar {
		s.FocusDiff()
		return
	}
	s.FocusSidebar()
}

// ShowSidebar reports whether the sidebar is visible.
func (s *State) ShowSidebar() bool { return s.showSidebar }

// ToggleSidebar shows or hides the sidebar. Hiding it moves focus to the diff.
func (s *State) ToggleSidebar() {
	s.showSidebar = !s.showSidebar
	if !s.showSidebar {
		s.focus = FocusDiff
	}
}

// Fullscreen returns the current single panel mode.
func (s *State) Fullscreen() layout.Fullscreen { return s.fullscreen }

// ToggleFullscreen switches to showing only one side, or back to both. A
// side with no content cannot be shown alone.
func (s *State) ToggleFullscreen(fs layout.Fullscreen) {
	f, ok := s.Current()
	if !ok {
		return
	}
	switch fs {
	case layout.FullscreenOld:
		if f.OldContent == "" {
			return
		}
	case layout.FullscreenNew:
		if f.NewContent == "" {
			return
		}
	default:
		s.fullscreen = layout.FullscreenNone
		return
	}

	if s.fullscreen == fs {
		s.fullscreen = layout.FullscreenNone
	} else {
		s.fullscreen = fs
	}
}

// ResetFullscreen shows both panels.
func (s *State) ResetFullscreen() { s.fullscreen = layout.FullscreenNone }

// PressG records a "g" key and reports whether it completed a "gg" sequence.
func (s *State) PressG() bool {
	if s.pendingG {
		s.pendingG = false
		return true
	}
	s.pendingG = true
	return false
}

// ResetPendingKey forgets a pending "g". Called for every other key.
func (s *State) ResetPendingKey() { s.pendingG = false }

// Selection returns the current text selection.
func (s *State) Selection() selection.Selection { return s.selection }

// IsDragging reports whether a mouse drag is in progress.
func (s *State) IsDragging() bool { return s.dragging }

// StartSelection begins a drag at pos.
func (s *State) StartSelection(panel selection.Panel, pos selection.Position, mode selection.Mode) {
	s.selection = selection.Selection{Panel: panel, Anchor: pos, Head: pos, Mode: mode}
	s.dragging = true
}

// ExtendSelection moves the selection head while dragging.
func (s *State) ExtendSelection(pos selection.Position) {
	if s.dragging {
		s.selection.Head = pos
	}
}

// EndDrag finishes the drag and keeps the selection.
func (s *State) EndDrag() { s.dragging = false }

// ClearSelection drops the selection.
func (s *State) ClearSelection() {
	s.selection = selection.Selection{}
	s.dragging = false
}

// SelectedText extracts the selected text from the current rows.
func (s *State) SelectedText() (string, bool) {
	return selection.Extract(s.selection, s.SideBySide())
}

// StickyContext returns the enclosing scope lines for the row at the top of
// the viewport, or nil when disabled.
func (s *State) StickyContext() []diff.ContextLine {
	if !s.opts.Context.Enabled || s.opts.Context.MaxLines <= 0 {
		return nil
	}
	f, ok := s.Current()
	if !ok {
		return nil
	}
	rows := s.SideBySide()
	if s.scroll >= len(rows) {
		return nil
	}

	row := rows[s.scroll]
	switch {
	case row.New != nil:
		return diff.ScopeContext(f.NewContent, row.New.Number, s.opts.Context.MaxLines, s.opts.Diff.TabWidth)
	case row.Old != nil:
		return diff.ScopeContext(f.OldContent, row.Old.Number, s.opts.Context.MaxLines, s.opts.Diff.TabWidth)
	}
	return nil
}

// StickyContextFor returns the scope lines of one panel for the top row.
// When the top row lacks that side, the nearest row above that has it is
// used.
func (s *State) StickyContextFor(old bool) []diff.ContextLine {
	if !s.opts.Context.Enabled || s.opts.Context.MaxLines <= 0 {
		return nil
	}
	f, ok := s.Current()
	if !ok {
		return nil
	}
	rows := s.SideBySide()
	if s.scroll >= len(rows) {
		return nil
	}

	content := f.NewContent
	if old {
		content = f.OldContent
	}
	for i := s.scroll; i >= 0; i-- {
		if side := rows[i].SideFor(old); side != nil {
			return diff.ScopeContext(content, side.Number, s.opts.Context.MaxLines, s.opts.Diff.TabWidth)
		}
	}
	return nil
}

// Stats counts added and removed lines of the current file.
func (s *State) Stats() diff.LineStats {
	return diff.Stats(s.SideBySide())
}
