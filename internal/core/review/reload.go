package review

import (
	"github.com/wk-j/lumen/internal/core/annotation"
	"github.com/wk-j/lumen/internal/core/diff"
	"github.com/wk-j/lumen/internal/core/git"
	"github.com/wk-j/lumen/internal/core/logging"
)

// reloadScrollSlack keeps a reloaded view from ending up past the new rows.
const reloadScrollSlack = 10

// Reload replaces the file list while keeping as much of the session as
// possible: the viewed set and annotations follow files by name, the current
// file stays selected when it still exists and the scroll position is kept.
// Files named in changed lose their viewed mark.
func (s *State) Reload(files []diff.FileDiff, changed map[string]bool) {
	oldName := ""
	if f, ok := s.Current(); ok {
		oldName = f.Filename
	}

	viewed := s.viewedNames()
	for name := range changed {
		delete(viewed, name)
	}

	s.files = filterExcluded(files, s.opts.Exclude)
	s.sidebar.items = buildTree(s.files)

	info := make(map[string]annotation.FileInfo, len(s.files))
	for i, f := range s.files {
		rows := diff.ComputeSideBySide(f.OldContent, f.NewContent, s.opts.Diff)
		info[f.Filename] = annotation.FileInfo{Index: i, HunkCount: len(diff.HunkStarts(rows))}
	}
	dropped := s.annotations.Remap(info)

	s.setViewedNames(viewed)

	s.current = 0
	for i, f := range s.files {
		if f.Filename == oldName {
			s.current = i
			break
		}
	}
	if s.current >= len(s.files) && len(s.files) > 0 {
		s.current = len(s.files) - 1
	}

	s.rebuildVisible()
	s.Invalidate()

	if len(s.files) > 0 {
		s.scroll = min(s.scroll, max(len(s.SideBySide())-reloadScrollSlack, 0))
	} else {
		s.scroll = 0
	}
	if s.focusedHunk >= len(s.Hunks()) {
		s.focusedHunk = -1
	}
	s.ClearSelection()

	l := logging.Component("review")
	l.Debug().
		Int("files", len(s.files)).
		Int("changed", len(changed)).
		Int("annotations_dropped", dropped).
		Msg("reloaded diff")
}

type stacked struct {
	enabled bool
	commits []git.Commit
	index   int
	viewed  map[string]map[string]bool
}

// InitStacked turns on commit by commit review over commits.
func (s *State) InitStacked(commits []git.Commit) {
	s.stacked = stacked{
		enabled: true,
		commits: commits,
		viewed:  make(map[string]map[string]bool),
	}
}

// Stacked reports whether the session steps through commits.
func (s *State) Stacked() bool { return s.stacked.enabled }

// StackedIndex is the position of the displayed commit and the commit count.
func (s *State) StackedIndex() (index, total int) {
	return s.stacked.index, len(s.stacked.commits)
}

// CurrentCommit returns the displayed commit in stacked mode.
func (s *State) CurrentCommit() (git.Commit, bool) {
	if !s.stacked.enabled || s.stacked.index >= len(s.stacked.commits) {
		return git.Commit{}, false
	}
	return s.stacked.commits[s.stacked.index], true
}

// SaveStackedViewed remembers the viewed files of the current commit.
func (s *State) SaveStackedViewed() {
	c, ok := s.CurrentCommit()
	if !ok {
		return
	}
	s.stacked.viewed[c.ID] = s.viewedNames()
}

// LoadStackedViewed restores the viewed files of the current commit, or
// clears them when the commit has not been visited.
func (s *State) LoadStackedViewed() {
	c, ok := s.CurrentCommit()
	if !ok {
		return
	}
	s.setViewedNames(s.stacked.viewed[c.ID])
}

// StepCommit saves the viewed set and moves delta commits. The caller loads
// the new commit's files and passes them to ApplyCommitFiles. It reports
// whether the index moved.
func (s *State) StepCommit(delta int) bool {
	if !s.stacked.enabled {
		return false
	}
	next := s.stacked.index + delta
	if next < 0 || next >= len(s.stacked.commits) {
		return false
	}
	s.SaveStackedViewed()
	s.stacked.index = next
	return true
}

// ApplyCommitFiles shows the files of the current commit.
func (s *State) ApplyCommitFiles(files []diff.FileDiff) {
	s.Reload(files, nil)
	s.LoadStackedViewed()
}
