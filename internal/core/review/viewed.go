package review

// IsViewed reports whether file i has been marked as viewed.
func (s *State) IsViewed(i int) bool { return s.viewed[i] }

// ViewedCount is the number of viewed files.
func (s *State) ViewedCount() int { return len(s.viewed) }

// ToggleViewed flips the viewed mark of whatever has focus.
//
// With the sidebar focused, a file toggles alone and a directory toggles all
// files below it: if every one is already viewed they are all unmarked,
// otherwise they are all marked. With the diff focused the current file
// toggles, and marking it jumps to the next unviewed file in sidebar order.
// It reports whether the current file changed.
func (s *State) ToggleViewed() bool {
	if len(s.files) == 0 {
		return false
	}

	if s.focus == FocusSidebar {
		item, ok := s.SidebarItemAt(s.sidebar.selected)
		if !ok {
			return false
		}
		if item.Kind == ItemFile {
			s.setViewed(item.FileIndex, !s.viewed[item.FileIndex])
		} else {
			s.toggleDirViewed(item.Path)
		}
		return false
	}

	if s.viewed[s.current] {
		s.setViewed(s.current, false)
		return false
	}
	s.setViewed(s.current, true)

	v, file, ok := s.nextUnviewed()
	if !ok {
		return false
	}
	s.sidebar.selected = v
	s.SelectFile(file)
	return true
}

func (s *State) setViewed(i int, viewed bool) {
	if viewed {
		s.viewed[i] = true
	} else {
		delete(s.viewed, i)
	}
}

func (s *State) toggleDirViewed(path string) {
	var children []int
	all := true
	for _, item := range s.sidebar.items {
		if item.Kind == ItemFile && isChildPath(item.Path, path) {
			children = append(children, item.FileIndex)
			all = all && s.viewed[item.FileIndex]
		}
	}

	for _, i := range children {
		s.setViewed(i, !all)
	}
}

// nextUnviewed searches visible files after the highlight, then wraps to the
// ones before it.
func (s *State) nextUnviewed() (visible, file int, ok bool) {
	n := len(s.sidebar.visible)
	sel := s.sidebar.selected
	for step := 1; step < n; step++ {
		v := (sel + step) % n
		item := s.sidebar.items[s.sidebar.visible[v]]
		if item.Kind == ItemFile && !s.viewed[item.FileIndex] {
			return v, item.FileIndex, true
		}
	}
	return 0, 0, false
}

// viewedNames returns the filenames of viewed files.
func (s *State) viewedNames() map[string]bool {
	names := make(map[string]bool, len(s.viewed))
	for i := range s.viewed {
		if i < len(s.files) {
			names[s.files[i].Filename] = true
		}
	}
	return names
}

// setViewedNames marks the files whose names are in names, replacing the set.
func (s *State) setViewedNames(names map[string]bool) {
	s.viewed = make(map[int]bool, len(names))
	for i, f := range s.files {
		if names[f.Filename] {
			s.viewed[i] = true
		}
	}
}
