package review

import (
	"slices"
	"strings"

	"github.com/wk-j/lumen/internal/core/diff"
)

// ItemKind distinguishes directories from files in the sidebar.
type ItemKind int

const (
	ItemDir ItemKind = iota
	ItemFile
)

// Item is one node of the sidebar tree. Directory chains with a single child
// directory are merged into one item whose Name joins them with "/".
type Item struct {
	Kind ItemKind
	// Name is the label relative to the parent item.
	Name string
	// Path is the full slash separated path.
	Path  string
	Depth int
	// FileIndex and Status are only set for files.
	FileIndex int
	Status    diff.FileStatus
}

type sidebar struct {
	items     []Item
	visible   []int
	collapsed map[string]bool
	selected  int
	scroll    int
	hscroll   int
}

// treeNode is the intermediate trie used to lay out the sidebar.
type treeNode struct {
	name      string
	path      string
	isDir     bool
	fileIndex int
	status    diff.FileStatus
	children  []*treeNode
}

// buildTree lays out files as a depth-first list in path order.
func buildTree(files []diff.FileDiff) []Item {
	if len(files) == 0 {
		return nil
	}

	order := make([]int, len(files))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return strings.Compare(files[a].Filename, files[b].Filename)
	})

	root := &treeNode{isDir: true}
	for _, idx := range order {
		path := files[idx].Filename
		parts := strings.Split(path, "/")
		current := root

		// Traverse/create directory nodes
		for i := 0; i < len(parts)-1; i++ {
			var next *treeNode
			for _, child := range current.children {
				if child.isDir && child.name == parts[i] {
					next = child
					break
				}
			}
			if next == nil {
				next = &treeNode{
					name:  parts[i],
					path:  strings.Join(parts[:i+1], "/"),
					isDir: true,
				}
				current.children = append(current.children, next)
			}
			current = next
		}

		current.children = append(current.children, &treeNode{
			name:      parts[len(parts)-1],
			path:      path,
			fileIndex: idx,
			status:    files[idx].Status,
		})
	}

	var items []Item
	var walk func(n *treeNode, depth int)
	walk = func(n *treeNode, depth int) {
		for _, child := range n.children {
			if !child.isDir {
				items = append(items, Item{
					Kind:      ItemFile,
					Name:      child.name,
					Path:      child.path,
					Depth:     depth,
					FileIndex: child.fileIndex,
					Status:    child.status,
				})
				continue
			}

			dir, name := child, child.name
			for len(dir.children) == 1 && dir.children[0].isDir {
				dir = dir.children[0]
				name += "/" + dir.name
			}
			items = append(items, Item{Kind: ItemDir, Name: name, Path: dir.path, Depth: depth})
			walk(dir, depth+1)
		}
	}
	walk(root, 0)

	return items
}

func isChildPath(path, parent string) bool {
	return parent != "" && strings.HasPrefix(path, parent+"/")
}

// visibleIndices projects items through the collapsed set.
func visibleIndices(items []Item, collapsed map[string]bool) []int {
	visible := make([]int, 0, len(items))
	var stack []string

	for idx, item := range items {
		for len(stack) > 0 && !isChildPath(item.Path, stack[len(stack)-1]) {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			continue
		}

		visible = append(visible, idx)
		if item.Kind == ItemDir && collapsed[item.Path] {
			stack = append(stack, item.Path)
		}
	}
	return visible
}

// rebuildVisible recomputes the projection, drops collapsed entries for
// directories that no longer exist and keeps the selection on the current
// file when it is visible.
func (s *State) rebuildVisible() {
	sb := &s.sidebar
	if sb.collapsed == nil {
		sb.collapsed = make(map[string]bool)
	}

	dirs := make(map[string]bool)
	for _, item := range sb.items {
		if item.Kind == ItemDir {
			dirs[item.Path] = true
		}
	}
	for path := range sb.collapsed {
		if !dirs[path] {
			delete(sb.collapsed, path)
		}
	}

	sb.visible = visibleIndices(sb.items, sb.collapsed)
	if len(sb.visible) == 0 {
		sb.selected = 0
		sb.scroll = 0
		return
	}

	if idx, ok := s.visibleIndexForFile(s.current); ok {
		sb.selected = idx
	} else if sb.selected >= len(sb.visible) {
		sb.selected = len(sb.visible) - 1
	}
	if sb.scroll >= len(sb.visible) {
		sb.scroll = len(sb.visible) - 1
	}
}

func (s *State) visibleIndexForFile(fileIndex int) (int, bool) {
	for v, idx := range s.sidebar.visible {
		item := s.sidebar.items[idx]
		if item.Kind == ItemFile && item.FileIndex == fileIndex {
			return v, true
		}
	}
	return 0, false
}

func (s *State) visibleIndexForDir(path string) (int, bool) {
	for v, idx := range s.sidebar.visible {
		item := s.sidebar.items[idx]
		if item.Kind == ItemDir && item.Path == path {
			return v, true
		}
	}
	return 0, false
}

func (s *State) selectInSidebar(fileIndex int) {
	if v, ok := s.visibleIndexForFile(fileIndex); ok {
		s.sidebar.selected = v
	}
}

// SidebarItems returns the visible sidebar items in display order.
func (s *State) SidebarItems() []Item {
	out := make([]Item, len(s.sidebar.visible))
	for v, idx := range s.sidebar.visible {
		out[v] = s.sidebar.items[idx]
	}
	return out
}

// SidebarLen is the number of visible sidebar items.
func (s *State) SidebarLen() int { return len(s.sidebar.visible) }

// SidebarItemAt returns the item at a visible index.
func (s *State) SidebarItemAt(v int) (Item, bool) {
	if v < 0 || v >= len(s.sidebar.visible) {
		return Item{}, false
	}
	return s.sidebar.items[s.sidebar.visible[v]], true
}

// SidebarSelected is the visible index of the highlighted item.
func (s *State) SidebarSelected() int { return s.sidebar.selected }

// SidebarScroll is the visible index of the first item on screen.
func (s *State) SidebarScroll() int { return s.sidebar.scroll }

// SidebarHScroll is the horizontal offset of the sidebar.
func (s *State) SidebarHScroll() int { return s.sidebar.hscroll }

// SidebarHScrollBy scrolls the sidebar horizontally.
func (s *State) SidebarHScrollBy(delta int) {
	s.sidebar.hscroll = max(s.sidebar.hscroll+delta, 0)
}

// IsCollapsed reports whether a directory is collapsed.
func (s *State) IsCollapsed(path string) bool { return s.sidebar.collapsed[path] }

// ToggleDirectory collapses or expands path. The selection stays on the same
// item; when the selected item is hidden by the collapse, the directory
// itself becomes selected.
func (s *State) ToggleDirectory(path string) {
	selected, hadSelection := s.SidebarItemAt(s.sidebar.selected)
	collapsing := !s.sidebar.collapsed[path]

	if collapsing {
		s.sidebar.collapsed[path] = true
	} else {
		delete(s.sidebar.collapsed, path)
	}
	s.rebuildVisible()

	if !hadSelection {
		return
	}
	if collapsing && isChildPath(selected.Path, path) {
		if v, ok := s.visibleIndexForDir(path); ok {
			s.sidebar.selected = v
			return
		}
	}

	var (
		v  int
		ok bool
	)
	if selected.Kind == ItemDir {
		v, ok = s.visibleIndexForDir(selected.Path)
	} else {
		v, ok = s.visibleIndexForFile(selected.FileIndex)
	}
	if ok {
		s.sidebar.selected = v
	}
}

// RevealFile expands every ancestor of file i and selects it.
func (s *State) RevealFile(i int) {
	if i < 0 || i >= len(s.files) {
		return
	}

	parts := strings.Split(s.files[i].Filename, "/")
	for n := 1; n < len(parts); n++ {
		delete(s.sidebar.collapsed, strings.Join(parts[:n], "/"))
	}
	s.rebuildVisible()
	s.selectInSidebar(i)
}

// SidebarDown moves the highlight down one item.
func (s *State) SidebarDown() {
	if s.sidebar.selected+1 < len(s.sidebar.visible) {
		s.sidebar.selected++
	}
}

// SidebarUp moves the highlight up one item.
func (s *State) SidebarUp() {
	if s.sidebar.selected > 0 {
		s.sidebar.selected--
	}
}

// SidebarTop moves the highlight to the first item.
func (s *State) SidebarTop() {
	s.sidebar.selected = 0
}

// SidebarBottom moves the highlight to the last item.
func (s *State) SidebarBottom() {
	s.sidebar.selected = max(len(s.sidebar.visible)-1, 0)
}

// SidebarActivate opens the highlighted file or toggles the highlighted
// directory. Opening a file moves focus to the diff.
func (s *State) SidebarActivate() {
	item, ok := s.SidebarItemAt(s.sidebar.selected)
	if !ok {
		return
	}
	if item.Kind == ItemDir {
		s.ToggleDirectory(item.Path)
		return
	}
	s.SelectFile(item.FileIndex)
	s.focus = FocusDiff
}

// SidebarClick highlights the item at visible index v and activates it.
func (s *State) SidebarClick(v int) {
	if _, ok := s.SidebarItemAt(v); !ok {
		return
	}
	s.sidebar.selected = v
	s.SidebarActivate()
}

// NextFile selects the next file in sidebar order.
func (s *State) NextFile() bool {
	for v := s.sidebar.selected + 1; v < len(s.sidebar.visible); v++ {
		if item, _ := s.SidebarItemAt(v); item.Kind == ItemFile {
			s.sidebar.selected = v
			s.SelectFile(item.FileIndex)
			return true
		}
	}
	return false
}

// PrevFile selects the previous file in sidebar order.
func (s *State) PrevFile() bool {
	for v := s.sidebar.selected - 1; v >= 0; v-- {
		if item, _ := s.SidebarItemAt(v); item.Kind == ItemFile {
			s.sidebar.selected = v
			s.SelectFile(item.FileIndex)
			return true
		}
	}
	return false
}

// EnsureSidebarVisible scrolls the sidebar so the highlight is on screen.
func (s *State) EnsureSidebarVisible(height int) {
	sb := &s.sidebar
	if height <= 0 {
		return
	}
	if sb.selected >= sb.scroll+height {
		sb.scroll = sb.selected - height + 1
	} else if sb.selected < sb.scroll {
		sb.scroll = sb.selected
	}
}
