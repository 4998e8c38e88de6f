// Package layout maps terminal coordinates onto the panels of the
// side-by-side diff view and back.
package layout

import (
	"github.com/wk-j/lumen/internal/core/diff"
	"github.com/wk-j/lumen/internal/core/selection"
)

// Fullscreen selects whether one panel takes the whole diff area.
type Fullscreen int

const (
	FullscreenNone Fullscreen = iota
	FullscreenOld
	FullscreenNew
)

// Fixed widths shared by the renderer and the mouse mapping.
const (
	FocusIndicatorWidth = 1
	GutterWidth         = 5 // four digit line number plus a space
	BorderWidth         = 1
)

// Layout is the horizontal geometry of the diff panels for one terminal width.
// A panel with zero width is hidden.
type Layout struct {
	OldX     int
	OldWidth int
	NewX     int
	NewWidth int

	SidebarWidth int
	ShowSidebar  bool
	Fullscreen   Fullscreen
}

// Calculate computes panel geometry. In side-by-side mode the remaining width
// is split in half and the new panel receives any odd column.
func Calculate(termWidth, sidebarWidth int, showSidebar bool, fs Fullscreen) Layout {
	start := 0
	if showSidebar {
		start = sidebarWidth
	}
	area := max(termWidth-start, 0)

	l := Layout{
		SidebarWidth: sidebarWidth,
		ShowSidebar:  showSidebar,
		Fullscreen:   fs,
	}

	switch fs {
	case FullscreenOld:
		l.OldX = start + BorderWidth
		l.OldWidth = max(area-2*BorderWidth, 0)
	case FullscreenNew:
		l.NewX = start + BorderWidth
		l.NewWidth = max(area-2*BorderWidth, 0)
	default:
		half := area / 2
		l.OldX = start + BorderWidth
		l.OldWidth = max(half-BorderWidth, 0)
		l.NewX = start + half
		l.NewWidth = max(area-half-BorderWidth, 0)
	}

	return l
}

// DiffAreaX is the first column of the diff area.
func (l Layout) DiffAreaX() int {
	if l.ShowSidebar {
		return l.SidebarWidth
	}
	return 0
}

func (l Layout) panel(p selection.Panel) (x, width int) {
	switch p {
	case selection.PanelOld:
		return l.OldX, l.OldWidth
	case selection.PanelNew:
		return l.NewX, l.NewWidth
	}
	return 0, 0
}

func (l Layout) within(x int, p selection.Panel) bool {
	px, w := l.panel(p)
	return w > 0 && x >= px && x < px+w
}

// PanelAt returns the panel under column x, honoring the fullscreen mode.
func (l Layout) PanelAt(x int) selection.Panel {
	switch l.Fullscreen {
	case FullscreenOld:
		if l.within(x, selection.PanelOld) {
			return selection.PanelOld
		}
	case FullscreenNew:
		if l.within(x, selection.PanelNew) {
			return selection.PanelNew
		}
	default:
		if l.within(x, selection.PanelOld) {
			return selection.PanelOld
		}
		if l.within(x, selection.PanelNew) {
			return selection.PanelNew
		}
	}
	return selection.PanelNone
}

// reservesFocusColumn reports whether the panel draws the hunk focus
// indicator before its gutter. The old panel always does; the new panel only
// when it is shown alone.
func (l Layout) reservesFocusColumn(p selection.Panel) bool {
	switch p {
	case selection.PanelOld:
		return true
	case selection.PanelNew:
		return l.Fullscreen == FullscreenNew
	}
	return false
}

// InGutter reports whether column x falls on the line number gutter of p.
func (l Layout) InGutter(x int, p selection.Panel) bool {
	px, w := l.panel(p)
	if w == 0 || p == selection.PanelNone {
		return false
	}

	rel := max(x-px, 0)
	start := 0
	if l.reservesFocusColumn(p) {
		start = FocusIndicatorWidth
	}
	return rel >= start && rel < start+GutterWidth
}

// ContentOffset is the column, relative to the panel, where text begins.
func (l Layout) ContentOffset(p selection.Panel) int {
	if p == selection.PanelNone {
		return 0
	}
	if l.reservesFocusColumn(p) {
		return FocusIndicatorWidth + GutterWidth
	}
	return GutterWidth
}

// ContentWidth is the number of text columns visible in p.
func (l Layout) ContentWidth(p selection.Panel) int {
	_, w := l.panel(p)
	return max(w-l.ContentOffset(p), 0)
}

// ClampToPanel pins x inside the column span of p. Drags that leave the
// panel they started in keep extending within the original panel.
func (l Layout) ClampToPanel(x int, p selection.Panel) int {
	px, w := l.panel(p)
	if w == 0 {
		return x
	}
	return min(max(x, px), px+w-1)
}

// Viewport describes the vertical placement of diff content on screen.
type Viewport struct {
	Scroll        int
	HScroll       int
	ContentStartY int
	// ContextRows are reserved for sticky scope lines above the content.
	ContextRows int
}

// ScreenToContent converts a terminal cell into a row and column of the diff.
// It returns false above the content, on context rows, and past the last row.
// Clicks left of the text map to column zero.
func (l Layout) ScreenToContent(x, y int, p selection.Panel, v Viewport, rowCount int) (selection.Position, bool) {
	px, w := l.panel(p)
	if w == 0 || p == selection.PanelNone {
		return selection.Position{}, false
	}
	if y < v.ContentStartY {
		return selection.Position{}, false
	}

	rel := y - v.ContentStartY
	if rel < v.ContextRows {
		return selection.Position{}, false
	}

	line := v.Scroll + rel - v.ContextRows
	if line >= rowCount {
		return selection.Position{}, false
	}

	return selection.Position{Line: line, Column: l.columnAt(x, px, p, v.HScroll)}, true
}

// CursorAt maps a terminal cell to a position without bounding it by the
// number of rows. Drag handling uses it so a selection can extend past the
// visible end while the row is resolved later.
func (l Layout) CursorAt(x, y int, p selection.Panel, v Viewport) (selection.Position, bool) {
	px, w := l.panel(p)
	if w == 0 || y < v.ContentStartY {
		return selection.Position{}, false
	}
	line := v.Scroll + max(y-v.ContentStartY-v.ContextRows, 0)
	return selection.Position{Line: line, Column: l.columnAt(x, px, p, v.HScroll)}, true
}

func (l Layout) columnAt(x, px int, p selection.Panel, hscroll int) int {
	rel := max(x-px, 0)
	offset := l.ContentOffset(p)
	if rel < offset {
		return 0
	}
	return rel - offset + hscroll
}

// ValidCursor reports whether row line exists and has the panel's side.
func ValidCursor(line int, p selection.Panel, rows []diff.DiffLine) bool {
	if line < 0 || line >= len(rows) {
		return false
	}
	switch p {
	case selection.PanelOld:
		return rows[line].Old != nil
	case selection.PanelNew:
		return rows[line].New != nil
	}
	return false
}
