package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/wk-j/lumen/internal/core/compositor"
	"github.com/wk-j/lumen/internal/core/layout"
	"github.com/wk-j/lumen/internal/core/selection"
)

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()

	switch msg.(type) {
	case tea.MouseWheelMsg:
		return m.handleWheel(mouse)

	case tea.MouseClickMsg:
		if mouse.Button != tea.MouseLeft {
			return m, nil
		}
		m.state.ResetPendingKey()
		if m.inSidebar(mouse.X) {
			m.clickSidebar(mouse.Y)
			return m, nil
		}
		m.startSelection(mouse.X, mouse.Y)

	case tea.MouseMotionMsg:
		if !m.state.IsDragging() {
			return m, nil
		}
		sel := m.state.Selection()
		x := m.layout.ClampToPanel(mouse.X, sel.Panel)
		if pos, ok := m.positionAt(x, mouse.Y, sel.Panel, true); ok {
			m.state.ExtendSelection(pos)
		}

	case tea.MouseReleaseMsg:
		if !m.state.IsDragging() {
			return m, nil
		}
		m.state.EndDrag()

		// A click without movement selects nothing in character mode
		sel := m.state.Selection()
		if sel.Mode == selection.ModeCharacter && sel.Anchor == sel.Head {
			m.state.ClearSelection()
		}
	}
	return m, nil
}

func (m Model) inSidebar(x int) bool {
	return m.state.ShowSidebar() && x < m.layout.SidebarWidth
}

func (m *Model) clickSidebar(y int) {
	m.state.FocusSidebar()
	rel := y - m.contentStartY()
	if rel < 0 {
		return
	}

	before := m.state.CurrentIndex()
	m.state.SidebarClick(m.state.SidebarScroll() + rel)
	m.state.EnsureSidebarVisible(m.diffHeight())
	if m.state.CurrentIndex() != before {
		m.afterFileChange()
	}
}

// startSelection begins a drag in the panel under (x, y). The gutter starts
// a line selection, the text a character selection.
func (m *Model) startSelection(x, y int) {
	p := m.layout.PanelAt(x)
	if p == selection.PanelNone {
		return
	}
	m.state.FocusDiff()

	pos, ok := m.positionAt(x, y, p, false)
	if !ok {
		m.state.ClearSelection()
		return
	}

	mode := selection.ModeCharacter
	if m.layout.InGutter(x, p) {
		mode = selection.ModeLine
	}
	m.state.StartSelection(p, pos, mode)
}

// positionAt maps a cell to a row and column. With clamp set, cells above or
// below the diff rows resolve to the first or last visible row so a drag can
// leave the content area.
func (m Model) positionAt(x, y int, p selection.Panel, clamp bool) (selection.Position, bool) {
	ctxRows, screen, callouts := m.screenRows()
	v := layout.Viewport{
		Scroll:        m.state.Scroll(),
		HScroll:       m.state.HScroll(),
		ContentStartY: m.contentStartY(),
		ContextRows:   ctxRows,
	}

	// The footer and anything below the diff area map to nothing
	if !clamp && y-v.ContentStartY >= m.diffHeight() {
		return selection.Position{}, false
	}

	if len(callouts) == 0 && !clamp {
		return m.layout.ScreenToContent(x, y, p, v, len(m.state.SideBySide()))
	}

	rel := y - v.ContentStartY - ctxRows
	if clamp && len(screen) > 0 {
		rel = min(max(rel, 0), len(screen)-1)
	}
	row, ok := compositor.RowAtScreen(screen, rel)
	if !ok {
		return selection.Position{}, false
	}

	pos, ok := m.layout.CursorAt(x, max(y, v.ContentStartY), p, v)
	if !ok {
		return selection.Position{}, false
	}
	pos.Line = row
	return pos, true
}

// --- Wheel ---

// handleWheel adds the wheel step to the pending delta. Only the first event
// of a burst schedules a flush, so a fast scroll becomes one mutation.
func (m Model) handleWheel(mouse tea.Mouse) (tea.Model, tea.Cmd) {
	shift := mouse.Mod&tea.ModShift != 0

	switch mouse.Button {
	case tea.MouseWheelUp:
		if shift {
			m.wheel.dx -= horizontalStep
		} else {
			m.wheel.dy -= wheelStep
		}
	case tea.MouseWheelDown:
		if shift {
			m.wheel.dx += horizontalStep
		} else {
			m.wheel.dy += wheelStep
		}
	case tea.MouseWheelLeft:
		m.wheel.dx -= horizontalStep
	case tea.MouseWheelRight:
		m.wheel.dx += horizontalStep
	default:
		return m, nil
	}
	m.wheel.sidebar = m.inSidebar(mouse.X)

	if m.wheel.pending {
		return m, nil
	}
	m.wheel.pending = true
	return m, tea.Tick(wheelInterval, func(time.Time) tea.Msg { return wheelFlushMsg{} })
}

func (m *Model) flushWheel() {
	w := m.wheel
	m.wheel = wheelState{}

	if w.sidebar {
		for range max(w.dy, -w.dy) {
			if w.dy > 0 {
				m.state.SidebarDown()
			} else {
				m.state.SidebarUp()
			}
		}
		m.state.SidebarHScrollBy(w.dx)
		m.state.EnsureSidebarVisible(m.diffHeight())
		return
	}

	m.state.ScrollBy(w.dy)
	m.state.HScrollBy(w.dx)
}
