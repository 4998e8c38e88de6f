package tui

import (
	"fmt"
	"path/filepath"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/wk-j/lumen/internal/core/layout"
	"github.com/wk-j/lumen/internal/core/review"
)

// --- Keys ---

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.modal != modalNone {
		return m.updateModal(msg)
	}

	// "gg" spans two key presses; anything else cancels a pending "g"
	if msg.String() == "g" {
		if m.state.PressG() {
			m.jumpTop()
		}
		return m, nil
	}
	m.state.ResetPendingKey()
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.modal = modalHelp
		m.help.ShowAll = true
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		m.state.ToggleFocus()
		return m, nil

	case key.Matches(msg, m.keys.Sidebar):
		m.state.ToggleSidebar()
		m.relayout()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.modal = modalSearch
		m.search.SetValue(m.state.Search().Query())
		m.search.SetWidth(max(m.width-4, 10))
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Viewed):
		if m.state.ToggleViewed() {
			m.afterFileChange()
		}
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		m.setStatus("Reloading...")
		return m, m.reloadCmd(nil)

	case key.Matches(msg, m.keys.Annotations):
		return m.openAnnotationList()

	case key.Matches(msg, m.keys.Picker):
		return m.openFilePicker()

	case key.Matches(msg, m.keys.BothSides):
		m.state.ResetFullscreen()
		m.relayout()
		return m, nil

	case key.Matches(msg, m.keys.PrevCommit):
		return m.stepCommit(-1)

	case key.Matches(msg, m.keys.NextCommit):
		return m.stepCommit(1)

	case key.Matches(msg, m.keys.Clear):
		switch {
		case m.state.Selection().IsActive():
			m.state.ClearSelection()
		case m.state.Search().HasQuery():
			m.state.ClearSearch()
		}
		return m, nil
	}

	if m.state.Focus() == review.FocusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleDiffKey(msg)
}

func (m Model) handleSidebarKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	before := m.state.CurrentIndex()
	h := m.diffHeight()

	switch {
	case key.Matches(msg, m.keys.Down):
		m.state.SidebarDown()
	case key.Matches(msg, m.keys.Up):
		m.state.SidebarUp()
	case key.Matches(msg, m.keys.Top):
		m.state.SidebarTop()
	case key.Matches(msg, m.keys.Bottom):
		m.state.SidebarBottom()
	case key.Matches(msg, m.keys.Left):
		m.state.SidebarHScrollBy(-horizontalStep)
	case key.Matches(msg, m.keys.Right):
		m.state.SidebarHScrollBy(horizontalStep)
	case key.Matches(msg, m.keys.Activate):
		m.state.SidebarActivate()
	case key.Matches(msg, m.keys.NextFile):
		m.state.NextFile()
	case key.Matches(msg, m.keys.PrevFile):
		m.state.PrevFile()
	default:
		return m, nil
	}

	m.state.EnsureSidebarVisible(h)
	if m.state.CurrentIndex() != before {
		m.afterFileChange()
	}
	return m, nil
}

func (m Model) handleDiffKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.state.ScrollBy(1)
	case key.Matches(msg, m.keys.Up):
		m.state.ScrollBy(-1)
	case key.Matches(msg, m.keys.HalfDown):
		m.state.ScrollBy(m.state.HalfPage())
	case key.Matches(msg, m.keys.HalfUp):
		m.state.ScrollBy(-m.state.HalfPage())
	case key.Matches(msg, m.keys.Top):
		m.state.ScrollTop()
	case key.Matches(msg, m.keys.Bottom):
		m.state.ScrollBottom()
	case key.Matches(msg, m.keys.Left):
		m.state.HScrollBy(-horizontalStep)
	case key.Matches(msg, m.keys.Right):
		m.state.HScrollBy(horizontalStep)
	case key.Matches(msg, m.keys.NextHunk):
		m.state.NextHunk()
	case key.Matches(msg, m.keys.PrevHunk):
		m.state.PrevHunk()
	case key.Matches(msg, m.keys.NextFile):
		if m.state.NextFile() {
			m.afterFileChange()
		}
	case key.Matches(msg, m.keys.PrevFile):
		if m.state.PrevFile() {
			m.afterFileChange()
		}
	case key.Matches(msg, m.keys.OldOnly):
		m.state.ToggleFullscreen(layout.FullscreenOld)
		m.relayout()
	case key.Matches(msg, m.keys.NewOnly):
		m.state.ToggleFullscreen(layout.FullscreenNew)
		m.relayout()
	case key.Matches(msg, m.keys.NextMatch):
		if !m.state.SearchNext() && m.state.Search().HasQuery() {
			m.setError("No matches")
		}
	case key.Matches(msg, m.keys.PrevMatch):
		if !m.state.SearchPrev() && m.state.Search().HasQuery() {
			m.setError("No matches")
		}
	case key.Matches(msg, m.keys.Yank):
		m.yankSelection()
	case key.Matches(msg, m.keys.Edit):
		return m.openCurrentInEditor()
	case key.Matches(msg, m.keys.Annotate):
		return m.openAnnotationEditor()
	}
	return m, nil
}

// --- Actions ---

// jumpTop completes "gg": the sidebar highlight or the diff goes to the top.
func (m *Model) jumpTop() {
	if m.state.Focus() == review.FocusSidebar {
		m.state.SidebarTop()
		m.state.EnsureSidebarVisible(m.diffHeight())
		return
	}
	m.state.ScrollTop()
}

func (m *Model) yankSelection() {
	text, ok := m.state.SelectedText()
	if !ok {
		m.setError("Nothing selected")
		return
	}
	if err := m.opts.Clipboard.WriteAll(text); err != nil {
		m.log.Warn().Err(err).Msg("copy selection")
		m.setError(err.Error())
		return
	}
	m.setStatus("Copied selection")
}

func (m Model) openCurrentInEditor() (tea.Model, tea.Cmd) {
	f, ok := m.state.Current()
	if !ok {
		return m, nil
	}
	if !m.opts.Ref.IsWorkingTree() || m.state.Stacked() {
		m.setError("Editing is only available for working tree changes")
		return m, nil
	}

	line, _ := m.state.EditorLine()
	path := filepath.Join(m.opts.Root, filepath.FromSlash(f.Filename))
	editor := m.opts.Config.ResolveEditor(m.opts.Getenv)
	m.log.Debug().Str("editor", editor).Str("path", path).Int("line", line).Msg("open editor")
	return m, openEditor(editor, path, line)
}

func (m Model) stepCommit(delta int) (tea.Model, tea.Cmd) {
	if !m.state.StepCommit(delta) {
		return m, nil
	}
	idx, total := m.state.StackedIndex()
	m.setStatus(fmt.Sprintf("Loading commit %d/%d...", idx+1, total))
	return m, m.loadCommitCmd()
}
