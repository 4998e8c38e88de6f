package tui

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/wk-j/lumen/internal/core/annotation"
)

// updateModal routes a message to the open modal.
func (m Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalSearch:
		return m.updateSearch(msg)
	case modalAnnotate:
		return m.updateEditor(msg)
	case modalAnnotations:
		return m.updateList(msg)
	case modalExport:
		return m.updateExport(msg)
	case modalPreview:
		return m.updatePreview(msg)
	case modalPicker:
		return m.updatePicker(msg)
	case modalHelp:
		if k, ok := msg.(tea.KeyPressMsg); ok {
			switch k.String() {
			case "esc", "?", "q":
				m.modal = modalNone
				m.help.ShowAll = false
			}
		}
	}
	return m, nil
}

// --- Search ---

// updateSearch edits the query. Matches follow every keystroke; enter jumps
// to the first match below the viewport top and esc drops the query.
func (m Model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok {
		switch k.String() {
		case "enter":
			m.modal = modalNone
			m.search.Blur()
			if m.state.Search().HasQuery() && !m.state.ConfirmSearch() {
				m.setError("No matches")
			}
			return m, nil
		case "esc":
			m.modal = modalNone
			m.search.Blur()
			m.state.ClearSearch()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != m.state.Search().Query() {
		m.state.SetSearchQuery(q)
	}
	return m, cmd
}

// --- Annotation editor ---

func (m Model) openAnnotationEditor() (tea.Model, tea.Cmd) {
	idx, ok := m.state.FocusedHunk()
	if !ok {
		m.setError("No hunk to annotate")
		return m, nil
	}
	draft, ok := m.state.AnnotationDraft(idx)
	if !ok {
		return m, nil
	}
	_, existing := m.state.Annotation(draft.FileIndex, draft.HunkIndex)

	m.editor = newAnnotationEditor(draft, existing, m.width)
	m.editorReturn = modalNone
	m.modal = modalAnnotate
	return m, nil
}

func (m Model) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)

	switch {
	case m.editor.submitted:
		m.saveAnnotation()
		m.closeEditor()
		return m, nil
	case m.editor.cancelled:
		m.closeEditor()
		return m, nil
	}
	return m, cmd
}

// saveAnnotation stores the editor content. Empty content deletes an existing
// note and discards a new one.
func (m *Model) saveAnnotation() {
	d := m.editor.draft
	content := m.editor.Value()

	switch {
	case content == "" && m.editor.existing:
		m.state.RemoveAnnotation(d.FileIndex, d.HunkIndex)
		m.setStatus("Annotation removed")
	case content == "":
	default:
		d.Content = content
		m.state.SetAnnotation(d)
		m.setStatus("Annotation saved")
	}
}

func (m *Model) closeEditor() {
	m.modal = m.editorReturn
	if m.modal == modalAnnotations {
		m.list.SetItems(m.state.Annotations())
		if len(m.list.items) == 0 {
			m.modal = modalNone
		}
	}
}

// --- Annotation list ---

func (m Model) openAnnotationList() (tea.Model, tea.Cmd) {
	items := m.state.Annotations()
	if len(items) == 0 {
		m.setError("No annotations")
		return m, nil
	}
	m.list = newAnnotationList(items, m.width)
	m.modal = modalAnnotations
	return m, nil
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch k.String() {
	case "j", "down":
		m.list.Down()
	case "k", "up":
		m.list.Up()

	case "enter":
		a, ok := m.list.Selected()
		if !ok {
			return m, nil
		}
		before := m.state.CurrentIndex()
		m.state.JumpToAnnotation(a)
		if m.state.CurrentIndex() != before {
			m.afterFileChange()
		}
		draft, ok := m.state.AnnotationDraft(a.HunkIndex)
		if !ok {
			m.modal = modalNone
			return m, nil
		}
		m.editor = newAnnotationEditor(draft, true, m.width)
		m.editorReturn = modalAnnotations
		m.modal = modalAnnotate

	case "d":
		if a, ok := m.list.Selected(); ok {
			m.state.RemoveAnnotation(a.FileIndex, a.HunkIndex)
			m.list.SetItems(m.state.Annotations())
			m.setStatus("Annotation removed")
			if len(m.list.items) == 0 {
				m.modal = modalNone
			}
		}

	case "y":
		if err := m.opts.Clipboard.WriteAll(m.state.ExportAnnotations()); err != nil {
			m.log.Warn().Err(err).Msg("copy annotations")
			m.setError(err.Error())
		} else {
			m.setStatus(fmt.Sprintf("Copied %d annotations", m.state.AnnotationCount()))
		}
		m.modal = modalNone

	case "w":
		m.export = newExportPrompt(m.width)
		m.modal = modalExport

	case "p":
		m.preview = newPreviewModal(m.theme, m.state.ExportAnnotations(), m.width, m.height)
		m.modal = modalPreview

	case "esc", "q", "I":
		m.modal = modalNone
	}
	return m, nil
}

// --- Export ---

func (m Model) updateExport(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.export, cmd = m.export.Update(msg)

	switch {
	case m.export.cancelled:
		m.modal = modalAnnotations
		return m, nil

	case m.export.submitted:
		m.export.submitted = false
		path, err := annotation.WriteFile(m.export.Value(), m.state.ExportAnnotations())
		if err != nil {
			m.export.err = err.Error()
			return m, nil
		}
		m.log.Info().Str("path", path).Int("count", m.state.AnnotationCount()).Msg("exported annotations")
		m.setStatus(fmt.Sprintf("Exported %d annotations to %s", m.state.AnnotationCount(), path))
		m.modal = modalNone
		return m, nil
	}
	return m, cmd
}

// --- Preview ---

func (m Model) updatePreview(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch k.String() {
	case "j", "down":
		m.preview.ScrollDown()
	case "k", "up":
		m.preview.ScrollUp()
	case "esc", "q", "p":
		m.modal = modalAnnotations
	}
	return m, nil
}

// --- File picker ---

func (m Model) openFilePicker() (tea.Model, tea.Cmd) {
	files := m.state.Files()
	if len(files) == 0 {
		return m, nil
	}
	items := make([]pickerFile, len(files))
	for i, f := range files {
		items[i] = pickerFile{Index: i, Name: f.Filename, Status: f.Status, Viewed: m.state.IsViewed(i)}
	}
	m.picker = newFilePicker(items, m.width)
	m.modal = modalPicker
	return m, m.picker.input.Focus()
}

func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if i, ok := m.picker.Chosen(); ok {
		m.modal = modalNone
		m.state.SelectFile(i)
		m.afterFileChange()
		m.state.EnsureSidebarVisible(m.diffHeight())
		return m, nil
	}
	if m.picker.cancelled {
		m.modal = modalNone
		return m, nil
	}
	return m, cmd
}
