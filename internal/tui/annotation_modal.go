package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/wk-j/lumen/internal/core/annotation"
	"github.com/wk-j/lumen/internal/core/styles"
)

const (
	editorHeight = 6
	listMaxRows  = 12
)

// annotationEditor writes or edits the note on one hunk.
type annotationEditor struct {
	textarea textarea.Model
	draft    annotation.Annotation
	existing bool
	width    int

	submitted bool
	cancelled bool
}

func newAnnotationEditor(draft annotation.Annotation, existing bool, termWidth int) annotationEditor {
	width := calcModalWidth(termWidth)

	ta := textarea.New()
	ta.Placeholder = "Write a note for this hunk..."
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.SetWidth(width - 6)
	ta.SetHeight(editorHeight)
	ta.SetValue(draft.Content)
	ta.Focus()

	return annotationEditor{
		textarea: ta,
		draft:    draft,
		existing: existing,
		width:    width,
	}
}

func (e annotationEditor) Update(msg tea.Msg) (annotationEditor, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok {
		switch k.String() {
		case "enter":
			e.submitted = true
			return e, nil
		case "esc":
			e.cancelled = true
			return e, nil
		}
	}

	var cmd tea.Cmd
	e.textarea, cmd = e.textarea.Update(msg)
	return e, cmd
}

// Value is the note text without surrounding whitespace.
func (e annotationEditor) Value() string {
	return strings.TrimSpace(e.textarea.Value())
}

func (e annotationEditor) View() string {
	title := "Annotate Hunk"
	if e.existing {
		title = "Edit Annotation"
	}

	where := fmt.Sprintf("%s:%d-%d", e.draft.Filename, e.draft.LineRange.Start, e.draft.LineRange.End)
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(title),
		styles.TextMutedStyle.Render(ansi.Truncate(where, e.width-6, "…")),
		"",
		e.textarea.View(),
		styles.ModalHelpStyle.Render("enter: save • alt+enter: newline • esc: cancel"),
	)
	return styles.ModalStyle.Width(e.width).Render(content)
}

// annotationList browses every note of the session.
type annotationList struct {
	items  []annotation.Annotation
	cursor int
	width  int
}

func newAnnotationList(items []annotation.Annotation, termWidth int) annotationList {
	return annotationList{items: items, width: calcModalWidth(termWidth)}
}

// SetItems replaces the notes and keeps the cursor in range.
func (l *annotationList) SetItems(items []annotation.Annotation) {
	l.items = items
	l.cursor = min(l.cursor, max(len(items)-1, 0))
}

func (l *annotationList) Down() {
	if l.cursor+1 < len(l.items) {
		l.cursor++
	}
}

func (l *annotationList) Up() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// Selected returns the note under the cursor.
func (l annotationList) Selected() (annotation.Annotation, bool) {
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return annotation.Annotation{}, false
	}
	return l.items[l.cursor], true
}

func (l annotationList) View() string {
	inner := l.width - 6

	// Window the list around the cursor
	start := max(l.cursor-listMaxRows+1, 0)
	end := min(start+listMaxRows, len(l.items))

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		line := ansi.Truncate(l.items[i].Preview(), inner-2, "…")
		if i == l.cursor {
			rows = append(rows, styles.ModalActiveStyle.Render(pad("> "+line, inner, styles.ModalActiveStyle)))
		} else {
			rows = append(rows, styles.TextPrimaryStyle.Render("  "+line))
		}
	}
	if len(rows) == 0 {
		rows = append(rows, styles.TextMutedStyle.Render("No annotations"))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(fmt.Sprintf("Annotations (%d)", len(l.items))),
		"",
		strings.Join(rows, "\n"),
		styles.ModalHelpStyle.Render("enter: edit • d: delete • y: copy all • w: export • p: preview • esc: close"),
	)
	return styles.ModalStyle.Width(l.width).Render(content)
}

// exportPrompt asks for the file the annotations are written to.
type exportPrompt struct {
	input textinput.Model
	err   string
	width int

	submitted bool
	cancelled bool
}

func newExportPrompt(termWidth int) exportPrompt {
	width := calcModalWidth(termWidth)

	ti := textinput.New()
	ti.Placeholder = "annotations.md"
	ti.SetWidth(width - 8)
	ti.Focus()

	return exportPrompt{input: ti, width: width}
}

func (p exportPrompt) Update(msg tea.Msg) (exportPrompt, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok {
		switch k.String() {
		case "enter":
			p.submitted = true
			return p, nil
		case "esc":
			p.cancelled = true
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	p.err = ""
	return p, cmd
}

// Value is the entered path.
func (p exportPrompt) Value() string {
	return p.input.Value()
}

func (p exportPrompt) View() string {
	parts := []string{
		styles.ModalTitleStyle.Render("Export Annotations"),
		"",
		p.input.View(),
	}
	if p.err != "" {
		parts = append(parts, styles.ModalErrorStyle.Render(p.err))
	}
	parts = append(parts, styles.ModalHelpStyle.Render("enter: write • esc: cancel"))
	return styles.ModalStyle.Width(p.width).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
