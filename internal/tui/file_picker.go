package tui

import (
	"fmt"
	"slices"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"

	"github.com/wk-j/lumen/internal/core/diff"
	"github.com/wk-j/lumen/internal/core/styles"
)

// pickerFile is one entry of the file picker.
type pickerFile struct {
	Index  int
	Name   string
	Status diff.FileStatus
	Viewed bool
}

// pickerMatch points into the picker files. Positions are the byte offsets
// of the name that matched the query.
type pickerMatch struct {
	File      int
	Positions []int
}

// filterFiles returns the files matching query, best match first. An empty
// query keeps every file in its original order.
func filterFiles(files []pickerFile, query string) []pickerMatch {
	if strings.TrimSpace(query) == "" {
		out := make([]pickerMatch, len(files))
		for i := range files {
			out[i] = pickerMatch{File: i}
		}
		return out
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	found := fuzzy.Find(query, names)
	out := make([]pickerMatch, len(found))
	for i, m := range found {
		out[i] = pickerMatch{File: m.Index, Positions: m.MatchedIndexes}
	}
	return out
}

// filePicker jumps to a file by typing part of its name.
type filePicker struct {
	input   textinput.Model
	files   []pickerFile
	matches []pickerMatch
	cursor  int
	width   int

	chosen    int
	submitted bool
	cancelled bool
}

func newFilePicker(files []pickerFile, termWidth int) filePicker {
	width := calcModalWidth(termWidth)

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "file name"
	ti.SetWidth(width - 10)
	ti.Focus()

	return filePicker{
		input:   ti,
		files:   files,
		matches: filterFiles(files, ""),
		width:   width,
		chosen:  -1,
	}
}

func (p filePicker) Update(msg tea.Msg) (filePicker, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok {
		switch k.String() {
		case "esc", "ctrl+c":
			p.cancelled = true
			return p, nil
		case "enter":
			if p.cursor < len(p.matches) {
				p.chosen = p.files[p.matches[p.cursor].File].Index
				p.submitted = true
			} else {
				p.cancelled = true
			}
			return p, nil
		case "down", "ctrl+j", "ctrl+n":
			if p.cursor+1 < len(p.matches) {
				p.cursor++
			}
			return p, nil
		case "up", "ctrl+k", "ctrl+p":
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil
		}
	}

	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if q := p.input.Value(); q != before {
		p.matches = filterFiles(p.files, q)
		p.cursor = min(p.cursor, max(len(p.matches)-1, 0))
	}
	return p, cmd
}

// Chosen returns the file index picked with enter.
func (p filePicker) Chosen() (int, bool) {
	return p.chosen, p.submitted && p.chosen >= 0
}

func (p filePicker) View() string {
	inner := p.width - 6

	start := max(p.cursor-listMaxRows+1, 0)
	end := min(start+listMaxRows, len(p.matches))

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, p.renderRow(p.matches[i], i == p.cursor, inner))
	}
	if len(rows) == 0 {
		rows = append(rows, styles.TextMutedStyle.Render("No matching files"))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(fmt.Sprintf("Find File (%d/%d)", len(p.matches), len(p.files))),
		"",
		p.input.View(),
		"",
		strings.Join(rows, "\n"),
		styles.ModalHelpStyle.Render("enter: open • ↑/↓ ctrl+j/k: move • esc: close"),
	)
	return styles.ModalStyle.Width(p.width).Render(content)
}

func (p filePicker) renderRow(m pickerMatch, active bool, inner int) string {
	f := p.files[m.File]

	viewed := " "
	if f.Viewed {
		viewed = "✓"
	}
	name := ansi.Truncate(f.Name, inner-6, "…")

	if active {
		line := fmt.Sprintf(" %s %s %s", viewed, f.Status.Symbol(), name)
		return styles.ModalActiveStyle.Render(pad(line, inner, styles.ModalActiveStyle))
	}

	statusStyle := styles.TextWarningStyle
	switch f.Status {
	case diff.StatusAdded:
		statusStyle = styles.TextSuccessStyle
	case diff.StatusDeleted:
		statusStyle = styles.TextErrorStyle
	}

	return " " + styles.TextMutedStyle.Render(viewed) + " " +
		statusStyle.Render(f.Status.Symbol()) + " " + highlightMatches(name, m.Positions)
}

// highlightMatches bolds the matched bytes of name.
func highlightMatches(name string, positions []int) string {
	if len(positions) == 0 {
		return styles.TextPrimaryStyle.Render(name)
	}
	hit := styles.TextWarningStyle.Bold(true)

	var b strings.Builder
	for i, r := range name {
		if slices.Contains(positions, i) {
			b.WriteString(hit.Render(string(r)))
		} else {
			b.WriteString(styles.TextPrimaryStyle.Render(string(r)))
		}
	}
	return b.String()
}
