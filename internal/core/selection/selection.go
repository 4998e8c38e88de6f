// Package selection models a text selection inside one panel of the
// side-by-side view and extracts the selected text from diff rows.
package selection

import (
	"math"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/wk-j/lumen/internal/core/diff"
)

// Panel identifies one side of the diff view.
type Panel int

const (
	PanelNone Panel = iota
	PanelOld
	PanelNew
)

func (p Panel) String() string {
	switch p {
	case PanelOld:
		return "old"
	case PanelNew:
		return "new"
	default:
		return "none"
	}
}

// Position is a row index into the diff rows and a character column into the
// row's tab-expanded text.
type Position struct {
	Line   int
	Column int
}

// Less orders positions by line, then column.
func (p Position) Less(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Column < o.Column
}

// Mode records how a selection was started.
type Mode int

const (
	ModeNone Mode = iota
	// ModeCharacter is a click-drag over content.
	ModeCharacter
	// ModeLine is a click-drag over the line number gutter.
	ModeLine
)

// Selection is a range in a single panel between an anchor and a moving head.
type Selection struct {
	Panel  Panel
	Anchor Position
	Head   Position
	Mode   Mode
}

// IsActive reports whether the selection has both a mode and a panel.
func (s Selection) IsActive() bool {
	return s.Mode != ModeNone && s.Panel != PanelNone
}

// Normalized returns the range ordered so start comes first.
func (s Selection) Normalized() (start, end Position) {
	if s.Head.Less(s.Anchor) {
		return s.Head, s.Anchor
	}
	return s.Anchor, s.Head
}

// Contains reports whether the character at (line, col) is selected.
func (s Selection) Contains(line, col int) bool {
	if !s.IsActive() {
		return false
	}
	start, end := s.Normalized()
	if line < start.Line || line > end.Line {
		return false
	}

	switch s.Mode {
	case ModeLine:
		return true
	case ModeCharacter:
		switch {
		case start.Line == end.Line:
			return col >= start.Column && col < end.Column
		case line == start.Line:
			return col >= start.Column
		case line == end.Line:
			return col < end.Column
		default:
			return true
		}
	}
	return false
}

// LineFullySelected reports whether the whole row is selected: every row in
// line mode, and the interior rows of a multi-line character selection.
func (s Selection) LineFullySelected(line int) bool {
	if !s.IsActive() {
		return false
	}
	start, end := s.Normalized()

	switch s.Mode {
	case ModeLine:
		return line >= start.Line && line <= end.Line
	case ModeCharacter:
		return line > start.Line && line < end.Line
	}
	return false
}

// Extract returns the selected text from rows. Rows lacking the selected
// panel's side are skipped. Character columns count display cells, so a wide
// rune is copied when its first cell lies inside the selection, the same rule
// the renderer uses to tint it.
func Extract(s Selection, rows []diff.DiffLine) (string, bool) {
	if !s.IsActive() {
		return "", false
	}

	start, end := s.Normalized()
	var parts []string

	for line := start.Line; line <= end.Line && line < len(rows); line++ {
		if line < 0 {
			continue
		}
		side := rows[line].SideFor(s.Panel == PanelOld)
		if side == nil {
			continue
		}

		if s.Mode == ModeLine {
			parts = append(parts, side.Text)
			continue
		}

		switch {
		case start.Line == end.Line:
			if text := cellRange(side.Text, start.Column, end.Column); text != "" {
				parts = append(parts, text)
			}
		case line == start.Line:
			parts = append(parts, cellRange(side.Text, start.Column, math.MaxInt))
		case line == end.Line:
			parts = append(parts, cellRange(side.Text, 0, end.Column))
		default:
			parts = append(parts, side.Text)
		}
	}

	text := strings.Join(parts, "\n")
	if text == "" {
		return "", false
	}
	return text, true
}

// CellWidth is the number of terminal cells r occupies.
func CellWidth(r rune) int {
	return ansi.StringWidth(string(r))
}

// cellRange returns the runes of text whose first cell lies in [from, to).
func cellRange(text string, from, to int) string {
	var b strings.Builder
	col := 0
	for _, r := range text {
		if col >= to {
			break
		}
		if col >= from {
			b.WriteRune(r)
		}
		col += CellWidth(r)
	}
	return b.String()
}
