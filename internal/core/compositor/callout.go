package compositor

import (
	"slices"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/wk-j/lumen/internal/core/annotation"
	"github.com/wk-j/lumen/internal/core/diff"
)

// minCalloutWidth fits the corners, the timestamp and a little content.
const minCalloutWidth = 14

// Callout is an annotation box drawn below the last changed row of its hunk.
type Callout struct {
	AfterRow  int
	FileIndex int
	HunkIndex int
	Lines     []string
	Height    int
}

// Callouts builds boxes for the annotations of fileIndex whose hunk still
// exists in rows. The result is ordered by AfterRow.
func (c *Compositor) Callouts(rows []diff.DiffLine, hunks []int, anns []annotation.Annotation, fileIndex, width int) []Callout {
	var out []Callout
	for _, a := range anns {
		if a.FileIndex != fileIndex || a.HunkIndex < 0 || a.HunkIndex >= len(hunks) {
			continue
		}
		lines := c.renderCallout(a, width)
		out = append(out, Callout{
			AfterRow:  diff.HunkEnd(rows, hunks, a.HunkIndex),
			FileIndex: a.FileIndex,
			HunkIndex: a.HunkIndex,
			Lines:     lines,
			Height:    len(lines),
		})
	}

	slices.SortStableFunc(out, func(a, b Callout) int { return a.AfterRow - b.AfterRow })
	return out
}

func (c *Compositor) renderCallout(a annotation.Annotation, width int) []string {
	w := max(width, minCalloutWidth)
	inner := w - 4

	border := Style{Fg: c.theme.UI.CalloutBorder}.Lip()
	text := Style{Fg: c.theme.UI.CalloutFg}.Lip()

	lines := []string{border.Render("╭" + strings.Repeat("─", w-2) + "╮")}
	for _, l := range strings.Split(strings.TrimRight(a.Content, "\n"), "\n") {
		l = ansi.Truncate(diff.ExpandTabs(l, 4), inner, "…")
		pad := inner - ansi.StringWidth(l)
		lines = append(lines,
			border.Render("│ ")+text.Render(l+strings.Repeat(" ", pad))+border.Render(" │"))
	}

	ts := " " + a.FormatTime() + " "
	fill := max(w-3-ansi.StringWidth(ts), 0)
	lines = append(lines, border.Render("╰"+strings.Repeat("─", fill)+ts+"─╯"))
	return lines
}

// RowKind tells what a screen row shows.
type RowKind int

const (
	RowDiff RowKind = iota
	RowCallout
)

// ScreenRow is one visible line of the diff area.
type ScreenRow struct {
	Kind RowKind
	// Row is the diff row for RowDiff, or the row the callout follows.
	Row int
	// Callout and Line index into the callouts passed to Layout.
	Callout int
	Line    int
}

// Layout interleaves diff rows starting at scroll with the callouts that
// follow them, up to height screen rows. Both panels share the result, so a
// callout line reserves the row on either side.
func Layout(rowCount, scroll, height int, callouts []Callout) []ScreenRow {
	out := make([]ScreenRow, 0, max(height, 0))
	for row := max(scroll, 0); row < rowCount && len(out) < height; row++ {
		out = append(out, ScreenRow{Kind: RowDiff, Row: row})
		for ci, co := range callouts {
			if co.AfterRow != row {
				continue
			}
			for li := 0; li < co.Height && len(out) < height; li++ {
				out = append(out, ScreenRow{Kind: RowCallout, Row: row, Callout: ci, Line: li})
			}
		}
	}
	return out
}

// RowAtScreen maps a screen offset within the diff area to a diff row. Lines
// inside a callout resolve to the row the callout follows.
func RowAtScreen(screen []ScreenRow, y int) (int, bool) {
	if y < 0 || y >= len(screen) {
		return 0, false
	}
	return screen[y].Row, true
}
