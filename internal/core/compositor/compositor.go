// Package compositor turns diff rows into styled spans. It layers syntax
// colors, row backgrounds, word emphasis, search matches and the selection
// tint for one panel row at a time.
package compositor

import (
	"fmt"
	"image/color"
	"strings"
	"unicode"
	"unicode/utf8"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/wk-j/lumen/internal/core/diff"
	"github.com/wk-j/lumen/internal/core/highlight"
	"github.com/wk-j/lumen/internal/core/layout"
	"github.com/wk-j/lumen/internal/core/review"
	"github.com/wk-j/lumen/internal/core/selection"
	"github.com/wk-j/lumen/internal/core/styles"
)

const (
	// SelectionAlpha is the weight of the selection color blended over a
	// run's background.
	SelectionAlpha = 0.4

	placeholderRune = "╱"
	focusIndicator  = "▎"
)

// Style is the visual attributes of a span. Nil colors mean the terminal
// default.
type Style struct {
	Fg   color.Color
	Bg   color.Color
	Bold bool
}

// Lip converts the style to a lipgloss style.
func (s Style) Lip() lipgloss.Style {
	st := lipgloss.NewStyle()
	if s.Fg != nil {
		st = st.Foreground(s.Fg)
	}
	if s.Bg != nil {
		st = st.Background(s.Bg)
	}
	if s.Bold {
		st = st.Bold(true)
	}
	return st
}

func (s Style) equal(o Style) bool {
	return s.Bold == o.Bold && sameColor(s.Fg, o.Fg) && sameColor(s.Bg, o.Bg)
}

func sameColor(a, b color.Color) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	r1, g1, b1, a1 := a.RGBA()
	r2, g2, b2, a2 := b.RGBA()
	return r1 == r2 && g1 == g2 && b1 == b2 && a1 == a2
}

// Span is a run of text sharing one style.
type Span struct {
	Text  string
	Style Style
}

// Render styles every span and joins them.
func Render(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Style.Lip().Render(s.Text))
	}
	return b.String()
}

// Text joins the unstyled text of spans.
func Text(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Highlighter tokenizes whole files for syntax coloring.
type Highlighter interface {
	Highlight(content, filename string) highlight.Lines
}

// Row is one panel row to compose.
type Row struct {
	Line      diff.DiffLine
	Panel     selection.Panel
	Index     int // absolute row index
	Matches   []review.MatchRange
	Selection selection.Selection
	TabWidth  int
}

func (r Row) old() bool { return r.Panel == selection.PanelOld }

// Compositor builds styled spans for the rows of one file.
type Compositor struct {
	theme    *styles.Theme
	hl       Highlighter
	oldLines highlight.Lines
	newLines highlight.Lines
}

// New returns a compositor. hl may be nil, in which case rows render as plain
// text on their diff backgrounds.
func New(theme *styles.Theme, hl Highlighter) *Compositor {
	return &Compositor{theme: theme, hl: hl}
}

// Theme returns the theme the compositor renders with.
func (c *Compositor) Theme() *styles.Theme { return c.theme }

// SetFile highlights both sides of f. Highlighters are expected to cache, so
// calling it on every frame is cheap.
func (c *Compositor) SetFile(f diff.FileDiff) {
	if c.hl == nil || f.IsBinary {
		c.oldLines, c.newLines = highlight.Lines{}, highlight.Lines{}
		return
	}
	c.oldLines = c.hl.Highlight(f.OldContent, f.Filename)
	c.newLines = c.hl.Highlight(f.NewContent, f.Filename)
}

// Line composes the content of a row. It returns nil when the row has no side
// in the requested panel; callers draw Placeholder instead.
func (c *Compositor) Line(r Row) []Span {
	side := r.Line.SideFor(r.old())
	if side == nil {
		return nil
	}

	t := c.theme
	rowBg := c.rowBackground(r)
	wordBg := t.Diff.AddedWordBg
	if r.old() {
		wordBg = t.Diff.DeletedWordBg
	}

	var emphasis [][2]int
	if r.Line.Kind == diff.Modified {
		emphasis = emphasisRanges(r.Line.SegmentsFor(r.old()))
	}

	selected := r.Selection.IsActive() && r.Selection.Panel == r.Panel

	var (
		out []Span
		cur strings.Builder
		cs  Style
		pos int // byte offset in the display text
		col int // display cell column
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, Span{Text: cur.String(), Style: cs})
			cur.Reset()
		}
	}

	for _, tok := range c.tokens(side, r.old(), r.TabWidth) {
		fg := tok.Color
		if fg == nil {
			fg = t.Syntax.Default
		}

		for _, ch := range tok.Text {
			var st Style
			switch m, ok := matchAt(r.Matches, pos); {
			case ok && m.Current:
				st = Style{Fg: t.UI.SearchCurrentFg, Bg: t.UI.SearchCurrentBg, Bold: true}
			case ok:
				st = Style{Fg: t.UI.SearchMatchFg, Bg: t.UI.SearchMatchBg, Bold: true}
			case inRanges(emphasis, pos):
				st = Style{Fg: Boost(fg, t.Syntax.Default), Bg: wordBg}
			default:
				st = Style{Fg: fg, Bg: rowBg}
			}

			if selected && r.Selection.Contains(r.Index, col) {
				st.Bg = c.tint(st.Bg)
			}

			if !st.equal(cs) {
				flush()
				cs = st
			}
			cur.WriteRune(ch)
			pos += utf8.RuneLen(ch)
			col += selection.CellWidth(ch)
		}
	}
	flush()

	return out
}

// Fill is the style for the empty space to the right of a row's text.
func (c *Compositor) Fill(r Row) Style {
	st := Style{Bg: c.rowBackground(r)}
	if r.Line.SideFor(r.old()) == nil {
		st.Bg = nil
	}
	if r.Selection.Panel == r.Panel && r.Selection.LineFullySelected(r.Index) {
		st.Bg = c.tint(st.Bg)
	}
	return st
}

func (c *Compositor) tint(bg color.Color) color.Color {
	if bg == nil {
		bg = c.theme.UI.Background
	}
	return styles.Blend(bg, c.theme.UI.SelectionBg, SelectionAlpha)
}

func (c *Compositor) rowBackground(r Row) color.Color {
	switch r.Line.Kind {
	case diff.Delete:
		return c.theme.Diff.DeletedBg
	case diff.Insert:
		return c.theme.Diff.AddedBg
	case diff.Modified:
		if r.old() {
			return c.theme.Diff.DeletedBg
		}
		return c.theme.Diff.AddedBg
	}
	return nil
}

// tokens returns the highlighted tokens of a side trimmed and tab-expanded
// the same way the diff engine prepares display text. When the highlighter
// has nothing for the line, or its text disagrees with the row, the row text
// is returned as a single uncolored token.
func (c *Compositor) tokens(side *diff.Side, old bool, tabWidth int) []highlight.Token {
	plain := []highlight.Token{{Text: side.Text}}

	lines := c.newLines
	if old {
		lines = c.oldLines
	}
	raw := lines.Line(side.Number)
	if len(raw) == 0 {
		return plain
	}

	var joined strings.Builder
	for _, t := range raw {
		joined.WriteString(t.Text)
	}
	keep := len(strings.TrimRightFunc(joined.String(), unicode.IsSpace))

	out := make([]highlight.Token, 0, len(raw))
	var check strings.Builder
	n, col := 0, 0
	for _, t := range raw {
		if n >= keep {
			break
		}
		text := t.Text
		if n+len(text) > keep {
			text = text[:keep-n]
		}
		n += len(t.Text)

		var expanded string
		expanded, col = diff.ExpandTabsFrom(text, tabWidth, col)
		if expanded == "" {
			continue
		}
		out = append(out, highlight.Token{Text: expanded, Color: t.Color})
		check.WriteString(expanded)
	}

	if check.String() != side.Text {
		return plain
	}
	return out
}

func matchAt(matches []review.MatchRange, pos int) (review.MatchRange, bool) {
	for _, m := range matches {
		if pos >= m.Start && pos < m.End {
			return m, true
		}
	}
	return review.MatchRange{}, false
}

func emphasisRanges(segs []diff.InlineSegment) [][2]int {
	var out [][2]int
	pos := 0
	for _, s := range segs {
		if s.Emphasized {
			out = append(out, [2]int{pos, pos + len(s.Text)})
		}
		pos += len(s.Text)
	}
	return out
}

func inRanges(ranges [][2]int, pos int) bool {
	for _, r := range ranges {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}

// Muted reports whether c is dark or grayish enough to lose contrast on a
// colored background.
func Muted(c color.Color) bool {
	if c == nil {
		return false
	}
	r, g, b := styles.RGB(c)
	luminance := (int(r)*299 + int(g)*587 + int(b)*114) / 1000

	hi := max(r, g, b)
	lo := min(r, g, b)
	saturation := 0
	if hi > 0 {
		saturation = int(hi-lo) * 100 / int(hi)
	}
	return luminance < 140 || (luminance < 180 && saturation < 30)
}

// Boost replaces a muted foreground with def.
func Boost(fg, def color.Color) color.Color {
	if Muted(fg) {
		return def
	}
	return fg
}

// Gutter renders the line number column of a row side.
func (c *Compositor) Gutter(num int, kind diff.ChangeKind, panel selection.Panel) Span {
	t := c.theme
	st := Style{Fg: t.UI.LineNumber}

	old := panel == selection.PanelOld
	switch {
	case old && (kind == diff.Delete || kind == diff.Modified):
		st = Style{Fg: t.Diff.DeletedGutterFg, Bg: t.Diff.DeletedGutterBg}
	case !old && (kind == diff.Insert || kind == diff.Modified):
		st = Style{Fg: t.Diff.AddedGutterFg, Bg: t.Diff.AddedGutterBg}
	}

	return Span{Text: fmt.Sprintf("%4d ", num), Style: st}
}

// Placeholder fills a panel row whose side is absent: a blank gutter followed
// by a diagonal stripe across width content columns.
func (c *Compositor) Placeholder(width int) []Span {
	st := Style{Fg: c.theme.Diff.PlaceholderFg}
	return []Span{
		{Text: strings.Repeat(" ", layout.GutterWidth), Style: st},
		{Text: strings.Repeat(placeholderRune, max(width, 0)), Style: st},
	}
}

// FocusIndicator marks rows of the focused hunk.
func (c *Compositor) FocusIndicator(focused bool) Span {
	if !focused {
		return Span{Text: " "}
	}
	return Span{Text: focusIndicator, Style: Style{Fg: c.theme.UI.BorderFocused}}
}

// ContextLine renders a sticky scope line above the diff rows. A nil cl
// renders the filler used when the other panel has more context lines.
func (c *Compositor) ContextLine(cl *diff.ContextLine, old bool, tabWidth int) []Span {
	t := c.theme
	gutter := Style{Fg: t.UI.LineNumber, Bg: t.Diff.ContextBg}
	if cl == nil {
		return []Span{{Text: "     ~", Style: gutter}}
	}

	spans := []Span{{Text: fmt.Sprintf("%4d ~ ", cl.Number), Style: gutter}}
	for _, tok := range c.tokens(&diff.Side{Number: cl.Number, Text: cl.Text}, old, tabWidth) {
		fg := tok.Color
		if fg == nil {
			fg = t.Syntax.Default
		}
		spans = append(spans, Span{Text: tok.Text, Style: Style{Fg: fg, Bg: t.Diff.ContextBg}})
	}
	return spans
}
