package compositor

import (
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wk-j/lumen/internal/core/annotation"
	"github.com/wk-j/lumen/internal/core/diff"
	"github.com/wk-j/lumen/internal/core/highlight"
	"github.com/wk-j/lumen/internal/core/review"
	"github.com/wk-j/lumen/internal/core/selection"
	"github.com/wk-j/lumen/internal/core/styles"
)

type fakeHighlighter struct {
	lines map[string]highlight.Lines
	calls int
}

func (f *fakeHighlighter) Highlight(content, _ string) highlight.Lines {
	f.calls++
	return f.lines[content]
}

func theme(t *testing.T) *styles.Theme {
	t.Helper()
	th, ok := styles.Get("dark")
	require.True(t, ok)
	return th
}

func modifiedRow() diff.DiffLine {
	return diff.DiffLine{
		Kind: diff.Modified,
		Old:  &diff.Side{Number: 1, Text: "foo bar"},
		New:  &diff.Side{Number: 1, Text: "foo baz"},
		OldSegments: []diff.InlineSegment{
			{Text: "foo "},
			{Text: "bar", Emphasized: true},
		},
		NewSegments: []diff.InlineSegment{
			{Text: "foo "},
			{Text: "baz", Emphasized: true},
		},
	}
}

func TestLine_RowBackgrounds(t *testing.T) {
	th := theme(t)
	c := New(th, nil)

	tests := []struct {
		name  string
		line  diff.DiffLine
		panel selection.Panel
		bg    color.Color
	}{
		{
			name:  "equal has no background",
			line:  diff.DiffLine{Kind: diff.Equal, Old: &diff.Side{Number: 1, Text: "x"}, New: &diff.Side{Number: 1, Text: "x"}},
			panel: selection.PanelNew,
			bg:    nil,
		},
		{
			name:  "delete on old",
			line:  diff.DiffLine{Kind: diff.Delete, Old: &diff.Side{Number: 1, Text: "x"}},
			panel: selection.PanelOld,
			bg:    th.Diff.DeletedBg,
		},
		{
			name:  "insert on new",
			line:  diff.DiffLine{Kind: diff.Insert, New: &diff.Side{Number: 1, Text: "x"}},
			panel: selection.PanelNew,
			bg:    th.Diff.AddedBg,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := c.Line(Row{Line: tt.line, Panel: tt.panel})
			require.Len(t, spans, 1)
			assert.Equal(t, "x", spans[0].Text)
			assert.Equal(t, tt.bg, spans[0].Style.Bg)
			assert.Equal(t, th.Syntax.Default, spans[0].Style.Fg)
		})
	}
}

func TestLine_AbsentSideReturnsNil(t *testing.T) {
	c := New(theme(t), nil)
	line := diff.DiffLine{Kind: diff.Insert, New: &diff.Side{Number: 1, Text: "x"}}

	assert.Nil(t, c.Line(Row{Line: line, Panel: selection.PanelOld}))
}

func TestLine_WordEmphasis(t *testing.T) {
	th := theme(t)
	c := New(th, nil)

	spans := c.Line(Row{Line: modifiedRow(), Panel: selection.PanelNew})

	require.Len(t, spans, 2)
	assert.Equal(t, "foo ", spans[0].Text)
	assert.Equal(t, th.Diff.AddedBg, spans[0].Style.Bg)
	assert.Equal(t, "baz", spans[1].Text)
	assert.Equal(t, th.Diff.AddedWordBg, spans[1].Style.Bg)
}

func TestLine_SearchOverridesEmphasis(t *testing.T) {
	th := theme(t)
	c := New(th, nil)

	spans := c.Line(Row{
		Line:    modifiedRow(),
		Panel:   selection.PanelOld,
		Matches: []review.MatchRange{{Start: 0, End: 3}, {Start: 4, End: 7, Current: true}},
	})

	require.Len(t, spans, 3)
	assert.Equal(t, Span{Text: "foo", Style: Style{Fg: th.UI.SearchMatchFg, Bg: th.UI.SearchMatchBg, Bold: true}}, spans[0])
	assert.Equal(t, " ", spans[1].Text)
	assert.Equal(t, th.Diff.DeletedBg, spans[1].Style.Bg)
	assert.Equal(t, Span{Text: "bar", Style: Style{Fg: th.UI.SearchCurrentFg, Bg: th.UI.SearchCurrentBg, Bold: true}}, spans[2])
}

func TestLine_SelectionSplitsOnRuneBoundaries(t *testing.T) {
	th := theme(t)
	c := New(th, nil)
	line := diff.DiffLine{Kind: diff.Equal, Old: &diff.Side{Number: 3, Text: "héllo"}, New: &diff.Side{Number: 3, Text: "héllo"}}

	sel := selection.Selection{
		Panel:  selection.PanelNew,
		Mode:   selection.ModeCharacter,
		Anchor: selection.Position{Line: 2, Column: 1},
		Head:   selection.Position{Line: 2, Column: 3},
	}
	spans := c.Line(Row{Line: line, Panel: selection.PanelNew, Index: 2, Selection: sel})

	require.Len(t, spans, 3)
	assert.Equal(t, []string{"h", "él", "lo"}, []string{spans[0].Text, spans[1].Text, spans[2].Text})
	assert.Equal(t, styles.Blend(th.UI.Background, th.UI.SelectionBg, SelectionAlpha), spans[1].Style.Bg)
	assert.Nil(t, spans[0].Style.Bg)

	other := c.Line(Row{Line: line, Panel: selection.PanelOld, Index: 2, Selection: sel})
	require.Len(t, other, 1, "selection is confined to its panel")
}

func TestLine_SelectionCountsDisplayCells(t *testing.T) {
	th := theme(t)
	c := New(th, nil)
	line := diff.DiffLine{Kind: diff.Equal, Old: &diff.Side{Number: 1, Text: "日本語ab"}, New: &diff.Side{Number: 1, Text: "日本語ab"}}

	sel := selection.Selection{
		Panel:  selection.PanelNew,
		Mode:   selection.ModeCharacter,
		Anchor: selection.Position{Line: 0, Column: 2},
		Head:   selection.Position{Line: 0, Column: 6},
	}
	spans := c.Line(Row{Line: line, Panel: selection.PanelNew, Index: 0, Selection: sel})

	require.Len(t, spans, 3)
	assert.Equal(t, []string{"日", "本語", "ab"}, []string{spans[0].Text, spans[1].Text, spans[2].Text})

	copied, ok := selection.Extract(sel, []diff.DiffLine{line})
	require.True(t, ok)
	assert.Equal(t, spans[1].Text, copied)
}

func TestLine_LineSelectionTintsWholeRow(t *testing.T) {
	th := theme(t)
	c := New(th, nil)
	line := diff.DiffLine{Kind: diff.Insert, New: &diff.Side{Number: 1, Text: "abc"}}
	sel := selection.Selection{
		Panel:  selection.PanelNew,
		Mode:   selection.ModeLine,
		Anchor: selection.Position{Line: 0},
		Head:   selection.Position{Line: 0},
	}
	r := Row{Line: line, Panel: selection.PanelNew, Selection: sel}

	spans := c.Line(r)
	want := styles.Blend(th.Diff.AddedBg, th.UI.SelectionBg, SelectionAlpha)

	require.Len(t, spans, 1)
	assert.Equal(t, want, spans[0].Style.Bg)
	assert.Equal(t, want, c.Fill(r).Bg)
}

func TestLine_SyntaxTokens(t *testing.T) {
	th := theme(t)
	red := color.RGBA{R: 255, A: 255}
	content := "\tif x  \n"
	hl := &fakeHighlighter{lines: map[string]highlight.Lines{
		content: highlight.NewLines([][]highlight.Token{{
			{Text: "\t"},
			{Text: "if", Color: red},
			{Text: " x  "},
		}}),
	}}
	c := New(th, hl)
	c.SetFile(diff.FileDiff{Filename: "a.go", NewContent: content})

	line := diff.DiffLine{Kind: diff.Insert, New: &diff.Side{Number: 1, Text: "    if x"}}
	spans := c.Line(Row{Line: line, Panel: selection.PanelNew, TabWidth: 4})

	require.Len(t, spans, 3)
	assert.Equal(t, "    ", spans[0].Text)
	assert.Equal(t, Span{Text: "if", Style: Style{Fg: red, Bg: th.Diff.AddedBg}}, spans[1])
	assert.Equal(t, " x", spans[2].Text)
	assert.Equal(t, 2, hl.calls)
}

func TestLine_TokensDisagreeingWithTextFallBackToPlain(t *testing.T) {
	th := theme(t)
	hl := &fakeHighlighter{lines: map[string]highlight.Lines{
		"a\n": highlight.NewLines([][]highlight.Token{{{Text: "other", Color: th.Syntax.Keyword}}}),
	}}
	c := New(th, hl)
	c.SetFile(diff.FileDiff{Filename: "a.txt", NewContent: "a\n"})

	line := diff.DiffLine{Kind: diff.Insert, New: &diff.Side{Number: 1, Text: "a"}}
	spans := c.Line(Row{Line: line, Panel: selection.PanelNew})

	require.Len(t, spans, 1)
	assert.Equal(t, "a", spans[0].Text)
	assert.Equal(t, th.Syntax.Default, spans[0].Style.Fg)
}

func TestMuted(t *testing.T) {
	tests := []struct {
		name string
		c    color.Color
		want bool
	}{
		{"nil", nil, false},
		{"dark gray", color.RGBA{R: 88, G: 88, B: 88, A: 255}, true},
		{"mid gray is desaturated", color.RGBA{R: 160, G: 160, B: 160, A: 255}, true},
		{"bright", color.RGBA{R: 230, G: 230, B: 230, A: 255}, false},
		{"saturated mid", color.RGBA{R: 255, G: 123, B: 114, A: 255}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Muted(tt.c))
		})
	}
}

func TestLine_EmphasisBoostsMutedForeground(t *testing.T) {
	th := theme(t)
	gray := color.RGBA{R: 90, G: 90, B: 90, A: 255}
	hl := &fakeHighlighter{lines: map[string]highlight.Lines{
		"foo baz\n": highlight.NewLines([][]highlight.Token{{{Text: "foo baz", Color: gray}}}),
	}}
	c := New(th, hl)
	c.SetFile(diff.FileDiff{Filename: "a.txt", OldContent: "foo bar\n", NewContent: "foo baz\n"})

	spans := c.Line(Row{Line: modifiedRow(), Panel: selection.PanelNew})

	require.Len(t, spans, 2)
	assert.Equal(t, gray, spans[0].Style.Fg)
	assert.Equal(t, th.Syntax.Default, spans[1].Style.Fg)
}

func TestGutter(t *testing.T) {
	th := theme(t)
	c := New(th, nil)

	old := c.Gutter(7, diff.Modified, selection.PanelOld)
	assert.Equal(t, "   7 ", old.Text)
	assert.Equal(t, th.Diff.DeletedGutterBg, old.Style.Bg)

	eq := c.Gutter(12, diff.Equal, selection.PanelNew)
	assert.Equal(t, "  12 ", eq.Text)
	assert.Equal(t, th.UI.LineNumber, eq.Style.Fg)
	assert.Nil(t, eq.Style.Bg)

	ins := c.Gutter(1, diff.Insert, selection.PanelNew)
	assert.Equal(t, th.Diff.AddedGutterFg, ins.Style.Fg)
}

func TestPlaceholderAndFocus(t *testing.T) {
	c := New(theme(t), nil)

	assert.Equal(t, "     ╱╱╱", Text(c.Placeholder(3)))
	assert.Equal(t, "     ", Text(c.Placeholder(-1)))
	assert.Equal(t, "▎", c.FocusIndicator(true).Text)
	assert.Equal(t, " ", c.FocusIndicator(false).Text)
}

func TestContextLine(t *testing.T) {
	th := theme(t)
	c := New(th, nil)

	spans := c.ContextLine(&diff.ContextLine{Number: 10, Text: "func f() {"}, false, 4)
	assert.Equal(t, "  10 ~ func f() {", Text(spans))
	for _, s := range spans {
		assert.Equal(t, th.Diff.ContextBg, s.Style.Bg)
	}

	assert.Equal(t, "     ~", Text(c.ContextLine(nil, true, 4)))
}

func callRows() ([]diff.DiffLine, []int) {
	eq := func(n int) diff.DiffLine {
		return diff.DiffLine{Kind: diff.Equal, Old: &diff.Side{Number: n, Text: "x"}, New: &diff.Side{Number: n, Text: "x"}}
	}
	rows := []diff.DiffLine{
		eq(1),
		{Kind: diff.Insert, New: &diff.Side{Number: 2, Text: "a"}},
		{Kind: diff.Insert, New: &diff.Side{Number: 3, Text: "b"}},
		eq(4),
		{Kind: diff.Delete, Old: &diff.Side{Number: 4, Text: "c"}},
		eq(5),
	}
	return rows, diff.HunkStarts(rows)
}

func TestCallouts(t *testing.T) {
	c := New(theme(t), nil)
	rows, hunks := callRows()
	require.Equal(t, []int{1, 4}, hunks)

	created := time.Date(2026, 1, 2, 9, 5, 0, 0, time.Local)
	anns := []annotation.Annotation{
		{FileIndex: 0, HunkIndex: 1, Content: "second", CreatedAt: created},
		{FileIndex: 0, HunkIndex: 0, Content: "first\n\tline two", CreatedAt: created},
		{FileIndex: 1, HunkIndex: 0, Content: "other file"},
		{FileIndex: 0, HunkIndex: 5, Content: "stale hunk"},
	}

	got := c.Callouts(rows, hunks, anns, 0, 30)

	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].AfterRow)
	assert.Equal(t, 0, got[0].HunkIndex)
	assert.Equal(t, 4, got[0].Height)
	assert.Equal(t, 4, got[1].AfterRow)
	assert.Equal(t, 3, got[1].Height)

	for _, l := range got[0].Lines {
		assert.Equal(t, 30, ansi.StringWidth(l))
	}
	assert.Contains(t, ansi.Strip(got[0].Lines[2]), "│     line two")
	assert.True(t, strings.HasSuffix(ansi.Strip(got[0].Lines[3]), " 09:05 ─╯"))
}

func TestCallouts_TruncatesLongLines(t *testing.T) {
	c := New(theme(t), nil)
	rows, hunks := callRows()
	anns := []annotation.Annotation{{HunkIndex: 0, Content: strings.Repeat("w", 100)}}

	got := c.Callouts(rows, hunks, anns, 0, 20)

	require.Len(t, got, 1)
	assert.Equal(t, 20, ansi.StringWidth(got[0].Lines[1]))
	assert.Contains(t, ansi.Strip(got[0].Lines[1]), "…")
}

func TestLayout(t *testing.T) {
	callouts := []Callout{{AfterRow: 1, Height: 2}}

	got := Layout(5, 0, 4, callouts)

	assert.Equal(t, []ScreenRow{
		{Kind: RowDiff, Row: 0},
		{Kind: RowDiff, Row: 1},
		{Kind: RowCallout, Row: 1, Callout: 0, Line: 0},
		{Kind: RowCallout, Row: 1, Callout: 0, Line: 1},
	}, got)

	row, ok := RowAtScreen(got, 3)
	assert.True(t, ok)
	assert.Equal(t, 1, row)

	_, ok = RowAtScreen(got, 4)
	assert.False(t, ok)
}

func TestLayout_ScrolledPastCallout(t *testing.T) {
	got := Layout(5, 2, 10, []Callout{{AfterRow: 1, Height: 2}})

	require.Len(t, got, 3)
	assert.Equal(t, 2, got[0].Row)
	assert.Equal(t, RowDiff, got[2].Kind)
}
