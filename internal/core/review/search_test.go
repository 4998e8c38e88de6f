package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wk-j/lumen/internal/core/diff"
	"github.com/wk-j/lumen/internal/core/selection"
)

func TestFindFold(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  [][2]int
	}{
		{name: "case insensitive", text: "Foo fOO", query: "foo", want: [][2]int{{0, 3}, {4, 7}}},
		{name: "non overlapping", text: "aaaa", query: "aa", want: [][2]int{{0, 2}, {2, 4}}},
		{name: "multibyte offsets", text: "ÄBC äbc", query: "äb", want: [][2]int{{0, 3}, {5, 8}}},
		{name: "no match", text: "hello", query: "xyz", want: nil},
		{name: "query longer than text", text: "ab", query: "abc", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findFold(tt.text, tt.query))
		})
	}
}

func TestState_Search(t *testing.T) {
	s := New([]diff.FileDiff{file("a.txt", "alpha\n", "alpha\nbeta alpha\ngamma\n")}, Options{})

	s.SetSearchQuery("ALPHA")
	search := s.Search()
	require.True(t, search.HasQuery())

	assert.Equal(t, []Match{
		{Row: 0, Panel: selection.PanelOld, Start: 0, End: 5},
		{Row: 0, Panel: selection.PanelNew, Start: 0, End: 5},
		{Row: 1, Panel: selection.PanelNew, Start: 5, End: 10},
	}, search.Matches())

	assert.Equal(t, []MatchRange{{Start: 0, End: 5, Current: true}}, search.MatchesFor(0, selection.PanelOld))
	assert.Equal(t, []MatchRange{{Start: 0, End: 5}}, search.MatchesFor(0, selection.PanelNew))
	assert.Empty(t, search.MatchesFor(2, selection.PanelNew))

	m, ok := search.Next()
	require.True(t, ok)
	assert.Equal(t, selection.PanelNew, m.Panel)

	search.Next()
	m, _ = search.Next()
	assert.Equal(t, 0, search.Index(), "wraps forward")
	assert.Equal(t, selection.PanelOld, m.Panel)

	m, _ = search.Prev()
	assert.Equal(t, 2, search.Index(), "wraps backward")
	assert.Equal(t, 1, m.Row)

	s.ClearSearch()
	assert.False(t, s.Search().HasQuery())
	assert.Empty(t, s.Search().Matches())
}

func TestState_SearchRecomputedOnFileChange(t *testing.T) {
	files := []diff.FileDiff{
		file("a.txt", "", "needle\n"),
		file("b.txt", "", "hay\nneedle\nneedle\n"),
	}
	s := New(files, Options{})
	s.SetSearchQuery("needle")
	require.Len(t, s.Search().Matches(), 1)

	s.SelectFile(1)
	s.SideBySide()
	assert.Len(t, s.Search().Matches(), 2)
}

func TestState_ConfirmSearchAndStep(t *testing.T) {
	s := New([]diff.FileDiff{file("a.txt", numbered(60), numbered(60, 1))}, Options{ViewHeight: 20})
	s.ScrollTop()
	s.ScrollBy(10)

	s.SetSearchQuery("l4")
	// l4 on rows 3, then l40..l49 on rows 39..48, both panels each
	require.True(t, s.ConfirmSearch())
	m, _ := s.Search().Current()
	assert.Equal(t, 39, m.Row, "first match at or below the viewport top")
	assert.Equal(t, 34, s.Scroll())

	s.SearchPrev()
	m, _ = s.Search().Current()
	assert.Equal(t, 3, m.Row)
	assert.Equal(t, 0, s.Scroll())
}

func TestState_ConfirmSearchWithoutMatches(t *testing.T) {
	s := New([]diff.FileDiff{added("a.go")}, Options{})
	s.SetSearchQuery("zzz")

	assert.False(t, s.ConfirmSearch())
	assert.False(t, s.SearchNext())
	assert.False(t, s.SearchPrev())
}
