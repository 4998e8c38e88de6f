package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTabs(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{name: "single tab", in: "a\tb", width: 4, want: "a   b"},
		{name: "tab at stop", in: "abcd\te", width: 4, want: "abcd    e"},
		{name: "leading tabs", in: "\t\tx", width: 2, want: "    x"},
		{name: "zero width strips", in: "a\tb\t", width: 0, want: "ab"},
		{name: "no tabs", in: "plain", width: 8, want: "plain"},
		{name: "multibyte counts as one column", in: "é\tx", width: 4, want: "é   x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandTabs(tt.in, tt.width))
		})
	}
}

func TestExpandTabsFrom_ContinuesColumn(t *testing.T) {
	first, col := ExpandTabsFrom("ab", 4, 0)
	assert.Equal(t, "ab", first)
	assert.Equal(t, 2, col)

	second, col := ExpandTabsFrom("\tc", 4, col)
	assert.Equal(t, "  c", second)
	assert.Equal(t, 5, col)

	assert.Equal(t, ExpandTabs("ab\tc", 4), first+second)
}

func TestHunkContentAt(t *testing.T) {
	rows := ComputeSideBySide(
		"one\ntwo\nthree\nfour\nfive\n",
		"one\nTWO\nthree\nfive\nsix\n",
		DefaultOptions(),
	)
	hunks := HunkStarts(rows)
	require.Len(t, hunks, 3)

	t.Run("modified row contributes both sides", func(t *testing.T) {
		c, ok := HunkContentAt(rows, hunks, 0)
		require.True(t, ok)
		assert.Equal(t, []string{"- two", "+ TWO"}, c.Lines)
		assert.Equal(t, &LineRange{Start: 2, End: 2}, c.Old)
		assert.Equal(t, &LineRange{Start: 2, End: 2}, c.New)
		assert.Equal(t, "- two\n+ TWO\n", c.Text())
	})

	t.Run("pure deletion has no new range", func(t *testing.T) {
		c, ok := HunkContentAt(rows, hunks, 1)
		require.True(t, ok)
		assert.Equal(t, []string{"- four"}, c.Lines)
		assert.Equal(t, &LineRange{Start: 4, End: 4}, c.Old)
		assert.Nil(t, c.New)
	})

	t.Run("pure addition has no old range", func(t *testing.T) {
		c, ok := HunkContentAt(rows, hunks, 2)
		require.True(t, ok)
		assert.Nil(t, c.Old)
		assert.Equal(t, &LineRange{Start: 5, End: 5}, c.New)
	})

	t.Run("out of range", func(t *testing.T) {
		_, ok := HunkContentAt(rows, hunks, 3)
		assert.False(t, ok)
	})
}

func TestHunkLineRange(t *testing.T) {
	rows := ComputeSideBySide("a\nb\nc\nd\n", "a\nB\nC\nd\n", DefaultOptions())
	hunks := HunkStarts(rows)
	require.Equal(t, []int{1}, hunks)

	assert.Equal(t, 2, HunkEnd(rows, hunks, 0))
	assert.Equal(t, LineRange{Start: 2, End: 3}, HunkLineRange(rows, hunks, 0))

	deleted := ComputeSideBySide("a\nb\nc\n", "a\n", DefaultOptions())
	dh := HunkStarts(deleted)
	assert.Equal(t, LineRange{Start: 2, End: 3}, HunkLineRange(deleted, dh, 0))
}

func TestHunkIndexAt(t *testing.T) {
	hunks := []int{3, 10, 20}

	_, ok := HunkIndexAt(hunks, 1)
	assert.False(t, ok)

	idx, ok := HunkIndexAt(hunks, 12)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	idx, _ = HunkIndexAt(hunks, 20)
	assert.Equal(t, 2, idx)
}

func TestScopeContext(t *testing.T) {
	src := "func main() {\n\tif x {\n\t\tfoo()\n\t\tbar()\n\t}\n}\n"

	got := ScopeContext(src, 4, 3, 4)
	assert.Equal(t, []ContextLine{
		{Number: 1, Text: "func main() {"},
		{Number: 2, Text: "    if x {"},
	}, got)

	t.Run("capped keeps innermost", func(t *testing.T) {
		got := ScopeContext(src, 4, 1, 4)
		assert.Equal(t, []ContextLine{{Number: 2, Text: "    if x {"}}, got)
	})

	t.Run("top level has no context", func(t *testing.T) {
		assert.Empty(t, ScopeContext(src, 6, 3, 4))
		assert.Empty(t, ScopeContext(src, 1, 3, 4))
	})
}
