package annotation

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wk-j/lumen/internal/core/diff"
)

func fixedClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Minute)
	}
}

func newTestStore() *Store {
	s := NewStore()
	s.now = fixedClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local))
	return s
}

func TestStore_SetIsLastWriteWins(t *testing.T) {
	s := newTestStore()

	first := s.Set(Annotation{FileIndex: 0, HunkIndex: 1, Content: "first", Filename: "a.go"})
	require.NotEqual(t, uuid.Nil, first.ID)

	second := s.Set(Annotation{FileIndex: 0, HunkIndex: 1, Content: "second", Filename: "a.go"})
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, first.ID, second.ID, "replacement keeps identity")
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	got, ok := s.Get(0, 1)
	require.True(t, ok)
	assert.Equal(t, "second", got.Content)

	byID, ok := s.ByID(first.ID)
	require.True(t, ok)
	assert.Equal(t, "second", byID.Content)
}

func TestStore_Remove(t *testing.T) {
	s := newTestStore()
	s.Set(Annotation{FileIndex: 0, HunkIndex: 0, Content: "x"})
	s.Set(Annotation{FileIndex: 1, HunkIndex: 0, Content: "y"})

	assert.True(t, s.Remove(0, 0))
	assert.False(t, s.Remove(0, 0))
	assert.Equal(t, 1, s.Len())

	_, ok := s.Get(0, 0)
	assert.False(t, ok)
}

func TestStore_AllSortedByCreation(t *testing.T) {
	s := newTestStore()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	s.Set(Annotation{FileIndex: 2, Content: "late", CreatedAt: base.Add(time.Hour)})
	s.Set(Annotation{FileIndex: 1, Content: "early", CreatedAt: base})

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, "early", all[0].Content)
	assert.Equal(t, "late", all[1].Content)
}

func TestStore_Remap(t *testing.T) {
	s := newTestStore()
	s.Set(Annotation{FileIndex: 0, HunkIndex: 0, Filename: "kept.go", Content: "a"})
	s.Set(Annotation{FileIndex: 1, HunkIndex: 3, Filename: "shrunk.go", Content: "b"})
	s.Set(Annotation{FileIndex: 2, HunkIndex: 0, Filename: "gone.go", Content: "c"})

	dropped := s.Remap(map[string]FileInfo{
		"kept.go":   {Index: 4, HunkCount: 1},
		"shrunk.go": {Index: 0, HunkCount: 3},
	})

	assert.Equal(t, 2, dropped)
	require.Equal(t, 1, s.Len())

	got, ok := s.Get(4, 0)
	require.True(t, ok)
	assert.Equal(t, "kept.go", got.Filename)
}

func TestAnnotation_Preview(t *testing.T) {
	a := Annotation{
		Filename:  "internal/core/review/state.go",
		LineRange: diff.LineRange{Start: 12, End: 18},
		Content:   "this loop never terminates when the list is empty and nobody noticed\nsecond line",
		CreatedAt: time.Date(2024, 5, 6, 14, 3, 0, 0, time.Local),
	}

	assert.Equal(t,
		"internal/core/review/state.go:12-18 | this loop never terminates when the list... | 14:03",
		a.Preview(),
	)
}

type hunks map[[2]int]diff.HunkContent

func (h hunks) HunkContent(file, hunk int) (diff.HunkContent, bool) {
	c, ok := h[[2]int{file, hunk}]
	return c, ok
}

func TestFormat(t *testing.T) {
	src := hunks{
		{0, 0}: {
			Old:   &diff.LineRange{Start: 3, End: 3},
			New:   &diff.LineRange{Start: 3, End: 4},
			Lines: []string{"- a := 1", "+ a := 2", "+ b := 3"},
		},
		{1, 0}: {
			Old:   &diff.LineRange{Start: 10, End: 12},
			Lines: []string{"- x", "- y", "- z"},
		},
		{2, 1}: {
			New:   &diff.LineRange{Start: 7, End: 7},
			Lines: []string{"+ one", "+ two", "+ three", "+ four", "+ five", "+ six"},
		},
	}

	anns := []Annotation{
		{FileIndex: 0, HunkIndex: 0, Filename: "a.go", Content: "why 2?"},
		{FileIndex: 1, HunkIndex: 0, Filename: "b.go", Content: "removed on purpose?"},
		{FileIndex: 2, HunkIndex: 1, Filename: "c.go", Content: "big hunk"},
		{FileIndex: 9, HunkIndex: 9, Filename: "d.go", Content: "stale", LineRange: diff.LineRange{Start: 5, End: 8}},
	}

	want := "Annotations for diff: main...feature\n\n" +
		"- a.go:L3-4\n" +
		"```diff\n- a := 1\n+ a := 2\n+ b := 3\n```\n" +
		"comment: why 2?\n" +
		"\n" +
		"- b.go (deleted from main:L10-12)\n" +
		"```diff\n- x\n- y\n- z\n```\n" +
		"comment: removed on purpose?\n" +
		"\n" +
		"- c.go:L7\n" +
		"comment: big hunk\n" +
		"\n" +
		"- d.go:L5-8\n" +
		"comment: stale\n"

	assert.Equal(t, want, Format("main...feature", anns, src))
}

func TestFormat_NoReference(t *testing.T) {
	src := hunks{{0, 0}: {Old: &diff.LineRange{Start: 2, End: 2}, Lines: []string{"- gone"}}}
	anns := []Annotation{{Filename: "a.go", Content: "ok"}}

	got := Format("", anns, src)
	assert.Equal(t, "- a.go (deleted from base:L2)\n```diff\n- gone\n```\ncomment: ok\n", got)
}

func TestBaseRef(t *testing.T) {
	assert.Equal(t, "main", baseRef("main...topic"))
	assert.Equal(t, "v1", baseRef("v1..v2"))
	assert.Equal(t, "abc123", baseRef("abc123"))
	assert.Equal(t, "base", baseRef(""))
}

func TestValidateExportPath(t *testing.T) {
	_, err := ValidateExportPath("   ")
	require.ErrorIs(t, err, ErrEmptyPath)

	_, err = ValidateExportPath("../notes.md")
	require.ErrorIs(t, err, ErrPathTraversal)

	got, err := ValidateExportPath("  notes.md ")
	require.NoError(t, err)
	assert.Equal(t, "notes.md", got)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")

	written, err := WriteFile(path, "hello\n")
	require.NoError(t, err)
	assert.Equal(t, path, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))

	_, err = WriteFile("", "x")
	assert.ErrorIs(t, err, ErrEmptyPath)
}
