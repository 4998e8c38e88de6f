package review

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wk-j/lumen/internal/core/diff"
	"github.com/wk-j/lumen/internal/core/layout"
	"github.com/wk-j/lumen/internal/core/selection"
)

func file(name, oldContent, newContent string) diff.FileDiff {
	return diff.FileDiff{
		Filename:   name,
		OldContent: oldContent,
		NewContent: newContent,
		Status:     diff.StatusFor(oldContent, newContent),
	}
}

func added(name string) diff.FileDiff {
	return file(name, "", "content\n")
}

// numbered returns "l1\n".."ln\n" with the given lines replaced by "Xn".
func numbered(n int, replaced ...int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		changed := false
		for _, r := range replaced {
			changed = changed || r == i
		}
		if changed {
			fmt.Fprintf(&b, "X%d\n", i)
		} else {
			fmt.Fprintf(&b, "l%d\n", i)
		}
	}
	return b.String()
}

func TestNew_FocusFile(t *testing.T) {
	files := []diff.FileDiff{added("src/main.go"), added("src/lib.go"), added("README.md")}

	s := New(files, Options{FocusFile: "src/lib.go"})

	f, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "src/lib.go", f.Filename)

	item, ok := s.SidebarItemAt(s.SidebarSelected())
	require.True(t, ok)
	assert.Equal(t, ItemFile, item.Kind)
	assert.Equal(t, s.CurrentIndex(), item.FileIndex)
}

func TestNew_DefaultsToFirstFileInSidebarOrder(t *testing.T) {
	files := []diff.FileDiff{added("bbb.go"), added("aaa.go")}

	for _, focus := range []string{"", "missing.go"} {
		s := New(files, Options{FocusFile: focus})
		f, _ := s.Current()
		assert.Equal(t, "aaa.go", f.Filename, "focus=%q", focus)
	}
}

func TestNew_Empty(t *testing.T) {
	s := New(nil, Options{FocusFile: "any.go"})

	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.CurrentIndex())
	assert.Empty(t, s.SideBySide())
	assert.Equal(t, 0, s.MaxScroll())

	_, ok := s.FocusedHunk()
	assert.False(t, ok)
}

func TestNew_ExcludesPatterns(t *testing.T) {
	files := []diff.FileDiff{added("go.sum"), added("vendor/x/y.go"), added("main.go")}

	s := New(files, Options{Exclude: []string{"go.sum", "vendor/**"}})

	require.Len(t, s.Files(), 1)
	assert.Equal(t, "main.go", s.Files()[0].Filename)
}

func TestNew_ZeroOptionsUseDefaults(t *testing.T) {
	f := file("a.txt", numbered(30), numbered(30, 20))

	s := New([]diff.FileDiff{f}, Options{ViewHeight: 10})
	assert.Equal(t, diff.DefaultOptions(), s.DiffOptions())
	assert.Equal(t, 4, s.TabWidth())
	assert.Equal(t, 19-DefaultScrollOptions().TopMargin, s.Scroll())

	// Any field set keeps the rest of the struct as given.
	s = New([]diff.FileDiff{f}, Options{
		ViewHeight: 10,
		Diff:       diff.Options{MinUnchangedRatio: 0.5},
		Scroll:     ScrollOptions{BottomMargin: 3},
	})
	assert.Equal(t, 0, s.TabWidth())
	assert.Equal(t, 19, s.Scroll())
}

func TestNew_ScrollsToFirstHunk(t *testing.T) {
	f := file("a.txt", numbered(30), numbered(30, 20, 28))

	s := New([]diff.FileDiff{f}, Options{ViewHeight: 10})

	assert.Equal(t, []int{19, 27}, s.Hunks())
	assert.Equal(t, 14, s.Scroll())
	hunk, ok := s.FocusedHunk()
	require.True(t, ok)
	assert.Equal(t, 0, hunk)
}

func TestState_CacheComputesOncePerFile(t *testing.T) {
	files := []diff.FileDiff{file("a.go", "x\n", "y\n"), file("b.go", "p\n", "q\n")}
	s := New(files, Options{})
	base := s.ComputeCount()

	s.SideBySide()
	s.Hunks()
	s.SideBySide()
	assert.Equal(t, base, s.ComputeCount())

	s.SetTabWidth(8)
	s.SideBySide()
	assert.Equal(t, base+1, s.ComputeCount())

	s.SetTabWidth(8)
	s.SideBySide()
	assert.Equal(t, base+1, s.ComputeCount(), "unchanged tab width keeps the cache")

	s.SelectFile(1)
	s.SideBySide()
	assert.Equal(t, base+2, s.ComputeCount())
}

func TestState_SelectFileResetsView(t *testing.T) {
	files := []diff.FileDiff{
		file("a.txt", numbered(30), numbered(30, 20)),
		file("b.txt", numbered(30), numbered(30, 3)),
	}
	s := New(files, Options{ViewHeight: 10})
	s.ToggleFullscreen(layout.FullscreenNew)
	s.HScrollBy(12)
	s.StartSelection(selection.PanelNew, selection.Position{Line: 1}, selection.ModeLine)

	s.SelectFile(1)

	assert.Equal(t, 1, s.CurrentIndex())
	assert.Equal(t, layout.FullscreenNone, s.Fullscreen())
	assert.Equal(t, 0, s.HScroll())
	assert.Equal(t, 0, s.Scroll(), "first hunk at row 2 clamps to 0")
	assert.False(t, s.Selection().IsActive())
}

func TestState_ScrollBy(t *testing.T) {
	s := New([]diff.FileDiff{file("a.txt", numbered(30), numbered(30, 1))}, Options{ViewHeight: 10})

	// 30 rows, 10 visible with 5 rows of padding
	assert.Equal(t, 25, s.MaxScroll())

	s.ScrollBy(100)
	assert.Equal(t, 25, s.Scroll())
	s.ScrollBy(-3)
	assert.Equal(t, 22, s.Scroll())
	s.ScrollBy(-100)
	assert.Equal(t, 0, s.Scroll())

	s.ScrollBottom()
	assert.Equal(t, 25, s.Scroll())
	s.ScrollTop()
	assert.Equal(t, 0, s.Scroll())

	s.HScrollBy(-4)
	assert.Equal(t, 0, s.HScroll())
	s.HScrollBy(8)
	assert.Equal(t, 8, s.HScroll())
}

func TestState_HunkNavigation(t *testing.T) {
	s := New([]diff.FileDiff{file("a.txt", numbered(30), numbered(30, 20, 28))}, Options{ViewHeight: 10})
	require.Equal(t, 14, s.Scroll())

	s.NextHunk()
	hunk, _ := s.FocusedHunk()
	assert.Equal(t, 1, hunk)
	assert.Equal(t, 25, s.Scroll(), "clamped to max scroll")

	s.NextHunk()
	hunk, _ = s.FocusedHunk()
	assert.Equal(t, 1, hunk, "stays on the last hunk")

	s.PrevHunk()
	hunk, _ = s.FocusedHunk()
	assert.Equal(t, 0, hunk)
	assert.Equal(t, 14, s.Scroll())

	s.PrevHunk()
	hunk, _ = s.FocusedHunk()
	assert.Equal(t, 0, hunk, "stays on the first hunk")

	line, ok := s.EditorLine()
	require.True(t, ok)
	assert.Equal(t, 20, line)
}

func TestState_HunkNavigationClearsSelection(t *testing.T) {
	s := New([]diff.FileDiff{file("a.txt", numbered(30), numbered(30, 20, 28))}, Options{})
	s.StartSelection(selection.PanelOld, selection.Position{}, selection.ModeCharacter)

	s.NextHunk()
	assert.False(t, s.Selection().IsActive())
}

func TestState_PressG(t *testing.T) {
	s := New([]diff.FileDiff{file("a.txt", numbered(30), numbered(30, 20))}, Options{ViewHeight: 10})
	scroll := s.Scroll()

	assert.False(t, s.PressG())
	s.ResetPendingKey()
	assert.False(t, s.PressG(), "another key in between restarts the sequence")
	assert.True(t, s.PressG())
	assert.Equal(t, scroll, s.Scroll(), "the caller decides what gg moves")
	assert.False(t, s.PressG(), "sequence resets after firing")
}

func TestState_ToggleFullscreen(t *testing.T) {
	s := New([]diff.FileDiff{added("new.go")}, Options{})

	s.ToggleFullscreen(layout.FullscreenOld)
	assert.Equal(t, layout.FullscreenNone, s.Fullscreen(), "empty old side cannot be shown alone")

	s.ToggleFullscreen(layout.FullscreenNew)
	assert.Equal(t, layout.FullscreenNew, s.Fullscreen())

	s.ToggleFullscreen(layout.FullscreenNew)
	assert.Equal(t, layout.FullscreenNone, s.Fullscreen())
}

func TestState_FocusAndSidebar(t *testing.T) {
	s := New([]diff.FileDiff{added("a.go")}, Options{})
	assert.Equal(t, FocusDiff, s.Focus())

	s.ToggleFocus()
	assert.Equal(t, FocusSidebar, s.Focus())

	s.ToggleSidebar()
	assert.False(t, s.ShowSidebar())
	assert.Equal(t, FocusDiff, s.Focus(), "hiding the sidebar moves focus")

	s.FocusSidebar()
	assert.True(t, s.ShowSidebar())
}

func TestState_SelectionLifecycle(t *testing.T) {
	s := New([]diff.FileDiff{file("a.txt", "", "hello world\nsecond\n")}, Options{})

	s.ExtendSelection(selection.Position{Line: 1})
	assert.False(t, s.Selection().IsActive(), "extend without a drag does nothing")

	s.StartSelection(selection.PanelNew, selection.Position{Line: 0, Column: 6}, selection.ModeCharacter)
	assert.True(t, s.IsDragging())
	s.ExtendSelection(selection.Position{Line: 0, Column: 11})
	s.EndDrag()
	s.ExtendSelection(selection.Position{Line: 1, Column: 3})

	text, ok := s.SelectedText()
	require.True(t, ok)
	assert.Equal(t, "world", text)

	s.ClearSelection()
	_, ok = s.SelectedText()
	assert.False(t, ok)
}

func TestState_StickyContext(t *testing.T) {
	src := "func main() {\n\tif ok {\n\t\tx := 1\n\t\ty := 2\n\t}\n}\n"
	s := New([]diff.FileDiff{file("main.go", src, strings.Replace(src, "y := 2", "y := 3", 1))}, Options{
		Context:    ContextOptions{Enabled: true, MaxLines: 3},
		ViewHeight: 6,
	})
	s.ScrollTop()
	s.ScrollBy(3)
	require.Equal(t, 3, s.Scroll())

	ctx := s.StickyContext()
	require.Len(t, ctx, 2)
	assert.Equal(t, 1, ctx[0].Number)
	assert.Equal(t, 2, ctx[1].Number)
}

func TestState_StickyContextFor(t *testing.T) {
	oldSrc := "func a() {\n\tx := 1\n\ty := 2\n}\n"
	newSrc := "func a() {\n\tx := 1\n\tz := 0\n\tw := 0\n\ty := 2\n}\n"
	s := New([]diff.FileDiff{file("a.go", oldSrc, newSrc)}, Options{
		Context:    ContextOptions{Enabled: true, MaxLines: 3},
		ViewHeight: 6,
	})
	s.ScrollTop()
	s.ScrollBy(3)
	require.Nil(t, s.SideBySide()[3].Old, "row 3 is an insertion")

	oldCtx := s.StickyContextFor(true)
	require.Len(t, oldCtx, 1)
	assert.Equal(t, "func a() {", oldCtx[0].Text)

	newCtx := s.StickyContextFor(false)
	require.Len(t, newCtx, 1)
	assert.Equal(t, 1, newCtx[0].Number)
}
