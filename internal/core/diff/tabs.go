package diff

import "strings"

// ExpandTabs replaces tabs with spaces up to the next multiple of width.
// A width of zero strips tabs entirely.
func ExpandTabs(s string, width int) string {
	out, _ := ExpandTabsFrom(s, width, 0)
	return out
}

// ExpandTabsFrom expands tabs starting at column col and returns the column
// after the last character. Callers rendering a line as several spans thread
// the column through each call so tab stops line up across span boundaries.
func ExpandTabsFrom(s string, width, col int) (string, int) {
	if !strings.ContainsRune(s, '\t') {
		return s, col + runeCount(s)
	}

	var b strings.Builder
	b.Grow(len(s) + 8)

	for _, r := range s {
		if r != '\t' {
			b.WriteRune(r)
			col++
			continue
		}
		if width <= 0 {
			continue
		}
		spaces := width - col%width
		b.WriteString(strings.Repeat(" ", spaces))
		col += spaces
	}

	return b.String(), col
}

func runeCount(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
