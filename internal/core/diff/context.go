package diff

import "strings"

// ContextLine is a line of enclosing scope shown above the viewport.
type ContextLine struct {
	Number int
	Text   string
}

// ScopeContext returns the lines that enclose topLine (1-based) by
// indentation: walking upward, each non-blank line indented strictly less
// than the previous scope opens a new one. At most maxLines are returned,
// outermost first; when more scopes exist the outermost are dropped.
func ScopeContext(content string, topLine, maxLines, tabWidth int) []ContextLine {
	if maxLines <= 0 || topLine <= 1 {
		return nil
	}

	lines := splitLines(content)
	if topLine > len(lines) {
		return nil
	}

	width := tabWidth
	if width <= 0 {
		width = 4
	}

	ref := -1
	for i := topLine - 1; i < len(lines); i++ {
		if indent, ok := indentation(lines[i], width); ok {
			ref = indent
			break
		}
	}
	if ref <= 0 {
		return nil
	}

	var found []ContextLine
	for i := topLine - 2; i >= 0 && ref > 0; i-- {
		indent, ok := indentation(lines[i], width)
		if !ok || indent >= ref {
			continue
		}
		text := ExpandTabs(strings.TrimRight(lines[i], " \t\r\n"), tabWidth)
		found = append(found, ContextLine{Number: i + 1, Text: text})
		ref = indent
	}

	for l, r := 0, len(found)-1; l < r; l, r = l+1, r-1 {
		found[l], found[r] = found[r], found[l]
	}
	if len(found) > maxLines {
		found = found[len(found)-maxLines:]
	}
	return found
}

// indentation measures leading whitespace in columns. Blank lines report ok=false.
func indentation(line string, tabWidth int) (int, bool) {
	col := 0
	for _, r := range line {
		switch r {
		case ' ':
			col++
		case '\t':
			col += tabWidth - col%tabWidth
		case '\n', '\r':
			return 0, false
		default:
			return col, true
		}
	}
	return 0, false
}
