package diff

import (
	"strings"
	"time"
	"unicode"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultMinUnchangedRatio is the share of meaningful unchanged text a paired
// row needs before word emphasis is shown.
const DefaultMinUnchangedRatio = 0.20

// Options tunes ComputeSideBySide.
type Options struct {
	// TabWidth is the tab stop used when expanding display text. Zero strips tabs.
	TabWidth int
	// MinUnchangedRatio suppresses word emphasis below this ratio.
	MinUnchangedRatio float64
	// Timeout bounds the line diff. Zero computes an exact diff.
	Timeout time.Duration
}

// DefaultOptions returns the settings used when none are configured.
func DefaultOptions() Options {
	return Options{
		TabWidth:          4,
		MinUnchangedRatio: DefaultMinUnchangedRatio,
	}
}

// ComputeSideBySide diffs old against new line by line and pairs each run of
// deletions with the run of insertions that immediately follows it, so a block
// replaced by a block of a different size lines up row by row.
func ComputeSideBySide(oldText, newText string, opts Options) []DiffLine {
	ops := diffTokens(splitLines(oldText), splitLines(newText), opts.Timeout)

	var (
		rows   []DiffLine
		oldNum = 1
		newNum = 1
	)

	display := func(line string) string {
		return ExpandTabs(strings.TrimRightFunc(line, unicode.IsSpace), opts.TabWidth)
	}

	for i := 0; i < len(ops); i++ {
		o := ops[i]
		switch o.kind {
		case diffmatchpatch.DiffEqual:
			for _, line := range o.tokens {
				text := display(line)
				rows = append(rows, DiffLine{
					Old:  &Side{Number: oldNum, Text: text},
					New:  &Side{Number: newNum, Text: text},
					Kind: Equal,
				})
				oldNum++
				newNum++
			}

		case diffmatchpatch.DiffDelete:
			deletions := make([]Side, 0, len(o.tokens))
			for _, line := range o.tokens {
				deletions = append(deletions, Side{Number: oldNum, Text: display(line)})
				oldNum++
			}

			var insertions []Side
			if i+1 < len(ops) && ops[i+1].kind == diffmatchpatch.DiffInsert {
				i++
				for _, line := range ops[i].tokens {
					insertions = append(insertions, Side{Number: newNum, Text: display(line)})
					newNum++
				}
			}

			rows = append(rows, pairRows(deletions, insertions, opts.MinUnchangedRatio)...)

		case diffmatchpatch.DiffInsert:
			for _, line := range o.tokens {
				rows = append(rows, DiffLine{
					New:  &Side{Number: newNum, Text: display(line)},
					Kind: Insert,
				})
				newNum++
			}
		}
	}

	return rows
}

// pairRows zips a deletion run with the insertion run that follows it.
func pairRows(deletions, insertions []Side, minRatio float64) []DiffLine {
	n := max(len(deletions), len(insertions))
	rows := make([]DiffLine, 0, n)

	for j := 0; j < n; j++ {
		var row DiffLine
		if j < len(deletions) {
			row.Old = &deletions[j]
		}
		if j < len(insertions) {
			row.New = &insertions[j]
		}

		switch {
		case row.Old != nil && row.New != nil:
			row.Kind = Modified
			if oldSegs, newSegs, ok := WordDiff(row.Old.Text, row.New.Text, minRatio); ok {
				row.OldSegments = oldSegs
				row.NewSegments = newSegs
			}
		case row.Old != nil:
			row.Kind = Delete
		default:
			row.Kind = Insert
		}

		rows = append(rows, row)
	}

	return rows
}

// WordDiff splits a paired row into emphasized and plain segments for each
// side. It reports ok=false when too little meaningful text is shared for
// emphasis to help: the unchanged non-whitespace length divided by the longer
// trimmed line must reach minRatio.
func WordDiff(oldText, newText string, minRatio float64) (oldSegs, newSegs []InlineSegment, ok bool) {
	ops := diffTokens(splitWords(oldText), splitWords(newText), 0)

	unchanged := 0
	for _, o := range ops {
		switch o.kind {
		case diffmatchpatch.DiffEqual:
			for _, tok := range o.tokens {
				if trimmed := strings.TrimSpace(tok); trimmed != "" {
					unchanged += len(trimmed)
				}
			}
			text := strings.Join(o.tokens, "")
			oldSegs = appendSegment(oldSegs, text, false)
			newSegs = appendSegment(newSegs, text, false)
		case diffmatchpatch.DiffDelete:
			oldSegs = appendSegment(oldSegs, strings.Join(o.tokens, ""), true)
		case diffmatchpatch.DiffInsert:
			newSegs = appendSegment(newSegs, strings.Join(o.tokens, ""), true)
		}
	}

	total := max(len(strings.TrimSpace(oldText)), len(strings.TrimSpace(newText)))
	if total == 0 || float64(unchanged)/float64(total) < minRatio {
		return nil, nil, false
	}

	return oldSegs, newSegs, true
}

func appendSegment(segs []InlineSegment, text string, emphasized bool) []InlineSegment {
	if text == "" {
		return segs
	}
	if n := len(segs); n > 0 && segs[n-1].Emphasized == emphasized {
		segs[n-1].Text += text
		return segs
	}
	return append(segs, InlineSegment{Text: text, Emphasized: emphasized})
}

// HunkStarts returns the index of the first row of every maximal run of
// non-equal rows.
func HunkStarts(rows []DiffLine) []int {
	var (
		starts []int
		inHunk bool
	)
	for i, row := range rows {
		change := row.IsChange()
		if change && !inHunk {
			starts = append(starts, i)
		}
		inHunk = change
	}
	return starts
}

// LineStats counts added and removed lines. A modified row counts once in each.
type LineStats struct {
	Added   int
	Removed int
}

// Stats summarizes rows for the footer.
func Stats(rows []DiffLine) LineStats {
	var s LineStats
	for _, row := range rows {
		switch row.Kind {
		case Insert:
			s.Added++
		case Delete:
			s.Removed++
		case Modified:
			s.Added++
			s.Removed++
		}
	}
	return s
}

// IsBinary reports whether content looks binary: a NUL byte within the first 8 KiB.
func IsBinary(content string) bool {
	n := min(len(content), 8192)
	return strings.IndexByte(content[:n], 0) >= 0
}
