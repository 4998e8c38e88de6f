package diff

import (
	"strings"
	"time"

	"github.com/rivo/uniseg"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// op is a token-level edit produced by diffTokens.
type op struct {
	kind   diffmatchpatch.Operation
	tokens []string
}

// tokenTable interns tokens into runes so diffmatchpatch can run its
// character-level algorithm over whole lines or words.
type tokenTable struct {
	index map[string]rune
	text  []string
}

func newTokenTable() *tokenTable {
	return &tokenTable{index: make(map[string]rune)}
}

// surrogateStart and surrogateEnd bound the UTF-16 surrogate block, which
// cannot round-trip through a Go string.
const (
	surrogateStart = 0xD800
	surrogateEnd   = 0xDFFF
)

func (t *tokenTable) encode(tokens []string) []rune {
	out := make([]rune, len(tokens))
	for i, tok := range tokens {
		r, ok := t.index[tok]
		if !ok {
			r = rune(len(t.text) + 1)
			if r >= surrogateStart {
				r += surrogateEnd - surrogateStart + 1
			}
			t.index[tok] = r
			t.text = append(t.text, tok)
		}
		out[i] = r
	}
	return out
}

func (t *tokenTable) decode(s string) []string {
	var out []string
	for _, r := range s {
		i := int(r)
		if r > surrogateEnd {
			i -= surrogateEnd - surrogateStart + 1
		}
		out = append(out, t.text[i-1])
	}
	return out
}

// diffTokens runs a lexical diff over two token sequences. Deletions always
// precede insertions within a change run.
func diffTokens(a, b []string, timeout time.Duration) []op {
	table := newTokenTable()
	ra := table.encode(a)
	rb := table.encode(b)

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = timeout

	diffs := dmp.DiffMainRunes(ra, rb, false)

	ops := make([]op, 0, len(diffs))
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		ops = append(ops, op{kind: d.Type, tokens: table.decode(d.Text)})
	}
	return ops
}

// splitLines splits s into lines that keep their terminator. A trailing
// fragment without a newline is its own token, so "a" and "a\n" differ.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// splitWords segments s on Unicode word boundaries. Runs of whitespace and
// punctuation become their own tokens.
func splitWords(s string) []string {
	var (
		tokens []string
		word   string
		state  = -1
	)
	for len(s) > 0 {
		word, s, state = uniseg.FirstWordInString(s, state)
		tokens = append(tokens, word)
	}
	return tokens
}
