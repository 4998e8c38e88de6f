// Package highlight tokenizes file contents for syntax coloring.
package highlight

import (
	"errors"
	"hash/fnv"
	"image/color"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/wk-j/lumen/internal/core/styles"
	"github.com/wk-j/lumen/pkg/kv"
)

// ErrNoLexer is returned when neither the filename nor the content identify a
// language.
var ErrNoLexer = errors.New("no lexer for file")

// cacheSize covers the old and new side of the file on screen.
const cacheSize = 2

// Token is a run of text with a foreground color. A nil Color means the
// default text color.
type Token struct {
	Text  string
	Color color.Color
}

// Lines holds the tokens of every line of one file.
type Lines struct {
	lines [][]Token
}

// NewLines wraps pre-tokenized lines.
func NewLines(lines [][]Token) Lines {
	return Lines{lines: lines}
}

// Line returns the tokens of 1-based line n, or nil when n is out of range.
func (l Lines) Line(n int) []Token {
	if n < 1 || n > len(l.lines) {
		return nil
	}
	return l.lines[n-1]
}

// Len is the number of lines.
func (l Lines) Len() int { return len(l.lines) }

type cacheKey struct {
	filename string
	sum      uint64
}

type cacheEntry struct {
	key   cacheKey
	lines Lines
}

// Chroma highlights with chroma lexers and colors tokens from a theme. It is
// not safe for concurrent use.
type Chroma struct {
	syntax styles.SyntaxColors
	cache  []cacheEntry // most recently used first
}

// NewChroma returns a highlighter for theme.
func NewChroma(theme *styles.Theme) *Chroma {
	return &Chroma{syntax: theme.Syntax}
}

// Highlight tokenizes content. Results for the most recent files are cached by
// filename and content hash. Tokenizer failures return empty Lines.
func (c *Chroma) Highlight(content, filename string) Lines {
	if content == "" {
		return Lines{}
	}

	key := cacheKey{filename: filename, sum: hash(content)}
	for i, e := range c.cache {
		if e.key == key {
			copy(c.cache[1:i+1], c.cache[:i])
			c.cache[0] = e
			return e.lines
		}
	}

	lines := c.tokenize(content, filename)
	c.cache = append([]cacheEntry{{key: key, lines: lines}}, c.cache...)
	if len(c.cache) > cacheSize {
		c.cache = c.cache[:cacheSize]
	}
	return lines
}

func (c *Chroma) tokenize(content, filename string) Lines {
	lexer, err := Lexer(filename, content)
	if err != nil {
		lexer = lexers.Fallback
	}

	it, err := chroma.Coalesce(lexer).Tokenise(nil, content)
	if err != nil {
		return Lines{}
	}

	split := chroma.SplitTokensIntoLines(it.Tokens())
	out := make([][]Token, 0, len(split))
	for _, line := range split {
		tokens := make([]Token, 0, len(line))
		for _, tok := range line {
			text := strings.TrimRight(tok.Value, "\r\n")
			if text == "" {
				continue
			}
			tokens = append(tokens, Token{Text: text, Color: colorFor(tok.Type, c.syntax)})
		}
		out = append(out, tokens)
	}
	return Lines{lines: out}
}

// matched caches filename lookups across highlighters. A nil entry records a
// name no lexer claims.
var matched = kv.New[string, chroma.Lexer]()

// Lexer picks a lexer by filename, then by content analysis.
func Lexer(filename, content string) (chroma.Lexer, error) {
	if l := matched.GetOrCompute(filename, func() chroma.Lexer { return lexers.Match(filename) }); l != nil {
		return l, nil
	}
	if l := lexers.Analyse(content); l != nil {
		return l, nil
	}
	return nil, ErrNoLexer
}

func colorFor(t chroma.TokenType, s styles.SyntaxColors) color.Color {
	switch {
	case t.InCategory(chroma.Comment):
		return s.Comment
	case t == chroma.KeywordType:
		return s.Type
	case t == chroma.KeywordNamespace:
		return s.Module
	case t.InCategory(chroma.Keyword):
		return s.Keyword
	case t.InSubCategory(chroma.LiteralString):
		return s.String
	case t.InSubCategory(chroma.LiteralNumber):
		return s.Number
	case t == chroma.NameFunction, t == chroma.NameFunctionMagic:
		return s.Function
	case t == chroma.NameDecorator:
		return s.FunctionMacro
	case t == chroma.NameClass, t == chroma.NameException:
		return s.Type
	case t == chroma.NameBuiltin, t == chroma.NameBuiltinPseudo:
		return s.VariableBuiltin
	case t == chroma.NameNamespace:
		return s.Module
	case t == chroma.NameTag:
		return s.Tag
	case t == chroma.NameAttribute:
		return s.Attribute
	case t == chroma.NameProperty, t == chroma.NameVariableInstance:
		return s.VariableMember
	case t == chroma.NameLabel:
		return s.Label
	case t == chroma.NameConstant:
		return s.Number
	case t.InCategory(chroma.Operator):
		return s.Operator
	case t.InCategory(chroma.Punctuation):
		return s.Punctuation
	}
	return nil
}

func hash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
