package review

import (
	"unicode"
	"unicode/utf8"

	"github.com/wk-j/lumen/internal/core/diff"
	"github.com/wk-j/lumen/internal/core/selection"
)

// Match is one occurrence of the search query: a row, the panel it was found
// in and a byte range into that side's text.
type Match struct {
	Row   int
	Panel selection.Panel
	Start int
	End   int
}

// MatchRange is a match on a single row and panel, flagged when it is the
// current match.
type MatchRange struct {
	Start   int
	End     int
	Current bool
}

// Search finds case-insensitive occurrences of a query in the rows of the
// current file.
type Search struct {
	query   string
	matches []Match
	current int
}

// Query returns the active query.
func (s *Search) Query() string { return s.query }

// HasQuery reports whether a query is set.
func (s *Search) HasQuery() bool { return s.query != "" }

// Matches returns every match in row order, old panel before new.
func (s *Search) Matches() []Match { return s.matches }

// Index returns the position of the current match.
func (s *Search) Index() int { return s.current }

// Current returns the current match.
func (s *Search) Current() (Match, bool) {
	if s.current < 0 || s.current >= len(s.matches) {
		return Match{}, false
	}
	return s.matches[s.current], true
}

// Next advances to the following match, wrapping at the end.
func (s *Search) Next() (Match, bool) {
	if len(s.matches) == 0 {
		return Match{}, false
	}
	s.current = (s.current + 1) % len(s.matches)
	return s.matches[s.current], true
}

// Prev moves to the preceding match, wrapping at the start.
func (s *Search) Prev() (Match, bool) {
	if len(s.matches) == 0 {
		return Match{}, false
	}
	s.current = (s.current - 1 + len(s.matches)) % len(s.matches)
	return s.matches[s.current], true
}

// FirstFrom makes the first match at or after row current.
func (s *Search) FirstFrom(row int) (Match, bool) {
	for i, m := range s.matches {
		if m.Row >= row {
			s.current = i
			return m, true
		}
	}
	return s.Current()
}

// Clear drops the query and all matches.
func (s *Search) Clear() {
	*s = Search{}
}

// MatchesFor returns the matches on one row and panel.
func (s *Search) MatchesFor(row int, panel selection.Panel) []MatchRange {
	var out []MatchRange
	for i, m := range s.matches {
		if m.Row > row {
			break
		}
		if m.Row == row && m.Panel == panel {
			out = append(out, MatchRange{Start: m.Start, End: m.End, Current: i == s.current})
		}
	}
	return out
}

func (s *Search) set(query string, rows []diff.DiffLine) {
	s.query = query
	s.current = 0
	s.run(rows)
}

func (s *Search) run(rows []diff.DiffLine) {
	s.matches = s.matches[:0]
	if s.query == "" {
		return
	}

	for i, row := range rows {
		if row.Old != nil {
			for _, r := range findFold(row.Old.Text, s.query) {
				s.matches = append(s.matches, Match{Row: i, Panel: selection.PanelOld, Start: r[0], End: r[1]})
			}
		}
		if row.New != nil {
			for _, r := range findFold(row.New.Text, s.query) {
				s.matches = append(s.matches, Match{Row: i, Panel: selection.PanelNew, Start: r[0], End: r[1]})
			}
		}
	}
	if s.current >= len(s.matches) {
		s.current = 0
	}
}

// findFold returns the byte ranges of non-overlapping case-insensitive
// occurrences of query in text.
func findFold(text, query string) [][2]int {
	if query == "" {
		return nil
	}

	var out [][2]int
	for i := 0; i < len(text); {
		if end, ok := matchFoldAt(text, i, query); ok {
			out = append(out, [2]int{i, end})
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return out
}

func matchFoldAt(text string, at int, query string) (int, bool) {
	i := at
	for _, q := range query {
		if i >= len(text) {
			return 0, false
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.ToLower(r) != unicode.ToLower(q) {
			return 0, false
		}
		i += size
	}
	return i, true
}

// Search exposes the search of the current file.
func (s *State) Search() *Search { return &s.search }

// SetSearchQuery replaces the query and recomputes matches.
func (s *State) SetSearchQuery(q string) {
	s.search.set(q, s.SideBySide())
}

// ConfirmSearch jumps to the first match at or below the top of the viewport.
func (s *State) ConfirmSearch() bool {
	m, ok := s.search.FirstFrom(s.scroll)
	if !ok {
		return false
	}
	s.scroll = min(max(m.Row-s.opts.Scroll.TopMargin, 0), s.MaxScroll())
	return true
}

// SearchNext moves to the next match and scrolls it into view.
func (s *State) SearchNext() bool {
	m, ok := s.search.Next()
	if ok {
		s.ScrollToLine(m.Row)
	}
	return ok
}

// SearchPrev moves to the previous match and scrolls it into view.
func (s *State) SearchPrev() bool {
	m, ok := s.search.Prev()
	if ok {
		s.ScrollToLine(m.Row)
	}
	return ok
}

// ClearSearch drops the query.
func (s *State) ClearSearch() { s.search.Clear() }
