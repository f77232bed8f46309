// Package search narrows list items with fuzzy matching and extends them
// with results from a remote search endpoint.
package search

import (
	"html"
	"slices"
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

var initAlgo = sync.OnceFunc(func() { algo.Init("default") })

// Candidate is a searchable entry.
type Candidate struct {
	Text     string
	Disabled bool
}

// Match is a candidate that matched a query.
type Match struct {
	Index int
	Score int
}

// Matcher ranks candidates against a query. A Matcher reuses its scratch
// memory between calls and must not be shared between goroutines.
type Matcher struct {
	slab *util.Slab
}

// NewMatcher creates a Matcher.
func NewMatcher() *Matcher {
	initAlgo()
	return &Matcher{slab: util.MakeSlab(slab16Size, slab32Size)}
}

const (
	slab16Size = 100 * 1024
	slab32Size = 2048
)

// Filter returns the indexes of the candidates matching query. An empty
// query returns every index in order. Otherwise candidates are fuzzy
// matched case-insensitively, disabled candidates are excluded and the
// result is ordered by descending score with ties kept in original order.
func (m *Matcher) Filter(query string, candidates []Candidate) []int {
	matches := m.Rank(query, candidates)
	out := make([]int, len(matches))
	for i, match := range matches {
		out[i] = match.Index
	}
	return out
}

// Rank is Filter with scores.
func (m *Matcher) Rank(query string, candidates []Candidate) []Match {
	pattern := compile(query)
	if len(pattern) == 0 {
		out := make([]Match, len(candidates))
		for i := range candidates {
			out[i] = Match{Index: i}
		}
		return out
	}

	var out []Match
	for i, c := range candidates {
		if c.Disabled {
			continue
		}
		if score, ok := m.score(c.Text, pattern); ok {
			out = append(out, Match{Index: i, Score: score})
		}
	}
	slices.SortStableFunc(out, func(a, b Match) int {
		return b.Score - a.Score
	})
	return out
}

// Positions returns the sorted rune offsets of text matched by query, for
// highlighting. It returns nil when query is empty or does not match.
func (m *Matcher) Positions(text, query string) []int {
	pattern := compile(query)
	if len(pattern) == 0 {
		return nil
	}
	chars := util.ToChars([]byte(text))
	res, pos := algo.FuzzyMatchV2(false, true, true, &chars, pattern, true, m.slab)
	if res.Start < 0 || pos == nil {
		return nil
	}
	out := slices.Clone(*pos)
	slices.Sort(out)
	return out
}

func (m *Matcher) score(text string, pattern []rune) (int, bool) {
	chars := util.ToChars([]byte(text))
	res, _ := algo.FuzzyMatchV2(false, true, true, &chars, pattern, false, m.slab)
	return res.Score, res.Start >= 0
}

func compile(query string) []rune {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	return algo.NormalizeRunes([]rune(strings.ToLower(query)))
}

// Filter is [Matcher.Filter] with a throwaway Matcher.
func Filter(query string, candidates []Candidate) []int {
	return NewMatcher().Filter(query, candidates)
}

// Highlight wraps the runes of text at positions with openTag and closeTag,
// merging adjacent positions into one span.
func Highlight(text string, positions []int, openTag, closeTag string) string {
	if len(positions) == 0 {
		return text
	}
	return highlight(text, positions, openTag, closeTag, func(r rune) string { return string(r) })
}

// HighlightHTML is Highlight for markup: text is HTML-escaped rune by rune
// while the tags are written verbatim.
func HighlightHTML(text string, positions []int, openTag, closeTag string) string {
	return highlight(text, positions, openTag, closeTag, func(r rune) string {
		return html.EscapeString(string(r))
	})
}

func highlight(text string, positions []int, openTag, closeTag string, escape func(rune) string) string {
	var b strings.Builder
	in := false
	for i, r := range []rune(text) {
		hit := slices.Contains(positions, i)
		if hit && !in {
			b.WriteString(openTag)
		} else if !hit && in {
			b.WriteString(closeTag)
		}
		in = hit
		b.WriteString(escape(r))
	}
	if in {
		b.WriteString(closeTag)
	}
	return b.String()
}

// Groups reports, for each group name, whether at least one of the visible
// items belongs to it. groupOf returns the group of the item at an index.
func Groups(visible []int, groupOf func(int) string) map[string]bool {
	out := make(map[string]bool)
	for _, i := range visible {
		if g := groupOf(i); g != "" {
			out[g] = true
		}
	}
	return out
}
