// Package catalog provides the seeded fake corpus behind the showcase's remote
// search endpoint.
package catalog

import (
	"cmp"
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"

	"github.com/stolasapp/facet/internal/pagination"
	"github.com/stolasapp/facet/internal/search"
	"github.com/stolasapp/facet/internal/slugconv"
)

const (
	// ErrInvalidFilter is returned when a filter expression does not compile
	// to a boolean or fails to evaluate.
	ErrInvalidFilter Error = "invalid filter"

	thisVar = "this"

	generateAttempts = 4
	descriptionWords = 8
)

// Error is an error type returned by this package.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// Entry is a searchable catalog record.
type Entry struct {
	Label       string
	Group       string
	Value       string
	Description string
}

func (e Entry) fields() map[string]string {
	return map[string]string{
		"label":       e.Label,
		"group":       e.Group,
		"value":       e.Value,
		"description": e.Description,
	}
}

// Hit is a matching entry with the rune offsets of its label that matched
// the query.
type Hit struct {
	Entry
	Positions []int
}

// Query is a page request against the catalog.
type Query struct {
	Text string
	// Filter is an optional CEL boolean expression over `this`, a map with
	// the keys label, group, value and description.
	Filter    string
	Limit     int
	PageToken string
}

// Page is one page of search results.
type Page struct {
	Hits          []Hit
	NextPageToken string
}

type cursor struct {
	Text   string `json:"t,omitempty"`
	Filter string `json:"f,omitempty"`
	Offset int    `json:"o"`
}

func (c *cursor) Validate() error {
	if c.Offset <= 0 {
		return fmt.Errorf("offset must be positive, got %d", c.Offset)
	}
	return nil
}

// Catalog is an immutable corpus safe for concurrent searches.
type Catalog struct {
	entries    []Entry
	candidates []search.Candidate
	env        *cel.Env
	matchers   sync.Pool
}

type generator struct {
	group string
	label func(*gofakeit.Faker) string
}

var generators = []generator{
	{"Fruits", (*gofakeit.Faker).Fruit},
	{"Vegetables", (*gofakeit.Faker).Vegetable},
	{"Animals", (*gofakeit.Faker).Animal},
	{"Cities", (*gofakeit.Faker).City},
	{"Colors", (*gofakeit.Faker).Color},
	{"Languages", (*gofakeit.Faker).ProgrammingLanguage},
}

// Seed returns seed, or a random seed when it is zero.
func Seed(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}
	return rand.Uint64() //nolint:gosec // intentionally weak random for demo data
}

// New generates a catalog of at most size entries from seed. Entries are
// unique by value and sorted by group, then label.
func New(seed uint64, size int) (*Catalog, error) {
	faker := gofakeit.New(seed)
	seen := make(map[string]int, size)
	entries := make([]Entry, 0, size)
	for range size * generateAttempts {
		if len(entries) == size {
			break
		}
		gen := generators[faker.IntN(len(generators))]
		label := gen.label(faker)
		value := slugconv.Slugify(label)
		if value == "" {
			continue
		}
		if n := seen[value]; n > 0 {
			// duplicate labels are common in small word lists; keep a few
			// with a numbered value so every value stays unique
			seen[value]++
			if n >= generateAttempts {
				continue
			}
			value += "-" + strconv.Itoa(n+1)
		} else {
			seen[value] = 1
		}
		entries = append(entries, Entry{
			Label:       label,
			Group:       gen.group,
			Value:       value,
			Description: faker.Sentence(descriptionWords),
		})
	}
	return FromEntries(entries)
}

// FromEntries builds a catalog over entries.
func FromEntries(entries []Entry) (*Catalog, error) {
	env, err := cel.NewEnv(
		ext.Strings(),
		cel.Variable(thisVar, cel.MapType(cel.StringType, cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog CEL environment: %w", err)
	}
	entries = slices.Clone(entries)
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Or(cmp.Compare(a.Group, b.Group), cmp.Compare(a.Label, b.Label))
	})
	candidates := make([]search.Candidate, len(entries))
	for i, e := range entries {
		candidates[i] = search.Candidate{Text: e.Label}
	}
	c := &Catalog{
		entries:    entries,
		candidates: candidates,
		env:        env,
	}
	c.matchers.New = func() any { return search.NewMatcher() }
	return c, nil
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Entries returns a copy of every entry in catalog order.
func (c *Catalog) Entries() []Entry { return slices.Clone(c.entries) }

// Groups returns the distinct groups in catalog order.
func (c *Catalog) Groups() []string {
	var out []string
	for _, e := range c.entries {
		if len(out) == 0 || out[len(out)-1] != e.Group {
			out = append(out, e.Group)
		}
	}
	return out
}

// Search ranks the catalog against q.Text, keeps the entries accepted by
// q.Filter and returns the page selected by q.PageToken. An empty query
// keeps catalog order. Errors are [ErrInvalidFilter] or a
// [pagination.TokenError].
func (c *Catalog) Search(ctx context.Context, q Query) (Page, error) {
	offset := 0
	if q.PageToken != "" {
		var cur cursor
		if err := pagination.FromToken(q.PageToken, &cur); err != nil {
			return Page{}, err
		}
		if cur.Text != q.Text || cur.Filter != q.Filter {
			return Page{}, pagination.TokenError{}
		}
		offset = cur.Offset
	}

	prog, err := c.compile(q.Filter)
	if err != nil {
		return Page{}, err
	}

	matcher, _ := c.matchers.Get().(*search.Matcher)
	defer c.matchers.Put(matcher)

	var page Page
	skipped := 0
	for _, match := range matcher.Rank(q.Text, c.candidates) {
		entry := c.entries[match.Index]
		if prog != nil {
			ok, err := evalFilter(ctx, prog, entry)
			if err != nil {
				return Page{}, err
			}
			if !ok {
				continue
			}
		}
		if skipped < offset {
			skipped++
			continue
		}
		if q.Limit > 0 && len(page.Hits) == q.Limit {
			page.NextPageToken, err = pagination.ToToken(&cursor{
				Text:   q.Text,
				Filter: q.Filter,
				Offset: offset + q.Limit,
			})
			return page, err
		}
		page.Hits = append(page.Hits, Hit{
			Entry:     entry,
			Positions: matcher.Positions(entry.Label, q.Text),
		})
	}
	return page, nil
}

func (c *Catalog) compile(filter string) (cel.Program, error) {
	if filter == "" {
		return nil, nil //nolint:nilnil // no filter
	}
	ast, issues := c.env.Compile(filter)
	if err := issues.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: expression must return bool but got %s", ErrInvalidFilter, out.String())
	}
	prog, err := c.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	return prog, nil
}

func evalFilter(ctx context.Context, prog cel.Program, entry Entry) (bool, error) {
	val, _, err := prog.ContextEval(ctx, map[string]any{thisVar: entry.fields()})
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	ok, isBool := val.Value().(bool)
	if !isBool {
		return false, fmt.Errorf("%w: expected bool, got %T", ErrInvalidFilter, val.Value())
	}
	return ok, nil
}
