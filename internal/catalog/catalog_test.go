package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/facet/internal/pagination"
	"github.com/stolasapp/facet/internal/slugconv"
)

var produce = []Entry{
	{Label: "Grape", Group: "Fruits", Value: "grape"},
	{Label: "Apple", Group: "Fruits", Value: "apple"},
	{Label: "Banana", Group: "Fruits", Value: "banana"},
	{Label: "Apricot", Group: "Fruits", Value: "apricot"},
	{Label: "Asparagus", Group: "Vegetables", Value: "asparagus"},
	{Label: "Carrot", Group: "Vegetables", Value: "carrot"},
}

func labels(hits []Hit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Label
	}
	return out
}

func newProduce(t *testing.T) *Catalog {
	t.Helper()
	c, err := FromEntries(produce)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	t.Parallel()
	a, err := New(42, 50)
	require.NoError(t, err)
	b, err := New(42, 50)
	require.NoError(t, err)
	assert.Equal(t, a.Entries(), b.Entries(), "the same seed yields the same corpus")
	assert.LessOrEqual(t, a.Len(), 50)
	assert.NotZero(t, a.Len())

	values := make(map[string]bool)
	for _, e := range a.Entries() {
		assert.NotEmpty(t, e.Label)
		assert.NotEmpty(t, e.Group)
		require.NoError(t, slugconv.Validate(e.Value), e.Value)
		assert.False(t, values[e.Value], "duplicate value %s", e.Value)
		values[e.Value] = true
	}
}

func TestCatalog_Groups(t *testing.T) {
	t.Parallel()
	c := newProduce(t)
	assert.Equal(t, []string{"Fruits", "Vegetables"}, c.Groups())
	assert.Equal(t, "Apple", c.Entries()[0].Label, "entries sort by group then label")
}

func TestCatalog_Search(t *testing.T) {
	t.Parallel()
	c := newProduce(t)

	page, err := c.Search(t.Context(), Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "Apricot", "Banana", "Grape", "Asparagus", "Carrot"}, labels(page.Hits))
	assert.Empty(t, page.NextPageToken)
	assert.Nil(t, page.Hits[0].Positions)

	page, err = c.Search(t.Context(), Query{Text: "ap"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Apple", "Apricot", "Grape", "Asparagus"}, labels(page.Hits))
	assert.Equal(t, "Apple", page.Hits[0].Label)
	assert.Equal(t, []int{0, 1}, page.Hits[0].Positions)
	assert.NotContains(t, labels(page.Hits), "Banana")
}

func TestCatalog_SearchFilter(t *testing.T) {
	t.Parallel()
	c := newProduce(t)

	tests := []struct {
		name    string
		filter  string
		want    []string
		wantErr bool
	}{
		{name: "group", filter: `this.group == "Vegetables"`, want: []string{"Asparagus"}},
		{name: "string extension", filter: `this.label.lowerAscii().endsWith("ot")`, want: []string{"Apricot"}},
		{name: "non boolean", filter: `this.label`, wantErr: true},
		{name: "syntax", filter: `this.label ==`, wantErr: true},
		{name: "missing key", filter: `this.color == "red"`, wantErr: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			page, err := c.Search(t.Context(), Query{Text: "ap", Filter: test.filter})
			if test.wantErr {
				require.ErrorIs(t, err, ErrInvalidFilter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, labels(page.Hits))
		})
	}
}

func TestCatalog_SearchPages(t *testing.T) {
	t.Parallel()
	c := newProduce(t)

	var all []string
	q := Query{Limit: 4}
	for range 3 {
		page, err := c.Search(t.Context(), q)
		require.NoError(t, err)
		all = append(all, labels(page.Hits)...)
		if page.NextPageToken == "" {
			break
		}
		q.PageToken = page.NextPageToken
	}
	assert.Equal(t, []string{"Apple", "Apricot", "Banana", "Grape", "Asparagus", "Carrot"}, all)

	first, err := c.Search(t.Context(), Query{Limit: 2})
	require.NoError(t, err)
	_, err = c.Search(t.Context(), Query{Text: "ap", Limit: 2, PageToken: first.NextPageToken})
	var tokenErr pagination.TokenError
	require.ErrorAs(t, err, &tokenErr, "tokens are bound to their query")

	_, err = c.Search(t.Context(), Query{PageToken: "garbage"})
	require.ErrorAs(t, err, &tokenErr)
}
