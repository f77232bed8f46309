package app

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/facet/internal/catalog"
	"github.com/stolasapp/facet/internal/config"
	"github.com/stolasapp/facet/internal/markup"
	"github.com/stolasapp/facet/internal/search"
	"github.com/stolasapp/facet/internal/storage"
	"github.com/stolasapp/facet/internal/theme"
)

var produce = []catalog.Entry{
	{Label: "Apple", Group: "Fruits", Value: "apple", Description: "crisp"},
	{Label: "Apricot", Group: "Fruits", Value: "apricot"},
	{Label: "Banana", Group: "Fruits", Value: "banana"},
	{Label: "Grape", Group: "Fruits", Value: "grape"},
	{Label: "Asparagus", Group: "Vegetables", Value: "asparagus"},
	{Label: "Carrot", Group: "Vegetables", Value: "carrot"},
}

type testServer struct {
	srv   *echo.Echo
	store *storage.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	store, err := storage.NewDB(t.Context(), filepath.Join(t.TempDir(), "db.sqlite"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	cat, err := catalog.FromEntries(produce)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Search = config.Search{DefaultLimit: 10, MaxLimit: 50}
	return &testServer{srv: New(cfg, logger, store, cat), store: store}
}

func (s *testServer) do(t *testing.T, method, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequestWithContext(t.Context(), method, target, nil)
	if method != http.MethodGet {
		// the CSRF middleware compares the cookie against itself
		req.AddCookie(&http.Cookie{Name: middleware.DefaultCSRFConfig.CookieName, Value: "token"})
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.srv.ServeHTTP(rec, req)
	return rec
}

func document(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func cookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestGallery(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML)

	doc := document(t, rec)
	for _, name := range Components() {
		assert.Equal(t, 1, doc.Find("main "+markup.Widget(name)).Length(), name)
		assert.Equal(t, 1, doc.Find(`a[href="/components/`+name+`"]`).Length(), name)
	}
	assert.Equal(t, SearchPath, doc.Find(markup.Widget(markup.WidgetCombobox)).AttrOr(markup.DataAttrSearchURL, ""))
	assert.Equal(t, 1, doc.Find(`link[href="`+stylesheet+`"]`).Length())
	_, dark := doc.Find("html").Attr("class")
	assert.False(t, dark)
}

func TestGallery_ThemeCookie(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/", theme.Cookie(theme.Dark, false))
	doc := document(t, rec)
	assert.Equal(t, "dark", doc.Find("html").AttrOr("class", ""))
	assert.Equal(t, "true", doc.Find("#theme").AttrOr(markup.AriaPressed, ""))
}

func TestComponent(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	tests := []struct {
		target string
		status int
	}{
		{"/components/select", http.StatusOK},
		{"/components/date-picker", http.StatusOK},
		{"/components/carousel", http.StatusNotFound},
		{"/components/Not_A_Slug", http.StatusBadRequest},
	}
	for _, test := range tests {
		rec := s.do(t, http.MethodGet, test.target)
		assert.Equal(t, test.status, rec.Code, test.target)
	}

	doc := document(t, s.do(t, http.MethodGet, "/components/date-picker"))
	assert.Equal(t, "Date picker | facet", doc.Find("title").Text())
	assert.Equal(t, 1, doc.Find(markup.Widget(markup.WidgetDatePicker)).Length())
	assert.Equal(t, 1, doc.Find("article table").Length(), "the docs table is rendered")
	assert.Equal(t, "data-calendar", doc.Find("article code").First().Text())
}

func searchJSON(t *testing.T, s *testServer, query url.Values) ([]search.Result, *httptest.ResponseRecorder) {
	t.Helper()
	rec := s.do(t, http.MethodGet, SearchPath+"?"+query.Encode())
	var results []search.Result
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	}
	return results, rec
}

func TestSearch(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	results, rec := searchJSON(t, s, url.Values{"q": {"ap"}})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, results, 4)
	assert.Contains(t, results[0].HTML, `data-value="apple"`)
	assert.Contains(t, results[0].HTML, "<mark>Ap</mark>ple")
	assert.Contains(t, results[0].HTML, "crisp")
	assert.Equal(t, "Fruits", results[0].Group)
	assert.Empty(t, rec.Header().Get(HeaderNextPageToken))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(results[0].HTML))
	require.NoError(t, err)
	item := doc.Find(markup.Part(markup.PartItem))
	assert.Equal(t, "Apple", item.AttrOr(markup.DataAttrLabel, ""))
	assert.Equal(t, "option", item.AttrOr("role", ""))
}

func TestSearch_Pages(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	first, rec := searchJSON(t, s, url.Values{"limit": {"4"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, first, 4)
	token := rec.Header().Get(HeaderNextPageToken)
	require.NotEmpty(t, token)
	assert.Contains(t, rec.Header().Get("Link"), `rel="next"`)
	assert.Contains(t, rec.Header().Get("Link"), "page_token="+url.QueryEscape(token))

	second, rec := searchJSON(t, s, url.Values{"limit": {"4"}, "page_token": {token}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, second, 2)
	assert.Empty(t, rec.Header().Get(HeaderNextPageToken))

	_, rec = searchJSON(t, s, url.Values{"q": {"ap"}, "page_token": {token}})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "a token is bound to its query")
}

func TestSearch_Filter(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	results, rec := searchJSON(t, s, url.Values{"q": {"a"}, "filter": {`this.group == "Vegetables"`}})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, "Vegetables", r.Group)
	}

	for _, filter := range []string{`this.label +`, `this.label`, `size(this)`} {
		_, rec := searchJSON(t, s, url.Values{"filter": {filter}})
		assert.Equal(t, http.StatusBadRequest, rec.Code, filter)
	}
}

func TestSearch_BadParams(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	for _, query := range []url.Values{
		{"limit": {"abc"}},
		{"limit": {"0"}},
		{"page_token": {"not-a-token"}},
	} {
		_, rec := searchJSON(t, s, query)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query.Encode())
	}

	results, rec := searchJSON(t, s, url.Values{"limit": {"1000"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, results, len(produce), "the limit is clamped, not rejected")
}

func TestTheme(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/theme/dark")
	require.Equal(t, http.StatusNoContent, rec.Code)
	visitor := cookie(rec, VisitorCookie)
	require.NotNil(t, visitor)
	assert.True(t, visitor.HttpOnly)
	require.NotNil(t, cookie(rec, theme.CookieName))
	assert.Equal(t, "dark", cookie(rec, theme.CookieName).Value)

	doc := document(t, s.do(t, http.MethodGet, "/", visitor))
	assert.Equal(t, "dark", doc.Find("html").AttrOr("class", ""), "the stored preference wins without the theme cookie")

	rec = s.do(t, http.MethodPut, "/theme/LIGHT", visitor)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, cookie(rec, VisitorCookie), "a known visitor keeps its id")
	doc = document(t, s.do(t, http.MethodGet, "/", visitor, theme.Cookie(theme.Dark, false)))
	assert.Equal(t, "light", doc.Find("html").AttrOr(markup.DataAttrTheme, ""))

	rec = s.do(t, http.MethodDelete, "/theme", visitor)
	require.Equal(t, http.StatusNoContent, rec.Code)
	doc = document(t, s.do(t, http.MethodGet, "/", visitor))
	assert.Equal(t, "system", doc.Find("html").AttrOr(markup.DataAttrTheme, ""))
}

func TestTheme_Invalid(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	rec := s.do(t, http.MethodPut, "/theme/sepia")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, cookie(rec, VisitorCookie), "nothing is allocated for a rejected value")
}

func TestStatic(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/robots.txt").Code)
	rec := s.do(t, http.MethodGet, stylesheet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ":root.dark")
}

func TestFragment(t *testing.T) {
	t.Parallel()
	cat, err := catalog.FromEntries(produce)
	require.NoError(t, err)
	for _, name := range Components() {
		c, err := Fragment(name, cat, SearchPath)
		require.NoError(t, err, name)
		var b strings.Builder
		require.NoError(t, c.Render(t.Context(), &b))
		assert.Contains(t, b.String(), `data-facet="`+name+`"`)
	}
	_, err = Fragment("carousel", cat, SearchPath)
	assert.ErrorIs(t, err, ErrUnknownComponent)
}
