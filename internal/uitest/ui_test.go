package uitest

import (
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/facet/internal/app"
	"github.com/stolasapp/facet/internal/markup"
	"github.com/stolasapp/facet/internal/theme"
)

const (
	// defaultTimeout is the default timeout for all browser operations.
	defaultTimeout = 10 * time.Second
	// stableTimeout is the timeout for waiting for page stability.
	stableTimeout = 5 * time.Second
)

// testPage wraps a rod.Page with consistent timeout handling.
type testPage struct {
	*rod.Page

	t *testing.T
}

// el finds a single element with the default timeout.
func (p *testPage) el(selector string) *rod.Element {
	return p.Page.Timeout(defaultTimeout).MustElement(selector)
}

// els finds multiple elements with the default timeout.
func (p *testPage) els(selector string) rod.Elements {
	els, _ := p.Page.Timeout(defaultTimeout).Elements(selector)
	return els
}

// click clicks an element found by selector and waits for the navigation
// it triggers.
func (p *testPage) click(selector string) {
	wait := p.Page.Timeout(defaultTimeout).MustWaitNavigation()
	p.el(selector).MustClick()
	wait()
	p.waitStable()
}

// waitStable waits for the page to stabilize.
func (p *testPage) waitStable() {
	p.Page.Timeout(stableTimeout).MustWaitStable()
}

// reload reloads the page and waits for stability.
func (p *testPage) reload() {
	p.Page.Timeout(defaultTimeout).MustReload()
	p.waitStable()
}

// attr returns an attribute of the element matched by selector, or "".
func (p *testPage) attr(selector, name string) string {
	if v := p.el(selector).MustAttribute(name); v != nil {
		return *v
	}
	return ""
}

// fetchStatus issues a same-origin request from the page and returns the
// response status.
func (p *testPage) fetchStatus(method, path string) int {
	return p.Page.Timeout(defaultTimeout).MustEval(
		`(method, path) => fetch(path, {method, credentials: "same-origin"}).then(r => r.status)`,
		method, path,
	).Int()
}

// TestUI is the parent test that sets up the browser and server,
// then runs all UI subtests. It skips when running with -short flag.
func TestUI(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping UI tests in short mode")
	}

	// Setup test server
	server := newTestServer()
	t.Cleanup(server.Close)

	// Setup headless browser
	path, _ := launcher.LookPath()
	u := launcher.New().Bin(path).Headless(true).MustLaunch()
	browser := rod.New().ControlURL(u).MustConnect()
	t.Cleanup(func() { browser.MustClose() })

	// Helper to create a new page for each subtest. Each page gets its own
	// incognito context so cookies and storage never leak between subtests.
	newPage := func(t *testing.T) *testPage {
		t.Helper()
		incognito := browser.MustIncognito()
		page := incognito.Timeout(defaultTimeout).MustPage(server.URL("/"))
		t.Cleanup(func() {
			_ = page.Close()
		})
		page.Timeout(stableTimeout).MustWaitStable()
		return &testPage{Page: page, t: t}
	}

	// Run subtests serially to avoid browser contention
	t.Run("Gallery", func(t *testing.T) {
		testGallery(t, newPage)
	})
	t.Run("HiddenParts", func(t *testing.T) {
		testHiddenParts(t, newPage)
	})
	t.Run("ComponentPage", func(t *testing.T) {
		testComponentPage(t, newPage)
	})
	t.Run("ThemePreference", func(t *testing.T) {
		testThemePreference(t, newPage)
	})
	t.Run("ThemeScript", func(t *testing.T) {
		testThemeScript(t, newPage)
	})
	t.Run("RemoteSearch", func(t *testing.T) {
		testRemoteSearch(t, newPage)
	})
}

func testGallery(t *testing.T, newPage func(*testing.T) *testPage) {
	p := newPage(t)

	assert.Equal(t, "facet", p.MustInfo().Title)
	for _, name := range app.Components() {
		assert.NotEmpty(t, p.els("main "+markup.Widget(name)), name)
		assert.NotEmpty(t, p.els(DocsLink(name)), name)
	}
	assert.Equal(t, "system", p.attr(SelectorRoot, markup.DataAttrTheme))
}

func testHiddenParts(t *testing.T, newPage func(*testing.T) *testPage) {
	p := newPage(t)

	// closed popups and idle affordances must not take up space
	for _, sel := range []string{
		WidgetPart(markup.WidgetSelect, markup.PartContent),
		WidgetPart(markup.WidgetDialog, markup.PartContent),
		WidgetPart(markup.WidgetCombobox, markup.PartLoading),
		WidgetPart(markup.WidgetCombobox, markup.PartError),
	} {
		els := p.els(sel)
		require.NotEmpty(t, els, sel)
		assert.False(t, els.First().MustVisible(), sel)
	}
	assert.True(t, p.el(SelectorThemeToggle).MustVisible())
}

func testComponentPage(t *testing.T, newPage func(*testing.T) *testPage) {
	p := newPage(t)

	p.click(DocsLink(markup.WidgetDatePicker))
	assert.Equal(t, "Date picker | facet", p.MustInfo().Title)
	assert.Len(t, p.els("main "+markup.Widget(markup.WidgetDatePicker)), 1)
	assert.NotEmpty(t, p.els(SelectorProse+" table"))

	p.click(SelectorSiteTitle)
	assert.Equal(t, "facet", p.MustInfo().Title)
}

func testThemePreference(t *testing.T, newPage func(*testing.T) *testPage) {
	p := newPage(t)

	require.Equal(t, 204, p.fetchStatus("PUT", "/theme/dark"))
	p.reload()
	assert.Equal(t, "dark", p.attr(SelectorRoot, "class"))
	assert.Equal(t, "dark", p.attr(SelectorRoot, markup.DataAttrTheme))
	assert.Equal(t, "true", p.attr(SelectorThemeToggle, markup.AriaPressed))

	require.Equal(t, 204, p.fetchStatus("DELETE", "/theme"))
	p.reload()
	assert.Equal(t, "system", p.attr(SelectorRoot, markup.DataAttrTheme))
	assert.Equal(t, "false", p.attr(SelectorThemeToggle, markup.AriaPressed))

	assert.Equal(t, 400, p.fetchStatus("PUT", "/theme/sepia"))
}

func testThemeScript(t *testing.T, newPage func(*testing.T) *testPage) {
	p := newPage(t)

	p.MustEval(`(key) => localStorage.setItem(key, "dark")`, theme.StorageKey)
	p.reload()
	assert.Equal(t, "dark", p.attr(SelectorRoot, markup.DataAttrTheme))
	assert.True(t, p.MustEval(`() => document.documentElement.classList.contains("dark")`).Bool())

	p.MustEval(`(key) => localStorage.setItem(key, "light")`, theme.StorageKey)
	p.reload()
	assert.Equal(t, "light", p.attr(SelectorRoot, markup.DataAttrTheme))
	assert.False(t, p.MustEval(`() => document.documentElement.classList.contains("dark")`).Bool())
}

func testRemoteSearch(t *testing.T, newPage func(*testing.T) *testPage) {
	p := newPage(t)

	endpoint := p.attr(markup.Widget(markup.WidgetCombobox), markup.DataAttrSearchURL)
	require.Equal(t, app.SearchPath, endpoint)

	results := p.Page.Timeout(defaultTimeout).MustEval(
		`(url) => fetch(url + "?q=a&limit=5").then(r => r.json())`, endpoint,
	).Arr()
	require.NotEmpty(t, results)
	assert.LessOrEqual(t, len(results), 5)
	for _, r := range results {
		assert.Contains(t, r.Get("html").Str(), markup.DataAttrPart+`="`+markup.PartItem+`"`)
	}
}
