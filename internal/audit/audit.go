// Package audit crawls a served site and checks its widget markup against the
// interaction runtime: every page must mount cleanly and every remote search
// endpoint it references must answer with well-formed result fragments.
package audit

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/die-net/lrucache"
	"github.com/gocolly/colly/v2"
	"github.com/gregjones/httpcache"

	"github.com/stolasapp/facet/internal/content"
	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/markup"
	"github.com/stolasapp/facet/internal/search"
	"github.com/stolasapp/facet/internal/widget"
)

const (
	userAgent         = "facet-audit/1"
	maxHTTPCacheBytes = 32 * 1024 * 1024 // 32 MiB
	maxHTTPCacheAge   = 0                 // unlimited
	idleConns         = 16
	idleConnTimeout   = 90 * time.Second
	httpTimeout       = 10 * time.Second

	// DefaultMaxDepth bounds how many links deep the crawl follows.
	DefaultMaxDepth = 3
	// DefaultProbe is the query sent to each remote search endpoint.
	DefaultProbe = "a"
)

// Finding is one problem found on a page.
type Finding struct {
	URL     string
	Problem string
	Err     error
}

func (f Finding) String() string {
	if f.Err == nil {
		return f.URL + ": " + f.Problem
	}
	return fmt.Sprintf("%s: %s: %v", f.URL, f.Problem, f.Err)
}

// Report is the outcome of a crawl.
type Report struct {
	// Pages is the number of HTML pages checked.
	Pages int
	// Widgets counts mounted widgets by name.
	Widgets map[string]int
	// Searches is the number of remote search endpoints probed.
	Searches int
	Findings []Finding
}

// OK reports whether the crawl found no problems.
func (r *Report) OK() bool { return len(r.Findings) == 0 }

// Option configures an [Auditor].
type Option func(*Auditor)

// WithMaxDepth bounds the crawl depth; the start page is depth 1.
func WithMaxDepth(depth int) Option {
	return func(a *Auditor) { a.maxDepth = depth }
}

// WithProbe sets the query sent to remote search endpoints.
func WithProbe(query string) Option {
	return func(a *Auditor) { a.probe = query }
}

// WithHTTPClient replaces the caching client.
func WithHTTPClient(client *http.Client) Option {
	return func(a *Auditor) { a.client = client }
}

// Auditor crawls the pages reachable from a base URL on the same host.
type Auditor struct {
	base     *url.URL
	client   *http.Client
	logger   *slog.Logger
	maxDepth int
	probe    string
}

// New creates an Auditor rooted at rawBase, which must be absolute.
func New(rawBase string, logger *slog.Logger, opts ...Option) (*Auditor, error) {
	base, err := url.Parse(rawBase)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base url: %w", err)
	} else if !base.IsAbs() {
		return nil, fmt.Errorf("base url must have a scheme: %v", base)
	}

	a := &Auditor{
		base: base,
		client: &http.Client{
			Transport: &httpcache.Transport{
				Cache: lrucache.New(maxHTTPCacheBytes, maxHTTPCacheAge),
				Transport: &http.Transport{
					Proxy:               http.ProxyFromEnvironment,
					ForceAttemptHTTP2:   true,
					MaxIdleConns:        idleConns,
					MaxConnsPerHost:     idleConns,
					MaxIdleConnsPerHost: idleConns,
					IdleConnTimeout:     idleConnTimeout,
					TLSHandshakeTimeout: httpTimeout,
				},
			},
			Timeout: httpTimeout,
		},
		logger:   logger.With(slog.String("component", "audit")),
		maxDepth: DefaultMaxDepth,
		probe:    DefaultProbe,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Run crawls the site and returns what it found. An error is returned only
// when the crawl could not start.
func (a *Auditor) Run(ctx context.Context) (*Report, error) {
	var mu sync.Mutex
	report := &Report{Widgets: make(map[string]int)}
	searchURLs := make(map[string]string) // endpoint -> first page using it
	addFinding := func(f Finding) {
		mu.Lock()
		defer mu.Unlock()
		report.Findings = append(report.Findings, f)
	}

	col := a.newCollector(ctx)
	col.OnResponse(func(res *colly.Response) {
		if !strings.Contains(res.Headers.Get("Content-Type"), "text/html") {
			return
		}
		page := res.Request.URL.String()
		counts, endpoints, err := a.mountPage(string(res.Body))

		mu.Lock()
		defer mu.Unlock()
		report.Pages++
		for name, n := range counts {
			report.Widgets[name] += n
		}
		for _, endpoint := range endpoints {
			if _, seen := searchURLs[endpoint]; !seen {
				searchURLs[endpoint] = page
			}
		}
		if err != nil {
			report.Findings = append(report.Findings, Finding{URL: page, Problem: "widgets failed to mount", Err: err})
		}
	})
	col.OnHTML("a[href]", func(el *colly.HTMLElement) {
		href := el.Attr("href")
		if strings.HasPrefix(href, "#") {
			return
		}
		// revisits and other hosts are expected and not findings
		_ = el.Request.Visit(href)
	})
	col.OnError(func(res *colly.Response, err error) {
		addFinding(Finding{
			URL:     res.Request.URL.String(),
			Problem: fmt.Sprintf("request failed with status %d", res.StatusCode),
			Err:     err,
		})
	})

	if err := col.Visit(a.base.String()); err != nil {
		return nil, fmt.Errorf("failed to crawl %v: %w", a.base, err)
	}
	col.Wait()

	for _, endpoint := range slices.Sorted(maps.Keys(searchURLs)) {
		report.Searches++
		if err := a.probeSearch(ctx, endpoint); err != nil {
			report.Findings = append(report.Findings, Finding{
				URL:     searchURLs[endpoint],
				Problem: "search endpoint " + endpoint + " is unusable",
				Err:     err,
			})
		}
	}

	slices.SortStableFunc(report.Findings, func(x, y Finding) int { return cmp.Compare(x.URL, y.URL) })
	a.logger.DebugContext(ctx, "crawl finished",
		slog.Int("pages", report.Pages),
		slog.Int("findings", len(report.Findings)),
	)
	return report, nil
}

// mountPage mounts every widget on the page, returning the mounted widgets by
// name and the remote search endpoints the page references.
func (a *Auditor) mountPage(page string) (map[string]int, []string, error) {
	doc, err := dom.ParseString(page)
	if err != nil {
		return nil, nil, err
	}
	env := widget.NewEnv(doc, widget.WithLogger(a.logger))
	mounted, err := widget.Mount(env)
	if err != nil {
		return nil, nil, err
	}
	counts := make(map[string]int)
	var endpoints []string
	for _, w := range mounted {
		root := w.Root()
		counts[root.AttrOr(markup.DataAttrWidget, "")]++
		if endpoint := root.AttrOr(markup.DataAttrSearchURL, ""); endpoint != "" {
			endpoints = append(endpoints, endpoint)
		}
		w.Destroy()
	}
	return counts, endpoints, nil
}

// probeSearch queries a search endpoint and checks that every result is an
// item fragment that survives sanitization.
func (a *Auditor) probeSearch(ctx context.Context, endpoint string) error {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return err
	}
	u := a.base.ResolveReference(ref)
	params := u.Query()
	params.Set("q", a.probe)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	res, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }() // error is not actionable after read
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	var results []search.Result
	if err = json.NewDecoder(res.Body).Decode(&results); err != nil {
		return fmt.Errorf("malformed results: %w", err)
	}
	for i, result := range results {
		clean, err := content.SanitizeFragment(result.HTML)
		if err != nil {
			return fmt.Errorf("result %d: %w", i, err)
		}
		frag, err := goquery.NewDocumentFromReader(strings.NewReader(clean))
		if err != nil {
			return fmt.Errorf("result %d: %w", i, err)
		}
		if frag.Find(markup.Part(markup.PartItem)).Length() == 0 {
			return fmt.Errorf("result %d has no %s part after sanitization", i, markup.PartItem)
		}
	}
	return nil
}

func (a *Auditor) newCollector(ctx context.Context) *colly.Collector {
	col := colly.NewCollector(
		colly.IgnoreRobotsTxt(),
		colly.UserAgent(userAgent),
		colly.StdlibContext(ctx),
		colly.AllowedDomains(a.base.Hostname()),
		colly.MaxDepth(a.maxDepth),
	)
	col.SetClient(a.client)
	return col
}
