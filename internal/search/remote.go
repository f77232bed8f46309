package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/die-net/lrucache"
	"github.com/gregjones/httpcache"

	"github.com/stolasapp/facet/internal/content"
	"github.com/stolasapp/facet/internal/dom"
)

const (
	// DefaultDebounce is the quiet period after the last keystroke before a
	// remote search is issued.
	DefaultDebounce = 300 * time.Millisecond
	// DefaultCacheBytes bounds the response cache of [NewClient].
	DefaultCacheBytes = 8 * 1024 * 1024 // 8 MiB

	maxCacheAge     = 0 // unlimited
	maxBodyBytes    = 1 << 20
	idleConns       = 16
	idleConnTimeout = 90 * time.Second
	httpTimeout     = 10 * time.Second
)

// Result is one entry of a remote search response.
type Result struct {
	HTML  string `json:"html"`
	Group string `json:"group,omitempty"`
}

// NewClient creates an HTTP client that caches responses in memory,
// bounded to cacheBytes.
func NewClient(cacheBytes int64) *http.Client {
	if cacheBytes <= 0 {
		cacheBytes = DefaultCacheBytes
	}
	return &http.Client{
		Transport: &httpcache.Transport{
			Cache: lrucache.New(cacheBytes, maxCacheAge),
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				ForceAttemptHTTP2:   true,
				MaxIdleConns:        idleConns,
				MaxIdleConnsPerHost: idleConns,
				IdleConnTimeout:     idleConnTimeout,
				TLSHandshakeTimeout: httpTimeout,
			},
			MarkCachedResponses: true,
		},
		Timeout: httpTimeout,
	}
}

// RemoteConfig configures a [Remote].
type RemoteConfig struct {
	// Endpoint is the search URL. Relative endpoints resolve against Base.
	Endpoint string
	Base     *url.URL
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// Client defaults to a shared caching client.
	Client *http.Client
	Logger *slog.Logger

	// OnStart is called when a request is issued.
	OnStart func(query string)
	// OnResults receives the sanitized results of the latest request.
	OnResults func(query string, results []Result)
	// OnError receives failures of the latest request. Superseded and
	// cancelled requests are never reported.
	OnError func(query string, err error)
}

// Remote issues debounced, cancellable search requests and delivers their
// outcome on a document loop. Search and Cancel must be called from the
// loop goroutine.
type Remote struct {
	cfg      RemoteConfig
	endpoint *url.URL
	loop     *dom.Loop
	logger   *slog.Logger

	timer  *dom.Timer
	cancel context.CancelFunc
	seq    uint64
}

var defaultClient = NewClient(DefaultCacheBytes)

// NewRemote creates a Remote delivering onto loop.
func NewRemote(loop *dom.Loop, cfg RemoteConfig) (*Remote, error) {
	endpoint, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search endpoint %q: %w", cfg.Endpoint, err)
	}
	if cfg.Base != nil {
		endpoint = cfg.Base.ResolveReference(endpoint)
	}
	if !endpoint.IsAbs() {
		return nil, fmt.Errorf("search endpoint must resolve to an absolute URL: %v", endpoint)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Client == nil {
		cfg.Client = defaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Remote{
		cfg:      cfg,
		endpoint: endpoint,
		loop:     loop,
		logger:   logger.With(slog.String("component", "remote-search")),
	}, nil
}

// Search schedules a request for query once the debounce period passes
// without another call. A pending or in-flight request is superseded.
func (r *Remote) Search(query string) {
	r.Cancel()
	r.timer = r.loop.AfterFunc(r.cfg.Debounce, func() {
		r.timer = nil
		r.start(query)
	})
}

// Pending reports whether a request is scheduled or in flight.
func (r *Remote) Pending() bool {
	return r.timer != nil || r.cancel != nil
}

// Cancel drops the scheduled request and aborts the in-flight one.
func (r *Remote) Cancel() {
	r.timer.Stop()
	r.timer = nil
	r.seq++
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *Remote) start(query string) {
	r.Cancel()
	seq := r.seq
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	if r.cfg.OnStart != nil {
		r.cfg.OnStart(query)
	}
	go func() {
		results, err := r.Fetch(ctx, query)
		r.loop.Post(func() {
			if seq != r.seq {
				return
			}
			r.cancel = nil
			cancel()
			r.deliver(query, results, err)
		})
	}()
}

func (r *Remote) deliver(query string, results []Result, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		return
	case err != nil:
		r.logger.Warn("remote search failed",
			slog.String("query", query),
			slog.Any("error", err))
		if r.cfg.OnError != nil {
			r.cfg.OnError(query, err)
		}
	default:
		if r.cfg.OnResults != nil {
			r.cfg.OnResults(query, results)
		}
	}
}

// Fetch performs one request for query and returns its sanitized results.
func (r *Remote) Fetch(ctx context.Context, query string) ([]Result, error) {
	u := *r.endpoint
	params := u.Query()
	params.Set("q", query)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := r.cfg.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request %v: %w", u.Redacted(), err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected search response status: %s", res.Status)
	}
	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}
	body, err = content.DecodeUTF8(res.Header.Get("Content-Type"))(body)
	if err != nil {
		return nil, err
	}

	var raw []Result
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	r.logger.Debug("remote search response",
		slog.String("query", query),
		slog.Int("results", len(raw)),
		slog.Bool("cached", res.Header.Get(httpcache.XFromCache) != ""))
	return r.sanitize(raw), nil
}

func (r *Remote) sanitize(raw []Result) []Result {
	out := make([]Result, 0, len(raw))
	for _, res := range raw {
		fragment, err := content.SanitizeFragment(res.HTML)
		if err != nil || fragment == "" {
			r.logger.Debug("dropping remote search result",
				slog.String("group", res.Group),
				slog.Any("error", err))
			continue
		}
		out = append(out, Result{HTML: fragment, Group: res.Group})
	}
	return out
}
