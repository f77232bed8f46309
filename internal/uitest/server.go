// Package uitest provides UI testing utilities using Rod.
package uitest

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/stolasapp/facet/internal/app"
	"github.com/stolasapp/facet/internal/catalog"
	"github.com/stolasapp/facet/internal/config"
	"github.com/stolasapp/facet/internal/server"
	"github.com/stolasapp/facet/internal/storage"
	"github.com/stolasapp/facet/internal/storage/db"
)

// TestSeed is the fixed seed used for reproducible catalog data.
const TestSeed uint64 = 12345

// Server is a test server running the showcase.
type Server struct {
	baseURL string
	cancel  context.CancelFunc
	grp     *errgroup.Group
	store   storage.Store
}

// newTestServer creates and starts a new test server.
// It panics on errors since it runs before any subtest exists.
func newTestServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	grp, ctx := errgroup.WithContext(ctx)

	logger := slog.New(slog.DiscardHandler)
	cfg := testConfig()

	store, err := storage.NewDB(ctx, cfg.DBFilepath, logger)
	if err != nil {
		cancel()
		panic(fmt.Sprintf("failed to create storage: %v", err))
	}

	cat, err := catalog.New(TestSeed, cfg.Catalog.Size)
	if err != nil {
		cancel()
		_ = store.Close()
		panic(fmt.Sprintf("failed to generate catalog: %v", err))
	}

	addr, err := server.Start(ctx, grp, logger, "app", cfg.WebAddress, app.New(cfg, logger, store, cat))
	if err != nil {
		cancel()
		_ = store.Close()
		panic(fmt.Sprintf("failed to start app server: %v", err))
	}

	return &Server{
		baseURL: "http://" + addr,
		cancel:  cancel,
		grp:     grp,
		store:   store,
	}
}

// BaseURL returns the base URL of the test server.
func (s *Server) BaseURL() string {
	return s.baseURL
}

// URL constructs a full URL from the server base URL and a path.
func (s *Server) URL(path string) string {
	return s.baseURL + path
}

// Close shuts down the test server.
// Errors are ignored since this runs during test cleanup where failures
// are typically unrecoverable and already logged by the errgroup.
func (s *Server) Close() {
	s.cancel()
	_ = s.grp.Wait()
	_ = s.store.Close()
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.LogLevel = config.LogLevelDebug
	cfg.WebAddress = "127.0.0.1:0"
	cfg.DBFilepath = db.MemoryPath
	return cfg
}
