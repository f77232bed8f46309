// Package devservice provides a slow and unreliable search upstream for
// development. It wraps the real search handler so the loading and error
// states of remote lists can be seen without a real network.
package devservice

import (
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Defaults for a new Service.
const (
	DefaultMinLatency  = 150 * time.Millisecond
	DefaultMaxLatency  = 1200 * time.Millisecond
	DefaultFailureRate = 0.2
)

// Seed returns the dev service seed from the DEV_SERVICE_SEED environment
// variable, or a random value if not set.
func Seed() uint64 {
	if env := os.Getenv("DEV_SERVICE_SEED"); env != "" {
		if seed, err := strconv.ParseUint(env, 10, 64); err == nil {
			return seed
		}
	}
	return rand.Uint64() //nolint:gosec // intentionally weak random for test data
}

// Option configures a [Service].
type Option func(*Service)

// WithLatency sets the range each response is delayed by.
func WithLatency(minLatency, maxLatency time.Duration) Option {
	return func(s *Service) {
		s.minLatency, s.maxLatency = minLatency, max(minLatency, maxLatency)
	}
}

// WithFailureRate sets the probability, from 0 to 1, that a request fails
// with 503 Service Unavailable.
func WithFailureRate(rate float64) Option {
	return func(s *Service) { s.failureRate = min(max(rate, 0), 1) }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// Service delays and randomly fails requests before passing them on.
type Service struct {
	mu    sync.Mutex
	faker *gofakeit.Faker

	minLatency  time.Duration
	maxLatency  time.Duration
	failureRate float64
	logger      *slog.Logger
}

// New creates a dev service whose delays and failures are drawn from seed.
func New(seed uint64, opts ...Option) *Service {
	svc := &Service{
		faker:       gofakeit.New(seed),
		minLatency:  DefaultMinLatency,
		maxLatency:  DefaultMaxLatency,
		failureRate: DefaultFailureRate,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	svc.logger = svc.logger.With(slog.String("component", "devservice"))
	return svc
}

// Wrap returns next behind the service's latency and failures.
func (s *Service) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delay, fail := s.roll()
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-r.Context().Done():
			// the client moved on to a newer query
			return
		case <-timer.C:
		}
		if fail {
			s.logger.DebugContext(r.Context(), "failing request",
				slog.String("uri", r.RequestURI),
				slog.Duration("delay", delay),
			)
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Service) roll() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delay := s.minLatency
	if spread := s.maxLatency - s.minLatency; spread > 0 {
		delay += time.Duration(s.faker.IntN(int(spread)))
	}
	return delay, s.faker.Float64() < s.failureRate
}
