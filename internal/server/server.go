// Package server provides shared HTTP server utilities.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// Timeouts bound each phase of a request and the final shutdown.
type Timeouts struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Shutdown   time.Duration
}

// DefaultTimeouts are used by the showcase server.
var DefaultTimeouts = Timeouts{
	ReadHeader: 1 * time.Second,
	Read:       5 * time.Second,
	Write:      5 * time.Second,
	Shutdown:   10 * time.Second,
}

// Listen creates a TCP listener on the given address.
// Use "127.0.0.1:0" for a random available port.
func Listen(ctx context.Context, addr string) (net.Listener, error) {
	var lc net.ListenConfig
	return lc.Listen(ctx, "tcp", addr)
}

// Serve starts an HTTP server on the given listener and registers graceful
// shutdown when the context is canceled.
func Serve(
	ctx context.Context,
	grp *errgroup.Group,
	srv *http.Server,
	listener net.Listener,
	timeouts Timeouts,
) {
	srv.ReadHeaderTimeout = timeouts.ReadHeader
	srv.ReadTimeout = timeouts.Read
	srv.WriteTimeout = timeouts.Write

	grp.Go(func() error {
		err := srv.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	grp.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Shutdown)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// Start listens on addr and serves handler until ctx is done. It returns the
// bound address, which differs from addr when a zero port was requested.
func Start(
	ctx context.Context,
	grp *errgroup.Group,
	logger *slog.Logger,
	name, addr string,
	handler http.Handler,
) (string, error) {
	listener, err := Listen(ctx, addr)
	if err != nil {
		return "", err
	}
	bound := listener.Addr().String()
	srv := &http.Server{Handler: handler} //nolint:gosec // Serve() sets timeouts
	logger.InfoContext(ctx,
		"starting "+name+" server...",
		slog.String("address", bound),
	)
	Serve(ctx, grp, srv, listener, DefaultTimeouts)
	return bound, nil
}
