// Package app contains the showcase web front-end.
package app

import (
	"embed"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/stolasapp/facet/internal/app/devservice"
	"github.com/stolasapp/facet/internal/catalog"
	"github.com/stolasapp/facet/internal/config"
	"github.com/stolasapp/facet/internal/storage"
)

//go:embed static
var staticFiles embed.FS

// Search endpoint paths.
const (
	SearchPath    = "/search"
	DevSearchPath = "/dev/search"
)

// New creates the showcase web server.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	store storage.Store,
	cat *catalog.Catalog,
) *echo.Echo {
	srv := echo.New()

	srv.HideBanner = true
	srv.HidePort = true
	srv.Logger.SetLevel(log.OFF)

	if cfg.DevMode {
		srv.Debug = true
		srv.Use(logRequests(logger))
	} else {
		srv.Use(middleware.Recover())
	}

	srv.Use(
		middleware.Decompress(),
		middleware.Gzip(),
		middleware.Secure(),
		middleware.CSRFWithConfig(middleware.CSRFConfig{
			TokenLookup: "cookie:" + middleware.DefaultCSRFConfig.CookieName,
		}),
		middleware.RequestID(),
	)

	h := handler{
		logger:    logger.With(slog.String("component", "app")),
		store:     store,
		catalog:   cat,
		limits:    cfg.Search,
		searchURL: SearchPath,
	}
	if cfg.DevMode {
		// remote lists in the showcase go through the flaky upstream
		h.searchURL = DevSearchPath
		dev := devservice.New(devservice.Seed(), devservice.WithLogger(logger))
		srv.GET(DevSearchPath, h.search, echo.WrapMiddleware(dev.Wrap))
	}
	h.register(srv)

	staticFS := echo.MustSubFS(staticFiles, "static")
	srv.StaticFS("/static/", staticFS)
	srv.FileFS("/robots.txt", "robots.txt", staticFS)
	return srv
}

func logRequests(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("uri", req.RequestURI),
				slog.String("route", c.Path()),
				slog.Duration("latency", latency),
				slog.Int("status", res.Status),
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}
			logger.LogAttrs(
				req.Context(),
				slog.LevelDebug,
				"request handled",
				attrs...,
			)
			return err
		}
	}
}
