package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/stolasapp/facet/internal/catalog"
	"github.com/stolasapp/facet/internal/config"
	"github.com/stolasapp/facet/internal/content"
	"github.com/stolasapp/facet/internal/pagination"
	"github.com/stolasapp/facet/internal/search"
	"github.com/stolasapp/facet/internal/slugconv"
	"github.com/stolasapp/facet/internal/storage"
	"github.com/stolasapp/facet/internal/theme"
	"github.com/stolasapp/facet/internal/ui"
)

// HeaderNextPageToken carries the token of the next search page.
const HeaderNextPageToken = "X-Next-Page-Token"

const (
	siteTitle  = "facet"
	stylesheet = "/static/facet.css"
)

type handler struct {
	logger    *slog.Logger
	store     storage.Store
	catalog   *catalog.Catalog
	limits    config.Search
	searchURL string
}

func (h handler) register(e *echo.Echo) {
	e.GET("/", h.gallery)
	e.GET("/components/:name", h.component)
	e.GET(SearchPath, h.search)

	prefs := e.Group("/theme")
	prefs.PUT("/:preference", h.setTheme)
	prefs.DELETE("", h.clearTheme)
}

func (h handler) gallery(c echo.Context) error {
	pref := h.preference(c)
	data := h.demoData(pref)

	cards := make([]templ.Component, 0, len(demos))
	for _, name := range Components() {
		d := demos[name]
		summary, err := content.RenderDescription(d.summary)
		if err != nil {
			return err
		}
		cards = append(cards, ui.Card(d.title, name, ui.Stack(
			ui.Prose(summary),
			d.render(data),
			ui.Link("/components/"+name, "Documentation", "text-sm"),
		)))
	}

	return render(c, h.page(pref, siteTitle, ui.Stack(
		ui.Heading("Components", "Server-rendered widgets with a headless interaction runtime."),
		ui.Stack(cards...),
	)))
}

func (h handler) component(c echo.Context) error {
	name := c.Param("name")
	if err := slugconv.Validate(name); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, ok := demos[name]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, ErrUnknownComponent.Error())
	}

	docs, err := content.RenderDocs([]byte(d.docs))
	if err != nil {
		return err
	}

	pref := h.preference(c)
	return render(c, h.page(pref, d.title+" | "+siteTitle, ui.Stack(
		ui.Heading(d.title, d.summary),
		ui.Card("Example", name, d.render(h.demoData(pref))),
		ui.Prose(string(docs)),
	)))
}

func (h handler) search(c echo.Context) error {
	params, err := parseSearchParams(c, h.limits.DefaultLimit, h.limits.MaxLimit)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	page, err := h.catalog.Search(ctx, catalog.Query{
		Text:      params.Query,
		Filter:    params.Filter,
		Limit:     params.Limit,
		PageToken: params.PageToken,
	})
	if err != nil {
		return toHTTPError(err)
	}

	results := make([]search.Result, 0, len(page.Hits))
	for _, hit := range page.Hits {
		html, err := renderString(ctx, ui.SearchItem(ui.Option{
			Value:       hit.Value,
			Label:       hit.Label,
			Group:       hit.Group,
			Description: hit.Description,
		}, hit.Positions))
		if err != nil {
			return err
		}
		results = append(results, search.Result{HTML: html, Group: hit.Group})
	}

	if page.NextPageToken != "" {
		next := params.WithNextPage(page.NextPageToken).BuildURL(c.Request().URL.Path)
		c.Response().Header().Set(HeaderNextPageToken, page.NextPageToken)
		c.Response().Header().Set("Link", "<"+next+`>; rel="next"`)
	}
	return c.JSON(http.StatusOK, results)
}

func (h handler) setTheme(c echo.Context) error {
	pref, err := theme.Parse(c.Param("preference"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	visitor := visitorID(c)
	if visitor == 0 {
		visitor = h.store.NewVisitorID()
		c.SetCookie(visitorCookie(visitor, c.IsTLS()))
	}
	if err = h.store.SetPreference(c.Request().Context(), visitor, pref); err != nil {
		return toHTTPError(err)
	}

	c.SetCookie(theme.Cookie(pref, c.IsTLS()))
	return c.NoContent(http.StatusNoContent)
}

func (h handler) clearTheme(c echo.Context) error {
	if visitor := visitorID(c); visitor != 0 {
		if err := h.store.ClearPreference(c.Request().Context(), visitor); err != nil {
			return toHTTPError(err)
		}
	}
	c.SetCookie(theme.Cookie(theme.System, c.IsTLS()))
	return c.NoContent(http.StatusNoContent)
}

// preference resolves the visitor's theme: the stored preference first, then
// the theme cookie.
func (h handler) preference(c echo.Context) theme.Preference {
	visitor := visitorID(c)
	if visitor == 0 {
		return theme.FromRequest(c.Request())
	}
	pref, err := h.store.GetPreference(c.Request().Context(), visitor)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			h.logger.WarnContext(c.Request().Context(), "failed to load theme preference",
				slog.Uint64("visitor", visitor),
				slog.Any("error", err),
			)
		}
		return theme.FromRequest(c.Request())
	}
	return pref
}

func (h handler) demoData(pref theme.Preference) demoData {
	return demoData{catalog: h.catalog, searchURL: h.searchURL, theme: pref}
}

func (h handler) page(pref theme.Preference, title string, body templ.Component) templ.Component {
	return ui.Layout(ui.LayoutProps{
		Title:       title,
		Theme:       pref,
		Stylesheets: []string{stylesheet},
		Header: ui.SiteHeader(siteTitle, "/",
			ui.ThemeToggle(ui.ThemeToggleProps{ID: "theme", Dark: pref == theme.Dark}),
		),
		Body: body,
	})
}

// toHTTPError converts an error to an Echo HTTPError with the appropriate
// HTTP status code. Other errors pass through unchanged.
func toHTTPError(err error) error {
	if err == nil {
		return nil
	}

	// Already an HTTP error - pass through
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var tokenErr pagination.TokenError
	switch {
	case errors.Is(err, catalog.ErrInvalidFilter),
		errors.As(err, &tokenErr),
		errors.Is(err, storage.ErrInvalidVisitor):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, ErrUnknownComponent):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusGatewayTimeout, err.Error())
	default:
		return err
	}
}

var renderBufferPool = sync.Pool{
	New: func() any {
		return &bytes.Buffer{}
	},
}

func render(c echo.Context, component templ.Component) error {
	buf := renderBufferPool.Get().(*bytes.Buffer) //nolint:forcetypeassert // guaranteed by impl
	defer renderBufferPool.Put(buf)
	buf.Reset()

	if err := component.Render(c.Request().Context(), buf); err != nil {
		return toHTTPError(err)
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func renderString(ctx context.Context, component templ.Component) (string, error) {
	buf := renderBufferPool.Get().(*bytes.Buffer) //nolint:forcetypeassert // guaranteed by impl
	defer renderBufferPool.Put(buf)
	buf.Reset()

	if err := component.Render(ctx, buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
