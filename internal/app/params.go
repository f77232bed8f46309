package app

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Query parameter names of the search endpoint.
const (
	paramQuery     = "q"
	paramFilter    = "filter"
	paramLimit     = "limit"
	paramPageToken = "page_token"
)

// SearchParams holds the search endpoint's query state for URL building.
type SearchParams struct {
	Query  string
	Filter string
	// Limit is the page size; zero means the configured default.
	Limit     int
	PageToken string // empty for the first page
}

// QueryString returns the query string portion of the URL (without leading ?).
func (p SearchParams) QueryString() string {
	params := url.Values{}
	if p.Query != "" {
		params.Set(paramQuery, p.Query)
	}
	if p.Filter != "" {
		params.Set(paramFilter, p.Filter)
	}
	if p.Limit > 0 {
		params.Set(paramLimit, strconv.Itoa(p.Limit))
	}
	if p.PageToken != "" {
		params.Set(paramPageToken, p.PageToken)
	}
	return params.Encode()
}

// BuildURL constructs a full URL with the base path and query parameters.
func (p SearchParams) BuildURL(baseURL string) string {
	qs := p.QueryString()
	if qs == "" {
		return baseURL
	}
	return baseURL + "?" + qs
}

// WithNextPage returns a copy for navigating to the next page.
func (p SearchParams) WithNextPage(nextToken string) SearchParams {
	p.PageToken = nextToken
	return p
}

// WithoutPagination returns a copy with pagination reset to the first page.
func (p SearchParams) WithoutPagination() SearchParams {
	p.PageToken = ""
	return p
}

// parseSearchParams reads the search state from the request. A limit that is
// not a positive integer is an error; values above maxLimit are clamped.
func parseSearchParams(c echo.Context, defaultLimit, maxLimit int) (SearchParams, error) {
	params := SearchParams{
		Query:     c.QueryParam(paramQuery),
		Filter:    c.QueryParam(paramFilter),
		Limit:     defaultLimit,
		PageToken: c.QueryParam(paramPageToken),
	}
	if raw := c.QueryParam(paramLimit); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return params, echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		params.Limit = limit
	}
	params.Limit = min(params.Limit, maxLimit)
	return params, nil
}
