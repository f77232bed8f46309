package app

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	// VisitorCookie identifies a showcase visitor across requests.
	VisitorCookie = "facet_visitor"

	visitorMaxAge = 365 * 24 * time.Hour
)

// visitorID returns the visitor ID carried by the request, or zero when the
// cookie is absent or malformed.
func visitorID(c echo.Context) uint64 {
	cookie, err := c.Cookie(VisitorCookie)
	if err != nil {
		return 0
	}
	id, err := strconv.ParseUint(cookie.Value, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func visitorCookie(id uint64, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     VisitorCookie,
		Value:    strconv.FormatUint(id, 10),
		Path:     "/",
		MaxAge:   int(visitorMaxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
