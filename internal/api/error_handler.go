package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that renders the 404
// page for unmatched routes and a plain 500 for anything else. Every other
// failure in this application is handled at its point of occurrence, so
// only the router's own errors arrive here.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusNotFound {
			if renderErr := c.Render(http.StatusNotFound, "404.html", nil); renderErr != nil {
				_ = c.String(http.StatusNotFound, "not found")
			}
			return
		}

		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("unhandled error")

		_ = c.String(http.StatusInternalServerError, "internal server error")
	}
}
