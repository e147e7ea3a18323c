package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireLogin gates a route on session presence: an unauthenticated
// request is redirected to the login page and processed no further.
func RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentSession(c) == nil {
			return c.Redirect(http.StatusFound, "/login")
		}
		return next(c)
	}
}
