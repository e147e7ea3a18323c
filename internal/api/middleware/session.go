package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/catalogworks/catalog/internal/api/session"
	"github.com/catalogworks/catalog/internal/core/domain"
)

// sessionKey is the echo context key holding the current *domain.Session.
const sessionKey = "session"

// Session attaches the request's session, if any, to the context and
// applies the sliding extension. It runs for every route; requests without
// a valid session proceed with no session attached.
func Session(mgr *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if sess := mgr.Read(c); sess != nil {
				mgr.Extend(c, sess)
				c.Set(sessionKey, sess)
			}
			return next(c)
		}
	}
}

// CurrentSession returns the session attached by the Session middleware, or
// nil when the request is unauthenticated.
func CurrentSession(c echo.Context) *domain.Session {
	sess, _ := c.Get(sessionKey).(*domain.Session)
	return sess
}
