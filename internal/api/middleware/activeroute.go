package middleware

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// Context keys for the navigation state derived per request.
const (
	activeRouteKey     = "activeRoute"
	viewingCategoryKey = "viewingCategory"
)

// ActiveRoute derives the normalized navigation section for the request and
// stores it, together with any category filter, in the request context for
// the renderer. The values are request-scoped, so interleaved requests
// cannot observe each other's navigation state.
func ActiveRoute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set(activeRouteKey, normalizeRoute(c.Request().URL.Path))
		c.Set(viewingCategoryKey, c.QueryParam("category"))
		return next(c)
	}
}

// normalizeRoute collapses identifier sub-path suffixes to the top-level
// section: /shop/42 and /shop/<objectid> become /shop, while /items/add
// stays as is.
func normalizeRoute(path string) string {
	trimmed := strings.TrimSuffix(path, "/")
	if trimmed == "" {
		return "/"
	}
	segments := strings.Split(strings.TrimPrefix(trimmed, "/"), "/")
	if len(segments) > 1 && isIdentifier(segments[1]) {
		return "/" + segments[0]
	}
	return "/" + strings.Join(segments, "/")
}

// isIdentifier reports whether a path segment looks like an item id: either
// numeric or a 24-character ObjectID hex string.
func isIdentifier(segment string) bool {
	if segment == "" {
		return false
	}
	if _, err := strconv.Atoi(segment); err == nil {
		return true
	}
	if len(segment) != 24 {
		return false
	}
	for _, r := range segment {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// ActiveRouteValue returns the normalized section recorded for the request.
func ActiveRouteValue(c echo.Context) string {
	route, _ := c.Get(activeRouteKey).(string)
	return route
}

// ViewingCategory returns the category filter recorded for the request.
func ViewingCategory(c echo.Context) string {
	category, _ := c.Get(viewingCategoryKey).(string)
	return category
}
