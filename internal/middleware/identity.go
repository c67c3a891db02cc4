package middleware

import "github.com/labstack/echo/v4"

// CurrentUserID returns the id stored by BearerAuth, or "" for
// unauthenticated requests.
func CurrentUserID(c echo.Context) string {
	if v, ok := c.Get(CtxUserID).(string); ok {
		return v
	}
	return ""
}

// rateUserID is the user part of a rate limit key.
func rateUserID(c echo.Context) string {
	if id := CurrentUserID(c); id != "" {
		return id
	}
	return "anon"
}
