package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-suggest/internal/handler"
)

// Guards are the middlewares wrapped around routes.  Auth validates the
// bearer token; Limit is the per-client token bucket.
type Guards struct {
	Auth  echo.MiddlewareFunc
	Limit echo.MiddlewareFunc
}

// protected runs Auth first so the limiter can key on the user id.
func (g Guards) protected() []echo.MiddlewareFunc {
	return g.only(g.Auth, g.Limit)
}

func (g Guards) public() []echo.MiddlewareFunc {
	return g.only(g.Limit)
}

func (Guards) only(mws ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(mws))
	for _, m := range mws {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", h.Health)
}

// RegisterAuth registers the account endpoints.  /register and /login are
// open; /database and /me need a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, g Guards) {
	e.POST("/register", a.Register, g.public()...)
	e.POST("/login", a.Login, g.public()...)

	e.GET("/database", a.Database, g.protected()...)
	e.GET("/me", a.Me, g.protected()...)
}

// RegisterBooking registers the seat suggestion endpoint behind auth.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, g Guards) {
	e.GET("/suggest-booking", b.SuggestBooking, g.protected()...)
}
