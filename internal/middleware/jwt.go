package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/seat-suggest/internal/model"
)

// Context keys set by BearerAuth.
const (
	CtxUserID = "user_id"
	CtxUser   = "user"
)

// TokenResolver turns a raw bearer token into the user it was issued to.
type TokenResolver interface {
	ResolveToken(ctx context.Context, raw string) (model.User, error)
}

// BearerAuth returns an Echo middleware that validates a Bearer access
// token and stores the resolved user under CtxUser and its id under
// CtxUserID.  Every token failure is answered the same way: 401 with a
// Bearer challenge.  The reason is only logged.
func BearerAuth(resolver TokenResolver, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return unauthorized(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, err := resolver.ResolveToken(ctx, raw)
			if err != nil {
				if !isTokenError(err) {
					logger.Error("auth: resolve token failed", zap.Error(err))
					return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
				}
				logger.Debug("auth: token rejected", zap.Error(err))
				return unauthorized(c)
			}

			c.Set(CtxUserID, u.ID)
			c.Set(CtxUser, u.Profile())
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, raw, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

func isTokenError(err error) bool {
	return errors.Is(err, model.ErrTokenExpired) ||
		errors.Is(err, model.ErrTokenSignature) ||
		errors.Is(err, model.ErrTokenMalformed) ||
		errors.Is(err, model.ErrSubjectMissing)
}

func unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Could not validate credentials"})
}
