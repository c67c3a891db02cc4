package handler // declare the package name; contains HTTP handlers

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HealthCheck checks one backing service.
type HealthCheck func(ctx context.Context) error

// HealthHandler answers /healthz.  With no checks registered it always
// reports ok.
type HealthHandler struct {
	Checks map[string]HealthCheck
	Logger *zap.Logger
}

func NewHealthHandler(logger *zap.Logger) *HealthHandler {
	return &HealthHandler{Checks: map[string]HealthCheck{}, Logger: logger}
}

// Add registers a named check, e.g. "mysql" or "redis".
func (h *HealthHandler) Add(name string, check HealthCheck) {
	h.Checks[name] = check
}

// Health returns "ok" when every check passes and 503 naming the failing
// checks otherwise.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	var failed []string
	for name, check := range h.Checks {
		if err := check(ctx); err != nil {
			h.Logger.Warn("health: check failed", zap.String("check", name), zap.Error(err))
			failed = append(failed, name)
		}
	}
	if len(failed) > 0 {
		sort.Strings(failed)
		return c.String(http.StatusServiceUnavailable, "unavailable: "+strings.Join(failed, ","))
	}
	return c.String(http.StatusOK, "ok")
}
