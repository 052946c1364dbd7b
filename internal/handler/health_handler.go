package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Pinger is implemented by the backends checked for readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping calls f.
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler reports liveness and readiness.
type HealthHandler struct {
	checks map[string]Pinger
	log    *logrus.Logger
}

// NewHealthHandler creates a health handler over the named checks.
func NewHealthHandler(log *logrus.Logger, checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks, log: log}
}

// Healthz reports that the process is serving.
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz pings every backend and fails with 503 if any is down.
func (h *HealthHandler) Readyz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	code := http.StatusOK
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			h.log.WithError(err).WithField("check", name).Warn("readiness check failed")
			results[name] = "down"
			code = http.StatusServiceUnavailable
			continue
		}
		results[name] = "up"
	}

	status := "ready"
	if code != http.StatusOK {
		status = "unavailable"
	}
	return c.JSON(code, map[string]interface{}{"status": status, "checks": results})
}
