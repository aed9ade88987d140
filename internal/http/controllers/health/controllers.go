// Package health contiene los controllers de health check.
package health

import (
	"context"
	"net/http"
	"time"

	dto "github.com/jeancarlosleonvega/admin-dashboard/internal/http/dto/health"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/http/helpers"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
)

// Pinger es cualquier dependencia que puede chequearse.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Check es una dependencia con nombre. Pinger nil se reporta "disabled".
// Optional marca dependencias sin las que el servicio sigue atendiendo:
// si fallan se reportan "degraded" sin cambiar el estado global.
type Check struct {
	Name     string
	Pinger   Pinger
	Optional bool
}

// Controller maneja /healthz y /readyz.
type Controller struct {
	version string
	checks  []Check
	timeout time.Duration
}

// NewController crea el controller.
func NewController(version string, checks ...Check) *Controller {
	return &Controller{version: version, checks: checks, timeout: 2 * time.Second}
}

// Healthz responde 200 mientras el proceso esté vivo.
func (c *Controller) Healthz(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz chequea cada dependencia; una requerida caída responde 503.
func (c *Controller) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
	defer cancel()

	resp := dto.HealthResponse{
		Status:     "ready",
		Components: make(map[string]dto.HealthStatus, len(c.checks)),
		Version:    c.version,
		Timestamp:  time.Now().UTC(),
	}
	for _, ch := range c.checks {
		if ch.Pinger == nil {
			resp.Components[ch.Name] = dto.HealthStatus{Status: "disabled"}
			continue
		}
		if err := ch.Pinger.Ping(ctx); err != nil {
			logger.From(ctx).Warn("readiness check failed",
				logger.Component("health"), logger.String("check", ch.Name), logger.Err(err))
			if ch.Optional {
				resp.Components[ch.Name] = dto.HealthStatus{Status: "degraded", Message: "unreachable"}
				continue
			}
			resp.Components[ch.Name] = dto.HealthStatus{Status: "error", Message: "unreachable"}
			resp.Status = "unavailable"
			continue
		}
		resp.Components[ch.Name] = dto.HealthStatus{Status: "ok"}
	}

	status := http.StatusOK
	if resp.Status != "ready" {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, status, resp)
}
