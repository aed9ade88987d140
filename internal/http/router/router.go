// Package router arma el árbol de rutas chi del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	adminctrl "github.com/jeancarlosleonvega/admin-dashboard/internal/http/controllers/admin"
	authctrl "github.com/jeancarlosleonvega/admin-dashboard/internal/http/controllers/auth"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/http/controllers/health"
	httperrors "github.com/jeancarlosleonvega/admin-dashboard/internal/http/errors"
	mw "github.com/jeancarlosleonvega/admin-dashboard/internal/http/middlewares"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/rate"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/services/authz"
)

// Deps contiene todo lo que el router necesita.
type Deps struct {
	Auth   *authctrl.Controllers
	Admin  *adminctrl.Controllers
	Health *health.Controller
	Authz  authz.Service

	GlobalLimiter rate.Limiter // nil = sin límite global
	GlobalLimit   int
	CORSOrigins   []string
	HSTS          bool

	Metrics     http.Handler // nil = /metrics deshabilitado
	MetricsPath string
}

// New construye el handler raíz.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	// Paso 1: middlewares globales. Request ID y logging primero para que
	// recover loguee con el logger del request.
	r.Use(
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithRecover(),
		mw.WithMetrics(),
		mw.WithSecurityHeaders(d.HSTS),
		mw.WithCORS(d.CORSOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	// Paso 2: health checks y métricas, fuera del rate limit
	if d.Health != nil {
		r.Get("/healthz", d.Health.Healthz)
		r.Get("/readyz", d.Health.Readyz)
	}
	if d.Metrics != nil {
		path := d.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, d.Metrics)
	}

	// Paso 3: API
	r.Route("/api", func(r chi.Router) {
		r.Use(mw.WithRateLimit(mw.RateLimitConfig{
			Limiter: d.GlobalLimiter,
			Limit:   d.GlobalLimit,
		}))

		if d.Auth != nil {
			registerAuthRoutes(r, d)
		}
		if d.Admin != nil {
			registerAdminRoutes(r, d)
		}
	})

	return r
}
