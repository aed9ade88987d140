package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors del servicio. Están definidos a nivel de paquete para que
// rbac/services/http los usen sin ciclos de import; sin Register() no se
// exportan pero incrementarlos es inocuo.
var (
	AuthzDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "authz_decisions_total",
		Help: "Decisiones del gate de autorización por resultado y motivo",
	}, []string{"result", "reason"})

	PermissionCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "permission_cache_lookups_total",
		Help: "Lecturas del cache de permisos (hit|miss|error)",
	}, []string{"result"})

	PermissionCacheInvalidations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "permission_cache_invalidations_total",
		Help: "Invalidaciones del cache de permisos (scope=user|all, result=ok|error)",
	}, []string{"scope", "result"})

	AuthEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_events_total",
		Help: "Operaciones de autenticación por resultado",
	}, []string{"op", "result"})

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Número total de requests procesadas",
	}, []string{"method", "route", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latencia de los requests HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

func all() []prometheus.Collector {
	return []prometheus.Collector{
		AuthzDecisions,
		PermissionCacheLookups,
		PermissionCacheInvalidations,
		AuthEvents,
		HTTPRequests,
		HTTPDuration,
	}
}

// Register registra los collectors en reg (o el default si es nil).
// Tolera AlreadyRegisteredError para poder llamarse más de una vez.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range all() {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

// Handler expone /metrics para el gatherer dado (o el default).
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// ObserveDecision registra una decisión del gate.
func ObserveDecision(allowed bool, reason string) {
	result := "deny"
	if allowed {
		result = "allow"
	}
	AuthzDecisions.WithLabelValues(result, reason).Inc()
}

// ObserveAuth registra una operación de auth.
func ObserveAuth(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	AuthEvents.WithLabelValues(op, result).Inc()
}

// ObserveHTTP registra un request terminado.
func ObserveHTTP(method, route string, status int, d time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
