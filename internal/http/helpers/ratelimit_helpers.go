package helpers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	httperrors "github.com/jeancarlosleonvega/admin-dashboard/internal/http/errors"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/rate"
)

// --- Headers estándar ---

func setRateHeaders(w http.ResponseWriter, limit int, res rate.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
	if !res.Allowed && res.RetryAfter > 0 {
		secs := int(res.RetryAfter.Seconds())
		if secs < 1 {
			secs = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}
}

// --- Core Enforcement Logic ---

// enforceWithKey retorna false si ya escribió el 429. Fail-open ante
// limiter ausente, política inválida o error del backend.
func enforceWithKey(w http.ResponseWriter, r *http.Request, lim rate.MultiLimiter, p rate.Policy, key string) bool {
	if lim == nil || p.Limit <= 0 || p.Window <= 0 {
		return true
	}

	res, err := lim.AllowWithLimits(r.Context(), key, p.Limit, p.Window)
	if err != nil {
		logger.From(r.Context()).Warn("rate limiter unavailable, allowing request",
			logger.Component("http.ratelimit"), logger.Key(key), logger.Err(err))
		return true
	}

	setRateHeaders(w, p.Limit, res)
	if res.Allowed {
		return true
	}
	httperrors.WriteError(w, httperrors.ErrRateLimitExceeded)
	return false
}

// --- Semantic Wrappers ---

// EnforceLoginLimit aplica el límite de login por IP + email.
func EnforceLoginLimit(w http.ResponseWriter, r *http.Request, lim rate.MultiLimiter, p rate.Policy, email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	return enforceWithKey(w, r, lim, p, fmt.Sprintf("login:%s:%s", ClientIP(r), email))
}

// EnforceForgotLimit aplica el límite de forgot-password por IP.
func EnforceForgotLimit(w http.ResponseWriter, r *http.Request, lim rate.MultiLimiter, p rate.Policy) bool {
	return enforceWithKey(w, r, lim, p, "forgot:"+ClientIP(r))
}
