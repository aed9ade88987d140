package rbac

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/errs"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/metrics"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
)

// Mode define cómo se combinan varios permisos requeridos.
type Mode uint8

const (
	// ModeAny: alcanza con uno.
	ModeAny Mode = iota
	// ModeAll: se necesitan todos.
	ModeAll
)

func (m Mode) String() string {
	if m == ModeAll {
		return "all"
	}
	return "any"
}

// ParseMode acepta "any" o "all" (case-insensitive). Vacío es any.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return ModeAny, nil
	case "all":
		return ModeAll, nil
	}
	return ModeAny, fmt.Errorf("unknown permission mode %q", s)
}

// DenyReason es el motivo interno de una denegación. Se loguea y se cuenta,
// nunca se expone al cliente.
type DenyReason string

const (
	ReasonNone                   DenyReason = ""
	ReasonUnauthenticated        DenyReason = "unauthenticated"
	ReasonInvalidToken           DenyReason = "invalid_token"
	ReasonUserNotFound           DenyReason = "user_not_found"
	ReasonInsufficientPermission DenyReason = "insufficient_permission"
)

// Decision es el resultado del Gate.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Allow y Deny construyen decisiones.
func Allow() Decision { return Decision{Allowed: true} }
func Deny(reason DenyReason) Decision { return Decision{Reason: reason} }

// Err traduce una denegación al error que ve el llamador. Todas las
// denegaciones son el mismo ErrForbidden salvo la falta de identidad o un
// token inválido.
func (d Decision) Err() error {
	switch {
	case d.Allowed:
		return nil
	case d.Reason == ReasonUnauthenticated:
		return errs.ErrUnauthenticated
	case d.Reason == ReasonInvalidToken:
		return errs.ErrInvalidToken
	default:
		return errs.ErrForbidden
	}
}

// Check evalúa los requeridos contra un Set. Una lista vacía deniega.
// La comparación es byte a byte: los requeridos no se normalizan.
func Check(perms Set, required []string, mode Mode) bool {
	if len(required) == 0 {
		return false
	}
	if mode == ModeAll {
		for _, p := range required {
			if !perms.Has(p) {
				return false
			}
		}
		return true
	}
	for _, p := range required {
		if perms.Has(p) {
			return true
		}
	}
	return false
}

// Gate decide allow/deny por request.
type Gate struct {
	resolver PermissionResolver
	cache    *PermissionCache
}

// NewGate arma el Gate. cache puede ser nil (sin cache).
func NewGate(resolver PermissionResolver, cache *PermissionCache) *Gate {
	return &Gate{resolver: resolver, cache: cache}
}

// EffectivePermissions retorna el Set del usuario: cache hit o resolve + fill.
// Un usuario inexistente retorna errs.ErrUserNotFound.
func (g *Gate) EffectivePermissions(ctx context.Context, userID string) (Set, error) {
	if perms, ok := g.cache.Get(ctx, userID); ok {
		return perms, nil
	}

	// Paso 1: capturar generaciones antes de leer el store
	tok := g.cache.BeginFill(ctx, userID)

	// Paso 2: resolver desde el store
	perms, err := g.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Paso 3: poblar (se retira sola si hubo invalidación en el medio)
	g.cache.CompleteFill(ctx, userID, perms, tok)
	return perms, nil
}

// Authorize evalúa required para la identidad dada.
// Retorna error solo ante fallas de infraestructura (store caído); toda
// denegación va en Decision.
func (g *Gate) Authorize(ctx context.Context, ac *types.AuthenticatedContext, required []string, mode Mode) (Decision, error) {
	log := logger.From(ctx).With(
		logger.Layer("rbac"),
		logger.Component("rbac.gate"),
		logger.Permissions(required),
		logger.Mode(mode.String()),
	)

	if !ac.Authenticated() {
		return g.deny(log, ReasonUnauthenticated), nil
	}
	log = log.With(logger.UserID(ac.UserID))

	perms, err := g.EffectivePermissions(ctx, ac.UserID)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return g.deny(log, ReasonUserNotFound), nil
		}
		log.Error("permission resolution failed", logger.Err(err))
		return Decision{}, errs.Wrap(errs.KindInternal, "authorization unavailable", err)
	}

	if !Check(perms, required, mode) {
		return g.deny(log, ReasonInsufficientPermission), nil
	}
	metrics.ObserveDecision(true, "")
	log.Debug("authorization granted")
	return Allow(), nil
}

func (g *Gate) deny(log *zap.Logger, reason DenyReason) Decision {
	metrics.ObserveDecision(false, string(reason))
	log.Info("authorization denied", logger.Reason(string(reason)))
	return Deny(reason)
}
