// Package authz expone la verificación de bearer tokens y la decisión de
// autorización por request sobre el Gate.
package authz

import (
	"context"
	"strings"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/errs"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
	jwtx "github.com/jeancarlosleonvega/admin-dashboard/internal/jwt"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/metrics"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/rbac"
)

// Deps contiene las dependencias del service.
type Deps struct {
	Issuer *jwtx.Issuer
	Gate   *rbac.Gate
}

// AuthorizedContext es la identidad que pasó el Gate para un request.
type AuthorizedContext struct {
	UserID string
	Email  string
}

// Service verifica identidades y decide permisos.
type Service interface {
	// Authenticate verifica el header Authorization. Sin bearer retorna
	// ErrUnauthenticated; firma, tipo o expiración inválidos, ErrInvalidToken.
	Authenticate(ctx context.Context, authorization string) (*types.AuthenticatedContext, error)

	// AuthorizeRequest autentica y evalúa required. Una denegación retorna
	// ctx nil y la Decision con su motivo; error queda para fallas de
	// infraestructura.
	AuthorizeRequest(ctx context.Context, authorization string, required []string, mode rbac.Mode) (*AuthorizedContext, rbac.Decision, error)

	// Authorize evalúa required para una identidad ya verificada.
	Authorize(ctx context.Context, ac *types.AuthenticatedContext, required []string, mode rbac.Mode) (rbac.Decision, error)
}

type service struct{ deps Deps }

// NewService crea el service de autorización.
func NewService(deps Deps) Service {
	return &service{deps: deps}
}

// BearerToken extrae el token de un header "Bearer <token>".
func BearerToken(authorization string) (string, bool) {
	const prefix = "bearer "
	h := strings.TrimSpace(authorization)
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(h[len(prefix):])
	return tok, tok != ""
}

func (s *service) Authenticate(ctx context.Context, authorization string) (*types.AuthenticatedContext, error) {
	raw, ok := BearerToken(authorization)
	if !ok {
		return nil, errs.ErrUnauthenticated
	}
	p, err := s.deps.Issuer.VerifyAccess(raw)
	if err != nil {
		logger.From(ctx).Debug("access token rejected",
			logger.Component("authz"), logger.Op("Authenticate"), logger.Err(err))
		return nil, errs.ErrInvalidToken
	}
	return &types.AuthenticatedContext{UserID: p.UserID, Email: p.Email}, nil
}

func (s *service) AuthorizeRequest(ctx context.Context, authorization string, required []string, mode rbac.Mode) (*AuthorizedContext, rbac.Decision, error) {
	ac, aerr := s.Authenticate(ctx, authorization)
	if errs.KindOf(aerr) == errs.KindInvalidToken {
		// token presente pero inválido: el challenge debe decir invalid_token
		metrics.ObserveDecision(false, string(rbac.ReasonInvalidToken))
		return nil, rbac.Deny(rbac.ReasonInvalidToken), nil
	}
	// sin bearer el Gate deniega como unauthenticated
	d, err := s.Authorize(ctx, ac, required, mode)
	if err != nil || !d.Allowed {
		return nil, d, err
	}
	return &AuthorizedContext{UserID: ac.UserID, Email: ac.Email}, d, nil
}

func (s *service) Authorize(ctx context.Context, ac *types.AuthenticatedContext, required []string, mode rbac.Mode) (rbac.Decision, error) {
	return s.deps.Gate.Authorize(ctx, ac, required, mode)
}
