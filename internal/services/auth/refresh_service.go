package auth

import (
	"context"
	"strings"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/errs"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
	jwtx "github.com/jeancarlosleonvega/admin-dashboard/internal/jwt"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/metrics"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
)

// RefreshService canjea un refresh token vigente por un access token nuevo.
type RefreshService interface {
	Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error)
}

type refreshService struct{ deps Deps }

// NewRefreshService crea el service de refresh.
func NewRefreshService(deps Deps) RefreshService {
	return &refreshService{deps: deps.withDefaults()}
}

func (s *refreshService) Refresh(ctx context.Context, refreshToken string) (res *RefreshResult, err error) {
	defer func() { metrics.ObserveAuth("refresh", err) }()

	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.refresh"),
		logger.Op("Refresh"),
	)

	// Paso 1: Firma, expiración y tipo
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, errs.ErrInvalidToken.WithMessage("refresh token required")
	}
	payload, err := s.deps.Issuer.VerifyRefresh(refreshToken)
	if err != nil {
		log.Debug("refresh token rejected", logger.Err(err))
		return nil, err
	}
	log = log.With(logger.UserID(payload.UserID))

	// Paso 2: Estado actual del usuario
	user, err := s.deps.Store.Users().GetByID(ctx, payload.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			log.Info("refresh for missing user")
			return nil, errs.ErrUserInactive
		}
		log.Error("user lookup failed", logger.Err(err))
		return nil, errs.Wrap(errs.KindInternal, "refresh failed", err)
	}

	// Paso 3: Versión. Distinto de firma inválida: el token fue revocado.
	if !jwtx.IsRefreshCurrent(payload, user.TokenVersion) {
		log.Info("refresh token revoked",
			logger.Int64("token_version", payload.TokenVersion),
			logger.Int64("current_version", user.TokenVersion))
		return nil, errs.ErrTokenRevoked
	}
	if user.Status != types.UserStatusActive {
		log.Info("refresh for inactive user", logger.String("status", string(user.Status)))
		return nil, errs.ErrUserInactive
	}

	access, exp, err := s.deps.Issuer.IssueAccess(user.ID, user.Email)
	if err != nil {
		log.Error("issue access token failed", logger.Err(err))
		return nil, errs.Wrap(errs.KindInternal, "issue token", err)
	}
	log.Debug("access token refreshed")
	return &RefreshResult{AccessToken: access, ExpiresAt: exp}, nil
}
