package auth

import (
	"context"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/errs"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/metrics"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
)

// LogoutService revoca todos los refresh tokens del usuario.
type LogoutService interface {
	Logout(ctx context.Context, userID string) error
}

type logoutService struct{ deps Deps }

// NewLogoutService crea el service de logout.
func NewLogoutService(deps Deps) LogoutService {
	return &logoutService{deps: deps.withDefaults()}
}

// Logout incrementa token_version (atómico en el store) e invalida el cache.
// Los access tokens ya emitidos siguen válidos hasta su expiración.
func (s *logoutService) Logout(ctx context.Context, userID string) (err error) {
	defer func() { metrics.ObserveAuth("logout", err) }()

	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.logout"),
		logger.Op("Logout"),
		logger.UserID(userID),
	)

	v, err := s.deps.Store.Users().IncrementTokenVersion(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return errs.ErrUserNotFound
		}
		log.Error("token version bump failed", logger.Err(err))
		return errs.Wrap(errs.KindInternal, "logout failed", err)
	}

	if err := s.deps.Cache.Invalidate(ctx, userID); err != nil {
		log.Error("permission cache invalidation failed", logger.Err(err))
	}
	log.Info("logged out", logger.Int64("token_version", v))
	return nil
}
