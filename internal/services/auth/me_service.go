package auth

import (
	"context"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/errs"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
)

// MeService retorna el perfil del usuario autenticado.
type MeService interface {
	Me(ctx context.Context, userID string) (*ProfileResult, error)
}

type meService struct{ deps Deps }

// NewMeService crea el service de perfil.
func NewMeService(deps Deps) MeService {
	return &meService{deps: deps.withDefaults()}
}

func (s *meService) Me(ctx context.Context, userID string) (*ProfileResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.me"),
		logger.Op("Me"),
		logger.UserID(userID),
	)

	user, err := s.deps.Store.Users().GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errs.ErrUserNotFound
		}
		log.Error("user lookup failed", logger.Err(err))
		return nil, errs.Wrap(errs.KindInternal, "load profile", err)
	}

	roles, perms, err := grantsView(ctx, s.deps.Store, user.ID)
	if err != nil {
		return nil, err
	}

	access, exp, err := s.deps.Issuer.IssueAccess(user.ID, user.Email)
	if err != nil {
		log.Error("issue access token failed", logger.Err(err))
		return nil, errs.Wrap(errs.KindInternal, "issue token", err)
	}
	return &ProfileResult{User: user.Safe(roles), Permissions: perms, AccessToken: access, ExpiresAt: exp}, nil
}
