package auth

import (
	"context"
	"strings"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/errs"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/metrics"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/validation"
)

// RegisterService da de alta un usuario ACTIVE con el rol por defecto.
type RegisterService interface {
	Register(ctx context.Context, in RegisterRequest) (*ProfileResult, error)
}

type registerService struct{ deps Deps }

// NewRegisterService crea el service de registro.
func NewRegisterService(deps Deps) RegisterService {
	return &registerService{deps: deps.withDefaults()}
}

func (s *registerService) Register(ctx context.Context, in RegisterRequest) (res *ProfileResult, err error) {
	defer func() { metrics.ObserveAuth("register", err) }()

	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.register"),
		logger.Op("Register"),
	)

	// Paso 0: Normalización y validación
	in.Email = validation.NormalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if !validation.ValidEmail(in.Email) {
		return nil, errs.Invalid("a valid email is required")
	}
	if !validation.ValidPersonName(in.FirstName) || !validation.ValidPersonName(in.LastName) {
		return nil, errs.Invalid("names must be at most %d characters", validation.MaxNameLength)
	}
	if err := validatePassword(s.deps.Policy, in.Password); err != nil {
		return nil, err
	}

	// Paso 1: Rol por defecto (si existe)
	var defaultRole *repository.Role
	if s.deps.DefaultRole != "" {
		role, err := s.deps.Store.Roles().GetByName(ctx, s.deps.DefaultRole)
		switch {
		case err == nil:
			defaultRole = role
		case repository.IsNotFound(err):
			log.Warn("default role not found, user registered without roles", logger.String("role", s.deps.DefaultRole))
		default:
			log.Error("default role lookup failed", logger.Err(err))
			return nil, errs.Wrap(errs.KindInternal, "register failed", err)
		}
	}

	// Paso 2: Crear usuario
	hash, err := s.deps.Hasher.Hash(in.Password)
	if err != nil {
		log.Error("password hash failed", logger.Err(err))
		return nil, errs.Wrap(errs.KindInternal, "register failed", err)
	}
	user, err := s.deps.Store.Users().Create(ctx, repository.CreateUserInput{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Status:       types.UserStatusActive,
	})
	if err != nil {
		if repository.IsConflict(err) {
			return nil, errs.ErrDuplicateEmail
		}
		log.Error("user create failed", logger.Err(err))
		return nil, errs.Wrap(errs.KindInternal, "register failed", err)
	}
	log = log.With(logger.UserID(user.ID))

	if defaultRole != nil {
		if err := s.deps.Store.RBAC().AssignRole(ctx, user.ID, defaultRole.ID, user.ID); err != nil {
			// compensar: sin esto un reintento choca con DuplicateEmail
			if derr := s.deps.Store.Users().Delete(ctx, user.ID); derr != nil {
				log.Error("rollback of registered user failed", logger.Err(derr))
			}
			log.Error("default role assignment failed", logger.Err(err))
			return nil, errs.Wrap(errs.KindInternal, "register failed", err)
		}
	}

	// Paso 3: Perfil + access token
	roles, perms, err := grantsView(ctx, s.deps.Store, user.ID)
	if err != nil {
		return nil, err
	}
	access, exp, err := s.deps.Issuer.IssueAccess(user.ID, user.Email)
	if err != nil {
		log.Error("issue access token failed", logger.Err(err))
		return nil, errs.Wrap(errs.KindInternal, "issue token", err)
	}

	log.Info("user registered")
	return &ProfileResult{User: user.Safe(roles), Permissions: perms, AccessToken: access, ExpiresAt: exp}, nil
}
