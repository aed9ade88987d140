package auth

import (
	"context"
	"sync"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/errs"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/metrics"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/validation"
)

// LoginService autentica por email y password.
type LoginService interface {
	Login(ctx context.Context, in LoginRequest) (*LoginResult, error)
}

type loginService struct {
	deps Deps

	dummyOnce sync.Once
	dummyHash string
}

// NewLoginService crea un nuevo servicio de login.
func NewLoginService(deps Deps) LoginService {
	return &loginService{deps: deps.withDefaults()}
}

// burnVerify iguala el costo de un email inexistente con el de uno existente.
func (s *loginService) burnVerify(plain string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.deps.Hasher.Hash("timing-equalizer-not-a-password")
	})
	if s.dummyHash != "" {
		_ = s.deps.Hasher.Verify(plain, s.dummyHash)
	}
}

func (s *loginService) Login(ctx context.Context, in LoginRequest) (res *LoginResult, err error) {
	defer func() { metrics.ObserveAuth("login", err) }()

	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("Login"),
	)

	// Paso 0: Normalización
	in.Email = validation.NormalizeEmail(in.Email)
	if in.Email == "" || in.Password == "" {
		return nil, errs.Invalid("email and password are required")
	}

	// Paso 1: Buscar usuario
	user, err := s.deps.Store.Users().GetByEmail(ctx, in.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			s.burnVerify(in.Password)
			log.Debug("user not found")
			return nil, errs.ErrInvalidCredentials
		}
		log.Error("user lookup failed", logger.Err(err))
		return nil, errs.Wrap(errs.KindInternal, "login failed", err)
	}
	log = log.With(logger.UserID(user.ID))

	// Paso 2: Estado de la cuenta
	if user.Status != types.UserStatusActive {
		log.Info("login rejected: account not active", logger.String("status", string(user.Status)))
		return nil, errs.ErrAccountNotActive
	}

	// Paso 3: Password
	if !s.deps.Hasher.Verify(in.Password, user.PasswordHash) {
		log.Debug("password check failed")
		return nil, errs.ErrInvalidCredentials
	}

	// Paso 4: Tokens. El refresh lleva la versión vigente del usuario.
	access, accessExp, err := s.deps.Issuer.IssueAccess(user.ID, user.Email)
	if err != nil {
		log.Error("issue access token failed", logger.Err(err))
		return nil, errs.Wrap(errs.KindInternal, "issue token", err)
	}
	refresh, refreshExp, err := s.deps.Issuer.IssueRefresh(user.ID, user.TokenVersion)
	if err != nil {
		log.Error("issue refresh token failed", logger.Err(err))
		return nil, errs.Wrap(errs.KindInternal, "issue token", err)
	}

	// Paso 5: Roles y permisos efectivos
	roles, perms, err := grantsView(ctx, s.deps.Store, user.ID)
	if err != nil {
		log.Error("load grants failed", logger.Err(err))
		return nil, err
	}

	log.Info("login succeeded", logger.Count(len(perms)))
	return &LoginResult{
		User:             user.Safe(roles),
		Permissions:      perms,
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}
