package auth

import (
	"context"
	"strings"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/errs"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/email"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/metrics"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
	tokens "github.com/jeancarlosleonvega/admin-dashboard/internal/security/token"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/validation"
)

// PasswordService implementa forgot/reset de password.
type PasswordService interface {
	// ForgotPassword nunca revela si el email existe: retorna nil salvo
	// por input vacío.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword consume el token (una sola vez) y fija el password.
	ResetPassword(ctx context.Context, in ResetPasswordRequest) error
}

type passwordService struct{ deps Deps }

// NewPasswordService crea el service de reset.
func NewPasswordService(deps Deps) PasswordService {
	return &passwordService{deps: deps.withDefaults()}
}

func (s *passwordService) ForgotPassword(ctx context.Context, addr string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.password"),
		logger.Op("ForgotPassword"),
	)

	addr = validation.NormalizeEmail(addr)
	if addr == "" {
		return errs.Invalid("email is required")
	}

	// Paso 1: token y hash se generan siempre, exista o no el usuario
	raw, err := tokens.GenerateHex(tokens.ResetTokenBytes)
	if err != nil {
		log.Error("reset token generation failed", logger.Err(err))
		metrics.ObserveAuth("forgot_password", err)
		return nil
	}
	hash := tokens.SHA256Hex(raw)

	// Paso 2: Buscar usuario
	user, err := s.deps.Store.Users().GetByEmail(ctx, addr)
	if err != nil {
		if !repository.IsNotFound(err) {
			log.Error("user lookup failed", logger.Err(err))
			metrics.ObserveAuth("forgot_password", err)
		} else {
			log.Debug("forgot password for unknown email")
			metrics.ObserveAuth("forgot_password", nil)
		}
		return nil
	}
	log = log.With(logger.UserID(user.ID))

	// Paso 3: Persistir solo el hash (borra tokens previos del usuario)
	expires := s.deps.Now().Add(s.deps.ResetTTL)
	if _, err := s.deps.Store.PasswordResets().Create(ctx, user.ID, hash, expires); err != nil {
		log.Error("reset token persist failed", logger.Err(err))
		metrics.ObserveAuth("forgot_password", err)
		return nil
	}

	// Paso 4: Enviar el token crudo fuera de banda
	err = s.send(ctx, user, raw)
	if err != nil {
		log.Error("reset email failed", logger.Err(err))
	} else {
		log.Info("reset email sent")
	}
	metrics.ObserveAuth("forgot_password", err)
	return nil
}

func (s *passwordService) send(ctx context.Context, user *repository.User, raw string) error {
	link, err := email.ResetLink(s.deps.ResetURL, raw)
	if err != nil {
		return err
	}
	msg, err := email.RenderReset(user.Email, email.ResetVars{
		Name:      strings.TrimSpace(user.FirstName),
		UserEmail: user.Email,
		Link:      link,
		TTL:       email.HumanTTL(s.deps.ResetTTL),
	})
	if err != nil {
		return err
	}
	return s.deps.Mailer.Send(ctx, msg)
}

func (s *passwordService) ResetPassword(ctx context.Context, in ResetPasswordRequest) (err error) {
	defer func() { metrics.ObserveAuth("reset_password", err) }()

	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.password"),
		logger.Op("ResetPassword"),
	)

	in.Token = strings.TrimSpace(in.Token)
	if in.Token == "" {
		return errs.ErrInvalidResetToken
	}
	if err := validatePassword(s.deps.Policy, in.Password); err != nil {
		return err
	}

	// Paso 1: rechazo rápido sin pagar el hash del password
	hash := tokens.SHA256Hex(in.Token)
	now := s.deps.Now()
	if _, err := s.deps.Store.PasswordResets().FindValidByHash(ctx, hash, now); err != nil {
		if repository.IsNotFound(err) {
			log.Debug("reset token not valid")
			return errs.ErrInvalidResetToken
		}
		log.Error("reset token lookup failed", logger.Err(err))
		return errs.Wrap(errs.KindInternal, "reset failed", err)
	}

	// Paso 2: marcar usado + nuevo password + token_version++ en una unidad
	newHash, err := s.deps.Hasher.Hash(in.Password)
	if err != nil {
		log.Error("password hash failed", logger.Err(err))
		return errs.Wrap(errs.KindInternal, "reset failed", err)
	}
	userID, err := s.deps.Store.PasswordResets().Consume(ctx, hash, newHash, now)
	if err != nil {
		if repository.IsNotFound(err) {
			// otro request lo consumió entre el paso 1 y el 2
			log.Info("reset token consumed concurrently")
			return errs.ErrInvalidResetToken
		}
		log.Error("reset consume failed", logger.Err(err))
		return errs.Wrap(errs.KindInternal, "reset failed", err)
	}
	log = log.With(logger.UserID(userID))

	if err := s.deps.Cache.Invalidate(ctx, userID); err != nil {
		log.Error("permission cache invalidation failed", logger.Err(err))
	}
	log.Info("password reset")
	return nil
}
