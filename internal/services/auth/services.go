// Package auth contiene los services de autenticación: login, refresh,
// logout, me, register y el flujo de reset de password.
package auth

import (
	"time"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/email"
	jwtx "github.com/jeancarlosleonvega/admin-dashboard/internal/jwt"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/rbac"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/security/password"
)

// DefaultResetTTL es la vigencia de un token de reset.
const DefaultResetTTL = time.Hour

// Deps contiene las dependencias para crear los services auth.
type Deps struct {
	Store       repository.Store
	Issuer      *jwtx.Issuer
	Cache       *rbac.PermissionCache // nil = sin cache
	Hasher      password.Hasher
	Policy      password.Policy
	Mailer      email.Sender
	ResetTTL    time.Duration
	ResetURL    string // link del frontend; el token va en ?token=
	DefaultRole string // rol asignado en register; vacío = ninguno
	Now         func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.ResetTTL <= 0 {
		d.ResetTTL = DefaultResetTTL
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Mailer == nil {
		d.Mailer = email.LogSender{}
	}
	if d.Policy == (password.Policy{}) {
		d.Policy = password.DefaultPolicy
	}
	return d
}

// Services agrupa todos los services del dominio auth.
type Services struct {
	Login    LoginService
	Refresh  RefreshService
	Logout   LogoutService
	Me       MeService
	Register RegisterService
	Password PasswordService
}

// NewServices crea el agregador de services auth.
func NewServices(d Deps) Services {
	d = d.withDefaults()
	return Services{
		Login:    NewLoginService(d),
		Refresh:  NewRefreshService(d),
		Logout:   NewLogoutService(d),
		Me:       NewMeService(d),
		Register: NewRegisterService(d),
		Password: NewPasswordService(d),
	}
}
