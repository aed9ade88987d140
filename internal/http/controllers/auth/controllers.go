// Package auth contiene los controllers de /api/auth.
package auth

import (
	"github.com/jeancarlosleonvega/admin-dashboard/internal/http/helpers"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/rate"
	svc "github.com/jeancarlosleonvega/admin-dashboard/internal/services/auth"
)

// Deps contiene lo que necesitan los controllers auth además de los services.
type Deps struct {
	Cookie     helpers.CookieConfig // cookie del refresh token
	Limiter    rate.MultiLimiter    // nil = sin límites por endpoint
	LoginRate  rate.Policy
	ForgotRate rate.Policy
}

// Controllers agrupa todos los controllers del dominio auth.
type Controllers struct {
	Login    *LoginController
	Refresh  *RefreshController
	Logout   *LogoutController
	Me       *MeController
	Register *RegisterController
	Password *PasswordController
}

// NewControllers crea el agregador de controllers auth.
func NewControllers(s svc.Services, d Deps) *Controllers {
	return &Controllers{
		Login:    NewLoginController(s.Login, d),
		Refresh:  NewRefreshController(s.Refresh, d.Cookie),
		Logout:   NewLogoutController(s.Logout, d.Cookie),
		Me:       NewMeController(s.Me),
		Register: NewRegisterController(s.Register),
		Password: NewPasswordController(s.Password, d),
	}
}
