package auth

import (
	"net/http"

	dto "github.com/jeancarlosleonvega/admin-dashboard/internal/http/dto/auth"
	httperrors "github.com/jeancarlosleonvega/admin-dashboard/internal/http/errors"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/http/helpers"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
	svc "github.com/jeancarlosleonvega/admin-dashboard/internal/services/auth"
)

const maxAuthBodySize = 64 * 1024 // 64KB

// LoginController maneja el endpoint de login.
type LoginController struct {
	service svc.LoginService
	deps    Deps
}

// NewLoginController crea un nuevo controller de login.
func NewLoginController(service svc.LoginService, deps Deps) *LoginController {
	return &LoginController{service: service, deps: deps}
}

// Login maneja POST /api/auth/login
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Login"))

	var req dto.LoginRequest
	if err := helpers.ReadJSON(w, r, &req, maxAuthBodySize); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	if !helpers.EnforceLoginLimit(w, r, c.deps.Limiter, c.deps.LoginRate, req.Email) {
		return
	}

	res, err := c.service.Login(ctx, svc.LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		log.Debug("login failed", logger.Err(err))
		httperrors.Write(w, r, err)
		return
	}

	http.SetCookie(w, helpers.BuildCookie(c.deps.Cookie, res.RefreshToken, res.RefreshExpiresAt))
	helpers.WriteData(w, http.StatusOK, dto.SessionResponse{
		User:        res.User,
		Permissions: res.Permissions,
		AccessToken: res.AccessToken,
		ExpiresAt:   res.AccessExpiresAt,
	})
}
