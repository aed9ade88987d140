package auth

import (
	"net/http"

	dto "github.com/jeancarlosleonvega/admin-dashboard/internal/http/dto/auth"
	httperrors "github.com/jeancarlosleonvega/admin-dashboard/internal/http/errors"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/http/helpers"
	mw "github.com/jeancarlosleonvega/admin-dashboard/internal/http/middlewares"
	svc "github.com/jeancarlosleonvega/admin-dashboard/internal/services/auth"
)

// LogoutController maneja el endpoint de logout.
type LogoutController struct {
	service svc.LogoutService
	cookie  helpers.CookieConfig
}

// NewLogoutController crea un nuevo controller de logout.
func NewLogoutController(service svc.LogoutService, cookie helpers.CookieConfig) *LogoutController {
	return &LogoutController{service: service, cookie: cookie}
}

// Logout maneja POST /api/auth/logout (detrás de RequireAuth). Revoca todos
// los refresh tokens del usuario y borra la cookie.
func (c *LogoutController) Logout(w http.ResponseWriter, r *http.Request) {
	userID := mw.GetUserID(r.Context())
	if userID == "" {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	if err := c.service.Logout(r.Context(), userID); err != nil {
		httperrors.Write(w, r, err)
		return
	}

	http.SetCookie(w, helpers.BuildDeletionCookie(c.cookie))
	helpers.WriteData(w, http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}
