package auth

import (
	"net/http"

	dto "github.com/jeancarlosleonvega/admin-dashboard/internal/http/dto/auth"
	httperrors "github.com/jeancarlosleonvega/admin-dashboard/internal/http/errors"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/http/helpers"
	mw "github.com/jeancarlosleonvega/admin-dashboard/internal/http/middlewares"
	svc "github.com/jeancarlosleonvega/admin-dashboard/internal/services/auth"
)

// MeController maneja GET /api/auth/me.
type MeController struct {
	service svc.MeService
}

// NewMeController crea el controller.
func NewMeController(service svc.MeService) *MeController {
	return &MeController{service: service}
}

// Me devuelve el perfil, los permisos efectivos y un access token nuevo.
func (c *MeController) Me(w http.ResponseWriter, r *http.Request) {
	userID := mw.GetUserID(r.Context())
	if userID == "" {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	res, err := c.service.Me(r.Context(), userID)
	if err != nil {
		httperrors.Write(w, r, err)
		return
	}

	helpers.WriteData(w, http.StatusOK, dto.SessionResponse{
		User:        res.User,
		Permissions: res.Permissions,
		AccessToken: res.AccessToken,
		ExpiresAt:   res.ExpiresAt,
	})
}
