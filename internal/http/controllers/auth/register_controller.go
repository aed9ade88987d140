package auth

import (
	"net/http"

	dto "github.com/jeancarlosleonvega/admin-dashboard/internal/http/dto/auth"
	httperrors "github.com/jeancarlosleonvega/admin-dashboard/internal/http/errors"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/http/helpers"
	svc "github.com/jeancarlosleonvega/admin-dashboard/internal/services/auth"
)

// RegisterController maneja POST /api/auth/register.
type RegisterController struct {
	service svc.RegisterService
}

// NewRegisterController crea el controller.
func NewRegisterController(service svc.RegisterService) *RegisterController {
	return &RegisterController{service: service}
}

// Register da de alta un usuario ACTIVE con el rol por defecto. No emite
// refresh token: la sesión completa se obtiene con login.
func (c *RegisterController) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := helpers.ReadJSON(w, r, &req, maxAuthBodySize); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	res, err := c.service.Register(r.Context(), svc.RegisterRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		httperrors.Write(w, r, err)
		return
	}

	helpers.WriteData(w, http.StatusCreated, dto.SessionResponse{
		User:        res.User,
		Permissions: res.Permissions,
		AccessToken: res.AccessToken,
		ExpiresAt:   res.ExpiresAt,
	})
}
