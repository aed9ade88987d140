package auth

import (
	"net/http"

	dto "github.com/jeancarlosleonvega/admin-dashboard/internal/http/dto/auth"
	httperrors "github.com/jeancarlosleonvega/admin-dashboard/internal/http/errors"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/http/helpers"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
	svc "github.com/jeancarlosleonvega/admin-dashboard/internal/services/auth"
)

// PasswordController maneja forgot-password y reset-password.
type PasswordController struct {
	service svc.PasswordService
	deps    Deps
}

// NewPasswordController crea el controller.
func NewPasswordController(service svc.PasswordService, deps Deps) *PasswordController {
	return &PasswordController{service: service, deps: deps}
}

// Forgot maneja POST /api/auth/forgot-password. Responde lo mismo exista o
// no la cuenta.
func (c *PasswordController) Forgot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !helpers.EnforceForgotLimit(w, r, c.deps.Limiter, c.deps.ForgotRate) {
		return
	}

	var req dto.ForgotPasswordRequest
	if err := helpers.ReadJSON(w, r, &req, maxAuthBodySize); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	if err := c.service.ForgotPassword(ctx, req.Email); err != nil {
		// solo errores de validación llegan acá; el resto se absorbe en el service
		logger.From(ctx).Debug("forgot password rejected",
			logger.Layer("controller"), logger.Op("PasswordController.Forgot"), logger.Err(err))
		httperrors.Write(w, r, err)
		return
	}

	helpers.WriteData(w, http.StatusOK, dto.MessageResponse{
		Message: "If the email exists, a reset link has been sent",
	})
}

// Reset maneja POST /api/auth/reset-password.
func (c *PasswordController) Reset(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := helpers.ReadJSON(w, r, &req, maxAuthBodySize); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	if err := c.service.ResetPassword(r.Context(), svc.ResetPasswordRequest{
		Token:    req.Token,
		Password: req.Password,
	}); err != nil {
		httperrors.Write(w, r, err)
		return
	}

	helpers.WriteData(w, http.StatusOK, dto.MessageResponse{Message: "Password has been reset successfully"})
}
