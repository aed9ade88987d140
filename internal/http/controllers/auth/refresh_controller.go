package auth

import (
	"net/http"
	"strings"

	dto "github.com/jeancarlosleonvega/admin-dashboard/internal/http/dto/auth"
	httperrors "github.com/jeancarlosleonvega/admin-dashboard/internal/http/errors"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/http/helpers"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
	svc "github.com/jeancarlosleonvega/admin-dashboard/internal/services/auth"
)

// RefreshController maneja el endpoint de refresh.
type RefreshController struct {
	service svc.RefreshService
	cookie  helpers.CookieConfig
}

// NewRefreshController crea un nuevo controller de refresh.
func NewRefreshController(service svc.RefreshService, cookie helpers.CookieConfig) *RefreshController {
	return &RefreshController{service: service, cookie: cookie}
}

// Refresh maneja POST /api/auth/refresh. La cookie tiene prioridad sobre el
// body.
func (c *RefreshController) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("RefreshController.Refresh"))

	token := ""
	if ck, err := r.Cookie(c.cookie.Name); err == nil {
		token = strings.TrimSpace(ck.Value)
	}
	if token == "" {
		var req dto.RefreshRequest
		if err := helpers.ReadJSON(w, r, &req, maxAuthBodySize); err != nil {
			httperrors.WriteError(w, err)
			return
		}
		token = strings.TrimSpace(req.RefreshToken)
	}
	if token == "" {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail("refresh token not provided"))
		return
	}

	res, err := c.service.Refresh(ctx, token)
	if err != nil {
		log.Debug("refresh rejected", logger.Err(err))
		httperrors.Write(w, r, err)
		return
	}

	helpers.WriteData(w, http.StatusOK, dto.TokenResponse{
		AccessToken: res.AccessToken,
		ExpiresAt:   res.ExpiresAt,
	})
}
