// Package admin contiene los controllers de /api/users, /api/roles y
// /api/permissions.
package admin

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/jeancarlosleonvega/admin-dashboard/internal/http/errors"
	svc "github.com/jeancarlosleonvega/admin-dashboard/internal/services/admin"
)

const maxAdminBodySize = 256 * 1024 // 256KB

// Controllers agrupa todos los controllers del dominio admin.
type Controllers struct {
	Users       *UsersController
	Roles       *RolesController
	Permissions *PermissionsController
}

// NewControllers crea el agregador de controllers admin.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Users:       NewUsersController(s.Users),
		Roles:       NewRolesController(s.Roles),
		Permissions: NewPermissionsController(s.Permissions),
	}
}

// pathID lee {id} de la ruta; vacío escribe 400.
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("id is required"))
		return "", false
	}
	return id, true
}
