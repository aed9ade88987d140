package admin

import (
	"net/http"
	"strings"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
	dto "github.com/jeancarlosleonvega/admin-dashboard/internal/http/dto/admin"
	httperrors "github.com/jeancarlosleonvega/admin-dashboard/internal/http/errors"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/http/helpers"
	mw "github.com/jeancarlosleonvega/admin-dashboard/internal/http/middlewares"
	svc "github.com/jeancarlosleonvega/admin-dashboard/internal/services/admin"
)

// UsersController maneja /api/users.
type UsersController struct {
	service svc.UserService
}

// NewUsersController crea el controller.
func NewUsersController(service svc.UserService) *UsersController {
	return &UsersController{service: service}
}

// usersFilter traduce la query string al filtro del repositorio.
func usersFilter(r *http.Request) (repository.ListUsersFilter, error) {
	var f repository.ListUsersFilter
	var err error

	q := r.URL.Query()
	f.Search = strings.TrimSpace(q.Get("search"))
	f.RoleID = strings.TrimSpace(q.Get("roleId"))

	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		st, ok := types.ParseUserStatus(raw)
		if !ok {
			return f, httperrors.ErrInvalidParameter.WithDetail("status must be one of: ACTIVE, INACTIVE, SUSPENDED")
		}
		f.Status = st
	}

	sortBy, err := helpers.OneOf(r, "sortBy",
		string(repository.UserSortFirstName), string(repository.UserSortEmail),
		string(repository.UserSortStatus), string(repository.UserSortCreatedAt))
	if err != nil {
		return f, err
	}
	f.SortBy = repository.UserSortField(sortBy)

	if f.SortDir, err = helpers.SortDirFromQuery(r); err != nil {
		return f, err
	}
	if f.Page, err = helpers.PageFromQuery(r); err != nil {
		return f, err
	}
	return f, nil
}

// List maneja GET /api/users
func (c *UsersController) List(w http.ResponseWriter, r *http.Request) {
	f, err := usersFilter(r)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	page, err := c.service.List(r.Context(), f)
	if err != nil {
		httperrors.Write(w, r, err)
		return
	}
	helpers.WritePage(w, page.Items, page.Meta)
}

// Get maneja GET /api/users/{id}
func (c *UsersController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := c.service.Get(r.Context(), id)
	if err != nil {
		httperrors.Write(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, u)
}

// Create maneja POST /api/users
func (c *UsersController) Create(w http.ResponseWriter, r *http.Request) {
	var req svc.CreateUserRequest
	if err := helpers.ReadJSON(w, r, &req, maxAdminBodySize); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	u, err := c.service.Create(r.Context(), mw.GetUserID(r.Context()), req)
	if err != nil {
		httperrors.Write(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/users/"+u.ID)
	helpers.WriteData(w, http.StatusCreated, u)
}

// Update maneja PUT /api/users/{id}
func (c *UsersController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req svc.UpdateUserRequest
	if err := helpers.ReadJSON(w, r, &req, maxAdminBodySize); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	u, err := c.service.Update(r.Context(), mw.GetUserID(r.Context()), id, req)
	if err != nil {
		httperrors.Write(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, u)
}

// SetPassword maneja PUT /api/users/{id}/password
func (c *UsersController) SetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.SetPasswordRequest
	if err := helpers.ReadJSON(w, r, &req, maxAdminBodySize); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	if err := c.service.SetPassword(r.Context(), id, req.Password); err != nil {
		httperrors.Write(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, dto.MessageResponse{Message: "Password updated successfully"})
}

// Delete maneja DELETE /api/users/{id}
func (c *UsersController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		httperrors.Write(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, dto.MessageResponse{Message: "User deleted successfully"})
}

// BulkDelete maneja POST /api/users/bulk-delete
func (c *UsersController) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req dto.BulkDeleteRequest
	if err := helpers.ReadJSON(w, r, &req, maxAdminBodySize); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	n, err := c.service.BulkDelete(r.Context(), req.IDs)
	if err != nil {
		httperrors.Write(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, dto.BulkDeleteResponse{Count: n})
}
