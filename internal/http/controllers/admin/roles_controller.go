package admin

import (
	"net/http"
	"strings"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	dto "github.com/jeancarlosleonvega/admin-dashboard/internal/http/dto/admin"
	httperrors "github.com/jeancarlosleonvega/admin-dashboard/internal/http/errors"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/http/helpers"
	svc "github.com/jeancarlosleonvega/admin-dashboard/internal/services/admin"
)

// RolesController maneja /api/roles.
type RolesController struct {
	service svc.RoleService
}

// NewRolesController crea el controller.
func NewRolesController(service svc.RoleService) *RolesController {
	return &RolesController{service: service}
}

func rolesFilter(r *http.Request) (repository.ListRolesFilter, error) {
	var f repository.ListRolesFilter
	var err error

	f.Search = strings.TrimSpace(r.URL.Query().Get("search"))
	if f.IsSystem, err = helpers.BoolFromQuery(r, "isSystem"); err != nil {
		return f, err
	}
	sortBy, err := helpers.OneOf(r, "sortBy",
		string(repository.RoleSortName), string(repository.RoleSortIsSystem), string(repository.RoleSortCreatedAt))
	if err != nil {
		return f, err
	}
	f.SortBy = repository.RoleSortField(sortBy)
	if f.SortDir, err = helpers.SortDirFromQuery(r); err != nil {
		return f, err
	}
	if f.Page, err = helpers.PageFromQuery(r); err != nil {
		return f, err
	}
	return f, nil
}

// List maneja GET /api/roles
func (c *RolesController) List(w http.ResponseWriter, r *http.Request) {
	f, err := rolesFilter(r)
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

// Get maneja GET /api/roles/{id}
func (c *RolesController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	role, err := c.service.Get(r.Context(), id)
	if err != nil {
		httperrors.Write(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, role)
}

// Create maneja POST /api/roles
func (c *RolesController) Create(w http.ResponseWriter, r *http.Request) {
	var req svc.CreateRoleRequest
	if err := helpers.ReadJSON(w, r, &req, maxAdminBodySize); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	role, err := c.service.Create(r.Context(), req)
	if err != nil {
		httperrors.Write(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/roles/"+role.ID)
	helpers.WriteData(w, http.StatusCreated, role)
}

// Update maneja PUT /api/roles/{id}
func (c *RolesController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req svc.UpdateRoleRequest
	if err := helpers.ReadJSON(w, r, &req, maxAdminBodySize); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	role, err := c.service.Update(r.Context(), id, req)
	if err != nil {
		httperrors.Write(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, role)
}

// Delete maneja DELETE /api/roles/{id}
func (c *RolesController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		httperrors.Write(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, dto.MessageResponse{Message: "Role deleted successfully"})
}
