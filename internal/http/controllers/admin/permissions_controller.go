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

// PermissionsController maneja /api/permissions.
type PermissionsController struct {
	service svc.PermissionService
}

// NewPermissionsController crea el controller.
func NewPermissionsController(service svc.PermissionService) *PermissionsController {
	return &PermissionsController{service: service}
}

func permissionsFilter(r *http.Request) (repository.ListPermissionsFilter, error) {
	var f repository.ListPermissionsFilter
	var err error

	q := r.URL.Query()
	f.Search = strings.TrimSpace(q.Get("search"))
	f.Resource = strings.TrimSpace(q.Get("resource"))
	f.Action = strings.TrimSpace(q.Get("action"))

	sortBy, err := helpers.OneOf(r, "sortBy",
		string(repository.PermissionSortResource), string(repository.PermissionSortAction),
		string(repository.PermissionSortCreatedAt))
	if err != nil {
		return f, err
	}
	f.SortBy = repository.PermissionSortField(sortBy)
	if f.SortDir, err = helpers.SortDirFromQuery(r); err != nil {
		return f, err
	}
	if f.Page, err = helpers.PageFromQuery(r); err != nil {
		return f, err
	}
	return f, nil
}

// List maneja GET /api/permissions
func (c *PermissionsController) List(w http.ResponseWriter, r *http.Request) {
	f, err := permissionsFilter(r)
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

// Resources maneja GET /api/permissions/resources
func (c *PermissionsController) Resources(w http.ResponseWriter, r *http.Request) {
	res, err := c.service.Resources(r.Context())
	if err != nil {
		httperrors.Write(w, r, err)
		return
	}
	if res == nil {
		res = []string{}
	}
	helpers.WriteData(w, http.StatusOK, res)
}

// Get maneja GET /api/permissions/{id}
func (c *PermissionsController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := c.service.Get(r.Context(), id)
	if err != nil {
		httperrors.Write(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, p)
}

// Create maneja POST /api/permissions
func (c *PermissionsController) Create(w http.ResponseWriter, r *http.Request) {
	var req svc.CreatePermissionRequest
	if err := helpers.ReadJSON(w, r, &req, maxAdminBodySize); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	p, err := c.service.Create(r.Context(), req)
	if err != nil {
		httperrors.Write(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/permissions/"+p.ID)
	helpers.WriteData(w, http.StatusCreated, p)
}

// Update maneja PUT /api/permissions/{id}
func (c *PermissionsController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req svc.UpdatePermissionRequest
	if err := helpers.ReadJSON(w, r, &req, maxAdminBodySize); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	p, err := c.service.Update(r.Context(), id, req)
	if err != nil {
		httperrors.Write(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, p)
}

// Delete maneja DELETE /api/permissions/{id}
func (c *PermissionsController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		httperrors.Write(w, r, err)
		return
	}
	helpers.WriteData(w, http.StatusOK, dto.MessageResponse{Message: "Permission deleted successfully"})
}

// BulkDelete maneja POST /api/permissions/bulk-delete
func (c *PermissionsController) BulkDelete(w http.ResponseWriter, r *http.Request) {
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
