package admin

import (
	"context"
	"strings"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/audit"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/errs"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/rbac"
)

const componentPermissions = "admin.permissions"

// PermissionService administra el catálogo de permisos.
type PermissionService interface {
	List(ctx context.Context, f repository.ListPermissionsFilter) (*Page[repository.Permission], error)
	Get(ctx context.Context, id string) (*repository.Permission, error)
	Create(ctx context.Context, in CreatePermissionRequest) (*repository.Permission, error)
	Update(ctx context.Context, id string, in UpdatePermissionRequest) (*repository.Permission, error)

	// Delete rechaza permisos asignados a algún rol.
	Delete(ctx context.Context, id string) error

	BulkDelete(ctx context.Context, ids []string) (int, error)
	Resources(ctx context.Context) ([]string, error)
}

type permissionService struct{ deps Deps }

// NewPermissionService crea el service de permisos.
func NewPermissionService(deps Deps) PermissionService {
	return &permissionService{deps: deps}
}

func (s *permissionService) List(ctx context.Context, f repository.ListPermissionsFilter) (*Page[repository.Permission], error) {
	log := serviceLogger(ctx, componentPermissions, "List")

	f.Search = strings.TrimSpace(f.Search)
	f.Resource = strings.ToLower(strings.TrimSpace(f.Resource))
	f.Action = strings.ToLower(strings.TrimSpace(f.Action))
	f.Page = f.Page.Normalize(types.DefaultPermissionPageLimit)
	perms, total, err := s.deps.Store.Permissions().List(ctx, f)
	if err != nil {
		return nil, internal(log, "list permissions failed", err)
	}
	return &Page[repository.Permission]{Items: perms, Meta: types.NewPageMeta(f.Page, total)}, nil
}

func (s *permissionService) Get(ctx context.Context, id string) (*repository.Permission, error) {
	p, err := s.deps.Store.Permissions().GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("permission")
		}
		return nil, internal(serviceLogger(ctx, componentPermissions, "Get"), "get permission failed", err)
	}
	return p, nil
}

func normalizePart(field string, v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	n, err := rbac.NormalizePart(field, *v)
	if err != nil {
		return nil, errs.New(errs.KindInvalidInput, err.Error())
	}
	return &n, nil
}

func (s *permissionService) Create(ctx context.Context, in CreatePermissionRequest) (*repository.Permission, error) {
	log := serviceLogger(ctx, componentPermissions, "Create")

	resource, err := normalizePart("resource", &in.Resource)
	if err != nil {
		return nil, err
	}
	action, err := normalizePart("action", &in.Action)
	if err != nil {
		return nil, err
	}
	desc, err := cleanDescription(in.Description)
	if err != nil {
		return nil, err
	}

	p, err := s.deps.Store.Permissions().Create(ctx, repository.CreatePermissionInput{
		Resource:    *resource,
		Action:      *action,
		Description: desc,
	})
	if err != nil {
		if repository.IsConflict(err) {
			return nil, errs.ErrDuplicatePerm
		}
		return nil, internal(log, "create permission failed", err)
	}
	log.Info("permission created", logger.Permission(rbac.Of(*p)))
	audit.Log(ctx, audit.PermissionCreated, p.ID, logger.Permission(rbac.Of(*p)))
	return p, nil
}

func (s *permissionService) Update(ctx context.Context, id string, in UpdatePermissionRequest) (*repository.Permission, error) {
	log := serviceLogger(ctx, componentPermissions, "Update").With(logger.String("permission_id", id))

	var (
		upd repository.UpdatePermissionInput
		err error
	)
	if upd.Resource, err = normalizePart("resource", in.Resource); err != nil {
		return nil, err
	}
	if upd.Action, err = normalizePart("action", in.Action); err != nil {
		return nil, err
	}
	if upd.Description, err = cleanDescription(in.Description); err != nil {
		return nil, err
	}

	before, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.deps.Store.Permissions().Update(ctx, id, upd)
	if err != nil {
		switch {
		case repository.IsConflict(err):
			return nil, errs.ErrDuplicatePerm
		case repository.IsNotFound(err):
			return nil, notFound("permission")
		}
		return nil, internal(log, "update permission failed", err)
	}

	// el PermissionString cambió para todos los roles que lo tienen
	renamed := rbac.Of(*before) != rbac.Of(*p)
	if renamed {
		invalidateAll(ctx, s.deps.Cache, log)
	}
	log.Info("permission updated", logger.Bool("renamed", renamed))
	audit.Log(ctx, audit.PermissionUpdated, id, logger.Bool("renamed", renamed))
	return p, nil
}

func (s *permissionService) Delete(ctx context.Context, id string) error {
	log := serviceLogger(ctx, componentPermissions, "Delete").With(logger.String("permission_id", id))

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	assigned, err := s.deps.Store.Permissions().IsAssignedToRoles(ctx, id)
	if err != nil {
		return internal(log, "permission usage check failed", err)
	}
	if assigned {
		return errs.Conflict("permission is assigned to roles; remove it from all roles first")
	}
	if err := s.deps.Store.Permissions().Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return notFound("permission")
		}
		return internal(log, "delete permission failed", err)
	}
	// el borrado arrastra grants que pudieron aparecer después del chequeo
	invalidateAll(ctx, s.deps.Cache, log)
	log.Info("permission deleted")
	audit.Log(ctx, audit.PermissionDeleted, id)
	return nil
}

func (s *permissionService) BulkDelete(ctx context.Context, ids []string) (int, error) {
	log := serviceLogger(ctx, componentPermissions, "BulkDelete")

	ids = cleanIDs(ids)
	if len(ids) == 0 {
		return 0, errs.Invalid("ids are required")
	}
	n, err := s.deps.Store.Permissions().BulkDelete(ctx, ids)
	if err != nil {
		return 0, internal(log, "bulk delete permissions failed", err)
	}
	// puede haber quitado permisos asignados a roles
	invalidateAll(ctx, s.deps.Cache, log)
	log.Info("permissions deleted", logger.Count(n))
	audit.Log(ctx, audit.PermissionDeleted, "", logger.Count(n), logger.Bool("bulk", true))
	return n, nil
}

func (s *permissionService) Resources(ctx context.Context) ([]string, error) {
	res, err := s.deps.Store.Permissions().DistinctResources(ctx)
	if err != nil {
		return nil, internal(serviceLogger(ctx, componentPermissions, "Resources"), "list resources failed", err)
	}
	return res, nil
}
