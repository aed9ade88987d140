package admin

import (
	"context"
	"strings"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/audit"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/errs"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/validation"
)

const componentRoles = "admin.roles"

// RoleService administra roles y su set de permisos.
type RoleService interface {
	List(ctx context.Context, f repository.ListRolesFilter) (*Page[repository.Role], error)
	Get(ctx context.Context, id string) (*repository.Role, error)
	Create(ctx context.Context, in CreateRoleRequest) (*repository.Role, error)

	// Update no permite renombrar roles de sistema. Reemplazar los permisos
	// invalida el cache completo.
	Update(ctx context.Context, id string, in UpdateRoleRequest) (*repository.Role, error)

	// Delete rechaza roles de sistema y roles con usuarios asignados.
	Delete(ctx context.Context, id string) error
}

type roleService struct{ deps Deps }

// NewRoleService crea el service de roles.
func NewRoleService(deps Deps) RoleService {
	return &roleService{deps: deps}
}

func (s *roleService) List(ctx context.Context, f repository.ListRolesFilter) (*Page[repository.Role], error) {
	log := serviceLogger(ctx, componentRoles, "List")

	f.Search = strings.TrimSpace(f.Search)
	f.Page = f.Page.Normalize(types.DefaultPageLimit)
	roles, total, err := s.deps.Store.Roles().List(ctx, f)
	if err != nil {
		return nil, internal(log, "list roles failed", err)
	}
	return &Page[repository.Role]{Items: roles, Meta: types.NewPageMeta(f.Page, total)}, nil
}

func (s *roleService) Get(ctx context.Context, id string) (*repository.Role, error) {
	r, err := s.deps.Store.Roles().GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("role")
		}
		return nil, internal(serviceLogger(ctx, componentRoles, "Get"), "get role failed", err)
	}
	return r, nil
}

func (s *roleService) Create(ctx context.Context, in CreateRoleRequest) (*repository.Role, error) {
	log := serviceLogger(ctx, componentRoles, "Create")

	name := strings.TrimSpace(in.Name)
	if !validation.ValidRoleName(name) {
		return nil, errs.Invalid("role name must be 1 to %d letters, digits, spaces, '_' or '-'", validation.MaxRoleNameLength)
	}
	desc, err := cleanDescription(in.Description)
	if err != nil {
		return nil, err
	}

	r, err := s.deps.Store.Roles().Create(ctx, repository.CreateRoleInput{
		Name:          name,
		Description:   desc,
		PermissionIDs: cleanIDs(in.PermissionIDs),
	})
	if err != nil {
		switch {
		case repository.IsConflict(err):
			return nil, errs.ErrDuplicateRoleName
		case repository.IsNotFound(err):
			return nil, errs.Invalid("unknown permission id")
		}
		return nil, internal(log, "create role failed", err)
	}
	// un rol nuevo no tiene usuarios: no hay permisos efectivos que invalidar
	log.Info("role created", logger.RoleID(r.ID), logger.Count(len(r.Permissions)))
	audit.Log(ctx, audit.RoleCreated, r.ID, logger.String("name", r.Name))
	return r, nil
}

func (s *roleService) Update(ctx context.Context, id string, in UpdateRoleRequest) (*repository.Role, error) {
	log := serviceLogger(ctx, componentRoles, "Update").With(logger.RoleID(id))

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Paso 0: Validación y guard de sistema
	var upd repository.UpdateRoleInput
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if !validation.ValidRoleName(name) {
			return nil, errs.Invalid("role name must be 1 to %d letters, digits, spaces, '_' or '-'", validation.MaxRoleNameLength)
		}
		if name != current.Name {
			if current.IsSystem {
				return nil, errs.Conflict("system roles cannot be renamed")
			}
			upd.Name = &name
		}
	}
	if upd.Description, err = cleanDescription(in.Description); err != nil {
		return nil, err
	}
	upd.PermissionIDs = cleanIDs(in.PermissionIDs)

	// Paso 1: Persistir
	r, err := s.deps.Store.Roles().Update(ctx, id, upd)
	if err != nil {
		switch {
		case repository.IsConflict(err):
			return nil, errs.ErrDuplicateRoleName
		case repository.IsNotFound(err) && upd.PermissionIDs != nil:
			return nil, errs.Invalid("unknown permission id")
		case repository.IsNotFound(err):
			return nil, notFound("role")
		}
		return nil, internal(log, "update role failed", err)
	}

	// Paso 2: Los grants cambiaron para todos los usuarios del rol
	if upd.PermissionIDs != nil {
		invalidateAll(ctx, s.deps.Cache, log)
	}
	log.Info("role updated", logger.Bool("permissions_changed", upd.PermissionIDs != nil))
	audit.Log(ctx, audit.RoleUpdated, id, logger.Bool("permissions_changed", upd.PermissionIDs != nil))
	return r, nil
}

func (s *roleService) Delete(ctx context.Context, id string) error {
	log := serviceLogger(ctx, componentRoles, "Delete").With(logger.RoleID(id))

	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.IsSystem {
		return errs.Conflict("system roles cannot be deleted")
	}
	inUse, err := s.deps.Store.Roles().HasUsers(ctx, id)
	if err != nil {
		return internal(log, "role usage check failed", err)
	}
	if inUse {
		return errs.Conflict("role is assigned to users; remove it from all users first")
	}

	if err := s.deps.Store.Roles().Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return notFound("role")
		}
		return internal(log, "delete role failed", err)
	}
	// el borrado arrastra asignaciones que pudieron aparecer
	// después del chequeo de uso
	invalidateAll(ctx, s.deps.Cache, log)
	log.Info("role deleted")
	audit.Log(ctx, audit.RoleDeleted, id)
	return nil
}
