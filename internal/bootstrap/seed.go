// Package bootstrap siembra el catálogo base: permisos del panel, roles de
// sistema y el primer administrador. Correrlo de nuevo no duplica nada.
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/rbac"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/security/password"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/validation"
)

// DefaultAdminEmail es el email del admin sembrado si no se configura otro.
const DefaultAdminEmail = "admin@example.com"

// Options configura el seed.
type Options struct {
	AdminEmail     string
	AdminPassword  string // vacío = no se crea el admin
	AdminFirstName string
	AdminLastName  string
	Policy         password.Policy
}

// Report resume qué creó el seed.
type Report struct {
	PermissionsCreated int
	RolesCreated       int
	AdminCreated       bool
	AdminID            string
}

// Seed crea lo que falte del catálogo base y el admin con Super Admin.
// Roles y permisos existentes no se modifican.
func Seed(ctx context.Context, store repository.Store, hasher password.Hasher, opts Options) (*Report, error) {
	log := logger.From(ctx).With(logger.Component("bootstrap"), logger.Op("Seed"))
	rep := &Report{}

	// Paso 1: permisos
	ids := make(map[string]string, len(rbac.BuiltinPermissions))
	for _, bp := range rbac.BuiltinPermissions {
		id, created, err := ensurePermission(ctx, store, bp)
		if err != nil {
			return rep, err
		}
		ids[bp.Name] = id
		if created {
			rep.PermissionsCreated++
			log.Info("permission created", logger.Permission(bp.Name))
		}
	}

	// Paso 2: roles de sistema
	roleIDs := make(map[string]string, len(rbac.BuiltinRoles))
	for _, br := range rbac.BuiltinRoles {
		id, created, err := ensureRole(ctx, store, br, ids)
		if err != nil {
			return rep, err
		}
		roleIDs[br.Name] = id
		if created {
			rep.RolesCreated++
			log.Info("role created", logger.String("role", br.Name))
		}
	}

	// Paso 3: admin
	if strings.TrimSpace(opts.AdminPassword) == "" {
		log.Debug("admin password not provided, skipping admin")
		return rep, nil
	}
	id, created, err := ensureAdmin(ctx, store, hasher, opts)
	if err != nil {
		return rep, err
	}
	rep.AdminID, rep.AdminCreated = id, created

	// AssignRole es idempotente; repara un admin que perdió el rol
	if err := store.RBAC().AssignRole(ctx, id, roleIDs[rbac.RoleSuperAdmin], ""); err != nil {
		return rep, fmt.Errorf("assign super admin role: %w", err)
	}
	if created {
		log.Info("admin user created", logger.UserID(id))
	}
	return rep, nil
}

func ensurePermission(ctx context.Context, store repository.Store, bp rbac.BuiltinPermission) (string, bool, error) {
	resource, action, ok := rbac.Parse(bp.Name)
	if !ok {
		return "", false, fmt.Errorf("invalid builtin permission %q", bp.Name)
	}
	p, err := store.Permissions().GetByResourceAction(ctx, resource, action)
	if err == nil {
		return p.ID, false, nil
	}
	if !repository.IsNotFound(err) {
		return "", false, fmt.Errorf("lookup permission %s: %w", bp.Name, err)
	}

	desc := bp.Description
	p, err = store.Permissions().Create(ctx, repository.CreatePermissionInput{
		Resource:    resource,
		Action:      action,
		Description: &desc,
	})
	if repository.IsConflict(err) {
		// otro seed concurrente lo creó primero
		p, err = store.Permissions().GetByResourceAction(ctx, resource, action)
		if err != nil {
			return "", false, fmt.Errorf("lookup permission %s: %w", bp.Name, err)
		}
		return p.ID, false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("create permission %s: %w", bp.Name, err)
	}
	return p.ID, true, nil
}

func ensureRole(ctx context.Context, store repository.Store, br rbac.BuiltinRole, permIDs map[string]string) (string, bool, error) {
	r, err := store.Roles().GetByName(ctx, br.Name)
	if err == nil {
		return r.ID, false, nil
	}
	if !repository.IsNotFound(err) {
		return "", false, fmt.Errorf("lookup role %s: %w", br.Name, err)
	}

	grants := make([]string, 0, len(br.Permissions))
	for _, name := range br.Permissions {
		grants = append(grants, permIDs[name])
	}
	desc := br.Description
	r, err = store.Roles().Create(ctx, repository.CreateRoleInput{
		Name:          br.Name,
		Description:   &desc,
		IsSystem:      true,
		PermissionIDs: grants,
	})
	if repository.IsConflict(err) {
		r, err = store.Roles().GetByName(ctx, br.Name)
		if err != nil {
			return "", false, fmt.Errorf("lookup role %s: %w", br.Name, err)
		}
		return r.ID, false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("create role %s: %w", br.Name, err)
	}
	return r.ID, true, nil
}

func ensureAdmin(ctx context.Context, store repository.Store, hasher password.Hasher, opts Options) (string, bool, error) {
	addr := validation.NormalizeEmail(opts.AdminEmail)
	if addr == "" {
		addr = DefaultAdminEmail
	}
	if !validation.ValidEmail(addr) {
		return "", false, fmt.Errorf("invalid admin email %q", addr)
	}

	u, err := store.Users().GetByEmail(ctx, addr)
	if err == nil {
		return u.ID, false, nil
	}
	if !repository.IsNotFound(err) {
		return "", false, fmt.Errorf("lookup admin: %w", err)
	}

	policy := opts.Policy
	if policy == (password.Policy{}) {
		policy = password.DefaultPolicy
	}
	if ok, reasons := policy.Validate(opts.AdminPassword); !ok {
		return "", false, fmt.Errorf("admin password rejected: %s", password.Describe(reasons))
	}
	hash, err := hasher.Hash(opts.AdminPassword)
	if err != nil {
		return "", false, fmt.Errorf("hash admin password: %w", err)
	}

	first, last := opts.AdminFirstName, opts.AdminLastName
	if first == "" {
		first = "Admin"
	}
	if last == "" {
		last = "User"
	}
	u, err = store.Users().Create(ctx, repository.CreateUserInput{
		Email:        addr,
		PasswordHash: hash,
		FirstName:    first,
		LastName:     last,
		Status:       types.UserStatusActive,
	})
	if err != nil {
		return "", false, fmt.Errorf("create admin: %w", err)
	}
	return u.ID, true, nil
}
