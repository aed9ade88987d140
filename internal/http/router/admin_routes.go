package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/jeancarlosleonvega/admin-dashboard/internal/http/middlewares"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/rbac"
)

// registerAdminRoutes registra /api/users, /api/roles y /api/permissions.
// Cada ruta declara sus PermissionStrings; el Gate decide.
func registerAdminRoutes(r chi.Router, d Deps) {
	c := d.Admin
	can := func(perms ...string) mw.Middleware { return mw.RequireAny(d.Authz, perms...) }

	r.Route("/users", func(r chi.Router) {
		r.Use(mw.RequireAuth(d.Authz))

		r.With(can(rbac.PermUsersView)).Get("/", c.Users.List)
		r.With(can(rbac.PermUsersCreate)).Post("/", c.Users.Create)
		r.With(can(rbac.PermUsersDelete)).Post("/bulk-delete", c.Users.BulkDelete)
		r.With(can(rbac.PermUsersView)).Get("/{id}", c.Users.Get)
		r.With(can(rbac.PermUsersEdit)).Put("/{id}", c.Users.Update)
		r.With(can(rbac.PermUsersEdit)).Put("/{id}/password", c.Users.SetPassword)
		r.With(can(rbac.PermUsersDelete)).Delete("/{id}", c.Users.Delete)
	})

	r.Route("/roles", func(r chi.Router) {
		r.Use(mw.RequireAuth(d.Authz))

		r.With(can(rbac.PermRolesView)).Get("/", c.Roles.List)
		r.With(can(rbac.PermRolesManage)).Post("/", c.Roles.Create)
		r.With(can(rbac.PermRolesView)).Get("/{id}", c.Roles.Get)
		r.With(can(rbac.PermRolesManage)).Put("/{id}", c.Roles.Update)
		r.With(can(rbac.PermRolesManage)).Delete("/{id}", c.Roles.Delete)
	})

	r.Route("/permissions", func(r chi.Router) {
		r.Use(mw.RequireAuth(d.Authz))

		r.With(can(rbac.PermRolesView)).Get("/", c.Permissions.List)
		r.With(can(rbac.PermRolesView)).Get("/resources", c.Permissions.Resources)
		r.With(can(rbac.PermRolesManage)).Post("/", c.Permissions.Create)
		r.With(can(rbac.PermRolesManage)).Post("/bulk-delete", c.Permissions.BulkDelete)
		r.With(can(rbac.PermRolesView)).Get("/{id}", c.Permissions.Get)
		r.With(can(rbac.PermRolesManage)).Put("/{id}", c.Permissions.Update)
		r.With(can(rbac.PermRolesManage)).Delete("/{id}", c.Permissions.Delete)
	})
}
