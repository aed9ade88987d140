package rbac

// Permisos que usa el propio panel. El router los exige y el seed los crea.
const (
	PermDashboardView = "dashboard.view"
	PermUsersView     = "users.view"
	PermUsersCreate   = "users.create"
	PermUsersEdit     = "users.edit"
	PermUsersDelete   = "users.delete"
	PermRolesView     = "roles.view"
	PermRolesManage   = "roles.manage"
)

// Roles de sistema.
const (
	RoleSuperAdmin = "Super Admin"
	RoleAdmin      = "Admin"
	RoleUser       = "User"
)

// BuiltinPermission describe un permiso del catálogo base.
type BuiltinPermission struct {
	Name        string
	Description string
}

// BuiltinPermissions es el catálogo base en orden estable.
var BuiltinPermissions = []BuiltinPermission{
	{PermDashboardView, "View dashboard"},
	{PermUsersView, "View users"},
	{PermUsersCreate, "Create users"},
	{PermUsersEdit, "Edit users"},
	{PermUsersDelete, "Delete users"},
	{PermRolesView, "View roles and permissions"},
	{PermRolesManage, "Manage roles and permissions"},
}

// BuiltinRole describe un rol de sistema y sus grants.
type BuiltinRole struct {
	Name        string
	Description string
	Permissions []string
}

// BuiltinRoles: Super Admin recibe todo el catálogo.
var BuiltinRoles = []BuiltinRole{
	{
		Name:        RoleSuperAdmin,
		Description: "Full access to every feature",
		Permissions: []string{
			PermDashboardView, PermUsersView, PermUsersCreate, PermUsersEdit,
			PermUsersDelete, PermRolesView, PermRolesManage,
		},
	},
	{
		Name:        RoleAdmin,
		Description: "Manage users and view roles",
		Permissions: []string{
			PermDashboardView, PermUsersView, PermUsersCreate, PermUsersEdit, PermRolesView,
		},
	},
	{
		Name:        RoleUser,
		Description: "Default role for registered users",
		Permissions: []string{PermDashboardView},
	},
}
