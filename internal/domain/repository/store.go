package repository

import "context"

// Store agrupa los repositorios de un backend.
type Store interface {
	Users() UserRepository
	Roles() RoleRepository
	Permissions() PermissionRepository
	RBAC() RBACRepository
	PasswordResets() PasswordResetRepository

	Ping(ctx context.Context) error
	Close() error
}
