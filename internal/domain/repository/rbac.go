package repository

import (
	"context"
	"time"
)

// Permission es un par (resource, action) único.
type Permission struct {
	ID          string    `json:"id"`
	Resource    string    `json:"resource"`
	Action      string    `json:"action"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Role agrupa permisos. Los roles de sistema no se renombran ni se borran.
type Role struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description *string      `json:"description"`
	IsSystem    bool         `json:"isSystem"`
	Permissions []Permission `json:"permissions"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// UserRole es la asignación usuario-rol con su procedencia.
type UserRole struct {
	UserID     string
	RoleID     string
	AssignedBy string
	AssignedAt time.Time
}

// UserGrants es el grafo usuario -> roles -> permisos de un usuario.
type UserGrants struct {
	UserID string
	Roles  []Role
}

// RBACRepository resuelve asignaciones para el cálculo de permisos efectivos.
type RBACRepository interface {
	// FindUserRolesAndPermissions retorna los roles del usuario con sus
	// permisos. ErrNotFound si el usuario no existe; un usuario sin roles
	// retorna Roles vacío.
	FindUserRolesAndPermissions(ctx context.Context, userID string) (*UserGrants, error)

	// SetUserRoles reemplaza el conjunto de roles del usuario.
	// ErrNotFound si el usuario o algún rol no existe.
	SetUserRoles(ctx context.Context, userID string, roleIDs []string, assignedBy string) error

	// AssignRole agrega un rol (idempotente).
	AssignRole(ctx context.Context, userID, roleID, assignedBy string) error
}
