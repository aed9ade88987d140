package repository

import (
	"context"
	"time"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
)

// User es el registro completo de un usuario, incluida la credencial.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Status       types.UserStatus
	TokenVersion int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RoleRef es la vista mínima de un rol asignado.
type RoleRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SafeUser es la vista pública: sin hash ni token_version.
type SafeUser struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	FirstName string           `json:"firstName"`
	LastName  string           `json:"lastName"`
	Status    types.UserStatus `json:"status"`
	Roles     []RoleRef        `json:"roles"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Safe arma la vista pública del usuario.
func (u *User) Safe(roles []RoleRef) SafeUser {
	if roles == nil {
		roles = []RoleRef{}
	}
	return SafeUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Status:    u.Status,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// CreateUserInput contiene los datos para crear un usuario.
type CreateUserInput struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Status       types.UserStatus // vacío = ACTIVE
}

// UpdateUserInput contiene los campos actualizables. nil = sin cambio.
type UpdateUserInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Status    *types.UserStatus
}

// UserSortField columnas ordenables.
type UserSortField string

const (
	UserSortFirstName UserSortField = "firstName"
	UserSortEmail     UserSortField = "email"
	UserSortStatus    UserSortField = "status"
	UserSortCreatedAt UserSortField = "createdAt"
)

// ListUsersFilter opciones para listar usuarios.
type ListUsersFilter struct {
	Search  string // email, nombre o apellido (case-insensitive)
	Status  types.UserStatus
	RoleID  string
	SortBy  UserSortField
	SortDir types.SortDirection
	Page    types.PageRequest
}

// UserRepository define operaciones sobre usuarios.
type UserRepository interface {
	// GetByID retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail busca por email normalizado. Retorna ErrNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Create retorna ErrConflict si el email ya existe.
	Create(ctx context.Context, in CreateUserInput) (*User, error)

	// Update retorna ErrNotFound o ErrConflict (email duplicado).
	Update(ctx context.Context, id string, in UpdateUserInput) (*User, error)

	// SetPassword cambia el hash e incrementa token_version en la misma escritura.
	SetPassword(ctx context.Context, id, passwordHash string) (int64, error)

	Delete(ctx context.Context, id string) error

	// BulkDelete elimina los ids existentes y retorna cuántos borró.
	BulkDelete(ctx context.Context, ids []string) (int, error)

	List(ctx context.Context, f ListUsersFilter) ([]User, int, error)

	// GetTokenVersion retorna ErrNotFound si el usuario no existe.
	GetTokenVersion(ctx context.Context, id string) (int64, error)

	// IncrementTokenVersion hace token_version = token_version + 1 de forma
	// atómica y retorna el nuevo valor.
	IncrementTokenVersion(ctx context.Context, id string) (int64, error)
}
