package auth

import (
	"time"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
)

// LoginRequest credenciales de login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult es la sesión emitida por Login.
type LoginResult struct {
	User             repository.SafeUser
	Permissions      []string
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// RefreshResult es el nuevo access token.
type RefreshResult struct {
	AccessToken string
	ExpiresAt   time.Time
}

// ProfileResult es la respuesta de Me y Register: vista pública, permisos
// efectivos y un access token recién emitido.
type ProfileResult struct {
	User        repository.SafeUser
	Permissions []string
	AccessToken string
	ExpiresAt   time.Time
}

// RegisterRequest datos de alta.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ResetPasswordRequest datos del reset.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}
