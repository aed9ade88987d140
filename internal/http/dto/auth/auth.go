// Package auth contiene los DTOs HTTP del dominio auth.
package auth

import (
	"time"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
)

// LoginRequest es el body de POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest es el body de POST /api/auth/register.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// RefreshRequest permite mandar el refresh token en el body cuando no hay
// cookie (clientes no-browser).
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ForgotPasswordRequest es el body de POST /api/auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest es el body de POST /api/auth/reset-password.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// SessionResponse es la respuesta de login, register y me. El refresh token
// nunca viaja en el body: va en la cookie httpOnly.
type SessionResponse struct {
	User        repository.SafeUser `json:"user"`
	Permissions []string            `json:"permissions"`
	AccessToken string              `json:"accessToken"`
	ExpiresAt   time.Time           `json:"expiresAt"`
}

// TokenResponse es la respuesta de refresh.
type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// MessageResponse para endpoints sin payload propio.
type MessageResponse struct {
	Message string `json:"message"`
}
