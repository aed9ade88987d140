package repository

import (
	"context"
	"time"
)

// PasswordReset es un token de reset persistido. Solo se guarda el hash.
type PasswordReset struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// PasswordResetRepository define el ciclo de vida de los tokens de reset.
type PasswordResetRepository interface {
	// Create borra los tokens previos del usuario y guarda el nuevo.
	Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (*PasswordReset, error)

	// FindValidByHash busca un token no usado y no expirado.
	// Retorna ErrNotFound si no hay ninguno.
	FindValidByHash(ctx context.Context, tokenHash string, now time.Time) (*PasswordReset, error)

	// Consume marca el token como usado y aplica el nuevo hash de password
	// (incrementando token_version) en una única unidad atómica. Si el
	// token ya fue usado, expiró o no existe retorna ErrNotFound y no
	// modifica nada. Retorna el userID afectado.
	Consume(ctx context.Context, tokenHash, passwordHash string, now time.Time) (string, error)
}
