package pg

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
)

type resetRepo struct{ pool *pgxpool.Pool }

const resetColumns = `id::text, user_id::text, token_hash, expires_at, used_at, created_at`

func scanReset(row pgx.Row) (*repository.PasswordReset, error) {
	var pr repository.PasswordReset
	if err := row.Scan(&pr.ID, &pr.UserID, &pr.TokenHash, &pr.ExpiresAt, &pr.UsedAt, &pr.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &pr, nil
}

// Create borra los tokens previos del usuario e inserta el nuevo en una tx.
func (r *resetRepo) Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (*repository.PasswordReset, error) {
	var out *repository.PasswordReset
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM password_reset WHERE user_id = $1`, userID); err != nil {
			return mapErr(err)
		}
		const q = `
			INSERT INTO password_reset (id, user_id, token_hash, expires_at)
			VALUES ($1, $2, $3, $4)
			RETURNING ` + resetColumns
		pr, err := scanReset(tx.QueryRow(ctx, q, uuid.NewString(), userID, tokenHash, expiresAt))
		out = pr
		return err
	})
	return out, err
}

func (r *resetRepo) FindValidByHash(ctx context.Context, tokenHash string, now time.Time) (*repository.PasswordReset, error) {
	const q = `SELECT ` + resetColumns + ` FROM password_reset WHERE token_hash = $1 AND used_at IS NULL AND expires_at > $2`
	return scanReset(r.pool.QueryRow(ctx, q, tokenHash, now))
}

// Consume: el UPDATE condicional sobre used_at IS NULL es el punto de
// linealización; un segundo consumo concurrente no encuentra la fila.
func (r *resetRepo) Consume(ctx context.Context, tokenHash, passwordHash string, now time.Time) (string, error) {
	var userID string
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		const mark = `
			UPDATE password_reset SET used_at = $2
			WHERE token_hash = $1 AND used_at IS NULL AND expires_at > $2
			RETURNING user_id::text`
		if err := tx.QueryRow(ctx, mark, tokenHash, now).Scan(&userID); err != nil {
			return mapErr(err)
		}
		const setPwd = `
			UPDATE app_user
			SET password_hash = $2, token_version = token_version + 1, updated_at = NOW()
			WHERE id = $1`
		tag, err := tx.Exec(ctx, setPwd, userID, passwordHash)
		if err != nil {
			return mapErr(err)
		}
		if tag.RowsAffected() == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return userID, nil
}
