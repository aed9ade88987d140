package pg

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
)

type userRepo struct{ pool *pgxpool.Pool }

const userColumns = `id::text, email, password_hash, first_name, last_name, status, token_version, created_at, updated_at`

func scanUser(row pgx.Row) (*repository.User, error) {
	var u repository.User
	var status string
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &status, &u.TokenVersion, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	u.Status = types.UserStatus(status)
	return &u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*repository.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM app_user WHERE id = $1`, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	const q = `SELECT ` + userColumns + ` FROM app_user WHERE lower(email) = lower($1)`
	return scanUser(r.pool.QueryRow(ctx, q, strings.TrimSpace(email)))
}

func (r *userRepo) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	status := in.Status
	if status == "" {
		status = types.UserStatusActive
	}
	const q = `
		INSERT INTO app_user (id, email, password_hash, first_name, last_name, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, q,
		uuid.NewString(), strings.ToLower(strings.TrimSpace(in.Email)), in.PasswordHash,
		in.FirstName, in.LastName, string(status)))
}

func (r *userRepo) Update(ctx context.Context, id string, in repository.UpdateUserInput) (*repository.User, error) {
	var email, status *string
	if in.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*in.Email))
		email = &e
	}
	if in.Status != nil {
		st := string(*in.Status)
		status = &st
	}
	const q = `
		UPDATE app_user SET
			email      = COALESCE($2, email),
			first_name = COALESCE($3, first_name),
			last_name  = COALESCE($4, last_name),
			status     = COALESCE($5, status),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, q, id, email, in.FirstName, in.LastName, status))
}

func (r *userRepo) SetPassword(ctx context.Context, id, passwordHash string) (int64, error) {
	const q = `
		UPDATE app_user
		SET password_hash = $2, token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING token_version`
	var v int64
	if err := r.pool.QueryRow(ctx, q, id, passwordHash).Scan(&v); err != nil {
		return 0, mapErr(err)
	}
	return v, nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM app_user WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepo) BulkDelete(ctx context.Context, ids []string) (int, error) {
	ids = validUUIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM app_user WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return 0, mapErr(err)
	}
	return int(tag.RowsAffected()), nil
}

var userSortColumns = map[repository.UserSortField]string{
	repository.UserSortFirstName: "first_name",
	repository.UserSortEmail:     "email",
	repository.UserSortStatus:    "status",
	repository.UserSortCreatedAt: "created_at",
}

func (r *userRepo) List(ctx context.Context, f repository.ListUsersFilter) ([]repository.User, int, error) {
	w := &where{}
	if s := strings.TrimSpace(f.Search); s != "" {
		w.add(`(email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?)`, likePattern(s), likePattern(s), likePattern(s))
	}
	if f.Status != "" {
		w.add(`status = ?`, string(f.Status))
	}
	if f.RoleID != "" {
		if _, err := uuid.Parse(f.RoleID); err != nil {
			return []repository.User{}, 0, nil
		}
		w.add(`EXISTS (SELECT 1 FROM rbac_user_role ur WHERE ur.user_id = app_user.id AND ur.role_id = ?)`, f.RoleID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM app_user`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	col, ok := userSortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	q := `SELECT ` + userColumns + ` FROM app_user` + w.sql() +
		` ORDER BY ` + col + ` ` + direction(f.SortDir) + `, id` +
		w.page(f.Page.Normalize(types.DefaultPageLimit))

	rows, err := r.pool.Query(ctx, q, w.args...)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	out := []repository.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *u)
	}
	return out, total, rows.Err()
}

func (r *userRepo) GetTokenVersion(ctx context.Context, id string) (int64, error) {
	var v int64
	if err := r.pool.QueryRow(ctx, `SELECT token_version FROM app_user WHERE id = $1`, id).Scan(&v); err != nil {
		return 0, mapErr(err)
	}
	return v, nil
}

// IncrementTokenVersion es un único UPDATE: sin read-modify-write en la aplicación.
func (r *userRepo) IncrementTokenVersion(ctx context.Context, id string) (int64, error) {
	const q = `UPDATE app_user SET token_version = token_version + 1, updated_at = NOW() WHERE id = $1 RETURNING token_version`
	var v int64
	if err := r.pool.QueryRow(ctx, q, id).Scan(&v); err != nil {
		return 0, mapErr(err)
	}
	return v, nil
}

// validUUIDs descarta ids que no son uuid (no pueden existir en la tabla).
func validUUIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range dedupe(ids) {
		if _, err := uuid.Parse(id); err == nil {
			out = append(out, id)
		}
	}
	return out
}
