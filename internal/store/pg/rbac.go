package pg

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/repository"
)

type rbacRepo struct{ pool *pgxpool.Pool }

// FindUserRolesAndPermissions: roles asignados al usuario con sus permisos.
func (r *rbacRepo) FindUserRolesAndPermissions(ctx context.Context, userID string) (*repository.UserGrants, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM app_user WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return nil, mapErr(err)
	}
	if !exists {
		return nil, repository.ErrNotFound
	}

	const q = `
		SELECT r.id::text, r.name, r.description, r.is_system, r.created_at, r.updated_at
		FROM rbac_user_role ur
		JOIN rbac_role r ON r.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY r.name`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	var roles []*repository.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		roles = append(roles, role)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := loadPermissions(ctx, r.pool, roles); err != nil {
		return nil, err
	}

	out := &repository.UserGrants{UserID: userID, Roles: make([]repository.Role, 0, len(roles))}
	for _, role := range roles {
		out.Roles = append(out.Roles, *role)
	}
	return out, nil
}

// SetUserRoles reemplaza las asignaciones en una transacción.
func (r *rbacRepo) SetUserRoles(ctx context.Context, userID string, roleIDs []string, assignedBy string) error {
	ids := dedupe(roleIDs)
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return repository.ErrNotFound
		}
	}
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		// bloquea la fila del usuario: serializa reemplazos concurrentes
		var id string
		if err := tx.QueryRow(ctx, `SELECT id::text FROM app_user WHERE id = $1 FOR UPDATE`, userID).Scan(&id); err != nil {
			return mapErr(err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM rbac_user_role WHERE user_id = $1`, userID); err != nil {
			return mapErr(err)
		}
		if len(ids) == 0 {
			return nil
		}
		b := &pgx.Batch{}
		for _, rid := range ids {
			b.Queue(`INSERT INTO rbac_user_role (user_id, role_id, assigned_by) VALUES ($1, $2, $3)`, userID, rid, assignedBy)
		}
		br := tx.SendBatch(ctx, b)
		defer br.Close()
		for range ids {
			if _, err := br.Exec(); err != nil {
				return mapErr(err)
			}
		}
		return nil
	})
}

// AssignRole es idempotente (ON CONFLICT DO NOTHING).
func (r *rbacRepo) AssignRole(ctx context.Context, userID, roleID, assignedBy string) error {
	const q = `INSERT INTO rbac_user_role (user_id, role_id, assigned_by) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`
	_, err := r.pool.Exec(ctx, q, userID, roleID, assignedBy)
	return mapErr(err)
}
