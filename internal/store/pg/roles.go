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

type roleRepo struct{ pool *pgxpool.Pool }

const roleColumns = `id::text, name, description, is_system, created_at, updated_at`

func scanRole(row pgx.Row) (*repository.Role, error) {
	var r repository.Role
	if err := row.Scan(&r.ID, &r.Name, &r.Description, &r.IsSystem, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	r.Permissions = []repository.Permission{}
	return &r, nil
}

// loadPermissions completa Permissions de cada rol en una sola query.
func loadPermissions(ctx context.Context, q querier, roles []*repository.Role) error {
	if len(roles) == 0 {
		return nil
	}
	byID := make(map[string]*repository.Role, len(roles))
	ids := make([]string, 0, len(roles))
	for _, r := range roles {
		byID[r.ID] = r
		ids = append(ids, r.ID)
	}
	const sql = `
		SELECT rp.role_id::text, p.id::text, p.resource, p.action, p.description, p.created_at, p.updated_at
		FROM rbac_role_perm rp
		JOIN rbac_permission p ON p.id = rp.permission_id
		WHERE rp.role_id = ANY($1::uuid[])
		ORDER BY rp.role_id, rp.position, p.resource, p.action`
	rows, err := q.Query(ctx, sql, ids)
	if err != nil {
		return mapErr(err)
	}
	defer rows.Close()
	for rows.Next() {
		var roleID string
		var p repository.Permission
		if err := rows.Scan(&roleID, &p.ID, &p.Resource, &p.Action, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return err
		}
		if r, ok := byID[roleID]; ok {
			r.Permissions = append(r.Permissions, p)
		}
	}
	return rows.Err()
}

// replaceRolePerms reescribe el conjunto de permisos del rol.
// Un permission id inexistente viola la FK y se reporta como ErrNotFound.
func replaceRolePerms(ctx context.Context, tx pgx.Tx, roleID string, permIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM rbac_role_perm WHERE role_id = $1`, roleID); err != nil {
		return mapErr(err)
	}
	ids := dedupe(permIDs)
	if len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return repository.ErrNotFound
		}
	}
	b := &pgx.Batch{}
	for i, id := range ids {
		b.Queue(`INSERT INTO rbac_role_perm (role_id, permission_id, position) VALUES ($1, $2, $3)`, roleID, id, i)
	}
	br := tx.SendBatch(ctx, b)
	defer br.Close()
	for range ids {
		if _, err := br.Exec(); err != nil {
			return mapErr(err)
		}
	}
	return nil
}

func (r *roleRepo) get(ctx context.Context, q querier, cond string, arg any) (*repository.Role, error) {
	role, err := scanRole(q.QueryRow(ctx, `SELECT `+roleColumns+` FROM rbac_role WHERE `+cond, arg))
	if err != nil {
		return nil, err
	}
	if err := loadPermissions(ctx, q, []*repository.Role{role}); err != nil {
		return nil, err
	}
	return role, nil
}

func (r *roleRepo) GetByID(ctx context.Context, id string) (*repository.Role, error) {
	return r.get(ctx, r.pool, `id = $1`, id)
}

func (r *roleRepo) GetByName(ctx context.Context, name string) (*repository.Role, error) {
	return r.get(ctx, r.pool, `lower(name) = lower($1)`, strings.TrimSpace(name))
}

func (r *roleRepo) Create(ctx context.Context, in repository.CreateRoleInput) (*repository.Role, error) {
	var out *repository.Role
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		id := uuid.NewString()
		const q = `INSERT INTO rbac_role (id, name, description, is_system) VALUES ($1, $2, $3, $4)`
		if _, err := tx.Exec(ctx, q, id, strings.TrimSpace(in.Name), in.Description, in.IsSystem); err != nil {
			return mapErr(err)
		}
		if err := replaceRolePerms(ctx, tx, id, in.PermissionIDs); err != nil {
			return err
		}
		role, err := r.get(ctx, tx, `id = $1`, id)
		out = role
		return err
	})
	return out, err
}

func (r *roleRepo) Update(ctx context.Context, id string, in repository.UpdateRoleInput) (*repository.Role, error) {
	var out *repository.Role
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		var name *string
		if in.Name != nil {
			n := strings.TrimSpace(*in.Name)
			name = &n
		}
		const q = `
			UPDATE rbac_role SET
				name        = COALESCE($2, name),
				description = COALESCE($3, description),
				updated_at  = NOW()
			WHERE id = $1`
		tag, err := tx.Exec(ctx, q, id, name, in.Description)
		if err != nil {
			return mapErr(err)
		}
		if tag.RowsAffected() == 0 {
			return repository.ErrNotFound
		}
		if in.PermissionIDs != nil {
			if err := replaceRolePerms(ctx, tx, id, in.PermissionIDs); err != nil {
				return err
			}
		}
		role, err := r.get(ctx, tx, `id = $1`, id)
		out = role
		return err
	})
	return out, err
}

func (r *roleRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM rbac_role WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var roleSortColumns = map[repository.RoleSortField]string{
	repository.RoleSortName:      "name",
	repository.RoleSortIsSystem:  "is_system",
	repository.RoleSortCreatedAt: "created_at",
}

func (r *roleRepo) List(ctx context.Context, f repository.ListRolesFilter) ([]repository.Role, int, error) {
	w := &where{}
	if s := strings.TrimSpace(f.Search); s != "" {
		w.add(`(name ILIKE ? OR COALESCE(description, '') ILIKE ?)`, likePattern(s), likePattern(s))
	}
	if f.IsSystem != nil {
		w.add(`is_system = ?`, *f.IsSystem)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM rbac_role`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	col, ok := roleSortColumns[f.SortBy]
	if !ok {
		col = "name"
	}
	q := `SELECT ` + roleColumns + ` FROM rbac_role` + w.sql() +
		` ORDER BY ` + col + ` ` + direction(f.SortDir) + `, id` +
		w.page(f.Page.Normalize(types.DefaultPageLimit))

	rows, err := r.pool.Query(ctx, q, w.args...)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	var ptrs []*repository.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			rows.Close()
			return nil, 0, err
		}
		ptrs = append(ptrs, role)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := loadPermissions(ctx, r.pool, ptrs); err != nil {
		return nil, 0, err
	}
	out := make([]repository.Role, 0, len(ptrs))
	for _, p := range ptrs {
		out = append(out, *p)
	}
	return out, total, nil
}

func (r *roleRepo) HasUsers(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rbac_user_role WHERE role_id = $1)`, id).Scan(&exists)
	return exists, mapErr(err)
}
