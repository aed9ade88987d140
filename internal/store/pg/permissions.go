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

type permRepo struct{ pool *pgxpool.Pool }

const permColumns = `id::text, resource, action, description, created_at, updated_at`

func scanPermission(row pgx.Row) (*repository.Permission, error) {
	var p repository.Permission
	if err := row.Scan(&p.ID, &p.Resource, &p.Action, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r *permRepo) GetByID(ctx context.Context, id string) (*repository.Permission, error) {
	return scanPermission(r.pool.QueryRow(ctx, `SELECT `+permColumns+` FROM rbac_permission WHERE id = $1`, id))
}

func (r *permRepo) GetByResourceAction(ctx context.Context, resource, action string) (*repository.Permission, error) {
	const q = `SELECT ` + permColumns + ` FROM rbac_permission WHERE resource = $1 AND action = $2`
	return scanPermission(r.pool.QueryRow(ctx, q, resource, action))
}

func (r *permRepo) Create(ctx context.Context, in repository.CreatePermissionInput) (*repository.Permission, error) {
	const q = `
		INSERT INTO rbac_permission (id, resource, action, description)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + permColumns
	return scanPermission(r.pool.QueryRow(ctx, q, uuid.NewString(), in.Resource, in.Action, in.Description))
}

func (r *permRepo) Update(ctx context.Context, id string, in repository.UpdatePermissionInput) (*repository.Permission, error) {
	const q = `
		UPDATE rbac_permission SET
			resource    = COALESCE($2, resource),
			action      = COALESCE($3, action),
			description = COALESCE($4, description),
			updated_at  = NOW()
		WHERE id = $1
		RETURNING ` + permColumns
	return scanPermission(r.pool.QueryRow(ctx, q, id, in.Resource, in.Action, in.Description))
}

func (r *permRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM rbac_permission WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// BulkDelete borra en cascada las filas de rbac_role_perm (ON DELETE CASCADE).
func (r *permRepo) BulkDelete(ctx context.Context, ids []string) (int, error) {
	ids = validUUIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM rbac_permission WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return 0, mapErr(err)
	}
	return int(tag.RowsAffected()), nil
}

var permSortColumns = map[repository.PermissionSortField]string{
	repository.PermissionSortResource:  "resource, action",
	repository.PermissionSortAction:    "action",
	repository.PermissionSortCreatedAt: "created_at",
}

func (r *permRepo) List(ctx context.Context, f repository.ListPermissionsFilter) ([]repository.Permission, int, error) {
	w := &where{}
	if s := strings.TrimSpace(f.Search); s != "" {
		w.add(`(resource ILIKE ? OR action ILIKE ? OR COALESCE(description, '') ILIKE ?)`, likePattern(s), likePattern(s), likePattern(s))
	}
	if f.Resource != "" {
		w.add(`resource = ?`, f.Resource)
	}
	if f.Action != "" {
		w.add(`action = ?`, f.Action)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM rbac_permission`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	col, ok := permSortColumns[f.SortBy]
	if !ok {
		col = permSortColumns[repository.PermissionSortResource]
	}
	// la dirección aplica a todas las columnas del orden
	dir := direction(f.SortDir)
	order := strings.ReplaceAll(col, ",", " "+dir+",") + " " + dir
	q := `SELECT ` + permColumns + ` FROM rbac_permission` + w.sql() +
		` ORDER BY ` + order + `, id` +
		w.page(f.Page.Normalize(types.DefaultPermissionPageLimit))

	rows, err := r.pool.Query(ctx, q, w.args...)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	out := []repository.Permission{}
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

func (r *permRepo) IsAssignedToRoles(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rbac_role_perm WHERE permission_id = $1)`, id).Scan(&exists)
	return exists, mapErr(err)
}

func (r *permRepo) DistinctResources(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT resource FROM rbac_permission ORDER BY resource`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var res string
		if err := rows.Scan(&res); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
