package bootstrap_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/bootstrap"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/rbac"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/security/password"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/store/memory"
)

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	hasher := password.Bcrypt{Cost: bcrypt.MinCost}
	opts := bootstrap.Options{AdminPassword: "Adm1nPassword"}

	first, err := bootstrap.Seed(ctx, st, hasher, opts)
	require.NoError(t, err)
	require.Equal(t, len(rbac.BuiltinPermissions), first.PermissionsCreated)
	require.Equal(t, len(rbac.BuiltinRoles), first.RolesCreated)
	require.True(t, first.AdminCreated)

	second, err := bootstrap.Seed(ctx, st, hasher, opts)
	require.NoError(t, err)
	require.Zero(t, second.PermissionsCreated)
	require.Zero(t, second.RolesCreated)
	require.False(t, second.AdminCreated)
	require.Equal(t, first.AdminID, second.AdminID)
	require.Len(t, st.Assignments(first.AdminID), 1)
}

func TestSeedGrants(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	rep, err := bootstrap.Seed(ctx, st, password.Bcrypt{Cost: bcrypt.MinCost}, bootstrap.Options{
		AdminEmail:    " Root@Example.com ",
		AdminPassword: "Adm1nPassword",
	})
	require.NoError(t, err)

	u, err := st.Users().GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	require.Equal(t, rep.AdminID, u.ID)
	require.Equal(t, types.UserStatusActive, u.Status)

	gate := rbac.NewGate(rbac.NewResolver(st.RBAC()), nil)
	perms, err := gate.EffectivePermissions(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, perms, len(rbac.BuiltinPermissions))
	require.True(t, perms.Has(rbac.PermRolesManage))

	for _, br := range rbac.BuiltinRoles {
		r, err := st.Roles().GetByName(ctx, br.Name)
		require.NoError(t, err)
		require.True(t, r.IsSystem, br.Name)
		require.Len(t, r.Permissions, len(br.Permissions), br.Name)
	}
}

func TestSeedWithoutAdminPassword(t *testing.T) {
	st := memory.New()
	rep, err := bootstrap.Seed(context.Background(), st, password.Bcrypt{Cost: bcrypt.MinCost}, bootstrap.Options{})
	require.NoError(t, err)
	require.False(t, rep.AdminCreated)
	require.Empty(t, rep.AdminID)
}

func TestSeedRejectsWeakAdminPassword(t *testing.T) {
	st := memory.New()
	_, err := bootstrap.Seed(context.Background(), st, password.Bcrypt{Cost: bcrypt.MinCost}, bootstrap.Options{
		AdminPassword: "short",
	})
	require.Error(t, err)
}
