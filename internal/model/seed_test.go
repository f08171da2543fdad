package model

import (
	"context"
	"path/filepath"
	"testing"

	"labelhub/internal/auth"
	"labelhub/internal/config"
	"labelhub/internal/entity"

	"github.com/stretchr/testify/require"
)

func openTestRepository(t *testing.T) Repository {
	t.Helper()
	cfg := &config.Config{DBType: DBTypeSQLite, DBPath: filepath.Join(t.TempDir(), "seed.db")}
	repo, err := NewRepositoryFactory().CreateRepository(cfg)
	require.NoError(t, err)
	return repo
}

func TestCatalogPermissions(t *testing.T) {
	catalog, err := LoadCatalog()
	require.NoError(t, err)

	permissions := catalog.Permissions()
	require.Len(t, permissions, 9*4+3)

	codes := make(map[string]bool, len(permissions))
	for _, perm := range permissions {
		codes[perm.Code] = true
	}
	for _, code := range []string{"artists.create", "news.delete", "users.read", "roles.manage", "permissions.manage", "system.manage"} {
		require.True(t, codes[code], "missing %s", code)
	}
}

func TestSeedCatalogIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepository(t)

	require.NoError(t, SeedCatalog(ctx, repo))

	custom := &entity.Role{Name: "press"}
	require.NoError(t, repo.CreateRole(ctx, custom, []string{"news.create"}))
	editor, err := repo.GetRoleByName(ctx, entity.RoleEditor)
	require.NoError(t, err)
	require.NoError(t, repo.GrantPermissions(ctx, editor.ID, []string{"news.delete"}))

	require.NoError(t, SeedCatalog(ctx, repo))

	permissions, err := repo.ListPermissions(ctx)
	require.NoError(t, err)
	require.Len(t, permissions, 39)

	admin, err := repo.GetRoleByName(ctx, entity.RoleAdmin)
	require.NoError(t, err)
	require.True(t, admin.IsSystem)
	require.Len(t, admin.Permissions, 39)

	editor, err = repo.GetRoleByName(ctx, entity.RoleEditor)
	require.NoError(t, err)
	require.Len(t, editor.Permissions, 9*3+1, "seeding must keep the extra editor grant")

	user, err := repo.GetRoleByName(ctx, entity.RoleUser)
	require.NoError(t, err)
	require.Len(t, user.Permissions, 9)

	press, err := repo.GetRoleByName(ctx, "press")
	require.NoError(t, err)
	require.False(t, press.IsSystem)
	require.Equal(t, []string{"news.create"}, press.PermissionCodes())
}

func TestBootstrapAdmin(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepository(t)
	require.NoError(t, SeedCatalog(ctx, repo))

	cfg := config.Config{AdminUsername: "admin", AdminEmail: "Admin@Label.test"}
	created, err := BootstrapAdmin(ctx, repo, cfg)
	require.NoError(t, err)
	require.False(t, created, "no password configured")

	cfg.AdminPassword = "s3cret-pass"
	created, err = BootstrapAdmin(ctx, repo, cfg)
	require.NoError(t, err)
	require.True(t, created)

	user, err := repo.GetUserByLogin(ctx, "admin@label.test")
	require.NoError(t, err)
	require.True(t, user.IsActive)
	require.NotNil(t, user.Role)
	require.Equal(t, entity.RoleAdmin, user.Role.Name)
	require.NoError(t, auth.VerifyPassword(user.PasswordHash, "s3cret-pass"))

	created, err = BootstrapAdmin(ctx, repo, cfg)
	require.NoError(t, err)
	require.False(t, created, "users already exist")
}

func TestMigrateLegacyRoles(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepository(t)

	_, err := MigrateLegacyRoles(ctx, repo)
	require.Error(t, err, "system roles are not seeded yet")

	require.NoError(t, SeedCatalog(ctx, repo))
	for _, u := range []entity.User{
		{Username: "ed", Email: "ed@label.test", PasswordHash: "x", LegacyRole: entity.LegacyRoleEditor, IsActive: true},
		{Username: "bo", Email: "bo@label.test", PasswordHash: "x", LegacyRole: entity.LegacyRoleUser, IsActive: true},
	} {
		u := u
		require.NoError(t, repo.CreateUser(ctx, &u))
	}

	updated, err := MigrateLegacyRoles(ctx, repo)
	require.NoError(t, err)
	require.EqualValues(t, 2, updated)

	ed, err := repo.GetUserByLogin(ctx, "ed")
	require.NoError(t, err)
	require.Equal(t, entity.RoleEditor, ed.Role.Name)

	updated, err = MigrateLegacyRoles(ctx, repo)
	require.NoError(t, err)
	require.EqualValues(t, 0, updated)
}
