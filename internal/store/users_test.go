package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/model"
)

func TestCreateUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	ana, err := CreateUser(ctx, database, "ana", "hash", model.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, "ana", ana.Username)
	assert.Equal(t, model.RoleMember, ana.Role)
	assert.Nil(t, ana.DeletedAt)

	got, err := GetUser(ctx, database, ana.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "hash", got.PasswordHash)

	_, err = CreateUser(ctx, database, "ana", "other", model.RoleAdmin)
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = CreateUser(ctx, database, "bojan", "hash", "manager")
	assert.Error(t, err, "unknown role")
}

func TestGetUserByUsername(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := CreateUser(ctx, database, "mama", "hash", model.RoleAdmin)
	require.NoError(t, err)

	u, err := GetUserByUsername(ctx, database, "mama")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, model.RoleAdmin, u.Role)

	missing, err := GetUserByUsername(ctx, database, "oce")
	require.NoError(t, err)
	assert.Nil(t, missing)

	none, err := GetUser(ctx, database, 404)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestDeletedUsernameReusable(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := CreateUser(ctx, database, "admin", "hash", model.RoleAdmin)
	require.NoError(t, err)
	old, err := CreateUser(ctx, database, "cveta", "old", model.RoleMember)
	require.NoError(t, err)
	require.NoError(t, DeleteUser(ctx, database, old.ID))

	_, err = CreateUser(ctx, database, "cveta", "new", model.RoleMember)
	require.NoError(t, err)

	got, err := GetUserByUsername(ctx, database, "cveta")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "new", got.PasswordHash)

	// The deleted row keeps its name for history.
	gone, err := GetUser(ctx, database, old.ID)
	require.NoError(t, err)
	require.NotNil(t, gone)
	assert.NotNil(t, gone.DeletedAt)
}

func TestListUsersAdminsFirst(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	for _, u := range []struct{ name, role string }{
		{"zala", model.RoleMember},
		{"boris", model.RoleMember},
		{"vesna", model.RoleAdmin},
	} {
		_, err := CreateUser(ctx, database, u.name, "hash", u.role)
		require.NoError(t, err)
	}

	users, err := ListUsers(ctx, database)
	require.NoError(t, err)

	var names []string
	for _, u := range users {
		names = append(names, u.Username)
	}
	assert.Equal(t, []string{"vesna", "boris", "zala"}, names)
}

func TestLastAdminGuard(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin, err := CreateUser(ctx, database, "admin", "hash", model.RoleAdmin)
	require.NoError(t, err)
	member, err := CreateUser(ctx, database, "member", "hash", model.RoleMember)
	require.NoError(t, err)

	assert.ErrorIs(t, DeleteUser(ctx, database, admin.ID), ErrLastAdmin)
	assert.ErrorIs(t, UpdateUserRole(ctx, database, admin.ID, model.RoleMember), ErrLastAdmin)

	// Re-asserting the admin role is not a demotion.
	assert.NoError(t, UpdateUserRole(ctx, database, admin.ID, model.RoleAdmin))

	require.NoError(t, UpdateUserRole(ctx, database, member.ID, model.RoleAdmin))
	assert.NoError(t, DeleteUser(ctx, database, admin.ID))

	assert.ErrorIs(t, DeleteUser(ctx, database, admin.ID), ErrNotFound)
	assert.ErrorIs(t, UpdateUserRole(ctx, database, 999, model.RoleMember), ErrNotFound)
}

func TestUpdateUserPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	u, err := CreateUser(ctx, database, "pwuser", "oldhash", model.RoleMember)
	require.NoError(t, err)
	require.NoError(t, UpdateUserPassword(ctx, database, u.ID, "newhash"))

	got, err := GetUser(ctx, database, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "newhash", got.PasswordHash)

	assert.ErrorIs(t, UpdateUserPassword(ctx, database, 999, "x"), ErrNotFound)
}
