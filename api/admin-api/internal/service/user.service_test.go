package internal_service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal_entity "github.com/rapidaai/pbx-admin/api/admin-api/internal/entity"
	"github.com/rapidaai/pbx-admin/pkg/types"
)

func TestUserCreateNormalizesEmail(t *testing.T) {
	postgres := newTestPostgres(t)
	seedOrganization(t, postgres, 10, "")
	svc := NewUserService(newTestLogger(t), postgres)

	user := &internal_entity.User{Email: "  Alice@Example.COM ", Name: "Alice"}
	require.NoError(t, svc.Create(context.Background(), testAdmin(10), user, "long enough"))
	assert.Equal(t, "alice@example.com", user.Email)
	// Role defaults to the least privileged.
	assert.Equal(t, types.RoleViewer, user.Role)
}

func TestUserEmailUniqueAcrossOrganizations(t *testing.T) {
	postgres := newTestPostgres(t)
	seedOrganization(t, postgres, 10, "")
	seedOrganization(t, postgres, 20, "")
	svc := NewUserService(newTestLogger(t), postgres)

	require.NoError(t, svc.Create(context.Background(), testAdmin(10),
		&internal_entity.User{Email: "alice@example.com", Name: "Alice"}, "long enough"))

	// Logins resolve by email alone, so the address is globally unique.
	err := svc.Create(context.Background(), testAdmin(20),
		&internal_entity.User{Email: "alice@example.com", Name: "Other Alice"}, "long enough")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserCreateValidation(t *testing.T) {
	postgres := newTestPostgres(t)
	auth := testAdmin(10)
	seedOrganization(t, postgres, 10, "")
	svc := NewUserService(newTestLogger(t), postgres)

	tests := []struct {
		name     string
		user     internal_entity.User
		password string
	}{
		{"short password", internal_entity.User{Email: "a@b.com", Name: "a"}, "short"},
		{"bad email", internal_entity.User{Email: "not-an-email", Name: "a"}, "long enough"},
		{"missing name", internal_entity.User{Email: "a@b.com"}, "long enough"},
		{"unknown role", internal_entity.User{Email: "a@b.com", Name: "a", Role: "owner"}, "long enough"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			user := tc.user
			err := svc.Create(context.Background(), auth, &user, tc.password)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUserUpdatePreservesPasswordHash(t *testing.T) {
	postgres := newTestPostgres(t)
	auth := testAdmin(10)
	seedOrganization(t, postgres, 10, "")
	svc := NewUserService(newTestLogger(t), postgres)

	user := &internal_entity.User{Email: "alice@example.com", Name: "Alice", Role: types.RoleManager}
	require.NoError(t, svc.Create(context.Background(), auth, user, "long enough"))

	update := &internal_entity.User{Email: "alice@example.com", Name: "Alice Renamed", Role: types.RoleManager}
	update.Id = user.Id
	require.NoError(t, svc.Update(context.Background(), auth, update))

	got, err := svc.Get(context.Background(), auth, user.Id)
	require.NoError(t, err)
	assert.Equal(t, "Alice Renamed", got.Name)
	assert.Equal(t, user.PasswordHash, got.PasswordHash)
}

func TestUserSetPassword(t *testing.T) {
	postgres := newTestPostgres(t)
	auth := testAdmin(10)
	seedOrganization(t, postgres, 10, "")
	svc := NewUserService(newTestLogger(t), postgres)

	user := &internal_entity.User{Email: "alice@example.com", Name: "Alice"}
	require.NoError(t, svc.Create(context.Background(), auth, user, "long enough"))

	assert.ErrorIs(t, svc.SetPassword(context.Background(), auth, user.Id, "short"), ErrInvalidInput)
	require.NoError(t, svc.SetPassword(context.Background(), auth, user.Id, "replacement pass"))

	authSvc := NewAuthService(newTestLogger(t), postgres, newTestConfig())
	_, _, err := authSvc.Login(context.Background(), "alice@example.com", "replacement pass")
	assert.NoError(t, err)
}

func TestUserCannotDeleteSelf(t *testing.T) {
	postgres := newTestPostgres(t)
	seedOrganization(t, postgres, 10, "")
	svc := NewUserService(newTestLogger(t), postgres)

	auth := testAdmin(10)
	err := svc.Delete(context.Background(), auth, auth.GetUserId())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserLastAdminProtected(t *testing.T) {
	postgres := newTestPostgres(t)
	auth := testAdmin(10)
	seedOrganization(t, postgres, 10, "")
	svc := NewUserService(newTestLogger(t), postgres)

	only := &internal_entity.User{Email: "admin@pbx.com", Name: "Admin", Role: types.RoleAdmin}
	require.NoError(t, svc.Create(context.Background(), auth, only, "long enough"))

	err := svc.Delete(context.Background(), auth, only.Id)
	assert.ErrorIs(t, err, ErrInvalidInput)

	second := &internal_entity.User{Email: "backup@pbx.com", Name: "Backup", Role: types.RoleAdmin}
	require.NoError(t, svc.Create(context.Background(), auth, second, "long enough"))
	require.NoError(t, svc.Delete(context.Background(), auth, only.Id))

	// Non-admins go regardless.
	viewer := &internal_entity.User{Email: "viewer@pbx.com", Name: "Viewer"}
	require.NoError(t, svc.Create(context.Background(), auth, viewer, "long enough"))
	require.NoError(t, svc.Delete(context.Background(), auth, viewer.Id))
}
