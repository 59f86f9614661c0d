package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/clinic-records/internal/authz"
	"github.com/BruksfildServices01/clinic-records/internal/models"
)

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}))
	return NewStore(db), db
}

func TestCreateAndFind(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "jane_staff", "secret123", authz.RoleStaff, "Jane Doe", "jane@example.com")
	require.NoError(t, err)
	require.True(t, created)

	user, err := store.FindByUsername(ctx, "jane_staff")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, authz.RoleStaff, user.Role)
	assert.Equal(t, "Jane Doe", user.FullName)
	assert.True(t, user.Active)

	// Plaintext must never be persisted.
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NotEmpty(t, user.PasswordHash)

	byID, err := store.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, user.Username, byID.Username)
}

func TestFindNotFoundIsNotAnError(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	user, err := store.FindByUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = store.FindByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestCreateDuplicateUsername(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "jane_staff", "secret123", authz.RoleStaff, "Jane Doe", "")
	require.NoError(t, err)
	require.True(t, created)

	created, err = store.Create(ctx, "jane_staff", "other", authz.RoleDentist, "Impostor", "")
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestVerify(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "jane_staff", "secret123", authz.RoleStaff, "", "")
	require.NoError(t, err)

	user, err := store.FindByUsername(ctx, "jane_staff")
	require.NoError(t, err)

	assert.True(t, store.Verify(user, "secret123"))
	assert.False(t, store.Verify(user, "wrong"))
	assert.False(t, store.Verify(nil, "secret123"))
}

func TestSetPassword(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "jane_staff", "old-password", authz.RoleStaff, "", "")
	require.NoError(t, err)

	user, err := store.FindByUsername(ctx, "jane_staff")
	require.NoError(t, err)

	require.NoError(t, store.SetPassword(ctx, user.ID, "new-password"))

	user, err = store.FindByUsername(ctx, "jane_staff")
	require.NoError(t, err)
	assert.False(t, store.Verify(user, "old-password"))
	assert.True(t, store.Verify(user, "new-password"))
}

func TestUsernamesByIDs(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "manager", "12345", authz.RoleOwner, "Clinic Owner", "")
	require.NoError(t, err)
	_, err = store.Create(ctx, "jane_staff", "secret123", authz.RoleStaff, "Jane Doe", "")
	require.NoError(t, err)

	owner, err := store.FindByUsername(ctx, "manager")
	require.NoError(t, err)
	staff, err := store.FindByUsername(ctx, "jane_staff")
	require.NoError(t, err)

	mapping, err := store.UsernamesByIDs(ctx, []uint{owner.ID, staff.ID})
	require.NoError(t, err)
	require.Len(t, mapping, 2)
	assert.Equal(t, "manager", mapping[owner.ID])
	assert.Equal(t, "jane_staff", mapping[staff.ID])

	// Unknown ids are simply absent from the result.
	mapping, err = store.UsernamesByIDs(ctx, []uint{owner.ID, 999})
	require.NoError(t, err)
	assert.Len(t, mapping, 1)
}

func TestUsernamesByIDsEmptyInputSkipsQuery(t *testing.T) {
	// A store with no database at all: the empty-input fast path must
	// return before any query is issued.
	store := NewStore(nil)

	mapping, err := store.UsernamesByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, mapping)
}
