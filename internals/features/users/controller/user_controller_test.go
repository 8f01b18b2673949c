// file: internals/features/users/controller/user_controller_test.go
package controller

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/constants"
	userModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/users/model"
	helper "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&userModel.UserModel{}))
	return db
}

// super admins carry no school id at all
func seedSuperAdmin(t *testing.T, db *gorm.DB, email string) *userModel.UserModel {
	t.Helper()
	u := &userModel.UserModel{
		UserFullName: "Platform Operator",
		UserEmail:    email,
		UserPassword: "irrelevant",
		UserIsActive: true,
	}
	require.NoError(t, u.SetRoles([]constants.Role{constants.RoleSuperAdmin}))
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestPlatformAccountResolvesForSuperAdminCaller(t *testing.T) {
	db := openTestDB(t)
	h := &UserController{DB: db}
	sa := seedSuperAdmin(t, db, "root@froebel.example")
	schoolID := uuid.New()

	// a tenant-bound caller never sees the platform account
	_, err := h.findInTenant(sa.UserID, schoolID, false)
	assert.Equal(t, helper.KindNotFound, helper.KindOf(err))

	got, err := h.findInTenant(sa.UserID, schoolID, true)
	require.NoError(t, err)
	assert.Equal(t, sa.UserID, got.UserID)
}

func TestLastActiveSuperAdminCannotBeRetired(t *testing.T) {
	db := openTestDB(t)
	h := &UserController{DB: db}
	first := seedSuperAdmin(t, db, "root@froebel.example")
	second := seedSuperAdmin(t, db, "ops@froebel.example")

	// another active super admin remains: retiring is allowed
	require.NoError(t, h.guardLastSuperAdmin(first.UserID))

	require.NoError(t, db.Model(&userModel.UserModel{}).
		Where("user_id = ?", second.UserID).
		Update("user_is_active", false).Error)

	err := h.guardLastSuperAdmin(first.UserID)
	assert.Equal(t, helper.KindInvariant, helper.KindOf(err))
}

func TestTenantAdminDoesNotCountTowardSuperAdminQuorum(t *testing.T) {
	db := openTestDB(t)
	h := &UserController{DB: db}
	only := seedSuperAdmin(t, db, "root@froebel.example")

	schoolID := uuid.New()
	admin := &userModel.UserModel{
		UserSchoolID: &schoolID,
		UserFullName: "School Admin",
		UserEmail:    "admin@froebel.example",
		UserPassword: "irrelevant",
		UserIsActive: true,
	}
	require.NoError(t, admin.SetRoles([]constants.Role{constants.RoleAdmin}))
	require.NoError(t, db.Create(admin).Error)

	err := h.guardLastSuperAdmin(only.UserID)
	assert.Equal(t, helper.KindInvariant, helper.KindOf(err))
}
