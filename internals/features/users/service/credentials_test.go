// file: internals/features/users/service/credentials_test.go
package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/constants"
	model "github.com/DevMick/Web-API-Froebel-sub000/internals/features/users/model"
	helper "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.UserModel{}))
	return db
}

func TestCreateAccountAndAuthenticate(t *testing.T) {
	db := openTestDB(t)
	s := NewGormCredentialStore()
	ctx := context.Background()
	schoolID := uuid.New()

	u, err := s.CreateAccount(ctx, db, NewAccount{
		SchoolID: &schoolID,
		FullName: "Adama Traore",
		Email:    "Adama.Traore@Example.CI",
		Password: "first-password",
		Roles:    []constants.Role{constants.RoleTeacher},
	})
	require.NoError(t, err)
	assert.Equal(t, "adama.traore@example.ci", u.UserEmail)
	assert.True(t, u.HasRole(constants.RoleTeacher))

	got, err := s.Authenticate(ctx, db, "adama.traore@example.ci", "first-password")
	require.NoError(t, err)
	assert.Equal(t, u.UserID, got.UserID)

	_, err = s.Authenticate(ctx, db, "adama.traore@example.ci", "wrong")
	require.Error(t, err)
	assert.Equal(t, helper.KindValidation, helper.KindOf(err))
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	s := NewGormCredentialStore()
	ctx := context.Background()
	schoolID := uuid.New()

	in := NewAccount{
		SchoolID: &schoolID,
		FullName: "Mariam Kone",
		Email:    "mariam@example.ci",
		Password: "some-password",
		Roles:    []constants.Role{constants.RoleParent},
	}
	_, err := s.CreateAccount(ctx, db, in)
	require.NoError(t, err)

	// same address, different casing
	in.Email = "MARIAM@example.ci"
	_, err = s.CreateAccount(ctx, db, in)
	require.Error(t, err)
	assert.Equal(t, helper.KindConflict, helper.KindOf(err))
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	db := openTestDB(t)
	s := NewGormCredentialStore()
	ctx := context.Background()
	schoolID := uuid.New()

	u, err := s.CreateAccount(ctx, db, NewAccount{
		SchoolID: &schoolID,
		FullName: "Oumar Sangare",
		Email:    "oumar@example.ci",
		Password: "some-password",
		Roles:    []constants.Role{constants.RoleParent},
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&model.UserModel{}).
		Where("user_id = ?", u.UserID).
		Update("user_is_active", false).Error)

	_, err = s.Authenticate(ctx, db, "oumar@example.ci", "some-password")
	require.Error(t, err)
	assert.Equal(t, helper.KindValidation, helper.KindOf(err))
}

func TestResetPassword(t *testing.T) {
	db := openTestDB(t)
	s := NewGormCredentialStore()
	ctx := context.Background()
	schoolID := uuid.New()

	u, err := s.CreateAccount(ctx, db, NewAccount{
		SchoolID: &schoolID,
		FullName: "Awa Coulibaly",
		Email:    "awa@example.ci",
		Password: "old-password",
		Roles:    []constants.Role{constants.RoleAdmin},
	})
	require.NoError(t, err)

	require.NoError(t, s.ResetPassword(ctx, db, u.UserID, "new-password"))

	_, err = s.Authenticate(ctx, db, "awa@example.ci", "old-password")
	require.Error(t, err)
	_, err = s.Authenticate(ctx, db, "awa@example.ci", "new-password")
	require.NoError(t, err)

	err = s.ResetPassword(ctx, db, uuid.New(), "whatever")
	require.Error(t, err)
	assert.Equal(t, helper.KindNotFound, helper.KindOf(err))
}
