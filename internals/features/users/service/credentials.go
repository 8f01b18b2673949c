// file: internals/features/users/service/credentials.go
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/constants"
	model "github.com/DevMick/Web-API-Froebel-sub000/internals/features/users/model"
	helper "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers"
)

// NewAccount is the input to account creation. SchoolID is nil only for
// super admins.
type NewAccount struct {
	SchoolID  *uuid.UUID
	FullName  string
	Email     string
	Password  string
	Roles     []constants.Role
	CreatedBy *uuid.UUID
}

// CredentialStore is the identity/credential collaborator. The gorm
// implementation below is the in-process default; the enrollment saga and
// the user controller only depend on the interface.
type CredentialStore interface {
	CreateAccount(ctx context.Context, tx *gorm.DB, in NewAccount) (*model.UserModel, error)
	Authenticate(ctx context.Context, db *gorm.DB, email, password string) (*model.UserModel, error)
	ResetPassword(ctx context.Context, db *gorm.DB, userID uuid.UUID, newPassword string) error
}

type GormCredentialStore struct{}

func NewGormCredentialStore() *GormCredentialStore { return &GormCredentialStore{} }

// CreateAccount runs on the caller's handle so a surrounding transaction
// owns the write.
func (s *GormCredentialStore) CreateAccount(ctx context.Context, tx *gorm.DB, in NewAccount) (*model.UserModel, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var n int64
	if err := tx.WithContext(ctx).Model(&model.UserModel{}).
		Where("user_email = ?", email).
		Count(&n).Error; err != nil {
		return nil, helper.ErrInternal(err)
	}
	if n > 0 {
		return nil, helper.ErrConflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, helper.ErrInternal(err)
	}

	u := &model.UserModel{
		UserSchoolID:  in.SchoolID,
		UserFullName:  strings.TrimSpace(in.FullName),
		UserEmail:     email,
		UserPassword:  string(hash),
		UserIsActive:  true,
		UserCreatedBy: in.CreatedBy,
	}
	if err := u.SetRoles(in.Roles); err != nil {
		return nil, helper.ErrInternal(err)
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.ErrConflict("email already registered")
		}
		return nil, helper.ErrInternal(err)
	}
	return u, nil
}

func (s *GormCredentialStore) Authenticate(ctx context.Context, db *gorm.DB, email, password string) (*model.UserModel, error) {
	var u model.UserModel
	err := db.WithContext(ctx).
		Where("user_email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, helper.ErrValidation("invalid credentials")
		}
		return nil, helper.ErrInternal(err)
	}
	if !u.UserIsActive {
		return nil, helper.ErrValidation("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.UserPassword), []byte(password)) != nil {
		return nil, helper.ErrValidation("invalid credentials")
	}
	return &u, nil
}

func (s *GormCredentialStore) ResetPassword(ctx context.Context, db *gorm.DB, userID uuid.UUID, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return helper.ErrInternal(err)
	}
	res := db.WithContext(ctx).Model(&model.UserModel{}).
		Where("user_id = ?", userID).
		Update("user_password", string(hash))
	if res.Error != nil {
		return helper.ErrInternal(res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.ErrNotFound("user")
	}
	return nil
}
