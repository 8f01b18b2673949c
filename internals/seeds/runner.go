// file: internals/seeds/runner.go
package seeds

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/configs"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/constants"
	userModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/users/model"
	userService "github.com/DevMick/Web-API-Froebel-sub000/internals/features/users/service"
)

// RunAllSeeds bootstraps the minimum the API needs to be operable: one
// super admin account, so tenants can be provisioned at all. It is
// idempotent and no-ops when a super admin already exists.
func RunAllSeeds(db *gorm.DB, log *zap.Logger) error {
	email := configs.GetEnv("SEED_SUPERADMIN_EMAIL")
	password := configs.GetEnv("SEED_SUPERADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Info("seed skipped, no super admin credentials configured")
		return nil
	}

	var n int64
	if err := db.Model(&userModel.UserModel{}).
		Where("user_school_id IS NULL").
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	creds := userService.NewGormCredentialStore()
	u, err := creds.CreateAccount(context.Background(), db, userService.NewAccount{
		SchoolID: nil,
		FullName: configs.GetEnvOr("SEED_SUPERADMIN_NAME", "Platform Operator"),
		Email:    email,
		Password: password,
		Roles:    []constants.Role{constants.RoleSuperAdmin},
	})
	if err != nil {
		return err
	}
	log.Info("seeded super admin", zap.String("user_id", u.UserID.String()))
	return nil
}
