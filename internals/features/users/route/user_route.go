// file: internals/features/users/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	controller "github.com/DevMick/Web-API-Froebel-sub000/internals/features/users/controller"
	userService "github.com/DevMick/Web-API-Froebel-sub000/internals/features/users/service"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/policy"
)

// RegisterPublic mounts login outside the auth middleware.
func RegisterPublic(api fiber.Router, db *gorm.DB, eng *policy.Engine, creds userService.CredentialStore, log *zap.Logger) {
	h := controller.NewUserController(db, eng, creds, log)
	api.Post("/auth/login", h.Login)
}

func Register(tenant fiber.Router, db *gorm.DB, eng *policy.Engine, creds userService.CredentialStore, log *zap.Logger) {
	h := controller.NewUserController(db, eng, creds, log)

	g := tenant.Group("/users")
	g.Get("/", h.List)
	g.Post("/", h.Create)
	g.Get("/:id", h.GetByID)
	g.Put("/:id", h.Update)
	g.Post("/:id/reset-password", h.ResetPassword)
	g.Delete("/:id", h.Delete)
}
