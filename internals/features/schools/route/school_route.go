// file: internals/features/schools/route/school_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "github.com/DevMick/Web-API-Froebel-sub000/internals/features/schools/controller"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/policy"
)

// Register mounts the school directory on /api and the per-tenant school
// resource on the tenant group.
func Register(api fiber.Router, tenant fiber.Router, db *gorm.DB, eng *policy.Engine) {
	h := controller.NewSchoolController(db, eng)

	api.Get("/schools", h.List)
	api.Post("/schools", h.Create)

	tenant.Get("/", h.GetByID)
	tenant.Put("/", h.Update)
	tenant.Delete("/", h.Delete)
}
