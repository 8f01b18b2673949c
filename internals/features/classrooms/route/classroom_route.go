// file: internals/features/classrooms/route/classroom_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "github.com/DevMick/Web-API-Froebel-sub000/internals/features/classrooms/controller"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/policy"
)

func Register(tenant fiber.Router, db *gorm.DB, eng *policy.Engine) {
	h := controller.NewClassroomController(db, eng)

	g := tenant.Group("/classrooms")
	g.Get("/", h.List)
	g.Post("/", h.Create)
	g.Get("/:id", h.GetByID)
	g.Put("/:id", h.Update)
	g.Delete("/:id", h.Delete)
}
