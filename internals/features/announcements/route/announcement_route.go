// file: internals/features/announcements/route/announcement_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "github.com/DevMick/Web-API-Froebel-sub000/internals/features/announcements/controller"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/policy"
)

// Register mounts the announcement and activity feeds on the tenant group.
func Register(tenant fiber.Router, db *gorm.DB, eng *policy.Engine) {
	ann := controller.NewAnnouncementController(db, eng)
	act := controller.NewActivityController(db, eng)

	grp := tenant.Group("/announcements")
	grp.Get("/", ann.List)
	grp.Post("/", ann.Create)
	grp.Get("/:id", ann.GetByID)
	grp.Put("/:id", ann.Update)
	grp.Delete("/:id", ann.Delete)

	ag := tenant.Group("/activities")
	ag.Get("/", act.List)
	ag.Post("/", act.Create)
	ag.Put("/:id", act.Update)
	ag.Delete("/:id", act.Delete)
}
