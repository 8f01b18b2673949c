// file: internals/features/children/route/child_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "github.com/DevMick/Web-API-Froebel-sub000/internals/features/children/controller"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/policy"
)

// Register mounts children and link management on the tenant group.
func Register(tenant fiber.Router, db *gorm.DB, eng *policy.Engine) {
	children := controller.NewChildController(db, eng)
	links := controller.NewLinkController(db, eng)

	grp := tenant.Group("/children")
	grp.Get("/", children.List)
	grp.Post("/", children.Create)
	grp.Get("/:id", children.GetByID)
	grp.Put("/:id", children.Update)
	grp.Delete("/:id", children.Delete)

	lp := tenant.Group("/links/parents")
	lp.Get("/", links.ListParentLinks)
	lp.Post("/", links.CreateParentLink)
	lp.Delete("/:id", links.DeleteParentLink)

	lt := tenant.Group("/links/teachers")
	lt.Get("/", links.ListTeacherLinks)
	lt.Post("/", links.CreateTeacherLink)
	lt.Delete("/:id", links.DeleteTeacherLink)
}
