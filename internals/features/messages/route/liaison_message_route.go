// file: internals/features/messages/route/liaison_message_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "github.com/DevMick/Web-API-Froebel-sub000/internals/features/messages/controller"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/policy"
)

// Register mounts the liaison message thread on the tenant group.
func Register(tenant fiber.Router, db *gorm.DB, eng *policy.Engine) {
	h := controller.NewLiaisonMessageController(db, eng)

	grp := tenant.Group("/messages")
	grp.Get("/", h.List)
	grp.Post("/", h.Create)
	grp.Delete("/:id", h.Delete)
}
