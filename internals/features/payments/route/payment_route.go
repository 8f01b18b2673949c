// file: internals/features/payments/route/payment_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "github.com/DevMick/Web-API-Froebel-sub000/internals/features/payments/controller"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/policy"
)

// Register mounts the payment ledger on the tenant group.
func Register(tenant fiber.Router, db *gorm.DB, eng *policy.Engine) {
	h := controller.NewPaymentController(db, eng)

	grp := tenant.Group("/payments")
	grp.Get("/", h.List)
	grp.Post("/", h.Create)
	grp.Put("/:id", h.Update)
	grp.Delete("/:id", h.Delete)
}
