// file: internals/features/academics/route/academic_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "github.com/DevMick/Web-API-Froebel-sub000/internals/features/academics/controller"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/helpers/storage"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/policy"
)

// Register mounts report cards and schedule files on the tenant group.
func Register(tenant fiber.Router, db *gorm.DB, eng *policy.Engine, blobs storage.BlobStore) {
	cards := controller.NewReportCardController(db, eng, blobs)
	files := controller.NewScheduleFileController(db, eng, blobs)

	rc := tenant.Group("/report-cards")
	rc.Get("/", cards.List)
	rc.Post("/", cards.Create)
	rc.Patch("/:id", cards.Update)
	rc.Delete("/:id", cards.Delete)

	sf := tenant.Group("/schedule-files")
	sf.Get("/", files.List)
	sf.Post("/", files.Create)
	sf.Delete("/:id", files.Delete)
}
