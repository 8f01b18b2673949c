// file: internals/features/enrollment/route/enrollment_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	controller "github.com/DevMick/Web-API-Froebel-sub000/internals/features/enrollment/controller"
	saga "github.com/DevMick/Web-API-Froebel-sub000/internals/features/enrollment/service"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/policy"
)

// Register mounts the atomic enrollment endpoint on the tenant group.
func Register(tenant fiber.Router, eng *policy.Engine, s *saga.EnrollmentSaga) {
	h := controller.NewEnrollmentController(eng, s)
	tenant.Post("/enrollments", h.Enroll)
}
