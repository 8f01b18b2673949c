// file: internals/route/routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	academicRoute "github.com/DevMick/Web-API-Froebel-sub000/internals/features/academics/route"
	announcementRoute "github.com/DevMick/Web-API-Froebel-sub000/internals/features/announcements/route"
	childRepository "github.com/DevMick/Web-API-Froebel-sub000/internals/features/children/repository"
	childRoute "github.com/DevMick/Web-API-Froebel-sub000/internals/features/children/route"
	classroomRoute "github.com/DevMick/Web-API-Froebel-sub000/internals/features/classrooms/route"
	enrollmentRoute "github.com/DevMick/Web-API-Froebel-sub000/internals/features/enrollment/route"
	enrollmentService "github.com/DevMick/Web-API-Froebel-sub000/internals/features/enrollment/service"
	messageRoute "github.com/DevMick/Web-API-Froebel-sub000/internals/features/messages/route"
	paymentRoute "github.com/DevMick/Web-API-Froebel-sub000/internals/features/payments/route"
	schoolRoute "github.com/DevMick/Web-API-Froebel-sub000/internals/features/schools/route"
	userRoute "github.com/DevMick/Web-API-Froebel-sub000/internals/features/users/route"
	userService "github.com/DevMick/Web-API-Froebel-sub000/internals/features/users/service"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/helpers/storage"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/middlewares"
	authMiddleware "github.com/DevMick/Web-API-Froebel-sub000/internals/middlewares/auth"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/policy"
)

// SetupRoutes assembles the collaborators and mounts every feature.
// Everything except login lives behind the auth middleware, under the
// tenant prefix /api/tenants/:school_id.
func SetupRoutes(app *fiber.App, db *gorm.DB, blobs storage.BlobStore, log *zap.Logger) {
	eng := policy.NewEngine(childRepository.NewRelationResolver(db))
	creds := userService.NewGormCredentialStore()
	saga := enrollmentService.NewEnrollmentSaga(db, creds, &enrollmentService.LogNotifier{Log: log}, log)

	api := app.Group("/api")

	// public
	api.Use("/auth/login", middlewares.LoginRateLimiter())
	userRoute.RegisterPublic(api, db, eng, creds, log)

	// everything else requires a verified principal
	api.Use(authMiddleware.AuthMiddleware(db))

	tenant := api.Group("/tenants/:school_id")

	schoolRoute.Register(api, tenant, db, eng)
	userRoute.Register(tenant, db, eng, creds, log)
	classroomRoute.Register(tenant, db, eng)
	childRoute.Register(tenant, db, eng)
	announcementRoute.Register(tenant, db, eng)
	messageRoute.Register(tenant, db, eng)
	academicRoute.Register(tenant, db, eng, blobs)
	paymentRoute.Register(tenant, db, eng)
	enrollmentRoute.Register(tenant, eng, saga)
}
