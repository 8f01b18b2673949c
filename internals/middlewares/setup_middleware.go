package middlewares

import (
	"github.com/gofiber/fiber/v2"
)

// SetupMiddlewares wires the app-wide layers, outermost first.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
}
