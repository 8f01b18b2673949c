package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/configs"
	database "github.com/DevMick/Web-API-Froebel-sub000/internals/databases"
	helper "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/helpers/logger"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/helpers/storage"
	middlewares "github.com/DevMick/Web-API-Froebel-sub000/internals/middlewares"
	routes "github.com/DevMick/Web-API-Froebel-sub000/internals/route"
	seeds "github.com/DevMick/Web-API-Froebel-sub000/internals/seeds"
)

func main() {
	configs.LoadEnv()
	if err := logger.Init(configs.Environment, configs.ServiceName); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Get()

	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ErrorHandler:          helper.ErrorHandler(log),
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// request id + timing
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		log.Info("request",
			zap.String("reqid", id),
			zap.String("method", c.Method()),
			zap.String("path", c.OriginalURL()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
		)
		return err
	})

	middlewares.SetupMiddlewares(app)

	database.ConnectDB()
	database.TunePool()
	if err := database.Migrate(database.DB); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	if err := seeds.RunAllSeeds(database.DB, log); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}

	blobs := storage.NewDiskStore(configs.BlobBaseDir)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	routes.SetupRoutes(app, database.DB, blobs, log)

	go func() {
		port := configs.GetEnvOr("PORT", "3000")
		if err := app.Listen(":" + port); err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}
