package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"servicehub/internal/config"
	"servicehub/internal/handler"
	"servicehub/internal/logger"
	"servicehub/internal/middleware"
	"servicehub/internal/pkg/cache"
	"servicehub/internal/pkg/templates"
	"servicehub/internal/repository"
	"servicehub/internal/scheduler"
	"servicehub/internal/service"
	"servicehub/internal/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	var cacheStore cache.Store = cache.Nop{}
	var redisCache *cache.Cache
	if redisClient, err := config.NewRedisClient(cfg); err != nil {
		zl.Warn("redis unavailable, caching and login throttling disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
		redisCache = cache.New(redisClient, zl)
		cacheStore = redisCache
	}

	store := storage.Unavailable()
	if minioClient, err := config.NewMinIOClient(cfg, zl); err != nil {
		zl.Warn("minio unavailable, uploads will fail", zap.Error(err))
	} else {
		store = storage.NewMinIOStorage(minioClient, cfg)
	}

	registry := templates.NewRegistry()
	if err := registry.LoadFile(cfg.TemplatesPath); err != nil {
		zl.Fatal("failed to load notification templates", zap.String("path", cfg.TemplatesPath), zap.Error(err))
	}

	repos := repository.NewRepositories(db, config.NewQuerySession(db))
	services, err := service.NewServices(repos, cacheStore, store, registry, cfg, zl)
	if err != nil {
		zl.Fatal("failed to build services", zap.Error(err))
	}
	handlers := handler.NewHandlers(services)

	app := fiber.New(fiber.Config{
		AppName:      "servicehub",
		ErrorHandler: middleware.NewErrorHandler(zl),
		BodyLimit:    int(storage.MaxVideoSize) + 1<<20,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDevelopment()}))
	app.Use(middleware.RequestIDHandler())
	app.Use(middleware.RequestLogger(zl))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: cfg.CORSOrigins != "*",
	}))

	setupHealth(app, db, redisCache)
	handler.RegisterRoutes(app, handlers, services.Auth)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobs := scheduler.Default(services.Content, repos.Session, cfg, zl)
	jobs.Start(ctx)

	go func() {
		zl.Info("server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zl.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
	jobs.Wait()
	services.Notification.Wait()
}

func setupHealth(app *fiber.App, db *sqlx.DB, redisCache *cache.Cache) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		checks := fiber.Map{"database": "ok", "cache": "disabled"}
		status := fiber.StatusOK
		if err := db.PingContext(ctx); err != nil {
			checks["database"] = err.Error()
			status = fiber.StatusServiceUnavailable
		}
		if redisCache != nil {
			checks["cache"] = "ok"
			if err := redisCache.Ping(ctx); err != nil {
				checks["cache"] = err.Error()
				status = fiber.StatusServiceUnavailable
			}
		}
		return c.Status(status).JSON(checks)
	})
}
