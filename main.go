package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fileupload/internal/config"
	"fileupload/internal/constants"
	"fileupload/internal/database"
	"fileupload/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	pkgConfig "github.com/kerimovok/go-pkg-utils/config"
	pkgValidator "github.com/kerimovok/go-pkg-utils/validator"
)

const (
	// used when no content rule caps the blob size
	fallbackBodyLimit = 100 << 20
	shutdownTimeout   = 10 * time.Second
)

// bootstrap loads configuration and opens the database
func bootstrap() error {
	if err := config.LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configs: %w", err)
	}

	if err := pkgValidator.ValidateConfig(constants.EnvValidationRules); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := database.ConnectDB(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	return nil
}

// bodyLimit sizes request bodies for the largest blob the policy accepts.
// JSON bodies carry the blob base64 encoded, a third larger than the bytes
func bodyLimit(cfg config.ContentConfig) int {
	largest := constants.NewValidationEngine(cfg).LargestLimit()
	if largest <= 0 {
		return fallbackBodyLimit
	}
	return int(largest/3*4) + 1<<20
}

func setupApp(cfg config.FileuploadConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   constants.AppName,
		BodyLimit: bodyLimit(cfg.Content),
	})

	allowOrigins := strings.TrimSpace(pkgConfig.GetEnv("CORS_ORIGINS"))
	if allowOrigins == "" {
		allowOrigins = "*"
	}

	// Middleware
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  allowOrigins,
		ExposeHeaders: strings.Join([]string{constants.AlertHeader, constants.AlertParamsHeader, fiber.HeaderLocation}, ","),
	}))
	app.Use(compress.New())
	app.Use(healthcheck.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string {
			return uuid.New().String()
		},
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	return app
}

func main() {
	if err := bootstrap(); err != nil {
		log.Fatal(err)
	}

	cfg := config.GetConfig().Fileupload
	app := setupApp(cfg)
	routes.SetupRoutes(app, database.DB, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Println("Gracefully shutting down...")

		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Printf("error during server shutdown: %v", err)
		}
	}()

	addr := ":" + pkgConfig.GetEnv("PORT")
	log.Printf("fileupload API listening on %s", addr)
	if err := app.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("failed to start server: %v", err)
	}
	log.Println("Server gracefully stopped")
}
