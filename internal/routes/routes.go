package routes

import (
	"fileupload/internal/config"
	"fileupload/internal/handlers"
	"fileupload/internal/models"
	"fileupload/internal/services"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg config.FileuploadConfig) {
	// API routes group
	api := app.Group("/api")

	// Monitor route
	app.Get("/metrics", monitor.New())

	// Health check route
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"service":   "fileupload",
			"timestamp": time.Now().UTC(),
		})
	})

	// File routes
	fileService := services.NewEntityService[models.File](db, services.EntityOptions{
		Name:    "file",
		Content: cfg.Content,
	})
	mountEntity(api, "/files", handlers.NewEntityHandler(fileService, "/api/files"))

	// FileContent routes
	fileContentService := services.NewEntityService[models.FileContent](db, services.EntityOptions{
		Name:           "fileContent",
		RequireContent: true,
		Content:        cfg.Content,
	})
	mountEntity(api, "/file-contents", handlers.NewEntityHandler(fileContentService, "/api/file-contents"))
}

func mountEntity[T any, PT models.Entity[T]](api fiber.Router, prefix string, h *handlers.EntityHandler[T, PT]) {
	group := api.Group(prefix)
	group.Get("/", h.List)
	group.Post("/", h.Create)
	group.Put("/", h.Update)
	group.Get("/:id", h.Get)
	group.Get("/:id/content", h.Download)
	group.Delete("/:id", h.Delete)
}
