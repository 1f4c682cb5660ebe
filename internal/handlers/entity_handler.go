package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"fileupload/internal/constants"
	"fileupload/internal/models"
	"fileupload/internal/requests"
	"fileupload/internal/services"
	"fileupload/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kerimovok/go-pkg-utils/httpx"
	"github.com/kerimovok/go-pkg-utils/validator"
)

// EntityHandler handles the REST resource of one entity kind
type EntityHandler[T any, PT models.Entity[T]] struct {
	service  *services.EntityService[T, PT]
	basePath string
}

// NewEntityHandler creates a handler serving the resource mounted at basePath
func NewEntityHandler[T any, PT models.Entity[T]](service *services.EntityService[T, PT], basePath string) *EntityHandler[T, PT] {
	return &EntityHandler[T, PT]{
		service:  service,
		basePath: strings.TrimSuffix(basePath, "/"),
	}
}

// List returns every entity
func (h *EntityHandler[T, PT]) List(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		return h.sendError(c, err)
	}
	return c.JSON(items)
}

// Get returns a single entity
func (h *EntityHandler[T, PT]) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.SendResponse(c, httpx.BadRequest("Invalid "+h.service.Name()+" ID", err))
	}

	item, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return h.sendError(c, err)
	}
	return c.JSON(item)
}

// Create stores a new entity from a JSON body or a multipart "file" part
func (h *EntityHandler[T, PT]) Create(c *fiber.Ctx) error {
	var (
		item *T
		err  error
	)

	if isMultipart(c) {
		file, ferr := c.FormFile("file")
		if ferr != nil {
			return httpx.SendResponse(c, httpx.BadRequest("No file provided", ferr))
		}
		item, err = h.service.CreateFromUpload(c.UserContext(), file)
	} else {
		input, ok, perr := h.parseBody(c)
		if !ok {
			return perr
		}
		item, err = h.service.Create(c.UserContext(), *input)
	}
	if err != nil {
		return h.sendError(c, err)
	}

	id := PT(item).Base().ID.String()
	h.setAlert(c, "created", id)
	c.Location(h.basePath + "/" + id)
	return c.Status(fiber.StatusCreated).JSON(item)
}

// Update replaces an existing entity; the id travels in the body
func (h *EntityHandler[T, PT]) Update(c *fiber.Ctx) error {
	input, ok, err := h.parseBody(c)
	if !ok {
		return err
	}

	item, err := h.service.Update(c.UserContext(), *input)
	if err != nil {
		return h.sendError(c, err)
	}

	h.setAlert(c, "updated", PT(item).Base().ID.String())
	return c.JSON(item)
}

// Delete removes an entity
func (h *EntityHandler[T, PT]) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.SendResponse(c, httpx.BadRequest("Invalid "+h.service.Name()+" ID", err))
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return h.sendError(c, err)
	}

	h.setAlert(c, "deleted", id.String())
	return c.SendStatus(fiber.StatusOK)
}

// Download streams the raw blob with its content type
func (h *EntityHandler[T, PT]) Download(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.SendResponse(c, httpx.BadRequest("Invalid "+h.service.Name()+" ID", err))
	}

	item, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return h.sendError(c, err)
	}

	fields := PT(item).Values()
	if !fields.HasContent() {
		return httpx.SendResponse(c, httpx.NotFound("No content attached"))
	}

	c.Set(fiber.HeaderContentType, fields.ContentContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", utils.DownloadName(fields.Name, fields.ContentContentType)))
	return c.Send(fields.Content)
}

// parseBody decodes and validates the JSON body. When ok is false the error
// response has already been written and err is the result of sending it
func (h *EntityHandler[T, PT]) parseBody(c *fiber.Ctx) (input *requests.EntityRequest, ok bool, err error) {
	input = &requests.EntityRequest{}
	if err := c.BodyParser(input); err != nil {
		return nil, false, httpx.SendResponse(c, httpx.BadRequest("Invalid request body", err))
	}

	// Validate request
	if err := validator.ValidateStruct(input); err != nil {
		return nil, false, httpx.SendResponse(c, httpx.BadRequest("Validation failed", err))
	}

	return input, true, nil
}

func (h *EntityHandler[T, PT]) setAlert(c *fiber.Ctx, action, id string) {
	c.Set(constants.AlertHeader, fmt.Sprintf("%s.%s.%s", constants.AppName, h.service.Name(), action))
	c.Set(constants.AlertParamsHeader, id)
}

func (h *EntityHandler[T, PT]) sendError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return httpx.SendResponse(c, httpx.NotFound(capitalize(h.service.Name())+" not found"))
	case errors.Is(err, services.ErrIDPresent),
		errors.Is(err, services.ErrIDMissing),
		errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrContentRequired),
		errors.Is(err, services.ErrInvalidContent):
		return httpx.SendResponse(c, httpx.BadRequest(err.Error(), err))
	}

	log.Printf("%s request failed: %v", h.service.Name(), err)
	return httpx.SendResponse(c, httpx.InternalServerError("Failed to process "+h.service.Name(), err))
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
