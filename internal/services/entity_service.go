package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"fileupload/internal/blob"
	"fileupload/internal/config"
	"fileupload/internal/constants"
	"fileupload/internal/models"
	"fileupload/internal/requests"
	"fileupload/internal/utils"

	"github.com/google/uuid"
	pkgErrors "github.com/kerimovok/go-pkg-utils/errors"
	"gorm.io/gorm"
)

// EntityOptions describes one entity kind
type EntityOptions struct {
	// Name is the entity name used in alerts, e.g. "file"
	Name string
	// RequireContent rejects entities without a blob
	RequireContent bool
	Content        config.ContentConfig
}

// EntityService handles persistence of one entity kind
type EntityService[T any, PT models.Entity[T]] struct {
	db     *gorm.DB
	opts   EntityOptions
	engine *constants.ValidationEngine
}

// NewEntityService creates a new entity service instance
func NewEntityService[T any, PT models.Entity[T]](db *gorm.DB, opts EntityOptions) *EntityService[T, PT] {
	return &EntityService[T, PT]{
		db:     db,
		opts:   opts,
		engine: constants.NewValidationEngine(opts.Content),
	}
}

// Name returns the entity name
func (s *EntityService[T, PT]) Name() string {
	return s.opts.Name
}

// List returns every entity, oldest first
func (s *EntityService[T, PT]) List(ctx context.Context) ([]T, error) {
	items := make([]T, 0)
	if err := s.db.WithContext(ctx).Order("created_at asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", s.opts.Name, err)
	}
	return items, nil
}

// Get returns the entity with the given id
func (s *EntityService[T, PT]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	var item T
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", s.opts.Name, err)
	}
	return &item, nil
}

// Create stores a new entity; the request must not carry an id
func (s *EntityService[T, PT]) Create(ctx context.Context, req requests.EntityRequest) (*T, error) {
	if req.ID != nil && *req.ID != uuid.Nil {
		return nil, ErrIDPresent
	}

	var item T
	fields := PT(&item).Values()
	fields.Name = strings.TrimSpace(req.Name)
	fields.Content = req.Content
	fields.ContentContentType = req.ContentContentType

	if err := s.ValidateFields(fields, ""); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("create %s: %w", s.opts.Name, err)
	}
	return &item, nil
}

// CreateFromUpload stores a new entity built from a multipart file
func (s *EntityService[T, PT]) CreateFromUpload(ctx context.Context, file *multipart.FileHeader) (*T, error) {
	src, err := file.Open()
	if err != nil {
		return nil, pkgErrors.InternalError("FILE_OPEN_ERROR", "Failed to upload file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, pkgErrors.InternalError("FILE_READ_ERROR", "Failed to upload file")
	}

	name := utils.CleanFileName(file.Filename)
	declared := file.Header.Get("Content-Type")
	if declared == "application/octet-stream" {
		declared = ""
	}

	var item T
	fields := PT(&item).Values()
	fields.Name = name
	if len(data) > 0 {
		fields.Content = data
		fields.ContentContentType = blob.DetectContentType(name, declared, data)
	}

	if err := s.ValidateFields(fields, name); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("create %s: %w", s.opts.Name, err)
	}
	return &item, nil
}

// Update replaces the editable fields of an existing entity
func (s *EntityService[T, PT]) Update(ctx context.Context, req requests.EntityRequest) (*T, error) {
	if req.ID == nil || *req.ID == uuid.Nil {
		return nil, ErrIDMissing
	}

	item, err := s.Get(ctx, *req.ID)
	if err != nil {
		return nil, err
	}

	fields := PT(item).Values()
	fields.Name = strings.TrimSpace(req.Name)
	fields.Content = req.Content
	fields.ContentContentType = req.ContentContentType

	if err := s.ValidateFields(fields, ""); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, fmt.Errorf("update %s: %w", s.opts.Name, err)
	}
	return item, nil
}

// Delete removes the entity with the given id
func (s *EntityService[T, PT]) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(PT(new(T)), "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", s.opts.Name, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ValidateFields checks the name, the blob pairing and the content policy
func (s *EntityService[T, PT]) ValidateFields(fields *models.Fields, filename string) error {
	if strings.TrimSpace(fields.Name) == "" {
		return ErrNameRequired
	}

	if len(fields.Content) == 0 {
		fields.Content = nil
	}

	hasContent := len(fields.Content) > 0
	if hasContent != (fields.ContentContentType != "") {
		return fmt.Errorf("%w: %w", ErrInvalidContent, blob.ErrUnpaired)
	}

	if !hasContent {
		if s.opts.RequireContent {
			return ErrContentRequired
		}
		return nil
	}

	if filename == "" {
		filename = fields.Name
	}
	result := s.engine.ValidateContent(filename, fields.ContentContentType, int64(len(fields.Content)))
	if !result.IsAllowed {
		return fmt.Errorf("%w: %w", ErrInvalidContent, pkgErrors.BadRequestError("CONTENT_REJECTED", result.Reason))
	}

	return nil
}
