package models

import (
	"time"

	"fileupload/internal/blob"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model carries the identity and timestamps shared by every entity
type Model struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns the id; ids are never taken from clients
func (m *Model) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Base exposes the embedded model to generic code
func (m *Model) Base() *Model { return m }

// Fields holds the user editable attributes: a name and an optional blob
type Fields struct {
	Name               string `json:"name" gorm:"not null"`
	Content            []byte `json:"content,omitempty"`
	ContentContentType string `json:"contentContentType,omitempty"`
}

// Values exposes the embedded fields to generic code
func (f *Fields) Values() *Fields { return f }

// Attachment returns the blob in its wire form
func (f *Fields) Attachment() blob.Attachment {
	if len(f.Content) == 0 && f.ContentContentType == "" {
		return blob.Attachment{}
	}
	return blob.Attachment{Content: blob.Encode(f.Content), ContentType: f.ContentContentType}
}

// HasContent reports whether a blob is attached
func (f *Fields) HasContent() bool {
	return len(f.Content) > 0
}

// Entity is satisfied by pointers to the stored entity types
type Entity[T any] interface {
	*T
	Base() *Model
	Values() *Fields
}
