// Package draft builds entities that are safe to submit
package draft

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"fileupload/internal/blob"
	"fileupload/internal/entity"
)

const (
	FieldName    = "name"
	FieldContent = "content"

	msgRequired = "This field is required."
)

// FieldErrors maps a field name to its validation message
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, fe[k]))
	}
	return "invalid draft: " + strings.Join(parts, "; ")
}

// AsFieldErrors extracts FieldErrors from err
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// Builder accumulates changes to a draft entity
type Builder struct {
	kind entity.Kind
	e    entity.Entity
}

// New starts an empty draft
func New(kind entity.Kind) *Builder {
	return &Builder{kind: kind}
}

// From starts a draft from an existing entity
func From(kind entity.Kind, e entity.Entity) *Builder {
	return &Builder{kind: kind, e: e}
}

func (b *Builder) SetName(name string) *Builder {
	b.e.Name = name
	return b
}

// SetBlob replaces the attachment. Both sides must be set or both empty
func (b *Builder) SetBlob(a blob.Attachment) error {
	if err := a.Validate(); err != nil {
		return err
	}
	b.e.Content = a.Content
	b.e.ContentContentType = a.ContentType
	return nil
}

func (b *Builder) ClearBlob() *Builder {
	b.e.Content = ""
	b.e.ContentContentType = ""
	return b
}

// Peek returns the draft as it stands, without validation
func (b *Builder) Peek() entity.Entity {
	return b.e
}

// Validate returns nil when the draft may be submitted
func (b *Builder) Validate() FieldErrors {
	fe := FieldErrors{}
	if strings.TrimSpace(b.e.Name) == "" {
		fe[FieldName] = msgRequired
	}
	if err := blob.CheckPair(b.e.Content, b.e.ContentContentType); err != nil {
		fe[FieldContent] = err.Error()
	} else if b.kind.RequireContent && b.e.Content == "" {
		fe[FieldContent] = msgRequired
	}
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// Build validates and returns the entity ready for submission
func (b *Builder) Build() (entity.Entity, error) {
	if fe := b.Validate(); fe != nil {
		return entity.Entity{}, fe
	}
	e := b.e
	e.Name = strings.TrimSpace(e.Name)
	return e, nil
}
