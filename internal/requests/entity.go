package requests

import (
	"github.com/google/uuid"
)

// EntityRequest is the JSON body accepted on create and update
type EntityRequest struct {
	ID                 *uuid.UUID `json:"id,omitempty"`
	Name               string     `json:"name" validate:"required"`
	Content            []byte     `json:"content,omitempty"`
	ContentContentType string     `json:"contentContentType,omitempty"`
}
