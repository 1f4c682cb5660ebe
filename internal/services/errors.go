package services

import "errors"

var (
	ErrNotFound        = errors.New("entity not found")
	ErrIDPresent       = errors.New("a new entity cannot already have an id")
	ErrIDMissing       = errors.New("invalid id")
	ErrNameRequired    = errors.New("name is required")
	ErrContentRequired = errors.New("content is required")
	ErrInvalidContent  = errors.New("invalid content")
)
