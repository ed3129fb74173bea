package service

import "errors"

var (
	// ErrInvalidInput marks creation input rejected before any persistence.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound covers both never-created and deactivated cards; callers
	// must not be able to tell the two apart.
	ErrNotFound = errors.New("card not found or inactive")
)
