package domain

import "errors"

// Domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrInternalError = errors.New("internal error")

	ErrUserNotFound = errors.New("user not found")

	ErrDescriptionRequired = errors.New("description is required")
	ErrDescriptionTooLong  = errors.New("description exceeds maximum length")
	ErrInvalidAmount       = errors.New("amount must be positive")
)

// Validation constants
const (
	MaxDescriptionLength = 255
	MaxPersonNameLength  = 100
)
