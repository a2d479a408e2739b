package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://duit.app/errors/validation"
	ErrorTypeNotFound     = "https://duit.app/errors/not-found"
	ErrorTypeUnauthorized = "https://duit.app/errors/unauthorized"
	ErrorTypeConflict     = "https://duit.app/errors/conflict"
	ErrorTypeInternal     = "https://duit.app/errors/internal"
)

// problem writes an RFC 7807 response, stamping the request path as the
// problem instance.
func problem(c echo.Context, status int, errType, title, detail string, errors []ValidationError) error {
	return c.JSON(status, ProblemDetails{
		Type:     errType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return problem(c, http.StatusBadRequest, ErrorTypeValidation, "Validation Error", detail, errors)
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return problem(c, http.StatusNotFound, ErrorTypeNotFound, "Not Found", detail, nil)
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return problem(c, http.StatusUnauthorized, ErrorTypeUnauthorized, "Unauthorized", detail, nil)
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return problem(c, http.StatusConflict, ErrorTypeConflict, "Conflict", detail, nil)
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return problem(c, http.StatusInternalServerError, ErrorTypeInternal, "Internal Server Error", detail, nil)
}
