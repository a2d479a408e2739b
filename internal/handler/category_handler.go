package handler

import (
	"errors"
	"net/http"

	"github.com/dwicandra/duit/duit-backend/internal/domain"
	"github.com/dwicandra/duit/duit-backend/internal/middleware"
	"github.com/dwicandra/duit/duit-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CategoryHandler handles category HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest represents the create category request body
type CreateCategoryRequest struct {
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Color *string `json:"color,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}

// UpdateCategoryRequest represents the update category request body
type UpdateCategoryRequest struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}

// CreateCategory handles POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.CreateCategory(userID, service.CreateCategoryInput{
		Name:  req.Name,
		Type:  domain.CategoryType(req.Type),
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("category_id", category.ID.String()).
		Msg("Category created")

	return c.JSON(http.StatusCreated, category)
}

// ListCategories handles GET /api/v1/categories
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	categories, err := h.categoryService.ListCategories(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list categories")
		return NewInternalError(c, "Failed to list categories")
	}

	return c.JSON(http.StatusOK, map[string]any{"data": categories})
}

// GetCategory handles GET /api/v1/categories/:id
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	category, err := h.categoryService.GetCategoryByID(userID, id)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, category)
}

// UpdateCategory handles PUT /api/v1/categories/:id
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	var req UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.UpdateCategory(userID, id, service.UpdateCategoryInput{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, category)
}

// DeleteCategory handles DELETE /api/v1/categories/:id
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	if err := h.categoryService.DeleteCategory(userID, id); err != nil {
		return h.handleServiceError(c, err)
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("category_id", id.String()).
		Msg("Category deleted")

	return c.NoContent(http.StatusNoContent)
}

func (h *CategoryHandler) handleServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrCategoryNotFound):
		return NewNotFoundError(c, "Category not found")
	case errors.Is(err, domain.ErrCategoryNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrInvalidCategoryType):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "type", Message: "Type must be income or expense"},
		})
	case errors.Is(err, domain.ErrCategoryAlreadyExists):
		return NewConflictError(c, "A category with this name and type already exists")
	}

	log.Error().Err(err).Msg("Category operation failed")
	return NewInternalError(c, "Operation failed")
}
