package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/dwicandra/duit/duit-backend/internal/domain"
	"github.com/dwicandra/duit/duit-backend/internal/middleware"
	"github.com/dwicandra/duit/duit-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// RecurringHandler handles recurring transaction HTTP requests
type RecurringHandler struct {
	recurringService *service.RecurringService
}

// NewRecurringHandler creates a new RecurringHandler
func NewRecurringHandler(recurringService *service.RecurringService) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService}
}

// CreateRecurringRequest represents the create recurring transaction request body
type CreateRecurringRequest struct {
	CategoryID  string  `json:"categoryId"`
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	Frequency   string  `json:"frequency"`
	StartDate   string  `json:"startDate"`
	EndDate     *string `json:"endDate,omitempty"`
	AutoCreate  *bool   `json:"autoCreate,omitempty"`
	DayOfMonth  *int    `json:"dayOfMonth,omitempty"`
	DayOfWeek   *int    `json:"dayOfWeek,omitempty"`
}

// UpdateRecurringRequest represents the update recurring transaction request body
type UpdateRecurringRequest struct {
	Description *string `json:"description,omitempty"`
	Amount      *string `json:"amount,omitempty"`
	Frequency   *string `json:"frequency,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
	AutoCreate  *bool   `json:"autoCreate,omitempty"`
	DayOfMonth  *int    `json:"dayOfMonth,omitempty"`
	DayOfWeek   *int    `json:"dayOfWeek,omitempty"`
}

// CreateRecurring handles POST /api/v1/recurring
func (h *RecurringHandler) CreateRecurring(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateRecurringRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return NewValidationError(c, "Invalid category ID", []ValidationError{
			{Field: "categoryId", Message: "Must be a valid UUID"},
		})
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return NewValidationError(c, "Invalid start date", []ValidationError{
			{Field: "startDate", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}

	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		return NewValidationError(c, "Invalid end date", []ValidationError{
			{Field: "endDate", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}

	autoCreate := true
	if req.AutoCreate != nil {
		autoCreate = *req.AutoCreate
	}

	rt, err := h.recurringService.CreateRecurring(userID, service.CreateRecurringInput{
		CategoryID:  categoryID,
		Description: req.Description,
		Amount:      amount,
		Frequency:   domain.Frequency(req.Frequency),
		StartDate:   startDate,
		EndDate:     endDate,
		AutoCreate:  autoCreate,
		DayOfMonth:  req.DayOfMonth,
		DayOfWeek:   req.DayOfWeek,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("recurring_id", rt.ID.String()).
		Msg("Recurring transaction created")

	return c.JSON(http.StatusCreated, rt)
}

// ListRecurring handles GET /api/v1/recurring
func (h *RecurringHandler) ListRecurring(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	rts, err := h.recurringService.ListRecurring(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list recurring transactions")
		return NewInternalError(c, "Failed to list recurring transactions")
	}

	return c.JSON(http.StatusOK, map[string]any{"data": rts})
}

// ListDue handles GET /api/v1/recurring/due
func (h *RecurringHandler) ListDue(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	rts, err := h.recurringService.ListDue(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list due schedules")
		return NewInternalError(c, "Failed to list due schedules")
	}

	return c.JSON(http.StatusOK, map[string]any{"data": rts})
}

// GetSummary handles GET /api/v1/recurring/summary
func (h *RecurringHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	summary, err := h.recurringService.Summarize(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to summarize recurring transactions")
		return NewInternalError(c, "Failed to summarize recurring transactions")
	}

	return c.JSON(http.StatusOK, summary)
}

// GetRecurring handles GET /api/v1/recurring/:id
func (h *RecurringHandler) GetRecurring(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid recurring transaction ID", nil)
	}

	rt, err := h.recurringService.GetRecurringByID(userID, id)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, rt)
}

// UpdateRecurring handles PUT /api/v1/recurring/:id
func (h *RecurringHandler) UpdateRecurring(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid recurring transaction ID", nil)
	}

	var req UpdateRecurringRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateRecurringInput{
		Description: req.Description,
		IsActive:    req.IsActive,
		AutoCreate:  req.AutoCreate,
		DayOfMonth:  req.DayOfMonth,
		DayOfWeek:   req.DayOfWeek,
	}

	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return NewValidationError(c, "Invalid amount", []ValidationError{
				{Field: "amount", Message: "Must be a valid decimal number"},
			})
		}
		input.Amount = &amount
	}
	if req.Frequency != nil {
		frequency := domain.Frequency(*req.Frequency)
		input.Frequency = &frequency
	}
	if req.EndDate != nil {
		endDate, err := parseOptionalDate(req.EndDate)
		if err != nil {
			return NewValidationError(c, "Invalid end date", []ValidationError{
				{Field: "endDate", Message: "Must be a date in YYYY-MM-DD format"},
			})
		}
		input.EndDate = endDate
	}

	rt, err := h.recurringService.UpdateRecurring(userID, id, input)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("recurring_id", rt.ID.String()).
		Msg("Recurring transaction updated")

	return c.JSON(http.StatusOK, rt)
}

// DeleteRecurring handles DELETE /api/v1/recurring/:id
func (h *RecurringHandler) DeleteRecurring(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid recurring transaction ID", nil)
	}

	if err := h.recurringService.DeleteRecurring(userID, id); err != nil {
		return h.handleServiceError(c, err)
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("recurring_id", id.String()).
		Msg("Recurring transaction deleted")

	return c.NoContent(http.StatusNoContent)
}

// ExecuteRecurring handles POST /api/v1/recurring/:id/execute
func (h *RecurringHandler) ExecuteRecurring(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid recurring transaction ID", nil)
	}

	tx, err := h.recurringService.ExecuteManually(userID, id)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, tx)
}

// handleServiceError maps service errors to problem responses
func (h *RecurringHandler) handleServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrRecurringNotFound):
		return NewNotFoundError(c, "Recurring transaction not found")
	case errors.Is(err, domain.ErrCategoryNotFound):
		return NewNotFoundError(c, "Category not found")
	case errors.Is(err, domain.ErrDescriptionRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description is required"},
		})
	case errors.Is(err, domain.ErrDescriptionTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description must be 255 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrInvalidFrequency):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "frequency", Message: "Frequency must be daily, weekly, monthly or yearly"},
		})
	case errors.Is(err, domain.ErrInvalidDayOfMonth):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "dayOfMonth", Message: "Day of month must be between 1 and 31"},
		})
	case errors.Is(err, domain.ErrInvalidDayOfWeek):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "dayOfWeek", Message: "Day of week must be between 0 (Sunday) and 6 (Saturday)"},
		})
	}

	log.Error().Err(err).Msg("Recurring operation failed")
	return NewInternalError(c, "Operation failed")
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
