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

// BudgetHandler handles budget HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CreateBudgetRequest represents the create budget request body
type CreateBudgetRequest struct {
	CategoryID      string  `json:"categoryId"`
	Amount          string  `json:"amount"`
	Period          string  `json:"period"`
	StartDate       string  `json:"startDate"`
	EndDate         *string `json:"endDate,omitempty"`
	AlertPercentage *string `json:"alertPercentage,omitempty"`
}

// UpdateBudgetRequest represents the update budget request body
type UpdateBudgetRequest struct {
	Amount          *string `json:"amount,omitempty"`
	Period          *string `json:"period,omitempty"`
	EndDate         *string `json:"endDate,omitempty"`
	IsActive        *bool   `json:"isActive,omitempty"`
	AlertPercentage *string `json:"alertPercentage,omitempty"`
}

// CreateBudget handles POST /api/v1/budgets
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateBudgetRequest
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

	input := service.CreateBudgetInput{
		CategoryID: categoryID,
		Amount:     amount,
		Period:     domain.Period(req.Period),
		StartDate:  startDate,
		EndDate:    endDate,
	}
	if req.AlertPercentage != nil {
		alert, err := decimal.NewFromString(*req.AlertPercentage)
		if err != nil {
			return NewValidationError(c, "Invalid alert percentage", []ValidationError{
				{Field: "alertPercentage", Message: "Must be a valid decimal number"},
			})
		}
		input.AlertPercentage = &alert
	}

	budget, err := h.budgetService.CreateBudget(userID, input)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("budget_id", budget.ID.String()).
		Msg("Budget created")

	return c.JSON(http.StatusCreated, budget)
}

// ListBudgets handles GET /api/v1/budgets
func (h *BudgetHandler) ListBudgets(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	budgets, err := h.budgetService.ListBudgets(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list budgets")
		return NewInternalError(c, "Failed to list budgets")
	}

	return c.JSON(http.StatusOK, map[string]any{"data": budgets})
}

// GetSpending handles GET /api/v1/budgets/spending with an optional period
// query filter.
func (h *BudgetHandler) GetSpending(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var period *domain.Period
	if param := c.QueryParam("period"); param != "" {
		p := domain.Period(param)
		period = &p
	}

	spending, err := h.budgetService.Spending(userID, period)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"data": spending})
}

// GetSummary handles GET /api/v1/budgets/summary
func (h *BudgetHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	summary, err := h.budgetService.Summary(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to summarize budgets")
		return NewInternalError(c, "Failed to summarize budgets")
	}

	return c.JSON(http.StatusOK, summary)
}

// GetBudget handles GET /api/v1/budgets/:id
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	budget, err := h.budgetService.GetBudgetByID(userID, id)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, budget)
}

// UpdateBudget handles PUT /api/v1/budgets/:id
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	var req UpdateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateBudgetInput{IsActive: req.IsActive}

	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return NewValidationError(c, "Invalid amount", []ValidationError{
				{Field: "amount", Message: "Must be a valid decimal number"},
			})
		}
		input.Amount = &amount
	}
	if req.Period != nil {
		period := domain.Period(*req.Period)
		input.Period = &period
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
	if req.AlertPercentage != nil {
		alert, err := decimal.NewFromString(*req.AlertPercentage)
		if err != nil {
			return NewValidationError(c, "Invalid alert percentage", []ValidationError{
				{Field: "alertPercentage", Message: "Must be a valid decimal number"},
			})
		}
		input.AlertPercentage = &alert
	}

	budget, err := h.budgetService.UpdateBudget(userID, id, input)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, budget)
}

// DeleteBudget handles DELETE /api/v1/budgets/:id
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	if err := h.budgetService.DeleteBudget(userID, id); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *BudgetHandler) handleServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrBudgetNotFound):
		return NewNotFoundError(c, "Budget not found")
	case errors.Is(err, domain.ErrCategoryNotFound):
		return NewNotFoundError(c, "Category not found")
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrInvalidPeriod):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "period", Message: "Period must be daily, weekly, monthly or yearly"},
		})
	case errors.Is(err, domain.ErrInvalidAlertPercentage):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "alertPercentage", Message: "Alert percentage must be between 0 and 100"},
		})
	}

	log.Error().Err(err).Msg("Budget operation failed")
	return NewInternalError(c, "Operation failed")
}
