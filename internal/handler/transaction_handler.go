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

// TransactionHandler handles ledger HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	CategoryID  string `json:"categoryId"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateTransactionRequest
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

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}

	tx, err := h.transactionService.CreateTransaction(userID, service.CreateTransactionInput{
		CategoryID:  categoryID,
		Description: req.Description,
		Amount:      amount,
		Date:        date,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("transaction_id", tx.ID.String()).
		Msg("Transaction created")

	return c.JSON(http.StatusCreated, tx)
}

// ListTransactions handles GET /api/v1/transactions with optional
// categoryId, startDate and endDate query filters.
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filters := &domain.TransactionFilters{}

	if param := c.QueryParam("categoryId"); param != "" {
		categoryID, err := uuid.Parse(param)
		if err != nil {
			return NewValidationError(c, "Invalid categoryId filter", nil)
		}
		filters.CategoryID = &categoryID
	}
	if param := c.QueryParam("startDate"); param != "" {
		start, err := time.Parse(dateLayout, param)
		if err != nil {
			return NewValidationError(c, "Invalid startDate filter", nil)
		}
		filters.StartDate = &start
	}
	if param := c.QueryParam("endDate"); param != "" {
		end, err := time.Parse(dateLayout, param)
		if err != nil {
			return NewValidationError(c, "Invalid endDate filter", nil)
		}
		filters.EndDate = &end
	}

	transactions, err := h.transactionService.ListTransactions(userID, filters)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list transactions")
		return NewInternalError(c, "Failed to list transactions")
	}

	return c.JSON(http.StatusOK, map[string]any{"data": transactions})
}

// GetTransaction handles GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	tx, err := h.transactionService.GetTransactionByID(userID, id)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, tx)
}

// DeleteTransaction handles DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(userID, id); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *TransactionHandler) handleServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound):
		return NewNotFoundError(c, "Transaction not found")
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
	}

	log.Error().Err(err).Msg("Transaction operation failed")
	return NewInternalError(c, "Operation failed")
}
