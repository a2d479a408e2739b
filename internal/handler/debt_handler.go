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

// DebtHandler handles debt HTTP requests
type DebtHandler struct {
	debtService *service.DebtService
}

// NewDebtHandler creates a new DebtHandler
func NewDebtHandler(debtService *service.DebtService) *DebtHandler {
	return &DebtHandler{debtService: debtService}
}

// CreateDebtRequest represents the create debt request body
type CreateDebtRequest struct {
	Type          string  `json:"type"`
	PersonName    string  `json:"personName"`
	PersonContact *string `json:"personContact,omitempty"`
	Amount        string  `json:"amount"`
	InterestRate  *string `json:"interestRate,omitempty"`
	Description   *string `json:"description,omitempty"`
	DueDate       *string `json:"dueDate,omitempty"`
	StartDate     string  `json:"startDate"`
}

// UpdateDebtRequest represents the update debt request body
type UpdateDebtRequest struct {
	PersonName    *string `json:"personName,omitempty"`
	PersonContact *string `json:"personContact,omitempty"`
	InterestRate  *string `json:"interestRate,omitempty"`
	Description   *string `json:"description,omitempty"`
	DueDate       *string `json:"dueDate,omitempty"`
	Status        *string `json:"status,omitempty"`
}

// AddPaymentRequest represents the record payment request body
type AddPaymentRequest struct {
	Amount      string  `json:"amount"`
	PaymentDate *string `json:"paymentDate,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// CreateDebt handles POST /api/v1/debts
func (h *DebtHandler) CreateDebt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateDebtRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
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

	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		return NewValidationError(c, "Invalid due date", []ValidationError{
			{Field: "dueDate", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}

	input := service.CreateDebtInput{
		Type:          domain.DebtType(req.Type),
		PersonName:    req.PersonName,
		PersonContact: req.PersonContact,
		Amount:        amount,
		Description:   req.Description,
		DueDate:       dueDate,
		StartDate:     startDate,
	}
	if req.InterestRate != nil {
		rate, err := decimal.NewFromString(*req.InterestRate)
		if err != nil {
			return NewValidationError(c, "Invalid interest rate", []ValidationError{
				{Field: "interestRate", Message: "Must be a valid decimal number"},
			})
		}
		input.InterestRate = &rate
	}

	debt, err := h.debtService.CreateDebt(userID, input)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("debt_id", debt.ID.String()).
		Msg("Debt created")

	return c.JSON(http.StatusCreated, debt)
}

// ListDebts handles GET /api/v1/debts with an optional type query filter
func (h *DebtHandler) ListDebts(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var debtType *domain.DebtType
	if param := c.QueryParam("type"); param != "" {
		t := domain.DebtType(param)
		debtType = &t
	}

	debts, err := h.debtService.ListDebts(userID, debtType)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"data": debts})
}

// GetOverview handles GET /api/v1/debts/overview
func (h *DebtHandler) GetOverview(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	overview, err := h.debtService.Overview(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to build debt overview")
		return NewInternalError(c, "Failed to build debt overview")
	}

	return c.JSON(http.StatusOK, overview)
}

// GetOverdue handles GET /api/v1/debts/overdue
func (h *DebtHandler) GetOverdue(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	debts, err := h.debtService.Overdue(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list overdue debts")
		return NewInternalError(c, "Failed to list overdue debts")
	}

	return c.JSON(http.StatusOK, map[string]any{"data": debts})
}

// GetDebt handles GET /api/v1/debts/:id
func (h *DebtHandler) GetDebt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid debt ID", nil)
	}

	debt, err := h.debtService.GetDebtByID(userID, id)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, debt)
}

// GetDebtSummary handles GET /api/v1/debts/:id/summary
func (h *DebtHandler) GetDebtSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid debt ID", nil)
	}

	summary, err := h.debtService.SummaryFor(userID, id)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, summary)
}

// UpdateDebt handles PUT /api/v1/debts/:id
func (h *DebtHandler) UpdateDebt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid debt ID", nil)
	}

	var req UpdateDebtRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateDebtInput{
		PersonName:    req.PersonName,
		PersonContact: req.PersonContact,
		Description:   req.Description,
	}
	if req.InterestRate != nil {
		rate, err := decimal.NewFromString(*req.InterestRate)
		if err != nil {
			return NewValidationError(c, "Invalid interest rate", []ValidationError{
				{Field: "interestRate", Message: "Must be a valid decimal number"},
			})
		}
		input.InterestRate = &rate
	}
	if req.DueDate != nil {
		dueDate, err := parseOptionalDate(req.DueDate)
		if err != nil {
			return NewValidationError(c, "Invalid due date", []ValidationError{
				{Field: "dueDate", Message: "Must be a date in YYYY-MM-DD format"},
			})
		}
		input.DueDate = dueDate
	}
	if req.Status != nil {
		status := domain.DebtStatus(*req.Status)
		input.Status = &status
	}

	debt, err := h.debtService.UpdateDebt(userID, id, input)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, debt)
}

// DeleteDebt handles DELETE /api/v1/debts/:id
func (h *DebtHandler) DeleteDebt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid debt ID", nil)
	}

	if err := h.debtService.DeleteDebt(userID, id); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// AddPayment handles POST /api/v1/debts/:id/payments
func (h *DebtHandler) AddPayment(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	debtID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid debt ID", nil)
	}

	var req AddPaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	var paymentDate *time.Time
	if req.PaymentDate != nil {
		parsed, err := time.Parse(dateLayout, *req.PaymentDate)
		if err != nil {
			return NewValidationError(c, "Invalid payment date", []ValidationError{
				{Field: "paymentDate", Message: "Must be a date in YYYY-MM-DD format"},
			})
		}
		paymentDate = &parsed
	}

	payment, err := h.debtService.AddPayment(userID, debtID, service.AddPaymentInput{
		Amount:      amount,
		PaymentDate: paymentDate,
		Notes:       req.Notes,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("debt_id", debtID.String()).
		Str("payment_id", payment.ID.String()).
		Msg("Debt payment recorded")

	return c.JSON(http.StatusCreated, payment)
}

// ListPayments handles GET /api/v1/debts/:id/payments
func (h *DebtHandler) ListPayments(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	debtID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid debt ID", nil)
	}

	payments, err := h.debtService.ListPayments(userID, debtID)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"data": payments})
}

// DeletePayment handles DELETE /api/v1/debts/:id/payments/:paymentId
func (h *DebtHandler) DeletePayment(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	debtID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid debt ID", nil)
	}

	paymentID, err := uuid.Parse(c.Param("paymentId"))
	if err != nil {
		return NewValidationError(c, "Invalid payment ID", nil)
	}

	if err := h.debtService.DeletePayment(userID, debtID, paymentID); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *DebtHandler) handleServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrDebtNotFound):
		return NewNotFoundError(c, "Debt not found")
	case errors.Is(err, domain.ErrDebtPaymentNotFound):
		return NewNotFoundError(c, "Payment not found")
	case errors.Is(err, domain.ErrInvalidDebtType):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "type", Message: "Type must be borrowed or lent"},
		})
	case errors.Is(err, domain.ErrInvalidDebtStatus):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "status", Message: "Status must be active, partial, paid or overdue"},
		})
	case errors.Is(err, domain.ErrPersonNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "personName", Message: "Person name is required and must be 100 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrPaymentExceedsRemaining):
		return NewConflictError(c, "Payment amount exceeds the remaining debt amount")
	}

	log.Error().Err(err).Msg("Debt operation failed")
	return NewInternalError(c, "Operation failed")
}
