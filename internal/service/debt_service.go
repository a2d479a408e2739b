package service

import (
	"strings"
	"time"

	"github.com/dwicandra/duit/duit-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DebtService owns debts and their payment ledgers. Payoff figures are
// derived on read; only RemainingAmount is persisted, updated as payments
// come and go.
type DebtService struct {
	debtRepo    domain.DebtRepository
	paymentRepo domain.DebtPaymentRepository
	clock       domain.Clock
}

// NewDebtService creates a new DebtService
func NewDebtService(
	debtRepo domain.DebtRepository,
	paymentRepo domain.DebtPaymentRepository,
	clock domain.Clock,
) *DebtService {
	return &DebtService{
		debtRepo:    debtRepo,
		paymentRepo: paymentRepo,
		clock:       clock,
	}
}

// CreateDebtInput holds the input for creating a debt
type CreateDebtInput struct {
	Type          domain.DebtType
	PersonName    string
	PersonContact *string
	Amount        decimal.Decimal
	InterestRate  *decimal.Decimal
	Description   *string
	DueDate       *time.Time
	StartDate     time.Time
}

// CreateDebt validates and persists a debt. The remaining amount starts
// equal to the principal.
func (s *DebtService) CreateDebt(userID uuid.UUID, input CreateDebtInput) (*domain.Debt, error) {
	if !input.Type.Valid() {
		return nil, domain.ErrInvalidDebtType
	}
	name := strings.TrimSpace(input.PersonName)
	if name == "" {
		return nil, domain.ErrPersonNameRequired
	}
	if len(name) > domain.MaxPersonNameLength {
		return nil, domain.ErrPersonNameRequired
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	rate := decimal.Zero
	if input.InterestRate != nil {
		if input.InterestRate.IsNegative() {
			return nil, domain.ErrInvalidAmount
		}
		rate = *input.InterestRate
	}

	return s.debtRepo.Create(&domain.Debt{
		UserID:          userID,
		Type:            input.Type,
		PersonName:      name,
		PersonContact:   input.PersonContact,
		Amount:          input.Amount,
		RemainingAmount: input.Amount,
		InterestRate:    rate,
		Description:     input.Description,
		DueDate:         input.DueDate,
		Status:          domain.DebtStatusActive,
		StartDate:       input.StartDate,
	})
}

// ListDebts retrieves the user's debts, optionally filtered by type.
func (s *DebtService) ListDebts(userID uuid.UUID, debtType *domain.DebtType) ([]*domain.Debt, error) {
	if debtType != nil {
		if !debtType.Valid() {
			return nil, domain.ErrInvalidDebtType
		}
		return s.debtRepo.GetByUserAndType(userID, *debtType)
	}
	return s.debtRepo.GetByUser(userID)
}

// GetDebtByID retrieves one debt, hiding other users' debts behind
// not-found.
func (s *DebtService) GetDebtByID(userID, id uuid.UUID) (*domain.Debt, error) {
	debt, err := s.debtRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if debt.UserID != userID {
		return nil, domain.ErrDebtNotFound
	}
	return debt, nil
}

// UpdateDebtInput holds the partial update for a debt
type UpdateDebtInput struct {
	PersonName    *string
	PersonContact *string
	InterestRate  *decimal.Decimal
	Description   *string
	DueDate       *time.Time
	Status        *domain.DebtStatus
}

// UpdateDebt applies a partial update. Status is taken as given; it is
// never recomputed from payments or the due date.
func (s *DebtService) UpdateDebt(userID, id uuid.UUID, input UpdateDebtInput) (*domain.Debt, error) {
	if _, err := s.GetDebtByID(userID, id); err != nil {
		return nil, err
	}

	if input.PersonName != nil {
		name := strings.TrimSpace(*input.PersonName)
		if name == "" || len(name) > domain.MaxPersonNameLength {
			return nil, domain.ErrPersonNameRequired
		}
		input.PersonName = &name
	}
	if input.InterestRate != nil && input.InterestRate.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, domain.ErrInvalidDebtStatus
	}

	return s.debtRepo.Update(id, &domain.UpdateDebtData{
		PersonName:    input.PersonName,
		PersonContact: input.PersonContact,
		InterestRate:  input.InterestRate,
		Description:   input.Description,
		DueDate:       input.DueDate,
		Status:        input.Status,
	})
}

// DeleteDebt deletes a debt and, through the schema cascade, its payments.
func (s *DebtService) DeleteDebt(userID, id uuid.UUID) error {
	if _, err := s.GetDebtByID(userID, id); err != nil {
		return err
	}
	return s.debtRepo.Delete(id)
}

// AddPaymentInput holds the input for recording a payment. A nil
// PaymentDate means today.
type AddPaymentInput struct {
	Amount      decimal.Decimal
	PaymentDate *time.Time
	Notes       *string
}

// AddPayment records a payment against a debt and decrements the remaining
// amount by it. A payment larger than what remains is rejected outright.
func (s *DebtService) AddPayment(userID, debtID uuid.UUID, input AddPaymentInput) (*domain.DebtPayment, error) {
	debt, err := s.GetDebtByID(userID, debtID)
	if err != nil {
		return nil, err
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if input.Amount.GreaterThan(debt.RemainingAmount) {
		return nil, domain.ErrPaymentExceedsRemaining
	}

	paymentDate := s.clock.Today()
	if input.PaymentDate != nil {
		paymentDate = *input.PaymentDate
	}

	payment, err := s.paymentRepo.Create(&domain.DebtPayment{
		DebtID:      debtID,
		Amount:      input.Amount,
		PaymentDate: paymentDate,
		Notes:       input.Notes,
	})
	if err != nil {
		return nil, err
	}

	remaining := debt.RemainingAmount.Sub(input.Amount)
	if err := s.debtRepo.UpdateRemainingAmount(debtID, remaining); err != nil {
		log.Error().Err(err).
			Str("debt_id", debtID.String()).
			Str("payment_id", payment.ID.String()).
			Msg("payment recorded but remaining amount not updated")
		return nil, err
	}

	return payment, nil
}

// ListPayments retrieves a debt's payments after checking ownership.
func (s *DebtService) ListPayments(userID, debtID uuid.UUID) ([]*domain.DebtPayment, error) {
	if _, err := s.GetDebtByID(userID, debtID); err != nil {
		return nil, err
	}
	return s.paymentRepo.GetByDebtID(debtID)
}

// DeletePayment removes a payment and restores its amount to the debt's
// remaining balance.
func (s *DebtService) DeletePayment(userID, debtID, paymentID uuid.UUID) error {
	debt, err := s.GetDebtByID(userID, debtID)
	if err != nil {
		return err
	}

	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return err
	}
	if payment.DebtID != debtID {
		return domain.ErrDebtPaymentNotFound
	}

	if err := s.paymentRepo.Delete(paymentID); err != nil {
		return err
	}
	return s.debtRepo.UpdateRemainingAmount(debtID, debt.RemainingAmount.Add(payment.Amount))
}

// SummaryFor computes a debt's payoff metrics from its payment ledger.
func (s *DebtService) SummaryFor(userID, debtID uuid.UUID) (*domain.DebtSummary, error) {
	debt, err := s.GetDebtByID(userID, debtID)
	if err != nil {
		return nil, err
	}
	return s.summarize(debt)
}

func (s *DebtService) summarize(debt *domain.Debt) (*domain.DebtSummary, error) {
	payments, err := s.paymentRepo.GetByDebtID(debt.ID)
	if err != nil {
		return nil, err
	}

	summary := &domain.DebtSummary{
		Debt:         debt,
		PaidAmount:   debt.Amount.Sub(debt.RemainingAmount),
		PaymentCount: len(payments),
		DaysOverdue:  s.daysOverdue(debt),
	}
	summary.PaidPercentage = percentageOf(summary.PaidAmount, debt.Amount)

	for _, p := range payments {
		if summary.LastPaymentDate == nil || p.PaymentDate.After(*summary.LastPaymentDate) {
			d := p.PaymentDate
			summary.LastPaymentDate = &d
		}
	}

	return summary, nil
}

// daysOverdue is zero unless the due date has passed and the debt is not
// marked paid.
func (s *DebtService) daysOverdue(debt *domain.Debt) int {
	if debt.DueDate == nil || debt.Status == domain.DebtStatusPaid {
		return 0
	}
	today := s.clock.Today()
	if !debt.DueDate.Before(today) {
		return 0
	}
	return int(today.Sub(*debt.DueDate).Hours() / 24)
}

// Overdue lists the user's debts marked overdue.
func (s *DebtService) Overdue(userID uuid.UUID) ([]*domain.Debt, error) {
	return s.debtRepo.GetOverdueByUser(userID)
}

// Overview aggregates payoff state across all of the user's debts, split
// by side.
func (s *DebtService) Overview(userID uuid.UUID) (*domain.DebtOverview, error) {
	debts, err := s.debtRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	overview := &domain.DebtOverview{
		TotalBorrowed:          decimal.Zero,
		TotalLent:              decimal.Zero,
		TotalBorrowedRemaining: decimal.Zero,
		TotalLentRemaining:     decimal.Zero,
		Borrowed:               []*domain.DebtSummary{},
		Lent:                   []*domain.DebtSummary{},
	}

	for _, debt := range debts {
		summary, err := s.summarize(debt)
		if err != nil {
			return nil, err
		}
		if debt.Status == domain.DebtStatusOverdue {
			overview.OverdueCount++
		}
		switch debt.Type {
		case domain.DebtTypeBorrowed:
			overview.TotalBorrowed = overview.TotalBorrowed.Add(debt.Amount)
			overview.TotalBorrowedRemaining = overview.TotalBorrowedRemaining.Add(debt.RemainingAmount)
			overview.Borrowed = append(overview.Borrowed, summary)
		case domain.DebtTypeLent:
			overview.TotalLent = overview.TotalLent.Add(debt.Amount)
			overview.TotalLentRemaining = overview.TotalLentRemaining.Add(debt.RemainingAmount)
			overview.Lent = append(overview.Lent, summary)
		}
	}

	return overview, nil
}
