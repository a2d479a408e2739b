package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrDebtNotFound            = errors.New("debt not found")
	ErrDebtPaymentNotFound     = errors.New("debt payment not found")
	ErrInvalidDebtType         = errors.New("debt type must be borrowed or lent")
	ErrInvalidDebtStatus       = errors.New("debt status must be one of: active, partial, paid, overdue")
	ErrPersonNameRequired      = errors.New("person name is required")
	ErrPaymentExceedsRemaining = errors.New("payment amount exceeds remaining debt amount")
)

// DebtType says which side of the debt the user is on.
type DebtType string

const (
	DebtTypeBorrowed DebtType = "borrowed"
	DebtTypeLent     DebtType = "lent"
)

// Valid reports whether t is a known debt type.
func (t DebtType) Valid() bool {
	return t == DebtTypeBorrowed || t == DebtTypeLent
}

// DebtStatus is caller-set; it is never derived from the payment ledger or
// the due date.
type DebtStatus string

const (
	DebtStatusActive  DebtStatus = "active"
	DebtStatusPartial DebtStatus = "partial"
	DebtStatusPaid    DebtStatus = "paid"
	DebtStatusOverdue DebtStatus = "overdue"
)

// Valid reports whether s is a known debt status.
func (s DebtStatus) Valid() bool {
	switch s {
	case DebtStatusActive, DebtStatusPartial, DebtStatusPaid, DebtStatusOverdue:
		return true
	}
	return false
}

// Debt tracks money borrowed from or lent to a person. Amount is the
// original principal and never changes; RemainingAmount starts equal to it
// and is reduced by payments.
type Debt struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"userId"`
	Type            DebtType        `json:"type"`
	PersonName      string          `json:"personName"`
	PersonContact   *string         `json:"personContact,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	InterestRate    decimal.Decimal `json:"interestRate"`
	Description     *string         `json:"description,omitempty"`
	DueDate         *time.Time      `json:"dueDate,omitempty"`
	Status          DebtStatus      `json:"status"`
	StartDate       time.Time       `json:"startDate"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type DebtPayment struct {
	ID          uuid.UUID       `json:"id"`
	DebtID      uuid.UUID       `json:"debtId"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"paymentDate"`
	Notes       *string         `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// DebtSummary joins a debt with its derived payoff metrics.
type DebtSummary struct {
	Debt            *Debt
	PaidAmount      decimal.Decimal
	PaidPercentage  decimal.Decimal
	PaymentCount    int
	LastPaymentDate *time.Time
	DaysOverdue     int
}

// DebtOverview aggregates across all of a user's debts.
type DebtOverview struct {
	TotalBorrowed          decimal.Decimal
	TotalLent              decimal.Decimal
	TotalBorrowedRemaining decimal.Decimal
	TotalLentRemaining     decimal.Decimal
	OverdueCount           int
	Borrowed               []*DebtSummary
	Lent                   []*DebtSummary
}

// UpdateDebtData holds the mutable fields for a partial update.
type UpdateDebtData struct {
	PersonName    *string
	PersonContact *string
	InterestRate  *decimal.Decimal
	Description   *string
	DueDate       *time.Time
	Status        *DebtStatus
}

type DebtRepository interface {
	Create(debt *Debt) (*Debt, error)
	GetByID(id uuid.UUID) (*Debt, error)
	GetByUser(userID uuid.UUID) ([]*Debt, error)
	GetByUserAndType(userID uuid.UUID, debtType DebtType) ([]*Debt, error)
	GetOverdueByUser(userID uuid.UUID) ([]*Debt, error)
	Update(id uuid.UUID, data *UpdateDebtData) (*Debt, error)
	UpdateRemainingAmount(id uuid.UUID, remaining decimal.Decimal) error
	Delete(id uuid.UUID) error
}

type DebtPaymentRepository interface {
	Create(payment *DebtPayment) (*DebtPayment, error)
	GetByID(id uuid.UUID) (*DebtPayment, error)
	GetByDebtID(debtID uuid.UUID) ([]*DebtPayment, error)
	Delete(id uuid.UUID) error
}
