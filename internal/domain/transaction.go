package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Transaction is a realized ledger entry. The recurring projector appends
// these; budgets fold over them on read.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	CategoryID  uuid.UUID       `json:"categoryId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// TransactionFilters narrows ledger listings.
type TransactionFilters struct {
	CategoryID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

type TransactionRepository interface {
	Create(tx *Transaction) (*Transaction, error)
	GetByID(id uuid.UUID) (*Transaction, error)
	GetByUser(userID uuid.UUID, filters *TransactionFilters) ([]*Transaction, error)
	Delete(userID, id uuid.UUID) error
	// SumByCategoryAndDateRange totals ledger amounts for (user, category)
	// between start and end inclusive; a nil end leaves the range open.
	SumByCategoryAndDateRange(userID, categoryID uuid.UUID, start time.Time, end *time.Time) (decimal.Decimal, error)
}
