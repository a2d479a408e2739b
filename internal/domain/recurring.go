package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrRecurringNotFound = errors.New("recurring transaction not found")
	ErrInvalidFrequency  = errors.New("frequency must be one of: daily, weekly, monthly, yearly")
	ErrInvalidDayOfMonth = errors.New("day of month must be between 1 and 31")
	ErrInvalidDayOfWeek  = errors.New("day of week must be between 0 (Sunday) and 6 (Saturday)")
)

// Frequency is how often a recurring transaction fires.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// RecurringTransaction is a template for ledger entries plus its projection
// cursor (NextOccurrence). DayOfMonth anchors monthly schedules, DayOfWeek
// (0=Sunday) anchors weekly ones; both are optional.
type RecurringTransaction struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"userId"`
	CategoryID     uuid.UUID       `json:"categoryId"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Frequency      Frequency       `json:"frequency"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        *time.Time      `json:"endDate,omitempty"`
	NextOccurrence time.Time       `json:"nextOccurrence"`
	IsActive       bool            `json:"isActive"`
	AutoCreate     bool            `json:"autoCreate"`
	DayOfMonth     *int            `json:"dayOfMonth,omitempty"`
	DayOfWeek      *int            `json:"dayOfWeek,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// UpdateRecurringData holds the mutable fields for a partial update. Nil
// means leave unchanged.
type UpdateRecurringData struct {
	Description *string
	Amount      *decimal.Decimal
	Frequency   *Frequency
	EndDate     *time.Time
	IsActive    *bool
	AutoCreate  *bool
	DayOfMonth  *int
	DayOfWeek   *int
}

type RecurringRepository interface {
	Create(rt *RecurringTransaction) (*RecurringTransaction, error)
	GetByID(id uuid.UUID) (*RecurringTransaction, error)
	GetByUser(userID uuid.UUID) ([]*RecurringTransaction, error)
	GetActiveByUser(userID uuid.UUID) ([]*RecurringTransaction, error)
	// FindDue returns active autoCreate schedules across all users with
	// nextOccurrence on or before date. Used by the periodic sweep.
	FindDue(date time.Time) ([]*RecurringTransaction, error)
	// FindDueByUser is the per-owner variant, ordered by nextOccurrence
	// ascending, without the autoCreate filter.
	FindDueByUser(userID uuid.UUID, date time.Time) ([]*RecurringTransaction, error)
	Update(id uuid.UUID, data *UpdateRecurringData) (*RecurringTransaction, error)
	UpdateNextOccurrence(id uuid.UUID, next time.Time) error
	Delete(id uuid.UUID) error
}
