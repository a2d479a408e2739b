package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrBudgetNotFound         = errors.New("budget not found")
	ErrInvalidPeriod          = errors.New("period must be one of: daily, weekly, monthly, yearly")
	ErrInvalidAlertPercentage = errors.New("alert percentage must be between 0 and 100")
)

// Period is the nominal cycle a budget covers. It is descriptive; the spend
// window is always [StartDate, EndDate-or-open].
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// Valid reports whether p is a known period.
func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

type Budget struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"userId"`
	CategoryID      uuid.UUID       `json:"categoryId"`
	Amount          decimal.Decimal `json:"amount"`
	Period          Period          `json:"period"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         *time.Time      `json:"endDate,omitempty"`
	IsActive        bool            `json:"isActive"`
	AlertPercentage decimal.Decimal `json:"alertPercentage"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// BudgetSpending joins a budget with its derived spend metrics. Nothing
// here is stored; it is recomputed from the ledger on every read.
type BudgetSpending struct {
	Budget          *Budget
	CategoryName    string
	SpentAmount     decimal.Decimal
	RemainingAmount decimal.Decimal
	SpentPercentage decimal.Decimal
	IsExceeded      bool
	ShouldAlert     bool
}

// BudgetSummary aggregates spend pressure across all active budgets.
type BudgetSummary struct {
	TotalBudget       decimal.Decimal
	TotalSpent        decimal.Decimal
	TotalRemaining    decimal.Decimal
	OverallPercentage decimal.Decimal
	ExceededCount     int
	AlertCount        int
	Budgets           []*BudgetSpending
}

// UpdateBudgetData holds the mutable fields for a partial update.
type UpdateBudgetData struct {
	Amount          *decimal.Decimal
	Period          *Period
	EndDate         *time.Time
	IsActive        *bool
	AlertPercentage *decimal.Decimal
}

type BudgetRepository interface {
	Create(budget *Budget) (*Budget, error)
	GetByID(id uuid.UUID) (*Budget, error)
	GetByUser(userID uuid.UUID) ([]*Budget, error)
	GetActiveByUser(userID uuid.UUID) ([]*Budget, error)
	GetActiveByUserAndPeriod(userID uuid.UUID, period Period) ([]*Budget, error)
	Update(id uuid.UUID, data *UpdateBudgetData) (*Budget, error)
	Delete(id uuid.UUID) error
}
