package service

import (
	"time"

	"github.com/dwicandra/duit/duit-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// BudgetService owns budget definitions and their live spend metrics. The
// derived figures are never stored; every read folds the ledger again.
type BudgetService struct {
	budgetRepo      domain.BudgetRepository
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	clock           domain.Clock
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(
	budgetRepo domain.BudgetRepository,
	transactionRepo domain.TransactionRepository,
	categoryRepo domain.CategoryRepository,
	clock domain.Clock,
) *BudgetService {
	return &BudgetService{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		clock:           clock,
	}
}

// CreateBudgetInput holds the input for creating a budget
type CreateBudgetInput struct {
	CategoryID      uuid.UUID
	Amount          decimal.Decimal
	Period          domain.Period
	StartDate       time.Time
	EndDate         *time.Time
	AlertPercentage *decimal.Decimal
}

// DefaultAlertPercentage applies when a budget is created without one.
var DefaultAlertPercentage = decimal.NewFromFloat(80.00)

// CreateBudget validates and persists a budget definition.
func (s *BudgetService) CreateBudget(userID uuid.UUID, input CreateBudgetInput) (*domain.Budget, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if !input.Period.Valid() {
		return nil, domain.ErrInvalidPeriod
	}

	alert := DefaultAlertPercentage
	if input.AlertPercentage != nil {
		alert = *input.AlertPercentage
	}
	if alert.IsNegative() || alert.GreaterThan(oneHundred) {
		return nil, domain.ErrInvalidAlertPercentage
	}

	if err := s.checkCategoryOwnership(userID, input.CategoryID); err != nil {
		return nil, err
	}

	return s.budgetRepo.Create(&domain.Budget{
		UserID:          userID,
		CategoryID:      input.CategoryID,
		Amount:          input.Amount,
		Period:          input.Period,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		IsActive:        true,
		AlertPercentage: alert,
	})
}

// ListBudgets retrieves all budgets for a user
func (s *BudgetService) ListBudgets(userID uuid.UUID) ([]*domain.Budget, error) {
	return s.budgetRepo.GetByUser(userID)
}

// GetBudgetByID retrieves one budget, hiding other users' budgets behind
// not-found.
func (s *BudgetService) GetBudgetByID(userID, id uuid.UUID) (*domain.Budget, error) {
	budget, err := s.budgetRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if budget.UserID != userID {
		return nil, domain.ErrBudgetNotFound
	}
	return budget, nil
}

// UpdateBudgetInput holds the partial update for a budget
type UpdateBudgetInput struct {
	Amount          *decimal.Decimal
	Period          *domain.Period
	EndDate         *time.Time
	IsActive        *bool
	AlertPercentage *decimal.Decimal
}

// UpdateBudget applies a partial update after validating the changed fields.
func (s *BudgetService) UpdateBudget(userID, id uuid.UUID, input UpdateBudgetInput) (*domain.Budget, error) {
	if _, err := s.GetBudgetByID(userID, id); err != nil {
		return nil, err
	}

	if input.Amount != nil && input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if input.Period != nil && !input.Period.Valid() {
		return nil, domain.ErrInvalidPeriod
	}
	if input.AlertPercentage != nil &&
		(input.AlertPercentage.IsNegative() || input.AlertPercentage.GreaterThan(oneHundred)) {
		return nil, domain.ErrInvalidAlertPercentage
	}

	return s.budgetRepo.Update(id, &domain.UpdateBudgetData{
		Amount:          input.Amount,
		Period:          input.Period,
		EndDate:         input.EndDate,
		IsActive:        input.IsActive,
		AlertPercentage: input.AlertPercentage,
	})
}

// DeleteBudget deletes a budget after checking ownership.
func (s *BudgetService) DeleteBudget(userID, id uuid.UUID) error {
	if _, err := s.GetBudgetByID(userID, id); err != nil {
		return err
	}
	return s.budgetRepo.Delete(id)
}

// Spending computes live spend metrics for each of the user's active
// budgets, optionally filtered to one period.
func (s *BudgetService) Spending(userID uuid.UUID, period *domain.Period) ([]*domain.BudgetSpending, error) {
	var budgets []*domain.Budget
	var err error
	if period != nil {
		if !period.Valid() {
			return nil, domain.ErrInvalidPeriod
		}
		budgets, err = s.budgetRepo.GetActiveByUserAndPeriod(userID, *period)
	} else {
		budgets, err = s.budgetRepo.GetActiveByUser(userID)
	}
	if err != nil {
		return nil, err
	}

	result := make([]*domain.BudgetSpending, 0, len(budgets))
	for _, budget := range budgets {
		spending, err := s.spendingFor(budget)
		if err != nil {
			return nil, err
		}
		result = append(result, spending)
	}
	return result, nil
}

// spendingFor folds the ledger into one budget's derived metrics.
func (s *BudgetService) spendingFor(budget *domain.Budget) (*domain.BudgetSpending, error) {
	spent, err := s.transactionRepo.SumByCategoryAndDateRange(budget.UserID, budget.CategoryID, budget.StartDate, budget.EndDate)
	if err != nil {
		return nil, err
	}

	categoryName := "Unknown"
	if category, err := s.categoryRepo.GetByID(budget.CategoryID); err == nil {
		categoryName = category.Name
	}

	return &domain.BudgetSpending{
		Budget:          budget,
		CategoryName:    categoryName,
		SpentAmount:     spent,
		RemainingAmount: budget.Amount.Sub(spent),
		SpentPercentage: percentageOf(spent, budget.Amount),
		IsExceeded:      spent.GreaterThanOrEqual(budget.Amount),
		ShouldAlert:     percentageOf(spent, budget.Amount).GreaterThanOrEqual(budget.AlertPercentage),
	}, nil
}

// Summary aggregates spend pressure across all of the user's active budgets.
func (s *BudgetService) Summary(userID uuid.UUID) (*domain.BudgetSummary, error) {
	spending, err := s.Spending(userID, nil)
	if err != nil {
		return nil, err
	}

	summary := &domain.BudgetSummary{
		TotalBudget:    decimal.Zero,
		TotalSpent:     decimal.Zero,
		TotalRemaining: decimal.Zero,
		Budgets:        spending,
	}

	for _, bs := range spending {
		summary.TotalBudget = summary.TotalBudget.Add(bs.Budget.Amount)
		summary.TotalSpent = summary.TotalSpent.Add(bs.SpentAmount)
		if bs.IsExceeded {
			summary.ExceededCount++
		}
		if bs.ShouldAlert {
			summary.AlertCount++
		}
	}

	summary.TotalRemaining = summary.TotalBudget.Sub(summary.TotalSpent)
	summary.OverallPercentage = percentageOf(summary.TotalSpent, summary.TotalBudget)
	return summary, nil
}

// percentageOf returns part/whole as a percentage rounded half-up to two
// decimal places, dividing at four places first so the final rounding does
// not compound. Returns zero when whole is zero.
func percentageOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return part.DivRound(whole, 4).Mul(oneHundred).Round(2)
}

func (s *BudgetService) checkCategoryOwnership(userID, categoryID uuid.UUID) error {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return domain.ErrCategoryNotFound
	}
	if category.UserID != userID {
		return domain.ErrCategoryNotFound
	}
	return nil
}
