package postgres

import (
	"context"
	"fmt"

	"github.com/dwicandra/duit/duit-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = `id, user_id, category_id, amount, period, start_date, end_date,
	is_active, alert_percentage, created_at, updated_at`

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var b domain.Budget
	var amount, alert pgtype.Numeric
	var startDate, endDate pgtype.Date
	err := row.Scan(
		&b.ID, &b.UserID, &b.CategoryID, &amount, &b.Period, &startDate, &endDate,
		&b.IsActive, &alert, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	b.Amount = pgNumericToDecimal(amount)
	b.AlertPercentage = pgNumericToDecimal(alert)
	b.StartDate = startDate.Time
	b.EndDate = pgDateToTimePtr(endDate)
	return &b, nil
}

func collectBudgets(rows pgx.Rows) ([]*domain.Budget, error) {
	defer rows.Close()
	var result []*domain.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

// Create creates a new budget
func (r *BudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(budget.Amount)
	if err != nil {
		return nil, err
	}
	alert, err := decimalToPgNumeric(budget.AlertPercentage)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO budgets
		 (user_id, category_id, amount, period, start_date, end_date, is_active, alert_percentage)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+budgetColumns,
		budget.UserID, budget.CategoryID, amount, budget.Period,
		pgtype.Date{Time: budget.StartDate, Valid: true},
		timePtrToPgDate(budget.EndDate),
		budget.IsActive, alert)
	return scanBudget(row)
}

// GetByID retrieves a budget by ID
func (r *BudgetRepository) GetByID(id uuid.UUID) (*domain.Budget, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = $1`, id)
	return scanBudget(row)
}

// GetByUser retrieves all budgets for a user
func (r *BudgetRepository) GetByUser(userID uuid.UUID) ([]*domain.Budget, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	return collectBudgets(rows)
}

// GetActiveByUser retrieves a user's active budgets
func (r *BudgetRepository) GetActiveByUser(userID uuid.UUID) ([]*domain.Budget, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+budgetColumns+` FROM budgets
		 WHERE user_id = $1 AND is_active ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	return collectBudgets(rows)
}

// GetActiveByUserAndPeriod retrieves a user's active budgets for one period
func (r *BudgetRepository) GetActiveByUserAndPeriod(userID uuid.UUID, period domain.Period) ([]*domain.Budget, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+budgetColumns+` FROM budgets
		 WHERE user_id = $1 AND is_active AND period = $2 ORDER BY created_at`,
		userID, period)
	if err != nil {
		return nil, err
	}
	return collectBudgets(rows)
}

// Update applies a partial update and returns the updated row
func (r *BudgetRepository) Update(id uuid.UUID, data *domain.UpdateBudgetData) (*domain.Budget, error) {
	ctx := context.Background()

	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if data.Amount != nil {
		amount, err := decimalToPgNumeric(*data.Amount)
		if err != nil {
			return nil, err
		}
		add("amount", amount)
	}
	if data.Period != nil {
		add("period", *data.Period)
	}
	if data.EndDate != nil {
		add("end_date", pgtype.Date{Time: *data.EndDate, Valid: true})
	}
	if data.IsActive != nil {
		add("is_active", *data.IsActive)
	}
	if data.AlertPercentage != nil {
		alert, err := decimalToPgNumeric(*data.AlertPercentage)
		if err != nil {
			return nil, err
		}
		add("alert_percentage", alert)
	}

	query := fmt.Sprintf(
		`UPDATE budgets SET %s WHERE id = $1 RETURNING %s`,
		joinSets(sets), budgetColumns)
	return scanBudget(r.pool.QueryRow(ctx, query, args...))
}

// Delete removes a budget
func (r *BudgetRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}
