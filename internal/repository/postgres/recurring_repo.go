package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/dwicandra/duit/duit-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RecurringRepository implements domain.RecurringRepository using PostgreSQL
type RecurringRepository struct {
	pool *pgxpool.Pool
}

// NewRecurringRepository creates a new RecurringRepository
func NewRecurringRepository(pool *pgxpool.Pool) *RecurringRepository {
	return &RecurringRepository{pool: pool}
}

const recurringColumns = `id, user_id, category_id, description, amount, frequency,
	start_date, end_date, next_occurrence, is_active, auto_create,
	day_of_month, day_of_week, created_at, updated_at`

func scanRecurring(row pgx.Row) (*domain.RecurringTransaction, error) {
	var rt domain.RecurringTransaction
	var amount pgtype.Numeric
	var startDate, nextOccurrence pgtype.Date
	var endDate pgtype.Date
	var dayOfMonth, dayOfWeek pgtype.Int4
	err := row.Scan(
		&rt.ID, &rt.UserID, &rt.CategoryID, &rt.Description, &amount, &rt.Frequency,
		&startDate, &endDate, &nextOccurrence, &rt.IsActive, &rt.AutoCreate,
		&dayOfMonth, &dayOfWeek, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrRecurringNotFound
		}
		return nil, err
	}
	rt.Amount = pgNumericToDecimal(amount)
	rt.StartDate = startDate.Time
	rt.EndDate = pgDateToTimePtr(endDate)
	rt.NextOccurrence = nextOccurrence.Time
	rt.DayOfMonth = pgInt4ToIntPtr(dayOfMonth)
	rt.DayOfWeek = pgInt4ToIntPtr(dayOfWeek)
	return &rt, nil
}

func collectRecurring(rows pgx.Rows) ([]*domain.RecurringTransaction, error) {
	defer rows.Close()
	var result []*domain.RecurringTransaction
	for rows.Next() {
		rt, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rt)
	}
	return result, rows.Err()
}

// Create creates a new recurring transaction
func (r *RecurringRepository) Create(rt *domain.RecurringTransaction) (*domain.RecurringTransaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(rt.Amount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO recurring_transactions
		 (user_id, category_id, description, amount, frequency, start_date,
		  end_date, next_occurrence, is_active, auto_create, day_of_month, day_of_week)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING `+recurringColumns,
		rt.UserID, rt.CategoryID, rt.Description, amount, rt.Frequency,
		pgtype.Date{Time: rt.StartDate, Valid: true},
		timePtrToPgDate(rt.EndDate),
		pgtype.Date{Time: rt.NextOccurrence, Valid: true},
		rt.IsActive, rt.AutoCreate,
		intPtrToPgInt4(rt.DayOfMonth), intPtrToPgInt4(rt.DayOfWeek))
	return scanRecurring(row)
}

// GetByID retrieves a recurring transaction by ID
func (r *RecurringRepository) GetByID(id uuid.UUID) (*domain.RecurringTransaction, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+recurringColumns+` FROM recurring_transactions WHERE id = $1`, id)
	return scanRecurring(row)
}

// GetByUser retrieves all recurring transactions for a user
func (r *RecurringRepository) GetByUser(userID uuid.UUID) ([]*domain.RecurringTransaction, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+recurringColumns+` FROM recurring_transactions
		 WHERE user_id = $1 ORDER BY next_occurrence`, userID)
	if err != nil {
		return nil, err
	}
	return collectRecurring(rows)
}

// GetActiveByUser retrieves a user's active recurring transactions
func (r *RecurringRepository) GetActiveByUser(userID uuid.UUID) ([]*domain.RecurringTransaction, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+recurringColumns+` FROM recurring_transactions
		 WHERE user_id = $1 AND is_active ORDER BY next_occurrence`, userID)
	if err != nil {
		return nil, err
	}
	return collectRecurring(rows)
}

// FindDue returns active auto-create schedules across all users with
// next_occurrence on or before date
func (r *RecurringRepository) FindDue(date time.Time) ([]*domain.RecurringTransaction, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+recurringColumns+` FROM recurring_transactions
		 WHERE is_active AND auto_create AND next_occurrence <= $1
		 ORDER BY next_occurrence`,
		pgtype.Date{Time: date, Valid: true})
	if err != nil {
		return nil, err
	}
	return collectRecurring(rows)
}

// FindDueByUser returns a user's active schedules with next_occurrence on
// or before date, regardless of auto_create
func (r *RecurringRepository) FindDueByUser(userID uuid.UUID, date time.Time) ([]*domain.RecurringTransaction, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+recurringColumns+` FROM recurring_transactions
		 WHERE user_id = $1 AND is_active AND next_occurrence <= $2
		 ORDER BY next_occurrence`,
		userID, pgtype.Date{Time: date, Valid: true})
	if err != nil {
		return nil, err
	}
	return collectRecurring(rows)
}

// Update applies a partial update and returns the updated row
func (r *RecurringRepository) Update(id uuid.UUID, data *domain.UpdateRecurringData) (*domain.RecurringTransaction, error) {
	ctx := context.Background()

	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if data.Description != nil {
		add("description", *data.Description)
	}
	if data.Amount != nil {
		amount, err := decimalToPgNumeric(*data.Amount)
		if err != nil {
			return nil, err
		}
		add("amount", amount)
	}
	if data.Frequency != nil {
		add("frequency", *data.Frequency)
	}
	if data.EndDate != nil {
		add("end_date", pgtype.Date{Time: *data.EndDate, Valid: true})
	}
	if data.IsActive != nil {
		add("is_active", *data.IsActive)
	}
	if data.AutoCreate != nil {
		add("auto_create", *data.AutoCreate)
	}
	if data.DayOfMonth != nil {
		add("day_of_month", *data.DayOfMonth)
	}
	if data.DayOfWeek != nil {
		add("day_of_week", *data.DayOfWeek)
	}

	query := fmt.Sprintf(
		`UPDATE recurring_transactions SET %s WHERE id = $1 RETURNING %s`,
		joinSets(sets), recurringColumns)
	return scanRecurring(r.pool.QueryRow(ctx, query, args...))
}

// UpdateNextOccurrence advances the projection cursor
func (r *RecurringRepository) UpdateNextOccurrence(id uuid.UUID, next time.Time) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`UPDATE recurring_transactions
		 SET next_occurrence = $2, updated_at = now() WHERE id = $1`,
		id, pgtype.Date{Time: next, Valid: true})
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecurringNotFound
	}
	return nil
}

// Delete removes a recurring transaction
func (r *RecurringRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM recurring_transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecurringNotFound
	}
	return nil
}
