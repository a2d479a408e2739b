package postgres

import (
	"context"
	"fmt"

	"github.com/dwicandra/duit/duit-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// DebtRepository implements domain.DebtRepository using PostgreSQL
type DebtRepository struct {
	pool *pgxpool.Pool
}

// NewDebtRepository creates a new DebtRepository
func NewDebtRepository(pool *pgxpool.Pool) *DebtRepository {
	return &DebtRepository{pool: pool}
}

const debtColumns = `id, user_id, type, person_name, person_contact, amount,
	remaining_amount, interest_rate, description, due_date, status, start_date,
	created_at, updated_at`

func scanDebt(row pgx.Row) (*domain.Debt, error) {
	var d domain.Debt
	var personContact, description pgtype.Text
	var amount, remaining, rate pgtype.Numeric
	var dueDate, startDate pgtype.Date
	err := row.Scan(
		&d.ID, &d.UserID, &d.Type, &d.PersonName, &personContact, &amount,
		&remaining, &rate, &description, &dueDate, &d.Status, &startDate,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDebtNotFound
		}
		return nil, err
	}
	d.PersonContact = pgTextToStringPtr(personContact)
	d.Amount = pgNumericToDecimal(amount)
	d.RemainingAmount = pgNumericToDecimal(remaining)
	d.InterestRate = pgNumericToDecimal(rate)
	d.Description = pgTextToStringPtr(description)
	d.DueDate = pgDateToTimePtr(dueDate)
	d.StartDate = startDate.Time
	return &d, nil
}

func collectDebts(rows pgx.Rows) ([]*domain.Debt, error) {
	defer rows.Close()
	var result []*domain.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// Create creates a new debt
func (r *DebtRepository) Create(debt *domain.Debt) (*domain.Debt, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(debt.Amount)
	if err != nil {
		return nil, err
	}
	remaining, err := decimalToPgNumeric(debt.RemainingAmount)
	if err != nil {
		return nil, err
	}
	rate, err := decimalToPgNumeric(debt.InterestRate)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO debts
		 (user_id, type, person_name, person_contact, amount, remaining_amount,
		  interest_rate, description, due_date, status, start_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING `+debtColumns,
		debt.UserID, debt.Type, debt.PersonName,
		stringPtrToPgText(debt.PersonContact), amount, remaining, rate,
		stringPtrToPgText(debt.Description), timePtrToPgDate(debt.DueDate),
		debt.Status, pgtype.Date{Time: debt.StartDate, Valid: true})
	return scanDebt(row)
}

// GetByID retrieves a debt by ID
func (r *DebtRepository) GetByID(id uuid.UUID) (*domain.Debt, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE id = $1`, id)
	return scanDebt(row)
}

// GetByUser retrieves all debts for a user
func (r *DebtRepository) GetByUser(userID uuid.UUID) ([]*domain.Debt, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectDebts(rows)
}

// GetByUserAndType retrieves a user's debts of one type
func (r *DebtRepository) GetByUserAndType(userID uuid.UUID, debtType domain.DebtType) ([]*domain.Debt, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+debtColumns+` FROM debts
		 WHERE user_id = $1 AND type = $2 ORDER BY created_at DESC`,
		userID, debtType)
	if err != nil {
		return nil, err
	}
	return collectDebts(rows)
}

// GetOverdueByUser retrieves a user's debts marked overdue
func (r *DebtRepository) GetOverdueByUser(userID uuid.UUID) ([]*domain.Debt, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+debtColumns+` FROM debts
		 WHERE user_id = $1 AND status = 'overdue'
		 ORDER BY due_date`, userID)
	if err != nil {
		return nil, err
	}
	return collectDebts(rows)
}

// Update applies a partial update and returns the updated row
func (r *DebtRepository) Update(id uuid.UUID, data *domain.UpdateDebtData) (*domain.Debt, error) {
	ctx := context.Background()

	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if data.PersonName != nil {
		add("person_name", *data.PersonName)
	}
	if data.PersonContact != nil {
		add("person_contact", *data.PersonContact)
	}
	if data.InterestRate != nil {
		rate, err := decimalToPgNumeric(*data.InterestRate)
		if err != nil {
			return nil, err
		}
		add("interest_rate", rate)
	}
	if data.Description != nil {
		add("description", *data.Description)
	}
	if data.DueDate != nil {
		add("due_date", pgtype.Date{Time: *data.DueDate, Valid: true})
	}
	if data.Status != nil {
		add("status", *data.Status)
	}

	query := fmt.Sprintf(
		`UPDATE debts SET %s WHERE id = $1 RETURNING %s`,
		joinSets(sets), debtColumns)
	return scanDebt(r.pool.QueryRow(ctx, query, args...))
}

// UpdateRemainingAmount sets the remaining balance
func (r *DebtRepository) UpdateRemainingAmount(id uuid.UUID, remaining decimal.Decimal) error {
	ctx := context.Background()

	num, err := decimalToPgNumeric(remaining)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE debts SET remaining_amount = $2, updated_at = now() WHERE id = $1`,
		id, num)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDebtNotFound
	}
	return nil
}

// Delete removes a debt and, via cascade, its payments
func (r *DebtRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM debts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDebtNotFound
	}
	return nil
}
