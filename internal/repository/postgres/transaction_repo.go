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
	"github.com/shopspring/decimal"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, user_id, category_id, description, amount, date, created_at, updated_at`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	var amount pgtype.Numeric
	var date pgtype.Date
	err := row.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Description, &amount, &date, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	t.Amount = pgNumericToDecimal(amount)
	t.Date = date.Time
	return &t, nil
}

// Create creates a new transaction
func (r *TransactionRepository) Create(tx *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(tx.Amount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO transactions (user_id, category_id, description, amount, date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+transactionColumns,
		tx.UserID, tx.CategoryID, tx.Description, amount,
		pgtype.Date{Time: tx.Date, Valid: true})
	return scanTransaction(row)
}

// GetByID retrieves a transaction by ID
func (r *TransactionRepository) GetByID(id uuid.UUID) (*domain.Transaction, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
	return scanTransaction(row)
}

// GetByUser retrieves a user's transactions, newest first, with optional
// category and date filters.
func (r *TransactionRepository) GetByUser(userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	ctx := context.Background()

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`
	args := []any{userID}

	if filters != nil {
		if filters.CategoryID != nil {
			args = append(args, *filters.CategoryID)
			query += fmt.Sprintf(` AND category_id = $%d`, len(args))
		}
		if filters.StartDate != nil {
			args = append(args, pgtype.Date{Time: *filters.StartDate, Valid: true})
			query += fmt.Sprintf(` AND date >= $%d`, len(args))
		}
		if filters.EndDate != nil {
			args = append(args, pgtype.Date{Time: *filters.EndDate, Valid: true})
			query += fmt.Sprintf(` AND date <= $%d`, len(args))
		}
	}

	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// Delete removes a transaction owned by the user
func (r *TransactionRepository) Delete(userID, id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// SumByCategoryAndDateRange totals amounts for (user, category) between
// start and end inclusive; a nil end leaves the range open.
func (r *TransactionRepository) SumByCategoryAndDateRange(userID, categoryID uuid.UUID, start time.Time, end *time.Time) (decimal.Decimal, error) {
	ctx := context.Background()

	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions
		 WHERE user_id = $1 AND category_id = $2 AND date >= $3`
	args := []any{userID, categoryID, pgtype.Date{Time: start, Valid: true}}

	if end != nil {
		args = append(args, pgtype.Date{Time: *end, Valid: true})
		query += ` AND date <= $4`
	}

	var sum pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(sum), nil
}
