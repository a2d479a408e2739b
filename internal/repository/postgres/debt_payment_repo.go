package postgres

import (
	"context"

	"github.com/dwicandra/duit/duit-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DebtPaymentRepository implements domain.DebtPaymentRepository using PostgreSQL
type DebtPaymentRepository struct {
	pool *pgxpool.Pool
}

// NewDebtPaymentRepository creates a new DebtPaymentRepository
func NewDebtPaymentRepository(pool *pgxpool.Pool) *DebtPaymentRepository {
	return &DebtPaymentRepository{pool: pool}
}

const debtPaymentColumns = `id, debt_id, amount, payment_date, notes, created_at`

func scanDebtPayment(row pgx.Row) (*domain.DebtPayment, error) {
	var p domain.DebtPayment
	var amount pgtype.Numeric
	var paymentDate pgtype.Date
	var notes pgtype.Text
	err := row.Scan(&p.ID, &p.DebtID, &amount, &paymentDate, &notes, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDebtPaymentNotFound
		}
		return nil, err
	}
	p.Amount = pgNumericToDecimal(amount)
	p.PaymentDate = paymentDate.Time
	p.Notes = pgTextToStringPtr(notes)
	return &p, nil
}

// Create records a payment
func (r *DebtPaymentRepository) Create(payment *domain.DebtPayment) (*domain.DebtPayment, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(payment.Amount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO debt_payments (debt_id, amount, payment_date, notes)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+debtPaymentColumns,
		payment.DebtID, amount,
		pgtype.Date{Time: payment.PaymentDate, Valid: true},
		stringPtrToPgText(payment.Notes))
	return scanDebtPayment(row)
}

// GetByID retrieves a payment by ID
func (r *DebtPaymentRepository) GetByID(id uuid.UUID) (*domain.DebtPayment, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+debtPaymentColumns+` FROM debt_payments WHERE id = $1`, id)
	return scanDebtPayment(row)
}

// GetByDebtID retrieves a debt's payments, newest first
func (r *DebtPaymentRepository) GetByDebtID(debtID uuid.UUID) ([]*domain.DebtPayment, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+debtPaymentColumns+` FROM debt_payments
		 WHERE debt_id = $1 ORDER BY payment_date DESC, created_at DESC`, debtID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.DebtPayment
	for rows.Next() {
		p, err := scanDebtPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// Delete removes a payment
func (r *DebtPaymentRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM debt_payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDebtPaymentNotFound
	}
	return nil
}
