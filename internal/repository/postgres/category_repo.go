package postgres

import (
	"context"

	"github.com/dwicandra/duit/duit-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, user_id, name, type, color, icon, created_at, updated_at`

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	var color, icon pgtype.Text
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &color, &icon, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	c.Color = pgTextToStringPtr(color)
	c.Icon = pgTextToStringPtr(icon)
	return &c, nil
}

// Create creates a new category
func (r *CategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`INSERT INTO categories (user_id, name, type, color, icon)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+categoryColumns,
		category.UserID, category.Name, category.Type,
		stringPtrToPgText(category.Color), stringPtrToPgText(category.Icon))
	return scanCategory(row)
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(id uuid.UUID) (*domain.Category, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	return scanCategory(row)
}

// GetAllByUser retrieves all categories for a user ordered by name
func (r *CategoryRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Category, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Update updates a category's mutable fields
func (r *CategoryRepository) Update(category *domain.Category) (*domain.Category, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`UPDATE categories
		 SET name = $2, color = $3, icon = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING `+categoryColumns,
		category.ID, category.Name,
		stringPtrToPgText(category.Color), stringPtrToPgText(category.Icon))
	return scanCategory(row)
}

// Delete removes a category owned by the user
func (r *CategoryRepository) Delete(userID, id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}
