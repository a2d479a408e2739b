package postgres

import (
	"context"

	"github.com/dwicandra/duit/duit-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, name, avatar_url, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var avatarURL pgtype.Text
	err := row.Scan(&u.ID, &u.Email, &u.Name, &avatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	u.AvatarURL = pgTextToStringPtr(avatarURL)
	return &u, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetBySubject retrieves a user by the identity provider subject
func (r *UserRepository) GetBySubject(subject string) (*domain.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE subject = $1`, subject)
	return scanUser(row)
}

// UpdateName updates a user's display name
func (r *UserRepository) UpdateName(id uuid.UUID, name string) (*domain.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`UPDATE users SET name = $2, updated_at = now() WHERE id = $1
		 RETURNING `+userColumns, id, name)
	return scanUser(row)
}

// UpdateAvatarURL updates a user's avatar URL
func (r *UserRepository) UpdateAvatarURL(id uuid.UUID, avatarURL string) (*domain.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`UPDATE users SET avatar_url = $2, updated_at = now() WHERE id = $1
		 RETURNING `+userColumns, id, avatarURL)
	return scanUser(row)
}
