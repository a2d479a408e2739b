package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNameTooLong = errors.New("name must be 100 characters or less")
)

// User is the owner of every other entity in the system. Credential and
// token handling live outside this service; we only resolve users from the
// validated JWT subject.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UserRepository interface {
	GetByID(id uuid.UUID) (*User, error)
	GetBySubject(subject string) (*User, error)
	UpdateName(id uuid.UUID, name string) (*User, error)
	UpdateAvatarURL(id uuid.UUID, avatarURL string) (*User, error)
}
