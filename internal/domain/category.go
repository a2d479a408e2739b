package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryNameRequired  = errors.New("category name is required")
	ErrInvalidCategoryType   = errors.New("category type must be income or expense")
	ErrCategoryAlreadyExists = errors.New("category already exists")
)

// CategoryType distinguishes income from expense categories.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Valid reports whether t is a known category type.
func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

type Category struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"userId"`
	Name      string       `json:"name"`
	Type      CategoryType `json:"type"`
	Color     *string      `json:"color,omitempty"`
	Icon      *string      `json:"icon,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

type CategoryRepository interface {
	Create(category *Category) (*Category, error)
	GetByID(id uuid.UUID) (*Category, error)
	GetAllByUser(userID uuid.UUID) ([]*Category, error)
	Update(category *Category) (*Category, error)
	Delete(userID, id uuid.UUID) error
}
