package service

import (
	"strings"

	"github.com/dwicandra/duit/duit-backend/internal/domain"
	"github.com/google/uuid"
)

// CategoryService handles category business logic
type CategoryService struct {
	categoryRepo domain.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategoryInput holds the input for creating a category
type CreateCategoryInput struct {
	Name  string
	Type  domain.CategoryType
	Color *string
	Icon  *string
}

// CreateCategory validates and persists a category.
func (s *CategoryService) CreateCategory(userID uuid.UUID, input CreateCategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrCategoryNameRequired
	}
	if !input.Type.Valid() {
		return nil, domain.ErrInvalidCategoryType
	}

	existing, err := s.categoryRepo.GetAllByUser(userID)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if strings.EqualFold(c.Name, name) && c.Type == input.Type {
			return nil, domain.ErrCategoryAlreadyExists
		}
	}

	return s.categoryRepo.Create(&domain.Category{
		UserID: userID,
		Name:   name,
		Type:   input.Type,
		Color:  input.Color,
		Icon:   input.Icon,
	})
}

// ListCategories retrieves all categories for a user
func (s *CategoryService) ListCategories(userID uuid.UUID) ([]*domain.Category, error) {
	return s.categoryRepo.GetAllByUser(userID)
}

// GetCategoryByID retrieves one category, hiding other users' categories
// behind not-found.
func (s *CategoryService) GetCategoryByID(userID, id uuid.UUID) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		return nil, domain.ErrCategoryNotFound
	}
	return category, nil
}

// UpdateCategoryInput holds the partial update for a category
type UpdateCategoryInput struct {
	Name  *string
	Color *string
	Icon  *string
}

// UpdateCategory applies a partial update. The type is immutable; changing
// it would silently re-sign every transaction under the category.
func (s *CategoryService) UpdateCategory(userID, id uuid.UUID, input UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.GetCategoryByID(userID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.ErrCategoryNameRequired
		}
		category.Name = name
	}
	if input.Color != nil {
		category.Color = input.Color
	}
	if input.Icon != nil {
		category.Icon = input.Icon
	}

	return s.categoryRepo.Update(category)
}

// DeleteCategory deletes a category after checking ownership.
func (s *CategoryService) DeleteCategory(userID, id uuid.UUID) error {
	if _, err := s.GetCategoryByID(userID, id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(userID, id)
}
