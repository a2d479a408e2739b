package service

import (
	"strings"
	"time"

	"github.com/dwicandra/duit/duit-backend/internal/domain"
	"github.com/dwicandra/duit/duit-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService handles ledger entries created directly by the user,
// as opposed to those projected from recurring schedules.
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	eventPublisher  websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	transactionRepo domain.TransactionRepository,
	categoryRepo domain.CategoryRepository,
	eventPublisher websocket.EventPublisher,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		eventPublisher:  eventPublisher,
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	CategoryID  uuid.UUID
	Description string
	Amount      decimal.Decimal
	Date        time.Time
}

// CreateTransaction validates and persists a ledger entry.
func (s *TransactionService) CreateTransaction(userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil || category.UserID != userID {
		return nil, domain.ErrCategoryNotFound
	}

	tx, err := s.transactionRepo.Create(&domain.Transaction{
		UserID:      userID,
		CategoryID:  input.CategoryID,
		Description: description,
		Amount:      input.Amount,
		Date:        input.Date,
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, websocket.TransactionCreated(tx))
	}

	return tx, nil
}

// ListTransactions retrieves the user's ledger, newest first, optionally
// filtered by category and date range.
func (s *TransactionService) ListTransactions(userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	return s.transactionRepo.GetByUser(userID, filters)
}

// GetTransactionByID retrieves one entry, hiding other users' entries
// behind not-found.
func (s *TransactionService) GetTransactionByID(userID, id uuid.UUID) (*domain.Transaction, error) {
	tx, err := s.transactionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tx.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return tx, nil
}

// DeleteTransaction deletes a ledger entry after checking ownership.
func (s *TransactionService) DeleteTransaction(userID, id uuid.UUID) error {
	if _, err := s.GetTransactionByID(userID, id); err != nil {
		return err
	}
	return s.transactionRepo.Delete(userID, id)
}
