package service

import (
	"strings"
	"time"

	"github.com/dwicandra/duit/duit-backend/internal/domain"
	"github.com/dwicandra/duit/duit-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// RecurringService owns recurring transaction templates and their
// projection into the ledger.
type RecurringService struct {
	recurringRepo   domain.RecurringRepository
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	clock           domain.Clock
	eventPublisher  websocket.EventPublisher
}

// NewRecurringService creates a new RecurringService
func NewRecurringService(
	recurringRepo domain.RecurringRepository,
	transactionRepo domain.TransactionRepository,
	categoryRepo domain.CategoryRepository,
	clock domain.Clock,
) *RecurringService {
	return &RecurringService{
		recurringRepo:   recurringRepo,
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		clock:           clock,
	}
}

// SetEventPublisher sets the publisher for real-time updates
func (s *RecurringService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *RecurringService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateRecurringInput holds the input for creating a recurring transaction
type CreateRecurringInput struct {
	CategoryID  uuid.UUID
	Description string
	Amount      decimal.Decimal
	Frequency   domain.Frequency
	StartDate   time.Time
	EndDate     *time.Time
	AutoCreate  bool
	DayOfMonth  *int
	DayOfWeek   *int
}

// CreateRecurring validates the template and persists it with its initial
// nextOccurrence computed from the start date.
func (s *RecurringService) CreateRecurring(userID uuid.UUID, input CreateRecurringInput) (*domain.RecurringTransaction, error) {
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

	if !input.Frequency.Valid() {
		return nil, domain.ErrInvalidFrequency
	}

	if err := ValidateAnchors(input.DayOfMonth, input.DayOfWeek); err != nil {
		return nil, err
	}

	// Category must exist and belong to the caller; a foreign category is
	// reported as not found, never as forbidden.
	if err := s.checkCategoryOwnership(userID, input.CategoryID); err != nil {
		return nil, err
	}

	next := InitialOccurrence(input.Frequency, input.StartDate, s.clock.Today(), input.DayOfMonth, input.DayOfWeek)

	rt := &domain.RecurringTransaction{
		UserID:         userID,
		CategoryID:     input.CategoryID,
		Description:    description,
		Amount:         input.Amount,
		Frequency:      input.Frequency,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		NextOccurrence: next,
		IsActive:       true,
		AutoCreate:     input.AutoCreate,
		DayOfMonth:     input.DayOfMonth,
		DayOfWeek:      input.DayOfWeek,
	}

	created, err := s.recurringRepo.Create(rt)
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.RecurringCreated(created))
	return created, nil
}

// ListRecurring retrieves all recurring transactions for a user
func (s *RecurringService) ListRecurring(userID uuid.UUID) ([]*domain.RecurringTransaction, error) {
	return s.recurringRepo.GetByUser(userID)
}

// GetRecurringByID retrieves one recurring transaction, hiding other
// users' schedules behind not-found.
func (s *RecurringService) GetRecurringByID(userID, id uuid.UUID) (*domain.RecurringTransaction, error) {
	rt, err := s.recurringRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rt.UserID != userID {
		return nil, domain.ErrRecurringNotFound
	}
	return rt, nil
}

// ListDue returns the caller's active schedules due on or before today,
// ordered by nextOccurrence ascending.
func (s *RecurringService) ListDue(userID uuid.UUID) ([]*domain.RecurringTransaction, error) {
	return s.recurringRepo.FindDueByUser(userID, s.clock.Today())
}

// UpdateRecurringInput holds the partial update for a recurring transaction
type UpdateRecurringInput struct {
	Description *string
	Amount      *decimal.Decimal
	Frequency   *domain.Frequency
	EndDate     *time.Time
	IsActive    *bool
	AutoCreate  *bool
	DayOfMonth  *int
	DayOfWeek   *int
}

// UpdateRecurring applies a partial update after validating the changed fields.
func (s *RecurringService) UpdateRecurring(userID, id uuid.UUID, input UpdateRecurringInput) (*domain.RecurringTransaction, error) {
	if _, err := s.GetRecurringByID(userID, id); err != nil {
		return nil, err
	}

	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if trimmed == "" {
			return nil, domain.ErrDescriptionRequired
		}
		if len(trimmed) > domain.MaxDescriptionLength {
			return nil, domain.ErrDescriptionTooLong
		}
		input.Description = &trimmed
	}
	if input.Amount != nil && input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if input.Frequency != nil && !input.Frequency.Valid() {
		return nil, domain.ErrInvalidFrequency
	}
	if err := ValidateAnchors(input.DayOfMonth, input.DayOfWeek); err != nil {
		return nil, err
	}

	updated, err := s.recurringRepo.Update(id, &domain.UpdateRecurringData{
		Description: input.Description,
		Amount:      input.Amount,
		Frequency:   input.Frequency,
		EndDate:     input.EndDate,
		IsActive:    input.IsActive,
		AutoCreate:  input.AutoCreate,
		DayOfMonth:  input.DayOfMonth,
		DayOfWeek:   input.DayOfWeek,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.RecurringUpdated(updated))
	return updated, nil
}

// DeleteRecurring hard-deletes a recurring transaction.
func (s *RecurringService) DeleteRecurring(userID, id uuid.UUID) error {
	if _, err := s.GetRecurringByID(userID, id); err != nil {
		return err
	}
	if err := s.recurringRepo.Delete(id); err != nil {
		return err
	}
	s.publishEvent(userID, websocket.RecurringDeleted(map[string]any{"id": id}))
	return nil
}

// ExecuteManually fires one schedule on demand: it writes a ledger entry
// dated today regardless of autoCreate and advances the cursor exactly as
// the sweep would.
func (s *RecurringService) ExecuteManually(userID, id uuid.UUID) (*domain.Transaction, error) {
	rt, err := s.GetRecurringByID(userID, id)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	tx, err := s.transactionRepo.Create(&domain.Transaction{
		UserID:      rt.UserID,
		CategoryID:  rt.CategoryID,
		Description: rt.Description,
		Amount:      rt.Amount,
		Date:        today,
	})
	if err != nil {
		return nil, err
	}

	if err := s.advanceSchedule(rt); err != nil {
		return nil, err
	}

	log.Info().
		Str("recurring_id", rt.ID.String()).
		Str("user_id", userID.String()).
		Msg("Executed recurring transaction")

	s.publishEvent(userID, websocket.TransactionCreated(tx))
	return tx, nil
}

// ProcessResult reports the outcome of a sweep over due schedules.
type ProcessResult struct {
	Fired       int      `json:"fired"`
	Deactivated int      `json:"deactivated"`
	Errors      []string `json:"errors,omitempty"`
}

// ProcessDueSchedules materializes all due autoCreate schedules into
// ledger entries and advances their cursors. Each schedule is its own unit
// of work: a failure is logged and counted, never aborting the sweep.
func (s *RecurringService) ProcessDueSchedules() (*ProcessResult, error) {
	today := s.clock.Today()
	due, err := s.recurringRepo.FindDue(today)
	if err != nil {
		return nil, err
	}

	result := &ProcessResult{Errors: make([]string, 0)}

	for _, rt := range due {
		if rt.AutoCreate {
			tx, err := s.transactionRepo.Create(&domain.Transaction{
				UserID:      rt.UserID,
				CategoryID:  rt.CategoryID,
				Description: rt.Description,
				Amount:      rt.Amount,
				Date:        today,
			})
			if err != nil {
				log.Error().Err(err).
					Str("recurring_id", rt.ID.String()).
					Msg("Failed to create transaction for due schedule")
				result.Errors = append(result.Errors, rt.ID.String()+": "+err.Error())
				continue
			}
			s.publishEvent(rt.UserID, websocket.TransactionCreated(tx))
		}

		if err := s.advanceSchedule(rt); err != nil {
			log.Error().Err(err).
				Str("recurring_id", rt.ID.String()).
				Msg("Failed to advance due schedule")
			result.Errors = append(result.Errors, rt.ID.String()+": "+err.Error())
			continue
		}

		if rt.IsActive {
			result.Fired++
		} else {
			result.Deactivated++
		}
	}

	return result, nil
}

// advanceSchedule moves rt's cursor one period forward, or deactivates the
// schedule when the advanced date would pass its end date. rt is mutated to
// reflect the persisted state.
func (s *RecurringService) advanceSchedule(rt *domain.RecurringTransaction) error {
	next := AdvanceOccurrence(rt.Frequency, rt.NextOccurrence, rt.DayOfMonth)

	if rt.EndDate != nil && next.After(*rt.EndDate) {
		inactive := false
		if _, err := s.recurringRepo.Update(rt.ID, &domain.UpdateRecurringData{IsActive: &inactive}); err != nil {
			return err
		}
		rt.IsActive = false
		log.Info().
			Str("recurring_id", rt.ID.String()).
			Msg("Deactivated recurring transaction past its end date")
		return nil
	}

	if err := s.recurringRepo.UpdateNextOccurrence(rt.ID, next); err != nil {
		return err
	}
	rt.NextOccurrence = next
	return nil
}

// RecurringSummary aggregates a user's schedules into monthly-equivalent
// spend figures.
type RecurringSummary struct {
	TotalActive   int             `json:"totalActive"`
	TotalInactive int             `json:"totalInactive"`
	MonthlyTotal  decimal.Decimal `json:"monthlyTotal"`
	YearlyTotal   decimal.Decimal `json:"yearlyTotal"`
	NextDueDate   *time.Time      `json:"nextDueDate,omitempty"`
}

// Summarize normalizes all active schedules to a monthly equivalent
// (daily x30, weekly x4, monthly x1, yearly /12) and reports the earliest
// upcoming occurrence.
func (s *RecurringService) Summarize(userID uuid.UUID) (*RecurringSummary, error) {
	all, err := s.recurringRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	summary := &RecurringSummary{
		MonthlyTotal: decimal.Zero,
		YearlyTotal:  decimal.Zero,
	}

	for _, rt := range all {
		if !rt.IsActive {
			summary.TotalInactive++
			continue
		}
		summary.TotalActive++

		switch rt.Frequency {
		case domain.FrequencyDaily:
			summary.MonthlyTotal = summary.MonthlyTotal.Add(rt.Amount.Mul(decimal.NewFromInt(30)))
		case domain.FrequencyWeekly:
			summary.MonthlyTotal = summary.MonthlyTotal.Add(rt.Amount.Mul(decimal.NewFromInt(4)))
		case domain.FrequencyMonthly:
			summary.MonthlyTotal = summary.MonthlyTotal.Add(rt.Amount)
		case domain.FrequencyYearly:
			summary.MonthlyTotal = summary.MonthlyTotal.Add(rt.Amount.DivRound(decimal.NewFromInt(12), 2))
		}

		next := rt.NextOccurrence
		if summary.NextDueDate == nil || next.Before(*summary.NextDueDate) {
			summary.NextDueDate = &next
		}
	}

	summary.YearlyTotal = summary.MonthlyTotal.Mul(decimal.NewFromInt(12))
	return summary, nil
}

// checkCategoryOwnership verifies the category exists and belongs to the
// user, collapsing both failures into not-found.
func (s *RecurringService) checkCategoryOwnership(userID, categoryID uuid.UUID) error {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return domain.ErrCategoryNotFound
	}
	if category.UserID != userID {
		return domain.ErrCategoryNotFound
	}
	return nil
}
