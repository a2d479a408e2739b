package service

import (
	"errors"
	"testing"
	"time"

	"github.com/dwicandra/duit/duit-backend/internal/domain"
	"github.com/dwicandra/duit/duit-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func setupRecurringService(today time.Time) (*RecurringService, *testutil.MockRecurringRepository, *testutil.MockTransactionRepository, *testutil.MockCategoryRepository) {
	recurringRepo := testutil.NewMockRecurringRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	clock := domain.FixedClock{Date: today}

	svc := NewRecurringService(recurringRepo, transactionRepo, categoryRepo, clock)
	return svc, recurringRepo, transactionRepo, categoryRepo
}

func addOwnedCategory(categoryRepo *testutil.MockCategoryRepository, userID uuid.UUID) uuid.UUID {
	categoryID := uuid.New()
	categoryRepo.AddCategory(&domain.Category{
		ID:     categoryID,
		UserID: userID,
		Name:   "Bills",
		Type:   domain.CategoryTypeExpense,
	})
	return categoryID
}

func TestCreateRecurring_Success(t *testing.T) {
	today := date(2024, time.January, 10)
	svc, _, _, categoryRepo := setupRecurringService(today)

	userID := uuid.New()
	categoryID := addOwnedCategory(categoryRepo, userID)

	fifteenth := 15
	rt, err := svc.CreateRecurring(userID, CreateRecurringInput{
		CategoryID:  categoryID,
		Description: "Rent",
		Amount:      decimal.NewFromFloat(1200.00),
		Frequency:   domain.FrequencyMonthly,
		StartDate:   today,
		AutoCreate:  true,
		DayOfMonth:  &fifteenth,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rt.Description != "Rent" {
		t.Errorf("Expected description 'Rent', got %s", rt.Description)
	}
	if !rt.IsActive {
		t.Error("Expected new schedule to be active")
	}
	if !rt.NextOccurrence.Equal(date(2024, time.January, 15)) {
		t.Errorf("Expected next occurrence 2024-01-15, got %v", rt.NextOccurrence)
	}
}

func TestCreateRecurring_TrimsDescription(t *testing.T) {
	today := date(2024, time.January, 10)
	svc, _, _, categoryRepo := setupRecurringService(today)

	userID := uuid.New()
	categoryID := addOwnedCategory(categoryRepo, userID)

	rt, err := svc.CreateRecurring(userID, CreateRecurringInput{
		CategoryID:  categoryID,
		Description: "  Netflix  ",
		Amount:      decimal.NewFromFloat(15.99),
		Frequency:   domain.FrequencyMonthly,
		StartDate:   today,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rt.Description != "Netflix" {
		t.Errorf("Expected trimmed description 'Netflix', got %q", rt.Description)
	}
}

func TestCreateRecurring_ValidationErrors(t *testing.T) {
	today := date(2024, time.January, 10)
	svc, _, _, categoryRepo := setupRecurringService(today)

	userID := uuid.New()
	categoryID := addOwnedCategory(categoryRepo, userID)

	valid := CreateRecurringInput{
		CategoryID:  categoryID,
		Description: "Rent",
		Amount:      decimal.NewFromFloat(1200.00),
		Frequency:   domain.FrequencyMonthly,
		StartDate:   today,
	}

	blank := valid
	blank.Description = "   "
	if _, err := svc.CreateRecurring(userID, blank); err != domain.ErrDescriptionRequired {
		t.Errorf("Expected ErrDescriptionRequired, got %v", err)
	}

	zeroAmount := valid
	zeroAmount.Amount = decimal.Zero
	if _, err := svc.CreateRecurring(userID, zeroAmount); err != domain.ErrInvalidAmount {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}

	badFreq := valid
	badFreq.Frequency = "fortnightly"
	if _, err := svc.CreateRecurring(userID, badFreq); err != domain.ErrInvalidFrequency {
		t.Errorf("Expected ErrInvalidFrequency, got %v", err)
	}

	badDay := 32
	badAnchor := valid
	badAnchor.DayOfMonth = &badDay
	if _, err := svc.CreateRecurring(userID, badAnchor); err != domain.ErrInvalidDayOfMonth {
		t.Errorf("Expected ErrInvalidDayOfMonth, got %v", err)
	}

	foreign := valid
	foreign.CategoryID = uuid.New()
	if _, err := svc.CreateRecurring(userID, foreign); err != domain.ErrCategoryNotFound {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCreateRecurring_ForeignCategoryHidden(t *testing.T) {
	today := date(2024, time.January, 10)
	svc, _, _, categoryRepo := setupRecurringService(today)

	owner := uuid.New()
	categoryID := addOwnedCategory(categoryRepo, owner)

	// Another user's category reads as not-found, never forbidden
	intruder := uuid.New()
	_, err := svc.CreateRecurring(intruder, CreateRecurringInput{
		CategoryID:  categoryID,
		Description: "Rent",
		Amount:      decimal.NewFromFloat(1200.00),
		Frequency:   domain.FrequencyMonthly,
		StartDate:   today,
	})
	if err != domain.ErrCategoryNotFound {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}

func TestGetRecurringByID_OwnershipHidden(t *testing.T) {
	today := date(2024, time.January, 10)
	svc, recurringRepo, _, _ := setupRecurringService(today)

	owner := uuid.New()
	rt := &domain.RecurringTransaction{
		ID:             uuid.New(),
		UserID:         owner,
		Description:    "Rent",
		Amount:         decimal.NewFromFloat(1200.00),
		Frequency:      domain.FrequencyMonthly,
		NextOccurrence: date(2024, time.January, 15),
		IsActive:       true,
	}
	recurringRepo.AddSchedule(rt)

	if _, err := svc.GetRecurringByID(owner, rt.ID); err != nil {
		t.Fatalf("Expected no error for owner, got %v", err)
	}

	if _, err := svc.GetRecurringByID(uuid.New(), rt.ID); err != domain.ErrRecurringNotFound {
		t.Errorf("Expected ErrRecurringNotFound for other user, got %v", err)
	}
}

func TestExecuteManually_CreatesTransactionAndAdvances(t *testing.T) {
	today := date(2024, time.January, 20)
	svc, recurringRepo, transactionRepo, _ := setupRecurringService(today)

	userID := uuid.New()
	fifteenth := 15
	rt := &domain.RecurringTransaction{
		ID:             uuid.New(),
		UserID:         userID,
		CategoryID:     uuid.New(),
		Description:    "Rent",
		Amount:         decimal.NewFromFloat(1200.00),
		Frequency:      domain.FrequencyMonthly,
		NextOccurrence: date(2024, time.January, 15),
		IsActive:       true,
		AutoCreate:     false,
		DayOfMonth:     &fifteenth,
	}
	recurringRepo.AddSchedule(rt)

	tx, err := svc.ExecuteManually(userID, rt.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Ledger entry is dated today, not the occurrence date
	if !tx.Date.Equal(today) {
		t.Errorf("Expected transaction dated %v, got %v", today, tx.Date)
	}
	if !tx.Amount.Equal(decimal.NewFromFloat(1200.00)) {
		t.Errorf("Expected amount 1200.00, got %s", tx.Amount)
	}
	if len(transactionRepo.Transactions) != 1 {
		t.Errorf("Expected 1 transaction, got %d", len(transactionRepo.Transactions))
	}

	// Cursor advanced one period
	if !rt.NextOccurrence.Equal(date(2024, time.February, 15)) {
		t.Errorf("Expected next occurrence 2024-02-15, got %v", rt.NextOccurrence)
	}
}

func TestExecuteManually_NotOwned(t *testing.T) {
	today := date(2024, time.January, 20)
	svc, recurringRepo, _, _ := setupRecurringService(today)

	rt := &domain.RecurringTransaction{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Frequency:      domain.FrequencyMonthly,
		NextOccurrence: date(2024, time.January, 15),
		IsActive:       true,
	}
	recurringRepo.AddSchedule(rt)

	if _, err := svc.ExecuteManually(uuid.New(), rt.ID); err != domain.ErrRecurringNotFound {
		t.Errorf("Expected ErrRecurringNotFound, got %v", err)
	}
}

func TestProcessDueSchedules_FiresDueAutoCreate(t *testing.T) {
	today := date(2024, time.January, 15)
	svc, recurringRepo, transactionRepo, _ := setupRecurringService(today)

	userID := uuid.New()
	due := &domain.RecurringTransaction{
		ID:             uuid.New(),
		UserID:         userID,
		CategoryID:     uuid.New(),
		Description:    "Rent",
		Amount:         decimal.NewFromFloat(1200.00),
		Frequency:      domain.FrequencyMonthly,
		NextOccurrence: date(2024, time.January, 15),
		IsActive:       true,
		AutoCreate:     true,
	}
	notDue := &domain.RecurringTransaction{
		ID:             uuid.New(),
		UserID:         userID,
		CategoryID:     uuid.New(),
		Description:    "Insurance",
		Amount:         decimal.NewFromFloat(80.00),
		Frequency:      domain.FrequencyMonthly,
		NextOccurrence: date(2024, time.February, 1),
		IsActive:       true,
		AutoCreate:     true,
	}
	manualOnly := &domain.RecurringTransaction{
		ID:             uuid.New(),
		UserID:         userID,
		CategoryID:     uuid.New(),
		Description:    "Gym",
		Amount:         decimal.NewFromFloat(40.00),
		Frequency:      domain.FrequencyMonthly,
		NextOccurrence: date(2024, time.January, 10),
		IsActive:       true,
		AutoCreate:     false,
	}
	recurringRepo.AddSchedule(due)
	recurringRepo.AddSchedule(notDue)
	recurringRepo.AddSchedule(manualOnly)

	result, err := svc.ProcessDueSchedules()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.Fired != 1 {
		t.Errorf("Expected 1 fired, got %d", result.Fired)
	}
	if result.Deactivated != 0 {
		t.Errorf("Expected 0 deactivated, got %d", result.Deactivated)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Expected no errors, got %v", result.Errors)
	}
	if len(transactionRepo.Transactions) != 1 {
		t.Errorf("Expected 1 transaction, got %d", len(transactionRepo.Transactions))
	}
	if !due.NextOccurrence.Equal(date(2024, time.February, 15)) {
		t.Errorf("Expected cursor at 2024-02-15, got %v", due.NextOccurrence)
	}
	if !notDue.NextOccurrence.Equal(date(2024, time.February, 1)) {
		t.Errorf("Expected untouched cursor, got %v", notDue.NextOccurrence)
	}
}

func TestProcessDueSchedules_DeactivatesPastEndDate(t *testing.T) {
	today := date(2024, time.January, 15)
	svc, recurringRepo, transactionRepo, _ := setupRecurringService(today)

	endDate := date(2024, time.January, 31)
	rt := &domain.RecurringTransaction{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		CategoryID:     uuid.New(),
		Description:    "Final installment",
		Amount:         decimal.NewFromFloat(200.00),
		Frequency:      domain.FrequencyMonthly,
		NextOccurrence: date(2024, time.January, 15),
		EndDate:        &endDate,
		IsActive:       true,
		AutoCreate:     true,
	}
	recurringRepo.AddSchedule(rt)

	result, err := svc.ProcessDueSchedules()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// The due occurrence still fires before deactivation
	if len(transactionRepo.Transactions) != 1 {
		t.Errorf("Expected 1 transaction, got %d", len(transactionRepo.Transactions))
	}
	if result.Deactivated != 1 {
		t.Errorf("Expected 1 deactivated, got %d", result.Deactivated)
	}
	if result.Fired != 0 {
		t.Errorf("Expected 0 fired, got %d", result.Fired)
	}
	if rt.IsActive {
		t.Error("Expected schedule deactivated past its end date")
	}
}

func TestProcessDueSchedules_ContinuesAfterFailure(t *testing.T) {
	today := date(2024, time.January, 15)
	svc, recurringRepo, transactionRepo, _ := setupRecurringService(today)

	failing := &domain.RecurringTransaction{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		CategoryID:     uuid.New(),
		Description:    "Broken",
		Amount:         decimal.NewFromFloat(10.00),
		Frequency:      domain.FrequencyDaily,
		NextOccurrence: date(2024, time.January, 14),
		IsActive:       true,
		AutoCreate:     true,
	}
	healthy := &domain.RecurringTransaction{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		CategoryID:     uuid.New(),
		Description:    "Rent",
		Amount:         decimal.NewFromFloat(1200.00),
		Frequency:      domain.FrequencyMonthly,
		NextOccurrence: date(2024, time.January, 15),
		IsActive:       true,
		AutoCreate:     true,
	}
	recurringRepo.AddSchedule(failing)
	recurringRepo.AddSchedule(healthy)

	failErr := errors.New("insert failed")
	transactionRepo.CreateFn = func(tx *domain.Transaction) (*domain.Transaction, error) {
		if tx.Description == "Broken" {
			return nil, failErr
		}
		tx.ID = uuid.New()
		transactionRepo.Transactions[tx.ID] = tx
		return tx, nil
	}

	result, err := svc.ProcessDueSchedules()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.Fired != 1 {
		t.Errorf("Expected 1 fired, got %d", result.Fired)
	}
	if len(result.Errors) != 1 {
		t.Errorf("Expected 1 error recorded, got %d", len(result.Errors))
	}
	// The failing schedule's cursor must not advance
	if !failing.NextOccurrence.Equal(date(2024, time.January, 14)) {
		t.Errorf("Expected failing cursor untouched, got %v", failing.NextOccurrence)
	}
	if !healthy.NextOccurrence.Equal(date(2024, time.February, 15)) {
		t.Errorf("Expected healthy cursor advanced, got %v", healthy.NextOccurrence)
	}
}

func TestSummarize_MonthlyEquivalents(t *testing.T) {
	today := date(2024, time.January, 10)
	svc, recurringRepo, _, _ := setupRecurringService(today)

	userID := uuid.New()
	schedules := []*domain.RecurringTransaction{
		{ID: uuid.New(), UserID: userID, Amount: decimal.NewFromFloat(5.00), Frequency: domain.FrequencyDaily, NextOccurrence: date(2024, time.January, 11), IsActive: true},
		{ID: uuid.New(), UserID: userID, Amount: decimal.NewFromFloat(25.00), Frequency: domain.FrequencyWeekly, NextOccurrence: date(2024, time.January, 14), IsActive: true},
		{ID: uuid.New(), UserID: userID, Amount: decimal.NewFromFloat(1200.00), Frequency: domain.FrequencyMonthly, NextOccurrence: date(2024, time.January, 15), IsActive: true},
		{ID: uuid.New(), UserID: userID, Amount: decimal.NewFromFloat(600.00), Frequency: domain.FrequencyYearly, NextOccurrence: date(2024, time.March, 1), IsActive: true},
		{ID: uuid.New(), UserID: userID, Amount: decimal.NewFromFloat(99.00), Frequency: domain.FrequencyMonthly, NextOccurrence: date(2024, time.January, 20), IsActive: false},
	}
	for _, rt := range schedules {
		recurringRepo.AddSchedule(rt)
	}

	summary, err := svc.Summarize(userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if summary.TotalActive != 4 {
		t.Errorf("Expected 4 active, got %d", summary.TotalActive)
	}
	if summary.TotalInactive != 1 {
		t.Errorf("Expected 1 inactive, got %d", summary.TotalInactive)
	}

	// 5*30 + 25*4 + 1200 + 600/12 = 150 + 100 + 1200 + 50 = 1500
	expectedMonthly := decimal.NewFromFloat(1500.00)
	if !summary.MonthlyTotal.Equal(expectedMonthly) {
		t.Errorf("Expected monthly total 1500.00, got %s", summary.MonthlyTotal)
	}
	if !summary.YearlyTotal.Equal(expectedMonthly.Mul(decimal.NewFromInt(12))) {
		t.Errorf("Expected yearly total 18000.00, got %s", summary.YearlyTotal)
	}

	if summary.NextDueDate == nil || !summary.NextDueDate.Equal(date(2024, time.January, 11)) {
		t.Errorf("Expected next due 2024-01-11, got %v", summary.NextDueDate)
	}
}

func TestListDue_UsesToday(t *testing.T) {
	today := date(2024, time.January, 15)
	svc, recurringRepo, _, _ := setupRecurringService(today)

	userID := uuid.New()
	recurringRepo.AddSchedule(&domain.RecurringTransaction{
		ID: uuid.New(), UserID: userID, Frequency: domain.FrequencyMonthly,
		NextOccurrence: date(2024, time.January, 15), IsActive: true,
	})
	recurringRepo.AddSchedule(&domain.RecurringTransaction{
		ID: uuid.New(), UserID: userID, Frequency: domain.FrequencyMonthly,
		NextOccurrence: date(2024, time.January, 16), IsActive: true,
	})

	due, err := svc.ListDue(userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(due) != 1 {
		t.Errorf("Expected 1 due schedule, got %d", len(due))
	}
}

func TestUpdateRecurring_Validation(t *testing.T) {
	today := date(2024, time.January, 10)
	svc, recurringRepo, _, _ := setupRecurringService(today)

	userID := uuid.New()
	rt := &domain.RecurringTransaction{
		ID:             uuid.New(),
		UserID:         userID,
		Description:    "Rent",
		Amount:         decimal.NewFromFloat(1200.00),
		Frequency:      domain.FrequencyMonthly,
		NextOccurrence: date(2024, time.January, 15),
		IsActive:       true,
	}
	recurringRepo.AddSchedule(rt)

	blank := "   "
	if _, err := svc.UpdateRecurring(userID, rt.ID, UpdateRecurringInput{Description: &blank}); err != domain.ErrDescriptionRequired {
		t.Errorf("Expected ErrDescriptionRequired, got %v", err)
	}

	negative := decimal.NewFromFloat(-5.00)
	if _, err := svc.UpdateRecurring(userID, rt.ID, UpdateRecurringInput{Amount: &negative}); err != domain.ErrInvalidAmount {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}

	newDesc := "Rent (new lease)"
	updated, err := svc.UpdateRecurring(userID, rt.ID, UpdateRecurringInput{Description: &newDesc})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Description != "Rent (new lease)" {
		t.Errorf("Expected updated description, got %s", updated.Description)
	}
}

func TestDeleteRecurring(t *testing.T) {
	today := date(2024, time.January, 10)
	svc, recurringRepo, _, _ := setupRecurringService(today)

	userID := uuid.New()
	rt := &domain.RecurringTransaction{
		ID:             uuid.New(),
		UserID:         userID,
		Frequency:      domain.FrequencyMonthly,
		NextOccurrence: date(2024, time.January, 15),
		IsActive:       true,
	}
	recurringRepo.AddSchedule(rt)

	if err := svc.DeleteRecurring(uuid.New(), rt.ID); err != domain.ErrRecurringNotFound {
		t.Errorf("Expected ErrRecurringNotFound for other user, got %v", err)
	}

	if err := svc.DeleteRecurring(userID, rt.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(recurringRepo.Schedules) != 0 {
		t.Errorf("Expected schedule removed, got %d left", len(recurringRepo.Schedules))
	}
}
