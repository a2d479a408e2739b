package service

import (
	"testing"
	"time"

	"github.com/dwicandra/duit/duit-backend/internal/domain"
	"github.com/dwicandra/duit/duit-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func setupDebtService(today time.Time) (*DebtService, *testutil.MockDebtRepository, *testutil.MockDebtPaymentRepository) {
	debtRepo := testutil.NewMockDebtRepository()
	paymentRepo := testutil.NewMockDebtPaymentRepository()
	clock := domain.FixedClock{Date: today}

	svc := NewDebtService(debtRepo, paymentRepo, clock)
	return svc, debtRepo, paymentRepo
}

func addDebt(debtRepo *testutil.MockDebtRepository, userID uuid.UUID, amount, remaining float64) *domain.Debt {
	debt := &domain.Debt{
		ID:              uuid.New(),
		UserID:          userID,
		Type:            domain.DebtTypeBorrowed,
		PersonName:      "Alice",
		Amount:          decimal.NewFromFloat(amount),
		RemainingAmount: decimal.NewFromFloat(remaining),
		InterestRate:    decimal.Zero,
		Status:          domain.DebtStatusActive,
		StartDate:       date(2024, time.January, 1),
	}
	debtRepo.AddDebt(debt)
	return debt
}

func TestCreateDebt_Success(t *testing.T) {
	svc, _, _ := setupDebtService(date(2024, time.January, 10))

	userID := uuid.New()
	debt, err := svc.CreateDebt(userID, CreateDebtInput{
		Type:       domain.DebtTypeBorrowed,
		PersonName: "  Alice  ",
		Amount:     decimal.NewFromFloat(1000.00),
		StartDate:  date(2024, time.January, 1),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if debt.PersonName != "Alice" {
		t.Errorf("Expected trimmed person name 'Alice', got %q", debt.PersonName)
	}
	if !debt.RemainingAmount.Equal(debt.Amount) {
		t.Errorf("Expected remaining equal to principal, got %s", debt.RemainingAmount)
	}
	if debt.Status != domain.DebtStatusActive {
		t.Errorf("Expected status active, got %s", debt.Status)
	}
	if !debt.InterestRate.IsZero() {
		t.Errorf("Expected zero interest rate, got %s", debt.InterestRate)
	}
}

func TestCreateDebt_ValidationErrors(t *testing.T) {
	svc, _, _ := setupDebtService(date(2024, time.January, 10))

	userID := uuid.New()
	valid := CreateDebtInput{
		Type:       domain.DebtTypeLent,
		PersonName: "Bob",
		Amount:     decimal.NewFromFloat(500.00),
		StartDate:  date(2024, time.January, 1),
	}

	badType := valid
	badType.Type = "shared"
	if _, err := svc.CreateDebt(userID, badType); err != domain.ErrInvalidDebtType {
		t.Errorf("Expected ErrInvalidDebtType, got %v", err)
	}

	noName := valid
	noName.PersonName = "   "
	if _, err := svc.CreateDebt(userID, noName); err != domain.ErrPersonNameRequired {
		t.Errorf("Expected ErrPersonNameRequired, got %v", err)
	}

	zeroAmount := valid
	zeroAmount.Amount = decimal.Zero
	if _, err := svc.CreateDebt(userID, zeroAmount); err != domain.ErrInvalidAmount {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}

	negativeRate := decimal.NewFromFloat(-1.5)
	badRate := valid
	badRate.InterestRate = &negativeRate
	if _, err := svc.CreateDebt(userID, badRate); err != domain.ErrInvalidAmount {
		t.Errorf("Expected ErrInvalidAmount for negative rate, got %v", err)
	}
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := date(year, month, day)
	return &d
}

func TestAddPayment_DecrementsRemaining(t *testing.T) {
	svc, debtRepo, paymentRepo := setupDebtService(date(2024, time.January, 10))

	userID := uuid.New()
	debt := addDebt(debtRepo, userID, 1000.00, 1000.00)

	payment, err := svc.AddPayment(userID, debt.ID, AddPaymentInput{
		Amount:      decimal.NewFromFloat(300.00),
		PaymentDate: datePtr(2024, time.January, 5),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !payment.Amount.Equal(decimal.NewFromFloat(300.00)) {
		t.Errorf("Expected payment amount 300.00, got %s", payment.Amount)
	}
	if !debt.RemainingAmount.Equal(decimal.NewFromFloat(700.00)) {
		t.Errorf("Expected remaining 700.00, got %s", debt.RemainingAmount)
	}
	if len(paymentRepo.Payments) != 1 {
		t.Errorf("Expected 1 payment, got %d", len(paymentRepo.Payments))
	}
}

func TestAddPayment_DefaultsDateToToday(t *testing.T) {
	today := date(2024, time.January, 10)
	svc, debtRepo, _ := setupDebtService(today)

	userID := uuid.New()
	debt := addDebt(debtRepo, userID, 1000.00, 1000.00)

	payment, err := svc.AddPayment(userID, debt.ID, AddPaymentInput{
		Amount: decimal.NewFromFloat(100.00),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !payment.PaymentDate.Equal(today) {
		t.Errorf("Expected payment dated %s, got %s", today, payment.PaymentDate)
	}
}

func TestAddPayment_ExceedsRemaining(t *testing.T) {
	svc, debtRepo, paymentRepo := setupDebtService(date(2024, time.January, 10))

	userID := uuid.New()
	debt := addDebt(debtRepo, userID, 1000.00, 200.00)

	_, err := svc.AddPayment(userID, debt.ID, AddPaymentInput{
		Amount:      decimal.NewFromFloat(200.01),
		PaymentDate: datePtr(2024, time.January, 5),
	})
	if err != domain.ErrPaymentExceedsRemaining {
		t.Errorf("Expected ErrPaymentExceedsRemaining, got %v", err)
	}
	if len(paymentRepo.Payments) != 0 {
		t.Errorf("Expected no payment recorded, got %d", len(paymentRepo.Payments))
	}

	// Exactly the remaining amount is allowed and settles the debt
	if _, err := svc.AddPayment(userID, debt.ID, AddPaymentInput{
		Amount:      decimal.NewFromFloat(200.00),
		PaymentDate: datePtr(2024, time.January, 5),
	}); err != nil {
		t.Fatalf("Expected no error for full settlement, got %v", err)
	}
	if !debt.RemainingAmount.IsZero() {
		t.Errorf("Expected zero remaining, got %s", debt.RemainingAmount)
	}
}

func TestAddPayment_InvalidAmountAndOwnership(t *testing.T) {
	svc, debtRepo, _ := setupDebtService(date(2024, time.January, 10))

	userID := uuid.New()
	debt := addDebt(debtRepo, userID, 1000.00, 1000.00)

	if _, err := svc.AddPayment(userID, debt.ID, AddPaymentInput{
		Amount:      decimal.Zero,
		PaymentDate: datePtr(2024, time.January, 5),
	}); err != domain.ErrInvalidAmount {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}

	if _, err := svc.AddPayment(uuid.New(), debt.ID, AddPaymentInput{
		Amount:      decimal.NewFromFloat(100.00),
		PaymentDate: datePtr(2024, time.January, 5),
	}); err != domain.ErrDebtNotFound {
		t.Errorf("Expected ErrDebtNotFound for other user, got %v", err)
	}
}

func TestDeletePayment_RestoresRemaining(t *testing.T) {
	svc, debtRepo, paymentRepo := setupDebtService(date(2024, time.January, 10))

	userID := uuid.New()
	debt := addDebt(debtRepo, userID, 1000.00, 1000.00)

	payment, err := svc.AddPayment(userID, debt.ID, AddPaymentInput{
		Amount:      decimal.NewFromFloat(400.00),
		PaymentDate: datePtr(2024, time.January, 5),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := svc.DeletePayment(userID, debt.ID, payment.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !debt.RemainingAmount.Equal(decimal.NewFromFloat(1000.00)) {
		t.Errorf("Expected remaining restored to 1000.00, got %s", debt.RemainingAmount)
	}
	if len(paymentRepo.Payments) != 0 {
		t.Errorf("Expected payment removed, got %d left", len(paymentRepo.Payments))
	}
}

func TestDeletePayment_WrongDebt(t *testing.T) {
	svc, debtRepo, paymentRepo := setupDebtService(date(2024, time.January, 10))

	userID := uuid.New()
	debtA := addDebt(debtRepo, userID, 1000.00, 500.00)
	debtB := addDebt(debtRepo, userID, 200.00, 200.00)

	payment := &domain.DebtPayment{
		ID:          uuid.New(),
		DebtID:      debtA.ID,
		Amount:      decimal.NewFromFloat(500.00),
		PaymentDate: date(2024, time.January, 5),
	}
	paymentRepo.AddPayment(payment)

	// A payment addressed through the wrong debt is not found
	if err := svc.DeletePayment(userID, debtB.ID, payment.ID); err != domain.ErrDebtPaymentNotFound {
		t.Errorf("Expected ErrDebtPaymentNotFound, got %v", err)
	}
	if len(paymentRepo.Payments) != 1 {
		t.Errorf("Expected payment untouched, got %d", len(paymentRepo.Payments))
	}
}

func TestSummaryFor_PayoffMetrics(t *testing.T) {
	svc, debtRepo, paymentRepo := setupDebtService(date(2024, time.January, 10))

	userID := uuid.New()
	debt := addDebt(debtRepo, userID, 1000.00, 700.00)

	paymentRepo.AddPayment(&domain.DebtPayment{
		ID: uuid.New(), DebtID: debt.ID,
		Amount: decimal.NewFromFloat(100.00), PaymentDate: date(2024, time.January, 3),
	})
	paymentRepo.AddPayment(&domain.DebtPayment{
		ID: uuid.New(), DebtID: debt.ID,
		Amount: decimal.NewFromFloat(200.00), PaymentDate: date(2024, time.January, 7),
	})

	summary, err := svc.SummaryFor(userID, debt.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !summary.PaidAmount.Equal(decimal.NewFromFloat(300.00)) {
		t.Errorf("Expected paid 300.00, got %s", summary.PaidAmount)
	}
	// 300/1000 = 30.00
	if !summary.PaidPercentage.Equal(decimal.NewFromFloat(30.00)) {
		t.Errorf("Expected paid percentage 30.00, got %s", summary.PaidPercentage)
	}
	if summary.PaymentCount != 2 {
		t.Errorf("Expected 2 payments, got %d", summary.PaymentCount)
	}
	if summary.LastPaymentDate == nil || !summary.LastPaymentDate.Equal(date(2024, time.January, 7)) {
		t.Errorf("Expected last payment 2024-01-07, got %v", summary.LastPaymentDate)
	}
	if summary.DaysOverdue != 0 {
		t.Errorf("Expected 0 days overdue without a due date, got %d", summary.DaysOverdue)
	}
}

func TestSummaryFor_DaysOverdue(t *testing.T) {
	svc, debtRepo, _ := setupDebtService(date(2024, time.January, 20))

	userID := uuid.New()
	debt := addDebt(debtRepo, userID, 1000.00, 1000.00)
	dueDate := date(2024, time.January, 15)
	debt.DueDate = &dueDate

	summary, err := svc.SummaryFor(userID, debt.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summary.DaysOverdue != 5 {
		t.Errorf("Expected 5 days overdue, got %d", summary.DaysOverdue)
	}

	// A paid debt is never overdue, regardless of its due date
	debt.Status = domain.DebtStatusPaid
	summary, err = svc.SummaryFor(userID, debt.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summary.DaysOverdue != 0 {
		t.Errorf("Expected 0 days overdue for paid debt, got %d", summary.DaysOverdue)
	}
}

func TestOverview_SplitsBySide(t *testing.T) {
	svc, debtRepo, _ := setupDebtService(date(2024, time.January, 20))

	userID := uuid.New()

	borrowed := addDebt(debtRepo, userID, 1000.00, 600.00)
	dueDate := date(2024, time.January, 10)
	borrowed.DueDate = &dueDate
	borrowed.Status = domain.DebtStatusOverdue

	lent := &domain.Debt{
		ID:              uuid.New(),
		UserID:          userID,
		Type:            domain.DebtTypeLent,
		PersonName:      "Bob",
		Amount:          decimal.NewFromFloat(300.00),
		RemainingAmount: decimal.NewFromFloat(300.00),
		Status:          domain.DebtStatusActive,
		StartDate:       date(2024, time.January, 2),
	}
	debtRepo.AddDebt(lent)

	overview, err := svc.Overview(userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !overview.TotalBorrowed.Equal(decimal.NewFromFloat(1000.00)) {
		t.Errorf("Expected total borrowed 1000.00, got %s", overview.TotalBorrowed)
	}
	if !overview.TotalBorrowedRemaining.Equal(decimal.NewFromFloat(600.00)) {
		t.Errorf("Expected borrowed remaining 600.00, got %s", overview.TotalBorrowedRemaining)
	}
	if !overview.TotalLent.Equal(decimal.NewFromFloat(300.00)) {
		t.Errorf("Expected total lent 300.00, got %s", overview.TotalLent)
	}
	if len(overview.Borrowed) != 1 || len(overview.Lent) != 1 {
		t.Errorf("Expected 1 borrowed and 1 lent, got %d and %d", len(overview.Borrowed), len(overview.Lent))
	}
	if overview.OverdueCount != 1 {
		t.Errorf("Expected 1 overdue, got %d", overview.OverdueCount)
	}
}

func TestOverdue_FiltersByStatus(t *testing.T) {
	svc, debtRepo, _ := setupDebtService(date(2024, time.January, 20))

	userID := uuid.New()

	flagged := addDebt(debtRepo, userID, 500.00, 500.00)
	futureDue := date(2030, time.January, 1)
	flagged.DueDate = &futureDue
	flagged.Status = domain.DebtStatusOverdue

	pastDue := addDebt(debtRepo, userID, 200.00, 200.00)
	earlier := date(2024, time.January, 10)
	pastDue.DueDate = &earlier

	debts, err := svc.Overdue(userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(debts) != 1 {
		t.Fatalf("Expected 1 overdue debt, got %d", len(debts))
	}
	if debts[0].ID != flagged.ID {
		t.Errorf("Expected the flagged debt, got %s", debts[0].ID)
	}
}

func TestUpdateDebt_StatusTakenAsGiven(t *testing.T) {
	svc, debtRepo, _ := setupDebtService(date(2024, time.January, 10))

	userID := uuid.New()
	debt := addDebt(debtRepo, userID, 1000.00, 1000.00)

	paid := domain.DebtStatusPaid
	updated, err := svc.UpdateDebt(userID, debt.ID, UpdateDebtInput{Status: &paid})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Status != domain.DebtStatusPaid {
		t.Errorf("Expected status paid, got %s", updated.Status)
	}

	bad := domain.DebtStatus("settled")
	if _, err := svc.UpdateDebt(userID, debt.ID, UpdateDebtInput{Status: &bad}); err != domain.ErrInvalidDebtStatus {
		t.Errorf("Expected ErrInvalidDebtStatus, got %v", err)
	}
}

func TestListDebts_TypeFilter(t *testing.T) {
	svc, debtRepo, _ := setupDebtService(date(2024, time.January, 10))

	userID := uuid.New()
	addDebt(debtRepo, userID, 1000.00, 1000.00)
	debtRepo.AddDebt(&domain.Debt{
		ID: uuid.New(), UserID: userID, Type: domain.DebtTypeLent,
		PersonName: "Bob", Amount: decimal.NewFromFloat(200.00),
		RemainingAmount: decimal.NewFromFloat(200.00),
		Status:          domain.DebtStatusActive,
		StartDate:       date(2024, time.January, 2),
	})

	lent := domain.DebtTypeLent
	debts, err := svc.ListDebts(userID, &lent)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(debts) != 1 {
		t.Errorf("Expected 1 lent debt, got %d", len(debts))
	}

	bad := domain.DebtType("shared")
	if _, err := svc.ListDebts(userID, &bad); err != domain.ErrInvalidDebtType {
		t.Errorf("Expected ErrInvalidDebtType, got %v", err)
	}
}
