package testutil

import (
	"sort"
	"time"

	"github.com/dwicandra/duit/duit-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users     map[uuid.UUID]*domain.User
	BySubject map[string]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:     make(map[uuid.UUID]*domain.User),
		BySubject: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(subject string, user *domain.User) {
	m.Users[user.ID] = user
	m.BySubject[subject] = user
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.Users[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetBySubject retrieves a user by token subject
func (m *MockUserRepository) GetBySubject(subject string) (*domain.User, error) {
	if user, ok := m.BySubject[subject]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// UpdateName updates the user's display name
func (m *MockUserRepository) UpdateName(id uuid.UUID, name string) (*domain.User, error) {
	user, ok := m.Users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.Name = name
	return user, nil
}

// UpdateAvatarURL updates the user's avatar URL
func (m *MockUserRepository) UpdateAvatarURL(id uuid.UUID, avatarURL string) (*domain.User, error) {
	user, ok := m.Users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.AvatarURL = &avatarURL
	return user, nil
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[uuid.UUID]*domain.Category
	CreateFn   func(category *domain.Category) (*domain.Category, error)
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[uuid.UUID]*domain.Category),
	}
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	m.Categories[category.ID] = category
}

// Create creates a new category
func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	if m.CreateFn != nil {
		return m.CreateFn(category)
	}
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	m.Categories[category.ID] = category
	return category, nil
}

// GetByID retrieves a category by ID
func (m *MockCategoryRepository) GetByID(id uuid.UUID) (*domain.Category, error) {
	if category, ok := m.Categories[id]; ok {
		return category, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// GetAllByUser retrieves all categories for a user, ordered by name
func (m *MockCategoryRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Category, error) {
	var categories []*domain.Category
	for _, c := range m.Categories {
		if c.UserID == userID {
			categories = append(categories, c)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

// Update updates an existing category
func (m *MockCategoryRepository) Update(category *domain.Category) (*domain.Category, error) {
	if _, ok := m.Categories[category.ID]; !ok {
		return nil, domain.ErrCategoryNotFound
	}
	category.UpdatedAt = time.Now()
	m.Categories[category.ID] = category
	return category, nil
}

// Delete removes a category owned by the user
func (m *MockCategoryRepository) Delete(userID, id uuid.UUID) error {
	category, ok := m.Categories[id]
	if !ok || category.UserID != userID {
		return domain.ErrCategoryNotFound
	}
	delete(m.Categories, id)
	return nil
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[uuid.UUID]*domain.Transaction
	CreateFn     func(tx *domain.Transaction) (*domain.Transaction, error)
	SumFn        func(userID, categoryID uuid.UUID, start time.Time, end *time.Time) (decimal.Decimal, error)
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(tx *domain.Transaction) {
	m.Transactions[tx.ID] = tx
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(tx *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(tx)
	}
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	tx.CreatedAt = time.Now()
	tx.UpdatedAt = tx.CreatedAt
	m.Transactions[tx.ID] = tx
	return tx, nil
}

// GetByID retrieves a transaction by ID
func (m *MockTransactionRepository) GetByID(id uuid.UUID) (*domain.Transaction, error) {
	if tx, ok := m.Transactions[id]; ok {
		return tx, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// GetByUser retrieves transactions for a user with optional filters
func (m *MockTransactionRepository) GetByUser(userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	var txs []*domain.Transaction
	for _, tx := range m.Transactions {
		if tx.UserID != userID {
			continue
		}
		if filters != nil {
			if filters.CategoryID != nil && tx.CategoryID != *filters.CategoryID {
				continue
			}
			if filters.StartDate != nil && tx.Date.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && tx.Date.After(*filters.EndDate) {
				continue
			}
		}
		txs = append(txs, tx)
	}
	sort.Slice(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
	return txs, nil
}

// Delete removes a transaction owned by the user
func (m *MockTransactionRepository) Delete(userID, id uuid.UUID) error {
	tx, ok := m.Transactions[id]
	if !ok || tx.UserID != userID {
		return domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	return nil
}

// SumByCategoryAndDateRange totals amounts for a user's category in a date range
func (m *MockTransactionRepository) SumByCategoryAndDateRange(userID, categoryID uuid.UUID, start time.Time, end *time.Time) (decimal.Decimal, error) {
	if m.SumFn != nil {
		return m.SumFn(userID, categoryID, start, end)
	}
	sum := decimal.Zero
	for _, tx := range m.Transactions {
		if tx.UserID != userID || tx.CategoryID != categoryID {
			continue
		}
		if tx.Date.Before(start) {
			continue
		}
		if end != nil && tx.Date.After(*end) {
			continue
		}
		sum = sum.Add(tx.Amount)
	}
	return sum, nil
}

// MockRecurringRepository is a mock implementation of domain.RecurringRepository
type MockRecurringRepository struct {
	Schedules           map[uuid.UUID]*domain.RecurringTransaction
	UpdateNextFn        func(id uuid.UUID, next time.Time) error
	UpdateFn            func(id uuid.UUID, data *domain.UpdateRecurringData) (*domain.RecurringTransaction, error)
	NextOccurrenceCalls []uuid.UUID
}

// NewMockRecurringRepository creates a new MockRecurringRepository
func NewMockRecurringRepository() *MockRecurringRepository {
	return &MockRecurringRepository{
		Schedules: make(map[uuid.UUID]*domain.RecurringTransaction),
	}
}

// AddSchedule adds a recurring transaction to the mock repository (helper for tests)
func (m *MockRecurringRepository) AddSchedule(rt *domain.RecurringTransaction) {
	m.Schedules[rt.ID] = rt
}

// Create creates a new recurring transaction
func (m *MockRecurringRepository) Create(rt *domain.RecurringTransaction) (*domain.RecurringTransaction, error) {
	if rt.ID == uuid.Nil {
		rt.ID = uuid.New()
	}
	rt.CreatedAt = time.Now()
	rt.UpdatedAt = rt.CreatedAt
	m.Schedules[rt.ID] = rt
	return rt, nil
}

// GetByID retrieves a recurring transaction by ID
func (m *MockRecurringRepository) GetByID(id uuid.UUID) (*domain.RecurringTransaction, error) {
	if rt, ok := m.Schedules[id]; ok {
		return rt, nil
	}
	return nil, domain.ErrRecurringNotFound
}

// GetByUser retrieves all recurring transactions for a user
func (m *MockRecurringRepository) GetByUser(userID uuid.UUID) ([]*domain.RecurringTransaction, error) {
	var rts []*domain.RecurringTransaction
	for _, rt := range m.Schedules {
		if rt.UserID == userID {
			rts = append(rts, rt)
		}
	}
	sortByNextOccurrence(rts)
	return rts, nil
}

// GetActiveByUser retrieves active recurring transactions for a user
func (m *MockRecurringRepository) GetActiveByUser(userID uuid.UUID) ([]*domain.RecurringTransaction, error) {
	var rts []*domain.RecurringTransaction
	for _, rt := range m.Schedules {
		if rt.UserID == userID && rt.IsActive {
			rts = append(rts, rt)
		}
	}
	sortByNextOccurrence(rts)
	return rts, nil
}

// FindDue retrieves active auto-create schedules due on or before date
func (m *MockRecurringRepository) FindDue(date time.Time) ([]*domain.RecurringTransaction, error) {
	var rts []*domain.RecurringTransaction
	for _, rt := range m.Schedules {
		if rt.IsActive && rt.AutoCreate && !rt.NextOccurrence.After(date) {
			rts = append(rts, rt)
		}
	}
	sortByNextOccurrence(rts)
	return rts, nil
}

// FindDueByUser retrieves a user's active schedules due on or before date
func (m *MockRecurringRepository) FindDueByUser(userID uuid.UUID, date time.Time) ([]*domain.RecurringTransaction, error) {
	var rts []*domain.RecurringTransaction
	for _, rt := range m.Schedules {
		if rt.UserID == userID && rt.IsActive && !rt.NextOccurrence.After(date) {
			rts = append(rts, rt)
		}
	}
	sortByNextOccurrence(rts)
	return rts, nil
}

// Update applies a partial update to a recurring transaction
func (m *MockRecurringRepository) Update(id uuid.UUID, data *domain.UpdateRecurringData) (*domain.RecurringTransaction, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(id, data)
	}
	rt, ok := m.Schedules[id]
	if !ok {
		return nil, domain.ErrRecurringNotFound
	}
	if data.Description != nil {
		rt.Description = *data.Description
	}
	if data.Amount != nil {
		rt.Amount = *data.Amount
	}
	if data.Frequency != nil {
		rt.Frequency = *data.Frequency
	}
	if data.EndDate != nil {
		rt.EndDate = data.EndDate
	}
	if data.IsActive != nil {
		rt.IsActive = *data.IsActive
	}
	if data.AutoCreate != nil {
		rt.AutoCreate = *data.AutoCreate
	}
	if data.DayOfMonth != nil {
		rt.DayOfMonth = data.DayOfMonth
	}
	if data.DayOfWeek != nil {
		rt.DayOfWeek = data.DayOfWeek
	}
	rt.UpdatedAt = time.Now()
	return rt, nil
}

// UpdateNextOccurrence advances the schedule cursor
func (m *MockRecurringRepository) UpdateNextOccurrence(id uuid.UUID, next time.Time) error {
	m.NextOccurrenceCalls = append(m.NextOccurrenceCalls, id)
	if m.UpdateNextFn != nil {
		return m.UpdateNextFn(id, next)
	}
	rt, ok := m.Schedules[id]
	if !ok {
		return domain.ErrRecurringNotFound
	}
	rt.NextOccurrence = next
	return nil
}

// Delete removes a recurring transaction
func (m *MockRecurringRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Schedules[id]; !ok {
		return domain.ErrRecurringNotFound
	}
	delete(m.Schedules, id)
	return nil
}

func sortByNextOccurrence(rts []*domain.RecurringTransaction) {
	sort.Slice(rts, func(i, j int) bool {
		return rts[i].NextOccurrence.Before(rts[j].NextOccurrence)
	})
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets  map[uuid.UUID]*domain.Budget
	UpdateFn func(id uuid.UUID, data *domain.UpdateBudgetData) (*domain.Budget, error)
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[uuid.UUID]*domain.Budget),
	}
}

// AddBudget adds a budget to the mock repository (helper for tests)
func (m *MockBudgetRepository) AddBudget(budget *domain.Budget) {
	m.Budgets[budget.ID] = budget
}

// Create creates a new budget
func (m *MockBudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}
	budget.CreatedAt = time.Now()
	budget.UpdatedAt = budget.CreatedAt
	m.Budgets[budget.ID] = budget
	return budget, nil
}

// GetByID retrieves a budget by ID
func (m *MockBudgetRepository) GetByID(id uuid.UUID) (*domain.Budget, error) {
	if budget, ok := m.Budgets[id]; ok {
		return budget, nil
	}
	return nil, domain.ErrBudgetNotFound
}

// GetByUser retrieves all budgets for a user
func (m *MockBudgetRepository) GetByUser(userID uuid.UUID) ([]*domain.Budget, error) {
	var budgets []*domain.Budget
	for _, b := range m.Budgets {
		if b.UserID == userID {
			budgets = append(budgets, b)
		}
	}
	sortBudgets(budgets)
	return budgets, nil
}

// GetActiveByUser retrieves active budgets for a user
func (m *MockBudgetRepository) GetActiveByUser(userID uuid.UUID) ([]*domain.Budget, error) {
	var budgets []*domain.Budget
	for _, b := range m.Budgets {
		if b.UserID == userID && b.IsActive {
			budgets = append(budgets, b)
		}
	}
	sortBudgets(budgets)
	return budgets, nil
}

// GetActiveByUserAndPeriod retrieves active budgets for a user with the given period
func (m *MockBudgetRepository) GetActiveByUserAndPeriod(userID uuid.UUID, period domain.Period) ([]*domain.Budget, error) {
	var budgets []*domain.Budget
	for _, b := range m.Budgets {
		if b.UserID == userID && b.IsActive && b.Period == period {
			budgets = append(budgets, b)
		}
	}
	sortBudgets(budgets)
	return budgets, nil
}

// Update applies a partial update to a budget
func (m *MockBudgetRepository) Update(id uuid.UUID, data *domain.UpdateBudgetData) (*domain.Budget, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(id, data)
	}
	budget, ok := m.Budgets[id]
	if !ok {
		return nil, domain.ErrBudgetNotFound
	}
	if data.Amount != nil {
		budget.Amount = *data.Amount
	}
	if data.Period != nil {
		budget.Period = *data.Period
	}
	if data.EndDate != nil {
		budget.EndDate = data.EndDate
	}
	if data.IsActive != nil {
		budget.IsActive = *data.IsActive
	}
	if data.AlertPercentage != nil {
		budget.AlertPercentage = *data.AlertPercentage
	}
	budget.UpdatedAt = time.Now()
	return budget, nil
}

// Delete removes a budget
func (m *MockBudgetRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Budgets[id]; !ok {
		return domain.ErrBudgetNotFound
	}
	delete(m.Budgets, id)
	return nil
}

func sortBudgets(budgets []*domain.Budget) {
	sort.Slice(budgets, func(i, j int) bool {
		return budgets[i].StartDate.Before(budgets[j].StartDate)
	})
}

// MockDebtRepository is a mock implementation of domain.DebtRepository
type MockDebtRepository struct {
	Debts                map[uuid.UUID]*domain.Debt
	UpdateRemainingFn    func(id uuid.UUID, remaining decimal.Decimal) error
	RemainingAmountCalls int
}

// NewMockDebtRepository creates a new MockDebtRepository
func NewMockDebtRepository() *MockDebtRepository {
	return &MockDebtRepository{
		Debts: make(map[uuid.UUID]*domain.Debt),
	}
}

// AddDebt adds a debt to the mock repository (helper for tests)
func (m *MockDebtRepository) AddDebt(debt *domain.Debt) {
	m.Debts[debt.ID] = debt
}

// Create creates a new debt
func (m *MockDebtRepository) Create(debt *domain.Debt) (*domain.Debt, error) {
	if debt.ID == uuid.Nil {
		debt.ID = uuid.New()
	}
	debt.CreatedAt = time.Now()
	debt.UpdatedAt = debt.CreatedAt
	m.Debts[debt.ID] = debt
	return debt, nil
}

// GetByID retrieves a debt by ID
func (m *MockDebtRepository) GetByID(id uuid.UUID) (*domain.Debt, error) {
	if debt, ok := m.Debts[id]; ok {
		return debt, nil
	}
	return nil, domain.ErrDebtNotFound
}

// GetByUser retrieves all debts for a user
func (m *MockDebtRepository) GetByUser(userID uuid.UUID) ([]*domain.Debt, error) {
	var debts []*domain.Debt
	for _, d := range m.Debts {
		if d.UserID == userID {
			debts = append(debts, d)
		}
	}
	sortDebts(debts)
	return debts, nil
}

// GetByUserAndType retrieves a user's debts of the given type
func (m *MockDebtRepository) GetByUserAndType(userID uuid.UUID, debtType domain.DebtType) ([]*domain.Debt, error) {
	var debts []*domain.Debt
	for _, d := range m.Debts {
		if d.UserID == userID && d.Type == debtType {
			debts = append(debts, d)
		}
	}
	sortDebts(debts)
	return debts, nil
}

// GetOverdueByUser retrieves a user's debts marked overdue
func (m *MockDebtRepository) GetOverdueByUser(userID uuid.UUID) ([]*domain.Debt, error) {
	var debts []*domain.Debt
	for _, d := range m.Debts {
		if d.UserID == userID && d.Status == domain.DebtStatusOverdue {
			debts = append(debts, d)
		}
	}
	sortDebts(debts)
	return debts, nil
}

// Update applies a partial update to a debt
func (m *MockDebtRepository) Update(id uuid.UUID, data *domain.UpdateDebtData) (*domain.Debt, error) {
	debt, ok := m.Debts[id]
	if !ok {
		return nil, domain.ErrDebtNotFound
	}
	if data.PersonName != nil {
		debt.PersonName = *data.PersonName
	}
	if data.PersonContact != nil {
		debt.PersonContact = data.PersonContact
	}
	if data.InterestRate != nil {
		debt.InterestRate = *data.InterestRate
	}
	if data.Description != nil {
		debt.Description = data.Description
	}
	if data.DueDate != nil {
		debt.DueDate = data.DueDate
	}
	if data.Status != nil {
		debt.Status = *data.Status
	}
	debt.UpdatedAt = time.Now()
	return debt, nil
}

// UpdateRemainingAmount sets the outstanding balance of a debt
func (m *MockDebtRepository) UpdateRemainingAmount(id uuid.UUID, remaining decimal.Decimal) error {
	m.RemainingAmountCalls++
	if m.UpdateRemainingFn != nil {
		return m.UpdateRemainingFn(id, remaining)
	}
	debt, ok := m.Debts[id]
	if !ok {
		return domain.ErrDebtNotFound
	}
	debt.RemainingAmount = remaining
	return nil
}

// Delete removes a debt
func (m *MockDebtRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Debts[id]; !ok {
		return domain.ErrDebtNotFound
	}
	delete(m.Debts, id)
	return nil
}

func sortDebts(debts []*domain.Debt) {
	sort.Slice(debts, func(i, j int) bool {
		return debts[i].StartDate.Before(debts[j].StartDate)
	})
}

// MockDebtPaymentRepository is a mock implementation of domain.DebtPaymentRepository
type MockDebtPaymentRepository struct {
	Payments map[uuid.UUID]*domain.DebtPayment
	CreateFn func(payment *domain.DebtPayment) (*domain.DebtPayment, error)
}

// NewMockDebtPaymentRepository creates a new MockDebtPaymentRepository
func NewMockDebtPaymentRepository() *MockDebtPaymentRepository {
	return &MockDebtPaymentRepository{
		Payments: make(map[uuid.UUID]*domain.DebtPayment),
	}
}

// AddPayment adds a payment to the mock repository (helper for tests)
func (m *MockDebtPaymentRepository) AddPayment(payment *domain.DebtPayment) {
	m.Payments[payment.ID] = payment
}

// Create creates a new payment
func (m *MockDebtPaymentRepository) Create(payment *domain.DebtPayment) (*domain.DebtPayment, error) {
	if m.CreateFn != nil {
		return m.CreateFn(payment)
	}
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	payment.CreatedAt = time.Now()
	m.Payments[payment.ID] = payment
	return payment, nil
}

// GetByID retrieves a payment by ID
func (m *MockDebtPaymentRepository) GetByID(id uuid.UUID) (*domain.DebtPayment, error) {
	if payment, ok := m.Payments[id]; ok {
		return payment, nil
	}
	return nil, domain.ErrDebtPaymentNotFound
}

// GetByDebtID retrieves all payments against a debt
func (m *MockDebtPaymentRepository) GetByDebtID(debtID uuid.UUID) ([]*domain.DebtPayment, error) {
	var payments []*domain.DebtPayment
	for _, p := range m.Payments {
		if p.DebtID == debtID {
			payments = append(payments, p)
		}
	}
	sort.Slice(payments, func(i, j int) bool {
		return payments[i].PaymentDate.After(payments[j].PaymentDate)
	})
	return payments, nil
}

// Delete removes a payment
func (m *MockDebtPaymentRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Payments[id]; !ok {
		return domain.ErrDebtPaymentNotFound
	}
	delete(m.Payments, id)
	return nil
}
