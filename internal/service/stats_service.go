package service

import (
	"sort"
	"time"

	"github.com/dwicandra/duit/duit-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	monthKeyLayout = "2006-01"
	trendMonths    = 6
	recentLimit    = 10
	topCategories  = 5
)

// StatsService derives reporting figures from the ledger. Nothing here is
// stored; every call refetches and folds the user's transactions against
// their categories.
type StatsService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	clock           domain.Clock
}

// NewStatsService creates a new StatsService
func NewStatsService(
	transactionRepo domain.TransactionRepository,
	categoryRepo domain.CategoryRepository,
	clock domain.Clock,
) *StatsService {
	return &StatsService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		clock:           clock,
	}
}

// Statistics totals the user's ledger between start and end inclusive.
// Nil bounds leave that side of the range open.
func (s *StatsService) Statistics(userID uuid.UUID, start, end *time.Time) (*domain.TransactionStats, error) {
	txs, err := s.transactionRepo.GetByUser(userID, &domain.TransactionFilters{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryMap(userID)
	if err != nil {
		return nil, err
	}
	return foldStats(txs, categories, nil, nil), nil
}

// CategoryStatistics breaks the user's ledger down per category between
// start and end inclusive, ordered by total amount descending.
func (s *StatsService) CategoryStatistics(userID uuid.UUID, start, end *time.Time) ([]*domain.CategoryStats, error) {
	txs, err := s.transactionRepo.GetByUser(userID, &domain.TransactionFilters{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryMap(userID)
	if err != nil {
		return nil, err
	}
	return buildCategoryStats(txs, categories), nil
}

// Dashboard assembles the home screen payload: current-month overview
// with last-month comparison, recent entries, top categories, a six-month
// trend and the headline quick stats.
func (s *StatsService) Dashboard(userID uuid.UUID) (*domain.Dashboard, error) {
	today := s.clock.Today()
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastMonthStart := monthStart.AddDate(0, -1, 0)
	lastMonthEnd := monthStart.AddDate(0, 0, -1)
	sixMonthsAgo := monthStart.AddDate(0, -trendMonths, 0)

	txs, err := s.transactionRepo.GetByUser(userID, nil)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryMap(userID)
	if err != nil {
		return nil, err
	}

	current := foldStats(txs, categories, &monthStart, &today)
	previous := foldStats(txs, categories, &lastMonthStart, &lastMonthEnd)

	overview := domain.DashboardOverview{
		TotalIncome:        current.TotalIncome,
		TotalExpense:       current.TotalExpense,
		Balance:            current.Balance,
		IncomeVsLastMonth:  percentageChange(previous.TotalIncome, current.TotalIncome),
		ExpenseVsLastMonth: percentageChange(previous.TotalExpense, current.TotalExpense),
	}

	recent := txs
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	monthStats := buildCategoryStats(filterByRange(txs, &monthStart, &today), categories)
	topExpense := takeByType(monthStats, domain.CategoryTypeExpense, topCategories)
	topIncome := takeByType(monthStats, domain.CategoryTypeIncome, topCategories)

	var trend []*domain.MonthlyStats
	for cursor := sixMonthsAgo; !cursor.After(today); cursor = cursor.AddDate(0, 1, 0) {
		windowStart := cursor
		windowEnd := cursor.AddDate(0, 1, -1)
		month := foldStats(txs, categories, &windowStart, &windowEnd)
		trend = append(trend, &domain.MonthlyStats{
			Month:            cursor.Format(monthKeyLayout),
			TotalIncome:      month.TotalIncome,
			TotalExpense:     month.TotalExpense,
			Balance:          month.Balance,
			TransactionCount: month.TransactionCount,
		})
	}

	quick := s.quickStats(txs, categories, current, monthStart, sixMonthsAgo, today)

	return &domain.Dashboard{
		Overview:             overview,
		RecentTransactions:   recent,
		TopExpenseCategories: topExpense,
		TopIncomeCategories:  topIncome,
		MonthlyTrend:         trend,
		QuickStats:           quick,
	}, nil
}

func (s *StatsService) quickStats(
	txs []*domain.Transaction,
	categories map[uuid.UUID]*domain.Category,
	current *domain.TransactionStats,
	monthStart, sixMonthsAgo, today time.Time,
) domain.QuickStats {
	daysSoFar := int(today.Sub(monthStart).Hours()/24) + 1

	avgExpensePerDay := decimal.Zero
	if daysSoFar > 0 {
		avgExpensePerDay = current.TotalExpense.DivRound(decimal.NewFromInt(int64(daysSoFar)), 2)
	}

	halfYear := foldStats(txs, categories, &sixMonthsAgo, &today)
	avgIncomePerMonth := halfYear.TotalIncome.DivRound(decimal.NewFromInt(trendMonths), 2)

	largestExpense := decimal.Zero
	largestIncome := decimal.Zero
	for _, tx := range txs {
		category, ok := categories[tx.CategoryID]
		if !ok {
			continue
		}
		switch category.Type {
		case domain.CategoryTypeExpense:
			if tx.Amount.GreaterThan(largestExpense) {
				largestExpense = tx.Amount
			}
		case domain.CategoryTypeIncome:
			if tx.Amount.GreaterThan(largestIncome) {
				largestIncome = tx.Amount
			}
		}
	}

	return domain.QuickStats{
		TotalTransactions:     len(txs),
		TotalCategories:       len(categories),
		AverageExpensePerDay:  avgExpensePerDay,
		AverageIncomePerMonth: avgIncomePerMonth,
		LargestExpense:        largestExpense,
		LargestIncome:         largestIncome,
	}
}

func (s *StatsService) categoryMap(userID uuid.UUID) (map[uuid.UUID]*domain.Category, error) {
	categories, err := s.categoryRepo.GetAllByUser(userID)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*domain.Category, len(categories))
	for _, category := range categories {
		byID[category.ID] = category
	}
	return byID, nil
}

// foldStats totals a transaction slice by the owning category's type.
// Entries whose category is gone are skipped rather than guessed at.
func foldStats(
	txs []*domain.Transaction,
	categories map[uuid.UUID]*domain.Category,
	start, end *time.Time,
) *domain.TransactionStats {
	stats := &domain.TransactionStats{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, tx := range filterByRange(txs, start, end) {
		category, ok := categories[tx.CategoryID]
		if !ok {
			continue
		}
		switch category.Type {
		case domain.CategoryTypeIncome:
			stats.TotalIncome = stats.TotalIncome.Add(tx.Amount)
			stats.IncomeCount++
		case domain.CategoryTypeExpense:
			stats.TotalExpense = stats.TotalExpense.Add(tx.Amount)
			stats.ExpenseCount++
		}
	}
	stats.Balance = stats.TotalIncome.Sub(stats.TotalExpense)
	stats.TransactionCount = stats.IncomeCount + stats.ExpenseCount
	return stats
}

func buildCategoryStats(
	txs []*domain.Transaction,
	categories map[uuid.UUID]*domain.Category,
) []*domain.CategoryStats {
	totals := foldStats(txs, categories, nil, nil)

	byCategory := make(map[uuid.UUID]*domain.CategoryStats)
	for _, tx := range txs {
		category, ok := categories[tx.CategoryID]
		if !ok {
			continue
		}
		entry, ok := byCategory[tx.CategoryID]
		if !ok {
			entry = &domain.CategoryStats{
				CategoryID:   category.ID,
				CategoryName: category.Name,
				CategoryIcon: category.Icon,
				CategoryType: category.Type,
				TotalAmount:  decimal.Zero,
			}
			byCategory[tx.CategoryID] = entry
		}
		entry.TotalAmount = entry.TotalAmount.Add(tx.Amount)
		entry.TransactionCount++
	}

	stats := make([]*domain.CategoryStats, 0, len(byCategory))
	for _, entry := range byCategory {
		whole := totals.TotalExpense
		if entry.CategoryType == domain.CategoryTypeIncome {
			whole = totals.TotalIncome
		}
		entry.Percentage = percentageOf(entry.TotalAmount, whole)
		stats = append(stats, entry)
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].TotalAmount.GreaterThan(stats[j].TotalAmount)
	})
	return stats
}

func takeByType(stats []*domain.CategoryStats, categoryType domain.CategoryType, limit int) []*domain.CategoryStats {
	taken := []*domain.CategoryStats{}
	for _, entry := range stats {
		if entry.CategoryType != categoryType {
			continue
		}
		taken = append(taken, entry)
		if len(taken) == limit {
			break
		}
	}
	return taken
}

func filterByRange(txs []*domain.Transaction, start, end *time.Time) []*domain.Transaction {
	if start == nil && end == nil {
		return txs
	}
	var filtered []*domain.Transaction
	for _, tx := range txs {
		if start != nil && tx.Date.Before(*start) {
			continue
		}
		if end != nil && tx.Date.After(*end) {
			continue
		}
		filtered = append(filtered, tx)
	}
	return filtered
}

// percentageChange reports current against previous as a signed percentage
// rounded half-up to one decimal. Growth from a zero base reads as +100.
func percentageChange(previous, current decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.GreaterThan(decimal.Zero) {
			return oneHundred
		}
		return decimal.Zero
	}
	return current.Sub(previous).DivRound(previous, 4).Mul(oneHundred).Round(1)
}
