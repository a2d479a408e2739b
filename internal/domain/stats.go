package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionStats totals the ledger over a date range, split by the
// owning category's type.
type TransactionStats struct {
	TotalIncome      decimal.Decimal
	TotalExpense     decimal.Decimal
	Balance          decimal.Decimal
	TransactionCount int
	IncomeCount      int
	ExpenseCount     int
}

// CategoryStats is one category's share of the ledger over a date range.
// Percentage is taken against the total for the category's type, not the
// whole ledger.
type CategoryStats struct {
	CategoryID       uuid.UUID
	CategoryName     string
	CategoryIcon     *string
	CategoryType     CategoryType
	TotalAmount      decimal.Decimal
	TransactionCount int
	Percentage       decimal.Decimal
}

// MonthlyStats is one month of ledger totals, keyed by a YYYY-MM month.
type MonthlyStats struct {
	Month            string
	TotalIncome      decimal.Decimal
	TotalExpense     decimal.Decimal
	Balance          decimal.Decimal
	TransactionCount int
}

// DashboardOverview compares the current month's totals against the
// previous month. The change fields are percentages; a jump from zero
// reads as a flat +100.
type DashboardOverview struct {
	TotalIncome        decimal.Decimal
	TotalExpense       decimal.Decimal
	Balance            decimal.Decimal
	IncomeVsLastMonth  decimal.Decimal
	ExpenseVsLastMonth decimal.Decimal
}

// QuickStats carries the small headline figures on the dashboard.
type QuickStats struct {
	TotalTransactions     int
	TotalCategories       int
	AverageExpensePerDay  decimal.Decimal
	AverageIncomePerMonth decimal.Decimal
	LargestExpense        decimal.Decimal
	LargestIncome         decimal.Decimal
}

// Dashboard is the single-call home screen payload.
type Dashboard struct {
	Overview             DashboardOverview
	RecentTransactions   []*Transaction
	TopExpenseCategories []*CategoryStats
	TopIncomeCategories  []*CategoryStats
	MonthlyTrend         []*MonthlyStats
	QuickStats           QuickStats
}
