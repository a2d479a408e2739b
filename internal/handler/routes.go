package handler

import (
	"github.com/dwicandra/duit/duit-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	profileHandler *ProfileHandler,
	categoryHandler *CategoryHandler,
	transactionHandler *TransactionHandler,
	recurringHandler *RecurringHandler,
	budgetHandler *BudgetHandler,
	debtHandler *DebtHandler,
	statsHandler *StatsHandler,
	wsHandler *WebSocketHandler,
) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Profile routes
	profile := api.Group("/profile")
	profile.GET("", profileHandler.GetProfile)
	profile.PUT("", profileHandler.UpdateProfile)
	profile.POST("/avatar", profileHandler.UploadAvatar)

	// Category routes
	categories := api.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.ListCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Recurring transaction routes. Static segments registered before :id
	// so /due, /summary and friends don't get captured as IDs.
	recurring := api.Group("/recurring")
	recurring.POST("", recurringHandler.CreateRecurring)
	recurring.GET("", recurringHandler.ListRecurring)
	recurring.GET("/due", recurringHandler.ListDue)
	recurring.GET("/summary", recurringHandler.GetSummary)
	recurring.GET("/:id", recurringHandler.GetRecurring)
	recurring.PUT("/:id", recurringHandler.UpdateRecurring)
	recurring.DELETE("/:id", recurringHandler.DeleteRecurring)
	recurring.POST("/:id/execute", recurringHandler.ExecuteRecurring)

	// Budget routes
	budgets := api.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.ListBudgets)
	budgets.GET("/spending", budgetHandler.GetSpending)
	budgets.GET("/summary", budgetHandler.GetSummary)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	// Debt routes
	debts := api.Group("/debts")
	debts.POST("", debtHandler.CreateDebt)
	debts.GET("", debtHandler.ListDebts)
	debts.GET("/overview", debtHandler.GetOverview)
	debts.GET("/overdue", debtHandler.GetOverdue)
	debts.GET("/:id", debtHandler.GetDebt)
	debts.GET("/:id/summary", debtHandler.GetDebtSummary)
	debts.PUT("/:id", debtHandler.UpdateDebt)
	debts.DELETE("/:id", debtHandler.DeleteDebt)
	debts.POST("/:id/payments", debtHandler.AddPayment)
	debts.GET("/:id/payments", debtHandler.ListPayments)
	debts.DELETE("/:id/payments/:paymentId", debtHandler.DeletePayment)

	// Statistics and dashboard routes
	api.GET("/dashboard", statsHandler.GetDashboard)
	statistics := api.Group("/statistics")
	statistics.GET("", statsHandler.GetStatistics)
	statistics.GET("/categories", statsHandler.GetCategoryStatistics)

	// WebSocket endpoint authenticates via query token, outside the JWT
	// header middleware
	e.GET("/ws", wsHandler.HandleWS)
}
