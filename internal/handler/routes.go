package handler

import (
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, rateLimiter *middleware.RateLimiter, accountHandler *AccountHandler, categoryHandler *CategoryHandler, entryHandler *EntryHandler, receiptHandler *ReceiptHandler, transferHandler *TransferHandler, statisticsHandler *StatisticsHandler, exportHandler *ExportHandler, wsHandler *WebSocketHandler) {
	// Live events (workspace read from header or query)
	e.GET("/ws", wsHandler.HandleWS)

	// API version 1, every route is scoped to a workspace
	api := e.Group("/api/v1")
	api.Use(middleware.Workspace())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Category routes
	categories := api.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.ListCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)
	categories.POST("/:id/deactivate", categoryHandler.DeactivateCategory)
	categories.POST("/:id/reactivate", categoryHandler.ReactivateCategory)
	categories.POST("/:id/subcategories", categoryHandler.CreateSubcategory)
	categories.GET("/:id/subcategories", categoryHandler.ListSubcategories)

	// Subcategory routes
	subcategories := api.Group("/subcategories")
	subcategories.PUT("/:id", categoryHandler.UpdateSubcategory)
	subcategories.POST("/:id/deactivate", categoryHandler.DeactivateSubcategory)
	subcategories.POST("/:id/reactivate", categoryHandler.ReactivateSubcategory)

	// Account routes (static paths before :id)
	accounts := api.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetAccounts)
	accounts.GET("/reconciliation", accountHandler.Reconcile)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)
	accounts.POST("/:id/deactivate", accountHandler.DeactivateAccount)
	accounts.POST("/:id/reactivate", accountHandler.ReactivateAccount)

	// Entry routes
	entries := api.Group("/entries")
	entries.POST("", entryHandler.CreateEntry)
	entries.GET("", entryHandler.ListEntries)
	entries.GET("/:id", entryHandler.GetEntry)
	entries.PUT("/:id", entryHandler.UpdateEntry)
	entries.DELETE("/:id", entryHandler.DeleteEntry)
	entries.PATCH("/:id/status", entryHandler.SetEntryStatus)
	entries.POST("/:id/receipt", receiptHandler.UploadReceipt)
	entries.GET("/:id/receipt", receiptHandler.GetReceipt)
	entries.DELETE("/:id/receipt", receiptHandler.DeleteReceipt)

	// Transfer routes
	transfers := api.Group("/transfers")
	transfers.POST("", transferHandler.CreateTransfer)
	transfers.GET("", transferHandler.ListTransfers)
	transfers.GET("/:id", transferHandler.GetTransfer)
	transfers.DELETE("/:id", transferHandler.DeleteTransfer)

	// Statistics routes
	statistics := api.Group("/statistics")
	statistics.GET("/summary", statisticsHandler.GetSummary)
	statistics.GET("/monthly", statisticsHandler.GetMonthlyTotals)
	statistics.GET("/growth", statisticsHandler.GetGrowth)
	statistics.GET("/balances", statisticsHandler.GetBalances)
	statistics.GET("/top-categories", statisticsHandler.GetTopCategories)
	statistics.GET("/budget-variance", statisticsHandler.GetBudgetVariance)
	statistics.GET("/accounts", statisticsHandler.GetAccountRollup)
	statistics.GET("/series", statisticsHandler.GetMonthlySeries)

	// Export routes
	exports := api.Group("/exports")
	exports.GET("/entries.csv", exportHandler.ExportEntries)
	exports.GET("/monthly-summary.csv", exportHandler.ExportMonthlySummary)
}
