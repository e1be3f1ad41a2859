package handler

import (
	"github.com/dafibh/fortuna/ledger-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// Handlers groups the HTTP handlers served under /api/v1
type Handlers struct {
	Category    *CategoryHandler
	Transaction *TransactionHandler
	Report      *ReportHandler
	Tenant      *TenantHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, h Handlers) {
	// API version 1
	api := e.Group("/api/v1")

	// Tenant provisioning only needs a valid subject
	tenants := api.Group("/tenants")
	tenants.Use(authMiddleware.AuthenticateSubject())
	tenants.POST("/provision", h.Tenant.Provision)

	protected := []echo.MiddlewareFunc{authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter)}

	// Category routes (protected)
	categories := api.Group("/categories", protected...)
	categories.POST("", h.Category.CreateCategory)
	categories.GET("", h.Category.GetCategories)
	categories.GET("/:id", h.Category.GetCategory)
	categories.PUT("/:id", h.Category.UpdateCategory)
	categories.DELETE("/:id", h.Category.DeleteCategory)
	categories.GET("/:id/can-delete", h.Category.CanDeleteCategory)

	// Transaction routes (protected)
	transactions := api.Group("/transactions", protected...)
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.GET("/groups/:groupId", h.Transaction.GetInstallmentGroup)
	transactions.GET("/:id", h.Transaction.GetTransaction)
	transactions.PUT("/:id", h.Transaction.UpdateTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)

	// Report routes (protected)
	reports := api.Group("/reports", protected...)
	reports.GET("/totals", h.Report.GetTotals)
	reports.GET("/categories", h.Report.GetCategoryBreakdown)
	reports.GET("/daily", h.Report.GetDailySeries)
	reports.GET("/today", h.Report.GetToday)
	reports.GET("/months/:year/:month", h.Report.GetMonth)
	reports.GET("/next-month", h.Report.GetNextMonth)
	reports.GET("/years/:year", h.Report.GetYear)
	reports.GET("/dashboard", h.Report.GetDashboard)
}
