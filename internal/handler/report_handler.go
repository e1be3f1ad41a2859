package handler

import (
	"net/http"
	"strconv"

	"github.com/dafibh/fortuna/ledger-backend/internal/domain"
	"github.com/dafibh/fortuna/ledger-backend/internal/middleware"
	"github.com/dafibh/fortuna/ledger-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// ReportHandler handles aggregate report requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// PeriodResponse is an inclusive date range in API responses
type PeriodResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TotalsResponse represents income/expense totals of a period
type TotalsResponse struct {
	Period  *PeriodResponse `json:"period,omitempty"`
	Income  string          `json:"income"`
	Expense string          `json:"expense"`
	Balance string          `json:"balance"`
}

// CategoryTotalResponse represents the expense total of one category
type CategoryTotalResponse struct {
	CategoryID   int32  `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Total        string `json:"total"`
}

// DailyTotalResponse represents one point of the daily series
type DailyTotalResponse struct {
	Date    string `json:"date"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

// MonthTotalsResponse represents the totals of a calendar month
type MonthTotalsResponse struct {
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
}

// DashboardResponse bundles the report view
type DashboardResponse struct {
	Totals            TotalsResponse          `json:"totals"`
	CategoryBreakdown []CategoryTotalResponse `json:"categoryBreakdown"`
	DailySeries       []DailyTotalResponse    `json:"dailySeries"`
	Today             []CategoryTotalResponse `json:"today"`
	NextMonth         MonthTotalsResponse     `json:"nextMonth"`
}

// GetTotals handles GET /api/v1/reports/totals
func (h *ReportHandler) GetTotals(c echo.Context) error {
	tenantID := middleware.GetTenantID(c)
	if tenantID == 0 {
		return NewUnauthorizedError(c, "Tenant required")
	}

	dateRange, errs := parseDateRangeQuery(c)
	if errs != nil {
		return NewValidationError(c, "Invalid date range", errs)
	}

	totals, err := h.reportService.PeriodTotals(c.Request().Context(), tenantID, dateRange)
	if err != nil {
		return handleServiceError(c, err, "compute totals")
	}

	return c.JSON(http.StatusOK, TotalsResponse{
		Period:  toPeriodResponse(totals.Period),
		Income:  totals.Income.StringFixed(2),
		Expense: totals.Expense.StringFixed(2),
		Balance: totals.Balance.StringFixed(2),
	})
}

// GetCategoryBreakdown handles GET /api/v1/reports/categories
func (h *ReportHandler) GetCategoryBreakdown(c echo.Context) error {
	tenantID := middleware.GetTenantID(c)
	if tenantID == 0 {
		return NewUnauthorizedError(c, "Tenant required")
	}

	dateRange, errs := parseDateRangeQuery(c)
	if errs != nil {
		return NewValidationError(c, "Invalid date range", errs)
	}

	breakdown, err := h.reportService.CategoryBreakdown(c.Request().Context(), tenantID, dateRange)
	if err != nil {
		return handleServiceError(c, err, "compute category breakdown")
	}

	return c.JSON(http.StatusOK, toCategoryTotalResponses(breakdown))
}

// GetDailySeries handles GET /api/v1/reports/daily
func (h *ReportHandler) GetDailySeries(c echo.Context) error {
	tenantID := middleware.GetTenantID(c)
	if tenantID == 0 {
		return NewUnauthorizedError(c, "Tenant required")
	}

	dateRange, errs := parseDateRangeQuery(c)
	if errs != nil {
		return NewValidationError(c, "Invalid date range", errs)
	}

	series, err := h.reportService.DailySeries(c.Request().Context(), tenantID, dateRange)
	if err != nil {
		return handleServiceError(c, err, "compute daily series")
	}

	return c.JSON(http.StatusOK, toDailyTotalResponses(series))
}

// GetToday handles GET /api/v1/reports/today
func (h *ReportHandler) GetToday(c echo.Context) error {
	tenantID := middleware.GetTenantID(c)
	if tenantID == 0 {
		return NewUnauthorizedError(c, "Tenant required")
	}

	today, err := h.reportService.TodayBreakdown(c.Request().Context(), tenantID)
	if err != nil {
		return handleServiceError(c, err, "compute today's breakdown")
	}

	return c.JSON(http.StatusOK, toCategoryTotalResponses(today))
}

// GetMonth handles GET /api/v1/reports/months/:year/:month
func (h *ReportHandler) GetMonth(c echo.Context) error {
	tenantID := middleware.GetTenantID(c)
	if tenantID == 0 {
		return NewUnauthorizedError(c, "Tenant required")
	}

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 || year > 9999 {
		return NewValidationError(c, "Invalid year", nil)
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		return NewValidationError(c, "Invalid month (must be 1-12)", nil)
	}

	totals, err := h.reportService.MonthTotals(c.Request().Context(), tenantID, year, month)
	if err != nil {
		return handleServiceError(c, err, "compute month totals")
	}

	return c.JSON(http.StatusOK, toMonthTotalsResponse(totals))
}

// GetNextMonth handles GET /api/v1/reports/next-month
func (h *ReportHandler) GetNextMonth(c echo.Context) error {
	tenantID := middleware.GetTenantID(c)
	if tenantID == 0 {
		return NewUnauthorizedError(c, "Tenant required")
	}

	totals, err := h.reportService.NextMonthTotals(c.Request().Context(), tenantID)
	if err != nil {
		return handleServiceError(c, err, "compute next month totals")
	}

	return c.JSON(http.StatusOK, toMonthTotalsResponse(totals))
}

// GetYear handles GET /api/v1/reports/years/:year
func (h *ReportHandler) GetYear(c echo.Context) error {
	tenantID := middleware.GetTenantID(c)
	if tenantID == 0 {
		return NewUnauthorizedError(c, "Tenant required")
	}

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 || year > 9999 {
		return NewValidationError(c, "Invalid year", nil)
	}

	overview, err := h.reportService.YearOverview(c.Request().Context(), tenantID, year)
	if err != nil {
		return handleServiceError(c, err, "compute year overview")
	}

	response := make([]MonthTotalsResponse, len(overview))
	for i, m := range overview {
		response[i] = toMonthTotalsResponse(m)
	}
	return c.JSON(http.StatusOK, response)
}

// GetDashboard handles GET /api/v1/reports/dashboard
func (h *ReportHandler) GetDashboard(c echo.Context) error {
	tenantID := middleware.GetTenantID(c)
	if tenantID == 0 {
		return NewUnauthorizedError(c, "Tenant required")
	}

	dateRange, errs := parseDateRangeQuery(c)
	if errs != nil {
		return NewValidationError(c, "Invalid date range", errs)
	}

	dashboard, err := h.reportService.Dashboard(c.Request().Context(), tenantID, dateRange)
	if err != nil {
		return handleServiceError(c, err, "compute dashboard")
	}

	return c.JSON(http.StatusOK, DashboardResponse{
		Totals: TotalsResponse{
			Period:  toPeriodResponse(dashboard.Period),
			Income:  dashboard.Totals.Income.StringFixed(2),
			Expense: dashboard.Totals.Expense.StringFixed(2),
			Balance: dashboard.Totals.Balance().StringFixed(2),
		},
		CategoryBreakdown: toCategoryTotalResponses(dashboard.CategoryBreakdown),
		DailySeries:       toDailyTotalResponses(dashboard.DailySeries),
		Today:             toCategoryTotalResponses(dashboard.Today),
		NextMonth:         toMonthTotalsResponse(dashboard.NextMonth),
	})
}

func toPeriodResponse(r domain.DateRange) *PeriodResponse {
	return &PeriodResponse{Start: r.Start.Format(dateLayout), End: r.End.Format(dateLayout)}
}

func toCategoryTotalResponses(totals []*domain.CategoryTotal) []CategoryTotalResponse {
	response := make([]CategoryTotalResponse, len(totals))
	for i, t := range totals {
		response[i] = CategoryTotalResponse{
			CategoryID:   t.CategoryID,
			CategoryName: t.CategoryName,
			Total:        t.Total.StringFixed(2),
		}
	}
	return response
}

func toDailyTotalResponses(series []*domain.DailyTotal) []DailyTotalResponse {
	response := make([]DailyTotalResponse, len(series))
	for i, d := range series {
		response[i] = DailyTotalResponse{
			Date:    d.Date.Format(dateLayout),
			Income:  d.Income.StringFixed(2),
			Expense: d.Expense.StringFixed(2),
		}
	}
	return response
}

func toMonthTotalsResponse(m *domain.MonthTotals) MonthTotalsResponse {
	return MonthTotalsResponse{
		Year:    m.Year,
		Month:   m.Month,
		Income:  m.Totals.Income.StringFixed(2),
		Expense: m.Totals.Expense.StringFixed(2),
		Balance: m.Totals.Balance().StringFixed(2),
	}
}
