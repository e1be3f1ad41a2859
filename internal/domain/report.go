package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// KindTotals holds income and expense sums for a period
type KindTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Balance returns income minus expense
func (t KindTotals) Balance() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

// CategoryTotal is the expense total of one category
type CategoryTotal struct {
	CategoryID   int32           `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Total        decimal.Decimal `json:"total"`
}

// DailyTotal is one point of the daily series; only dates with data appear
type DailyTotal struct {
	Date    time.Time       `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// MonthTotals is the income/expense sum of a calendar month
type MonthTotals struct {
	Year   int        `json:"year"`
	Month  int        `json:"month"`
	Totals KindTotals `json:"totals"`
}

// Dashboard bundles the aggregates shown in one report view. The parts are
// computed by separate queries and may reflect slightly different points in
// time under concurrent writes.
type Dashboard struct {
	Period            DateRange        `json:"period"`
	Totals            KindTotals       `json:"totals"`
	CategoryBreakdown []*CategoryTotal `json:"categoryBreakdown"`
	DailySeries       []*DailyTotal    `json:"dailySeries"`
	Today             []*CategoryTotal `json:"today"`
	NextMonth         *MonthTotals     `json:"nextMonth"`
}

// ReportRepository provides read-only aggregate queries. Date bounds are inclusive.
type ReportRepository interface {
	SumByKind(ctx context.Context, tenantID int32, start, end time.Time) (*KindTotals, error)
	// SumExpensesByCategory returns expense totals ordered by total descending
	SumExpensesByCategory(ctx context.Context, tenantID int32, start, end time.Time) ([]*CategoryTotal, error)
	// SumByDay returns one row per date that has data, ordered by date
	SumByDay(ctx context.Context, tenantID int32, start, end time.Time) ([]*DailyTotal, error)
	// SumByMonth returns one row per month of year that has data
	SumByMonth(ctx context.Context, tenantID int32, year int) ([]*MonthTotals, error)
}
