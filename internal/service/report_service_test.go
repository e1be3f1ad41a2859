package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dafibh/fortuna/ledger-backend/internal/domain"
	"github.com/dafibh/fortuna/ledger-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportFixture struct {
	transactions *testutil.MockTransactionRepository
	reports      *testutil.MockReportRepository
	service      *ReportService
	nextID       int32
	categoryIDs  map[string]int32
}

func newReportFixture(now time.Time) *reportFixture {
	_, transactions, reports := testutil.NewMockLedger()
	svc := NewReportService(reports)
	svc.now = func() time.Time { return now }
	return &reportFixture{transactions: transactions, reports: reports, service: svc, nextID: 1, categoryIDs: make(map[string]int32)}
}

func (f *reportFixture) add(tenantID int32, category string, kind domain.Kind, amount, day string) {
	categoryID, ok := f.categoryIDs[category]
	if !ok {
		categoryID = int32(len(f.categoryIDs) + 1)
		f.categoryIDs[category] = categoryID
	}
	f.transactions.AddTransaction(&domain.Transaction{
		ID:           f.nextID,
		TenantID:     tenantID,
		CategoryID:   categoryID,
		CategoryName: category,
		Amount:       decimal.RequireFromString(amount),
		Date:         *date(day),
		Kind:         kind,
	})
	f.nextID++
}

func dateRange(start, end string) *domain.DateRange {
	return &domain.DateRange{Start: *date(start), End: *date(end)}
}

func TestPeriodTotals(t *testing.T) {
	f := newReportFixture(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
	f.add(1, "Salary", domain.KindIncome, "3000.00", "2024-03-01")
	f.add(1, "Food", domain.KindExpense, "120.50", "2024-03-05")
	f.add(1, "Rent", domain.KindExpense, "1000.00", "2024-03-31")
	f.add(1, "Food", domain.KindExpense, "99.00", "2024-04-01")
	f.add(2, "Food", domain.KindExpense, "500.00", "2024-03-05")

	// Nil range means the current month
	totals, err := f.service.PeriodTotals(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", totals.Period.Start.Format("2006-01-02"))
	assert.Equal(t, "2024-03-31", totals.Period.End.Format("2006-01-02"))
	assert.Equal(t, "3000.00", totals.Income.StringFixed(2))
	assert.Equal(t, "1120.50", totals.Expense.StringFixed(2))
	assert.Equal(t, "1879.50", totals.Balance.StringFixed(2))

	// Inclusive bounds
	totals, err = f.service.PeriodTotals(context.Background(), 1, dateRange("2024-03-05", "2024-04-01"))
	require.NoError(t, err)
	assert.Equal(t, "0.00", totals.Income.StringFixed(2))
	assert.Equal(t, "1219.50", totals.Expense.StringFixed(2))
}

func TestPeriodTotals_EmptyRangeIsZero(t *testing.T) {
	f := newReportFixture(time.Now())

	totals, err := f.service.PeriodTotals(context.Background(), 1, dateRange("2020-01-01", "2020-12-31"))
	require.NoError(t, err)
	assert.True(t, totals.Income.IsZero())
	assert.True(t, totals.Expense.IsZero())
	assert.True(t, totals.Balance.IsZero())
}

func TestPeriodTotals_InvalidRange(t *testing.T) {
	f := newReportFixture(time.Now())

	_, err := f.service.PeriodTotals(context.Background(), 1, dateRange("2024-02-01", "2024-01-01"))
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)

	_, err = f.service.CategoryBreakdown(context.Background(), 1, &domain.DateRange{End: *date("2024-01-01")})
	assert.ErrorIs(t, err, domain.ErrDateRequired)
}

func TestCategoryBreakdown_LargestFirst(t *testing.T) {
	f := newReportFixture(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	f.add(1, "Food", domain.KindExpense, "50.00", "2024-06-01")
	f.add(1, "Food", domain.KindExpense, "25.00", "2024-06-02")
	f.add(1, "Rent", domain.KindExpense, "900.00", "2024-06-01")
	f.add(1, "Fun", domain.KindExpense, "10.00", "2024-06-03")
	f.add(1, "Salary", domain.KindIncome, "5000.00", "2024-06-01")

	breakdown, err := f.service.CategoryBreakdown(context.Background(), 1, nil)
	require.NoError(t, err)
	require.Len(t, breakdown, 3)

	assert.Equal(t, "Rent", breakdown[0].CategoryName)
	assert.Equal(t, "Food", breakdown[1].CategoryName)
	assert.Equal(t, "75.00", breakdown[1].Total.StringFixed(2))
	assert.Equal(t, "Fun", breakdown[2].CategoryName)
}

func TestDailySeries_OnlyDatesWithData(t *testing.T) {
	f := newReportFixture(time.Now())
	f.add(1, "Food", domain.KindExpense, "10.00", "2024-02-03")
	f.add(1, "Salary", domain.KindIncome, "100.00", "2024-02-03")
	f.add(1, "Food", domain.KindExpense, "5.00", "2024-02-10")

	series, err := f.service.DailySeries(context.Background(), 1, dateRange("2024-02-01", "2024-02-29"))
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, "2024-02-03", series[0].Date.Format("2006-01-02"))
	assert.Equal(t, "100.00", series[0].Income.StringFixed(2))
	assert.Equal(t, "10.00", series[0].Expense.StringFixed(2))
	assert.Equal(t, "2024-02-10", series[1].Date.Format("2006-01-02"))
	assert.True(t, series[1].Income.IsZero())
}

func TestTodayBreakdown(t *testing.T) {
	f := newReportFixture(time.Date(2024, 7, 4, 22, 30, 0, 0, time.UTC))
	f.add(1, "Food", domain.KindExpense, "12.00", "2024-07-04")
	f.add(1, "Food", domain.KindExpense, "30.00", "2024-07-03")

	today, err := f.service.TodayBreakdown(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, "12.00", today[0].Total.StringFixed(2))
}

func TestMonthTotals_LeapFebruary(t *testing.T) {
	f := newReportFixture(time.Now())
	f.add(1, "Food", domain.KindExpense, "10.00", "2024-02-29")
	f.add(1, "Food", domain.KindExpense, "20.00", "2024-03-01")

	totals, err := f.service.MonthTotals(context.Background(), 1, 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, 2024, totals.Year)
	assert.Equal(t, 2, totals.Month)
	assert.Equal(t, "10.00", totals.Totals.Expense.StringFixed(2))
}

func TestMonthTotals_InvalidMonth(t *testing.T) {
	f := newReportFixture(time.Now())

	for _, month := range []int{0, 13, -1} {
		_, err := f.service.MonthTotals(context.Background(), 1, 2024, month)
		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
	}
}

func TestNextMonthTotals_WrapsYear(t *testing.T) {
	f := newReportFixture(time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC))
	f.add(1, "Laptop", domain.KindExpense, "100.00", "2025-01-14")
	f.add(1, "Laptop", domain.KindExpense, "100.00", "2025-02-13")

	next, err := f.service.NextMonthTotals(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2025, next.Year)
	assert.Equal(t, 1, next.Month)
	assert.Equal(t, "100.00", next.Totals.Expense.StringFixed(2))
}

func TestYearOverview_TwelveMonths(t *testing.T) {
	f := newReportFixture(time.Now())
	f.add(1, "Salary", domain.KindIncome, "2000.00", "2024-01-31")
	f.add(1, "Food", domain.KindExpense, "40.00", "2024-05-12")
	f.add(1, "Food", domain.KindExpense, "60.00", "2024-05-13")
	f.add(1, "Food", domain.KindExpense, "99.00", "2023-05-13")

	overview, err := f.service.YearOverview(context.Background(), 1, 2024)
	require.NoError(t, err)
	require.Len(t, overview, 12)

	for i, m := range overview {
		assert.Equal(t, i+1, m.Month)
		assert.Equal(t, 2024, m.Year)
	}
	assert.Equal(t, "2000.00", overview[0].Totals.Income.StringFixed(2))
	assert.Equal(t, "100.00", overview[4].Totals.Expense.StringFixed(2))
	assert.True(t, overview[11].Totals.Income.IsZero())
	assert.True(t, overview[11].Totals.Expense.IsZero())
}

func TestDashboard(t *testing.T) {
	f := newReportFixture(time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
	f.add(1, "Salary", domain.KindIncome, "3000.00", "2024-01-01")
	f.add(1, "Food", domain.KindExpense, "45.00", "2024-01-15")
	f.add(1, "Laptop", domain.KindExpense, "100.00", "2024-02-14")

	dashboard, err := f.service.Dashboard(context.Background(), 1, nil)
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01", dashboard.Period.Start.Format("2006-01-02"))
	assert.Equal(t, "3000.00", dashboard.Totals.Income.StringFixed(2))
	assert.Equal(t, "45.00", dashboard.Totals.Expense.StringFixed(2))
	assert.Len(t, dashboard.CategoryBreakdown, 1)
	assert.Len(t, dashboard.DailySeries, 2)
	require.Len(t, dashboard.Today, 1)
	assert.Equal(t, "Food", dashboard.Today[0].CategoryName)
	require.NotNil(t, dashboard.NextMonth)
	assert.Equal(t, 2, dashboard.NextMonth.Month)
	assert.Equal(t, "100.00", dashboard.NextMonth.Totals.Expense.StringFixed(2))
}

func TestDashboard_PropagatesError(t *testing.T) {
	f := newReportFixture(time.Now())
	f.reports.SumByDayFn = func(ctx context.Context, tenantID int32, start, end time.Time) ([]*domain.DailyTotal, error) {
		return nil, domain.NewStorageError("sum by day", errors.New("connection reset"))
	}

	_, err := f.service.Dashboard(context.Background(), 1, nil)
	assert.ErrorIs(t, err, domain.ErrStorage)
}
