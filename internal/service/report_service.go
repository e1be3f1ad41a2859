package service

import (
	"context"
	"time"

	"github.com/dafibh/fortuna/ledger-backend/internal/domain"
	"github.com/dafibh/fortuna/ledger-backend/internal/util"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ReportService computes read-only aggregates over a tenant's transactions.
// A nil date range means the current calendar month.
type ReportService struct {
	reportRepo domain.ReportRepository
	now        func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo domain.ReportRepository) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		now:        time.Now,
	}
}

// PeriodTotals is the income, expense and balance of a period
type PeriodTotals struct {
	Period  domain.DateRange `json:"period"`
	Income  decimal.Decimal  `json:"income"`
	Expense decimal.Decimal  `json:"expense"`
	Balance decimal.Decimal  `json:"balance"`
}

func (s *ReportService) resolveRange(dateRange *domain.DateRange) (domain.DateRange, error) {
	if dateRange == nil {
		start, end := util.CurrentMonthRange(s.now())
		return domain.DateRange{Start: start, End: end}, nil
	}
	if err := dateRange.Validate(); err != nil {
		return domain.DateRange{}, err
	}
	return domain.DateRange{Start: util.DateOnly(dateRange.Start), End: util.DateOnly(dateRange.End)}, nil
}

// PeriodTotals sums income and expense over the range. A range without data yields zeros.
func (s *ReportService) PeriodTotals(ctx context.Context, tenantID int32, dateRange *domain.DateRange) (*PeriodTotals, error) {
	r, err := s.resolveRange(dateRange)
	if err != nil {
		return nil, err
	}
	totals, err := s.reportRepo.SumByKind(ctx, tenantID, r.Start, r.End)
	if err != nil {
		return nil, err
	}
	return &PeriodTotals{
		Period:  r,
		Income:  totals.Income,
		Expense: totals.Expense,
		Balance: totals.Balance(),
	}, nil
}

// CategoryBreakdown returns expense totals per category, largest first
func (s *ReportService) CategoryBreakdown(ctx context.Context, tenantID int32, dateRange *domain.DateRange) ([]*domain.CategoryTotal, error) {
	r, err := s.resolveRange(dateRange)
	if err != nil {
		return nil, err
	}
	return s.reportRepo.SumExpensesByCategory(ctx, tenantID, r.Start, r.End)
}

// DailySeries returns income and expense per date, for dates with data only
func (s *ReportService) DailySeries(ctx context.Context, tenantID int32, dateRange *domain.DateRange) ([]*domain.DailyTotal, error) {
	r, err := s.resolveRange(dateRange)
	if err != nil {
		return nil, err
	}
	return s.reportRepo.SumByDay(ctx, tenantID, r.Start, r.End)
}

// TodayBreakdown is CategoryBreakdown restricted to today's date
func (s *ReportService) TodayBreakdown(ctx context.Context, tenantID int32) ([]*domain.CategoryTotal, error) {
	today := util.DateOnly(s.now())
	return s.reportRepo.SumExpensesByCategory(ctx, tenantID, today, today)
}

// MonthTotals sums a Gregorian calendar month
func (s *ReportService) MonthTotals(ctx context.Context, tenantID int32, year, month int) (*domain.MonthTotals, error) {
	if !util.ValidMonth(month) {
		return nil, domain.ErrInvalidDateRange
	}
	start, end := util.MonthRange(year, month)
	totals, err := s.reportRepo.SumByKind(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}
	return &domain.MonthTotals{Year: year, Month: month, Totals: *totals}, nil
}

// NextMonthTotals sums the month after the current one. With installments
// already scheduled ahead, this is the forward-looking commitment.
func (s *ReportService) NextMonthTotals(ctx context.Context, tenantID int32) (*domain.MonthTotals, error) {
	now := s.now()
	year, month := util.NextMonth(now.Year(), int(now.Month()))
	return s.MonthTotals(ctx, tenantID, year, month)
}

// YearOverview returns twelve entries, one per month, with zero totals for empty months
func (s *ReportService) YearOverview(ctx context.Context, tenantID int32, year int) ([]*domain.MonthTotals, error) {
	rows, err := s.reportRepo.SumByMonth(ctx, tenantID, year)
	if err != nil {
		return nil, err
	}

	overview := make([]*domain.MonthTotals, 12)
	for i := range overview {
		overview[i] = &domain.MonthTotals{
			Year:   year,
			Month:  i + 1,
			Totals: domain.KindTotals{Income: decimal.Zero, Expense: decimal.Zero},
		}
	}
	for _, row := range rows {
		if util.ValidMonth(row.Month) {
			overview[row.Month-1].Totals = row.Totals
		}
	}
	return overview, nil
}

// Dashboard computes every report of one view concurrently. The parts run as
// separate queries, so under concurrent writes they may not agree exactly.
func (s *ReportService) Dashboard(ctx context.Context, tenantID int32, dateRange *domain.DateRange) (*domain.Dashboard, error) {
	r, err := s.resolveRange(dateRange)
	if err != nil {
		return nil, err
	}

	dashboard := &domain.Dashboard{Period: r}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		totals, err := s.reportRepo.SumByKind(gctx, tenantID, r.Start, r.End)
		if err != nil {
			return err
		}
		dashboard.Totals = *totals
		return nil
	})
	g.Go(func() error {
		breakdown, err := s.reportRepo.SumExpensesByCategory(gctx, tenantID, r.Start, r.End)
		dashboard.CategoryBreakdown = breakdown
		return err
	})
	g.Go(func() error {
		series, err := s.reportRepo.SumByDay(gctx, tenantID, r.Start, r.End)
		dashboard.DailySeries = series
		return err
	})
	g.Go(func() error {
		today, err := s.TodayBreakdown(gctx, tenantID)
		dashboard.Today = today
		return err
	})
	g.Go(func() error {
		next, err := s.NextMonthTotals(gctx, tenantID)
		dashboard.NextMonth = next
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dashboard, nil
}
