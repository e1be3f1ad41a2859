package postgres

import (
	"context"
	"time"

	"github.com/dafibh/fortuna/ledger-backend/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReportRepository implements domain.ReportRepository using PostgreSQL
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// SumByKind totals income and expense in [start, end]. Kinds without rows sum to zero.
func (r *ReportRepository) SumByKind(ctx context.Context, tenantID int32, start, end time.Time) (*domain.KindTotals, error) {
	var income, expense pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE kind = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE kind = 'expense'), 0)
		FROM transactions
		WHERE tenant_id = $1 AND transaction_date BETWEEN $2 AND $3`,
		tenantID, dateToPg(start), dateToPg(end)).Scan(&income, &expense)
	if err != nil {
		return nil, storageErr("sum by kind", err)
	}
	return &domain.KindTotals{
		Income:  pgNumericToDecimal(income),
		Expense: pgNumericToDecimal(expense),
	}, nil
}

// SumExpensesByCategory totals expenses per category, largest first
func (r *ReportRepository) SumExpensesByCategory(ctx context.Context, tenantID int32, start, end time.Time) ([]*domain.CategoryTotal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.name, SUM(t.amount) AS total
		FROM transactions t
		JOIN categories c ON c.tenant_id = t.tenant_id AND c.id = t.category_id
		WHERE t.tenant_id = $1 AND t.kind = 'expense'
		  AND t.transaction_date BETWEEN $2 AND $3
		GROUP BY c.id, c.name
		ORDER BY total DESC, c.name ASC`,
		tenantID, dateToPg(start), dateToPg(end))
	if err != nil {
		return nil, storageErr("sum expenses by category", err)
	}
	defer rows.Close()

	result := make([]*domain.CategoryTotal, 0)
	for rows.Next() {
		var ct domain.CategoryTotal
		var total pgtype.Numeric
		if err := rows.Scan(&ct.CategoryID, &ct.CategoryName, &total); err != nil {
			return nil, storageErr("scan category total", err)
		}
		ct.Total = pgNumericToDecimal(total)
		result = append(result, &ct)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("sum expenses by category", err)
	}
	return result, nil
}

// SumByDay returns one row per date with data, ascending
func (r *ReportRepository) SumByDay(ctx context.Context, tenantID int32, start, end time.Time) ([]*domain.DailyTotal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			transaction_date,
			COALESCE(SUM(amount) FILTER (WHERE kind = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE kind = 'expense'), 0)
		FROM transactions
		WHERE tenant_id = $1 AND transaction_date BETWEEN $2 AND $3
		GROUP BY transaction_date
		ORDER BY transaction_date ASC`,
		tenantID, dateToPg(start), dateToPg(end))
	if err != nil {
		return nil, storageErr("sum by day", err)
	}
	defer rows.Close()

	result := make([]*domain.DailyTotal, 0)
	for rows.Next() {
		var date pgtype.Date
		var income, expense pgtype.Numeric
		if err := rows.Scan(&date, &income, &expense); err != nil {
			return nil, storageErr("scan daily total", err)
		}
		result = append(result, &domain.DailyTotal{
			Date:    date.Time,
			Income:  pgNumericToDecimal(income),
			Expense: pgNumericToDecimal(expense),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("sum by day", err)
	}
	return result, nil
}

// SumByMonth returns one row per month of the year that has data
func (r *ReportRepository) SumByMonth(ctx context.Context, tenantID int32, year int) ([]*domain.MonthTotals, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	rows, err := r.pool.Query(ctx, `
		SELECT
			EXTRACT(MONTH FROM transaction_date)::int AS month,
			COALESCE(SUM(amount) FILTER (WHERE kind = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE kind = 'expense'), 0)
		FROM transactions
		WHERE tenant_id = $1 AND transaction_date BETWEEN $2 AND $3
		GROUP BY month
		ORDER BY month ASC`,
		tenantID, dateToPg(start), dateToPg(end))
	if err != nil {
		return nil, storageErr("sum by month", err)
	}
	defer rows.Close()

	result := make([]*domain.MonthTotals, 0)
	for rows.Next() {
		var month int32
		var income, expense pgtype.Numeric
		if err := rows.Scan(&month, &income, &expense); err != nil {
			return nil, storageErr("scan month total", err)
		}
		result = append(result, &domain.MonthTotals{
			Year:  year,
			Month: int(month),
			Totals: domain.KindTotals{
				Income:  pgNumericToDecimal(income),
				Expense: pgNumericToDecimal(expense),
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("sum by month", err)
	}
	return result, nil
}
