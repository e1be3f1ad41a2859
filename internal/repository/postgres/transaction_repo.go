package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/fortuna/ledger-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Columns of a transaction row joined with its category name. Every query
// that selects them aliases the transaction table as t and categories as c.
const transactionColumns = `t.id, t.tenant_id, t.category_id, c.name, t.amount, t.transaction_date, t.kind,
	t.description, t.installment_index, t.installment_count, t.installment_group_id, t.created_at, t.updated_at`

// CreateBatch inserts every row in one database transaction
func (r *TransactionRepository) CreateBatch(ctx context.Context, transactions []*domain.Transaction) ([]*domain.Transaction, error) {
	if len(transactions) == 0 {
		return []*domain.Transaction{}, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, storageErr("begin create transactions", err)
	}
	defer tx.Rollback(ctx)

	created := make([]*domain.Transaction, 0, len(transactions))
	for _, t := range transactions {
		amount, err := decimalToPgNumeric(t.Amount)
		if err != nil {
			return nil, fmt.Errorf("invalid amount: %w", err)
		}

		var groupID pgtype.UUID
		if t.InstallmentGroupID != nil {
			groupID = pgtype.UUID{Bytes: *t.InstallmentGroupID, Valid: true}
		}

		row := tx.QueryRow(ctx, `
			WITH t AS (
				INSERT INTO transactions (tenant_id, category_id, amount, transaction_date, kind, description,
					installment_index, installment_count, installment_group_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				RETURNING *
			)
			SELECT `+transactionColumns+`
			FROM t
			JOIN categories c ON c.tenant_id = t.tenant_id AND c.id = t.category_id`,
			t.TenantID, t.CategoryID, amount, dateToPg(t.Date), string(t.Kind), t.Description,
			t.InstallmentIndex, t.InstallmentCount, groupID)

		inserted, err := scanTransaction(row)
		if err != nil {
			if isPgForeignKeyViolation(err) {
				return nil, domain.ErrCategoryNotFound
			}
			return nil, storageErr("create transaction", err)
		}
		created = append(created, inserted)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storageErr("commit create transactions", err)
	}
	return created, nil
}

// GetByID retrieves a transaction by its ID within a tenant
func (r *TransactionRepository) GetByID(ctx context.Context, tenantID int32, id int32) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		JOIN categories c ON c.tenant_id = t.tenant_id AND c.id = t.category_id
		WHERE t.tenant_id = $1 AND t.id = $2`, tenantID, id)
	transaction, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, storageErr("get transaction", err)
	}
	return transaction, nil
}

// GetByTenant lists a tenant's transactions newest first, optionally bounded by an inclusive date range
func (r *TransactionRepository) GetByTenant(ctx context.Context, tenantID int32, dateRange *domain.DateRange) ([]*domain.Transaction, error) {
	var startDate, endDate pgtype.Date
	if dateRange != nil {
		startDate = dateToPg(dateRange.Start)
		endDate = dateToPg(dateRange.End)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		JOIN categories c ON c.tenant_id = t.tenant_id AND c.id = t.category_id
		WHERE t.tenant_id = $1
		  AND ($2::date IS NULL OR t.transaction_date >= $2)
		  AND ($3::date IS NULL OR t.transaction_date <= $3)
		ORDER BY t.transaction_date DESC, t.id DESC`, tenantID, startDate, endDate)
	if err != nil {
		return nil, storageErr("list transactions", err)
	}
	return collectTransactions(rows, "list transactions")
}

// GetByGroup lists the rows of one installment group ordered by index
func (r *TransactionRepository) GetByGroup(ctx context.Context, tenantID int32, groupID uuid.UUID) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		JOIN categories c ON c.tenant_id = t.tenant_id AND c.id = t.category_id
		WHERE t.tenant_id = $1 AND t.installment_group_id = $2
		ORDER BY t.installment_index ASC`, tenantID, pgtype.UUID{Bytes: groupID, Valid: true})
	if err != nil {
		return nil, storageErr("list installment group", err)
	}
	return collectTransactions(rows, "list installment group")
}

// Update changes the mutable fields of one row. Installment columns are never written.
func (r *TransactionRepository) Update(ctx context.Context, tenantID int32, id int32, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(data.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		WITH t AS (
			UPDATE transactions
			SET category_id = $3, amount = $4, transaction_date = $5, kind = $6, description = $7, updated_at = NOW()
			WHERE tenant_id = $1 AND id = $2
			RETURNING *
		)
		SELECT `+transactionColumns+`
		FROM t
		JOIN categories c ON c.tenant_id = t.tenant_id AND c.id = t.category_id`,
		tenantID, id, data.CategoryID, amount, dateToPg(data.Date), string(data.Kind), data.Description)

	updated, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		if isPgForeignKeyViolation(err) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, storageErr("update transaction", err)
	}
	return updated, nil
}

// Delete removes one row and returns the number of rows removed
func (r *TransactionRepository) Delete(ctx context.Context, tenantID int32, id int32) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return 0, storageErr("delete transaction", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteGroup removes every row of an installment group in one statement
func (r *TransactionRepository) DeleteGroup(ctx context.Context, tenantID int32, groupID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM transactions
		WHERE tenant_id = $1 AND installment_group_id = $2`,
		tenantID, pgtype.UUID{Bytes: groupID, Valid: true})
	if err != nil {
		return 0, storageErr("delete installment group", err)
	}
	return tag.RowsAffected(), nil
}

func collectTransactions(rows pgx.Rows, op string) ([]*domain.Transaction, error) {
	defer rows.Close()

	result := make([]*domain.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, storageErr(op, err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return result, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t       domain.Transaction
		amount  pgtype.Numeric
		date    pgtype.Date
		kind    string
		groupID pgtype.UUID
	)
	err := row.Scan(
		&t.ID, &t.TenantID, &t.CategoryID, &t.CategoryName, &amount, &date, &kind,
		&t.Description, &t.InstallmentIndex, &t.InstallmentCount, &groupID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Amount = pgNumericToDecimal(amount)
	t.Date = date.Time
	t.Kind = domain.Kind(kind)
	if groupID.Valid {
		id := uuid.UUID(groupID.Bytes)
		t.InstallmentGroupID = &id
	}
	return &t, nil
}
