package postgres

import (
	"context"
	"errors"

	"github.com/dafibh/fortuna/ledger-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, tenant_id, name, kind, created_at, updated_at`

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (tenant_id, name, kind)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		category.TenantID, category.Name, string(category.Kind))
	created, err := scanCategory(row)
	if err != nil {
		// Check for unique constraint violation
		if isPgUniqueViolation(err) {
			return nil, domain.ErrCategoryAlreadyExists
		}
		return nil, storageErr("create category", err)
	}
	return created, nil
}

// GetByID retrieves a category by its ID within a tenant
func (r *CategoryRepository) GetByID(ctx context.Context, tenantID int32, id int32) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, storageErr("get category", err)
	}
	return category, nil
}

// GetAllByTenant retrieves all categories of a tenant ordered by name
func (r *CategoryRepository) GetAllByTenant(ctx context.Context, tenantID int32) ([]*domain.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE tenant_id = $1
		ORDER BY name ASC, id ASC`, tenantID)
	if err != nil {
		return nil, storageErr("list categories", err)
	}
	defer rows.Close()

	result := make([]*domain.Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, storageErr("scan category", err)
		}
		result = append(result, category)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list categories", err)
	}
	return result, nil
}

// Update changes a category's name and kind
func (r *CategoryRepository) Update(ctx context.Context, tenantID int32, id int32, name string, kind domain.Kind) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE categories
		SET name = $3, kind = $4, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
		RETURNING `+categoryColumns,
		tenantID, id, name, string(kind))
	updated, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		if isPgUniqueViolation(err) {
			return nil, domain.ErrCategoryAlreadyExists
		}
		return nil, storageErr("update category", err)
	}
	return updated, nil
}

// Delete removes a category that no transaction references. The category row
// is locked first so a concurrent insert referencing it either commits before
// the count (and blocks the delete) or waits and then fails its FK check.
func (r *CategoryRepository) Delete(ctx context.Context, tenantID int32, id int32) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storageErr("begin delete category", err)
	}
	defer tx.Rollback(ctx)

	var locked int32
	err = tx.QueryRow(ctx, `
		SELECT id FROM categories
		WHERE tenant_id = $1 AND id = $2
		FOR UPDATE`, tenantID, id).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCategoryNotFound
		}
		return storageErr("lock category", err)
	}

	var referenced bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM transactions WHERE tenant_id = $1 AND category_id = $2
		)`, tenantID, id).Scan(&referenced)
	if err != nil {
		return storageErr("check category references", err)
	}
	if referenced {
		return domain.ErrCategoryInUse
	}

	if _, err := tx.Exec(ctx, `DELETE FROM categories WHERE tenant_id = $1 AND id = $2`, tenantID, id); err != nil {
		if isPgForeignKeyViolation(err) {
			return domain.ErrCategoryInUse
		}
		return storageErr("delete category", err)
	}

	if err := tx.Commit(ctx); err != nil {
		if isPgForeignKeyViolation(err) {
			return domain.ErrCategoryInUse
		}
		return storageErr("commit delete category", err)
	}
	return nil
}

// CountTransactions returns how many transactions reference the category
func (r *CategoryRepository) CountTransactions(ctx context.Context, tenantID int32, id int32) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM transactions
		WHERE tenant_id = $1 AND category_id = $2`, tenantID, id).Scan(&count)
	if err != nil {
		return 0, storageErr("count category transactions", err)
	}
	return count, nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	var kind string
	if err := row.Scan(&c.ID, &c.TenantID, &c.Name, &kind, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Kind = domain.Kind(kind)
	return &c, nil
}
