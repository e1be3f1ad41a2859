package postgres

import (
	"context"
	"errors"

	"github.com/dafibh/fortuna/ledger-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TenantRepository implements domain.TenantRepository using PostgreSQL
type TenantRepository struct {
	pool *pgxpool.Pool
}

// NewTenantRepository creates a new TenantRepository
func NewTenantRepository(pool *pgxpool.Pool) *TenantRepository {
	return &TenantRepository{pool: pool}
}

const tenantColumns = `id, tenant_key, is_active, created_at, updated_at`

// Provision upserts the tenant and inserts the seed categories it lacks.
// Existing category rows are never modified.
func (r *TenantRepository) Provision(ctx context.Context, tenantKey string, seeds []domain.CategorySeed) (*domain.Tenant, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, storageErr("begin provision", err)
	}
	defer tx.Rollback(ctx)

	// DO UPDATE instead of DO NOTHING so RETURNING yields the existing row too
	row := tx.QueryRow(ctx, `
		INSERT INTO tenants (tenant_key)
		VALUES ($1)
		ON CONFLICT (tenant_key) DO UPDATE SET tenant_key = EXCLUDED.tenant_key
		RETURNING `+tenantColumns, tenantKey)
	tenant, err := scanTenant(row)
	if err != nil {
		return nil, storageErr("upsert tenant", err)
	}

	batch := &pgx.Batch{}
	for _, seed := range seeds {
		batch.Queue(`
			INSERT INTO categories (tenant_id, name, kind)
			VALUES ($1, $2, $3)
			ON CONFLICT (tenant_id, name) DO NOTHING`,
			tenant.ID, seed.Name, string(seed.Kind))
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, storageErr("seed categories", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storageErr("commit provision", err)
	}
	return tenant, nil
}

// GetByKey retrieves a tenant by its external key
func (r *TenantRepository) GetByKey(ctx context.Context, tenantKey string) (*domain.Tenant, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE tenant_key = $1`, tenantKey)
	tenant, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, storageErr("get tenant", err)
	}
	return tenant, nil
}

// SetActive toggles whether the tenant may use the ledger
func (r *TenantRepository) SetActive(ctx context.Context, tenantKey string, active bool) (*domain.Tenant, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE tenants SET is_active = $2, updated_at = NOW()
		WHERE tenant_key = $1
		RETURNING `+tenantColumns, tenantKey, active)
	tenant, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, storageErr("set tenant active", err)
	}
	return tenant, nil
}

func scanTenant(row pgx.Row) (*domain.Tenant, error) {
	var t domain.Tenant
	if err := row.Scan(&t.ID, &t.TenantKey, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
