package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dafibh/fortuna/ledger-backend/internal/domain"
	"github.com/dafibh/fortuna/ledger-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProvisionFixture() (*TenantService, *testutil.MockTenantRepository, *testutil.MockCategoryRepository) {
	tenantRepo := testutil.NewMockTenantRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	tenantRepo.Categories = categoryRepo
	return NewTenantService(tenantRepo), tenantRepo, categoryRepo
}

func TestProvision_SeedsDefaultCategories(t *testing.T) {
	svc, _, categoryRepo := newProvisionFixture()
	ctx := context.Background()

	tenant, err := svc.Provision(ctx, "auth0|alice")
	require.NoError(t, err)
	assert.True(t, tenant.IsActive)
	assert.Equal(t, "auth0|alice", tenant.TenantKey)

	categories, err := categoryRepo.GetAllByTenant(ctx, tenant.ID)
	require.NoError(t, err)
	require.Len(t, categories, len(domain.DefaultCategories))

	kinds := make(map[string]domain.Kind)
	for _, c := range categories {
		kinds[c.Name] = c.Kind
	}
	assert.Equal(t, domain.KindIncome, kinds["Salary"])
	assert.Equal(t, domain.KindExpense, kinds["Food"])
	assert.Equal(t, domain.KindExpense, kinds["Miscellaneous"])
}

func TestProvision_Idempotent(t *testing.T) {
	svc, _, categoryRepo := newProvisionFixture()
	ctx := context.Background()

	first, err := svc.Provision(ctx, "auth0|alice")
	require.NoError(t, err)

	// A user-created category survives re-provisioning
	_, err = categoryRepo.Create(ctx, &domain.Category{TenantID: first.ID, Name: "Pets", Kind: domain.KindExpense})
	require.NoError(t, err)

	second, err := svc.Provision(ctx, "auth0|alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	categories, err := categoryRepo.GetAllByTenant(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, categories, len(domain.DefaultCategories)+1)
}

func TestProvision_TenantsAreIndependent(t *testing.T) {
	svc, _, categoryRepo := newProvisionFixture()
	ctx := context.Background()

	a, err := svc.Provision(ctx, "auth0|alice")
	require.NoError(t, err)
	b, err := svc.Provision(ctx, "auth0|bob")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	catsA, _ := categoryRepo.GetAllByTenant(ctx, a.ID)
	catsB, _ := categoryRepo.GetAllByTenant(ctx, b.ID)
	assert.Len(t, catsA, len(domain.DefaultCategories))
	assert.Len(t, catsB, len(domain.DefaultCategories))
}

func TestProvision_InvalidKey(t *testing.T) {
	svc, _, _ := newProvisionFixture()

	_, err := svc.Provision(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrTenantKeyRequired)

	_, err = svc.Provision(context.Background(), strings.Repeat("k", domain.MaxTenantKeyLength+1))
	assert.ErrorIs(t, err, domain.ErrTenantKeyTooLong)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrNameTooLong)

	tenant, err := svc.Provision(context.Background(), strings.Repeat("k", domain.MaxTenantKeyLength))
	require.NoError(t, err)
	assert.Len(t, tenant.TenantKey, domain.MaxTenantKeyLength)
}

func TestProvision_StorageError(t *testing.T) {
	svc, tenantRepo, _ := newProvisionFixture()
	tenantRepo.ProvisionFn = func(ctx context.Context, tenantKey string, seeds []domain.CategorySeed) (*domain.Tenant, error) {
		return nil, domain.NewStorageError("upsert tenant", errors.New("timeout"))
	}

	_, err := svc.Provision(context.Background(), "auth0|alice")
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestResolveTenant(t *testing.T) {
	svc, tenantRepo, _ := newProvisionFixture()
	ctx := context.Background()

	tenantRepo.AddTenant(&domain.Tenant{ID: 7, TenantKey: "active", IsActive: true})
	tenantRepo.AddTenant(&domain.Tenant{ID: 8, TenantKey: "disabled", IsActive: false})

	id, err := svc.ResolveTenant(ctx, "active")
	require.NoError(t, err)
	assert.Equal(t, int32(7), id)

	_, err = svc.ResolveTenant(ctx, "disabled")
	assert.ErrorIs(t, err, domain.ErrTenantInactive)

	_, err = svc.ResolveTenant(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
}

func TestResolveTenant_NormalizesKey(t *testing.T) {
	svc, _, _ := newProvisionFixture()
	ctx := context.Background()

	tenant, err := svc.Provision(ctx, " auth0|carol\t")
	require.NoError(t, err)
	assert.Equal(t, "auth0|carol", tenant.TenantKey)

	for _, subject := range []string{"auth0|carol", " auth0|carol ", "auth0|carol\n"} {
		id, err := svc.ResolveTenant(ctx, subject)
		require.NoError(t, err, "%q", subject)
		assert.Equal(t, tenant.ID, id)
	}

	_, err = svc.ResolveTenant(ctx, "   ")
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)

	_, err = svc.ResolveTenant(ctx, strings.Repeat("k", domain.MaxTenantKeyLength+1))
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
}

func TestSetActive(t *testing.T) {
	svc, _, _ := newProvisionFixture()
	ctx := context.Background()

	tenant, err := svc.Provision(ctx, "auth0|alice")
	require.NoError(t, err)

	updated, err := svc.SetActive(ctx, "auth0|alice", false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = svc.ResolveTenant(ctx, "auth0|alice")
	assert.ErrorIs(t, err, domain.ErrTenantInactive)

	_, err = svc.SetActive(ctx, "auth0|alice", true)
	require.NoError(t, err)

	id, err := svc.ResolveTenant(ctx, "auth0|alice")
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, id)

	_, err = svc.SetActive(ctx, "auth0|nobody", true)
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
}
