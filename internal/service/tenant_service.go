package service

import (
	"context"
	"strings"

	"github.com/dafibh/fortuna/ledger-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// TenantService provisions tenants and resolves them for authenticated callers
type TenantService struct {
	tenantRepo domain.TenantRepository
	seeds      []domain.CategorySeed
}

// NewTenantService creates a new TenantService seeding domain.DefaultCategories
func NewTenantService(tenantRepo domain.TenantRepository) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		seeds:      domain.DefaultCategories,
	}
}

// Provision creates the tenant and its default categories. Calling it again
// for the same key is harmless and returns the existing tenant.
func (s *TenantService) Provision(ctx context.Context, tenantKey string) (*domain.Tenant, error) {
	tenantKey, err := validateTenantKey(tenantKey)
	if err != nil {
		return nil, err
	}

	tenant, err := s.tenantRepo.Provision(ctx, tenantKey, s.seeds)
	if err != nil {
		log.Error().Err(err).Str("tenant_key", tenantKey).Msg("Failed to provision tenant")
		return nil, err
	}

	log.Info().Int32("tenant_id", tenant.ID).Msg("Tenant provisioned")
	return tenant, nil
}

// ResolveTenant returns the ID of an active tenant. The key is normalized
// the same way Provision stores it.
func (s *TenantService) ResolveTenant(ctx context.Context, tenantKey string) (int32, error) {
	tenantKey, err := validateTenantKey(tenantKey)
	if err != nil {
		// no such key can have been provisioned
		return 0, domain.ErrTenantNotFound
	}

	tenant, err := s.tenantRepo.GetByKey(ctx, tenantKey)
	if err != nil {
		return 0, err
	}
	if !tenant.IsActive {
		return 0, domain.ErrTenantInactive
	}
	return tenant.ID, nil
}

// SetActive enables or disables a tenant. Data is kept either way.
func (s *TenantService) SetActive(ctx context.Context, tenantKey string, active bool) (*domain.Tenant, error) {
	tenantKey, err := validateTenantKey(tenantKey)
	if err != nil {
		return nil, err
	}

	tenant, err := s.tenantRepo.SetActive(ctx, tenantKey, active)
	if err != nil {
		return nil, err
	}

	log.Info().Int32("tenant_id", tenant.ID).Bool("active", active).Msg("Tenant status changed")
	return tenant, nil
}

func validateTenantKey(tenantKey string) (string, error) {
	tenantKey = strings.TrimSpace(tenantKey)
	if tenantKey == "" {
		return "", domain.ErrTenantKeyRequired
	}
	if len(tenantKey) > domain.MaxTenantKeyLength {
		return "", domain.ErrTenantKeyTooLong
	}
	return tenantKey, nil
}
