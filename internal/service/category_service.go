package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/dafibh/fortuna/ledger-backend/internal/domain"
	"github.com/dafibh/fortuna/ledger-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// CategoryService handles category business logic
type CategoryService struct {
	categoryRepo   domain.CategoryRepository
	eventPublisher websocket.EventPublisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *CategoryService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *CategoryService) publishEvent(tenantID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(tenantID, event)
	}
}

func validateCategory(name string, kind domain.Kind) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if utf8.RuneCountInString(name) > domain.MaxCategoryNameLength {
		return "", domain.ErrNameTooLong
	}
	if !kind.IsValid() {
		return "", domain.ErrInvalidKind
	}
	return name, nil
}

// CreateCategory creates a new category. Names are unique per tenant.
func (s *CategoryService) CreateCategory(ctx context.Context, tenantID int32, name string, kind domain.Kind) (*domain.Category, error) {
	name, err := validateCategory(name, kind)
	if err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.Create(ctx, &domain.Category{
		TenantID: tenantID,
		Name:     name,
		Kind:     kind,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(tenantID, websocket.CategoryCreated(category))
	return category, nil
}

// GetCategories retrieves all categories of a tenant sorted by name
func (s *CategoryService) GetCategories(ctx context.Context, tenantID int32) ([]*domain.Category, error) {
	return s.categoryRepo.GetAllByTenant(ctx, tenantID)
}

// GetCategoryByID retrieves a category by ID within a tenant
func (s *CategoryService) GetCategoryByID(ctx context.Context, tenantID int32, id int32) (*domain.Category, error) {
	return s.categoryRepo.GetByID(ctx, tenantID, id)
}

// UpdateCategory renames a category or changes its kind
func (s *CategoryService) UpdateCategory(ctx context.Context, tenantID int32, id int32, name string, kind domain.Kind) (*domain.Category, error) {
	name, err := validateCategory(name, kind)
	if err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.Update(ctx, tenantID, id, name, kind)
	if err != nil {
		return nil, err
	}

	s.publishEvent(tenantID, websocket.CategoryUpdated(category))
	return category, nil
}

// DeleteCategory removes a category. It fails with domain.ErrCategoryInUse
// while any transaction references it.
func (s *CategoryService) DeleteCategory(ctx context.Context, tenantID int32, id int32) error {
	if err := s.categoryRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	log.Info().Int32("tenant_id", tenantID).Int32("category_id", id).Msg("Category deleted")
	s.publishEvent(tenantID, websocket.CategoryDeleted(map[string]int32{"id": id}))
	return nil
}

// CanDeleteResponse contains information about whether a category can be safely deleted
type CanDeleteResponse struct {
	HasTransactions  bool  `json:"hasTransactions"`
	TransactionCount int64 `json:"transactionCount"`
}

// CanDelete reports whether a category is still referenced by transactions.
// The answer is advisory; DeleteCategory re-checks atomically.
func (s *CategoryService) CanDelete(ctx context.Context, tenantID int32, id int32) (*CanDeleteResponse, error) {
	// Verify category exists
	if _, err := s.categoryRepo.GetByID(ctx, tenantID, id); err != nil {
		return nil, err
	}

	count, err := s.categoryRepo.CountTransactions(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	return &CanDeleteResponse{
		HasTransactions:  count > 0,
		TransactionCount: count,
	}, nil
}
