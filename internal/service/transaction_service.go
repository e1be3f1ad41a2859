package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dafibh/fortuna/ledger-backend/internal/domain"
	"github.com/dafibh/fortuna/ledger-backend/internal/util"
	"github.com/dafibh/fortuna/ledger-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// maxAmount is the largest value a NUMERIC(14,2) column holds
var maxAmount = decimal.RequireFromString("999999999999.99")

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	eventPublisher  websocket.EventPublisher
	now             func() time.Time
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, categoryRepo domain.CategoryRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		now:             time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *TransactionService) publishEvent(tenantID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(tenantID, event)
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	CategoryID  int32
	Amount      decimal.Decimal
	Date        *time.Time
	Kind        domain.Kind
	Description string
	// InstallmentCount is 0 for a single row or N >= 2 to split into N rows
	InstallmentCount int
}

// UpdateTransactionInput holds the input for updating one transaction row
type UpdateTransactionInput struct {
	CategoryID  int32
	Amount      decimal.Decimal
	Date        time.Time
	Kind        domain.Kind
	Description string
}

// normalizeAmount rounds to cents and checks the result is storable and positive
func normalizeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	amount = amount.Round(2)
	if amount.LessThanOrEqual(decimal.Zero) || amount.GreaterThan(maxAmount) {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	return amount, nil
}

func normalizeDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) > domain.MaxDescriptionLength {
		return "", domain.ErrDescriptionTooLong
	}
	return description, nil
}

// CreateTransaction records one transaction, or an installment group of
// InstallmentCount rows when it is at least 2. Group rows share a fresh
// group ID, have amounts summing exactly to Amount, and are spaced 30 days
// apart starting at Date. Either every row is stored or none is.
func (s *TransactionService) CreateTransaction(ctx context.Context, tenantID int32, input CreateTransactionInput) (*domain.GroupResult, error) {
	amount, err := normalizeAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	if !input.Kind.IsValid() {
		return nil, domain.ErrInvalidKind
	}
	if err := domain.ValidateInstallmentCount(input.InstallmentCount); err != nil {
		return nil, err
	}
	description, err := normalizeDescription(input.Description)
	if err != nil {
		return nil, err
	}

	// Default the date to today if not provided
	date := util.DateOnly(s.now())
	if input.Date != nil {
		date = util.DateOnly(*input.Date)
	}

	// Validate category exists and belongs to tenant
	if _, err := s.categoryRepo.GetByID(ctx, tenantID, input.CategoryID); err != nil {
		return nil, err
	}

	base := &domain.Transaction{
		TenantID:    tenantID,
		CategoryID:  input.CategoryID,
		Amount:      amount,
		Date:        date,
		Kind:        input.Kind,
		Description: description,
	}

	rows := []*domain.Transaction{base}
	var groupID *uuid.UUID
	if input.InstallmentCount >= domain.MinInstallmentGroupLength {
		id := uuid.New()
		groupID = &id
		rows, err = domain.ExpandInstallments(base, input.InstallmentCount, id)
		if err != nil {
			return nil, err
		}
	}

	created, err := s.transactionRepo.CreateBatch(ctx, rows)
	if err != nil {
		log.Error().Err(err).Int32("tenant_id", tenantID).Int("rows", len(rows)).Msg("Failed to create transactions")
		return nil, err
	}

	result := &domain.GroupResult{GroupID: groupID, Transactions: created}
	if groupID != nil {
		log.Info().
			Int32("tenant_id", tenantID).
			Str("group_id", groupID.String()).
			Int("installments", len(created)).
			Msg("Installment group created")
		s.publishEvent(tenantID, websocket.InstallmentGroupCreated(result))
	} else {
		s.publishEvent(tenantID, websocket.TransactionCreated(created[0]))
	}
	return result, nil
}

// GetTransactions lists a tenant's transactions newest first. A nil range lists everything.
func (s *TransactionService) GetTransactions(ctx context.Context, tenantID int32, dateRange *domain.DateRange) ([]*domain.Transaction, error) {
	if dateRange != nil {
		if err := dateRange.Validate(); err != nil {
			return nil, err
		}
	}
	return s.transactionRepo.GetByTenant(ctx, tenantID, dateRange)
}

// GetTransactionByID retrieves a transaction by ID within a tenant
func (s *TransactionService) GetTransactionByID(ctx context.Context, tenantID int32, id int32) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(ctx, tenantID, id)
}

// GetInstallmentGroup lists the rows of one installment group ordered by index
func (s *TransactionService) GetInstallmentGroup(ctx context.Context, tenantID int32, groupID uuid.UUID) ([]*domain.Transaction, error) {
	rows, err := s.transactionRepo.GetByGroup(ctx, tenantID, groupID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrTransactionNotFound
	}
	return rows, nil
}

// UpdateTransaction changes exactly one row. Installment index, count and
// group are never modified; when the row belongs to a group the result
// carries a notice that its siblings were left unchanged.
func (s *TransactionService) UpdateTransaction(ctx context.Context, tenantID int32, id int32, input UpdateTransactionInput) (*domain.UpdateResult, error) {
	amount, err := normalizeAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	if !input.Kind.IsValid() {
		return nil, domain.ErrInvalidKind
	}
	if input.Date.IsZero() {
		return nil, domain.ErrDateRequired
	}
	description, err := normalizeDescription(input.Description)
	if err != nil {
		return nil, err
	}

	existing, err := s.transactionRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetByID(ctx, tenantID, input.CategoryID); err != nil {
		return nil, err
	}

	updated, err := s.transactionRepo.Update(ctx, tenantID, id, &domain.UpdateTransactionData{
		CategoryID:  input.CategoryID,
		Amount:      amount,
		Date:        util.DateOnly(input.Date),
		Kind:        input.Kind,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	result := &domain.UpdateResult{Transaction: updated}
	if existing.IsInstallment() {
		result.Notice = domain.SingleInstallmentNotice
	}

	s.publishEvent(tenantID, websocket.TransactionUpdated(updated))
	return result, nil
}

// DeleteTransaction removes a transaction. When deleteEntireGroup is set and
// the row is part of an installment group, every row of the group is removed.
// Returns the number of rows removed.
func (s *TransactionService) DeleteTransaction(ctx context.Context, tenantID int32, id int32, deleteEntireGroup bool) (int64, error) {
	existing, err := s.transactionRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return 0, err
	}

	if deleteEntireGroup && existing.IsInstallment() {
		groupID := *existing.InstallmentGroupID
		deleted, err := s.transactionRepo.DeleteGroup(ctx, tenantID, groupID)
		if err != nil {
			return 0, err
		}
		log.Info().
			Int32("tenant_id", tenantID).
			Str("group_id", groupID.String()).
			Int64("deleted", deleted).
			Msg("Installment group deleted")
		s.publishEvent(tenantID, websocket.InstallmentGroupDeleted(map[string]interface{}{
			"groupId": groupID,
			"deleted": deleted,
		}))
		return deleted, nil
	}

	deleted, err := s.transactionRepo.Delete(ctx, tenantID, id)
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		// Removed concurrently between the lookup and the delete
		return 0, domain.ErrTransactionNotFound
	}

	s.publishEvent(tenantID, websocket.TransactionDeleted(map[string]int32{"id": id}))
	return deleted, nil
}
