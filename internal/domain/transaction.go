package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID                 int32           `json:"id"`
	TenantID           int32           `json:"tenantId"`
	CategoryID         int32           `json:"categoryId"`
	CategoryName       string          `json:"categoryName"`
	Amount             decimal.Decimal `json:"amount"`
	Date               time.Time       `json:"date"`
	Kind               Kind            `json:"kind"`
	Description        string          `json:"description"`
	InstallmentIndex   int32           `json:"installmentIndex"`
	InstallmentCount   int32           `json:"installmentCount"`
	InstallmentGroupID *uuid.UUID      `json:"installmentGroupId,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// IsInstallment reports whether the row belongs to a group of more than one installment
func (t *Transaction) IsInstallment() bool {
	return t.InstallmentGroupID != nil && t.InstallmentCount > 1
}

// DateRange is an inclusive range of calendar dates
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate checks that Start is not after End
func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return ErrDateRequired
	}
	if r.Start.After(r.End) {
		return ErrInvalidDateRange
	}
	return nil
}

// UpdateTransactionData holds the mutable fields of a transaction.
// Installment fields are deliberately absent.
type UpdateTransactionData struct {
	CategoryID  int32
	Amount      decimal.Decimal
	Date        time.Time
	Kind        Kind
	Description string
}

// GroupResult is the outcome of creating a transaction, grouped or not
type GroupResult struct {
	GroupID      *uuid.UUID     `json:"groupId,omitempty"`
	Transactions []*Transaction `json:"transactions"`
}

// UpdateResult carries the updated row and an optional non-fatal notice
type UpdateResult struct {
	Transaction *Transaction `json:"transaction"`
	Notice      string       `json:"notice,omitempty"`
}

// SingleInstallmentNotice is returned when an update touches one row of a group
const SingleInstallmentNotice = "this transaction is one installment of a group; only this installment was changed"

type TransactionRepository interface {
	// CreateBatch inserts all rows in one store transaction: either every row
	// is committed or none is.
	CreateBatch(ctx context.Context, transactions []*Transaction) ([]*Transaction, error)
	GetByID(ctx context.Context, tenantID int32, id int32) (*Transaction, error)
	// GetByTenant lists transactions joined with their category name, newest
	// date first. A nil range lists everything.
	GetByTenant(ctx context.Context, tenantID int32, dateRange *DateRange) ([]*Transaction, error)
	GetByGroup(ctx context.Context, tenantID int32, groupID uuid.UUID) ([]*Transaction, error)
	Update(ctx context.Context, tenantID int32, id int32, data *UpdateTransactionData) (*Transaction, error)
	Delete(ctx context.Context, tenantID int32, id int32) (int64, error)
	DeleteGroup(ctx context.Context, tenantID int32, groupID uuid.UUID) (int64, error)
}
