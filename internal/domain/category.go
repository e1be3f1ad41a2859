package domain

import (
	"context"
	"time"
)

// Kind classifies a category or a transaction
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// IsValid reports whether k is one of the known kinds
func (k Kind) IsValid() bool {
	return k == KindIncome || k == KindExpense
}

type Category struct {
	ID        int32     `json:"id"`
	TenantID  int32     `json:"tenantId"`
	Name      string    `json:"name"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CategoryRepository interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	GetByID(ctx context.Context, tenantID int32, id int32) (*Category, error)
	// GetAllByTenant returns the tenant's categories ordered by name
	GetAllByTenant(ctx context.Context, tenantID int32) ([]*Category, error)
	Update(ctx context.Context, tenantID int32, id int32, name string, kind Kind) (*Category, error)
	// Delete removes the category unless a transaction references it. The
	// reference check and the delete are atomic with concurrent inserts.
	Delete(ctx context.Context, tenantID int32, id int32) error
	CountTransactions(ctx context.Context, tenantID int32, id int32) (int64, error)
}
