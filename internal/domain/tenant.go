package domain

import (
	"context"
	"time"
)

// Tenant is an isolated owner of one category set and one transaction set
type Tenant struct {
	ID        int32     `json:"id"`
	TenantKey string    `json:"tenantKey"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CategorySeed is a category created for every newly provisioned tenant
type CategorySeed struct {
	Name string
	Kind Kind
}

// DefaultCategories is the category set seeded by the provisioner
var DefaultCategories = []CategorySeed{
	{Name: "Salary", Kind: KindIncome},
	{Name: "Food", Kind: KindExpense},
	{Name: "Transport", Kind: KindExpense},
	{Name: "Leisure", Kind: KindExpense},
	{Name: "Health", Kind: KindExpense},
	{Name: "Education", Kind: KindExpense},
	{Name: "Housing", Kind: KindExpense},
	{Name: "Miscellaneous", Kind: KindExpense},
}

// TenantRepository defines the interface for tenant persistence operations
type TenantRepository interface {
	// Provision creates the tenant if absent and inserts any missing seed
	// categories, all within one store transaction. Safe to repeat.
	Provision(ctx context.Context, tenantKey string, seeds []CategorySeed) (*Tenant, error)
	GetByKey(ctx context.Context, tenantKey string) (*Tenant, error)
	SetActive(ctx context.Context, tenantKey string, active bool) (*Tenant, error)
}
