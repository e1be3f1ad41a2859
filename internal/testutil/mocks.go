package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dafibh/fortuna/ledger-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewMockLedger returns category, transaction and report mocks sharing one
// in-memory store, so reference checks and aggregates see the same rows
func NewMockLedger() (*MockCategoryRepository, *MockTransactionRepository, *MockReportRepository) {
	categories := NewMockCategoryRepository()
	transactions := NewMockTransactionRepository()
	categories.Transactions = transactions
	transactions.Categories = categories
	return categories, transactions, NewMockReportRepository(transactions)
}

// MockTenantRepository is a mock implementation of domain.TenantRepository
type MockTenantRepository struct {
	mu          sync.Mutex
	Tenants     map[string]*domain.Tenant
	NextID      int32
	Categories  *MockCategoryRepository
	ProvisionFn func(ctx context.Context, tenantKey string, seeds []domain.CategorySeed) (*domain.Tenant, error)
	GetByKeyFn  func(ctx context.Context, tenantKey string) (*domain.Tenant, error)
}

// NewMockTenantRepository creates a new MockTenantRepository
func NewMockTenantRepository() *MockTenantRepository {
	return &MockTenantRepository{
		Tenants: make(map[string]*domain.Tenant),
		NextID:  1,
	}
}

// Provision creates the tenant if missing and seeds absent categories into
// the linked category mock, when there is one
func (m *MockTenantRepository) Provision(ctx context.Context, tenantKey string, seeds []domain.CategorySeed) (*domain.Tenant, error) {
	if m.ProvisionFn != nil {
		return m.ProvisionFn(ctx, tenantKey, seeds)
	}
	m.mu.Lock()
	tenant, ok := m.Tenants[tenantKey]
	if !ok {
		now := time.Now()
		tenant = &domain.Tenant{
			ID:        m.NextID,
			TenantKey: tenantKey,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		m.NextID++
		m.Tenants[tenantKey] = tenant
	}
	m.mu.Unlock()

	if m.Categories != nil {
		for _, seed := range seeds {
			_, err := m.Categories.Create(ctx, &domain.Category{TenantID: tenant.ID, Name: seed.Name, Kind: seed.Kind})
			if err != nil && err != domain.ErrCategoryAlreadyExists {
				return nil, err
			}
		}
	}
	return tenant, nil
}

// GetByKey retrieves a tenant by key
func (m *MockTenantRepository) GetByKey(ctx context.Context, tenantKey string) (*domain.Tenant, error) {
	if m.GetByKeyFn != nil {
		return m.GetByKeyFn(ctx, tenantKey)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if tenant, ok := m.Tenants[tenantKey]; ok {
		return tenant, nil
	}
	return nil, domain.ErrTenantNotFound
}

// SetActive toggles a tenant's active flag
func (m *MockTenantRepository) SetActive(ctx context.Context, tenantKey string, active bool) (*domain.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tenant, ok := m.Tenants[tenantKey]
	if !ok {
		return nil, domain.ErrTenantNotFound
	}
	tenant.IsActive = active
	tenant.UpdatedAt = time.Now()
	return tenant, nil
}

// AddTenant adds a tenant to the mock repository (helper for tests)
func (m *MockTenantRepository) AddTenant(tenant *domain.Tenant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tenants[tenant.TenantKey] = tenant
	if tenant.ID >= m.NextID {
		m.NextID = tenant.ID + 1
	}
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository.
// Name uniqueness is enforced per tenant like the store's UNIQUE constraint.
type MockCategoryRepository struct {
	mu           sync.Mutex
	Categories   map[int32]*domain.Category
	NextID       int32
	Transactions *MockTransactionRepository
	CreateFn     func(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetAllFn     func(ctx context.Context, tenantID int32) ([]*domain.Category, error)
	DeleteFn     func(ctx context.Context, tenantID int32, id int32) error
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[int32]*domain.Category),
		NextID:     1,
	}
}

func (m *MockCategoryRepository) nameTakenLocked(tenantID int32, name string, exceptID int32) bool {
	for _, c := range m.Categories {
		if c.TenantID == tenantID && c.Name == name && c.ID != exceptID {
			return true
		}
	}
	return false
}

// Create creates a new category
func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nameTakenLocked(category.TenantID, category.Name, 0) {
		return nil, domain.ErrCategoryAlreadyExists
	}
	now := time.Now()
	created := *category
	created.ID = m.NextID
	created.CreatedAt = now
	created.UpdatedAt = now
	m.NextID++
	m.Categories[created.ID] = &created
	return &created, nil
}

// GetByID retrieves a category by ID within a tenant
func (m *MockCategoryRepository) GetByID(ctx context.Context, tenantID int32, id int32) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.Categories[id]; ok && c.TenantID == tenantID {
		copied := *c
		return &copied, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// GetAllByTenant retrieves a tenant's categories sorted by name
func (m *MockCategoryRepository) GetAllByTenant(ctx context.Context, tenantID int32) ([]*domain.Category, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(ctx, tenantID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Category, 0)
	for _, c := range m.Categories {
		if c.TenantID == tenantID {
			copied := *c
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name == result[j].Name {
			return result[i].ID < result[j].ID
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// Update changes a category's name and kind
func (m *MockCategoryRepository) Update(ctx context.Context, tenantID int32, id int32, name string, kind domain.Kind) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Categories[id]
	if !ok || c.TenantID != tenantID {
		return nil, domain.ErrCategoryNotFound
	}
	if m.nameTakenLocked(tenantID, name, id) {
		return nil, domain.ErrCategoryAlreadyExists
	}
	c.Name = name
	c.Kind = kind
	c.UpdatedAt = time.Now()
	copied := *c
	return &copied, nil
}

// Delete removes a category unless the linked transaction mock references it
func (m *MockCategoryRepository) Delete(ctx context.Context, tenantID int32, id int32) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, tenantID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Categories[id]
	if !ok || c.TenantID != tenantID {
		return domain.ErrCategoryNotFound
	}
	if m.Transactions != nil && m.Transactions.countByCategory(tenantID, id) > 0 {
		return domain.ErrCategoryInUse
	}
	delete(m.Categories, id)
	return nil
}

// CountTransactions counts rows in the linked transaction mock referencing the category
func (m *MockCategoryRepository) CountTransactions(ctx context.Context, tenantID int32, id int32) (int64, error) {
	if m.Transactions == nil {
		return 0, nil
	}
	return m.Transactions.countByCategory(tenantID, id), nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Categories[category.ID] = category
	if category.ID >= m.NextID {
		m.NextID = category.ID + 1
	}
}

func (m *MockCategoryRepository) lookup(tenantID, id int32) (*domain.Category, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Categories[id]
	if !ok || c.TenantID != tenantID {
		return nil, false
	}
	return c, true
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository.
// When linked to a category mock it rejects rows whose category is not in the
// same tenant, like the store's composite foreign key.
type MockTransactionRepository struct {
	mu            sync.Mutex
	Transactions  map[int32]*domain.Transaction
	NextID        int32
	Categories    *MockCategoryRepository
	CreateBatchFn func(ctx context.Context, transactions []*domain.Transaction) ([]*domain.Transaction, error)
	GetByTenantFn func(ctx context.Context, tenantID int32, dateRange *domain.DateRange) ([]*domain.Transaction, error)
	DeleteFn      func(ctx context.Context, tenantID int32, id int32) (int64, error)
	BatchCalls    int
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		NextID:       1,
	}
}

func (m *MockTransactionRepository) categoryName(tenantID, categoryID int32) (string, bool) {
	if m.Categories == nil {
		return "", true
	}
	c, ok := m.Categories.lookup(tenantID, categoryID)
	if !ok {
		return "", false
	}
	return c.Name, true
}

// CreateBatch inserts all rows or none
func (m *MockTransactionRepository) CreateBatch(ctx context.Context, transactions []*domain.Transaction) ([]*domain.Transaction, error) {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(ctx, transactions)
	}

	names := make([]string, len(transactions))
	for i, t := range transactions {
		name, ok := m.categoryName(t.TenantID, t.CategoryID)
		if !ok {
			return nil, domain.ErrCategoryNotFound
		}
		names[i] = name
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.BatchCalls++
	now := time.Now()
	created := make([]*domain.Transaction, 0, len(transactions))
	for i, t := range transactions {
		row := *t
		row.ID = m.NextID
		row.CategoryName = names[i]
		row.CreatedAt = now
		row.UpdatedAt = now
		m.NextID++
		m.Transactions[row.ID] = &row
		copied := row
		created = append(created, &copied)
	}
	return created, nil
}

// GetByID retrieves a transaction by ID within a tenant
func (m *MockTransactionRepository) GetByID(ctx context.Context, tenantID int32, id int32) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.Transactions[id]; ok && t.TenantID == tenantID {
		copied := *t
		return &copied, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// GetByTenant lists a tenant's transactions, date DESC then id DESC
func (m *MockTransactionRepository) GetByTenant(ctx context.Context, tenantID int32, dateRange *domain.DateRange) ([]*domain.Transaction, error) {
	if m.GetByTenantFn != nil {
		return m.GetByTenantFn(ctx, tenantID, dateRange)
	}
	result := m.filter(func(t *domain.Transaction) bool {
		if t.TenantID != tenantID {
			return false
		}
		if dateRange != nil && (t.Date.Before(dateRange.Start) || t.Date.After(dateRange.End)) {
			return false
		}
		return true
	})
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date.Equal(result[j].Date) {
			return result[i].ID > result[j].ID
		}
		return result[i].Date.After(result[j].Date)
	})
	return result, nil
}

// GetByGroup lists an installment group ordered by index
func (m *MockTransactionRepository) GetByGroup(ctx context.Context, tenantID int32, groupID uuid.UUID) ([]*domain.Transaction, error) {
	result := m.filter(func(t *domain.Transaction) bool {
		return t.TenantID == tenantID && t.InstallmentGroupID != nil && *t.InstallmentGroupID == groupID
	})
	sort.Slice(result, func(i, j int) bool { return result[i].InstallmentIndex < result[j].InstallmentIndex })
	return result, nil
}

// Update changes the mutable fields of one row
func (m *MockTransactionRepository) Update(ctx context.Context, tenantID int32, id int32, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	name, ok := m.categoryName(tenantID, data.CategoryID)

	m.mu.Lock()
	defer m.mu.Unlock()
	t, exists := m.Transactions[id]
	if !exists || t.TenantID != tenantID {
		return nil, domain.ErrTransactionNotFound
	}
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	t.CategoryID = data.CategoryID
	t.CategoryName = name
	t.Amount = data.Amount
	t.Date = data.Date
	t.Kind = data.Kind
	t.Description = data.Description
	t.UpdatedAt = time.Now()
	copied := *t
	return &copied, nil
}

// Delete removes one row
func (m *MockTransactionRepository) Delete(ctx context.Context, tenantID int32, id int32) (int64, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, tenantID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.Transactions[id]; ok && t.TenantID == tenantID {
		delete(m.Transactions, id)
		return 1, nil
	}
	return 0, nil
}

// DeleteGroup removes every row of a group
func (m *MockTransactionRepository) DeleteGroup(ctx context.Context, tenantID int32, groupID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, t := range m.Transactions {
		if t.TenantID == tenantID && t.InstallmentGroupID != nil && *t.InstallmentGroupID == groupID {
			delete(m.Transactions, id)
			n++
		}
	}
	return n, nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(t *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transactions[t.ID] = t
	if t.ID >= m.NextID {
		m.NextID = t.ID + 1
	}
}

// Count returns the number of stored rows (helper for tests)
func (m *MockTransactionRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Transactions)
}

func (m *MockTransactionRepository) countByCategory(tenantID, categoryID int32) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, t := range m.Transactions {
		if t.TenantID == tenantID && t.CategoryID == categoryID {
			n++
		}
	}
	return n
}

func (m *MockTransactionRepository) filter(keep func(*domain.Transaction) bool) []*domain.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Transaction, 0)
	for _, t := range m.Transactions {
		if keep(t) {
			copied := *t
			result = append(result, &copied)
		}
	}
	return result
}

// MockReportRepository is a mock implementation of domain.ReportRepository
// that aggregates over a MockTransactionRepository
type MockReportRepository struct {
	Transactions *MockTransactionRepository
	SumByKindFn  func(ctx context.Context, tenantID int32, start, end time.Time) (*domain.KindTotals, error)
	SumByDayFn   func(ctx context.Context, tenantID int32, start, end time.Time) ([]*domain.DailyTotal, error)
}

// NewMockReportRepository creates a new MockReportRepository
func NewMockReportRepository(transactions *MockTransactionRepository) *MockReportRepository {
	return &MockReportRepository{Transactions: transactions}
}

func (m *MockReportRepository) inRange(tenantID int32, start, end time.Time) []*domain.Transaction {
	return m.Transactions.filter(func(t *domain.Transaction) bool {
		return t.TenantID == tenantID && !t.Date.Before(start) && !t.Date.After(end)
	})
}

// SumByKind totals income and expense in [start, end]
func (m *MockReportRepository) SumByKind(ctx context.Context, tenantID int32, start, end time.Time) (*domain.KindTotals, error) {
	if m.SumByKindFn != nil {
		return m.SumByKindFn(ctx, tenantID, start, end)
	}
	totals := &domain.KindTotals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range m.inRange(tenantID, start, end) {
		if t.Kind == domain.KindIncome {
			totals.Income = totals.Income.Add(t.Amount)
		} else {
			totals.Expense = totals.Expense.Add(t.Amount)
		}
	}
	return totals, nil
}

// SumExpensesByCategory totals expenses per category, largest first
func (m *MockReportRepository) SumExpensesByCategory(ctx context.Context, tenantID int32, start, end time.Time) ([]*domain.CategoryTotal, error) {
	byCategory := make(map[int32]*domain.CategoryTotal)
	for _, t := range m.inRange(tenantID, start, end) {
		if t.Kind != domain.KindExpense {
			continue
		}
		ct, ok := byCategory[t.CategoryID]
		if !ok {
			ct = &domain.CategoryTotal{CategoryID: t.CategoryID, CategoryName: t.CategoryName, Total: decimal.Zero}
			byCategory[t.CategoryID] = ct
		}
		ct.Total = ct.Total.Add(t.Amount)
	}

	result := make([]*domain.CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		result = append(result, ct)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Total.Equal(result[j].Total) {
			return result[i].CategoryName < result[j].CategoryName
		}
		return result[i].Total.GreaterThan(result[j].Total)
	})
	return result, nil
}

// SumByDay returns one row per date with data, ascending
func (m *MockReportRepository) SumByDay(ctx context.Context, tenantID int32, start, end time.Time) ([]*domain.DailyTotal, error) {
	if m.SumByDayFn != nil {
		return m.SumByDayFn(ctx, tenantID, start, end)
	}
	byDate := make(map[time.Time]*domain.DailyTotal)
	for _, t := range m.inRange(tenantID, start, end) {
		d, ok := byDate[t.Date]
		if !ok {
			d = &domain.DailyTotal{Date: t.Date, Income: decimal.Zero, Expense: decimal.Zero}
			byDate[t.Date] = d
		}
		if t.Kind == domain.KindIncome {
			d.Income = d.Income.Add(t.Amount)
		} else {
			d.Expense = d.Expense.Add(t.Amount)
		}
	}

	result := make([]*domain.DailyTotal, 0, len(byDate))
	for _, d := range byDate {
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// SumByMonth returns one row per month of year with data
func (m *MockReportRepository) SumByMonth(ctx context.Context, tenantID int32, year int) ([]*domain.MonthTotals, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	byMonth := make(map[int]*domain.MonthTotals)
	for _, t := range m.inRange(tenantID, start, end) {
		month := int(t.Date.Month())
		mt, ok := byMonth[month]
		if !ok {
			mt = &domain.MonthTotals{Year: year, Month: month, Totals: domain.KindTotals{Income: decimal.Zero, Expense: decimal.Zero}}
			byMonth[month] = mt
		}
		if t.Kind == domain.KindIncome {
			mt.Totals.Income = mt.Totals.Income.Add(t.Amount)
		} else {
			mt.Totals.Expense = mt.Totals.Expense.Add(t.Amount)
		}
	}

	result := make([]*domain.MonthTotals, 0, len(byMonth))
	for _, mt := range byMonth {
		result = append(result, mt)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result, nil
}
