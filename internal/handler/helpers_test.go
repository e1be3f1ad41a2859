package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/dafibh/fortuna/ledger-backend/internal/middleware"
	"github.com/dafibh/fortuna/ledger-backend/internal/service"
	"github.com/dafibh/fortuna/ledger-backend/internal/testutil"
	"github.com/labstack/echo/v4"
)

// Helper to set up auth context without a tenant
func setupAuthContext(c echo.Context, tenantKey string) {
	setupAuthContextWithTenant(c, tenantKey, 0)
}

// Helper to set up auth context with tenant ID
func setupAuthContextWithTenant(c echo.Context, tenantKey string, tenantID int32) {
	claims := &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Subject: tenantKey,
		},
		CustomClaims: &middleware.CustomClaims{Email: "test@example.com"},
	}
	ctx := context.WithValue(c.Request().Context(), middleware.ClaimsKey, claims)
	ctx = context.WithValue(ctx, middleware.TenantKeyKey, tenantKey)
	if tenantID > 0 {
		ctx = context.WithValue(ctx, middleware.TenantIDKey, tenantID)
	}
	c.SetRequest(c.Request().WithContext(ctx))
}

// newTestContext builds an echo context for a JSON request authenticated as tenant 1
func newTestContext(method, target string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContextWithTenant(c, "auth0|test", 1)
	return c, rec
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

// ledgerServices wires real services over shared in-memory mocks
type ledgerServices struct {
	categories   *testutil.MockCategoryRepository
	transactions *testutil.MockTransactionRepository
	reports      *testutil.MockReportRepository

	category    *service.CategoryService
	transaction *service.TransactionService
	report      *service.ReportService
}

func newLedgerServices(t *testing.T) *ledgerServices {
	t.Helper()
	categories, transactions, reports := testutil.NewMockLedger()
	return &ledgerServices{
		categories:   categories,
		transactions: transactions,
		reports:      reports,
		category:     service.NewCategoryService(categories),
		transaction:  service.NewTransactionService(transactions, categories),
		report:       service.NewReportService(reports),
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rec.Code != expected {
		t.Fatalf("Expected status %d, got %d: %s", expected, rec.Code, rec.Body.String())
	}
}

func currentMonthDate(day int) string {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, time.UTC).Format(dateLayout)
}

func itoa(id int32) string {
	return strconv.Itoa(int(id))
}
