package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dafibh/fortuna/ledger-backend/internal/domain"
	"github.com/dafibh/fortuna/ledger-backend/internal/middleware"
	"github.com/dafibh/fortuna/ledger-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	CategoryID       int32   `json:"categoryId"`
	Amount           string  `json:"amount"`
	Date             *string `json:"date,omitempty"`
	Kind             string  `json:"kind"`
	Description      string  `json:"description"`
	InstallmentCount int     `json:"installmentCount"`
}

// UpdateTransactionRequest represents the update transaction request body
type UpdateTransactionRequest struct {
	CategoryID  int32  `json:"categoryId"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID                 int32   `json:"id"`
	TenantID           int32   `json:"tenantId"`
	CategoryID         int32   `json:"categoryId"`
	CategoryName       string  `json:"categoryName"`
	Amount             string  `json:"amount"`
	Date               string  `json:"date"`
	Kind               string  `json:"kind"`
	Description        string  `json:"description"`
	InstallmentIndex   int32   `json:"installmentIndex"`
	InstallmentCount   int32   `json:"installmentCount"`
	InstallmentGroupID *string `json:"installmentGroupId,omitempty"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

// CreateTransactionResponse lists the stored rows; GroupID is set for installment groups
type CreateTransactionResponse struct {
	GroupID      *string               `json:"groupId,omitempty"`
	Transactions []TransactionResponse `json:"transactions"`
}

// UpdateTransactionResponse carries the updated row and an optional notice
type UpdateTransactionResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Notice      string              `json:"notice,omitempty"`
}

// DeleteTransactionResponse reports how many rows were removed
type DeleteTransactionResponse struct {
	Deleted int64 `json:"deleted"`
}

// parseDateRangeQuery reads startDate/endDate. Both absent yields nil; one without the other is invalid.
func parseDateRangeQuery(c echo.Context) (*domain.DateRange, []ValidationError) {
	startStr := c.QueryParam("startDate")
	endStr := c.QueryParam("endDate")
	if startStr == "" && endStr == "" {
		return nil, nil
	}

	var errs []ValidationError
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		errs = append(errs, ValidationError{Field: "startDate", Message: "Must be in YYYY-MM-DD format"})
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		errs = append(errs, ValidationError{Field: "endDate", Message: "Must be in YYYY-MM-DD format"})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return &domain.DateRange{Start: start, End: end}, nil
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Create an income or expense transaction, optionally split into installments
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "Transaction creation request"
// @Success 201 {object} CreateTransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	tenantID := middleware.GetTenantID(c)
	if tenantID == 0 {
		return NewUnauthorizedError(c, "Tenant required")
	}

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if req.CategoryID <= 0 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "categoryId", Message: "Category ID is required"},
		})
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	// Parse transaction date if provided
	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		date = &parsed
	}

	result, err := h.transactionService.CreateTransaction(c.Request().Context(), tenantID, service.CreateTransactionInput{
		CategoryID:       req.CategoryID,
		Amount:           amount,
		Date:             date,
		Kind:             domain.Kind(req.Kind),
		Description:      req.Description,
		InstallmentCount: req.InstallmentCount,
	})
	if err != nil {
		return handleServiceError(c, err, "create transaction")
	}

	response := CreateTransactionResponse{Transactions: toTransactionResponses(result.Transactions)}
	if result.GroupID != nil {
		groupID := result.GroupID.String()
		response.GroupID = &groupID
	}

	log.Info().Int32("tenant_id", tenantID).Int("rows", len(result.Transactions)).Msg("Transaction created")

	return c.JSON(http.StatusCreated, response)
}

// GetTransactions godoc
// @Summary List transactions
// @Description List transactions newest first, optionally within an inclusive date range
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD)"
// @Success 200 {array} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Router /transactions [get]
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	tenantID := middleware.GetTenantID(c)
	if tenantID == 0 {
		return NewUnauthorizedError(c, "Tenant required")
	}

	dateRange, errs := parseDateRangeQuery(c)
	if errs != nil {
		return NewValidationError(c, "Invalid date range", errs)
	}

	transactions, err := h.transactionService.GetTransactions(c.Request().Context(), tenantID, dateRange)
	if err != nil {
		return handleServiceError(c, err, "get transactions")
	}

	return c.JSON(http.StatusOK, toTransactionResponses(transactions))
}

// GetTransaction handles GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	tenantID := middleware.GetTenantID(c)
	if tenantID == 0 {
		return NewUnauthorizedError(c, "Tenant required")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransactionByID(c.Request().Context(), tenantID, id)
	if err != nil {
		return handleServiceError(c, err, "get transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// GetInstallmentGroup handles GET /api/v1/transactions/groups/:groupId
func (h *TransactionHandler) GetInstallmentGroup(c echo.Context) error {
	tenantID := middleware.GetTenantID(c)
	if tenantID == 0 {
		return NewUnauthorizedError(c, "Tenant required")
	}

	groupID, err := uuid.Parse(c.Param("groupId"))
	if err != nil {
		return NewValidationError(c, "Invalid group ID", nil)
	}

	rows, err := h.transactionService.GetInstallmentGroup(c.Request().Context(), tenantID, groupID)
	if err != nil {
		return handleServiceError(c, err, "get installment group")
	}

	return c.JSON(http.StatusOK, toTransactionResponses(rows))
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Description Update one transaction row. Installment siblings are never modified.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param request body UpdateTransactionRequest true "Transaction update request"
// @Success 200 {object} UpdateTransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	tenantID := middleware.GetTenantID(c)
	if tenantID == 0 {
		return NewUnauthorizedError(c, "Tenant required")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	result, err := h.transactionService.UpdateTransaction(c.Request().Context(), tenantID, id, service.UpdateTransactionInput{
		CategoryID:  req.CategoryID,
		Amount:      amount,
		Date:        date,
		Kind:        domain.Kind(req.Kind),
		Description: req.Description,
	})
	if err != nil {
		return handleServiceError(c, err, "update transaction")
	}

	return c.JSON(http.StatusOK, UpdateTransactionResponse{
		Transaction: toTransactionResponse(result.Transaction),
		Notice:      result.Notice,
	})
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Description Delete one transaction, or its whole installment group with deleteGroup=true
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param deleteGroup query bool false "Delete every installment of the group"
// @Success 200 {object} DeleteTransactionResponse
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	tenantID := middleware.GetTenantID(c)
	if tenantID == 0 {
		return NewUnauthorizedError(c, "Tenant required")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	deleteGroup := false
	if s := c.QueryParam("deleteGroup"); s != "" {
		parsed, err := strconv.ParseBool(s)
		if err != nil {
			return NewValidationError(c, "Invalid deleteGroup (must be true or false)", nil)
		}
		deleteGroup = parsed
	}

	deleted, err := h.transactionService.DeleteTransaction(c.Request().Context(), tenantID, id, deleteGroup)
	if err != nil {
		return handleServiceError(c, err, "delete transaction")
	}

	log.Info().Int32("tenant_id", tenantID).Int32("transaction_id", id).Int64("deleted", deleted).Msg("Transaction deleted")
	return c.JSON(http.StatusOK, DeleteTransactionResponse{Deleted: deleted})
}

func toTransactionResponses(transactions []*domain.Transaction) []TransactionResponse {
	response := make([]TransactionResponse, len(transactions))
	for i, transaction := range transactions {
		response[i] = toTransactionResponse(transaction)
	}
	return response
}

// Helper function to convert domain.Transaction to TransactionResponse
func toTransactionResponse(transaction *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:               transaction.ID,
		TenantID:         transaction.TenantID,
		CategoryID:       transaction.CategoryID,
		CategoryName:     transaction.CategoryName,
		Amount:           transaction.Amount.StringFixed(2),
		Date:             transaction.Date.Format(dateLayout),
		Kind:             string(transaction.Kind),
		Description:      transaction.Description,
		InstallmentIndex: transaction.InstallmentIndex,
		InstallmentCount: transaction.InstallmentCount,
		CreatedAt:        transaction.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        transaction.UpdatedAt.Format(time.RFC3339),
	}
	if transaction.InstallmentGroupID != nil {
		groupID := transaction.InstallmentGroupID.String()
		resp.InstallmentGroupID = &groupID
	}
	return resp
}
