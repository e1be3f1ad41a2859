package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dafibh/fortuna/ledger-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantField  string
	}{
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest, ErrorTypeValidation, "amount"},
		{"wrapped kind", fmt.Errorf("create: %w", domain.ErrInvalidKind), http.StatusBadRequest, ErrorTypeValidation, "kind"},
		{"date range", domain.ErrInvalidDateRange, http.StatusBadRequest, ErrorTypeValidation, "startDate"},
		{"tenant key too long", domain.ErrTenantKeyTooLong, http.StatusBadRequest, ErrorTypeValidation, "tenantKey"},
		{"name too long", domain.ErrNameTooLong, http.StatusBadRequest, ErrorTypeValidation, "name"},
		{"category not found", domain.ErrCategoryNotFound, http.StatusNotFound, ErrorTypeNotFound, ""},
		{"transaction not found", domain.ErrTransactionNotFound, http.StatusNotFound, ErrorTypeNotFound, ""},
		{"duplicate", domain.ErrCategoryAlreadyExists, http.StatusConflict, ErrorTypeDuplicateName, ""},
		{"in use", domain.ErrCategoryInUse, http.StatusConflict, ErrorTypeInUse, ""},
		{"inactive tenant", domain.ErrTenantInactive, http.StatusForbidden, ErrorTypeForbidden, ""},
		{"storage", domain.NewStorageError("get category", errors.New("dial tcp: refused")), http.StatusServiceUnavailable, ErrorTypeUnavailable, ""},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ErrorTypeInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext(http.MethodGet, "/api/v1/anything", nil)

			require.NoError(t, handleServiceError(c, tt.err, "do something"))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var problem ProblemDetails
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, tt.wantStatus, problem.Status)
			if tt.wantField != "" {
				require.Len(t, problem.Errors, 1)
				assert.Equal(t, tt.wantField, problem.Errors[0].Field)
			}
		})
	}
}

func TestHandleServiceError_InternalHidesDetail(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/api/v1/anything", nil)

	require.NoError(t, handleServiceError(c, errors.New("pq: secret internals"), "load report"))
	assert.NotContains(t, rec.Body.String(), "secret internals")
	assert.Contains(t, rec.Body.String(), "Failed to load report")
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "", capitalize(""))
	assert.Equal(t, "Category not found", capitalize("category not found"))
	assert.Equal(t, "Already", capitalize("Already"))
}
