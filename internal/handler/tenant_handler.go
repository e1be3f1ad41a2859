package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/fortuna/ledger-backend/internal/domain"
	"github.com/dafibh/fortuna/ledger-backend/internal/middleware"
	"github.com/dafibh/fortuna/ledger-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// TenantHandler handles tenant provisioning requests
type TenantHandler struct {
	tenantService *service.TenantService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *service.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// TenantResponse represents a tenant in API responses
type TenantResponse struct {
	ID        int32  `json:"id"`
	TenantKey string `json:"tenantKey"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt"`
}

// Provision godoc
// @Summary Provision the caller's tenant
// @Description Create the tenant for the authenticated subject and seed its default categories. Idempotent.
// @Tags tenants
// @Produce json
// @Security BearerAuth
// @Success 200 {object} TenantResponse
// @Failure 401 {object} ProblemDetails
// @Router /tenants/provision [post]
func (h *TenantHandler) Provision(c echo.Context) error {
	tenantKey := middleware.GetTenantKey(c)
	if tenantKey == "" {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	tenant, err := h.tenantService.Provision(c.Request().Context(), tenantKey)
	if err != nil {
		return handleServiceError(c, err, "provision tenant")
	}

	log.Info().Int32("tenant_id", tenant.ID).Msg("Tenant provisioned")

	return c.JSON(http.StatusOK, toTenantResponse(tenant))
}

func toTenantResponse(tenant *domain.Tenant) TenantResponse {
	return TenantResponse{
		ID:        tenant.ID,
		TenantKey: tenant.TenantKey,
		IsActive:  tenant.IsActive,
		CreatedAt: tenant.CreatedAt.Format(time.RFC3339),
	}
}
