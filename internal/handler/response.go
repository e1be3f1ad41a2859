package handler

import (
	"errors"
	"net/http"

	"github.com/dafibh/fortuna/ledger-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation    = "https://fortuna.app/errors/validation"
	ErrorTypeNotFound      = "https://fortuna.app/errors/not-found"
	ErrorTypeUnauthorized  = "https://fortuna.app/errors/unauthorized"
	ErrorTypeForbidden     = "https://fortuna.app/errors/forbidden"
	ErrorTypeConflict      = "https://fortuna.app/errors/conflict"
	ErrorTypeDuplicateName = "https://fortuna.app/errors/duplicate-name"
	ErrorTypeInUse         = "https://fortuna.app/errors/in-use"
	ErrorTypeUnavailable   = "https://fortuna.app/errors/unavailable"
	ErrorTypeInternal      = "https://fortuna.app/errors/internal"
)

// dateLayout is the wire format of calendar dates
const dateLayout = "2006-01-02"

func problem(c echo.Context, status int, errorType, title, detail string) error {
	return c.JSON(status, ProblemDetails{
		Type:     errorType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return problem(c, http.StatusNotFound, ErrorTypeNotFound, "Not Found", detail)
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return problem(c, http.StatusUnauthorized, ErrorTypeUnauthorized, "Unauthorized", detail)
}

// NewForbiddenError creates a forbidden error response
func NewForbiddenError(c echo.Context, detail string) error {
	return problem(c, http.StatusForbidden, ErrorTypeForbidden, "Forbidden", detail)
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return problem(c, http.StatusConflict, ErrorTypeConflict, "Conflict", detail)
}

// NewDuplicateNameError creates a conflict response for a name already taken in the tenant
func NewDuplicateNameError(c echo.Context, detail string) error {
	return problem(c, http.StatusConflict, ErrorTypeDuplicateName, "Duplicate Name", detail)
}

// NewInUseError creates a conflict response for an entity still referenced by others
func NewInUseError(c echo.Context, detail string) error {
	return problem(c, http.StatusConflict, ErrorTypeInUse, "Resource In Use", detail)
}

// NewUnavailableError creates a service unavailable error response
func NewUnavailableError(c echo.Context, detail string) error {
	return problem(c, http.StatusServiceUnavailable, ErrorTypeUnavailable, "Service Unavailable", detail)
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return problem(c, http.StatusInternalServerError, ErrorTypeInternal, "Internal Server Error", detail)
}

// fieldErrors maps validation sentinels to the request field they concern
var fieldErrors = []struct {
	err     error
	field   string
	message string
}{
	{domain.ErrNameRequired, "name", "Name is required"},
	{domain.ErrNameTooLong, "name", "Name must be 100 characters or less"},
	{domain.ErrInvalidKind, "kind", "Kind must be one of: income, expense"},
	{domain.ErrInvalidAmount, "amount", "Amount must be positive, at most 999999999999.99, and at least 0.01 per installment"},
	{domain.ErrInvalidInstallmentCount, "installmentCount", "Installment count must be 0 or between 2 and 360"},
	{domain.ErrDescriptionTooLong, "description", "Description must be 500 characters or less"},
	{domain.ErrInvalidDateRange, "startDate", "Start date must not be after end date"},
	{domain.ErrDateRequired, "date", "Date is required"},
	{domain.ErrTenantKeyRequired, "tenantKey", "Tenant key is required"},
	{domain.ErrTenantKeyTooLong, "tenantKey", "Tenant key must be 255 characters or less"},
}

// handleServiceError maps a service error to an RFC 7807 response by its class
func handleServiceError(c echo.Context, err error, action string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		for _, fe := range fieldErrors {
			if errors.Is(err, fe.err) {
				return NewValidationError(c, "Validation failed", []ValidationError{
					{Field: fe.field, Message: fe.message},
				})
			}
		}
		return NewValidationError(c, err.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, capitalize(err.Error()))
	case errors.Is(err, domain.ErrAlreadyExists):
		return NewDuplicateNameError(c, "A category with this name already exists")
	case errors.Is(err, domain.ErrConflict):
		return NewInUseError(c, "Category is referenced by transactions and cannot be deleted")
	case errors.Is(err, domain.ErrUnauthorized):
		return NewForbiddenError(c, capitalize(err.Error()))
	case errors.Is(err, domain.ErrStorage):
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Storage unavailable")
		return NewUnavailableError(c, "Storage is temporarily unavailable, please retry")
	default:
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Unhandled error")
		return NewInternalError(c, "Failed to "+action)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
