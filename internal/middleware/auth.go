package middleware

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/dafibh/fortuna/ledger-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CustomClaims contains the custom claims from Auth0 JWT
type CustomClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// ClaimsKey is the context key for JWT claims
	ClaimsKey contextKey = "claims"
	// TenantKeyKey is the context key for the tenant key (JWT subject)
	TenantKeyKey contextKey = "tenant_key"
	// TenantIDKey is the context key for the resolved tenant ID
	TenantIDKey contextKey = "tenant_id"
)

// TenantProvider resolves a tenant key to the ID of an active tenant
type TenantProvider interface {
	ResolveTenant(ctx context.Context, tenantKey string) (int32, error)
}

// TokenValidator validates a raw bearer token. *validator.Validator satisfies it.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (interface{}, error)
}

// AuthMiddleware provides JWT validation middleware
type AuthMiddleware struct {
	validator      TokenValidator
	tenantProvider TenantProvider
}

// NewAuthMiddleware creates a new AuthMiddleware with Auth0 configuration
func NewAuthMiddleware(domain, audience string, tenantProvider TenantProvider) (*AuthMiddleware, error) {
	issuerURL, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	return NewAuthMiddlewareWithValidator(jwtValidator, tenantProvider), nil
}

// NewAuthMiddlewareWithValidator creates an AuthMiddleware around an existing validator
func NewAuthMiddlewareWithValidator(tokenValidator TokenValidator, tenantProvider TenantProvider) *AuthMiddleware {
	return &AuthMiddleware{
		validator:      tokenValidator,
		tenantProvider: tenantProvider,
	}
}

// authenticate validates the bearer token and stores claims and tenant key in
// the request context. An empty key means the error response was already written.
func (m *AuthMiddleware) authenticate(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", unauthorizedError(c, "missing authorization header")
	}

	// Check Bearer prefix
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", unauthorizedError(c, "invalid authorization header format")
	}

	claims, err := m.validator.ValidateToken(c.Request().Context(), parts[1])
	if err != nil {
		log.Debug().Err(err).Msg("Token validation failed")
		return "", unauthorizedError(c, "invalid token")
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok || validatedClaims.RegisteredClaims.Subject == "" {
		return "", unauthorizedError(c, "invalid claims")
	}

	tenantKey := validatedClaims.RegisteredClaims.Subject

	ctx := context.WithValue(c.Request().Context(), ClaimsKey, validatedClaims)
	ctx = context.WithValue(ctx, TenantKeyKey, tenantKey)
	c.SetRequest(c.Request().WithContext(ctx))

	return tenantKey, nil
}

// Authenticate returns an Echo middleware that validates JWT tokens and
// resolves the subject to an active tenant
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenantKey, err := m.authenticate(c)
			if tenantKey == "" {
				return err
			}

			tenantID, err := m.tenantProvider.ResolveTenant(c.Request().Context(), tenantKey)
			if err != nil {
				log.Debug().Err(err).Str("tenant_key", tenantKey).Msg("Tenant lookup failed")
				switch {
				case errors.Is(err, domain.ErrTenantNotFound):
					return unauthorizedError(c, "tenant not provisioned")
				case errors.Is(err, domain.ErrTenantInactive):
					return forbiddenError(c, "tenant is inactive")
				default:
					return unavailableError(c, "tenant lookup failed")
				}
			}

			ctx := context.WithValue(c.Request().Context(), TenantIDKey, tenantID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// AuthenticateSubject validates the JWT without requiring a provisioned
// tenant. Used by the provisioning endpoint.
func (m *AuthMiddleware) AuthenticateSubject() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if tenantKey, err := m.authenticate(c); tenantKey == "" {
				return err
			}
			return next(c)
		}
	}
}

// GetTenantKey extracts the tenant key from the context
func GetTenantKey(c echo.Context) string {
	if key, ok := c.Request().Context().Value(TenantKeyKey).(string); ok {
		return key
	}
	return ""
}

// GetClaims extracts the validated claims from the context
func GetClaims(c echo.Context) *validator.ValidatedClaims {
	if claims, ok := c.Request().Context().Value(ClaimsKey).(*validator.ValidatedClaims); ok {
		return claims
	}
	return nil
}

// GetCustomClaims extracts the custom claims from the context
func GetCustomClaims(c echo.Context) *CustomClaims {
	claims := GetClaims(c)
	if claims == nil {
		return nil
	}
	if custom, ok := claims.CustomClaims.(*CustomClaims); ok {
		return custom
	}
	return nil
}

// GetTenantID extracts the tenant ID from the context
func GetTenantID(c echo.Context) int32 {
	if id, ok := c.Request().Context().Value(TenantIDKey).(int32); ok {
		return id
	}
	return 0
}
