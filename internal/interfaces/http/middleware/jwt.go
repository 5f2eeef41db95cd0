package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/commerceos/backend/internal/infrastructure/auth"
	"github.com/commerceos/backend/internal/infrastructure/logger"
	"github.com/commerceos/backend/internal/interfaces/http/dto"
)

// Context keys for JWT claims
const (
	ContextKeyJWTClaims = "jwt_claims"
	ContextKeyUserID    = "jwt_user_id"
	ContextKeyTenantID  = "jwt_tenant_id"
)

// JWTAuthConfig holds JWT middleware configuration
type JWTAuthConfig struct {
	Service   *auth.JWTService
	SkipPaths []string
}

// JWTAuth returns a middleware that validates Bearer tokens and puts the
// claims on the request context. Paths in SkipPaths bypass validation,
// matched by prefix so webhook subtrees can be excluded as a group.
func JWTAuth(cfg JWTAuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, path := range cfg.SkipPaths {
			if strings.HasPrefix(c.Request.URL.Path, path) {
				c.Next()
				return
			}
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			handleAuthError(c, dto.ErrCodeUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			handleAuthError(c, dto.ErrCodeUnauthorized, "invalid authorization header format")
			return
		}

		claims, err := cfg.Service.ValidateToken(parts[1])
		if err != nil {
			message := "invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				message = "token has expired"
			}
			handleAuthError(c, dto.ErrCodeUnauthorized, message)
			return
		}

		c.Set(ContextKeyJWTClaims, claims)
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyTenantID, claims.TenantID)

		// enrich the request context so downstream logs carry the tenant
		ctx, _ := logger.WithTenantID(c.Request.Context(), logger.FromContext(c.Request.Context()), claims.TenantID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func handleAuthError(c *gin.Context, code, message string) {
	requestID := c.GetString("request_id")
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// GetJWTClaims returns the validated claims for the current request
func GetJWTClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(ContextKeyJWTClaims)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

// GetJWTTenantID returns the tenant ID from the validated claims
func GetJWTTenantID(c *gin.Context) (uuid.UUID, bool) {
	claims, ok := GetJWTClaims(c)
	if !ok {
		return uuid.Nil, false
	}
	tenantID, err := claims.GetTenantUUID()
	if err != nil {
		return uuid.Nil, false
	}
	return tenantID, true
}

// GetJWTUserID returns the user ID from the validated claims
func GetJWTUserID(c *gin.Context) (uuid.UUID, bool) {
	claims, ok := GetJWTClaims(c)
	if !ok {
		return uuid.Nil, false
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}
