package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sendiab_backend/internal/auth"
	"sendiab_backend/internal/logger"
	"sendiab_backend/internal/models"
)

const (
	accountIDKey = "accountID"
	roleKey      = "role"
)

// AuthMiddleware validates the bearer token and stores the principal in
// the gin context and the request context.
func AuthMiddleware(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.Parse(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(accountIDKey, claims.AccountID)
		c.Set(roleKey, claims.Role)

		ctx := logger.WithAccountID(c.Request.Context(), claims.AccountID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole gates a route group to one role.
func RequireRole(required models.AccountRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(roleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: no role"})
			return
		}

		roleStr, ok := roleVal.(string)
		if !ok || models.AccountRole(roleStr) != required {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient permissions"})
			return
		}
		c.Next()
	}
}

// GetAccountID extracts the authenticated account ID from the context.
func GetAccountID(c *gin.Context) string {
	val, exists := c.Get(accountIDKey)
	if !exists {
		return ""
	}
	id, ok := val.(string)
	if !ok {
		return ""
	}
	return id
}
