package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intakeflow/internal/pkg/jwt"
	"intakeflow/internal/pkg/response"
)

// RequireRole ensures that the authenticated caller has the specified role
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ctxRole)
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		if role != requiredRole {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// OperatorOnly requires a firm operator token.
func OperatorOnly() gin.HandlerFunc {
	return RequireRole(jwt.RoleOperator)
}
