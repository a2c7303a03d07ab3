package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"intakeflow/internal/pkg/jwt"
)

const (
	ctxFirmID = "firm_id"
	ctxRole   = "role"
	ctxSub    = "operator"
)

// JWTAuth requires a valid operator token and stores its firm id on the
// context. The token is read from the Authorization header, or from the
// "token" query parameter for websocket upgrades where browsers cannot set
// headers.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "Authentication required"},
			})
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "INVALID_TOKEN", "message": "Invalid or expired token"},
			})
			return
		}

		c.Set(ctxFirmID, claims.FirmUUID())
		c.Set(ctxRole, claims.Role)
		c.Set(ctxSub, claims.Subject)
		c.Next()
	}
}

// FirmID returns the firm the authenticated operator belongs to.
func FirmID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ctxFirmID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return strings.TrimSpace(c.Query("token"))
}
