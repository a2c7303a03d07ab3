package firm

import "github.com/gin-gonic/gin"

// RegisterRoutes registers settings routes under the operator dashboard group
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/settings", h.GetSettings)
	r.PUT("/settings", h.UpdateSettings)
}
