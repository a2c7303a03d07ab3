package dashboard

import "github.com/gin-gonic/gin"

// RegisterRoutes registers stats under the authenticated dashboard group
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/stats", h.GetStats)
}

// RegisterWSRoutes registers the live dashboard socket. r must already carry
// the operator auth middleware.
func RegisterWSRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/ws/dashboard", h.HandleWebSocket)
}
