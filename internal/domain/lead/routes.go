package lead

import "github.com/gin-gonic/gin"

// RegisterRoutes registers lead routes under the operator dashboard group
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	leads := r.Group("/leads")
	{
		leads.GET("", h.ListLeads)
		leads.GET("/:id", h.GetLead)
		leads.PATCH("/:id", h.UpdateLead)
	}
}
