package intake

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the public intake routes. No authentication: the
// firm slug in the link is the only context a client carries.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	intake := r.Group("/intake")
	{
		intake.GET("/options", h.Options)
		intake.POST("/:firmSlug/sessions", h.StartSession)

		sessions := intake.Group("/sessions")
		sessions.GET("/:id", h.GetSession)
		sessions.PATCH("/:id", h.UpdateDraft)
		sessions.POST("/:id/advance", h.Advance)
		sessions.POST("/:id/retreat", h.Retreat)
		sessions.POST("/:id/submit", h.Submit)
	}
}
