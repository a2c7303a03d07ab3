package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"intakeflow/internal/logger"
	"intakeflow/internal/middleware"
	"intakeflow/internal/pkg/response"
)

// Handler serves operator stats and the live dashboard websocket
type Handler struct {
	service  *Service
	hub      *Hub
	upgrader websocket.Upgrader
	log      logger.Logger
}

// NewHandler accepts websocket upgrades from allowedOrigins; "*" allows any.
func NewHandler(service *Service, hub *Hub, allowedOrigins []string, log logger.Logger) *Handler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	return &Handler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origins["*"] || origins[origin]
			},
		},
		log: log,
	}
}

// GetStats handles GET /api/v1/dashboard/stats
// @Summary Current month lead counts
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=RollingStats}
// @Router /dashboard/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	firmID, ok := middleware.FirmID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), firmID)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// HandleWebSocket handles GET /ws/dashboard?token=JWT
//
// The session is started before the upgrade so a failed subscription is
// still reported as a JSON error.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	firmID, ok := middleware.FirmID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	sess := h.service.NewSession(firmID)
	if err := sess.Start(c.Request.Context()); err != nil {
		h.log.Error("dashboard session start failed", "firm_id", firmID, "error", err)
		response.Error(c, http.StatusServiceUnavailable, "STREAM_UNAVAILABLE", "Live updates are unavailable, try again shortly")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		_ = sess.Close()
		h.log.Warn("websocket upgrade failed", "firm_id", firmID, "error", err)
		return
	}

	h.hub.Serve(c.Request.Context(), conn, sess)
}
