package firm

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"intakeflow/internal/middleware"
	"intakeflow/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetSettings handles GET /api/v1/dashboard/settings
// @Summary Get firm settings
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response{data=SettingsResponse}
// @Router /dashboard/settings [get]
func (h *Handler) GetSettings(c *gin.Context) {
	firmID, ok := middleware.FirmID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	settings, err := h.service.Settings(c.Request.Context(), firmID)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, settings)
}

// UpdateSettings handles PUT /api/v1/dashboard/settings
// @Summary Update firm settings
// @Tags Dashboard
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body UpdateSettingsRequest true "Settings"
// @Success 200 {object} response.Response{data=SettingsResponse}
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /dashboard/settings [put]
func (h *Handler) UpdateSettings(c *gin.Context) {
	firmID, ok := middleware.FirmID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	settings, err := h.service.UpdateSettings(c.Request.Context(), firmID, req)
	if err != nil {
		if errors.Is(err, ErrSlugTaken) {
			response.Error(c, http.StatusConflict, "SLUG_TAKEN", "This intake link is already in use")
			return
		}
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, settings)
}
