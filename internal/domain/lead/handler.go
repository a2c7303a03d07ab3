package lead

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"intakeflow/internal/domain"
	"intakeflow/internal/middleware"
	"intakeflow/internal/pkg/response"
)

// Handler handles operator lead HTTP requests
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListLeads handles GET /api/v1/dashboard/leads
// @Summary List leads
// @Description Most recent first, optionally filtered by status or score
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(new, contacted, scheduled, converted, not_fit, closed)
// @Param score query string false "Filter by score" Enums(hot, qualified, unqualified)
// @Param limit query int false "Limit" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} response.Response{data=LeadListResponse}
// @Failure 422 {object} response.Response
// @Router /dashboard/leads [get]
func (h *Handler) ListLeads(c *gin.Context) {
	firmID, ok := middleware.FirmID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var f ListFilter
	if s := c.Query("status"); s != "" {
		st, ok := domain.ParseLeadStatus(s)
		if !ok {
			response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", gin.H{"status": "lead_status"})
			return
		}
		f.Status = &st
	}
	if s := c.Query("score"); s != "" {
		tier, ok := domain.ParseTier(s)
		if !ok {
			response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", gin.H{"score": "tier"})
			return
		}
		f.Score = &tier
	}
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			f.Limit = v
		}
	}
	if o := c.Query("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			f.Offset = v
		}
	}

	resp, err := h.service.List(c.Request.Context(), firmID, f)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// GetLead handles GET /api/v1/dashboard/leads/:id
// @Summary Get lead by ID
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 200 {object} response.Response{data=domain.Lead}
// @Failure 404 {object} response.Response
// @Router /dashboard/leads/{id} [get]
func (h *Handler) GetLead(c *gin.Context) {
	firmID, id, ok := h.ids(c)
	if !ok {
		return
	}

	lead, err := h.service.Get(c.Request.Context(), firmID, id)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, lead)
}

// UpdateLead handles PATCH /api/v1/dashboard/leads/:id
// @Summary Update lead status or notes
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Param request body UpdateLeadRequest true "Status and/or notes"
// @Success 200 {object} response.Response{data=domain.Lead}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /dashboard/leads/{id} [patch]
func (h *Handler) UpdateLead(c *gin.Context) {
	firmID, id, ok := h.ids(c)
	if !ok {
		return
	}

	var req UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	lead, err := h.service.Update(c.Request.Context(), firmID, id, req)
	if err != nil {
		if errors.Is(err, ErrEmptyUpdate) {
			response.Error(c, http.StatusBadRequest, "EMPTY_UPDATE", "Provide status or notes")
			return
		}
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, lead)
}

func (h *Handler) ids(c *gin.Context) (firmID, id uuid.UUID, ok bool) {
	firmID, ok = middleware.FirmID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return uuid.Nil, uuid.Nil, false
	}
	return firmID, id, true
}
