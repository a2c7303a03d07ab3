package intake

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"intakeflow/internal/domain"
	"intakeflow/internal/pkg/response"
)

// Handler handles public intake HTTP requests
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// StartSession handles POST /api/v1/intake/:firmSlug/sessions
// @Summary Start an intake session
// @Tags Intake
// @Produce json
// @Param firmSlug path string true "Firm slug"
// @Success 201 {object} response.Response{data=View}
// @Failure 404 {object} response.Response
// @Router /intake/{firmSlug}/sessions [post]
func (h *Handler) StartSession(c *gin.Context) {
	v, err := h.service.Start(c.Request.Context(), c.Param("firmSlug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, v)
}

// GetSession handles GET /api/v1/intake/sessions/:id
// @Summary Get intake session state
// @Tags Intake
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Response{data=View}
// @Failure 404 {object} response.Response
// @Router /intake/sessions/{id} [get]
func (h *Handler) GetSession(c *gin.Context) {
	v, err := h.service.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, v)
}

// UpdateDraft handles PATCH /api/v1/intake/sessions/:id
// @Summary Merge answers into the draft
// @Tags Intake
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body domain.DraftPatch true "Partial draft"
// @Success 200 {object} response.Response{data=View}
// @Failure 422 {object} response.Response
// @Router /intake/sessions/{id} [patch]
func (h *Handler) UpdateDraft(c *gin.Context) {
	var patch domain.DraftPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	v, err := h.service.Update(c.Param("id"), patch)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			// the rest of the patch was applied; hand back the state with the error
			c.JSON(http.StatusUnprocessableEntity, response.Response{
				Data:  v,
				Error: &response.ErrorBody{Code: "VALIDATION_ERROR", Message: "Validation failed", Details: verr.Fields},
			})
			return
		}
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, v)
}

// Advance handles POST /api/v1/intake/sessions/:id/advance
// @Summary Move to the next step
// @Tags Intake
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Response{data=View}
// @Router /intake/sessions/{id}/advance [post]
func (h *Handler) Advance(c *gin.Context) {
	v, err := h.service.Advance(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, v)
}

// Retreat handles POST /api/v1/intake/sessions/:id/retreat
// @Summary Move to the previous step
// @Tags Intake
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Response{data=View}
// @Router /intake/sessions/{id}/retreat [post]
func (h *Handler) Retreat(c *gin.Context) {
	v, err := h.service.Retreat(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, v)
}

// Submit handles POST /api/v1/intake/sessions/:id/submit
// @Summary Submit the completed questionnaire
// @Tags Intake
// @Produce json
// @Param id path string true "Session ID"
// @Success 201 {object} response.Response{data=View}
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /intake/sessions/{id}/submit [post]
func (h *Handler) Submit(c *gin.Context) {
	v, err := h.service.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, v)
}

// Options handles GET /api/v1/intake/options
// @Summary List questionnaire option sets
// @Tags Intake
// @Produce json
// @Success 200 {object} response.Response{data=OptionsResponse}
// @Router /intake/options [get]
func (h *Handler) Options(c *gin.Context) {
	response.Success(c, http.StatusOK, NewOptionsResponse())
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Intake session not found")
	case errors.Is(err, ErrSessionClosed):
		response.Error(c, http.StatusConflict, "SESSION_SUBMITTED", "This intake has already been submitted")
	case errors.Is(err, ErrNotAtLastStep):
		response.Error(c, http.StatusConflict, "NOT_AT_LAST_STEP", "Complete every step before submitting")
	default:
		response.DomainError(c, err)
	}
}
