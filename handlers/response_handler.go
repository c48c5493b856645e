package handlers

import (
	"errors"
	"net/http"

	"driverrating/services"

	"github.com/gin-gonic/gin"
)

type ResponseHandler struct {
	submissionService *services.SubmissionService
	hub               *services.Hub
}

func NewResponseHandler(submissionService *services.SubmissionService, hub *services.Hub) *ResponseHandler {
	return &ResponseHandler{
		submissionService: submissionService,
		hub:               hub,
	}
}

// SubmitResponse records a public survey submission. Validation failures
// report 400, a duplicate (survey, driver) pair reports 409, and nothing
// is written unless the whole submission goes through.
func (h *ResponseHandler) SubmitResponse(c *gin.Context) {
	var req services.CreateResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.submissionService.CreateResponse(c.ClientIP(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSurveyNotFound), errors.Is(err, services.ErrDriverNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAlreadySubmitted):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	// Notify any connected admin dashboards.
	if h.hub != nil {
		h.hub.BroadcastResponseSubmitted(response)
	}

	c.JSON(http.StatusCreated, gin.H{"id": response.ID})
}

// DeleteResponses bulk-deletes responses matching the optional survey and
// driver filters and reports how many were removed.
func (h *ResponseHandler) DeleteResponses(c *gin.Context) {
	var req services.DeleteResponsesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deleted, err := h.submissionService.DeleteResponses(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted_responses": deleted})
}
