package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"driverrating/services"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// DashboardTable serves the admin pivot: one row per (survey, driver)
// pair, with optional survey_id/driver_id filters.
func (h *ReportHandler) DashboardTable(c *gin.Context) {
	surveyID, ok := optionalIDQuery(c, "survey_id")
	if !ok {
		return
	}
	driverID, ok := optionalIDQuery(c, "driver_id")
	if !ok {
		return
	}

	rows, err := h.reportService.DashboardTable(surveyID, driverID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

func (h *ReportHandler) SurveyResults(c *gin.Context) {
	surveyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid survey ID"})
		return
	}

	results, err := h.reportService.SurveyResults(uint(surveyID))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Survey not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *ReportHandler) SurveysOverview(c *gin.Context) {
	overviews, err := h.reportService.SurveysOverview()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, overviews)
}

// optionalIDQuery parses a numeric query parameter, treating absence as
// zero. A malformed value aborts the request with a 400.
func optionalIDQuery(c *gin.Context, name string) (uint, bool) {
	value := c.Query(name)
	if value == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
