package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"driverrating/services"

	"github.com/gin-gonic/gin"
)

type ChoiceHandler struct {
	choiceService *services.ChoiceService
}

func NewChoiceHandler(choiceService *services.ChoiceService) *ChoiceHandler {
	return &ChoiceHandler{
		choiceService: choiceService,
	}
}

func (h *ChoiceHandler) GetChoices(c *gin.Context) {
	choices, err := h.choiceService.GetChoices()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, choices)
}

func (h *ChoiceHandler) GetChoiceByID(c *gin.Context) {
	choiceID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid choice ID"})
		return
	}

	choice, err := h.choiceService.GetChoiceByID(uint(choiceID))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Choice not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, choice)
}

func (h *ChoiceHandler) CreateChoice(c *gin.Context) {
	var req services.CreateChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	choice, err := h.choiceService.CreateChoice(&req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "question does not exist"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, choice)
}

func (h *ChoiceHandler) UpdateChoice(c *gin.Context) {
	choiceID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid choice ID"})
		return
	}

	var req services.UpdateChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	choice, err := h.choiceService.UpdateChoice(uint(choiceID), &req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Choice not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, choice)
}

func (h *ChoiceHandler) DeleteChoice(c *gin.Context) {
	choiceID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid choice ID"})
		return
	}

	if err := h.choiceService.DeleteChoice(uint(choiceID)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Choice not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Choice deleted successfully"})
}
