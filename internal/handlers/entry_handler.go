package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gwlabs/giveaway-backend/internal/services"
)

// EntryHandler handles entry HTTP requests
type EntryHandler struct {
	entryService services.EntryService
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(entryService services.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// Enter handles POST /giveaways/:guildId/entries
func (h *EntryHandler) Enter(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.entryService.Enter(c, c.Param("guildId"), req.UserID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
