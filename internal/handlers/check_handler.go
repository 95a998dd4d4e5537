package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gwlabs/giveaway-backend/internal/services"
)

// CheckHandler handles on-demand eligibility check HTTP requests
type CheckHandler struct {
	giveawayService services.GiveawayService
}

// NewCheckHandler creates a new CheckHandler
func NewCheckHandler(giveawayService services.GiveawayService) *CheckHandler {
	return &CheckHandler{giveawayService: giveawayService}
}

// ByUsername handles GET /check/username/:username
func (h *CheckHandler) ByUsername(c *gin.Context) {
	result, err := h.giveawayService.CheckByUsername(c, c.Param("username"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ByUser handles GET /check/user/:userId
func (h *CheckHandler) ByUser(c *gin.Context) {
	result, err := h.giveawayService.CheckByUser(c, c.Param("userId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
