package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gwlabs/giveaway-backend/internal/services"
)

// UserMapHandler handles user mapping HTTP requests
type UserMapHandler struct {
	userMapService services.UserMapService
}

// NewUserMapHandler creates a new UserMapHandler
func NewUserMapHandler(userMapService services.UserMapService) *UserMapHandler {
	return &UserMapHandler{userMapService: userMapService}
}

// Link handles PUT /usermap/:userId
func (h *UserMapHandler) Link(c *gin.Context) {
	var req struct {
		PartnerUsername string `json:"partnerUsername" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.userMapService.Link(c, c.Param("userId"), req.PartnerUsername); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "linked"})
}

// Get handles GET /usermap/:userId
func (h *UserMapHandler) Get(c *gin.Context) {
	mapping, err := h.userMapService.Get(c, c.Param("userId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapping)
}

// Unlink handles DELETE /usermap/:userId
func (h *UserMapHandler) Unlink(c *gin.Context) {
	if err := h.userMapService.Unlink(c, c.Param("userId")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unlinked"})
}

// List handles GET /usermap
func (h *UserMapHandler) List(c *gin.Context) {
	mappings, err := h.userMapService.List(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mappings)
}
