package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gwlabs/giveaway-backend/internal/models"
	"github.com/gwlabs/giveaway-backend/internal/services"
)

// SettingsHandler handles server default settings HTTP requests
type SettingsHandler struct {
	settingsService services.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get handles GET /guilds/:guildId/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.Get(c, c.Param("guildId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// Set handles PUT /guilds/:guildId/settings
func (h *SettingsHandler) Set(c *gin.Context) {
	var settings models.ServerSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	settings.GuildID = c.Param("guildId")

	if err := h.settingsService.Set(c, &settings); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}
