package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gwlabs/giveaway-backend/internal/models"
	"github.com/gwlabs/giveaway-backend/internal/services"
)

// TemplateHandler handles giveaway template HTTP requests
type TemplateHandler struct {
	templateService services.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler
func NewTemplateHandler(templateService services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// Create handles POST /guilds/:guildId/templates
func (h *TemplateHandler) Create(c *gin.Context) {
	var template models.Template
	if err := c.ShouldBindJSON(&template); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	template.GuildID = c.Param("guildId")

	if err := h.templateService.Create(c, &template); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, template)
}

// Update handles PUT /guilds/:guildId/templates/:name
func (h *TemplateHandler) Update(c *gin.Context) {
	var template models.Template
	if err := c.ShouldBindJSON(&template); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	template.GuildID = c.Param("guildId")
	template.Name = c.Param("name")

	if err := h.templateService.Update(c, &template); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, template)
}

// Get handles GET /guilds/:guildId/templates/:name
func (h *TemplateHandler) Get(c *gin.Context) {
	template, err := h.templateService.Get(c, c.Param("guildId"), c.Param("name"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

// List handles GET /guilds/:guildId/templates
func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.templateService.List(c, c.Param("guildId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

// Delete handles DELETE /guilds/:guildId/templates/:name
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.templateService.Delete(c, c.Param("guildId"), c.Param("name")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
