package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gwlabs/giveaway-backend/internal/services"
)

// GiveawayHandler handles giveaway lifecycle HTTP requests
type GiveawayHandler struct {
	giveawayService services.GiveawayService
}

// NewGiveawayHandler creates a new GiveawayHandler
func NewGiveawayHandler(giveawayService services.GiveawayService) *GiveawayHandler {
	return &GiveawayHandler{giveawayService: giveawayService}
}

// Open handles POST /giveaways
func (h *GiveawayHandler) Open(c *gin.Context) {
	var params services.OpenParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	giveaway, err := h.giveawayService.Open(c, &params)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, giveaway)
}

// QuickOpen handles POST /giveaways/quick
func (h *GiveawayHandler) QuickOpen(c *gin.Context) {
	var params services.QuickOpenParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	giveaway, err := h.giveawayService.QuickOpen(c, &params)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, giveaway)
}

// SetMessageID handles PATCH /giveaways/:guildId/message
func (h *GiveawayHandler) SetMessageID(c *gin.Context) {
	var req struct {
		MessageID string `json:"messageId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.giveawayService.SetMessageID(c, c.Param("guildId"), req.MessageID); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// End handles POST /giveaways/:guildId/end
func (h *GiveawayHandler) End(c *gin.Context) {
	if err := h.giveawayService.End(c, c.Param("guildId")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ended"})
}

// Cancel handles POST /giveaways/:guildId/cancel
func (h *GiveawayHandler) Cancel(c *gin.Context) {
	if err := h.giveawayService.Cancel(c, c.Param("guildId")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// Reroll handles POST /giveaways/:guildId/reroll
func (h *GiveawayHandler) Reroll(c *gin.Context) {
	winners, err := h.giveawayService.Reroll(c, c.Param("guildId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"winners": winners})
}

// PrepareRunback handles POST /giveaways/:guildId/runback
func (h *GiveawayHandler) PrepareRunback(c *gin.Context) {
	var req struct {
		ChannelID string `json:"channelId" binding:"required"`
		HostedBy  string `json:"hostedBy" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	draftID, draft, err := h.giveawayService.PrepareRunback(c, c.Param("guildId"), req.ChannelID, req.HostedBy)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"draftId": draftID, "draft": draft})
}

// ConfirmDraft handles POST /giveaways/drafts/:draftId/confirm
func (h *GiveawayHandler) ConfirmDraft(c *gin.Context) {
	giveaway, err := h.giveawayService.ConfirmDraft(c, c.Param("draftId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, giveaway)
}
