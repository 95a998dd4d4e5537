package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gwlabs/giveaway-backend/internal/services"
)

// writeServiceError maps the service error taxonomy onto HTTP statuses:
// validation 400, missing resources 404, lifecycle conflicts 409, expired
// drafts 410, everything else 500.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrTemplateNotFound),
		errors.Is(err, services.ErrNoMapping),
		errors.Is(err, services.ErrNoGiveaway):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrGiveawayActive),
		errors.Is(err, services.ErrNoActiveGiveaway),
		errors.Is(err, services.ErrNoRerollPool):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrDraftExpired):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
