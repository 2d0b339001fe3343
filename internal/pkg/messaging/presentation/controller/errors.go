package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
	"github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/usecase"
)

// respondError maps subsystem errors onto HTTP statuses. Partial fan-out is
// surfaced distinctly so clients can offer a retry affordance and mark the
// message failed locally.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, messaging.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, messaging.ErrInvalidParticipants):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, messaging.ErrPartialFanout):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "retryable": true})
	case errors.Is(err, usecase.ErrPersistence):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "retryable": true})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
