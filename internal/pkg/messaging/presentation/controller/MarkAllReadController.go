package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/usecase"
	repoAdapter "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// MarkAllReadController handles the read-receipt endpoint only (one
// controller per endpoint). Fired when the caller opens a conversation.
type MarkAllReadController struct {
	UC *usecase.MarkAllReadUseCase
}

func NewMarkAllReadController(pool *pgxpool.Pool) *MarkAllReadController {
	return &MarkAllReadController{
		UC: usecase.NewMarkAllReadUseCase(repoAdapter.NewPgMessagingRepository(pool)),
	}
}

func (h *MarkAllReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerID(c)
		if !ok {
			return
		}
		conversationID := c.Param("conversationId")
		if conversationID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conversationId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := h.UC.Execute(ctx, usecase.MarkAllReadInput{
			ParticipantID:  caller,
			ConversationID: conversationID,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"marked_read": count})
	}
}
