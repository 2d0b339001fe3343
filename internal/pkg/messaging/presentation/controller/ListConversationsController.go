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

// ListConversationsController handles the inbox listing endpoint only (one
// controller per endpoint).
type ListConversationsController struct {
	UC *usecase.ListConversationsUseCase
}

func NewListConversationsController(pool *pgxpool.Pool) *ListConversationsController {
	return &ListConversationsController{
		UC: usecase.NewListConversationsUseCase(repoAdapter.NewPgMessagingRepository(pool)),
	}
}

func (h *ListConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerID(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		convs, err := h.UC.Execute(ctx, usecase.ListConversationsInput{ParticipantID: caller})
		if err != nil {
			respondError(c, err)
			return
		}

		out := make([]conversationPayload, 0, len(convs))
		for _, conv := range convs {
			out = append(out, toConversationPayload(conv, caller))
		}
		c.JSON(http.StatusOK, gin.H{"conversations": out, "count": len(out)})
	}
}
