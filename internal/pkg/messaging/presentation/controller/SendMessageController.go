package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jaiparmar940/workly-sub000/internal/infrastructure/realtime"
	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
	"github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/usecase"
	repoAdapter "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// SendMessageController handles the send endpoint only (one controller per
// endpoint). Send runs synchronously: the caller needs the accepted message
// (or the failure) back to render delivery state.
type SendMessageController struct {
	UC *usecase.SendMessageUseCase
}

func NewSendMessageController(pool *pgxpool.Pool, router *realtime.Router) *SendMessageController {
	uc := usecase.NewSendMessageUseCase(repoAdapter.NewPgMessagingRepository(pool))
	uc.Notifier = NewRealtimeNotifier(router)
	return &SendMessageController{UC: uc}
}

// sendMessageRequest is the DTO for the HTTP request body
type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
	MsgType *int16 `json:"msg_type"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
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

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		msgType := messaging.MessageTypeText
		if req.MsgType != nil {
			msgType = messaging.MessageType(*req.MsgType)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		msg, err := h.UC.Execute(ctx, usecase.SendMessageInput{
			ConversationID: conversationID,
			SenderID:       caller,
			Content:        req.Content,
			MsgType:        msgType,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": toMessagePayload(*msg)})
	}
}
