package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	queueport "github.com/Jaiparmar940/workly-sub000/internal/infrastructure/queue/port"
	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
	"github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/task"
	"github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/usecase"
	repoAdapter "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// GetMessagesController handles fetching a conversation page (one controller
// per endpoint). Fetching doubles as the delivery trigger: every inbound
// message in the page gets a queued delivery receipt against the caller's
// replica.
type GetMessagesController struct {
	UC  *usecase.GetMessagesUseCase
	Q   queueport.Client
	Log zerolog.Logger
}

func NewGetMessagesController(pool *pgxpool.Pool, client queueport.Client, log zerolog.Logger) *GetMessagesController {
	return &GetMessagesController{
		UC:  usecase.NewGetMessagesUseCase(repoAdapter.NewPgMessagingRepository(pool)),
		Q:   client,
		Log: log,
	}
}

func (h *GetMessagesController) Handle() gin.HandlerFunc {
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

		// Defaults
		limit := 50
		offset := 0
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		if v := c.Query("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msgs, err := h.UC.Execute(ctx, usecase.GetMessagesInput{
			ParticipantID:  caller,
			ConversationID: conversationID,
			Limit:          limit,
			Offset:         offset,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		h.enqueueReceipts(ctx, caller, conversationID, msgs)

		c.JSON(http.StatusOK, gin.H{
			"messages": toMessagePayloads(msgs),
			"limit":    limit,
			"offset":   offset,
			"count":    len(msgs),
		})
	}
}

// enqueueReceipts queues a delivered transition for each inbound message the
// caller has now fetched. Failures are logged and dropped; delivery tracking
// never blocks or fails a read.
func (h *GetMessagesController) enqueueReceipts(ctx context.Context, caller, conversationID string, msgs []messaging.Message) {
	if h.Q == nil {
		return
	}
	for _, m := range msgs {
		if m.SenderID == caller || m.Status >= messaging.StatusDelivered {
			continue
		}
		t, err := task.NewDeliveryReceiptTask(task.DeliveryReceiptTaskPayload{
			ParticipantID:  caller,
			ConversationID: conversationID,
			MessageID:      m.ID,
		})
		if err != nil {
			continue
		}
		opts := queueport.EnqueueOption{Queue: "messaging", MaxRetry: 5}
		if _, err := h.Q.Enqueue(ctx, t, opts); err != nil {
			h.Log.Warn().Err(err).Str("message", m.ID).Msg("delivery receipt enqueue failed")
		}
	}
}
