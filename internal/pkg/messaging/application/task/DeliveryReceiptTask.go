package task

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	qport "github.com/Jaiparmar940/workly-sub000/internal/infrastructure/queue/port"
	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
	"github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/usecase"
	repoAdapter "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// DeliveryReceiptTaskType is the queue task name for advancing a fetched
// message to delivered on the recipient's replica.
const DeliveryReceiptTaskType = "messaging:delivery_receipt"

// DeliveryReceiptTaskPayload is the JSON payload transported via the queue.
type DeliveryReceiptTaskPayload struct {
	ParticipantID  string `json:"participantId"`
	ConversationID string `json:"conversationId"`
	MessageID      string `json:"messageId"`
}

// NewDeliveryReceiptTask builds the queue task for one fetched message.
func NewDeliveryReceiptTask(p DeliveryReceiptTaskPayload) (qport.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return qport.Task{}, err
	}
	return qport.Task{Type: DeliveryReceiptTaskType, Payload: b}, nil
}

// RegisterDeliveryReceiptTask binds the task handler to the provided server.
// Delivery tracking is a non-critical path: terminal outcomes are logged and
// dropped instead of failing the task, only transient store errors retry.
func RegisterDeliveryReceiptTask(srv qport.Server, pool *pgxpool.Pool, log zerolog.Logger) {
	srv.Register(DeliveryReceiptTaskType, func(ctx context.Context, t qport.Task) error {
		var p DeliveryReceiptTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: do not retry indefinitely
			return err
		}

		repo := repoAdapter.NewPgMessagingRepository(pool)
		uc := usecase.NewMarkDeliveredUseCase(repo)

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		err := uc.Execute(ctx, usecase.MarkDeliveredInput{
			ParticipantID:  p.ParticipantID,
			ConversationID: p.ConversationID,
			MessageID:      p.MessageID,
		})
		switch {
		case err == nil:
			return nil
		case errors.Is(err, messaging.ErrNotFound), errors.Is(err, messaging.ErrStatusRegression):
			log.Warn().Err(err).
				Str("participant", p.ParticipantID).
				Str("message", p.MessageID).
				Msg("delivery receipt dropped")
			return nil
		default:
			return err
		}
	})
}
