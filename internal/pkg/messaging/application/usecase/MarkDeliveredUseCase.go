package usecase

import (
	"context"
	"errors"
	"fmt"

	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
	repository "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/persistence/repository/port"
)

// MarkDeliveredInput identifies one message replica on the recipient's side.
type MarkDeliveredInput struct {
	ParticipantID  string
	ConversationID string
	MessageID      string
}

// MarkDeliveredUseCase advances the recipient's copy of a message to
// delivered once their client has fetched it. Only the recipient's replica is
// written; the sender infers display state from a read model, never from a
// cross-participant mutation.
type MarkDeliveredUseCase struct {
	Repo repository.MessagingRepository
}

func NewMarkDeliveredUseCase(repo repository.MessagingRepository) *MarkDeliveredUseCase {
	return &MarkDeliveredUseCase{Repo: repo}
}

// Execute is a no-op when the message is already delivered or read; the
// status never moves backward.
func (uc *MarkDeliveredUseCase) Execute(ctx context.Context, in MarkDeliveredInput) error {
	if in.ParticipantID == "" || in.ConversationID == "" || in.MessageID == "" {
		return fmt.Errorf("participant_id, conversation_id and message_id are required")
	}
	err := uc.Repo.AdvanceMessageStatus(ctx, in.ParticipantID, in.ConversationID, in.MessageID, messaging.StatusDelivered)
	if err == nil || errors.Is(err, messaging.ErrNotFound) || errors.Is(err, messaging.ErrStatusRegression) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}
