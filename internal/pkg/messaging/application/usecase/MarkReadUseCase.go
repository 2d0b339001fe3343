package usecase

import (
	"context"
	"errors"
	"fmt"

	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
	repository "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/persistence/repository/port"
)

// MarkReadInput identifies one message replica to mark read.
type MarkReadInput struct {
	ParticipantID  string
	ConversationID string
	MessageID      string
}

// MarkReadUseCase sets the caller's copy of a message to read and records
// them in the read-by set. Idempotent: re-reading an already-read message
// changes nothing.
type MarkReadUseCase struct {
	Repo repository.MessagingRepository
}

func NewMarkReadUseCase(repo repository.MessagingRepository) *MarkReadUseCase {
	return &MarkReadUseCase{Repo: repo}
}

func (uc *MarkReadUseCase) Execute(ctx context.Context, in MarkReadInput) error {
	if in.ParticipantID == "" || in.ConversationID == "" || in.MessageID == "" {
		return fmt.Errorf("participant_id, conversation_id and message_id are required")
	}
	err := uc.Repo.MarkMessageRead(ctx, in.ParticipantID, in.ConversationID, in.MessageID, in.ParticipantID)
	if err == nil || errors.Is(err, messaging.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}
