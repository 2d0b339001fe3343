package usecase

import (
	"context"
	"fmt"

	repository "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/persistence/repository/port"
)

// MarkAllReadInput identifies the conversation the caller just opened.
type MarkAllReadInput struct {
	ParticipantID  string
	ConversationID string
}

// MarkAllReadUseCase marks every unread message in the caller's replica as
// read and zeroes their unread counter. A send racing this from the other
// participant may land after the reset; its increment is preserved because
// counters are adjusted relative to the stored value, never overwritten.
type MarkAllReadUseCase struct {
	Repo repository.MessagingRepository
}

func NewMarkAllReadUseCase(repo repository.MessagingRepository) *MarkAllReadUseCase {
	return &MarkAllReadUseCase{Repo: repo}
}

// Execute returns the number of messages transitioned to read.
func (uc *MarkAllReadUseCase) Execute(ctx context.Context, in MarkAllReadInput) (int, error) {
	if in.ParticipantID == "" || in.ConversationID == "" {
		return 0, fmt.Errorf("participant_id and conversation_id are required")
	}

	unread, err := uc.Repo.ListUnreadMessageReplicas(ctx, in.ParticipantID, in.ConversationID, in.ParticipantID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	for _, m := range unread {
		if err := uc.Repo.MarkMessageRead(ctx, in.ParticipantID, in.ConversationID, m.ID, in.ParticipantID); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}
	if err := uc.Repo.ResetUnread(ctx, in.ParticipantID, in.ConversationID, in.ParticipantID); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return len(unread), nil
}
