package usecase

import (
	"context"
	"errors"
	"fmt"

	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
	repository "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/persistence/repository/port"
)

// JoinConversationInput validates a request to attach a user session to a
// conversation room.
type JoinConversationInput struct {
	ConversationID string
	UserID         string
}

// JoinConversationUseCase ensures the user owns a replica of the conversation
// before joining the realtime room.
type JoinConversationUseCase struct {
	Repo repository.MessagingRepository
}

func NewJoinConversationUseCase(repo repository.MessagingRepository) *JoinConversationUseCase {
	return &JoinConversationUseCase{Repo: repo}
}

func (uc *JoinConversationUseCase) Execute(ctx context.Context, in JoinConversationInput) error {
	if in.ConversationID == "" || in.UserID == "" {
		return fmt.Errorf("conversation_id and user_id are required")
	}

	conv, err := uc.Repo.GetConversationReplica(ctx, in.UserID, in.ConversationID)
	if errors.Is(err, messaging.ErrNotFound) {
		return messaging.ErrNotParticipant
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !conv.HasParticipant(in.UserID) {
		return messaging.ErrNotParticipant
	}
	return nil
}
