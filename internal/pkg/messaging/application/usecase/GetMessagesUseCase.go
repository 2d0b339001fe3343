package usecase

import (
	"context"
	"fmt"

	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
	repository "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/persistence/repository/port"
)

// GetMessagesInput carries parameters to fetch messages of a conversation.
// The read always targets the caller's own replica; the other participant's
// copy is never consulted.
type GetMessagesInput struct {
	ParticipantID  string
	ConversationID string
	Limit          int
	Offset         int
}

// GetMessagesUseCase fetches a page of the caller's message replicas.
// One class per use case (own file)
type GetMessagesUseCase struct {
	Repo repository.MessagingRepository
}

func NewGetMessagesUseCase(repo repository.MessagingRepository) *GetMessagesUseCase {
	return &GetMessagesUseCase{Repo: repo}
}

// Execute returns messages for the conversation honoring limit/offset
func (uc *GetMessagesUseCase) Execute(ctx context.Context, in GetMessagesInput) ([]messaging.Message, error) {
	if in.ParticipantID == "" || in.ConversationID == "" {
		return nil, fmt.Errorf("participant_id and conversation_id are required")
	}
	msgs, err := uc.Repo.ListMessageReplicas(ctx, in.ParticipantID, in.ConversationID, in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}
