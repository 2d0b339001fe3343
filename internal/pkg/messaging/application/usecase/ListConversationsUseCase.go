package usecase

import (
	"context"
	"fmt"

	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
	repository "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/persistence/repository/port"
)

// ListConversationsInput wraps the owner whose replicas are listed.
type ListConversationsInput struct {
	ParticipantID string
}

// ListConversationsUseCase returns every conversation replica owned by the
// participant, most recently updated first.
type ListConversationsUseCase struct {
	Repo repository.MessagingRepository
}

func NewListConversationsUseCase(repo repository.MessagingRepository) *ListConversationsUseCase {
	return &ListConversationsUseCase{Repo: repo}
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context, in ListConversationsInput) ([]messaging.Conversation, error) {
	if in.ParticipantID == "" {
		return nil, fmt.Errorf("participant_id is required")
	}
	convs, err := uc.Repo.ListConversationReplicas(ctx, in.ParticipantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return convs, nil
}
