package usecase

import (
	"context"
	"fmt"
	"time"

	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
	repository "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/persistence/repository/port"
)

// CreateConversationInput carries the participant set and optional job
// context for a new conversation.
type CreateConversationInput struct {
	ParticipantIDs []string
	JobID          *string
}

// CreateConversationUseCase writes one conversation replica per participant,
// each with zeroed unread counters. Creation is idempotent: re-creating an
// existing conversation leaves the stored replicas untouched.
// One class per use case (own file)
type CreateConversationUseCase struct {
	Repo repository.MessagingRepository
}

func NewCreateConversationUseCase(repo repository.MessagingRepository) *CreateConversationUseCase {
	return &CreateConversationUseCase{Repo: repo}
}

// Execute creates the replica set and returns the first participant's copy.
func (uc *CreateConversationUseCase) Execute(ctx context.Context, in CreateConversationInput) (*messaging.Conversation, error) {
	id, err := ensureReplicas(ctx, uc.Repo, in.ParticipantIDs, in.JobID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	conv, err := uc.Repo.GetConversationReplica(ctx, in.ParticipantIDs[0], id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return conv, nil
}
