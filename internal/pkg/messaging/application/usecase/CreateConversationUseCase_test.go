package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
)

func TestCreateConversationWritesOneReplicaPerParticipant(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	uc := NewCreateConversationUseCase(repo)

	jobID := "job-1"
	conv, err := uc.Execute(ctx, CreateConversationInput{
		ParticipantIDs: []string{"alice", "bob"},
		JobID:          &jobID,
	})
	require.NoError(t, err)

	for _, owner := range []string{"alice", "bob"} {
		replica, err := repo.GetConversationReplica(ctx, owner, conv.ID)
		require.NoError(t, err)
		assert.Equal(t, conv.ID, replica.ID)
		assert.ElementsMatch(t, []string{"alice", "bob"}, replica.Participants)
		assert.Equal(t, 0, replica.UnreadFor("alice"))
		assert.Equal(t, 0, replica.UnreadFor("bob"))
	}
}

func TestCreateConversationIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	uc := NewCreateConversationUseCase(repo)
	send := NewSendMessageUseCase(repo)

	first, err := uc.Execute(ctx, CreateConversationInput{ParticipantIDs: []string{"alice", "bob"}})
	require.NoError(t, err)

	_, err = send.Execute(ctx, SendMessageInput{ConversationID: first.ID, SenderID: "alice", Content: "hi"})
	require.NoError(t, err)

	// Re-creating must not reset previews, counters or history.
	again, err := uc.Execute(ctx, CreateConversationInput{ParticipantIDs: []string{"bob", "alice"}})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	bob, err := repo.GetConversationReplica(ctx, "bob", first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, bob.UnreadFor("bob"))
	require.NotNil(t, bob.LastMessage)
	assert.Equal(t, "hi", bob.LastMessage.Content)
}

func TestCreateConversationRejectsInvalidParticipants(t *testing.T) {
	ctx := context.Background()
	uc := NewCreateConversationUseCase(newTestRepo())

	_, err := uc.Execute(ctx, CreateConversationInput{ParticipantIDs: []string{"alice"}})
	assert.ErrorIs(t, err, messaging.ErrTooFewMembers)

	_, err = uc.Execute(ctx, CreateConversationInput{ParticipantIDs: []string{"alice", "bo|b"}})
	assert.ErrorIs(t, err, messaging.ErrInvalidParticipants)
}
