package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
)

func TestSendMessageReplicatesToEveryParticipant(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	convID := mustCreateConversation(ctx, repo, []string{"alice", "bob"}, nil)

	notifier := &recordingNotifier{}
	uc := NewSendMessageUseCase(repo)
	uc.Notifier = notifier

	msg, err := uc.Execute(ctx, SendMessageInput{
		ConversationID: convID,
		SenderID:       "alice",
		Content:        "are you still available?",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, messaging.StatusSent, msg.Status)

	for _, owner := range []string{"alice", "bob"} {
		msgs, err := repo.ListMessageReplicas(ctx, owner, convID, 10, 0)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "are you still available?", msgs[0].Content)
		assert.Equal(t, "alice", msgs[0].SenderID)
	}

	alice, err := repo.GetConversationReplica(ctx, "alice", convID)
	require.NoError(t, err)
	bob, err := repo.GetConversationReplica(ctx, "bob", convID)
	require.NoError(t, err)

	assert.Equal(t, 0, alice.UnreadFor("alice"), "the sender's counter never moves")
	assert.Equal(t, 1, bob.UnreadFor("bob"))
	require.NotNil(t, bob.LastMessage)
	assert.Equal(t, "are you still available?", bob.LastMessage.Content)
	assert.Equal(t, 1, notifier.count())
}

func TestSendMessageReplicaIDsAreIndependent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	convID := mustCreateConversation(ctx, repo, []string{"alice", "bob"}, nil)

	msg, err := NewSendMessageUseCase(repo).Execute(ctx, SendMessageInput{
		ConversationID: convID, SenderID: "alice", Content: "hi",
	})
	require.NoError(t, err)

	aliceMsgs, err := repo.ListMessageReplicas(ctx, "alice", convID, 10, 0)
	require.NoError(t, err)
	bobMsgs, err := repo.ListMessageReplicas(ctx, "bob", convID, 10, 0)
	require.NoError(t, err)

	assert.Equal(t, msg.ID, aliceMsgs[0].ID, "the caller observes the sender replica id")
	assert.NotEqual(t, aliceMsgs[0].ID, bobMsgs[0].ID)
}

func TestSendMessageCreatesConversationOnFirstSend(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	convID, err := messaging.CanonicalConversationID([]string{"alice", "bob"}, nil)
	require.NoError(t, err)

	_, err = NewSendMessageUseCase(repo).Execute(ctx, SendMessageInput{
		ConversationID: convID, SenderID: "alice", Content: "first contact",
	})
	require.NoError(t, err)

	bob, err := repo.GetConversationReplica(ctx, "bob", convID)
	require.NoError(t, err)
	assert.Equal(t, 1, bob.UnreadFor("bob"))
}

func TestSendMessageEmptyContentLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	convID := mustCreateConversation(ctx, repo, []string{"alice", "bob"}, nil)

	_, err := NewSendMessageUseCase(repo).Execute(ctx, SendMessageInput{
		ConversationID: convID, SenderID: "alice", Content: "   ",
	})
	assert.ErrorIs(t, err, messaging.ErrInvalidParticipants)

	for _, owner := range []string{"alice", "bob"} {
		msgs, lerr := repo.ListMessageReplicas(ctx, owner, convID, 10, 0)
		require.NoError(t, lerr)
		assert.Empty(t, msgs)

		conv, gerr := repo.GetConversationReplica(ctx, owner, convID)
		require.NoError(t, gerr)
		assert.Nil(t, conv.LastMessage)
		assert.Equal(t, 0, conv.UnreadFor(owner))
	}
}

func TestSendMessageRejectsNonParticipant(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	convID := mustCreateConversation(ctx, repo, []string{"alice", "bob"}, nil)

	_, err := NewSendMessageUseCase(repo).Execute(ctx, SendMessageInput{
		ConversationID: convID, SenderID: "mallory", Content: "let me in",
	})
	assert.ErrorIs(t, err, messaging.ErrNotParticipant)
}

func TestSendMessagePartialFanoutIsReported(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	convID := mustCreateConversation(ctx, repo, []string{"alice", "bob"}, nil)
	repo.FailAppendFor("bob", fmt.Errorf("replica store down"))

	_, err := NewSendMessageUseCase(repo).Execute(ctx, SendMessageInput{
		ConversationID: convID, SenderID: "alice", Content: "hello?",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, messaging.ErrPartialFanout)
	assert.Contains(t, err.Error(), "bob")

	// No rollback: the sibling write that succeeded stays.
	aliceMsgs, lerr := repo.ListMessageReplicas(ctx, "alice", convID, 10, 0)
	require.NoError(t, lerr)
	assert.Len(t, aliceMsgs, 1)

	bobMsgs, lerr := repo.ListMessageReplicas(ctx, "bob", convID, 10, 0)
	require.NoError(t, lerr)
	assert.Empty(t, bobMsgs)
}

func TestSendMessagePartialTouchIsReported(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	convID := mustCreateConversation(ctx, repo, []string{"alice", "bob"}, nil)
	repo.FailTouchFor("alice", errors.New("replica store down"))

	_, err := NewSendMessageUseCase(repo).Execute(ctx, SendMessageInput{
		ConversationID: convID, SenderID: "alice", Content: "hello?",
	})
	assert.ErrorIs(t, err, messaging.ErrPartialFanout)

	// Bob's preview and counter landed before the failure was reported.
	bob, err := repo.GetConversationReplica(ctx, "bob", convID)
	require.NoError(t, err)
	assert.Equal(t, 1, bob.UnreadFor("bob"))
}

func TestConcurrentSendsLoseNoIncrements(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	convID := mustCreateConversation(ctx, repo, []string{"alice", "bob"}, nil)
	uc := NewSendMessageUseCase(repo)

	const n = 25
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(ctx, SendMessageInput{
				ConversationID: convID,
				SenderID:       "alice",
				Content:        fmt.Sprintf("ping %d", i),
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	bob, err := repo.GetConversationReplica(ctx, "bob", convID)
	require.NoError(t, err)
	assert.Equal(t, n, bob.UnreadFor("bob"))

	bobMsgs, err := repo.ListMessageReplicas(ctx, "bob", convID, n*2, 0)
	require.NoError(t, err)
	assert.Len(t, bobMsgs, n)
}
