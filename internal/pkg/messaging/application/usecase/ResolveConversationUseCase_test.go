package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
)

func resolveFixture(t *testing.T) (*ResolveConversationUseCase, *memoryCache, context.Context, string) {
	t.Helper()
	ctx := context.Background()
	repo := newTestRepo()
	jobID := "job-77"
	repo.SeedLegacy(messaging.LegacyMessage{
		ID:         "lm-legacy-1",
		SenderID:   "bob",
		ReceiverID: "alice",
		JobID:      &jobID,
		Content:    "saw your listing, interested",
		IsRead:     false,
		CreatedAt:  time.Date(2023, 2, 14, 8, 0, 0, 0, time.UTC),
	})
	cache := newMemoryCache()
	uc := NewResolveConversationUseCase(repo, NewMigrateLegacyUseCase(repo, repo), cache)

	wantConvID, err := messaging.CanonicalConversationID([]string{"alice", "bob"}, &jobID)
	require.NoError(t, err)
	return uc, cache, ctx, wantConvID
}

func TestResolveConversationID(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	convID := mustCreateConversation(ctx, repo, []string{"alice", "bob"}, nil)
	_, err := NewSendMessageUseCase(repo).Execute(ctx, SendMessageInput{
		ConversationID: convID, SenderID: "alice", Content: "hello",
	})
	require.NoError(t, err)

	uc := NewResolveConversationUseCase(repo, NewMigrateLegacyUseCase(repo, repo), nil)
	out, err := uc.Execute(ctx, ResolveConversationInput{CallerID: "bob", OpaqueID: convID})
	require.NoError(t, err)
	assert.Equal(t, convID, out.Conversation.ID)
	assert.Equal(t, "bob", out.Conversation.OwnerID)
	require.Len(t, out.Messages, 1)
	assert.Equal(t, "hello", out.Messages[0].Content)
}

func TestResolveLegacyMessageID(t *testing.T) {
	uc, _, ctx, wantConvID := resolveFixture(t)

	out, err := uc.Execute(ctx, ResolveConversationInput{CallerID: "alice", OpaqueID: "lm-legacy-1"})
	require.NoError(t, err)

	assert.Equal(t, wantConvID, out.Conversation.ID)
	assert.ElementsMatch(t, []string{"alice", "bob"}, out.Conversation.Participants)
	require.NotNil(t, out.Conversation.JobID)
	assert.Equal(t, "job-77", *out.Conversation.JobID)
	require.Len(t, out.Messages, 1)
	assert.Equal(t, "saw your listing, interested", out.Messages[0].Content)
	assert.Equal(t, "bob", out.Messages[0].SenderID)
	assert.Equal(t, 1, out.Conversation.UnreadFor("alice"), "alice had not read the legacy message")
}

func TestResolveLegacyIDTwiceUsesCache(t *testing.T) {
	uc, cache, ctx, wantConvID := resolveFixture(t)

	first, err := uc.Execute(ctx, ResolveConversationInput{CallerID: "alice", OpaqueID: "lm-legacy-1"})
	require.NoError(t, err)
	require.Equal(t, 1, cache.sets)

	second, err := uc.Execute(ctx, ResolveConversationInput{CallerID: "alice", OpaqueID: "lm-legacy-1"})
	require.NoError(t, err)

	assert.Equal(t, wantConvID, second.Conversation.ID)
	assert.Len(t, second.Messages, len(first.Messages), "re-resolving migrates nothing new")
	assert.Equal(t, 1, cache.sets, "the mapping is written once")
}

func TestResolveLegacyIDByCounterpart(t *testing.T) {
	uc, _, ctx, wantConvID := resolveFixture(t)

	// Bob sent the legacy message; resolving from his side lands in the same
	// conversation with his own counter untouched.
	out, err := uc.Execute(ctx, ResolveConversationInput{CallerID: "bob", OpaqueID: "lm-legacy-1"})
	require.NoError(t, err)
	assert.Equal(t, wantConvID, out.Conversation.ID)
	assert.Equal(t, 0, out.Conversation.UnreadFor("bob"))
}

func TestResolveRejectsOutsiders(t *testing.T) {
	uc, _, ctx, _ := resolveFixture(t)

	_, err := uc.Execute(ctx, ResolveConversationInput{CallerID: "mallory", OpaqueID: "lm-legacy-1"})
	assert.ErrorIs(t, err, messaging.ErrNotFound)
}

func TestResolveUnknownID(t *testing.T) {
	uc, _, ctx, _ := resolveFixture(t)

	_, err := uc.Execute(ctx, ResolveConversationInput{CallerID: "alice", OpaqueID: "no-such-id"})
	assert.ErrorIs(t, err, messaging.ErrNotFound)
}

func TestResolveEmptyConversationFoldsInLegacyHistory(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	repo.SeedLegacy(messaging.LegacyMessage{
		ID: "lm-9", SenderID: "bob", ReceiverID: "alice",
		Content: "ping", IsRead: true,
		CreatedAt: time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	// The conversation exists (created through the job UI) but holds no
	// messages yet; opening it pulls the pair's flat history in.
	convID := mustCreateConversation(ctx, repo, []string{"alice", "bob"}, nil)
	uc := NewResolveConversationUseCase(repo, NewMigrateLegacyUseCase(repo, repo), nil)

	out, err := uc.Execute(ctx, ResolveConversationInput{CallerID: "alice", OpaqueID: convID})
	require.NoError(t, err)
	require.Len(t, out.Messages, 1)
	assert.Equal(t, "ping", out.Messages[0].Content)
}
