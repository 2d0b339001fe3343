package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
)

func legacyFixture(jobID *string) []messaging.LegacyMessage {
	base := time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)
	return []messaging.LegacyMessage{
		{ID: "lm-1", SenderID: "alice", ReceiverID: "bob", JobID: jobID, Content: "is the job still open?", IsRead: true, CreatedAt: base},
		{ID: "lm-2", SenderID: "bob", ReceiverID: "alice", JobID: jobID, Content: "yes, can you start monday?", IsRead: true, CreatedAt: base.Add(time.Minute)},
		{ID: "lm-3", SenderID: "alice", ReceiverID: "bob", JobID: jobID, Content: "monday works", IsRead: false, CreatedAt: base.Add(2 * time.Minute)},
	}
}

func TestMigrateLegacyReplaysHistoryOldestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	repo.SeedLegacy(legacyFixture(nil)...)

	convID, err := messaging.CanonicalConversationID([]string{"alice", "bob"}, nil)
	require.NoError(t, err)

	n, err := NewMigrateLegacyUseCase(repo, repo).Execute(ctx, MigrateLegacyInput{
		ConversationID: convID,
		ParticipantIDs: []string{"alice", "bob"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, owner := range []string{"alice", "bob"} {
		msgs, err := repo.ListMessageReplicas(ctx, owner, convID, 10, 0)
		require.NoError(t, err)
		require.Len(t, msgs, 3)
		// Newest first; original senders and timestamps preserved.
		assert.Equal(t, "monday works", msgs[0].Content)
		assert.Equal(t, "alice", msgs[0].SenderID)
		assert.Equal(t, "is the job still open?", msgs[2].Content)
		assert.True(t, msgs[2].CreatedAt.Before(msgs[0].CreatedAt))
		for _, m := range msgs {
			require.NotNil(t, m.DedupeKey)
		}
	}
}

func TestMigrateLegacyReadFlagsCarryOver(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	repo.SeedLegacy(legacyFixture(nil)...)

	convID, err := messaging.CanonicalConversationID([]string{"alice", "bob"}, nil)
	require.NoError(t, err)
	_, err = NewMigrateLegacyUseCase(repo, repo).Execute(ctx, MigrateLegacyInput{
		ConversationID: convID, ParticipantIDs: []string{"alice", "bob"},
	})
	require.NoError(t, err)

	msgs, err := repo.ListMessageReplicas(ctx, "bob", convID, 10, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 3)

	// lm-3 was unread by bob; everything older was already read.
	assert.Equal(t, messaging.StatusSent, msgs[0].Status)
	assert.Equal(t, messaging.StatusRead, msgs[1].Status)
	assert.True(t, msgs[1].SeenBy("alice"))
	assert.Equal(t, messaging.StatusRead, msgs[2].Status)
	assert.True(t, msgs[2].SeenBy("bob"))

	bob, err := repo.GetConversationReplica(ctx, "bob", convID)
	require.NoError(t, err)
	assert.Equal(t, 1, bob.UnreadFor("bob"), "only the unread record bumps the counter")

	alice, err := repo.GetConversationReplica(ctx, "alice", convID)
	require.NoError(t, err)
	assert.Equal(t, 0, alice.UnreadFor("alice"))
}

func TestMigrateLegacyTwiceEqualsOnce(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	repo.SeedLegacy(legacyFixture(nil)...)

	convID, err := messaging.CanonicalConversationID([]string{"alice", "bob"}, nil)
	require.NoError(t, err)
	uc := NewMigrateLegacyUseCase(repo, repo)
	in := MigrateLegacyInput{ConversationID: convID, ParticipantIDs: []string{"alice", "bob"}}

	n, err := uc.Execute(ctx, in)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	bobBefore, err := repo.GetConversationReplica(ctx, "bob", convID)
	require.NoError(t, err)

	n, err = uc.Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	for _, owner := range []string{"alice", "bob"} {
		msgs, err := repo.ListMessageReplicas(ctx, owner, convID, 20, 0)
		require.NoError(t, err)
		assert.Len(t, msgs, 3, "no duplicate rows for %s", owner)
	}
	bobAfter, err := repo.GetConversationReplica(ctx, "bob", convID)
	require.NoError(t, err)
	assert.Equal(t, bobBefore.UnreadFor("bob"), bobAfter.UnreadFor("bob"))
}

func TestMigrateLegacyDistinguishesIdenticalTwins(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	at := time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)
	// Same sender, content and timestamp; only the record ids differ.
	repo.SeedLegacy(
		messaging.LegacyMessage{ID: "lm-a", SenderID: "alice", ReceiverID: "bob", Content: "ok", IsRead: true, CreatedAt: at},
		messaging.LegacyMessage{ID: "lm-b", SenderID: "alice", ReceiverID: "bob", Content: "ok", IsRead: true, CreatedAt: at},
	)

	convID, err := messaging.CanonicalConversationID([]string{"alice", "bob"}, nil)
	require.NoError(t, err)
	n, err := NewMigrateLegacyUseCase(repo, repo).Execute(ctx, MigrateLegacyInput{
		ConversationID: convID, ParticipantIDs: []string{"alice", "bob"},
	})
	require.NoError(t, err)
	// Each record carries its own dedupe key, so the twins stay distinct and
	// both land exactly once.
	assert.Equal(t, 2, n)

	msgs, err := repo.ListMessageReplicas(ctx, "bob", convID, 10, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.NotEqual(t, *msgs[0].DedupeKey, *msgs[1].DedupeKey)
}

func TestMigrateLegacyHealsPartialReplica(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	repo.SeedLegacy(legacyFixture(nil)...)

	convID, err := messaging.CanonicalConversationID([]string{"alice", "bob"}, nil)
	require.NoError(t, err)
	uc := NewMigrateLegacyUseCase(repo, repo)
	in := MigrateLegacyInput{ConversationID: convID, ParticipantIDs: []string{"alice", "bob"}}

	// First pass dies on bob's replica partway through.
	repo.FailAppendFor("bob", assert.AnError)
	_, err = uc.Execute(ctx, in)
	require.ErrorIs(t, err, messaging.ErrPartialFanout)

	// The retry fills in only what is missing.
	repo.FailAppendFor("bob", nil)
	_, err = uc.Execute(ctx, in)
	require.NoError(t, err)

	for _, owner := range []string{"alice", "bob"} {
		msgs, err := repo.ListMessageReplicas(ctx, owner, convID, 20, 0)
		require.NoError(t, err)
		assert.Len(t, msgs, 3, "replica for %s", owner)
	}
}

func TestMigrateLegacyNothingToMigrate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	convID, err := messaging.CanonicalConversationID([]string{"alice", "bob"}, nil)
	require.NoError(t, err)
	n, err := NewMigrateLegacyUseCase(repo, repo).Execute(ctx, MigrateLegacyInput{
		ConversationID: convID, ParticipantIDs: []string{"alice", "bob"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// No replicas appear for a pair with no history.
	_, err = repo.GetConversationReplica(ctx, "alice", convID)
	assert.ErrorIs(t, err, messaging.ErrNotFound)
}

func TestMigrateLegacyRequiresExactlyTwoParticipants(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	_, err := NewMigrateLegacyUseCase(repo, repo).Execute(ctx, MigrateLegacyInput{
		ConversationID: "direct|alice|bob",
		ParticipantIDs: []string{"alice"},
	})
	assert.ErrorIs(t, err, messaging.ErrTooFewMembers)
}
