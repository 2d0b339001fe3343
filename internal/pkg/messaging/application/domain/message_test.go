package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageNormalizes(t *testing.T) {
	m, err := NewMessage(Message{
		ConversationID: "direct|alice|bob",
		SenderID:       "alice",
		Content:        "  hello there  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", m.Content)
	assert.Equal(t, StatusSent, m.Status)
	assert.False(t, m.CreatedAt.IsZero())
	assert.NotNil(t, m.ReadBy)
	assert.Empty(t, m.ReadBy)
}

func TestNewMessageKeepsExplicitTimestamp(t *testing.T) {
	at := time.Date(2023, 4, 2, 10, 30, 0, 0, time.UTC)
	m, err := NewMessage(Message{
		ConversationID: "direct|alice|bob",
		SenderID:       "alice",
		Content:        "old",
		CreatedAt:      at,
	})
	require.NoError(t, err)
	assert.True(t, m.CreatedAt.Equal(at))
}

func TestNewMessageRejectsEmptyContent(t *testing.T) {
	for _, content := range []string{"", "   ", "\n\t "} {
		_, err := NewMessage(Message{
			ConversationID: "direct|alice|bob",
			SenderID:       "alice",
			Content:        content,
		})
		assert.ErrorIs(t, err, ErrEmptyMessage)
		assert.ErrorIs(t, err, ErrInvalidParticipants)
	}
}

func TestNewMessageRequiresConversationAndSender(t *testing.T) {
	_, err := NewMessage(Message{SenderID: "alice", Content: "hi"})
	assert.ErrorIs(t, err, ErrInvalidParticipants)

	_, err = NewMessage(Message{ConversationID: "direct|alice|bob", Content: "hi"})
	assert.ErrorIs(t, err, ErrInvalidParticipants)
}

func TestMarkReadByIsIdempotent(t *testing.T) {
	m := Message{Status: StatusSent}
	m.MarkReadBy("bob")
	m.MarkReadBy("bob")

	assert.Equal(t, []string{"bob"}, m.ReadBy)
	assert.Equal(t, StatusRead, m.Status)
	assert.True(t, m.SeenBy("bob"))
	assert.False(t, m.SeenBy("alice"))
}

func TestMarkReadByNeverRegressesFailed(t *testing.T) {
	m := Message{Status: StatusFailed}
	m.MarkReadBy("bob")
	assert.Equal(t, StatusFailed, m.Status)
	assert.True(t, m.SeenBy("bob"))
}
