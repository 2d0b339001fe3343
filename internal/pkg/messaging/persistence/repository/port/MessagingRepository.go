package repository

import (
	"context"
	"time"

	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
)

// MessagingRepository defines persistence operations for conversation and
// message replicas. Every operation acts on a single participant's replica;
// fan-out across participants is composed in the use case layer, one call per
// owner, so the store never needs a cross-document transaction.
//
// Adapters report a missing replica as messaging.ErrNotFound (wrapped).
type MessagingRepository interface {
	// PutConversationReplica inserts the owner's replica if absent. Re-inserting
	// an existing replica is a no-op, which makes conversation creation
	// idempotent per owner.
	PutConversationReplica(ctx context.Context, c messaging.Conversation) error

	GetConversationReplica(ctx context.Context, ownerID, conversationID string) (*messaging.Conversation, error)

	// ListConversationReplicas returns every replica owned by ownerID, sorted
	// by updated-at descending for direct UI consumption.
	ListConversationReplicas(ctx context.Context, ownerID string) ([]messaging.Conversation, error)

	// TouchConversationReplica updates the last-message preview and the
	// updated-at timestamp on the owner's replica, incrementing the unread
	// counter of every participant listed in incrementFor. Increments must be
	// applied relative to the stored value (server-side increment), never
	// last-writer-wins.
	TouchConversationReplica(ctx context.Context, ownerID, conversationID string, p messaging.Preview, incrementFor []string, at time.Time) error

	// ResetUnread zeroes participantID's counter on the owner's replica.
	ResetUnread(ctx context.Context, ownerID, conversationID, participantID string) error

	// AppendMessageReplica appends a message to the owner's private list and
	// returns the physical id assigned to this replica.
	AppendMessageReplica(ctx context.Context, ownerID string, m messaging.Message) (string, error)

	ListMessageReplicas(ctx context.Context, ownerID, conversationID string, limit, offset int) ([]messaging.Message, error)

	// ListUnreadMessageReplicas returns the owner's messages not yet read by
	// readerID, oldest first.
	ListUnreadMessageReplicas(ctx context.Context, ownerID, conversationID, readerID string) ([]messaging.Message, error)

	// AdvanceMessageStatus moves the replica's delivery status forward. Calls
	// that would regress the status are silently ignored; illegal transitions
	// into failed return messaging.ErrStatusRegression.
	AdvanceMessageStatus(ctx context.Context, ownerID, conversationID, messageID string, next messaging.DeliveryStatus) error

	// MarkMessageRead sets the replica's status to read and adds readerID to
	// the read-by set if absent. Idempotent.
	MarkMessageRead(ctx context.Context, ownerID, conversationID, messageID, readerID string) error

	// HasMigratedMessage reports whether the owner's replica already holds a
	// message carrying the given migration dedupe key.
	HasMigratedMessage(ctx context.Context, ownerID, conversationID, dedupeKey string) (bool, error)

	// HasMatchingMessage reports whether the owner's replica holds a key-less
	// message with the same sender, content and original timestamp. Fallback
	// dedupe check for records migrated before dedupe keys existed; messages
	// that carry a dedupe key never match, so two identical sends at the same
	// instant stay distinct.
	HasMatchingMessage(ctx context.Context, ownerID, conversationID, senderID, content string, at time.Time) (bool, error)
}
