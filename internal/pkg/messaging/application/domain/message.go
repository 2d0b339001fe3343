package messaging

import (
	"strings"
	"time"
)

// MessageType represents type of message content
// 0=text, 1=image, 2=file, 3=system
type MessageType int16

const (
	MessageTypeText   MessageType = 0
	MessageTypeImage  MessageType = 1
	MessageTypeFile   MessageType = 2
	MessageTypeSystem MessageType = 3
)

// Message is one replica of a sent message. Replicas of the same send live in
// each participant's private list and carry independent physical IDs; the
// (sender, content, created-at) triple is the unit of intent across replicas,
// with DedupeKey as the stable marker for migrated legacy records.
type Message struct {
	ID             string         `db:"id"`
	ConversationID string         `db:"conversation_id"`
	SenderID       string         `db:"sender_id"`
	Content        string         `db:"content"`
	MsgType        MessageType    `db:"msg_type"`
	Status         DeliveryStatus `db:"status"`
	ReadBy         []string       `db:"read_by"`
	DedupeKey      *string        `db:"dedupe_key"`
	CreatedAt      time.Time      `db:"created_at"`
}

// NewMessage validates and normalizes a message ready for replication.
// A zero CreatedAt is stamped with the current UTC time; migrations pass the
// original legacy timestamp instead to preserve ordering.
func NewMessage(m Message) (*Message, error) {
	if m.ConversationID == "" || m.SenderID == "" {
		return nil, ErrInvalidParticipants
	}
	m.Content = strings.TrimSpace(m.Content)
	if m.Content == "" {
		return nil, ErrEmptyMessage
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	m.Status = StatusSent
	if m.ReadBy == nil {
		m.ReadBy = []string{}
	}
	return &m, nil
}

// SeenBy reports whether userID is already in the read-by set.
func (m *Message) SeenBy(userID string) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

// MarkReadBy adds userID to the read-by set and advances the status to read.
// Adding an already-present reader is a no-op; the status never regresses.
func (m *Message) MarkReadBy(userID string) {
	if !m.SeenBy(userID) {
		m.ReadBy = append(m.ReadBy, userID)
	}
	if m.Status.CanAdvanceTo(StatusRead) {
		m.Status = StatusRead
	}
}
