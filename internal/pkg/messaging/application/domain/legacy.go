package messaging

import (
	"time"

	"github.com/google/uuid"
)

// migrationNamespace seeds the deterministic dedupe key for migrated legacy
// messages. Changing it would re-duplicate prior migrations; never do that.
var migrationNamespace = uuid.MustParse("8f0c2f5e-1d4b-4a62-9b3f-6f1f0b6d4c91")

// LegacyMessage is the pre-conversation record shape: a single fixed
// sender/receiver pair instead of a participant set. Read-only outside the
// migration path; migration is additive and never mutates legacy rows.
type LegacyMessage struct {
	ID         string      `db:"id"`
	SenderID   string      `db:"sender_id"`
	ReceiverID string      `db:"receiver_id"`
	JobID      *string     `db:"job_id"`
	Content    string      `db:"content"`
	MsgType    MessageType `db:"msg_type"`
	IsRead     bool        `db:"is_read"`
	CreatedAt  time.Time   `db:"created_at"`
}

// Participants returns the sender/receiver pair as a participant set.
func (l *LegacyMessage) Participants() []string {
	return []string{l.SenderID, l.ReceiverID}
}

// Other returns the counterpart of userID in this legacy exchange.
func (l *LegacyMessage) Other(userID string) string {
	if l.SenderID == userID {
		return l.ReceiverID
	}
	return l.SenderID
}

// Involves reports whether userID is the sender or the receiver.
func (l *LegacyMessage) Involves(userID string) bool {
	return l.SenderID == userID || l.ReceiverID == userID
}

// MigrationKey derives the stable dedupe key stored on a migrated message.
// It depends only on the sender and the original legacy record id, so
// replaying the same legacy row always produces the same key, even when two
// identical messages were sent at the same instant.
func (l *LegacyMessage) MigrationKey() string {
	return uuid.NewSHA1(migrationNamespace, []byte(l.SenderID+"/"+l.ID)).String()
}
