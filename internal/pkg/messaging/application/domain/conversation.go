package messaging

import "time"

// Preview is the last-message summary denormalized onto a conversation replica.
type Preview struct {
	Content  string    `db:"last_content"`
	SenderID string    `db:"last_sender_id"`
	SentAt   time.Time `db:"last_sent_at"`
}

// Conversation is one participant's replica of a logical conversation.
// Logically there is one conversation; physically each participant owns a
// copy keyed by (OwnerID, ID). Replicas converge once all fan-out writes for
// a given send have landed.
type Conversation struct {
	ID           string         `db:"id"`
	OwnerID      string         `db:"owner_id"`
	Participants []string       `db:"participants"`
	JobID        *string        `db:"job_id"`
	LastMessage  *Preview       `db:"-"`
	Unread       map[string]int `db:"unread"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// NewConversation derives the canonical id and builds the replica set for
// every participant, each with all unread counters initialized to zero.
func NewConversation(participantIDs []string, jobID *string, now time.Time) ([]Conversation, error) {
	id, err := CanonicalConversationID(participantIDs, jobID)
	if err != nil {
		return nil, err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	replicas := make([]Conversation, 0, len(participantIDs))
	for _, owner := range participantIDs {
		unread := make(map[string]int, len(participantIDs))
		for _, p := range participantIDs {
			unread[p] = 0
		}
		replicas = append(replicas, Conversation{
			ID:           id,
			OwnerID:      owner,
			Participants: append([]string(nil), participantIDs...),
			JobID:        jobID,
			Unread:       unread,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return replicas, nil
}

// HasParticipant tells whether userID is part of this conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	if c == nil {
		return false
	}
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipants returns every participant except userID.
func (c *Conversation) OtherParticipants(userID string) []string {
	others := make([]string, 0, len(c.Participants))
	for _, p := range c.Participants {
		if p != userID {
			others = append(others, p)
		}
	}
	return others
}

// UnreadFor returns the owner-visible unread count for userID.
func (c *Conversation) UnreadFor(userID string) int {
	if c == nil || c.Unread == nil {
		return 0
	}
	return c.Unread[userID]
}
