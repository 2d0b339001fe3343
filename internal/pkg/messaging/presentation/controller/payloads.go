package controller

import (
	"time"

	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
)

// Wire DTOs shared by the HTTP and websocket surfaces. Kept separate from the
// domain types so JSON shape changes never leak into persistence.

type messagePayload struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Content        string    `json:"content"`
	MsgType        int16     `json:"msg_type"`
	Status         string    `json:"status"`
	ReadBy         []string  `json:"read_by"`
	CreatedAt      time.Time `json:"created_at"`
}

type previewPayload struct {
	Content  string    `json:"content"`
	SenderID string    `json:"sender_id"`
	SentAt   time.Time `json:"sent_at"`
}

type conversationPayload struct {
	ID           string          `json:"id"`
	Participants []string        `json:"participants"`
	JobID        *string         `json:"job_id,omitempty"`
	LastMessage  *previewPayload `json:"last_message,omitempty"`
	UnreadCount  int             `json:"unread_count"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toMessagePayload(m messaging.Message) messagePayload {
	readBy := m.ReadBy
	if readBy == nil {
		readBy = []string{}
	}
	return messagePayload{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		MsgType:        int16(m.MsgType),
		Status:         m.Status.String(),
		ReadBy:         readBy,
		CreatedAt:      m.CreatedAt,
	}
}

func toMessagePayloads(msgs []messaging.Message) []messagePayload {
	out := make([]messagePayload, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessagePayload(m))
	}
	return out
}

// toConversationPayload projects a replica for its owning viewer; the unread
// count shown is the viewer's own counter.
func toConversationPayload(c messaging.Conversation, viewerID string) conversationPayload {
	p := conversationPayload{
		ID:           c.ID,
		Participants: c.Participants,
		JobID:        c.JobID,
		UnreadCount:  c.UnreadFor(viewerID),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	if c.LastMessage != nil {
		p.LastMessage = &previewPayload{
			Content:  c.LastMessage.Content,
			SenderID: c.LastMessage.SenderID,
			SentAt:   c.LastMessage.SentAt,
		}
	}
	return p
}
