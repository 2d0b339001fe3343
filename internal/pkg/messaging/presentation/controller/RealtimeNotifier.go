package controller

import (
	"encoding/json"

	"github.com/Jaiparmar940/workly-sub000/internal/infrastructure/realtime"
	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
	"github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/usecase"
)

// RealtimeNotifier bridges accepted sends onto open websocket rooms. The
// sender is excluded; their client already holds the message from the send
// response.
type RealtimeNotifier struct {
	router *realtime.Router
}

func NewRealtimeNotifier(router *realtime.Router) *RealtimeNotifier {
	return &RealtimeNotifier{router: router}
}

// Ensure interface compliance at compile time
var _ usecase.Notifier = (*RealtimeNotifier)(nil)

func (n *RealtimeNotifier) MessageAccepted(conversationID string, m messaging.Message) {
	if n == nil || n.router == nil {
		return
	}
	frame := struct {
		Type           string         `json:"type"`
		ConversationID string         `json:"conversation_id"`
		Message        messagePayload `json:"message"`
	}{
		Type:           "message",
		ConversationID: conversationID,
		Message:        toMessagePayload(m),
	}
	payload, err := json.Marshal(frame)
	if err != nil {
		return
	}
	n.router.Broadcast(conversationID, payload, m.SenderID)
}
