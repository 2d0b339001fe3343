package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
	repository "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/persistence/repository/port"
)

// Notifier pushes accepted sends to connected clients. Implementations must
// be best-effort; delivery over the socket is never part of the send
// contract.
type Notifier interface {
	MessageAccepted(conversationID string, m messaging.Message)
}

// SendMessageInput carries the data needed to send a new message
type SendMessageInput struct {
	ConversationID string
	SenderID       string
	Content        string
	MsgType        messaging.MessageType
}

// SendMessageUseCase fans a message out into every participant's replica and
// updates their conversation previews and unread counters.
// One class per use case (own file)
type SendMessageUseCase struct {
	Repo     repository.MessagingRepository
	Notifier Notifier // optional
}

func NewSendMessageUseCase(repo repository.MessagingRepository) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo}
}

// Execute validates, replicates and previews a new message.
//
// On success the sender's own replica is guaranteed to contain the message;
// the other participants' replicas converge once their independent writes
// land. Any failed replica write is reported as messaging.ErrPartialFanout
// even when other replicas already succeeded — there is no rollback.
func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*messaging.Message, error) {
	// Validate before any write so an invalid send leaves no trace.
	msg, err := messaging.NewMessage(messaging.Message{
		ConversationID: in.ConversationID,
		SenderID:       in.SenderID,
		Content:        in.Content,
		MsgType:        in.MsgType,
	})
	if err != nil {
		return nil, err
	}

	participants, err := uc.resolveParticipants(ctx, in.ConversationID, in.SenderID)
	if err != nil {
		return nil, err
	}

	senderReplicaID, err := replicateMessage(ctx, uc.Repo, participants, *msg)
	if err != nil {
		return nil, err
	}
	msg.ID = senderReplicaID

	preview := messaging.Preview{Content: msg.Content, SenderID: msg.SenderID, SentAt: msg.CreatedAt}
	recipients := otherThan(participants, in.SenderID)
	if err := touchReplicas(ctx, uc.Repo, in.ConversationID, participants, preview, recipients, msg.CreatedAt); err != nil {
		return nil, err
	}

	if uc.Notifier != nil {
		uc.Notifier.MessageAccepted(in.ConversationID, *msg)
	}
	return msg, nil
}

// resolveParticipants loads the sender's conversation replica, creating the
// conversation on first send. When no replica exists the participant set is
// recovered from the canonical id itself.
func (uc *SendMessageUseCase) resolveParticipants(ctx context.Context, conversationID, senderID string) ([]string, error) {
	conv, err := uc.Repo.GetConversationReplica(ctx, senderID, conversationID)
	if err == nil {
		if !conv.HasParticipant(senderID) {
			return nil, messaging.ErrNotParticipant
		}
		return conv.Participants, nil
	}
	if !errors.Is(err, messaging.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	participants, jobID, ok := messaging.ParseCanonicalID(conversationID)
	if !ok {
		return nil, fmt.Errorf("%w: conversation %s", messaging.ErrNotFound, conversationID)
	}
	if !contains(participants, senderID) {
		return nil, messaging.ErrNotParticipant
	}
	if _, err := ensureReplicas(ctx, uc.Repo, participants, jobID, time.Now().UTC()); err != nil {
		return nil, err
	}
	return participants, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func otherThan(ids []string, excluded string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != excluded {
			out = append(out, v)
		}
	}
	return out
}
