package adapter

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
	repository "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/persistence/repository/port"
)

// MemoryMessagingRepository is an in-process implementation of both
// repository ports. It backs the test suite and local development runs where
// no Postgres is available. Per-owner write failures can be injected to
// exercise the partial fan-out path.
type MemoryMessagingRepository struct {
	mu sync.Mutex

	convs  map[string]map[string]*messaging.Conversation // owner -> conversation id -> replica
	msgs   map[string]map[string][]messaging.Message     // owner -> conversation id -> append order
	legacy []messaging.LegacyMessage

	appendErr map[string]error // owner -> forced AppendMessageReplica error
	touchErr  map[string]error // owner -> forced TouchConversationReplica error
}

func NewMemoryMessagingRepository() *MemoryMessagingRepository {
	return &MemoryMessagingRepository{
		convs:     make(map[string]map[string]*messaging.Conversation),
		msgs:      make(map[string]map[string][]messaging.Message),
		appendErr: make(map[string]error),
		touchErr:  make(map[string]error),
	}
}

// Ensure interface compliance at compile time
var (
	_ repository.MessagingRepository     = (*MemoryMessagingRepository)(nil)
	_ repository.LegacyMessageRepository = (*MemoryMessagingRepository)(nil)
)

// FailAppendFor forces every AppendMessageReplica targeting ownerID to return
// err. Pass nil to clear.
func (r *MemoryMessagingRepository) FailAppendFor(ownerID string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.appendErr, ownerID)
		return
	}
	r.appendErr[ownerID] = err
}

// FailTouchFor forces every TouchConversationReplica targeting ownerID to
// return err. Pass nil to clear.
func (r *MemoryMessagingRepository) FailTouchFor(ownerID string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.touchErr, ownerID)
		return
	}
	r.touchErr[ownerID] = err
}

// SeedLegacy loads legacy records for migration tests.
func (r *MemoryMessagingRepository) SeedLegacy(msgs ...messaging.LegacyMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.legacy = append(r.legacy, msgs...)
}

func (r *MemoryMessagingRepository) PutConversationReplica(_ context.Context, c messaging.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.convs[c.OwnerID] == nil {
		r.convs[c.OwnerID] = make(map[string]*messaging.Conversation)
	}
	if _, exists := r.convs[c.OwnerID][c.ID]; exists {
		return nil
	}
	cp := cloneConversation(&c)
	r.convs[c.OwnerID][c.ID] = cp
	return nil
}

func (r *MemoryMessagingRepository) GetConversationReplica(_ context.Context, ownerID, conversationID string) (*messaging.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.convs[ownerID][conversationID]
	if !ok {
		return nil, fmt.Errorf("%w: conversation %s for %s", messaging.ErrNotFound, conversationID, ownerID)
	}
	return cloneConversation(c), nil
}

func (r *MemoryMessagingRepository) ListConversationReplicas(_ context.Context, ownerID string) ([]messaging.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]messaging.Conversation, 0, len(r.convs[ownerID]))
	for _, c := range r.convs[ownerID] {
		out = append(out, *cloneConversation(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *MemoryMessagingRepository) TouchConversationReplica(_ context.Context, ownerID, conversationID string, p messaging.Preview, incrementFor []string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.touchErr[ownerID]; err != nil {
		return err
	}
	c, ok := r.convs[ownerID][conversationID]
	if !ok {
		return fmt.Errorf("%w: conversation %s for %s", messaging.ErrNotFound, conversationID, ownerID)
	}
	preview := p
	c.LastMessage = &preview
	c.UpdatedAt = at
	if c.Unread == nil {
		c.Unread = make(map[string]int)
	}
	for _, pid := range incrementFor {
		c.Unread[pid]++
	}
	return nil
}

func (r *MemoryMessagingRepository) ResetUnread(_ context.Context, ownerID, conversationID, participantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.convs[ownerID][conversationID]
	if !ok {
		return nil
	}
	if c.Unread != nil {
		c.Unread[participantID] = 0
	}
	return nil
}

func (r *MemoryMessagingRepository) AppendMessageReplica(_ context.Context, ownerID string, m messaging.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.appendErr[ownerID]; err != nil {
		return "", err
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if r.msgs[ownerID] == nil {
		r.msgs[ownerID] = make(map[string][]messaging.Message)
	}
	r.msgs[ownerID][m.ConversationID] = append(r.msgs[ownerID][m.ConversationID], *cloneMessage(&m))
	return m.ID, nil
}

func (r *MemoryMessagingRepository) ListMessageReplicas(_ context.Context, ownerID, conversationID string, limit, offset int) ([]messaging.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	stored := r.msgs[ownerID][conversationID]
	ordered := make([]messaging.Message, len(stored))
	for i := range stored {
		ordered[i] = *cloneMessage(&stored[i])
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].CreatedAt.After(ordered[j].CreatedAt) })
	if offset >= len(ordered) {
		return nil, nil
	}
	end := offset + limit
	if end > len(ordered) {
		end = len(ordered)
	}
	return ordered[offset:end], nil
}

func (r *MemoryMessagingRepository) ListUnreadMessageReplicas(_ context.Context, ownerID, conversationID, readerID string) ([]messaging.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []messaging.Message
	for i := range r.msgs[ownerID][conversationID] {
		m := &r.msgs[ownerID][conversationID][i]
		if m.SenderID == readerID || m.SeenBy(readerID) {
			continue
		}
		out = append(out, *cloneMessage(m))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryMessagingRepository) AdvanceMessageStatus(_ context.Context, ownerID, conversationID, messageID string, next messaging.DeliveryStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.findMessage(ownerID, conversationID, messageID)
	if m == nil {
		return fmt.Errorf("%w: message %s for %s", messaging.ErrNotFound, messageID, ownerID)
	}
	if m.Status.CanAdvanceTo(next) {
		m.Status = next
		return nil
	}
	if next == messaging.StatusFailed {
		return messaging.ErrStatusRegression
	}
	// Regressions on the normal path are ignored.
	return nil
}

func (r *MemoryMessagingRepository) MarkMessageRead(_ context.Context, ownerID, conversationID, messageID, readerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.findMessage(ownerID, conversationID, messageID)
	if m == nil {
		return fmt.Errorf("%w: message %s for %s", messaging.ErrNotFound, messageID, ownerID)
	}
	m.MarkReadBy(readerID)
	return nil
}

func (r *MemoryMessagingRepository) HasMigratedMessage(_ context.Context, ownerID, conversationID, dedupeKey string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.msgs[ownerID][conversationID] {
		m := &r.msgs[ownerID][conversationID][i]
		if m.DedupeKey != nil && *m.DedupeKey == dedupeKey {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryMessagingRepository) HasMatchingMessage(_ context.Context, ownerID, conversationID, senderID, content string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.msgs[ownerID][conversationID] {
		m := &r.msgs[ownerID][conversationID][i]
		if m.DedupeKey == nil && m.SenderID == senderID && m.Content == content && m.CreatedAt.Equal(at) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryMessagingRepository) GetLegacyMessage(_ context.Context, id string) (*messaging.LegacyMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.legacy {
		if r.legacy[i].ID == id {
			l := r.legacy[i]
			return &l, nil
		}
	}
	return nil, fmt.Errorf("%w: legacy message %s", messaging.ErrNotFound, id)
}

func (r *MemoryMessagingRepository) ListLegacyBetween(_ context.Context, userA, userB string) ([]messaging.LegacyMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []messaging.LegacyMessage
	for i := range r.legacy {
		l := r.legacy[i]
		if (l.SenderID == userA && l.ReceiverID == userB) || (l.SenderID == userB && l.ReceiverID == userA) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryMessagingRepository) findMessage(ownerID, conversationID, messageID string) *messaging.Message {
	for i := range r.msgs[ownerID][conversationID] {
		if r.msgs[ownerID][conversationID][i].ID == messageID {
			return &r.msgs[ownerID][conversationID][i]
		}
	}
	return nil
}

func cloneConversation(c *messaging.Conversation) *messaging.Conversation {
	cp := *c
	cp.Participants = append([]string(nil), c.Participants...)
	if c.Unread != nil {
		cp.Unread = make(map[string]int, len(c.Unread))
		for k, v := range c.Unread {
			cp.Unread[k] = v
		}
	}
	if c.LastMessage != nil {
		lm := *c.LastMessage
		cp.LastMessage = &lm
	}
	return &cp
}

func cloneMessage(m *messaging.Message) *messaging.Message {
	cp := *m
	cp.ReadBy = append([]string(nil), m.ReadBy...)
	if m.DedupeKey != nil {
		k := *m.DedupeKey
		cp.DedupeKey = &k
	}
	return &cp
}
