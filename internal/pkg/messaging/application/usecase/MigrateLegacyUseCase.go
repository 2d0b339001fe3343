package usecase

import (
	"context"
	"fmt"

	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
	repository "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/persistence/repository/port"
)

// MigrateLegacyInput names the target conversation and the user pair whose
// flat message history should be folded into it.
type MigrateLegacyInput struct {
	ConversationID string
	ParticipantIDs []string
}

// MigrateLegacyUseCase is the only component that understands the
// pre-conversation record shape. It replays the pair's legacy history through
// the replica fan-out path, oldest first, preserving original sender, content
// and timestamps. Legacy rows are never mutated or deleted.
//
// Idempotent: each replayed message carries a deterministic dedupe key
// derived from (sender, legacy id), and a replica that already holds the key
// is skipped. Records migrated before keys existed are matched by (sender,
// content, original timestamp) as a fallback. A partially migrated replica
// pair is healed on the next invocation.
type MigrateLegacyUseCase struct {
	Repo       repository.MessagingRepository
	LegacyRepo repository.LegacyMessageRepository
}

func NewMigrateLegacyUseCase(repo repository.MessagingRepository, legacyRepo repository.LegacyMessageRepository) *MigrateLegacyUseCase {
	return &MigrateLegacyUseCase{Repo: repo, LegacyRepo: legacyRepo}
}

// Execute returns the number of legacy records replayed into at least one
// replica. Zero with a nil error means there was nothing (left) to migrate.
func (uc *MigrateLegacyUseCase) Execute(ctx context.Context, in MigrateLegacyInput) (int, error) {
	if len(in.ParticipantIDs) != 2 {
		return 0, messaging.ErrTooFewMembers
	}
	a, b := in.ParticipantIDs[0], in.ParticipantIDs[1]

	history, err := uc.LegacyRepo.ListLegacyBetween(ctx, a, b)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if len(history) == 0 {
		return 0, nil
	}

	_, jobID, ok := messaging.ParseCanonicalID(in.ConversationID)
	if !ok {
		return 0, fmt.Errorf("%w: conversation id %q is not canonical", messaging.ErrNotFound, in.ConversationID)
	}
	if _, err := ensureReplicas(ctx, uc.Repo, in.ParticipantIDs, jobID, history[0].CreatedAt); err != nil {
		return 0, err
	}

	migrated := 0
	for i := range history {
		replayed, err := uc.replay(ctx, in.ConversationID, in.ParticipantIDs, &history[i])
		if err != nil {
			return migrated, err
		}
		if replayed {
			migrated++
		}
	}
	return migrated, nil
}

// replay copies one legacy record into every replica that does not hold it
// yet and updates previews and unread counters accordingly.
func (uc *MigrateLegacyUseCase) replay(ctx context.Context, conversationID string, participants []string, l *messaging.LegacyMessage) (bool, error) {
	key := l.MigrationKey()

	var appendTo []string
	for _, owner := range participants {
		byKey, err := uc.Repo.HasMigratedMessage(ctx, owner, conversationID, key)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if byKey {
			continue
		}
		// Pre-key migrations left no dedupe marker; fall back to intent match.
		byMatch, err := uc.Repo.HasMatchingMessage(ctx, owner, conversationID, l.SenderID, l.Content, l.CreatedAt)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if byMatch {
			continue
		}
		appendTo = append(appendTo, owner)
	}
	if len(appendTo) == 0 {
		return false, nil
	}

	msg := messaging.Message{
		ConversationID: conversationID,
		SenderID:       l.SenderID,
		Content:        l.Content,
		MsgType:        l.MsgType,
		Status:         messaging.StatusSent,
		ReadBy:         []string{},
		DedupeKey:      &key,
		CreatedAt:      l.CreatedAt,
	}
	if l.IsRead {
		msg.Status = messaging.StatusRead
		msg.ReadBy = []string{l.ReceiverID}
	}

	if _, err := replicateMessage(ctx, uc.Repo, appendTo, msg); err != nil {
		return false, err
	}

	// The receiver's counter only moves for records they had not seen and
	// that reached their replica in this pass.
	var incrementFor []string
	if !l.IsRead && contains(appendTo, l.ReceiverID) {
		incrementFor = []string{l.ReceiverID}
	}
	preview := messaging.Preview{Content: l.Content, SenderID: l.SenderID, SentAt: l.CreatedAt}
	if err := touchReplicas(ctx, uc.Repo, conversationID, participants, preview, incrementFor, l.CreatedAt); err != nil {
		return false, err
	}
	return true, nil
}
