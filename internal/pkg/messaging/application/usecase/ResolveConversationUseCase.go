package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	cacheport "github.com/Jaiparmar940/workly-sub000/internal/infrastructure/cache/port"
	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
	repository "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/persistence/repository/port"
)

const (
	resolveCachePrefix = "msg:resolve:"
	resolveCacheTTL    = 24 * time.Hour
	resolvePageSize    = 50
)

// ResolveConversationInput carries the caller identity and the opaque id the
// UI navigated with, which may be a conversation id or a legacy message id.
type ResolveConversationInput struct {
	CallerID string
	OpaqueID string
}

// ResolveConversationOutput bundles the caller's replica and its first page
// of messages, newest first.
type ResolveConversationOutput struct {
	Conversation *messaging.Conversation
	Messages     []messaging.Message
}

// ResolveConversationUseCase is the single entry point that accepts either an
// old or a new identifier. Strategy order: the opaque id as a conversation id
// under the caller's replica; then as a legacy message id, migrating the pair's
// flat history into a fresh conversation; then not-found.
//
// Resolved legacy-id mappings are cached so reopening a migrated conversation
// skips the legacy lookup. The cache is an optimization only; a miss or a
// cache outage falls through to the full path.
type ResolveConversationUseCase struct {
	Repo    repository.MessagingRepository
	Migrate *MigrateLegacyUseCase
	Cache   cacheport.Cache // optional
}

func NewResolveConversationUseCase(repo repository.MessagingRepository, migrate *MigrateLegacyUseCase, cache cacheport.Cache) *ResolveConversationUseCase {
	return &ResolveConversationUseCase{Repo: repo, Migrate: migrate, Cache: cache}
}

func (uc *ResolveConversationUseCase) Execute(ctx context.Context, in ResolveConversationInput) (*ResolveConversationOutput, error) {
	if in.CallerID == "" || in.OpaqueID == "" {
		return nil, fmt.Errorf("caller_id and opaque_id are required")
	}

	// Strategy 1: the opaque id is a conversation id the caller already owns.
	out, err := uc.open(ctx, in.CallerID, in.OpaqueID)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, messaging.ErrNotFound) {
		return nil, err
	}

	// Strategy 2: a previously resolved legacy id, served from cache.
	if uc.Cache != nil {
		if mapped, cerr := uc.Cache.Get(ctx, resolveCachePrefix+in.OpaqueID); cerr == nil && mapped != "" {
			if out, oerr := uc.open(ctx, in.CallerID, mapped); oerr == nil {
				return out, nil
			}
		}
	}

	// Strategy 3: a legacy message id; reconstruct the conversation around it.
	legacy, lerr := uc.Migrate.LegacyRepo.GetLegacyMessage(ctx, in.OpaqueID)
	if lerr != nil {
		if errors.Is(lerr, messaging.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", messaging.ErrNotFound, in.OpaqueID)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, lerr)
	}
	if !legacy.Involves(in.CallerID) {
		return nil, fmt.Errorf("%w: %s", messaging.ErrNotFound, in.OpaqueID)
	}

	conversationID, derr := messaging.CanonicalConversationID(legacy.Participants(), legacy.JobID)
	if derr != nil {
		return nil, derr
	}
	if _, merr := uc.Migrate.Execute(ctx, MigrateLegacyInput{
		ConversationID: conversationID,
		ParticipantIDs: legacy.Participants(),
	}); merr != nil {
		return nil, merr
	}

	if uc.Cache != nil {
		// Best-effort; a failed cache write only costs a re-derivation later.
		_ = uc.Cache.Set(ctx, resolveCachePrefix+in.OpaqueID, conversationID, resolveCacheTTL)
	}

	out, err = uc.open(ctx, in.CallerID, conversationID)
	if err != nil {
		if errors.Is(err, messaging.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", messaging.ErrNotFound, in.OpaqueID)
		}
		return nil, err
	}
	return out, nil
}

// open loads the caller's replica and its first message page, lazily folding
// in legacy history the first time an empty two-party conversation is opened.
func (uc *ResolveConversationUseCase) open(ctx context.Context, callerID, conversationID string) (*ResolveConversationOutput, error) {
	conv, err := uc.Repo.GetConversationReplica(ctx, callerID, conversationID)
	if err != nil {
		if errors.Is(err, messaging.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	msgs, err := uc.Repo.ListMessageReplicas(ctx, callerID, conversationID, resolvePageSize, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if len(msgs) == 0 && len(conv.Participants) == 2 {
		migrated, merr := uc.Migrate.Execute(ctx, MigrateLegacyInput{
			ConversationID: conversationID,
			ParticipantIDs: conv.Participants,
		})
		if merr != nil {
			return nil, merr
		}
		if migrated > 0 {
			if conv, err = uc.Repo.GetConversationReplica(ctx, callerID, conversationID); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
			}
			if msgs, err = uc.Repo.ListMessageReplicas(ctx, callerID, conversationID, resolvePageSize, 0); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
			}
		}
	}

	return &ResolveConversationOutput{Conversation: conv, Messages: msgs}, nil
}
