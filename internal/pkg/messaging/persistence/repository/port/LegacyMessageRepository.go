package repository

import (
	"context"

	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
)

// LegacyMessageRepository reads the pre-conversation message records. The
// legacy shape has one fixed receiver, so it can only be queried by user
// pair, never by conversation id. Strictly read-only: migration copies legacy
// rows into the replica store and leaves the originals untouched.
type LegacyMessageRepository interface {
	// GetLegacyMessage returns the record by id, or messaging.ErrNotFound.
	GetLegacyMessage(ctx context.Context, id string) (*messaging.LegacyMessage, error)

	// ListLegacyBetween returns every legacy message exchanged between the two
	// users in either direction, regardless of job context, ascending by
	// creation time.
	ListLegacyBetween(ctx context.Context, userA, userB string) ([]messaging.LegacyMessage, error)
}
