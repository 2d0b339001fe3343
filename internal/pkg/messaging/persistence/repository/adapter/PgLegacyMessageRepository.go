package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
	repository "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/persistence/repository/port"
)

// PgLegacyMessageRepository reads the flat pre-conversation message table.
// Migration never writes here; the table is kept as-is for auditability.
type PgLegacyMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgLegacyMessageRepository(pool *pgxpool.Pool) *PgLegacyMessageRepository {
	return &PgLegacyMessageRepository{pool: pool}
}

// Ensure interface compliance at compile time
var _ repository.LegacyMessageRepository = (*PgLegacyMessageRepository)(nil)

func (r *PgLegacyMessageRepository) GetLegacyMessage(ctx context.Context, id string) (*messaging.LegacyMessage, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgLegacyMessageRepository: nil pool")
	}
	var l messaging.LegacyMessage
	err := r.pool.QueryRow(ctx, `
		SELECT id, sender_id, receiver_id, job_id, content, msg_type, is_read, created_at
		FROM msg.legacy_message
		WHERE id = $1
	`, id).Scan(&l.ID, &l.SenderID, &l.ReceiverID, &l.JobID, &l.Content, &l.MsgType, &l.IsRead, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: legacy message %s", messaging.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *PgLegacyMessageRepository) ListLegacyBetween(ctx context.Context, userA, userB string) ([]messaging.LegacyMessage, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgLegacyMessageRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, sender_id, receiver_id, job_id, content, msg_type, is_read, created_at
		FROM msg.legacy_message
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC
	`, userA, userB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []messaging.LegacyMessage
	for rows.Next() {
		var l messaging.LegacyMessage
		if err := rows.Scan(&l.ID, &l.SenderID, &l.ReceiverID, &l.JobID, &l.Content, &l.MsgType, &l.IsRead, &l.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, l)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return msgs, nil
}
