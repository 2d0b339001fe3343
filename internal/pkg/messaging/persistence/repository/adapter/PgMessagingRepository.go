package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
	repository "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/persistence/repository/port"
)

// Ensure interface compliance at compile time
var _ repository.MessagingRepository = (*PgMessagingRepository)(nil)

// PgMessagingRepository persists conversation and message replicas in
// Postgres. The per-participant replica of the document model maps onto rows
// keyed by (owner_id, id); unread counters live in their own table so that
// increments can run server-side (unread = unread + 1) instead of
// read-modify-write.
type PgMessagingRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessagingRepository(pool *pgxpool.Pool) *PgMessagingRepository {
	return &PgMessagingRepository{pool: pool}
}

func (r *PgMessagingRepository) PutConversationReplica(ctx context.Context, c messaging.Conversation) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMessagingRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO msg.conversation_replica (owner_id, id, participants, job_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (owner_id, id) DO NOTHING
	`, c.OwnerID, c.ID, c.Participants, c.JobID, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return err
	}
	for _, p := range c.Participants {
		_, err = r.pool.Exec(ctx, `
			INSERT INTO msg.unread_counter (owner_id, conversation_id, participant_id, unread)
			VALUES ($1, $2, $3, 0)
			ON CONFLICT (owner_id, conversation_id, participant_id) DO NOTHING
		`, c.OwnerID, c.ID, p)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PgMessagingRepository) GetConversationReplica(ctx context.Context, ownerID, conversationID string) (*messaging.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessagingRepository: nil pool")
	}
	var (
		c        messaging.Conversation
		lastBody *string
		lastFrom *string
		lastAt   *time.Time
	)
	err := r.pool.QueryRow(ctx, `
		SELECT owner_id, id, participants, job_id, last_content, last_sender_id, last_sent_at, created_at, updated_at
		FROM msg.conversation_replica
		WHERE owner_id = $1 AND id = $2
	`, ownerID, conversationID).Scan(
		&c.OwnerID, &c.ID, &c.Participants, &c.JobID, &lastBody, &lastFrom, &lastAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: conversation %s for %s", messaging.ErrNotFound, conversationID, ownerID)
	}
	if err != nil {
		return nil, err
	}
	if lastBody != nil && lastFrom != nil && lastAt != nil {
		c.LastMessage = &messaging.Preview{Content: *lastBody, SenderID: *lastFrom, SentAt: *lastAt}
	}
	c.Unread, err = r.unreadMap(ctx, ownerID, conversationID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PgMessagingRepository) ListConversationReplicas(ctx context.Context, ownerID string) ([]messaging.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessagingRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT owner_id, id, participants, job_id, last_content, last_sender_id, last_sent_at, created_at, updated_at
		FROM msg.conversation_replica
		WHERE owner_id = $1
		ORDER BY updated_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []messaging.Conversation
	for rows.Next() {
		var (
			c        messaging.Conversation
			lastBody *string
			lastFrom *string
			lastAt   *time.Time
		)
		if err := rows.Scan(&c.OwnerID, &c.ID, &c.Participants, &c.JobID, &lastBody, &lastFrom, &lastAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if lastBody != nil && lastFrom != nil && lastAt != nil {
			c.LastMessage = &messaging.Preview{Content: *lastBody, SenderID: *lastFrom, SentAt: *lastAt}
		}
		convs = append(convs, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	// Attach counters in one pass instead of one query per conversation.
	counters, err := r.ownerCounters(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range convs {
		convs[i].Unread = counters[convs[i].ID]
	}
	return convs, nil
}

func (r *PgMessagingRepository) TouchConversationReplica(ctx context.Context, ownerID, conversationID string, p messaging.Preview, incrementFor []string, at time.Time) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMessagingRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE msg.conversation_replica
		SET last_content = $3, last_sender_id = $4, last_sent_at = $5, updated_at = $6
		WHERE owner_id = $1 AND id = $2
	`, ownerID, conversationID, p.Content, p.SenderID, p.SentAt, at)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: conversation %s for %s", messaging.ErrNotFound, conversationID, ownerID)
	}
	for _, participantID := range incrementFor {
		// Server-side increment; concurrent touches never lose updates.
		_, err = r.pool.Exec(ctx, `
			INSERT INTO msg.unread_counter (owner_id, conversation_id, participant_id, unread)
			VALUES ($1, $2, $3, 1)
			ON CONFLICT (owner_id, conversation_id, participant_id)
			DO UPDATE SET unread = msg.unread_counter.unread + 1
		`, ownerID, conversationID, participantID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PgMessagingRepository) ResetUnread(ctx context.Context, ownerID, conversationID, participantID string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMessagingRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE msg.unread_counter
		SET unread = 0
		WHERE owner_id = $1 AND conversation_id = $2 AND participant_id = $3
	`, ownerID, conversationID, participantID)
	return err
}

func (r *PgMessagingRepository) AppendMessageReplica(ctx context.Context, ownerID string, m messaging.Message) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgMessagingRepository: nil pool")
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO msg.message_replica (
			id, owner_id, conversation_id, sender_id, content, msg_type, status, read_by, dedupe_key, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, m.ID, ownerID, m.ConversationID, m.SenderID, m.Content, m.MsgType, m.Status, m.ReadBy, m.DedupeKey, m.CreatedAt).Scan(&id)
	return id, err
}

func (r *PgMessagingRepository) ListMessageReplicas(ctx context.Context, ownerID, conversationID string, limit, offset int) ([]messaging.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessagingRepository: nil pool")
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, conversation_id, sender_id, content, msg_type, status, read_by, dedupe_key, created_at
		FROM msg.message_replica
		WHERE owner_id = $1 AND conversation_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, ownerID, conversationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (r *PgMessagingRepository) ListUnreadMessageReplicas(ctx context.Context, ownerID, conversationID, readerID string) ([]messaging.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessagingRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, conversation_id, sender_id, content, msg_type, status, read_by, dedupe_key, created_at
		FROM msg.message_replica
		WHERE owner_id = $1 AND conversation_id = $2
		  AND sender_id <> $3
		  AND NOT ($3 = ANY(read_by))
		ORDER BY created_at ASC
	`, ownerID, conversationID, readerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (r *PgMessagingRepository) AdvanceMessageStatus(ctx context.Context, ownerID, conversationID, messageID string, next messaging.DeliveryStatus) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMessagingRepository: nil pool")
	}
	var ct pgconn.CommandTag
	var err error
	if next == messaging.StatusFailed {
		ct, err = r.pool.Exec(ctx, `
			UPDATE msg.message_replica
			SET status = $4
			WHERE owner_id = $1 AND conversation_id = $2 AND id = $3 AND status <= $5
		`, ownerID, conversationID, messageID, messaging.StatusFailed, messaging.StatusSent)
	} else {
		ct, err = r.pool.Exec(ctx, `
			UPDATE msg.message_replica
			SET status = $4
			WHERE owner_id = $1 AND conversation_id = $2 AND id = $3 AND status < $4 AND status <> $5
		`, ownerID, conversationID, messageID, next, messaging.StatusFailed)
	}
	if err != nil {
		return err
	}
	if ct.RowsAffected() > 0 {
		return nil
	}

	// No row moved: distinguish a missing message from an ignored regression.
	var current messaging.DeliveryStatus
	err = r.pool.QueryRow(ctx, `
		SELECT status FROM msg.message_replica
		WHERE owner_id = $1 AND conversation_id = $2 AND id = $3
	`, ownerID, conversationID, messageID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: message %s for %s", messaging.ErrNotFound, messageID, ownerID)
	}
	if err != nil {
		return err
	}
	if next == messaging.StatusFailed && !current.CanAdvanceTo(messaging.StatusFailed) {
		return messaging.ErrStatusRegression
	}
	return nil
}

func (r *PgMessagingRepository) MarkMessageRead(ctx context.Context, ownerID, conversationID, messageID, readerID string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMessagingRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE msg.message_replica
		SET read_by = CASE WHEN $4 = ANY(read_by) THEN read_by ELSE array_append(read_by, $4) END,
		    status  = CASE WHEN status < $5 THEN $5 ELSE status END
		WHERE owner_id = $1 AND conversation_id = $2 AND id = $3
	`, ownerID, conversationID, messageID, readerID, messaging.StatusRead)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: message %s for %s", messaging.ErrNotFound, messageID, ownerID)
	}
	return nil
}

func (r *PgMessagingRepository) HasMigratedMessage(ctx context.Context, ownerID, conversationID, dedupeKey string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgMessagingRepository: nil pool")
	}
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM msg.message_replica
			WHERE owner_id = $1 AND conversation_id = $2 AND dedupe_key = $3
		)
	`, ownerID, conversationID, dedupeKey).Scan(&exists)
	return exists, err
}

func (r *PgMessagingRepository) HasMatchingMessage(ctx context.Context, ownerID, conversationID, senderID, content string, at time.Time) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgMessagingRepository: nil pool")
	}
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM msg.message_replica
			WHERE owner_id = $1 AND conversation_id = $2 AND sender_id = $3 AND content = $4 AND created_at = $5
			  AND dedupe_key IS NULL
		)
	`, ownerID, conversationID, senderID, content, at).Scan(&exists)
	return exists, err
}

func (r *PgMessagingRepository) unreadMap(ctx context.Context, ownerID, conversationID string) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT participant_id, unread FROM msg.unread_counter
		WHERE owner_id = $1 AND conversation_id = $2
	`, ownerID, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	unread := make(map[string]int)
	for rows.Next() {
		var pid string
		var n int
		if err := rows.Scan(&pid, &n); err != nil {
			return nil, err
		}
		unread[pid] = n
	}
	return unread, rows.Err()
}

func (r *PgMessagingRepository) ownerCounters(ctx context.Context, ownerID string) (map[string]map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT conversation_id, participant_id, unread FROM msg.unread_counter
		WHERE owner_id = $1
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counters := make(map[string]map[string]int)
	for rows.Next() {
		var convID, pid string
		var n int
		if err := rows.Scan(&convID, &pid, &n); err != nil {
			return nil, err
		}
		if counters[convID] == nil {
			counters[convID] = make(map[string]int)
		}
		counters[convID][pid] = n
	}
	return counters, rows.Err()
}

func scanMessages(rows pgx.Rows) ([]messaging.Message, error) {
	var msgs []messaging.Message
	for rows.Next() {
		var m messaging.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.MsgType, &m.Status, &m.ReadBy, &m.DedupeKey, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return msgs, nil
}
