package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
	repository "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/persistence/repository/port"
)

// Fan-out primitives shared by SendMessage and MigrateLegacy. Writes to the
// individual replicas run concurrently and independently: there is no
// cross-replica transaction and no rollback. The caller is reported success
// only when every write succeeded; anything less surfaces as
// messaging.ErrPartialFanout with the failed owners attached.
//
// Deliberately plain errgroup.Group, not WithContext: a failing replica must
// not cancel its siblings mid-write.

// ensureReplicas creates the conversation replica for every participant if it
// does not exist yet. Safe to call repeatedly; replica creation is idempotent
// per owner.
func ensureReplicas(ctx context.Context, repo repository.MessagingRepository, participantIDs []string, jobID *string, now time.Time) (string, error) {
	replicas, err := messaging.NewConversation(participantIDs, jobID, now)
	if err != nil {
		return "", err
	}

	var g errgroup.Group
	var mu sync.Mutex
	var failed []string
	for _, replica := range replicas {
		replica := replica
		g.Go(func() error {
			if err := repo.PutConversationReplica(ctx, replica); err != nil {
				mu.Lock()
				failed = append(failed, replica.OwnerID)
				mu.Unlock()
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", fanoutError("create conversation", failed, err)
	}
	return replicas[0].ID, nil
}

// replicateMessage appends one copy of msg to every participant's private
// list. Each replica gets its own physical id; the id assigned to the
// sender's replica is returned because that is the copy the caller observes.
func replicateMessage(ctx context.Context, repo repository.MessagingRepository, participantIDs []string, msg messaging.Message) (string, error) {
	var g errgroup.Group
	var mu sync.Mutex
	var failed []string
	var senderReplicaID string

	for _, owner := range participantIDs {
		owner := owner
		replica := msg
		replica.ID = uuid.NewString()
		if owner == msg.SenderID {
			senderReplicaID = replica.ID
		}
		g.Go(func() error {
			if _, err := repo.AppendMessageReplica(ctx, owner, replica); err != nil {
				mu.Lock()
				failed = append(failed, owner)
				mu.Unlock()
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", fanoutError("replicate message", failed, err)
	}
	return senderReplicaID, nil
}

// touchReplicas updates the last-message preview on every participant's
// conversation replica, bumping the unread counter of each participant in
// incrementFor. The sender's counter is never incremented.
func touchReplicas(ctx context.Context, repo repository.MessagingRepository, conversationID string, participantIDs []string, p messaging.Preview, incrementFor []string, at time.Time) error {
	var g errgroup.Group
	var mu sync.Mutex
	var failed []string
	for _, owner := range participantIDs {
		owner := owner
		g.Go(func() error {
			if err := repo.TouchConversationReplica(ctx, owner, conversationID, p, incrementFor, at); err != nil {
				mu.Lock()
				failed = append(failed, owner)
				mu.Unlock()
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fanoutError("touch conversation", failed, err)
	}
	return nil
}

func fanoutError(op string, failedOwners []string, cause error) error {
	return fmt.Errorf("%w: %s for [%s]: %v", messaging.ErrPartialFanout, op, strings.Join(failedOwners, ", "), cause)
}
