package usecase

import (
	"context"
	"sync"
	"time"

	cacheport "github.com/Jaiparmar940/workly-sub000/internal/infrastructure/cache/port"
	messaging "github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/domain"
	"github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

func newTestRepo() *adapter.MemoryMessagingRepository {
	return adapter.NewMemoryMessagingRepository()
}

func mustCreateConversation(ctx context.Context, repo *adapter.MemoryMessagingRepository, participants []string, jobID *string) string {
	conv, err := NewCreateConversationUseCase(repo).Execute(ctx, CreateConversationInput{
		ParticipantIDs: participants,
		JobID:          jobID,
	})
	if err != nil {
		panic(err)
	}
	return conv.ID
}

// memoryCache is a map-backed cacheport.Cache for resolver tests. TTLs are
// recorded but never enforced.
type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
	sets int
	gets int
}

var _ cacheport.Cache = (*memoryCache)(nil)

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]string)}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.data[key]
	if !ok {
		return "", cacheport.ErrMiss
	}
	return v, nil
}

func (c *memoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = value
	return nil
}

func (c *memoryCache) Del(_ context.Context, keys ...string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := c.data[k]; ok {
			delete(c.data, k)
			n++
		}
	}
	return n, nil
}

func (c *memoryCache) Ping(context.Context) error { return nil }
func (c *memoryCache) Close() error               { return nil }

// recordingNotifier captures accepted sends for assertion.
type recordingNotifier struct {
	mu       sync.Mutex
	accepted []messaging.Message
}

var _ Notifier = (*recordingNotifier)(nil)

func (n *recordingNotifier) MessageAccepted(_ string, m messaging.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.accepted = append(n.accepted, m)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.accepted)
}
