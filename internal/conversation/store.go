package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"marketplace-service/internal/observability"
)

// Store persists the serialized message list under a conversation key. Store
// failures are treated as degradation, never as fatal errors, by callers.
type Store interface {
	Load(ctx context.Context, key string) ([]ChatMessage, error)
	Save(ctx context.Context, key string, msgs []ChatMessage) error
}

// RedisStore keeps conversation snapshots in Redis so a reconnecting client
// paints instantly before the authoritative history arrives.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore constructs a RedisStore. A zero ttl keeps snapshots forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Load reads the snapshot for the key. A missing key yields an empty list.
func (s *RedisStore) Load(ctx context.Context, key string) ([]ChatMessage, error) {
	payload, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.IncConversationCacheOp("load", "miss")
		return nil, nil
	}
	if err != nil {
		observability.IncConversationCacheOp("load", "error")
		return nil, fmt.Errorf("load conversation %s: %w", key, err)
	}

	var msgs []ChatMessage
	if err := json.Unmarshal(payload, &msgs); err != nil {
		observability.IncConversationCacheOp("load", "error")
		return nil, fmt.Errorf("decode conversation %s: %w", key, err)
	}
	observability.IncConversationCacheOp("load", "hit")
	return msgs, nil
}

// Save rewrites the full snapshot for the key.
func (s *RedisStore) Save(ctx context.Context, key string, msgs []ChatMessage) error {
	payload, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("encode conversation %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		observability.IncConversationCacheOp("save", "error")
		return fmt.Errorf("save conversation %s: %w", key, err)
	}
	observability.IncConversationCacheOp("save", "ok")
	return nil
}

// MemoryStore is an in-process Store used in tests and when Redis is not
// configured.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

// NewMemoryStore builds an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string][]byte)}
}

func (s *MemoryStore) Load(ctx context.Context, key string) ([]ChatMessage, error) {
	s.mu.RLock()
	payload, ok := s.snapshots[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	var msgs []ChatMessage
	if err := json.Unmarshal(payload, &msgs); err != nil {
		return nil, fmt.Errorf("decode conversation %s: %w", key, err)
	}
	return msgs, nil
}

func (s *MemoryStore) Save(ctx context.Context, key string, msgs []ChatMessage) error {
	payload, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("encode conversation %s: %w", key, err)
	}
	s.mu.Lock()
	s.snapshots[key] = payload
	s.mu.Unlock()
	return nil
}
