package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// FlowStore keeps checkout flows between requests.
type FlowStore interface {
	// Load returns nil, nil when the user has no flow.
	Load(ctx context.Context, userID uuid.UUID) (*Flow, error)
	Save(ctx context.Context, f *Flow) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type MemoryFlowStore struct {
	mu    sync.Mutex
	flows map[uuid.UUID]Flow
}

func NewMemoryFlowStore() *MemoryFlowStore {
	return &MemoryFlowStore{flows: map[uuid.UUID]Flow{}}
}

func (m *MemoryFlowStore) Load(_ context.Context, userID uuid.UUID) (*Flow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.flows[userID]
	if !ok {
		return nil, nil
	}
	return f.clone(), nil
}

func (m *MemoryFlowStore) Save(_ context.Context, f *Flow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flows[f.UserID] = *f.clone()
	return nil
}

func (m *MemoryFlowStore) Delete(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flows, userID)
	return nil
}

const flowKeyPrefix = "checkout:"

// RedisFlowStore keeps flows as JSON so any API instance can resume them.
type RedisFlowStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisFlowStore(client *redis.Client, ttl time.Duration) *RedisFlowStore {
	return &RedisFlowStore{client: client, ttl: ttl}
}

func (s *RedisFlowStore) Load(ctx context.Context, userID uuid.UUID) (*Flow, error) {
	raw, err := s.client.Get(ctx, flowKeyPrefix+userID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load checkout: %w", err)
	}
	var f Flow
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode checkout: %w", err)
	}
	return &f, nil
}

func (s *RedisFlowStore) Save(ctx context.Context, f *Flow) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, flowKeyPrefix+f.UserID.String(), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save checkout: %w", err)
	}
	return nil
}

func (s *RedisFlowStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, flowKeyPrefix+userID.String()).Err(); err != nil {
		return fmt.Errorf("delete checkout: %w", err)
	}
	return nil
}
