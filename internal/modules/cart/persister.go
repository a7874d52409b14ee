package cart

import (
	"context"
	"sync"
)

// Persister stores a cart's lines under an owner key.
type Persister interface {
	Load(ctx context.Context, owner string) ([]Line, error)
	Save(ctx context.Context, owner string, lines []Line) error
	Delete(ctx context.Context, owner string) error
}

// MemoryPersister keeps carts in process memory.
type MemoryPersister struct {
	mu    sync.Mutex
	carts map[string][]Line
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{carts: make(map[string][]Line)}
}

func (m *MemoryPersister) Load(_ context.Context, owner string) ([]Line, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Line(nil), m.carts[owner]...), nil
}

func (m *MemoryPersister) Save(_ context.Context, owner string, lines []Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[owner] = append([]Line(nil), lines...)
	return nil
}

func (m *MemoryPersister) Delete(_ context.Context, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, owner)
	return nil
}
