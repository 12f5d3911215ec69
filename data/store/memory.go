package store

import (
	"context"
	"sync"

	"github.com/ncobase/searchsync/data"
)

func init() {
	data.RegisterStoreDriver(&memoryDriver{})
}

type memoryDriver struct{}

func (d *memoryDriver) Name() string { return "memory" }

func (d *memoryDriver) Connect(ctx context.Context, cfg any) (any, error) {
	return NewMemory(), nil
}

func (d *memoryDriver) Close(conn any) error {
	if s, ok := conn.(Store); ok {
		return s.Close()
	}
	return nil
}

func (d *memoryDriver) Ping(ctx context.Context, conn any) error { return nil }

// Memory is an in-process Store. Entities are copied on the way in and out.
type Memory struct {
	mu       sync.RWMutex
	entities map[string]map[string]*Entity // canon -> id -> entity
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{entities: make(map[string]map[string]*Entity)}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Save(ctx context.Context, e *Entity) (*Entity, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	stored := e.Clone()

	m.mu.Lock()
	defer m.mu.Unlock()

	bucket, ok := m.entities[stored.Canon()]
	if !ok {
		bucket = make(map[string]*Entity)
		m.entities[stored.Canon()] = bucket
	}
	bucket[stored.ID] = stored
	return stored.Clone(), nil
}

func (m *Memory) Load(ctx context.Context, base, name, id string) (*Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entities[Canon(base, name)][id]
	if !ok {
		return nil, NotFoundError(base, name, id)
	}
	return e.Clone(), nil
}

func (m *Memory) Remove(ctx context.Context, base, name, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket := m.entities[Canon(base, name)]
	if _, ok := bucket[id]; !ok {
		return NotFoundError(base, name, id)
	}
	delete(bucket, id)
	return nil
}

func (m *Memory) List(ctx context.Context, base, name string, ids []string) ([]*Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bucket := m.entities[Canon(base, name)]
	out := make([]*Entity, 0, len(ids))
	for _, id := range ids {
		if e, ok := bucket[id]; ok {
			out = append(out, e.Clone())
		}
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }
