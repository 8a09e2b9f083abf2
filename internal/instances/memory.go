// internal/instances/memory.go
package instances

import (
	"context"
	"sort"
	"sync"
	"time"
)

// memStore is an in-memory Store for local bring-up and tests. The mutex
// around Insert plays the role of the database uniqueness constraint.
type memStore struct {
	mu      sync.RWMutex
	records map[string]Instance
}

func NewMemoryStore() Store {
	return &memStore{records: map[string]Instance{}}
}

func (m *memStore) FindByName(_ context.Context, name string) (Instance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if inst, ok := m.records[name]; ok {
		return inst, nil
	}
	return Instance{}, ErrNotFound
}

func (m *memStore) Insert(_ context.Context, inst Instance) (Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[inst.Name]; ok {
		return Instance{}, ErrDuplicate
	}
	now := time.Now().UTC()
	inst.CreatedAt = now
	inst.UpdatedAt = now
	m.records[inst.Name] = inst
	return inst, nil
}

func (m *memStore) ListAll(_ context.Context) ([]Instance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Instance, 0, len(m.records))
	for _, inst := range m.records {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
