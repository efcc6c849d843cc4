package session

import (
	"context"
	"sync"
)

// MemoryPersistence keeps items in process memory. Sessions stored here do
// not survive a restart; it backs tests and short-lived tools.
type MemoryPersistence struct {
	mu    sync.Mutex
	items map[string]map[string]string
}

// NewMemoryPersistence returns an empty in-memory persistence.
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{items: make(map[string]map[string]string)}
}

func (m *MemoryPersistence) SetItems(_ context.Context, sid string, items map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items[sid] == nil {
		m.items[sid] = make(map[string]string)
	}
	for k, v := range items {
		m.items[sid][k] = v
	}
	return nil
}

func (m *MemoryPersistence) RemoveItems(_ context.Context, sid string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items[sid], k)
	}
	if len(m.items[sid]) == 0 {
		delete(m.items, sid)
	}
	return nil
}

func (m *MemoryPersistence) LoadAll(context.Context) (map[string]map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]map[string]string, len(m.items))
	for sid, items := range m.items {
		cp := make(map[string]string, len(items))
		for k, v := range items {
			cp[k] = v
		}
		out[sid] = cp
	}
	return out, nil
}
