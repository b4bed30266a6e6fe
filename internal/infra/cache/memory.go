package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryKV is the fallback backend when Redis is not configured. Entries
// never auto-expire here; the store's envelope check handles staleness,
// and Sweep reclaims the space.
type MemoryKV struct {
	mu    sync.RWMutex
	items map[string]string

	// MaxEntries caps the map; a Set past the cap reports ErrStorageFull.
	// Zero means unbounded.
	MaxEntries int
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.items[key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[key]; !exists && m.MaxEntries > 0 && len(m.items) >= m.MaxEntries {
		return ErrStorageFull
	}

	m.items[key] = value
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.items, key)
	}
	return nil
}

func (m *MemoryKV) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for key := range m.items {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (m *MemoryKV) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
