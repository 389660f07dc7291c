package snapshot

import (
	"context"
	"sync"

	"github.com/Ondalf/spothinta/internal/model"
)

// MemoryStore keeps snapshots in process memory. It gives the daemon a
// uniform code path when Redis is not configured; it does not survive a
// restart.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[model.Region]model.RegionSnapshot
}

// NewMemoryStore creates an empty in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[model.Region]model.RegionSnapshot),
	}
}

// Load returns the stored snapshot for region, or ErrNotFound.
func (m *MemoryStore) Load(_ context.Context, region model.Region) (*model.RegionSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.items[region]
	if !ok {
		return nil, ErrNotFound
	}
	return &snap, nil
}

// Save replaces the stored snapshot for the snapshot's region.
func (m *MemoryStore) Save(_ context.Context, snap model.RegionSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[snap.Region] = snap
	return nil
}

// Size returns the number of stored snapshots.
func (m *MemoryStore) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
