package history

import (
	"context"
	"sort"
	"sync"

	"github.com/lox/blackjack-advisor/internal/statistics"
)

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu        sync.Mutex
	nextID    int64
	snapshots []statistics.Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (m *MemoryStore) Insert(_ context.Context, s statistics.Snapshot) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(s), nil
}

func (m *MemoryStore) InsertBatch(_ context.Context, snapshots []statistics.Snapshot) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range snapshots {
		m.insertLocked(s)
	}
	return len(snapshots), nil
}

func (m *MemoryStore) insertLocked(s statistics.Snapshot) int64 {
	s.ID = m.nextID
	m.nextID++
	m.snapshots = append(m.snapshots, s)
	return s.ID
}

func (m *MemoryStore) List(context.Context) ([]statistics.Snapshot, error) {
	m.mu.Lock()
	out := make([]statistics.Snapshot, len(m.snapshots))
	copy(out, m.snapshots)
	m.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp > out[j].Timestamp
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.snapshots {
		if s.ID == id {
			m.snapshots = append(m.snapshots[:i], m.snapshots[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	m.snapshots = nil
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error { return nil }
