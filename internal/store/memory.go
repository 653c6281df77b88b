package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/TimurManjosov/rulesetweekly/internal/snapshot"
)

// MemoryStore is an in-memory implementation of the Store interface.
// It uses a map for storage and RWMutex for thread-safe concurrent access.
// History is lost on restart; use it for tests and one-shot CLI runs.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]snapshot.Snapshot // id -> Snapshot
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string]snapshot.Snapshot),
	}
}

// Save stores a copy of s.
func (m *MemoryStore) Save(ctx context.Context, s *snapshot.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(s); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.snapshots[s.ID]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, s.ID)
	}
	m.snapshots[s.ID] = *s
	return nil
}

// Get returns a copy of the snapshot stored under id.
func (m *MemoryStore) Get(ctx context.Context, id string) (*snapshot.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	s, exists := m.snapshots[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &s, nil
}

// List returns all summaries ordered by day, then id.
func (m *MemoryStore) List(ctx context.Context) ([]snapshot.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	result := make([]snapshot.Summary, 0, len(m.snapshots))
	for _, s := range m.snapshots {
		result = append(result, s.Summary())
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool { return snapshot.Less(result[i], result[j]) })
	return result, nil
}

// Close is a no-op for MemoryStore as there are no resources to release.
func (m *MemoryStore) Close() error {
	return nil
}
