package store

import (
	"context"
	"sync"

	"github.com/rezonia/freight-audit/internal/model"
)

// MemoryStore is an in-memory implementation of BatchStore, the
// default for the CLI and for single-instance serving.
type MemoryStore struct {
	mu      sync.RWMutex
	batches map[string]*model.BatchResult
}

// NewMemoryStore creates a new in-memory batch store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		batches: make(map[string]*model.BatchResult),
	}
}

// Save stores the batch result in memory.
func (s *MemoryStore) Save(_ context.Context, batch *model.BatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[batch.ID] = batch
	return nil
}

// Get returns a stored batch, or NoResultError if it was never saved.
func (s *MemoryStore) Get(_ context.Context, id string) (*model.BatchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	batch, ok := s.batches[id]
	if !ok {
		return nil, model.NewNoResultError(id)
	}
	return batch, nil
}
