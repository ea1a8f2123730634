package store

import (
	"context"

	"github.com/rezonia/freight-audit/internal/model"
)

// MockStore is a test double with inspectable state.
type MockStore struct {
	Data    map[string]*model.BatchResult
	SaveErr error
}

// NewMockStore creates a new mock batch store.
func NewMockStore() *MockStore {
	return &MockStore{
		Data: make(map[string]*model.BatchResult),
	}
}

func (m *MockStore) Save(_ context.Context, batch *model.BatchResult) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Data[batch.ID] = batch
	return nil
}

func (m *MockStore) Get(_ context.Context, id string) (*model.BatchResult, error) {
	batch, ok := m.Data[id]
	if !ok {
		return nil, model.NewNoResultError(id)
	}
	return batch, nil
}
