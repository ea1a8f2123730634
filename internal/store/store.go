// Package store persists batch results between the reconciliation run
// and the export step, keyed by the batch handle.
package store

import (
	"context"

	"github.com/rezonia/freight-audit/internal/model"
)

// BatchStore persists reconciliation batches for later retrieval and
// export. Get returns a NoResultError for unknown handles.
type BatchStore interface {
	Save(ctx context.Context, batch *model.BatchResult) error
	Get(ctx context.Context, id string) (*model.BatchResult, error)
}
