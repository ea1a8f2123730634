package store_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/freight-audit/internal/model"
	"github.com/rezonia/freight-audit/internal/store"
)

func sampleBatch(id string) *model.BatchResult {
	return &model.BatchResult{
		ID:        id,
		Client:    "acme",
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Results: []model.ReconciliationResult{
			{
				InvoiceNumber: "101",
				Origin:        "ITAJAI",
				Destination:   "SAO PAULO/SP",
				Expected:      decimal.RequireFromString("67.50"),
				Billed:        decimal.RequireFromString("60.00"),
				Difference:    decimal.RequireFromString("-7.50"),
				Status:        model.StatusUnderbilled,
			},
		},
		Totals: model.BatchTotals{
			Expected:   decimal.RequireFromString("67.50"),
			Billed:     decimal.RequireFromString("60.00"),
			Difference: decimal.RequireFromString("-7.50"),
		},
	}
}

func TestMemoryStore_SaveAndGet(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	batch := sampleBatch("b1")
	require.NoError(t, s.Save(ctx, batch))

	got, err := s.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "acme", got.Client)
	require.Len(t, got.Results, 1)
	assert.True(t, got.Results[0].Expected.Equal(decimal.RequireFromString("67.50")))
}

func TestMemoryStore_GetUnknown(t *testing.T) {
	s := store.NewMemoryStore()

	_, err := s.Get(context.Background(), "missing")
	require.Error(t, err)

	var noResult *model.NoResultError
	require.ErrorAs(t, err, &noResult)
	assert.Equal(t, "missing", noResult.BatchID)
	assert.Contains(t, err.Error(), "nothing to export")
}

func TestMockStore_SaveErr(t *testing.T) {
	m := store.NewMockStore()
	m.SaveErr = assert.AnError

	err := m.Save(context.Background(), sampleBatch("b2"))
	require.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, m.Data)
}

func TestBatchResult_JSONRoundTrip(t *testing.T) {
	// The Redis store persists batches as JSON; decimals and statuses
	// must survive the round trip.
	batch := sampleBatch("b3")

	payload, err := json.Marshal(batch)
	require.NoError(t, err)

	var got model.BatchResult
	require.NoError(t, json.Unmarshal(payload, &got))

	assert.Equal(t, batch.ID, got.ID)
	require.Len(t, got.Results, 1)
	assert.Equal(t, model.StatusUnderbilled, got.Results[0].Status)
	assert.True(t, got.Totals.Difference.Equal(batch.Totals.Difference))
	assert.True(t, got.Results[0].Expected.Equal(batch.Results[0].Expected))
}
