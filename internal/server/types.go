package server

import (
	"time"

	"github.com/rezonia/freight-audit/internal/model"
)

// ClientsResponse lists the configured client ids
type ClientsResponse struct {
	Clients []string `json:"clients"`
}

// BatchResponse is the response for reconcile and batch lookup endpoints
type BatchResponse struct {
	ID         string                       `json:"id"`
	Client     string                       `json:"client"`
	CreatedAt  time.Time                    `json:"created_at"`
	Reconciled int                          `json:"reconciled"`
	Unresolved int                          `json:"unresolved"`
	Errored    int                          `json:"errored"`
	Totals     model.BatchTotals            `json:"totals"`
	Results    []model.ReconciliationResult `json:"results"`
}

func batchResponse(batch *model.BatchResult) BatchResponse {
	reconciled, unresolved, errored := batch.Counts()
	return BatchResponse{
		ID:         batch.ID,
		Client:     batch.Client,
		CreatedAt:  batch.CreatedAt,
		Reconciled: reconciled,
		Unresolved: unresolved,
		Errored:    errored,
		Totals:     batch.Totals.Rounded(),
		Results:    batch.Results,
	}
}
