// Package reconcile runs batches of CT-e documents through the
// extract -> classify -> resolve -> calculate flow and aggregates the
// per-invoice results.
package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rezonia/freight-audit/internal/calc"
	"github.com/rezonia/freight-audit/internal/logger"
	"github.com/rezonia/freight-audit/internal/model"
	"github.com/rezonia/freight-audit/internal/parser/cte"
	"github.com/rezonia/freight-audit/internal/tables"
)

// Profile is one client's reconciliation setup: the reference tables
// plus the origin stamped onto every invoice of a batch. Tables are
// read-only for the duration of the batch.
type Profile struct {
	Client      string
	OriginLabel string
	OriginState string
	Rates       *tables.RateTable
	Taxes       *tables.TaxTable
	Regions     *tables.RegionTable
}

// Document is one raw uploaded CT-e file.
type Document struct {
	Name    string
	Content []byte
}

// Pipeline orchestrates batch reconciliation.
type Pipeline struct {
	extractor *cte.Extractor
	tolerance decimal.Decimal
	log       logger.Logger
}

// Option configures the pipeline
type Option func(*Pipeline)

// WithTolerance overrides the OK band around a zero difference.
func WithTolerance(tolerance decimal.Decimal) Option {
	return func(p *Pipeline) {
		p.tolerance = tolerance
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(log logger.Logger) Option {
	return func(p *Pipeline) {
		p.log = log
	}
}

// NewPipeline creates a pipeline with the given options.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor: cte.NewExtractor(),
		tolerance: calc.DefaultTolerance,
		log:       logger.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes the documents in input order. A document's parse or
// lookup failure never aborts the batch: it becomes an ERROR or
// UNRESOLVED row and processing continues. Totals accumulate only
// reconciled rows, summing the exact pre-rounding expected charges.
func (p *Pipeline) Run(ctx context.Context, profile *Profile, docs []Document) *model.BatchResult {
	batch := &model.BatchResult{
		ID:        uuid.NewString(),
		Client:    profile.Client,
		CreatedAt: time.Now().UTC(),
		Results:   make([]model.ReconciliationResult, 0, len(docs)),
	}

	ctx = context.WithValue(ctx, logger.CtxBatchID, batch.ID)
	ctx = context.WithValue(ctx, logger.CtxClient, profile.Client)
	p.log.Infof(ctx, "reconciling %d documents", len(docs))

	for _, doc := range docs {
		batch.Results = append(batch.Results, p.processDocument(ctx, profile, doc, &batch.Totals))
	}

	reconciled, unresolved, errored := batch.Counts()
	p.log.Infof(ctx, "batch done: %d reconciled, %d unresolved, %d errored", reconciled, unresolved, errored)

	return batch
}

func (p *Pipeline) processDocument(ctx context.Context, profile *Profile, doc Document, totals *model.BatchTotals) model.ReconciliationResult {
	inv, err := p.extractor.ParseBytes(ctx, doc.Content)
	if err != nil {
		p.log.Warnf(ctx, "document %s: %v", doc.Name, err)
		return model.ReconciliationResult{
			InvoiceNumber: doc.Name,
			Origin:        profile.OriginLabel,
			Status:        model.StatusError,
			Error:         err.Error(),
		}
	}

	inv.OriginLabel = profile.OriginLabel
	inv.OriginState = profile.OriginState

	region := profile.Regions.Classify(inv.DestState, inv.DestCity)
	rate, err := profile.Rates.Resolve(inv.DestState, region, inv.CubedVolume)
	if err != nil {
		var rateErr *model.RateUnavailableError
		if errors.As(err, &rateErr) {
			p.log.Warnf(ctx, "invoice %s unresolved: %v", inv.Number, err)
			return model.ReconciliationResult{
				InvoiceNumber: inv.Number,
				Origin:        inv.OriginLabel,
				Destination:   inv.Destination(),
				Billed:        inv.BilledTotal,
				Status:        model.StatusUnresolved,
				Error:         err.Error(),
			}
		}
		return model.ReconciliationResult{
			InvoiceNumber: inv.Number,
			Origin:        inv.OriginLabel,
			Destination:   inv.Destination(),
			Status:        model.StatusError,
			Error:         err.Error(),
		}
	}

	divisor := profile.Taxes.Divisor(inv.OriginState, inv.DestState)
	charge := calc.Calculate(inv, rate, divisor, p.tolerance)

	totals.Add(charge.Breakdown.ExactExpected, inv.BilledTotal)

	return model.ReconciliationResult{
		InvoiceNumber: inv.Number,
		Origin:        inv.OriginLabel,
		Destination:   inv.Destination(),
		Expected:      charge.Expected,
		Billed:        inv.BilledTotal,
		Difference:    charge.Difference,
		Status:        charge.Status,
		Breakdown:     charge.Breakdown,
	}
}
