package freightaudit

import (
	"context"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/rezonia/freight-audit/internal/config"
	"github.com/rezonia/freight-audit/internal/reconcile"
)

// ProfileConfig describes one client's reconciliation profile: where
// its reference tables live and which origin is stamped onto every
// audited invoice.
type ProfileConfig struct {
	Client      string
	Origin      string
	OriginUF    string
	RateTable   string
	TaxTable    string
	RegionTable string
}

// Document is one raw CT-e file to audit
type Document = reconcile.Document

// Option configures the auditor
type Option func(*auditorOptions)

type auditorOptions struct {
	tolerance *decimal.Decimal
}

// WithTolerance overrides the band around a zero difference that still
// counts as OK. The default is one cent.
func WithTolerance(tolerance decimal.Decimal) Option {
	return func(o *auditorOptions) {
		o.tolerance = &tolerance
	}
}

// Auditor reconciles batches of CT-e documents for a single client
// profile. It is safe for concurrent use.
type Auditor struct {
	pipeline *reconcile.Pipeline
	profile  *reconcile.Profile
}

// NewAuditor loads the profile's reference tables and builds an
// auditor. Table validation happens here, so a malformed table fails
// fast instead of mid-batch.
func NewAuditor(cfg ProfileConfig, opts ...Option) (*Auditor, error) {
	var o auditorOptions
	for _, opt := range opts {
		opt(&o)
	}

	profile, err := reconcile.LoadProfile(cfg.Client, config.ClientConfig{
		Origin:      cfg.Origin,
		OriginUF:    cfg.OriginUF,
		RateTable:   cfg.RateTable,
		TaxTable:    cfg.TaxTable,
		RegionTable: cfg.RegionTable,
	})
	if err != nil {
		return nil, err
	}

	var pipelineOpts []reconcile.Option
	if o.tolerance != nil {
		pipelineOpts = append(pipelineOpts, reconcile.WithTolerance(*o.tolerance))
	}

	return &Auditor{
		pipeline: reconcile.NewPipeline(pipelineOpts...),
		profile:  profile,
	}, nil
}

// Audit reconciles the documents in input order. Per-document failures
// become ERROR or UNRESOLVED rows instead of aborting the batch.
func (a *Auditor) Audit(ctx context.Context, docs []Document) *BatchResult {
	return a.pipeline.Run(ctx, a.profile, docs)
}

// AuditFiles reads the given CT-e files and reconciles them. An
// unreadable file becomes an ERROR row.
func (a *Auditor) AuditFiles(ctx context.Context, paths []string) *BatchResult {
	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			content = nil
		}
		docs = append(docs, Document{Name: filepath.Base(path), Content: content})
	}
	return a.Audit(ctx, docs)
}
