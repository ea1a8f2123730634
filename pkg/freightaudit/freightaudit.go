// Package freightaudit provides a public API for reconciling Brazilian
// CT-e freight invoices against negotiated tariff tables.
//
// Example usage:
//
//	auditor, err := freightaudit.NewAuditor(freightaudit.ProfileConfig{
//	    Client:      "acme",
//	    Origin:      "ITAJAI",
//	    OriginUF:    "SC",
//	    RateTable:   "tables/rates.csv",
//	    TaxTable:    "tables/tax.csv",
//	    RegionTable: "tables/regions.csv",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	batch := auditor.AuditFiles(ctx, []string{"cte1.xml", "cte2.xml"})
//	fmt.Println(batch.Totals.Difference)
package freightaudit

import "github.com/rezonia/freight-audit/internal/model"

// Re-export core types for public API
type (
	ShipmentInvoice      = model.ShipmentInvoice
	ReconciliationResult = model.ReconciliationResult
	BatchResult          = model.BatchResult
	BatchTotals          = model.BatchTotals
	Breakdown            = model.Breakdown
	Status               = model.Status
	Region               = model.Region
)

// Re-export reconciliation statuses
const (
	StatusOK          = model.StatusOK
	StatusOverbilled  = model.StatusOverbilled
	StatusUnderbilled = model.StatusUnderbilled
	StatusUnresolved  = model.StatusUnresolved
	StatusError       = model.StatusError
)

// Re-export destination regions
const (
	RegionCapital  = model.RegionCapital
	RegionInterior = model.RegionInterior
)

// Re-export error types
type (
	ParseError           = model.ParseError
	RateUnavailableError = model.RateUnavailableError
	ConfigError          = model.ConfigError
	NoResultError        = model.NoResultError
)
