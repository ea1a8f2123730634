package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status classifies one reconciled invoice against the billed amount.
type Status string

const (
	// StatusOK means the billed amount is within tolerance of the expected charge.
	StatusOK Status = "OK"
	// StatusOverbilled means billed > expected beyond tolerance.
	StatusOverbilled Status = "OVERBILLED"
	// StatusUnderbilled means billed < expected beyond tolerance.
	StatusUnderbilled Status = "UNDERBILLED"
	// StatusUnresolved means no tariff row matched the invoice's route/region/volume.
	StatusUnresolved Status = "UNRESOLVED"
	// StatusError means the document could not be parsed.
	StatusError Status = "ERROR"
)

// Breakdown itemizes the expected charge for audit display.
// The sub-amounts sum to Subtotal before the tax-divisor adjustment.
type Breakdown struct {
	VolumeCharge decimal.Decimal `json:"volume_charge"`
	BaseCharge   decimal.Decimal `json:"base_charge"`
	Insurance    decimal.Decimal `json:"insurance"`
	TollBands    int64           `json:"toll_bands"`
	Toll         decimal.Decimal `json:"toll"`
	FixedFee     decimal.Decimal `json:"fixed_fee"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Divisor      decimal.Decimal `json:"divisor"`

	// ExactExpected is Subtotal/Divisor before the 2-place rounding.
	// Batch totals accumulate this value, not the rounded one.
	ExactExpected decimal.Decimal `json:"exact_expected"`
}

// ReconciliationResult is the outcome for a single invoice.
// Created once per document; never mutated afterwards.
type ReconciliationResult struct {
	InvoiceNumber string          `json:"invoice_number"`
	Origin        string          `json:"origin"`
	Destination   string          `json:"destination"`
	Expected      decimal.Decimal `json:"expected"`
	Billed        decimal.Decimal `json:"billed"`
	Difference    decimal.Decimal `json:"difference"`
	Status        Status          `json:"status"`
	Breakdown     *Breakdown      `json:"breakdown,omitempty"`
	Error         string          `json:"error,omitempty"`
}

// Reconciled reports whether the row carries a computed charge.
func (r *ReconciliationResult) Reconciled() bool {
	return r.Status == StatusOK || r.Status == StatusOverbilled || r.Status == StatusUnderbilled
}

// BatchTotals aggregates a batch. Expected sums the exact pre-rounding
// charges, so the difference may drift sub-cent from the sum of the
// rounded per-row differences.
type BatchTotals struct {
	Expected   decimal.Decimal `json:"expected"`
	Billed     decimal.Decimal `json:"billed"`
	Difference decimal.Decimal `json:"difference"`
}

// Add accumulates one reconciled row into the totals.
func (t *BatchTotals) Add(exactExpected, billed decimal.Decimal) {
	t.Expected = t.Expected.Add(exactExpected)
	t.Billed = t.Billed.Add(billed)
	t.Difference = t.Billed.Sub(t.Expected)
}

// Rounded returns the totals rounded to 2 places for display.
func (t BatchTotals) Rounded() BatchTotals {
	return BatchTotals{
		Expected:   t.Expected.Round(2),
		Billed:     t.Billed.Round(2),
		Difference: t.Difference.Round(2),
	}
}

// BatchResult is the handle returned by a reconciliation run and the
// unit stored for later export.
type BatchResult struct {
	ID        string                 `json:"id"`
	Client    string                 `json:"client"`
	CreatedAt time.Time              `json:"created_at"`
	Results   []ReconciliationResult `json:"results"`
	Totals    BatchTotals            `json:"totals"`
}

// Counts returns how many rows were reconciled, unresolved and errored.
func (b *BatchResult) Counts() (reconciled, unresolved, errored int) {
	for i := range b.Results {
		switch b.Results[i].Status {
		case StatusUnresolved:
			unresolved++
		case StatusError:
			errored++
		default:
			reconciled++
		}
	}
	return
}
