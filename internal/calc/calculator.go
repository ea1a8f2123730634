// Package calc computes the expected freight charge for one shipment
// against a resolved tariff row.
package calc

import (
	"github.com/shopspring/decimal"

	dec "github.com/rezonia/freight-audit/internal/decimal"
	"github.com/rezonia/freight-audit/internal/model"
	"github.com/rezonia/freight-audit/internal/tables"
)

// DefaultTolerance is the band around zero within which a difference
// still counts as OK.
var DefaultTolerance = decimal.RequireFromString("0.01")

// tollBandSize is the declared-weight slice charged per toll band.
// Any remainder, even 1 kg, opens a new band.
var tollBandSize = decimal.NewFromInt(100)

// Charge is the computed expectation for one invoice.
type Charge struct {
	Expected   decimal.Decimal
	Difference decimal.Decimal
	Status     model.Status
	Breakdown  *model.Breakdown
}

// Calculate applies the tariff formula in fixed order:
//
//	volumeCharge = cubedVolume * unitRate
//	baseCharge   = max(volumeCharge, minCharge)
//	insurance    = cargoValue * insuranceRate
//	toll         = ceil(declaredWeight/100) * tollPerBand
//	subtotal     = baseCharge + insurance + fixedFee + toll
//	expected     = round(subtotal/divisor, 2)
//	difference   = round(billed - expected, 2)
//
// Positive difference means overbilled. The intermediate values are
// returned as the audit breakdown.
func Calculate(inv *model.ShipmentInvoice, rate *tables.RateRow, divisor, tolerance decimal.Decimal) Charge {
	if divisor.IsZero() {
		divisor = decimal.NewFromInt(1)
	}

	volumeCharge := inv.CubedVolume.Mul(rate.UnitRate)
	baseCharge := dec.Max(volumeCharge, rate.MinCharge)
	insurance := inv.CargoValue.Mul(rate.Insurance)
	tollBands := dec.CeilBands(inv.DeclaredWeight, tollBandSize)
	toll := decimal.NewFromInt(tollBands).Mul(rate.TollPerBand)
	subtotal := baseCharge.Add(insurance).Add(rate.FixedFee).Add(toll)

	exactExpected := subtotal.Div(divisor)
	expected := dec.Round2(exactExpected)
	difference := dec.Round2(inv.BilledTotal.Sub(expected))

	return Charge{
		Expected:   expected,
		Difference: difference,
		Status:     Classify(difference, tolerance),
		Breakdown: &model.Breakdown{
			VolumeCharge:  volumeCharge,
			BaseCharge:    baseCharge,
			Insurance:     insurance,
			TollBands:     tollBands,
			Toll:          toll,
			FixedFee:      rate.FixedFee,
			Subtotal:      subtotal,
			Divisor:       divisor,
			ExactExpected: exactExpected,
		},
	}
}

// Classify maps a signed difference to a status. Within tolerance is
// OK; above is overbilled, below is underbilled.
func Classify(difference, tolerance decimal.Decimal) model.Status {
	if difference.Abs().LessThanOrEqual(tolerance) {
		return model.StatusOK
	}
	if difference.IsPositive() {
		return model.StatusOverbilled
	}
	return model.StatusUnderbilled
}
