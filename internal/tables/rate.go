package tables

import (
	"github.com/shopspring/decimal"

	dec "github.com/rezonia/freight-audit/internal/decimal"
	"github.com/rezonia/freight-audit/internal/model"
)

// Rate table column names (lower-cased by the loader).
const (
	colRateKey     = "destino"
	colRateRegion  = "percurso"
	colVolumeMin   = "volume_min"
	colVolumeMax   = "volume_max"
	colUnitRate    = "valor_unitario"
	colMinCharge   = "frete_minimo"
	colInsurance   = "seguro"
	colFixedFee    = "taxa_fixa"
	colTollPerBand = "pedagio"
)

// RateRow is one tariff row of a client's rate table.
type RateRow struct {
	Key         string
	Region      model.Region
	VolumeMin   decimal.Decimal
	VolumeMax   decimal.Decimal
	UnitRate    decimal.Decimal
	MinCharge   decimal.Decimal
	Insurance   decimal.Decimal
	FixedFee    decimal.Decimal
	TollPerBand decimal.Decimal
}

// RateTable is a client's tariff table. Row order is the load order;
// the first matching row wins, so order is part of the contract.
type RateTable struct {
	rows []RateRow
}

// NewRateTable builds a typed rate table, validating the schema.
func NewRateTable(t *Table) (*RateTable, error) {
	idx, err := t.requireColumns("rate table",
		colRateKey, colRateRegion, colVolumeMin, colVolumeMax,
		colUnitRate, colMinCharge, colInsurance, colFixedFee, colTollPerBand)
	if err != nil {
		return nil, err
	}

	rows := make([]RateRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, RateRow{
			Key:         upperTrim(cell(r, idx, colRateKey)),
			Region:      model.Region(upperTrim(cell(r, idx, colRateRegion))),
			VolumeMin:   dec.ParseBR(cell(r, idx, colVolumeMin)),
			VolumeMax:   dec.ParseBR(cell(r, idx, colVolumeMax)),
			UnitRate:    dec.ParseBR(cell(r, idx, colUnitRate)),
			MinCharge:   dec.ParseBR(cell(r, idx, colMinCharge)),
			Insurance:   dec.ParseBR(cell(r, idx, colInsurance)),
			FixedFee:    dec.ParseBR(cell(r, idx, colFixedFee)),
			TollPerBand: dec.ParseBR(cell(r, idx, colTollPerBand)),
		})
	}

	return &RateTable{rows: rows}, nil
}

// Len returns the number of tariff rows.
func (rt *RateTable) Len() int {
	return len(rt.rows)
}

// Resolve finds the applicable tariff row: exact key equality, region
// match and inclusive volume-band containment (min <= v <= max). The
// first row in table order wins. An empty region cell applies to both
// regions.
func (rt *RateTable) Resolve(key string, region model.Region, volume decimal.Decimal) (*RateRow, error) {
	k := upperTrim(key)
	for i := range rt.rows {
		row := &rt.rows[i]
		if row.Key != k {
			continue
		}
		if row.Region != "" && row.Region != region {
			continue
		}
		if volume.LessThan(row.VolumeMin) || volume.GreaterThan(row.VolumeMax) {
			continue
		}
		return row, nil
	}
	return nil, model.NewRateUnavailableError(k, region, volume)
}
