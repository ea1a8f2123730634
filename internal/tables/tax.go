package tables

import (
	"github.com/shopspring/decimal"

	dec "github.com/rezonia/freight-audit/internal/decimal"
)

// Tax table column names.
const (
	colTaxOrigin  = "uf_origem"
	colTaxDest    = "uf_destino"
	colTaxDivisor = "divisor"
)

type taxKey struct {
	origin string
	dest   string
}

// TaxTable maps (origin state, destination state) to the interstate
// tax divisor applied to the tariff subtotal.
type TaxTable struct {
	divisors map[taxKey]decimal.Decimal
}

// NewTaxTable builds a typed tax-divisor table, validating the schema.
func NewTaxTable(t *Table) (*TaxTable, error) {
	idx, err := t.requireColumns("tax table", colTaxOrigin, colTaxDest, colTaxDivisor)
	if err != nil {
		return nil, err
	}

	divisors := make(map[taxKey]decimal.Decimal, len(t.Rows))
	for _, r := range t.Rows {
		key := taxKey{
			origin: upperTrim(cell(r, idx, colTaxOrigin)),
			dest:   upperTrim(cell(r, idx, colTaxDest)),
		}
		if _, ok := divisors[key]; ok {
			// First row wins, same tie-break as the rate table.
			continue
		}
		divisors[key] = dec.ParseBR(cell(r, idx, colTaxDivisor))
	}

	return &TaxTable{divisors: divisors}, nil
}

// Divisor returns the adjustment divisor for a route. No matching row,
// or a zero divisor, means no adjustment: 1.
func (tt *TaxTable) Divisor(originState, destState string) decimal.Decimal {
	key := taxKey{origin: upperTrim(originState), dest: upperTrim(destState)}
	if d, ok := tt.divisors[key]; ok && !d.IsZero() {
		return d
	}
	return decimal.NewFromInt(1)
}
