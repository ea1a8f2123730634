// Package export serializes batch results into the spreadsheet layout
// handed to finance staff.
package export

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/rezonia/freight-audit/internal/model"
)

var header = []string{"cte", "origem", "destino", "valor_esperado", "valor_cobrado", "diferenca", "status"}

// WriteCSV writes the batch as a spreadsheet: one row per invoice in
// batch order, followed by a totals row.
func WriteCSV(w io.Writer, batch *model.BatchResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return err
	}

	for i := range batch.Results {
		r := &batch.Results[i]
		row := []string{
			r.InvoiceNumber,
			r.Origin,
			r.Destination,
			r.Expected.StringFixed(2),
			r.Billed.StringFixed(2),
			r.Difference.StringFixed(2),
			string(r.Status),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	totals := batch.Totals.Rounded()
	totalRow := []string{
		"TOTAL",
		"",
		"",
		totals.Expected.StringFixed(2),
		totals.Billed.StringFixed(2),
		totals.Difference.StringFixed(2),
		"",
	}
	if err := cw.Write(totalRow); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

// Filename builds the timestamped download name for an exported batch.
func Filename(at time.Time) string {
	return "conferencia_frete_" + at.Format("20060102_150405") + ".csv"
}
