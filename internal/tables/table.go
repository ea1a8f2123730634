// Package tables holds the client reference tables (tariff, tax divisor,
// region) as typed, read-only rows resolved against during a batch.
package tables

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rezonia/freight-audit/internal/model"
)

// Table is already-structured tabular data as handed over by the
// loader: lower-cased header plus rows in file order.
type Table struct {
	Header []string
	Rows   [][]string
}

// LoadCSV reads a reference table from disk. Column names are
// case-insensitive and normalized to lower-case.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, model.NewConfigError(path, "cannot open table", err)
	}
	defer f.Close()

	t, err := ParseCSV(f)
	if err != nil {
		return nil, model.NewConfigError(path, "cannot parse table", err)
	}
	return t, nil
}

// ParseCSV parses CSV content, sniffing ',', ';' or tab as delimiter.
func ParseCSV(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	peek, _ := br.Peek(4096)
	first := string(peek)

	var comma rune
	switch {
	case strings.Contains(first, "\t") && !strings.Contains(first, ","):
		comma = '\t'
	case strings.Contains(first, ";") && !strings.Contains(first, ","):
		comma = ';'
	default:
		comma = ','
	}

	cr := csv.NewReader(br)
	cr.Comma = comma
	cr.FieldsPerRecord = -1

	all, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, io.ErrUnexpectedEOF
	}

	header := make([]string, len(all[0]))
	for i, h := range all[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	return &Table{Header: header, Rows: all[1:]}, nil
}

// columnIndex maps lower-cased column names to positions.
func (t *Table) columnIndex() map[string]int {
	m := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		m[h] = i
	}
	return m
}

// requireColumns validates the schema at load time. Absent required
// columns fail fast with a configuration error.
func (t *Table) requireColumns(source string, cols ...string) (map[string]int, error) {
	idx := t.columnIndex()
	var missing []string
	for _, c := range cols {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, model.NewConfigError(source, "missing required columns: "+strings.Join(missing, ", "), nil)
	}
	return idx, nil
}

func cell(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func upperTrim(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
