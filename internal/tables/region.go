package tables

import (
	"github.com/rezonia/freight-audit/internal/model"
)

// Region table column names.
const (
	colRegionState = "uf"
	colRegionCity  = "municipio"
	colRegionTag   = "regiao"
)

type regionKey struct {
	state string
	city  string
}

// RegionTable is the static reference mapping (state, city) to the
// CAPITAL/INTERIOR classification used to select tariff rows.
type RegionTable struct {
	regions map[regionKey]model.Region
}

// NewRegionTable builds a typed region table, validating the schema.
func NewRegionTable(t *Table) (*RegionTable, error) {
	idx, err := t.requireColumns("region table", colRegionState, colRegionCity, colRegionTag)
	if err != nil {
		return nil, err
	}

	regions := make(map[regionKey]model.Region, len(t.Rows))
	for _, r := range t.Rows {
		key := regionKey{
			state: upperTrim(cell(r, idx, colRegionState)),
			city:  upperTrim(cell(r, idx, colRegionCity)),
		}
		if _, ok := regions[key]; ok {
			continue
		}
		regions[key] = model.Region(upperTrim(cell(r, idx, colRegionTag)))
	}

	return &RegionTable{regions: regions}, nil
}

// Classify looks up the (state, city) pair, exact match on the
// upper-trimmed city. Unknown destinations default to INTERIOR, a
// deliberate conservative fallback.
func (rt *RegionTable) Classify(state, city string) model.Region {
	key := regionKey{state: upperTrim(state), city: upperTrim(city)}
	if r, ok := rt.regions[key]; ok && r == model.RegionCapital {
		return model.RegionCapital
	}
	return model.RegionInterior
}
