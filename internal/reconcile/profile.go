package reconcile

import (
	"github.com/rezonia/freight-audit/internal/config"
	"github.com/rezonia/freight-audit/internal/tables"
)

// LoadProfile builds a client's reconciliation profile from its
// configured table paths. Tables are validated at load, so a missing
// column fails here instead of mid-batch.
func LoadProfile(id string, cc config.ClientConfig) (*Profile, error) {
	rateTable, err := loadRates(cc.RateTable)
	if err != nil {
		return nil, err
	}
	taxTable, err := loadTaxes(cc.TaxTable)
	if err != nil {
		return nil, err
	}
	regionTable, err := loadRegions(cc.RegionTable)
	if err != nil {
		return nil, err
	}

	return &Profile{
		Client:      id,
		OriginLabel: cc.Origin,
		OriginState: cc.OriginUF,
		Rates:       rateTable,
		Taxes:       taxTable,
		Regions:     regionTable,
	}, nil
}

func loadRates(path string) (*tables.RateTable, error) {
	t, err := tables.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	return tables.NewRateTable(t)
}

func loadTaxes(path string) (*tables.TaxTable, error) {
	t, err := tables.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	return tables.NewTaxTable(t)
}

func loadRegions(path string) (*tables.RegionTable, error) {
	t, err := tables.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	return tables.NewRegionTable(t)
}
