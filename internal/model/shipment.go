package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Region classifies a destination city for tariff selection.
type Region string

const (
	RegionCapital  Region = "CAPITAL"
	RegionInterior Region = "INTERIOR"
)

// ShipmentInvoice is one CT-e document normalized for reconciliation.
// Immutable after parsing; lives for a single batch pass.
type ShipmentInvoice struct {
	Number      string `json:"number"`
	OriginLabel string `json:"origin"`
	OriginState string `json:"origin_state"`
	DestCity    string `json:"dest_city"`
	DestState   string `json:"dest_state"`

	// Weights and volumes come from the infQ measure entries.
	DeclaredWeight decimal.Decimal `json:"declared_weight"`
	CalcWeight     decimal.Decimal `json:"calc_weight"`
	CubedVolume    decimal.Decimal `json:"cubed_volume"`

	CargoValue  decimal.Decimal `json:"cargo_value"`
	BilledTotal decimal.Decimal `json:"billed_total"`

	RawXML []byte `json:"-"`
}

// Destination returns the "CITY/UF" label used in reports.
func (s *ShipmentInvoice) Destination() string {
	city := strings.TrimSpace(s.DestCity)
	state := strings.TrimSpace(s.DestState)
	if state == "" {
		return city
	}
	if city == "" {
		return state
	}
	return city + "/" + state
}
