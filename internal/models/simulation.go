package models

import "github.com/shopspring/decimal"

// SimulationRow represents one line of the simulated revenue table, for a
// single (year, scenario, realization rate) combination.
type SimulationRow struct {
	Year               int
	Scenario           string
	RealizationRate    decimal.Decimal
	RateLabel          string // e.g. "50%", the label used in the exported table
	Participants       int64
	DollarVolume       decimal.Decimal
	GainPerParticipant decimal.Decimal
	TaxPerParticipant  decimal.Decimal
	TotalTaxRevenue    decimal.Decimal
}
