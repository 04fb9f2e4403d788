package models

import "github.com/shopspring/decimal"

// ScenarioDefinition represents one named adoption scenario for the revenue
// simulation.
type ScenarioDefinition struct {
	Name         string
	Participants int64           // assumed number of market participants
	DollarVolume decimal.Decimal // per-participant dollar exposure
}
