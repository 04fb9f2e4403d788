package models

import "github.com/shopspring/decimal"

// InflationRecord represents one annual inflation rate, keyed by gregorian year.
type InflationRecord struct {
	Year        int
	RatePercent decimal.Decimal
}
