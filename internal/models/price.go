package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceObservation represents a single daily quote from the dollar price file.
// Missing numeric cells are null, never zero.
type PriceObservation struct {
	Date          time.Time // gregorian date, the join key for all lookups
	LocalDate     string    // solar-calendar label, carried through untouched
	Open          decimal.NullDecimal
	Low           decimal.NullDecimal
	High          decimal.NullDecimal
	Close         decimal.NullDecimal
	Change        decimal.NullDecimal
	PercentChange string // presentation-only in the source data
}
