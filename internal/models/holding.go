package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// HoldingPeriodRecord represents one buy/sell pair derived from a monthly buy
// anchor and the nearest observed price to the target sell date. A record is
// only constructed when both sides resolved; it is immutable after the gain
// fields are filled.
type HoldingPeriodRecord struct {
	BuyDate        time.Time
	BuyPrice       decimal.Decimal
	SellDateTarget time.Time // buy date plus the holding period, in calendar months
	SellDateActual time.Time // nearest observed date to the target
	SellPrice      decimal.Decimal
	NominalGain    decimal.Decimal
	BuyYear        int
	RealGain       decimal.NullDecimal // null when the buy year has no inflation rate
}
