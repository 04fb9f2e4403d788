package analysis

import (
	"time"

	"go.uber.org/zap"

	"github.com/Rezamoghadam8810/dollar-tax-analysis/internal/models"
)

// MatchHoldingPeriods derives one holding-period record per monthly buy
// anchor. The buy price is the last usable close of the anchor month, the
// target sell date is the buy date plus holdingMonths calendar months, and
// the sell price is the close nearest to that target. Anchors whose target
// has no close within maxSellGap (typically because the series ends first)
// are dropped, never zero-filled.
func MatchHoldingPeriods(series *PriceSeries, holdingMonths int, maxSellGap time.Duration, log *zap.Logger) []models.HoldingPeriodRecord {
	anchors := series.MonthEndCloses()
	records := make([]models.HoldingPeriodRecord, 0, len(anchors))
	for _, a := range anchors {
		target := AddMonthsClamped(a.Date, holdingMonths)
		sell, ok := series.NearestClose(target, maxSellGap)
		if !ok {
			log.Debug("no sell price near target, dropping holding period",
				zap.Time("buy_date", a.Date),
				zap.Time("sell_target", target))
			continue
		}
		records = append(records, models.HoldingPeriodRecord{
			BuyDate:        a.Date,
			BuyPrice:       a.Price,
			SellDateTarget: target,
			SellDateActual: sell.Date,
			SellPrice:      sell.Price,
			BuyYear:        a.Date.Year(),
		})
	}
	return records
}

// AddMonthsClamped adds calendar months while preserving month-end anchoring:
// when the source day does not exist in the target month, the day is clamped
// to the target month's last day. This deliberately avoids time.AddDate,
// which would normalize Feb 29 + 12 months into March 1.
func AddMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}

// daysIn returns the number of days in the given month.
func daysIn(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
