package analysis

import (
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Rezamoghadam8810/dollar-tax-analysis/internal/models"
)

// InflationTable maps a gregorian year to its annual inflation rate in
// percent.
type InflationTable map[int]decimal.Decimal

// NewInflationTable builds the year lookup. On duplicate years the record
// appearing later in the input wins.
func NewInflationTable(records []models.InflationRecord) InflationTable {
	table := make(InflationTable, len(records))
	for _, r := range records {
		table[r.Year] = r.RatePercent
	}
	return table
}

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// ComputeGains fills the derived gain fields of each record: the nominal gain
// is sell minus buy, and the real gain deflates it by the buy year's
// inflation rate. Records whose buy year has no inflation rate keep a null
// real gain; they stay in the result but are excluded from year-level
// averaging.
func ComputeGains(records []models.HoldingPeriodRecord, inflation InflationTable, log *zap.Logger) []models.HoldingPeriodRecord {
	out := make([]models.HoldingPeriodRecord, 0, len(records))
	warned := make(map[int]bool)
	for _, r := range records {
		r.NominalGain = r.SellPrice.Sub(r.BuyPrice)
		r.BuyYear = r.BuyDate.Year()
		rate, ok := inflation[r.BuyYear]
		if !ok {
			if !warned[r.BuyYear] {
				log.Warn("no inflation rate for buy year, real gains undefined",
					zap.Int("buy_year", r.BuyYear))
				warned[r.BuyYear] = true
			}
			out = append(out, r)
			continue
		}
		deflator := one.Add(rate.Div(hundred))
		if deflator.IsZero() {
			// A -100% rate would divide by zero; treat like a missing rate.
			if !warned[r.BuyYear] {
				log.Warn("inflation rate of -100% for buy year, real gains undefined",
					zap.Int("buy_year", r.BuyYear))
				warned[r.BuyYear] = true
			}
			out = append(out, r)
			continue
		}
		r.RealGain = decimal.NullDecimal{Decimal: r.NominalGain.Div(deflator), Valid: true}
		out = append(out, r)
	}
	return out
}

// AverageRealGainByYear returns the mean real gain per buy year over records
// with a defined real gain. Years with no such record are absent from the
// result, so downstream consumers see the gap instead of a default.
func AverageRealGainByYear(records []models.HoldingPeriodRecord) map[int]decimal.Decimal {
	sums := make(map[int]decimal.Decimal)
	counts := make(map[int]int64)
	for _, r := range records {
		if !r.RealGain.Valid {
			continue
		}
		sums[r.BuyYear] = sums[r.BuyYear].Add(r.RealGain.Decimal)
		counts[r.BuyYear]++
	}
	avg := make(map[int]decimal.Decimal, len(sums))
	for year, sum := range sums {
		avg[year] = sum.Div(decimal.NewFromInt(counts[year]))
	}
	return avg
}

// YearlyGainSummary aggregates the holding-period records of one buy year.
type YearlyGainSummary struct {
	Year           int
	Records        int
	AvgNominalGain decimal.Decimal
	AvgRealGain    decimal.NullDecimal // null when no record of the year has one
}

// SummarizeGainsByYear returns per-year nominal and real gain averages in
// ascending year order, the table behind the original study's by-year
// comparison chart.
func SummarizeGainsByYear(records []models.HoldingPeriodRecord) []YearlyGainSummary {
	byYear := make(map[int]*YearlyGainSummary)
	nominalSums := make(map[int]decimal.Decimal)
	realSums := make(map[int]decimal.Decimal)
	realCounts := make(map[int]int64)
	for _, r := range records {
		s, ok := byYear[r.BuyYear]
		if !ok {
			s = &YearlyGainSummary{Year: r.BuyYear}
			byYear[r.BuyYear] = s
		}
		s.Records++
		nominalSums[r.BuyYear] = nominalSums[r.BuyYear].Add(r.NominalGain)
		if r.RealGain.Valid {
			realSums[r.BuyYear] = realSums[r.BuyYear].Add(r.RealGain.Decimal)
			realCounts[r.BuyYear]++
		}
	}

	out := make([]YearlyGainSummary, 0, len(byYear))
	for year, s := range byYear {
		s.AvgNominalGain = nominalSums[year].Div(decimal.NewFromInt(int64(s.Records)))
		if n := realCounts[year]; n > 0 {
			s.AvgRealGain = decimal.NullDecimal{
				Decimal: realSums[year].Div(decimal.NewFromInt(n)),
				Valid:   true,
			}
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
