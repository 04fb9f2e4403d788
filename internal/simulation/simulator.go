// Package simulation estimates government CGT revenue across adoption
// scenarios. It is a pure transformation: given the same inputs it emits
// bit-identical rows in the same order, so the exported table is directly
// reportable.
package simulation

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Rezamoghadam8810/dollar-tax-analysis/internal/models"
	"github.com/Rezamoghadam8810/dollar-tax-analysis/internal/tax"
)

var hundred = decimal.NewFromInt(100)

// Inputs carries everything one simulation run depends on. Run never mutates
// any of it.
type Inputs struct {
	StartYear int
	EndYear   int
	// Scenarios in declared order, which is also the output order.
	Scenarios []models.ScenarioDefinition
	// RealizationRates are fractions of participants assumed to realize
	// gains; output rows are emitted in ascending rate order.
	RealizationRates []decimal.Decimal
	// YearlyDollarRate is the representative dollar price per year, used to
	// rescale the per-unit real gain to each scenario's dollar exposure.
	YearlyDollarRate map[int]decimal.Decimal
	// AvgRealGain is the average per-unit real gain by buy year.
	AvgRealGain map[int]decimal.Decimal
	Schedule    tax.Schedule
}

// Run enumerates (year, scenario, realization rate) and returns one row per
// combination that has a defined average real gain. Years without a gain or a
// dollar rate are skipped, propagating the upstream gap instead of
// substituting a default. A negative per-participant gain is an upstream bug
// and aborts the run via tax.ErrInvalidTaxInput.
func Run(in Inputs, log *zap.Logger) ([]models.SimulationRow, error) {
	rates := make([]decimal.Decimal, len(in.RealizationRates))
	copy(rates, in.RealizationRates)
	sort.Slice(rates, func(i, j int) bool { return rates[i].LessThan(rates[j]) })

	var rows []models.SimulationRow
	for year := in.StartYear; year <= in.EndYear; year++ {
		avgGain, ok := in.AvgRealGain[year]
		if !ok {
			log.Warn("no average real gain for year, skipping",
				zap.Int("year", year))
			continue
		}
		dollarRate, ok := in.YearlyDollarRate[year]
		if !ok || !dollarRate.IsPositive() {
			log.Warn("no usable dollar rate for year, skipping",
				zap.Int("year", year))
			continue
		}
		gainPerUnit := avgGain.Div(dollarRate)

		for _, sc := range in.Scenarios {
			gainPerParticipant := gainPerUnit.Mul(sc.DollarVolume)
			taxPerParticipant, err := in.Schedule.Tax(gainPerParticipant)
			if err != nil {
				return nil, fmt.Errorf("year %d, scenario %q: %w", year, sc.Name, err)
			}
			participants := decimal.NewFromInt(sc.Participants)
			for _, rate := range rates {
				rows = append(rows, models.SimulationRow{
					Year:               year,
					Scenario:           sc.Name,
					RealizationRate:    rate,
					RateLabel:          rateLabel(rate),
					Participants:       sc.Participants,
					DollarVolume:       sc.DollarVolume,
					GainPerParticipant: gainPerParticipant,
					TaxPerParticipant:  taxPerParticipant,
					TotalTaxRevenue:    taxPerParticipant.Mul(participants).Mul(rate),
				})
			}
		}
	}
	return rows, nil
}

// rateLabel renders a realization rate the way the exported table labels it,
// e.g. 0.5 -> "50%".
func rateLabel(rate decimal.Decimal) string {
	return rate.Mul(hundred).StringFixed(0) + "%"
}
