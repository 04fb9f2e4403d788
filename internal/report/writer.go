// Package report exports the result tables consumed by the downstream
// charting step. Files are written atomically (temp file + rename) so a
// consumer never observes a partial table.
package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/Rezamoghadam8810/dollar-tax-analysis/internal/analysis"
	"github.com/Rezamoghadam8810/dollar-tax-analysis/internal/models"
)

var simulationHeader = []string{
	"year",
	"scenario_name",
	"realization_rate_label",
	"participant_count",
	"dollar_volume",
	"gain_per_participant",
	"tax_per_participant",
	"total_tax_revenue",
}

var yearlyGainsHeader = []string{
	"year",
	"records",
	"avg_nominal_gain",
	"avg_real_gain",
}

// WriteSimulationCSV writes the simulated revenue table. Money columns are
// rounded to whole rials for presentation; the in-memory rows keep full
// precision.
func WriteSimulationCSV(path string, rows []models.SimulationRow) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, simulationHeader)
	for _, r := range rows {
		records = append(records, []string{
			strconv.Itoa(r.Year),
			r.Scenario,
			r.RateLabel,
			strconv.FormatInt(r.Participants, 10),
			r.DollarVolume.String(),
			r.GainPerParticipant.Round(0).String(),
			r.TaxPerParticipant.Round(0).String(),
			r.TotalTaxRevenue.Round(0).String(),
		})
	}
	return writeCSVAtomic(path, records)
}

// WriteYearlyGainsCSV writes the per-year nominal versus real gain table. A
// year without a defined real gain gets an empty cell, keeping the gap
// visible.
func WriteYearlyGainsCSV(path string, summaries []analysis.YearlyGainSummary) error {
	records := make([][]string, 0, len(summaries)+1)
	records = append(records, yearlyGainsHeader)
	for _, s := range summaries {
		realGain := ""
		if s.AvgRealGain.Valid {
			realGain = s.AvgRealGain.Decimal.Round(0).String()
		}
		records = append(records, []string{
			strconv.Itoa(s.Year),
			strconv.Itoa(s.Records),
			s.AvgNominalGain.Round(0).String(),
			realGain,
		})
	}
	return writeCSVAtomic(path, records)
}

// LogSummary logs the revenue range per (year, scenario) across realization
// rates, the run's human-readable stand-in for the charting step.
func LogSummary(log *zap.Logger, rows []models.SimulationRow) {
	type key struct {
		year     int
		scenario string
	}
	flush := func(k key, low, high models.SimulationRow) {
		log.Info("simulated CGT revenue",
			zap.Int("year", k.year),
			zap.String("scenario", k.scenario),
			zap.String("revenue_low", low.TotalTaxRevenue.Round(0).String()),
			zap.String("revenue_high", high.TotalTaxRevenue.Round(0).String()))
	}

	var current key
	var low, high models.SimulationRow
	open := false
	for _, r := range rows {
		k := key{year: r.Year, scenario: r.Scenario}
		if open && k != current {
			flush(current, low, high)
			open = false
		}
		if !open {
			current, low, high, open = k, r, r, true
			continue
		}
		if r.TotalTaxRevenue.LessThan(low.TotalTaxRevenue) {
			low = r
		}
		if r.TotalTaxRevenue.GreaterThan(high.TotalTaxRevenue) {
			high = r
		}
	}
	if open {
		flush(current, low, high)
	}
}

func writeCSVAtomic(path string, records [][]string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "tmp-*.csv")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(records); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
