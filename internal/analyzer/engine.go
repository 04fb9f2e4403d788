// Package analyzer wires the analysis pipeline together: load the raw
// tables, match 12-month holding periods, compute nominal and real gains,
// simulate CGT revenue across scenarios, and export the result tables.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Rezamoghadam8810/dollar-tax-analysis/internal/analysis"
	"github.com/Rezamoghadam8810/dollar-tax-analysis/internal/config"
	"github.com/Rezamoghadam8810/dollar-tax-analysis/internal/loader"
	"github.com/Rezamoghadam8810/dollar-tax-analysis/internal/report"
	"github.com/Rezamoghadam8810/dollar-tax-analysis/internal/simulation"
)

// Engine is the batch engine running one analysis pass. It holds no state
// across runs; the loaded datasets live only for the duration of Run.
type Engine struct {
	logger *zap.Logger
	cfg    *config.Config
}

// NewEngine creates a new analysis engine.
func NewEngine(logger *zap.Logger, cfg *config.Config) *Engine {
	return &Engine{logger: logger, cfg: cfg}
}

// Run executes the pipeline once. The context is only consulted between
// stages; each stage is a bounded, in-memory pass.
func (e *Engine) Run(ctx context.Context) error {
	prices, err := loader.LoadPrices(e.cfg.Data.PricePath(), e.logger)
	if err != nil {
		return fmt.Errorf("load prices: %w", err)
	}
	e.logger.Info("price series loaded",
		zap.String("file", e.cfg.Data.PricePath()),
		zap.Int("observations", len(prices)))

	inflationRecords, err := loader.LoadInflation(e.cfg.Data.InflationPath(), e.logger)
	if err != nil {
		return fmt.Errorf("load inflation: %w", err)
	}
	e.logger.Info("inflation table loaded",
		zap.String("file", e.cfg.Data.InflationPath()),
		zap.Int("years", len(inflationRecords)))
	if err := ctx.Err(); err != nil {
		return err
	}

	series := analysis.NewPriceSeries(prices)
	if series.Len() == 0 {
		return errors.New("price series has no usable closes")
	}
	from, to, _ := series.Span()
	e.logger.Info("price series indexed",
		zap.Int("usable_closes", series.Len()),
		zap.Time("from", from),
		zap.Time("to", to))

	records := analysis.MatchHoldingPeriods(series, e.cfg.Matching.HoldingMonths, e.cfg.Matching.MaxSellGap(), e.logger)
	e.logger.Info("holding periods matched",
		zap.Int("holding_months", e.cfg.Matching.HoldingMonths),
		zap.Int("records", len(records)))

	records = analysis.ComputeGains(records, analysis.NewInflationTable(inflationRecords), e.logger)
	avgRealGain := analysis.AverageRealGainByYear(records)
	e.logger.Info("real gains computed", zap.Int("years_with_real_gains", len(avgRealGain)))
	if err := ctx.Err(); err != nil {
		return err
	}

	schedule, err := e.cfg.Tax.Schedule()
	if err != nil {
		return fmt.Errorf("tax schedule: %w", err)
	}
	if !schedule.RatesNonDecreasing() {
		e.logger.Warn("tax schedule has regressive marginal rates")
	}
	dollarRates, err := e.cfg.Simulation.DollarRates()
	if err != nil {
		return err
	}

	rows, err := simulation.Run(simulation.Inputs{
		StartYear:        e.cfg.Simulation.StartYear,
		EndYear:          e.cfg.Simulation.EndYear,
		Scenarios:        e.cfg.Simulation.ScenarioDefinitions(),
		RealizationRates: e.cfg.Simulation.Rates(),
		YearlyDollarRate: dollarRates,
		AvgRealGain:      avgRealGain,
		Schedule:         schedule,
	}, e.logger)
	if err != nil {
		return fmt.Errorf("simulate revenue: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(e.cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := report.WriteSimulationCSV(e.cfg.Output.SimulationPath(), rows); err != nil {
		return fmt.Errorf("write simulation table: %w", err)
	}
	if err := report.WriteYearlyGainsCSV(e.cfg.Output.YearlyGainsPath(), analysis.SummarizeGainsByYear(records)); err != nil {
		return fmt.Errorf("write yearly gains table: %w", err)
	}
	report.LogSummary(e.logger, rows)
	e.logger.Info("analysis complete",
		zap.Int("simulation_rows", len(rows)),
		zap.String("simulation_table", e.cfg.Output.SimulationPath()),
		zap.String("yearly_gains_table", e.cfg.Output.YearlyGainsPath()))
	return nil
}
