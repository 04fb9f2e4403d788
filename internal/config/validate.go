package config

import (
	"errors"
	"fmt"
)

// Validate checks that all fields are usable before the pipeline starts.
func (c *Config) Validate() error {
	if c.Data.PriceFile == "" {
		return errors.New("data.price_file is required")
	}
	if c.Data.InflationFile == "" {
		return errors.New("data.inflation_file is required")
	}

	if c.Matching.HoldingMonths < 1 {
		return errors.New("matching.holding_months must be >= 1")
	}
	if c.Matching.MaxSellGapDays < 1 {
		return errors.New("matching.max_sell_gap_days must be >= 1")
	}

	if _, err := c.Tax.Schedule(); err != nil {
		return fmt.Errorf("tax.brackets: %w", err)
	}

	s := c.Simulation
	if s.StartYear > s.EndYear {
		return fmt.Errorf("simulation.start_year %d is after end_year %d", s.StartYear, s.EndYear)
	}
	if len(s.RealizationRates) == 0 {
		return errors.New("simulation.realization_rates must not be empty")
	}
	for _, r := range s.RealizationRates {
		if r <= 0 || r > 1 {
			return fmt.Errorf("simulation.realization_rates: rate %v must be within (0, 1]", r)
		}
	}
	if len(s.Scenarios) == 0 {
		return errors.New("simulation.scenarios must not be empty")
	}
	names := make(map[string]bool, len(s.Scenarios))
	for i, sc := range s.Scenarios {
		if sc.Name == "" {
			return fmt.Errorf("simulation.scenarios[%d]: name is required", i)
		}
		if names[sc.Name] {
			return fmt.Errorf("simulation.scenarios[%d]: duplicate name %q", i, sc.Name)
		}
		names[sc.Name] = true
		if sc.Participants <= 0 {
			return fmt.Errorf("simulation.scenarios[%d] %q: participants must be > 0", i, sc.Name)
		}
		if sc.DollarVolume <= 0 {
			return fmt.Errorf("simulation.scenarios[%d] %q: dollar_volume must be > 0", i, sc.Name)
		}
	}
	rates, err := s.DollarRates()
	if err != nil {
		return err
	}
	for year, rate := range rates {
		if !rate.IsPositive() {
			return fmt.Errorf("simulation.yearly_dollar_rate[%d]: rate must be > 0", year)
		}
	}
	return nil
}
