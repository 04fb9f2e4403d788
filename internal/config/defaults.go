package config

// Default values mirror the original study's run: three adoption scenarios,
// realization rates of 50/70/90 percent, the 2020-2024 window, and the
// reference bracket schedule.
const (
	DefaultDataDir        = "./data"
	DefaultPriceFile      = "dollar_change_columns.csv"
	DefaultInflationFile  = "iran_inflation.xlsx"
	DefaultHoldingMonths  = 12
	DefaultMaxSellGapDays = 30
	DefaultOutputDir      = "./output"
	DefaultSimulationFile = "cgt_simulation.csv"
	DefaultGainsFile      = "yearly_gains.csv"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
)

func defaultBrackets() []Bracket {
	return []Bracket{
		{UpperBound: 50_000_000, Rate: 0.15},
		{UpperBound: 100_000_000, Rate: 0.20},
		{Rate: 0.25},
	}
}

func defaultScenarios() []Scenario {
	return []Scenario{
		{Name: "conservative", Participants: 850_000, DollarVolume: 2_000},
		{Name: "moderate", Participants: 4_250_000, DollarVolume: 5_000},
		{Name: "optimistic", Participants: 8_500_000, DollarVolume: 10_000},
	}
}

func defaultDollarRates() map[string]float64 {
	return map[string]float64{
		"2020": 20_000,
		"2021": 25_000,
		"2022": 30_000,
		"2023": 40_000,
		"2024": 50_000,
	}
}

func (c *Config) applyDefaults() {
	if c.Data.Dir == "" {
		c.Data.Dir = DefaultDataDir
	}
	if c.Data.PriceFile == "" {
		c.Data.PriceFile = DefaultPriceFile
	}
	if c.Data.InflationFile == "" {
		c.Data.InflationFile = DefaultInflationFile
	}

	if c.Matching.HoldingMonths == 0 {
		c.Matching.HoldingMonths = DefaultHoldingMonths
	}
	if c.Matching.MaxSellGapDays == 0 {
		c.Matching.MaxSellGapDays = DefaultMaxSellGapDays
	}

	if len(c.Tax.Brackets) == 0 {
		c.Tax.Brackets = defaultBrackets()
	}

	if c.Simulation.StartYear == 0 {
		c.Simulation.StartYear = 2020
	}
	if c.Simulation.EndYear == 0 {
		c.Simulation.EndYear = 2024
	}
	if len(c.Simulation.RealizationRates) == 0 {
		c.Simulation.RealizationRates = []float64{0.5, 0.7, 0.9}
	}
	if len(c.Simulation.YearlyDollarRate) == 0 {
		c.Simulation.YearlyDollarRate = defaultDollarRates()
	}
	if len(c.Simulation.Scenarios) == 0 {
		c.Simulation.Scenarios = defaultScenarios()
	}

	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}
	if c.Output.SimulationFile == "" {
		c.Output.SimulationFile = DefaultSimulationFile
	}
	if c.Output.YearlyGainsFile == "" {
		c.Output.YearlyGainsFile = DefaultGainsFile
	}

	if c.Logger.Level == "" {
		c.Logger.Level = DefaultLogLevel
	}
	if c.Logger.Format == "" {
		c.Logger.Format = DefaultLogFormat
	}
}
