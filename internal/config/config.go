package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/Rezamoghadam8810/dollar-tax-analysis/internal/models"
	"github.com/Rezamoghadam8810/dollar-tax-analysis/internal/tax"
)

// Config holds all configuration for the application.
type Config struct {
	Data       Data       `mapstructure:"data"`
	Matching   Matching   `mapstructure:"matching"`
	Tax        Tax        `mapstructure:"tax"`
	Simulation Simulation `mapstructure:"simulation"`
	Output     Output     `mapstructure:"output"`
	Logger     Logger     `mapstructure:"logger"`
}

// Data locates the input files.
type Data struct {
	Dir           string `mapstructure:"dir"`
	PriceFile     string `mapstructure:"price_file"`
	InflationFile string `mapstructure:"inflation_file"`
}

// PricePath returns the resolved path of the price file.
func (d Data) PricePath() string { return filepath.Join(d.Dir, d.PriceFile) }

// InflationPath returns the resolved path of the inflation file.
func (d Data) InflationPath() string { return filepath.Join(d.Dir, d.InflationFile) }

// Matching holds the holding-period matcher parameters.
type Matching struct {
	HoldingMonths  int `mapstructure:"holding_months"`
	MaxSellGapDays int `mapstructure:"max_sell_gap_days"`
}

// MaxSellGap returns the widest tolerated distance between the target sell
// date and an actual observation.
func (m Matching) MaxSellGap() time.Duration {
	return time.Duration(m.MaxSellGapDays) * 24 * time.Hour
}

// Bracket is one configured tax tier. An UpperBound of zero marks the
// unbounded final tier.
type Bracket struct {
	UpperBound float64 `mapstructure:"upper_bound"`
	Rate       float64 `mapstructure:"rate"`
}

// Tax holds the bracket schedule configuration.
type Tax struct {
	Brackets []Bracket `mapstructure:"brackets"`
}

// Schedule converts the configured brackets into a validated tax schedule.
func (t Tax) Schedule() (tax.Schedule, error) {
	brackets := make([]tax.Bracket, 0, len(t.Brackets))
	for _, b := range t.Brackets {
		br := tax.Bracket{Rate: decimal.NewFromFloat(b.Rate)}
		if b.UpperBound > 0 {
			br.UpperBound = decimal.NullDecimal{Decimal: decimal.NewFromFloat(b.UpperBound), Valid: true}
		}
		brackets = append(brackets, br)
	}
	return tax.NewSchedule(brackets)
}

// Scenario is one configured adoption scenario.
type Scenario struct {
	Name         string  `mapstructure:"name"`
	Participants int64   `mapstructure:"participants"`
	DollarVolume float64 `mapstructure:"dollar_volume"`
}

// Simulation holds the scenario simulation parameters. YearlyDollarRate keys
// are years as strings, the shape YAML mappings decode into.
type Simulation struct {
	StartYear        int                `mapstructure:"start_year"`
	EndYear          int                `mapstructure:"end_year"`
	RealizationRates []float64          `mapstructure:"realization_rates"`
	YearlyDollarRate map[string]float64 `mapstructure:"yearly_dollar_rate"`
	Scenarios        []Scenario         `mapstructure:"scenarios"`
}

// ScenarioDefinitions converts the configured scenarios, preserving their
// declared order.
func (s Simulation) ScenarioDefinitions() []models.ScenarioDefinition {
	out := make([]models.ScenarioDefinition, 0, len(s.Scenarios))
	for _, sc := range s.Scenarios {
		out = append(out, models.ScenarioDefinition{
			Name:         sc.Name,
			Participants: sc.Participants,
			DollarVolume: decimal.NewFromFloat(sc.DollarVolume),
		})
	}
	return out
}

// Rates returns the realization rates as decimals, ascending.
func (s Simulation) Rates() []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(s.RealizationRates))
	for _, r := range s.RealizationRates {
		out = append(out, decimal.NewFromFloat(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LessThan(out[j]) })
	return out
}

// DollarRates parses the year-keyed dollar rate mapping.
func (s Simulation) DollarRates() (map[int]decimal.Decimal, error) {
	out := make(map[int]decimal.Decimal, len(s.YearlyDollarRate))
	for key, v := range s.YearlyDollarRate {
		year, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("simulation.yearly_dollar_rate: bad year key %q", key)
		}
		out[year] = decimal.NewFromFloat(v)
	}
	return out, nil
}

// Output locates the exported result tables.
type Output struct {
	Dir             string `mapstructure:"dir"`
	SimulationFile  string `mapstructure:"simulation_file"`
	YearlyGainsFile string `mapstructure:"yearly_gains_file"`
}

// SimulationPath returns the resolved path of the simulation table.
func (o Output) SimulationPath() string { return filepath.Join(o.Dir, o.SimulationFile) }

// YearlyGainsPath returns the resolved path of the yearly gains table.
func (o Output) YearlyGainsPath() string { return filepath.Join(o.Dir, o.YearlyGainsFile) }

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from the config file in path, with
// environment variables overriding file values.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
