package analysis

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Rezamoghadam8810/dollar-tax-analysis/internal/models"
)

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name   string
		from   string
		months int
		want   string
	}{
		{"plain year jump", "2021-01-31", 12, "2022-01-31"},
		{"leap day clamps to feb 28", "2020-02-29", 12, "2021-02-28"},
		{"month-end clamps to shorter month", "2021-08-31", 6, "2022-02-28"},
		{"day within leap february unaffected", "2019-02-28", 12, "2020-02-28"},
		{"mid-month unaffected", "2021-03-15", 12, "2022-03-15"},
		{"year rollover", "2021-11-30", 3, "2022-02-28"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddMonthsClamped(date(t, tt.from), tt.months)
			assert.Equal(t, date(t, tt.want), got)
		})
	}
}

// The canonical matcher example: a buy anchor on 2021-01-31 at 25000 whose
// nearest close to the 2022-01-31 target is 30000 on 2022-02-02.
func TestMatchHoldingPeriods_NearestSell(t *testing.T) {
	// Arrange
	series := NewPriceSeries([]models.PriceObservation{
		obs(t, "2021-01-31", "25000"),
		obs(t, "2022-01-25", "29000"), // six days before the target
		obs(t, "2022-02-02", "30000"), // two days after, the nearest
	})

	// Act
	records := MatchHoldingPeriods(series, 12, 30*day, zap.NewNop())

	// Assert: the 2022 anchors have no data near their own targets, so only
	// the 2021-01 anchor survives.
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, date(t, "2021-01-31"), r.BuyDate)
	assert.True(t, r.BuyPrice.Equal(decimal.NewFromInt(25000)))
	assert.Equal(t, date(t, "2022-01-31"), r.SellDateTarget)
	assert.Equal(t, date(t, "2022-02-02"), r.SellDateActual)
	assert.True(t, r.SellPrice.Equal(decimal.NewFromInt(30000)))
	assert.Equal(t, 2021, r.BuyYear)
}

func TestMatchHoldingPeriods_SeriesEndExcluded(t *testing.T) {
	// Twelve monthly anchors in 2021, but the series stops in June 2022:
	// only the buys whose target falls within the data may match.
	var input []models.PriceObservation
	for _, d := range []string{
		"2021-01-29", "2021-02-26", "2021-03-31", "2021-04-30",
		"2021-05-31", "2021-06-30", "2022-01-31", "2022-02-28",
		"2022-03-31", "2022-04-29", "2022-05-31", "2022-06-30",
	} {
		input = append(input, obs(t, d, "25000"))
	}
	series := NewPriceSeries(input)

	records := MatchHoldingPeriods(series, 12, 30*day, zap.NewNop())

	require.Len(t, records, 6)
	for _, r := range records {
		assert.Equal(t, 2021, r.BuyYear, "buys whose sell target is past the series end must be dropped")
	}
}

func TestMatchHoldingPeriods_EmptySeries(t *testing.T) {
	records := MatchHoldingPeriods(NewPriceSeries(nil), 12, 30*day, zap.NewNop())
	assert.Empty(t, records)
}
