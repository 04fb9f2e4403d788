package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const priceHeader = "open,low,high,close,change,persent_change,miladi_date,shamsi_date"

func writeFile(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func TestLoadPrices_CoercesSentinelsAndSeparators(t *testing.T) {
	// Arrange: thousands separators in every numeric cell, one "-" sentinel.
	path := writeFile(t, "prices.csv",
		priceHeader,
		`"60,000","59,500","61,200","61,500",500,"0.8%",2021-01-31,1399-11-12`,
		`"61,500","60,800",-,"62,000",500,"0.8%",2021-02-01,1399-11-13`,
	)

	// Act
	obs, err := LoadPrices(path, zap.NewNop())

	// Assert
	require.NoError(t, err)
	require.Len(t, obs, 2)
	assert.Equal(t, day(t, "2021-01-31"), obs[0].Date)
	assert.Equal(t, "1399-11-12", obs[0].LocalDate)
	require.True(t, obs[0].Close.Valid)
	assert.True(t, obs[0].Close.Decimal.Equal(decimal.NewFromInt(61500)))
	assert.False(t, obs[1].High.Valid, "sentinel cell must coerce to null, not zero")
	require.True(t, obs[1].Open.Valid)
	assert.True(t, obs[1].Open.Decimal.Equal(decimal.NewFromInt(61500)))
}

func TestLoadPrices_MalformedNumericIsFatal(t *testing.T) {
	path := writeFile(t, "prices.csv",
		priceHeader,
		"60000,59500,61200,garbage,500,0.8%,2021-01-31,1399-11-12",
	)

	_, err := LoadPrices(path, zap.NewNop())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), `"close"`)
	assert.Contains(t, err.Error(), "garbage")
}

func TestLoadPrices_DropsRowsWithUnparsableDates(t *testing.T) {
	path := writeFile(t, "prices.csv",
		priceHeader,
		"60000,59500,61200,61500,500,0.8%,2021-01-31,1399-11-12",
		"61000,60000,62000,61800,300,0.5%,not-a-date,1399-11-13",
		"61500,60800,62100,62000,200,0.3%,2021-02-02,1399-11-14",
	)

	obs, err := LoadPrices(path, zap.NewNop())

	require.NoError(t, err, "a bad date is recoverable, not fatal")
	require.Len(t, obs, 2)
	assert.Equal(t, day(t, "2021-01-31"), obs[0].Date)
	assert.Equal(t, day(t, "2021-02-02"), obs[1].Date)
}

func TestLoadPrices_SortsAndDeduplicatesByDate(t *testing.T) {
	path := writeFile(t, "prices.csv",
		priceHeader,
		"60000,59500,61200,61500,500,0.8%,2021-02-01,1399-11-13",
		"59000,58500,60200,60000,500,0.8%,2021-01-31,1399-11-12",
		"59100,58600,60300,60100,100,0.1%,2021-01-31,1399-11-12",
	)

	obs, err := LoadPrices(path, zap.NewNop())

	require.NoError(t, err)
	require.Len(t, obs, 2)
	assert.Equal(t, day(t, "2021-01-31"), obs[0].Date)
	assert.True(t, obs[0].Close.Decimal.Equal(decimal.NewFromInt(60100)),
		"last write must win on duplicate dates, got %s", obs[0].Close.Decimal)
	assert.Equal(t, day(t, "2021-02-01"), obs[1].Date)
}

func TestLoadPrices_HeaderAliasesAndOrder(t *testing.T) {
	// Spec-style headers in a shuffled order must resolve by name.
	path := writeFile(t, "prices.csv",
		"gregorian_date,close,open,low,high,change,percent_change,local_date",
		"2021-01-31,61500,60000,59500,61200,500,0.8%,1399-11-12",
	)

	obs, err := LoadPrices(path, zap.NewNop())

	require.NoError(t, err)
	require.Len(t, obs, 1)
	assert.True(t, obs[0].Close.Decimal.Equal(decimal.NewFromInt(61500)))
	assert.Equal(t, "0.8%", obs[0].PercentChange)
}

func TestLoadPrices_MissingRequiredColumn(t *testing.T) {
	path := writeFile(t, "prices.csv",
		"open,low,high,change,persent_change,miladi_date,shamsi_date",
		"60000,59500,61200,500,0.8%,2021-01-31,1399-11-12",
	)

	_, err := LoadPrices(path, zap.NewNop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"close"`)
}

func TestLoadInflation_CSV(t *testing.T) {
	path := writeFile(t, "inflation.csv",
		"year_miladi,persent",
		"2021,40.2",
		"2020,36.4",
		"2019,-", // sentinel rate leaves the year unmatched
		"2020,36.5",
	)

	records, err := LoadInflation(path, zap.NewNop())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 2020, records[0].Year, "records must come back in ascending year order")
	assert.True(t, records[0].RatePercent.Equal(decimal.RequireFromString("36.5")),
		"last write must win on duplicate years, got %s", records[0].RatePercent)
	assert.Equal(t, 2021, records[1].Year)
}

func TestLoadInflation_MalformedYearIsFatal(t *testing.T) {
	path := writeFile(t, "inflation.csv",
		"year_miladi,persent",
		"twenty-twenty,36.4",
	)

	_, err := LoadInflation(path, zap.NewNop())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), "year_miladi")
}

func TestLoadInflation_Workbook(t *testing.T) {
	// Arrange: the inflation table as the .xlsx workbook the dataset ships in.
	path := filepath.Join(t.TempDir(), "inflation.xlsx")
	wb := excelize.NewFile()
	defer wb.Close()
	require.NoError(t, wb.SetCellValue("Sheet1", "A1", "year_miladi"))
	require.NoError(t, wb.SetCellValue("Sheet1", "B1", "persent"))
	require.NoError(t, wb.SetCellValue("Sheet1", "A2", 2020))
	require.NoError(t, wb.SetCellValue("Sheet1", "B2", 36.4))
	require.NoError(t, wb.SetCellValue("Sheet1", "A3", 2021))
	require.NoError(t, wb.SetCellValue("Sheet1", "B3", 40.2))
	require.NoError(t, wb.SaveAs(path))

	// Act
	records, err := LoadInflation(path, zap.NewNop())

	// Assert
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 2020, records[0].Year)
	assert.True(t, records[0].RatePercent.Equal(decimal.RequireFromString("36.4")))
	assert.Equal(t, 2021, records[1].Year)
	assert.True(t, records[1].RatePercent.Equal(decimal.RequireFromString("40.2")))
}
