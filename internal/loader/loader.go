// Package loader ingests the raw price and inflation tables and normalizes
// them into domain records. Numeric cells are coerced through a declarative
// per-column schema with an explicit null-sentinel set; a corrupted numeric
// cell aborts the run, while an unparsable date only drops its row.
package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Rezamoghadam8810/dollar-tax-analysis/internal/models"
)

// priceSchema declares the dollar price file's columns. The misspelled
// "persent_change" header is what the source data actually ships with.
var priceSchema = []column{
	{name: "open", kind: kindDecimal, required: true},
	{name: "low", kind: kindDecimal, required: true},
	{name: "high", kind: kindDecimal, required: true},
	{name: "close", kind: kindDecimal, required: true},
	{name: "change", kind: kindDecimal, required: true},
	{name: "persent_change", aliases: []string{"percent_change"}, kind: kindLabel},
	{name: "miladi_date", aliases: []string{"gregorian_date", "date"}, kind: kindDate, required: true},
	{name: "shamsi_date", aliases: []string{"local_date"}, kind: kindLabel},
}

// inflationSchema declares the annual inflation table's columns.
var inflationSchema = []column{
	{name: "year_miladi", aliases: []string{"year", "gregorian_year"}, kind: kindYear, required: true},
	{name: "persent", aliases: []string{"percent", "rate_percent", "rate"}, kind: kindDecimal, required: true},
}

var priceDateLayouts = []string{"2006-01-02", "2006/01/02", "1/2/2006"}

// LoadPrices reads the daily dollar price CSV and returns the observations
// sorted by gregorian date, deduplicated keeping the last row read. Rows with
// unparsable dates are dropped with a warning; any other unparsable cell is
// fatal, since a silently corrupted price series is worse than stopping.
func LoadPrices(path string, log *zap.Logger) ([]models.PriceObservation, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty price file", name)
	}
	cols, err := resolveColumns(name, rows[0], priceSchema)
	if err != nil {
		return nil, err
	}

	obs := make([]models.PriceObservation, 0, len(rows)-1)
	dropped := 0
	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlankRow(row) {
			continue
		}
		rawDate := cell(row, cols["miladi_date"])
		d, ok := parseDate(rawDate)
		if !ok {
			log.Warn("dropping price row with unparsable date",
				zap.String("file", name),
				zap.Int("row", rowNum),
				zap.String("value", rawDate))
			dropped++
			continue
		}
		o := models.PriceObservation{
			Date:          d,
			LocalDate:     strings.TrimSpace(cell(row, cols["shamsi_date"])),
			PercentChange: strings.TrimSpace(cell(row, cols["persent_change"])),
		}
		numeric := map[string]*decimal.NullDecimal{
			"open":   &o.Open,
			"low":    &o.Low,
			"high":   &o.High,
			"close":  &o.Close,
			"change": &o.Change,
		}
		for _, c := range priceSchema {
			if c.kind != kindDecimal {
				continue
			}
			raw := cell(row, cols[c.name])
			v, err := parseNullDecimal(raw)
			if err != nil {
				return nil, &MalformedRecordError{File: name, Row: rowNum, Column: c.name, Value: raw}
			}
			*numeric[c.name] = v
		}
		obs = append(obs, o)
	}
	if dropped > 0 {
		log.Warn("price rows dropped for unparsable dates",
			zap.String("file", name),
			zap.Int("dropped", dropped))
	}
	return normalizePrices(obs), nil
}

// LoadInflation reads the annual inflation table, either an .xlsx workbook
// (the format the source dataset ships in, first sheet) or a plain CSV.
// Records come back in ascending year order with duplicate years keeping the
// last row read; rows whose rate is the missing-value sentinel are dropped,
// leaving the year unmatched rather than zero.
func LoadInflation(path string, log *zap.Logger) ([]models.InflationRecord, error) {
	var rows [][]string
	var err error
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		rows, err = readWorkbook(path)
	} else {
		rows, err = readCSV(path)
	}
	if err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty inflation file", name)
	}
	cols, err := resolveColumns(name, rows[0], inflationSchema)
	if err != nil {
		return nil, err
	}

	byYear := make(map[int]models.InflationRecord)
	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlankRow(row) {
			continue
		}
		rawYear := cell(row, cols["year_miladi"])
		year, err := parseYear(rawYear)
		if err != nil {
			return nil, &MalformedRecordError{File: name, Row: rowNum, Column: "year_miladi", Value: rawYear}
		}
		rawRate := cell(row, cols["persent"])
		rate, err := parseNullDecimal(rawRate)
		if err != nil {
			return nil, &MalformedRecordError{File: name, Row: rowNum, Column: "persent", Value: rawRate}
		}
		if !rate.Valid {
			log.Warn("dropping inflation row without a rate",
				zap.String("file", name),
				zap.Int("year", year))
			continue
		}
		byYear[year] = models.InflationRecord{Year: year, RatePercent: rate.Decimal}
	}

	records := make([]models.InflationRecord, 0, len(byYear))
	for _, r := range byYear {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Year < records[j].Year })
	return records, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // rows are validated per-cell against the schema
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

func readWorkbook(path string) ([][]string, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", filepath.Base(path))
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

func parseDate(raw string) (time.Time, bool) {
	v := strings.TrimSpace(raw)
	for _, layout := range priceDateLayouts {
		if d, err := time.Parse(layout, v); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// parseYear tolerates spreadsheet formatting like "2020.0" but rejects
// anything non-integral.
func parseYear(raw string) (int, error) {
	v := strings.TrimSpace(raw)
	if y, err := strconv.Atoi(v); err == nil {
		return y, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil || !d.IsInteger() {
		return 0, fmt.Errorf("not a year: %q", raw)
	}
	return int(d.IntPart()), nil
}

// normalizePrices sorts observations by date; on duplicate dates the row read
// later wins, leaving dates strictly increasing.
func normalizePrices(obs []models.PriceObservation) []models.PriceObservation {
	sort.SliceStable(obs, func(i, j int) bool { return obs[i].Date.Before(obs[j].Date) })
	out := make([]models.PriceObservation, 0, len(obs))
	for _, o := range obs {
		if n := len(out); n > 0 && out[n-1].Date.Equal(o.Date) {
			out[n-1] = o
			continue
		}
		out = append(out, o)
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
