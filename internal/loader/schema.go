package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// columnKind selects how a raw cell is coerced.
type columnKind int

const (
	kindDate columnKind = iota
	kindDecimal
	kindYear
	kindLabel
)

// column declares one schema column: its canonical name, accepted header
// aliases, and coercion kind. Coercion is applied uniformly by the loaders;
// individual columns never hand-roll their own cleanup.
type column struct {
	name     string
	aliases  []string
	kind     columnKind
	required bool
}

// nullSentinels are raw cell values that coerce to null rather than failing.
var nullSentinels = map[string]struct{}{
	"":     {},
	"-":    {},
	"—":    {},
	"nan":  {},
	"null": {},
}

// thousandsSep strips the grouping separators the source files use in price
// cells like "61,500".
var thousandsSep = strings.NewReplacer(",", "", "٬", "")

// ErrMalformedRecord marks cells that cannot be coerced to their column's
// declared type. Match with errors.Is.
var ErrMalformedRecord = errors.New("malformed record")

// MalformedRecordError identifies the offending file, row, and column of an
// unparsable cell.
type MalformedRecordError struct {
	File   string
	Row    int // 1-based, counting the header row
	Column string
	Value  string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s: row %d: column %q: cannot parse %q", e.File, e.Row, e.Column, e.Value)
}

func (e *MalformedRecordError) Unwrap() error { return ErrMalformedRecord }

// isNull reports whether a raw cell is one of the missing-value sentinels.
func isNull(raw string) bool {
	_, ok := nullSentinels[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// parseNullDecimal coerces a numeric cell, stripping thousands separators.
// Sentinel values coerce to null, never to zero.
func parseNullDecimal(raw string) (decimal.NullDecimal, error) {
	if isNull(raw) {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(thousandsSep.Replace(strings.TrimSpace(raw)))
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

// resolveColumns maps each schema column to its index in the header row.
// Matching is case-insensitive and order-independent. A missing required
// column is an error; optional columns resolve to -1.
func resolveColumns(file string, header []string, schema []column) (map[string]int, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}
	indices := make(map[string]int, len(schema))
	for _, c := range schema {
		idx, ok := byName[c.name]
		for _, alias := range c.aliases {
			if ok {
				break
			}
			idx, ok = byName[alias]
		}
		if !ok {
			if c.required {
				return nil, fmt.Errorf("%s: missing required column %q", file, c.name)
			}
			idx = -1
		}
		indices[c.name] = idx
	}
	return indices, nil
}

// cell returns the raw value of a column within a row, tolerating rows
// shorter than the header (trailing empty cells are trimmed by some readers).
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
