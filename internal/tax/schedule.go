package tax

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidTaxInput is returned when an amount outside the tax function's
// domain (a negative gain) reaches it. A negative amount signals an upstream
// computation bug, so it is never clamped.
var ErrInvalidTaxInput = errors.New("invalid tax input")

// Bracket is one tier of a stepped schedule. The marginal Rate applies to the
// portion of an amount between the previous tier's upper bound and UpperBound.
// A null UpperBound marks the unbounded final tier.
type Bracket struct {
	UpperBound decimal.NullDecimal
	Rate       decimal.Decimal
}

// Schedule is a validated, ordered bracket schedule.
type Schedule struct {
	brackets []Bracket
}

// NewSchedule validates the brackets and returns a Schedule. Bounds must be
// positive and strictly increasing, rates must lie within [0, 1], and exactly
// the final bracket must be unbounded.
func NewSchedule(brackets []Bracket) (Schedule, error) {
	if len(brackets) == 0 {
		return Schedule{}, errors.New("tax schedule needs at least one bracket")
	}
	one := decimal.NewFromInt(1)
	var prev decimal.Decimal
	for i, b := range brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(one) {
			return Schedule{}, fmt.Errorf("bracket %d: rate %s must be within [0, 1]", i, b.Rate)
		}
		last := i == len(brackets)-1
		if last {
			if b.UpperBound.Valid {
				return Schedule{}, fmt.Errorf("bracket %d: final bracket must be unbounded", i)
			}
			continue
		}
		if !b.UpperBound.Valid {
			return Schedule{}, fmt.Errorf("bracket %d: only the final bracket may be unbounded", i)
		}
		if !b.UpperBound.Decimal.IsPositive() {
			return Schedule{}, fmt.Errorf("bracket %d: upper bound %s must be positive", i, b.UpperBound.Decimal)
		}
		if i > 0 && b.UpperBound.Decimal.LessThanOrEqual(prev) {
			return Schedule{}, fmt.Errorf("bracket %d: upper bound %s must exceed previous bound %s", i, b.UpperBound.Decimal, prev)
		}
		prev = b.UpperBound.Decimal
	}
	s := Schedule{brackets: make([]Bracket, len(brackets))}
	copy(s.brackets, brackets)
	return s, nil
}

// Brackets returns a copy of the schedule's brackets in order.
func (s Schedule) Brackets() []Bracket {
	out := make([]Bracket, len(s.brackets))
	copy(out, s.brackets)
	return out
}

// RatesNonDecreasing reports whether the marginal rates are monotonically
// non-decreasing. A realistic schedule is expected to satisfy this, but it is
// not rejected; callers may warn instead.
func (s Schedule) RatesNonDecreasing() bool {
	for i := 1; i < len(s.brackets); i++ {
		if s.brackets[i].Rate.LessThan(s.brackets[i-1].Rate) {
			return false
		}
	}
	return true
}

// Tax returns the tax owed on amount under the schedule, applying each
// bracket's marginal rate to the portion of the amount within its band. The
// result is monotone in amount and continuous at bracket boundaries.
// Negative amounts yield ErrInvalidTaxInput.
func (s Schedule) Tax(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: negative amount %s", ErrInvalidTaxInput, amount)
	}
	var total, lower decimal.Decimal
	for _, b := range s.brackets {
		if b.UpperBound.Valid && amount.GreaterThan(b.UpperBound.Decimal) {
			total = total.Add(b.UpperBound.Decimal.Sub(lower).Mul(b.Rate))
			lower = b.UpperBound.Decimal
			continue
		}
		return total.Add(amount.Sub(lower).Mul(b.Rate)), nil
	}
	// Unreachable: validation guarantees an unbounded final bracket.
	return total, nil
}
