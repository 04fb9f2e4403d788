package analysis

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Rezamoghadam8810/dollar-tax-analysis/internal/models"
)

// ClosePrice is a dated close quote inside a PriceSeries.
type ClosePrice struct {
	Date  time.Time
	Price decimal.Decimal
}

// PriceSeries is a chronologically sorted, date-unique index over the usable
// closes of a price series. Observations without a close are not indexed, so
// lookups never resolve to a null price.
type PriceSeries struct {
	points []ClosePrice
}

// NewPriceSeries builds a series from raw observations. Input order does not
// matter; on duplicate dates the observation appearing later in the input
// wins.
func NewPriceSeries(obs []models.PriceObservation) *PriceSeries {
	sorted := make([]models.PriceObservation, len(obs))
	copy(sorted, obs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	points := make([]ClosePrice, 0, len(sorted))
	for _, o := range sorted {
		if !o.Close.Valid {
			continue
		}
		p := ClosePrice{Date: o.Date, Price: o.Close.Decimal}
		if n := len(points); n > 0 && points[n-1].Date.Equal(p.Date) {
			points[n-1] = p
			continue
		}
		points = append(points, p)
	}
	return &PriceSeries{points: points}
}

// Len returns the number of indexed closes.
func (s *PriceSeries) Len() int { return len(s.points) }

// Span returns the first and last indexed dates. ok is false for an empty
// series.
func (s *PriceSeries) Span() (from, to time.Time, ok bool) {
	if len(s.points) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return s.points[0].Date, s.points[len(s.points)-1].Date, true
}

// NearestClose returns the close whose date is nearest to target. Ties break
// toward the earlier date. ok is false when no close lies within maxGap of
// the target, which is how sell targets past the end of the series are
// excluded rather than matched to a stale price.
func (s *PriceSeries) NearestClose(target time.Time, maxGap time.Duration) (ClosePrice, bool) {
	if len(s.points) == 0 {
		return ClosePrice{}, false
	}
	i := sort.Search(len(s.points), func(i int) bool {
		return !s.points[i].Date.Before(target)
	})
	best := -1
	if i < len(s.points) {
		best = i
	}
	if i > 0 {
		// On an exact tie the earlier date wins.
		if best == -1 || target.Sub(s.points[i-1].Date) <= s.points[best].Date.Sub(target) {
			best = i - 1
		}
	}
	gap := s.points[best].Date.Sub(target)
	if gap < 0 {
		gap = -gap
	}
	if gap > maxGap {
		return ClosePrice{}, false
	}
	return s.points[best], true
}

// MonthEndCloses returns, for every calendar month present in the series, the
// last usable close on or before that month's final day. These are the buy
// anchors of the holding-period analysis.
func (s *PriceSeries) MonthEndCloses() []ClosePrice {
	var anchors []ClosePrice
	for _, p := range s.points {
		if n := len(anchors); n > 0 && sameMonth(anchors[n-1].Date, p.Date) {
			anchors[n-1] = p
			continue
		}
		anchors = append(anchors, p)
	}
	return anchors
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
