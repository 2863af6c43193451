package model

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// PricePoint is one adjusted daily close.
type PricePoint struct {
	Date     time.Time
	AdjClose float64
}

// PriceSeries is an immutable, date-ordered series of adjusted closes for one
// instrument. A *PriceSeries that exists is always valid: non-empty, strictly
// increasing dates and positive prices.
type PriceSeries struct {
	symbol string
	points []PricePoint
}

// NewPriceSeries validates points and returns a series owning a copy of them.
// Dates are normalized to UTC calendar days.
func NewPriceSeries(symbol string, points []PricePoint) (*PriceSeries, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("price series %s: %w: no prices", symbol, ErrInsufficientData)
	}
	cp := make([]PricePoint, len(points))
	for i, p := range points {
		if math.IsNaN(p.AdjClose) || math.IsInf(p.AdjClose, 0) || p.AdjClose <= 0 {
			return nil, fmt.Errorf("price series %s: %w: %v on %s", symbol, ErrNonPositivePrice, p.AdjClose, FormatDate(p.Date))
		}
		cp[i] = PricePoint{Date: Day(p.Date), AdjClose: p.AdjClose}
		if i > 0 && !cp[i].Date.After(cp[i-1].Date) {
			return nil, fmt.Errorf("price series %s: %w: %s follows %s", symbol, ErrUnorderedSeries,
				FormatDate(cp[i].Date), FormatDate(cp[i-1].Date))
		}
	}
	return &PriceSeries{symbol: symbol, points: cp}, nil
}

// Symbol returns the instrument the series belongs to.
func (s *PriceSeries) Symbol() string { return s.symbol }

// Len returns the number of prices.
func (s *PriceSeries) Len() int { return len(s.points) }

// At returns the i-th point.
func (s *PriceSeries) At(i int) PricePoint { return s.points[i] }

// First returns the oldest point.
func (s *PriceSeries) First() PricePoint { return s.points[0] }

// Last returns the most recent point.
func (s *PriceSeries) Last() PricePoint { return s.points[len(s.points)-1] }

// Start is the date of the first price.
func (s *PriceSeries) Start() time.Time { return s.First().Date }

// End is the date of the last price.
func (s *PriceSeries) End() time.Time { return s.Last().Date }

// Points returns a copy of the underlying points.
func (s *PriceSeries) Points() []PricePoint {
	cp := make([]PricePoint, len(s.points))
	copy(cp, s.points)
	return cp
}

// Prices returns a copy of the adjusted closes in date order.
func (s *PriceSeries) Prices() []float64 {
	prices := make([]float64, len(s.points))
	for i, p := range s.points {
		prices[i] = p.AdjClose
	}
	return prices
}

// Dates returns the dates in order.
func (s *PriceSeries) Dates() []time.Time {
	dates := make([]time.Time, len(s.points))
	for i, p := range s.points {
		dates[i] = p.Date
	}
	return dates
}

// IndexOnOrAfter returns the index of the first point dated on or after d,
// or Len() when every point is earlier.
func (s *PriceSeries) IndexOnOrAfter(d time.Time) int {
	d = Day(d)
	return sort.Search(len(s.points), func(i int) bool {
		return !s.points[i].Date.Before(d)
	})
}

// Slice returns the sub-series [from, to).
func (s *PriceSeries) Slice(from, to int) (*PriceSeries, error) {
	if from < 0 || to > len(s.points) || from >= to {
		return nil, fmt.Errorf("price series %s: %w: slice [%d, %d) of %d points",
			s.symbol, ErrInsufficientData, from, to, len(s.points))
	}
	return NewPriceSeries(s.symbol, s.points[from:to])
}

// Between returns the points dated within [start, end], both inclusive.
func (s *PriceSeries) Between(start, end time.Time) (*PriceSeries, error) {
	from := s.IndexOnOrAfter(start)
	to := s.IndexOnOrAfter(Day(end).AddDate(0, 0, 1))
	return s.Slice(from, to)
}
