package model

import (
	"fmt"
	"time"
)

// ReturnKind distinguishes absolute price changes from log returns.
type ReturnKind string

const (
	AbsoluteReturn ReturnKind = "ABSOLUTE"
	LogReturn      ReturnKind = "LOG"
)

// ReturnPoint is the return realized on Date over the series lag.
type ReturnPoint struct {
	Date  time.Time
	Value float64
}

// ReturnSeries is a date-ordered return series. It holds one point per price
// that has a defined return, so it is lag elements shorter than its source.
type ReturnSeries struct {
	Kind   ReturnKind
	Lag    int
	points []ReturnPoint
}

// NewReturnSeries builds a series from aligned dates and values.
func NewReturnSeries(kind ReturnKind, lag int, dates []time.Time, values []float64) (*ReturnSeries, error) {
	if len(dates) != len(values) {
		return nil, fmt.Errorf("return series: %d dates for %d values", len(dates), len(values))
	}
	points := make([]ReturnPoint, len(values))
	for i := range values {
		points[i] = ReturnPoint{Date: dates[i], Value: values[i]}
	}
	return &ReturnSeries{Kind: kind, Lag: lag, points: points}, nil
}

// Len returns the number of returns.
func (r *ReturnSeries) Len() int { return len(r.points) }

// At returns the i-th return.
func (r *ReturnSeries) At(i int) ReturnPoint { return r.points[i] }

// Values returns a copy of the return values in date order.
func (r *ReturnSeries) Values() []float64 {
	values := make([]float64, len(r.points))
	for i, p := range r.points {
		values[i] = p.Value
	}
	return values
}

// Dates returns the return dates in order.
func (r *ReturnSeries) Dates() []time.Time {
	dates := make([]time.Time, len(r.points))
	for i, p := range r.points {
		dates[i] = p.Date
	}
	return dates
}

// Slice returns the sub-series [from, to).
func (r *ReturnSeries) Slice(from, to int) *ReturnSeries {
	cp := make([]ReturnPoint, to-from)
	copy(cp, r.points[from:to])
	return &ReturnSeries{Kind: r.Kind, Lag: r.Lag, points: cp}
}
