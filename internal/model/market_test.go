package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func pts(start time.Time, prices ...float64) []PricePoint {
	out := make([]PricePoint, len(prices))
	for i, p := range prices {
		out[i] = PricePoint{Date: start.AddDate(0, 0, i), AdjClose: p}
	}
	return out
}

func TestNewPriceSeries_Validation(t *testing.T) {
	start := day(2024, 1, 2)
	tests := []struct {
		name   string
		points []PricePoint
		want   error
	}{
		{"empty", nil, ErrInsufficientData},
		{"zero price", pts(start, 100, 0, 101), ErrNonPositivePrice},
		{"negative price", pts(start, -1), ErrNonPositivePrice},
		{"duplicate date", []PricePoint{
			{Date: start, AdjClose: 100},
			{Date: start, AdjClose: 101},
		}, ErrUnorderedSeries},
		{"same day, different time", []PricePoint{
			{Date: start.Add(9 * time.Hour), AdjClose: 100},
			{Date: start.Add(16 * time.Hour), AdjClose: 101},
		}, ErrUnorderedSeries},
		{"decreasing dates", []PricePoint{
			{Date: start.AddDate(0, 0, 1), AdjClose: 100},
			{Date: start, AdjClose: 101},
		}, ErrUnorderedSeries},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewPriceSeries("X", tt.points)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, s)
		})
	}
}

func TestNewPriceSeries_NormalizesAndCopies(t *testing.T) {
	ny := time.FixedZone("EST", -5*3600)
	in := []PricePoint{
		{Date: time.Date(2024, 1, 2, 16, 0, 0, 0, ny), AdjClose: 100},
		{Date: time.Date(2024, 1, 3, 9, 30, 0, 0, time.UTC), AdjClose: 101},
	}
	s, err := NewPriceSeries("X", in)
	require.NoError(t, err)

	assert.Equal(t, "X", s.Symbol())
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, day(2024, 1, 2), s.Start())
	assert.Equal(t, day(2024, 1, 3), s.End())
	assert.Equal(t, []float64{100, 101}, s.Prices())

	in[0].AdjClose = 1
	p := s.Points()
	p[1].AdjClose = 2
	assert.Equal(t, 100.0, s.First().AdjClose)
	assert.Equal(t, 101.0, s.Last().AdjClose)
}

func TestPriceSeries_IndexOnOrAfter(t *testing.T) {
	s, err := NewPriceSeries("X", []PricePoint{
		{Date: day(2024, 1, 2), AdjClose: 1},
		{Date: day(2024, 1, 4), AdjClose: 2},
		{Date: day(2024, 1, 8), AdjClose: 3},
	})
	require.NoError(t, err)

	tests := []struct {
		d    time.Time
		want int
	}{
		{day(2023, 12, 31), 0},
		{day(2024, 1, 2), 0},
		{day(2024, 1, 2).Add(23 * time.Hour), 0},
		{day(2024, 1, 3), 1},
		{day(2024, 1, 8), 2},
		{day(2024, 1, 9), 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.IndexOnOrAfter(tt.d), FormatDate(tt.d))
	}
}

func TestPriceSeries_Between(t *testing.T) {
	s, err := NewPriceSeries("X", pts(day(2024, 1, 1), 1, 2, 3, 4, 5))
	require.NoError(t, err)

	sub, err := s.Between(day(2024, 1, 2), day(2024, 1, 4))
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 4}, sub.Prices(), "both ends are inclusive")

	sub, err = s.Between(day(2023, 12, 1), day(2024, 1, 1).Add(12*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, sub.Prices())

	_, err = s.Between(day(2024, 2, 1), day(2024, 2, 5))
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestPriceSeries_Slice(t *testing.T) {
	s, err := NewPriceSeries("X", pts(day(2024, 1, 1), 1, 2, 3))
	require.NoError(t, err)

	sub, err := s.Slice(1, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3}, sub.Prices())

	for _, r := range [][2]int{{-1, 2}, {0, 4}, {2, 2}} {
		_, err := s.Slice(r[0], r[1])
		assert.ErrorIs(t, err, ErrInsufficientData)
	}
}
