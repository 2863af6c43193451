package returns

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RiskSentinel/internal/model"
	"RiskSentinel/internal/testutil"
)

func TestAbsolute_Lag1(t *testing.T) {
	s := testutil.Series(t, "AAA", 100, 102, 99, 101, 98)
	r, err := Absolute(s, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, -3, 2, -3}, r.Values())
	assert.Equal(t, model.AbsoluteReturn, r.Kind)
	// first return is dated on the second price
	assert.Equal(t, s.At(1).Date, r.At(0).Date)
}

func TestAbsolute_Lag2(t *testing.T) {
	s := testutil.Series(t, "AAA", 100, 102, 99, 101, 98)
	r, err := Absolute(s, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, -1, -1}, r.Values())
	assert.Equal(t, 2, r.Lag)
}

func TestAbsolute_Errors(t *testing.T) {
	s := testutil.Series(t, "AAA", 100, 101)

	_, err := Absolute(s, 2)
	assert.ErrorIs(t, err, model.ErrInsufficientData)

	_, err = Absolute(s, 0)
	assert.ErrorIs(t, err, model.ErrInvalidLag)

	_, err = Absolute(nil, 1)
	assert.ErrorIs(t, err, model.ErrInsufficientData)
}

func TestLog(t *testing.T) {
	s := testutil.Series(t, "AAA", 100, 110, 99)
	r, err := Log(s, 1)
	require.NoError(t, err)
	require.Equal(t, 2, r.Len())
	assert.InDelta(t, math.Log(1.1), r.At(0).Value, 1e-12)
	assert.InDelta(t, math.Log(0.9), r.At(1).Value, 1e-12)
	assert.Equal(t, model.LogReturn, r.Kind)
}

func TestLog_MatchesRelativeChangeForm(t *testing.T) {
	s := testutil.Walk(t, "AAA", 50, 30)
	abs, err := Absolute(s, 1)
	require.NoError(t, err)
	lr, err := Log(s, 1)
	require.NoError(t, err)

	prices := s.Prices()
	for i := 0; i < abs.Len(); i++ {
		want := math.Log(1 + abs.At(i).Value/prices[i])
		assert.InDelta(t, want, lr.At(i).Value, 1e-12)
	}
}

func TestReconstruct_RoundTrip(t *testing.T) {
	s := testutil.Walk(t, "AAA", 40, 60)
	lr, err := Log(s, 1)
	require.NoError(t, err)

	got, err := Reconstruct(s.First().AdjClose, lr.Values())
	require.NoError(t, err)
	require.Len(t, got, s.Len())
	assert.InDeltaSlice(t, s.Prices(), got, 1e-9)
}

func TestReconstruct_RejectsNonPositiveSeed(t *testing.T) {
	_, err := Reconstruct(0, []float64{0.1})
	assert.ErrorIs(t, err, model.ErrNonPositivePrice)
}

func TestResample_NonOverlapping(t *testing.T) {
	s := testutil.Series(t, "X", 100, 102, 99, 101, 98, 104, 103)
	r, err := Resample(s, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, r.Values())
	assert.Equal(t, 3, r.Lag)
	assert.Equal(t, testutil.Start.AddDate(0, 0, 3), r.At(0).Date)
	assert.Equal(t, testutil.Start.AddDate(0, 0, 6), r.At(1).Date)

	_, err = Resample(s, 7)
	assert.ErrorIs(t, err, model.ErrInsufficientData)
}
