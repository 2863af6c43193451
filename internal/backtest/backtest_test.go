package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"RiskSentinel/internal/model"
	"RiskSentinel/internal/testutil"
)

func TestRolling_NoLookahead(t *testing.T) {
	s := testutil.Series(t, "AAA", 100, 101, 102, 103, 104, 90)
	days, err := Rolling(s, 3, 0.9)
	require.NoError(t, err)
	require.Len(t, days, 2)

	assert.Equal(t, s.At(4).Date, days[0].Date)
	assert.False(t, days[0].Exception)

	// the -14 crash must not leak into its own VaR estimate
	assert.Equal(t, s.At(5).Date, days[1].Date)
	assert.Equal(t, -14.0, days[1].Return)
	assert.Equal(t, 1.0, days[1].VaR)
	assert.True(t, days[1].Exception)
}

func TestCountExceptions(t *testing.T) {
	s := testutil.Series(t, "AAA", 100, 101, 102, 103, 104, 90)
	out, err := CountExceptions(s, 3, 0.9)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Observations)
	assert.Equal(t, 1, out.Exceptions)
	assert.Equal(t, 3, out.LookbackDays)
	assert.Equal(t, s.At(4).Date, out.WindowStart)
	assert.Equal(t, s.At(5).Date, out.WindowEnd)
	assert.InDelta(t, 0.5, out.ExceptionRate(), 1e-12)
}

func TestRolling_Errors(t *testing.T) {
	s := testutil.Series(t, "AAA", 100, 101, 102, 103)

	_, err := Rolling(s, 3, 0.95)
	assert.ErrorIs(t, err, model.ErrInsufficientData)

	_, err = Rolling(s, 0, 0.95)
	assert.ErrorIs(t, err, model.ErrInvalidLag)

	_, err = Rolling(s, 1, 1)
	assert.ErrorIs(t, err, model.ErrInvalidConfidence)

	_, err = Rolling(testutil.Series(t, "AAA", 100), 1, 0.95)
	assert.ErrorIs(t, err, model.ErrInsufficientData)
}

func TestRolling_WorkersDoNotChangeResult(t *testing.T) {
	s := testutil.Walk(t, "AAA", 100, 300)
	serial, err := Rolling(s, 50, 0.95)
	require.NoError(t, err)
	for _, w := range []int{2, 3, 8, 1000} {
		parallel, err := Rolling(s, 50, 0.95, WithWorkers(w))
		require.NoError(t, err)
		assert.Equal(t, serial, parallel, "workers %d", w)
	}
}

func TestCountExceptions_MonotonicInWindow(t *testing.T) {
	s := testutil.Walk(t, "AAA", 100, 120)
	prev := -1
	for end := 25; end <= s.Len(); end++ {
		sub, err := s.Slice(0, end)
		require.NoError(t, err)
		out, err := CountExceptions(sub, 20, 0.9)
		require.NoError(t, err)
		require.LessOrEqual(t, out.Exceptions, out.Observations)
		if prev >= 0 {
			diff := out.Exceptions - prev
			assert.True(t, diff == 0 || diff == 1, "window end %d added %d exceptions", end, diff)
		}
		prev = out.Exceptions
	}
}

func TestBinomialTest_FewerThanExpected(t *testing.T) {
	res, err := BinomialTest(model.BacktestOutcome{Observations: 250, Exceptions: 10, Confidence: 0.95})
	require.NoError(t, err)
	assert.InDelta(t, 0.05, res.PException, 1e-12)
	assert.InDelta(t, 12.5, res.Expected, 1e-9)
	assert.Less(t, res.PValue, 0.5)
	assert.Greater(t, res.PValue, 0.0)
	assert.Equal(t, model.ZoneGreen, res.Zone)
}

func TestBinomialTest_PValueNonDecreasing(t *testing.T) {
	prev := -1.0
	for k := 0; k <= 40; k++ {
		res, err := BinomialTest(model.BacktestOutcome{Observations: 250, Exceptions: k, Confidence: 0.95})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.PValue, prev, "k=%d", k)
		prev = res.PValue
	}
	assert.InDelta(t, 1.0, prev, 1e-6)
}

func TestBinomialTest_TrafficLight(t *testing.T) {
	tests := []struct {
		exceptions int
		zone       model.Zone
	}{
		{0, model.ZoneGreen},
		{4, model.ZoneGreen},
		{5, model.ZoneYellow},
		{9, model.ZoneYellow},
		{10, model.ZoneRed},
		{15, model.ZoneRed},
	}
	for _, tt := range tests {
		res, err := BinomialTest(model.BacktestOutcome{Observations: 250, Exceptions: tt.exceptions, Confidence: 0.99})
		require.NoError(t, err)
		assert.Equal(t, tt.zone, res.Zone, "%d exceptions", tt.exceptions)
	}
}

func TestBinomialTest_Errors(t *testing.T) {
	_, err := BinomialTest(model.BacktestOutcome{Observations: 0, Confidence: 0.95})
	assert.ErrorIs(t, err, model.ErrInsufficientData)

	_, err = BinomialTest(model.BacktestOutcome{Observations: 10, Exceptions: 11, Confidence: 0.95})
	assert.Error(t, err)

	_, err = BinomialTest(model.BacktestOutcome{Observations: 10, Confidence: 0})
	assert.ErrorIs(t, err, model.ErrInvalidConfidence)
}

func TestInterpret(t *testing.T) {
	low, err := BinomialTest(model.BacktestOutcome{Observations: 250, Exceptions: 3, Confidence: 0.95})
	require.NoError(t, err)
	assert.Equal(t, VerdictTooConservative, Interpret(low, 0.05))

	mid, err := BinomialTest(model.BacktestOutcome{Observations: 250, Exceptions: 12, Confidence: 0.95})
	require.NoError(t, err)
	assert.Equal(t, VerdictConsistent, Interpret(mid, 0.05))

	high, err := BinomialTest(model.BacktestOutcome{Observations: 250, Exceptions: 25, Confidence: 0.95})
	require.NoError(t, err)
	assert.Equal(t, VerdictTooAggressive, Interpret(high, 0))
	assert.NotEmpty(t, VerdictTooAggressive.Description())
}

func TestExceptionDistribution(t *testing.T) {
	bars, err := ExceptionDistribution(250, 0.05)
	require.NoError(t, err)
	require.NotEmpty(t, bars)

	dist := distuv.Binomial{N: 250, P: 0.05}
	first, last := bars[0], bars[len(bars)-1]
	assert.Less(t, first.K, 12)
	assert.Greater(t, last.K, 13)
	assert.GreaterOrEqual(t, first.CDF, 0.01)
	if first.K > 0 {
		assert.Less(t, dist.CDF(float64(first.K-1)), 0.01)
	}
	assert.Less(t, last.CDF, 0.99, "the 99% quantile itself is excluded")
	assert.GreaterOrEqual(t, dist.CDF(float64(last.K+1)), 0.99)
	for i := 1; i < len(bars); i++ {
		assert.Equal(t, bars[i-1].K+1, bars[i].K)
		assert.GreaterOrEqual(t, bars[i].CDF, bars[i-1].CDF)
	}

	_, err = ExceptionDistribution(0, 0.05)
	assert.ErrorIs(t, err, model.ErrInsufficientData)
	_, err = ExceptionDistribution(10, 1)
	assert.Error(t, err)
}

func TestExceptionDistribution_KeepsOneBar(t *testing.T) {
	bars, err := ExceptionDistribution(1, 0.0001)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 0, bars[0].K)
}
