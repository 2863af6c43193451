package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RiskSentinel/internal/model"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs(append(args, "--config", "", "--provider", "mock", "--log-level", "error"))
	require.NoError(t, RootCmd.Execute())
	return out.String()
}

func TestCommands_WithMockData(t *testing.T) {
	out := run(t, "es", "-s", "SPY", "--start", "01/01/2024", "--end", "31/03/2024", "--bins", "5")
	assert.Contains(t, out, "VaR")
	assert.Contains(t, out, "ES")
	assert.Contains(t, out, "tail days")

	out = run(t, "backtest", "-s", "SPY", "--start", "01/03/2024", "--end", "31/03/2024",
		"--lookback", "20", "--distribution")
	assert.Contains(t, out, "01/03/2024 - 29/03/2024")
	assert.Contains(t, strings.ToLower(out), "p(x=k)")

	out = run(t, "calibrate", "-s", "SPY", "--start", "01/01/2024", "--end", "31/03/2024")
	assert.Contains(t, out, "Model calibrated using data for 01/01/2024 to 29/03/2024")

	out = run(t, "simulate", "-s", "SPY", "--cal-start", "01/01/2024", "--cal-end", "31/03/2024",
		"--start", "01/04/2024", "--end", "11/04/2024", "--paths", "4", "--show", "2")
	assert.Contains(t, out, "Model simulated between dates 01/04/2024 to 10/04/2024 (4 paths)")
	assert.Contains(t, out, "final price over 4 paths")
}

func TestDateRange_Rejects(t *testing.T) {
	RootCmd.SetArgs([]string{"var", "-s", "SPY", "--start", "2024/13/45", "--config", "", "--provider", "mock"})
	RootCmd.SetOut(&bytes.Buffer{})
	RootCmd.SetErr(&bytes.Buffer{})
	assert.Error(t, RootCmd.Execute())
}

func TestRiskFlags_ExplicitZeroIsNotDefault(t *testing.T) {
	RootCmd.SetArgs([]string{"var", "-s", "SPY", "--start", "01/01/2024", "--end", "31/03/2024",
		"--confidence", "0", "--config", "", "--provider", "mock", "--log-level", "error"})
	RootCmd.SetOut(&bytes.Buffer{})
	RootCmd.SetErr(&bytes.Buffer{})
	assert.ErrorIs(t, RootCmd.Execute(), model.ErrInvalidConfidence)
}
