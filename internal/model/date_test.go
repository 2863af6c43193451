package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"03/02/2024", day(2024, time.February, 3)},
		{"31/12/2023", day(2023, time.December, 31)},
		{" 01/01/2024 ", day(2024, time.January, 1)},
		{"2024-02-03", day(2024, time.February, 3)},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "12/31/2023", "2024/13/45", "32/01/2024", "tomorrow"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestFormatDate_RoundTrips(t *testing.T) {
	d := day(2024, time.February, 3)
	assert.Equal(t, "03/02/2024", FormatDate(d))
	back, err := ParseDate(FormatDate(d))
	require.NoError(t, err)
	assert.Equal(t, d, back)
}

func TestDay(t *testing.T) {
	tz := time.FixedZone("UTC+9", 9*3600)
	assert.Equal(t, day(2024, time.March, 1), Day(time.Date(2024, time.March, 1, 23, 59, 0, 0, tz)))
	assert.Equal(t, day(2024, time.March, 1), Day(day(2024, time.March, 1)))
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		start, end time.Time
		want       int
	}{
		{day(2024, 3, 1), day(2024, 3, 1), 0},
		{day(2024, 3, 1), day(2024, 3, 11), 10},
		{day(2024, 2, 28), day(2024, 3, 1), 2},
		{day(2024, 3, 1).Add(22 * time.Hour), day(2024, 3, 2).Add(time.Hour), 1},
		{day(2024, 3, 11), day(2024, 3, 1), -10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DaysBetween(tt.start, tt.end), "%s to %s", FormatDate(tt.start), FormatDate(tt.end))
	}
}
