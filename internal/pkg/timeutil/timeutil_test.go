package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundHours(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1.234, 1.23},
		{7.999, 8},
		{2.5, 2.5},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, RoundHours(c.in), 1e-9, "RoundHours(%v)", c.in)
	}
}

func TestHoursBetween(t *testing.T) {
	start := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, 8.5, HoursBetween(start, start.Add(8*time.Hour+30*time.Minute)))
	assert.Equal(t, 0.33, HoursBetween(start, start.Add(20*time.Minute)))
	assert.Equal(t, 0.0, HoursBetween(start, start))
	assert.Equal(t, 0.0, HoursBetween(start, start.Add(-time.Hour)))
}

func TestExtraHours(t *testing.T) {
	assert.Equal(t, 0.0, ExtraHours(7.5, DefaultStandardDayHours))
	assert.Equal(t, 0.0, ExtraHours(8, DefaultStandardDayHours))
	assert.Equal(t, 1.25, ExtraHours(9.25, DefaultStandardDayHours))
}

func TestInclusiveDays(t *testing.T) {
	d := func(s string) time.Time {
		v, err := ParseDate(s)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, 1, InclusiveDays(d("2026-03-02"), d("2026-03-02")))
	assert.Equal(t, 3, InclusiveDays(d("2026-03-02"), d("2026-03-04")))
	assert.Equal(t, 2, InclusiveDays(d("2026-02-28"), d("2026-03-01")))
	assert.Equal(t, 0, InclusiveDays(d("2026-03-04"), d("2026-03-02")))
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "0h 00m", FormatHours(0))
	assert.Equal(t, "7h 30m", FormatHours(7.5))
	assert.Equal(t, "1h 20m", FormatHours(1.33))
	assert.Equal(t, "0h 00m", FormatHours(-2))
}

func TestStartOfDay(t *testing.T) {
	a := time.Date(2026, 10, 19, 0, 5, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), StartOfDay(a))
}

func TestFixedClock(t *testing.T) {
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	c := NewFixedClock(start)
	c.Advance(90 * time.Minute)
	assert.Equal(t, start.Add(90*time.Minute), c.Now())
	c.Set(start)
	assert.Equal(t, start, c.Now())
}
