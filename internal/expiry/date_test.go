package expiry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysUntilSameDay(t *testing.T) {
	for _, d := range []time.Time{day(2024, 1, 10), day(2024, 2, 29), day(1999, 12, 31)} {
		assert.Equal(t, 0, DaysUntil(d, d))
	}
}

func TestDaysUntilAntisymmetric(t *testing.T) {
	ref := day(2024, 1, 10)
	for offset := -400; offset <= 400; offset += 7 {
		other := ref.AddDate(0, 0, offset)
		assert.Equal(t, offset, DaysUntil(other, ref))
		assert.Equal(t, -DaysUntil(other, ref), DaysUntil(ref, other))
	}
}

func TestDaysUntilIgnoresTimeOfDay(t *testing.T) {
	ref := time.Date(2024, 1, 10, 23, 59, 0, 0, time.UTC)
	date := time.Date(2024, 1, 11, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysUntil(date, ref))
}

func TestDaysUntilAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Ljubljana")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}

	// Clocks go forward on 2024-03-31; that day is only 23 hours long.
	ref := time.Date(2024, 3, 30, 0, 0, 0, 0, loc)
	date := time.Date(2024, 4, 2, 0, 0, 0, 0, loc)
	assert.Equal(t, 3, DaysUntil(date, ref))

	// Clocks go back on 2024-10-27; that day is 25 hours long.
	ref = time.Date(2024, 10, 26, 0, 0, 0, 0, loc)
	date = time.Date(2024, 10, 28, 0, 0, 0, 0, loc)
	assert.Equal(t, 2, DaysUntil(date, ref))
}

func TestNormalize(t *testing.T) {
	in := time.Date(2024, 1, 10, 15, 4, 5, 6, time.UTC)
	assert.Equal(t, day(2024, 1, 10), Normalize(in))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-10", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, day(2024, 1, 10), d)
	assert.Equal(t, "2024-01-10", FormatDate(d))

	for _, bad := range []string{"", "10.01.2024", "2024-13-01", "2024-02-30", "tomorrow"} {
		_, err := ParseDate(bad, time.UTC)
		assert.Error(t, err, "input %q", bad)
	}
}
