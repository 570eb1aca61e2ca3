package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func istTime(t *testing.T, year int, month time.Month, day, hour, min int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return time.Date(year, month, day, hour, min, 0, 0, loc)
}

func TestClockOpenAt(t *testing.T) {
	clock, err := NewClock("Asia/Kolkata")
	require.NoError(t, err)

	tests := []struct {
		name string
		at   time.Time
		open bool
	}{
		{"monday mid-session", istTime(t, 2025, time.September, 1, 10, 0), true},
		{"monday before open", istTime(t, 2025, time.September, 1, 8, 0), false},
		{"monday at open", istTime(t, 2025, time.September, 1, 9, 15), true},
		{"monday just before close", istTime(t, 2025, time.September, 1, 15, 29), true},
		{"monday at close", istTime(t, 2025, time.September, 1, 15, 30), false},
		{"monday after close", istTime(t, 2025, time.September, 1, 15, 31), false},
		{"saturday mid-day", istTime(t, 2025, time.September, 6, 12, 0), false},
		{"sunday mid-day", istTime(t, 2025, time.September, 7, 12, 0), false},
		{"friday mid-session", istTime(t, 2025, time.September, 5, 11, 45), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.open, clock.OpenAt(tt.at))
		})
	}
}

func TestClockConvertsToExchangeTime(t *testing.T) {
	clock, err := NewClock("Asia/Kolkata")
	require.NoError(t, err)

	// 04:30 UTC Monday is 10:00 IST, inside the session
	utc := time.Date(2025, time.September, 1, 4, 30, 0, 0, time.UTC)
	assert.True(t, clock.OpenAt(utc))

	// 11:00 UTC Monday is 16:30 IST, after close
	utc = time.Date(2025, time.September, 1, 11, 0, 0, 0, time.UTC)
	assert.False(t, clock.OpenAt(utc))
}

func TestClockRejectsUnknownTimezone(t *testing.T) {
	_, err := NewClock("Not/AZone")
	assert.Error(t, err)
}
