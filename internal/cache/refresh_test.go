package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helsinki returns an instant in the cutover zone.
func helsinki(t *testing.T, year int, month time.Month, day, hour, minute int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Helsinki")
	require.NoError(t, err)
	return time.Date(year, month, day, hour, minute, 0, 0, loc)
}

func TestIsRefreshDue(t *testing.T) {
	tests := []struct {
		name      string
		lastFetch *time.Time
		now       time.Time
		want      bool
	}{
		{
			name:      "no previous fetch",
			lastFetch: nil,
			now:       helsinki(t, 2026, time.March, 10, 9, 0),
			want:      true,
		},
		{
			name:      "same day, both before cutover",
			lastFetch: timePtr(helsinki(t, 2026, time.March, 10, 9, 0)),
			now:       helsinki(t, 2026, time.March, 10, 12, 0),
			want:      false,
		},
		{
			name:      "same day, crossed cutover",
			lastFetch: timePtr(helsinki(t, 2026, time.March, 10, 9, 0)),
			now:       helsinki(t, 2026, time.March, 10, 14, 30),
			want:      true,
		},
		{
			name:      "same day, both after cutover",
			lastFetch: timePtr(helsinki(t, 2026, time.March, 10, 14, 31)),
			now:       helsinki(t, 2026, time.March, 10, 23, 59),
			want:      false,
		},
		{
			name:      "one minute before cutover",
			lastFetch: timePtr(helsinki(t, 2026, time.March, 10, 9, 0)),
			now:       helsinki(t, 2026, time.March, 10, 14, 29),
			want:      false,
		},
		{
			name:      "fetch at exactly the cutover instant latches",
			lastFetch: timePtr(helsinki(t, 2026, time.March, 10, 14, 30)),
			now:       helsinki(t, 2026, time.March, 10, 18, 0),
			want:      false,
		},
		{
			name:      "calendar rollover, next morning before cutover",
			lastFetch: timePtr(helsinki(t, 2026, time.March, 10, 15, 0)),
			now:       helsinki(t, 2026, time.March, 11, 8, 0),
			want:      true,
		},
		{
			name:      "calendar rollover just after midnight",
			lastFetch: timePtr(helsinki(t, 2026, time.March, 10, 23, 59)),
			now:       helsinki(t, 2026, time.March, 11, 0, 1),
			want:      true,
		},
		{
			name:      "multi-day gap",
			lastFetch: timePtr(helsinki(t, 2026, time.March, 1, 15, 0)),
			now:       helsinki(t, 2026, time.March, 10, 8, 0),
			want:      true,
		},
		{
			name:      "clock stepped backwards across midnight",
			lastFetch: timePtr(helsinki(t, 2026, time.March, 11, 0, 30)),
			now:       helsinki(t, 2026, time.March, 10, 23, 0),
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsRefreshDue(tt.lastFetch, tt.now, DefaultCutoverHour, DefaultCutoverMinute, DefaultCutoverZone)
			assert.Equal(t, tt.want, got)
		})
	}
}

// The decision is anchored to the cutover zone regardless of which zone the
// inputs arrive in.
func TestIsRefreshDue_UTCInputs(t *testing.T) {
	// 14:30 Helsinki in March (EET, UTC+2) is 12:30 UTC.
	lastFetch := time.Date(2026, time.March, 10, 7, 0, 0, 0, time.UTC)
	beforeCutover := time.Date(2026, time.March, 10, 12, 29, 0, 0, time.UTC)
	atCutover := time.Date(2026, time.March, 10, 12, 30, 0, 0, time.UTC)

	assert.False(t, IsRefreshDue(&lastFetch, beforeCutover, DefaultCutoverHour, DefaultCutoverMinute, DefaultCutoverZone))
	assert.True(t, IsRefreshDue(&lastFetch, atCutover, DefaultCutoverHour, DefaultCutoverMinute, DefaultCutoverZone))
}

// Once a post-cutover fetch succeeds, repeated evaluations stay quiet until
// the next calendar day.
func TestIsRefreshDue_LatchesAfterFetch(t *testing.T) {
	fetched := helsinki(t, 2026, time.March, 10, 14, 35)
	for _, hour := range []int{15, 18, 21, 23} {
		now := helsinki(t, 2026, time.March, 10, hour, 0)
		assert.False(t, IsRefreshDue(&fetched, now, DefaultCutoverHour, DefaultCutoverMinute, DefaultCutoverZone), "hour %d", hour)
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
