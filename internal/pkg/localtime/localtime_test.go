//go:build unit

package localtime_test

import (
	"testing"
	"time"

	"booking-lifecycle/internal/pkg/localtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestResolveLocation(t *testing.T) {
	fallback := mustLoad(t, "Europe/Lisbon")

	t.Run("known zone", func(t *testing.T) {
		assert.Equal(t, "Asia/Tokyo", localtime.ResolveLocation("Asia/Tokyo", fallback).String())
	})
	t.Run("empty name uses fallback", func(t *testing.T) {
		assert.Equal(t, fallback, localtime.ResolveLocation("  ", fallback))
	})
	t.Run("unknown name uses fallback", func(t *testing.T) {
		assert.Equal(t, fallback, localtime.ResolveLocation("Mars/Olympus_Mons", fallback))
	})
	t.Run("nil fallback uses default zone", func(t *testing.T) {
		assert.Equal(t, localtime.DefaultZone, localtime.ResolveLocation("", nil).String())
	})
}

func TestParseDate(t *testing.T) {
	la := mustLoad(t, "America/Los_Angeles")

	d, err := localtime.ParseDate("2025-07-04", la)
	require.NoError(t, err)
	assert.Equal(t, localtime.NewDate(2025, time.July, 4), d)

	d, err = localtime.ParseDate("2025-03-01T02:00:00Z", la)
	require.NoError(t, err)
	assert.Equal(t, localtime.NewDate(2025, time.February, 28), d, "date is read in the property zone")

	_, err = localtime.ParseDate("04/07/2025", la)
	assert.ErrorIs(t, err, localtime.ErrInvalidDate)

	_, err = localtime.ParseDate("", la)
	assert.ErrorIs(t, err, localtime.ErrInvalidDate)
}

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in   string
		want localtime.TimeOfDay
	}{
		{"15:00", localtime.TimeOfDay{Hour: 15}},
		{"09:30:00", localtime.TimeOfDay{Hour: 9, Minute: 30}},
		{"3:00 PM", localtime.TimeOfDay{Hour: 15}},
		{"11:00 am", localtime.TimeOfDay{Hour: 11}},
		{"4 PM", localtime.TimeOfDay{Hour: 16}},
		{"", localtime.DefaultCheckIn},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := localtime.ParseTimeOfDay(tc.in, localtime.DefaultCheckIn)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	got, err := localtime.ParseTimeOfDay("teatime", localtime.DefaultCheckOut)
	assert.ErrorIs(t, err, localtime.ErrInvalidTimeOfDay)
	assert.Equal(t, localtime.DefaultCheckOut, got)
}

func TestCombine(t *testing.T) {
	tokyo := mustLoad(t, "Asia/Tokyo")
	at := localtime.Combine(localtime.NewDate(2025, time.May, 10), localtime.TimeOfDay{Hour: 15}, tokyo)

	assert.Equal(t, time.Date(2025, time.May, 10, 6, 0, 0, 0, time.UTC), at.UTC())
}

func TestNightsBetween(t *testing.T) {
	assert.Equal(t, 10, localtime.NightsBetween(localtime.NewDate(2025, time.March, 1), localtime.NewDate(2025, time.March, 11)))
	// spans the US DST switch on 9 March 2025
	assert.Equal(t, 7, localtime.NightsBetween(localtime.NewDate(2025, time.March, 5), localtime.NewDate(2025, time.March, 12)))
	assert.Equal(t, 28, localtime.NightsBetween(localtime.NewDate(2025, time.January, 31), localtime.NewDate(2025, time.February, 28)))
}

func TestUntil(t *testing.T) {
	from := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	days, hours := localtime.Until(from, from.Add(71*time.Hour+30*time.Minute))
	assert.Equal(t, 2, days)
	assert.InDelta(t, 71.5, hours, 1e-9)

	days, hours = localtime.Until(from, from.Add(-30*time.Hour))
	assert.Equal(t, -1, days)
	assert.InDelta(t, -30, hours, 1e-9)
}
