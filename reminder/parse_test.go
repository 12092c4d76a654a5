package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRelative(t *testing.T) {
	now := time.Date(2024, 1, 1, 20, 0, 0, 0, time.Local)

	tests := []struct {
		input   string
		wantDur time.Duration
		wantMsg string
	}{
		{"30m Call mom", 30 * time.Minute, "Call mom"},
		{"5min stretch", 5 * time.Minute, "stretch"},
		{"2h Team meeting", 2 * time.Hour, "Team meeting"},
		{"1hour stand up", time.Hour, "stand up"},
		{"3d water plants", 72 * time.Hour, "water plants"},
		{"1day renew pass", 24 * time.Hour, "renew pass"},
		{"10M SHOUTY UNITS", 10 * time.Minute, "SHOUTY UNITS"},
		{"  15m   padded   ", 15 * time.Minute, "padded"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			spec, msg, err := Parse(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.wantMsg, msg)
			assert.Equal(t, now.Add(tc.wantDur), spec.When(now))
		})
	}
}

func TestParseTomorrow(t *testing.T) {
	now := time.Date(2024, 1, 1, 20, 0, 0, 30, time.Local)

	tests := []struct {
		input    string
		wantHour int
		wantMsg  string
	}{
		{"tomorrow 9am Submit report", 9, "Submit report"},
		{"tomorrow 12am midnight run", 0, "midnight run"},
		{"tomorrow 12pm lunch", 12, "lunch"},
		{"tomorrow 5pm wrap up", 17, "wrap up"},
		{"TOMORROW 9AM shouting", 9, "shouting"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			spec, msg, err := Parse(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.wantMsg, msg)

			at := spec.When(now)
			assert.Equal(t, time.Date(2024, 1, 2, tc.wantHour, 0, 0, 0, time.Local), at)
		})
	}
}

// The tomorrow branch always resolves to the next calendar day, even when the
// given hour hasn't passed yet today.
func TestParseTomorrowAlwaysNextDay(t *testing.T) {
	now := time.Date(2024, 1, 1, 6, 0, 0, 0, time.Local)

	spec, _, err := Parse("tomorrow 9am early enough today")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 9, 0, 0, 0, time.Local), spec.When(now))
}

func TestParseInvalid(t *testing.T) {
	tests := []string{
		"",
		"soon call mom",
		"5x msg",
		"30m",
		"30m    ",
		"tomorrow 9am",
		"tomorrow 13pm too late",
		"tomorrow 0am no such hour",
		"0m right now",
		"m30 swapped",
		"tomorrow 9 am spaced meridiem",
		"99999999999999999999m overflow",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			spec, msg, err := Parse(input)
			assert.ErrorIs(t, err, ErrBadTimeSpec)
			assert.Nil(t, spec)
			assert.Empty(t, msg)
		})
	}
}

func TestSpecPhrasing(t *testing.T) {
	spec, _, err := Parse("30m Call mom")
	require.NoError(t, err)
	assert.Equal(t, "30m from now", spec.String())

	spec, _, err = Parse("tomorrow 9am Submit report")
	require.NoError(t, err)
	assert.Equal(t, "tomorrow at 9am", spec.String())
}
