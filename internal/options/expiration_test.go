package options

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheelhouse-quant/wheelhouse/internal/contracts"
)

// testNow is 16:00 America/New_York (21:00 UTC, EST), so an expiration
// d days ahead has DTE exactly d
var testNow = time.Date(2026, 1, 5, 21, 0, 0, 0, time.UTC)

func expIn(days int) time.Time {
	d := testNow.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func TestExpirationDTE(t *testing.T) {
	assert.Equal(t, 30, ExpirationDTE(expIn(30), testNow))
	assert.Equal(t, 0, ExpirationDTE(expIn(0), testNow))

	// Half a day before close still counts as the same calendar day
	earlier := testNow.Add(-12 * time.Hour)
	assert.Equal(t, 0, ExpirationDTE(expIn(0), earlier))
}

func TestSelectExpiration(t *testing.T) {
	tests := []struct {
		name     string
		days     []int
		dteMin   int
		dteMax   int
		wantDays int
	}{
		{
			name:     "picks closest to midpoint",
			days:     []int{10, 24, 30, 40},
			dteMin:   21,
			dteMax:   35,
			wantDays: 30, // midpoint 28: 24 is 4 away, 30 is 2 away
		},
		{
			name:     "tie breaks to earlier date",
			days:     []int{26, 30},
			dteMin:   21,
			dteMax:   35,
			wantDays: 26, // both 2 away from midpoint 28
		},
		{
			name:     "exact midpoint wins",
			days:     []int{21, 28, 35},
			dteMin:   21,
			dteMax:   35,
			wantDays: 28,
		},
		{
			name:     "fallback to nearest when nothing in window",
			days:     []int{10, 50},
			dteMin:   21,
			dteMax:   35,
			wantDays: 10, // 18 away from midpoint vs 22
		},
		{
			name:     "single expiration outside window still selected",
			days:     []int{60},
			dteMin:   21,
			dteMax:   35,
			wantDays: 60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expirations := make([]time.Time, 0, len(tt.days))
			for _, d := range tt.days {
				expirations = append(expirations, expIn(d))
			}

			got, err := SelectExpiration(expirations, testNow, tt.dteMin, tt.dteMax)
			require.NoError(t, err)
			assert.Equal(t, expIn(tt.wantDays), got)
		})
	}
}

func TestSelectExpiration_Empty(t *testing.T) {
	_, err := SelectExpiration(nil, testNow, 21, 35)
	assert.ErrorIs(t, err, contracts.ErrNoExpirations)
}
