package options

import (
	"time"

	"github.com/wheelhouse-quant/wheelhouse/internal/contracts"
)

// marketCloseHour is the hour (in the reference timezone) options expire
const marketCloseHour = 16

// defaultMarketTZ is the reference timezone for DTE arithmetic
var defaultMarketTZ = mustLoadLocation("America/New_York")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ExpirationDTE returns calendar days between now and the expiration's
// market close in the reference timezone
func ExpirationDTE(expiration, now time.Time) int {
	close := time.Date(
		expiration.Year(), expiration.Month(), expiration.Day(),
		marketCloseHour, 0, 0, 0, defaultMarketTZ,
	)
	return int(close.Sub(now).Hours() / 24)
}

// SelectExpiration picks the expiration whose DTE is closest to the midpoint
// of [dteMin, dteMax]. Ties break toward the smaller absolute distance, then
// the earlier date. If no expiration lands inside the window, the globally
// nearest-DTE expiration is returned so a thin chain still yields a candidate.
// Returns ErrNoExpirations only when the list itself is empty.
func SelectExpiration(expirations []time.Time, now time.Time, dteMin, dteMax int) (time.Time, error) {
	if len(expirations) == 0 {
		return time.Time{}, contracts.ErrNoExpirations
	}

	midpoint := float64(dteMin+dteMax) / 2

	var best time.Time
	bestDist := -1.0

	for _, exp := range expirations {
		dte := ExpirationDTE(exp, now)
		if dte < dteMin || dte > dteMax {
			continue
		}

		dist := float64(dte) - midpoint
		if dist < 0 {
			dist = -dist
		}

		if bestDist < 0 || dist < bestDist || (dist == bestDist && exp.Before(best)) {
			best = exp
			bestDist = dist
		}
	}

	if bestDist >= 0 {
		return best, nil
	}

	// Fallback: nearest DTE overall
	for _, exp := range expirations {
		dte := ExpirationDTE(exp, now)
		dist := float64(dte) - midpoint
		if dist < 0 {
			dist = -dist
		}

		if bestDist < 0 || dist < bestDist || (dist == bestDist && exp.Before(best)) {
			best = exp
			bestDist = dist
		}
	}

	return best, nil
}
