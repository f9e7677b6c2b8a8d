package options

import (
	"github.com/wheelhouse-quant/wheelhouse/internal/contracts"
)

// Pure contract arithmetic. Every function returns the documented neutral
// value on degenerate input instead of erroring; the pipeline never aborts
// over a single bad contract.

// MidPrice returns (bid+ask)/2 when both sides are live, then falls back to
// last, ask, bid, and finally 0 when the contract has no usable price.
func MidPrice(c *contracts.OptionContract) float64 {
	if c.Bid > 0 && c.Ask > 0 {
		return (c.Bid + c.Ask) / 2
	}
	if c.Last > 0 {
		return c.Last
	}
	if c.Ask > 0 {
		return c.Ask
	}
	if c.Bid > 0 {
		return c.Bid
	}
	return 0
}

// SpreadSentinel marks a degenerate bid/ask spread so the contract fails
// the spread gate
const SpreadSentinel = 999.0

// SpreadPct returns the bid/ask spread as a percent of the mid price.
// Degenerate books (bid >= ask, or either side non-positive) return the
// sentinel.
func SpreadPct(bid, ask float64) float64 {
	if bid <= 0 || ask <= 0 || bid >= ask {
		return SpreadSentinel
	}
	mid := (bid + ask) / 2
	return (ask - bid) / mid * 100
}

// AnnualizedYieldPct returns the premium yield on collateral, annualized.
// premium/(strike*100) over dte/365 days, as a percent.
func AnnualizedYieldPct(premium, strike float64, dte int) float64 {
	if dte <= 0 || strike <= 0 || premium <= 0 {
		return 0
	}
	return (premium * 100 / (strike * 100)) / (float64(dte) / 365) * 100
}

// TotalCredit returns the cash received for selling quantity contracts
func TotalCredit(premium float64, quantity int) float64 {
	if quantity <= 0 {
		quantity = 1
	}
	return premium * 100 * float64(quantity)
}

// Collateral returns the cash securing quantity short puts
func Collateral(strike float64, quantity int) float64 {
	if quantity <= 0 {
		quantity = 1
	}
	return strike * 100 * float64(quantity)
}

// AnnualizedROIPct returns credit over collateral, annualized, as a percent
func AnnualizedROIPct(totalCredit, collateral float64, dte int) float64 {
	if collateral <= 0 || dte <= 0 {
		return 0
	}
	return (totalCredit / collateral) / (float64(dte) / 365) * 100
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
