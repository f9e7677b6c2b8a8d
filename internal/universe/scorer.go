package universe

import (
	"math"

	"github.com/wheelhouse-quant/wheelhouse/internal/contracts"
	"github.com/wheelhouse-quant/wheelhouse/internal/strategyconfig"
)

// Scorer computes the normalized [0,1] composite universe score for a ticker.
// Pure function of its inputs: no randomness, no external calls.
type Scorer struct {
	weights strategyconfig.Scoring
}

// NewScorer creates a new universe scorer
func NewScorer(weights strategyconfig.Scoring) *Scorer {
	return &Scorer{weights: weights}
}

// Score returns the weighted composite in [0,1]. Weights for missing optional
// inputs are skipped and the sum is renormalized so the result stays in range.
func (s *Scorer) Score(ticker *contracts.Ticker, quote *contracts.Quote) float64 {
	var total, applied float64

	total += marketCapScore(ticker.MarketCap) * s.weights.MarketCapWeight
	applied += s.weights.MarketCapWeight

	total += volumeScore(quote.VolumeAvg20D) * s.weights.VolumeWeight
	applied += s.weights.VolumeWeight

	if quote.Volatility30D != nil {
		total += volatilityScore(*quote.Volatility30D) * s.weights.VolatilityWeight
		applied += s.weights.VolatilityWeight
	}

	if ticker.Beta != nil {
		total += betaScore(*ticker.Beta) * s.weights.BetaWeight
		applied += s.weights.BetaWeight
	}

	if ticker.PERatio != nil {
		total += peScore(*ticker.PERatio) * s.weights.PEWeight
		applied += s.weights.PEWeight
	}

	if ticker.DividendYield != nil {
		total += dividendScore(*ticker.DividendYield) * s.weights.DividendWeight
		applied += s.weights.DividendWeight
	}

	if applied == 0 {
		return 0
	}
	return total / applied
}

// marketCapScore favors the mid-cap to large-cap band where put premiums
// stay liquid without mega-cap premium compression
func marketCapScore(capBillions float64) float64 {
	switch {
	case capBillions >= 5 && capBillions < 50:
		return 1.0
	case capBillions >= 50 && capBillions < 200:
		return 0.9
	case capBillions >= 200:
		return 0.8
	default:
		return 0.6
	}
}

func volumeScore(volumeAvg20D float64) float64 {
	return math.Min(1.0, volumeAvg20D/2_000_000)
}

// volatilityScore peaks in the 20-40% band: enough IV to sell, not enough
// to signal distress
func volatilityScore(volPct float64) float64 {
	switch {
	case volPct >= 20 && volPct <= 40:
		return 1.0
	case volPct >= 10 && volPct < 20:
		return 0.7
	case volPct > 40 && volPct <= 60:
		return 0.8
	default:
		return 0.3
	}
}

func betaScore(beta float64) float64 {
	switch {
	case beta >= 0.8 && beta <= 1.2:
		return 1.0
	case beta >= 0.5 && beta < 0.8:
		return 0.8
	case beta > 1.2 && beta <= 1.8:
		return 0.7
	case beta > 1.8 && beta <= 2.5:
		return 0.5
	default:
		return 0.3
	}
}

func peScore(pe float64) float64 {
	switch {
	case pe >= 10 && pe <= 25:
		return 1.0
	case pe > 0 && pe < 10:
		return 0.7
	case pe > 25 && pe <= 50:
		return 0.6
	default:
		return 0.3
	}
}

func dividendScore(yieldPct float64) float64 {
	if yieldPct <= 0 {
		return 0
	}
	return math.Min(1.0, yieldPct/3.0)
}
