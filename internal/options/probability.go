package options

import (
	"math"
	"math/rand"
	"time"
)

// Three independent probability-of-profit estimators for a short put. The
// closed-form and simulated results are both reported, not averaged:
// disagreement between them is diagnostic.

// tradingDaysPerYear is the daily step count for path simulation
const tradingDaysPerYear = 252

// PoPFromDelta approximates probability of profit as 1-|delta|.
// Returns the 0.5 neutral default when delta is missing.
func PoPFromDelta(delta *float64) float64 {
	if delta == nil {
		return 0.5
	}
	return clamp01(1 - math.Abs(*delta))
}

// PoPBlackScholes returns the risk-neutral probability that the terminal
// price exceeds the strike: Phi(d2). Degenerate inputs (non-positive spot,
// strike, volatility or time) return the 0.5 neutral default.
func PoPBlackScholes(spot, strike, sigma, riskFree float64, years float64) float64 {
	if spot <= 0 || strike <= 0 || sigma <= 0 || years <= 0 {
		return 0.5
	}

	d2 := (math.Log(spot/strike) + (riskFree-0.5*sigma*sigma)*years) / (sigma * math.Sqrt(years))
	if math.IsNaN(d2) || math.IsInf(d2, 0) {
		return 0.5
	}

	return clamp01(0.5 * (1 + math.Erf(d2/math.Sqrt2)))
}

// MonteCarlo simulates geometric Brownian motion price paths
type MonteCarlo struct {
	paths int
	rng   *rand.Rand
}

// NewMonteCarlo creates a simulator. A non-zero seed makes runs reproducible
// for tests; seed 0 uses wall-clock entropy.
func NewMonteCarlo(paths int, seed int64) *MonteCarlo {
	if paths <= 0 {
		paths = 10_000
	}

	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewSource(seed))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &MonteCarlo{
		paths: paths,
		rng:   rng,
	}
}

// PoP simulates daily GBM steps over the holding period and returns the
// fraction of terminal prices above the strike. Degenerate inputs return
// the 0.5 neutral default.
func (mc *MonteCarlo) PoP(spot, strike, sigma, riskFree float64, years float64) float64 {
	if spot <= 0 || strike <= 0 || sigma <= 0 || years <= 0 {
		return 0.5
	}

	steps := int(years * tradingDaysPerYear)
	if steps < 1 {
		steps = 1
	}

	dt := years / float64(steps)
	drift := (riskFree - 0.5*sigma*sigma) * dt
	diffusion := sigma * math.Sqrt(dt)

	wins := 0
	for i := 0; i < mc.paths; i++ {
		price := spot
		for d := 0; d < steps; d++ {
			z := mc.rng.NormFloat64()
			price *= math.Exp(drift + diffusion*z)
		}
		if price > strike {
			wins++
		}
	}

	return float64(wins) / float64(mc.paths)
}
