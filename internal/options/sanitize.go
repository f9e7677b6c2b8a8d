package options

import (
	"math"

	"github.com/wheelhouse-quant/wheelhouse/internal/contracts"
)

// Every numeric leaving the scorer must be finite so rationale payloads are
// always serializable: NaN becomes 0, infinities and absurd magnitudes
// collapse to signed sentinels.

const sanitizeSentinel = 999999.0

// maxMagnitude is the largest value allowed through unclamped
const maxMagnitude = 1e10

// SanitizeFloat maps non-finite or absurd values to safe sentinels
func SanitizeFloat(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return sanitizeSentinel
	case math.IsInf(v, -1):
		return -sanitizeSentinel
	case v > maxMagnitude:
		return sanitizeSentinel
	case v < -maxMagnitude:
		return -sanitizeSentinel
	default:
		return v
	}
}

// SanitizeRationale sanitizes every numeric field in place. Runs as the last
// step before a rationale leaves the scorer.
func SanitizeRationale(r *contracts.Rationale) {
	r.MidPrice = SanitizeFloat(r.MidPrice)
	r.AnnualizedYieldPct = SanitizeFloat(r.AnnualizedYieldPct)
	r.AnnualizedROIPct = SanitizeFloat(r.AnnualizedROIPct)
	r.TotalCredit = SanitizeFloat(r.TotalCredit)
	r.Collateral = SanitizeFloat(r.Collateral)
	r.SupportScore = SanitizeFloat(r.SupportScore)
	r.LiquidityScore = SanitizeFloat(r.LiquidityScore)
	r.RiskAdjustment = SanitizeFloat(r.RiskAdjustment)
	r.QualitativeScore = SanitizeFloat(r.QualitativeScore)
	r.PoPDelta = SanitizeFloat(r.PoPDelta)
	r.PoPBlackScholes = SanitizeFloat(r.PoPBlackScholes)
	r.PoPMonteCarlo = SanitizeFloat(r.PoPMonteCarlo)
	r.CompositeScore = SanitizeFloat(r.CompositeScore)
}

// SanitizeValue recursively sanitizes nested payloads (maps and slices of
// arbitrary JSON-shaped data)
func SanitizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case float64:
		return SanitizeFloat(val)
	case float32:
		return SanitizeFloat(float64(val))
	case map[string]interface{}:
		for k, inner := range val {
			val[k] = SanitizeValue(inner)
		}
		return val
	case []interface{}:
		for i, inner := range val {
			val[i] = SanitizeValue(inner)
		}
		return val
	default:
		return v
	}
}
