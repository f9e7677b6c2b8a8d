package options

import (
	"context"
	"math"
	"time"

	"github.com/wheelhouse-quant/wheelhouse/internal/contracts"
	"github.com/wheelhouse-quant/wheelhouse/internal/strategyconfig"
	"github.com/wheelhouse-quant/wheelhouse/pkg/logger"
)

// roiAnchorPct is the "excellent" annualized ROI; values above it saturate
const roiAnchorPct = 30.0

// ScorerConfig holds scoring parameters
type ScorerConfig struct {
	RiskFreeRate         float64
	MonteCarloPaths      int
	MonteCarloSeed       int64 // non-zero for reproducible tests
	OIThreshold          float64
	VolumeThreshold      float64
	EarningsBlackoutDays int
}

// ScorerConfigFromSettings resolves scoring parameters through the settings
// provider, falling back to the strategy defaults
func ScorerConfigFromSettings(ctx context.Context, s contracts.Settings, def strategyconfig.Options, blackoutDays int) ScorerConfig {
	return ScorerConfig{
		RiskFreeRate:         s.Float(ctx, "options.risk_free_rate", def.RiskFreeRate),
		MonteCarloPaths:      s.Int(ctx, "options.monte_carlo_paths", def.MonteCarloPaths),
		OIThreshold:          s.Float(ctx, "options.oi_score_threshold", def.OIScoreThreshold),
		VolumeThreshold:      s.Float(ctx, "options.volume_score_threshold", def.VolumeScoreThreshold),
		EarningsBlackoutDays: blackoutDays,
	}
}

// ScoreInput carries everything the scorer needs for one contract
type ScoreInput struct {
	Contract     *contracts.OptionContract
	CurrentPrice float64
	MA50         *float64 // optional
	MA200        *float64 // optional
	EarningsDate *time.Time
	Qualitative  *contracts.QualitativeResult // nil means neutral
	Now          time.Time
}

// Scorer computes per-contract sub-scores and the composite. State-free
// apart from the seeded simulator; same inputs always produce the same
// rationale.
type Scorer struct {
	config ScorerConfig
	mc     *MonteCarlo
	logger *logger.Logger
}

// NewScorer creates a new option scorer
func NewScorer(config ScorerConfig, log *logger.Logger) *Scorer {
	return &Scorer{
		config: config,
		mc:     NewMonteCarlo(config.MonteCarloPaths, config.MonteCarloSeed),
		logger: log,
	}
}

// Score computes the full rationale for one contract. Every numeric in the
// result is sanitized to a finite value before it leaves this method.
func (s *Scorer) Score(in ScoreInput) contracts.Rationale {
	c := in.Contract
	dte := c.DTE(in.Now)
	years := float64(dte) / 365

	mid := MidPrice(c)
	credit := TotalCredit(mid, 1)
	collateral := Collateral(c.Strike, 1)
	roi := AnnualizedROIPct(credit, collateral, dte)

	var sigma float64
	if c.ImpliedVol != nil {
		sigma = *c.ImpliedVol
	}

	r := contracts.Rationale{
		MidPrice:           mid,
		AnnualizedYieldPct: AnnualizedYieldPct(mid, c.Strike, dte),
		AnnualizedROIPct:   roi,
		TotalCredit:        credit,
		Collateral:         collateral,
		SupportScore:       SupportScore(c.Strike, in.CurrentPrice, in.MA50, in.MA200),
		LiquidityScore:     s.liquidityScore(c),
		RiskAdjustment:     s.riskAdjustment(in.EarningsDate, in.Now),
		QualitativeScore:   qualitativeScore(in.Qualitative),
		PoPDelta:           PoPFromDelta(c.Delta),
		PoPBlackScholes:    PoPBlackScholes(in.CurrentPrice, c.Strike, sigma, s.config.RiskFreeRate, years),
		PoPMonteCarlo:      s.mc.PoP(in.CurrentPrice, c.Strike, sigma, s.config.RiskFreeRate, years),
	}

	// Composite: ROI normalized against the excellence anchor, blended with
	// the simulated probability, then penalized by the risk adjustment.
	base := 0.6*math.Min(1, roi/roiAnchorPct) + 0.4*clamp01(r.PoPMonteCarlo)
	r.CompositeScore = clamp01(base * r.RiskAdjustment)

	SanitizeRationale(&r)

	s.logger.WithFields(map[string]interface{}{
		"contract": c.ContractSymbol,
		"roi":      r.AnnualizedROIPct,
		"pop_bs":   r.PoPBlackScholes,
		"pop_mc":   r.PoPMonteCarlo,
		"score":    r.CompositeScore,
	}).Debug("Scored contract")

	return r
}

// SupportScore measures strike proximity to price support. Ratio near 1.0
// scores highest; far below 0.9 means the strike gave up too much premium
// to matter, far above means assignment is nearly certain.
func SupportScore(strike, currentPrice float64, ma50, ma200 *float64) float64 {
	if currentPrice <= 0 || strike <= 0 {
		return 0
	}

	ratio := strike / currentPrice

	var score float64
	switch {
	case ratio < 0.9:
		score = 0
	case ratio >= 0.95 && ratio <= 1.05:
		score = 1.0
	default:
		score = math.Max(0, 1-math.Abs(ratio-1)*10)
	}

	// Strike above the 50-day MA sits on technical support
	if ma50 != nil && strike > *ma50 {
		score *= 1.2
	}
	// Price far below the 200-day MA signals a broken trend
	if ma200 != nil && currentPrice < 0.8*(*ma200) {
		score *= 0.5
	}

	return clamp01(score)
}

// liquidityScore blends open interest, session volume and spread tightness
func (s *Scorer) liquidityScore(c *contracts.OptionContract) float64 {
	oiPart := math.Min(1, float64(c.OpenInterest)/s.config.OIThreshold)
	volPart := math.Min(1, float64(c.Volume)/s.config.VolumeThreshold)
	spreadPart := math.Max(0, 1-SpreadPct(c.Bid, c.Ask)/10)

	return 0.4*oiPart + 0.4*volPart + 0.2*spreadPart
}

// riskAdjustment penalizes (but does not exclude) contracts with earnings
// ahead inside the blackout window
func (s *Scorer) riskAdjustment(earnings *time.Time, now time.Time) float64 {
	adj := 1.0
	if earnings != nil {
		ahead := earnings.Sub(now)
		blackout := time.Duration(s.config.EarningsBlackoutDays) * 24 * time.Hour
		if ahead >= 0 && ahead <= blackout {
			adj *= 0.3
		}
	}
	return adj
}

// qualitativeScore clamps the collaborator's score, defaulting to neutral
// when analysis was unavailable
func qualitativeScore(q *contracts.QualitativeResult) float64 {
	if q == nil {
		return 0.5
	}
	return clamp01(q.Score)
}
