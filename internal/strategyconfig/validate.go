package strategyconfig

import (
	"fmt"
	"math"
	"time"
)

// Validate checks structural invariants of the strategy configuration
func Validate(cfg *Config) error {
	if cfg.Meta.StrategyID == "" {
		return fmt.Errorf("meta.strategy_id is required")
	}

	if cfg.Meta.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Meta.Timezone); err != nil {
			return fmt.Errorf("meta.timezone invalid: %w", err)
		}
	}

	u := cfg.Universe
	if u.PriceMin < 0 || u.PriceMax <= u.PriceMin {
		return fmt.Errorf("universe price band invalid: [%.2f, %.2f]", u.PriceMin, u.PriceMax)
	}
	if u.EarningsBlackoutDays < 0 {
		return fmt.Errorf("universe.earnings_blackout_days must be >= 0")
	}

	s := cfg.Scoring
	sum := s.MarketCapWeight + s.VolumeWeight + s.VolatilityWeight +
		s.BetaWeight + s.PEWeight + s.DividendWeight
	if math.Abs(sum-1.0) > 0.01 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %.4f", sum)
	}

	o := cfg.Options
	if o.DTEMin <= 0 || o.DTEMax < o.DTEMin {
		return fmt.Errorf("options DTE window invalid: [%d, %d]", o.DTEMin, o.DTEMax)
	}
	if o.DeltaMin < 0 || o.DeltaMax > 1 || o.DeltaMax < o.DeltaMin {
		return fmt.Errorf("options delta band invalid: [%.2f, %.2f]", o.DeltaMin, o.DeltaMax)
	}
	if o.MonteCarloPaths <= 0 {
		return fmt.Errorf("options.monte_carlo_paths must be > 0")
	}
	if o.OIScoreThreshold <= 0 || o.VolumeScoreThreshold <= 0 {
		return fmt.Errorf("options liquidity score thresholds must be > 0")
	}

	sel := cfg.Selection
	if sel.TopK <= 0 {
		return fmt.Errorf("selection.top_k must be > 0")
	}
	if sel.MinScoreThreshold < 0 || sel.MinScoreThreshold > 1 {
		return fmt.Errorf("selection.min_score_threshold must be in [0,1]")
	}

	return nil
}
