package options

import (
	"context"
	"math"
	"time"

	"github.com/wheelhouse-quant/wheelhouse/internal/contracts"
	"github.com/wheelhouse-quant/wheelhouse/internal/strategyconfig"
	"github.com/wheelhouse-quant/wheelhouse/pkg/logger"
)

// ChainConfig holds the per-contract gates applied to a raw option chain
type ChainConfig struct {
	DTEMin           int
	DTEMax           int
	DeltaMin         float64
	DeltaMax         float64
	MinOpenInterest  int64
	MinVolume        int64
	MaxBidAskPct     float64
	AnnualizedMinPct float64
}

// ChainConfigFromSettings resolves every gate through the settings provider,
// falling back to the strategy defaults
func ChainConfigFromSettings(ctx context.Context, s contracts.Settings, def strategyconfig.Options) ChainConfig {
	return ChainConfig{
		DTEMin:           s.Int(ctx, "options.dte_min", def.DTEMin),
		DTEMax:           s.Int(ctx, "options.dte_max", def.DTEMax),
		DeltaMin:         s.Float(ctx, "options.delta_min", def.DeltaMin),
		DeltaMax:         s.Float(ctx, "options.delta_max", def.DeltaMax),
		MinOpenInterest:  int64(s.Int(ctx, "options.min_open_interest", int(def.MinOpenInterest))),
		MinVolume:        int64(s.Int(ctx, "options.min_volume", int(def.MinVolume))),
		MaxBidAskPct:     s.Float(ctx, "options.max_bid_ask_pct", def.MaxBidAskPct),
		AnnualizedMinPct: s.Float(ctx, "options.annualized_min_pct", def.AnnualizedMinPct),
	}
}

// ChainFilter reduces a raw chain to candidate put contracts
type ChainFilter struct {
	config ChainConfig
	logger *logger.Logger
}

// NewChainFilter creates a new chain filter
func NewChainFilter(config ChainConfig, log *logger.Logger) *ChainFilter {
	return &ChainFilter{
		config: config,
		logger: log,
	}
}

// Filter applies all gates; every gate must pass. DTE is recomputed against
// now because snapshots go stale between reads.
func (f *ChainFilter) Filter(chain []contracts.OptionContract, now time.Time) []contracts.OptionContract {
	passed := make([]contracts.OptionContract, 0, len(chain))
	rejected := make(map[string]int)

	for i := range chain {
		c := &chain[i]
		reason := f.check(c, now)
		if reason == "" {
			passed = append(passed, *c)
		} else {
			rejected[reason]++
		}
	}

	f.logger.WithFields(map[string]interface{}{
		"input":    len(chain),
		"passed":   len(passed),
		"rejected": rejected,
	}).Debug("Option chain filtered")

	return passed
}

// check returns empty string if the contract passes, otherwise the name of
// the failing gate
func (f *ChainFilter) check(c *contracts.OptionContract, now time.Time) string {
	if c.Type != contracts.OptionPut {
		return "not_put"
	}

	dte := c.DTE(now)
	if dte < f.config.DTEMin || dte > f.config.DTEMax {
		return "dte"
	}

	// Put delta is negative; the band compares absolute value. Missing
	// delta is a rejection, not a pass.
	if c.Delta == nil {
		return "no_delta"
	}
	absDelta := math.Abs(*c.Delta)
	if absDelta < f.config.DeltaMin || absDelta > f.config.DeltaMax {
		return "delta"
	}

	// Both liquidity floors are required, not either-or
	if c.OpenInterest < f.config.MinOpenInterest {
		return "open_interest"
	}
	if c.Volume < f.config.MinVolume {
		return "volume"
	}

	if SpreadPct(c.Bid, c.Ask) > f.config.MaxBidAskPct {
		return "spread"
	}

	premium := MidPrice(c)
	if premium <= 0 {
		return "no_price"
	}
	if AnnualizedYieldPct(premium, c.Strike, dte) < f.config.AnnualizedMinPct {
		return "yield"
	}

	return ""
}
