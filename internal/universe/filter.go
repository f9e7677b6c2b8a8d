package universe

import (
	"context"
	"time"

	"github.com/wheelhouse-quant/wheelhouse/internal/contracts"
	"github.com/wheelhouse-quant/wheelhouse/internal/strategyconfig"
)

// FilterConfig holds the hard pass/fail gates applied before scoring
type FilterConfig struct {
	PriceMin             float64
	PriceMax             float64
	MarketCapMinBillions float64
	VolumeAvg20DMin      float64
	Volatility30DMaxPct  float64
	BetaMax              float64
	PEMax                float64
	EarningsBlackoutDays int
	QuoteStaleness       time.Duration
}

// FilterConfigFromSettings resolves every gate through the settings provider,
// falling back to the strategy defaults
func FilterConfigFromSettings(ctx context.Context, s contracts.Settings, def strategyconfig.Universe) FilterConfig {
	return FilterConfig{
		PriceMin:             s.Float(ctx, "universe.price_min", def.PriceMin),
		PriceMax:             s.Float(ctx, "universe.price_max", def.PriceMax),
		MarketCapMinBillions: s.Float(ctx, "universe.market_cap_min_billions", def.MarketCapMinBillions),
		VolumeAvg20DMin:      s.Float(ctx, "universe.volume_avg_20d_min", def.VolumeAvg20DMin),
		Volatility30DMaxPct:  s.Float(ctx, "universe.volatility_30d_max_pct", def.Volatility30DMaxPct),
		BetaMax:              s.Float(ctx, "universe.beta_max", def.BetaMax),
		PEMax:                s.Float(ctx, "universe.pe_max", def.PEMax),
		EarningsBlackoutDays: s.Int(ctx, "universe.earnings_blackout_days", def.EarningsBlackoutDays),
		QuoteStaleness:       time.Duration(s.Int(ctx, "universe.quote_staleness_mins", def.QuoteStalenessMins)) * time.Minute,
	}
}

// Filter applies hard exclusion gates ahead of scoring
type Filter struct {
	config FilterConfig
}

// NewFilter creates a new universe filter
func NewFilter(config FilterConfig) *Filter {
	return &Filter{config: config}
}

// Passes checks the gates in order, short-circuiting on the first failure.
// The returned reason is empty when the ticker passes; otherwise it names the
// failing gate for counter aggregation. Optional fields never cause rejection
// when absent; price and market cap are mandatory.
func (f *Filter) Passes(ticker *contracts.Ticker, quote *contracts.Quote, now time.Time) (bool, string) {
	// 1. Quote freshness + price band
	if !quote.Fresh(now, f.config.QuoteStaleness) {
		return false, "no_quote"
	}
	if quote.CurrentPrice < f.config.PriceMin || quote.CurrentPrice > f.config.PriceMax {
		return false, "price"
	}

	// 2. Market cap floor (billions)
	if ticker.MarketCap < f.config.MarketCapMinBillions {
		return false, "market_cap"
	}

	// 3. Liquidity floor
	if quote.VolumeAvg20D < f.config.VolumeAvg20DMin {
		return false, "volume"
	}

	// 4. Volatility ceiling
	if quote.Volatility30D != nil && *quote.Volatility30D > f.config.Volatility30DMaxPct {
		return false, "volatility"
	}

	// 5. Beta ceiling
	if ticker.Beta != nil && *ticker.Beta > f.config.BetaMax {
		return false, "beta"
	}

	// 6. Valuation ceiling
	if ticker.PERatio != nil && *ticker.PERatio > f.config.PEMax {
		return false, "pe_ratio"
	}

	// 7. Earnings blackout: reject within the window either side of now
	if ticker.NextEarningsDate != nil {
		blackout := time.Duration(f.config.EarningsBlackoutDays) * 24 * time.Hour
		diff := ticker.NextEarningsDate.Sub(now)
		if diff < 0 {
			diff = -diff
		}
		if diff <= blackout {
			return false, "earnings_blackout"
		}
	}

	return true, ""
}
