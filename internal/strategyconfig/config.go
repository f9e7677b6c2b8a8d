package strategyconfig

// Config is the full cash-secured put strategy definition. Values here are
// defaults; the settings provider can override any of them at runtime by name.
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Universe  Universe  `yaml:"universe" json:"universe"`
	Scoring   Scoring   `yaml:"scoring" json:"scoring"`
	Options   Options   `yaml:"options" json:"options"`
	Selection Selection `yaml:"selection" json:"selection"`
}

// Meta identifies the strategy
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
	Timezone   string `yaml:"timezone" json:"timezone"` // reference timezone for DTE
}

// Universe holds the hard pass/fail gates applied before scoring
type Universe struct {
	PriceMin             float64 `yaml:"price_min" json:"price_min"`
	PriceMax             float64 `yaml:"price_max" json:"price_max"`
	MarketCapMinBillions float64 `yaml:"market_cap_min_billions" json:"market_cap_min_billions"`
	VolumeAvg20DMin      float64 `yaml:"volume_avg_20d_min" json:"volume_avg_20d_min"`
	Volatility30DMaxPct  float64 `yaml:"volatility_30d_max_pct" json:"volatility_30d_max_pct"`
	BetaMax              float64 `yaml:"beta_max" json:"beta_max"`
	PEMax                float64 `yaml:"pe_max" json:"pe_max"`
	EarningsBlackoutDays int     `yaml:"earnings_blackout_days" json:"earnings_blackout_days"`
	QuoteStalenessMins   int     `yaml:"quote_staleness_mins" json:"quote_staleness_mins"`
}

// Scoring holds the universe composite score weights. Weights must sum to 1.
type Scoring struct {
	MarketCapWeight  float64 `yaml:"market_cap_weight" json:"market_cap_weight"`
	VolumeWeight     float64 `yaml:"volume_weight" json:"volume_weight"`
	VolatilityWeight float64 `yaml:"volatility_weight" json:"volatility_weight"`
	BetaWeight       float64 `yaml:"beta_weight" json:"beta_weight"`
	PEWeight         float64 `yaml:"pe_weight" json:"pe_weight"`
	DividendWeight   float64 `yaml:"dividend_weight" json:"dividend_weight"`
}

// Options holds the option chain gates
type Options struct {
	DTEMin           int     `yaml:"dte_min" json:"dte_min"`
	DTEMax           int     `yaml:"dte_max" json:"dte_max"`
	DeltaMin         float64 `yaml:"delta_min" json:"delta_min"`
	DeltaMax         float64 `yaml:"delta_max" json:"delta_max"`
	MinOpenInterest  int64   `yaml:"min_open_interest" json:"min_open_interest"`
	MinVolume        int64   `yaml:"min_volume" json:"min_volume"`
	MaxBidAskPct     float64 `yaml:"max_bid_ask_pct" json:"max_bid_ask_pct"`
	AnnualizedMinPct float64 `yaml:"annualized_min_pct" json:"annualized_min_pct"`
	RiskFreeRate     float64 `yaml:"risk_free_rate" json:"risk_free_rate"`
	MonteCarloPaths  int     `yaml:"monte_carlo_paths" json:"monte_carlo_paths"`

	// Liquidity sub-score saturation anchors: OI and volume at or above
	// these count as fully liquid
	OIScoreThreshold     float64 `yaml:"oi_score_threshold" json:"oi_score_threshold"`
	VolumeScoreThreshold float64 `yaml:"volume_score_threshold" json:"volume_score_threshold"`
}

// Selection holds recommendation selection parameters
type Selection struct {
	TopK              int     `yaml:"top_k" json:"top_k"`
	MinScoreThreshold float64 `yaml:"min_score_threshold" json:"min_score_threshold"`
}

// Default returns the built-in strategy configuration, used when no YAML
// file is provided
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "csp_income_v1",
			Version:    "1.0",
			Timezone:   "America/New_York",
		},
		Universe: Universe{
			PriceMin:             3.0,
			PriceMax:             1000.0,
			MarketCapMinBillions: 0.5,
			VolumeAvg20DMin:      100_000,
			Volatility30DMaxPct:  120.0,
			BetaMax:              4.0,
			PEMax:                200.0,
			EarningsBlackoutDays: 7,
			QuoteStalenessMins:   60,
		},
		Scoring: Scoring{
			MarketCapWeight:  0.25,
			VolumeWeight:     0.20,
			VolatilityWeight: 0.20,
			BetaWeight:       0.15,
			PEWeight:         0.10,
			DividendWeight:   0.10,
		},
		Options: Options{
			DTEMin:               21,
			DTEMax:               35,
			DeltaMin:             0.15,
			DeltaMax:             0.35,
			MinOpenInterest:      100,
			MinVolume:            10,
			MaxBidAskPct:         15.0,
			AnnualizedMinPct:     12.0,
			RiskFreeRate:         0.05,
			MonteCarloPaths:      10_000,
			OIScoreThreshold:     500,
			VolumeScoreThreshold: 100,
		},
		Selection: Selection{
			TopK:              50,
			MinScoreThreshold: 0.5,
		},
	}
}
