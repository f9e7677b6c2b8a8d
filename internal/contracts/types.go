package contracts

import (
	"time"
)

// OptionType distinguishes puts from calls
type OptionType string

const (
	OptionPut  OptionType = "put"
	OptionCall OptionType = "call"
)

// RecommendationStatus is the lifecycle state of a recommendation
type RecommendationStatus string

const (
	StatusProposed  RecommendationStatus = "proposed"
	StatusExecuted  RecommendationStatus = "executed"
	StatusDismissed RecommendationStatus = "dismissed"
)

// Ticker represents an equity in the screening universe
type Ticker struct {
	Symbol           string     `json:"symbol"`
	Sector           string     `json:"sector"`
	Industry         string     `json:"industry"`
	MarketCap        float64    `json:"market_cap"` // USD billions
	Beta             *float64   `json:"beta,omitempty"`
	PERatio          *float64   `json:"pe_ratio,omitempty"`
	DividendYield    *float64   `json:"dividend_yield,omitempty"` // percent
	NextEarningsDate *time.Time `json:"next_earnings_date,omitempty"`
	Active           bool       `json:"active"`
	UniverseScore    *float64   `json:"universe_score,omitempty"` // [0,1], nil until scored
	LastAnalysisDate *time.Time `json:"last_analysis_date,omitempty"`
}

// Quote is the current market snapshot for a ticker
type Quote struct {
	Symbol        string    `json:"symbol"`
	CurrentPrice  float64   `json:"current_price"`
	VolumeAvg20D  float64   `json:"volume_avg_20d"`
	Volatility30D *float64  `json:"volatility_30d,omitempty"` // annualized percent, 35.0 = 35%
	PutCallRatio  *float64  `json:"put_call_ratio,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Fresh reports whether the quote is recent enough to drive filtering and scoring
func (q *Quote) Fresh(now time.Time, window time.Duration) bool {
	if q == nil {
		return false
	}
	return now.Sub(q.UpdatedAt) <= window
}

// OptionContract is a single contract from a vendor option chain
type OptionContract struct {
	ContractSymbol string     `json:"contract_symbol"`
	Underlying     string     `json:"underlying"`
	Expiry         time.Time  `json:"expiry"`
	Strike         float64    `json:"strike"`
	Type           OptionType `json:"option_type"`
	Bid            float64    `json:"bid"`
	Ask            float64    `json:"ask"`
	Last           float64    `json:"last"`
	Delta          *float64   `json:"delta,omitempty"`
	Gamma          *float64   `json:"gamma,omitempty"`
	Theta          *float64   `json:"theta,omitempty"`
	Vega           *float64   `json:"vega,omitempty"`
	ImpliedVol     *float64   `json:"implied_volatility,omitempty"` // decimal, 0.35 = 35%
	OpenInterest   int64      `json:"open_interest"`
	Volume         int64      `json:"volume"`
}

// DTE returns calendar days to expiry as of now. Snapshots go stale between
// reads, so every filter recomputes this instead of trusting a stored value.
func (c *OptionContract) DTE(now time.Time) int {
	return int(c.Expiry.Sub(now).Hours() / 24)
}

// Rationale records every sub-score behind a recommendation. Both probability
// estimates are kept separately: their disagreement is itself diagnostic.
type Rationale struct {
	MidPrice           float64 `json:"mid_price"`
	AnnualizedYieldPct float64 `json:"annualized_yield_pct"`
	AnnualizedROIPct   float64 `json:"annualized_roi_pct"`
	TotalCredit        float64 `json:"total_credit"`
	Collateral         float64 `json:"collateral"`
	SupportScore       float64 `json:"support_score"`
	LiquidityScore     float64 `json:"liquidity_score"`
	RiskAdjustment     float64 `json:"risk_adjustment"`
	QualitativeScore   float64 `json:"qualitative_score"`
	PoPDelta           float64 `json:"pop_delta"`
	PoPBlackScholes    float64 `json:"pop_black_scholes"`
	PoPMonteCarlo      float64 `json:"pop_monte_carlo"`
	CompositeScore     float64 `json:"composite_score"`
}

// Recommendation is a scored cash-secured put candidate for one ticker
type Recommendation struct {
	ID        int64                `json:"id"`
	Symbol    string               `json:"symbol"`
	Contract  *OptionContract      `json:"contract,omitempty"`
	Score     float64              `json:"score"`
	Rationale Rationale            `json:"rationale"`
	Status    RecommendationStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
}

// Position is an open brokerage position, read-only to the engine.
// Tickers with an open position are skipped to avoid duplicate exposure.
type Position struct {
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
}

// QualitativeResult is the payload from the qualitative analysis collaborator
type QualitativeResult struct {
	Score  float64 `json:"qualitative_score"` // [0,1]
	Thesis string  `json:"thesis,omitempty"`
}

// NeutralQualitative is returned when analysis is disabled or fails
func NeutralQualitative() QualitativeResult {
	return QualitativeResult{Score: 0.5}
}
