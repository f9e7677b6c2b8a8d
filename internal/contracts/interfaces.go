package contracts

import (
	"context"
	"errors"
	"time"
)

// Data-unavailable sentinels. Callers skip the ticker, they never abort a run.
var (
	ErrNoQuote       = errors.New("no quote available")
	ErrNoChain       = errors.New("no option chain available")
	ErrNoExpirations = errors.New("no expirations available")
)

// MarketData supplies quotes and option chains. Retry and backoff are the
// gateway's own concern; callers only see final success or failure.
type MarketData interface {
	GetQuote(ctx context.Context, symbol string) (*Quote, error)
	GetOptionExpirations(ctx context.Context, symbol string) ([]time.Time, error)
	GetOptionChain(ctx context.Context, symbol string, expiration time.Time) ([]OptionContract, error)
}

// Settings resolves named configuration values. A missing value falls back to
// the caller-supplied default, never an error.
type Settings interface {
	Float(ctx context.Context, name string, def float64) float64
	Int(ctx context.Context, name string, def int) int
	Bool(ctx context.Context, name string, def bool) bool
}

// PositionSource exposes open brokerage positions for exclusion filtering
type PositionSource interface {
	GetOpenPositions(ctx context.Context) ([]Position, error)
}

// QualitativeAnalyzer scores a ticker qualitatively. Implementations never
// return an error for analysis failure; they fall back to the neutral payload.
type QualitativeAnalyzer interface {
	Analyze(ctx context.Context, symbol string, price float64, sector string) QualitativeResult
}
