package universe

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wheelhouse-quant/wheelhouse/internal/contracts"
)

// Repository handles ticker and quote persistence
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new universe repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetActiveTickers returns all active tickers with their latest quote.
// Tickers without a quote row come back with a nil Quote; the filter treats
// them as having no quote.
func (r *Repository) GetActiveTickers(ctx context.Context) ([]contracts.Ticker, map[string]*contracts.Quote, error) {
	query := `
		SELECT
			t.symbol,
			COALESCE(t.sector, ''),
			COALESCE(t.industry, ''),
			t.market_cap,
			t.beta,
			t.pe_ratio,
			t.dividend_yield,
			t.next_earnings_date,
			t.universe_score,
			t.last_analysis_date,
			q.current_price,
			q.volume_avg_20d,
			q.volatility_30d,
			q.put_call_ratio,
			q.updated_at
		FROM universe.tickers t
		LEFT JOIN universe.quotes q ON t.symbol = q.symbol
		WHERE t.active = TRUE
		ORDER BY t.symbol
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("query tickers: %w", err)
	}
	defer rows.Close()

	tickers := make([]contracts.Ticker, 0)
	quotes := make(map[string]*contracts.Quote)

	for rows.Next() {
		var t contracts.Ticker
		var price, volAvg *float64
		var vol30, pcRatio *float64
		var updatedAt *time.Time

		err := rows.Scan(
			&t.Symbol,
			&t.Sector,
			&t.Industry,
			&t.MarketCap,
			&t.Beta,
			&t.PERatio,
			&t.DividendYield,
			&t.NextEarningsDate,
			&t.UniverseScore,
			&t.LastAnalysisDate,
			&price,
			&volAvg,
			&vol30,
			&pcRatio,
			&updatedAt,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("scan ticker: %w", err)
		}
		t.Active = true

		if price != nil && updatedAt != nil {
			q := &contracts.Quote{
				Symbol:        t.Symbol,
				CurrentPrice:  *price,
				Volatility30D: vol30,
				PutCallRatio:  pcRatio,
				UpdatedAt:     *updatedAt,
			}
			if volAvg != nil {
				q.VolumeAvg20D = *volAvg
			}
			quotes[t.Symbol] = q
		}

		tickers = append(tickers, t)
	}

	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("iterate tickers: %w", rows.Err())
	}

	return tickers, quotes, nil
}

// SaveScore persists the universe score and analysis timestamp for a ticker
func (r *Repository) SaveScore(ctx context.Context, symbol string, score float64, analyzedAt time.Time) error {
	query := `
		UPDATE universe.tickers
		SET universe_score = $2, last_analysis_date = $3
		WHERE symbol = $1
	`

	_, err := r.pool.Exec(ctx, query, symbol, score, analyzedAt)
	if err != nil {
		return fmt.Errorf("save universe score: %w", err)
	}

	return nil
}

// UpsertQuote stores the latest quote snapshot for a ticker
func (r *Repository) UpsertQuote(ctx context.Context, q *contracts.Quote) error {
	query := `
		INSERT INTO universe.quotes (
			symbol, current_price, volume_avg_20d, volatility_30d, put_call_ratio, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (symbol) DO UPDATE SET
			current_price = EXCLUDED.current_price,
			volume_avg_20d = EXCLUDED.volume_avg_20d,
			volatility_30d = EXCLUDED.volatility_30d,
			put_call_ratio = EXCLUDED.put_call_ratio,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		q.Symbol, q.CurrentPrice, q.VolumeAvg20D, q.Volatility30D, q.PutCallRatio, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert quote: %w", err)
	}

	return nil
}
