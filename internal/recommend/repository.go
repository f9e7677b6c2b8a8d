package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wheelhouse-quant/wheelhouse/internal/contracts"
)

// Repository handles recommendation persistence. At most one proposed
// recommendation per (symbol, calendar day) is current: the latest by
// created_at wins, older same-day rows are flagged superseded, never
// deleted.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new recommendation repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save inserts a recommendation and supersedes prior same-day proposed rows
// for the symbol in the same transaction, so a reader never sees two current
// rows for one ticker.
func (r *Repository) Save(ctx context.Context, rec *contracts.Recommendation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE recommend.recommendations
		SET superseded = TRUE
		WHERE symbol = $1
		  AND status = 'proposed'
		  AND superseded = FALSE
		  AND created_at::date = $2::date
	`, rec.Symbol, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("supersede prior rows: %w", err)
	}

	contractJSON, err := json.Marshal(rec.Contract)
	if err != nil {
		return fmt.Errorf("marshal contract: %w", err)
	}
	rationaleJSON, err := json.Marshal(rec.Rationale)
	if err != nil {
		return fmt.Errorf("marshal rationale: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO recommend.recommendations (
			symbol, contract, score, rationale, status, superseded, created_at
		) VALUES ($1, $2, $3, $4, $5, FALSE, $6)
		RETURNING id
	`, rec.Symbol, contractJSON, rec.Score, rationaleJSON, rec.Status, rec.CreatedAt).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("insert recommendation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetCurrent returns the single current proposed recommendation for a symbol
// on a calendar day, resolved by max created_at
func (r *Repository) GetCurrent(ctx context.Context, symbol string, day time.Time) (*contracts.Recommendation, error) {
	query := `
		SELECT id, symbol, contract, score, rationale, status, created_at
		FROM recommend.recommendations
		WHERE symbol = $1
		  AND status = 'proposed'
		  AND created_at::date = $2::date
		ORDER BY created_at DESC
		LIMIT 1
	`

	rec, err := r.scanOne(r.pool.QueryRow(ctx, query, symbol, day))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get current recommendation: %w", err)
	}

	return rec, nil
}

// ListCurrent returns the current proposed recommendation per symbol for a
// calendar day, best score first
func (r *Repository) ListCurrent(ctx context.Context, day time.Time) ([]contracts.Recommendation, error) {
	query := `
		SELECT DISTINCT ON (symbol)
			id, symbol, contract, score, rationale, status, created_at
		FROM recommend.recommendations
		WHERE status = 'proposed'
		  AND created_at::date = $1::date
		ORDER BY symbol, created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("query recommendations: %w", err)
	}
	defer rows.Close()

	recs := make([]contracts.Recommendation, 0)
	for rows.Next() {
		rec, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		recs = append(recs, *rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate recommendations: %w", rows.Err())
	}

	return recs, nil
}

// UpdateStatus moves a recommendation to executed or dismissed
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status contracts.RecommendationStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE recommend.recommendations SET status = $2 WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("recommendation %d not found", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanOne(row rowScanner) (*contracts.Recommendation, error) {
	var rec contracts.Recommendation
	var contractJSON, rationaleJSON []byte

	err := row.Scan(
		&rec.ID, &rec.Symbol, &contractJSON, &rec.Score,
		&rationaleJSON, &rec.Status, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(contractJSON) > 0 && string(contractJSON) != "null" {
		var c contracts.OptionContract
		if err := json.Unmarshal(contractJSON, &c); err != nil {
			return nil, fmt.Errorf("unmarshal contract: %w", err)
		}
		rec.Contract = &c
	}

	if err := json.Unmarshal(rationaleJSON, &rec.Rationale); err != nil {
		return nil, fmt.Errorf("unmarshal rationale: %w", err)
	}

	return &rec, nil
}
