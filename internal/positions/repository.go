package positions

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wheelhouse-quant/wheelhouse/internal/contracts"
)

// Repository reads open brokerage positions. The table is written by the
// broker sync process; the engine only ever reads it.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new position repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetOpenPositions returns all positions with non-zero quantity
func (r *Repository) GetOpenPositions(ctx context.Context) ([]contracts.Position, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT symbol, quantity
		FROM broker.positions
		WHERE quantity <> 0
	`)
	if err != nil {
		return nil, fmt.Errorf("query positions: %w", err)
	}
	defer rows.Close()

	positions := make([]contracts.Position, 0)
	for rows.Next() {
		var p contracts.Position
		if err := rows.Scan(&p.Symbol, &p.Quantity); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		positions = append(positions, p)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate positions: %w", rows.Err())
	}

	return positions, nil
}
