package recommend

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheelhouse-quant/wheelhouse/internal/contracts"
)

// testPool connects to the integration database or skips
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}
	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), connString)
	require.NoError(t, err, "database connection failed")
	t.Cleanup(pool.Close)

	return pool
}

func TestRepository_SaveSupersedes(t *testing.T) {
	pool := testPool(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	day := time.Now()
	symbol := "ZZTEST"

	t.Cleanup(func() {
		_, _ = pool.Exec(ctx,
			`DELETE FROM recommend.recommendations WHERE symbol = $1`, symbol)
	})

	first := &contracts.Recommendation{
		Symbol:    symbol,
		Contract:  &contracts.OptionContract{Strike: 95, Type: contracts.OptionPut},
		Score:     0.61,
		Status:    contracts.StatusProposed,
		CreatedAt: day,
	}
	require.NoError(t, repo.Save(ctx, first))
	require.NotZero(t, first.ID)

	second := &contracts.Recommendation{
		Symbol:    symbol,
		Contract:  &contracts.OptionContract{Strike: 90, Type: contracts.OptionPut},
		Score:     0.72,
		Status:    contracts.StatusProposed,
		CreatedAt: day.Add(time.Minute),
	}
	require.NoError(t, repo.Save(ctx, second))

	// The later save is current; the first row survives flagged superseded
	current, err := repo.GetCurrent(ctx, symbol, day)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, second.ID, current.ID)
	assert.Equal(t, 90.0, current.Contract.Strike)

	var superseded bool
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT superseded FROM recommend.recommendations WHERE id = $1`, first.ID,
	).Scan(&superseded))
	assert.True(t, superseded)
}

func TestRepository_UpdateStatus(t *testing.T) {
	pool := testPool(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	symbol := "ZZTEST2"
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx,
			`DELETE FROM recommend.recommendations WHERE symbol = $1`, symbol)
	})

	rec := &contracts.Recommendation{
		Symbol:    symbol,
		Contract:  &contracts.OptionContract{Strike: 50, Type: contracts.OptionPut},
		Score:     0.55,
		Status:    contracts.StatusProposed,
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Save(ctx, rec))

	require.NoError(t, repo.UpdateStatus(ctx, rec.ID, contracts.StatusExecuted))

	assert.Error(t, repo.UpdateStatus(ctx, -1, contracts.StatusDismissed))
}
