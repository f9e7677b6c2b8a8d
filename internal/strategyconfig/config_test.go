package strategyconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Valid(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

func TestLoad(t *testing.T) {
	yaml := `
meta:
  strategy_id: csp_test
  version: "1.0"
  timezone: America/New_York
universe:
  price_min: 5.0
  price_max: 500.0
  market_cap_min_billions: 1.0
  volume_avg_20d_min: 200000
  volatility_30d_max_pct: 100.0
  beta_max: 3.0
  pe_max: 150.0
  earnings_blackout_days: 5
  quote_staleness_mins: 30
scoring:
  market_cap_weight: 0.25
  volume_weight: 0.20
  volatility_weight: 0.20
  beta_weight: 0.15
  pe_weight: 0.10
  dividend_weight: 0.10
options:
  dte_min: 25
  dte_max: 40
  delta_min: 0.10
  delta_max: 0.30
  min_open_interest: 200
  min_volume: 20
  max_bid_ask_pct: 10.0
  annualized_min_pct: 15.0
  risk_free_rate: 0.04
  monte_carlo_paths: 5000
  oi_score_threshold: 400
  volume_score_threshold: 80
selection:
  top_k: 25
  min_score_threshold: 0.6
`
	path := filepath.Join(t.TempDir(), "strategy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "csp_test", cfg.Meta.StrategyID)
	assert.Equal(t, 25, cfg.Options.DTEMin)
	assert.Equal(t, 0.6, cfg.Selection.MinScoreThreshold)
	assert.Equal(t, 400.0, cfg.Options.OIScoreThreshold)
	assert.Equal(t, 80.0, cfg.Options.VolumeScoreThreshold)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	yaml := `
meta:
  strategy_id: csp_test
  version: "1.0"
  timezone: America/New_York
  unknown_field: true
`
	path := filepath.Join(t.TempDir(), "strategy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_WeightsMustSumToOne(t *testing.T) {
	cfg := Default()
	cfg.Scoring.MarketCapWeight = 0.5

	err := Validate(cfg)
	assert.Error(t, err)
}

func TestValidate_BandOrdering(t *testing.T) {
	cfg := Default()
	cfg.Options.DTEMin = 40
	cfg.Options.DTEMax = 21
	assert.Error(t, Validate(cfg))

	cfg = Default()
	cfg.Universe.PriceMin = 2000
	assert.Error(t, Validate(cfg))

	cfg = Default()
	cfg.Options.DeltaMin = 0.5
	cfg.Options.DeltaMax = 0.2
	assert.Error(t, Validate(cfg))

	cfg = Default()
	cfg.Options.OIScoreThreshold = 0
	assert.Error(t, Validate(cfg))
}

func TestValidate_Timezone(t *testing.T) {
	cfg := Default()
	cfg.Meta.Timezone = "Mars/Olympus_Mons"
	assert.Error(t, Validate(cfg))
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestHash_Stable(t *testing.T) {
	a, err := Hash(Default())
	require.NoError(t, err)
	b, err := Hash(Default())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	changed := Default()
	changed.Options.DTEMin = 22
	c, err := Hash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
