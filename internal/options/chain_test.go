package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheelhouse-quant/wheelhouse/internal/contracts"
	"github.com/wheelhouse-quant/wheelhouse/pkg/logger"
)

func testChainConfig() ChainConfig {
	return ChainConfig{
		DTEMin:           21,
		DTEMax:           35,
		DeltaMin:         0.15,
		DeltaMax:         0.35,
		MinOpenInterest:  100,
		MinVolume:        10,
		MaxBidAskPct:     15.0,
		AnnualizedMinPct: 12.0,
	}
}

// goodPut passes every gate: DTE 30, |delta| 0.30, spread 8%, yield 32%
func goodPut() contracts.OptionContract {
	return contracts.OptionContract{
		ContractSymbol: "XYZ260204P00095000",
		Underlying:     "XYZ",
		Expiry:         testNow.AddDate(0, 0, 30),
		Strike:         95,
		Type:           contracts.OptionPut,
		Bid:            2.40,
		Ask:            2.60,
		Delta:          floatPtr(-0.30),
		ImpliedVol:     floatPtr(0.30),
		OpenInterest:   500,
		Volume:         50,
	}
}

func TestChainFilter(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*contracts.OptionContract)
		want   string
	}{
		{"passes all gates", func(c *contracts.OptionContract) {}, ""},
		{"rejects calls", func(c *contracts.OptionContract) {
			c.Type = contracts.OptionCall
		}, "not_put"},
		{"rejects short dte", func(c *contracts.OptionContract) {
			c.Expiry = testNow.AddDate(0, 0, 10)
		}, "dte"},
		{"rejects long dte", func(c *contracts.OptionContract) {
			c.Expiry = testNow.AddDate(0, 0, 60)
		}, "dte"},
		{"rejects missing delta", func(c *contracts.OptionContract) {
			c.Delta = nil
		}, "no_delta"},
		{"rejects delta outside band", func(c *contracts.OptionContract) {
			c.Delta = floatPtr(-0.50)
		}, "delta"},
		{"rejects low open interest", func(c *contracts.OptionContract) {
			c.OpenInterest = 50
		}, "open_interest"},
		{"rejects low volume", func(c *contracts.OptionContract) {
			c.Volume = 5
		}, "volume"},
		{"rejects wide spread", func(c *contracts.OptionContract) {
			c.Bid, c.Ask = 1.00, 1.50
		}, "spread"},
		{"rejects one-sided book via spread sentinel", func(c *contracts.OptionContract) {
			c.Bid = 0
		}, "spread"},
		{"rejects thin yield", func(c *contracts.OptionContract) {
			c.Bid, c.Ask = 0.095, 0.105
		}, "yield"},
	}

	f := NewChainFilter(testChainConfig(), logger.NewNop())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := goodPut()
			tt.mutate(&c)
			assert.Equal(t, tt.want, f.check(&c, testNow))
		})
	}
}

func TestChainFilter_Filter(t *testing.T) {
	good := goodPut()
	call := goodPut()
	call.Type = contracts.OptionCall
	thin := goodPut()
	thin.OpenInterest = 1

	f := NewChainFilter(testChainConfig(), logger.NewNop())
	passed := f.Filter([]contracts.OptionContract{good, call, thin}, testNow)

	assert.Len(t, passed, 1)
	assert.Equal(t, good.ContractSymbol, passed[0].ContractSymbol)
}

// Tightening any single gate can only shrink the surviving set, never
// admit a contract the looser config rejected
func TestChainFilter_TighteningShrinksSurvivors(t *testing.T) {
	rich := goodPut()
	rich.ContractSymbol = "XYZ260204P00095001"

	// OI 150, |delta| 0.18, mid 1.25 (~16% annualized)
	marginal := goodPut()
	marginal.ContractSymbol = "XYZ260204P00095002"
	marginal.OpenInterest = 150
	marginal.Volume = 15
	marginal.Delta = floatPtr(-0.18)
	marginal.Bid, marginal.Ask = 1.20, 1.30

	// spread ~12.2%, inside the 15% baseline ceiling
	wide := goodPut()
	wide.ContractSymbol = "XYZ260204P00095003"
	wide.Bid, wide.Ask = 2.00, 2.26

	edge := goodPut()
	edge.ContractSymbol = "XYZ260204P00095004"
	edge.Delta = floatPtr(-0.34)

	chain := []contracts.OptionContract{rich, marginal, wide, edge}

	baseline := NewChainFilter(testChainConfig(), logger.NewNop()).Filter(chain, testNow)
	require.Len(t, baseline, len(chain))

	base := make(map[string]bool, len(baseline))
	for _, c := range baseline {
		base[c.ContractSymbol] = true
	}

	tighten := []struct {
		name   string
		mutate func(*ChainConfig)
	}{
		{"higher open interest floor", func(c *ChainConfig) { c.MinOpenInterest = 400 }},
		{"higher volume floor", func(c *ChainConfig) { c.MinVolume = 25 }},
		{"narrower delta band", func(c *ChainConfig) { c.DeltaMin, c.DeltaMax = 0.20, 0.32 }},
		{"lower spread ceiling", func(c *ChainConfig) { c.MaxBidAskPct = 10 }},
		{"higher yield floor", func(c *ChainConfig) { c.AnnualizedMinPct = 20 }},
		{"narrower dte window", func(c *ChainConfig) { c.DTEMin, c.DTEMax = 28, 32 }},
	}

	for _, tt := range tighten {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testChainConfig()
			tt.mutate(&cfg)

			passed := NewChainFilter(cfg, logger.NewNop()).Filter(chain, testNow)
			assert.LessOrEqual(t, len(passed), len(baseline))
			for _, c := range passed {
				assert.True(t, base[c.ContractSymbol], c.ContractSymbol)
			}
		})
	}
}

func TestChainFilter_DeltaSignAgnostic(t *testing.T) {
	// Some vendors report put delta unsigned; the band compares magnitude
	f := NewChainFilter(testChainConfig(), logger.NewNop())

	c := goodPut()
	c.Delta = floatPtr(0.30)
	assert.Equal(t, "", f.check(&c, testNow))
}
