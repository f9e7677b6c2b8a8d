package universe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheelhouse-quant/wheelhouse/internal/contracts"
)

var filterNow = time.Date(2026, 1, 5, 21, 0, 0, 0, time.UTC)

func floatPtr(v float64) *float64    { return &v }
func timePtr(v time.Time) *time.Time { return &v }

func testFilterConfig() FilterConfig {
	return FilterConfig{
		PriceMin:             3.0,
		PriceMax:             1000.0,
		MarketCapMinBillions: 0.5,
		VolumeAvg20DMin:      100_000,
		Volatility30DMaxPct:  120.0,
		BetaMax:              4.0,
		PEMax:                200.0,
		EarningsBlackoutDays: 7,
		QuoteStaleness:       60 * time.Minute,
	}
}

func passingTicker() (contracts.Ticker, *contracts.Quote) {
	ticker := contracts.Ticker{
		Symbol:    "XYZ",
		MarketCap: 10,
		Beta:      floatPtr(1.1),
		PERatio:   floatPtr(22),
		Active:    true,
	}
	quote := &contracts.Quote{
		Symbol:        "XYZ",
		CurrentPrice:  100,
		VolumeAvg20D:  2_000_000,
		Volatility30D: floatPtr(35),
		UpdatedAt:     filterNow.Add(-5 * time.Minute),
	}
	return ticker, quote
}

func TestFilter_Passes(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*contracts.Ticker, *contracts.Quote)
		wantPass   bool
		wantReason string
	}{
		{
			name:     "passes all gates",
			mutate:   func(tk *contracts.Ticker, q *contracts.Quote) {},
			wantPass: true,
		},
		{
			name: "stale quote",
			mutate: func(tk *contracts.Ticker, q *contracts.Quote) {
				q.UpdatedAt = filterNow.Add(-2 * time.Hour)
			},
			wantReason: "no_quote",
		},
		{
			name: "price below band",
			mutate: func(tk *contracts.Ticker, q *contracts.Quote) {
				q.CurrentPrice = 2.50
			},
			wantReason: "price",
		},
		{
			name: "price above band",
			mutate: func(tk *contracts.Ticker, q *contracts.Quote) {
				q.CurrentPrice = 1500
			},
			wantReason: "price",
		},
		{
			name: "micro cap",
			mutate: func(tk *contracts.Ticker, q *contracts.Quote) {
				tk.MarketCap = 0.2
			},
			wantReason: "market_cap",
		},
		{
			name: "illiquid",
			mutate: func(tk *contracts.Ticker, q *contracts.Quote) {
				q.VolumeAvg20D = 50_000
			},
			wantReason: "volume",
		},
		{
			name: "extreme volatility",
			mutate: func(tk *contracts.Ticker, q *contracts.Quote) {
				q.Volatility30D = floatPtr(150)
			},
			wantReason: "volatility",
		},
		{
			name: "extreme beta",
			mutate: func(tk *contracts.Ticker, q *contracts.Quote) {
				tk.Beta = floatPtr(5.5)
			},
			wantReason: "beta",
		},
		{
			name: "extreme valuation",
			mutate: func(tk *contracts.Ticker, q *contracts.Quote) {
				tk.PERatio = floatPtr(350)
			},
			wantReason: "pe_ratio",
		},
		{
			name: "earnings ahead inside blackout",
			mutate: func(tk *contracts.Ticker, q *contracts.Quote) {
				tk.NextEarningsDate = timePtr(filterNow.AddDate(0, 0, 3))
			},
			wantReason: "earnings_blackout",
		},
		{
			name: "earnings behind inside blackout",
			mutate: func(tk *contracts.Ticker, q *contracts.Quote) {
				tk.NextEarningsDate = timePtr(filterNow.AddDate(0, 0, -3))
			},
			wantReason: "earnings_blackout",
		},
		{
			name: "earnings outside blackout passes",
			mutate: func(tk *contracts.Ticker, q *contracts.Quote) {
				tk.NextEarningsDate = timePtr(filterNow.AddDate(0, 0, 20))
			},
			wantPass: true,
		},
		{
			name: "missing optional fields pass",
			mutate: func(tk *contracts.Ticker, q *contracts.Quote) {
				tk.Beta = nil
				tk.PERatio = nil
				q.Volatility30D = nil
			},
			wantPass: true,
		},
	}

	f := NewFilter(testFilterConfig())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticker, quote := passingTicker()
			tt.mutate(&ticker, quote)

			pass, reason := f.Passes(&ticker, quote, filterNow)
			assert.Equal(t, tt.wantPass, pass)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

// Tightening any single gate can only shrink the passing set, never admit
// a ticker the looser config rejected
func TestFilter_TighteningShrinksPassers(t *testing.T) {
	type entry struct {
		ticker contracts.Ticker
		quote  *contracts.Quote
	}

	blueChip, blueChipQuote := passingTicker()
	blueChip.Symbol = "AAA"
	blueChipQuote.Symbol = "AAA"

	small := contracts.Ticker{
		Symbol:    "BBB",
		MarketCap: 0.8,
		Beta:      floatPtr(0.9),
		PERatio:   floatPtr(15),
		Active:    true,
	}
	smallQuote := &contracts.Quote{
		Symbol:        "BBB",
		CurrentPrice:  8,
		VolumeAvg20D:  150_000,
		Volatility30D: floatPtr(25),
		UpdatedAt:     filterNow.Add(-5 * time.Minute),
	}

	momentum := contracts.Ticker{
		Symbol:    "CCC",
		MarketCap: 50,
		Beta:      floatPtr(3.5),
		PERatio:   floatPtr(180),
		Active:    true,
	}
	momentumQuote := &contracts.Quote{
		Symbol:        "CCC",
		CurrentPrice:  800,
		VolumeAvg20D:  500_000,
		Volatility30D: floatPtr(110),
		UpdatedAt:     filterNow.Add(-5 * time.Minute),
	}

	aging := contracts.Ticker{
		Symbol:    "DDD",
		MarketCap: 3,
		Beta:      floatPtr(1.8),
		PERatio:   floatPtr(80),
		Active:    true,
	}
	agingQuote := &contracts.Quote{
		Symbol:        "DDD",
		CurrentPrice:  60,
		VolumeAvg20D:  2_000_000,
		Volatility30D: floatPtr(60),
		UpdatedAt:     filterNow.Add(-45 * time.Minute),
	}

	entries := []entry{
		{blueChip, blueChipQuote},
		{small, smallQuote},
		{momentum, momentumQuote},
		{aging, agingQuote},
	}

	passers := func(f *Filter) map[string]bool {
		out := make(map[string]bool)
		for i := range entries {
			if ok, _ := f.Passes(&entries[i].ticker, entries[i].quote, filterNow); ok {
				out[entries[i].ticker.Symbol] = true
			}
		}
		return out
	}

	base := passers(NewFilter(testFilterConfig()))
	require.Len(t, base, len(entries))

	tighten := []struct {
		name   string
		mutate func(*FilterConfig)
	}{
		{"narrower price band", func(c *FilterConfig) { c.PriceMin, c.PriceMax = 10, 500 }},
		{"higher market cap floor", func(c *FilterConfig) { c.MarketCapMinBillions = 2 }},
		{"higher volume floor", func(c *FilterConfig) { c.VolumeAvg20DMin = 1_000_000 }},
		{"lower volatility ceiling", func(c *FilterConfig) { c.Volatility30DMaxPct = 50 }},
		{"lower beta ceiling", func(c *FilterConfig) { c.BetaMax = 1.5 }},
		{"lower valuation ceiling", func(c *FilterConfig) { c.PEMax = 50 }},
		{"shorter staleness window", func(c *FilterConfig) { c.QuoteStaleness = 30 * time.Minute }},
	}

	for _, tt := range tighten {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testFilterConfig()
			tt.mutate(&cfg)

			got := passers(NewFilter(cfg))
			assert.LessOrEqual(t, len(got), len(base))
			for symbol := range got {
				assert.True(t, base[symbol], symbol)
			}
		})
	}
}

func TestFilter_NilQuote(t *testing.T) {
	f := NewFilter(testFilterConfig())
	ticker, _ := passingTicker()

	pass, reason := f.Passes(&ticker, nil, filterNow)
	assert.False(t, pass)
	assert.Equal(t, "no_quote", reason)
}
