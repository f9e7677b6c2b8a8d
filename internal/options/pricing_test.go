package options

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wheelhouse-quant/wheelhouse/internal/contracts"
)

func TestMidPrice(t *testing.T) {
	tests := []struct {
		name string
		c    contracts.OptionContract
		want float64
	}{
		{"both sides live", contracts.OptionContract{Bid: 2.40, Ask: 2.60, Last: 3.00}, 2.50},
		{"falls back to last", contracts.OptionContract{Last: 1.80}, 1.80},
		{"falls back to ask", contracts.OptionContract{Ask: 1.20}, 1.20},
		{"falls back to bid", contracts.OptionContract{Bid: 0.90}, 0.90},
		{"no usable price", contracts.OptionContract{}, 0},
		{"one-sided book prefers last", contracts.OptionContract{Ask: 2.00, Last: 1.50}, 1.50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MidPrice(&tt.c), 1e-9)
		})
	}
}

func TestSpreadPct(t *testing.T) {
	// mid 1.10, spread 0.20
	assert.InDelta(t, 18.1818, SpreadPct(1.00, 1.20), 0.001)

	// Degenerate books hit the sentinel so the spread gate rejects them
	assert.Equal(t, SpreadSentinel, SpreadPct(0, 1.20))
	assert.Equal(t, SpreadSentinel, SpreadPct(1.00, 0))
	assert.Equal(t, SpreadSentinel, SpreadPct(1.20, 1.00))
	assert.Equal(t, SpreadSentinel, SpreadPct(1.00, 1.00))
}

func TestAnnualizedYieldPct(t *testing.T) {
	// 2.50 premium on a 50 strike for 30 days:
	// (250/5000) / (30/365) * 100 = 60.83%
	assert.InDelta(t, 60.8333, AnnualizedYieldPct(2.50, 50, 30), 0.001)

	assert.Zero(t, AnnualizedYieldPct(2.50, 50, 0))
	assert.Zero(t, AnnualizedYieldPct(2.50, 0, 30))
	assert.Zero(t, AnnualizedYieldPct(0, 50, 30))
}

func TestCreditAndROI(t *testing.T) {
	credit := TotalCredit(2.50, 1)
	collateral := Collateral(50, 1)

	assert.Equal(t, 250.0, credit)
	assert.Equal(t, 5000.0, collateral)

	// Single-contract ROI equals the premium yield by construction
	roi := AnnualizedROIPct(credit, collateral, 30)
	assert.InDelta(t, AnnualizedYieldPct(2.50, 50, 30), roi, 1e-9)

	// Non-positive quantity falls back to one contract
	assert.Equal(t, 250.0, TotalCredit(2.50, 0))
	assert.Equal(t, 5000.0, Collateral(50, -3))

	assert.Zero(t, AnnualizedROIPct(250, 0, 30))
	assert.Zero(t, AnnualizedROIPct(250, 5000, 0))
}
