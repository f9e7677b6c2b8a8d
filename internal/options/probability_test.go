package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func TestPoPFromDelta(t *testing.T) {
	assert.Equal(t, 0.5, PoPFromDelta(nil))
	assert.InDelta(t, 0.70, PoPFromDelta(floatPtr(-0.30)), 1e-9)
	assert.InDelta(t, 0.85, PoPFromDelta(floatPtr(0.15)), 1e-9)
	assert.Equal(t, 0.0, PoPFromDelta(floatPtr(-1.5)))
}

func TestPoPBlackScholes(t *testing.T) {
	years := 30.0 / 365

	// At the money: roughly a coin flip
	atm := PoPBlackScholes(100, 100, 0.30, 0.05, years)
	assert.InDelta(t, 0.5, atm, 0.05)

	// Deep OTM put: strike far below spot, expiry above strike is near-certain
	deep := PoPBlackScholes(100, 70, 0.30, 0.05, years)
	assert.Greater(t, deep, 0.9)

	// Lower strike always means higher probability of finishing above it
	p90 := PoPBlackScholes(100, 90, 0.30, 0.05, years)
	p95 := PoPBlackScholes(100, 95, 0.30, 0.05, years)
	assert.Greater(t, p90, p95)
	assert.Greater(t, p95, atm)

	// Degenerate inputs return neutral
	assert.Equal(t, 0.5, PoPBlackScholes(0, 100, 0.30, 0.05, years))
	assert.Equal(t, 0.5, PoPBlackScholes(100, 0, 0.30, 0.05, years))
	assert.Equal(t, 0.5, PoPBlackScholes(100, 100, 0, 0.05, years))
	assert.Equal(t, 0.5, PoPBlackScholes(100, 100, 0.30, 0.05, 0))
}

func TestMonteCarlo_Deterministic(t *testing.T) {
	years := 30.0 / 365

	a := NewMonteCarlo(2000, 42).PoP(100, 95, 0.30, 0.05, years)
	b := NewMonteCarlo(2000, 42).PoP(100, 95, 0.30, 0.05, years)

	assert.Equal(t, a, b)
}

func TestMonteCarlo_AgreesWithBlackScholes(t *testing.T) {
	years := 30.0 / 365

	bs := PoPBlackScholes(100, 90, 0.30, 0.05, years)
	mc := NewMonteCarlo(20_000, 7).PoP(100, 90, 0.30, 0.05, years)

	// Both estimate the same risk-neutral probability; simulation noise
	// stays inside a few points at 20k paths
	assert.InDelta(t, bs, mc, 0.03)
}

func TestMonteCarlo_Degenerate(t *testing.T) {
	mc := NewMonteCarlo(100, 1)

	assert.Equal(t, 0.5, mc.PoP(0, 90, 0.30, 0.05, 0.1))
	assert.Equal(t, 0.5, mc.PoP(100, 0, 0.30, 0.05, 0.1))
	assert.Equal(t, 0.5, mc.PoP(100, 90, 0, 0.05, 0.1))
	assert.Equal(t, 0.5, mc.PoP(100, 90, 0.30, 0.05, 0))
}
