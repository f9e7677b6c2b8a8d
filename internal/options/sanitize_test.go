package options

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wheelhouse-quant/wheelhouse/internal/contracts"
)

func TestSanitizeFloat(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"finite passes through", 42.5, 42.5},
		{"NaN becomes zero", math.NaN(), 0},
		{"positive infinity", math.Inf(1), sanitizeSentinel},
		{"negative infinity", math.Inf(-1), -sanitizeSentinel},
		{"absurd positive magnitude", 1e12, sanitizeSentinel},
		{"absurd negative magnitude", -1e12, -sanitizeSentinel},
		{"boundary magnitude passes", 1e10, 1e10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFloat(tt.in))
		})
	}
}

func TestSanitizeRationale(t *testing.T) {
	r := contracts.Rationale{
		MidPrice:         2.5,
		AnnualizedROIPct: math.Inf(1),
		SupportScore:     math.NaN(),
		CompositeScore:   0.73,
	}

	SanitizeRationale(&r)

	assert.Equal(t, 2.5, r.MidPrice)
	assert.Equal(t, sanitizeSentinel, r.AnnualizedROIPct)
	assert.Zero(t, r.SupportScore)
	assert.Equal(t, 0.73, r.CompositeScore)
}

func TestSanitizeValue(t *testing.T) {
	payload := map[string]interface{}{
		"score": math.NaN(),
		"nested": map[string]interface{}{
			"roi": math.Inf(1),
		},
		"list": []interface{}{1.5, math.Inf(-1), "text"},
		"text": "unchanged",
	}

	out := SanitizeValue(payload).(map[string]interface{})

	assert.Equal(t, 0.0, out["score"])
	assert.Equal(t, sanitizeSentinel, out["nested"].(map[string]interface{})["roi"])
	assert.Equal(t, []interface{}{1.5, -sanitizeSentinel, "text"}, out["list"])
	assert.Equal(t, "unchanged", out["text"])
}
