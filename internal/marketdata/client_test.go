package marketdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheelhouse-quant/wheelhouse/internal/contracts"
)

func TestParseContract(t *testing.T) {
	c := &Client{}

	valid := chainContract{
		ContractSymbol: "XYZ260204P00095000",
		Expiry:         "2026-02-04",
		Strike:         95,
		Side:           "put",
		Bid:            2.40,
		Ask:            2.60,
		OpenInterest:   500,
		Volume:         50,
	}

	got, err := c.parseContract("XYZ", valid)
	require.NoError(t, err)
	assert.Equal(t, "XYZ", got.Underlying)
	assert.Equal(t, contracts.OptionPut, got.Type)
	assert.Equal(t, 95.0, got.Strike)
	assert.Equal(t, 2026, got.Expiry.Year())

	tests := []struct {
		name   string
		mutate func(*chainContract)
	}{
		{"non-positive strike", func(cc *chainContract) { cc.Strike = 0 }},
		{"malformed expiry", func(cc *chainContract) { cc.Expiry = "02/04/2026" }},
		{"unknown side", func(cc *chainContract) { cc.Side = "straddle" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := valid
			tt.mutate(&cc)
			_, err := c.parseContract("XYZ", cc)
			assert.Error(t, err)
		})
	}
}
