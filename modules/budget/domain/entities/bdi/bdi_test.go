package bdi

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRateClosedForm(t *testing.T) {
	config := Config{
		Administration: decimal.RequireFromString("0.03"),
		Insurance:      decimal.RequireFromString("0.008"),
		Risk:           decimal.RequireFromString("0.0127"),
		Financial:      decimal.RequireFromString("0.0059"),
		Profit:         decimal.RequireFromString("0.074"),
		ISS:            decimal.RequireFromString("0.132"),
	}
	require.Equal(t, "0.3077", config.Rate().Round(4).String())
}

func TestRateZeroWhenTaxesReachOne(t *testing.T) {
	config := Config{
		Profit: decimal.RequireFromString("0.074"),
		ISS:    decimal.RequireFromString("0.6"),
		COFINS: decimal.RequireFromString("0.5"),
	}
	require.True(t, config.Rate().IsZero())
}

func TestDefaultConfigRatePercent(t *testing.T) {
	require.Equal(t, "30.7", DefaultConfig().RatePercent().String())
}

func TestTaxesSumFourRates(t *testing.T) {
	config := DefaultConfig()
	require.Equal(t, "0.1315", config.Taxes().String())
}
