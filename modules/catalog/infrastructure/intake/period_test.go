package intake

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	month, year, err := ParsePeriod("SINAPI_2024_01_MG.zip")
	require.NoError(t, err)
	require.Equal(t, 1, month)
	require.Equal(t, 2024, year)

	month, year, err = ParsePeriod("sicro-rs-202507.xlsx")
	require.NoError(t, err)
	require.Equal(t, 7, month)
	require.Equal(t, 2025, year)

	_, _, err = ParsePeriod("catalogo.xlsx")
	require.ErrorIs(t, err, ErrPeriodNotFound)
}
