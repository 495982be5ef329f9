package intake

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractRows(t *testing.T) {
	rows := [][]string{
		{"", "Código", "Descrição", "Unidade", "Preço RS"},
		{"", `=HYPERLINK("#x";88316)`, "Servente com encargos", "H", "18,50"},
		{"", "COD AUXILIAR", "linha de rótulo", "", ""},
		{"", "0", "linha zerada", "", ""},
		{"", "4011", "Cimento Portland", "KG", "-5,00"},
		{"", "GRUPO 10", "agrupador", "", ""},
		{"", "7777", "Item sem preço", "UN", "texto"},
	}
	layout := HeaderLayout{HeaderRow: 0, CodeCol: 1, DescCol: 2, UnitCol: 3, RegionCols: map[string]int{"RS": 4}}

	items, skipped := ExtractRows(rows, layout)
	require.Equal(t, 3, skipped)
	require.Len(t, items, 3)

	require.Equal(t, "88316", items[0].Code)
	require.Equal(t, "Servente com encargos", items[0].Description)
	require.Equal(t, "H", items[0].Unit)
	require.Equal(t, "18.5", items[0].Prices["RS"].String())

	// Negative price dropped, row still registered.
	require.Equal(t, "4011", items[1].Code)
	require.Empty(t, items[1].Prices)

	// Unparseable price likewise.
	require.Equal(t, "7777", items[2].Code)
	require.Empty(t, items[2].Prices)
}
