package intake

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, scanner *CompositionScanner, rows [][]string) []Event {
	t.Helper()
	var out []Event
	for _, row := range rows {
		out = append(out, scanner.Next(row)...)
	}
	return out
}

func TestCompositionScannerFullBlock(t *testing.T) {
	known := map[string]bool{"4011210": true}
	scanner := NewCompositionScanner(func(code string) bool { return known[code] })

	rows := [][]string{
		{"4011210", "Escavação mecânica de vala em material de 1ª categoria"},
		{"", "Produção da equipe", "", "", "", "", "", "85,0000", "m³"},
		{"A - EQUIPAMENTOS", "", "Quantidade"},
		{"E9511", "Escavadeira hidráulica", "1,0000", "h"},
		{"B - MÃO DE OBRA"},
		{"P9824", "Servente", "2,0000", "h"},
		{"C - MATERIAL"},
		{"M0301", "Areia média", "0,2500", "m³"},
		{"", "CUSTO TOTAL", "", "", "", "", "", "", "123,45"},
	}

	events := scanAll(t, scanner, rows)
	require.Len(t, events, 6)

	require.Equal(t, StartComposition{Code: "4011210"}, events[0])

	rate, ok := events[1].(ProductionRate)
	require.True(t, ok)
	require.Equal(t, "85", rate.Rate.String())
	require.Equal(t, "m³", rate.Unit)

	member, ok := events[2].(MemberRow)
	require.True(t, ok)
	require.Equal(t, "E9511", member.Code)
	require.Equal(t, SectionEquipment, member.Section)
	require.Equal(t, "1", member.Quantity.String())

	member = events[3].(MemberRow)
	require.Equal(t, "P9824", member.Code)
	require.Equal(t, SectionLabor, member.Section)

	member = events[4].(MemberRow)
	require.Equal(t, "M0301", member.Code)
	require.Equal(t, SectionMaterial, member.Section)
	require.Equal(t, "Areia média", member.Description)
	require.Equal(t, "m³", member.Unit)

	require.Equal(t, EndComposition{}, events[5])
}

func TestCompositionScannerUnknownCodeSkipsBlock(t *testing.T) {
	scanner := NewCompositionScanner(func(string) bool { return false })

	rows := [][]string{
		{"9999999", "Composição fora do catálogo"},
		{"A - EQUIPAMENTOS"},
		{"E9511", "Escavadeira", "1,0000", "h"},
		{"", "CUSTO TOTAL"},
	}
	require.Empty(t, scanAll(t, scanner, rows))
}

func TestCompositionScannerMemberRowsNeedQuantity(t *testing.T) {
	scanner := NewCompositionScanner(func(string) bool { return true })

	rows := [][]string{
		{"4011210", "Escavação mecânica de vala"},
		{"C - MATERIAL"},
		{"M0301", "Areia média", "", "m³"},
		{"M0302", "Brita 1", "texto", "m³"},
		{"M0303", "Cimento", "0,5000", "kg"},
	}
	events := scanAll(t, scanner, rows)
	require.Len(t, events, 2)
	require.Equal(t, "M0303", events[1].(MemberRow).Code)
}

func TestCompositionScannerProductionColumnFallback(t *testing.T) {
	scanner := NewCompositionScanner(func(string) bool { return true })

	scanner.Next([]string{"4011210", "Escavação mecânica de vala"})
	events := scanner.Next([]string{"", "Produção da equipe", "", "", "", "", "42,0000", "m²"})
	require.Len(t, events, 1)
	rate := events[0].(ProductionRate)
	require.Equal(t, "42", rate.Rate.String())
	require.Equal(t, "m²", rate.Unit)
}

func TestCompositionScannerBackToBackBlocks(t *testing.T) {
	scanner := NewCompositionScanner(func(string) bool { return true })

	rows := [][]string{
		{"4011210", "Escavação mecânica de vala"},
		{"C - MATERIAL"},
		{"M0301", "Areia média", "0,2500", "m³"},
		// A new header from inside a section still opens the next block.
		{"4011211", "Escavação mecânica de vala em rocha"},
	}
	events := scanAll(t, scanner, rows)
	require.Len(t, events, 3)
	require.Equal(t, StartComposition{Code: "4011211"}, events[2])
}
