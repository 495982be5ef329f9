package intake

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ItemRow is one extracted catalog entry. Prices may be empty: a valid code
// with no parseable price still registers the item.
type ItemRow struct {
	Code        string
	Description string
	Unit        string
	Prices      map[string]decimal.Decimal
}

// ExtractRows walks the data rows below the header and produces normalized
// item rows. Garbage rows (empty, zero or label-like codes) are counted as
// skipped, never fatal.
func ExtractRows(rows [][]string, layout HeaderLayout) (items []ItemRow, skipped int) {
	for i := layout.HeaderRow + 1; i < len(rows); i++ {
		row := rows[i]
		if layout.CodeCol >= len(row) {
			continue
		}
		code := ExtractCode(row[layout.CodeCol])
		if !validCode(code) {
			skipped++
			continue
		}

		item := ItemRow{
			Code:        strings.TrimSpace(code),
			Description: cellAt(row, layout.DescCol),
			Unit:        cellAt(row, layout.UnitCol),
			Prices:      map[string]decimal.Decimal{},
		}
		for region, col := range layout.RegionCols {
			if col >= len(row) {
				continue
			}
			price, ok := ParseDecimal(row[col])
			if !ok || price.IsNegative() {
				continue
			}
			item.Prices[region] = price
		}
		items = append(items, item)
	}
	return items, skipped
}

func validCode(code string) bool {
	if code == "" || code == "0" {
		return false
	}
	upper := NormalizeToken(code)
	if strings.HasPrefix(upper, "COD") || strings.Contains(upper, "GRUPO") {
		return false
	}
	return true
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
