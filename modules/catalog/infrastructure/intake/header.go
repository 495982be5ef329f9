package intake

import (
	"strings"

	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/serrors"
)

const headerScanLimit = 50

var ErrNoHeaderRow = serrors.NewError(
	"IMPORT_NO_HEADER_ROW",
	"no header row with code and description columns found",
	"",
)

// HeaderLayout maps the columns a catalog sheet will be read with. RegionCols
// holds one price column per detected UF token.
type HeaderLayout struct {
	HeaderRow  int
	CodeCol    int
	DescCol    int
	UnitCol    int
	RegionCols map[string]int
}

// LocateHeader scans the first rows of a sheet for the header and resolves
// the column mapping. regionFilter narrows to one UF ("" or "ALL" keeps
// every detected region); filename feeds the single-region fallback.
//
// The bool result is false when the sheet should be skipped: either no header
// row exists, no region column could be resolved, or an explicit filter
// matched no column.
func LocateHeader(rows [][]string, regionFilter, filename string) (HeaderLayout, bool) {
	layout := HeaderLayout{CodeCol: -1, DescCol: -1, UnitCol: -1, HeaderRow: -1}

	limit := headerScanLimit
	if len(rows) < limit {
		limit = len(rows)
	}
	for i := 0; i < limit; i++ {
		joined := NormalizeToken(strings.Join(rows[i], " "))
		if strings.Contains(joined, "CODIGO") && strings.Contains(joined, "DESCRICAO") {
			layout.HeaderRow = i
			break
		}
	}
	if layout.HeaderRow == -1 {
		return layout, false
	}

	// Region tokens can sit above the header row (merged banner cells), so
	// scan everything up to and including it.
	layout.RegionCols = map[string]int{}
	for i := 0; i <= layout.HeaderRow; i++ {
		for col, cell := range rows[i] {
			token := NormalizeToken(cell)
			if IsRegion(token) {
				layout.RegionCols[token] = col
			}
		}
	}

	header := rows[layout.HeaderRow]
	for col, cell := range header {
		token := NormalizeToken(cell)
		switch {
		case strings.Contains(token, "CODIGO"):
			layout.CodeCol = col
		case strings.Contains(token, "DESCRICAO"):
			layout.DescCol = col
		case strings.Contains(token, "UNIDADE"):
			layout.UnitCol = col
		}
	}
	if layout.CodeCol == -1 {
		layout.CodeCol = 1
	}
	if layout.DescCol == -1 {
		layout.DescCol = 2
	}
	if layout.UnitCol == -1 {
		layout.UnitCol = 3
	}

	if len(layout.RegionCols) == 0 {
		region := singleRegion(regionFilter, filename)
		if region == "" {
			return layout, false
		}
		priceCol := -1
		for col, cell := range header {
			token := NormalizeToken(cell)
			if strings.Contains(token, "PRECO") || strings.Contains(token, "CUSTO") {
				priceCol = col
				break
			}
		}
		if priceCol == -1 {
			return layout, false
		}
		layout.RegionCols[region] = priceCol
	}

	if regionFilter != "" && regionFilter != "ALL" {
		col, ok := layout.RegionCols[regionFilter]
		if !ok {
			return layout, false
		}
		layout.RegionCols = map[string]int{regionFilter: col}
	}

	return layout, true
}

func singleRegion(regionFilter, filename string) string {
	if regionFilter != "" && regionFilter != "ALL" {
		return regionFilter
	}
	return RegionFromFilename(filename)
}
