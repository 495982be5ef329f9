package intake

import (
	"strings"

	"github.com/shopspring/decimal"
)

const analyticHeaderScanLimit = 80

// AnalyticLink is a flat parent -> child coefficient tuple extracted from a
// tabular breakdown sheet. Code-to-id resolution happens later, in the
// import orchestrator.
type AnalyticLink struct {
	ParentCode  string
	ChildCode   string
	Coefficient decimal.Decimal
}

type analyticLayout struct {
	headerRow int
	parentCol int
	childCol  int
	coefCol   int
}

// ExtractAnalyticLinks parses a breakdown sheet. A blank parent code means
// "same parent as the previous row"; rows missing a child code or a positive
// coefficient are skipped.
func ExtractAnalyticLinks(rows [][]string) (links []AnalyticLink, skipped int) {
	layout, ok := locateAnalyticHeader(rows)
	if !ok {
		return nil, 0
	}

	currentParent := ""
	for i := layout.headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		parent := SimplifyCode(cellAt(row, layout.parentCol))
		child := SimplifyCode(cellAt(row, layout.childCol))

		if parent != "" {
			currentParent = parent
		} else {
			parent = currentParent
		}
		if parent == "" || child == "" {
			skipped++
			continue
		}

		coef, ok := ParseDecimal(cellAt(row, layout.coefCol))
		if !ok || !coef.IsPositive() {
			skipped++
			continue
		}

		links = append(links, AnalyticLink{ParentCode: parent, ChildCode: child, Coefficient: coef})
	}
	return links, skipped
}

func locateAnalyticHeader(rows [][]string) (analyticLayout, bool) {
	layout := analyticLayout{headerRow: -1, parentCol: -1, childCol: -1, coefCol: -1}

	limit := analyticHeaderScanLimit
	if len(rows) < limit {
		limit = len(rows)
	}

	var header []string
	for i := 0; i < limit; i++ {
		tokens := make([]string, len(rows[i]))
		for j, cell := range rows[i] {
			token := NormalizeToken(cell)
			token = strings.ReplaceAll(token, "\n", " ")
			token = strings.ReplaceAll(token, "\r", " ")
			tokens[j] = token
		}
		joined := strings.Join(tokens, " ")
		hasCoef := false
		for _, t := range tokens {
			if strings.Contains(t, "COEF") {
				hasCoef = true
				break
			}
		}
		if (strings.Contains(joined, "COMPOS") || strings.Contains(joined, "ITEM")) && hasCoef {
			layout.headerRow = i
			header = tokens
			break
		}
	}
	if layout.headerRow == -1 {
		return layout, false
	}

	var codeCols []int
	for col, token := range header {
		if strings.Contains(token, "COEF") {
			layout.coefCol = col
		}
		if strings.Contains(token, "COD") {
			codeCols = append(codeCols, col)
		}
		// The item column names both "item" and "composição", so it must
		// be claimed before the parent column match.
		switch {
		case layout.childCol == -1 && strings.Contains(token, "ITEM") && strings.Contains(token, "COD"):
			layout.childCol = col
		case layout.parentCol == -1 && strings.Contains(token, "COMPOS") && strings.Contains(token, "COD"):
			layout.parentCol = col
		}
	}

	// Fall back to "first and second code-like column" when the keyword
	// match failed.
	if layout.parentCol == -1 && len(codeCols) > 0 {
		layout.parentCol = codeCols[0]
	}
	if layout.childCol == -1 && len(codeCols) > 1 {
		layout.childCol = codeCols[1]
	}
	if layout.parentCol == -1 || layout.childCol == -1 || layout.coefCol == -1 {
		return layout, false
	}
	return layout, true
}
