package intake

import (
	"strings"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/domain/aggregates/pricing"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/serrors"
)

// CatalogType says whether a sheet lists composite services or raw inputs.
type CatalogType string

const (
	CatalogComposition CatalogType = "COMPOSITION"
	CatalogInput       CatalogType = "INPUT"
)

// SheetClass tags a catalog sheet with what it lists and under which
// statutory charge regime its prices are quoted.
type SheetClass struct {
	Catalog    CatalogType
	ChargeType pricing.ChargeType
}

// SheetTarget pairs a raw sheet name with its classification.
type SheetTarget struct {
	Name  string
	Class SheetClass
}

// Classification is the outcome of tagging every worksheet in a workbook.
type Classification struct {
	Catalog  []SheetTarget
	Analytic []string
}

var ErrNoCatalogSheets = serrors.NewError(
	"IMPORT_NO_CATALOG_SHEETS",
	"no composition or input sheet found in the workbook",
	"expected CCD/CSD/ICD/ISD or COMPOSICOES/INSUMOS sheet names",
)

// sheetRule is one entry of the prioritized classification list. Rules are
// evaluated in order and the first match wins, so new publisher dialects are
// added as rules, not branches.
type sheetRule struct {
	matches func(norm string) bool
	class   SheetClass
}

func hasNoChargesMarker(norm string) bool {
	if strings.Contains(norm, "NAODESON") || strings.Contains(norm, "NODESON") {
		return true
	}
	return strings.Contains(norm, "NAO") && strings.Contains(norm, "DESON")
}

var catalogRules = []sheetRule{
	{
		matches: func(n string) bool {
			return strings.HasPrefix(n, "CCD") || (strings.Contains(n, "COMPOSICOES") && !hasNoChargesMarker(n))
		},
		class: SheetClass{Catalog: CatalogComposition, ChargeType: pricing.ChargeDesonerado},
	},
	{
		matches: func(n string) bool {
			return strings.HasPrefix(n, "CSD") || (strings.Contains(n, "COMPOSICOES") && hasNoChargesMarker(n))
		},
		class: SheetClass{Catalog: CatalogComposition, ChargeType: pricing.ChargeNaoDesonerado},
	},
	{
		matches: func(n string) bool {
			return strings.HasPrefix(n, "ICD") || (strings.Contains(n, "INSUMOS") && !hasNoChargesMarker(n) && !strings.HasPrefix(n, "ISD"))
		},
		class: SheetClass{Catalog: CatalogInput, ChargeType: pricing.ChargeDesonerado},
	},
	{
		matches: func(n string) bool {
			return strings.HasPrefix(n, "ISD") || (strings.Contains(n, "INSUMOS") && hasNoChargesMarker(n))
		},
		class: SheetClass{Catalog: CatalogInput, ChargeType: pricing.ChargeNaoDesonerado},
	},
}

// ClassifySheets tags every worksheet name. Analytic breakdown sheets are
// matched first and excluded from catalog classification; unmatched sheets
// are ignored outright.
func ClassifySheets(names []string) Classification {
	var out Classification
	for _, raw := range names {
		norm := NormalizeSheetName(raw)
		if strings.Contains(norm, "ANALIT") {
			out.Analytic = append(out.Analytic, raw)
			continue
		}
		for _, rule := range catalogRules {
			if rule.matches(norm) {
				out.Catalog = append(out.Catalog, SheetTarget{Name: raw, Class: rule.class})
				break
			}
		}
	}
	return out
}
