package intake

// ParsedSheet is one classified catalog sheet after row extraction.
type ParsedSheet struct {
	Name    string
	Class   SheetClass
	Items   []ItemRow
	Skipped int
}

// ParsedCatalog is everything a workbook yields before anything touches the
// database: priced item rows per sheet plus flat analytic links.
type ParsedCatalog struct {
	Filename string
	Sheets   []ParsedSheet
	Links    []AnalyticLink
	Skipped  int
}

// ParseCatalog classifies and extracts every sheet of an open workbook.
// Sheets whose header cannot be located are skipped, not fatal; a workbook
// with zero catalog sheets is.
func ParseCatalog(wb *Workbook, regionFilter string) (*ParsedCatalog, error) {
	class := ClassifySheets(wb.SheetNames())
	if len(class.Catalog) == 0 {
		return nil, ErrNoCatalogSheets
	}

	out := &ParsedCatalog{Filename: wb.Filename}
	for _, target := range class.Catalog {
		rows, err := wb.Rows(target.Name)
		if err != nil {
			return nil, err
		}
		layout, ok := LocateHeader(rows, regionFilter, wb.Filename)
		if !ok {
			continue
		}
		items, skipped := ExtractRows(rows, layout)
		out.Skipped += skipped
		out.Sheets = append(out.Sheets, ParsedSheet{
			Name:    target.Name,
			Class:   target.Class,
			Items:   items,
			Skipped: skipped,
		})
	}

	for _, name := range class.Analytic {
		rows, err := wb.Rows(name)
		if err != nil {
			return nil, err
		}
		links, skipped := ExtractAnalyticLinks(rows)
		out.Links = append(out.Links, links...)
		out.Skipped += skipped
	}
	return out, nil
}
