package intake

import (
	"archive/zip"
	"bytes"
	"io"
	"path"
	"strings"

	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/serrors"
	"github.com/xuri/excelize/v2"
)

var ErrNoSpreadsheetInArchive = serrors.NewError(
	"IMPORT_EMPTY_ARCHIVE",
	"the uploaded archive contains no spreadsheet",
	"",
)

var zipMagic = []byte("PK\x03\x04")

// Workbook is an open spreadsheet plus the filename heuristics key off
// (period and region tokens live in the name, not the cells).
type Workbook struct {
	Filename string
	file     *excelize.File
}

// OpenWorkbook opens spreadsheet bytes. Publishers ship catalogs both as
// bare workbooks and zipped bundles; for a bundle the largest spreadsheet
// entry wins and its name replaces the upload's. An .xlsx is itself a zip,
// so the bundle path only triggers when the archive holds spreadsheet
// entries.
func OpenWorkbook(filename string, data []byte) (*Workbook, error) {
	if bytes.HasPrefix(data, zipMagic) {
		if name, inner, ok := largestSpreadsheetEntry(data); ok {
			filename = name
			data = inner
		}
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, serrors.NewError("IMPORT_UNREADABLE_FILE", "cannot open spreadsheet: "+err.Error(), "")
	}
	return &Workbook{Filename: filename, file: f}, nil
}

func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

func (w *Workbook) Rows(sheet string) ([][]string, error) {
	return w.file.GetRows(sheet)
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

func largestSpreadsheetEntry(data []byte) (string, []byte, bool) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, false
	}
	var best *zip.File
	for _, entry := range zr.File {
		base := path.Base(entry.Name)
		if strings.HasPrefix(base, "~") {
			continue
		}
		lower := strings.ToLower(base)
		if !strings.HasSuffix(lower, ".xlsx") && !strings.HasSuffix(lower, ".xls") {
			continue
		}
		if best == nil || entry.UncompressedSize64 > best.UncompressedSize64 {
			best = entry
		}
	}
	if best == nil {
		return "", nil, false
	}
	rc, err := best.Open()
	if err != nil {
		return "", nil, false
	}
	defer rc.Close()
	inner, err := io.ReadAll(rc)
	if err != nil {
		return "", nil, false
	}
	return path.Base(best.Name), inner, true
}
