package intake

import (
	"regexp"
	"strconv"

	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/serrors"
)

var ErrPeriodNotFound = serrors.NewError(
	"IMPORT_PERIOD_NOT_FOUND",
	"no YYYYMM reference period found in the filename",
	"name the file like SINAPI_2024_01.xlsx or pass month and year explicitly",
)

var periodRe = regexp.MustCompile(`(20\d{2})[-_]?(0[1-9]|1[0-2])`)

// ParsePeriod pulls the reference month and year out of a catalog filename.
func ParsePeriod(filename string) (month, year int, err error) {
	m := periodRe.FindStringSubmatch(filename)
	if m == nil {
		return 0, 0, ErrPeriodNotFound
	}
	year, _ = strconv.Atoi(m[1])
	month, _ = strconv.Atoi(m[2])
	return month, year, nil
}
