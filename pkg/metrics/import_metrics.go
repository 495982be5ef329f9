package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ImportedPriceRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_import_price_rows_total",
		Help: "Price observations inserted by catalog imports.",
	}, []string{"source"})

	SkippedRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_import_skipped_rows_total",
		Help: "Spreadsheet rows dropped for malformed codes, prices or coefficients.",
	}, []string{"source", "reason"})

	ImportFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_import_failures_total",
		Help: "Catalog imports that ended in error.",
	}, []string{"source"})
)
