package csvimport

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	csvImportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "csv_imports_total",
		Help: "Total number of CSV imports by outcome",
	}, []string{"outcome"})

	csvImportRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "csv_import_rows_total",
		Help: "Total number of imported CSV rows by status",
	}, []string{"status"})
)

// Import outcomes
const (
	outcomeRejected = "rejected"
	outcomeDryRun   = "dry_run"
	outcomeStored   = "stored"
	outcomeFailed   = "failed"
)

func recordImport(outcome string, report *Report) {
	csvImportsTotal.WithLabelValues(outcome).Inc()
	if report == nil {
		return
	}
	csvImportRowsTotal.WithLabelValues("invalid").Add(float64(len(report.RowErrors)))
	csvImportRowsTotal.WithLabelValues("created").Add(float64(report.Created))
	csvImportRowsTotal.WithLabelValues("updated").Add(float64(report.Updated))
	csvImportRowsTotal.WithLabelValues("failed").Add(float64(report.Failed))
}
