package fraud

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/richxcame/devcert-dashboard/internal/developers"
)

var fraudSignalsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "fraud_signals_total",
	Help: "Total number of fraud signals raised on enriched records",
}, []string{"signal"})

func recordSignals(records []developers.DeveloperRecord) {
	for i := range records {
		for _, sig := range records[i].FraudSignals {
			fraudSignalsTotal.WithLabelValues(sig).Inc()
		}
	}
}
