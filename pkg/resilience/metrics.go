package resilience

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

// Call outcomes recorded per breaker
const (
	outcomeSuccess  = "success"
	outcomeFailure  = "failure"
	outcomeRejected = "rejected"
)

var (
	breakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "store_breaker_state",
		Help: "Breaker state per record store dependency (0 closed, 1 half-open, 2 open)",
	}, []string{"breaker"})

	breakerCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_breaker_calls_total",
		Help: "Calls routed through a breaker by outcome",
	}, []string{"breaker", "outcome"})

	breakerTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_breaker_transitions_total",
		Help: "Breaker state transitions",
	}, []string{"breaker", "to"})
)

func observeState(name string, state gobreaker.State) {
	var v float64
	switch state {
	case gobreaker.StateHalfOpen:
		v = 1
	case gobreaker.StateOpen:
		v = 2
	}
	breakerState.WithLabelValues(name).Set(v)
}

func observeTransition(name string, to gobreaker.State) {
	breakerTransitions.WithLabelValues(name, to.String()).Inc()
	observeState(name, to)
}

func observeCall(name, outcome string) {
	breakerCalls.WithLabelValues(name, outcome).Inc()
}
