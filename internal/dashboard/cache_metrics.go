package dashboard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "dashboard_cache_requests_total",
	Help: "Total number of dashboard cache lookups by result",
}, []string{"result"})

const (
	cacheHit      = "hit"
	cacheMiss     = "miss"
	cacheError    = "error"
	cacheDisabled = "disabled"
)
