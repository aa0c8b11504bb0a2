package access

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var decisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bookstore_access_decisions_total",
		Help: "Total number of book access policy decisions by action and outcome.",
	},
	[]string{"action", "decision"},
)
