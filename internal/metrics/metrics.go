package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ParseTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spendlog_parse_total",
			Help: "Total number of free-text parse attempts by outcome",
		},
		[]string{"outcome"},
	)

	ParseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spendlog_parse_duration_seconds",
			Help:    "Duration of language model parse calls",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	ExpensesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spendlog_expenses_created_total",
			Help: "Total number of expenses stored",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spendlog_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)
)

func ObserveParse(outcome string, d time.Duration) {
	ParseTotal.WithLabelValues(outcome).Inc()
	ParseDuration.Observe(d.Seconds())
}

func ObserveRequest(method, route string, status int) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
