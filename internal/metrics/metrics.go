package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeHit     = "hit"
	OutcomeEmpty   = "empty"
	OutcomeSkipped = "skipped"
)

var (
	ReportsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fraud_reports_created_total",
		Help: "Number of fraud reports stored.",
	})

	Searches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fraud_report_searches_total",
		Help: "Number of searches by outcome (hit, empty, error).",
	}, []string{"outcome"})

	Deletes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fraud_report_deletes_total",
		Help: "Number of delete calls by outcome (ok, error).",
	}, []string{"outcome"})

	KeepAlivePings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fraud_report_keepalive_pings_total",
		Help: "Keep-alive runs by outcome (ok, error, skipped).",
	}, []string{"outcome"})
)

// Handler serves the default registry in the Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
