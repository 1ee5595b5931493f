package db

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	pre            = "pamdb_db_"
	latencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
)

// DBMeasures groups all db metrics.
var DBMeasures = struct {
	Operations      *prometheus.CounterVec
	Errors          *prometheus.CounterVec
	Latency         *prometheus.HistogramVec
	OpenConnections prometheus.Gauge
}{
	Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: pre + "operations_total",
		Help: "Total number of database operations.",
	}, []string{"conn", "op"}),
	Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: pre + "errors_total",
		Help: "Total number of failed database operations.",
	}, []string{"conn", "op"}),
	Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    pre + "operation_seconds",
		Help:    "Time until the driver returned from an operation.",
		Buckets: latencyBuckets,
	}, []string{"conn", "op"}),
	OpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
		Name: pre + "open_connections",
		Help: "Number of named connections with an open driver handle.",
	}),
}

func init() {
	prometheus.MustRegister(
		DBMeasures.Operations,
		DBMeasures.Errors,
		DBMeasures.Latency,
		DBMeasures.OpenConnections,
	)
}

func observe(conn, op string, start time.Time, err error) {
	DBMeasures.Operations.WithLabelValues(conn, op).Inc()
	DBMeasures.Latency.WithLabelValues(conn, op).Observe(time.Since(start).Seconds())
	if err != nil {
		DBMeasures.Errors.WithLabelValues(conn, op).Inc()
	}
}
