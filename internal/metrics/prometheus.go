package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Analytics query metrics
	QueryExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "costwatch_query_executions_total",
			Help: "Total number of cost analytics query executions",
		},
		[]string{"query", "status"}, // status: success|invalid|error
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "costwatch_query_duration_seconds",
			Help:    "Cost analytics query duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"query"},
	)

	// Snapshot cache metrics
	SnapshotCacheReads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "costwatch_snapshot_cache_reads_total",
			Help: "Total simple-summary snapshot cache reads",
		},
		[]string{"result"}, // result: hit|miss|error
	)

	SnapshotLastRefresh = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "costwatch_snapshot_last_refresh_timestamp",
			Help: "Unix timestamp of the last snapshot refresh",
		},
	)

	// Worker metrics
	WorkerExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "costwatch_worker_executions_total",
			Help: "Total number of worker executions",
		},
		[]string{"worker", "status"}, // status: success|error
	)

	WorkerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "costwatch_worker_duration_seconds",
			Help:    "Worker execution duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"worker"},
	)

	// Report delivery metrics
	ReportsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "costwatch_reports_sent_total",
			Help: "Total daily cost reports sent",
		},
		[]string{"status"}, // status: success|error
	)

	// HTTP metrics
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "costwatch_http_requests_total",
			Help: "Total HTTP requests served",
		},
		[]string{"path", "status"},
	)
)

// Init registers all collectors with the default registry
func Init() {
	prometheus.MustRegister(QueryExecutions)
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(SnapshotCacheReads)
	prometheus.MustRegister(SnapshotLastRefresh)
	prometheus.MustRegister(WorkerExecutions)
	prometheus.MustRegister(WorkerDuration)
	prometheus.MustRegister(ReportsSent)
	prometheus.MustRegister(HTTPRequests)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordWorkerExecution records a worker execution
func RecordWorkerExecution(worker string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	WorkerExecutions.WithLabelValues(worker, status).Inc()
	WorkerDuration.WithLabelValues(worker).Observe(duration.Seconds())
}

// RecordReportSent records a daily report delivery attempt
func RecordReportSent(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ReportsSent.WithLabelValues(status).Inc()
}
