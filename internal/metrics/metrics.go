package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	// DetectRequestsTotal counts uploads by outcome (ok, rejected, upstream_error, malformed).
	DetectRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trashify",
		Subsystem: "shell",
		Name:      "detect_requests_total",
		Help:      "Total number of detect requests, labeled by result.",
	}, []string{"result"})

	// DetectDurationSeconds is the round trip to the detection service.
	DetectDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "trashify",
		Subsystem: "shell",
		Name:      "detect_duration_seconds",
		Help:      "Time spent waiting for the detection service per upload.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
	})

	// ItemsDetectedTotal counts detections by matched taxonomy category ("unknown" when none).
	ItemsDetectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trashify",
		Subsystem: "shell",
		Name:      "items_detected_total",
		Help:      "Total number of detected items, labeled by taxonomy category.",
	}, []string{"category"})

	// GuidanceSourceTotal counts where presented guidance lists came from.
	GuidanceSourceTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trashify",
		Subsystem: "shell",
		Name:      "guidance_source_total",
		Help:      "Total number of guidance lists presented, labeled by kind and source.",
	}, []string{"kind", "source"})

	// StatsRequestsTotal counts statistics lookups by the source that answered.
	StatsRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trashify",
		Subsystem: "shell",
		Name:      "stats_requests_total",
		Help:      "Total number of statistics lookups, labeled by source (remote, ledger, error).",
	}, []string{"source"})

	// HubClients is the number of connected websocket viewers.
	HubClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "trashify",
		Subsystem: "shell",
		Name:      "hub_clients",
		Help:      "Current number of connected websocket viewers.",
	})

	// StatsRefreshDroppedTotal counts refreshes skipped because the queue was full.
	StatsRefreshDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trashify",
		Subsystem: "shell",
		Name:      "stats_refresh_dropped_total",
		Help:      "Total number of stats refreshes dropped because the queue was full.",
	})

	// LedgerFlushesTotal counts ledger buffer flushes by result.
	LedgerFlushesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trashify",
		Subsystem: "ledger",
		Name:      "flushes_total",
		Help:      "Total number of ledger buffer flushes, labeled by result.",
	}, []string{"result"})

	// LedgerEntriesDroppedTotal counts entries dropped because the buffer was full and a flush failed.
	LedgerEntriesDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trashify",
		Subsystem: "ledger",
		Name:      "entries_dropped_total",
		Help:      "Total number of ledger entries dropped.",
	})

	// HTTPRequestDurationSeconds is the server-side latency per route.
	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trashify",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, labeled by route, method and status code.",
		Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"route", "method", "code"})
)

// Register registers the metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			DetectRequestsTotal,
			DetectDurationSeconds,
			ItemsDetectedTotal,
			GuidanceSourceTotal,
			StatsRequestsTotal,
			HubClients,
			StatsRefreshDroppedTotal,
			LedgerFlushesTotal,
			LedgerEntriesDroppedTotal,
			HTTPRequestDurationSeconds,
		)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
