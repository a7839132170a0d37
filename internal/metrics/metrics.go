package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the scan pipeline.
type Metrics struct {
	Registry        *prometheus.Registry
	CyclesTotal     prometheus.Counter
	ItemsTotal      prometheus.Counter
	AlertsTotal     *prometheus.CounterVec
	SuppressedTotal prometheus.Counter
	ErrorsTotal     *prometheus.CounterVec
	ScanDuration    prometheus.Histogram
}

// New constructs and registers all metrics on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	cycles := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lootradar_scan_cycles_total",
			Help: "Total completed scan cycles.",
		},
	)
	items := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lootradar_items_scanned_total",
			Help: "Total product tiles run through the pipeline.",
		},
	)
	alerts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lootradar_alerts_total",
			Help: "Total notification-worthy products by tier.",
		},
		[]string{"tier"},
	)
	suppressed := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lootradar_alerts_suppressed_total",
			Help: "Total alerts suppressed by deduplication.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lootradar_errors_total",
			Help: "Total pipeline errors by type.",
		},
		[]string{"error_type"},
	)
	scanDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lootradar_scan_duration_seconds",
			Help:    "Duration of one category scan.",
			Buckets: prometheus.DefBuckets,
		},
	)

	registry.MustRegister(cycles, items, alerts, suppressed, errorsTotal, scanDuration)

	return &Metrics{
		Registry:        registry,
		CyclesTotal:     cycles,
		ItemsTotal:      items,
		AlertsTotal:     alerts,
		SuppressedTotal: suppressed,
		ErrorsTotal:     errorsTotal,
		ScanDuration:    scanDuration,
	}
}

// IncCycle increments the completed cycle counter.
func (m *Metrics) IncCycle() {
	if m == nil {
		return
	}
	m.CyclesTotal.Inc()
}

// IncItems adds n to the scanned items counter.
func (m *Metrics) IncItems(n int) {
	if m == nil {
		return
	}
	m.ItemsTotal.Add(float64(n))
}

// IncAlert increments the alert counter for a tier label.
func (m *Metrics) IncAlert(tier string) {
	if m == nil {
		return
	}
	m.AlertsTotal.WithLabelValues(tier).Inc()
}

// IncSuppressed increments the dedup suppression counter.
func (m *Metrics) IncSuppressed() {
	if m == nil {
		return
	}
	m.SuppressedTotal.Inc()
}

// IncError increments the error counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

// ObserveScan records the duration of one category scan.
func (m *Metrics) ObserveScan(d time.Duration) {
	if m == nil {
		return
	}
	m.ScanDuration.Observe(d.Seconds())
}
