// Package metrics provides Prometheus-based metrics collection for netsweep.
// The exporter complements the in-process registry with industry-standard
// collectors for scrape-based observability of scan and discovery operations.
package metrics

import (
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	// Namespace for all netsweep metrics
	namespace = "netsweep"

	// Subsystems
	subsystemScan      = "scan"
	subsystemDiscovery = "discovery"
	subsystemPool      = "pool"
	subsystemSystem    = "system"
)

// PrometheusMetrics holds all Prometheus metric collectors
type PrometheusMetrics struct {
	// Scan metrics
	scansTotal   *prometheus.CounterVec
	scanDuration *prometheus.HistogramVec
	portsScanned *prometheus.CounterVec
	activeScans  prometheus.Gauge

	// Discovery metrics
	discoveryTotal    *prometheus.CounterVec
	discoveryDuration *prometheus.HistogramVec
	hostsDiscovered   *prometheus.CounterVec
	activeDiscovery   prometheus.Gauge

	// Worker pool metrics
	poolWorkers    prometheus.Gauge
	tasksCompleted *prometheus.CounterVec
	tasksDiscarded *prometheus.CounterVec
	probeTimeouts  *prometheus.CounterVec

	// System metrics
	memoryUsage prometheus.Gauge
	goroutines  prometheus.Gauge
	uptime      prometheus.Gauge

	startTime  time.Time
	lastUpdate time.Time
	mu         sync.RWMutex
	registry   *prometheus.Registry
}

// NewPrometheusMetrics creates a new Prometheus metrics instance with all collectors
func NewPrometheusMetrics() *PrometheusMetrics {
	registry := prometheus.NewRegistry()

	pm := &PrometheusMetrics{
		startTime: time.Now(),
		registry:  registry,
	}

	pm.initScanMetrics()
	pm.initDiscoveryMetrics()
	pm.initPoolMetrics()
	pm.initSystemMetrics()
	pm.registerMetrics()

	// Register standard Go and process collectors for runtime visibility
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return pm
}

// initScanMetrics initializes scan-related metrics
func (pm *PrometheusMetrics) initScanMetrics() {
	pm.scansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemScan,
			Name:      "total",
			Help:      "Total number of scans performed by type and status",
		},
		[]string{"scan_type", "status"},
	)

	pm.scanDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemScan,
			Name:      "duration_seconds",
			Help:      "Duration of scan operations in seconds",
			Buckets:   []float64{0.1, 0.5, 1.0, 5.0, 10.0, 30.0, 60.0, 300.0, 600.0},
		},
		[]string{"scan_type"},
	)

	pm.portsScanned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemScan,
			Name:      "ports_total",
			Help:      "Total number of ports scanned by resulting state",
		},
		[]string{"port_state"},
	)

	pm.activeScans = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemScan,
			Name:      "active",
			Help:      "Number of currently active scans",
		},
	)
}

// initDiscoveryMetrics initializes discovery-related metrics
func (pm *PrometheusMetrics) initDiscoveryMetrics() {
	pm.discoveryTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemDiscovery,
			Name:      "total",
			Help:      "Total number of discovery operations by method and status",
		},
		[]string{"method", "status"},
	)

	pm.discoveryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemDiscovery,
			Name:      "duration_seconds",
			Help:      "Duration of discovery operations in seconds",
			Buckets:   []float64{1.0, 5.0, 10.0, 30.0, 60.0, 300.0, 600.0, 1800.0},
		},
		[]string{"method"},
	)

	pm.hostsDiscovered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemDiscovery,
			Name:      "hosts_total",
			Help:      "Total number of hosts discovered",
		},
		[]string{"method", "network"},
	)

	pm.activeDiscovery = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemDiscovery,
			Name:      "active",
			Help:      "Number of currently active discovery operations",
		},
	)
}

// initPoolMetrics initializes worker-pool-related metrics
func (pm *PrometheusMetrics) initPoolMetrics() {
	pm.poolWorkers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemPool,
			Name:      "workers",
			Help:      "Configured number of workers in the probe pool",
		},
	)

	pm.tasksCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemPool,
			Name:      "tasks_completed_total",
			Help:      "Total number of probe tasks completed by kind",
		},
		[]string{"kind"},
	)

	pm.tasksDiscarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemPool,
			Name:      "tasks_discarded_total",
			Help:      "Total number of probe task results discarded after cancellation",
		},
		[]string{"kind"},
	)

	pm.probeTimeouts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemPool,
			Name:      "probe_timeouts_total",
			Help:      "Total number of probes that hit their per-probe timeout",
		},
		[]string{"method"},
	)
}

// initSystemMetrics initializes system-related metrics
func (pm *PrometheusMetrics) initSystemMetrics() {
	pm.memoryUsage = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemSystem,
			Name:      "memory_bytes",
			Help:      "Current memory usage in bytes",
		},
	)

	pm.goroutines = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemSystem,
			Name:      "goroutines",
			Help:      "Current number of goroutines",
		},
	)

	pm.uptime = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemSystem,
			Name:      "uptime_seconds",
			Help:      "Application uptime in seconds",
		},
	)
}

// registerMetrics registers all metrics with the Prometheus registry
func (pm *PrometheusMetrics) registerMetrics() {
	pm.registry.MustRegister(pm.scansTotal)
	pm.registry.MustRegister(pm.scanDuration)
	pm.registry.MustRegister(pm.portsScanned)
	pm.registry.MustRegister(pm.activeScans)

	pm.registry.MustRegister(pm.discoveryTotal)
	pm.registry.MustRegister(pm.discoveryDuration)
	pm.registry.MustRegister(pm.hostsDiscovered)
	pm.registry.MustRegister(pm.activeDiscovery)

	pm.registry.MustRegister(pm.poolWorkers)
	pm.registry.MustRegister(pm.tasksCompleted)
	pm.registry.MustRegister(pm.tasksDiscarded)
	pm.registry.MustRegister(pm.probeTimeouts)

	pm.registry.MustRegister(pm.memoryUsage)
	pm.registry.MustRegister(pm.goroutines)
	pm.registry.MustRegister(pm.uptime)
}

// GetRegistry returns the Prometheus registry for the HTTP handler
func (pm *PrometheusMetrics) GetRegistry() *prometheus.Registry {
	return pm.registry
}

// Scan metrics methods

// IncrementScansTotal increments the total scan counter
func (pm *PrometheusMetrics) IncrementScansTotal(scanType, status string) {
	pm.scansTotal.WithLabelValues(scanType, status).Inc()
}

// RecordScanDuration records a scan duration
func (pm *PrometheusMetrics) RecordScanDuration(scanType string, duration time.Duration) {
	pm.scanDuration.WithLabelValues(scanType).Observe(duration.Seconds())
}

// IncrementPortsScanned increments the ports scanned counter
func (pm *PrometheusMetrics) IncrementPortsScanned(state string, count int) {
	pm.portsScanned.WithLabelValues(state).Add(float64(count))
}

// SetActiveScans sets the number of active scans
func (pm *PrometheusMetrics) SetActiveScans(count int) {
	pm.activeScans.Set(float64(count))
}

// Discovery metrics methods

// IncrementDiscoveryTotal increments the discovery operation counter
func (pm *PrometheusMetrics) IncrementDiscoveryTotal(method, status string) {
	pm.discoveryTotal.WithLabelValues(method, status).Inc()
}

// RecordDiscoveryDuration records a discovery duration
func (pm *PrometheusMetrics) RecordDiscoveryDuration(method string, duration time.Duration) {
	pm.discoveryDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// IncrementHostsDiscovered increments the hosts discovered counter
func (pm *PrometheusMetrics) IncrementHostsDiscovered(method, network string, count int) {
	pm.hostsDiscovered.WithLabelValues(method, network).Add(float64(count))
}

// SetActiveDiscovery sets the number of active discovery operations
func (pm *PrometheusMetrics) SetActiveDiscovery(count int) {
	pm.activeDiscovery.Set(float64(count))
}

// Worker pool metrics methods

// SetPoolWorkers sets the configured worker count
func (pm *PrometheusMetrics) SetPoolWorkers(count int) {
	pm.poolWorkers.Set(float64(count))
}

// IncrementTasksCompleted increments the completed task counter
func (pm *PrometheusMetrics) IncrementTasksCompleted(kind string) {
	pm.tasksCompleted.WithLabelValues(kind).Inc()
}

// IncrementTasksDiscarded increments the discarded task counter
func (pm *PrometheusMetrics) IncrementTasksDiscarded(kind string) {
	pm.tasksDiscarded.WithLabelValues(kind).Inc()
}

// IncrementProbeTimeouts increments the probe timeout counter
func (pm *PrometheusMetrics) IncrementProbeTimeouts(method string) {
	pm.probeTimeouts.WithLabelValues(method).Inc()
}

// UpdateSystemMetrics refreshes memory, goroutine and uptime gauges
func (pm *PrometheusMetrics) UpdateSystemMetrics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	pm.memoryUsage.Set(float64(memStats.Alloc))
	pm.goroutines.Set(float64(runtime.NumGoroutine()))
	pm.uptime.Set(time.Since(pm.startTime).Seconds())

	pm.mu.Lock()
	pm.lastUpdate = time.Now()
	pm.mu.Unlock()
}

// GetUptime returns the application uptime
func (pm *PrometheusMetrics) GetUptime() time.Duration {
	return time.Since(pm.startTime)
}

// Global Prometheus metrics instance.
var (
	globalMetrics     *PrometheusMetrics
	globalMetricsOnce sync.Once
)

// GetGlobalMetrics returns the global Prometheus metrics instance
func GetGlobalMetrics() *PrometheusMetrics {
	globalMetricsOnce.Do(func() {
		globalMetrics = NewPrometheusMetrics()
	})
	return globalMetrics
}
