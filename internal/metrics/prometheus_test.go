package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrometheusMetrics(t *testing.T) {
	pm := NewPrometheusMetrics()
	require.NotNil(t, pm)
	require.NotNil(t, pm.GetRegistry())

	// All collectors must be gatherable without error.
	families, err := pm.GetRegistry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestScanMetrics(t *testing.T) {
	pm := NewPrometheusMetrics()

	pm.IncrementScansTotal("port", "success")
	pm.IncrementScansTotal("port", "success")
	pm.IncrementPortsScanned("open", 3)
	pm.RecordScanDuration("port", 250*time.Millisecond)
	pm.SetActiveScans(1)

	assert.Equal(t, float64(2), testutil.ToFloat64(pm.scansTotal.WithLabelValues("port", "success")))
	assert.Equal(t, float64(3), testutil.ToFloat64(pm.portsScanned.WithLabelValues("open")))
	assert.Equal(t, float64(1), testutil.ToFloat64(pm.activeScans))
}

func TestDiscoveryMetrics(t *testing.T) {
	pm := NewPrometheusMetrics()

	pm.IncrementDiscoveryTotal("tcp", "success")
	pm.IncrementHostsDiscovered("tcp", "10.0.0.0/24", 5)
	pm.RecordDiscoveryDuration("tcp", 2*time.Second)
	pm.SetActiveDiscovery(0)

	assert.Equal(t, float64(1), testutil.ToFloat64(pm.discoveryTotal.WithLabelValues("tcp", "success")))
	assert.Equal(t, float64(5), testutil.ToFloat64(pm.hostsDiscovered.WithLabelValues("tcp", "10.0.0.0/24")))
}

func TestPoolMetrics(t *testing.T) {
	pm := NewPrometheusMetrics()

	pm.SetPoolWorkers(50)
	pm.IncrementTasksCompleted("host_probe")
	pm.IncrementTasksDiscarded("host_probe")
	pm.IncrementProbeTimeouts("tcp")

	assert.Equal(t, float64(50), testutil.ToFloat64(pm.poolWorkers))
	assert.Equal(t, float64(1), testutil.ToFloat64(pm.tasksCompleted.WithLabelValues("host_probe")))
	assert.Equal(t, float64(1), testutil.ToFloat64(pm.tasksDiscarded.WithLabelValues("host_probe")))
	assert.Equal(t, float64(1), testutil.ToFloat64(pm.probeTimeouts.WithLabelValues("tcp")))
}

func TestMetricNamespace(t *testing.T) {
	pm := NewPrometheusMetrics()
	pm.IncrementScansTotal("port", "success")

	families, err := pm.GetRegistry().Gather()
	require.NoError(t, err)

	found := false
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "netsweep_scan_") {
			found = true
			break
		}
	}
	assert.True(t, found, "expected netsweep_scan_* metric family")
}

func TestSystemMetricsUpdate(t *testing.T) {
	pm := NewPrometheusMetrics()
	pm.UpdateSystemMetrics()

	assert.Greater(t, testutil.ToFloat64(pm.goroutines), 0.0)
	assert.Greater(t, testutil.ToFloat64(pm.memoryUsage), 0.0)
	assert.GreaterOrEqual(t, pm.GetUptime(), time.Duration(0))
}

func TestGetGlobalMetrics(t *testing.T) {
	first := GetGlobalMetrics()
	second := GetGlobalMetrics()
	assert.Same(t, first, second)
}
