package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 50, cfg.Scanning.Concurrency)
	assert.Equal(t, time.Second, cfg.Scanning.DiscoveryTimeout)
	assert.Equal(t, 3*time.Second, cfg.Scanning.PortScanTimeout)
	assert.Equal(t, []int{80, 443, 22, 21, 25, 53, 135, 139, 445},
		cfg.Scanning.CandidateTCPPorts)
	assert.Equal(t, "1-1024", cfg.Scanning.DefaultPorts)
	assert.True(t, cfg.Scanning.EnableICMPFallback)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "netsweep.yaml")
		content := `
scanning:
  concurrency: 20
  discovery_timeout: 2s
logging:
  level: debug
metrics:
  enabled: true
  listen_addr: "127.0.0.1:9191"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 20, cfg.Scanning.Concurrency)
		assert.Equal(t, 2*time.Second, cfg.Scanning.DiscoveryTimeout)
		// Untouched fields keep their defaults.
		assert.Equal(t, 3*time.Second, cfg.Scanning.PortScanTimeout)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.True(t, cfg.Metrics.Enabled)
		assert.Equal(t, "127.0.0.1:9191", cfg.Metrics.ListenAddr)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("scanning:\n  concurrency: 0\n"), 0o644))

		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("malformed yaml is rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("scanning: ["), 0o644))

		_, err := Load(path)
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero concurrency", func(c *Config) { c.Scanning.Concurrency = 0 }},
		{"negative timeout", func(c *Config) { c.Scanning.DiscoveryTimeout = -time.Second }},
		{"empty candidate ports", func(c *Config) { c.Scanning.CandidateTCPPorts = nil }},
		{"candidate port out of range", func(c *Config) { c.Scanning.CandidateTCPPorts = []int{0} }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad metrics address", func(c *Config) { c.Metrics.ListenAddr = "no-port" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "netsweep.yaml")

	original := Default()
	original.Scanning.Concurrency = 33
	require.NoError(t, original.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestEngineOptions(t *testing.T) {
	cfg := Default()

	discovery := cfg.DiscoveryOptions()
	require.NoError(t, discovery.Validate())
	assert.Equal(t, cfg.Scanning.DiscoveryTimeout, discovery.PerProbeTimeout)

	portScan := cfg.PortScanOptions()
	require.NoError(t, portScan.Validate())
	assert.Equal(t, cfg.Scanning.PortScanTimeout, portScan.PerProbeTimeout)
	assert.Equal(t, discovery.Concurrency, portScan.Concurrency)
}
