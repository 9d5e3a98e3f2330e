package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avrost/netsweep/internal/config"
)

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "netsweep", rootCmd.Use)

	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	assert.True(t, names["discover"], "discover command must be registered")
	assert.True(t, names["scan"], "scan command must be registered")
}

func TestGlobalFlags(t *testing.T) {
	for _, flag := range []string{"config", "verbose", "metrics-addr"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag),
			"missing global flag %q", flag)
	}
}

func TestDiscoverFlags(t *testing.T) {
	for _, flag := range []string{"json", "timeout", "concurrency", "no-icmp"} {
		assert.NotNil(t, discoverCmd.Flags().Lookup(flag),
			"missing discover flag %q", flag)
	}

	require.NotNil(t, discoverCmd.Args)
	assert.Error(t, discoverCmd.Args(discoverCmd, nil), "network argument is required")
	assert.NoError(t, discoverCmd.Args(discoverCmd, []string{"192.168.1.0/24"}))
}

func TestScanFlags(t *testing.T) {
	for _, flag := range []string{"ports", "json", "timeout", "concurrency", "no-banner"} {
		assert.NotNil(t, scanCmd.Flags().Lookup(flag),
			"missing scan flag %q", flag)
	}

	assert.Error(t, scanCmd.Args(scanCmd, nil), "target argument is required")
	assert.NoError(t, scanCmd.Args(scanCmd, []string{"10.0.0.5"}))
}

func TestLoadConfig(t *testing.T) {
	// Each subtest rebuilds viper state from scratch so the shared
	// singleton carries nothing between cases.
	reset := func(t *testing.T) {
		t.Helper()
		viper.Reset()
		t.Cleanup(viper.Reset)
	}

	t.Run("defaults without file or environment", func(t *testing.T) {
		reset(t)
		initConfig()

		cfg, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("environment overrides reach the engine config", func(t *testing.T) {
		reset(t)
		t.Setenv("NETSWEEP_SCANNING_CONCURRENCY", "7")
		t.Setenv("NETSWEEP_SCANNING_DISCOVERY_TIMEOUT", "250ms")
		t.Setenv("NETSWEEP_LOGGING_LEVEL", "debug")
		initConfig()

		cfg, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.Scanning.Concurrency)
		assert.Equal(t, 250*time.Millisecond, cfg.Scanning.DiscoveryTimeout)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, 7, cfg.DiscoveryOptions().Concurrency)
	})

	t.Run("environment wins over the config file", func(t *testing.T) {
		reset(t)
		path := filepath.Join(t.TempDir(), "netsweep.yaml")
		require.NoError(t, os.WriteFile(path, []byte("scanning:\n  concurrency: 5\n"), 0o644))
		cfgFile = path
		t.Cleanup(func() { cfgFile = "" })
		t.Setenv("NETSWEEP_SCANNING_CONCURRENCY", "9")
		initConfig()

		cfg, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, 9, cfg.Scanning.Concurrency)
	})

	t.Run("metrics-addr flag enables the listener", func(t *testing.T) {
		reset(t)
		metricsAddr = "127.0.0.1:9191"
		t.Cleanup(func() { metricsAddr = "" })
		initConfig()

		cfg, err := loadConfig()
		require.NoError(t, err)
		assert.True(t, cfg.Metrics.Enabled)
		assert.Equal(t, "127.0.0.1:9191", cfg.Metrics.ListenAddr)
	})

	t.Run("out-of-range environment value is rejected", func(t *testing.T) {
		reset(t)
		t.Setenv("NETSWEEP_SCANNING_CONCURRENCY", "0")
		initConfig()

		_, err := loadConfig()
		require.Error(t, err)
	})
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.3", "abc1234", "2026-01-01")
	assert.Contains(t, rootCmd.Version, "1.2.3")
	assert.Contains(t, rootCmd.Version, "abc1234")
}
