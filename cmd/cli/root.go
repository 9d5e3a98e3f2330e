// Package cli implements the netsweep command-line interface: the discover
// and scan commands, configuration loading, activity logging, and result
// rendering. The scan engine itself stays silent above debug level; this
// layer owns everything user-facing.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avrost/netsweep/internal/config"
	"github.com/avrost/netsweep/internal/logging"
	"github.com/avrost/netsweep/internal/metrics"
)

var (
	cfgFile     string
	verbose     bool
	metricsAddr string
)

// Build information - these will be set by ldflags during build.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "netsweep",
	Short: "Concurrent network discovery and port scanner",
	Long: `Netsweep discovers responsive hosts on a network and scans ports on
individual targets. Discovery combines TCP connect probes against common
ports with an ICMP fallback; port scans distinguish open, closed, and
filtered states and annotate open ports with service and risk information.`,
	Version: getVersion(),
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./netsweep.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while scanning")

	if err := viper.BindPFlag("metrics.listen_addr", rootCmd.PersistentFlags().Lookup("metrics-addr")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind metrics-addr flag: %v\n", err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("netsweep")
	}

	viper.SetEnvPrefix("NETSWEEP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setConfigDefaults()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}

	initLogging()
}

// setConfigDefaults mirrors config.Default for values read through viper.
// Every key must be registered here: AutomaticEnv only consults env vars
// for keys viper already knows about.
func setConfigDefaults() {
	defaults := config.Default()

	viper.SetDefault("scanning.concurrency", defaults.Scanning.Concurrency)
	viper.SetDefault("scanning.discovery_timeout", defaults.Scanning.DiscoveryTimeout)
	viper.SetDefault("scanning.port_scan_timeout", defaults.Scanning.PortScanTimeout)
	viper.SetDefault("scanning.candidate_tcp_ports", defaults.Scanning.CandidateTCPPorts)
	viper.SetDefault("scanning.default_ports", defaults.Scanning.DefaultPorts)
	viper.SetDefault("scanning.enable_icmp_fallback", defaults.Scanning.EnableICMPFallback)
	viper.SetDefault("scanning.enable_banner_grab", defaults.Scanning.EnableBannerGrab)
	viper.SetDefault("scanning.enable_hostname_resolution", defaults.Scanning.EnableHostnameResolution)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.format", defaults.Logging.Format)
	viper.SetDefault("logging.output", defaults.Logging.Output)

	viper.SetDefault("metrics.enabled", defaults.Metrics.Enabled)
	viper.SetDefault("metrics.listen_addr", defaults.Metrics.ListenAddr)
}

// getVersion returns the version string.
func getVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime)
}

// SetVersion sets the version information (called from main).
func SetVersion(v, c, bt string) {
	version = v
	commit = c
	buildTime = bt
	rootCmd.Version = getVersion()
}

// loadConfig materializes the effective configuration from viper, which
// layers config file values and NETSWEEP_* environment variables over the
// defaults, then applies global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.ListenAddr = metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// startMetricsServer starts the Prometheus listener when enabled and
// returns a shutdown function.
func startMetricsServer(cfg *config.Config) func() {
	if !cfg.Metrics.Enabled {
		return func() {}
	}

	server := metrics.NewServer(cfg.Metrics.ListenAddr, metrics.GetGlobalMetrics())
	server.Start()
	logging.Info("Metrics listener started", "addr", cfg.Metrics.ListenAddr)

	return func() {
		if err := server.Stop(); err != nil {
			logging.Warn("Metrics listener shutdown failed", "error", err)
		}
	}
}

// initLogging initializes structured logging based on configuration.
func initLogging() {
	cfg, err := loadConfig()
	if err != nil {
		logging.SetDefault(logging.NewDefault())
		return
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:     logging.LogLevel(level),
		Format:    logging.LogFormat(cfg.Logging.Format),
		Output:    cfg.Logging.Output,
		AddSource: level == "debug",
	})
	if err != nil {
		logger = logging.NewDefault()
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	logging.SetDefault(logger)
}
