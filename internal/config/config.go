// Package config loads and validates netsweep configuration. Engine
// defaults live here, not inside the engine: the scan package receives a
// fully populated Options struct.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/avrost/netsweep/internal/scan"
)

const (
	configFilePerm = 0o644
	configDirPerm  = 0o755
)

var validate = validator.New()

// Config represents the complete netsweep configuration.
type Config struct {
	Scanning ScanningConfig `yaml:"scanning" mapstructure:"scanning" json:"scanning"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging" json:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics" mapstructure:"metrics" json:"metrics"`
}

// ScanningConfig holds engine tuning knobs.
type ScanningConfig struct {
	// Concurrency is the worker pool size for probe fan-out.
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency" json:"concurrency" validate:"min=1,max=1024"`

	// DiscoveryTimeout bounds each host discovery probe.
	DiscoveryTimeout time.Duration `yaml:"discovery_timeout" mapstructure:"discovery_timeout" json:"discovery_timeout" validate:"gt=0"`

	// PortScanTimeout bounds each port probe.
	PortScanTimeout time.Duration `yaml:"port_scan_timeout" mapstructure:"port_scan_timeout" json:"port_scan_timeout" validate:"gt=0"`

	// CandidateTCPPorts are tried in order when probing for live hosts.
	CandidateTCPPorts []int `yaml:"candidate_tcp_ports" mapstructure:"candidate_tcp_ports" json:"candidate_tcp_ports" validate:"min=1,dive,min=1,max=65535"`

	// DefaultPorts is the port specification used when a scan names none.
	DefaultPorts string `yaml:"default_ports" mapstructure:"default_ports" json:"default_ports" validate:"required"`

	EnableICMPFallback       bool `yaml:"enable_icmp_fallback" mapstructure:"enable_icmp_fallback" json:"enable_icmp_fallback"`
	EnableBannerGrab         bool `yaml:"enable_banner_grab" mapstructure:"enable_banner_grab" json:"enable_banner_grab"`
	EnableHostnameResolution bool `yaml:"enable_hostname_resolution" mapstructure:"enable_hostname_resolution" json:"enable_hostname_resolution"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level" json:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" json:"format" validate:"oneof=text json"`
	Output string `yaml:"output" mapstructure:"output" json:"output" validate:"required"`
}

// MetricsConfig holds the optional Prometheus listener settings.
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled" mapstructure:"enabled" json:"enabled"`
	ListenAddr string `yaml:"listen_addr" mapstructure:"listen_addr" json:"listen_addr" validate:"omitempty,hostname_port"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Scanning: ScanningConfig{
			Concurrency:              50,
			DiscoveryTimeout:         1 * time.Second,
			PortScanTimeout:          3 * time.Second,
			CandidateTCPPorts:        []int{80, 443, 22, 21, 25, 53, 135, 139, 445},
			DefaultPorts:             "1-1024",
			EnableICMPFallback:       true,
			EnableBannerGrab:         true,
			EnableHostnameResolution: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled:    false,
			ListenAddr: "127.0.0.1:9090",
		},
	}
}

// Load loads configuration from a file, starting from defaults. A missing
// file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	config := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), configDirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, configFilePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks all sections against their constraints.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// DiscoveryOptions builds engine options for host discovery.
func (c *Config) DiscoveryOptions() scan.Options {
	return scan.Options{
		Concurrency:              c.Scanning.Concurrency,
		PerProbeTimeout:          c.Scanning.DiscoveryTimeout,
		CandidateTCPPorts:        c.Scanning.CandidateTCPPorts,
		EnableICMPFallback:       c.Scanning.EnableICMPFallback,
		EnableBannerGrab:         c.Scanning.EnableBannerGrab,
		EnableHostnameResolution: c.Scanning.EnableHostnameResolution,
	}
}

// PortScanOptions builds engine options for port scans. Port probes get a
// longer timeout than discovery probes since a single host is being
// examined in depth.
func (c *Config) PortScanOptions() scan.Options {
	opts := c.DiscoveryOptions()
	opts.PerProbeTimeout = c.Scanning.PortScanTimeout
	return opts
}
