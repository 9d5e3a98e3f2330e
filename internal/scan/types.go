// Package scan orchestrates host discovery and port scans: it expands
// targets, fans probes out over the worker pool, enriches responsive hosts,
// classifies open ports, and aggregates everything into a ScanSummary. The
// summary is the only object that crosses the package boundary.
package scan

import (
	"time"

	"github.com/avrost/netsweep/internal/probe"
)

// ProbeResult is the raw outcome of one worker probe, host or port,
// together with any enrichment gathered inside the worker task. The pool
// owns it until the aggregator binds it into records.
type ProbeResult struct {
	Target   string
	Host     probe.HostStatus
	Port     probe.PortResult
	Hostname string
	MAC      string
	Vendor   string
	Banner   string
}

// PortRecord describes one probed port. State keeps the three-way
// open/closed/filtered distinction; service, banner and risk are only
// populated for open ports.
type PortRecord struct {
	Port         int    `json:"port"`
	State        string `json:"state"`
	ServiceGuess string `json:"service_guess,omitempty"`
	Banner       string `json:"banner,omitempty"`
	RiskLevel    string `json:"risk_level"`
}

// HostRecord describes one responsive host. For discovery scans OpenPorts
// holds the candidate port that confirmed the host; for port scans it
// holds every probed port with its state.
type HostRecord struct {
	IP        string       `json:"ip"`
	Alive     bool         `json:"alive"`
	Hostname  string       `json:"hostname,omitempty"`
	MAC       string       `json:"mac,omitempty"`
	Vendor    string       `json:"vendor,omitempty"`
	Method    string       `json:"method,omitempty"`
	OpenPorts []PortRecord `json:"open_ports,omitempty"`
}

// ScanSummary is the immutable result of one scan. For discovery scans the
// targets are hosts; for port scans they are ports on one host.
type ScanSummary struct {
	ScanID            string        `json:"scan_id"`
	TargetsTotal      int           `json:"targets_total"`
	TargetsResponsive int           `json:"targets_responsive"`
	ElapsedTime       time.Duration `json:"elapsed_time"`
	Incomplete        bool          `json:"incomplete"`
	Records           []HostRecord  `json:"records"`
}
