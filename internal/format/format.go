// Package format renders ScanSummary values as text or JSON. Both
// renderings are pure transforms: no logging, no I/O beyond the returned
// value.
package format

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/avrost/netsweep/internal/scan"
)

// JSON renders a summary as indented JSON with the stable field names of
// the data model.
func JSON(summary *scan.ScanSummary) ([]byte, error) {
	return json.MarshalIndent(summary, "", "  ")
}

// Text renders a summary as a human-readable report: a header with the
// counters, a host table for discovery results, and a port table with risk
// annotations for port scan results.
func Text(summary *scan.ScanSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Scan %s\n", summary.ScanID)
	fmt.Fprintf(&b, "Targets: %d total, %d responsive\n",
		summary.TargetsTotal, summary.TargetsResponsive)
	fmt.Fprintf(&b, "Elapsed: %s\n", summary.ElapsedTime.Round(time.Millisecond))
	if summary.Incomplete {
		b.WriteString("Warning: scan incomplete, results are partial\n")
	}
	b.WriteString("\n")

	if isPortScan(summary) {
		renderPortScan(&b, &summary.Records[0])
	} else {
		renderDiscovery(&b, summary.Records)
	}

	return b.String()
}

// isPortScan distinguishes the two summary shapes: a port scan has exactly
// one record with no discovery method attached.
func isPortScan(summary *scan.ScanSummary) bool {
	return len(summary.Records) == 1 && summary.Records[0].Method == ""
}

func renderDiscovery(b *strings.Builder, records []scan.HostRecord) {
	if len(records) == 0 {
		b.WriteString("No responsive hosts found.\n")
		return
	}

	table := tablewriter.NewWriter(b)
	table.Header("IP Address", "Method", "Port", "Hostname", "MAC Address", "Vendor")
	for _, host := range records {
		port := ""
		if len(host.OpenPorts) > 0 {
			port = strconv.Itoa(host.OpenPorts[0].Port)
		}
		_ = table.Append([]string{
			host.IP,
			host.Method,
			port,
			host.Hostname,
			host.MAC,
			host.Vendor,
		})
	}
	_ = table.Render()
}

func renderPortScan(b *strings.Builder, host *scan.HostRecord) {
	fmt.Fprintf(b, "Target: %s", host.IP)
	if host.Hostname != "" {
		fmt.Fprintf(b, " (%s)", host.Hostname)
	}
	b.WriteString("\n\n")

	var open []scan.PortRecord
	closed, filtered := 0, 0
	for _, record := range host.OpenPorts {
		switch record.State {
		case "open":
			open = append(open, record)
		case "closed":
			closed++
		default:
			filtered++
		}
	}

	if len(open) == 0 {
		b.WriteString("No open ports found.\n")
	} else {
		table := tablewriter.NewWriter(b)
		table.Header("Port", "State", "Service", "Risk", "Banner")
		for _, record := range open {
			_ = table.Append([]string{
				strconv.Itoa(record.Port),
				record.State,
				record.ServiceGuess,
				record.RiskLevel,
				record.Banner,
			})
		}
		_ = table.Render()
	}

	fmt.Fprintf(b, "\nPorts: %d open, %d closed, %d filtered\n",
		len(open), closed, filtered)

	renderRiskNotes(b, open)
}

// renderRiskNotes appends the security annotations for risky open ports.
func renderRiskNotes(b *strings.Builder, open []scan.PortRecord) {
	var high []string
	for _, record := range open {
		if record.RiskLevel == scan.RiskHigh {
			high = append(high, strconv.Itoa(record.Port))
		}
	}
	if len(high) > 0 {
		fmt.Fprintf(b, "High-risk ports detected: %s\n", strings.Join(high, ", "))
		b.WriteString("Consider securing or disabling these services.\n")
	}
}
