package scan

import "strings"

// Risk levels assigned to open ports.
const (
	RiskNone   = "none"
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// serviceNames maps well-known ports to service names. Loaded once,
// never mutated.
var serviceNames = map[int]string{
	21:    "FTP",
	22:    "SSH",
	23:    "Telnet",
	25:    "SMTP",
	53:    "DNS",
	80:    "HTTP",
	110:   "POP3",
	111:   "RPC",
	135:   "RPC",
	139:   "NetBIOS",
	143:   "IMAP",
	443:   "HTTPS",
	445:   "SMB",
	993:   "IMAPS",
	995:   "POP3S",
	1433:  "MSSQL",
	1521:  "Oracle",
	3306:  "MySQL",
	3389:  "RDP",
	5432:  "PostgreSQL",
	5900:  "VNC",
	6379:  "Redis",
	8080:  "HTTP-Alt",
	8443:  "HTTPS-Alt",
	9200:  "Elasticsearch",
	27017: "MongoDB",
}

// highRiskPorts are services that should never face a network unprotected:
// cleartext logins, legacy RPC surfaces, and remote desktop.
var highRiskPorts = map[int]bool{
	21:   true, // FTP
	23:   true, // Telnet
	135:  true, // RPC
	139:  true, // NetBIOS
	445:  true, // SMB
	1433: true, // MSSQL
	3389: true, // RDP
}

// mediumRiskPorts are recognized cleartext or datastore services that
// warrant review when exposed.
var mediumRiskPorts = map[int]bool{
	25:    true, // SMTP
	110:   true, // POP3
	143:   true, // IMAP
	3306:  true, // MySQL
	5432:  true, // PostgreSQL
	5900:  true, // VNC
	6379:  true, // Redis
	9200:  true, // Elasticsearch
	27017: true, // MongoDB
}

// GuessService returns the well-known service name for a port, or the
// empty string for unrecognized ports.
func GuessService(port int) string {
	return serviceNames[port]
}

// ClassifyRisk maps an open port and its optional banner to a risk level.
// The table lookup is deterministic; banner heuristics can only raise the
// level, never lower it.
func ClassifyRisk(port int, banner string) string {
	if highRiskPorts[port] {
		return RiskHigh
	}

	lower := strings.ToLower(banner)
	if strings.Contains(lower, "telnet") || strings.Contains(lower, "ftp") {
		return RiskHigh
	}

	if mediumRiskPorts[port] {
		return RiskMedium
	}
	if _, recognized := serviceNames[port]; recognized {
		return RiskLow
	}
	return RiskNone
}
