// Package probe implements the low-level network probes used by the scan
// engine: TCP connect probes for host discovery and port scanning, plus an
// ICMP echo fallback for hosts that expose no candidate TCP port.
package probe

import (
	"context"
	stderrors "errors"
	"net"
	"os/exec"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/avrost/netsweep/internal/logging"
	"github.com/avrost/netsweep/internal/metrics"
)

// PortState is the classified outcome of a single TCP connect probe.
type PortState string

const (
	// StateOpen means the three-way handshake completed.
	StateOpen PortState = "open"
	// StateClosed means the target answered with a reset (connection refused).
	StateClosed PortState = "closed"
	// StateFiltered means the probe timed out or was administratively
	// dropped; no conclusive answer arrived.
	StateFiltered PortState = "filtered"
)

// Discovery methods reported in HostStatus.
const (
	MethodTCP  = "tcp"
	MethodICMP = "icmp"
	MethodNone = "none"
)

// HostStatus is the outcome of a host discovery probe.
type HostStatus struct {
	Alive bool
	// Method records how the host was confirmed alive: "tcp" when a
	// candidate port completed the handshake, "icmp" when the echo
	// fallback answered, "none" when nothing responded.
	Method string
	// Port is the candidate TCP port that answered. Zero for ICMP.
	Port int
	RTT  time.Duration
}

// PortResult is the outcome of a single port probe.
type PortResult struct {
	Port  int
	State PortState
	RTT   time.Duration
}

// DefaultCandidatePorts are the TCP ports tried during host discovery,
// chosen for how commonly real hosts listen on at least one of them.
func DefaultCandidatePorts() []int {
	return []int{80, 443, 22, 21, 25, 53, 135, 139, 445}
}

// ProbeHost checks whether a host is responsive. Candidate TCP ports are
// tried in order; the first completed handshake confirms the host without
// trying the rest. When no candidate port answers and icmpFallback is set,
// a single ICMP echo request decides.
func ProbeHost(ctx context.Context, ip string, candidates []int, timeout time.Duration, icmpFallback bool) HostStatus {
	start := time.Now()

	for _, port := range candidates {
		if ctx.Err() != nil {
			return HostStatus{Method: MethodNone}
		}
		result := ScanPort(ctx, ip, port, timeout)
		if result.State == StateOpen {
			status := HostStatus{
				Alive:  true,
				Method: MethodTCP,
				Port:   port,
				RTT:    time.Since(start),
			}
			logging.DebugProbe("Host responded on candidate port", ip,
				"port", port, "rtt", status.RTT)
			return status
		}
	}

	if icmpFallback && ctx.Err() == nil {
		if PingHost(ctx, ip, timeout) {
			status := HostStatus{
				Alive:  true,
				Method: MethodICMP,
				RTT:    time.Since(start),
			}
			logging.DebugProbe("Host answered ICMP echo", ip, "rtt", status.RTT)
			return status
		}
	}

	return HostStatus{Method: MethodNone, RTT: time.Since(start)}
}

// ScanPort probes a single TCP port and classifies the outcome into one of
// three states. A completed handshake is open, a refused connection is
// closed, and a timeout or unreachable error is filtered.
func ScanPort(ctx context.Context, target string, port int, timeout time.Duration) PortResult {
	start := time.Now()

	dialer := net.Dialer{Timeout: timeout}
	address := net.JoinHostPort(target, strconv.Itoa(port))

	conn, err := dialer.DialContext(ctx, "tcp4", address)
	rtt := time.Since(start)

	if err == nil {
		_ = conn.Close()
		return PortResult{Port: port, State: StateOpen, RTT: rtt}
	}

	state := classifyDialError(err)
	if state == StateFiltered {
		metrics.GetGlobalMetrics().IncrementProbeTimeouts(MethodTCP)
	}
	return PortResult{Port: port, State: state, RTT: rtt}
}

// classifyDialError maps a dial failure to a port state. Connection refused
// means the host answered with a reset, so the port is provably closed.
// Everything else (timeout, no route, filtered by a firewall) yields no
// conclusive answer.
func classifyDialError(err error) PortState {
	var errno syscall.Errno
	if stderrors.As(err, &errno) && errno == syscall.ECONNREFUSED {
		return StateClosed
	}
	return StateFiltered
}

// PingHost sends a single ICMP echo request using the system ping binary.
// Raw ICMP sockets need elevated privileges; the ping binary is setuid (or
// holds CAP_NET_RAW) on the platforms netsweep targets, so shelling out
// keeps discovery unprivileged.
func PingHost(ctx context.Context, ip string, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout+time.Second)
	defer cancel()

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		ms := strconv.Itoa(int(timeout.Milliseconds()))
		cmd = exec.CommandContext(ctx, "ping", "-n", "1", "-w", ms, ip)
	} else {
		secs := int(timeout.Seconds())
		if secs < 1 {
			secs = 1
		}
		cmd = exec.CommandContext(ctx, "ping", "-c", "1", "-W", strconv.Itoa(secs), ip)
	}

	if err := cmd.Run(); err != nil {
		return false
	}
	return true
}
