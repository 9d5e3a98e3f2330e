package enrich

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/avrost/netsweep/internal/logging"
)

const (
	maxBannerLen   = 100
	bannerReadSize = 1024
	bannerDeadline = 2 * time.Second
)

// httpPorts answer a HEAD request with response headers worth keeping;
// a passive read would hang on them since HTTP servers speak second.
var httpPorts = map[int]bool{
	80:   true,
	8080: true,
}

// GrabBanner attempts to read a service banner from an open port. HTTP
// ports get a HEAD request and report the Server header; every other port
// gets a bounded passive read of whatever the service volunteers on
// connect (FTP, SSH, SMTP greetings, Redis errors, and the like). A
// service that sends nothing yields no banner.
func GrabBanner(ctx context.Context, ip string, port int, timeout time.Duration) string {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp4", net.JoinHostPort(ip, strconv.Itoa(port)))
	if err != nil {
		return ""
	}
	defer func() { _ = conn.Close() }()

	deadline := time.Now().Add(bannerDeadline)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return ""
	}

	if httpPorts[port] {
		return httpBanner(conn, ip, port)
	}
	return passiveBanner(conn)
}

func passiveBanner(conn net.Conn) string {
	buf := make([]byte, bannerReadSize)
	n, err := conn.Read(buf)
	if err != nil || n == 0 {
		return ""
	}
	return sanitizeBanner(string(buf[:n]))
}

func httpBanner(conn net.Conn, ip string, port int) string {
	if _, err := conn.Write([]byte("HEAD / HTTP/1.0\r\n\r\n")); err != nil {
		return ""
	}

	buf := make([]byte, bannerReadSize)
	n, err := conn.Read(buf)
	if err != nil || n == 0 {
		return ""
	}

	response := string(buf[:n])
	for _, line := range strings.Split(response, "\n") {
		if strings.HasPrefix(strings.ToLower(line), "server:") {
			return sanitizeBanner(line)
		}
	}

	logging.DebugProbe("HTTP service answered without a Server header", ip, "port", port)
	return "HTTP Service"
}

// sanitizeBanner strips control characters and caps the length so banners
// are safe to log and render in tables.
func sanitizeBanner(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r == '\n' || r == '\r' {
			break
		}
		if r >= 32 && r < 127 {
			b.WriteRune(r)
		}
		if b.Len() >= maxBannerLen {
			break
		}
	}
	return b.String()
}
