package enrich

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupVendor(t *testing.T) {
	tests := []struct {
		name string
		mac  string
		want string
	}{
		{"vmware colon-separated", "00:0C:29:12:34:56", "VMware"},
		{"lowercase input", "b8:27:eb:aa:bb:cc", "Raspberry Pi"},
		{"dash-separated", "00-15-5D-01-02-03", "Microsoft (Hyper-V)"},
		{"apple prefix", "DC:2B:2A:00:00:01", "Apple"},
		{"unknown prefix", "02:42:AC:11:00:02", ""},
		{"too short", "00:0C", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LookupVendor(tt.mac))
		})
	}
}

func TestNormalizeMAC(t *testing.T) {
	assert.Equal(t, "00:0C:29:AB:CD:EF", normalizeMAC("00-0c-29-ab-cd-ef"))
	assert.Equal(t, "B8:27:EB:00:11:22", normalizeMAC("b8:27:eb:00:11:22"))
}

func TestSanitizeBanner(t *testing.T) {
	t.Run("strips control characters", func(t *testing.T) {
		assert.Equal(t, "SSH-2.0-OpenSSH_8.2p1", sanitizeBanner("SSH-2.0-OpenSSH_8.2p1\r\n"))
	})

	t.Run("stops at first newline", func(t *testing.T) {
		got := sanitizeBanner("220 mail.example.com ESMTP\r\n250 OK")
		assert.Equal(t, "220 mail.example.com ESMTP", got)
	})

	t.Run("caps banner length", func(t *testing.T) {
		long := ""
		for i := 0; i < 50; i++ {
			long += "abcdef"
		}
		assert.LessOrEqual(t, len(sanitizeBanner(long)), maxBannerLen)
	})

	t.Run("drops non-printable bytes", func(t *testing.T) {
		assert.Equal(t, "hello", sanitizeBanner("he\x00l\x07lo"))
	})
}

// bannerServer serves a fixed payload to every connection on a loopback
// ephemeral port and returns the port number.
func bannerServer(t *testing.T, greeting string, waitForRequest bool) int {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer func() { _ = c.Close() }()
				if waitForRequest {
					buf := make([]byte, 256)
					_, _ = c.Read(buf)
				}
				_, _ = c.Write([]byte(greeting))
			}(conn)
		}
	}()

	_, portStr, err := net.SplitHostPort(listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return port
}

func TestGrabBanner(t *testing.T) {
	ctx := context.Background()

	t.Run("reads text protocol greeting", func(t *testing.T) {
		port := bannerServer(t, "SSH-2.0-OpenSSH_8.2p1 Ubuntu\r\n", false)

		// The fixture listens on an ephemeral port, so probe through the
		// passive path directly.
		conn, err := net.DialTimeout("tcp4", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), time.Second)
		require.NoError(t, err)
		defer func() { _ = conn.Close() }()
		require.NoError(t, conn.SetDeadline(time.Now().Add(bannerDeadline)))

		assert.Equal(t, "SSH-2.0-OpenSSH_8.2p1 Ubuntu", passiveBanner(conn))
	})

	t.Run("extracts http server header", func(t *testing.T) {
		port := bannerServer(t, "HTTP/1.0 200 OK\r\nServer: nginx/1.18.0\r\nContent-Length: 0\r\n\r\n", true)

		conn, err := net.DialTimeout("tcp4", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), time.Second)
		require.NoError(t, err)
		defer func() { _ = conn.Close() }()
		require.NoError(t, conn.SetDeadline(time.Now().Add(bannerDeadline)))

		assert.Equal(t, "Server: nginx/1.18.0", httpBanner(conn, "127.0.0.1", port))
	})

	t.Run("http response without server header", func(t *testing.T) {
		port := bannerServer(t, "HTTP/1.0 200 OK\r\nContent-Length: 0\r\n\r\n", true)

		conn, err := net.DialTimeout("tcp4", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), time.Second)
		require.NoError(t, err)
		defer func() { _ = conn.Close() }()
		require.NoError(t, conn.SetDeadline(time.Now().Add(bannerDeadline)))

		assert.Equal(t, "HTTP Service", httpBanner(conn, "127.0.0.1", port))
	})

	t.Run("reads greeting from a service on an unlisted port", func(t *testing.T) {
		// Services volunteer greetings on whatever port they run on; the
		// ephemeral fixture port is on no well-known list.
		port := bannerServer(t, "-ERR unknown command\r\n", false)

		banner := GrabBanner(ctx, "127.0.0.1", port, time.Second)
		assert.Equal(t, "-ERR unknown command", banner)
	})

	t.Run("silent service yields no banner", func(t *testing.T) {
		listener, err := net.Listen("tcp4", "127.0.0.1:0")
		require.NoError(t, err)
		t.Cleanup(func() { _ = listener.Close() })
		go func() {
			for {
				conn, err := listener.Accept()
				if err != nil {
					return
				}
				// Hold the connection open without writing.
				defer func() { _ = conn.Close() }()
			}
		}()

		_, portStr, err := net.SplitHostPort(listener.Addr().String())
		require.NoError(t, err)
		port, err := strconv.Atoi(portStr)
		require.NoError(t, err)

		deadline, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
		defer cancel()
		assert.Empty(t, GrabBanner(deadline, "127.0.0.1", port, time.Second))
	})

	t.Run("unreachable host yields no banner", func(t *testing.T) {
		got := GrabBanner(ctx, "192.0.2.1", 22, 200*time.Millisecond)
		assert.Empty(t, got)
	})
}

func TestReverseLookup(t *testing.T) {
	resolver := NewResolver(2 * time.Second)

	t.Run("unmapped test address returns empty", func(t *testing.T) {
		// TEST-NET-1 has no PTR records.
		name := resolver.ReverseLookup(context.Background(), "192.0.2.1")
		assert.Empty(t, name)
	})

	t.Run("invalid address returns empty", func(t *testing.T) {
		name := resolver.ReverseLookup(context.Background(), "not-an-ip")
		assert.Empty(t, name)
	})
}

func TestLookupMAC(t *testing.T) {
	t.Run("unknown host returns empty", func(t *testing.T) {
		assert.Empty(t, LookupMAC("192.0.2.1"))
	})
}
