// Package enrich derives supplementary attributes for discovered hosts:
// reverse DNS names, MAC addresses from the local ARP cache, hardware
// vendor identification, and service banners. All lookups are best-effort;
// a failed enrichment never fails a scan.
package enrich

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/avrost/netsweep/internal/logging"
)

const resolvConfPath = "/etc/resolv.conf"

// Resolver performs reverse DNS lookups with an explicit per-query timeout
// independent of the system resolver's defaults.
type Resolver struct {
	client  *dns.Client
	servers []string
	timeout time.Duration
}

// NewResolver builds a resolver from the system DNS configuration. When the
// configuration cannot be read the resolver still works through the
// standard library lookup path.
func NewResolver(timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	r := &Resolver{
		client:  &dns.Client{Timeout: timeout},
		timeout: timeout,
	}

	config, err := dns.ClientConfigFromFile(resolvConfPath)
	if err != nil {
		logging.Debug("Failed to read resolver configuration, using stdlib fallback only",
			"path", resolvConfPath, "error", err)
		return r
	}
	for _, server := range config.Servers {
		r.servers = append(r.servers, net.JoinHostPort(server, config.Port))
	}
	return r
}

// ReverseLookup returns the PTR name for an IP address, or the empty string
// when the address has no reverse mapping. Configured nameservers are
// queried directly first; the standard library resolver is the fallback.
func (r *Resolver) ReverseLookup(ctx context.Context, ip string) string {
	if name := r.queryPTR(ctx, ip); name != "" {
		return name
	}
	return stdlibReverse(ctx, ip, r.timeout)
}

func (r *Resolver) queryPTR(ctx context.Context, ip string) string {
	reverse, err := dns.ReverseAddr(ip)
	if err != nil {
		return ""
	}

	msg := new(dns.Msg)
	msg.SetQuestion(reverse, dns.TypePTR)

	for _, server := range r.servers {
		if ctx.Err() != nil {
			return ""
		}
		resp, _, err := r.client.ExchangeContext(ctx, msg, server)
		if err != nil || resp == nil || resp.Rcode != dns.RcodeSuccess {
			continue
		}
		for _, answer := range resp.Answer {
			if ptr, ok := answer.(*dns.PTR); ok {
				return strings.TrimSuffix(ptr.Ptr, ".")
			}
		}
	}
	return ""
}

func stdlibReverse(ctx context.Context, ip string, timeout time.Duration) string {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	names, err := net.DefaultResolver.LookupAddr(ctx, ip)
	if err != nil || len(names) == 0 {
		return ""
	}
	return strings.TrimSuffix(names[0], ".")
}
