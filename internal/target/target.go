// Package target expands scan specifications into concrete targets.
// It parses CIDR blocks into ordered host address sequences and port
// specification strings into ordered port lists.
package target

import (
	"net"
	"net/netip"
	"sort"
	"strconv"
	"strings"

	"github.com/avrost/netsweep/internal/errors"
)

const (
	minPort = 1
	maxPort = 65535

	// Networks wider than /16 are refused to bound scan size.
	minPrefixBits = 16
)

// ParseCIDR expands an IPv4 CIDR block (or a bare IPv4 address, treated as
// a /32) into an ordered, deduplicated sequence of usable host addresses.
// Network and broadcast addresses are excluded when the prefix allows it;
// /31 and /32 yield every address in the block.
func ParseCIDR(spec string) ([]netip.Addr, error) {
	trimmed := strings.TrimSpace(spec)
	if trimmed == "" {
		return nil, errors.ErrInvalidRange(spec)
	}

	// A bare address scans a single host.
	if !strings.Contains(trimmed, "/") {
		addr, err := netip.ParseAddr(trimmed)
		if err != nil || !addr.Is4() {
			return nil, errors.ErrInvalidRange(spec)
		}
		return []netip.Addr{addr}, nil
	}

	prefix, err := netip.ParsePrefix(trimmed)
	if err != nil {
		return nil, errors.ErrInvalidRange(spec)
	}
	if !prefix.Addr().Is4() {
		return nil, errors.ErrInvalidRange(spec).WithContext("reason", "only IPv4 blocks are supported")
	}
	if prefix.Bits() < minPrefixBits {
		return nil, errors.ErrInvalidRange(spec).WithContext("reason", "network wider than /16")
	}

	prefix = prefix.Masked()

	// /31 and /32 have no distinct network/broadcast addresses.
	if prefix.Bits() >= 31 {
		addrs := make([]netip.Addr, 0, 2)
		for a := prefix.Addr(); prefix.Contains(a); a = a.Next() {
			addrs = append(addrs, a)
		}
		return addrs, nil
	}

	var addrs []netip.Addr
	for a := prefix.Addr().Next(); prefix.Contains(a); a = a.Next() {
		addrs = append(addrs, a)
	}
	// Drop the broadcast address, which is the last one in the block.
	if len(addrs) > 0 {
		addrs = addrs[:len(addrs)-1]
	}
	return addrs, nil
}

// ParsePorts parses a port specification string into an ascending,
// deduplicated list of ports in [1,65535]. Supported forms:
//   - single: "22"
//   - list: "22,80,443"
//   - range: "1-1024"
//   - mixed: "22,80,8000-8100"
func ParsePorts(spec string) ([]int, error) {
	trimmed := strings.TrimSpace(spec)
	if trimmed == "" {
		return nil, errors.ErrInvalidPortSpec(spec)
	}

	seen := make(map[int]struct{})
	for _, token := range strings.Split(trimmed, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, errors.ErrInvalidPortSpec(spec).WithContext("token", token)
		}

		if strings.Contains(token, "-") {
			bounds := strings.SplitN(token, "-", 2)
			start, err := parsePort(bounds[0])
			if err != nil {
				return nil, errors.ErrInvalidPortSpec(spec).WithContext("token", token)
			}
			end, err := parsePort(bounds[1])
			if err != nil {
				return nil, errors.ErrInvalidPortSpec(spec).WithContext("token", token)
			}
			if start > end {
				return nil, errors.ErrInvalidPortSpec(spec).WithContext("token", token)
			}
			for p := start; p <= end; p++ {
				seen[p] = struct{}{}
			}
			continue
		}

		p, err := parsePort(token)
		if err != nil {
			return nil, errors.ErrInvalidPortSpec(spec).WithContext("token", token)
		}
		seen[p] = struct{}{}
	}

	if len(seen) == 0 {
		return nil, errors.ErrInvalidPortSpec(spec)
	}

	ports := make([]int, 0, len(seen))
	for p := range seen {
		ports = append(ports, p)
	}
	sort.Ints(ports)
	return ports, nil
}

func parsePort(s string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if p < minPort || p > maxPort {
		return 0, errors.NewScanError(errors.CodeInvalidPortSpec, "port out of range")
	}
	return p, nil
}

// ResolveIPv4 resolves a hostname or IP literal to its first IPv4 address.
// IPv6-only targets are rejected.
func ResolveIPv4(host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip4 := ip.To4(); ip4 != nil {
			return ip4.String(), nil
		}
		return "", errors.NewScanErrorWithTarget(errors.CodeResolution,
			"IPv6 addresses are not supported", host)
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return "", errors.ErrResolution(host, err)
	}
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return v4.String(), nil
		}
	}
	return "", errors.NewScanErrorWithTarget(errors.CodeResolution,
		"no IPv4 addresses found for host", host)
}
