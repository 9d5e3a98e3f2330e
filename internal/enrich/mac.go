package enrich

import (
	"net"
	"os"
	"os/exec"
	"regexp"
	"strings"
)

const procArpPath = "/proc/net/arp"

var macPattern = regexp.MustCompile(`([0-9A-Fa-f]{2}[:-]){5}[0-9A-Fa-f]{2}`)

// LookupMAC returns the MAC address for an IP on the local network, or the
// empty string when no ARP entry exists. Local interface addresses resolve
// to the interface's own hardware address; remote hosts are looked up in
// the kernel ARP cache, then via the arp command.
func LookupMAC(ip string) string {
	if mac := localInterfaceMAC(ip); mac != "" {
		return mac
	}
	if mac := procArpMAC(ip); mac != "" {
		return mac
	}
	return arpCommandMAC(ip)
}

// localInterfaceMAC handles scanning the machine's own addresses, which
// never appear in the ARP cache.
func localInterfaceMAC(ip string) string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return ""
	}
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok || ipNet.IP.To4() == nil {
				continue
			}
			if ipNet.IP.String() == ip && len(iface.HardwareAddr) > 0 {
				return normalizeMAC(iface.HardwareAddr.String())
			}
		}
	}
	return ""
}

// procArpMAC reads the kernel ARP table directly. Columns are IP address,
// HW type, flags, HW address, mask, device.
func procArpMAC(ip string) string {
	data, err := os.ReadFile(procArpPath)
	if err != nil {
		return ""
	}

	lines := strings.Split(string(data), "\n")
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) < 4 || fields[0] != ip {
			continue
		}
		mac := fields[3]
		if mac == "00:00:00:00:00:00" {
			// Incomplete entry: the kernel sent an ARP request that was
			// never answered.
			return ""
		}
		return normalizeMAC(mac)
	}
	return ""
}

// arpCommandMAC shells out to the arp command, which works on platforms
// without /proc/net/arp.
func arpCommandMAC(ip string) string {
	out, err := exec.Command("arp", "-a", ip).Output()
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(out), "\n") {
		if !strings.Contains(line, ip) {
			continue
		}
		if match := macPattern.FindString(line); match != "" {
			return normalizeMAC(match)
		}
	}
	return ""
}

func normalizeMAC(mac string) string {
	return strings.ToUpper(strings.ReplaceAll(mac, "-", ":"))
}
