package enrich

import "strings"

// ouiVendors maps 24-bit OUI prefixes to hardware vendors. The table covers
// the vendors most commonly seen on home and small office networks; hosts
// outside it simply report no vendor.
var ouiVendors = map[string]string{
	"00:0C:29": "VMware",
	"00:50:56": "VMware",
	"00:1C:14": "VMware",
	"08:00:27": "Oracle (VirtualBox)",
	"0A:00:27": "Oracle (VirtualBox)",
	"00:15:5D": "Microsoft (Hyper-V)",
	"00:03:FF": "Microsoft (Hyper-V)",
	"DC:A6:32": "Raspberry Pi",
	"B8:27:EB": "Raspberry Pi",
	"E4:5F:01": "Raspberry Pi",
	"D8:3A:DD": "Raspberry Pi",
	"28:CD:C1": "Raspberry Pi",
	"AC:DE:48": "Private/Local",
	"00:1A:11": "Google",
	"F4:F5:D4": "Google",
	"80:2A:A8": "Ubiquiti",
	"F0:9F:C2": "Ubiquiti",
	"74:83:C2": "Ubiquiti",
	"18:E8:29": "Ubiquiti",
	"44:D9:E7": "Ubiquiti",
	"B4:FB:E4": "Ubiquiti",
	"00:11:32": "Synology",
	"00:11:11": "Intel",
	"00:19:D1": "Intel",
	"3C:D9:2B": "Hewlett Packard",
	"9C:8E:99": "Hewlett Packard",
	"00:1F:29": "Hewlett Packard",
	"10:65:30": "Cisco",
	"00:04:9F": "Cisco",
	"BC:5F:F4": "ASRock",
	"70:85:C2": "ASRock",
	"D8:BB:C1": "Logitech",
	"A4:2B:B0": "Espressif (IoT)",
	"24:62:AB": "Espressif (IoT)",
	"84:CC:A8": "Espressif (IoT)",
	"3C:71:BF": "Espressif (IoT)",
	"AC:D0:74": "Espressif (IoT)",
	"B4:E6:2D": "Espressif (IoT)",
	"CC:50:E3": "Espressif (IoT)",
	"EC:FA:BC": "Espressif (IoT)",
	"F0:9E:9E": "Espressif (IoT)",
	"5C:CF:7F": "Espressif (IoT)",
	"60:01:94": "Espressif (IoT)",
	"00:24:D2": "ASUS (Router)",
	"04:D9:F5": "ASUS (Router)",
	"F0:79:59": "ASUS (Router)",
	"78:24:AF": "ASUS (Router)",
	"C0:3F:0E": "Netgear",
	"A0:04:60": "Netgear",
	"00:14:6C": "Netgear",
	"C4:A8:1D": "D-Link",
	"B0:C5:54": "D-Link",
	"00:18:E7": "D-Link",
	"50:C7:BF": "TP-Link",
	"18:A6:F7": "TP-Link",
	"98:48:27": "TP-Link",
	"F4:F2:6D": "TP-Link",
	"00:1B:44": "SanDisk",
	"00:26:82": "Gemtek (Router)",
	"00:1D:AA": "HUAWEI",
	"F8:3D:FF": "HUAWEI",
	"E8:39:35": "HUAWEI",
	"00:25:9E": "HUAWEI",
	"80:B6:55": "ZTE",
	"F4:12:FA": "ZTE",
	"08:18:1A": "ZTE",
	"2C:AB:25": "Xiaomi",
	"64:CC:2E": "Xiaomi",
	"00:25:00": "Apple",
	"00:17:F2": "Apple",
	"DC:2B:2A": "Apple",
	"A8:20:66": "Apple",
	"F0:18:98": "Apple",
	"AC:87:A3": "Apple",
	"48:D7:05": "Apple",
	"FC:FC:48": "Apple",
	"00:1E:52": "Apple",
	"00:1B:63": "Apple",
	"28:CF:E9": "Apple",
	"7C:D1:C3": "Apple",
	"34:36:3B": "Apple",
	"18:AF:61": "Apple",
	"34:12:98": "Apple",
}

// LookupVendor maps a MAC address to its hardware vendor through the OUI
// prefix, or returns the empty string for unrecognized prefixes.
func LookupVendor(mac string) string {
	clean := strings.ToUpper(mac)
	clean = strings.ReplaceAll(clean, "-", "")
	clean = strings.ReplaceAll(clean, ":", "")
	if len(clean) < 6 {
		return ""
	}
	prefix := clean[0:2] + ":" + clean[2:4] + ":" + clean[4:6]
	return ouiVendors[prefix]
}
