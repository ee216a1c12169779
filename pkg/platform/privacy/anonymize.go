// Package privacy reduces personal data before it reaches logs.
package privacy

import (
	"net"
	"net/netip"
)

// AnonymizeIP keeps the network part of an address: /24 for IPv4 and /48 for
// IPv6. It returns "unknown" for an empty input and "invalid" when the input
// does not parse. A host:port pair is accepted.
func AnonymizeIP(addr string) string {
	if addr == "" || addr == "unknown" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}

	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return "invalid"
	}
	ip = ip.Unmap()

	bits := 48
	if ip.Is4() {
		bits = 24
	}
	prefix, err := ip.WithZone("").Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.Addr().String()
}
