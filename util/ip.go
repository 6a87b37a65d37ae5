package util

import (
	"fmt"
	"net"
	"os"
	"strings"
)

var internalIPBlocks []*net.IPNet

func init() {
	internalIPs, err := ParseSubnets(
		[]string{
			"10.0.0.0/8",     // RFC1918
			"172.16.0.0/12",  // RFC1918
			"192.168.0.0/16", // RFC1918
		})

	if err == nil {
		internalIPBlocks = internalIPs
	} else {
		panic(fmt.Sprintf("Error defining internal IPs: %v", err.Error()))
	}
}

// ParseSubnets parses the provided subnets into net.IPNet format
func ParseSubnets(subnets []string) ([]*net.IPNet, error) {
	var parsedSubnets []*net.IPNet

	for _, entry := range subnets {
		// Try to parse out CIDR range
		_, block, err := net.ParseCIDR(entry)

		// If there was an error, check if entry was an IP
		if err != nil {
			ipAddr := net.ParseIP(entry)
			if ipAddr == nil {
				fmt.Fprintf(os.Stderr, "Error parsing entry: %s\n", err.Error())
				return nil, err
			}

			// Check if it's an IPv4 or IPv6 address and append the appropriate subnet mask
			var subnetMask string
			if ipAddr.To4() != nil {
				subnetMask = "/32"
			} else {
				subnetMask = "/128"
			}

			_, block, err = net.ParseCIDR(entry + subnetMask)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error parsing CIDR entry: %s\n", err.Error())
				return nil, err
			}
		}

		parsedSubnets = append(parsedSubnets, block)
	}
	return parsedSubnets, nil
}

// IPIsInternal checks if an address falls in one of the RFC1918 ranges.
// Unparseable addresses are never internal.
func IPIsInternal(address string) bool {
	ip := net.ParseIP(strings.TrimSpace(address))
	if ip == nil {
		return false
	}
	return ContainsIP(internalIPBlocks, ip)
}

// ContainsIP checks if a collection of subnets contains an IP
func ContainsIP(subnets []*net.IPNet, ip net.IP) bool {
	// cache IPv4 conversion so it not performed every in every Contains call
	if ipv4 := ip.To4(); ipv4 != nil {
		ip = ipv4
	}

	for _, block := range subnets {
		if block.Contains(ip) {
			return true
		}
	}
	return false
}
