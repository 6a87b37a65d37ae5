package util

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

type ipBoolTestCase struct {
	ip  string
	out bool
	msg string
}

type parseSubnetsTestCase struct {
	nets    []string
	out     []*net.IPNet
	wantErr bool
	msg     string
}

func TestIPIsInternal(t *testing.T) {

	testCases := []ipBoolTestCase{
		{"10.1.2.3", true, "RFC1918 Class A"},
		{"172.16.1.2", true, "RFC1918 Class B"},
		{"172.31.255.255", true, "RFC1918 Class B upper edge"},
		{"172.32.0.1", false, "just outside RFC1918 Class B"},
		{"192.168.0.5", true, "RFC1918 Class C"},
		{" 192.168.1.2 ", true, "surrounding whitespace"},
		{"8.8.8.8", false, "google dns ipv4"},
		{"127.0.0.5", false, "IPv4 loopback is not RFC1918"},
		{"fc00:1234::", false, "IPv6 unique local is not RFC1918"},
		{"2001:4860:4860::8888", false, "google dns ipv6"},
		{"not-an-ip", false, "garbage"},
		{"", false, "empty"},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.out, IPIsInternal(testCase.ip), testCase.msg)
	}
}

// Ensures ParseSubnets returns expected net.IPNets and returns
// error when invalid IP address/CIDR network is provided.
func TestParseSubnets(t *testing.T) {
	validNets := []string{"192.168.0.0/24", "2001:db8::/32", "192.168.0.1", "2001:db8::1"}
	validNetsOutput := createIPNets([]string{"192.168.0.0/24", "2001:db8::/32", "192.168.0.1/32", "2001:db8::1/128"})
	invalidNets := []string{"invalidIP", "300.0.0.0/24"}

	testCases := []parseSubnetsTestCase{
		{
			nets:    validNets,
			out:     validNetsOutput,
			wantErr: false,
			msg:     "Valid mixed subnets",
		},
		{
			nets:    invalidNets,
			out:     nil,
			wantErr: true,
			msg:     "Invalid subnets (Expecting Error)",
		},
	}

	for _, testCase := range testCases {
		output, err := ParseSubnets(testCase.nets)
		assert.Equal(t, testCase.out, output, testCase.msg)
		assert.Equal(t, testCase.wantErr, err != nil, testCase.msg)
	}
}

func createIPNets(cidr []string) []*net.IPNet {
	ipNets := make([]*net.IPNet, len(cidr))

	for i, ip := range cidr {
		_, ipNet, _ := net.ParseCIDR(ip)
		ipNets[i] = ipNet
	}

	return ipNets
}
