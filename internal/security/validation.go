// Package security validates externally-supplied probe targets and rate
// limits probe execution in server mode.
//
// The CLI only ever probes values it discovered itself, but MCP clients
// pass arbitrary hostnames and addresses. Everything they send is
// validated here before reaching a probe, and even validated values are
// only ever passed as discrete argv tokens, never through a shell.
package security

import (
	"fmt"
	"net"
)

// ValidateGatewayIP accepts an address only if it could plausibly be a
// local gateway: a valid IP inside private/link-local space, not
// loopback, multicast, or unspecified. This keeps tool-driven probes
// pointed at the local network instead of arbitrary internet hosts.
func ValidateGatewayIP(ipStr string) error {
	if ipStr == "" {
		return fmt.Errorf("IP address cannot be empty")
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return fmt.Errorf("invalid IP address format: %s", ipStr)
	}
	if ip.IsLoopback() {
		return fmt.Errorf("loopback addresses not allowed: %s", ipStr)
	}
	if ip.IsMulticast() {
		return fmt.Errorf("multicast addresses not allowed: %s", ipStr)
	}
	if ip.IsUnspecified() {
		return fmt.Errorf("unspecified addresses not allowed: %s", ipStr)
	}
	if !isPrivateIP(ip) {
		return fmt.Errorf("only private IP addresses allowed (RFC 1918/4193): %s", ipStr)
	}
	return nil
}

func isPrivateIP(ip net.IP) bool {
	privateRanges := []string{
		"10.0.0.0/8",     // RFC 1918
		"172.16.0.0/12",  // RFC 1918
		"192.168.0.0/16", // RFC 1918
		"169.254.0.0/16", // RFC 3927 IPv4 link-local
		"fc00::/7",       // RFC 4193 IPv6 ULA
		"fe80::/10",      // RFC 4291 IPv6 link-local
	}

	for _, cidr := range privateRanges {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			continue
		}
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// IsPrivateIP reports whether ip is in private/link-local space.
func IsPrivateIP(ip net.IP) bool {
	return isPrivateIP(ip)
}

// ValidatePort checks that a port is usable as a probe target.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got: %d", port)
	}
	return nil
}

// SanitizeHostname validates a name before it becomes a ping argv token
// or DNS query. Only hostname-shaped characters pass; anything a shell
// or flag parser could care about is rejected outright.
func SanitizeHostname(hostname string) (string, error) {
	if hostname == "" {
		return "", fmt.Errorf("hostname cannot be empty")
	}
	if len(hostname) > 253 {
		return "", fmt.Errorf("hostname too long: %d characters (max 253)", len(hostname))
	}

	for _, char := range hostname {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '.' || char == '-' || char == '_' || char == ':') {
			return "", fmt.Errorf("invalid character in hostname: %c", char)
		}
	}

	// A leading dash would read as a flag to the ping binary.
	if hostname[0] == '-' {
		return "", fmt.Errorf("hostname cannot start with a dash: %s", hostname)
	}

	return hostname, nil
}

// ValidateProbeTarget accepts either an IP literal or a sanitized
// hostname. This is the gate for ping and DNS tool inputs.
func ValidateProbeTarget(target string) error {
	if target == "" {
		return fmt.Errorf("target cannot be empty")
	}
	if net.ParseIP(target) != nil {
		return nil
	}
	_, err := SanitizeHostname(target)
	return err
}
