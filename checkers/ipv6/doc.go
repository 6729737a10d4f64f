// Package ipv6 reports the host's IPv6 posture: which interfaces carry
// global or link-local addresses, whether a default v6 route exists, and
// whether a well-known v6 target is reachable.
package ipv6
