// Package dnsdiag queries a specific DNS server directly.
//
// The core report resolves names through the system resolver, which
// hides which server actually answered. This checker sends an A query
// straight to a chosen server and reports the rcode, latency, and
// answers, separating "my resolver is broken" from "that server is
// down".
package dnsdiag
