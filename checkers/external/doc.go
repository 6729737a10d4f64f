// Package external discovers the host's externally visible addresses.
//
// Several HTTPS IP-echo services are asked in order until one answers.
// Comparing the echoed IPv4 address with the local one distinguishes NAT
// from a directly routable address, and a successful IPv6 echo confirms
// working dual-stack connectivity.
package external
