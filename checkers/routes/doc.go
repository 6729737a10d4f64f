// Package routes dumps the system routing tables.
//
// It is the diagnostic companion to gateway discovery: when the core
// report shows no gateway or an unexpected one, the raw IPv4 and IPv6
// tables show what the OS actually believes. Several inspection commands
// are tried in order since no single one exists on every platform.
package routes
