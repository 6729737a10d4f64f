// Package starlink probes for a Starlink dish on its well-known local
// address and reports its telemetry when one answers.
package starlink
