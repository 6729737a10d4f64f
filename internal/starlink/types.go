package starlink

import "time"

// DefaultEndpoint is where a Starlink dish answers gRPC on its own
// subnet.
const DefaultEndpoint = "192.168.100.1:9200"

const (
	DialTimeout    = 2 * time.Second
	RequestTimeout = 5 * time.Second
)

// Status is the subset of dish telemetry the checker reports.
type Status struct {
	ID                    string  `json:"id"`
	HardwareVersion       string  `json:"hardware_version"`
	SoftwareVersion       string  `json:"software_version"`
	UptimeS               int64   `json:"uptime_s"`
	PopPingLatencyMs      float64 `json:"pop_ping_latency_ms"`
	DownlinkThroughputBps float64 `json:"downlink_throughput_bps"`
	UplinkThroughputBps   float64 `json:"uplink_throughput_bps"`
	FractionObstructed    float64 `json:"fraction_obstructed"`
	CurrentlyObstructed   bool    `json:"currently_obstructed"`
}
