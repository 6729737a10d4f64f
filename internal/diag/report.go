package diag

import (
	"time"
)

// Sentinels reported in place of real results. They are part of the
// report contract: consumers match on them, so the exact spelling is
// load-bearing.
const (
	NotChecked      = "Not checked"
	GatewayNotFound = "Gateway not found"
)

// DNSResult is the resolution outcome for one configured name.
type DNSResult struct {
	Host   string `json:"host"`
	Result string `json:"result"`
}

// Report is the complete outcome of one diagnostic run.
//
// Every field is populated on every run: failed probes degrade their
// field to a sentinel or message string instead of leaving it empty. The
// one optional field is Gateway, empty when no default gateway could be
// discovered. DNSResults keeps the configured order, one entry per
// configured name, which is why it is a slice and not a map.
type Report struct {
	RunID          string      `json:"run_id"`
	StartedAt      time.Time   `json:"started_at"`
	DurationMillis int64       `json:"duration_ms"`
	IPAddress      string      `json:"ip"`
	InterfaceName  string      `json:"interface"`
	LogonServer    string      `json:"logon_server"`
	Gateway        string      `json:"gateway,omitempty"`
	GatewayPing    string      `json:"gateway_ping"`
	DNSResults     []DNSResult `json:"dns_results"`
}

// GatewayFound reports whether discovery produced an address.
func (r *Report) GatewayFound() bool {
	return r.Gateway != ""
}

// DNSResultFor returns the recorded outcome for host.
func (r *Report) DNSResultFor(host string) (string, bool) {
	for _, res := range r.DNSResults {
		if res.Host == host {
			return res.Result, true
		}
	}
	return "", false
}
