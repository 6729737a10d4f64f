package mcp

// ToolInput is the argument set shared by all netdiag tools. Fields the
// tool does not use are ignored.
type ToolInput struct {
	Target         string `json:"target,omitempty"`          // hostname or IP to probe
	Count          int    `json:"count,omitempty"`           // echo requests per ping
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"` // per-probe timeout
	DNSServer      string `json:"dns_server,omitempty"`      // server for direct DNS queries
	Service        string `json:"service,omitempty"`         // mDNS service type
}

// ToolOutput is what every tool returns.
type ToolOutput struct {
	Summary string `json:"summary"`
	Report  string `json:"report"`
}
