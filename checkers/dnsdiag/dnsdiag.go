package dnsdiag

import (
	"net"
	"time"

	"github.com/miekg/dns"

	"github.com/asennott/netdiag/checkers/common"
	"github.com/asennott/netdiag/internal/checker"
	"github.com/asennott/netdiag/internal/output"
	"github.com/asennott/netdiag/internal/runner"
)

type DNSChecker struct{}

type DNSConfig struct {
	Server    string // host or host:port; port 53 is assumed when absent
	ProbeName string // name to query
	Timeout   time.Duration
}

func NewDNSChecker() checker.Checker {
	return &DNSChecker{}
}

func (c *DNSChecker) Name() string {
	return "dnscheck"
}

func (c *DNSChecker) Description() string {
	return "Direct query against a chosen DNS server"
}

func (c *DNSChecker) Icon() string {
	return "🗂️"
}

func (c *DNSChecker) DefaultConfig() checker.CheckerConfig {
	return DNSConfig{
		Server:    "8.8.8.8",
		ProbeName: "google.com",
		Timeout:   common.DiscoveryTimeout,
	}
}

func (c *DNSChecker) RequiresGateway() bool {
	return false
}

func (c *DNSChecker) DefaultEnabled() bool {
	return true
}

func (c *DNSChecker) Run(rc *runner.RunContext, config checker.CheckerConfig, out output.Output) {
	cfg := config.(DNSConfig)
	queryServer(rc, cfg, out)
}

func (c *DNSChecker) MCPToolDefinition() *checker.MCPTool {
	return &checker.MCPTool{
		Name:        "check_dns_server",
		Description: "Send an A query directly to a DNS server and report rcode, latency, and answers",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"dns_server": map[string]interface{}{
					"type":        "string",
					"description": "DNS server to query (host or host:port, default 8.8.8.8)",
				},
				"target": map[string]interface{}{
					"type":        "string",
					"description": "Name to look up (default google.com)",
				},
			},
			"required": []string{},
		},
	}
}

// QueryResult is what one direct query produced.
type QueryResult struct {
	Server    string
	Rcode     string
	Latency   time.Duration
	Answers   []string
	Truncated bool
	Err       error
}

func queryServer(rc *runner.RunContext, cfg DNSConfig, out output.Output) {
	server := ensurePort(cfg.Server)
	out.Section("🗂️", "Direct DNS query")
	out.Info("Server: %s, query: %s A", server, cfg.ProbeName)

	res := Query(server, cfg.ProbeName, cfg.Timeout)
	if res.Err != nil {
		rc.Log.Warn().Str("server", server).Err(res.Err).Msg("direct dns query failed")
		out.Error("Query failed: %v", res.Err)
		out.Detail("The server may be down, filtered, or not running DNS")
		return
	}

	out.Success("Answered in %s with rcode %s", res.Latency.Round(time.Millisecond), res.Rcode)
	if res.Truncated {
		out.Warning("Response was truncated; retry over TCP for the full answer")
	}
	if len(res.Answers) == 0 {
		out.Warning("No A records in the answer section")
		return
	}
	for _, a := range res.Answers {
		out.Detail("%s", a)
	}
}

// Query sends one A question to server and waits for the reply.
func Query(server, name string, timeout time.Duration) QueryResult {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), dns.TypeA)
	m.RecursionDesired = true

	client := &dns.Client{Timeout: timeout}
	resp, rtt, err := client.Exchange(m, server)
	if err != nil {
		return QueryResult{Server: server, Err: err}
	}

	result := QueryResult{
		Server:    server,
		Rcode:     dns.RcodeToString[resp.Rcode],
		Latency:   rtt,
		Truncated: resp.Truncated,
	}
	for _, ans := range resp.Answer {
		if a, ok := ans.(*dns.A); ok {
			result.Answers = append(result.Answers, a.A.String())
		}
	}
	return result
}

// ensurePort appends :53 unless the server string already carries a
// port. JoinHostPort brackets IPv6 literals.
func ensurePort(server string) string {
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	return net.JoinHostPort(server, "53")
}
