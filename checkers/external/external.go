package external

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/asennott/netdiag/internal/checker"
	"github.com/asennott/netdiag/internal/output"
	"github.com/asennott/netdiag/internal/runner"
	"github.com/asennott/netdiag/internal/security"
)

type ExternalChecker struct{}

type ExternalConfig struct {
	IPv4Endpoints []string
	IPv6Endpoints []string
}

func NewExternalChecker() checker.Checker {
	return &ExternalChecker{}
}

func (c *ExternalChecker) Name() string {
	return "external"
}

func (c *ExternalChecker) Description() string {
	return "External IPv4/IPv6 discovery and NAT detection"
}

func (c *ExternalChecker) Icon() string {
	return "🌍"
}

func (c *ExternalChecker) DefaultConfig() checker.CheckerConfig {
	return ExternalConfig{
		IPv4Endpoints: []string{
			"https://api.ipify.org",
			"https://ipv4.icanhazip.com",
		},
		IPv6Endpoints: []string{
			"https://api6.ipify.org",
			"https://ipv6.icanhazip.com",
		},
	}
}

func (c *ExternalChecker) RequiresGateway() bool {
	return false
}

func (c *ExternalChecker) DefaultEnabled() bool {
	return true
}

func (c *ExternalChecker) Run(rc *runner.RunContext, config checker.CheckerConfig, out output.Output) {
	cfg := config.(ExternalConfig)
	client := security.NewHTTPClient(security.ExternalClientConfig())
	checkExternal(rc, cfg, client, out)
}

func (c *ExternalChecker) MCPToolDefinition() *checker.MCPTool {
	return &checker.MCPTool{
		Name:        "external_ip",
		Description: "Discover external IPv4/IPv6 addresses and report NAT and dual-stack status",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
			"required":   []string{},
		},
	}
}

func checkExternal(rc *runner.RunContext, cfg ExternalConfig, client *http.Client, out output.Output) {
	out.Section("🌍", "External address discovery")

	v4, v4src := fetchEchoedIP(client, cfg.IPv4Endpoints, false)
	v6, v6src := fetchEchoedIP(client, cfg.IPv6Endpoints, true)

	if v4 == "" && v6 == "" {
		out.Error("No external address discoverable; host may be offline")
		return
	}

	if v4 != "" {
		rc.Log.Info().Str("external_ip", v4).Str("source", v4src).Msg("external IPv4")
		out.Success("External IPv4: %s (via %s)", v4, v4src)
		describeNAT(rc.LocalIP, v4, out)
	} else {
		out.Warning("No external IPv4 address discoverable")
	}

	if v6 != "" {
		rc.Log.Info().Str("external_ip", v6).Str("source", v6src).Msg("external IPv6")
		out.Success("External IPv6: %s (via %s)", v6, v6src)
		out.Detail("Dual-stack connectivity confirmed")
	} else {
		out.Info("ℹ️  No IPv6 connectivity")
	}
}

// fetchEchoedIP asks the endpoints in order and returns the first valid
// echoed address with the hostname that supplied it.
func fetchEchoedIP(client *http.Client, endpoints []string, wantV6 bool) (string, string) {
	for _, endpoint := range endpoints {
		resp, err := client.Get(endpoint)
		if err != nil {
			continue
		}
		body, err := security.LimitedReadAll(resp.Body, 256)
		if err != nil || resp.StatusCode != http.StatusOK {
			continue
		}

		ip, ok := parseEchoedIP(string(body), wantV6)
		if !ok {
			continue
		}
		return ip, hostOf(endpoint)
	}
	return "", ""
}

// parseEchoedIP validates an IP-echo response body. Echo services reply
// with a bare address and optional trailing newline; anything else
// (HTML error pages, captive-portal interceptions) is rejected.
func parseEchoedIP(body string, wantV6 bool) (string, bool) {
	s := strings.TrimSpace(body)
	ip := net.ParseIP(s)
	if ip == nil {
		return "", false
	}
	if isV6 := ip.To4() == nil; isV6 != wantV6 {
		return "", false
	}
	return ip.String(), true
}

func describeNAT(localIP, externalIP string, out output.Output) {
	if localIP == "" || localIP == "N/A" {
		return
	}
	if localIP == externalIP {
		out.Detail("Local address matches external: directly routable, no NAT")
		return
	}
	if ip := net.ParseIP(localIP); ip != nil && security.IsPrivateIP(ip) {
		out.Detail(fmt.Sprintf("Behind NAT: private %s mapped to external %s", localIP, externalIP))
		return
	}
	out.Detail(fmt.Sprintf("Behind NAT: local %s, external %s", localIP, externalIP))
}

func hostOf(endpoint string) string {
	s := strings.TrimPrefix(endpoint, "https://")
	s = strings.TrimPrefix(s, "http://")
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	return s
}
