package routes

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/asennott/netdiag/checkers/common"
	"github.com/asennott/netdiag/internal/checker"
	"github.com/asennott/netdiag/internal/execx"
	"github.com/asennott/netdiag/internal/output"
	"github.com/asennott/netdiag/internal/runner"
)

type RoutesChecker struct{}

type RoutesConfig struct {
	Timeout time.Duration
}

func NewRoutesChecker() checker.Checker {
	return &RoutesChecker{}
}

func (c *RoutesChecker) Name() string {
	return "routes"
}

func (c *RoutesChecker) Description() string {
	return "System routing table dump"
}

func (c *RoutesChecker) Icon() string {
	return "📍"
}

func (c *RoutesChecker) DefaultConfig() checker.CheckerConfig {
	return RoutesConfig{Timeout: common.DiscoveryTimeout}
}

func (c *RoutesChecker) RequiresGateway() bool {
	return false
}

func (c *RoutesChecker) DefaultEnabled() bool {
	return true
}

func (c *RoutesChecker) Run(rc *runner.RunContext, config checker.CheckerConfig, out output.Output) {
	cfg := config.(RoutesConfig)
	run := execx.NewCommandRunner(rc.Log)
	showRoutes(rc, run, cfg, out)
}

func (c *RoutesChecker) MCPToolDefinition() *checker.MCPTool {
	return &checker.MCPTool{
		Name:        "list_routes",
		Description: "Display system routing table information for both IPv4 and IPv6",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
			"required":   []string{},
		},
	}
}

// command alternative for one address family. Tried in order; the first
// one that produces routes wins.
type routeCommand struct {
	name string
	args []string
}

func commandsFor(goos, family string) []routeCommand {
	if goos == "windows" {
		return []routeCommand{{"route", []string{"print"}}}
	}
	if family == "inet6" {
		return []routeCommand{
			{"netstat", []string{"-rn", "-f", "inet6"}},
			{"ip", []string{"-6", "route", "show"}},
		}
	}
	return []routeCommand{
		{"netstat", []string{"-rn", "-f", "inet"}},
		{"route", []string{"-n"}},
		{"ip", []string{"route", "show"}},
	}
}

func showRoutes(rc *runner.RunContext, run execx.Runner, cfg RoutesConfig, out output.Output) {
	out.Section("📍", "Routing tables")

	ipv4 := collectRoutes(rc, run, cfg, "inet")
	if len(ipv4) > 0 {
		out.Info("📡 IPv4 routes (%d entries):", len(ipv4))
		for _, route := range ipv4 {
			out.Detail("%s", route)
		}
	}

	ipv6 := collectRoutes(rc, run, cfg, "inet6")
	if len(ipv6) > 0 {
		out.Info("🌐 IPv6 routes (%d entries):", len(ipv6))
		for _, route := range ipv6 {
			out.Detail("%s", route)
		}
	}

	if len(ipv4) == 0 && len(ipv6) == 0 {
		out.Info("ℹ️  No routing information available")
	}
}

func collectRoutes(rc *runner.RunContext, run execx.Runner, cfg RoutesConfig, family string) []string {
	for _, cmd := range commandsFor(runtime.GOOS, family) {
		res := run.Run(rc.Ctx, cmd.name, cmd.args, cfg.Timeout)
		if !res.OK || res.ExitCode != 0 {
			continue
		}
		if routes := parseRoutes(cmd.name, res.Payload); len(routes) > 0 {
			return routes
		}
	}
	return nil
}

// parseRoutes turns a routing dump into display lines. netstat and the
// legacy route command print headers before the table; ip route does
// not. Parsing is forgiving: a line that does not fit is shown raw.
func parseRoutes(command, text string) []string {
	var routes []string

	switch command {
	case "netstat":
		inTable := false
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if strings.Contains(line, "Destination") && strings.Contains(line, "Gateway") {
				inTable = true
				continue
			}
			if !inTable || line == "" || strings.HasPrefix(line, "Internet") {
				continue
			}
			routes = append(routes, formatRoute(line, 2))
		}

	case "route":
		for i, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if i == 0 || line == "" {
				continue
			}
			if strings.Contains(line, "Destination") || strings.Contains(line, "Kernel") ||
				strings.Contains(line, "===") || strings.Contains(line, "Interface List") {
				continue
			}
			routes = append(routes, formatRoute(line, 2))
		}

	default: // ip route
		for _, line := range strings.Split(text, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				routes = append(routes, line)
			}
		}
	}

	return routes
}

// formatRoute condenses a table row to "destination → gateway" when the
// row has at least minFields whitespace-separated fields.
func formatRoute(line string, minFields int) string {
	fields := strings.Fields(line)
	if len(fields) < minFields {
		return line
	}
	dest, gw := fields[0], fields[1]
	if gw == "0.0.0.0" || gw == "::" || gw == "link#" {
		gw = "direct"
	}
	return fmt.Sprintf("%s → %s", dest, gw)
}
