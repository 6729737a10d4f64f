package ipv6

import (
	"net"
	"runtime"
	"strings"
	"time"

	"github.com/asennott/netdiag/checkers/common"
	"github.com/asennott/netdiag/internal/checker"
	"github.com/asennott/netdiag/internal/execx"
	"github.com/asennott/netdiag/internal/output"
	"github.com/asennott/netdiag/internal/runner"
)

type IPv6Checker struct{}

type IPv6Config struct {
	// ReachTarget is dialed to confirm v6 connectivity end to end.
	ReachTarget string
	DialTimeout time.Duration
}

func NewIPv6Checker() checker.Checker {
	return &IPv6Checker{}
}

func (c *IPv6Checker) Name() string {
	return "ipv6"
}

func (c *IPv6Checker) Description() string {
	return "IPv6 address, route, and reachability posture"
}

func (c *IPv6Checker) Icon() string {
	return "🌐"
}

func (c *IPv6Checker) DefaultConfig() checker.CheckerConfig {
	return IPv6Config{
		ReachTarget: "[2001:4860:4860::8888]:53",
		DialTimeout: common.DialTimeout,
	}
}

func (c *IPv6Checker) RequiresGateway() bool {
	return false
}

func (c *IPv6Checker) DefaultEnabled() bool {
	return true
}

func (c *IPv6Checker) Run(rc *runner.RunContext, config checker.CheckerConfig, out output.Output) {
	cfg := config.(IPv6Config)
	checkIPv6(rc, cfg, out)
}

func (c *IPv6Checker) MCPToolDefinition() *checker.MCPTool {
	return &checker.MCPTool{
		Name:        "check_ipv6",
		Description: "Report IPv6 addresses per interface, default route presence, and v6 reachability",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
			"required":   []string{},
		},
	}
}

// InterfaceAddrs is one interface's IPv6 address split.
type InterfaceAddrs struct {
	Name      string
	Global    []string
	LinkLocal []string
}

func checkIPv6(rc *runner.RunContext, cfg IPv6Config, out output.Output) {
	out.Section("🌐", "IPv6 posture")

	ifaces, err := net.Interfaces()
	if err != nil {
		out.Error("Interface enumeration failed: %v", err)
		return
	}

	var addrsPerIface []InterfaceAddrs
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		var strAddrs []string
		for _, a := range addrs {
			strAddrs = append(strAddrs, a.String())
		}
		if split := Classify(iface.Name, strAddrs); len(split.Global) > 0 || len(split.LinkLocal) > 0 {
			addrsPerIface = append(addrsPerIface, split)
		}
	}

	if len(addrsPerIface) == 0 {
		out.Info("ℹ️  No IPv6 addresses configured")
		return
	}

	hasGlobal := false
	for _, ia := range addrsPerIface {
		if len(ia.Global) > 0 {
			hasGlobal = true
			out.Info("%s: global %s", ia.Name, strings.Join(ia.Global, ", "))
		}
		if len(ia.LinkLocal) > 0 {
			out.Detail("%s: link-local %s", ia.Name, strings.Join(ia.LinkLocal, ", "))
		}
	}

	if hasDefaultRoute(rc, out) {
		out.Success("Default IPv6 route present")
	} else {
		out.Warning("No default IPv6 route; global addresses cannot reach off-link")
	}

	if !hasGlobal {
		out.Info("ℹ️  Link-local only; skipping reachability test")
		return
	}

	if reachable(cfg) {
		out.Success("IPv6 target %s reachable", cfg.ReachTarget)
	} else {
		out.Warning("IPv6 target %s not reachable", cfg.ReachTarget)
	}
}

// Classify splits interface address strings into global and link-local
// IPv6 addresses, dropping IPv4 and loopback.
func Classify(ifaceName string, addrs []string) InterfaceAddrs {
	split := InterfaceAddrs{Name: ifaceName}
	for _, addr := range addrs {
		ip, _, err := net.ParseCIDR(addr)
		if err != nil {
			ip = net.ParseIP(addr)
		}
		if ip == nil || ip.To4() != nil || ip.IsLoopback() {
			continue
		}
		if ip.IsLinkLocalUnicast() {
			split.LinkLocal = append(split.LinkLocal, ip.String())
		} else {
			split.Global = append(split.Global, ip.String())
		}
	}
	return split
}

// hasDefaultRoute scrapes the v6 routing table for a default entry.
func hasDefaultRoute(rc *runner.RunContext, out output.Output) bool {
	run := execx.NewCommandRunner(rc.Log)

	name, args := "ip", []string{"-6", "route", "show", "default"}
	if runtime.GOOS == "windows" {
		name, args = "netsh", []string{"interface", "ipv6", "show", "route"}
	}

	res := run.Run(rc.Ctx, name, args, common.DiscoveryTimeout)
	if !res.OK || res.ExitCode != 0 {
		out.Debug("route inspection unavailable (%s)", name)
		return false
	}
	return HasDefaultRouteOutput(res.Payload)
}

// HasDefaultRouteOutput reports whether a v6 route dump contains a
// default entry.
func HasDefaultRouteOutput(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "default") || strings.Contains(line, "::/0") {
			return true
		}
	}
	return false
}

func reachable(cfg IPv6Config) bool {
	conn, err := net.DialTimeout("tcp6", cfg.ReachTarget, cfg.DialTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
