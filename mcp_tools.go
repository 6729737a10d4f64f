package main

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/asennott/netdiag/checkers"
	"github.com/asennott/netdiag/checkers/dnsdiag"
	mdnschk "github.com/asennott/netdiag/checkers/mdns"
	starlinkchk "github.com/asennott/netdiag/checkers/starlink"
	"github.com/asennott/netdiag/internal/checker"
	"github.com/asennott/netdiag/internal/diag"
	"github.com/asennott/netdiag/internal/logging"
	"github.com/asennott/netdiag/internal/mcp"
	"github.com/asennott/netdiag/internal/output"
	"github.com/asennott/netdiag/internal/runner"
	"github.com/asennott/netdiag/internal/security"
)

// buildMCPRegistry exposes the core diagnostics and every supplementary
// checker as MCP tools. Targets arriving from the client are validated
// before any probe touches them.
func buildMCPRegistry(diagRunner *diag.Runner, facts diag.FactSource, finder diag.GatewayFinder,
	pinger diag.HostPinger, settings diag.Settings, log zerolog.Logger) *mcp.Registry {

	registry := mcp.NewRegistry()
	timeout := time.Duration(settings.TimeoutSeconds) * time.Second

	// Two buckets: subprocess-spawning tools share the tight one, pure
	// socket tools the looser one.
	probeLimiter := security.ProbeLimiter()
	lookupLimiter := security.LookupLimiter()

	registry.Register("run_diagnostics",
		"Run the full network diagnostic: local address, gateway discovery, gateway ping, and DNS resolution",
		probeLimiter,
		func(ctx context.Context, input *mcp.ToolInput) (*mcp.ToolOutput, error) {
			rep := diagRunner.RunAllChecks(ctx)
			buf := output.NewBufferedOutput()
			renderReport(buf, rep)
			return &mcp.ToolOutput{
				Summary: diagSummary(rep),
				Report:  buf.Text(),
			}, nil
		})

	registry.Register("ping_host",
		"Ping a host and return the raw ping output or the failure reason",
		probeLimiter,
		func(ctx context.Context, input *mcp.ToolInput) (*mcp.ToolOutput, error) {
			if err := security.ValidateProbeTarget(input.Target); err != nil {
				return nil, fmt.Errorf("invalid target: %w", err)
			}
			count := settings.ProbeCount
			if input.Count > 0 {
				count = input.Count
			}
			to := timeout
			if input.TimeoutSeconds > 0 {
				to = time.Duration(input.TimeoutSeconds) * time.Second
			}
			result := pinger.Ping(ctx, input.Target, count, to)
			return &mcp.ToolOutput{
				Summary: fmt.Sprintf("ping %s", input.Target),
				Report:  result,
			}, nil
		})

	registry.Register("resolve_dns",
		"Resolve a hostname and return its addresses or the failure reason",
		lookupLimiter,
		func(ctx context.Context, input *mcp.ToolInput) (*mcp.ToolOutput, error) {
			if err := security.ValidateProbeTarget(input.Target); err != nil {
				return nil, fmt.Errorf("invalid target: %w", err)
			}
			to := timeout
			if input.TimeoutSeconds > 0 {
				to = time.Duration(input.TimeoutSeconds) * time.Second
			}
			out := facts.ResolveDNS(ctx, input.Target, to)
			result := out.Payload
			if !out.OK {
				result = out.Message
			}
			return &mcp.ToolOutput{
				Summary: fmt.Sprintf("resolve %s", input.Target),
				Report:  fmt.Sprintf("%s: %s", input.Target, result),
			}, nil
		})

	registry.Register("discover_gateway",
		"Discover the default gateway address from the system routing configuration",
		probeLimiter,
		func(ctx context.Context, input *mcp.ToolInput) (*mcp.ToolOutput, error) {
			gw, ok := finder.Discover(ctx)
			if !ok {
				return &mcp.ToolOutput{Summary: "no gateway", Report: diag.GatewayNotFound}, nil
			}
			return &mcp.ToolOutput{Summary: "gateway found", Report: gw}, nil
		})

	for _, c := range checkers.AllCheckers() {
		tool := c.MCPToolDefinition()
		if tool == nil {
			continue
		}
		registry.Register(tool.Name, tool.Description,
			checkerLimiter(c.Name(), probeLimiter, lookupLimiter),
			checkerTool(c, facts, finder, timeout, logging.Module(log, "checkers")))
	}

	return registry
}

// checkerLimiter picks the bucket matching a checker's cost: routes and
// identify fork subprocesses, everything else is socket work.
func checkerLimiter(name string, probeLim, lookupLim *security.RateLimiter) *security.RateLimiter {
	switch name {
	case "routes", "identify":
		return probeLim
	}
	return lookupLim
}

// checkerTool adapts one supplementary checker into a ToolFunc. Each
// invocation rebuilds the run context: MCP sessions are long-lived and
// the gateway or local address may have changed since the last call.
func checkerTool(c checker.Checker, facts diag.FactSource, finder diag.GatewayFinder,
	timeout time.Duration, log zerolog.Logger) mcp.ToolFunc {

	return func(ctx context.Context, input *mcp.ToolInput) (*mcp.ToolOutput, error) {
		rc := runner.NewRunContext(ctx).
			WithLogger(log).
			WithProbeTimeout(timeout)

		ip, iface := facts.LocalIPAndInterface()
		rc.WithLocalAddress(ip, iface)

		if gw, ok := finder.Discover(ctx); ok {
			rc.WithGateway(gw)
		}

		if err := applyToolInput(c.Name(), input, rc); err != nil {
			return nil, err
		}

		buf := output.NewBufferedOutput()
		checkers.RunChecker(c, rc, buf)
		return &mcp.ToolOutput{
			Summary: c.Description(),
			Report:  buf.Text(),
		}, nil
	}
}

// applyToolInput maps optional tool arguments onto per-checker config
// overrides.
func applyToolInput(name string, input *mcp.ToolInput, rc *runner.RunContext) error {
	switch name {
	case "dnscheck":
		if input.DNSServer != "" {
			if err := security.ValidateProbeTarget(input.DNSServer); err != nil {
				return fmt.Errorf("invalid dns server: %w", err)
			}
			cfg := dnsdiag.NewDNSChecker().DefaultConfig().(dnsdiag.DNSConfig)
			cfg.Server = input.DNSServer
			rc.SetCheckerConfig(name, cfg)
		}
	case "mdns":
		if input.Service != "" {
			cfg := mdnschk.NewMDNSChecker().DefaultConfig().(mdnschk.MDNSConfig)
			cfg.ServiceTypes = []string{input.Service}
			rc.SetCheckerConfig(name, cfg)
		}
	case "starlink":
		if input.Target != "" {
			if err := validateDishEndpoint(input.Target); err != nil {
				return fmt.Errorf("invalid starlink endpoint: %w", err)
			}
			cfg := starlinkchk.NewStarlinkChecker().DefaultConfig().(starlinkchk.StarlinkConfig)
			cfg.Endpoint = input.Target
			rc.SetCheckerConfig(name, cfg)
		}
	}
	return nil
}

// validateDishEndpoint accepts only host:port where the host is a
// private-space address. The dish endpoint becomes a gRPC dial target,
// so a client must not be able to point it at arbitrary hosts.
func validateDishEndpoint(endpoint string) error {
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		return err
	}
	if err := security.ValidateGatewayIP(host); err != nil {
		return err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("port %q: %w", portStr, err)
	}
	return security.ValidatePort(port)
}

func diagSummary(rep *diag.Report) string {
	resolved := 0
	for _, res := range rep.DNSResults {
		if res.Result != diag.NotChecked && !isDNSFailure(res.Result) {
			resolved++
		}
	}
	gw := rep.Gateway
	if gw == "" {
		gw = "none"
	}
	return fmt.Sprintf("ip=%s gateway=%s dns=%d/%d resolved",
		rep.IPAddress, gw, resolved, len(rep.DNSResults))
}

func isDNSFailure(result string) bool {
	return len(result) > 4 && result[:4] == "DNS "
}
