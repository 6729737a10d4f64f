// netdiag answers the first questions of any connectivity complaint:
// what address does this machine have, can it reach its gateway, and
// does DNS resolve. The core run needs no flags; supplementary checkers
// and an MCP server mode sit behind them.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/asennott/netdiag/checkers"
	"github.com/asennott/netdiag/checkers/dnsdiag"
	mdnschk "github.com/asennott/netdiag/checkers/mdns"
	starlinkchk "github.com/asennott/netdiag/checkers/starlink"
	"github.com/asennott/netdiag/internal/cli"
	"github.com/asennott/netdiag/internal/config"
	"github.com/asennott/netdiag/internal/diag"
	"github.com/asennott/netdiag/internal/execx"
	"github.com/asennott/netdiag/internal/gateway"
	"github.com/asennott/netdiag/internal/logging"
	"github.com/asennott/netdiag/internal/mcp"
	"github.com/asennott/netdiag/internal/netfacts"
	"github.com/asennott/netdiag/internal/output"
	"github.com/asennott/netdiag/internal/pingx"
	"github.com/asennott/netdiag/internal/runner"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags, err := cli.ParseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	if flags.ListChecks {
		listChecks(stdout)
		return 0
	}

	// Config loading logs before the real logger exists, so it gets a
	// plain stderr console logger.
	bootstrap := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()
	provider := config.Load(flags.ConfigPath, bootstrap)

	log := logging.New(logging.Options{
		Level:      provider.LogLevel(),
		File:       provider.LogFile(),
		MaxBytes:   provider.LogMaxBytes(),
		MaxBackups: provider.LogBackups(),
		Verbose:    flags.Verbose,
		Quiet:      flags.Quiet,
	})

	settings := mergeSettings(flags, provider)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmdRunner := execx.NewCommandRunner(logging.Module(log, "exec"))
	facts := netfacts.NewResolver(logging.Module(log, "netfacts"))
	finder := gateway.NewDiscoverer(logging.Module(log, "gateway"), cmdRunner,
		gateway.ForOS(runtime.GOOS), time.Duration(settings.TimeoutSeconds)*time.Second)
	pinger := pingx.NewPinger(logging.Module(log, "ping"), cmdRunner)
	diagRunner := diag.NewRunner(logging.Module(log, "diag"), facts, finder, pinger, settings)

	if flags.MCP {
		registry := buildMCPRegistry(diagRunner, facts, finder, pinger, settings, log)
		if err := mcp.RunServer(ctx, registry, logging.Module(log, "mcp")); err != nil {
			return 1
		}
		return 0
	}

	rep := diagRunner.RunAllChecks(ctx)

	if flags.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			log.Error().Err(err).Msg("report encoding failed")
			return 1
		}
	} else {
		renderReport(output.NewStreamingOutput(stdout, flags.Verbose), rep)
	}

	if flags.AnyCheckerRequested() {
		out := output.NewStreamingOutput(stdout, flags.Verbose)
		rc := buildRunContext(ctx, flags, settings, log, rep.Gateway, rep.IPAddress, rep.InterfaceName)
		for _, c := range checkers.AllCheckers() {
			if flags.CheckerRequested(c.Name()) {
				checkers.RunChecker(c, rc, out)
			}
		}
	}

	return 0
}

// mergeSettings layers one-run flag overrides over the config file.
func mergeSettings(flags *cli.Config, provider *config.Provider) diag.Settings {
	settings := diag.Settings{
		ProbeCount:     provider.ProbeCount(),
		TimeoutSeconds: provider.TimeoutSeconds(),
		DNSServers:     provider.DNSServers(),
		ParallelDNS:    flags.ParallelDNS,
	}
	if flags.Count > 0 {
		settings.ProbeCount = flags.Count
	}
	if flags.Timeout > 0 {
		settings.TimeoutSeconds = flags.Timeout
	}
	if len(flags.DNSServers) > 0 {
		settings.DNSServers = flags.DNSServers
	}
	return settings
}

// buildRunContext carries the core run's findings into the checker phase
// and applies per-checker option flags.
func buildRunContext(ctx context.Context, flags *cli.Config, settings diag.Settings,
	log zerolog.Logger, gw, localIP, iface string) *runner.RunContext {

	rc := runner.NewRunContext(ctx).
		WithLogger(logging.Module(log, "checkers")).
		WithGateway(gw).
		WithLocalAddress(localIP, iface).
		WithProbeTimeout(time.Duration(settings.TimeoutSeconds) * time.Second)

	if flags.MDNSTimeout > 0 && flags.MDNSTimeout != time.Second {
		cfg := mdnschk.NewMDNSChecker().DefaultConfig().(mdnschk.MDNSConfig)
		cfg.Timeout = flags.MDNSTimeout
		rc.SetCheckerConfig("mdns", cfg)
	}
	if flags.DNSServer != "" {
		cfg := dnsdiag.NewDNSChecker().DefaultConfig().(dnsdiag.DNSConfig)
		cfg.Server = flags.DNSServer
		rc.SetCheckerConfig("dnscheck", cfg)
	}
	if flags.StarlinkAddr != "" {
		cfg := starlinkchk.NewStarlinkChecker().DefaultConfig().(starlinkchk.StarlinkConfig)
		cfg.Endpoint = flags.StarlinkAddr
		rc.SetCheckerConfig("starlink", cfg)
	}
	return rc
}

func renderReport(out output.Output, rep *diag.Report) {
	out.Header("Network Diagnostics")
	out.Info("📍 IP address:   %s (%s)", rep.IPAddress, rep.InterfaceName)
	out.Info("🖥️  Logon server: %s", rep.LogonServer)
	if rep.GatewayFound() {
		out.Info("🚪 Gateway:      %s", rep.Gateway)
	} else {
		out.Warning("No default gateway found")
	}

	out.Section("📶", "Gateway ping")
	renderPing(out, rep.GatewayPing)

	out.Section("🌐", "DNS resolution")
	for _, res := range rep.DNSResults {
		if strings.HasPrefix(res.Result, "DNS ") || res.Result == diag.NotChecked {
			out.Error("%s: %s", res.Host, res.Result)
		} else {
			out.Success("%s → %s", res.Host, res.Result)
		}
	}

	out.Info("")
	out.Info("⏱️  Completed in %d ms", rep.DurationMillis)
}

// renderPing splits raw ping output into detail lines; failure sentinels
// arrive as a single message and render as errors.
func renderPing(out output.Output, result string) {
	switch {
	case result == diag.NotChecked || result == diag.GatewayNotFound:
		out.Warning("%s", result)
	case strings.HasPrefix(result, "Ping "):
		out.Error("%s", result)
	default:
		out.Success("Gateway reachable")
		for _, line := range strings.Split(strings.TrimRight(result, "\n"), "\n") {
			out.Detail("%s", line)
		}
	}
}

func listChecks(w io.Writer) {
	fmt.Fprintln(w, "Supplementary checkers:")
	for _, f := range checkers.Flags() {
		gw := ""
		if f.RequiresGateway {
			gw = " (requires gateway)"
		}
		fmt.Fprintf(w, "  -%-10s %s %s%s\n", f.Name, f.Icon, f.Description, gw)
	}
}
