// Package diag orchestrates the diagnostic probe sequence and assembles
// the report.
//
// The sequence is fixed: local address, logon server, gateway discovery,
// gateway ping, then one DNS lookup per configured name. Every step is
// isolated — a probe that fails degrades its own report field and nothing
// else — so RunAllChecks is total: it always hands back a fully populated
// Report and never an error.
package diag

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/asennott/netdiag/internal/netfacts"
	"github.com/asennott/netdiag/internal/parallel"
	"github.com/asennott/netdiag/internal/probe"
)

// Settings is the configuration snapshot one run consumes. It is copied
// in at construction and treated as immutable for the run.
type Settings struct {
	ProbeCount     int
	TimeoutSeconds int
	DNSServers     []string
	ParallelDNS    bool
}

func (s Settings) timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// FactSource answers local-state queries: bound addresses, the logon
// server, and DNS lookups with per-call deadlines.
type FactSource interface {
	LocalIPAndInterface() (ip, iface string)
	LogonServer() string
	ResolveDNS(ctx context.Context, host string, timeout time.Duration) probe.Outcome
}

// GatewayFinder discovers the default gateway, reporting absence rather
// than failure.
type GatewayFinder interface {
	Discover(ctx context.Context) (addr string, ok bool)
}

// HostPinger checks reachability, rendering every outcome to a
// displayable string.
type HostPinger interface {
	Ping(ctx context.Context, host string, count int, timeout time.Duration) string
}

// Runner executes the probe sequence.
type Runner struct {
	log      zerolog.Logger
	facts    FactSource
	gateway  GatewayFinder
	pinger   HostPinger
	settings Settings
}

func NewRunner(log zerolog.Logger, facts FactSource, gw GatewayFinder, pinger HostPinger, settings Settings) *Runner {
	return &Runner{log: log, facts: facts, gateway: gw, pinger: pinger, settings: settings}
}

// RunAllChecks runs the full sequence and returns the assembled report.
// The context bounds the whole run: cancellation propagates into every
// subprocess and lookup still in flight.
func (r *Runner) RunAllChecks(ctx context.Context) *Report {
	rep := &Report{
		RunID:         uuid.NewString(),
		StartedAt:     time.Now(),
		IPAddress:     netfacts.NotAvailable,
		InterfaceName: netfacts.NotAvailable,
		LogonServer:   netfacts.NotAvailable,
		GatewayPing:   NotChecked,
	}

	log := r.log.With().Str("run_id", rep.RunID).Logger()
	log.Info().Msg("starting network diagnostics")

	rep.IPAddress, rep.InterfaceName = r.facts.LocalIPAndInterface()
	rep.LogonServer = r.facts.LogonServer()

	if gw, ok := r.gateway.Discover(ctx); ok {
		rep.Gateway = gw
		rep.GatewayPing = r.pinger.Ping(ctx, gw, r.settings.ProbeCount, r.settings.timeout())
	} else {
		rep.GatewayPing = GatewayNotFound
	}

	rep.DNSResults = r.resolveAll(ctx)

	rep.DurationMillis = time.Since(rep.StartedAt).Milliseconds()
	log.Info().Int64("duration_ms", rep.DurationMillis).Msg("network diagnostics completed")
	return rep
}

// resolveAll looks up every configured name. Results land in configured
// order even when the lookups themselves are fanned out.
func (r *Runner) resolveAll(ctx context.Context) []DNSResult {
	servers := r.settings.DNSServers
	results := make([]DNSResult, len(servers))

	if r.settings.ParallelDNS && len(servers) > 1 {
		ex := parallel.NewExecutor(ctx, 4)
		for i, host := range servers {
			// Pre-filled so a lookup dropped by cancellation still
			// leaves its slot populated.
			results[i] = DNSResult{Host: host, Result: NotChecked}
			ex.Go(host, func(ctx context.Context) error {
				results[i].Result = r.resolveOne(ctx, host)
				return nil
			})
		}
		ex.Wait()
		return results
	}

	for i, host := range servers {
		results[i] = DNSResult{Host: host, Result: r.resolveOne(ctx, host)}
	}
	return results
}

func (r *Runner) resolveOne(ctx context.Context, host string) string {
	out := r.facts.ResolveDNS(ctx, host, r.settings.timeout())
	if out.OK {
		return out.Payload
	}
	return out.Message
}
