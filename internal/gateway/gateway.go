// Package gateway discovers the default gateway address by scraping
// routing output from the platform's inspection command.
//
// Command output here is OS and locale dependent, so parsing is
// deliberately forgiving: a line that does not match is skipped, and a
// dump with no match means "no gateway", never an error. Each platform's
// parsing lives behind a pure function so it can be tested against
// captured fixtures without spawning anything.
package gateway

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/asennott/netdiag/internal/execx"
)

// Strategy names the inspection command for one OS family and parses its
// output. Parse is pure: text in, address out.
type Strategy interface {
	Command() (name string, args []string)
	Parse(output string) (addr string, ok bool)
}

// ForOS picks the strategy for an OS family once, at startup. Windows
// labels the gateway inside an interface-configuration dump; everything
// else is expected to have an iproute2-style routing table.
func ForOS(goos string) Strategy {
	if goos == "windows" {
		return interfaceConfig{}
	}
	return routeTable{}
}

// routeTable parses `ip route` output: the first line starting with
// "default via" carries the gateway as its third field.
type routeTable struct{}

func (routeTable) Command() (string, []string) { return "ip", []string{"route"} }

func (routeTable) Parse(output string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.HasPrefix(line, "default via") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 3 {
			return fields[2], true
		}
	}
	return "", false
}

// interfaceConfig parses `ipconfig` output: the first "Default Gateway"
// line with enough tokens to carry a value yields the gateway as its last
// field. Matching lines that are too short (label but no address) are
// skipped rather than treated as errors.
type interfaceConfig struct{}

func (interfaceConfig) Command() (string, []string) { return "ipconfig", nil }

func (interfaceConfig) Parse(output string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "Default Gateway") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 4 {
			return fields[len(fields)-1], true
		}
	}
	return "", false
}

// Discoverer runs the platform strategy against the live system.
type Discoverer struct {
	log      zerolog.Logger
	runner   execx.Runner
	strategy Strategy
	timeout  time.Duration
}

func NewDiscoverer(log zerolog.Logger, runner execx.Runner, strategy Strategy, timeout time.Duration) *Discoverer {
	return &Discoverer{log: log, runner: runner, strategy: strategy, timeout: timeout}
}

// Discover returns the default gateway, or ok=false when the command
// failed or no default route exists. Absence is a normal condition
// (air-gapped hosts, VPN-only routing) and is logged, not returned as an
// error. Output is scraped regardless of the command's exit code.
func (d *Discoverer) Discover(ctx context.Context) (string, bool) {
	name, args := d.strategy.Command()

	out := d.runner.Run(ctx, name, args, d.timeout)
	if !out.OK {
		d.log.Error().Str("kind", out.Kind.String()).Str("detail", out.Message).Msg("gateway discovery command failed")
		return "", false
	}

	addr, ok := d.strategy.Parse(out.Payload)
	if !ok {
		d.log.Warn().Msg("default gateway not found")
		return "", false
	}

	d.log.Info().Str("gateway", addr).Msg("found default gateway")
	return addr, true
}
