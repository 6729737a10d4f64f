// Package pingx checks host reachability through the platform ping
// binary.
package pingx

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/asennott/netdiag/internal/execx"
	"github.com/asennott/netdiag/internal/probe"
)

// Pinger runs the system ping utility. Every outcome, including execution
// failure, is rendered to a displayable string; Ping never returns an
// error value.
type Pinger struct {
	log    zerolog.Logger
	runner execx.Runner
	goos   string
}

func NewPinger(log zerolog.Logger, runner execx.Runner) *Pinger {
	return &Pinger{log: log, runner: runner, goos: runtime.GOOS}
}

// Args builds the ping argv for an OS family. The count flag is spelled
// -n on Windows and -c everywhere else. The host is always its own argv
// token, never spliced into another string.
func Args(goos, host string, count int) (string, []string) {
	countFlag := "-c"
	if goos == "windows" {
		countFlag = "-n"
	}
	return "ping", []string{countFlag, strconv.Itoa(count), host}
}

// Ping sends count echo requests to host and returns the raw ping output
// on success, or a human-readable failure line.
func (p *Pinger) Ping(ctx context.Context, host string, count int, timeout time.Duration) string {
	name, args := Args(p.goos, host, count)
	p.log.Debug().Str("host", host).Int("count", count).Msg("pinging")

	out := p.runner.Run(ctx, name, args, timeout)
	switch {
	case out.OK && out.ExitCode == 0:
		p.log.Info().Str("host", host).Msg("ping successful")
		return out.Payload

	case out.OK:
		p.log.Warn().Str("host", host).Int("exit_code", out.ExitCode).Msg("ping failed")
		return fmt.Sprintf("Ping failed (return code: %d)", out.ExitCode)

	case out.Kind == probe.KindTimeout:
		msg := fmt.Sprintf("Ping timeout after %d seconds", int(timeout.Seconds()))
		p.log.Error().Str("host", host).Msg(msg)
		return msg

	case out.Kind == probe.KindNotFound:
		p.log.Error().Msg("Ping command not found")
		return "Ping command not found"

	default:
		msg := fmt.Sprintf("Ping error: %s", out.Message)
		p.log.Error().Str("host", host).Msg(msg)
		return msg
	}
}
