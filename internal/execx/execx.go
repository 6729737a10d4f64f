// Package execx runs external diagnostic commands with bounded timeouts.
//
// Commands are always invoked with a discrete argument vector. There is no
// shell anywhere in this package, so hostnames and addresses taken from
// configuration or probe results cannot be used for injection.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/asennott/netdiag/internal/probe"
)

// Runner executes one external command per call.
type Runner interface {
	Run(ctx context.Context, name string, args []string, timeout time.Duration) probe.Outcome
}

// CommandRunner is the production Runner backed by os/exec. Each call
// spawns exactly one child process; on timeout the child is killed, not
// abandoned.
type CommandRunner struct {
	log zerolog.Logger
}

func NewCommandRunner(log zerolog.Logger) *CommandRunner {
	return &CommandRunner{log: log}
}

// Run executes name with args and returns a completed Outcome once the
// process exits or the timeout fires. A nonzero exit code is a completed
// run, not a failure: the caller decides what the code means.
func (r *CommandRunner) Run(ctx context.Context, name string, args []string, timeout time.Duration) probe.Outcome {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.log.Debug().Str("cmd", name).Strs("args", args).Dur("timeout", timeout).Msg("running command")

	err := cmd.Run()
	if stderr.Len() > 0 {
		r.log.Debug().Str("cmd", name).Str("stderr", strings.TrimSpace(stderr.String())).Msg("command stderr")
	}

	switch {
	case err == nil:
		return probe.Exited(stdout.String(), 0)

	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		r.log.Warn().Str("cmd", name).Dur("timeout", timeout).Msg("command timed out")
		return probe.Failure(probe.KindTimeout, fmt.Sprintf("%s timed out after %s", name, timeout))

	case errors.Is(runCtx.Err(), context.Canceled):
		return probe.Failure(probe.KindUnknown, fmt.Sprintf("%s canceled", name))

	case errors.Is(err, exec.ErrNotFound):
		r.log.Error().Str("cmd", name).Msg("command not found")
		return probe.Failure(probe.KindNotFound, fmt.Sprintf("%s: command not found", name))

	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return probe.Exited(stdout.String(), exitErr.ExitCode())
		}
		msg := err.Error()
		if s := strings.TrimSpace(stderr.String()); s != "" {
			msg = fmt.Sprintf("%s: %s", msg, s)
		}
		r.log.Error().Str("cmd", name).Str("error", msg).Msg("command failed")
		return probe.Failure(probe.KindUnknown, msg)
	}
}
