// Package runner carries shared state from the core diagnostic run into
// the supplementary checkers.
//
// The core run already discovered the local address and default gateway;
// RunContext hands those facts to checkers so none of them repeats the
// discovery, along with timeouts and per-checker configuration:
//
//	rc := runner.NewRunContext(ctx).
//	    WithGateway(report.Gateway).
//	    WithLocalAddress(report.IPAddress, report.InterfaceName).
//	    WithProbeTimeout(5 * time.Second)
package runner

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RunContext is the execution context shared by all checkers in one run.
type RunContext struct {
	Ctx            context.Context
	Log            zerolog.Logger
	Gateway        string
	LocalIP        string
	InterfaceName  string
	GlobalTimeout  time.Duration
	ProbeTimeout   time.Duration
	CheckerConfigs map[string]interface{}
}

func NewRunContext(ctx context.Context) *RunContext {
	return &RunContext{
		Ctx:            ctx,
		Log:            zerolog.Nop(),
		CheckerConfigs: make(map[string]interface{}),
	}
}

// WithLogger attaches the structured logger checkers report through.
func (rc *RunContext) WithLogger(log zerolog.Logger) *RunContext {
	rc.Log = log
	return rc
}

// WithGateway records the discovered gateway address; empty means none
// was found and gateway-dependent checkers will be skipped.
func (rc *RunContext) WithGateway(gateway string) *RunContext {
	rc.Gateway = gateway
	return rc
}

// WithLocalAddress records the host's active address and interface.
func (rc *RunContext) WithLocalAddress(ip, iface string) *RunContext {
	rc.LocalIP = ip
	rc.InterfaceName = iface
	return rc
}

// WithGlobalTimeout bounds the whole checker phase.
func (rc *RunContext) WithGlobalTimeout(timeout time.Duration) *RunContext {
	rc.GlobalTimeout = timeout
	return rc
}

// WithProbeTimeout bounds individual network operations inside checkers.
func (rc *RunContext) WithProbeTimeout(timeout time.Duration) *RunContext {
	rc.ProbeTimeout = timeout
	return rc
}

func (rc *RunContext) SetCheckerConfig(checkerName string, config interface{}) {
	rc.CheckerConfigs[checkerName] = config
}

func (rc *RunContext) GetCheckerConfig(checkerName string) (interface{}, bool) {
	config, ok := rc.CheckerConfigs[checkerName]
	return config, ok
}

// HasGateway reports whether the core run discovered a gateway.
func (rc *RunContext) HasGateway() bool {
	return rc.Gateway != ""
}
