package starlink

import (
	"time"

	"github.com/asennott/netdiag/internal/checker"
	"github.com/asennott/netdiag/internal/output"
	"github.com/asennott/netdiag/internal/runner"
	starlinklib "github.com/asennott/netdiag/internal/starlink"
)

type StarlinkChecker struct{}

type StarlinkConfig struct {
	Endpoint string
}

func NewStarlinkChecker() checker.Checker {
	return &StarlinkChecker{}
}

func (c *StarlinkChecker) Name() string {
	return "starlink"
}

func (c *StarlinkChecker) Description() string {
	return "Starlink dish detection and telemetry"
}

func (c *StarlinkChecker) Icon() string {
	return "🛰️"
}

func (c *StarlinkChecker) DefaultConfig() checker.CheckerConfig {
	return StarlinkConfig{Endpoint: starlinklib.DefaultEndpoint}
}

func (c *StarlinkChecker) RequiresGateway() bool {
	return false
}

func (c *StarlinkChecker) DefaultEnabled() bool {
	return false
}

func (c *StarlinkChecker) Run(rc *runner.RunContext, config checker.CheckerConfig, out output.Output) {
	cfg := config.(StarlinkConfig)
	checkStarlink(rc, cfg, out)
}

func (c *StarlinkChecker) MCPToolDefinition() *checker.MCPTool {
	return &checker.MCPTool{
		Name:        "check_starlink",
		Description: "Detect a Starlink dish on the local network and report its telemetry",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"target": map[string]interface{}{
					"type":        "string",
					"description": "Dish gRPC endpoint (default 192.168.100.1:9200)",
				},
			},
			"required": []string{},
		},
	}
}

func checkStarlink(rc *runner.RunContext, cfg StarlinkConfig, out output.Output) {
	out.Section("🛰️", "Starlink dish")

	client, err := starlinklib.Dial(cfg.Endpoint, rc.Log)
	if err != nil {
		out.Info("ℹ️  No Starlink dish at %s", cfg.Endpoint)
		return
	}
	defer client.Close()

	status, err := client.GetStatus(rc.Ctx)
	if err != nil {
		rc.Log.Warn().Err(err).Msg("dish reachable but status query failed")
		out.Warning("Dish reachable but status query failed: %v", err)
		return
	}

	out.Success("Dish detected at %s", cfg.Endpoint)
	if status.HardwareVersion != "" {
		out.Info("🔧 Hardware: %s", status.HardwareVersion)
	}
	if status.SoftwareVersion != "" {
		out.Info("💾 Software: %s", status.SoftwareVersion)
	}
	if status.UptimeS > 0 {
		out.Detail("Uptime: %s", (time.Duration(status.UptimeS) * time.Second).String())
	}
	if status.PopPingLatencyMs > 0 {
		out.Detail("POP latency: %.1f ms", status.PopPingLatencyMs)
	}
	if status.DownlinkThroughputBps > 0 || status.UplinkThroughputBps > 0 {
		out.Detail("Throughput: %.1f Mbps down / %.1f Mbps up",
			status.DownlinkThroughputBps/1e6, status.UplinkThroughputBps/1e6)
	}
	if status.CurrentlyObstructed {
		out.Warning("Dish is currently obstructed (%.1f%% of sky)", status.FractionObstructed*100)
	} else if status.FractionObstructed > 0 {
		out.Detail("Obstruction: %.1f%% of sky", status.FractionObstructed*100)
	}
}
