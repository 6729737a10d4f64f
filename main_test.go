package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/asennott/netdiag/checkers"
	"github.com/asennott/netdiag/internal/cli"
	"github.com/asennott/netdiag/internal/config"
	"github.com/asennott/netdiag/internal/diag"
	"github.com/asennott/netdiag/internal/mcp"
	"github.com/asennott/netdiag/internal/output"
	"github.com/asennott/netdiag/internal/probe"
	"github.com/asennott/netdiag/internal/runner"
)

type stubFacts struct{}

func (stubFacts) LocalIPAndInterface() (string, string) { return "192.168.1.23", "eth0" }
func (stubFacts) LogonServer() string                   { return "N/A" }
func (stubFacts) ResolveDNS(ctx context.Context, host string, timeout time.Duration) probe.Outcome {
	return probe.Success("192.0.2.10")
}

type stubFinder struct {
	addr string
}

func (s stubFinder) Discover(ctx context.Context) (string, bool) {
	return s.addr, s.addr != ""
}

type stubPinger struct{}

func (stubPinger) Ping(ctx context.Context, host string, count int, timeout time.Duration) string {
	return "1 packets transmitted, 1 received"
}

func TestRunInvalidFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-count", "-1"}, &stdout, &stderr); code != 2 {
		t.Errorf("run() = %d, want 2", code)
	}
	if code := run([]string{"-quiet", "-verbose"}, &stdout, &stderr); code != 2 {
		t.Errorf("run() with -quiet -verbose = %d, want 2", code)
	}
}

func TestRunListChecks(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-list-checks"}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, stderr.String())
	}
	for _, c := range checkers.AllCheckers() {
		if !strings.Contains(stdout.String(), "-"+c.Name()) {
			t.Errorf("list output missing checker %q:\n%s", c.Name(), stdout.String())
		}
	}
}

func TestMergeSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netdiag.json")
	provider := config.Load(path, zerolog.Nop())

	t.Run("config defaults", func(t *testing.T) {
		got := mergeSettings(&cli.Config{}, provider)
		if got.ProbeCount != 1 || got.TimeoutSeconds != 5 {
			t.Errorf("defaults not applied: %+v", got)
		}
		if len(got.DNSServers) != 2 {
			t.Errorf("DNSServers = %v", got.DNSServers)
		}
	})

	t.Run("flag overrides", func(t *testing.T) {
		flags := &cli.Config{Count: 3, Timeout: 10, DNSServers: []string{"example.org"}, ParallelDNS: true}
		got := mergeSettings(flags, provider)
		if got.ProbeCount != 3 || got.TimeoutSeconds != 10 || !got.ParallelDNS {
			t.Errorf("overrides not applied: %+v", got)
		}
		if len(got.DNSServers) != 1 || got.DNSServers[0] != "example.org" {
			t.Errorf("DNSServers = %v", got.DNSServers)
		}
	})
}

func TestRenderPing(t *testing.T) {
	tests := []struct {
		name   string
		result string
		want   string
	}{
		{"not checked", diag.NotChecked, "⚠️"},
		{"gateway not found", diag.GatewayNotFound, "⚠️"},
		{"failure", "Ping failed (return code: 1)", "❌"},
		{"timeout", "Ping timeout after 5 seconds", "❌"},
		{"success", "64 bytes from 192.168.1.1\n1 packets transmitted", "✅ Gateway reachable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := output.NewBufferedOutput()
			renderPing(buf, tt.result)
			if got := buf.Text(); !strings.Contains(got, tt.want) {
				t.Errorf("renderPing(%q) = %q, want marker %q", tt.result, got, tt.want)
			}
		})
	}
}

func TestRenderReport(t *testing.T) {
	rep := &diag.Report{
		IPAddress:     "192.168.1.23",
		InterfaceName: "eth0",
		LogonServer:   "N/A",
		Gateway:       "192.168.1.1",
		GatewayPing:   "1 packets transmitted, 1 received",
		DNSResults: []diag.DNSResult{
			{Host: "google.com", Result: "142.250.74.78"},
			{Host: "internal.invalid", Result: "DNS resolution failed: no such host"},
		},
	}

	buf := output.NewBufferedOutput()
	renderReport(buf, rep)
	text := buf.Text()

	for _, want := range []string{
		"192.168.1.23 (eth0)",
		"192.168.1.1",
		"✅ google.com → 142.250.74.78",
		"❌ internal.invalid: DNS resolution failed: no such host",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q:\n%s", want, text)
		}
	}
}

func TestRenderReportNoGateway(t *testing.T) {
	rep := &diag.Report{
		IPAddress:     "N/A",
		InterfaceName: "N/A",
		LogonServer:   "N/A",
		GatewayPing:   diag.GatewayNotFound,
	}

	buf := output.NewBufferedOutput()
	renderReport(buf, rep)
	if !strings.Contains(buf.Text(), "No default gateway found") {
		t.Errorf("missing gateway warning:\n%s", buf.Text())
	}
}

func TestBuildMCPRegistryTools(t *testing.T) {
	settings := diag.Settings{ProbeCount: 1, TimeoutSeconds: 5, DNSServers: []string{"google.com"}}
	diagRunner := diag.NewRunner(zerolog.Nop(), stubFacts{}, stubFinder{addr: "192.168.1.1"}, stubPinger{}, settings)
	registry := buildMCPRegistry(diagRunner, stubFacts{}, stubFinder{addr: "192.168.1.1"}, stubPinger{}, settings, zerolog.Nop())

	names := registry.Names()
	has := func(name string) bool {
		for _, n := range names {
			if n == name {
				return true
			}
		}
		return false
	}

	for _, want := range []string{"run_diagnostics", "ping_host", "resolve_dns", "discover_gateway"} {
		if !has(want) {
			t.Errorf("registry missing core tool %q, have %v", want, names)
		}
	}
	for _, c := range checkers.AllCheckers() {
		if !has(c.MCPToolDefinition().Name) {
			t.Errorf("registry missing checker tool %q", c.MCPToolDefinition().Name)
		}
	}
}

func TestApplyToolInputStarlinkEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		wantErr bool
	}{
		{"default-style endpoint", "192.168.100.1:9200", false},
		{"other private host", "10.0.0.5:9200", false},
		{"shell metacharacters", "$(reboot);not-an-endpoint", true},
		{"no port", "192.168.100.1", true},
		{"public host", "8.8.8.8:9200", true},
		{"hostname", "dish.example.com:9200", true},
		{"bad port", "192.168.100.1:0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := runner.NewRunContext(context.Background())
			err := applyToolInput("starlink", &mcp.ToolInput{Target: tt.target}, rc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("applyToolInput(%q) error = %v, wantErr %v", tt.target, err, tt.wantErr)
			}
			if _, ok := rc.GetCheckerConfig("starlink"); ok == tt.wantErr {
				t.Errorf("config override stored = %v, want %v", ok, !tt.wantErr)
			}
		})
	}
}

func TestApplyToolInputDNSServerValidation(t *testing.T) {
	rc := runner.NewRunContext(context.Background())
	if err := applyToolInput("dnscheck", &mcp.ToolInput{DNSServer: "9.9.9.9"}, rc); err != nil {
		t.Fatalf("applyToolInput(valid server) = %v", err)
	}
	if _, ok := rc.GetCheckerConfig("dnscheck"); !ok {
		t.Error("valid server did not store a config override")
	}

	rc = runner.NewRunContext(context.Background())
	if err := applyToolInput("dnscheck", &mcp.ToolInput{DNSServer: "a;b"}, rc); err == nil {
		t.Error("applyToolInput accepted a shell metacharacter server")
	}
}
