package cli

import (
	"io"
	"reflect"
	"testing"
	"time"
)

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := ParseFlags(nil, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	if cfg.ConfigPath != "netdiag.json" {
		t.Errorf("ConfigPath = %q", cfg.ConfigPath)
	}
	if cfg.Count != 0 || cfg.Timeout != 0 {
		t.Errorf("count/timeout = %d/%d, want 0/0 (config decides)", cfg.Count, cfg.Timeout)
	}
	if len(cfg.DNSServers) != 0 {
		t.Errorf("DNSServers = %v, want empty", cfg.DNSServers)
	}
	if cfg.AnyCheckerRequested() {
		t.Error("a checker is requested with no flags")
	}
	if cfg.MDNSTimeout != time.Second {
		t.Errorf("MDNSTimeout = %s", cfg.MDNSTimeout)
	}
}

func TestParseFlagsOverrides(t *testing.T) {
	cfg, err := ParseFlags([]string{
		"-count", "3", "-timeout", "10",
		"-dns", "google.com", "-dns", "cloudflare.com",
		"-parallel-dns", "-json",
	}, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	if cfg.Count != 3 || cfg.Timeout != 10 {
		t.Errorf("count/timeout = %d/%d", cfg.Count, cfg.Timeout)
	}
	want := []string{"google.com", "cloudflare.com"}
	if !reflect.DeepEqual(cfg.DNSServers, []string(want)) {
		t.Errorf("DNSServers = %v, want %v (order preserved)", cfg.DNSServers, want)
	}
	if !cfg.ParallelDNS || !cfg.JSON {
		t.Error("boolean flags not set")
	}
}

func TestParseFlagsCheckerSelection(t *testing.T) {
	cfg, err := ParseFlags([]string{"-routes", "-dnscheck", "-dns-server", "9.9.9.9"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	if !cfg.CheckerRequested("routes") || !cfg.CheckerRequested("dnscheck") {
		t.Error("requested checkers not reported")
	}
	if cfg.CheckerRequested("mdns") {
		t.Error("mdns reported requested without its flag")
	}
	if cfg.DNSServer != "9.9.9.9" {
		t.Errorf("DNSServer = %q", cfg.DNSServer)
	}
}

func TestParseFlagsAllChecks(t *testing.T) {
	cfg, err := ParseFlags([]string{"-all-checks"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	for _, name := range []string{"routes", "mdns", "external", "dnscheck", "ipv6", "identify", "starlink"} {
		if !cfg.CheckerRequested(name) {
			t.Errorf("-all-checks does not select %s", name)
		}
	}
}

func TestParseFlagsRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"negative count", []string{"-count", "-2"}},
		{"negative timeout", []string{"-timeout", "-1"}},
		{"quiet and verbose", []string{"-quiet", "-verbose"}},
		{"unknown flag", []string{"-bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFlags(tt.args, io.Discard); err == nil {
				t.Errorf("ParseFlags(%v) accepted invalid input", tt.args)
			}
		})
	}
}
